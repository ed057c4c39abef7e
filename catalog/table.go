package catalog

import (
	"context"

	"github.com/apecloud/mycatalog/types"
)

// RowSource produces the rows of a table on demand, typically by
// querying the system the table was imported from.
type RowSource func(ctx context.Context) ([][]types.Value, error)

// Column describes one column of a Table or Model. It is a plain data
// record; the owning table enforces the naming rules.
type Column struct {
	Name string
	Type types.Type

	// IsPseudo marks columns that resolve by name but do not appear in
	// SELECT * expansions, such as the hidden keys of a value table.
	IsPseudo bool
}

func NewColumn(name string, typ types.Type) *Column {
	return &Column{Name: name, Type: typ}
}

// Table is a named schema object holding an ordered column list.
//
// Tables are assembled before they are registered in a Catalog and must
// not be mutated afterwards; the catalog's locks do not cover them.
type Table struct {
	name string

	columns       []*Column
	columnsByName map[string]*Column

	isValueTable bool

	allowAnonymous bool
	anonymousAdded bool
	allowDuplicate bool
	duplicateAdded bool

	rowSource RowSource
}

var _ Object = (*Table)(nil)

func NewTable(name string, columns ...*Column) (*Table, error) {
	t := &Table{
		name:          name,
		columnsByName: make(map[string]*Column),
	}
	for _, col := range columns {
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Name implements Object.
func (t *Table) Name() string { return t.name }

// Kind implements Object.
func (t *Table) Kind() Kind { return KindTable }

// AddColumn appends col to the table. Anonymous (empty) and duplicate
// names are rejected unless the matching policy has been enabled.
func (t *Table) AddColumn(col *Column) error {
	if col.Name == "" {
		if !t.allowAnonymous {
			return ErrAnonymousColumn.New(t.name)
		}
		t.anonymousAdded = true
		t.columns = append(t.columns, col)
		return nil
	}
	key := normalizeName(col.Name)
	if _, ok := t.columnsByName[key]; ok {
		if !t.allowDuplicate {
			return ErrDuplicateColumn.New(col.Name, t.name)
		}
		t.duplicateAdded = true
		// The name is now ambiguous: no spelling of it resolves by name
		// anymore, though every column stays in the ordered list.
		delete(t.columnsByName, key)
		t.columns = append(t.columns, col)
		return nil
	}
	t.columnsByName[key] = col
	t.columns = append(t.columns, col)
	return nil
}

// Columns returns the ordered column list, including any columns whose
// names have become ambiguous.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) NumColumns() int { return len(t.columns) }

// Column returns the i-th column in insertion order.
func (t *Table) Column(i int) *Column { return t.columns[i] }

// FindColumn resolves a column by name, case-insensitively. Anonymous
// columns and names shared by several columns do not resolve.
func (t *Table) FindColumn(name string) (*Column, bool) {
	col, ok := t.columnsByName[normalizeName(name)]
	return col, ok
}

// IsValueTable reports whether the table produces a single unnamed value
// per row rather than a column tuple.
func (t *Table) IsValueTable() bool { return t.isValueTable }

func (t *Table) SetIsValueTable(v bool) { t.isValueTable = v }

// SetAllowAnonymousColumns toggles acceptance of empty column names.
// Disabling the policy after an anonymous column was added would leave
// the table in a state the policy rules out, so that panics.
func (t *Table) SetAllowAnonymousColumns(allow bool) {
	if !allow && t.anonymousAdded {
		panic(ErrColumnPolicy.New("anonymous", t.name))
	}
	t.allowAnonymous = allow
}

func (t *Table) AllowAnonymousColumns() bool { return t.allowAnonymous }

// SetAllowDuplicateColumns toggles acceptance of repeated column names.
// Disabling the policy after a duplicate was added panics.
func (t *Table) SetAllowDuplicateColumns(allow bool) {
	if !allow && t.duplicateAdded {
		panic(ErrColumnPolicy.New("duplicate", t.name))
	}
	t.allowDuplicate = allow
}

func (t *Table) AllowDuplicateColumns() bool { return t.allowDuplicate }

// SetRowSource attaches an engine-supplied row producer used when the
// table is scanned in-process. The callback is runtime state, not
// schema: serializing the table drops it.
func (t *Table) SetRowSource(fn RowSource) { t.rowSource = fn }

func (t *Table) RowSource() RowSource { return t.rowSource }
