package catalog

import (
	"time"

	"github.com/apecloud/mycatalog/metrics"
	"github.com/apecloud/mycatalog/types"
)

// SerializeOptions controls what a catalog record includes.
type SerializeOptions struct {
	// IncludeBuiltins serializes builtin functions inline. When false,
	// builtin entries and their namespace sub-catalogs are skipped and
	// the recorded BuiltinOptions are written instead, so the receiving
	// side can re-run LoadBuiltins.
	IncludeBuiltins bool

	// IncludeSubcatalogs descends into nested catalogs.
	IncludeSubcatalogs bool
}

// CatalogRecord is the portable form of one catalog node. Entry lists
// are ordered by normalized name, so serializing the same catalog twice
// yields identical records.
type CatalogRecord struct {
	Name           string
	Tables         []*TableRecord         `json:",omitempty"`
	Models         []*ModelRecord         `json:",omitempty"`
	Connections    []*ConnectionRecord    `json:",omitempty"`
	NamedTypes     []*NamedTypeRecord     `json:",omitempty"`
	Functions      []*FunctionRecord      `json:",omitempty"`
	TableFunctions []*TableFunctionRecord `json:",omitempty"`
	Procedures     []*ProcedureRecord     `json:",omitempty"`
	Constants      []*ConstantRecord      `json:",omitempty"`
	Catalogs       []*CatalogRecord       `json:",omitempty"`
	BuiltinOptions *BuiltinOptionsRecord  `json:",omitempty"`
}

type TableRecord struct {
	Name                  string
	Columns               []*ColumnRecord `json:",omitempty"`
	IsValueTable          bool            `json:",omitempty"`
	AllowAnonymousColumns bool            `json:",omitempty"`
	AllowDuplicateColumns bool            `json:",omitempty"`
}

type ColumnRecord struct {
	Name     string            `json:",omitempty"`
	Type     *types.TypeRecord `json:",omitempty"`
	IsPseudo bool              `json:",omitempty"`
}

type ModelRecord struct {
	Name    string
	Inputs  []*ColumnRecord `json:",omitempty"`
	Outputs []*ColumnRecord `json:",omitempty"`
}

type ConnectionRecord struct {
	Name   string
	Driver string `json:",omitempty"`
	DSN    string `json:",omitempty"`
}

type NamedTypeRecord struct {
	Name string
	Type *types.TypeRecord
}

type ArgumentRecord struct {
	Name     string            `json:",omitempty"`
	Type     *types.TypeRecord `json:",omitempty"`
	Repeated bool              `json:",omitempty"`
}

type SignatureRecord struct {
	Args   []*ArgumentRecord `json:",omitempty"`
	Result *types.TypeRecord `json:",omitempty"`
}

type FunctionRecord struct {
	Name       string
	Group      string             `json:",omitempty"`
	Signatures []*SignatureRecord `json:",omitempty"`
}

type TableFunctionRecord struct {
	Name    string
	Group   string            `json:",omitempty"`
	Args    []*ArgumentRecord `json:",omitempty"`
	Outputs []*ColumnRecord   `json:",omitempty"`
}

type ProcedureRecord struct {
	Name      string
	Signature *SignatureRecord `json:",omitempty"`
}

type ConstantRecord struct {
	NamePath []string
	Type     *types.TypeRecord
	Value    string
}

type BuiltinOptionsRecord struct {
	IncludeFamilies  []string `json:",omitempty"`
	ExcludeFunctions []string `json:",omitempty"`
}

// Serialize converts the catalog to a portable record. Types are not
// embedded directly: each proto or enum type writes its file descriptors
// into fdsets, keyed by originating pool, and the record refers to them
// by pool index and full name. Passing nil allocates a fresh accumulator
// whose contents are then unreachable, so callers that need the
// descriptors must supply their own.
//
// The traversal threads a visited set keyed by catalog identity through
// the tree. A catalog reached twice, whether via a cycle or via two
// parents sharing it, is serialized only the first time and silently
// skipped after that.
//
// Ownership is a local-process concern and does not survive: every entry
// serializes identically whether owned or borrowed.
func (c *Catalog) Serialize(fdsets *types.FileDescriptorSetMap, opts SerializeOptions) (*CatalogRecord, error) {
	start := time.Now()
	if fdsets == nil {
		fdsets = types.NewFileDescriptorSetMap()
	}
	rec, err := c.serializeInto(fdsets, opts, map[*Catalog]bool{c: true})
	if err == nil {
		metrics.ObserveSerialize(time.Since(start).Seconds())
	}
	return rec, err
}

type subCatalogEntry struct {
	cat     *Catalog
	builtin bool
}

func (c *Catalog) serializeInto(fdsets *types.FileDescriptorSetMap, opts SerializeOptions, visited map[*Catalog]bool) (*CatalogRecord, error) {
	// Copy everything needed out of the catalog under its own read
	// lock, then build the record unlocked. Sub-catalog recursion must
	// not run under this lock.
	c.mu.RLock()
	rec := &CatalogRecord{Name: c.name}
	tables := c.tables.values()
	models := c.models.values()
	connections := c.connections.values()
	namedTypeKeys := c.namedTypes.sortedKeys()
	namedTypes := make([]NamedType, 0, len(namedTypeKeys))
	for _, k := range namedTypeKeys {
		e := c.namedTypes.entries[k]
		namedTypes = append(namedTypes, NamedType{Name: e.name, Type: e.value})
	}
	functions := c.functions.values()
	tableFuncs := c.tableFuncs.values()
	procedures := c.procedures.values()
	constants := c.constants.values()
	var subs []subCatalogEntry
	for _, k := range c.catalogs.sortedKeys() {
		e := c.catalogs.entries[k]
		_, builtin := c.builtinNamespaces[k]
		subs = append(subs, subCatalogEntry{cat: e.value, builtin: builtin})
	}
	var builtinOpts *BuiltinOptions
	if c.builtinOptions != nil {
		o := *c.builtinOptions
		builtinOpts = &o
	}
	c.mu.RUnlock()

	for _, t := range tables {
		tr, err := serializeTable(t, fdsets)
		if err != nil {
			return nil, err
		}
		rec.Tables = append(rec.Tables, tr)
	}
	for _, m := range models {
		mr, err := serializeModel(m, fdsets)
		if err != nil {
			return nil, err
		}
		rec.Models = append(rec.Models, mr)
	}
	for _, conn := range connections {
		rec.Connections = append(rec.Connections, &ConnectionRecord{
			Name:   conn.Name(),
			Driver: conn.Driver(),
			DSN:    conn.DSN(),
		})
	}
	for _, nt := range namedTypes {
		tr, err := types.SerializeType(nt.Type, fdsets)
		if err != nil {
			return nil, err
		}
		rec.NamedTypes = append(rec.NamedTypes, &NamedTypeRecord{Name: nt.Name, Type: tr})
	}
	for _, f := range functions {
		if !opts.IncludeBuiltins && f.IsBuiltin() {
			continue
		}
		fr, err := serializeFunction(f, fdsets)
		if err != nil {
			return nil, err
		}
		rec.Functions = append(rec.Functions, fr)
	}
	for _, f := range tableFuncs {
		if !opts.IncludeBuiltins && f.IsBuiltin() {
			continue
		}
		fr, err := serializeTableFunction(f, fdsets)
		if err != nil {
			return nil, err
		}
		rec.TableFunctions = append(rec.TableFunctions, fr)
	}
	for _, p := range procedures {
		sig, err := serializeSignature(p.Signature(), fdsets)
		if err != nil {
			return nil, err
		}
		rec.Procedures = append(rec.Procedures, &ProcedureRecord{Name: p.Name(), Signature: sig})
	}
	for _, k := range constants {
		kr, err := serializeConstant(k, fdsets)
		if err != nil {
			return nil, err
		}
		rec.Constants = append(rec.Constants, kr)
	}

	if opts.IncludeSubcatalogs {
		for _, se := range subs {
			if se.builtin && !opts.IncludeBuiltins {
				continue
			}
			if visited[se.cat] {
				continue
			}
			visited[se.cat] = true
			subRec, err := se.cat.serializeInto(fdsets, opts, visited)
			if err != nil {
				return nil, err
			}
			rec.Catalogs = append(rec.Catalogs, subRec)
		}
	}

	if !opts.IncludeBuiltins && builtinOpts != nil {
		rec.BuiltinOptions = &BuiltinOptionsRecord{
			IncludeFamilies:  builtinOpts.IncludeFamilies,
			ExcludeFunctions: builtinOpts.ExcludeFunctions,
		}
	}
	return rec, nil
}

func serializeColumn(col *Column, fdsets *types.FileDescriptorSetMap) (*ColumnRecord, error) {
	if col.Type == nil {
		return nil, ErrInvalidArgument.New("column " + col.Name + " has no type")
	}
	tr, err := types.SerializeType(col.Type, fdsets)
	if err != nil {
		return nil, err
	}
	return &ColumnRecord{Name: col.Name, Type: tr, IsPseudo: col.IsPseudo}, nil
}

func serializeColumns(cols []*Column, fdsets *types.FileDescriptorSetMap) ([]*ColumnRecord, error) {
	out := make([]*ColumnRecord, 0, len(cols))
	for _, col := range cols {
		cr, err := serializeColumn(col, fdsets)
		if err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, nil
}

func serializeTable(t *Table, fdsets *types.FileDescriptorSetMap) (*TableRecord, error) {
	cols, err := serializeColumns(t.Columns(), fdsets)
	if err != nil {
		return nil, err
	}
	return &TableRecord{
		Name:                  t.Name(),
		Columns:               cols,
		IsValueTable:          t.IsValueTable(),
		AllowAnonymousColumns: t.AllowAnonymousColumns(),
		AllowDuplicateColumns: t.AllowDuplicateColumns(),
	}, nil
}

func serializeModel(m *Model, fdsets *types.FileDescriptorSetMap) (*ModelRecord, error) {
	inputs, err := serializeColumns(m.Inputs(), fdsets)
	if err != nil {
		return nil, err
	}
	outputs, err := serializeColumns(m.Outputs(), fdsets)
	if err != nil {
		return nil, err
	}
	return &ModelRecord{Name: m.Name(), Inputs: inputs, Outputs: outputs}, nil
}

func serializeSignature(sig Signature, fdsets *types.FileDescriptorSetMap) (*SignatureRecord, error) {
	rec := &SignatureRecord{}
	for _, arg := range sig.Args {
		ar := &ArgumentRecord{Name: arg.Name, Repeated: arg.Repeated}
		if arg.Type != nil {
			tr, err := types.SerializeType(arg.Type, fdsets)
			if err != nil {
				return nil, err
			}
			ar.Type = tr
		}
		rec.Args = append(rec.Args, ar)
	}
	if sig.Result != nil {
		tr, err := types.SerializeType(sig.Result, fdsets)
		if err != nil {
			return nil, err
		}
		rec.Result = tr
	}
	return rec, nil
}

func serializeFunction(f *Function, fdsets *types.FileDescriptorSetMap) (*FunctionRecord, error) {
	rec := &FunctionRecord{Name: f.Name(), Group: f.Group()}
	for _, sig := range f.Signatures() {
		sr, err := serializeSignature(sig, fdsets)
		if err != nil {
			return nil, err
		}
		rec.Signatures = append(rec.Signatures, sr)
	}
	return rec, nil
}

func serializeTableFunction(f *TableFunction, fdsets *types.FileDescriptorSetMap) (*TableFunctionRecord, error) {
	rec := &TableFunctionRecord{Name: f.Name(), Group: f.Group()}
	for _, arg := range f.Args() {
		ar := &ArgumentRecord{Name: arg.Name, Repeated: arg.Repeated}
		if arg.Type != nil {
			tr, err := types.SerializeType(arg.Type, fdsets)
			if err != nil {
				return nil, err
			}
			ar.Type = tr
		}
		rec.Args = append(rec.Args, ar)
	}
	outputs, err := serializeColumns(f.Outputs(), fdsets)
	if err != nil {
		return nil, err
	}
	rec.Outputs = outputs
	return rec, nil
}

func serializeConstant(k *Constant, fdsets *types.FileDescriptorSetMap) (*ConstantRecord, error) {
	v := k.Value()
	if v.Type() == nil {
		return nil, ErrInvalidArgument.New("constant " + k.FullName() + " has no type")
	}
	tr, err := types.SerializeType(v.Type(), fdsets)
	if err != nil {
		return nil, err
	}
	return &ConstantRecord{NamePath: k.NamePath(), Type: tr, Value: v.Encode()}, nil
}
