package catalog

import (
	"github.com/apecloud/mycatalog/types"
)

// Model is a named ML model with declared input and output columns.
// Unlike tables, models accept neither anonymous nor duplicate names.
type Model struct {
	name string

	inputs  []*Column
	outputs []*Column
	byName  map[string]bool
}

var _ Object = (*Model)(nil)

func NewModel(name string) *Model {
	return &Model{
		name:   name,
		byName: make(map[string]bool),
	}
}

// Name implements Object.
func (m *Model) Name() string { return m.name }

// Kind implements Object.
func (m *Model) Kind() Kind { return KindModel }

// AddInput declares an input column. Names are unique across both the
// input and output lists, case-insensitively.
func (m *Model) AddInput(name string, typ types.Type) error {
	col, err := m.addColumn(name, typ)
	if err != nil {
		return err
	}
	m.inputs = append(m.inputs, col)
	return nil
}

// AddOutput declares an output column.
func (m *Model) AddOutput(name string, typ types.Type) error {
	col, err := m.addColumn(name, typ)
	if err != nil {
		return err
	}
	m.outputs = append(m.outputs, col)
	return nil
}

func (m *Model) addColumn(name string, typ types.Type) (*Column, error) {
	if name == "" {
		return nil, ErrAnonymousColumn.New(m.name)
	}
	key := normalizeName(name)
	if m.byName[key] {
		return nil, ErrDuplicateColumn.New(name, m.name)
	}
	m.byName[key] = true
	return NewColumn(name, typ), nil
}

func (m *Model) Inputs() []*Column {
	out := make([]*Column, len(m.inputs))
	copy(out, m.inputs)
	return out
}

func (m *Model) Outputs() []*Column {
	out := make([]*Column, len(m.outputs))
	copy(out, m.outputs)
	return out
}
