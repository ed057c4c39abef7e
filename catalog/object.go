package catalog

// Kind identifies the namespace an entry lives in. Each kind has its own
// name table inside a Catalog, so a table and a function may share a name.
type Kind uint8

const (
	KindTable Kind = iota
	KindModel
	KindConnection
	KindType
	KindFunction
	KindTableFunction
	KindProcedure
	KindConstant
	KindCatalog
)

var kindNames = map[Kind]string{
	KindTable:         "table",
	KindModel:         "model",
	KindConnection:    "connection",
	KindType:          "type",
	KindFunction:      "function",
	KindTableFunction: "table-valued function",
	KindProcedure:     "procedure",
	KindConstant:      "constant",
	KindCatalog:       "catalog",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Object is the common surface of every named entry a Catalog can hold.
// Names keep their declared spelling; matching is case-insensitive.
type Object interface {
	Name() string
	Kind() Kind
}

var (
	_ Object = (*Table)(nil)
	_ Object = (*Model)(nil)
	_ Object = (*Connection)(nil)
	_ Object = (*Function)(nil)
	_ Object = (*TableFunction)(nil)
	_ Object = (*Procedure)(nil)
	_ Object = (*Constant)(nil)
	_ Object = (*Catalog)(nil)
)
