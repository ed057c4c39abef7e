package catalog

import (
	"strings"

	"github.com/apecloud/mycatalog/types"
)

// BuiltinGroup is the Group value stamped on every function installed by
// LoadBuiltins. Serialization uses it to tell builtin entries apart from
// user-registered ones.
const BuiltinGroup = "builtin"

// Argument is one parameter of a function signature.
type Argument struct {
	Name string
	Type types.Type

	// Repeated marks a trailing variadic parameter.
	Repeated bool
}

// Signature pairs an argument list with a result type. Procedures and
// table-valued functions leave Result nil.
type Signature struct {
	Args   []Argument
	Result types.Type
}

// String renders the signature for diagnostics, e.g. "(int64, string...) -> bool".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, arg := range s.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		if arg.Type != nil {
			b.WriteString(arg.Type.String())
		} else {
			b.WriteString("any")
		}
		if arg.Repeated {
			b.WriteString("...")
		}
	}
	b.WriteByte(')')
	if s.Result != nil {
		b.WriteString(" -> ")
		b.WriteString(s.Result.String())
	}
	return b.String()
}

// Function is a named scalar or aggregate function with one or more
// overloaded signatures.
type Function struct {
	name       string
	group      string
	signatures []Signature
}

var _ Object = (*Function)(nil)

func NewFunction(name string, signatures ...Signature) *Function {
	return &Function{name: name, signatures: signatures}
}

// Name implements Object.
func (f *Function) Name() string { return f.name }

// Kind implements Object.
func (f *Function) Kind() Kind { return KindFunction }

// Group is a free-form label for the function's origin.
func (f *Function) Group() string { return f.group }

func (f *Function) SetGroup(group string) { f.group = group }

// IsBuiltin reports whether the function was installed by LoadBuiltins.
func (f *Function) IsBuiltin() bool { return f.group == BuiltinGroup }

func (f *Function) AddSignature(sig Signature) { f.signatures = append(f.signatures, sig) }

func (f *Function) Signatures() []Signature {
	out := make([]Signature, len(f.signatures))
	copy(out, f.signatures)
	return out
}

func (f *Function) NumSignatures() int { return len(f.signatures) }

// TableFunction is a named table-valued function: it takes scalar
// arguments and produces rows with a fixed output schema.
type TableFunction struct {
	name    string
	group   string
	args    []Argument
	outputs []*Column
}

var _ Object = (*TableFunction)(nil)

func NewTableFunction(name string, args []Argument, outputs []*Column) *TableFunction {
	return &TableFunction{name: name, args: args, outputs: outputs}
}

// Name implements Object.
func (f *TableFunction) Name() string { return f.name }

// Kind implements Object.
func (f *TableFunction) Kind() Kind { return KindTableFunction }

func (f *TableFunction) Group() string { return f.group }

func (f *TableFunction) SetGroup(group string) { f.group = group }

// IsBuiltin reports whether the function was installed by LoadBuiltins.
func (f *TableFunction) IsBuiltin() bool { return f.group == BuiltinGroup }

func (f *TableFunction) Args() []Argument {
	out := make([]Argument, len(f.args))
	copy(out, f.args)
	return out
}

// Outputs returns the schema of the produced rows.
func (f *TableFunction) Outputs() []*Column {
	out := make([]*Column, len(f.outputs))
	copy(out, f.outputs)
	return out
}

// Procedure is a named stored procedure signature. The catalog holds the
// declaration only; bodies live in the engine that executes them.
type Procedure struct {
	name      string
	signature Signature
}

var _ Object = (*Procedure)(nil)

func NewProcedure(name string, signature Signature) *Procedure {
	return &Procedure{name: name, signature: signature}
}

// Name implements Object.
func (p *Procedure) Name() string { return p.name }

// Kind implements Object.
func (p *Procedure) Kind() Kind { return KindProcedure }

func (p *Procedure) Signature() Signature { return p.signature }
