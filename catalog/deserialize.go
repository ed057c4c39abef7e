package catalog

import (
	"github.com/apecloud/mycatalog/types"
)

// Deserialize rebuilds a catalog from rec. Every entry in the result is
// owned by it, whatever the ownership was at serialize time. Structural
// types are rehydrated against pools, which must be supplied in the
// order the serializing FileDescriptorSetMap assigned; the catalog's own
// pool reference is left unset and may be attached afterwards.
//
// A malformed record is caller input, not a programming error, so
// duplicates and other defects surface as ErrInvalidRecord rather than
// the panic the Add methods reserve for live misuse.
func Deserialize(rec *CatalogRecord, pools []*types.DescriptorPool) (*Catalog, error) {
	return deserialize(rec, pools, nil)
}

// DeserializeWithBuiltins is Deserialize plus builtin re-loading: any
// catalog in the tree carrying recorded builtin options re-runs
// LoadBuiltins against provider, reproducing the entries a serialization
// with IncludeBuiltins=false dropped.
func DeserializeWithBuiltins(rec *CatalogRecord, pools []*types.DescriptorPool, provider BuiltinProvider) (*Catalog, error) {
	return deserialize(rec, pools, provider)
}

func deserialize(rec *CatalogRecord, pools []*types.DescriptorPool, provider BuiltinProvider) (*Catalog, error) {
	if rec == nil {
		return nil, ErrInvalidRecord.New("nil record")
	}
	c := New(rec.Name)
	f := c.factory

	for _, tr := range rec.Tables {
		t, err := deserializeTable(tr, pools, f)
		if err != nil {
			return nil, err
		}
		if err := addDeserialized(c, &c.tables, KindTable, t.Name(), t); err != nil {
			return nil, err
		}
	}
	for _, mr := range rec.Models {
		m, err := deserializeModel(mr, pools, f)
		if err != nil {
			return nil, err
		}
		if err := addDeserialized(c, &c.models, KindModel, m.Name(), m); err != nil {
			return nil, err
		}
	}
	for _, cr := range rec.Connections {
		if cr.Name == "" {
			return nil, ErrInvalidRecord.New("connection without a name")
		}
		conn := NewConnection(cr.Name, cr.Driver, cr.DSN)
		if err := addDeserialized(c, &c.connections, KindConnection, conn.Name(), conn); err != nil {
			return nil, err
		}
	}
	for _, nt := range rec.NamedTypes {
		if nt.Name == "" {
			return nil, ErrInvalidRecord.New("named type without a name")
		}
		typ, err := types.DeserializeType(nt.Type, pools, f)
		if err != nil {
			return nil, err
		}
		if err := addDeserialized(c, &c.namedTypes, KindType, nt.Name, typ); err != nil {
			return nil, err
		}
	}
	for _, fr := range rec.Functions {
		fn, err := deserializeFunction(fr, pools, f)
		if err != nil {
			return nil, err
		}
		if err := addDeserialized(c, &c.functions, KindFunction, fn.Name(), fn); err != nil {
			return nil, err
		}
	}
	for _, fr := range rec.TableFunctions {
		fn, err := deserializeTableFunction(fr, pools, f)
		if err != nil {
			return nil, err
		}
		if err := addDeserialized(c, &c.tableFuncs, KindTableFunction, fn.Name(), fn); err != nil {
			return nil, err
		}
	}
	for _, pr := range rec.Procedures {
		if pr.Name == "" {
			return nil, ErrInvalidRecord.New("procedure without a name")
		}
		sig, err := deserializeSignature(pr.Signature, pools, f)
		if err != nil {
			return nil, err
		}
		p := NewProcedure(pr.Name, sig)
		if err := addDeserialized(c, &c.procedures, KindProcedure, p.Name(), p); err != nil {
			return nil, err
		}
	}
	for _, kr := range rec.Constants {
		k, err := deserializeConstant(kr, pools, f)
		if err != nil {
			return nil, err
		}
		if err := addDeserialized(c, &c.constants, KindConstant, k.Name(), k); err != nil {
			return nil, err
		}
	}
	for _, sr := range rec.Catalogs {
		sub, err := deserialize(sr, pools, provider)
		if err != nil {
			return nil, err
		}
		if err := addDeserialized(c, &c.catalogs, KindCatalog, sub.Name(), sub); err != nil {
			return nil, err
		}
	}

	if rec.BuiltinOptions != nil {
		opts := BuiltinOptions{
			IncludeFamilies:  rec.BuiltinOptions.IncludeFamilies,
			ExcludeFunctions: rec.BuiltinOptions.ExcludeFunctions,
		}
		if provider != nil {
			if err := c.LoadBuiltins(opts, provider); err != nil {
				return nil, err
			}
		} else {
			c.mu.Lock()
			c.builtinOptions = &opts
			c.mu.Unlock()
		}
	}
	return c, nil
}

// addDeserialized inserts an owned entry, turning a duplicate into an
// ErrInvalidRecord instead of the usual panic.
func addDeserialized[T any](c *Catalog, s *store[T], kind Kind, name string, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" {
		return ErrInvalidRecord.New(kind.String() + " without a name")
	}
	if !s.put(name, v, true) {
		return ErrInvalidRecord.New("duplicate " + kind.String() + " " + name)
	}
	c.trackEntries(kind, s.size())
	return nil
}

func deserializeColumn(rec *ColumnRecord, pools []*types.DescriptorPool, f *types.Factory) (*Column, error) {
	typ, err := types.DeserializeType(rec.Type, pools, f)
	if err != nil {
		return nil, err
	}
	return &Column{Name: rec.Name, Type: typ, IsPseudo: rec.IsPseudo}, nil
}

func deserializeTable(rec *TableRecord, pools []*types.DescriptorPool, f *types.Factory) (*Table, error) {
	if rec.Name == "" {
		return nil, ErrInvalidRecord.New("table without a name")
	}
	t, err := NewTable(rec.Name)
	if err != nil {
		return nil, err
	}
	t.SetIsValueTable(rec.IsValueTable)
	t.SetAllowAnonymousColumns(rec.AllowAnonymousColumns)
	t.SetAllowDuplicateColumns(rec.AllowDuplicateColumns)
	for _, cr := range rec.Columns {
		col, err := deserializeColumn(cr, pools, f)
		if err != nil {
			return nil, err
		}
		if err := t.AddColumn(col); err != nil {
			return nil, ErrInvalidRecord.New(err.Error())
		}
	}
	return t, nil
}

func deserializeModel(rec *ModelRecord, pools []*types.DescriptorPool, f *types.Factory) (*Model, error) {
	if rec.Name == "" {
		return nil, ErrInvalidRecord.New("model without a name")
	}
	m := NewModel(rec.Name)
	for _, cr := range rec.Inputs {
		col, err := deserializeColumn(cr, pools, f)
		if err != nil {
			return nil, err
		}
		if err := m.AddInput(col.Name, col.Type); err != nil {
			return nil, ErrInvalidRecord.New(err.Error())
		}
	}
	for _, cr := range rec.Outputs {
		col, err := deserializeColumn(cr, pools, f)
		if err != nil {
			return nil, err
		}
		if err := m.AddOutput(col.Name, col.Type); err != nil {
			return nil, ErrInvalidRecord.New(err.Error())
		}
	}
	return m, nil
}

func deserializeSignature(rec *SignatureRecord, pools []*types.DescriptorPool, f *types.Factory) (Signature, error) {
	var sig Signature
	if rec == nil {
		return sig, nil
	}
	for _, ar := range rec.Args {
		arg := Argument{Name: ar.Name, Repeated: ar.Repeated}
		if ar.Type != nil {
			typ, err := types.DeserializeType(ar.Type, pools, f)
			if err != nil {
				return sig, err
			}
			arg.Type = typ
		}
		sig.Args = append(sig.Args, arg)
	}
	if rec.Result != nil {
		typ, err := types.DeserializeType(rec.Result, pools, f)
		if err != nil {
			return sig, err
		}
		sig.Result = typ
	}
	return sig, nil
}

func deserializeFunction(rec *FunctionRecord, pools []*types.DescriptorPool, f *types.Factory) (*Function, error) {
	if rec.Name == "" {
		return nil, ErrInvalidRecord.New("function without a name")
	}
	fn := NewFunction(rec.Name)
	fn.SetGroup(rec.Group)
	for _, sr := range rec.Signatures {
		sig, err := deserializeSignature(sr, pools, f)
		if err != nil {
			return nil, err
		}
		fn.AddSignature(sig)
	}
	return fn, nil
}

func deserializeTableFunction(rec *TableFunctionRecord, pools []*types.DescriptorPool, f *types.Factory) (*TableFunction, error) {
	if rec.Name == "" {
		return nil, ErrInvalidRecord.New("table-valued function without a name")
	}
	var args []Argument
	for _, ar := range rec.Args {
		arg := Argument{Name: ar.Name, Repeated: ar.Repeated}
		if ar.Type != nil {
			typ, err := types.DeserializeType(ar.Type, pools, f)
			if err != nil {
				return nil, err
			}
			arg.Type = typ
		}
		args = append(args, arg)
	}
	var outputs []*Column
	for _, cr := range rec.Outputs {
		col, err := deserializeColumn(cr, pools, f)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, col)
	}
	fn := NewTableFunction(rec.Name, args, outputs)
	fn.SetGroup(rec.Group)
	return fn, nil
}

func deserializeConstant(rec *ConstantRecord, pools []*types.DescriptorPool, f *types.Factory) (*Constant, error) {
	if len(rec.NamePath) == 0 {
		return nil, ErrInvalidRecord.New("constant without a name path")
	}
	typ, err := types.DeserializeType(rec.Type, pools, f)
	if err != nil {
		return nil, err
	}
	value, err := types.DecodeValue(typ, rec.Value)
	if err != nil {
		return nil, err
	}
	k, err := NewConstant(rec.NamePath, value)
	if err != nil {
		return nil, ErrInvalidRecord.New(err.Error())
	}
	return k, nil
}
