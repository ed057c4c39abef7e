package types

// TypeRecord is the portable form of a Type. Scalar kinds need only the
// kind tag; composites nest records; structural proto/enum types are
// written indirectly as (pool index, full name) against the shared
// FileDescriptorSetMap accumulated during a serialization pass.
type TypeRecord struct {
	Kind      string              `json:"kind"`
	Elem      *TypeRecord         `json:"elem,omitempty"`
	Fields    []StructFieldRecord `json:"fields,omitempty"`
	FullName  string              `json:"full_name,omitempty"`
	PoolIndex int                 `json:"pool_index,omitempty"`
}

type StructFieldRecord struct {
	Name string      `json:"name,omitempty"`
	Type *TypeRecord `json:"type"`
}

var kindsByName = func() map[string]TypeKind {
	m := make(map[string]TypeKind, len(kindNames))
	for k, n := range kindNames {
		m[n] = k
	}
	return m
}()

// SerializeType writes t as a record, accumulating any referenced file
// descriptions into fdsets.
func SerializeType(t Type, fdsets *FileDescriptorSetMap) (*TypeRecord, error) {
	switch t := t.(type) {
	case *ScalarType:
		return &TypeRecord{Kind: t.kind.String()}, nil
	case *ArrayType:
		elem, err := SerializeType(t.elem, fdsets)
		if err != nil {
			return nil, err
		}
		return &TypeRecord{Kind: KindArray.String(), Elem: elem}, nil
	case *StructType:
		fields := make([]StructFieldRecord, len(t.fields))
		for i, f := range t.fields {
			ft, err := SerializeType(f.Type, fdsets)
			if err != nil {
				return nil, err
			}
			fields[i] = StructFieldRecord{Name: f.Name, Type: ft}
		}
		return &TypeRecord{Kind: KindStruct.String(), Fields: fields}, nil
	case *ProtoType:
		idx := fdsets.AddFile(t.pool, t.desc.ParentFile())
		return &TypeRecord{Kind: KindProto.String(), FullName: t.FullName(), PoolIndex: idx}, nil
	case *EnumType:
		idx := fdsets.AddFile(t.pool, t.desc.ParentFile())
		return &TypeRecord{Kind: KindEnum.String(), FullName: t.FullName(), PoolIndex: idx}, nil
	}
	return nil, ErrInvalidRecord.New("unserializable type " + t.String())
}

// DeserializeType rehydrates a record against the supplied pools. Pools
// must be presented in the same order the FileDescriptorSetMap assigned at
// serialize time; structural types are materialized through f.
func DeserializeType(rec *TypeRecord, pools []*DescriptorPool, f *Factory) (Type, error) {
	if rec == nil {
		return nil, ErrInvalidRecord.New("missing type record")
	}
	kind, ok := kindsByName[rec.Kind]
	if !ok {
		return nil, ErrInvalidRecord.New("unknown kind " + rec.Kind)
	}
	if scalar := ScalarByKind(kind); scalar != nil {
		return scalar, nil
	}
	switch kind {
	case KindArray:
		elem, err := DeserializeType(rec.Elem, pools, f)
		if err != nil {
			return nil, err
		}
		return f.ArrayType(elem), nil
	case KindStruct:
		fields := make([]StructField, len(rec.Fields))
		for i, fr := range rec.Fields {
			ft, err := DeserializeType(fr.Type, pools, f)
			if err != nil {
				return nil, err
			}
			fields[i] = StructField{Name: fr.Name, Type: ft}
		}
		return f.StructType(fields), nil
	case KindProto:
		pool, err := poolAt(pools, rec.PoolIndex)
		if err != nil {
			return nil, err
		}
		desc, err := pool.FindMessage(rec.FullName)
		if err != nil {
			return nil, err
		}
		return f.ProtoType(desc, pool), nil
	case KindEnum:
		pool, err := poolAt(pools, rec.PoolIndex)
		if err != nil {
			return nil, err
		}
		desc, err := pool.FindEnum(rec.FullName)
		if err != nil {
			return nil, err
		}
		return f.EnumType(desc, pool), nil
	}
	return nil, ErrInvalidRecord.New("unknown kind " + rec.Kind)
}

func poolAt(pools []*DescriptorPool, idx int) (*DescriptorPool, error) {
	if idx < 0 || idx >= len(pools) {
		return nil, ErrPoolIndex.New(idx, len(pools))
	}
	return pools[idx], nil
}
