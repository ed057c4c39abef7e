package types

import (
	"sync"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Factory allocates and caches composite and structural types. Each
// catalog lazily creates exactly one factory and owns it; types returned
// by a factory stay valid for the factory's lifetime, so callers may hold
// them without further locking.
type Factory struct {
	mu         sync.Mutex
	protoTypes map[protoreflect.MessageDescriptor]*ProtoType
	enumTypes  map[protoreflect.EnumDescriptor]*EnumType
	arrayTypes map[Type]*ArrayType
}

func NewFactory() *Factory {
	return &Factory{
		protoTypes: make(map[protoreflect.MessageDescriptor]*ProtoType),
		enumTypes:  make(map[protoreflect.EnumDescriptor]*EnumType),
		arrayTypes: make(map[Type]*ArrayType),
	}
}

// ProtoType returns the unique *ProtoType for desc, materializing it on
// first use.
func (f *Factory) ProtoType(desc protoreflect.MessageDescriptor, pool *DescriptorPool) *ProtoType {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.protoTypes[desc]; ok {
		return t
	}
	t := &ProtoType{desc: desc, pool: pool}
	f.protoTypes[desc] = t
	return t
}

// EnumType returns the unique *EnumType for desc, materializing it on
// first use.
func (f *Factory) EnumType(desc protoreflect.EnumDescriptor, pool *DescriptorPool) *EnumType {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.enumTypes[desc]; ok {
		return t
	}
	t := &EnumType{desc: desc, pool: pool}
	f.enumTypes[desc] = t
	return t
}

// ArrayType returns the unique array type with the given element type.
func (f *Factory) ArrayType(elem Type) *ArrayType {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.arrayTypes[elem]; ok {
		return t
	}
	t := &ArrayType{elem: elem}
	f.arrayTypes[elem] = t
	return t
}

// StructType builds a struct type from a copy of fields. Struct types are
// cheap and compared structurally, so they are not interned.
func (f *Factory) StructType(fields []StructField) *StructType {
	copied := make([]StructField, len(fields))
	copy(copied, fields)
	return &StructType{fields: copied}
}
