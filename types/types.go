// Package types is the type-system facade consumed by the catalog: scalar
// SQL types, array/struct composites, and structural proto/enum types
// materialized from protobuf descriptor pools.
package types

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

type TypeKind uint8

const (
	KindUnknown TypeKind = iota
	KindBool
	KindInt32
	KindInt64
	KindUint32
	KindUint64
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindDate
	KindTimestamp
	KindNumeric
	KindArray
	KindStruct
	KindProto
	KindEnum
)

var kindNames = map[TypeKind]string{
	KindUnknown:   "unknown",
	KindBool:      "bool",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat:     "float",
	KindDouble:    "double",
	KindString:    "string",
	KindBytes:     "bytes",
	KindDate:      "date",
	KindTimestamp: "timestamp",
	KindNumeric:   "numeric",
	KindArray:     "array",
	KindStruct:    "struct",
	KindProto:     "proto",
	KindEnum:      "enum",
}

func (k TypeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("typekind(%d)", k)
}

// Type is the closed capability surface the catalog needs from a type.
// The set of implementations is fixed: *ScalarType, *ArrayType,
// *StructType, *ProtoType and *EnumType.
type Type interface {
	Kind() TypeKind
	String() string
	// Equal reports structural equality. Structural proto/enum types from
	// different descriptor pools compare equal when their full names match,
	// which is what the serialization round-trip guarantees.
	Equal(other Type) bool
}

type ScalarType struct {
	kind TypeKind
}

// Scalar singletons. Compare with Equal, not ==, to stay uniform with the
// composite types.
var (
	Bool      = &ScalarType{KindBool}
	Int32     = &ScalarType{KindInt32}
	Int64     = &ScalarType{KindInt64}
	Uint32    = &ScalarType{KindUint32}
	Uint64    = &ScalarType{KindUint64}
	Float     = &ScalarType{KindFloat}
	Double    = &ScalarType{KindDouble}
	String    = &ScalarType{KindString}
	Bytes     = &ScalarType{KindBytes}
	Date      = &ScalarType{KindDate}
	Timestamp = &ScalarType{KindTimestamp}
	Numeric   = &ScalarType{KindNumeric}
)

func (t *ScalarType) Kind() TypeKind { return t.kind }

func (t *ScalarType) String() string { return t.kind.String() }

func (t *ScalarType) Equal(other Type) bool {
	return other != nil && other.Kind() == t.kind
}

// ScalarByKind returns the scalar singleton for kind, or nil if kind does
// not name a scalar.
func ScalarByKind(kind TypeKind) *ScalarType {
	switch kind {
	case KindBool:
		return Bool
	case KindInt32:
		return Int32
	case KindInt64:
		return Int64
	case KindUint32:
		return Uint32
	case KindUint64:
		return Uint64
	case KindFloat:
		return Float
	case KindDouble:
		return Double
	case KindString:
		return String
	case KindBytes:
		return Bytes
	case KindDate:
		return Date
	case KindTimestamp:
		return Timestamp
	case KindNumeric:
		return Numeric
	}
	return nil
}

type ArrayType struct {
	elem Type
}

// ArrayOf builds an array type without factory interning, for static
// signature tables and tests. Factory.ArrayType returns shared instances.
func ArrayOf(elem Type) *ArrayType {
	return &ArrayType{elem: elem}
}

func (t *ArrayType) Kind() TypeKind { return KindArray }

func (t *ArrayType) Elem() Type { return t.elem }

func (t *ArrayType) String() string {
	return "array<" + t.elem.String() + ">"
}

func (t *ArrayType) Equal(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && t.elem.Equal(o.elem)
}

type StructField struct {
	Name string
	Type Type
}

type StructType struct {
	fields []StructField
}

// StructOf builds a struct type from a copy of fields.
func StructOf(fields ...StructField) *StructType {
	copied := make([]StructField, len(fields))
	copy(copied, fields)
	return &StructType{fields: copied}
}

func (t *StructType) Kind() TypeKind { return KindStruct }

// Fields returns a copy of the field list.
func (t *StructType) Fields() []StructField {
	out := make([]StructField, len(t.fields))
	copy(out, t.fields)
	return out
}

func (t *StructType) NumFields() int { return len(t.fields) }

func (t *StructType) Field(i int) StructField { return t.fields[i] }

func (t *StructType) String() string {
	var b strings.Builder
	b.WriteString("struct<")
	for i, f := range t.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		if f.Name != "" {
			b.WriteString(f.Name)
			b.WriteString(" ")
		}
		b.WriteString(f.Type.String())
	}
	b.WriteString(">")
	return b.String()
}

func (t *StructType) Equal(other Type) bool {
	o, ok := other.(*StructType)
	if !ok || len(t.fields) != len(o.fields) {
		return false
	}
	for i := range t.fields {
		if t.fields[i].Name != o.fields[i].Name || !t.fields[i].Type.Equal(o.fields[i].Type) {
			return false
		}
	}
	return true
}

// ProtoType is a structural message type materialized from a descriptor
// pool. Instances are allocated by a Factory and cached per descriptor.
type ProtoType struct {
	desc protoreflect.MessageDescriptor
	pool *DescriptorPool
}

func (t *ProtoType) Kind() TypeKind { return KindProto }

func (t *ProtoType) Descriptor() protoreflect.MessageDescriptor { return t.desc }

// Pool returns the descriptor pool this type was materialized from.
func (t *ProtoType) Pool() *DescriptorPool { return t.pool }

func (t *ProtoType) FullName() string { return string(t.desc.FullName()) }

func (t *ProtoType) String() string { return "proto<" + t.FullName() + ">" }

func (t *ProtoType) Equal(other Type) bool {
	o, ok := other.(*ProtoType)
	return ok && t.FullName() == o.FullName()
}

// EnumType is a structural enum type materialized from a descriptor pool.
type EnumType struct {
	desc protoreflect.EnumDescriptor
	pool *DescriptorPool
}

func (t *EnumType) Kind() TypeKind { return KindEnum }

func (t *EnumType) Descriptor() protoreflect.EnumDescriptor { return t.desc }

func (t *EnumType) Pool() *DescriptorPool { return t.pool }

func (t *EnumType) FullName() string { return string(t.desc.FullName()) }

func (t *EnumType) String() string { return "enum<" + t.FullName() + ">" }

func (t *EnumType) Equal(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && t.FullName() == o.FullName()
}
