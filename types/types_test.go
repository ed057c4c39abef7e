package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoregistry"
	_ "google.golang.org/protobuf/types/descriptorpb"
)

func TestScalarSingletons(t *testing.T) {
	assert.Same(t, Int64, ScalarByKind(KindInt64))
	assert.Same(t, Numeric, ScalarByKind(KindNumeric))
	assert.Nil(t, ScalarByKind(KindArray))
	assert.Nil(t, ScalarByKind(KindUnknown))
}

func TestTypeEquality(t *testing.T) {
	assert.True(t, Int64.Equal(Int64))
	assert.False(t, Int64.Equal(Double))
	assert.False(t, Int64.Equal(nil))

	assert.True(t, ArrayOf(String).Equal(ArrayOf(String)))
	assert.False(t, ArrayOf(String).Equal(ArrayOf(Int64)))
	assert.False(t, ArrayOf(String).Equal(String))

	point := StructOf(
		StructField{Name: "x", Type: Double},
		StructField{Name: "y", Type: Double},
	)
	assert.True(t, point.Equal(StructOf(
		StructField{Name: "x", Type: Double},
		StructField{Name: "y", Type: Double},
	)))
	// Field names take part in equality.
	assert.False(t, point.Equal(StructOf(
		StructField{Name: "x", Type: Double},
		StructField{Name: "z", Type: Double},
	)))
	assert.False(t, point.Equal(StructOf(StructField{Name: "x", Type: Double})))

	nested := ArrayOf(point)
	assert.True(t, nested.Equal(ArrayOf(StructOf(
		StructField{Name: "x", Type: Double},
		StructField{Name: "y", Type: Double},
	))))
}

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, "int64", Int64.String())
	assert.Equal(t, "array<string>", ArrayOf(String).String())
	assert.Equal(t, "struct<x double, y double>", StructOf(
		StructField{Name: "x", Type: Double},
		StructField{Name: "y", Type: Double},
	).String())
	assert.Equal(t, "struct<int64>", StructOf(StructField{Type: Int64}).String())
}

func TestStructOfCopiesFields(t *testing.T) {
	fields := []StructField{{Name: "a", Type: Int64}}
	st := StructOf(fields...)
	fields[0].Name = "mutated"
	assert.Equal(t, "a", st.Field(0).Name)

	got := st.Fields()
	got[0].Name = "mutated"
	assert.Equal(t, "a", st.Field(0).Name)
}

func TestFactoryInternsArrays(t *testing.T) {
	f := NewFactory()
	a := f.ArrayType(Int64)
	b := f.ArrayType(Int64)
	assert.Same(t, a, b)
	assert.NotSame(t, a, f.ArrayType(String))
}

func TestFactoryInternsDescriptorTypes(t *testing.T) {
	pool := NewPoolFromFiles(protoregistry.GlobalFiles)
	md, err := pool.FindMessage("google.protobuf.FileDescriptorProto")
	require.NoError(t, err)
	ed, err := pool.FindEnum("google.protobuf.FieldDescriptorProto.Type")
	require.NoError(t, err)

	f := NewFactory()
	assert.Same(t, f.ProtoType(md, pool), f.ProtoType(md, pool))
	assert.Same(t, f.EnumType(ed, pool), f.EnumType(ed, pool))

	// A second factory allocates its own instances, equal by name.
	other := NewFactory().ProtoType(md, pool)
	assert.NotSame(t, f.ProtoType(md, pool), other)
	assert.True(t, f.ProtoType(md, pool).Equal(other))
}

func TestDescriptorPoolLookups(t *testing.T) {
	pool := NewPoolFromFiles(protoregistry.GlobalFiles)

	md, err := pool.FindMessage("google.protobuf.DescriptorProto")
	require.NoError(t, err)
	assert.Equal(t, "google.protobuf.DescriptorProto", string(md.FullName()))

	_, err = pool.FindMessage("google.protobuf.NoSuchMessage")
	assert.True(t, ErrNotFound.Is(err))

	// A message name is not an enum name and vice versa.
	_, err = pool.FindEnum("google.protobuf.DescriptorProto")
	assert.True(t, ErrNotFound.Is(err))
	_, err = pool.FindMessage("google.protobuf.FieldDescriptorProto.Type")
	assert.True(t, ErrNotFound.Is(err))
}
