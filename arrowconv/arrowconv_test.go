// Copyright 2024-2025 ApeCloud, Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arrowconv

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

func TestToArrowType(t *testing.T) {
	tests := []struct {
		in   types.Type
		want arrow.DataType
	}{
		{types.Bool, arrow.FixedWidthTypes.Boolean},
		{types.Int32, arrow.PrimitiveTypes.Int32},
		{types.Int64, arrow.PrimitiveTypes.Int64},
		{types.Uint64, arrow.PrimitiveTypes.Uint64},
		{types.Float, arrow.PrimitiveTypes.Float32},
		{types.Double, arrow.PrimitiveTypes.Float64},
		{types.String, arrow.BinaryTypes.String},
		{types.Bytes, arrow.BinaryTypes.Binary},
		{types.Date, arrow.FixedWidthTypes.Date32},
		{types.Timestamp, arrow.FixedWidthTypes.Timestamp_us},
		{types.Numeric, &arrow.Decimal128Type{Precision: 38, Scale: 9}},
		{types.ArrayOf(types.Int64), arrow.ListOf(arrow.PrimitiveTypes.Int64)},
		{
			types.StructOf(
				types.StructField{Name: "x", Type: types.Double},
				types.StructField{Name: "y", Type: types.Double},
			),
			arrow.StructOf(
				arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
				arrow.Field{Name: "y", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got, err := ToArrowType(tt.in)
			require.NoError(t, err)
			assert.True(t, arrow.TypeEqual(tt.want, got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestToArrowSchema(t *testing.T) {
	hidden := catalog.NewColumn("_rowid", types.Int64)
	hidden.IsPseudo = true
	tbl, err := catalog.NewTable("orders",
		catalog.NewColumn("id", types.Int64),
		catalog.NewColumn("status", types.String),
		hidden,
	)
	require.NoError(t, err)

	schema, err := ToArrowSchema(tbl, 1)
	require.NoError(t, err)
	require.Equal(t, 2, schema.NumFields())

	assert.Equal(t, "id", schema.Field(0).Name)
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Int64, schema.Field(0).Type))

	dict, ok := schema.Field(1).Type.(*arrow.DictionaryType)
	require.True(t, ok)
	assert.True(t, arrow.TypeEqual(arrow.BinaryTypes.String, dict.ValueType))
}
