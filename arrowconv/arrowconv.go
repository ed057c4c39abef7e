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

// Package arrowconv translates catalog schemas into Arrow schemas for
// engines that exchange table data as record batches.
package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

// ErrArrowType is returned for catalog types with no Arrow equivalent.
var ErrArrowType = errors.NewKind("arrowconv: no arrow equivalent for %s")

// ToArrowSchema builds the Arrow schema of a table. Every field is
// nullable. Pseudo columns are left out, matching SELECT * expansion;
// dictionary indexes refer to the remaining fields in order.
func ToArrowSchema(t *catalog.Table, dictionary ...int) (*arrow.Schema, error) {
	cols := t.Columns()
	fields := make([]arrow.Field, 0, len(cols))
	for _, col := range cols {
		if col.IsPseudo {
			continue
		}
		at, err := ToArrowType(col.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{
			Name:     col.Name,
			Type:     at,
			Nullable: true,
		})
	}
	for _, i := range dictionary {
		fields[i].Type = &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Uint32,
			ValueType: fields[i].Type,
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToArrowType translates a catalog type to its Arrow equivalent.
func ToArrowType(t types.Type) (arrow.DataType, error) {
	at := toArrowType(t)
	if at == nil {
		return nil, ErrArrowType.New(t)
	}
	return at, nil
}

func toArrowType(t types.Type) arrow.DataType {
	switch t.Kind() {
	case types.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case types.KindInt32:
		return arrow.PrimitiveTypes.Int32
	case types.KindInt64:
		return arrow.PrimitiveTypes.Int64
	case types.KindUint32:
		return arrow.PrimitiveTypes.Uint32
	case types.KindUint64:
		return arrow.PrimitiveTypes.Uint64
	case types.KindFloat:
		return arrow.PrimitiveTypes.Float32
	case types.KindDouble:
		return arrow.PrimitiveTypes.Float64
	case types.KindString:
		return arrow.BinaryTypes.String
	case types.KindBytes:
		return arrow.BinaryTypes.Binary
	case types.KindDate:
		return arrow.FixedWidthTypes.Date32
	case types.KindTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	case types.KindNumeric:
		// The catalog's numeric type is fixed at 38 digits with 9
		// after the point.
		return &arrow.Decimal128Type{Precision: 38, Scale: 9}
	case types.KindArray:
		elem := toArrowType(t.(*types.ArrayType).Elem())
		if elem == nil {
			return nil
		}
		return arrow.ListOf(elem)
	case types.KindStruct:
		st := t.(*types.StructType)
		fields := make([]arrow.Field, st.NumFields())
		for i := range fields {
			f := st.Field(i)
			at := toArrowType(f.Type)
			if at == nil {
				return nil
			}
			fields[i] = arrow.Field{Name: f.Name, Type: at, Nullable: true}
		}
		return arrow.StructOf(fields...)
	case types.KindEnum:
		return arrow.BinaryTypes.String
	case types.KindProto:
		// Messages travel as serialized bytes.
		return arrow.BinaryTypes.Binary
	}
	return nil
}
