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

package sqlbridge

import (
	"github.com/dolthub/go-mysql-server/sql"
	gmstypes "github.com/dolthub/go-mysql-server/sql/types"
	"github.com/dolthub/vitess/go/sqltypes"
	"github.com/shopspring/decimal"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/apecloud/mycatalog/types"
)

// ErrSQLType is returned for catalog types the bridge cannot present.
var ErrSQLType = errors.NewKind("sqlbridge: no SQL equivalent for %s")

// The catalog's numeric type carries 38 digits with 9 after the point.
var numericType = gmstypes.MustCreateDecimalType(38, 9)

var timestampType = gmstypes.MustCreateDatetimeType(sqltypes.Timestamp, 6)

func sqlTypeFor(t types.Type) (sql.Type, error) {
	switch t.Kind() {
	case types.KindBool:
		return gmstypes.Boolean, nil
	case types.KindInt32:
		return gmstypes.Int32, nil
	case types.KindInt64:
		return gmstypes.Int64, nil
	case types.KindUint32:
		return gmstypes.Uint32, nil
	case types.KindUint64:
		return gmstypes.Uint64, nil
	case types.KindFloat:
		return gmstypes.Float32, nil
	case types.KindDouble:
		return gmstypes.Float64, nil
	case types.KindString, types.KindEnum:
		return gmstypes.Text, nil
	case types.KindBytes, types.KindProto:
		return gmstypes.LongBlob, nil
	case types.KindDate:
		return gmstypes.Date, nil
	case types.KindTimestamp:
		return timestampType, nil
	case types.KindNumeric:
		return numericType, nil
	case types.KindArray, types.KindStruct:
		// Composites travel as JSON text.
		return gmstypes.JSON, nil
	}
	return nil, ErrSQLType.New(t)
}

func decimalValue(v types.Value) any {
	d, err := decimal.NewFromString(v.Numeric().String())
	if err != nil {
		return v.Encode()
	}
	return d
}
