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

package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

// ErrSampleValue is returned when a scanned driver value cannot be
// represented as the column's catalog type.
var ErrSampleValue = errors.NewKind("importer: cannot represent %T as %s")

const timestampLayout = "2006-01-02 15:04:05.999999999"

// sampleSource builds a RowSource that reads up to limit rows of the
// table. The query is fixed at import time; the connection is captured
// and must outlive the returned closure.
func sampleSource(db *sqlx.DB, d *dialect, schema, table string, cols []*catalog.Column, limit int) catalog.RowSource {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = d.quote(col.Name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s.%s LIMIT %d",
		strings.Join(names, ", "), d.quote(schema), d.quote(table), limit)

	return func(ctx context.Context) ([][]types.Value, error) {
		rows, err := db.QueryxContext(ctx, query)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var out [][]types.Value
		for rows.Next() {
			raw, err := rows.SliceScan()
			if err != nil {
				return nil, err
			}
			vals := make([]types.Value, len(raw))
			for i, rv := range raw {
				v, err := valueOf(cols[i].Type, rv)
				if err != nil {
					return nil, err
				}
				vals[i] = v
			}
			out = append(out, vals)
		}
		return out, rows.Err()
	}
}

// valueOf converts a driver-scanned value into a catalog value of the
// column's type. NULL becomes the zero Value. Narrow integer and float
// columns widen to their 64-bit kinds, which carry the only integer and
// float value forms.
func valueOf(t types.Type, raw any) (types.Value, error) {
	if raw == nil {
		return types.Value{}, nil
	}
	switch t.Kind() {
	case types.KindBool:
		switch v := raw.(type) {
		case bool:
			return types.BoolValue(v), nil
		case int64:
			return types.BoolValue(v != 0), nil
		}
	case types.KindInt32, types.KindInt64:
		switch v := raw.(type) {
		case int64:
			return types.Int64Value(v), nil
		case []byte:
			i, err := strconv.ParseInt(string(v), 10, 64)
			if err == nil {
				return types.Int64Value(i), nil
			}
		}
	case types.KindUint32, types.KindUint64:
		switch v := raw.(type) {
		case uint64:
			return types.Uint64Value(v), nil
		case int64:
			if v >= 0 {
				return types.Uint64Value(uint64(v)), nil
			}
		case []byte:
			u, err := strconv.ParseUint(string(v), 10, 64)
			if err == nil {
				return types.Uint64Value(u), nil
			}
		}
	case types.KindFloat, types.KindDouble:
		switch v := raw.(type) {
		case float64:
			return types.DoubleValue(v), nil
		case float32:
			return types.DoubleValue(float64(v)), nil
		case []byte:
			f, err := strconv.ParseFloat(string(v), 64)
			if err == nil {
				return types.DoubleValue(f), nil
			}
		}
	case types.KindString:
		switch v := raw.(type) {
		case string:
			return types.StringValue(v), nil
		case []byte:
			return types.StringValue(string(v)), nil
		}
	case types.KindBytes:
		switch v := raw.(type) {
		case []byte:
			b := make([]byte, len(v))
			copy(b, v)
			return types.BytesValue(b), nil
		case string:
			return types.BytesValue([]byte(v)), nil
		}
	case types.KindDate:
		switch v := raw.(type) {
		case time.Time:
			return types.DateValue(v), nil
		case []byte:
			ts, err := time.Parse("2006-01-02", string(v))
			if err == nil {
				return types.DateValue(ts), nil
			}
		}
	case types.KindTimestamp:
		switch v := raw.(type) {
		case time.Time:
			return types.TimestampValue(v), nil
		case []byte:
			if ts, err := time.Parse(time.RFC3339Nano, string(v)); err == nil {
				return types.TimestampValue(ts), nil
			}
			if ts, err := time.Parse(timestampLayout, string(v)); err == nil {
				return types.TimestampValue(ts), nil
			}
		}
	case types.KindNumeric:
		switch v := raw.(type) {
		case string:
			return types.NumericValueFromString(v)
		case []byte:
			return types.NumericValueFromString(string(v))
		case float64:
			return types.NumericValueFromString(strconv.FormatFloat(v, 'g', -1, 64))
		case int64:
			return types.NumericValueFromString(strconv.FormatInt(v, 10))
		}
	}
	return types.Value{}, ErrSampleValue.New(raw, t)
}
