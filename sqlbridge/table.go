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

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

// Table adapts a catalog table. The schema is fixed at bridge time;
// rows come from the table's RowSource when it has one, otherwise the
// table is empty.
type Table struct {
	name   string
	schema sql.Schema
	source catalog.RowSource
}

var _ sql.Table = (*Table)(nil)

func bridgeTable(t *catalog.Table) (*Table, error) {
	cols := t.Columns()
	schema := make(sql.Schema, 0, len(cols))
	for _, col := range cols {
		if col.IsPseudo {
			continue
		}
		st, err := sqlTypeFor(col.Type)
		if err != nil {
			return nil, err
		}
		schema = append(schema, &sql.Column{
			Name:     col.Name,
			Type:     st,
			Nullable: true,
			Source:   t.Name(),
		})
	}
	return &Table{name: t.Name(), schema: schema, source: t.RowSource()}, nil
}

// Name implements sql.Table.
func (t *Table) Name() string { return t.name }

func (t *Table) String() string { return t.name }

// Schema implements sql.Table.
func (t *Table) Schema() sql.Schema { return t.schema }

// Collation implements sql.Table.
func (t *Table) Collation() sql.CollationID { return sql.Collation_Default }

// Partitions implements sql.Table. Tables with a row source have a
// single partition.
func (t *Table) Partitions(*sql.Context) (sql.PartitionIter, error) {
	if t.source == nil {
		return sql.PartitionsToPartitionIter(), nil
	}
	return sql.PartitionsToPartitionIter(tablePartition(t.name)), nil
}

// PartitionRows implements sql.Table.
func (t *Table) PartitionRows(ctx *sql.Context, _ sql.Partition) (sql.RowIter, error) {
	if t.source == nil {
		return sql.RowsToRowIter(), nil
	}
	rows, err := t.source(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sql.Row, len(rows))
	for i, vals := range rows {
		row := make(sql.Row, len(vals))
		for j, v := range vals {
			row[j] = rowValue(v)
		}
		out[i] = row
	}
	return sql.RowsToRowIter(out...), nil
}

type tablePartition string

// Key implements sql.Partition.
func (p tablePartition) Key() []byte { return []byte(p) }

// rowValue unwraps a catalog value into the Go form go-mysql-server
// expects for the column's type. Invalid values are NULL.
func rowValue(v types.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Type().Kind() {
	case types.KindBool:
		if v.Bool() {
			return int8(1)
		}
		return int8(0)
	case types.KindInt64:
		return v.Int64()
	case types.KindUint64:
		return v.Uint64()
	case types.KindDouble:
		return v.Double()
	case types.KindString:
		return v.StringVal()
	case types.KindBytes:
		return v.BytesVal()
	case types.KindDate, types.KindTimestamp:
		return v.Time()
	case types.KindNumeric:
		return decimalValue(v)
	}
	return v.Encode()
}
