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
	"context"
	"io"
	"testing"

	"github.com/dolthub/go-mysql-server/sql"
	gmstypes "github.com/dolthub/go-mysql-server/sql/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

func bridgedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	root := catalog.New("server")
	shop := catalog.New("shop")
	root.AddOwnedCatalog(shop)

	orders, err := catalog.NewTable("orders",
		catalog.NewColumn("id", types.Int64),
		catalog.NewColumn("status", types.String),
	)
	require.NoError(t, err)
	orders.SetRowSource(func(context.Context) ([][]types.Value, error) {
		return [][]types.Value{
			{types.Int64Value(1), types.StringValue("new")},
			{types.Int64Value(2), types.Value{}},
		}, nil
	})
	shop.AddOwnedTable(orders)

	empty, err := catalog.NewTable("audit_log",
		catalog.NewColumn("entry", types.String),
	)
	require.NoError(t, err)
	shop.AddOwnedTable(empty)

	return root
}

func TestProviderDatabases(t *testing.T) {
	prov := NewProvider(bridgedCatalog(t))
	ctx := sql.NewEmptyContext()

	assert.True(t, prov.HasDatabase(ctx, "SHOP"))
	assert.False(t, prov.HasDatabase(ctx, "warehouse"))

	db, err := prov.Database(ctx, "Shop")
	require.NoError(t, err)
	assert.Equal(t, "shop", db.Name())

	_, err = prov.Database(ctx, "warehouse")
	assert.True(t, sql.ErrDatabaseNotFound.Is(err))

	all := prov.AllDatabases(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "shop", all[0].Name())
}

func TestDatabaseTables(t *testing.T) {
	prov := NewProvider(bridgedCatalog(t))
	ctx := sql.NewEmptyContext()

	db, err := prov.Database(ctx, "shop")
	require.NoError(t, err)

	names, err := db.(*Database).GetTableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"audit_log", "orders"}, names)

	tbl, found, err := db.(*Database).GetTableInsensitive(ctx, "ORDERS")
	require.NoError(t, err)
	require.True(t, found)

	schema := tbl.Schema()
	require.Len(t, schema, 2)
	assert.Equal(t, "id", schema[0].Name)
	assert.Equal(t, gmstypes.Int64, schema[0].Type)
	assert.Equal(t, gmstypes.Text, schema[1].Type)
	assert.Equal(t, "orders", schema[0].Source)

	_, found, err = db.(*Database).GetTableInsensitive(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPartitionRows(t *testing.T) {
	prov := NewProvider(bridgedCatalog(t))
	ctx := sql.NewEmptyContext()

	db, err := prov.Database(ctx, "shop")
	require.NoError(t, err)
	tbl, found, err := db.(*Database).GetTableInsensitive(ctx, "orders")
	require.NoError(t, err)
	require.True(t, found)

	parts, err := tbl.Partitions(ctx)
	require.NoError(t, err)
	part, err := parts.Next(ctx)
	require.NoError(t, err)

	iter, err := tbl.PartitionRows(ctx, part)
	require.NoError(t, err)
	rows, err := sql.RowIterToRows(ctx, iter)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, sql.NewRow(int64(1), "new"), rows[0])
	assert.Equal(t, sql.NewRow(int64(2), nil), rows[1])
	require.NoError(t, parts.Close(ctx))
}

func TestTableWithoutRowSourceIsEmpty(t *testing.T) {
	prov := NewProvider(bridgedCatalog(t))
	ctx := sql.NewEmptyContext()

	db, err := prov.Database(ctx, "shop")
	require.NoError(t, err)
	tbl, found, err := db.(*Database).GetTableInsensitive(ctx, "audit_log")
	require.NoError(t, err)
	require.True(t, found)

	parts, err := tbl.Partitions(ctx)
	require.NoError(t, err)
	_, err = parts.Next(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestSQLTypeFor(t *testing.T) {
	tests := []struct {
		in   types.Type
		want sql.Type
	}{
		{types.Bool, gmstypes.Boolean},
		{types.Int32, gmstypes.Int32},
		{types.Int64, gmstypes.Int64},
		{types.Double, gmstypes.Float64},
		{types.String, gmstypes.Text},
		{types.Bytes, gmstypes.LongBlob},
		{types.Date, gmstypes.Date},
		{types.Numeric, numericType},
		{types.ArrayOf(types.Int64), gmstypes.JSON},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got, err := sqlTypeFor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
