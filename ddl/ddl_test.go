package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

func TestApplyCreateTable(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `
		CREATE TABLE orders (
			id INT8 PRIMARY KEY,
			status VARCHAR(16) NOT NULL,
			total DECIMAL(10,2),
			tags TEXT[]
		)`)
	require.NoError(t, err)

	tbl, err := cat.FindTable("orders")
	require.NoError(t, err)
	require.Equal(t, 4, tbl.NumColumns())

	id, ok := tbl.FindColumn("id")
	require.True(t, ok)
	assert.True(t, id.Type.Equal(types.Int64))
	status, ok := tbl.FindColumn("status")
	require.True(t, ok)
	assert.True(t, status.Type.Equal(types.String))
	total, ok := tbl.FindColumn("total")
	require.True(t, ok)
	assert.True(t, total.Type.Equal(types.Numeric))
	tags, ok := tbl.FindColumn("tags")
	require.True(t, ok)
	assert.Equal(t, types.KindArray, tags.Type.Kind())
}

func TestApplyQualifiedTable(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `
		CREATE SCHEMA sales;
		CREATE TABLE sales.orders (id INT8);
		CREATE TABLE invoices (id INT8)`)
	require.NoError(t, err)

	sales, err := cat.FindCatalog("sales")
	require.NoError(t, err)
	_, err = sales.FindTable("orders")
	require.NoError(t, err)

	// Unqualified tables land in the catalog Apply was given.
	_, err = cat.FindTable("invoices")
	require.NoError(t, err)
	_, err = cat.FindTable("orders")
	assert.True(t, catalog.ErrTableNotFound.Is(err))
}

func TestApplyMissingSchema(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `CREATE TABLE warehouse.bins (id INT8)`)
	assert.True(t, ErrNoSchema.Is(err))
}

func TestApplySchemaIfNotExists(t *testing.T) {
	cat := catalog.New("db")
	require.NoError(t, Apply(cat, `CREATE SCHEMA sales`))

	err := Apply(cat, `CREATE SCHEMA sales`)
	assert.True(t, ErrExists.Is(err))

	require.NoError(t, Apply(cat, `CREATE SCHEMA IF NOT EXISTS sales`))
}

func TestApplyTableIfNotExists(t *testing.T) {
	cat := catalog.New("db")
	require.NoError(t, Apply(cat, `CREATE TABLE t (a INT8, b INT8)`))

	err := Apply(cat, `CREATE TABLE t (a INT8)`)
	assert.True(t, ErrExists.Is(err))

	require.NoError(t, Apply(cat, `CREATE TABLE IF NOT EXISTS t (a INT8)`))

	// The original definition is kept.
	tbl, err := cat.FindTable("t")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumColumns())
}

func TestApplyCreateTableAsIsUnsupported(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `CREATE TABLE t AS SELECT 1 AS x`)
	assert.True(t, ErrUnsupported.Is(err))
}

func TestApplySkipsNonShapeStatements(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `
		CREATE TABLE t (x INT8);
		CREATE INDEX t_x ON t (x);
		CREATE VIEW v AS SELECT x FROM t;
		COMMENT ON TABLE t IS 'fact table'`)
	require.NoError(t, err)

	_, err = cat.FindTable("t")
	require.NoError(t, err)
	_, err = cat.FindTable("v")
	assert.True(t, catalog.ErrTableNotFound.Is(err))
}

func TestApplyUnsupportedStatement(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `DROP TABLE t`)
	assert.True(t, ErrUnsupported.Is(err))
}

func TestApplyParseError(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `CREATE NONSENSE`)
	assert.True(t, ErrParse.Is(err))
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `
		CREATE TABLE a (x INT8);
		DROP TABLE a;
		CREATE TABLE b (x INT8)`)
	assert.True(t, ErrUnsupported.Is(err))

	// Work before the failing statement sticks.
	_, err = cat.FindTable("a")
	require.NoError(t, err)
	_, err = cat.FindTable("b")
	assert.True(t, catalog.ErrTableNotFound.Is(err))
}

func TestApplyUnknownColumnType(t *testing.T) {
	cat := catalog.New("db")
	err := Apply(cat, `CREATE TABLE places (g GEOMETRY)`)
	assert.True(t, ErrUnknownType.Is(err))
}

func TestTypeFromSQL(t *testing.T) {
	cases := []struct {
		in   string
		want types.Type
	}{
		{"BOOL", types.Bool},
		{"INT4", types.Int32},
		{"INT8", types.Int64},
		{"BIGINT", types.Int64},
		{"FLOAT4", types.Float},
		{"DOUBLE PRECISION", types.Double},
		{"VARCHAR(255)", types.String},
		{"character varying", types.String},
		{"UUID", types.String},
		{"BYTEA", types.Bytes},
		{"DATE", types.Date},
		{"TIMESTAMPTZ", types.Timestamp},
		{"DECIMAL(18,3)", types.Numeric},
		{"STRING[]", types.ArrayOf(types.String)},
		{"DECIMAL(10,2)[]", types.ArrayOf(types.Numeric)},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := typeFromSQL(tc.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
		})
	}

	_, err := typeFromSQL("GEOMETRY")
	assert.True(t, ErrUnknownType.Is(err))
}
