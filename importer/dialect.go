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
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

const (
	schemataQuery = `SELECT schema_name FROM information_schema.schemata ORDER BY schema_name`
	tablesQuery   = `SELECT table_name, table_type FROM information_schema.tables WHERE table_schema = ? ORDER BY table_name`
)

// Column queries differ because only Postgres exposes udt_name, which
// is the sole way to recover the element type of an ARRAY column.
const (
	pgColumnsQuery = `SELECT column_name, data_type, udt_name FROM information_schema.columns WHERE table_schema = ? AND table_name = ? ORDER BY ordinal_position`
	columnsQuery   = `SELECT column_name, data_type, '' AS udt_name FROM information_schema.columns WHERE table_schema = ? AND table_name = ? ORDER BY ordinal_position`
)

// dialect carries the driver-specific pieces of an import: which
// schemas belong to the system, how identifiers are quoted, and how
// declared column types map onto catalog types.
type dialect struct {
	name          string
	systemSchemas map[string]bool
	quote         func(string) string
	columnsQuery  string
	scalarTypes   map[string]types.Type

	// arrayElems maps udt_name values of ARRAY columns to their element
	// type. Only set for Postgres.
	arrayElems map[string]types.Type
}

var postgresDialect = &dialect{
	name: "postgres",
	systemSchemas: map[string]bool{
		"information_schema": true,
		"pg_catalog":         true,
		"pg_toast":           true,
	},
	quote:        pq.QuoteIdentifier,
	columnsQuery: pgColumnsQuery,
	scalarTypes:  postgresTypes,
	arrayElems:   postgresArrayElems,
}

// dialects is keyed by database/sql driver name. The pgx entry serves
// github.com/jackc/pgx/v5/stdlib, which registers itself as "pgx".
var dialects = map[string]*dialect{
	"postgres": postgresDialect,
	"pgx":      postgresDialect,
	"mysql": {
		name: "mysql",
		systemSchemas: map[string]bool{
			"information_schema": true,
			"mysql":              true,
			"performance_schema": true,
			"sys":                true,
		},
		quote:        quoteBacktick,
		columnsQuery: columnsQuery,
		scalarTypes:  mysqlTypes,
	},
	"duckdb": {
		name: "duckdb",
		systemSchemas: map[string]bool{
			"information_schema": true,
			"pg_catalog":         true,
		},
		quote:        catalog.QuoteIdentifierANSI,
		columnsQuery: columnsQuery,
		scalarTypes:  duckdbTypes,
	},
}

func quoteBacktick(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}

type tableInfo struct {
	Name string `db:"table_name"`
	Type string `db:"table_type"`
}

// MySQL reports "SYSTEM VIEW" for its own views; anything that is not a
// base table is treated as a view.
func (t tableInfo) isView() bool {
	return !strings.EqualFold(t.Type, "BASE TABLE")
}

type columnInfo struct {
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
	UDTName  string `db:"udt_name"`
}

// schemaNames lists the importable schemas, filtered to requested when
// it is non-empty. A requested schema missing from the source is an
// error.
func (d *dialect) schemaNames(ctx context.Context, db *sqlx.DB, requested []string) ([]string, error) {
	var all []string
	if err := db.SelectContext(ctx, &all, schemataQuery); err != nil {
		return nil, err
	}

	if len(requested) == 0 {
		var out []string
		for _, name := range all {
			if !d.systemSchemas[strings.ToLower(name)] {
				out = append(out, name)
			}
		}
		return out, nil
	}

	out := make([]string, 0, len(requested))
	for _, want := range requested {
		found := ""
		for _, name := range all {
			if catalog.NamesEqual(name, want) {
				found = name
				break
			}
		}
		if found == "" {
			return nil, ErrSchemaNotFound.New(want)
		}
		out = append(out, found)
	}
	return out, nil
}

func (d *dialect) tableInfos(ctx context.Context, db *sqlx.DB, schema string) ([]tableInfo, error) {
	var out []tableInfo
	err := db.SelectContext(ctx, &out, db.Rebind(tablesQuery), schema)
	return out, err
}

func (d *dialect) columnInfos(ctx context.Context, db *sqlx.DB, schema, table string) ([]columnInfo, error) {
	var out []columnInfo
	err := db.SelectContext(ctx, &out, db.Rebind(d.columnsQuery), schema, table)
	return out, err
}

// typeFor maps a declared column type to a catalog type. Length and
// precision arguments are ignored; DuckDB-style "[]" suffixes and
// Postgres ARRAY columns become array types.
func (d *dialect) typeFor(col columnInfo) (types.Type, bool) {
	key := strings.ToLower(strings.TrimSpace(col.DataType))

	if elem, found := strings.CutSuffix(key, "[]"); found {
		t, ok := d.scalarType(elem)
		if !ok {
			return nil, false
		}
		return types.ArrayOf(t), true
	}
	if key == "array" && d.arrayElems != nil {
		elem, ok := d.arrayElems[strings.ToLower(col.UDTName)]
		if !ok {
			return nil, false
		}
		return types.ArrayOf(elem), true
	}

	return d.scalarType(key)
}

func (d *dialect) scalarType(key string) (types.Type, bool) {
	key = strings.TrimSpace(key)
	if i := strings.IndexByte(key, '('); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}
	t, ok := d.scalarTypes[key]
	return t, ok
}
