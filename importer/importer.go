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

// Package importer populates a catalog from the information_schema of a
// live database. Each source schema becomes an owned sub-catalog of the
// target, holding one owned Table per base table or view.
package importer

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/configuration"
)

var (
	// ErrDialect is returned when no dialect is registered for the
	// driver behind the connection.
	ErrDialect = errors.NewKind("importer: no dialect for driver %q")

	// ErrSchemaNotFound is returned when a schema requested in Options
	// does not exist in the source.
	ErrSchemaNotFound = errors.NewKind("importer: schema %q not found in source")

	// ErrUnknownColumnType is returned when a column's declared type has
	// no mapping for the dialect.
	ErrUnknownColumnType = errors.NewKind("importer: unknown %s type %q for column %q of %s.%s")

	// ErrSampling is returned by ImportDSN when sampling is requested:
	// row sources outlive the import, so the connection must be owned by
	// the caller.
	ErrSampling = errors.NewKind("importer: sampling requires a caller-owned connection, use Import")
)

// Options control what Import pulls out of the source database.
type Options struct {
	// Connection, when non-empty, registers the source under this name
	// as an owned Connection entry of the target catalog.
	Connection string

	// Schemas restricts the import to the named schemas. Empty imports
	// every schema except the dialect's system ones.
	Schemas []string

	// SkipViews leaves views out of the catalog. The
	// MYCATALOG_IMPORT_SKIP_VIEWS environment variable forces it on.
	SkipViews bool

	// SampleLimit, when positive, attaches a RowSource to each imported
	// table that reads up to this many rows from the source on demand.
	SampleLimit int
}

// Report summarizes one import run.
type Report struct {
	Schemas int
	Tables  int
	Views   int
	Columns int

	// Skipped lists qualified names that were not imported, either
	// because views were excluded or because the name was taken.
	Skipped []string
}

// Import reads the database behind db and registers its schemas in cat.
// The dialect is chosen by db.DriverName(); the connection stays open
// and remains the caller's to close.
func Import(ctx context.Context, cat *catalog.Catalog, db *sqlx.DB, opts Options) (*Report, error) {
	return importInto(ctx, cat, db, "", opts)
}

// ImportDSN opens driver/dsn, imports the source into cat, and closes
// the connection before returning.
func ImportDSN(ctx context.Context, cat *catalog.Catalog, driver, dsn string, opts Options) (*Report, error) {
	if opts.SampleLimit > 0 {
		return nil, ErrSampling.New()
	}
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return importInto(ctx, cat, db, dsn, opts)
}

func importInto(ctx context.Context, cat *catalog.Catalog, db *sqlx.DB, dsn string, opts Options) (*Report, error) {
	d, ok := dialects[db.DriverName()]
	if !ok {
		return nil, ErrDialect.New(db.DriverName())
	}
	skipViews := opts.SkipViews || configuration.IsImportSkipViews()

	schemas, err := d.schemaNames(ctx, db, opts.Schemas)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, schema := range schemas {
		if err := importSchema(ctx, cat, db, d, schema, skipViews, opts.SampleLimit, report); err != nil {
			return report, err
		}
		report.Schemas++
	}

	if opts.Connection != "" {
		conn := catalog.NewConnection(opts.Connection, db.DriverName(), dsn)
		if !cat.AddOwnedConnectionIfNotPresent(conn) {
			logrus.WithField("connection", opts.Connection).Debug("Connection entry already present")
		}
	}

	logrus.WithFields(logrus.Fields{
		"driver":  db.DriverName(),
		"schemas": report.Schemas,
		"tables":  report.Tables,
		"views":   report.Views,
		"columns": report.Columns,
		"skipped": len(report.Skipped),
	}).Info("Imported catalog")
	return report, nil
}

func importSchema(ctx context.Context, cat *catalog.Catalog, db *sqlx.DB, d *dialect, schema string, skipViews bool, sampleLimit int, report *Report) error {
	sub := catalog.New(schema)
	if !cat.AddOwnedCatalogIfNotPresent(sub) {
		existing, err := cat.FindCatalog(schema)
		if err != nil {
			return err
		}
		sub = existing
	}

	tables, err := d.tableInfos(ctx, db, schema)
	if err != nil {
		return err
	}

	for _, info := range tables {
		qualified := schema + "." + info.Name
		if info.isView() && skipViews {
			report.Skipped = append(report.Skipped, qualified)
			logrus.WithField("view", qualified).Debug("Skipped view")
			continue
		}

		cols, err := d.columnInfos(ctx, db, schema, info.Name)
		if err != nil {
			return err
		}
		tbl, err := buildTable(d, schema, info, cols)
		if err != nil {
			return err
		}
		if sampleLimit > 0 {
			tbl.SetRowSource(sampleSource(db, d, schema, info.Name, tbl.Columns(), sampleLimit))
		}

		if !sub.AddOwnedTableIfNotPresent(tbl) {
			report.Skipped = append(report.Skipped, qualified)
			logrus.WithField("table", qualified).Debug("Table already present")
			continue
		}
		report.Columns += len(cols)
		if info.isView() {
			report.Views++
		} else {
			report.Tables++
		}
	}
	return nil
}

func buildTable(d *dialect, schema string, info tableInfo, cols []columnInfo) (*catalog.Table, error) {
	columns := make([]*catalog.Column, 0, len(cols))
	for _, col := range cols {
		typ, ok := d.typeFor(col)
		if !ok {
			return nil, ErrUnknownColumnType.New(d.name, col.DataType, col.Name, schema, info.Name)
		}
		columns = append(columns, catalog.NewColumn(col.Name, typ))
	}
	return catalog.NewTable(info.Name, columns...)
}
