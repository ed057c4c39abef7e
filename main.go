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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/apecloud/mycatalog/builtins"
	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/configuration"
	"github.com/apecloud/mycatalog/importer"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb"
)

// mycatalog imports database schemas into a catalog, snapshots them,
// and serves them over the MySQL protocol:
//
// > mycatalog -driver postgres -dsn postgres://localhost/shop import
// > mycatalog inspect
// > mycatalog -suggest sales.orderz inspect
// > mycatalog -driver duckdb -dsn shop.db -sample-rows 100 serve
//
// Any MySQL-compatible client can connect to the served catalog. A
// serve without -dsn restores the snapshot file when one exists.

var (
	catalogName  = "catalog"
	driver       = "duckdb"
	dsn          = ""
	schemas      = ""
	skipViews    = false
	sampleRows   = 0
	builtinSet   = "standard"
	snapshotPath = "catalog.snapshot.json"
	suggestName  = ""
	address      = "localhost"
	port         = 3306
	metricsPort  = 0
)

func init() {
	flag.StringVar(&catalogName, "name", catalogName, "The name of the root catalog.")
	flag.StringVar(&driver, "driver", driver, "The source driver: postgres, pgx, mysql or duckdb.")
	flag.StringVar(&dsn, "dsn", dsn, "The DSN of the source database. Empty skips the import.")
	flag.StringVar(&schemas, "schemas", schemas, "Comma-separated schemas to import. Empty imports all.")
	flag.BoolVar(&skipViews, "skip-views", skipViews, "Leave views out of the import.")
	flag.IntVar(&sampleRows, "sample-rows", sampleRows, "Rows to serve per table in serve mode. 0 serves schemas only.")
	flag.StringVar(&builtinSet, "builtins", builtinSet, "Builtin functions to load: standard, mysql or none.")
	flag.StringVar(&snapshotPath, "snapshot", snapshotPath, "The snapshot file written by import and read by inspect and serve.")
	flag.StringVar(&suggestName, "suggest", suggestName, "A dotted name to look up suggestions for in inspect mode.")
	flag.StringVar(&address, "address", address, "The address to bind to.")
	flag.IntVar(&port, "port", port, "The port to bind to.")
	flag.IntVar(&metricsPort, "metrics-port", metricsPort, "The Prometheus port. 0 disables metrics.")
}

func main() {
	flag.Parse()
	configureLogger()

	switch cmd := flag.Arg(0); cmd {
	case "import":
		runImport()
	case "inspect":
		runInspect()
	case "serve", "":
		runServe()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
}

func configureLogger() {
	level, err := logrus.ParseLevel(configuration.LogLevel())
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func newCatalog() (*catalog.Catalog, error) {
	cat := catalog.New(catalogName)
	provider, err := builtinProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		if err := cat.LoadBuiltins(catalog.BuiltinOptions{}, provider); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func builtinProvider() (catalog.BuiltinProvider, error) {
	switch builtinSet {
	case "standard":
		return builtins.Standard{}, nil
	case "mysql":
		return builtins.MySQL{}, nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown builtin set %q", builtinSet)
}

func importOptions() importer.Options {
	opts := importer.Options{
		Connection: "source",
		SkipViews:  skipViews,
	}
	if schemas != "" {
		for _, s := range strings.Split(schemas, ",") {
			if s = strings.TrimSpace(s); s != "" {
				opts.Schemas = append(opts.Schemas, s)
			}
		}
	}
	return opts
}
