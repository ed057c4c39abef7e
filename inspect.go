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
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/importer"
)

func runImport() {
	if dsn == "" {
		logrus.Fatalln("An import needs -dsn")
	}

	cat, err := newCatalog()
	if err != nil {
		logrus.Fatalln("Failed to assemble the catalog:", err)
	}
	defer cat.Close()

	report, err := importer.ImportDSN(context.Background(), cat, driver, dsn, importOptions())
	if err != nil {
		logrus.Fatalln("Failed to import the source:", err)
	}

	snap, err := catalog.NewSnapshot(cat, catalog.SerializeOptions{IncludeSubcatalogs: true})
	if err != nil {
		logrus.Fatalln("Failed to serialize the catalog:", err)
	}
	data, err := snap.Encode()
	if err != nil {
		logrus.Fatalln("Failed to encode the snapshot:", err)
	}
	if err := os.WriteFile(snapshotPath, data, 0o644); err != nil {
		logrus.Fatalln("Failed to write the snapshot:", err)
	}

	logrus.WithFields(logrus.Fields{
		"snapshot": snapshotPath,
		"schemas":  report.Schemas,
		"tables":   report.Tables,
		"views":    report.Views,
		"columns":  report.Columns,
	}).Info("Wrote catalog snapshot")
}

func runInspect() {
	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		logrus.Fatalln("Failed to read the snapshot:", err)
	}
	snap, cat, err := restoredCatalog(data)
	if err != nil {
		logrus.Fatalln("Failed to restore the snapshot:", err)
	}
	defer cat.Close()

	fmt.Printf("%s  created %s\n", snap.ID, snap.CreatedAt.Format(time.RFC3339))
	if suggestName != "" {
		printSuggestions(cat, suggestName)
		return
	}
	printCatalog(cat, "")
}

// restoredCatalog decodes a snapshot and restores it, re-loading the
// selected builtin set when one is configured.
func restoredCatalog(data []byte) (*catalog.Snapshot, *catalog.Catalog, error) {
	snap, err := catalog.DecodeSnapshot(data)
	if err != nil {
		return nil, nil, err
	}
	provider, err := builtinProvider()
	if err != nil {
		return nil, nil, err
	}
	var cat *catalog.Catalog
	if provider != nil {
		cat, err = snap.RestoreWithBuiltins(provider)
	} else {
		cat, err = snap.Restore()
	}
	if err != nil {
		return nil, nil, err
	}
	return snap, cat, nil
}

func printSuggestions(cat *catalog.Catalog, name string) {
	path := strings.Split(name, ".")
	hits := []struct{ kind, name string }{
		{"table", cat.SuggestTable(path)},
		{"model", cat.SuggestModel(path)},
		{"function", cat.SuggestFunction(path)},
		{"table function", cat.SuggestTableFunction(path)},
		{"constant", cat.SuggestConstant(path)},
		{"type", cat.SuggestType(path)},
	}
	found := false
	for _, hit := range hits {
		if hit.name != "" {
			fmt.Printf("%s: did you mean %s?\n", hit.kind, hit.name)
			found = true
		}
	}
	if !found {
		fmt.Printf("no name close to %q\n", name)
	}
}

func printCatalog(c *catalog.Catalog, indent string) {
	fmt.Printf("%s%s\n", indent, c.Name())
	for _, tbl := range c.Tables() {
		fmt.Printf("%s  table %s (%d columns)\n", indent, tbl.Name(), len(tbl.Columns()))
	}
	for _, name := range c.ModelNames() {
		fmt.Printf("%s  model %s\n", indent, name)
	}
	for _, name := range c.ConnectionNames() {
		fmt.Printf("%s  connection %s\n", indent, name)
	}
	if n := len(c.FunctionNames()); n > 0 {
		fmt.Printf("%s  functions: %d\n", indent, n)
	}
	if n := len(c.TableFunctionNames()); n > 0 {
		fmt.Printf("%s  table functions: %d\n", indent, n)
	}
	if n := len(c.ProcedureNames()); n > 0 {
		fmt.Printf("%s  procedures: %d\n", indent, n)
	}
	for _, constant := range c.Constants() {
		fmt.Printf("%s  constant %s\n", indent, constant.FullName())
	}
	for _, sub := range c.Catalogs() {
		printCatalog(sub, indent+"  ")
	}
}
