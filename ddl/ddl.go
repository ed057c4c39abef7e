// Package ddl populates catalogs from SQL DDL text. It understands the
// subset of statements that declare schema shape (CREATE TABLE, CREATE
// SCHEMA) and ignores physical details like indexes and constraints,
// which do not affect name resolution.
package ddl

import (
	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/parser"
	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/apecloud/mycatalog/catalog"
)

var (
	ErrParse       = errors.NewKind("ddl: parse: %v")
	ErrUnsupported = errors.NewKind("ddl: unsupported statement %q")
	ErrExists      = errors.NewKind("ddl: %s %q already exists")
	ErrUnknownType = errors.NewKind("ddl: unsupported column type %q")
	ErrNoSchema    = errors.NewKind("ddl: schema %q does not exist")
)

// Apply parses ddl and registers every declared object in cat. Tables
// qualified with a schema land in the sub-catalog of that name, which
// must already exist (CREATE SCHEMA earlier in the same script is
// enough). Statements that do not shape the namespace, like CREATE
// INDEX, are skipped.
//
// Apply stops at the first failing statement; objects registered by the
// preceding statements stay registered.
func Apply(cat *catalog.Catalog, ddl string) error {
	stmts, err := parser.Parse(ddl)
	if err != nil {
		return ErrParse.New(err)
	}
	for _, stmt := range stmts {
		if err := applyStatement(cat, stmt.AST); err != nil {
			return err
		}
	}
	return nil
}

func applyStatement(cat *catalog.Catalog, ast tree.Statement) error {
	switch n := ast.(type) {
	case *tree.CreateTable:
		return createTable(cat, n)
	case *tree.CreateSchema:
		return createSchema(cat, n)
	case *tree.CreateView:
		logrus.WithField("view", n.Name.Table()).Debug("Skipping view: column types are not declared in DDL")
		return nil
	case *tree.CreateIndex, *tree.CommentOnTable, *tree.CommentOnColumn:
		return nil
	default:
		return ErrUnsupported.New(ast.StatementTag())
	}
}

func createSchema(cat *catalog.Catalog, n *tree.CreateSchema) error {
	name := n.Schema.Schema()
	sub := catalog.New(name)
	if !cat.AddOwnedCatalogIfNotPresent(sub) {
		if n.IfNotExists {
			return nil
		}
		return ErrExists.New("schema", name)
	}
	return nil
}

func createTable(cat *catalog.Catalog, n *tree.CreateTable) error {
	target := cat
	if n.Table.ExplicitSchema {
		schema := n.Table.Schema()
		sub, err := cat.FindCatalog(schema)
		if err != nil {
			return ErrNoSchema.New(schema)
		}
		target = sub
	}

	if n.As() {
		return ErrUnsupported.New("CREATE TABLE AS")
	}

	tbl, err := catalog.NewTable(n.Table.Table())
	if err != nil {
		return err
	}
	for _, def := range n.Defs {
		col, ok := def.(*tree.ColumnTableDef)
		if !ok {
			// Constraints, indexes and families carry no names the
			// resolver cares about.
			continue
		}
		typ, err := typeFromSQL(col.Type.SQLString())
		if err != nil {
			return err
		}
		if err := tbl.AddColumn(catalog.NewColumn(string(col.Name), typ)); err != nil {
			return err
		}
	}

	if !target.AddOwnedTableIfNotPresent(tbl) {
		if n.IfNotExists {
			return nil
		}
		return ErrExists.New("table", n.Table.Table())
	}
	return nil
}
