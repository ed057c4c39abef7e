package builtins

import (
	"sort"
	"strings"

	gmsfunction "github.com/dolthub/go-mysql-server/sql/expression/function"

	"github.com/apecloud/mycatalog/catalog"
)

// FamilyMySQL gates the MySQL provider in BuiltinOptions.
const FamilyMySQL = "mysql"

// MySQL adapts go-mysql-server's builtin registry: every function the
// engine ships becomes a declaration with one open variadic signature,
// since argument types are not recoverable from the engine registry.
type MySQL struct {
	// Namespace publishes the functions under a sub-catalog of that
	// name. Leaving it empty loads them into the root catalog, which
	// collides with the Standard families on names like abs and concat.
	Namespace string
}

var _ catalog.BuiltinProvider = MySQL{}

// BuiltinFunctions implements catalog.BuiltinProvider.
func (m MySQL) BuiltinFunctions(opts catalog.BuiltinOptions) ([]catalog.BuiltinFunction, error) {
	if !opts.IncludesFamily(FamilyMySQL) {
		return nil, nil
	}
	seen := make(map[string]bool, len(gmsfunction.BuiltIns))
	names := make([]string, 0, len(gmsfunction.BuiltIns))
	for _, f := range gmsfunction.BuiltIns {
		name := strings.ToLower(f.FunctionName())
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)

	open := catalog.Signature{Args: []catalog.Argument{{Name: "args", Repeated: true}}}
	out := make([]catalog.BuiltinFunction, 0, len(names))
	for _, name := range names {
		if opts.Excludes(name) {
			continue
		}
		out = append(out, catalog.BuiltinFunction{
			Namespace: m.Namespace,
			Function:  catalog.NewFunction(name, open),
		})
	}
	return out, nil
}

// BuiltinTableFunctions implements catalog.BuiltinProvider. The MySQL
// registry has no table-valued functions to contribute.
func (m MySQL) BuiltinTableFunctions(catalog.BuiltinOptions) ([]catalog.BuiltinTableFunction, error) {
	return nil, nil
}
