package builtins

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

func findDef(defs []catalog.BuiltinFunction, name string) (catalog.BuiltinFunction, bool) {
	for _, d := range defs {
		if catalog.NamesEqual(d.Function.Name(), name) {
			return d, true
		}
	}
	return catalog.BuiltinFunction{}, false
}

func TestStandardFamilies(t *testing.T) {
	fams := Standard{}.Families()
	assert.Equal(t, []string{
		FamilyArithmetic, FamilyString, FamilyAggregate, FamilyDatetime,
		FamilyNet, FamilyHLLCount, FamilyKeys, FamilyGenerator,
	}, fams)
}

func TestStandardProvidesTypedSignatures(t *testing.T) {
	defs, err := Standard{}.BuiltinFunctions(catalog.BuiltinOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	abs, ok := findDef(defs, "abs")
	require.True(t, ok)
	assert.Equal(t, "", abs.Namespace)
	require.Equal(t, 2, abs.Function.NumSignatures())
	first := abs.Function.Signatures()[0]
	assert.True(t, first.Result.Equal(types.Int64))

	host, ok := findDef(defs, "host")
	require.True(t, ok)
	assert.Equal(t, "net", host.Namespace)

	// Names are unique across all families.
	seen := make(map[string]bool)
	for _, d := range defs {
		key := d.Namespace + "." + d.Function.Name()
		assert.False(t, seen[key], "duplicate definition %s", key)
		seen[key] = true
	}
}

func TestStandardFamilyFilter(t *testing.T) {
	opts := catalog.BuiltinOptions{IncludeFamilies: []string{FamilyString}}
	defs, err := Standard{}.BuiltinFunctions(opts)
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	_, ok := findDef(defs, "concat")
	assert.True(t, ok)
	_, ok = findDef(defs, "abs")
	assert.False(t, ok)
	for _, d := range defs {
		assert.Equal(t, "", d.Namespace)
	}
}

func TestStandardExcludesFunctions(t *testing.T) {
	opts := catalog.BuiltinOptions{ExcludeFunctions: []string{"ABS", "generate_series"}}
	defs, err := Standard{}.BuiltinFunctions(opts)
	require.NoError(t, err)
	_, ok := findDef(defs, "abs")
	assert.False(t, ok)
	_, ok = findDef(defs, "sign")
	assert.True(t, ok)

	tvfs, err := Standard{}.BuiltinTableFunctions(opts)
	require.NoError(t, err)
	for _, d := range tvfs {
		assert.NotEqual(t, "generate_series", d.Function.Name())
	}
}

func TestStandardTableFunctions(t *testing.T) {
	tvfs, err := Standard{}.BuiltinTableFunctions(catalog.BuiltinOptions{})
	require.NoError(t, err)
	require.Len(t, tvfs, 2)

	gs := tvfs[0].Function
	assert.Equal(t, "generate_series", gs.Name())
	require.Len(t, gs.Args(), 3)
	assert.True(t, gs.Args()[0].Type.Equal(types.Int64))
	require.Len(t, gs.Outputs(), 1)
	assert.Equal(t, "value", gs.Outputs()[0].Name)
	assert.True(t, gs.Outputs()[0].Type.Equal(types.Int64))

	none, err := Standard{}.BuiltinTableFunctions(catalog.BuiltinOptions{
		IncludeFamilies: []string{FamilyArithmetic},
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoadStandardIntoCatalog(t *testing.T) {
	c := catalog.New("db")
	require.NoError(t, c.LoadBuiltins(catalog.BuiltinOptions{}, Standard{}))

	fn, err := c.FindFunction("abs")
	require.NoError(t, err)
	assert.True(t, fn.IsBuiltin())

	net, err := c.FindCatalog("net")
	require.NoError(t, err)
	_, err = net.FindFunction("host")
	require.NoError(t, err)

	_, err = c.FindTableFunction("generate_series")
	require.NoError(t, err)

	c.ClearFunctions()
	_, err = c.FindFunction("abs")
	assert.Error(t, err)
	_, err = c.FindCatalog("net")
	assert.Error(t, err)
}

func TestMySQLProvider(t *testing.T) {
	defs, err := MySQL{Namespace: "mysql"}.BuiltinFunctions(catalog.BuiltinOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	names := make([]string, len(defs))
	for i, d := range defs {
		assert.Equal(t, "mysql", d.Namespace)
		names[i] = d.Function.Name()
	}
	assert.True(t, sort.StringsAreSorted(names), "definitions should come back sorted")

	seen := make(map[string]bool)
	for _, name := range names {
		assert.Equal(t, name, strings.ToLower(name), "names should be lowercased")
		assert.False(t, seen[name], "duplicate function %q", name)
		seen[name] = true
	}
	assert.Contains(t, names, "abs")

	// The single open signature admits any call shape.
	d, ok := findDef(defs, "abs")
	require.True(t, ok)
	require.Equal(t, 1, d.Function.NumSignatures())
	sig := d.Function.Signatures()[0]
	require.Len(t, sig.Args, 1)
	assert.True(t, sig.Args[0].Repeated)
}

func TestMySQLProviderGating(t *testing.T) {
	defs, err := MySQL{}.BuiltinFunctions(catalog.BuiltinOptions{
		IncludeFamilies: []string{FamilyArithmetic},
	})
	require.NoError(t, err)
	assert.Empty(t, defs)

	excluded, err := MySQL{}.BuiltinFunctions(catalog.BuiltinOptions{
		ExcludeFunctions: []string{"abs"},
	})
	require.NoError(t, err)
	for _, d := range excluded {
		assert.NotEqual(t, "abs", d.Function.Name())
	}

	tvfs, err := MySQL{}.BuiltinTableFunctions(catalog.BuiltinOptions{})
	require.NoError(t, err)
	assert.Empty(t, tvfs)
}
