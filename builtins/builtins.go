// Package builtins supplies standard function definitions for
// catalog.LoadBuiltins. The Standard provider carries a fixed set of
// typed families, some published under namespaces ("net", "hll_count",
// "keys") that the loader turns into sub-catalogs; the MySQL provider in
// mysql.go adapts go-mysql-server's builtin registry instead.
package builtins

import (
	"github.com/apecloud/mycatalog/catalog"
	"github.com/apecloud/mycatalog/types"
)

// Family names accepted in catalog.BuiltinOptions.IncludeFamilies.
const (
	FamilyArithmetic = "arithmetic"
	FamilyString     = "string"
	FamilyAggregate  = "aggregate"
	FamilyDatetime   = "datetime"
	FamilyNet        = "net"
	FamilyHLLCount   = "hll_count"
	FamilyKeys       = "keys"
	FamilyGenerator  = "generator"
)

type definition struct {
	name string
	sigs []catalog.Signature
}

type family struct {
	name      string
	namespace string
	defs      []definition
}

func sig(result types.Type, args ...catalog.Argument) catalog.Signature {
	return catalog.Signature{Args: args, Result: result}
}

func arg(t types.Type) catalog.Argument { return catalog.Argument{Type: t} }

func rep(t types.Type) catalog.Argument { return catalog.Argument{Type: t, Repeated: true} }

var families = []family{
	{name: FamilyArithmetic, defs: []definition{
		{"abs", []catalog.Signature{sig(types.Int64, arg(types.Int64)), sig(types.Double, arg(types.Double))}},
		{"sign", []catalog.Signature{sig(types.Int64, arg(types.Int64)), sig(types.Double, arg(types.Double))}},
		{"mod", []catalog.Signature{sig(types.Int64, arg(types.Int64), arg(types.Int64))}},
		{"div", []catalog.Signature{sig(types.Int64, arg(types.Int64), arg(types.Int64))}},
		{"round", []catalog.Signature{sig(types.Double, arg(types.Double)), sig(types.Double, arg(types.Double), arg(types.Int64))}},
		{"trunc", []catalog.Signature{sig(types.Double, arg(types.Double)), sig(types.Double, arg(types.Double), arg(types.Int64))}},
		{"ceil", []catalog.Signature{sig(types.Double, arg(types.Double))}},
		{"floor", []catalog.Signature{sig(types.Double, arg(types.Double))}},
		{"pow", []catalog.Signature{sig(types.Double, arg(types.Double), arg(types.Double))}},
		{"sqrt", []catalog.Signature{sig(types.Double, arg(types.Double))}},
		{"exp", []catalog.Signature{sig(types.Double, arg(types.Double))}},
		{"ln", []catalog.Signature{sig(types.Double, arg(types.Double))}},
		{"log10", []catalog.Signature{sig(types.Double, arg(types.Double))}},
		{"greatest", []catalog.Signature{sig(types.Int64, rep(types.Int64)), sig(types.Double, rep(types.Double))}},
		{"least", []catalog.Signature{sig(types.Int64, rep(types.Int64)), sig(types.Double, rep(types.Double))}},
	}},
	{name: FamilyString, defs: []definition{
		{"concat", []catalog.Signature{sig(types.String, rep(types.String))}},
		{"lower", []catalog.Signature{sig(types.String, arg(types.String))}},
		{"upper", []catalog.Signature{sig(types.String, arg(types.String))}},
		{"length", []catalog.Signature{sig(types.Int64, arg(types.String)), sig(types.Int64, arg(types.Bytes))}},
		{"substr", []catalog.Signature{sig(types.String, arg(types.String), arg(types.Int64)), sig(types.String, arg(types.String), arg(types.Int64), arg(types.Int64))}},
		{"trim", []catalog.Signature{sig(types.String, arg(types.String)), sig(types.String, arg(types.String), arg(types.String))}},
		{"ltrim", []catalog.Signature{sig(types.String, arg(types.String)), sig(types.String, arg(types.String), arg(types.String))}},
		{"rtrim", []catalog.Signature{sig(types.String, arg(types.String)), sig(types.String, arg(types.String), arg(types.String))}},
		{"replace", []catalog.Signature{sig(types.String, arg(types.String), arg(types.String), arg(types.String))}},
		{"starts_with", []catalog.Signature{sig(types.Bool, arg(types.String), arg(types.String))}},
		{"ends_with", []catalog.Signature{sig(types.Bool, arg(types.String), arg(types.String))}},
		{"split", []catalog.Signature{sig(types.ArrayOf(types.String), arg(types.String), arg(types.String))}},
		{"reverse", []catalog.Signature{sig(types.String, arg(types.String))}},
		{"lpad", []catalog.Signature{sig(types.String, arg(types.String), arg(types.Int64), arg(types.String))}},
		{"rpad", []catalog.Signature{sig(types.String, arg(types.String), arg(types.Int64), arg(types.String))}},
	}},
	{name: FamilyAggregate, defs: []definition{
		{"count", []catalog.Signature{sig(types.Int64), sig(types.Int64, arg(nil))}},
		{"countif", []catalog.Signature{sig(types.Int64, arg(types.Bool))}},
		{"sum", []catalog.Signature{sig(types.Int64, arg(types.Int64)), sig(types.Double, arg(types.Double)), sig(types.Numeric, arg(types.Numeric))}},
		{"avg", []catalog.Signature{sig(types.Double, arg(types.Int64)), sig(types.Double, arg(types.Double)), sig(types.Numeric, arg(types.Numeric))}},
		{"min", []catalog.Signature{sig(nil, arg(nil))}},
		{"max", []catalog.Signature{sig(nil, arg(nil))}},
		{"string_agg", []catalog.Signature{sig(types.String, arg(types.String)), sig(types.String, arg(types.String), arg(types.String))}},
		{"logical_and", []catalog.Signature{sig(types.Bool, arg(types.Bool))}},
		{"logical_or", []catalog.Signature{sig(types.Bool, arg(types.Bool))}},
	}},
	{name: FamilyDatetime, defs: []definition{
		{"current_date", []catalog.Signature{sig(types.Date)}},
		{"current_timestamp", []catalog.Signature{sig(types.Timestamp)}},
		{"date_add", []catalog.Signature{sig(types.Date, arg(types.Date), arg(types.Int64))}},
		{"date_sub", []catalog.Signature{sig(types.Date, arg(types.Date), arg(types.Int64))}},
		{"date_diff", []catalog.Signature{sig(types.Int64, arg(types.Date), arg(types.Date))}},
		{"date_trunc", []catalog.Signature{sig(types.Date, arg(types.Date), arg(types.String))}},
		{"format_date", []catalog.Signature{sig(types.String, arg(types.String), arg(types.Date))}},
		{"format_timestamp", []catalog.Signature{sig(types.String, arg(types.String), arg(types.Timestamp))}},
		{"parse_date", []catalog.Signature{sig(types.Date, arg(types.String), arg(types.String))}},
		{"parse_timestamp", []catalog.Signature{sig(types.Timestamp, arg(types.String), arg(types.String))}},
		{"unix_seconds", []catalog.Signature{sig(types.Int64, arg(types.Timestamp))}},
		{"timestamp_seconds", []catalog.Signature{sig(types.Timestamp, arg(types.Int64))}},
	}},
	{name: FamilyNet, namespace: "net", defs: []definition{
		{"host", []catalog.Signature{sig(types.String, arg(types.String))}},
		{"public_suffix", []catalog.Signature{sig(types.String, arg(types.String))}},
		{"reg_domain", []catalog.Signature{sig(types.String, arg(types.String))}},
		{"ip_from_string", []catalog.Signature{sig(types.Bytes, arg(types.String))}},
		{"safe_ip_from_string", []catalog.Signature{sig(types.Bytes, arg(types.String))}},
		{"ip_to_string", []catalog.Signature{sig(types.String, arg(types.Bytes))}},
		{"ipv4_from_int64", []catalog.Signature{sig(types.Bytes, arg(types.Int64))}},
		{"ipv4_to_int64", []catalog.Signature{sig(types.Int64, arg(types.Bytes))}},
	}},
	{name: FamilyHLLCount, namespace: "hll_count", defs: []definition{
		{"init", []catalog.Signature{sig(types.Bytes, arg(types.Int64)), sig(types.Bytes, arg(types.String))}},
		{"merge", []catalog.Signature{sig(types.Int64, arg(types.Bytes))}},
		{"merge_partial", []catalog.Signature{sig(types.Bytes, arg(types.Bytes))}},
		{"extract", []catalog.Signature{sig(types.Int64, arg(types.Bytes))}},
	}},
	{name: FamilyKeys, namespace: "keys", defs: []definition{
		{"new_keyset", []catalog.Signature{sig(types.Bytes, arg(types.String))}},
		{"add_key_from_raw_bytes", []catalog.Signature{sig(types.Bytes, arg(types.Bytes), arg(types.String), arg(types.Bytes))}},
		{"rotate_keyset", []catalog.Signature{sig(types.Bytes, arg(types.Bytes), arg(types.String))}},
		{"keyset_length", []catalog.Signature{sig(types.Int64, arg(types.Bytes))}},
		{"keyset_to_json", []catalog.Signature{sig(types.String, arg(types.Bytes))}},
		{"keyset_from_json", []catalog.Signature{sig(types.Bytes, arg(types.String))}},
	}},
}

type tableDefinition struct {
	name    string
	args    []catalog.Argument
	outputs []columnDef
}

type columnDef struct {
	name string
	typ  types.Type
}

var tableFamilies = []struct {
	name string
	defs []tableDefinition
}{
	{name: FamilyGenerator, defs: []tableDefinition{
		{
			name:    "generate_series",
			args:    []catalog.Argument{arg(types.Int64), arg(types.Int64), arg(types.Int64)},
			outputs: []columnDef{{"value", types.Int64}},
		},
		{
			name:    "generate_date_series",
			args:    []catalog.Argument{arg(types.Date), arg(types.Date), arg(types.Int64)},
			outputs: []columnDef{{"value", types.Date}},
		},
	}},
}

// Standard yields the typed builtin families defined in this package.
type Standard struct{}

var _ catalog.BuiltinProvider = Standard{}

// Families lists every family Standard knows, in definition order.
func (Standard) Families() []string {
	out := make([]string, 0, len(families)+len(tableFamilies))
	for _, fam := range families {
		out = append(out, fam.name)
	}
	for _, fam := range tableFamilies {
		out = append(out, fam.name)
	}
	return out
}

// BuiltinFunctions implements catalog.BuiltinProvider.
func (Standard) BuiltinFunctions(opts catalog.BuiltinOptions) ([]catalog.BuiltinFunction, error) {
	var out []catalog.BuiltinFunction
	for _, fam := range families {
		if !opts.IncludesFamily(fam.name) {
			continue
		}
		for _, def := range fam.defs {
			if opts.Excludes(def.name) {
				continue
			}
			out = append(out, catalog.BuiltinFunction{
				Namespace: fam.namespace,
				Function:  catalog.NewFunction(def.name, def.sigs...),
			})
		}
	}
	return out, nil
}

// BuiltinTableFunctions implements catalog.BuiltinProvider.
func (Standard) BuiltinTableFunctions(opts catalog.BuiltinOptions) ([]catalog.BuiltinTableFunction, error) {
	var out []catalog.BuiltinTableFunction
	for _, fam := range tableFamilies {
		if !opts.IncludesFamily(fam.name) {
			continue
		}
		for _, def := range fam.defs {
			if opts.Excludes(def.name) {
				continue
			}
			outputs := make([]*catalog.Column, len(def.outputs))
			for i, col := range def.outputs {
				outputs[i] = catalog.NewColumn(col.name, col.typ)
			}
			out = append(out, catalog.BuiltinTableFunction{
				Function: catalog.NewTableFunction(def.name, def.args, outputs),
			})
		}
	}
	return out, nil
}
