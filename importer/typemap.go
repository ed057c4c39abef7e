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

import "github.com/apecloud/mycatalog/types"

// The maps are keyed by the lowercased data_type reported by each
// dialect's information_schema, with length and precision arguments
// stripped. Textual types the catalog has no native kind for (uuid,
// json, inet, intervals, time of day) import as strings.

var postgresTypes = map[string]types.Type{
	"boolean": types.Bool,

	"smallint": types.Int32,
	"int2":     types.Int32,
	"integer":  types.Int32,
	"int":      types.Int32,
	"int4":     types.Int32,
	"bigint":   types.Int64,
	"int8":     types.Int64,

	"real":             types.Float,
	"float4":           types.Float,
	"double precision": types.Double,
	"float8":           types.Double,

	"numeric": types.Numeric,
	"decimal": types.Numeric,

	"text":              types.String,
	"character varying": types.String,
	"varchar":           types.String,
	"character":         types.String,
	"char":              types.String,
	"bpchar":            types.String,
	"name":              types.String,
	"uuid":              types.String,
	"json":              types.String,
	"jsonb":             types.String,
	"xml":               types.String,
	"inet":              types.String,
	"cidr":              types.String,
	"time without time zone": types.String,
	"time with time zone":    types.String,
	"interval":               types.String,

	"bytea": types.Bytes,

	"date":                        types.Date,
	"timestamp":                   types.Timestamp,
	"timestamp without time zone": types.Timestamp,
	"timestamp with time zone":    types.Timestamp,
}

// Postgres reports ARRAY columns with the element encoded in udt_name
// as "_" plus the internal element name.
var postgresArrayElems = map[string]types.Type{
	"_bool":        types.Bool,
	"_int2":        types.Int32,
	"_int4":        types.Int32,
	"_int8":        types.Int64,
	"_float4":      types.Float,
	"_float8":      types.Double,
	"_numeric":     types.Numeric,
	"_text":        types.String,
	"_varchar":     types.String,
	"_bpchar":      types.String,
	"_name":        types.String,
	"_uuid":        types.String,
	"_bytea":       types.Bytes,
	"_date":        types.Date,
	"_timestamp":   types.Timestamp,
	"_timestamptz": types.Timestamp,
}

var mysqlTypes = map[string]types.Type{
	"tinyint":   types.Int32,
	"smallint":  types.Int32,
	"mediumint": types.Int32,
	"int":       types.Int32,
	"integer":   types.Int32,
	"year":      types.Int32,
	"bigint":    types.Int64,

	"float":  types.Float,
	"double": types.Double,

	"decimal": types.Numeric,
	"numeric": types.Numeric,

	"char":       types.String,
	"varchar":    types.String,
	"tinytext":   types.String,
	"text":       types.String,
	"mediumtext": types.String,
	"longtext":   types.String,
	"enum":       types.String,
	"set":        types.String,
	"json":       types.String,
	"time":       types.String,

	"binary":     types.Bytes,
	"varbinary":  types.Bytes,
	"tinyblob":   types.Bytes,
	"blob":       types.Bytes,
	"mediumblob": types.Bytes,
	"longblob":   types.Bytes,
	"bit":        types.Bytes,

	"date":      types.Date,
	"datetime":  types.Timestamp,
	"timestamp": types.Timestamp,
}

var duckdbTypes = map[string]types.Type{
	"boolean": types.Bool,
	"bool":    types.Bool,

	"tinyint":  types.Int32,
	"int1":     types.Int32,
	"smallint": types.Int32,
	"int2":     types.Int32,
	"integer":  types.Int32,
	"int4":     types.Int32,
	"int":      types.Int32,
	"bigint":   types.Int64,
	"int8":     types.Int64,
	"long":     types.Int64,

	"utinyint":  types.Uint32,
	"usmallint": types.Uint32,
	"uinteger":  types.Uint32,
	"ubigint":   types.Uint64,

	"real":   types.Float,
	"float4": types.Float,
	"float":  types.Float,
	"double": types.Double,
	"float8": types.Double,

	"decimal": types.Numeric,
	"numeric": types.Numeric,
	"hugeint": types.Numeric,

	"varchar": types.String,
	"text":    types.String,
	"string":  types.String,
	"char":    types.String,
	"bpchar":  types.String,
	"uuid":    types.String,
	"json":    types.String,
	"time":    types.String,
	"interval": types.String,

	"blob":      types.Bytes,
	"bytea":     types.Bytes,
	"binary":    types.Bytes,
	"varbinary": types.Bytes,

	"date":                     types.Date,
	"datetime":                 types.Timestamp,
	"timestamp":                types.Timestamp,
	"timestamptz":              types.Timestamp,
	"timestamp with time zone": types.Timestamp,
}
