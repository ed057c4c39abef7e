package ddl

import (
	"strings"

	"github.com/apecloud/mycatalog/types"
)

// typeFromSQL maps the SQLString rendering of a parsed column type onto
// a catalog type. Length, precision and width arguments do not affect
// name resolution, so VARCHAR(255) maps like VARCHAR and DECIMAL(10,2)
// like DECIMAL.
func typeFromSQL(sqlType string) (types.Type, error) {
	name := strings.ToUpper(strings.TrimSpace(sqlType))
	if elem, ok := strings.CutSuffix(name, "[]"); ok {
		inner, err := typeFromSQL(elem)
		if err != nil {
			return nil, err
		}
		return types.ArrayOf(inner), nil
	}
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}

	switch name {
	case "BOOL", "BOOLEAN":
		return types.Bool, nil
	case "INT2", "SMALLINT", "INT4", "INTEGER":
		return types.Int32, nil
	case "INT", "INT8", "BIGINT":
		return types.Int64, nil
	case "FLOAT4", "REAL":
		return types.Float, nil
	case "FLOAT", "FLOAT8", "DOUBLE PRECISION":
		return types.Double, nil
	case "STRING", "TEXT", "VARCHAR", "CHAR", "CHARACTER", "CHARACTER VARYING", "NAME":
		return types.String, nil
	case "UUID", "JSON", "JSONB", "INET":
		return types.String, nil
	case "BYTES", "BYTEA", "BLOB":
		return types.Bytes, nil
	case "DATE":
		return types.Date, nil
	case "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITHOUT TIME ZONE", "TIMESTAMP WITH TIME ZONE":
		return types.Timestamp, nil
	case "DECIMAL", "NUMERIC":
		return types.Numeric, nil
	}
	return nil, ErrUnknownType.New(sqlType)
}
