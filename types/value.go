package types

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
)

const dateLayout = "2006-01-02"

// Value is a typed constant value. The zero Value is invalid; construct
// values with the typed constructors below.
type Value struct {
	typ Type
	v   any
}

func BoolValue(b bool) Value         { return Value{typ: Bool, v: b} }
func Int64Value(i int64) Value       { return Value{typ: Int64, v: i} }
func Uint64Value(u uint64) Value     { return Value{typ: Uint64, v: u} }
func DoubleValue(f float64) Value    { return Value{typ: Double, v: f} }
func StringValue(s string) Value     { return Value{typ: String, v: s} }
func BytesValue(b []byte) Value      { return Value{typ: Bytes, v: b} }
func DateValue(t time.Time) Value    { return Value{typ: Date, v: t.UTC().Truncate(24 * time.Hour)} }
func TimestampValue(t time.Time) Value { return Value{typ: Timestamp, v: t.UTC()} }

// NumericValue wraps an arbitrary-precision decimal.
func NumericValue(d *apd.Decimal) Value { return Value{typ: Numeric, v: d} }

// NumericValueFromString parses a decimal literal.
func NumericValueFromString(s string) (Value, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Value{}, ErrValue.New(s, Numeric)
	}
	return NumericValue(d), nil
}

func (v Value) Type() Type { return v.typ }

func (v Value) IsValid() bool { return v.typ != nil }

func (v Value) Bool() bool           { return v.v.(bool) }
func (v Value) Int64() int64         { return v.v.(int64) }
func (v Value) Uint64() uint64       { return v.v.(uint64) }
func (v Value) Double() float64      { return v.v.(float64) }
func (v Value) StringVal() string    { return v.v.(string) }
func (v Value) BytesVal() []byte     { return v.v.([]byte) }
func (v Value) Time() time.Time      { return v.v.(time.Time) }
func (v Value) Numeric() *apd.Decimal { return v.v.(*apd.Decimal) }

// Encode renders the value as the literal form used in serialized records.
// DecodeValue reverses it.
func (v Value) Encode() string {
	switch v.typ.Kind() {
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case KindDouble:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case KindString:
		return v.StringVal()
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.BytesVal())
	case KindDate:
		return v.Time().Format(dateLayout)
	case KindTimestamp:
		return v.Time().Format(time.RFC3339Nano)
	case KindNumeric:
		return v.Numeric().String()
	}
	return ""
}

func (v Value) String() string { return v.Encode() }

// Equal reports whether two values have equal types and contents.
func (v Value) Equal(other Value) bool {
	if v.typ == nil || other.typ == nil {
		return v.typ == other.typ
	}
	if !v.typ.Equal(other.typ) {
		return false
	}
	switch v.typ.Kind() {
	case KindBytes:
		a, b := v.BytesVal(), other.BytesVal()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	case KindDate, KindTimestamp:
		return v.Time().Equal(other.Time())
	case KindNumeric:
		return v.Numeric().Cmp(other.Numeric()) == 0
	}
	return v.v == other.v
}

// DecodeValue parses the literal form produced by Encode for the given
// type. Only scalar types have a literal form.
func DecodeValue(t Type, literal string) (Value, error) {
	switch t.Kind() {
	case KindBool:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return Value{}, ErrValue.New(literal, t)
		}
		return BoolValue(b), nil
	case KindInt64:
		i, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return Value{}, ErrValue.New(literal, t)
		}
		return Int64Value(i), nil
	case KindUint64:
		u, err := strconv.ParseUint(literal, 10, 64)
		if err != nil {
			return Value{}, ErrValue.New(literal, t)
		}
		return Uint64Value(u), nil
	case KindDouble:
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return Value{}, ErrValue.New(literal, t)
		}
		return DoubleValue(f), nil
	case KindString:
		return StringValue(literal), nil
	case KindBytes:
		b, err := base64.StdEncoding.DecodeString(literal)
		if err != nil {
			return Value{}, ErrValue.New(literal, t)
		}
		return BytesValue(b), nil
	case KindDate:
		ts, err := time.Parse(dateLayout, literal)
		if err != nil {
			return Value{}, ErrValue.New(literal, t)
		}
		return DateValue(ts), nil
	case KindTimestamp:
		ts, err := time.Parse(time.RFC3339Nano, literal)
		if err != nil {
			return Value{}, ErrValue.New(literal, t)
		}
		return TimestampValue(ts), nil
	case KindNumeric:
		return NumericValueFromString(literal)
	}
	return Value{}, ErrValue.New(literal, t)
}
