package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsInvalid(t *testing.T) {
	var v Value
	assert.False(t, v.IsValid())
	assert.Nil(t, v.Type())
	assert.True(t, v.Equal(Value{}))
	assert.False(t, v.Equal(Int64Value(0)))
	assert.False(t, Int64Value(0).Equal(v))
}

func TestValueEncodeDecode(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 15, 123456789, time.UTC)
	vals := []Value{
		BoolValue(true),
		Int64Value(-42),
		Uint64Value(18446744073709551615),
		DoubleValue(2.5e-8),
		StringValue("héllo, wörld"),
		BytesValue([]byte{0x00, 0xff, 0x10}),
		DateValue(ts),
		TimestampValue(ts),
	}
	for _, v := range vals {
		decoded, err := DecodeValue(v.Type(), v.Encode())
		require.NoError(t, err, "literal %q", v.Encode())
		assert.True(t, v.Equal(decoded), "round trip of %q changed the value", v.Encode())
	}
}

func TestDateValueTruncatesToMidnight(t *testing.T) {
	v := DateValue(time.Date(2024, 3, 1, 18, 45, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-01", v.Encode())
	assert.Equal(t, 0, v.Time().Hour())
}

func TestTimestampValueKeepsSubsecond(t *testing.T) {
	v := TimestampValue(time.Date(2024, 3, 1, 12, 30, 15, 123456789, time.UTC))
	assert.Equal(t, "2024-03-01T12:30:15.123456789Z", v.Encode())
}

func TestNumericValue(t *testing.T) {
	v, err := NumericValueFromString("12.340")
	require.NoError(t, err)
	// Encoding preserves the declared scale.
	assert.Equal(t, "12.340", v.Encode())

	w, err := NumericValueFromString("12.34")
	require.NoError(t, err)
	// Comparison does not.
	assert.True(t, v.Equal(w))

	x, err := NumericValueFromString("12.341")
	require.NoError(t, err)
	assert.False(t, v.Equal(x))

	_, err = NumericValueFromString("not a number")
	assert.True(t, ErrValue.Is(err))
}

func TestValueEqualAcrossKinds(t *testing.T) {
	assert.False(t, Int64Value(1).Equal(Uint64Value(1)))
	assert.False(t, StringValue("1").Equal(Int64Value(1)))
	assert.True(t, BytesValue([]byte("ab")).Equal(BytesValue([]byte("ab"))))
	assert.False(t, BytesValue([]byte("ab")).Equal(BytesValue([]byte("ac"))))
}

func TestDecodeValueErrors(t *testing.T) {
	_, err := DecodeValue(Int64, "twelve")
	assert.True(t, ErrValue.Is(err))
	_, err = DecodeValue(Bool, "maybe")
	assert.True(t, ErrValue.Is(err))
	_, err = DecodeValue(Bytes, "!!! not base64 !!!")
	assert.True(t, ErrValue.Is(err))
	_, err = DecodeValue(Date, "03/01/2024")
	assert.True(t, ErrValue.Is(err))

	// Composite types have no literal form.
	_, err = DecodeValue(ArrayOf(Int64), "[1]")
	assert.True(t, ErrValue.Is(err))
}
