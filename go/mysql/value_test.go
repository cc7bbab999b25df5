/*
Copyright 2026 The Sqlwire Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBinaryIntegers(t *testing.T) {
	// TINYINT -42.
	v, pos, err := decodeBinaryValue([]byte{0xd6}, 0, TypeTiny, false)
	require.NoError(t, err)
	assert.Equal(t, KindInt8, v.Kind())
	assert.Equal(t, int64(-42), v.Int64())
	assert.Equal(t, 1, pos)

	// TINYINT UNSIGNED 200.
	v, _, err = decodeBinaryValue([]byte{0xc8}, 0, TypeTiny, true)
	require.NoError(t, err)
	assert.Equal(t, KindUint8, v.Kind())
	assert.Equal(t, uint64(200), v.Uint64())

	// SMALLINT -1000.
	v, _, err = decodeBinaryValue([]byte{0x18, 0xfc}, 0, TypeShort, false)
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), v.Int64())

	// MEDIUMINT travels as 4 bytes.
	v, pos, err = decodeBinaryValue([]byte{0x60, 0x79, 0xfe, 0xff}, 0, TypeInt24, false)
	require.NoError(t, err)
	assert.Equal(t, KindInt32, v.Kind())
	assert.Equal(t, int64(-100000), v.Int64())
	assert.Equal(t, 4, pos)

	// BIGINT UNSIGNED with the high bit set.
	v, _, err = decodeBinaryValue([]byte{0, 0, 0, 0, 0, 0, 0, 0x80}, 0, TypeLongLong, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, v.Uint64())
}

func TestDecodeBinaryFloats(t *testing.T) {
	v, _, err := decodeBinaryValue(appendUint32(nil, 0x3fc00000), 0, TypeFloat, false)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v.Float32())

	v, _, err = decodeBinaryValue(appendUint64(nil, 0xc002000000000000), 0, TypeDouble, false)
	require.NoError(t, err)
	assert.Equal(t, -2.25, v.Float64())
}

func TestDecodeBinaryDatetimeLengths(t *testing.T) {
	// Zero-length date.
	v, pos, err := decodeBinaryValue([]byte{0x00}, 0, TypeDate, false)
	require.NoError(t, err)
	assert.Equal(t, KindDate0, v.Kind())
	assert.Equal(t, 1, pos)

	// Zero-length datetime keeps its own kind.
	v, _, err = decodeBinaryValue([]byte{0x00}, 0, TypeDatetime, false)
	require.NoError(t, err)
	assert.Equal(t, KindDatetime0, v.Kind())

	// 4-byte date 2024-12-25.
	payload := []byte{0x04, 0xe8, 0x07, 0x0c, 0x19}
	v, pos, err = decodeBinaryValue(payload, 0, TypeDate, false)
	require.NoError(t, err)
	assert.Equal(t, KindDate4, v.Kind())
	assert.Equal(t, Temporal{Year: 2024, Month: 12, Day: 25}, v.Temporal())
	assert.Equal(t, len(payload), pos)

	// 7-byte datetime 2024-12-25 15:30:45.
	payload = []byte{0x07, 0xe8, 0x07, 0x0c, 0x19, 0x0f, 0x1e, 0x2d}
	v, pos, err = decodeBinaryValue(payload, 0, TypeTimestamp, false)
	require.NoError(t, err)
	assert.Equal(t, KindDatetime7, v.Kind())
	assert.Equal(t, Temporal{Year: 2024, Month: 12, Day: 25, Hour: 15, Minute: 30, Second: 45}, v.Temporal())
	assert.Equal(t, len(payload), pos)

	// 11-byte datetime with microseconds.
	payload = append([]byte{0x0b, 0xe8, 0x07, 0x0c, 0x19, 0x0f, 0x1e, 0x2d}, 0x40, 0xe2, 0x01, 0x00)
	v, pos, err = decodeBinaryValue(payload, 0, TypeDatetime, false)
	require.NoError(t, err)
	assert.Equal(t, KindDatetime11, v.Kind())
	assert.Equal(t, uint32(123456), v.Temporal().Microsecond)
	assert.Equal(t, len(payload), pos)

	// Any other length is a protocol violation.
	_, _, err = decodeBinaryValue([]byte{0x05, 1, 2, 3, 4, 5}, 0, TypeDatetime, false)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
}

func TestDecodeBinaryTimeLengths(t *testing.T) {
	v, _, err := decodeBinaryValue([]byte{0x00}, 0, TypeTime, false)
	require.NoError(t, err)
	assert.Equal(t, KindTime0, v.Kind())

	// 8-byte negative time, 1 day 12:30:45.
	payload := []byte{0x08, 0x01, 0x01, 0x00, 0x00, 0x00, 0x0c, 0x1e, 0x2d}
	v, pos, err := decodeBinaryValue(payload, 0, TypeTime, false)
	require.NoError(t, err)
	assert.Equal(t, KindTime8, v.Kind())
	assert.Equal(t, Temporal{Negative: true, Days: 1, Hour: 12, Minute: 30, Second: 45}, v.Temporal())
	assert.Equal(t, len(payload), pos)

	// 12-byte time with microseconds.
	payload = append(payload, 0x40, 0xe2, 0x01, 0x00)
	payload[0] = 0x0c
	v, pos, err = decodeBinaryValue(payload, 0, TypeTime, false)
	require.NoError(t, err)
	assert.Equal(t, KindTime12, v.Kind())
	assert.Equal(t, uint32(123456), v.Temporal().Microsecond)
	assert.Equal(t, len(payload), pos)

	_, _, err = decodeBinaryValue([]byte{0x03, 1, 2, 3}, 0, TypeTime, false)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
}

func TestDecodeBinaryBytesFamilies(t *testing.T) {
	for _, columnType := range []byte{
		TypeVarchar, TypeVarString, TypeString, TypeBlob,
		TypeTinyBlob, TypeMediumBlob, TypeLongBlob,
		TypeDecimal, TypeNewDecimal, TypeEnum, TypeSet, TypeBit,
		TypeJSON, TypeGeometry,
	} {
		payload := appendLenEncBytes(nil, []byte("payload"))
		v, pos, err := decodeBinaryValue(payload, 0, columnType, false)
		require.NoError(t, err, "type 0x%02x", columnType)
		assert.Equal(t, KindBytes, v.Kind())
		assert.Equal(t, []byte("payload"), v.Bytes())
		assert.Equal(t, len(payload), pos)
	}

	// Unknown type codes are refused.
	_, _, err := decodeBinaryValue([]byte{0x01, 'x'}, 0, 0x20, false)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
}

func TestValueConstructorsAndTypeCodes(t *testing.T) {
	tests := []struct {
		value    Value
		kind     ValueKind
		code     byte
		unsigned bool
	}{
		{NullValue(), KindNull, TypeString, false},
		{Int8Value(-1), KindInt8, TypeTiny, false},
		{Uint8Value(1), KindUint8, TypeTiny, true},
		{Int16Value(-1), KindInt16, TypeShort, false},
		{Uint16Value(1), KindUint16, TypeShort, true},
		{Int32Value(-1), KindInt32, TypeLong, false},
		{Uint32Value(1), KindUint32, TypeLong, true},
		{Int64Value(-1), KindInt64, TypeLongLong, false},
		{Uint64Value(1), KindUint64, TypeLongLong, true},
		{Float32Value(1), KindFloat32, TypeFloat, false},
		{Float64Value(1), KindFloat64, TypeDouble, false},
		{BytesValue([]byte("x")), KindBytes, TypeVarString, false},
		{ZeroDateValue(), KindDate0, TypeDate, false},
		{DateValue(2024, 1, 2), KindDate4, TypeDate, false},
		{DatetimeValue(Temporal{Year: 2024}), KindDatetime4, TypeDatetime, false},
		{DatetimeValue(Temporal{Year: 2024, Hour: 1}), KindDatetime7, TypeDatetime, false},
		{DatetimeValue(Temporal{Year: 2024, Microsecond: 1}), KindDatetime11, TypeDatetime, false},
		{TimeValue(Temporal{Hour: 1}), KindTime8, TypeTime, false},
		{TimeValue(Temporal{Hour: 1, Microsecond: 1}), KindTime12, TypeTime, false},
	}
	for _, test := range tests {
		assert.Equal(t, test.kind, test.value.Kind(), "kind of %v", test.kind)
		code, unsigned := test.value.TypeCode()
		assert.Equal(t, test.code, code, "type code of %v", test.kind)
		assert.Equal(t, test.unsigned, unsigned, "unsigned flag of %v", test.kind)
	}

	assert.True(t, NullValue().IsNull())
	assert.False(t, Int8Value(0).IsNull())
}

func TestAppendBinaryValueNullContributesNothing(t *testing.T) {
	out := appendBinaryValue([]byte("prefix"), NullValue())
	assert.Equal(t, []byte("prefix"), out)
}
