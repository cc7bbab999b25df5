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

// This file contains the parameter-binding capability used by
// COM_STMT_EXECUTE. The core defines the contract; callers provide
// an implementation per row shape, or use ValueParams.

// Param is a single bound parameter.
type Param interface {
	// IsNull reports whether the parameter contributes a bit to
	// the null bitmap instead of a value payload.
	IsNull() bool

	// TypeCode returns the column type byte and unsigned flag for
	// the per-parameter type descriptor.
	TypeCode() (byte, bool)

	// AppendValue appends the binary encoding of the value. It is
	// not called for null parameters.
	AppendValue(dst []byte) ([]byte, error)
}

// Params is the parameter set of one COM_STMT_EXECUTE.
type Params interface {
	// Len returns the number of parameters.
	Len() int

	// AppendNullBitmap appends ceil(Len/8) bytes; bit i (LSB 0 of
	// byte i/8) is set iff parameter i is null.
	AppendNullBitmap(dst []byte) []byte

	// AppendTypes appends the (type, unsigned-flag) descriptor
	// pair for every parameter.
	AppendTypes(dst []byte) []byte

	// AppendValues appends the binary encodings of all non-null
	// parameters in order.
	AppendValues(dst []byte) ([]byte, error)
}

// AppendValue implements Param.
func (v Value) AppendValue(dst []byte) ([]byte, error) {
	return appendBinaryValue(dst, v), nil
}

// ValueParams adapts a slice of values to the Params capability.
type ValueParams []Value

// Bind packages values as execute parameters.
func Bind(values ...Value) ValueParams {
	return ValueParams(values)
}

// Len implements Params.
func (p ValueParams) Len() int {
	return len(p)
}

// AppendNullBitmap implements Params.
func (p ValueParams) AppendNullBitmap(dst []byte) []byte {
	start := len(dst)
	dst = appendZeroes(dst, (len(p)+7)/8)
	for i, v := range p {
		if v.IsNull() {
			dst[start+i/8] |= 1 << (i % 8)
		}
	}
	return dst
}

// AppendTypes implements Params.
func (p ValueParams) AppendTypes(dst []byte) []byte {
	for _, v := range p {
		dst = appendTypeDescriptor(dst, v)
	}
	return dst
}

// AppendValues implements Params.
func (p ValueParams) AppendValues(dst []byte) ([]byte, error) {
	for _, v := range p {
		if !v.IsNull() {
			dst = appendBinaryValue(dst, v)
		}
	}
	return dst, nil
}

// appendTypeDescriptor appends the 2-byte (type, flags) descriptor
// for one parameter. The unsigned flag is the high bit of the second
// byte.
func appendTypeDescriptor(dst []byte, p Param) []byte {
	t, unsigned := p.TypeCode()
	flags := byte(0)
	if unsigned {
		flags = 0x80
	}
	return append(dst, t, flags)
}
