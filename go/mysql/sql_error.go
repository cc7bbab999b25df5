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
	"bytes"
	"errors"
	"fmt"
)

// This file contains the error types surfaced by the decoders.
// Decoders never panic on ill-formed wire input: every malformed
// payload surfaces as a *ProtocolError, and short field-level input
// as ErrTruncated.

// ErrTruncated means a decoder ran out of bytes mid-field. At the
// framer level short input is not an error (Next just reports no
// payload); only field-level decoders return it.
var ErrTruncated = errors.New("truncated payload")

// ErrLocalInfile means the server requested LOCAL INFILE streaming,
// which is not supported.
var ErrLocalInfile = errors.New("LOCAL INFILE requests are not supported")

// SQLError is the error structure returned when a server response is
// an ERR packet. The fields are surfaced verbatim.
type SQLError struct {
	Num     int
	State   string
	Message string
}

// NewSQLError creates a new SQLError.
// If sqlState is left empty, it will default to "HY000" (general error).
func NewSQLError(number int, sqlState string, format string, args ...any) *SQLError {
	if sqlState == "" {
		sqlState = SSUnknownSQLState
	}
	return &SQLError{
		Num:     number,
		State:   sqlState,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (se *SQLError) Error() string {
	buf := &bytes.Buffer{}
	buf.WriteString(se.Message)

	// Add MySQL errno and SQLSTATE in a format that can be parsed
	// back out of a flattened error string.
	fmt.Fprintf(buf, " (errno %v) (sqlstate %v)", se.Num, se.State)

	return buf.String()
}

// Number returns the internal MySQL error code.
func (se *SQLError) Number() int {
	return se.Num
}

// SQLState returns the SQLSTATE value.
func (se *SQLError) SQLState() string {
	return se.State
}

// ProtocolError means a payload violated the wire format: an illegal
// marker byte, a packet that does not belong to the current phase, a
// malformed length-encoded integer, or trailing garbage.
type ProtocolError struct {
	What string
}

// NewProtocolError creates a new ProtocolError.
func NewProtocolError(format string, args ...any) *ProtocolError {
	return &ProtocolError{What: fmt.Sprintf(format, args...)}
}

// Error implements the error interface
func (pe *ProtocolError) Error() string {
	return "protocol violation: " + pe.What
}

// AuthError means authentication cannot proceed: the server switched
// to a plugin this package does not implement, or caching_sha2 full
// authentication was requested without a secure channel.
type AuthError struct {
	Plugin string
	Reason string
}

// Error implements the error interface
func (ae *AuthError) Error() string {
	return fmt.Sprintf("authentication with %s not possible: %s", ae.Plugin, ae.Reason)
}

// TypeMismatchError means a lossless-only value conversion would
// truncate or change sign. Column is the zero-based index in the
// result set.
type TypeMismatchError struct {
	Column int
	From   string
	To     string
}

// Error implements the error interface
func (te *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %d: cannot losslessly convert %s to %s", te.Column, te.From, te.To)
}

// UsageError means the caller invoked an encoder with invalid
// inputs, such as a parameter count mismatch.
type UsageError struct {
	Op     string
	Reason string
}

// Error implements the error interface
func (ue *UsageError) Error() string {
	return ue.Op + ": " + ue.Reason
}
