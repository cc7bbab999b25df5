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

// This file contains the result-handling capability. The core
// defines the hook contract and never instantiates a default: the
// caller decides what rows become.
//
// Hooks receive borrowed views; anything kept past the hook's return
// must be copied out.

// TextResultSetHandler receives the decoded stream of a COM_QUERY
// response.
type TextResultSetHandler interface {
	// NoResultSet is called when the command produced an OK
	// packet instead of a result set.
	NoResultSet(ok OKPayload) error

	// ResultSetStart is called once all column definitions have
	// been decoded.
	ResultSetStart(columns []ColumnDefinition) error

	// Row is called once per data row.
	Row(columns []ColumnDefinition, row TextRow) error

	// ResultSetEnd is called with the terminal packet of the
	// result set, normalized to an OK payload.
	ResultSetEnd(ok OKPayload) error
}

// BinaryResultSetHandler receives the decoded stream of a
// COM_STMT_EXECUTE response.
type BinaryResultSetHandler interface {
	NoResultSet(ok OKPayload) error
	ResultSetStart(columns []ColumnDefinition) error
	Row(columns []ColumnDefinition, row BinaryRow) error
	ResultSetEnd(ok OKPayload) error
}
