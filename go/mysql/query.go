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

// This file contains the text-protocol command encoders and the
// COM_QUERY result-set decoder.

// AppendQuery appends a COM_QUERY payload.
func AppendQuery(dst []byte, sql string) []byte {
	dst = append(dst, ComQuery)
	return append(dst, sql...)
}

// AppendPing appends a COM_PING payload.
func AppendPing(dst []byte) []byte {
	return append(dst, ComPing)
}

// AppendQuit appends a COM_QUIT payload. The server may close the
// connection without answering.
func AppendQuit(dst []byte) []byte {
	return append(dst, ComQuit)
}

// AppendInitDB appends a COM_INIT_DB payload.
func AppendInitDB(dst []byte, db string) []byte {
	dst = append(dst, ComInitDB)
	return append(dst, db...)
}

// AppendResetConnection appends a COM_RESET_CONNECTION payload.
func AppendResetConnection(dst []byte) []byte {
	return append(dst, ComResetConnection)
}

// TextRow is one decoded text-protocol row. Cell slices alias the
// row payload.
type TextRow struct {
	values [][]byte
	nulls  []bool
}

// ParseTextRow slices a text row into its columnCount cells. A cell
// whose first byte is 0xfb is NULL and consumes no further bytes.
// The row must consume the payload exactly.
func ParseTextRow(payload []byte, columnCount int) (TextRow, error) {
	row := TextRow{
		values: make([][]byte, columnCount),
		nulls:  make([]bool, columnCount),
	}
	pos := 0
	for i := 0; i < columnCount; i++ {
		if pos < len(payload) && payload[pos] == NullPacket {
			row.nulls[i] = true
			pos++
			continue
		}
		value, next, ok := readLenEncBytes(payload, pos)
		if !ok {
			return row, ErrTruncated
		}
		row.values[i] = value
		pos = next
	}
	if pos != len(payload) {
		return row, NewProtocolError("text row with %d trailing bytes", len(payload)-pos)
	}
	return row, nil
}

// Len returns the number of cells.
func (r TextRow) Len() int {
	return len(r.values)
}

// Value returns cell i and whether it is NULL. A non-null empty
// string is a non-nil empty slice.
func (r TextRow) Value(i int) ([]byte, bool) {
	if r.nulls[i] {
		return nil, true
	}
	if r.values[i] == nil {
		return []byte{}, false
	}
	return r.values[i], false
}

type resultSetState int

const (
	resultSetFirst resultSetState = iota
	resultSetColumns
	resultSetAwaitEOF
	resultSetRows
	resultSetDone
)

// TextResultSet decodes a COM_QUERY response payload by payload,
// invoking the handler's hooks. It follows SERVER_MORE_RESULTS_EXISTS
// across result sets, so one Step loop covers multi-statement
// responses too.
type TextResultSet struct {
	capabilities uint32
	handler      TextResultSetHandler

	state       resultSetState
	columnCount int
	columns     []ColumnDefinition
}

// NewTextResultSet returns a decoder for one COM_QUERY response.
func NewTextResultSet(capabilities uint32, handler TextResultSetHandler) *TextResultSet {
	return &TextResultSet{capabilities: capabilities, handler: handler}
}

// Step feeds the next server payload. It returns true once the
// response is complete. Column definitions passed to the handler
// alias the payloads they were parsed from, so the caller must copy
// them out if the framer buffer is reused while the result set is
// still being decoded.
func (rs *TextResultSet) Step(payload []byte) (bool, error) {
	switch rs.state {
	case resultSetFirst:
		return rs.stepFirst(payload)
	case resultSetColumns:
		return rs.stepColumn(payload)
	case resultSetAwaitEOF:
		if _, err := ParseEOF(payload, rs.capabilities); err != nil {
			return false, err
		}
		if err := rs.handler.ResultSetStart(rs.columns); err != nil {
			return false, err
		}
		rs.state = resultSetRows
		return false, nil
	case resultSetRows:
		return rs.stepRow(payload)
	default:
		return false, &UsageError{Op: "Step", Reason: "result set already complete"}
	}
}

func (rs *TextResultSet) stepFirst(payload []byte) (bool, error) {
	switch Classify(payload, rs.capabilities, true) {
	case ReplyOK:
		ok, err := ParseOK(payload, rs.capabilities)
		if err != nil {
			return false, err
		}
		if err := rs.handler.NoResultSet(ok); err != nil {
			return false, err
		}
		return rs.finishOrContinue(ok)

	case ReplyErr:
		serr, err := ParseErr(payload, rs.capabilities)
		if err != nil {
			return false, err
		}
		rs.state = resultSetDone
		return false, serr

	case ReplyLocalInfile:
		rs.state = resultSetDone
		return false, ErrLocalInfile

	default:
		count, pos, ok := readLenEncInt(payload, 0)
		if !ok {
			return false, ErrTruncated
		}
		if pos != len(payload) {
			return false, NewProtocolError("column count packet with %d trailing bytes", len(payload)-pos)
		}
		if count == 0 {
			return false, NewProtocolError("result set with zero columns")
		}
		rs.columnCount = int(count)
		rs.columns = make([]ColumnDefinition, 0, rs.columnCount)
		rs.state = resultSetColumns
		return false, nil
	}
}

func (rs *TextResultSet) stepColumn(payload []byte) (bool, error) {
	col, err := ParseColumnDefinition(payload)
	if err != nil {
		return false, err
	}
	rs.columns = append(rs.columns, col)
	if len(rs.columns) < rs.columnCount {
		return false, nil
	}
	if rs.capabilities&CapabilityClientDeprecateEOF != 0 {
		if err := rs.handler.ResultSetStart(rs.columns); err != nil {
			return false, err
		}
		rs.state = resultSetRows
	} else {
		rs.state = resultSetAwaitEOF
	}
	return false, nil
}

func (rs *TextResultSet) stepRow(payload []byte) (bool, error) {
	if len(payload) == 0 {
		return false, ErrTruncated
	}
	switch {
	case payload[0] == ErrPacket:
		serr, err := ParseErr(payload, rs.capabilities)
		if err != nil {
			return false, err
		}
		rs.state = resultSetDone
		return false, serr

	case payload[0] == EOFPacket && len(payload) < MaxPacketSize:
		// A text row cannot start with 0xfe unless its first
		// cell alone is at least 16 MiB, in which case the
		// payload is longer than MaxPacketSize.
		ok, err := terminalOK(payload, rs.capabilities)
		if err != nil {
			return false, err
		}
		if err := rs.handler.ResultSetEnd(ok); err != nil {
			return false, err
		}
		return rs.finishOrContinue(ok)

	default:
		row, err := ParseTextRow(payload, rs.columnCount)
		if err != nil {
			return false, err
		}
		return false, rs.handler.Row(rs.columns, row)
	}
}

func (rs *TextResultSet) finishOrContinue(ok OKPayload) (bool, error) {
	if ok.StatusFlags&ServerMoreResultsExists != 0 {
		rs.state = resultSetFirst
		rs.columns = nil
		rs.columnCount = 0
		return false, nil
	}
	rs.state = resultSetDone
	return true, nil
}
