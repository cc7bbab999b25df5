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

import "fmt"

// This file contains the prepared-statement lifecycle: prepare,
// execute with bound parameters, binary result rows, close and
// reset.

// AppendStmtPrepare appends a COM_STMT_PREPARE payload.
func AppendStmtPrepare(dst []byte, sql string) []byte {
	dst = append(dst, ComStmtPrepare)
	return append(dst, sql...)
}

// AppendStmtClose appends a COM_STMT_CLOSE payload. The server sends
// no response.
func AppendStmtClose(dst []byte, statementID uint32) []byte {
	dst = append(dst, ComStmtClose)
	return appendUint32(dst, statementID)
}

// AppendStmtReset appends a COM_STMT_RESET payload.
func AppendStmtReset(dst []byte, statementID uint32) []byte {
	dst = append(dst, ComStmtReset)
	return appendUint32(dst, statementID)
}

// PrepareOK is the fixed-layout first packet of a successful
// COM_STMT_PREPARE response. The statement handle is a dumb token:
// this package neither allocates nor retains it, and the caller is
// responsible for emitting COM_STMT_CLOSE before discarding it.
type PrepareOK struct {
	StatementID  uint32
	NumColumns   uint16
	NumParams    uint16
	WarningCount uint16

	// MetadataFollows is the optional MySQL 8.0 trailing byte.
	// Present iff the payload was 13 bytes long; see
	// HasMetadataFollows.
	MetadataFollows    byte
	HasMetadataFollows bool
}

// ParsePrepareOK parses the COM_STMT_PREPARE OK packet. The payload
// is 12 bytes, or 13 when the server appends the metadata_follows
// flag; the flag's presence is gated on the length alone.
func ParsePrepareOK(payload []byte) (PrepareOK, error) {
	var ok PrepareOK

	if len(payload) < 12 {
		return ok, ErrTruncated
	}
	if len(payload) > 13 {
		return ok, NewProtocolError("prepare OK packet of %d bytes", len(payload))
	}
	if payload[0] != OKPacket {
		return ok, NewProtocolError("prepare OK packet with header 0x%02x", payload[0])
	}

	pos := 1
	ok.StatementID, pos, _ = readUint32(payload, pos)
	ok.NumColumns, pos, _ = readUint16(payload, pos)
	ok.NumParams, pos, _ = readUint16(payload, pos)
	pos++ // reserved filler
	ok.WarningCount, pos, _ = readUint16(payload, pos)

	if len(payload) == 13 {
		ok.MetadataFollows = payload[pos]
		ok.HasMetadataFollows = true
	}
	return ok, nil
}

type prepareState int

const (
	prepareFirst prepareState = iota
	prepareParamDefs
	prepareParamEOF
	prepareColumnDefs
	prepareColumnEOF
	prepareDone
)

// PrepareResult decodes the full COM_STMT_PREPARE response: the
// fixed OK packet, the parameter definitions, and the column
// definitions, with the intermediate EOFs of the legacy protocol.
type PrepareResult struct {
	capabilities uint32
	state        prepareState

	OK         PrepareOK
	ParamDefs  []ColumnDefinition
	ColumnDefs []ColumnDefinition
}

// NewPrepareResult returns a decoder for one COM_STMT_PREPARE
// response.
func NewPrepareResult(capabilities uint32) *PrepareResult {
	return &PrepareResult{capabilities: capabilities}
}

// Step feeds the next server payload and returns true once the
// response is complete.
func (p *PrepareResult) Step(payload []byte) (bool, error) {
	switch p.state {
	case prepareFirst:
		if len(payload) > 0 && payload[0] == ErrPacket {
			serr, err := ParseErr(payload, p.capabilities)
			if err != nil {
				return false, err
			}
			p.state = prepareDone
			return false, serr
		}
		ok, err := ParsePrepareOK(payload)
		if err != nil {
			return false, err
		}
		p.OK = ok
		return p.next(prepareFirst), nil

	case prepareParamDefs:
		col, err := ParseColumnDefinition(payload)
		if err != nil {
			return false, err
		}
		p.ParamDefs = append(p.ParamDefs, col)
		if len(p.ParamDefs) < int(p.OK.NumParams) {
			return false, nil
		}
		return p.next(prepareParamDefs), nil

	case prepareParamEOF:
		if _, err := ParseEOF(payload, p.capabilities); err != nil {
			return false, err
		}
		return p.next(prepareParamEOF), nil

	case prepareColumnDefs:
		col, err := ParseColumnDefinition(payload)
		if err != nil {
			return false, err
		}
		p.ColumnDefs = append(p.ColumnDefs, col)
		if len(p.ColumnDefs) < int(p.OK.NumColumns) {
			return false, nil
		}
		return p.next(prepareColumnDefs), nil

	case prepareColumnEOF:
		if _, err := ParseEOF(payload, p.capabilities); err != nil {
			return false, err
		}
		return p.next(prepareColumnEOF), nil

	default:
		return false, &UsageError{Op: "Step", Reason: "prepare response already complete"}
	}
}

// next advances past the given state, skipping phases the response
// does not contain.
func (p *PrepareResult) next(from prepareState) bool {
	deprecateEOF := p.capabilities&CapabilityClientDeprecateEOF != 0

	switch from {
	case prepareFirst:
		if p.OK.NumParams > 0 {
			p.state = prepareParamDefs
			return false
		}
		fallthrough
	case prepareParamEOF:
		if p.OK.NumColumns > 0 {
			p.state = prepareColumnDefs
			return false
		}
		p.state = prepareDone
		return true
	case prepareParamDefs:
		if !deprecateEOF {
			p.state = prepareParamEOF
			return false
		}
		return p.next(prepareParamEOF)
	case prepareColumnDefs:
		if !deprecateEOF {
			p.state = prepareColumnEOF
			return false
		}
		fallthrough
	default:
		p.state = prepareDone
		return true
	}
}

// AppendStmtExecute appends a COM_STMT_EXECUTE payload. params may
// be nil for a statement without placeholders. numParams is the
// placeholder count from the PrepareOK; a mismatch with the bound
// set is a UsageError.
func AppendStmtExecute(dst []byte, statementID uint32, numParams uint16, params Params) ([]byte, error) {
	bound := 0
	if params != nil {
		bound = params.Len()
	}
	if bound != int(numParams) {
		return dst, &UsageError{
			Op:     "AppendStmtExecute",
			Reason: fmt.Sprintf("statement expects %d parameters, %d bound", numParams, bound),
		}
	}

	dst = append(dst, ComStmtExecute)
	dst = appendUint32(dst, statementID)
	// flags: CURSOR_TYPE_NO_CURSOR
	dst = append(dst, 0x00)
	// iteration count, always 1
	dst = appendUint32(dst, 1)

	if bound > 0 {
		dst = params.AppendNullBitmap(dst)
		// new-params-bound flag: type descriptors are always
		// sent.
		dst = append(dst, 1)
		dst = params.AppendTypes(dst)
		return params.AppendValues(dst)
	}
	return dst, nil
}

// ExecuteResponse is the classified first packet of a
// COM_STMT_EXECUTE response.
type ExecuteResponse struct {
	// OK is set when the statement produced no result set.
	OK *OKPayload

	// ColumnCount is set when a result set follows.
	ColumnCount uint64

	// MetadataFollows is false only when metadata caching was
	// negotiated (MariaDB) and the server skipped the column
	// definitions.
	MetadataFollows bool
}

// ParseExecuteResponse classifies the first packet of an execute
// response. cacheMetadata must be true iff the MariaDB metadata
// caching extension was negotiated.
func ParseExecuteResponse(payload []byte, capabilities uint32, cacheMetadata bool) (ExecuteResponse, error) {
	if len(payload) == 0 {
		return ExecuteResponse{}, ErrTruncated
	}
	switch payload[0] {
	case OKPacket:
		ok, err := ParseOK(payload, capabilities)
		if err != nil {
			return ExecuteResponse{}, err
		}
		return ExecuteResponse{OK: &ok}, nil
	case ErrPacket:
		serr, err := ParseErr(payload, capabilities)
		if err != nil {
			return ExecuteResponse{}, err
		}
		return ExecuteResponse{}, serr
	default:
		count, pos, ok := readLenEncInt(payload, 0)
		if !ok {
			return ExecuteResponse{}, ErrTruncated
		}
		resp := ExecuteResponse{ColumnCount: count, MetadataFollows: true}
		if cacheMetadata {
			flag, _, ok := readByte(payload, pos)
			if !ok {
				return ExecuteResponse{}, ErrTruncated
			}
			resp.MetadataFollows = flag != 0
		}
		return resp, nil
	}
}

// BinaryRow is one decoded binary-protocol row. Byte cells alias the
// row payload.
type BinaryRow struct {
	columns []ColumnDefinition
	values  []Value
}

// ParseBinaryRow decodes a binary row against its column
// definitions. The row must consume the payload exactly.
func ParseBinaryRow(payload []byte, columns []ColumnDefinition) (BinaryRow, error) {
	row := BinaryRow{columns: columns}

	header, pos, ok := readByte(payload, 0)
	if !ok {
		return row, ErrTruncated
	}
	if header != 0x00 {
		return row, NewProtocolError("binary row with header 0x%02x", header)
	}

	// The null bitmap is offset by 2 bits, a leftover of the
	// 4.1 wire layout.
	bitmapLength := (len(columns) + 7 + 2) / 8
	bitmap, pos, ok := readBytes(payload, pos, bitmapLength)
	if !ok {
		return row, ErrTruncated
	}

	row.values = make([]Value, len(columns))
	for i, col := range columns {
		bit := i + 2
		if bitmap[bit/8]&(1<<(bit%8)) != 0 {
			row.values[i] = NullValue()
			continue
		}
		var err error
		row.values[i], pos, err = decodeBinaryValue(payload, pos, col.Type, col.IsUnsigned())
		if err != nil {
			return row, err
		}
	}
	if pos != len(payload) {
		return row, NewProtocolError("binary row with %d trailing bytes", len(payload)-pos)
	}
	return row, nil
}

// Len returns the number of cells.
func (r BinaryRow) Len() int {
	return len(r.values)
}

// Value returns cell i as a tagged value.
func (r BinaryRow) Value(i int) Value {
	return r.values[i]
}

// columnTypeName names a column type for error messages, with the
// unsigned qualifier when set.
func columnTypeName(columnType byte, unsigned bool) string {
	var name string
	switch columnType {
	case TypeTiny:
		name = "tinyint"
	case TypeShort:
		name = "smallint"
	case TypeYear:
		name = "year"
	case TypeInt24:
		name = "mediumint"
	case TypeLong:
		name = "int"
	case TypeLongLong:
		name = "bigint"
	case TypeFloat:
		name = "float"
	case TypeDouble:
		name = "double"
	case TypeNull:
		name = "null"
	default:
		name = fmt.Sprintf("type 0x%02x", columnType)
	}
	if unsigned {
		name += " unsigned"
	}
	return name
}

// integerWidth returns the wire width of an integer column type, or
// 0 for non-integer types.
func integerWidth(columnType byte) int {
	switch columnType {
	case TypeTiny:
		return 1
	case TypeShort, TypeYear:
		return 2
	case TypeInt24, TypeLong:
		return 4
	case TypeLongLong:
		return 8
	default:
		return 0
	}
}

// integer implements the lossless-only conversion contract: the
// declared column must be an integer of the same signedness whose
// width does not exceed the destination.
func (r BinaryRow) integer(i int, destBits int, destSigned bool, destName string) (Value, error) {
	col := r.columns[i]
	from := columnTypeName(col.Type, col.IsUnsigned())
	mismatch := &TypeMismatchError{Column: i, From: from, To: destName}

	v := r.values[i]
	if v.IsNull() {
		return v, &TypeMismatchError{Column: i, From: "null", To: destName}
	}
	width := integerWidth(col.Type)
	if width == 0 || width*8 > destBits {
		return v, mismatch
	}
	if col.IsUnsigned() == destSigned {
		return v, mismatch
	}
	return v, nil
}

// Int8 returns cell i as int8 under the lossless-only contract.
func (r BinaryRow) Int8(i int) (int8, error) {
	v, err := r.integer(i, 8, true, "int8")
	return int8(v.Int64()), err
}

// Int16 returns cell i as int16 under the lossless-only contract.
func (r BinaryRow) Int16(i int) (int16, error) {
	v, err := r.integer(i, 16, true, "int16")
	return int16(v.Int64()), err
}

// Int32 returns cell i as int32 under the lossless-only contract.
func (r BinaryRow) Int32(i int) (int32, error) {
	v, err := r.integer(i, 32, true, "int32")
	return int32(v.Int64()), err
}

// Int64 returns cell i as int64 under the lossless-only contract.
func (r BinaryRow) Int64(i int) (int64, error) {
	v, err := r.integer(i, 64, true, "int64")
	return v.Int64(), err
}

// Uint8 returns cell i as uint8 under the lossless-only contract.
func (r BinaryRow) Uint8(i int) (uint8, error) {
	v, err := r.integer(i, 8, false, "uint8")
	return uint8(v.Uint64()), err
}

// Uint16 returns cell i as uint16 under the lossless-only contract.
func (r BinaryRow) Uint16(i int) (uint16, error) {
	v, err := r.integer(i, 16, false, "uint16")
	return uint16(v.Uint64()), err
}

// Uint32 returns cell i as uint32 under the lossless-only contract.
func (r BinaryRow) Uint32(i int) (uint32, error) {
	v, err := r.integer(i, 32, false, "uint32")
	return uint32(v.Uint64()), err
}

// Uint64 returns cell i as uint64 under the lossless-only contract.
func (r BinaryRow) Uint64(i int) (uint64, error) {
	v, err := r.integer(i, 64, false, "uint64")
	return v.Uint64(), err
}

// Float32 returns cell i as float32. Only FLOAT columns qualify.
func (r BinaryRow) Float32(i int) (float32, error) {
	v := r.values[i]
	if v.Kind() != KindFloat32 {
		col := r.columns[i]
		return 0, &TypeMismatchError{
			Column: i,
			From:   columnTypeName(col.Type, col.IsUnsigned()),
			To:     "float32",
		}
	}
	return v.Float32(), nil
}

// Float64 returns cell i as float64. FLOAT widens losslessly.
func (r BinaryRow) Float64(i int) (float64, error) {
	v := r.values[i]
	switch v.Kind() {
	case KindFloat64:
		return v.Float64(), nil
	case KindFloat32:
		return float64(v.Float32()), nil
	default:
		col := r.columns[i]
		return 0, &TypeMismatchError{
			Column: i,
			From:   columnTypeName(col.Type, col.IsUnsigned()),
			To:     "float64",
		}
	}
}

// Bytes returns cell i as a byte slice. Strings, blobs, decimals and
// bits qualify; the slice aliases the row payload.
func (r BinaryRow) Bytes(i int) ([]byte, error) {
	v := r.values[i]
	if v.Kind() != KindBytes {
		col := r.columns[i]
		return nil, &TypeMismatchError{
			Column: i,
			From:   columnTypeName(col.Type, col.IsUnsigned()),
			To:     "bytes",
		}
	}
	return v.Bytes(), nil
}

// BinaryResultSet decodes a COM_STMT_EXECUTE response payload by
// payload, invoking the handler's hooks, following
// SERVER_MORE_RESULTS_EXISTS across result sets.
type BinaryResultSet struct {
	capabilities uint32
	handler      BinaryResultSetHandler

	// Metadata caching (MariaDB): when enabled, the first packet
	// carries a metadata_follows flag, and cachedColumns are used
	// when the server skips the definitions.
	cacheMetadata bool
	cachedColumns []ColumnDefinition

	state       resultSetState
	columnCount int
	columns     []ColumnDefinition
}

// NewBinaryResultSet returns a decoder for one COM_STMT_EXECUTE
// response.
func NewBinaryResultSet(capabilities uint32, handler BinaryResultSetHandler) *BinaryResultSet {
	return &BinaryResultSet{capabilities: capabilities, handler: handler}
}

// UseMetadataCache enables the MariaDB metadata-caching extension
// for this response, with the column definitions from a previous
// execute of the same statement.
func (rs *BinaryResultSet) UseMetadataCache(columns []ColumnDefinition) {
	rs.cacheMetadata = true
	rs.cachedColumns = columns
}

// Step feeds the next server payload. It returns true once the
// response is complete.
func (rs *BinaryResultSet) Step(payload []byte) (bool, error) {
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

func (rs *BinaryResultSet) stepFirst(payload []byte) (bool, error) {
	resp, err := ParseExecuteResponse(payload, rs.capabilities, rs.cacheMetadata)
	if err != nil {
		if _, isServer := err.(*SQLError); isServer {
			rs.state = resultSetDone
		}
		return false, err
	}

	if resp.OK != nil {
		if err := rs.handler.NoResultSet(*resp.OK); err != nil {
			return false, err
		}
		return rs.finishOrContinue(*resp.OK)
	}

	rs.columnCount = int(resp.ColumnCount)
	if !resp.MetadataFollows {
		if rs.cachedColumns == nil {
			return false, NewProtocolError("server skipped column metadata with no cache available")
		}
		rs.columns = rs.cachedColumns
		if err := rs.handler.ResultSetStart(rs.columns); err != nil {
			return false, err
		}
		rs.state = resultSetRows
		return false, nil
	}
	rs.columns = make([]ColumnDefinition, 0, rs.columnCount)
	rs.state = resultSetColumns
	return false, nil
}

func (rs *BinaryResultSet) stepColumn(payload []byte) (bool, error) {
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

func (rs *BinaryResultSet) stepRow(payload []byte) (bool, error) {
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
		ok, err := terminalOK(payload, rs.capabilities)
		if err != nil {
			return false, err
		}
		if err := rs.handler.ResultSetEnd(ok); err != nil {
			return false, err
		}
		return rs.finishOrContinue(ok)

	case payload[0] == 0x00:
		row, err := ParseBinaryRow(payload, rs.columns)
		if err != nil {
			return false, err
		}
		return false, rs.handler.Row(rs.columns, row)

	default:
		return false, NewProtocolError("unexpected packet 0x%02x in binary result set", payload[0])
	}
}

func (rs *BinaryResultSet) finishOrContinue(ok OKPayload) (bool, error) {
	if ok.StatusFlags&ServerMoreResultsExists != 0 {
		rs.state = resultSetFirst
		rs.columns = nil
		rs.columnCount = 0
		return false, nil
	}
	rs.state = resultSetDone
	return true, nil
}
