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

// This file contains the MariaDB COM_STMT_BULK_EXECUTE encoder and
// response decoder. Whether the peer is a MariaDB server is the
// caller's concern; MySQL servers reject the command byte.

// AppendBulkExecute appends a COM_STMT_BULK_EXECUTE payload with the
// given parameter rows. Every row must have the same length. With
// BulkSendTypesToServer the first row's type descriptors are sent;
// every row is then encoded as one indicator byte per parameter
// followed by the value's binary encoding for non-null entries.
func AppendBulkExecute(dst []byte, statementID uint32, flags uint16, rows []ValueParams) ([]byte, error) {
	if len(rows) == 0 {
		return dst, &UsageError{Op: "AppendBulkExecute", Reason: "no parameter rows"}
	}
	width := rows[0].Len()
	for i, row := range rows {
		if row.Len() != width {
			return dst, &UsageError{
				Op:     "AppendBulkExecute",
				Reason: fmt.Sprintf("row %d has %d parameters, row 0 has %d", i, row.Len(), width),
			}
		}
	}

	dst = append(dst, ComStmtBulkExecute)
	dst = appendUint32(dst, statementID)
	dst = appendUint16(dst, flags)

	if flags&BulkSendTypesToServer != 0 {
		dst = rows[0].AppendTypes(dst)
	}

	for _, row := range rows {
		for _, v := range row {
			if v.IsNull() {
				dst = append(dst, BulkIndicatorNull)
				continue
			}
			dst = append(dst, BulkIndicatorNone)
			dst = appendBinaryValue(dst, v)
		}
	}
	return dst, nil
}

// BulkResult decodes a COM_STMT_BULK_EXECUTE response. With
// BulkSendUnitResults the server answers with one OK packet per row
// unit, chained with SERVER_MORE_RESULTS_EXISTS; otherwise a single
// OK or ERR arrives.
type BulkResult struct {
	capabilities uint32

	// OKs collects the per-unit OK packets in arrival order.
	OKs []OKPayload

	done bool
}

// NewBulkResult returns a decoder for one bulk execute response.
func NewBulkResult(capabilities uint32) *BulkResult {
	return &BulkResult{capabilities: capabilities}
}

// Step feeds the next server payload and returns true once the
// response is complete.
func (b *BulkResult) Step(payload []byte) (bool, error) {
	if b.done {
		return false, &UsageError{Op: "Step", Reason: "bulk response already complete"}
	}
	if len(payload) == 0 {
		return false, ErrTruncated
	}
	if payload[0] == ErrPacket {
		serr, err := ParseErr(payload, b.capabilities)
		b.done = true
		if err != nil {
			return false, err
		}
		return false, serr
	}

	ok, err := ParseOK(payload, b.capabilities)
	if err != nil {
		return false, err
	}
	b.OKs = append(b.OKs, ok)
	if ok.StatusFlags&ServerMoreResultsExists != 0 {
		return false, nil
	}
	b.done = true
	return true, nil
}
