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

// This file contains the response classifier and the parsers for the
// three sentinel packet families (OK / ERR / EOF).

// ReplyKind is the family a response payload belongs to, as
// determined by its first byte and length.
type ReplyKind int

const (
	// ReplyData is any payload that is not a sentinel: a column
	// count, a column definition, or a row, depending on the phase.
	ReplyData ReplyKind = iota

	// ReplyOK is an OK packet.
	ReplyOK

	// ReplyErr is an ERR packet.
	ReplyErr

	// ReplyEOF is a legacy EOF packet.
	ReplyEOF

	// ReplyLocalInfile is a LOCAL INFILE request.
	ReplyLocalInfile
)

// Classify determines the packet family of a response payload.
// inQuery must be true while a COM_QUERY response is expected, where
// a leading 0xfb is a LOCAL INFILE request rather than data.
func Classify(payload []byte, capabilities uint32, inQuery bool) ReplyKind {
	if len(payload) == 0 {
		return ReplyData
	}
	switch payload[0] {
	case OKPacket:
		if len(payload) >= 7 {
			return ReplyOK
		}
	case ErrPacket:
		return ReplyErr
	case EOFPacket:
		// The EOF packet is shorter than 9 bytes. Longer payloads
		// starting with 0xfe are either OK packets (with
		// CLIENT_DEPRECATE_EOF) or data.
		if len(payload) < 9 {
			if capabilities&CapabilityClientDeprecateEOF == 0 {
				return ReplyEOF
			}
			return ReplyOK
		}
		if capabilities&CapabilityClientDeprecateEOF != 0 {
			return ReplyOK
		}
	case NullPacket:
		if inQuery {
			return ReplyLocalInfile
		}
	}
	return ReplyData
}

// OKPayload is a parsed OK packet. The info and session-state
// strings are kept as raw bytes and decoded lazily; they alias the
// input payload.
type OKPayload struct {
	AffectedRows uint64
	LastInsertID uint64
	StatusFlags  uint16
	Warnings     uint16

	capabilities uint32
	rest         []byte
}

// Info returns the human-readable info string of the OK packet.
func (ok *OKPayload) Info() []byte {
	info, _, err := ok.split()
	if err != nil {
		return nil
	}
	return info
}

// SessionStateChanges returns the raw session-state-change block, or
// nil if the server did not send one. The block is only present when
// CLIENT_SESSION_TRACK was negotiated and the
// SERVER_SESSION_STATE_CHANGED status flag is set.
func (ok *OKPayload) SessionStateChanges() []byte {
	_, state, err := ok.split()
	if err != nil {
		return nil
	}
	return state
}

func (ok *OKPayload) split() (info, state []byte, err error) {
	data, pos := ok.rest, 0
	if ok.capabilities&CapabilityClientSessionTrack == 0 {
		info, _, _ = readEOFBytes(data, pos)
		return info, nil, nil
	}
	if pos == len(data) {
		// Both strings omitted entirely.
		return nil, nil, nil
	}
	var okRead bool
	info, pos, okRead = readLenEncBytes(data, pos)
	if !okRead {
		return nil, nil, ErrTruncated
	}
	if ok.StatusFlags&ServerSessionStateChanged == 0 || pos == len(data) {
		return info, nil, nil
	}
	state, _, okRead = readLenEncBytes(data, pos)
	if !okRead {
		return info, nil, ErrTruncated
	}
	return info, state, nil
}

// ParseOK parses an OK packet, including the 0xfe-headed form used
// as a result-set terminator under CLIENT_DEPRECATE_EOF.
func ParseOK(payload []byte, capabilities uint32) (OKPayload, error) {
	ok := OKPayload{capabilities: capabilities}

	header, pos, okRead := readByte(payload, 0)
	if !okRead {
		return ok, ErrTruncated
	}
	if header != OKPacket && header != EOFPacket {
		return ok, NewProtocolError("OK packet with header 0x%02x", header)
	}

	if ok.AffectedRows, pos, okRead = readLenEncInt(payload, pos); !okRead {
		return ok, ErrTruncated
	}
	if ok.LastInsertID, pos, okRead = readLenEncInt(payload, pos); !okRead {
		return ok, ErrTruncated
	}
	if ok.StatusFlags, pos, okRead = readUint16(payload, pos); !okRead {
		return ok, ErrTruncated
	}
	if capabilities&CapabilityClientProtocol41 != 0 {
		if ok.Warnings, pos, okRead = readUint16(payload, pos); !okRead {
			return ok, ErrTruncated
		}
	}
	ok.rest = payload[pos:]
	return ok, nil
}

// ParseErr parses an ERR packet into a *SQLError. The returned error
// owns its strings, so it stays valid after the payload buffer is
// reused.
func ParseErr(payload []byte, capabilities uint32) (*SQLError, error) {
	header, pos, ok := readByte(payload, 0)
	if !ok {
		return nil, ErrTruncated
	}
	if header != ErrPacket {
		return nil, NewProtocolError("ERR packet with header 0x%02x", header)
	}

	code, pos, ok := readUint16(payload, pos)
	if !ok {
		return nil, ErrTruncated
	}

	state := SSUnknownSQLState
	if capabilities&CapabilityClientProtocol41 != 0 {
		marker, next, ok := readByte(payload, pos)
		if !ok {
			return nil, ErrTruncated
		}
		if marker != '#' {
			return nil, NewProtocolError("ERR packet with SQL-state marker 0x%02x", marker)
		}
		stateBytes, next, ok := readBytes(payload, next, 5)
		if !ok {
			return nil, ErrTruncated
		}
		state = string(stateBytes)
		pos = next
	}

	msg, _, _ := readEOFBytes(payload, pos)
	return &SQLError{
		Num:     int(code),
		State:   state,
		Message: string(msg),
	}, nil
}

// EOFPayload is a parsed legacy EOF packet.
type EOFPayload struct {
	Warnings    uint16
	StatusFlags uint16
}

// ParseEOF parses a legacy EOF packet (header 0xfe, length < 9).
func ParseEOF(payload []byte, capabilities uint32) (EOFPayload, error) {
	var eof EOFPayload

	header, pos, ok := readByte(payload, 0)
	if !ok {
		return eof, ErrTruncated
	}
	if header != EOFPacket || len(payload) >= 9 {
		return eof, NewProtocolError("EOF packet with header 0x%02x length %d", header, len(payload))
	}
	if capabilities&CapabilityClientProtocol41 == 0 {
		return eof, nil
	}
	if eof.Warnings, pos, ok = readUint16(payload, pos); !ok {
		return eof, ErrTruncated
	}
	if eof.StatusFlags, _, ok = readUint16(payload, pos); !ok {
		return eof, ErrTruncated
	}
	return eof, nil
}

// terminalOK normalizes a result-set terminator into an OKPayload:
// under CLIENT_DEPRECATE_EOF the terminator is a real OK packet,
// otherwise it is a legacy EOF whose warnings and status flags are
// carried over.
func terminalOK(payload []byte, capabilities uint32) (OKPayload, error) {
	if capabilities&CapabilityClientDeprecateEOF != 0 {
		return ParseOK(payload, capabilities)
	}
	eof, err := ParseEOF(payload, capabilities)
	if err != nil {
		return OKPayload{}, err
	}
	return OKPayload{
		StatusFlags:  eof.StatusFlags,
		Warnings:     eof.Warnings,
		capabilities: capabilities,
	}, nil
}
