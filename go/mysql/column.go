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

// ColumnDefinition is a parsed ColumnDefinition41 packet. All byte
// slices alias the input payload; the view is only valid while the
// caller keeps that payload alive.
type ColumnDefinition struct {
	Catalog      []byte
	Schema       []byte
	Table        []byte
	OrgTable     []byte
	Name         []byte
	OrgName      []byte
	CharacterSet uint16
	ColumnLength uint32
	Type         byte
	Flags        uint16
	Decimals     byte
}

// columnDefinitionFixedLength is the declared length of the fixed
// tail fields, always 0x0c on the wire.
const columnDefinitionFixedLength = 0x0c

// ParseColumnDefinition parses a ColumnDefinition41 payload.
func ParseColumnDefinition(payload []byte) (ColumnDefinition, error) {
	var col ColumnDefinition
	var ok bool
	pos := 0

	if col.Catalog, pos, ok = readLenEncBytes(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.Schema, pos, ok = readLenEncBytes(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.Table, pos, ok = readLenEncBytes(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.OrgTable, pos, ok = readLenEncBytes(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.Name, pos, ok = readLenEncBytes(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.OrgName, pos, ok = readLenEncBytes(payload, pos); !ok {
		return col, ErrTruncated
	}

	fixedLength, pos, ok := readLenEncInt(payload, pos)
	if !ok {
		return col, ErrTruncated
	}
	if fixedLength != columnDefinitionFixedLength {
		return col, NewProtocolError("column definition fixed-fields length 0x%02x", fixedLength)
	}

	if col.CharacterSet, pos, ok = readUint16(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.ColumnLength, pos, ok = readUint32(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.Type, pos, ok = readByte(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.Flags, pos, ok = readUint16(payload, pos); !ok {
		return col, ErrTruncated
	}
	if col.Decimals, _, ok = readByte(payload, pos); !ok {
		return col, ErrTruncated
	}

	// Two reserved filler bytes follow; they are not validated,
	// matching servers that omit them.
	return col, nil
}

// IsUnsigned returns true if the column carries the UNSIGNED flag.
func (col *ColumnDefinition) IsUnsigned() bool {
	return col.Flags&FlagUnsigned != 0
}
