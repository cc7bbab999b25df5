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

// This file contains the packet framing layer: the 4-byte
// length+sequence header, and the splitting and reassembly of
// logical payloads at the MaxPacketSize boundary.
//
// The framer owns no socket. The caller reads bytes from wherever
// they come from, hands them to Feed, and drains complete logical
// payloads with Next.

// Framer splits a byte stream into logical MySQL payloads.
//
// A logical payload is the concatenation of all consecutive packets
// of length MaxPacketSize followed by one packet of length less than
// MaxPacketSize. Single-packet payloads are returned as views into
// the internal buffer; reassembled payloads live in a scratch buffer.
// Either way the returned slice is valid until the next call to
// Feed, Next or Reset.
//
// The framer records sequence ids but does not fault on
// discontinuities: proxies are known to renumber packets. Callers
// that want strictness can watch LastSeq.
type Framer struct {
	buf []byte
	pos int

	// scratch accumulates the bodies of a continuation chain.
	scratch    []byte
	continuing bool

	lastSeq byte
}

// Feed appends raw bytes from the wire to the framer's buffer.
func (f *Framer) Feed(data []byte) {
	if f.pos > 0 && f.pos == len(f.buf) {
		// Everything consumed, restart the buffer.
		f.buf = f.buf[:0]
		f.pos = 0
	}
	f.buf = append(f.buf, data...)
}

// Next returns the next complete logical payload, or ok=false if the
// buffered bytes do not yet contain one. The caller must consume the
// returned payload (or copy it out) before feeding more bytes.
func (f *Framer) Next() (payload []byte, ok bool) {
	for {
		if len(f.buf)-f.pos < packetHeaderSize {
			return nil, false
		}
		length := int(uint32(f.buf[f.pos]) |
			uint32(f.buf[f.pos+1])<<8 |
			uint32(f.buf[f.pos+2])<<16)
		seq := f.buf[f.pos+3]
		if len(f.buf)-f.pos-packetHeaderSize < length {
			return nil, false
		}

		body := f.buf[f.pos+packetHeaderSize : f.pos+packetHeaderSize+length]
		f.pos += packetHeaderSize + length
		f.lastSeq = seq

		if length == MaxPacketSize {
			// Part of a continuation chain; keep collecting.
			if !f.continuing {
				f.scratch = f.scratch[:0]
				f.continuing = true
			}
			f.scratch = append(f.scratch, body...)
			continue
		}

		if f.continuing {
			f.continuing = false
			f.scratch = append(f.scratch, body...)
			return f.scratch, true
		}
		return body, true
	}
}

// LastSeq returns the sequence id of the most recently consumed
// packet.
func (f *Framer) LastSeq() byte {
	return f.lastSeq
}

// Reset drops all buffered bytes and any partial continuation chain.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
	f.pos = 0
	f.scratch = f.scratch[:0]
	f.continuing = false
	f.lastSeq = 0
}

const packetHeaderSize = 4

// AppendPacket frames a logical payload for the wire, splitting it
// into continuation packets at the MaxPacketSize boundary. seq is
// advanced mod 256 for every packet written, so a multi-packet
// payload consumes several sequence ids.
//
// A payload whose length is an exact multiple of MaxPacketSize is
// terminated by an empty packet, so the peer can tell the chain
// ended.
func AppendPacket(dst []byte, payload []byte, seq *byte) []byte {
	for {
		chunk := payload
		if len(chunk) >= MaxPacketSize {
			chunk = chunk[:MaxPacketSize]
		}
		dst = appendUint24(dst, uint32(len(chunk)))
		dst = append(dst, *seq)
		dst = append(dst, chunk...)
		*seq++
		payload = payload[len(chunk):]
		if len(chunk) < MaxPacketSize {
			return dst
		}
	}
}

// AppendCommandPacket frames a client command payload. Commands
// always start a new sequence scope at id 0.
func AppendCommandPacket(dst []byte, payload []byte) []byte {
	seq := byte(0)
	return AppendPacket(dst, payload, &seq)
}
