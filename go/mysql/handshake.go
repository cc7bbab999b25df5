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

// This file contains the handshake and authentication engine.
//
// The engine is a pure state machine: the caller feeds it server
// payloads (already framed) and transmits whatever bytes Advance
// appends. TLS upgrades are not orchestrated here; a caller that
// wants TLS emits AppendSSLRequest between the greeting and the
// response, performs the upgrade, and keeps driving the engine on
// the encrypted stream.

// protocolVersion is the only protocol version this package speaks.
const protocolVersion = 10

// maxPacketSizeField is the max-packet-size value advertised in the
// handshake response.
const maxPacketSizeField = 1 << 30

// HandshakeV10 is the parsed server greeting. ServerVersion and
// AuthPluginName alias the input payload; Salt is owned (it is
// stitched together from two regions of the payload).
type HandshakeV10 struct {
	ServerVersion  []byte
	ConnectionID   uint32
	Salt           []byte
	Capabilities   uint32
	CharacterSet   byte
	StatusFlags    uint16
	AuthPluginName []byte
}

// ParseHandshakeV10 parses the initial server greeting. A greeting
// whose first byte is 0xff is an ERR packet (for instance
// ER_HOST_NOT_PRIVILEGED) and is surfaced as a *SQLError.
func ParseHandshakeV10(payload []byte) (HandshakeV10, error) {
	var hs HandshakeV10

	version, pos, ok := readByte(payload, 0)
	if !ok {
		return hs, ErrTruncated
	}
	if version == ErrPacket {
		// Errors before the handshake carry no SQL state.
		serr, err := ParseErr(payload, 0)
		if err != nil {
			return hs, err
		}
		return hs, serr
	}
	if version != protocolVersion {
		return hs, NewProtocolError("unsupported protocol version %d", version)
	}

	if hs.ServerVersion, pos, ok = readNullBytes(payload, pos); !ok {
		return hs, ErrTruncated
	}
	if hs.ConnectionID, pos, ok = readUint32(payload, pos); !ok {
		return hs, ErrTruncated
	}

	saltPart1, pos, ok := readBytes(payload, pos, 8)
	if !ok {
		return hs, ErrTruncated
	}

	// One byte of filler.
	if _, pos, ok = readByte(payload, pos); !ok {
		return hs, ErrTruncated
	}

	capLower, pos, ok := readUint16(payload, pos)
	if !ok {
		return hs, ErrTruncated
	}
	hs.Capabilities = uint32(capLower)

	if hs.CharacterSet, pos, ok = readByte(payload, pos); !ok {
		return hs, ErrTruncated
	}
	if hs.StatusFlags, pos, ok = readUint16(payload, pos); !ok {
		return hs, ErrTruncated
	}

	capUpper, pos, ok := readUint16(payload, pos)
	if !ok {
		return hs, ErrTruncated
	}
	hs.Capabilities |= uint32(capUpper) << 16

	authPluginDataLength, pos, ok := readByte(payload, pos)
	if !ok {
		return hs, ErrTruncated
	}

	// 10 reserved bytes.
	if _, pos, ok = readBytes(payload, pos, 10); !ok {
		return hs, ErrTruncated
	}

	// The second salt part is max(12, length - 9) bytes, followed
	// by one NUL terminator.
	saltPart2Length := int(authPluginDataLength) - 9
	if saltPart2Length < 12 {
		saltPart2Length = 12
	}
	saltPart2, pos, ok := readBytes(payload, pos, saltPart2Length)
	if !ok {
		return hs, ErrTruncated
	}
	if _, pos, ok = readByte(payload, pos); !ok {
		return hs, ErrTruncated
	}

	hs.Salt = make([]byte, 0, len(saltPart1)+len(saltPart2))
	hs.Salt = append(hs.Salt, saltPart1...)
	hs.Salt = append(hs.Salt, saltPart2...)

	if hs.Capabilities&CapabilityClientPluginAuth != 0 {
		// Some servers omit the trailing NUL on the plugin name.
		if hs.AuthPluginName, _, ok = readNullBytes(payload, pos); !ok {
			hs.AuthPluginName, _, _ = readEOFBytes(payload, pos)
		}
	}

	return hs, nil
}

// HandshakeConfig carries the caller's connection parameters into
// the engine.
type HandshakeConfig struct {
	Username string
	Password string
	Database string

	// CharacterSet defaults to utf8mb4 when zero.
	CharacterSet byte

	// RequestTLS adds CLIENT_SSL to the requested capabilities so
	// an SSLRequest can be emitted. The TLS handshake itself is
	// the caller's business.
	RequestTLS bool

	// SecureChannel asserts that the transport is safe for
	// cleartext password exchange (TLS or a local socket), which
	// caching_sha2_password full authentication requires.
	SecureChannel bool

	// ExtraCapabilities is ORed into the requested capability set.
	ExtraCapabilities uint32
}

// HandshakeStatus tells the caller what to do after an Advance call.
type HandshakeStatus int

const (
	// HandshakeWrite: bytes were appended to dst; frame and send
	// them, then feed the next server payload.
	HandshakeWrite HandshakeStatus = iota

	// HandshakeAwait: nothing to send; feed the next server
	// payload.
	HandshakeAwait

	// HandshakeDone: authentication succeeded; the connection is
	// ready for commands.
	HandshakeDone
)

type handshakeState int

const (
	awaitGreeting handshakeState = iota
	awaitAuthResult
	handshakeClosed
)

// Handshake drives the greeting / response / auth-switch exchange.
// One value per connection attempt; not safe for concurrent use.
type Handshake struct {
	config HandshakeConfig

	state    handshakeState
	greeting HandshakeV10

	// Negotiated state, valid after the greeting is parsed.
	capabilities uint32
	plugin       string
	salt         []byte

	// ok holds the final OK packet once authentication succeeds.
	ok OKPayload
}

// NewHandshake returns an engine in the AwaitGreeting state.
func NewHandshake(config HandshakeConfig) *Handshake {
	if config.CharacterSet == 0 {
		config.CharacterSet = CharacterSetUtf8mb4
	}
	return &Handshake{config: config}
}

// desiredCapabilities is the client capability set of this package.
func (h *Handshake) desiredCapabilities() uint32 {
	caps := uint32(CapabilityClientProtocol41 |
		CapabilityClientSecureConnection |
		CapabilityClientPluginAuth |
		CapabilityClientPluginAuthLenencClientData |
		CapabilityClientLongPassword |
		CapabilityClientLongFlag |
		CapabilityClientTransactions |
		CapabilityClientMultiResults |
		CapabilityClientDeprecateEOF)
	if h.config.Database != "" {
		caps |= CapabilityClientConnectWithDB
	}
	if h.config.RequestTLS {
		caps |= CapabilityClientSSL
	}
	return caps | h.config.ExtraCapabilities
}

// Advance feeds one server payload to the engine. Any bytes to send
// are appended to dst; the extended slice is returned along with the
// next step for the caller.
func (h *Handshake) Advance(dst []byte, payload []byte) ([]byte, HandshakeStatus, error) {
	switch h.state {
	case awaitGreeting:
		return h.handleGreeting(dst, payload)
	case awaitAuthResult:
		return h.handleAuthResult(dst, payload)
	default:
		return dst, HandshakeAwait, &UsageError{Op: "Advance", Reason: "handshake already finished"}
	}
}

func (h *Handshake) handleGreeting(dst []byte, payload []byte) ([]byte, HandshakeStatus, error) {
	greeting, err := ParseHandshakeV10(payload)
	if err != nil {
		h.state = handshakeClosed
		return dst, HandshakeAwait, err
	}
	h.greeting = greeting
	h.capabilities = greeting.Capabilities & h.desiredCapabilities()
	h.salt = greeting.Salt

	h.plugin = string(greeting.AuthPluginName)
	if h.plugin == "" {
		h.plugin = MysqlNativePassword
	}

	authResponse, err := scrambleFor(h.plugin, h.salt, h.config.Password)
	if err != nil {
		h.state = handshakeClosed
		return dst, HandshakeAwait, err
	}

	dst = h.AppendHandshakeResponse(dst, authResponse)
	h.state = awaitAuthResult
	return dst, HandshakeWrite, nil
}

func (h *Handshake) handleAuthResult(dst []byte, payload []byte) ([]byte, HandshakeStatus, error) {
	if len(payload) == 0 {
		return dst, HandshakeAwait, ErrTruncated
	}
	switch {
	case payload[0] == OKPacket && len(payload) >= 7:
		ok, err := ParseOK(payload, h.capabilities)
		if err != nil {
			return dst, HandshakeAwait, err
		}
		h.ok = ok
		h.state = handshakeClosed
		return dst, HandshakeDone, nil

	case payload[0] == ErrPacket:
		serr, err := ParseErr(payload, h.capabilities)
		h.state = handshakeClosed
		if err != nil {
			return dst, HandshakeAwait, err
		}
		return dst, HandshakeAwait, serr

	case payload[0] == EOFPacket:
		return h.handleAuthSwitch(dst, payload)

	case payload[0] == AuthMoreDataPacket:
		return h.handleAuthMoreData(dst, payload)

	default:
		return dst, HandshakeAwait, NewProtocolError("unexpected packet 0x%02x during authentication", payload[0])
	}
}

func (h *Handshake) handleAuthSwitch(dst []byte, payload []byte) ([]byte, HandshakeStatus, error) {
	if len(payload) == 1 {
		// Bare 0xfe: switch to the pre-4.1 scheme.
		h.state = handshakeClosed
		return dst, HandshakeAwait, &AuthError{Plugin: "old_password", Reason: "unsupported plugin"}
	}

	plugin, pos, ok := readNullBytes(payload, 1)
	if !ok {
		return dst, HandshakeAwait, ErrTruncated
	}
	salt, _, _ := readEOFBytes(payload, pos)
	if n := len(salt); n > 0 && salt[n-1] == 0 {
		salt = salt[:n-1]
	}

	h.plugin = string(plugin)
	// The switch salt is fresh; the one from the greeting no
	// longer applies.
	h.salt = append([]byte(nil), salt...)

	authResponse, err := scrambleFor(h.plugin, h.salt, h.config.Password)
	if err != nil {
		h.state = handshakeClosed
		return dst, HandshakeAwait, err
	}
	dst = append(dst, authResponse...)
	return dst, HandshakeWrite, nil
}

func (h *Handshake) handleAuthMoreData(dst []byte, payload []byte) ([]byte, HandshakeStatus, error) {
	if h.plugin != CachingSha2Password {
		return dst, HandshakeAwait, NewProtocolError("auth-more-data under plugin %s", h.plugin)
	}
	marker, _, ok := readByte(payload, 1)
	if !ok {
		return dst, HandshakeAwait, ErrTruncated
	}
	switch marker {
	case CachingSha2FastAuth:
		// Cached credentials matched; an OK packet follows.
		return dst, HandshakeAwait, nil
	case CachingSha2FullAuth:
		if !h.config.SecureChannel {
			h.state = handshakeClosed
			return dst, HandshakeAwait, &AuthError{
				Plugin: CachingSha2Password,
				Reason: "full authentication requires a secure channel",
			}
		}
		dst = appendNullString(dst, h.config.Password)
		return dst, HandshakeWrite, nil
	default:
		return dst, HandshakeAwait, NewProtocolError("auth-more-data marker 0x%02x", marker)
	}
}

// AppendHandshakeResponse appends a HandshakeResponse41 payload with
// the given auth response. Most callers let Advance emit this; it is
// exposed for the TLS path, where it must be sent after the
// SSLRequest on the upgraded stream.
func (h *Handshake) AppendHandshakeResponse(dst []byte, authResponse []byte) []byte {
	dst = h.appendResponsePrefix(dst)
	dst = appendNullString(dst, h.config.Username)
	if h.capabilities&CapabilityClientPluginAuthLenencClientData != 0 {
		dst = appendLenEncBytes(dst, authResponse)
	} else {
		dst = append(dst, byte(len(authResponse)))
		dst = append(dst, authResponse...)
	}
	if h.capabilities&CapabilityClientConnectWithDB != 0 {
		dst = appendNullString(dst, h.config.Database)
	}
	if h.capabilities&CapabilityClientPluginAuth != 0 {
		dst = appendNullString(dst, h.plugin)
	}
	return dst
}

// AppendSSLRequest appends the SSLRequest payload: the fixed prefix
// of HandshakeResponse41 with CLIENT_SSL set and nothing after the
// filler. Valid once the greeting has been parsed.
func (h *Handshake) AppendSSLRequest(dst []byte) []byte {
	return h.appendResponsePrefix(dst)
}

func (h *Handshake) appendResponsePrefix(dst []byte) []byte {
	dst = appendUint32(dst, h.capabilities)
	dst = appendUint32(dst, maxPacketSizeField)
	dst = append(dst, h.config.CharacterSet)
	return appendZeroes(dst, 23)
}

// Capabilities returns the negotiated capability set, the
// intersection of what the server advertised and what this package
// requested.
func (h *Handshake) Capabilities() uint32 {
	return h.capabilities
}

// Greeting returns the parsed server greeting.
func (h *Handshake) Greeting() HandshakeV10 {
	return h.greeting
}

// AuthPlugin returns the authentication plugin currently in use; it
// changes when the server sends an auth-switch request.
func (h *Handshake) AuthPlugin() string {
	return h.plugin
}

// Result returns the final OK packet. Valid after Advance returned
// HandshakeDone.
func (h *Handshake) Result() OKPayload {
	return h.ok
}
