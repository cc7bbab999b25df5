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
	"crypto/sha1"
	"crypto/sha256"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGreeting is a MySQL 5.7.31 greeting with a 20-byte salt of
// 0x01..0x14 and capabilities 0x81fff7ff.
func testGreeting() []byte {
	payload := []byte{0x0a}
	payload = append(payload, "5.7.31\x00"...)
	payload = append(payload, 0x01, 0x00, 0x00, 0x00)
	payload = append(payload, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08)
	payload = append(payload, 0x00)       // filler
	payload = append(payload, 0xff, 0xf7) // capabilities low
	payload = append(payload, 0x21)       // charset
	payload = append(payload, 0x02, 0x00) // status
	payload = append(payload, 0xff, 0x81) // capabilities high
	payload = append(payload, 0x15)       // auth plugin data length
	payload = appendZeroes(payload, 10)
	payload = append(payload, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11, 0x12, 0x13, 0x14)
	payload = append(payload, 0x00)
	payload = append(payload, "mysql_native_password\x00"...)
	return payload
}

func testSalt() []byte {
	return []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
		0x11, 0x12, 0x13, 0x14,
	}
}

func TestParseHandshakeV10(t *testing.T) {
	hs, err := ParseHandshakeV10(testGreeting())
	require.NoError(t, err)

	assert.Equal(t, []byte("5.7.31"), hs.ServerVersion)
	assert.Equal(t, uint32(1), hs.ConnectionID)
	assert.Equal(t, testSalt(), hs.Salt)
	assert.Equal(t, uint32(0x81fff7ff), hs.Capabilities)
	assert.Equal(t, byte(0x21), hs.CharacterSet)
	assert.Equal(t, uint16(0x0002), hs.StatusFlags)
	assert.Equal(t, []byte(MysqlNativePassword), hs.AuthPluginName)
}

func TestParseHandshakeV10Truncated(t *testing.T) {
	greeting := testGreeting()
	for _, cut := range []int{0, 1, 5, 12, 20, 31, 40, 51} {
		_, err := ParseHandshakeV10(greeting[:cut])
		assert.ErrorIs(t, err, ErrTruncated, "cut at %d", cut)
	}
}

func TestParseHandshakeErrGreeting(t *testing.T) {
	payload := []byte{0xff, 0x15, 0x04}
	payload = append(payload, "Host blocked"...)

	_, err := ParseHandshakeV10(payload)
	var serr *SQLError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0x0415, serr.Num)
	assert.Equal(t, "Host blocked", serr.Message)
}

func TestParseHandshakeBadVersion(t *testing.T) {
	_, err := ParseHandshakeV10([]byte{0x09, 'x', 0x00})
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
}

func TestHandshakeResponseEmptyPassword(t *testing.T) {
	h := NewHandshake(HandshakeConfig{
		Username:     "root",
		Database:     "test",
		CharacterSet: CharacterSetUtf8,
	})

	out, status, err := h.Advance(nil, testGreeting())
	require.NoError(t, err)
	assert.Equal(t, HandshakeWrite, status)

	var want []byte
	want = appendUint32(want, h.Capabilities())
	want = appendUint32(want, 1<<30)
	want = append(want, CharacterSetUtf8)
	want = appendZeroes(want, 23)
	want = appendNullString(want, "root")
	want = append(want, 0x00) // empty auth response, length-encoded
	want = appendNullString(want, "test")
	want = appendNullString(want, MysqlNativePassword)

	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("handshake response mismatch (-want +got):\n%s", diff)
	}

	// Server ∩ client: the server offered everything we ask for.
	caps := h.Capabilities()
	assert.NotZero(t, caps&CapabilityClientProtocol41)
	assert.NotZero(t, caps&CapabilityClientDeprecateEOF)
	assert.NotZero(t, caps&CapabilityClientConnectWithDB)
	assert.Zero(t, caps&CapabilityClientSSL)
}

func TestHandshakeNativePasswordResponse(t *testing.T) {
	h := NewHandshake(HandshakeConfig{Username: "app", Password: "secret"})

	out, status, err := h.Advance(nil, testGreeting())
	require.NoError(t, err)
	require.Equal(t, HandshakeWrite, status)

	// The auth response is a length-encoded 20-byte scramble at
	// the tail: ... user\0 0x14 <20 bytes> plugin\0
	scramble := ScrambleMysqlNativePassword(testSalt(), "secret")
	require.Len(t, scramble, 20)

	tail := appendNullString(append([]byte{0x14}, scramble...), MysqlNativePassword)
	assert.Equal(t, tail, out[len(out)-len(tail):])

	// OK finishes the handshake.
	out, status, err = h.Advance(out[:0], []byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, HandshakeDone, status)
	assert.Empty(t, out)
	assert.Equal(t, uint16(0x0002), h.Result().StatusFlags)
}

func TestHandshakeAuthFailure(t *testing.T) {
	h := NewHandshake(HandshakeConfig{Username: "app", Password: "wrong"})

	out, _, err := h.Advance(nil, testGreeting())
	require.NoError(t, err)

	payload := []byte{0xff, 0x15, 0x04, 0x23}
	payload = append(payload, "28000"...)
	payload = append(payload, "Access denied"...)

	_, _, err = h.Advance(out[:0], payload)
	var serr *SQLError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0x0415, serr.Num)
	assert.Equal(t, "28000", serr.State)
}

func TestHandshakeAuthSwitch(t *testing.T) {
	h := NewHandshake(HandshakeConfig{Username: "app", Password: "secret"})

	out, _, err := h.Advance(nil, testGreeting())
	require.NoError(t, err)

	// Server switches to caching_sha2_password with a fresh salt.
	freshSalt := make([]byte, 20)
	for i := range freshSalt {
		freshSalt[i] = byte(0x20 + i)
	}
	switchReq := []byte{0xfe}
	switchReq = appendNullString(switchReq, CachingSha2Password)
	switchReq = append(switchReq, freshSalt...)
	switchReq = append(switchReq, 0x00)

	out, status, err := h.Advance(out[:0], switchReq)
	require.NoError(t, err)
	assert.Equal(t, HandshakeWrite, status)
	assert.Equal(t, CachingSha2Password, h.AuthPlugin())
	assert.Equal(t, ScrambleCachingSha2Password(freshSalt, "secret"), out)

	// Fast auth success marker, then OK.
	out, status, err = h.Advance(out[:0], []byte{0x01, 0x03})
	require.NoError(t, err)
	assert.Equal(t, HandshakeAwait, status)
	assert.Empty(t, out)

	_, status, err = h.Advance(nil, []byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.Equal(t, HandshakeDone, status)
}

func TestHandshakeAuthSwitchUnknownPlugin(t *testing.T) {
	h := NewHandshake(HandshakeConfig{Username: "app", Password: "secret"})
	out, _, err := h.Advance(nil, testGreeting())
	require.NoError(t, err)

	switchReq := []byte{0xfe}
	switchReq = appendNullString(switchReq, "dialog")
	switchReq = append(switchReq, "challenge\x00"...)

	_, _, err = h.Advance(out[:0], switchReq)
	var aerr *AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "dialog", aerr.Plugin)
}

func TestHandshakeCachingSha2FullAuth(t *testing.T) {
	greeting := func() []byte {
		// Same layout, but advertising caching_sha2_password.
		payload := testGreeting()
		payload = payload[:len(payload)-len(MysqlNativePassword)-1]
		return append(payload, CachingSha2Password+"\x00"...)
	}

	// Without a secure channel, full auth is refused locally.
	h := NewHandshake(HandshakeConfig{Username: "app", Password: "secret"})
	out, _, err := h.Advance(nil, greeting())
	require.NoError(t, err)

	_, _, err = h.Advance(out[:0], []byte{0x01, 0x04})
	var aerr *AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CachingSha2Password, aerr.Plugin)

	// With a secure channel, the cleartext password is sent
	// NUL-terminated.
	h = NewHandshake(HandshakeConfig{Username: "app", Password: "secret", SecureChannel: true})
	out, _, err = h.Advance(nil, greeting())
	require.NoError(t, err)

	out, status, err := h.Advance(out[:0], []byte{0x01, 0x04})
	require.NoError(t, err)
	assert.Equal(t, HandshakeWrite, status)
	assert.Equal(t, []byte("secret\x00"), out)
}

func TestHandshakeSSLRequest(t *testing.T) {
	// The server must offer CLIENT_SSL for the capability to
	// survive the intersection.
	greeting := testGreeting()
	greeting[22] |= 0x08 // CLIENT_SSL, bit 11 of the low capability word
	h := NewHandshake(HandshakeConfig{Username: "app", RequestTLS: true})
	_, _, err := h.Advance(nil, greeting)
	require.NoError(t, err)
	require.NotZero(t, h.Capabilities()&CapabilityClientSSL)

	req := h.AppendSSLRequest(nil)
	require.Len(t, req, 4+4+1+23)
	caps, _, ok := readUint32(req, 0)
	require.True(t, ok)
	assert.Equal(t, h.Capabilities(), caps)
	maxPacket, _, ok := readUint32(req, 4)
	require.True(t, ok)
	assert.Equal(t, uint32(1<<30), maxPacket)
	assert.Equal(t, appendZeroes(nil, 23), req[9:])
}

func TestScrambleMysqlNativePassword(t *testing.T) {
	salt := testSalt()

	assert.Empty(t, ScrambleMysqlNativePassword(salt, ""))

	got := ScrambleMysqlNativePassword(salt, "password")
	require.Len(t, got, 20)

	// SHA1(password) XOR SHA1(salt + SHA1(SHA1(password))).
	stage1 := sha1.Sum([]byte("password"))
	stage2 := sha1.Sum(stage1[:])
	h := sha1.New()
	h.Write(salt)
	h.Write(stage2[:])
	want := h.Sum(nil)
	for i := range want {
		want[i] ^= stage1[i]
	}
	assert.Equal(t, want, got)

	// Salt-sensitive.
	other := ScrambleMysqlNativePassword(testSalt()[1:], "password")
	assert.NotEqual(t, got, other)
}

func TestScrambleCachingSha2Password(t *testing.T) {
	salt := testSalt()

	assert.Empty(t, ScrambleCachingSha2Password(salt, ""))

	got := ScrambleCachingSha2Password(salt, "password")
	require.Len(t, got, 32)

	// SHA256(password) XOR SHA256(SHA256(SHA256(password)) + salt).
	stage1 := sha256.Sum256([]byte("password"))
	stage2 := sha256.Sum256(stage1[:])
	h := sha256.New()
	h.Write(stage2[:])
	h.Write(salt)
	want := h.Sum(nil)
	for i := range want {
		want[i] ^= stage1[i]
	}
	assert.Equal(t, want, got)
}
