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
)

// This file contains the password scrambles for the two supported
// authentication plugins.

// ScrambleMysqlNativePassword computes the mysql_native_password
// auth response:
//
//	SHA1(password) XOR SHA1(salt + SHA1(SHA1(password)))
//
// An empty password produces an empty response.
func ScrambleMysqlNativePassword(salt []byte, password string) []byte {
	if password == "" {
		return nil
	}

	// stage1 = SHA1(password)
	h := sha1.New()
	h.Write([]byte(password))
	stage1 := h.Sum(nil)

	// stage2 = SHA1(stage1)
	h.Reset()
	h.Write(stage1)
	stage2 := h.Sum(nil)

	// scramble = SHA1(salt + stage2)
	h.Reset()
	h.Write(salt)
	h.Write(stage2)
	scramble := h.Sum(nil)

	for i := range scramble {
		scramble[i] ^= stage1[i]
	}
	return scramble
}

// ScrambleCachingSha2Password computes the caching_sha2_password
// fast-auth response:
//
//	SHA256(password) XOR SHA256(SHA256(SHA256(password)) + salt)
//
// An empty password produces an empty response.
func ScrambleCachingSha2Password(salt []byte, password string) []byte {
	if password == "" {
		return nil
	}

	// stage1 = SHA256(password)
	h := sha256.New()
	h.Write([]byte(password))
	stage1 := h.Sum(nil)

	// stage2 = SHA256(stage1)
	h.Reset()
	h.Write(stage1)
	stage2 := h.Sum(nil)

	// scramble = SHA256(stage2 + salt)
	h.Reset()
	h.Write(stage2)
	h.Write(salt)
	scramble := h.Sum(nil)

	for i := range scramble {
		scramble[i] ^= stage1[i]
	}
	return scramble
}

// scrambleFor dispatches on the plugin name. Unknown plugins surface
// as an AuthError so the caller can close the connection.
func scrambleFor(plugin string, salt []byte, password string) ([]byte, error) {
	switch plugin {
	case MysqlNativePassword:
		return ScrambleMysqlNativePassword(salt, password), nil
	case CachingSha2Password:
		return ScrambleCachingSha2Password(salt, password), nil
	default:
		return nil, &AuthError{Plugin: plugin, Reason: "unsupported plugin"}
	}
}
