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

// Package mysql implements the MySQL client wire protocol as a pure
// state machine over byte buffers. It owns no socket and never
// blocks: the caller feeds inbound bytes to a Framer, dispatches
// each complete payload to the decoder for the current phase
// (handshake, query response, prepare response, result-set rows),
// and transmits the payloads produced by the Append* encoders.
//
// Inbound views (column definitions, row cells, OK info strings)
// alias the buffers they were parsed from and are valid only while
// the caller keeps those buffers untouched; copy out anything kept
// longer. Outbound encoders append to a caller-owned buffer so it
// can be reused across commands.
//
// A single connection's protocol state is a plain value with no
// internal locking; the caller serializes access.
//
// Supported peers are MySQL 5.7+/8.0 and MariaDB 10.x, without
// compression, with the mysql_native_password and
// caching_sha2_password authentication plugins.
package mysql
