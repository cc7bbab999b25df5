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

// This file contains the constant definitions for this package.
// Values taken from include/mysql/mysql_com.h and the MariaDB
// connector sources.

// MaxPacketSize is the maximum payload length of a single packet on
// the wire. A logical payload of this size or larger is split into
// continuation packets.
const MaxPacketSize = (1 << 24) - 1

// Packet header byte values, used to classify server responses.
const (
	// OKPacket is the header of the OK packet.
	OKPacket = 0x00

	// EOFPacket is the header of the EOF packet. With
	// CapabilityClientDeprecateEOF it heads an OK packet instead.
	EOFPacket = 0xfe

	// ErrPacket is the header of the ERR packet.
	ErrPacket = 0xff

	// NullPacket is the encoded value of NULL in the text protocol,
	// and the header of the LOCAL INFILE request packet.
	NullPacket = 0xfb
)

// Client command bytes. Every outbound command payload starts with
// exactly one of these.
const (
	// ComQuit is COM_QUIT.
	ComQuit = 0x01

	// ComInitDB is COM_INIT_DB.
	ComInitDB = 0x02

	// ComQuery is COM_QUERY.
	ComQuery = 0x03

	// ComPing is COM_PING.
	ComPing = 0x0e

	// ComStmtPrepare is COM_STMT_PREPARE.
	ComStmtPrepare = 0x16

	// ComStmtExecute is COM_STMT_EXECUTE.
	ComStmtExecute = 0x17

	// ComStmtClose is COM_STMT_CLOSE.
	ComStmtClose = 0x19

	// ComStmtReset is COM_STMT_RESET.
	ComStmtReset = 0x1a

	// ComResetConnection is COM_RESET_CONNECTION.
	ComResetConnection = 0x1f

	// ComStmtBulkExecute is the MariaDB COM_STMT_BULK_EXECUTE.
	ComStmtBulkExecute = 0xfa
)

// Capability flags, as negotiated during the handshake.
// The low 16 bits are in the first capability field of HandshakeV10,
// the high 16 bits in the second.
const (
	// CapabilityClientLongPassword is CLIENT_LONG_PASSWORD.
	CapabilityClientLongPassword = 1 << 0

	// CapabilityClientFoundRows is CLIENT_FOUND_ROWS.
	CapabilityClientFoundRows = 1 << 1

	// CapabilityClientLongFlag is CLIENT_LONG_FLAG.
	CapabilityClientLongFlag = 1 << 2

	// CapabilityClientConnectWithDB is CLIENT_CONNECT_WITH_DB.
	// A database name can be passed in the handshake response.
	CapabilityClientConnectWithDB = 1 << 3

	// CapabilityClientCompress is CLIENT_COMPRESS. Not supported.
	CapabilityClientCompress = 1 << 5

	// CapabilityClientLocalFiles is CLIENT_LOCAL_FILES.
	// LOCAL INFILE is not supported, so this is never requested.
	CapabilityClientLocalFiles = 1 << 7

	// CapabilityClientProtocol41 is CLIENT_PROTOCOL_41.
	// Always required.
	CapabilityClientProtocol41 = 1 << 9

	// CapabilityClientSSL is CLIENT_SSL. The engine emits an
	// SSLRequest payload on demand; the TLS handshake itself is an
	// external collaborator concern.
	CapabilityClientSSL = 1 << 11

	// CapabilityClientTransactions is CLIENT_TRANSACTIONS.
	CapabilityClientTransactions = 1 << 13

	// CapabilityClientSecureConnection is CLIENT_SECURE_CONNECTION,
	// the 4.1 authentication scheme.
	CapabilityClientSecureConnection = 1 << 15

	// CapabilityClientMultiStatements is CLIENT_MULTI_STATEMENTS.
	CapabilityClientMultiStatements = 1 << 16

	// CapabilityClientMultiResults is CLIENT_MULTI_RESULTS.
	CapabilityClientMultiResults = 1 << 17

	// CapabilityClientPSMultiResults is CLIENT_PS_MULTI_RESULTS.
	CapabilityClientPSMultiResults = 1 << 18

	// CapabilityClientPluginAuth is CLIENT_PLUGIN_AUTH.
	CapabilityClientPluginAuth = 1 << 19

	// CapabilityClientConnectAttrs is CLIENT_CONNECT_ATTRS.
	CapabilityClientConnectAttrs = 1 << 20

	// CapabilityClientPluginAuthLenencClientData is
	// CLIENT_PLUGIN_AUTH_LENENC_CLIENT_DATA.
	CapabilityClientPluginAuthLenencClientData = 1 << 21

	// CapabilityClientSessionTrack is CLIENT_SESSION_TRACK.
	// When on, OK packets may carry session state changes.
	CapabilityClientSessionTrack = 1 << 23

	// CapabilityClientDeprecateEOF is CLIENT_DEPRECATE_EOF.
	// When on, result sets are terminated by OK packets and no
	// intermediate EOF follows the column definitions.
	CapabilityClientDeprecateEOF = 1 << 24

	// CapabilityClientOptionalResultSetMetadata is
	// CLIENT_OPTIONAL_RESULTSET_METADATA.
	CapabilityClientOptionalResultSetMetadata = 1 << 25

	// CapabilityClientQueryAttributes is CLIENT_QUERY_ATTRIBUTES.
	CapabilityClientQueryAttributes = 1 << 27
)

// Server status flags, returned in OK and EOF packets.
const (
	// ServerStatusInTrans is SERVER_STATUS_IN_TRANS.
	ServerStatusInTrans = 0x0001

	// ServerStatusAutocommit is SERVER_STATUS_AUTOCOMMIT.
	ServerStatusAutocommit = 0x0002

	// ServerMoreResultsExists is SERVER_MORE_RESULTS_EXISTS.
	// Another result set follows the current terminal packet.
	ServerMoreResultsExists = 0x0008

	// ServerStatusNoGoodIndexUsed is SERVER_STATUS_NO_GOOD_INDEX_USED.
	ServerStatusNoGoodIndexUsed = 0x0010

	// ServerStatusNoIndexUsed is SERVER_STATUS_NO_INDEX_USED.
	ServerStatusNoIndexUsed = 0x0020

	// ServerStatusCursorExists is SERVER_STATUS_CURSOR_EXISTS.
	ServerStatusCursorExists = 0x0040

	// ServerStatusLastRowSent is SERVER_STATUS_LAST_ROW_SENT.
	ServerStatusLastRowSent = 0x0080

	// ServerStatusDbDropped is SERVER_STATUS_DB_DROPPED.
	ServerStatusDbDropped = 0x0100

	// ServerStatusNoBackslashEscapes is
	// SERVER_STATUS_NO_BACKSLASH_ESCAPES.
	ServerStatusNoBackslashEscapes = 0x0200

	// ServerStatusMetadataChanged is SERVER_STATUS_METADATA_CHANGED.
	ServerStatusMetadataChanged = 0x0400

	// ServerQueryWasSlow is SERVER_QUERY_WAS_SLOW.
	ServerQueryWasSlow = 0x0800

	// ServerPSOutParams is SERVER_PS_OUT_PARAMS.
	ServerPSOutParams = 0x1000

	// ServerStatusInTransReadonly is SERVER_STATUS_IN_TRANS_READONLY.
	ServerStatusInTransReadonly = 0x2000

	// ServerSessionStateChanged is SERVER_SESSION_STATE_CHANGED.
	// The OK packet carries a session-state-change string.
	ServerSessionStateChanged = 0x4000
)

// This is the data type for a column. Each value matches the
// MYSQL_TYPE_* constant of the same suffix.
const (
	// TypeDecimal is MYSQL_TYPE_DECIMAL. It is deprecated.
	TypeDecimal = 0x00

	// TypeTiny is MYSQL_TYPE_TINY.
	TypeTiny = 0x01

	// TypeShort is MYSQL_TYPE_SHORT.
	TypeShort = 0x02

	// TypeLong is MYSQL_TYPE_LONG.
	TypeLong = 0x03

	// TypeFloat is MYSQL_TYPE_FLOAT.
	TypeFloat = 0x04

	// TypeDouble is MYSQL_TYPE_DOUBLE.
	TypeDouble = 0x05

	// TypeNull is MYSQL_TYPE_NULL.
	TypeNull = 0x06

	// TypeTimestamp is MYSQL_TYPE_TIMESTAMP.
	TypeTimestamp = 0x07

	// TypeLongLong is MYSQL_TYPE_LONGLONG.
	TypeLongLong = 0x08

	// TypeInt24 is MYSQL_TYPE_INT24.
	TypeInt24 = 0x09

	// TypeDate is MYSQL_TYPE_DATE.
	TypeDate = 0x0a

	// TypeTime is MYSQL_TYPE_TIME.
	TypeTime = 0x0b

	// TypeDatetime is MYSQL_TYPE_DATETIME.
	TypeDatetime = 0x0c

	// TypeYear is MYSQL_TYPE_YEAR.
	TypeYear = 0x0d

	// TypeNewDate is MYSQL_TYPE_NEWDATE, an internal type.
	TypeNewDate = 0x0e

	// TypeVarchar is MYSQL_TYPE_VARCHAR.
	TypeVarchar = 0x0f

	// TypeBit is MYSQL_TYPE_BIT.
	TypeBit = 0x10

	// TypeTimestamp2 is MYSQL_TYPE_TIMESTAMP2, an internal type.
	TypeTimestamp2 = 0x11

	// TypeDatetime2 is MYSQL_TYPE_DATETIME2, an internal type.
	TypeDatetime2 = 0x12

	// TypeTime2 is MYSQL_TYPE_TIME2, an internal type.
	TypeTime2 = 0x13

	// TypeJSON is MYSQL_TYPE_JSON.
	TypeJSON = 0xf5

	// TypeNewDecimal is MYSQL_TYPE_NEWDECIMAL.
	TypeNewDecimal = 0xf6

	// TypeEnum is MYSQL_TYPE_ENUM.
	TypeEnum = 0xf7

	// TypeSet is MYSQL_TYPE_SET.
	TypeSet = 0xf8

	// TypeTinyBlob is MYSQL_TYPE_TINY_BLOB.
	TypeTinyBlob = 0xf9

	// TypeMediumBlob is MYSQL_TYPE_MEDIUM_BLOB.
	TypeMediumBlob = 0xfa

	// TypeLongBlob is MYSQL_TYPE_LONG_BLOB.
	TypeLongBlob = 0xfb

	// TypeBlob is MYSQL_TYPE_BLOB.
	TypeBlob = 0xfc

	// TypeVarString is MYSQL_TYPE_VAR_STRING.
	TypeVarString = 0xfd

	// TypeString is MYSQL_TYPE_STRING.
	TypeString = 0xfe

	// TypeGeometry is MYSQL_TYPE_GEOMETRY.
	TypeGeometry = 0xff
)

// Column definition flags.
const (
	// FlagNotNull is NOT_NULL_FLAG.
	FlagNotNull = 0x0001

	// FlagPriKey is PRI_KEY_FLAG.
	FlagPriKey = 0x0002

	// FlagUniqueKey is UNIQUE_KEY_FLAG.
	FlagUniqueKey = 0x0004

	// FlagMultipleKey is MULTIPLE_KEY_FLAG.
	FlagMultipleKey = 0x0008

	// FlagBlob is BLOB_FLAG.
	FlagBlob = 0x0010

	// FlagUnsigned is UNSIGNED_FLAG.
	FlagUnsigned = 0x0020

	// FlagZerofill is ZEROFILL_FLAG.
	FlagZerofill = 0x0040

	// FlagBinary is BINARY_FLAG.
	FlagBinary = 0x0080

	// FlagEnum is ENUM_FLAG.
	FlagEnum = 0x0100

	// FlagAutoIncrement is AUTO_INCREMENT_FLAG.
	FlagAutoIncrement = 0x0200

	// FlagTimestamp is TIMESTAMP_FLAG.
	FlagTimestamp = 0x0400

	// FlagSet is SET_FLAG.
	FlagSet = 0x0800

	// FlagNoDefaultValue is NO_DEFAULT_VALUE_FLAG.
	FlagNoDefaultValue = 0x1000

	// FlagOnUpdateNow is ON_UPDATE_NOW_FLAG.
	FlagOnUpdateNow = 0x2000

	// FlagPartKey is PART_KEY_FLAG.
	FlagPartKey = 0x4000

	// FlagNum is NUM_FLAG.
	FlagNum = 0x8000
)

// Authentication plugin names.
const (
	// MysqlNativePassword is the mysql_native_password plugin.
	MysqlNativePassword = "mysql_native_password"

	// CachingSha2Password is the caching_sha2_password plugin.
	CachingSha2Password = "caching_sha2_password"
)

// caching_sha2_password auth-more-data markers.
const (
	// AuthMoreDataPacket heads an auth-more-data payload during
	// authentication.
	AuthMoreDataPacket = 0x01

	// CachingSha2FastAuth signals that the cached fast path
	// succeeded; an OK packet follows.
	CachingSha2FastAuth = 0x03

	// CachingSha2FullAuth requests the full authentication
	// exchange, which needs a secure channel.
	CachingSha2FullAuth = 0x04
)

// Character set identifiers, from the character_sets table.
const (
	// CharacterSetLatin1 is the latin1_swedish_ci collation id.
	CharacterSetLatin1 = 8

	// CharacterSetUtf8 is the utf8_general_ci collation id.
	CharacterSetUtf8 = 33

	// CharacterSetBinary is the binary collation id.
	CharacterSetBinary = 63

	// CharacterSetUtf8mb4 is the utf8mb4_0900_ai_ci collation id.
	CharacterSetUtf8mb4 = 255
)

// MariaDB COM_STMT_BULK_EXECUTE flags.
const (
	// BulkSendUnitResults requests one OK packet per row unit.
	BulkSendUnitResults = 64

	// BulkSendTypesToServer prefixes the rows with one
	// (type, flags) descriptor pair per parameter.
	BulkSendTypesToServer = 128
)

// MariaDB bulk execute per-value indicator bytes.
const (
	// BulkIndicatorNone precedes a regular binary-encoded value.
	BulkIndicatorNone = 0x00

	// BulkIndicatorNull marks a NULL value; no bytes follow.
	BulkIndicatorNull = 0x01

	// BulkIndicatorDefault asks the server to use the column
	// default; no bytes follow.
	BulkIndicatorDefault = 0x02

	// BulkIndicatorIgnore skips the value for UPDATE; no bytes
	// follow.
	BulkIndicatorIgnore = 0x03
)

// SSUnknownSQLState is the default SQLSTATE for errors that carry
// none.
const SSUnknownSQLState = "HY000"
