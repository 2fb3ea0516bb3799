package ws

import "time"

// Connection tuning
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 32
	readBufferSize = 4096
)

// Inbound message types
const (
	MsgTypeJoin = "join"
	MsgTypeMine = "mine"
)

// Outbound message types
const (
	MsgTypeJoined     = "joined"
	MsgTypeMineResult = "mine_result"
	MsgTypeError      = "error"
	MsgTypeEvent      = "event"
)

// CodeInternalError is sent when a request failed for reasons the client cannot fix
const CodeInternalError = "internal_error"

// Messages
const (
	ErrMsgMalformedMessage = "malformed message"
	ErrMsgUnknownType      = "unknown message type"
	ErrMsgJoinFirst        = "join a session before mining"
	ErrMsgInvalidJoin      = "sessionId and a valid wallet are required"
	ErrMsgIdentityMismatch = "mine requests must use the joined session and wallet"
	ErrMsgInternal         = "internal server error"

	LogMsgUpgradeFailed    = "WebSocket upgrade failed"
	LogMsgConnOpened       = "Realtime connection opened"
	LogMsgConnClosed       = "Realtime connection closed"
	LogMsgUnexpectedClose  = "Realtime connection closed unexpectedly"
	LogMsgPlayerJoined     = "Player joined session"
	LogMsgMineFailed       = "Mining request failed"
	LogMsgJoinFailed       = "Join failed"
	LogMsgEncodeFailed     = "Failed to encode outbound message"
	LogMsgIdentityMismatch = "Mine request named another session or wallet"
)
