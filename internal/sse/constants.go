package sse

import "time"

const (
	// BroadcastBufferSize bounds events waiting for the fan-out loop
	BroadcastBufferSize = 256
	// ClientEventBuffer bounds events waiting for one client
	ClientEventBuffer = 64

	KeepaliveInterval = 30 * time.Second
)

// Event types pushed to stream clients
const (
	// EventTypeNodeDepleted is sent when a node is harvested and starts its respawn timer
	EventTypeNodeDepleted = "node.depleted"

	// EventTypeNodesRespawned is sent after a sweep returns nodes to available
	EventTypeNodesRespawned = "nodes.respawned"

	// EventTypeClaimIssued is sent when a claim signature is issued
	EventTypeClaimIssued = "claim.issued"

	// EventTypeClaimConfirmed is sent when a claim is settled on chain
	EventTypeClaimConfirmed = "claim.confirmed"

	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Query parameters accepted by the stream handler
const (
	QueryParamTypes   = "types"
	QueryParamSession = "session"
)

// Log messages
const (
	LogMsgClientConnected    = "Event stream client connected"
	LogMsgClientDisconnected = "Event stream client disconnected"
	LogMsgEventBroadcast     = "Broadcasting stream event"
	LogMsgBroadcastDropped   = "Broadcast buffer full, dropping stream event"
	LogMsgWriteError         = "Failed to write stream event"
	LogMsgBadPayload         = "Unexpected event payload"
	LogMsgSubscriberReady    = "Stream subscriber registered for event types"
)
