// Package sse fans world events out to stream clients. The same hub feeds the
// text/event-stream endpoint and the realtime gateway's per-session pushes.
package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is one message delivered to stream clients. An empty SessionID
// addresses every session.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// Client is a registered consumer of hub events. EventChannel is closed when
// the client is unregistered or the hub stops.
type Client struct {
	ID           string
	EventChannel chan Event
	typeFilter   map[string]bool // nil accepts every type
	sessionID    string          // empty accepts every session
	dropped      atomic.Int64
}

func (c *Client) wants(event Event) bool {
	if c.typeFilter != nil && !c.typeFilter[event.Type] {
		return false
	}
	return c.sessionID == "" || event.SessionID == "" || event.SessionID == c.sessionID
}

// Dropped counts events skipped because the client's buffer was full
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Hub fans broadcast events out to registered clients from a single loop.
// Slow clients lose events instead of stalling the loop.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	stopped bool

	broadcast chan Event
	shutdown  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	now       func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		broadcast: make(chan Event, BroadcastBufferSize),
		shutdown:  make(chan struct{}),
		now:       time.Now,
	}
}

func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the loop and closes every client channel. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		defer h.mu.Unlock()
		h.stopped = true
		for id, c := range h.clients {
			close(c.EventChannel)
			delete(h.clients, id)
		}
	})
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case event := <-h.broadcast:
			h.deliver(event)
		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) deliver(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.wants(event) {
			continue
		}
		select {
		case c.EventChannel <- event:
		default:
			c.dropped.Add(1)
		}
	}
}

// Register adds a client for eventTypes (all when empty) in sessionID (all
// when empty). After Stop the returned client's channel is already closed.
func (h *Hub) Register(eventTypes []string, sessionID string) *Client {
	c := &Client{
		ID:           uuid.NewString(),
		EventChannel: make(chan Event, ClientEventBuffer),
		sessionID:    sessionID,
	}
	if len(eventTypes) > 0 {
		c.typeFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.typeFilter[strings.TrimSpace(t)] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		close(c.EventChannel)
		return c
	}
	h.clients[c.ID] = c
	return c
}

// Unregister removes the client and closes its channel. Unknown ids are ignored.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[clientID]; ok {
		close(c.EventChannel)
		delete(h.clients, clientID)
	}
}

// Broadcast queues an event for every interested client
func (h *Hub) Broadcast(eventType, sessionID string, payload any) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: h.now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- event:
	default:
		slog.Warn(LogMsgBroadcastDropped, "event_type", eventType)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in text/event-stream framing
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.Grow(len(data) + len(event.ID) + len(event.Type) + 24)
	if event.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", event.ID)
	}
	fmt.Fprintf(&b, "event: %s\ndata: %s\n\n", event.Type, data)
	return b.Bytes(), nil
}
