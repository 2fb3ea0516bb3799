// Package ws is the realtime adapter: it upgrades HTTP connections to
// WebSockets, turns client messages into mining requests tagged with a
// connection id, and pushes session events from the hub.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/logger"
	"github.com/Cleo-11/OceanX/internal/metrics"
	"github.com/Cleo-11/OceanX/internal/mining"
	"github.com/Cleo-11/OceanX/internal/sse"
)

// Miner admits and executes mining requests
type Miner interface {
	Mine(ctx context.Context, connectionID string, req domain.MiningRequest) (*mining.Outcome, error)
}

// NodeDirectory lists a session's nodes
type NodeDirectory interface {
	SessionNodes(ctx context.Context, sessionID string) ([]domain.ResourceNode, error)
}

// PlayerRegistry creates players on first contact
type PlayerRegistry interface {
	EnsurePlayer(ctx context.Context, wallet, username, usernameKey string) (*domain.Player, error)
}

// Config holds gateway settings
type Config struct {
	// AllowedOrigins restricts browser origins; empty allows any
	AllowedOrigins []string
	MaxRange       float64
}

// Gateway serves realtime connections
type Gateway struct {
	upgrader websocket.Upgrader
	miner    Miner
	nodes    NodeDirectory
	players  PlayerRegistry
	hub      *sse.Hub
	maxRange float64
}

// NewGateway creates a gateway. hub may be nil, in which case no events are pushed.
func NewGateway(miner Miner, nodes NodeDirectory, players PlayerRegistry, hub *sse.Hub, cfg Config) *Gateway {
	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}

	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: readBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				return origins[r.Header.Get("Origin")]
			},
		},
		miner:    miner,
		nodes:    nodes,
		players:  players,
		hub:      hub,
		maxRange: cfg.MaxRange,
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request
		logger.FromContext(r.Context()).Warn(LogMsgUpgradeFailed, "error", err)
		return
	}

	c := &connection{
		id:      uuid.New().String(),
		gw:      g,
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	ctx := logger.WithRequestID(context.Background(), c.id)
	log := logger.FromContext(ctx)
	log.Info(LogMsgConnOpened, "remote_addr", r.RemoteAddr)
	metrics.RealtimeConnections.Inc()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writePump()
	}()

	c.readLoop(ctx)

	close(c.done)
	c.leaveHub()
	wg.Wait()

	metrics.RealtimeConnections.Dec()
	log.Info(LogMsgConnClosed)
}

type connection struct {
	id   string
	gw   *Gateway
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}

	// stopped is closed when the writer exits; nothing drains send after that
	stopped chan struct{}

	// Owned by the read loop
	sessionID string
	wallet    string
	hubClient *sse.Client
}

func (c *connection) readLoop(ctx context.Context) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.FromContext(ctx).Warn(LogMsgUnexpectedClose, "error", err)
			}
			return
		}
		c.handle(ctx, data)
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
		close(c.stopped)
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *connection) handle(ctx context.Context, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.sendError(ctx, string(domain.ReasonInvalidRequest), ErrMsgMalformedMessage)
		return
	}
	metrics.RealtimeMessages.WithLabelValues(env.Type).Inc()

	switch env.Type {
	case MsgTypeJoin:
		c.handleJoin(ctx, env.Payload)
	case MsgTypeMine:
		c.handleMine(ctx, env.Payload)
	default:
		c.sendError(ctx, string(domain.ReasonInvalidRequest), ErrMsgUnknownType)
	}
}

func (c *connection) handleJoin(ctx context.Context, payload json.RawMessage) {
	log := logger.FromContext(ctx)

	var req JoinRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		c.sendError(ctx, string(domain.ReasonInvalidRequest), ErrMsgMalformedMessage)
		return
	}
	wallet, err := domain.NormalizeWallet(req.Wallet)
	if err != nil || req.SessionID == "" {
		c.sendError(ctx, string(domain.ReasonInvalidRequest), ErrMsgInvalidJoin)
		return
	}

	var display, key string
	if req.Username != "" {
		if display, key, err = domain.NormalizeUsername(req.Username); err != nil {
			c.sendError(ctx, string(domain.ReasonInvalidRequest), err.Error())
			return
		}
	}

	player, err := c.gw.players.EnsurePlayer(ctx, wallet, display, key)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			c.sendError(ctx, string(domain.ReasonInvalidRequest), domain.ErrMsgUsernameTaken)
			return
		}
		log.Error(LogMsgJoinFailed, "error", err)
		c.sendError(ctx, CodeInternalError, ErrMsgInternal)
		return
	}

	nodes, err := c.gw.nodes.SessionNodes(ctx, req.SessionID)
	if err != nil {
		log.Error(LogMsgJoinFailed, "session_id", req.SessionID, "error", err)
		c.sendError(ctx, CodeInternalError, ErrMsgInternal)
		return
	}

	c.sessionID = req.SessionID
	c.wallet = wallet
	c.joinHub()

	log.Info(LogMsgPlayerJoined, "session_id", req.SessionID, "wallet", wallet, "nodes", len(nodes))
	c.sendMessage(ctx, MsgTypeJoined, JoinedPayload{
		ConnectionID: c.id,
		SessionID:    req.SessionID,
		Player:       player,
		Nodes:        nodes,
		MaxRange:     c.gw.maxRange,
	})
}

func (c *connection) handleMine(ctx context.Context, payload json.RawMessage) {
	var req domain.MiningRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		c.sendError(ctx, string(domain.ReasonInvalidRequest), ErrMsgMalformedMessage)
		return
	}
	if c.sessionID == "" {
		c.sendError(ctx, string(domain.ReasonInvalidRequest), ErrMsgJoinFirst)
		return
	}
	if !c.bindIdentity(&req) {
		logger.FromContext(ctx).Warn(LogMsgIdentityMismatch,
			"attempt_id", req.AttemptID, "session_id", req.SessionID, "wallet", req.Wallet)
		c.sendError(ctx, string(domain.ReasonInvalidRequest), ErrMsgIdentityMismatch)
		return
	}

	outcome, err := c.gw.miner.Mine(ctx, c.id, req)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgMineFailed, "attempt_id", req.AttemptID, "error", err)
		c.sendError(ctx, CodeInternalError, ErrMsgInternal)
		return
	}
	c.sendMessage(ctx, MsgTypeMineResult, outcome.Raw)
}

// bindIdentity pins req to the joined session and wallet. A request naming a
// different one is refused.
func (c *connection) bindIdentity(req *domain.MiningRequest) bool {
	if req.SessionID != "" && req.SessionID != c.sessionID {
		return false
	}
	if req.Wallet != "" {
		wallet, err := domain.NormalizeWallet(req.Wallet)
		if err != nil || wallet != c.wallet {
			return false
		}
	}
	req.SessionID = c.sessionID
	req.Wallet = c.wallet
	return true
}

func (c *connection) joinHub() {
	if c.gw.hub == nil {
		return
	}
	c.leaveHub()

	client := c.gw.hub.Register(nil, c.sessionID)
	c.hubClient = client
	go func() {
		for evt := range client.EventChannel {
			msg, err := encode(MsgTypeEvent, evt)
			if err != nil {
				continue
			}
			// Events are best effort; a backed-up client skips them
			select {
			case c.send <- msg:
			case <-c.stopped:
				return
			default:
			}
		}
	}()
}

func (c *connection) leaveHub() {
	if c.hubClient != nil {
		c.gw.hub.Unregister(c.hubClient.ID)
		c.hubClient = nil
	}
}

func (c *connection) sendError(ctx context.Context, code, message string) {
	c.sendMessage(ctx, MsgTypeError, ErrorPayload{Code: code, Message: message})
}

func (c *connection) sendMessage(ctx context.Context, msgType string, payload interface{}) {
	msg, err := encode(msgType, payload)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgEncodeFailed, "type", msgType, "error", err)
		return
	}
	select {
	case c.send <- msg:
	case <-c.stopped:
	}
}
