package ws

import (
	"encoding/json"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// Envelope frames every message in both directions
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinRequest binds a connection to a session and a wallet
type JoinRequest struct {
	SessionID string `json:"sessionId"`
	Wallet    string `json:"wallet"`
	Username  string `json:"username,omitempty"`
}

// JoinedPayload answers a join with the player's account and the session's nodes
type JoinedPayload struct {
	ConnectionID string                `json:"connectionId"`
	SessionID    string                `json:"sessionId"`
	Player       *domain.Player        `json:"player"`
	Nodes        []domain.ResourceNode `json:"nodes"`
	MaxRange     float64               `json:"maxRange,omitempty"`
}

// ErrorPayload reports a request the gateway could not handle
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	raw, ok := payload.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
