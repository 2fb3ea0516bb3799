package sse

// NodeDepletedPayload tells a session that a node was harvested
type NodeDepletedPayload struct {
	SessionID    string `json:"sessionId"`
	NodeID       string `json:"nodeId"`
	ResourceType string `json:"resourceType"`
	PlayerID     string `json:"playerId"`
}

// NodesRespawnedPayload tells every session that a sweep made nodes available again
type NodesRespawnedPayload struct {
	Count int64 `json:"count"`
}

// ClaimPayload describes a claim lifecycle change
type ClaimPayload struct {
	ClaimID     string `json:"claimId"`
	Wallet      string `json:"wallet"`
	Amount      int64  `json:"amount"`
	Nonce       uint64 `json:"nonce"`
	TxReference string `json:"txReference,omitempty"`
}
