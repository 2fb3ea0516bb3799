package domain

import "time"

// Player is the economic account behind a wallet
type Player struct {
	ID                  string                 `json:"id"`
	Wallet              string                 `json:"wallet"`
	Username            string                 `json:"username,omitempty"`
	Coins               int64                  `json:"coins"`
	Balances            map[ResourceType]int64 `json:"balances"`
	TotalResourcesMined int64                  `json:"total_resources_mined"`
	TotalTokensEarned   int64                  `json:"total_tokens_earned"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// Balance returns the balance for a resource type, zero when absent
func (p *Player) Balance(rt ResourceType) int64 {
	if p.Balances == nil {
		return 0
	}
	return p.Balances[rt]
}

// BalanceDebit describes how a confirmed claim reduces a player's holdings
type BalanceDebit struct {
	Coins     int64                  `json:"coins"`
	Resources map[ResourceType]int64 `json:"resources"`
}

// IsZero reports whether the debit takes nothing
func (d BalanceDebit) IsZero() bool {
	if d.Coins != 0 {
		return false
	}
	for _, v := range d.Resources {
		if v != 0 {
			return false
		}
	}
	return true
}
