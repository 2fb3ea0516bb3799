package claim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// memoryClaims is an in-memory ClaimRepository. A transaction holds one store
// lock for its lifetime, which stands in for the player row lock.
type memoryClaims struct {
	txLock sync.Mutex

	mu      sync.Mutex
	players map[string]*domain.Player
	claims  []*domain.ClaimSignature
	nonces  map[string]uint64
}

func newMemoryClaims(players ...*domain.Player) *memoryClaims {
	s := &memoryClaims{
		players: make(map[string]*domain.Player),
		nonces:  make(map[string]uint64),
	}
	for _, p := range players {
		cp := *p
		s.players[p.Wallet] = &cp
	}
	return s
}

func (s *memoryClaims) playerSnapshot(wallet string) *domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[wallet]
	if !ok {
		return nil
	}
	cp := *p
	cp.Balances = make(map[domain.ResourceType]int64)
	for k, v := range p.Balances {
		cp.Balances[k] = v
	}
	return &cp
}

func (s *memoryClaims) claimCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.claims)
}

func (s *memoryClaims) GetPlayerByWallet(ctx context.Context, wallet string) (*domain.Player, error) {
	p := s.playerSnapshot(wallet)
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}
	return p, nil
}

func (s *memoryClaims) SumReserved(ctx context.Context, wallet string, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, c := range s.claims {
		if c.Wallet == wallet && !c.Used && c.ExpiresAt.After(cutoff) {
			total += c.Amount
		}
	}
	return total, nil
}

func (s *memoryClaims) find(match func(*domain.ClaimSignature) bool) (*domain.ClaimSignature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.claims {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrClaimNotFound
}

func (s *memoryClaims) GetClaimByNonce(ctx context.Context, wallet string, nonce uint64) (*domain.ClaimSignature, error) {
	return s.find(func(c *domain.ClaimSignature) bool { return c.Wallet == wallet && c.Nonce == nonce })
}

func (s *memoryClaims) BeginTx(ctx context.Context) (repository.ClaimTx, error) {
	s.txLock.Lock()
	return &memoryClaimTx{store: s}, nil
}

type memoryClaimTx struct {
	store    *memoryClaims
	inserted []*domain.ClaimSignature
	used     map[string]domain.ClaimSignature
	debits   []func()
	nonces   map[string]uint64
	done     bool
}

func (t *memoryClaimTx) GetPlayerForUpdate(ctx context.Context, wallet string) (*domain.Player, error) {
	return t.store.GetPlayerByWallet(ctx, wallet)
}

func (t *memoryClaimTx) SumReserved(ctx context.Context, wallet string, cutoff time.Time) (int64, error) {
	return t.store.SumReserved(ctx, wallet, cutoff)
}

func (t *memoryClaimTx) GetClaimByIdempotencyKey(ctx context.Context, wallet, key string) (*domain.ClaimSignature, error) {
	return t.store.find(func(c *domain.ClaimSignature) bool {
		return c.Wallet == wallet && c.IdempotencyKey != nil && *c.IdempotencyKey == key
	})
}

func (t *memoryClaimTx) NextNonce(ctx context.Context, wallet string) (uint64, error) {
	if t.nonces == nil {
		t.nonces = make(map[string]uint64)
	}
	t.store.mu.Lock()
	next := t.store.nonces[wallet] + 1
	t.store.mu.Unlock()
	if staged, ok := t.nonces[wallet]; ok {
		next = staged + 1
	}
	t.nonces[wallet] = next
	return next, nil
}

func (t *memoryClaimTx) InsertClaim(ctx context.Context, claim *domain.ClaimSignature) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, c := range t.store.claims {
		if c.Wallet == claim.Wallet && c.Nonce == claim.Nonce {
			return fmt.Errorf("%w: claim_signatures_wallet_nonce_key", domain.ErrDuplicateClaim)
		}
	}
	cp := *claim
	t.inserted = append(t.inserted, &cp)
	return nil
}

func (t *memoryClaimTx) GetClaimByNonceForUpdate(ctx context.Context, wallet string, nonce uint64) (*domain.ClaimSignature, error) {
	return t.store.GetClaimByNonce(ctx, wallet, nonce)
}

func (t *memoryClaimTx) MarkClaimUsed(ctx context.Context, claimID string, usedAt time.Time, txReference string) error {
	c, err := t.store.find(func(c *domain.ClaimSignature) bool { return c.ClaimID == claimID })
	if err != nil {
		return err
	}
	if c.Used {
		return domain.ErrSignatureAlreadyUsed
	}
	if t.used == nil {
		t.used = make(map[string]domain.ClaimSignature)
	}
	c.Used = true
	c.UsedAt = &usedAt
	c.TxReference = &txReference
	t.used[claimID] = *c
	return nil
}

func (t *memoryClaimTx) ApplyDebit(ctx context.Context, playerID string, debit domain.BalanceDebit, tokens int64) error {
	t.debits = append(t.debits, func() {
		for _, p := range t.store.players {
			if p.ID != playerID {
				continue
			}
			p.Coins -= debit.Coins
			for rt, v := range debit.Resources {
				p.Balances[rt] -= v
			}
			p.TotalTokensEarned += tokens
		}
	})
	return nil
}

func (t *memoryClaimTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.store.mu.Lock()
	t.store.claims = append(t.store.claims, t.inserted...)
	for wallet, n := range t.nonces {
		t.store.nonces[wallet] = n
	}
	for i, c := range t.store.claims {
		if u, ok := t.used[c.ClaimID]; ok {
			cp := u
			t.store.claims[i] = &cp
		}
	}
	for _, apply := range t.debits {
		apply()
	}
	t.store.mu.Unlock()
	t.finish()
	return nil
}

func (t *memoryClaimTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *memoryClaimTx) finish() {
	t.done = true
	t.store.txLock.Unlock()
}
