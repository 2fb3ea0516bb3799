package mining

import (
	"context"
	"sync"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// memoryStore is a transactional in-memory MiningRepository. Player locks block,
// node locks use TryLock to mirror FOR UPDATE NOWAIT. Writes are staged per
// transaction and applied on commit.
type memoryStore struct {
	mu       sync.Mutex
	players  map[string]*domain.Player
	nodes    map[domain.NodeKey]*domain.ResourceNode
	attempts map[string]*domain.MiningAttempt

	playerLocks map[string]*sync.Mutex
	nodeLocks   map[domain.NodeKey]*sync.Mutex

	// afterNodeLock runs while a transaction holds the node lock
	afterNodeLock func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		players:     make(map[string]*domain.Player),
		nodes:       make(map[domain.NodeKey]*domain.ResourceNode),
		attempts:    make(map[string]*domain.MiningAttempt),
		playerLocks: make(map[string]*sync.Mutex),
		nodeLocks:   make(map[domain.NodeKey]*sync.Mutex),
	}
}

func (s *memoryStore) addPlayer(id, wallet string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[wallet] = &domain.Player{ID: id, Wallet: wallet, Balances: map[domain.ResourceType]int64{}}
	s.playerLocks[wallet] = &sync.Mutex{}
}

func (s *memoryStore) addNode(n domain.ResourceNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[n.Key()] = &n
	s.nodeLocks[n.Key()] = &sync.Mutex{}
}

func (s *memoryStore) player(wallet string) domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.players[wallet]
	p.Balances = make(map[domain.ResourceType]int64)
	for k, v := range s.players[wallet].Balances {
		p.Balances[k] = v
	}
	return p
}

func (s *memoryStore) node(sessionID, nodeID string) domain.ResourceNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.nodes[domain.NodeKey{SessionID: sessionID, NodeID: nodeID}]
}

func (s *memoryStore) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

func (s *memoryStore) GetAttempt(ctx context.Context, attemptID string) (*domain.MiningAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[attemptID]
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memoryStore) RecordAttempt(ctx context.Context, attempt *domain.MiningAttempt) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[attempt.AttemptID]; ok {
		return false, nil
	}
	cp := *attempt
	s.attempts[attempt.AttemptID] = &cp
	return true, nil
}

func (s *memoryStore) LastAttemptAt(ctx context.Context, wallet string) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last *time.Time
	for _, a := range s.attempts {
		if a.Wallet != wallet {
			continue
		}
		if last == nil || a.AttemptedAt.After(*last) {
			at := a.AttemptedAt
			last = &at
		}
	}
	return last, nil
}

func (s *memoryStore) ListFlaggedAttempts(ctx context.Context, limit int) ([]domain.MiningAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.MiningAttempt
	for _, a := range s.attempts {
		if len(a.Flags) > 0 && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *memoryStore) BeginTx(ctx context.Context) (repository.MiningTx, error) {
	return &memoryTx{store: s}, nil
}

type memoryTx struct {
	store      *memoryStore
	playerLock *sync.Mutex
	nodeLock   *sync.Mutex
	node       *domain.ResourceNode
	credits    []credit
	attempt    *domain.MiningAttempt
	done       bool
}

type credit struct {
	wallet string
	rt     domain.ResourceType
	amount int64
}

func (t *memoryTx) GetPlayerForUpdate(ctx context.Context, wallet string) (*domain.Player, error) {
	t.store.mu.Lock()
	lock, ok := t.store.playerLocks[wallet]
	t.store.mu.Unlock()
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	lock.Lock()
	t.playerLock = lock
	p := t.store.player(wallet)
	return &p, nil
}

func (t *memoryTx) GetNodeForUpdateNoWait(ctx context.Context, sessionID, nodeID string) (*domain.ResourceNode, error) {
	key := domain.NodeKey{SessionID: sessionID, NodeID: nodeID}
	t.store.mu.Lock()
	lock, ok := t.store.nodeLocks[key]
	t.store.mu.Unlock()
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	if !lock.TryLock() {
		return nil, domain.ErrConcurrentClaim
	}
	t.nodeLock = lock
	if t.store.afterNodeLock != nil {
		t.store.afterNodeLock()
	}
	n := t.store.node(sessionID, nodeID)
	return &n, nil
}

func (t *memoryTx) UpdateNodeState(ctx context.Context, node *domain.ResourceNode) error {
	cp := *node
	t.node = &cp
	return nil
}

func (t *memoryTx) CreditResource(ctx context.Context, playerID string, rt domain.ResourceType, amount int) (int64, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for wallet, p := range t.store.players {
		if p.ID == playerID {
			t.credits = append(t.credits, credit{wallet: wallet, rt: rt, amount: int64(amount)})
			return p.Balances[rt] + int64(amount), nil
		}
	}
	return 0, domain.ErrPlayerNotFound
}

func (t *memoryTx) InsertAttempt(ctx context.Context, attempt *domain.MiningAttempt) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if _, ok := t.store.attempts[attempt.AttemptID]; ok {
		return domain.ErrDuplicateAttempt
	}
	cp := *attempt
	t.attempt = &cp
	return nil
}

func (t *memoryTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.store.mu.Lock()
	if t.node != nil {
		t.store.nodes[t.node.Key()] = t.node
	}
	for _, c := range t.credits {
		p := t.store.players[c.wallet]
		p.Balances[c.rt] += c.amount
		p.TotalResourcesMined += c.amount
	}
	if t.attempt != nil {
		t.store.attempts[t.attempt.AttemptID] = t.attempt
	}
	t.store.mu.Unlock()
	t.release()
	return nil
}

func (t *memoryTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *memoryTx) release() {
	t.done = true
	if t.nodeLock != nil {
		t.nodeLock.Unlock()
	}
	if t.playerLock != nil {
		t.playerLock.Unlock()
	}
}
