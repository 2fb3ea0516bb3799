// Package admission sheds abusive or impossible mining requests before they
// reach the mining transaction: sliding-window budgets per wallet and per
// connection, then a distance check against the node's position. An admitted
// attempt that spends the wallet's last slot is passed on flagged.
package admission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/logger"
	"github.com/Cleo-11/OceanX/internal/metrics"
	"github.com/Cleo-11/OceanX/internal/mining"
)

// Miner executes admitted attempts
type Miner interface {
	Process(ctx context.Context, cmd domain.MiningCommand) (*mining.Outcome, error)
}

// PositionSource resolves where a node sits
type PositionSource interface {
	Position(ctx context.Context, sessionID, nodeID string) (domain.Position, error)
}

// Config holds admission limits
type Config struct {
	WalletLimit     int
	ConnectionLimit int
	Window          time.Duration
	MaxRange        float64
}

func (c *Config) applyDefaults() {
	if c.WalletLimit <= 0 {
		c.WalletLimit = DefaultWalletLimit
	}
	if c.ConnectionLimit <= 0 {
		c.ConnectionLimit = DefaultConnectionLimit
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.MaxRange <= 0 {
		c.MaxRange = DefaultMaxRange
	}
}

// Filter wraps a Miner with admission checks
type Filter struct {
	store     Store
	positions PositionSource
	miner     Miner
	bus       event.Bus
	config    Config
	now       func() time.Time
}

// NewFilter creates an admission filter. bus may be nil.
func NewFilter(store Store, positions PositionSource, miner Miner, bus event.Bus, cfg Config) *Filter {
	cfg.applyDefaults()
	return &Filter{
		store:     store,
		positions: positions,
		miner:     miner,
		bus:       bus,
		config:    cfg,
		now:       time.Now,
	}
}

// MaxRange returns the configured maximum mining distance
func (f *Filter) MaxRange() float64 {
	return f.config.MaxRange
}

// Mine admits req from connectionID and hands it to the miner. Admission
// rejections are answered directly and never reach storage.
func (f *Filter) Mine(ctx context.Context, connectionID string, req domain.MiningRequest) (*mining.Outcome, error) {
	now := f.now()

	wallet, err := domain.NormalizeWallet(req.Wallet)
	if err != nil || req.AttemptID == "" || req.SessionID == "" || req.NodeID == "" || !req.Position.IsFinite() {
		return f.reject(ctx, req, domain.Reject(domain.ReasonInvalidRequest))
	}
	req.Wallet = wallet
	ctx = logger.WithWallet(ctx, wallet)

	// (a) Rate limits, wallet then connection
	var flags []domain.FraudFlag
	walletDecision, rej, err := f.checkRate(ctx, keyPrefixWallet+wallet, f.config.WalletLimit, now)
	if err != nil || rej != nil {
		return f.rejectOrFail(ctx, req, rej, err)
	}
	if walletDecision.Remaining == 0 {
		flags = append(flags, domain.FlagRateLimitEdge)
	}
	if connectionID != "" {
		if _, rej, err := f.checkRate(ctx, keyPrefixConnection+connectionID, f.config.ConnectionLimit, now); err != nil || rej != nil {
			return f.rejectOrFail(ctx, req, rej, err)
		}
	}

	// (b) Distance
	nodePos, err := f.positions.Position(ctx, req.SessionID, req.NodeID)
	if err != nil {
		if errors.Is(err, domain.ErrNodeNotFound) {
			return f.reject(ctx, req, domain.Reject(domain.ReasonNodeNotFound))
		}
		return nil, fmt.Errorf("failed to resolve node position: %w", err)
	}
	distance := req.Position.DistanceTo(nodePos)
	if distance > f.config.MaxRange {
		return f.reject(ctx, req, domain.Reject(domain.ReasonOutOfRange, "distance", distance, "maxRange", f.config.MaxRange))
	}

	return f.miner.Process(ctx, domain.MiningCommand{
		AttemptID:    req.AttemptID,
		SessionID:    req.SessionID,
		Wallet:       wallet,
		NodeID:       req.NodeID,
		Position:     req.Position,
		ResourceType: resourceHint(req.ResourceType),
		Distance:     distance,
		Flags:        flags,
		ReceivedAt:   now,
	})
}

func (f *Filter) checkRate(ctx context.Context, key string, limit int, now time.Time) (Decision, *domain.Rejection, error) {
	d, err := f.store.Allow(ctx, key, limit, f.config.Window, now)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgStoreFailed, "key", key, "error", err)
		return d, nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	if d.Allowed {
		return d, nil, nil
	}
	return d, domain.Reject(domain.ReasonRateLimited, "retryAfterMs", d.RetryAfter.Milliseconds()), nil
}

func (f *Filter) rejectOrFail(ctx context.Context, req domain.MiningRequest, rej *domain.Rejection, err error) (*mining.Outcome, error) {
	if err != nil {
		return nil, err
	}
	return f.reject(ctx, req, rej)
}

func (f *Filter) reject(ctx context.Context, req domain.MiningRequest, rej *domain.Rejection) (*mining.Outcome, error) {
	result := mining.ResultFromRejection(req.AttemptID, rej)
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mining result: %w", err)
	}

	metrics.AdmissionRejections.WithLabelValues(string(rej.Code)).Inc()
	logger.FromContext(ctx).Info(LogMsgRejected, "attempt_id", req.AttemptID, "node_id", req.NodeID, "reason", rej.Code)

	if f.bus != nil {
		if err := f.bus.Publish(ctx, event.NewMiningRejectedEvent(req.AttemptID, req.Wallet, req.NodeID, rej.Code)); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
		}
	}
	return &mining.Outcome{Result: result, Raw: raw}, nil
}

// resourceHint parses the optional client resource type. Unknown values are
// passed through so the miner rejects and records them.
func resourceHint(raw string) *domain.ResourceType {
	if raw == "" {
		return nil
	}
	rt, err := domain.ParseResourceType(raw)
	if err != nil {
		rt = domain.ResourceType(raw)
	}
	return &rt
}
