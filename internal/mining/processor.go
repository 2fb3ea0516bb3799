// Package mining runs the mining transaction: one attempt locks the player and
// then the node, harvests the node, credits the player and appends the audit
// row, all or nothing.
package mining

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/ledger"
	"github.com/Cleo-11/OceanX/internal/logger"
	"github.com/Cleo-11/OceanX/internal/metrics"
	"github.com/Cleo-11/OceanX/internal/repository"
)

// Config tunes fraud heuristics
type Config struct {
	RapidSuccessionWindow time.Duration
	MaxRange              float64
}

// Outcome is the answer to one mining attempt. Raw holds the exact serialized
// result; replays of the same attempt return the same bytes.
type Outcome struct {
	Result *domain.MiningResult
	Raw    json.RawMessage
}

// Processor executes mining attempts against the repository
type Processor struct {
	repo   repository.MiningRepository
	bus    event.Bus
	config Config
	now    func() time.Time
}

// NewProcessor creates a mining processor. bus may be nil.
func NewProcessor(repo repository.MiningRepository, bus event.Bus, cfg Config) *Processor {
	if cfg.RapidSuccessionWindow <= 0 {
		cfg.RapidSuccessionWindow = DefaultRapidSuccessionWindow
	}
	if cfg.MaxRange <= 0 {
		cfg.MaxRange = DefaultMaxRange
	}
	return &Processor{
		repo:   repo,
		bus:    bus,
		config: cfg,
		now:    time.Now,
	}
}

// DistanceFlags returns the fraud flags implied by the distance alone
func (p *Processor) DistanceFlags(distance float64) []domain.FraudFlag {
	if distance > p.config.MaxRange*DistanceAnomalyRatio {
		return []domain.FraudFlag{domain.FlagDistanceAnomaly}
	}
	return nil
}

// Process runs one attempt. Business failures come back as an unsuccessful
// Outcome; the error is reserved for infrastructure failures, after which the
// attempt is not recorded and may be retried with the same id.
func (p *Processor) Process(ctx context.Context, cmd domain.MiningCommand) (*Outcome, error) {
	log := logger.FromContext(ctx)

	// 1. Idempotent replay
	if out, err := p.replay(ctx, cmd.AttemptID); err != nil || out != nil {
		return out, err
	}

	now := p.now()
	flags := p.flags(ctx, cmd, now)

	if cmd.ResourceType != nil && !cmd.ResourceType.Valid() {
		return p.reject(ctx, cmd, flags, nil, domain.Reject(domain.ReasonInvalidResourceType, "resourceType", string(*cmd.ResourceType)))
	}

	start := time.Now()
	defer func() { metrics.MiningTxDuration.Observe(time.Since(start).Seconds()) }()

	// 2. Open the transaction
	tx, err := p.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	// 3. Player first
	player, err := tx.GetPlayerForUpdate(ctx, cmd.Wallet)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return p.rejectTx(ctx, tx, cmd, flags, nil, domain.Reject(domain.ReasonPlayerNotFound))
		}
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}

	// 4. Then the node, without waiting
	node, err := tx.GetNodeForUpdateNoWait(ctx, cmd.SessionID, cmd.NodeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrentClaim):
			return p.rejectTx(ctx, tx, cmd, flags, &player.ID, domain.Reject(domain.ReasonConcurrentClaim))
		case errors.Is(err, domain.ErrNodeNotFound):
			return p.rejectTx(ctx, tx, cmd, flags, &player.ID, domain.Reject(domain.ReasonNodeNotFound))
		}
		return nil, fmt.Errorf("failed to lock node: %w", err)
	}

	if cmd.ResourceType != nil && *cmd.ResourceType != node.ResourceType {
		return p.rejectTx(ctx, tx, cmd, flags, &player.ID,
			domain.Reject(domain.ReasonInvalidResourceType, "resourceType", string(*cmd.ResourceType)))
	}

	// A node past its respawn time is available even if the sweep has not run yet
	ledger.ReclaimIfDue(node, now)

	// 5 + 6. Re-verify and transition
	if _, err := ledger.Harvest(node, player.ID, now); err != nil {
		rej, ok := domain.AsRejection(err)
		if !ok {
			return nil, err
		}
		if node.RespawnAt != nil {
			if rej.Context == nil {
				rej.Context = make(map[string]any)
			}
			rej.Context[ctxKeyRespawnAt] = *node.RespawnAt
		}
		return p.rejectTx(ctx, tx, cmd, flags, &player.ID, rej)
	}
	if err := tx.UpdateNodeState(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to update node: %w", err)
	}

	// 7. Credit
	balance, err := tx.CreditResource(ctx, player.ID, node.ResourceType, node.ResourceAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit player: %w", err)
	}

	result := &domain.MiningResult{
		Success:        true,
		AttemptID:      cmd.AttemptID,
		ResourceType:   node.ResourceType,
		ResourceAmount: node.ResourceAmount,
		NewBalance:     &balance,
		NodeStatus:     node.Status,
		RespawnAt:      node.RespawnAt,
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mining result: %w", err)
	}

	// 8. Audit row
	attempt := p.attempt(cmd, flags, &player.ID, now, raw)
	attempt.Success = true
	attempt.ResourceType = node.ResourceType
	attempt.ResourceAmount = node.ResourceAmount
	if err := tx.InsertAttempt(ctx, attempt); err != nil {
		if errors.Is(err, domain.ErrDuplicateAttempt) {
			// A concurrent request with the same id won; answer with its outcome
			repository.SafeRollback(ctx, tx)
			return p.replayStored(ctx, cmd.AttemptID)
		}
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	// 9. Commit
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info(LogMsgMined, "attempt_id", cmd.AttemptID, "node_id", node.NodeID,
		"resource_type", node.ResourceType, "amount", node.ResourceAmount, "flags", flags)
	p.publish(ctx, event.NewMiningSucceededEvent(attempt))

	return &Outcome{Result: result, Raw: raw}, nil
}

// replay returns the stored outcome for attemptID, or nil when the id is unseen
func (p *Processor) replay(ctx context.Context, attemptID string) (*Outcome, error) {
	stored, err := p.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, domain.ErrAttemptNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return p.fromStored(ctx, stored)
}

// replayStored is replay for an id known to exist
func (p *Processor) replayStored(ctx context.Context, attemptID string) (*Outcome, error) {
	out, err := p.replay(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAttemptNotFound, attemptID)
	}
	return out, nil
}

func (p *Processor) fromStored(ctx context.Context, stored *domain.MiningAttempt) (*Outcome, error) {
	var result domain.MiningResult
	if err := json.Unmarshal(stored.Outcome, &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored outcome for %s: %w", stored.AttemptID, err)
	}
	result.Replayed = true

	metrics.MiningReplays.Inc()
	logger.FromContext(ctx).Debug(LogMsgReplay, "attempt_id", stored.AttemptID, "success", stored.Success)

	return &Outcome{Result: &result, Raw: json.RawMessage(stored.Outcome)}, nil
}

// flags derives fraud flags. They annotate the audit row and never block an attempt.
func (p *Processor) flags(ctx context.Context, cmd domain.MiningCommand, now time.Time) []domain.FraudFlag {
	flags := make([]domain.FraudFlag, 0, 2+len(cmd.Flags))

	received := now
	if !cmd.ReceivedAt.IsZero() {
		received = cmd.ReceivedAt
	}
	last, err := p.repo.LastAttemptAt(ctx, cmd.Wallet)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgLastAttemptFail, "wallet", cmd.Wallet, "error", err)
	} else if last != nil && received.Sub(*last) < p.config.RapidSuccessionWindow {
		flags = append(flags, domain.FlagRapidSuccession)
	}

	flags = append(flags, p.DistanceFlags(cmd.Distance)...)
	for _, f := range cmd.Flags {
		if !containsFlag(flags, f) {
			flags = append(flags, f)
		}
	}
	return flags
}

// rejectTx rolls the transaction back before recording the failure so no
// partial mutation survives
func (p *Processor) rejectTx(ctx context.Context, tx repository.MiningTx, cmd domain.MiningCommand, flags []domain.FraudFlag, playerID *string, rej *domain.Rejection) (*Outcome, error) {
	repository.SafeRollback(ctx, tx)
	return p.reject(ctx, cmd, flags, playerID, rej)
}

func (p *Processor) reject(ctx context.Context, cmd domain.MiningCommand, flags []domain.FraudFlag, playerID *string, rej *domain.Rejection) (*Outcome, error) {
	result := ResultFromRejection(cmd.AttemptID, rej)
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mining result: %w", err)
	}

	attempt := p.attempt(cmd, flags, playerID, p.now(), raw)
	reason := rej.Code
	attempt.FailureReason = &reason

	written, err := p.repo.RecordAttempt(ctx, attempt)
	if err != nil {
		// The client still gets its answer; a retry re-runs the attempt
		logger.FromContext(ctx).Error(LogMsgRecordFailed, "attempt_id", cmd.AttemptID, "error", err)
	} else if !written {
		return p.replayStored(ctx, cmd.AttemptID)
	}

	logger.FromContext(ctx).Info(LogMsgRejected, "attempt_id", cmd.AttemptID, "node_id", cmd.NodeID, "reason", rej.Code)
	p.publish(ctx, event.NewMiningRejectedEvent(cmd.AttemptID, cmd.Wallet, cmd.NodeID, rej.Code))

	return &Outcome{Result: result, Raw: raw}, nil
}

func (p *Processor) attempt(cmd domain.MiningCommand, flags []domain.FraudFlag, playerID *string, now time.Time, raw []byte) *domain.MiningAttempt {
	return &domain.MiningAttempt{
		AttemptID:      cmd.AttemptID,
		PlayerID:       playerID,
		Wallet:         cmd.Wallet,
		SessionID:      cmd.SessionID,
		NodeID:         cmd.NodeID,
		Position:       cmd.Position,
		DistanceToNode: cmd.Distance,
		Flags:          flags,
		Outcome:        raw,
		AttemptedAt:    now,
	}
}

func (p *Processor) publish(ctx context.Context, evt event.Event) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

// ResultFromRejection converts a rejection into the client-facing result,
// carrying whatever context the client needs to self-correct
func ResultFromRejection(attemptID string, rej *domain.Rejection) *domain.MiningResult {
	result := &domain.MiningResult{
		Success:   false,
		AttemptID: attemptID,
		Reason:    rej.Code,
	}
	if v, ok := rej.Context[ctxKeyNodeStatus].(domain.NodeStatus); ok {
		result.NodeStatus = v
	}
	if v, ok := rej.Context[ctxKeyRespawnAt].(time.Time); ok {
		result.RespawnAt = &v
	}
	if v, ok := rej.Context[ctxKeyRetryAfterMs].(int64); ok {
		result.RetryAfterMs = v
	}
	if v, ok := rej.Context[ctxKeyDistance].(float64); ok {
		result.Distance = &v
	}
	if v, ok := rej.Context[ctxKeyMaxRange].(float64); ok {
		result.MaxRange = &v
	}
	return result
}

func containsFlag(flags []domain.FraudFlag, f domain.FraudFlag) bool {
	for _, flag := range flags {
		if flag == f {
			return true
		}
	}
	return false
}
