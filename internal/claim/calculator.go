package claim

import (
	"fmt"

	"github.com/Cleo-11/OceanX/internal/domain"
)

// Rate returns the basis-point conversion rate for a resource type
func Rate(rt domain.ResourceType) (int64, error) {
	switch rt {
	case domain.ResourceNickel:
		return RateNickel, nil
	case domain.ResourceCopper:
		return RateCopper, nil
	case domain.ResourceManganese:
		return RateManganese, nil
	case domain.ResourceCobalt:
		return RateCobalt, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidResourceType, rt)
	}
}

// valueBps is the player's holdings in basis points of a token
func valueBps(p *domain.Player) int64 {
	total := p.Coins * RateCoins
	for _, rt := range domain.ResourceTypes {
		rate, _ := Rate(rt)
		total += p.Balance(rt) * rate
	}
	return total
}

// GrossValue is floor(coins + sum of balance times rate), in whole tokens
func GrossValue(p *domain.Player) int64 {
	return valueBps(p) / BasisPoints
}

// ComputeCeiling applies outstanding reservations to the player's gross value.
// The result is never negative.
func ComputeCeiling(p *domain.Player, reserved int64) domain.Ceiling {
	gross := GrossValue(p)
	c := domain.Ceiling{
		Wallet:   p.Wallet,
		Gross:    gross,
		Reserved: reserved,
		Amount:   gross - reserved,
		Reason:   domain.CeilingOK,
	}
	switch {
	case gross == 0:
		c.Amount = 0
		c.Reason = domain.CeilingNoValue
	case c.Amount <= 0:
		c.Amount = 0
		c.Reason = domain.CeilingReserved
	}
	return c
}

// PlanDebit works out how tokens are taken from the player's holdings: whole
// coins first, then resources by ascending rate. The last resource touched is
// rounded up, consuming sub-token dust. Shortfall is the token value in basis
// points that the holdings could not cover.
func PlanDebit(p *domain.Player, tokens int64) (debit domain.BalanceDebit, shortfallBps int64) {
	debit.Resources = make(map[domain.ResourceType]int64)
	remaining := tokens * BasisPoints

	debit.Coins = min(p.Coins, remaining/RateCoins)
	remaining -= debit.Coins * RateCoins

	for _, rt := range domain.ResourceTypes {
		if remaining <= 0 {
			break
		}
		rate, _ := Rate(rt)
		need := (remaining + rate - 1) / rate
		take := min(p.Balance(rt), need)
		if take == 0 {
			continue
		}
		debit.Resources[rt] = take
		remaining -= take * rate
	}

	if remaining > 0 {
		return debit, remaining
	}
	return debit, 0
}
