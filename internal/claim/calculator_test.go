package claim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Cleo-11/OceanX/internal/domain"
)

func scenarioAPlayer() *domain.Player {
	return &domain.Player{
		ID:     "p1",
		Wallet: "0x00000000000000000000000000000000000000aa",
		Coins:  50,
		Balances: map[domain.ResourceType]int64{
			domain.ResourceNickel: 100,
			domain.ResourceCobalt: 20,
		},
	}
}

func TestComputeCeiling_ScenarioA(t *testing.T) {
	c := ComputeCeiling(scenarioAPlayer(), 0)
	assert.Equal(t, int64(70), c.Amount)
	assert.Equal(t, int64(70), c.Gross)
	assert.Equal(t, domain.CeilingOK, c.Reason)
}

func TestComputeCeiling_FloorsFractions(t *testing.T) {
	p := &domain.Player{Balances: map[domain.ResourceType]int64{
		domain.ResourceNickel:    9, // 0.9
		domain.ResourceManganese: 3, // 0.9
		domain.ResourceCopper:    1, // 0.2
	}}
	assert.Equal(t, int64(2), GrossValue(p))
}

func TestComputeCeiling_Reasons(t *testing.T) {
	assert.Equal(t, domain.CeilingNoValue, ComputeCeiling(&domain.Player{}, 0).Reason)

	c := ComputeCeiling(scenarioAPlayer(), 70)
	assert.Zero(t, c.Amount)
	assert.Equal(t, domain.CeilingReserved, c.Reason)

	c = ComputeCeiling(scenarioAPlayer(), 100)
	assert.Zero(t, c.Amount, "never negative")

	c = ComputeCeiling(scenarioAPlayer(), 30)
	assert.Equal(t, int64(40), c.Amount)
	assert.Equal(t, domain.CeilingOK, c.Reason)
}

func TestGrossValue_MonotonicInEveryComponent(t *testing.T) {
	base := &domain.Player{
		Coins: 3,
		Balances: map[domain.ResourceType]int64{
			domain.ResourceNickel:    7,
			domain.ResourceCopper:    4,
			domain.ResourceManganese: 2,
			domain.ResourceCobalt:    1,
		},
	}

	for step := int64(1); step <= 25; step++ {
		before := GrossValue(base)

		bumped := *base
		bumped.Coins += step
		assert.GreaterOrEqual(t, GrossValue(&bumped), before, "coins +%d", step)

		for _, rt := range domain.ResourceTypes {
			bumped := *base
			bumped.Balances = map[domain.ResourceType]int64{}
			for k, v := range base.Balances {
				bumped.Balances[k] = v
			}
			bumped.Balances[rt] += step
			assert.GreaterOrEqual(t, GrossValue(&bumped), before, "%s +%d", rt, step)
		}
	}
}

func TestRate(t *testing.T) {
	for rt, want := range map[domain.ResourceType]int64{
		domain.ResourceNickel:    1000,
		domain.ResourceCopper:    2000,
		domain.ResourceManganese: 3000,
		domain.ResourceCobalt:    5000,
	} {
		got, err := Rate(rt)
		assert.NoError(t, err)
		assert.Equal(t, want, got, rt)
	}

	_, err := Rate("gold")
	assert.ErrorIs(t, err, domain.ErrInvalidResourceType)
}

func TestPlanDebit(t *testing.T) {
	t.Run("coins first", func(t *testing.T) {
		debit, short := PlanDebit(scenarioAPlayer(), 40)
		assert.Zero(t, short)
		assert.Equal(t, int64(40), debit.Coins)
		assert.True(t, len(debit.Resources) == 0)
	})

	t.Run("then ascending rate", func(t *testing.T) {
		debit, short := PlanDebit(scenarioAPlayer(), 65)
		assert.Zero(t, short)
		assert.Equal(t, int64(50), debit.Coins)
		assert.Equal(t, int64(100), debit.Resources[domain.ResourceNickel])
		assert.Equal(t, int64(10), debit.Resources[domain.ResourceCobalt])
	})

	t.Run("full ceiling empties holdings", func(t *testing.T) {
		debit, short := PlanDebit(scenarioAPlayer(), 70)
		assert.Zero(t, short)
		assert.Equal(t, int64(50), debit.Coins)
		assert.Equal(t, int64(100), debit.Resources[domain.ResourceNickel])
		assert.Equal(t, int64(20), debit.Resources[domain.ResourceCobalt])
	})

	t.Run("dust is rounded up on the last resource", func(t *testing.T) {
		p := &domain.Player{Balances: map[domain.ResourceType]int64{domain.ResourceManganese: 10}}
		debit, short := PlanDebit(p, 1)
		assert.Zero(t, short)
		assert.Equal(t, int64(4), debit.Resources[domain.ResourceManganese], "4 x 0.3 covers 1 token")
	})

	t.Run("shortfall is reported", func(t *testing.T) {
		debit, short := PlanDebit(scenarioAPlayer(), 75)
		assert.Equal(t, int64(5*BasisPoints), short)
		assert.Equal(t, int64(50), debit.Coins)
	})
}
