package calc

import (
	"math"
	"testing"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domesticTiers() []domain.RateTier {
	return []domain.RateTier{
		{Lower: 0, Upper: 30, Rate: 7.85, Description: "first block"},
		{Lower: 31, Upper: 60, Rate: 10.75},
		{Lower: 61, Upper: 90, Rate: 27.75},
		{Lower: 91, Upper: domain.UnboundedUpper, Rate: 32.00, Unbounded: true},
	}
}

func TestComputeBillScenario(t *testing.T) {
	bill, err := ComputeBill(domesticTiers(), 100)
	require.NoError(t, err)

	require.Len(t, bill.Breakdown, 4)
	expected := []struct {
		label string
		units float64
		cost  float64
	}{
		{"0-30", 30, 235.50},
		{"31-60", 30, 322.50},
		{"61-90", 30, 832.50},
		{"91+", 10, 320.00},
	}
	for i, e := range expected {
		line := bill.Breakdown[i]
		assert.Equal(t, i+1, line.Tier)
		assert.Equal(t, e.label, line.Label)
		assert.InDelta(t, e.units, line.Units, 1e-9)
		assert.InDelta(t, e.cost, line.Cost, 1e-9)
	}
	assert.Equal(t, "first block", bill.Breakdown[0].Description)
	assert.InDelta(t, 1710.50, bill.Total, 1e-9)
	assert.Zero(t, bill.Uncharged)
}

func TestComputeBillOrdersTiers(t *testing.T) {
	tiers := domesticTiers()
	tiers[0], tiers[3] = tiers[3], tiers[0]
	tiers[1], tiers[2] = tiers[2], tiers[1]

	bill, err := ComputeBill(tiers, 45)
	require.NoError(t, err)

	require.Len(t, bill.Breakdown, 2)
	assert.Equal(t, "0-30", bill.Breakdown[0].Label)
	assert.Equal(t, "31-60", bill.Breakdown[1].Label)
	assert.InDelta(t, 30*7.85+15*10.75, bill.Total, 1e-9)

	// caller's slice keeps its order
	assert.True(t, tiers[0].Unbounded)
}

func TestComputeBillStopsEarly(t *testing.T) {
	bill, err := ComputeBill(domesticTiers(), 12.5)
	require.NoError(t, err)
	require.Len(t, bill.Breakdown, 1)
	assert.InDelta(t, 12.5*7.85, bill.Total, 1e-9)
}

func TestComputeBillUnbounded(t *testing.T) {
	t.Run("sentinel upper bound is unbounded", func(t *testing.T) {
		tiers := []domain.RateTier{{Lower: 0, Upper: domain.UnboundedUpper, Rate: 2}}
		bill, err := ComputeBill(tiers, 2_000_000)
		require.NoError(t, err)
		assert.InDelta(t, 4_000_000, bill.Total, 1e-6)
		assert.Zero(t, bill.Uncharged)
	})

	t.Run("flag beats nominal upper bound", func(t *testing.T) {
		tiers := []domain.RateTier{{Lower: 0, Upper: 10, Rate: 1, Unbounded: true}}
		bill, err := ComputeBill(tiers, 50)
		require.NoError(t, err)
		assert.InDelta(t, 50, bill.Total, 1e-9)
	})
}

func TestComputeBillGaps(t *testing.T) {
	tiers := []domain.RateTier{
		{Lower: 0, Upper: 10, Rate: 1},
		{Lower: 21, Upper: 30, Rate: 2},
	}

	bill, err := ComputeBill(tiers, 50)
	require.NoError(t, err)

	assert.InDelta(t, 10*1+10*2, bill.Total, 1e-9)
	assert.InDelta(t, 30, bill.Uncharged, 1e-9)
}

func TestComputeBillErrors(t *testing.T) {
	t.Run("no rates", func(t *testing.T) {
		_, err := ComputeBill(nil, 50)
		assert.ErrorIs(t, err, constants.ErrNoRatesConfigured)
		assert.ErrorIs(t, err, constants.ErrConfiguration)

		_, err = ComputeBill([]domain.RateTier{}, 50)
		assert.ErrorIs(t, err, constants.ErrConfiguration)
	})

	for _, units := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := ComputeBill(domesticTiers(), units)
		assert.ErrorIs(t, err, constants.ErrInvalidUnits, "units=%v", units)
		assert.ErrorIs(t, err, constants.ErrInvalidInput, "units=%v", units)
	}
}

func TestComputeBillMonotonic(t *testing.T) {
	schedules := map[string][]domain.RateTier{
		"domestic": domesticTiers(),
		"gapped": {
			{Lower: 0, Upper: 10, Rate: 5},
			{Lower: 40, Upper: 60, Rate: 1},
		},
		"zero rate block": {
			{Lower: 0, Upper: 60, Rate: 0},
			{Lower: 61, Upper: 0, Rate: 3, Unbounded: true},
		},
	}

	for name, tiers := range schedules {
		t.Run(name, func(t *testing.T) {
			prev := 0.0
			for u := 0.5; u <= 400; u += 3.25 {
				bill, err := ComputeBill(tiers, u)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, bill.Total, prev, "units=%v", u)
				prev = bill.Total
			}
		})
	}
}

func TestComputeBillConservesUnits(t *testing.T) {
	bounded := []domain.RateTier{
		{Lower: 0, Upper: 30, Rate: 1},
		{Lower: 31, Upper: 60, Rate: 2},
		{Lower: 75, Upper: 100, Rate: 3},
	}
	const capacity = 30 + 30 + 26

	for _, units := range []float64{1, 29.5, 30, 45, 86, 87, 500} {
		for name, tiers := range map[string][]domain.RateTier{"bounded": bounded, "domestic": domesticTiers()} {
			bill, err := ComputeBill(tiers, units)
			require.NoError(t, err)

			sumUnits, sumCost := 0.0, 0.0
			for _, line := range bill.Breakdown {
				sumUnits += line.Units
				sumCost += line.Cost
			}

			want := units
			if name == "bounded" {
				want = math.Min(units, capacity)
			}
			assert.InDelta(t, want, sumUnits, 1e-9, "%s units=%v", name, units)
			assert.InDelta(t, bill.Total, sumCost, 1e-9, "%s units=%v", name, units)
			assert.InDelta(t, units, sumUnits+bill.Uncharged, 1e-9, "%s units=%v", name, units)
		}
	}
}

func TestValidateSchedule(t *testing.T) {
	t.Run("contiguous schedule", func(t *testing.T) {
		gaps, err := ValidateSchedule(domesticTiers(), true)
		require.NoError(t, err)
		assert.Empty(t, gaps)
	})

	t.Run("overlap", func(t *testing.T) {
		tiers := []domain.RateTier{
			{Lower: 0, Upper: 30, Rate: 1},
			{Lower: 25, Upper: 60, Rate: 2},
		}
		_, err := ValidateSchedule(tiers, false)
		assert.ErrorIs(t, err, constants.ErrInvalidTierSchedule)
	})

	t.Run("tier after unbounded", func(t *testing.T) {
		tiers := []domain.RateTier{
			{Lower: 0, Upper: 30, Rate: 1, Unbounded: true},
			{Lower: 100, Upper: 200, Rate: 2},
		}
		_, err := ValidateSchedule(tiers, false)
		assert.ErrorIs(t, err, constants.ErrInvalidTierSchedule)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		_, err := ValidateSchedule([]domain.RateTier{{Lower: 30, Upper: 10, Rate: 1}}, false)
		assert.ErrorIs(t, err, constants.ErrInvalidTierSchedule)
	})

	t.Run("gap", func(t *testing.T) {
		tiers := []domain.RateTier{
			{Lower: 0, Upper: 30, Rate: 1},
			{Lower: 41, Upper: 60, Rate: 2},
		}

		gaps, err := ValidateSchedule(tiers, false)
		require.NoError(t, err)
		assert.Equal(t, []Gap{{From: 31, To: 40}}, gaps)

		_, err = ValidateSchedule(tiers, true)
		assert.ErrorIs(t, err, constants.ErrInvalidTierSchedule)
	})
}
