package calc

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/shopspring/decimal"
)

// ComputeBill charges units against the tiers in ascending order of lower bound.
// A bounded tier holds upper-lower+1 units; an unbounded tier takes whatever remains.
// Units are counted from 1, so a tier starting at 0 holds upper units.
// Units that fall into a gap between tiers, or above the last bounded tier, are not charged.
func ComputeBill(tiers []domain.RateTier, units float64) (*domain.Bill, error) {
	if len(tiers) == 0 {
		return nil, constants.ErrNoRatesConfigured
	}
	if !(units > 0) || math.IsInf(units, 0) {
		return nil, fmt.Errorf("%w: got %v", constants.ErrInvalidUnits, units)
	}

	sorted := sortTiers(tiers)

	remaining := decimal.NewFromFloat(units)
	total := decimal.Zero
	bill := &domain.Bill{
		Units:     units,
		Breakdown: make([]domain.BillLine, 0, len(sorted)),
	}

	for i, tier := range sorted {
		if !remaining.IsPositive() {
			break
		}

		inTier := remaining
		if !tier.IsUnbounded() {
			inTier = decimal.Min(remaining, tierCapacity(tier))
		}
		if !inTier.IsPositive() {
			continue
		}

		rate := decimal.NewFromFloat(tier.Rate)
		cost := inTier.Mul(rate)
		total = total.Add(cost)

		bill.Breakdown = append(bill.Breakdown, domain.BillLine{
			Tier:        i + 1,
			Label:       TierLabel(tier),
			Units:       inTier.InexactFloat64(),
			Rate:        tier.Rate,
			Cost:        cost.InexactFloat64(),
			Description: tier.Description,
		})

		remaining = remaining.Sub(inTier)
	}

	bill.Total = total.InexactFloat64()
	if remaining.IsPositive() {
		bill.Uncharged = remaining.InexactFloat64()
	}

	return bill, nil
}

func tierCapacity(t domain.RateTier) decimal.Decimal {
	lower := math.Max(t.Lower, 1)
	return decimal.NewFromFloat(t.Upper).
		Sub(decimal.NewFromFloat(lower)).
		Add(decimal.NewFromInt(1))
}

// TierLabel renders the range of a tier, e.g. "0-30" or "91+".
func TierLabel(t domain.RateTier) string {
	if t.IsUnbounded() {
		return formatUnits(t.Lower) + "+"
	}
	return formatUnits(t.Lower) + "-" + formatUnits(t.Upper)
}

// Gap is a range of units no tier covers.
type Gap struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// ValidateSchedule checks that tiers form non-overlapping inclusive intervals.
// Gaps are reported, and rejected only when rejectGaps is set.
func ValidateSchedule(tiers []domain.RateTier, rejectGaps bool) ([]Gap, error) {
	sorted := sortTiers(tiers)

	var gaps []Gap
	for i, t := range sorted {
		if t.Lower < 0 || t.Rate < 0 || !isFinite(t.Rate) {
			return nil, fmt.Errorf("%w: tier %s has negative bound or rate", constants.ErrInvalidTierSchedule, TierLabel(t))
		}
		if !t.IsUnbounded() && t.Upper < t.Lower {
			return nil, fmt.Errorf("%w: tier %s has upper bound below lower bound", constants.ErrInvalidTierSchedule, TierLabel(t))
		}
		if i == 0 {
			continue
		}

		prev := sorted[i-1]
		if prev.IsUnbounded() || t.Lower <= prev.Upper {
			return nil, fmt.Errorf("%w: tiers %s and %s overlap", constants.ErrInvalidTierSchedule, TierLabel(prev), TierLabel(t))
		}
		if t.Lower > prev.Upper+1 {
			gap := Gap{From: prev.Upper + 1, To: t.Lower - 1}
			if rejectGaps {
				return nil, fmt.Errorf("%w: units %s-%s are not covered", constants.ErrInvalidTierSchedule, formatUnits(gap.From), formatUnits(gap.To))
			}
			gaps = append(gaps, gap)
		}
	}

	return gaps, nil
}

func sortTiers(tiers []domain.RateTier) []domain.RateTier {
	sorted := make([]domain.RateTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Lower < sorted[j].Lower
	})
	return sorted
}

func formatUnits(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
