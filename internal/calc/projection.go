package calc

import (
	"fmt"
	"math"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/shopspring/decimal"
)

const (
	daysPerYear   = 365
	monthsPerYear = 12
)

// RateSource turns an amount of energy into money.
type RateSource interface {
	Mode() string
	Earnings(energy float64) (float64, error)
}

// FlatRate charges every kWh at the same price.
type FlatRate float64

func (r FlatRate) Mode() string {
	return constants.RateModeFlat
}

func (r FlatRate) Earnings(energy float64) (float64, error) {
	if !isFinite(float64(r)) || r < 0 {
		return 0, fmt.Errorf("%w: flat rate %v", constants.ErrInvalidInput, float64(r))
	}
	if !isFinite(energy) {
		return 0, fmt.Errorf("%w: energy %v", constants.ErrInvalidInput, energy)
	}
	return decimal.NewFromFloat(energy).Mul(decimal.NewFromFloat(float64(r))).InexactFloat64(), nil
}

// TieredRate prices energy as a bill over the tariff tiers.
type TieredRate []domain.RateTier

func (r TieredRate) Mode() string {
	return constants.RateModeTiered
}

func (r TieredRate) Earnings(energy float64) (float64, error) {
	if len(r) == 0 {
		return 0, constants.ErrNoRatesConfigured
	}
	if energy == 0 {
		return 0, nil
	}

	bill, err := ComputeBill(r, energy)
	if err != nil {
		return 0, err
	}
	return bill.Total, nil
}

// Project scales annual PVOUT (per m² per year) to an installation of area m²
// with the panel's efficiency, and prices each period with rate.
func Project(annualOutput float64, panel domain.Panel, area float64, rate RateSource) (*domain.Projection, error) {
	if !isFinite(annualOutput) || annualOutput < 0 {
		return nil, fmt.Errorf("%w: got %v", constants.ErrInvalidOutput, annualOutput)
	}
	if !isFinite(panel.Efficiency) || panel.Efficiency < 0 || panel.Efficiency > 100 {
		return nil, fmt.Errorf("%w: efficiency %v is outside [0, 100]", constants.ErrInvalidPanel, panel.Efficiency)
	}
	if !(area > 0) || math.IsInf(area, 0) {
		return nil, fmt.Errorf("%w: got %v", constants.ErrInvalidArea, area)
	}
	if rate == nil {
		return nil, constants.ErrNoRatesConfigured
	}

	annual := decimal.NewFromFloat(annualOutput)
	factor := decimal.NewFromFloat(area).
		Mul(decimal.NewFromFloat(panel.Efficiency)).
		Div(decimal.NewFromInt(100))

	pvout := periods(annual)
	energy := periods(annual.Mul(factor))

	var (
		earnings domain.PeriodValues
		err      error
	)
	if earnings.Daily, err = rate.Earnings(energy.Daily); err != nil {
		return nil, fmt.Errorf("daily earnings: %w", err)
	}
	if earnings.Monthly, err = rate.Earnings(energy.Monthly); err != nil {
		return nil, fmt.Errorf("monthly earnings: %w", err)
	}
	if earnings.Annual, err = rate.Earnings(energy.Annual); err != nil {
		return nil, fmt.Errorf("annual earnings: %w", err)
	}

	return &domain.Projection{
		PVOUT:    pvout,
		Energy:   energy,
		Earnings: earnings,
		RateMode: rate.Mode(),
	}, nil
}

// periods splits an annual amount into daily and monthly shares.
func periods(annual decimal.Decimal) domain.PeriodValues {
	return domain.PeriodValues{
		Daily:   annual.Div(decimal.NewFromInt(daysPerYear)).InexactFloat64(),
		Monthly: annual.Div(decimal.NewFromInt(monthsPerYear)).InexactFloat64(),
		Annual:  annual.InexactFloat64(),
	}
}
