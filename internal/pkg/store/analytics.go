package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

const analyticsID = 1

type AnalyticsStore interface {
	GetAnalytics(ctx context.Context, month string) (*domain.Analytics, error)
	IncrementCalculations(ctx context.Context, month string) error
}

var analyticsColumns = []string{"total_calculations", "monthly_calculations", "month", "updated_at"}

// GetAnalytics returns the usage counters, creating the row for month on first read.
func (s *store) GetAnalytics(ctx context.Context, month string) (*domain.Analytics, error) {
	insert := builder().Insert(tableAnalytics).
		Columns("id", "month").
		Values(analyticsID, month).
		Suffix("on conflict (id) do nothing")
	if _, err := s.pool.Execx(ctx, insert); err != nil {
		return nil, wrapErr(err)
	}

	query := builder().Select(analyticsColumns...).
		Column(sq.Alias(builder().Select("count(*)").From(tableLocations), "active_locations")).
		From(tableAnalytics).
		Where(sq.Eq{"id": analyticsID})

	selected, err := xpgx.Get[domain.Analytics](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

// IncrementCalculations bumps both counters; the monthly one restarts when month changes.
func (s *store) IncrementCalculations(ctx context.Context, month string) error {
	query := builder().Insert(tableAnalytics).
		Columns("id", "total_calculations", "monthly_calculations", "month").
		Values(analyticsID, 1, 1, month).
		Suffix(`
on conflict (id)
do update
set
	total_calculations = analytics.total_calculations + 1,
	monthly_calculations = case
		when analytics.month = excluded.month then analytics.monthly_calculations + 1
		else 1
	end,
	month = excluded.month,
	updated_at = now()`)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return wrapErr(err)
	}

	return nil
}
