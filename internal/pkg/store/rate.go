package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

type ListRateTiersOpts struct {
	OnlyActive bool
}

type RateStore interface {
	ListRateTiers(ctx context.Context, opts ListRateTiersOpts) ([]*domain.RateTier, error)
	GetRateTier(ctx context.Context, id int64) (*domain.RateTier, error)
	CreateRateTier(ctx context.Context, tier *domain.RateTier) (*domain.RateTier, error)
	UpdateRateTier(ctx context.Context, tier *domain.RateTier) (*domain.RateTier, error)
	SetRateTierActive(ctx context.Context, id int64, active bool) error
	// ReplaceRateTiers makes tiers the whole active schedule.
	ReplaceRateTiers(ctx context.Context, tiers []*domain.RateTier) error
}

var rateTierColumns = []string{"id", "lower_limit", "upper_limit", "rate", "unbounded", "description", "is_active", "created_at", "updated_at"}

// ListRateTiers returns tiers sorted by lower bound ascending.
func (s *store) ListRateTiers(ctx context.Context, opts ListRateTiersOpts) ([]*domain.RateTier, error) {
	query := builder().Select(rateTierColumns...).
		From(tableRateTiers).
		OrderBy("lower_limit", "upper_limit")

	if opts.OnlyActive {
		query = query.Where(sq.Eq{"is_active": true})
	}

	selected, err := xpgx.Select[domain.RateTier](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetRateTier(ctx context.Context, id int64) (*domain.RateTier, error) {
	query := builder().Select(rateTierColumns...).
		From(tableRateTiers).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Get[domain.RateTier](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrRateTierNotFound)
	}

	return selected, nil
}

func (s *store) CreateRateTier(ctx context.Context, tier *domain.RateTier) (*domain.RateTier, error) {
	query := builder().Insert(tableRateTiers).
		Columns("lower_limit", "upper_limit", "rate", "unbounded", "description", "is_active").
		Values(tier.Lower, tier.Upper, tier.Rate, tier.Unbounded, tier.Description, tier.IsActive).
		Suffix("returning " + joinColumns(rateTierColumns))

	created, err := xpgx.Get[domain.RateTier](ctx, s.pool, query)
	if err != nil {
		return nil, conflictAs(err, constants.ErrDuplicateRateTier)
	}

	return created, nil
}

func (s *store) UpdateRateTier(ctx context.Context, tier *domain.RateTier) (*domain.RateTier, error) {
	query := builder().Update(tableRateTiers).
		SetMap(map[string]interface{}{
			"lower_limit": tier.Lower,
			"upper_limit": tier.Upper,
			"rate":        tier.Rate,
			"unbounded":   tier.Unbounded,
			"description": tier.Description,
			"is_active":   tier.IsActive,
			"updated_at":  time.Now(),
		}).
		Where(sq.Eq{"id": tier.ID}).
		Suffix("returning " + joinColumns(rateTierColumns))

	updated, err := xpgx.Get[domain.RateTier](ctx, s.pool, query)
	if err != nil {
		return nil, conflictAs(notFoundAs(err, constants.ErrRateTierNotFound), constants.ErrDuplicateRateTier)
	}

	return updated, nil
}

func (s *store) SetRateTierActive(ctx context.Context, id int64, active bool) error {
	query := builder().Update(tableRateTiers).
		Set("is_active", active).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrRateTierNotFound
	}

	return nil
}

// ReplaceRateTiers deactivates every active tier and upserts tiers as active
// in one transaction. Tiers with the same bounds keep their id.
func (s *store) ReplaceRateTiers(ctx context.Context, tiers []*domain.RateTier) error {
	if len(tiers) == 0 {
		return nil
	}

	deactivate := builder().Update(tableRateTiers).
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"is_active": true})

	upsert := builder().Insert(tableRateTiers).
		Columns("lower_limit", "upper_limit", "rate", "unbounded", "description", "is_active")

	for _, t := range tiers {
		upsert = upsert.Values(t.Lower, t.Upper, t.Rate, t.Unbounded, t.Description, true)
	}

	upsert = upsert.Suffix(`
on conflict (lower_limit, upper_limit)
do update
set
	rate = excluded.rate,
	unbounded = excluded.unbounded,
	description = excluded.description,
	is_active = true,
	updated_at = now()`)

	return s.pool.InTx(ctx, func(tx Pool) error {
		if _, err := tx.Execx(ctx, deactivate); err != nil {
			return wrapErr(err)
		}
		if _, err := tx.Execx(ctx, upsert); err != nil {
			return wrapErr(err)
		}
		return nil
	})
}
