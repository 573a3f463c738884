package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

type CoefficientStore interface {
	GetActiveCoefficientSet(ctx context.Context) (*domain.CoefficientSet, error)
	GetCoefficientSet(ctx context.Context, id int64) (*domain.CoefficientSet, error)
	ListCoefficientSets(ctx context.Context) ([]*domain.CoefficientSet, error)
	CreateCoefficientSet(ctx context.Context, set *domain.CoefficientSet) (*domain.CoefficientSet, error)
	UpdateCoefficientSet(ctx context.Context, set *domain.CoefficientSet) (*domain.CoefficientSet, error)
	ActivateCoefficientSet(ctx context.Context, id int64) error
}

var coefficientSetColumns = []string{"id", "name", "intercept", "epsilon", "terms", "is_active", "created_at", "updated_at"}

func (s *store) GetActiveCoefficientSet(ctx context.Context) (*domain.CoefficientSet, error) {
	query := builder().Select(coefficientSetColumns...).
		From(tableCoefficientSets).
		Where(sq.Eq{"is_active": true})

	selected, err := xpgx.Get[domain.CoefficientSet](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrModelNotConfigured)
	}

	return selected, nil
}

func (s *store) GetCoefficientSet(ctx context.Context, id int64) (*domain.CoefficientSet, error) {
	query := builder().Select(coefficientSetColumns...).
		From(tableCoefficientSets).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Get[domain.CoefficientSet](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrCoefficientSetNotFound)
	}

	return selected, nil
}

func (s *store) ListCoefficientSets(ctx context.Context) ([]*domain.CoefficientSet, error) {
	query := builder().Select(coefficientSetColumns...).
		From(tableCoefficientSets).
		OrderBy("is_active desc", "updated_at desc")

	selected, err := xpgx.Select[domain.CoefficientSet](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

// CreateCoefficientSet inserts the set inactive; use ActivateCoefficientSet to switch models.
func (s *store) CreateCoefficientSet(ctx context.Context, set *domain.CoefficientSet) (*domain.CoefficientSet, error) {
	terms, err := toJSONB(set.Terms)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal terms: %w", err)
	}

	query := builder().Insert(tableCoefficientSets).
		Columns("name", "intercept", "epsilon", "terms").
		Values(set.Name, set.Intercept, set.Epsilon, terms).
		Suffix("returning " + joinColumns(coefficientSetColumns))

	created, err := xpgx.Get[domain.CoefficientSet](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) UpdateCoefficientSet(ctx context.Context, set *domain.CoefficientSet) (*domain.CoefficientSet, error) {
	terms, err := toJSONB(set.Terms)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal terms: %w", err)
	}

	query := builder().Update(tableCoefficientSets).
		SetMap(map[string]interface{}{
			"name":       set.Name,
			"intercept":  set.Intercept,
			"epsilon":    set.Epsilon,
			"terms":      terms,
			"updated_at": time.Now(),
		}).
		Where(sq.Eq{"id": set.ID}).
		Suffix("returning " + joinColumns(coefficientSetColumns))

	updated, err := xpgx.Get[domain.CoefficientSet](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrCoefficientSetNotFound)
	}

	return updated, nil
}

// ActivateCoefficientSet makes id the only active set.
func (s *store) ActivateCoefficientSet(ctx context.Context, id int64) error {
	return s.pool.InTx(ctx, func(tx Pool) error {
		deactivate := builder().Update(tableCoefficientSets).
			Set("is_active", false).
			Set("updated_at", time.Now()).
			Where(sq.And{sq.Eq{"is_active": true}, sq.NotEq{"id": id}})
		if _, err := tx.Execx(ctx, deactivate); err != nil {
			return wrapErr(err)
		}

		activate := builder().Update(tableCoefficientSets).
			Set("is_active", true).
			Set("updated_at", time.Now()).
			Where(sq.Eq{"id": id})
		tag, err := tx.Execx(ctx, activate)
		if err != nil {
			return wrapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return constants.ErrCoefficientSetNotFound
		}

		return nil
	})
}
