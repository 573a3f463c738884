package store

import (
	"context"

	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	VariableStore
	CoefficientStore
	LocationStore
	PanelStore
	RateStore
	CalculationStore
	AnalyticsStore

	// InTx runs fn against a store bound to one transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}

func (s *store) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.pool.InTx(ctx, func(tx xpgx.Pool) error {
		return fn(&store{tx})
	})
}
