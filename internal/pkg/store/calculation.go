package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

type CalculationStore interface {
	InsertCalculation(ctx context.Context, calc *domain.Calculation) error
	ListCalculations(ctx context.Context, limit int) ([]*domain.Calculation, error)
	GetCalculation(ctx context.Context, id uuid.UUID) (*domain.Calculation, error)
}

var calculationColumns = []string{
	"id", "province", "district", "city", "panel_id", "panel_name", "area_m2",
	"coefficients", "inputs", "result", "created_at",
}

func (s *store) InsertCalculation(ctx context.Context, calc *domain.Calculation) error {
	coefficients, err := toJSONB(calc.Coefficients)
	if err != nil {
		return fmt.Errorf("failed to marshal coefficients: %w", err)
	}
	inputs, err := toJSONB(calc.Inputs)
	if err != nil {
		return fmt.Errorf("failed to marshal inputs: %w", err)
	}
	result, err := toJSONB(calc.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := builder().Insert(tableCalculations).
		Columns(calculationColumns...).
		Values(
			calc.ID, calc.Province, calc.District, calc.City, calc.PanelID, calc.PanelName, calc.Area,
			coefficients, inputs, result, calc.CreatedAt,
		)

	if _, err := s.pool.Execx(ctx, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

// ListCalculations returns the most recent calculations first.
func (s *store) ListCalculations(ctx context.Context, limit int) ([]*domain.Calculation, error) {
	query := builder().Select(calculationColumns...).
		From(tableCalculations).
		OrderBy("created_at desc").
		Limit(uint64(limit))

	selected, err := xpgx.Select[domain.Calculation](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetCalculation(ctx context.Context, id uuid.UUID) (*domain.Calculation, error) {
	query := builder().Select(calculationColumns...).
		From(tableCalculations).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Get[domain.Calculation](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrCalculationNotFound)
	}

	return selected, nil
}
