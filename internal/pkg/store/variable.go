package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

type ListVariablesOpts struct {
	OnlyActive bool
}

type VariableStore interface {
	ListVariables(ctx context.Context, opts ListVariablesOpts) ([]*domain.Variable, error)
	GetVariable(ctx context.Context, id int64) (*domain.Variable, error)
	CreateVariable(ctx context.Context, variable *domain.Variable) (*domain.Variable, error)
	UpdateVariable(ctx context.Context, variable *domain.Variable) (*domain.Variable, error)
	SetVariableActive(ctx context.Context, id int64, active bool) error
}

var variableColumns = []string{"id", "name", "unit", "description", "display_order", "is_active", "created_at", "updated_at"}

func (s *store) ListVariables(ctx context.Context, opts ListVariablesOpts) ([]*domain.Variable, error) {
	query := builder().Select(variableColumns...).
		From(tableVariables).
		OrderBy("display_order", "id")

	if opts.OnlyActive {
		query = query.Where(sq.Eq{"is_active": true})
	}

	selected, err := xpgx.Select[domain.Variable](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetVariable(ctx context.Context, id int64) (*domain.Variable, error) {
	query := builder().Select(variableColumns...).
		From(tableVariables).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Get[domain.Variable](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrVariableNotFound)
	}

	return selected, nil
}

func (s *store) CreateVariable(ctx context.Context, variable *domain.Variable) (*domain.Variable, error) {
	query := builder().Insert(tableVariables).
		Columns("name", "unit", "description", "display_order", "is_active").
		Values(variable.Name, variable.Unit, variable.Description, variable.DisplayOrder, variable.IsActive).
		Suffix("returning " + joinColumns(variableColumns))

	created, err := xpgx.Get[domain.Variable](ctx, s.pool, query)
	if err != nil {
		return nil, conflictAs(err, constants.ErrDuplicateVariable)
	}

	return created, nil
}

func (s *store) UpdateVariable(ctx context.Context, variable *domain.Variable) (*domain.Variable, error) {
	query := builder().Update(tableVariables).
		SetMap(map[string]interface{}{
			"name":          variable.Name,
			"unit":          variable.Unit,
			"description":   variable.Description,
			"display_order": variable.DisplayOrder,
			"is_active":     variable.IsActive,
			"updated_at":    time.Now(),
		}).
		Where(sq.Eq{"id": variable.ID}).
		Suffix("returning " + joinColumns(variableColumns))

	updated, err := xpgx.Get[domain.Variable](ctx, s.pool, query)
	if err != nil {
		return nil, conflictAs(notFoundAs(err, constants.ErrVariableNotFound), constants.ErrDuplicateVariable)
	}

	return updated, nil
}

func (s *store) SetVariableActive(ctx context.Context, id int64, active bool) error {
	query := builder().Update(tableVariables).
		Set("is_active", active).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrVariableNotFound
	}

	return nil
}
