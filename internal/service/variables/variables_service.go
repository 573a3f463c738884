package variables

import (
	"context"
	"fmt"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
)

type Service struct {
	store store.VariableStore
}

func NewVariablesService(store store.VariableStore) *Service {
	return &Service{store: store}
}

func (s *Service) ListVariables(ctx context.Context, onlyActive bool) ([]*domain.Variable, error) {
	variables, err := s.store.ListVariables(ctx, store.ListVariablesOpts{OnlyActive: onlyActive})
	if err != nil {
		return nil, fmt.Errorf("store.ListVariables: %w", err)
	}

	return variables, nil
}

func (s *Service) GetVariable(ctx context.Context, id int64) (*domain.Variable, error) {
	variable, err := s.store.GetVariable(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetVariable: %w", err)
	}

	return variable, nil
}

func (s *Service) CreateVariable(ctx context.Context, req *dto.VariableRequest) (*domain.Variable, error) {
	variable := &domain.Variable{
		Name:         req.Name,
		Unit:         req.Unit,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}

	created, err := s.store.CreateVariable(ctx, variable)
	if err != nil {
		return nil, fmt.Errorf("store.CreateVariable: %w", err)
	}

	logger.Infof(ctx, "created variable %d %q", created.ID, created.Name)
	return created, nil
}

func (s *Service) UpdateVariable(ctx context.Context, id int64, req *dto.VariableRequest) (*domain.Variable, error) {
	current, err := s.store.GetVariable(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetVariable: %w", err)
	}

	current.Name = req.Name
	current.Unit = req.Unit
	current.Description = req.Description
	current.DisplayOrder = req.DisplayOrder
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	updated, err := s.store.UpdateVariable(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("store.UpdateVariable: %w", err)
	}

	return updated, nil
}

// DeactivateVariable hides the variable from new models. Historical calculations keep referencing it.
func (s *Service) DeactivateVariable(ctx context.Context, id int64) error {
	if err := s.store.SetVariableActive(ctx, id, false); err != nil {
		return fmt.Errorf("store.SetVariableActive: %w", err)
	}

	logger.Infof(ctx, "deactivated variable %d", id)
	return nil
}
