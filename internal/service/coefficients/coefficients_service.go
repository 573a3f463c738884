package coefficients

import (
	"context"
	"fmt"
	"math"

	"github.com/lankasolar/solarcalc/internal/calc"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
)

type Store interface {
	store.CoefficientStore
	store.VariableStore
}

type Service struct {
	store          Store
	includeEpsilon bool
}

func NewCoefficientsService(store Store, includeEpsilon bool) *Service {
	return &Service{store: store, includeEpsilon: includeEpsilon}
}

// GetActiveCoefficientSet returns the active model reconciled against the current variable catalog.
func (s *Service) GetActiveCoefficientSet(ctx context.Context) (*domain.CoefficientSet, error) {
	set, err := s.store.GetActiveCoefficientSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.GetActiveCoefficientSet: %w", err)
	}

	variables, err := s.store.ListVariables(ctx, store.ListVariablesOpts{})
	if err != nil {
		return nil, fmt.Errorf("store.ListVariables: %w", err)
	}

	reconciled := calc.Reconcile(*set, derefVariables(variables))
	return &reconciled, nil
}

func (s *Service) GetCoefficientSet(ctx context.Context, id int64) (*domain.CoefficientSet, error) {
	set, err := s.store.GetCoefficientSet(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetCoefficientSet: %w", err)
	}

	return set, nil
}

func (s *Service) ListCoefficientSets(ctx context.Context) ([]*domain.CoefficientSet, error) {
	sets, err := s.store.ListCoefficientSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListCoefficientSets: %w", err)
	}

	return sets, nil
}

func (s *Service) CreateCoefficientSet(ctx context.Context, req *dto.CoefficientSetRequest) (*domain.CoefficientSet, error) {
	set, err := s.buildSet(ctx, req)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateCoefficientSet(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("store.CreateCoefficientSet: %w", err)
	}

	if req.Activate {
		if err := s.ActivateCoefficientSet(ctx, created.ID); err != nil {
			return nil, err
		}
		created.IsActive = true
	}

	return created, nil
}

func (s *Service) UpdateCoefficientSet(ctx context.Context, id int64, req *dto.CoefficientSetRequest) (*domain.CoefficientSet, error) {
	set, err := s.buildSet(ctx, req)
	if err != nil {
		return nil, err
	}
	set.ID = id

	updated, err := s.store.UpdateCoefficientSet(ctx, set)
	if err != nil {
		return nil, fmt.Errorf("store.UpdateCoefficientSet: %w", err)
	}

	if req.Activate && !updated.IsActive {
		if err := s.ActivateCoefficientSet(ctx, id); err != nil {
			return nil, err
		}
		updated.IsActive = true
	}

	return updated, nil
}

func (s *Service) ActivateCoefficientSet(ctx context.Context, id int64) error {
	if err := s.store.ActivateCoefficientSet(ctx, id); err != nil {
		return fmt.Errorf("store.ActivateCoefficientSet: %w", err)
	}

	logger.Infof(ctx, "activated coefficient set %d", id)
	return nil
}

// Evaluate runs the active model on the given values.
func (s *Service) Evaluate(ctx context.Context, values domain.VariableValues) (*dto.EvaluateResponse, error) {
	set, err := s.GetActiveCoefficientSet(ctx)
	if err != nil {
		return nil, err
	}

	pvout, err := calc.Evaluate(*set, values.Map(), calc.WithEpsilon(s.includeEpsilon))
	if err != nil {
		return nil, fmt.Errorf("calc.Evaluate: %w", err)
	}

	return &dto.EvaluateResponse{SetID: set.ID, PVOUT: pvout}, nil
}

func (s *Service) buildSet(ctx context.Context, req *dto.CoefficientSetRequest) (*domain.CoefficientSet, error) {
	variables, err := s.store.ListVariables(ctx, store.ListVariablesOpts{})
	if err != nil {
		return nil, fmt.Errorf("store.ListVariables: %w", err)
	}
	byID := make(map[int64]*domain.Variable, len(variables))
	for _, v := range variables {
		byID[v.ID] = v
	}

	set := &domain.CoefficientSet{
		Name:      req.Name,
		Intercept: *req.Intercept,
		Epsilon:   req.Epsilon,
		Terms:     make(domain.Terms, 0, len(req.Terms)),
	}
	if !finite(set.Intercept) || !finite(set.Epsilon) {
		return nil, fmt.Errorf("%w: intercept and epsilon must be finite", constants.ErrInvalidModel)
	}

	seen := make(map[int64]struct{}, len(req.Terms))
	for _, t := range req.Terms {
		v, ok := byID[t.VariableID]
		if !ok {
			return nil, fmt.Errorf("%w: variable %d", constants.ErrVariableNotFound, t.VariableID)
		}
		if _, dup := seen[t.VariableID]; dup {
			return nil, fmt.Errorf("%w: variable %d appears twice", constants.ErrInvalidModel, t.VariableID)
		}
		seen[t.VariableID] = struct{}{}

		if !finite(*t.Coefficient) {
			return nil, fmt.Errorf("%w: coefficient of variable %d is not finite", constants.ErrInvalidModel, t.VariableID)
		}

		set.Terms = append(set.Terms, domain.Term{
			VariableID:   v.ID,
			VariableName: v.Name,
			Coefficient:  *t.Coefficient,
		})
	}

	return set, nil
}

func derefVariables(variables []*domain.Variable) []domain.Variable {
	res := make([]domain.Variable, 0, len(variables))
	for _, v := range variables {
		res = append(res, *v)
	}
	return res
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
