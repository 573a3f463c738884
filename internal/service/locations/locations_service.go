package locations

import (
	"context"
	"fmt"
	"math"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
)

type Store interface {
	store.LocationStore
	store.VariableStore
}

type Service struct {
	store Store
}

func NewLocationsService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListLocations(ctx context.Context, opts store.ListLocationsOpts) ([]*domain.Location, error) {
	locations, err := s.store.ListLocations(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListLocations: %w", err)
	}

	return locations, nil
}

// ListPlaces groups cities by province and district for the calculator's cascading selects.
func (s *Service) ListPlaces(ctx context.Context) (map[string]map[string][]string, error) {
	locations, err := s.store.ListLocations(ctx, store.ListLocationsOpts{})
	if err != nil {
		return nil, fmt.Errorf("store.ListLocations: %w", err)
	}

	res := make(map[string]map[string][]string)
	for _, l := range locations {
		if _, ok := res[l.Province]; !ok {
			res[l.Province] = make(map[string][]string)
		}
		res[l.Province][l.District] = append(res[l.Province][l.District], l.City)
	}

	return res, nil
}

func (s *Service) GetLocation(ctx context.Context, place domain.Place) (*domain.Location, error) {
	location, err := s.store.GetLocation(ctx, place.Normalize())
	if err != nil {
		return nil, fmt.Errorf("store.GetLocation: %w", err)
	}

	return location, nil
}

// UpsertLocation stores the values of a place, replacing the previous snapshot.
func (s *Service) UpsertLocation(ctx context.Context, req *dto.LocationRequest) (*domain.Location, error) {
	variables, err := s.store.ListVariables(ctx, store.ListVariablesOpts{})
	if err != nil {
		return nil, fmt.Errorf("store.ListVariables: %w", err)
	}
	known := make(map[int64]struct{}, len(variables))
	for _, v := range variables {
		known[v.ID] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(req.Values))
	for _, v := range req.Values {
		if _, ok := known[v.VariableID]; !ok {
			return nil, fmt.Errorf("%w: variable %d", constants.ErrVariableNotFound, v.VariableID)
		}
		if _, dup := seen[v.VariableID]; dup {
			return nil, fmt.Errorf("%w: variable %d has two values", constants.ErrInvalidInput, v.VariableID)
		}
		seen[v.VariableID] = struct{}{}

		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			return nil, fmt.Errorf("%w: value of variable %d is not finite", constants.ErrInvalidInput, v.VariableID)
		}
	}

	location := &domain.Location{
		Place:           req.Place.Normalize(),
		Values:          req.Values,
		ElectricityRate: req.ElectricityRate,
	}
	if location.Values == nil {
		location.Values = domain.VariableValues{}
	}

	upserted, err := s.store.UpsertLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("store.UpsertLocation: %w", err)
	}

	return upserted, nil
}

func (s *Service) DeleteLocation(ctx context.Context, id int64) error {
	if err := s.store.DeleteLocation(ctx, id); err != nil {
		return fmt.Errorf("store.DeleteLocation: %w", err)
	}

	return nil
}
