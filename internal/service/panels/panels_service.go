package panels

import (
	"context"
	"fmt"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
)

type Service struct {
	store store.PanelStore
}

func NewPanelsService(store store.PanelStore) *Service {
	return &Service{store: store}
}

func (s *Service) ListPanels(ctx context.Context, technology string) ([]*domain.Panel, error) {
	opts := store.ListPanelsOpts{}
	if technology != "" {
		opts.Technology = &technology
	}

	panels, err := s.store.ListPanels(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListPanels: %w", err)
	}

	return panels, nil
}

func (s *Service) GetPanel(ctx context.Context, id int64) (*domain.Panel, error) {
	panel, err := s.store.GetPanel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetPanel: %w", err)
	}

	return panel, nil
}

func (s *Service) CreatePanel(ctx context.Context, req *dto.PanelRequest) (*domain.Panel, error) {
	panel, err := fromRequest(req)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreatePanel(ctx, panel)
	if err != nil {
		return nil, fmt.Errorf("store.CreatePanel: %w", err)
	}

	logger.Infof(ctx, "created panel %d %q", created.ID, created.Name)
	return created, nil
}

func (s *Service) UpdatePanel(ctx context.Context, id int64, req *dto.PanelRequest) (*domain.Panel, error) {
	panel, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	panel.ID = id

	updated, err := s.store.UpdatePanel(ctx, panel)
	if err != nil {
		return nil, fmt.Errorf("store.UpdatePanel: %w", err)
	}

	return updated, nil
}

func (s *Service) DeletePanel(ctx context.Context, id int64) error {
	if err := s.store.DeletePanel(ctx, id); err != nil {
		return fmt.Errorf("store.DeletePanel: %w", err)
	}

	return nil
}

func fromRequest(req *dto.PanelRequest) (*domain.Panel, error) {
	panel := &domain.Panel{
		Name:          req.Name,
		Manufacturer:  req.Manufacturer,
		Efficiency:    req.Efficiency,
		Technology:    req.Technology,
		Length:        req.Length,
		Width:         req.Width,
		Area:          req.Area,
		PowerRating:   req.PowerRating,
		PricePerWatt:  req.PricePerWatt,
		WarrantyYears: req.WarrantyYears,
	}

	if panel.Efficiency < 0 || panel.Efficiency > 100 {
		return nil, fmt.Errorf("%w: efficiency %v is outside [0, 100]", constants.ErrInvalidPanel, panel.Efficiency)
	}
	if !isTechnology(panel.Technology) {
		return nil, fmt.Errorf("%w: unknown technology %q", constants.ErrInvalidPanel, panel.Technology)
	}
	if panel.EffectiveArea() <= 0 {
		return nil, fmt.Errorf("%w: either area or both dimensions are required", constants.ErrInvalidPanel)
	}

	return panel, nil
}

func isTechnology(t string) bool {
	for _, known := range domain.Technologies {
		if t == known {
			return true
		}
	}
	return false
}
