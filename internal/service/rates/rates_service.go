package rates

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lankasolar/solarcalc/internal/calc"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/metrics"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
)

type Options struct {
	// RejectGaps refuses schedules that leave units uncovered between tiers.
	RejectGaps    bool
	ImportURL     string
	ImportRetries uint64
	HTTPClient    *http.Client
}

type Service struct {
	store store.RateStore
	opts  Options
}

func NewRatesService(store store.RateStore, opts Options) *Service {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Service{store: store, opts: opts}
}

func (s *Service) ListRateTiers(ctx context.Context, onlyActive bool) ([]*domain.RateTier, error) {
	tiers, err := s.store.ListRateTiers(ctx, store.ListRateTiersOpts{OnlyActive: onlyActive})
	if err != nil {
		return nil, fmt.Errorf("store.ListRateTiers: %w", err)
	}

	return tiers, nil
}

func (s *Service) GetRateTier(ctx context.Context, id int64) (*domain.RateTier, error) {
	tier, err := s.store.GetRateTier(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetRateTier: %w", err)
	}

	return tier, nil
}

func (s *Service) CreateRateTier(ctx context.Context, req *dto.RateTierRequest) (*domain.RateTier, error) {
	tier := fromRequest(req)
	tier.IsActive = req.IsActive == nil || *req.IsActive

	if tier.IsActive {
		if err := s.checkSchedule(ctx, 0, tier); err != nil {
			return nil, err
		}
	}

	created, err := s.store.CreateRateTier(ctx, tier)
	if err != nil {
		return nil, fmt.Errorf("store.CreateRateTier: %w", err)
	}

	return created, nil
}

func (s *Service) UpdateRateTier(ctx context.Context, id int64, req *dto.RateTierRequest) (*domain.RateTier, error) {
	current, err := s.store.GetRateTier(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetRateTier: %w", err)
	}

	tier := fromRequest(req)
	tier.ID = id
	tier.IsActive = current.IsActive
	if req.IsActive != nil {
		tier.IsActive = *req.IsActive
	}

	if tier.IsActive {
		if err := s.checkSchedule(ctx, id, tier); err != nil {
			return nil, err
		}
	}

	updated, err := s.store.UpdateRateTier(ctx, tier)
	if err != nil {
		return nil, fmt.Errorf("store.UpdateRateTier: %w", err)
	}

	return updated, nil
}

// DeactivateRateTier soft-deletes the tier.
func (s *Service) DeactivateRateTier(ctx context.Context, id int64) error {
	if err := s.store.SetRateTierActive(ctx, id, false); err != nil {
		return fmt.Errorf("store.SetRateTierActive: %w", err)
	}

	logger.Infof(ctx, "deactivated rate tier %d", id)
	return nil
}

// EstimateBill prices consumed units against the active tiers.
func (s *Service) EstimateBill(ctx context.Context, units float64) (*domain.Bill, error) {
	tiers, err := s.store.ListRateTiers(ctx, store.ListRateTiersOpts{OnlyActive: true})
	if err != nil {
		return nil, fmt.Errorf("store.ListRateTiers: %w", err)
	}

	bill, err := calc.ComputeBill(Deref(tiers), units)
	metrics.ObserveBill(err)
	if err != nil {
		return nil, fmt.Errorf("calc.ComputeBill: %w", err)
	}

	if bill.Uncharged > 0 {
		logger.Warnf(ctx, "%v units above the last rate tier were not charged", bill.Uncharged)
	}

	return bill, nil
}

// checkSchedule validates the active schedule as it would look after writing tier.
// skipID excludes the tier being replaced.
func (s *Service) checkSchedule(ctx context.Context, skipID int64, tier *domain.RateTier) error {
	active, err := s.store.ListRateTiers(ctx, store.ListRateTiersOpts{OnlyActive: true})
	if err != nil {
		return fmt.Errorf("store.ListRateTiers: %w", err)
	}

	schedule := make([]domain.RateTier, 0, len(active)+1)
	for _, t := range active {
		if skipID != 0 && t.ID == skipID {
			continue
		}
		schedule = append(schedule, *t)
	}
	schedule = append(schedule, *tier)

	return s.validate(ctx, schedule)
}

func (s *Service) validate(ctx context.Context, schedule []domain.RateTier) error {
	gaps, err := calc.ValidateSchedule(schedule, s.opts.RejectGaps)
	if err != nil {
		return err
	}
	for _, g := range gaps {
		logger.Warnf(ctx, "rate schedule leaves units %v-%v uncharged", g.From, g.To)
	}

	return nil
}

func fromRequest(req *dto.RateTierRequest) *domain.RateTier {
	tier := &domain.RateTier{
		Lower:       req.Lower,
		Upper:       req.Upper,
		Rate:        req.Rate,
		Unbounded:   req.Unbounded,
		Description: req.Description,
	}
	normalize(tier)
	return tier
}

func normalize(tier *domain.RateTier) {
	if tier.Unbounded && tier.Upper < tier.Lower {
		tier.Upper = domain.UnboundedUpper
	}
	if tier.Upper >= domain.UnboundedUpper {
		tier.Unbounded = true
	}
}

func Deref(tiers []*domain.RateTier) []domain.RateTier {
	res := make([]domain.RateTier, 0, len(tiers))
	for _, t := range tiers {
		res = append(res, *t)
	}
	return res
}
