package calculator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lankasolar/solarcalc/internal/calc"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/export"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/metrics"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

const (
	monthLayout         = "2006-01"
	defaultHistoryLimit = 50
)

type Store interface {
	store.CoefficientStore
	store.VariableStore
	store.LocationStore
	store.PanelStore
	store.RateStore
	store.CalculationStore
	store.AnalyticsStore
}

type Config struct {
	IncludeEpsilon  bool
	HistoryLimit    int
	DefaultRateMode string
}

type Service struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewCalculatorService(store Store, cfg Config) *Service {
	if cfg.DefaultRateMode == "" {
		cfg.DefaultRateMode = constants.RateModeFlat
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &Service{store: store, cfg: cfg, now: time.Now}
}

type references struct {
	set       *domain.CoefficientSet
	variables []*domain.Variable
	location  *domain.Location
	panel     *domain.Panel
	tiers     []*domain.RateTier
}

// Calculate estimates output and earnings for a panel installed at a place and records the result.
func (s *Service) Calculate(ctx context.Context, req *dto.CalculateRequest) (_ *domain.Calculation, err error) {
	start := time.Now()
	mode := req.RateMode
	if mode == "" {
		mode = s.cfg.DefaultRateMode
	}
	defer func() {
		metrics.ObserveCalculation(mode, err, time.Since(start))
	}()

	if mode != constants.RateModeFlat && mode != constants.RateModeTiered {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidRateMode, mode)
	}

	refs, err := s.loadReferences(ctx, req.Place.Normalize(), req.PanelID, mode)
	if err != nil {
		return nil, err
	}

	set := calc.Reconcile(*refs.set, derefVariables(refs.variables))
	values := refs.location.Values.Map()

	pvout, err := calc.Evaluate(set, values, calc.WithEpsilon(s.cfg.IncludeEpsilon))
	if err != nil {
		return nil, fmt.Errorf("calc.Evaluate: %w", err)
	}

	var rate calc.RateSource = calc.FlatRate(refs.location.ElectricityRate)
	if mode == constants.RateModeTiered {
		rate = calc.TieredRate(derefTiers(refs.tiers))
	}

	projection, err := calc.Project(pvout, *refs.panel, req.Area, rate)
	if err != nil {
		return nil, fmt.Errorf("calc.Project: %w", err)
	}

	now := s.now().UTC()
	record := &domain.Calculation{
		ID:           uuid.New(),
		Place:        refs.location.Place,
		PanelID:      refs.panel.ID,
		PanelName:    refs.panel.Name,
		Area:         req.Area,
		Coefficients: s.snapshot(set),
		Inputs:       usedInputs(set, values),
		Result:       *projection,
		CreatedAt:    now,
	}

	if err := s.store.InsertCalculation(ctx, record); err != nil {
		return nil, fmt.Errorf("store.InsertCalculation: %w", err)
	}

	if err := s.store.IncrementCalculations(ctx, now.Format(monthLayout)); err != nil {
		// the record is already stored, counters catch up on the next calculation
		logger.Errorf(ctx, "failed to increment analytics: %s", err)
	}

	logger.Infof(ctx, "calculation %s: %s/%s/%s panel %d pvout %.2f",
		record.ID, record.Province, record.District, record.City, record.PanelID, pvout)

	return record, nil
}

func (s *Service) loadReferences(ctx context.Context, place domain.Place, panelID int64, mode string) (*references, error) {
	refs := &references{}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		set, err := s.store.GetActiveCoefficientSet(egCtx)
		if err != nil {
			return fmt.Errorf("store.GetActiveCoefficientSet: %w", err)
		}
		refs.set = set
		return nil
	})
	eg.Go(func() error {
		variables, err := s.store.ListVariables(egCtx, store.ListVariablesOpts{})
		if err != nil {
			return fmt.Errorf("store.ListVariables: %w", err)
		}
		refs.variables = variables
		return nil
	})
	eg.Go(func() error {
		location, err := s.store.GetLocation(egCtx, place)
		if err != nil {
			return fmt.Errorf("store.GetLocation: %w", err)
		}
		refs.location = location
		return nil
	})
	eg.Go(func() error {
		panel, err := s.store.GetPanel(egCtx, panelID)
		if err != nil {
			return fmt.Errorf("store.GetPanel: %w", err)
		}
		refs.panel = panel
		return nil
	})
	if mode == constants.RateModeTiered {
		eg.Go(func() error {
			tiers, err := s.store.ListRateTiers(egCtx, store.ListRateTiersOpts{OnlyActive: true})
			if err != nil {
				return fmt.Errorf("store.ListRateTiers: %w", err)
			}
			refs.tiers = tiers
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return refs, nil
}

// snapshot records the model as applied; epsilon is zero when it was left out.
func (s *Service) snapshot(set domain.CoefficientSet) domain.CoefficientSnapshot {
	snap := domain.CoefficientSnapshot{
		SetID:     set.ID,
		Intercept: set.Intercept,
		Terms:     set.Terms,
	}
	if s.cfg.IncludeEpsilon {
		snap.Epsilon = set.Epsilon
	}
	return snap
}

// ListCalculations returns the most recent records first.
func (s *Service) ListCalculations(ctx context.Context, limit int) ([]*domain.Calculation, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}

	calculations, err := s.store.ListCalculations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("store.ListCalculations: %w", err)
	}

	return calculations, nil
}

func (s *Service) GetCalculation(ctx context.Context, id string) (*domain.Calculation, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: calculation id %q", constants.ErrInvalidInput, id)
	}

	calculation, err := s.store.GetCalculation(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("store.GetCalculation: %w", err)
	}

	return calculation, nil
}

func (s *Service) ExportXLSX(ctx context.Context, limit int) (data []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveExport(export.FormatXLSX, err, time.Since(start))
	}()

	calculations, err := s.ListCalculations(ctx, limit)
	if err != nil {
		return nil, err
	}

	data, err = export.BuildCalculationsXLSX(calculations)
	if err != nil {
		return nil, fmt.Errorf("export.BuildCalculationsXLSX: %w", err)
	}

	return data, nil
}

func (s *Service) ReportPDF(ctx context.Context, id string) (data []byte, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveExport(export.FormatPDF, err, time.Since(start))
	}()

	calculation, err := s.GetCalculation(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err = export.BuildCalculationPDF(calculation)
	if err != nil {
		return nil, fmt.Errorf("export.BuildCalculationPDF: %w", err)
	}

	return data, nil
}

// usedInputs keeps the location values of the variables the model actually read.
func usedInputs(set domain.CoefficientSet, values map[int64]float64) domain.VariableValues {
	res := make(domain.VariableValues, 0, len(set.Terms))
	for _, term := range set.Terms {
		if v, ok := values[term.VariableID]; ok {
			res = append(res, domain.VariableValue{VariableID: term.VariableID, Value: v})
		}
	}
	return res
}

func derefVariables(variables []*domain.Variable) []domain.Variable {
	res := make([]domain.Variable, 0, len(variables))
	for _, v := range variables {
		res = append(res, *v)
	}
	return res
}

func derefTiers(tiers []*domain.RateTier) []domain.RateTier {
	res := make([]domain.RateTier, 0, len(tiers))
	for _, t := range tiers {
		res = append(res, *t)
	}
	return res
}
