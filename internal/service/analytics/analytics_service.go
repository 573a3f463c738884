package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
)

// ModelStats are the fit statistics of the configured regression, reported as-is.
type ModelStats struct {
	R2   float64
	RMSE float64
}

type Service struct {
	store store.AnalyticsStore
	stats ModelStats
	now   func() time.Time
}

func NewAnalyticsService(store store.AnalyticsStore, stats ModelStats) *Service {
	return &Service{store: store, stats: stats, now: time.Now}
}

// GetAnalytics returns the usage snapshot, creating it on first use, with the
// configured model statistics.
func (s *Service) GetAnalytics(ctx context.Context) (*domain.Analytics, error) {
	analytics, err := s.store.GetAnalytics(ctx, s.now().UTC().Format("2006-01"))
	if err != nil {
		return nil, fmt.Errorf("store.GetAnalytics: %w", err)
	}

	analytics.ModelR2 = s.stats.R2
	analytics.ModelRMSE = s.stats.RMSE

	return analytics, nil
}
