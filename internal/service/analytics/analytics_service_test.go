package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAnalytics(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	_, err := mem.UpsertLocation(ctx, &domain.Location{Place: domain.Place{Province: "Central", District: "Kandy", City: "Kandy"}})
	require.NoError(t, err)

	svc := NewAnalyticsService(mem, ModelStats{R2: 0.91, RMSE: 12.5})
	svc.now = func() time.Time { return time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC) }

	got, err := svc.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-02", got.Month)
	assert.Equal(t, 0.91, got.ModelR2)
	assert.Equal(t, 12.5, got.ModelRMSE)
	assert.EqualValues(t, 1, got.ActiveLocations)
	assert.Zero(t, got.TotalCalculations)

	require.NoError(t, mem.IncrementCalculations(ctx, "2024-02"))
	require.NoError(t, mem.IncrementCalculations(ctx, "2024-03"))

	got, err = svc.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.TotalCalculations)
	assert.EqualValues(t, 1, got.MonthlyCalculations)
	assert.Equal(t, "2024-03", got.Month)
}

func TestGetAnalyticsAfterFirstCalculation(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()

	// the counter row is created by the calculation, not by a read
	require.NoError(t, mem.IncrementCalculations(ctx, "2024-02"))

	svc := NewAnalyticsService(mem, ModelStats{R2: 0.91, RMSE: 12.5})
	svc.now = func() time.Time { return time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC) }

	got, err := svc.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.91, got.ModelR2)
	assert.Equal(t, 12.5, got.ModelRMSE)
	assert.EqualValues(t, 1, got.TotalCalculations)

	t.Run("reports the current configuration", func(t *testing.T) {
		svc := NewAnalyticsService(mem, ModelStats{R2: 0.95, RMSE: 9})

		got, err := svc.GetAnalytics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0.95, got.ModelR2)
		assert.Equal(t, 9.0, got.ModelRMSE)
	})
}
