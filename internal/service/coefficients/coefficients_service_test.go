package coefficients

import (
	"context"
	"math"
	"testing"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(f float64) *float64 { return &f }

func setup(t *testing.T) (*storetest.Memory, *domain.Variable, *domain.Variable) {
	t.Helper()
	mem := storetest.NewMemory()
	ghi, err := mem.CreateVariable(context.Background(), &domain.Variable{Name: "GHI", DisplayOrder: 1, IsActive: true})
	require.NoError(t, err)
	temp, err := mem.CreateVariable(context.Background(), &domain.Variable{Name: "Temp", DisplayOrder: 2, IsActive: true})
	require.NoError(t, err)
	return mem, ghi, temp
}

func TestCreateAndActivate(t *testing.T) {
	ctx := context.Background()
	mem, ghi, temp := setup(t)
	svc := NewCoefficientsService(mem, true)

	_, err := svc.GetActiveCoefficientSet(ctx)
	assert.ErrorIs(t, err, constants.ErrModelNotConfigured)

	first, err := svc.CreateCoefficientSet(ctx, &dto.CoefficientSetRequest{
		Name:      "2023 fit",
		Intercept: float(100),
		Epsilon:   5,
		Terms: []dto.TermRequest{
			{VariableID: ghi.ID, Coefficient: float(0.5)},
			{VariableID: temp.ID, Coefficient: float(-2)},
		},
		Activate: true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, "GHI", first.Terms[0].VariableName)

	second, err := svc.CreateCoefficientSet(ctx, &dto.CoefficientSetRequest{Intercept: float(1)})
	require.NoError(t, err)
	assert.False(t, second.IsActive)

	require.NoError(t, svc.ActivateCoefficientSet(ctx, second.ID))

	active, err := svc.GetActiveCoefficientSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	previous, err := svc.GetCoefficientSet(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, previous.IsActive)

	sets, err := svc.ListCoefficientSets(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, 2)
}

func TestGetActiveCoefficientSetIsReconciled(t *testing.T) {
	ctx := context.Background()
	mem, ghi, temp := setup(t)
	svc := NewCoefficientsService(mem, true)

	_, err := svc.CreateCoefficientSet(ctx, &dto.CoefficientSetRequest{
		Intercept: float(100),
		Terms:     []dto.TermRequest{{VariableID: ghi.ID, Coefficient: float(0.5)}},
		Activate:  true,
	})
	require.NoError(t, err)

	active, err := svc.GetActiveCoefficientSet(ctx)
	require.NoError(t, err)
	require.Len(t, active.Terms, 2)
	assert.Equal(t, domain.Term{VariableID: temp.ID, VariableName: "Temp", Coefficient: 0}, active.Terms[1])
}

func TestBuildSetValidation(t *testing.T) {
	ctx := context.Background()
	mem, ghi, _ := setup(t)
	svc := NewCoefficientsService(mem, true)

	tests := []struct {
		name string
		req  *dto.CoefficientSetRequest
		want error
	}{
		{
			name: "unknown variable",
			req:  &dto.CoefficientSetRequest{Intercept: float(0), Terms: []dto.TermRequest{{VariableID: 99, Coefficient: float(1)}}},
			want: constants.ErrVariableNotFound,
		},
		{
			name: "duplicate variable",
			req: &dto.CoefficientSetRequest{Intercept: float(0), Terms: []dto.TermRequest{
				{VariableID: ghi.ID, Coefficient: float(1)},
				{VariableID: ghi.ID, Coefficient: float(2)},
			}},
			want: constants.ErrInvalidModel,
		},
		{
			name: "infinite intercept",
			req:  &dto.CoefficientSetRequest{Intercept: float(math.Inf(1))},
			want: constants.ErrInvalidModel,
		},
		{
			name: "nan coefficient",
			req:  &dto.CoefficientSetRequest{Intercept: float(0), Terms: []dto.TermRequest{{VariableID: ghi.ID, Coefficient: float(math.NaN())}}},
			want: constants.ErrInvalidModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCoefficientSet(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateCoefficientSet(t *testing.T) {
	ctx := context.Background()
	mem, ghi, _ := setup(t)
	svc := NewCoefficientsService(mem, true)

	created, err := svc.CreateCoefficientSet(ctx, &dto.CoefficientSetRequest{Intercept: float(1)})
	require.NoError(t, err)

	updated, err := svc.UpdateCoefficientSet(ctx, created.ID, &dto.CoefficientSetRequest{
		Intercept: float(2),
		Terms:     []dto.TermRequest{{VariableID: ghi.ID, Coefficient: float(3)}},
		Activate:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.Intercept)
	assert.True(t, updated.IsActive)

	_, err = svc.UpdateCoefficientSet(ctx, 999, &dto.CoefficientSetRequest{Intercept: float(2)})
	assert.ErrorIs(t, err, constants.ErrCoefficientSetNotFound)
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	mem, ghi, temp := setup(t)

	_, err := NewCoefficientsService(mem, true).CreateCoefficientSet(ctx, &dto.CoefficientSetRequest{
		Intercept: float(100),
		Epsilon:   10,
		Terms: []dto.TermRequest{
			{VariableID: ghi.ID, Coefficient: float(0.5)},
			{VariableID: temp.ID, Coefficient: float(-2)},
		},
		Activate: true,
	})
	require.NoError(t, err)

	values := domain.VariableValues{{VariableID: ghi.ID, Value: 2000}, {VariableID: temp.ID, Value: 30}}

	res, err := NewCoefficientsService(mem, true).Evaluate(ctx, values)
	require.NoError(t, err)
	assert.InDelta(t, 1050.0, res.PVOUT, 1e-9)

	res, err = NewCoefficientsService(mem, false).Evaluate(ctx, values)
	require.NoError(t, err)
	assert.InDelta(t, 1040.0, res.PVOUT, 1e-9)

	// missing values contribute nothing
	res, err = NewCoefficientsService(mem, true).Evaluate(ctx, nil)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, res.PVOUT, 1e-9)
}
