package locations

import (
	"context"
	"math"
	"testing"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
	"github.com/lankasolar/solarcalc/internal/pkg/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertLocation(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	ghi, err := mem.CreateVariable(ctx, &domain.Variable{Name: "GHI", IsActive: true})
	require.NoError(t, err)
	svc := NewLocationsService(mem)

	created, err := svc.UpsertLocation(ctx, &dto.LocationRequest{
		Place:           domain.Place{Province: " Western ", District: "Colombo", City: "Dehiwala"},
		Values:          []domain.VariableValue{{VariableID: ghi.ID, Value: 1900}},
		ElectricityRate: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, "Western", created.Province)

	replaced, err := svc.UpsertLocation(ctx, &dto.LocationRequest{
		Place:  domain.Place{Province: "Western", District: "Colombo", City: "Dehiwala"},
		Values: []domain.VariableValue{{VariableID: ghi.ID, Value: 2000}},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, replaced.ID)

	got, err := svc.GetLocation(ctx, domain.Place{Province: "Western", District: "Colombo ", City: "Dehiwala"})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.Values[0].Value)

	_, err = svc.GetLocation(ctx, domain.Place{Province: "Western", District: "Colombo", City: "Moratuwa"})
	assert.ErrorIs(t, err, constants.ErrLocationNotFound)
}

func TestUpsertLocationValidation(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	ghi, err := mem.CreateVariable(ctx, &domain.Variable{Name: "GHI", IsActive: true})
	require.NoError(t, err)
	svc := NewLocationsService(mem)
	place := domain.Place{Province: "Central", District: "Kandy", City: "Kandy"}

	_, err = svc.UpsertLocation(ctx, &dto.LocationRequest{Place: place, Values: []domain.VariableValue{{VariableID: 7, Value: 1}}})
	assert.ErrorIs(t, err, constants.ErrVariableNotFound)

	_, err = svc.UpsertLocation(ctx, &dto.LocationRequest{Place: place, Values: []domain.VariableValue{
		{VariableID: ghi.ID, Value: 1},
		{VariableID: ghi.ID, Value: 2},
	}})
	assert.ErrorIs(t, err, constants.ErrInvalidInput)

	_, err = svc.UpsertLocation(ctx, &dto.LocationRequest{Place: place, Values: []domain.VariableValue{{VariableID: ghi.ID, Value: math.NaN()}}})
	assert.ErrorIs(t, err, constants.ErrInvalidInput)
}

func TestListPlacesAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewLocationsService(storetest.NewMemory())

	places := []domain.Place{
		{Province: "Western", District: "Colombo", City: "Dehiwala"},
		{Province: "Western", District: "Colombo", City: "Moratuwa"},
		{Province: "Western", District: "Gampaha", City: "Negombo"},
		{Province: "Southern", District: "Galle", City: "Galle"},
	}
	var last *domain.Location
	for _, p := range places {
		l, err := svc.UpsertLocation(ctx, &dto.LocationRequest{Place: p})
		require.NoError(t, err)
		last = l
	}

	tree, err := svc.ListPlaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dehiwala", "Moratuwa"}, tree["Western"]["Colombo"])
	assert.Equal(t, []string{"Galle"}, tree["Southern"]["Galle"])

	western := "Western"
	list, err := svc.ListLocations(ctx, store.ListLocationsOpts{Province: &western})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, svc.DeleteLocation(ctx, last.ID))
	assert.ErrorIs(t, svc.DeleteLocation(ctx, last.ID), constants.ErrNotFound)
}
