package panels

import (
	"context"
	"testing"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/domain/dto"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelsLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewPanelsService(storetest.NewMemory())

	mono, err := svc.CreatePanel(ctx, &dto.PanelRequest{
		Name:        "Mono 450",
		Efficiency:  21.3,
		Technology:  domain.TechnologyMonocrystalline,
		Length:      2.1,
		Width:       1.05,
		PowerRating: 450,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.205, mono.EffectiveArea(), 1e-9)

	_, err = svc.CreatePanel(ctx, &dto.PanelRequest{Name: "Thin", Efficiency: 12, Technology: domain.TechnologyThinFilm, Area: 1.5})
	require.NoError(t, err)

	list, err := svc.ListPanels(ctx, domain.TechnologyThinFilm)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Thin", list[0].Name)

	list, err = svc.ListPanels(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	updated, err := svc.UpdatePanel(ctx, mono.ID, &dto.PanelRequest{Name: "Mono 460", Efficiency: 22, Technology: domain.TechnologyMonocrystalline, Area: 2.2})
	require.NoError(t, err)
	assert.Equal(t, "Mono 460", updated.Name)

	require.NoError(t, svc.DeletePanel(ctx, mono.ID))
	_, err = svc.GetPanel(ctx, mono.ID)
	assert.ErrorIs(t, err, constants.ErrPanelNotFound)
}

func TestPanelValidation(t *testing.T) {
	svc := NewPanelsService(storetest.NewMemory())

	tests := []struct {
		name string
		req  dto.PanelRequest
	}{
		{name: "efficiency above 100", req: dto.PanelRequest{Name: "x", Efficiency: 101, Technology: domain.TechnologyBifacial, Area: 1}},
		{name: "negative efficiency", req: dto.PanelRequest{Name: "x", Efficiency: -1, Technology: domain.TechnologyBifacial, Area: 1}},
		{name: "unknown technology", req: dto.PanelRequest{Name: "x", Efficiency: 20, Technology: "perovskite", Area: 1}},
		{name: "no area", req: dto.PanelRequest{Name: "x", Efficiency: 20, Technology: domain.TechnologyBifacial, Length: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.CreatePanel(context.Background(), &req)
			assert.ErrorIs(t, err, constants.ErrInvalidPanel)
			assert.ErrorIs(t, err, constants.ErrInvalidInput)
		})
	}
}
