package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

type ListPanelsOpts struct {
	Technology *string
}

type PanelStore interface {
	ListPanels(ctx context.Context, opts ListPanelsOpts) ([]*domain.Panel, error)
	GetPanel(ctx context.Context, id int64) (*domain.Panel, error)
	CreatePanel(ctx context.Context, panel *domain.Panel) (*domain.Panel, error)
	UpdatePanel(ctx context.Context, panel *domain.Panel) (*domain.Panel, error)
	DeletePanel(ctx context.Context, id int64) error
}

var panelColumns = []string{
	"id", "name", "manufacturer", "efficiency", "technology", "length_m", "width_m", "area_m2",
	"power_rating_w", "price_per_watt", "warranty_years", "created_at", "updated_at",
}

func panelValues(p *domain.Panel) map[string]interface{} {
	return map[string]interface{}{
		"name":           p.Name,
		"manufacturer":   p.Manufacturer,
		"efficiency":     p.Efficiency,
		"technology":     p.Technology,
		"length_m":       p.Length,
		"width_m":        p.Width,
		"area_m2":        p.Area,
		"power_rating_w": p.PowerRating,
		"price_per_watt": p.PricePerWatt,
		"warranty_years": p.WarrantyYears,
	}
}

func (s *store) ListPanels(ctx context.Context, opts ListPanelsOpts) ([]*domain.Panel, error) {
	query := builder().Select(panelColumns...).
		From(tablePanels).
		OrderBy("manufacturer", "name")

	if opts.Technology != nil {
		query = query.Where(sq.Eq{"technology": *opts.Technology})
	}

	selected, err := xpgx.Select[domain.Panel](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetPanel(ctx context.Context, id int64) (*domain.Panel, error) {
	query := builder().Select(panelColumns...).
		From(tablePanels).
		Where(sq.Eq{"id": id})

	selected, err := xpgx.Get[domain.Panel](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrPanelNotFound)
	}

	return selected, nil
}

func (s *store) CreatePanel(ctx context.Context, panel *domain.Panel) (*domain.Panel, error) {
	query := builder().Insert(tablePanels).
		SetMap(panelValues(panel)).
		Suffix("returning " + joinColumns(panelColumns))

	created, err := xpgx.Get[domain.Panel](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return created, nil
}

func (s *store) UpdatePanel(ctx context.Context, panel *domain.Panel) (*domain.Panel, error) {
	values := panelValues(panel)
	values["updated_at"] = time.Now()

	query := builder().Update(tablePanels).
		SetMap(values).
		Where(sq.Eq{"id": panel.ID}).
		Suffix("returning " + joinColumns(panelColumns))

	updated, err := xpgx.Get[domain.Panel](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrPanelNotFound)
	}

	return updated, nil
}

func (s *store) DeletePanel(ctx context.Context, id int64) error {
	tag, err := s.pool.Execx(ctx, builder().Delete(tablePanels).Where(sq.Eq{"id": id}))
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrPanelNotFound
	}

	return nil
}
