package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

type ListLocationsOpts struct {
	Province *string
	District *string
}

type LocationStore interface {
	ListLocations(ctx context.Context, opts ListLocationsOpts) ([]*domain.Location, error)
	GetLocation(ctx context.Context, place domain.Place) (*domain.Location, error)
	UpsertLocation(ctx context.Context, location *domain.Location) (*domain.Location, error)
	DeleteLocation(ctx context.Context, id int64) error
	CountLocations(ctx context.Context) (int64, error)
}

var locationColumns = []string{"id", "province", "district", "city", "variable_values", "electricity_rate", "created_at", "updated_at"}

func (s *store) ListLocations(ctx context.Context, opts ListLocationsOpts) ([]*domain.Location, error) {
	query := builder().Select(locationColumns...).
		From(tableLocations).
		OrderBy("province", "district", "city")

	if opts.Province != nil {
		query = query.Where(sq.Eq{"province": *opts.Province})
	}
	if opts.District != nil {
		query = query.Where(sq.Eq{"district": *opts.District})
	}

	selected, err := xpgx.Select[domain.Location](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) GetLocation(ctx context.Context, place domain.Place) (*domain.Location, error) {
	query := builder().Select(locationColumns...).
		From(tableLocations).
		Where(sq.Eq{
			"province": place.Province,
			"district": place.District,
			"city":     place.City,
		})

	selected, err := xpgx.Get[domain.Location](ctx, s.pool, query)
	if err != nil {
		return nil, notFoundAs(err, constants.ErrLocationNotFound)
	}

	return selected, nil
}

// UpsertLocation inserts the location or replaces values and rate of the existing place.
func (s *store) UpsertLocation(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	values, err := toJSONB(location.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal variable values: %w", err)
	}

	query := builder().Insert(tableLocations).
		Columns("province", "district", "city", "variable_values", "electricity_rate").
		Values(location.Province, location.District, location.City, values, location.ElectricityRate).
		Suffix(`
on conflict (province, district, city)
do update
set
	variable_values = excluded.variable_values,
	electricity_rate = excluded.electricity_rate,
	updated_at = now()
returning ` + joinColumns(locationColumns))

	upserted, err := xpgx.Get[domain.Location](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return upserted, nil
}

func (s *store) DeleteLocation(ctx context.Context, id int64) error {
	tag, err := s.pool.Execx(ctx, builder().Delete(tableLocations).Where(sq.Eq{"id": id}))
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrLocationNotFound
	}

	return nil
}

func (s *store) CountLocations(ctx context.Context) (int64, error) {
	count, err := xpgx.Scalar[int64](ctx, s.pool, builder().Select("count(*)").From(tableLocations))
	if err != nil {
		return 0, wrapErr(err)
	}

	return count, nil
}
