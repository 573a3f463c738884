package xpgx

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// Get scans the first row into a T by column name, matching `db` tags and
// flattening embedded structs. No rows is pgx.ErrNoRows.
func Get[T any](ctx context.Context, p Pool, query squirrel.Sqlizer) (*T, error) {
	res := new(T)
	err := p.Queryx(ctx, query, func(rows pgx.Rows) error {
		row, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
		if err != nil {
			return err
		}
		res = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Select scans every row into a T the same way Get does.
func Select[T any](ctx context.Context, p Pool, query squirrel.Sqlizer) ([]*T, error) {
	var res []*T
	err := p.Queryx(ctx, query, func(rows pgx.Rows) error {
		collected, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
		if err != nil {
			return err
		}
		res = collected
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Scalar reads the single column of the first row, e.g. a count.
func Scalar[T any](ctx context.Context, p Pool, query squirrel.Sqlizer) (T, error) {
	var res T
	err := p.Queryx(ctx, query, func(rows pgx.Rows) error {
		value, err := pgx.CollectOneRow(rows, pgx.RowTo[T])
		if err != nil {
			return err
		}
		res = value
		return nil
	})

	return res, err
}
