// Package xpgx adds squirrel-aware helpers on top of pgxpool.
package xpgx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
)

// Pool runs squirrel queries. Rows are collected with Get, Select and Scalar.
type Pool interface {
	// Queryx runs query and hands the rows to fn. Rows are closed afterwards.
	Queryx(ctx context.Context, query squirrel.Sqlizer, fn func(rows pgx.Rows) error) error
	Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// InTx runs fn inside a transaction. Nested calls reuse the outer transaction.
	InTx(ctx context.Context, fn func(tx Pool) error) error
	Close()
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type pool struct {
	q  querier
	db *pgxpool.Pool
	tx pgx.Tx
}

type ConnectOpts struct {
	DSN      string
	MaxConns int32
	Retries  uint64
}

// Connect opens a pool and pings the database, retrying with exponential backoff.
func Connect(ctx context.Context, opts ConnectOpts) (Pool, error) {
	cfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	db, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	err = backoff.RetryNotify(
		func() error {
			return db.Ping(ctx)
		},
		backoff.WithContext(backoff.WithMaxRetries(b, opts.Retries), ctx),
		func(err error, next time.Duration) {
			logger.Warnf(ctx, "postgres is not ready, retrying in %s: %s", next, err.Error())
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &pool{q: db, db: db}, nil
}

func (p *pool) Close() {
	if p.db != nil && p.tx == nil {
		p.db.Close()
	}
}

func (p *pool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return p.q.Exec(ctx, sql, args...)
}

func (p *pool) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.q.Exec(ctx, sql, args...)
}

func (p *pool) Queryx(ctx context.Context, query squirrel.Sqlizer, fn func(rows pgx.Rows) error) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}

	rows, err := p.q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	return fn(rows)
}

func (p *pool) InTx(ctx context.Context, fn func(tx Pool) error) (err error) {
	if p.tx != nil {
		return fn(p)
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				logger.Errorf(ctx, "rollback: %s", rbErr.Error())
			}
		}
	}()

	if err = fn(&pool{q: tx, db: p.db, tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
