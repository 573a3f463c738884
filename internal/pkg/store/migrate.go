package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/store/xpgx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations that are not recorded in schema_migrations yet.
func Migrate(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, `create table if not exists `+tableMigrations+` (
    version    text primary key,
    applied_at timestamptz not null default now()
)`); err != nil {
		return fmt.Errorf("create %s: %w", tableMigrations, err)
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		query := builder().Select("count(*) > 0").
			From(tableMigrations).
			Where(sq.Eq{"version": name})
		applied, err := xpgx.Scalar[bool](ctx, pool, query)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return err
		}

		err = pool.InTx(ctx, func(tx Pool) error {
			if _, err := tx.Exec(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.Execx(ctx, builder().Insert(tableMigrations).Columns("version").Values(name))
			return err
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		logger.Infof(ctx, "applied migration %s", name)
	}

	return nil
}
