package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statement struct {
	sql  string
	args []interface{}
}

// recordingPool captures generated SQL instead of talking to postgres.
type recordingPool struct {
	statements []statement
	inTx       bool
	getErr     error
	tag        pgconn.CommandTag
}

func (p *recordingPool) record(query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}
	p.statements = append(p.statements, statement{sql, args})
	return nil
}

func (p *recordingPool) Queryx(_ context.Context, query squirrel.Sqlizer, _ func(rows pgx.Rows) error) error {
	if err := p.record(query); err != nil {
		return err
	}
	return p.getErr
}

func (p *recordingPool) Execx(_ context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	return p.tag, p.record(query)
}

func (p *recordingPool) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	p.statements = append(p.statements, statement{sql, args})
	return p.tag, nil
}

func (p *recordingPool) InTx(_ context.Context, fn func(tx Pool) error) error {
	p.inTx = true
	return fn(p)
}

func (p *recordingPool) Close() {}

func TestWrapErr(t *testing.T) {
	assert.Nil(t, wrapErr(nil))
	assert.ErrorIs(t, wrapErr(fmt.Errorf("select: %w", pgx.ErrNoRows)), constants.ErrDBNotFound)
	assert.ErrorIs(t, wrapErr(&pgconn.PgError{Code: "23505"}), constants.ErrDBConflict)

	other := errors.New("boom")
	assert.Equal(t, other, wrapErr(other))

	assert.ErrorIs(t, notFoundAs(pgx.ErrNoRows, constants.ErrPanelNotFound), constants.ErrPanelNotFound)
	assert.ErrorIs(t, conflictAs(&pgconn.PgError{Code: "23505"}, constants.ErrDuplicateRateTier), constants.ErrDuplicateRateTier)
}

func TestUpsertLocationQuery(t *testing.T) {
	pool := &recordingPool{}
	s := NewStore(pool)

	_, err := s.UpsertLocation(context.Background(), &domain.Location{
		Place:           domain.Place{Province: "Western", District: "Colombo", City: "Dehiwala"},
		Values:          domain.VariableValues{{VariableID: 1, Value: 5.4}},
		ElectricityRate: 32,
	})
	require.NoError(t, err)

	require.Len(t, pool.statements, 1)
	stmt := pool.statements[0]
	assert.Contains(t, stmt.sql, "INSERT INTO locations (province,district,city,variable_values,electricity_rate) VALUES ($1,$2,$3,$4,$5)")
	assert.Contains(t, stmt.sql, "on conflict (province, district, city)")
	assert.Equal(t, "Western", stmt.args[0])
	assert.JSONEq(t, `[{"variable_id":1,"value":5.4}]`, string(stmt.args[3].([]byte)))
}

func TestGetPanelNotFound(t *testing.T) {
	pool := &recordingPool{getErr: pgx.ErrNoRows}
	s := NewStore(pool)

	_, err := s.GetPanel(context.Background(), 42)
	assert.ErrorIs(t, err, constants.ErrPanelNotFound)
	assert.Contains(t, pool.statements[0].sql, "FROM solar_panels WHERE id = $1")
}

func TestActivateCoefficientSet(t *testing.T) {
	t.Run("runs in a transaction", func(t *testing.T) {
		pool := &recordingPool{tag: pgconn.NewCommandTag("UPDATE 1")}
		s := NewStore(pool)

		require.NoError(t, s.ActivateCoefficientSet(context.Background(), 3))
		assert.True(t, pool.inTx)
		require.Len(t, pool.statements, 2)
		assert.Contains(t, pool.statements[0].sql, "SET is_active = $1")
		assert.Contains(t, pool.statements[0].sql, "id <> $")
		assert.Contains(t, pool.statements[1].sql, "WHERE id = $3")
	})

	t.Run("unknown set", func(t *testing.T) {
		pool := &recordingPool{tag: pgconn.NewCommandTag("UPDATE 0")}
		s := NewStore(pool)

		err := s.ActivateCoefficientSet(context.Background(), 3)
		assert.ErrorIs(t, err, constants.ErrCoefficientSetNotFound)
	})
}

func TestListCalculationsQuery(t *testing.T) {
	pool := &recordingPool{}
	s := NewStore(pool)

	_, err := s.ListCalculations(context.Background(), 25)
	require.NoError(t, err)
	assert.Contains(t, pool.statements[0].sql, "ORDER BY created_at desc LIMIT 25")
}

func TestGetAnalyticsQuery(t *testing.T) {
	pool := &recordingPool{}
	s := NewStore(pool)

	_, err := s.GetAnalytics(context.Background(), "2024-02")
	require.NoError(t, err)

	require.Len(t, pool.statements, 2)
	assert.Contains(t, pool.statements[0].sql, "INSERT INTO analytics (id,month) VALUES ($1,$2) on conflict (id) do nothing")
	assert.Equal(t, []interface{}{analyticsID, "2024-02"}, pool.statements[0].args)
	assert.NotContains(t, pool.statements[1].sql, "model_r2")
	assert.Contains(t, pool.statements[1].sql, "AS active_locations")
}

func TestReplaceRateTiers(t *testing.T) {
	pool := &recordingPool{}
	s := NewStore(pool)

	err := s.ReplaceRateTiers(context.Background(), []*domain.RateTier{
		{Lower: 0, Upper: 30, Rate: 6},
		{Lower: 31, Upper: domain.UnboundedUpper, Rate: 9, Unbounded: true},
	})
	require.NoError(t, err)

	assert.True(t, pool.inTx)
	require.Len(t, pool.statements, 2)
	assert.Contains(t, pool.statements[0].sql, "UPDATE rate_tiers SET is_active = $1, updated_at = $2 WHERE is_active = $3")
	assert.Equal(t, false, pool.statements[0].args[0])
	assert.Contains(t, pool.statements[1].sql, "INSERT INTO rate_tiers (lower_limit,upper_limit,rate,unbounded,description,is_active) VALUES ($1,$2,$3,$4,$5,$6),($7,$8,$9,$10,$11,$12)")
	assert.Contains(t, pool.statements[1].sql, "on conflict (lower_limit, upper_limit)")

	t.Run("nothing to import", func(t *testing.T) {
		pool := &recordingPool{}
		require.NoError(t, NewStore(pool).ReplaceRateTiers(context.Background(), nil))
		assert.Empty(t, pool.statements)
	})
}
