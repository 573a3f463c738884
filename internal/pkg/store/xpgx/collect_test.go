package xpgx

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Place struct {
	Province string `db:"province"`
	City     string `db:"city"`
}

type record struct {
	ID int64 `db:"id"`
	Place
	Name      string    `db:"name"`
	Ignored   string    `db:"-"`
	CreatedAt time.Time `db:"created_at"`
}

// memRows serves fixed values through pgx.Rows.
type memRows struct {
	columns []string
	values  [][]interface{}
	pos     int
	closed  bool
}

func (r *memRows) Close()                        { r.closed = true }
func (r *memRows) Err() error                    { return nil }
func (r *memRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *memRows) RawValues() [][]byte           { return nil }
func (r *memRows) Conn() *pgx.Conn               { return nil }

func (r *memRows) FieldDescriptions() []pgconn.FieldDescription {
	fields := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fields[i] = pgconn.FieldDescription{Name: c}
	}
	return fields
}

func (r *memRows) Next() bool {
	if r.closed || r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *memRows) Values() ([]interface{}, error) {
	return r.values[r.pos-1], nil
}

func (r *memRows) Scan(dest ...interface{}) error {
	if len(dest) == 1 {
		if scanner, ok := dest[0].(pgx.RowScanner); ok {
			return scanner.ScanRow(r)
		}
	}

	row := r.values[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("got %d targets for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

type memPool struct {
	Pool
	rows *memRows
}

func (p *memPool) Queryx(_ context.Context, _ squirrel.Sqlizer, fn func(rows pgx.Rows) error) error {
	return fn(p.rows)
}

func TestGet(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	pool := &memPool{rows: &memRows{
		columns: []string{"id", "province", "city", "name", "created_at"},
		values:  [][]interface{}{{int64(7), "Central", "Kandy", "station", created}},
	}}

	got, err := Get[record](context.Background(), pool, squirrel.Select("*"))
	require.NoError(t, err)

	assert.Equal(t, &record{
		ID:        7,
		Place:     Place{Province: "Central", City: "Kandy"},
		Name:      "station",
		CreatedAt: created,
	}, got)
	assert.True(t, pool.rows.closed)
}

func TestGetNoRows(t *testing.T) {
	pool := &memPool{rows: &memRows{columns: []string{"id"}}}

	_, err := Get[record](context.Background(), pool, squirrel.Select("*"))
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestGetUnknownColumn(t *testing.T) {
	pool := &memPool{rows: &memRows{
		columns: []string{"id", "elevation"},
		values:  [][]interface{}{{int64(1), 12.5}},
	}}

	_, err := Get[record](context.Background(), pool, squirrel.Select("*"))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	pool := &memPool{rows: &memRows{
		columns: []string{"id", "name"},
		values:  [][]interface{}{{int64(1), "a"}, {int64(2), "b"}},
	}}

	got, err := Select[record](context.Background(), pool, squirrel.Select("*"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.EqualValues(t, 2, got[1].ID)
}

func TestScalar(t *testing.T) {
	pool := &memPool{rows: &memRows{
		columns: []string{"count"},
		values:  [][]interface{}{{int64(3)}},
	}}

	got, err := Scalar[int64](context.Background(), pool, squirrel.Select("count(*)"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, got)
}
