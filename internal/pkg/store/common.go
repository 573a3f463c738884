package store

import (
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
)

const (
	tableVariables       = "variables"
	tableCoefficientSets = "coefficient_sets"
	tableLocations       = "locations"
	tablePanels          = "solar_panels"
	tableRateTiers       = "rate_tiers"
	tableCalculations    = "calculations"
	tableAnalytics       = "analytics"
	tableMigrations      = "schema_migrations"
)

const pgUniqueViolation = "23505"

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return constants.ErrDBConflict
	}
	return err
}

// notFoundAs replaces the generic not-found error with a specific one.
func notFoundAs(err error, target error) error {
	err = wrapErr(err)
	if errors.Is(err, constants.ErrDBNotFound) {
		return target
	}
	return err
}

// conflictAs replaces the generic unique violation error with a specific one.
func conflictAs(err error, target error) error {
	err = wrapErr(err)
	if errors.Is(err, constants.ErrDBConflict) {
		return target
	}
	return err
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// builder returns a squirrel builder using $N placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func toJSONB(v interface{}) ([]byte, error) {
	return sonic.Marshal(v)
}
