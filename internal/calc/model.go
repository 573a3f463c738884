// Package calc holds the estimator arithmetic: the linear PVOUT model,
// the tiered tariff bill and the financial projection. Everything here is
// pure; callers hand in snapshots of reference data and get new values back.
package calc

import (
	"fmt"
	"math"
	"sort"

	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
)

type evalOptions struct {
	includeEpsilon bool
}

type EvalOption func(*evalOptions)

// WithEpsilon controls whether the error term is added to the result. It is added by default.
func WithEpsilon(include bool) EvalOption {
	return func(o *evalOptions) {
		o.includeEpsilon = include
	}
}

// Evaluate computes intercept + Σ coefficient × value (+ epsilon).
// Variables without a value contribute nothing.
func Evaluate(set domain.CoefficientSet, values map[int64]float64, opts ...EvalOption) (float64, error) {
	o := evalOptions{includeEpsilon: true}
	for _, opt := range opts {
		opt(&o)
	}

	if !isFinite(set.Intercept) {
		return 0, fmt.Errorf("%w: intercept is not finite", constants.ErrInvalidModel)
	}
	if !isFinite(set.Epsilon) {
		return 0, fmt.Errorf("%w: epsilon is not finite", constants.ErrInvalidModel)
	}
	for id, v := range values {
		if !isFinite(v) {
			return 0, fmt.Errorf("%w: value of variable %d is not finite", constants.ErrInvalidModel, id)
		}
	}

	result := set.Intercept
	seen := make(map[int64]struct{}, len(set.Terms))
	for _, term := range set.Terms {
		if _, ok := seen[term.VariableID]; ok {
			return 0, fmt.Errorf("%w: variable %d appears twice", constants.ErrInvalidModel, term.VariableID)
		}
		seen[term.VariableID] = struct{}{}

		if !isFinite(term.Coefficient) {
			return 0, fmt.Errorf("%w: coefficient of variable %d is not finite", constants.ErrInvalidModel, term.VariableID)
		}

		result += term.Coefficient * values[term.VariableID]
	}

	if o.includeEpsilon {
		result += set.Epsilon
	}

	return result, nil
}

// Reconcile returns a copy of set whose terms match the active variables,
// ordered by display order. Known coefficients are kept, new variables start
// at zero and terms of inactive or removed variables are dropped.
func Reconcile(set domain.CoefficientSet, variables []domain.Variable) domain.CoefficientSet {
	existing := make(map[int64]float64, len(set.Terms))
	for _, term := range set.Terms {
		existing[term.VariableID] = term.Coefficient
	}

	active := make([]domain.Variable, 0, len(variables))
	for _, v := range variables {
		if v.IsActive {
			active = append(active, v)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].DisplayOrder != active[j].DisplayOrder {
			return active[i].DisplayOrder < active[j].DisplayOrder
		}
		return active[i].ID < active[j].ID
	})

	terms := make(domain.Terms, 0, len(active))
	for _, v := range active {
		terms = append(terms, domain.Term{
			VariableID:   v.ID,
			VariableName: v.Name,
			Coefficient:  existing[v.ID],
		})
	}

	res := set
	res.Terms = terms
	return res
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
