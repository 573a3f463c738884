package domain

import "time"

// Term is one (variable, coefficient) row of the linear model.
type Term struct {
	VariableID   int64   `json:"variable_id"`
	VariableName string  `json:"variable_name,omitempty"`
	Coefficient  float64 `json:"coefficient"`
}

type Terms []Term

// CoefficientSet is the administrator-configured linear model:
// intercept + Σ coefficient × value + epsilon.
type CoefficientSet struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Intercept float64   `db:"intercept" json:"intercept"`
	Epsilon   float64   `db:"epsilon" json:"epsilon"`
	Terms     Terms     `db:"terms" json:"terms"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
