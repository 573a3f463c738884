package domain

import "time"

// Variable is a named physical quantity the output model is evaluated on.
type Variable struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Unit         string    `db:"unit" json:"unit"`
	Description  string    `db:"description" json:"description"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// VariableValue is the magnitude of one variable at a location.
type VariableValue struct {
	VariableID int64   `json:"variable_id" validate:"required,gt=0"`
	Value      float64 `json:"value"`
}

type VariableValues []VariableValue

func (vv VariableValues) Map() map[int64]float64 {
	res := make(map[int64]float64, len(vv))
	for _, v := range vv {
		res[v.VariableID] = v.Value
	}
	return res
}
