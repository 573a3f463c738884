package domain

import (
	"strings"
	"time"
)

// Place identifies a location. The triple is unique.
type Place struct {
	Province string `db:"province" json:"province" query:"province" validate:"required"`
	District string `db:"district" json:"district" query:"district" validate:"required"`
	City     string `db:"city" json:"city" query:"city" validate:"required"`
}

// Normalize trims surrounding whitespace from every part.
func (p Place) Normalize() Place {
	return Place{
		Province: strings.TrimSpace(p.Province),
		District: strings.TrimSpace(p.District),
		City:     strings.TrimSpace(p.City),
	}
}

// Location is the per-place snapshot of model inputs.
type Location struct {
	ID int64 `db:"id" json:"id"`
	Place
	Values          VariableValues `db:"variable_values" json:"values"`
	ElectricityRate float64        `db:"electricity_rate" json:"electricity_rate"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}
