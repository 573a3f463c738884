package domain

import (
	"time"

	"github.com/google/uuid"
)

type PeriodValues struct {
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

// Projection is the model output scaled to a concrete installation.
type Projection struct {
	PVOUT    PeriodValues `json:"pvout"`
	Energy   PeriodValues `json:"energy"`
	Earnings PeriodValues `json:"earnings"`
	RateMode string       `json:"rate_mode"`
}

// CoefficientSnapshot is the model exactly as it was used for a calculation.
type CoefficientSnapshot struct {
	SetID     int64   `json:"set_id"`
	Intercept float64 `json:"intercept"`
	Epsilon   float64 `json:"epsilon"`
	Terms     Terms   `json:"terms"`
}

// Calculation is an immutable audit entry of one estimate.
type Calculation struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Place        `json:"place"`
	PanelID      int64               `db:"panel_id" json:"panel_id"`
	PanelName    string              `db:"panel_name" json:"panel_name"`
	Area         float64             `db:"area_m2" json:"area_m2"`
	Coefficients CoefficientSnapshot `db:"coefficients" json:"coefficients"`
	Inputs       VariableValues      `db:"inputs" json:"inputs"`
	Result       Projection          `db:"result" json:"result"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
}

// Analytics is the singleton usage counter. Model fit statistics come from
// configuration and are not stored.
type Analytics struct {
	TotalCalculations   int64     `db:"total_calculations" json:"total_calculations"`
	MonthlyCalculations int64     `db:"monthly_calculations" json:"monthly_calculations"`
	Month               string    `db:"month" json:"month"`
	ActiveLocations     int64     `db:"active_locations" json:"active_locations"`
	ModelR2             float64   `db:"-" json:"model_r2"`
	ModelRMSE           float64   `db:"-" json:"model_rmse"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
