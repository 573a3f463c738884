package dto

import "github.com/lankasolar/solarcalc/internal/domain"

type VariableRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Unit         string `json:"unit" validate:"max=30"`
	Description  string `json:"description" validate:"max=500"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     *bool  `json:"is_active"`
}

type TermRequest struct {
	VariableID  int64    `json:"variable_id" validate:"required,gt=0"`
	Coefficient *float64 `json:"coefficient" validate:"required"`
}

type CoefficientSetRequest struct {
	Name      string        `json:"name" validate:"max=100"`
	Intercept *float64      `json:"intercept" validate:"required"`
	Epsilon   float64       `json:"epsilon"`
	Terms     []TermRequest `json:"terms" validate:"dive"`
	Activate  bool          `json:"activate"`
}

type LocationRequest struct {
	domain.Place
	Values          []domain.VariableValue `json:"values" validate:"dive"`
	ElectricityRate float64                `json:"electricity_rate" validate:"gte=0"`
}

type PanelRequest struct {
	Name          string  `json:"name" validate:"required,max=150"`
	Manufacturer  string  `json:"manufacturer" validate:"max=150"`
	Efficiency    float64 `json:"efficiency" validate:"gte=0,lte=100"`
	Technology    string  `json:"technology" validate:"required,oneof=monocrystalline polycrystalline thin-film bifacial"`
	Length        float64 `json:"length_m" validate:"gte=0"`
	Width         float64 `json:"width_m" validate:"gte=0"`
	Area          float64 `json:"area_m2" validate:"gte=0"`
	PowerRating   float64 `json:"power_rating_w" validate:"gte=0"`
	PricePerWatt  float64 `json:"price_per_watt" validate:"gte=0"`
	WarrantyYears int     `json:"warranty_years" validate:"gte=0"`
}

type RateTierRequest struct {
	Lower       float64 `json:"lower" validate:"gte=0"`
	Upper       float64 `json:"upper" validate:"gte=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	Unbounded   bool    `json:"unbounded"`
	Description string  `json:"description" validate:"max=200"`
	IsActive    *bool   `json:"is_active"`
}

type RateImportRequest struct {
	URL string `json:"url" validate:"omitempty,url"`
}

type CalculateRequest struct {
	domain.Place
	PanelID  int64   `json:"panel_id" validate:"required,gt=0"`
	Area     float64 `json:"area" validate:"required,gt=0"`
	RateMode string  `json:"rate_mode" validate:"omitempty,oneof=flat tiered"`
}

type BillRequest struct {
	Units float64 `json:"units" validate:"required,gt=0"`
}

type EvaluateRequest struct {
	Values []domain.VariableValue `json:"values" validate:"dive"`
}

type EvaluateResponse struct {
	SetID int64   `json:"set_id"`
	PVOUT float64 `json:"pvout"`
}

type AdminLoginRequest struct {
	Secret string `json:"secret" validate:"required"`
}

type ListCalculationsRequest struct {
	Limit int `query:"limit" validate:"gte=0"`
}
