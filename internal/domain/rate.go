package domain

import "time"

// UnboundedUpper is the sentinel upper bound that marks the top tier.
const UnboundedUpper = 999999

// RateTier is one band of a tiered electricity tariff. Bounds are inclusive units (kWh).
type RateTier struct {
	ID          int64     `db:"id" json:"id"`
	Lower       float64   `db:"lower_limit" json:"lower"`
	Upper       float64   `db:"upper_limit" json:"upper"`
	Rate        float64   `db:"rate" json:"rate"`
	Unbounded   bool      `db:"unbounded" json:"unbounded"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (t *RateTier) IsUnbounded() bool {
	return t.Unbounded || t.Upper >= UnboundedUpper
}

// BillLine is the charge for the units that fell into one tier.
type BillLine struct {
	Tier        int     `json:"tier"`
	Label       string  `json:"label"`
	Units       float64 `json:"units"`
	Rate        float64 `json:"rate"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description"`
}

type Bill struct {
	Units     float64    `json:"units"`
	Total     float64    `json:"total"`
	Breakdown []BillLine `json:"breakdown"`
	// Uncharged are units above the last configured tier.
	Uncharged float64 `json:"uncharged,omitempty"`
}
