package domain

import "time"

type Technology = string

const (
	TechnologyMonocrystalline Technology = "monocrystalline"
	TechnologyPolycrystalline Technology = "polycrystalline"
	TechnologyThinFilm        Technology = "thin-film"
	TechnologyBifacial        Technology = "bifacial"
)

var Technologies = []Technology{
	TechnologyMonocrystalline,
	TechnologyPolycrystalline,
	TechnologyThinFilm,
	TechnologyBifacial,
}

// Panel is a solar panel catalog entry. Dimensions are in metres,
// efficiency in percent.
type Panel struct {
	ID            int64      `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Manufacturer  string     `db:"manufacturer" json:"manufacturer"`
	Efficiency    float64    `db:"efficiency" json:"efficiency"`
	Technology    Technology `db:"technology" json:"technology"`
	Length        float64    `db:"length_m" json:"length_m"`
	Width         float64    `db:"width_m" json:"width_m"`
	Area          float64    `db:"area_m2" json:"area_m2"`
	PowerRating   float64    `db:"power_rating_w" json:"power_rating_w"`
	PricePerWatt  float64    `db:"price_per_watt" json:"price_per_watt"`
	WarrantyYears int        `db:"warranty_years" json:"warranty_years"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// EffectiveArea is the explicit area when set, otherwise length × width.
func (p *Panel) EffectiveArea() float64 {
	if p.Area > 0 {
		return p.Area
	}
	return p.Length * p.Width
}
