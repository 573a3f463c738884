// Package seed loads reference data (variables, panels, tariff, locations, model) from YAML.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/lankasolar/solarcalc/internal/calc"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/logger"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
	"gopkg.in/yaml.v3"
)

type Variable struct {
	Name         string `yaml:"name"`
	Unit         string `yaml:"unit"`
	Description  string `yaml:"description"`
	DisplayOrder int    `yaml:"display_order"`
}

type Panel struct {
	Name          string  `yaml:"name"`
	Manufacturer  string  `yaml:"manufacturer"`
	Efficiency    float64 `yaml:"efficiency"`
	Technology    string  `yaml:"technology"`
	Length        float64 `yaml:"length_m"`
	Width         float64 `yaml:"width_m"`
	Area          float64 `yaml:"area_m2"`
	PowerRating   float64 `yaml:"power_rating_w"`
	PricePerWatt  float64 `yaml:"price_per_watt"`
	WarrantyYears int     `yaml:"warranty_years"`
}

type RateTier struct {
	Lower       float64 `yaml:"lower"`
	Upper       float64 `yaml:"upper"`
	Rate        float64 `yaml:"rate"`
	Unbounded   bool    `yaml:"unbounded"`
	Description string  `yaml:"description"`
}

// Location values are keyed by variable name.
type Location struct {
	Province        string             `yaml:"province"`
	District        string             `yaml:"district"`
	City            string             `yaml:"city"`
	ElectricityRate float64            `yaml:"electricity_rate"`
	Values          map[string]float64 `yaml:"values"`
}

type CoefficientSet struct {
	Name         string             `yaml:"name"`
	Intercept    float64            `yaml:"intercept"`
	Epsilon      float64            `yaml:"epsilon"`
	Coefficients map[string]float64 `yaml:"coefficients"`
}

type File struct {
	Variables      []Variable      `yaml:"variables"`
	Panels         []Panel         `yaml:"panels"`
	RateTiers      []RateTier      `yaml:"rate_tiers"`
	Locations      []Location      `yaml:"locations"`
	CoefficientSet *CoefficientSet `yaml:"coefficient_set"`
}

type Summary struct {
	Variables      int
	Panels         int
	RateTiers      int
	Locations      int
	CoefficientSet int64
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	file := &File{}
	if err := dec.Decode(file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: seed file: %s", constants.ErrInvalidInput, err)
	}

	return file, nil
}

// Apply writes the file in one transaction. Records are matched by their
// natural keys, so applying the same file twice changes nothing but timestamps.
// The coefficient set is always created anew and activated.
func Apply(ctx context.Context, s store.Store, file *File) (*Summary, error) {
	summary := &Summary{}
	err := s.InTx(ctx, func(tx store.Store) error {
		byName, err := applyVariables(ctx, tx, file.Variables)
		if err != nil {
			return err
		}
		summary.Variables = len(file.Variables)

		if err := applyPanels(ctx, tx, file.Panels); err != nil {
			return err
		}
		summary.Panels = len(file.Panels)

		if err := applyRateTiers(ctx, tx, file.RateTiers); err != nil {
			return err
		}
		summary.RateTiers = len(file.RateTiers)

		for _, l := range file.Locations {
			values, err := valuesByID(byName, l.Values)
			if err != nil {
				return fmt.Errorf("location %s/%s/%s: %w", l.Province, l.District, l.City, err)
			}
			location := &domain.Location{
				Place:           domain.Place{Province: l.Province, District: l.District, City: l.City}.Normalize(),
				Values:          values,
				ElectricityRate: l.ElectricityRate,
			}
			if _, err := tx.UpsertLocation(ctx, location); err != nil {
				return fmt.Errorf("store.UpsertLocation: %w", err)
			}
		}
		summary.Locations = len(file.Locations)

		if file.CoefficientSet != nil {
			id, err := applyCoefficientSet(ctx, tx, byName, file.CoefficientSet)
			if err != nil {
				return err
			}
			summary.CoefficientSet = id
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof(ctx, "seeded %d variables, %d panels, %d rate tiers, %d locations",
		summary.Variables, summary.Panels, summary.RateTiers, summary.Locations)
	return summary, nil
}

func applyVariables(ctx context.Context, tx store.Store, seeds []Variable) (map[string]*domain.Variable, error) {
	existing, err := tx.ListVariables(ctx, store.ListVariablesOpts{})
	if err != nil {
		return nil, fmt.Errorf("store.ListVariables: %w", err)
	}

	byName := make(map[string]*domain.Variable, len(existing)+len(seeds))
	for _, v := range existing {
		byName[v.Name] = v
	}

	for _, sv := range seeds {
		v := &domain.Variable{
			Name:         sv.Name,
			Unit:         sv.Unit,
			Description:  sv.Description,
			DisplayOrder: sv.DisplayOrder,
			IsActive:     true,
		}

		var saved *domain.Variable
		if current, ok := byName[sv.Name]; ok {
			v.ID = current.ID
			saved, err = tx.UpdateVariable(ctx, v)
		} else {
			saved, err = tx.CreateVariable(ctx, v)
		}
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", sv.Name, err)
		}
		byName[saved.Name] = saved
	}

	return byName, nil
}

func applyPanels(ctx context.Context, tx store.Store, seeds []Panel) error {
	existing, err := tx.ListPanels(ctx, store.ListPanelsOpts{})
	if err != nil {
		return fmt.Errorf("store.ListPanels: %w", err)
	}
	ids := make(map[string]int64, len(existing))
	for _, p := range existing {
		ids[p.Name] = p.ID
	}

	for _, sp := range seeds {
		p := &domain.Panel{
			ID:            ids[sp.Name],
			Name:          sp.Name,
			Manufacturer:  sp.Manufacturer,
			Efficiency:    sp.Efficiency,
			Technology:    sp.Technology,
			Length:        sp.Length,
			Width:         sp.Width,
			Area:          sp.Area,
			PowerRating:   sp.PowerRating,
			PricePerWatt:  sp.PricePerWatt,
			WarrantyYears: sp.WarrantyYears,
		}
		if p.Efficiency < 0 || p.Efficiency > 100 || p.EffectiveArea() <= 0 {
			return fmt.Errorf("%w: panel %q", constants.ErrInvalidPanel, sp.Name)
		}

		if p.ID != 0 {
			_, err = tx.UpdatePanel(ctx, p)
		} else {
			_, err = tx.CreatePanel(ctx, p)
		}
		if err != nil {
			return fmt.Errorf("panel %q: %w", sp.Name, err)
		}
	}

	return nil
}

func applyRateTiers(ctx context.Context, tx store.Store, seeds []RateTier) error {
	if len(seeds) == 0 {
		return nil
	}

	tiers := make([]*domain.RateTier, 0, len(seeds))
	schedule := make([]domain.RateTier, 0, len(seeds))
	for _, st := range seeds {
		t := &domain.RateTier{
			Lower:       st.Lower,
			Upper:       st.Upper,
			Rate:        st.Rate,
			Unbounded:   st.Unbounded,
			Description: st.Description,
			IsActive:    true,
		}
		if t.Unbounded && t.Upper < t.Lower {
			t.Upper = domain.UnboundedUpper
		}
		tiers = append(tiers, t)
		schedule = append(schedule, *t)
	}

	if _, err := calc.ValidateSchedule(schedule, false); err != nil {
		return err
	}

	if err := tx.ReplaceRateTiers(ctx, tiers); err != nil {
		return fmt.Errorf("store.ReplaceRateTiers: %w", err)
	}
	return nil
}

func applyCoefficientSet(ctx context.Context, tx store.Store, byName map[string]*domain.Variable, seed *CoefficientSet) (int64, error) {
	names := make([]string, 0, len(seed.Coefficients))
	for name := range seed.Coefficients {
		names = append(names, name)
	}
	sort.Strings(names)

	terms := make(domain.Terms, 0, len(names))
	for _, name := range names {
		v, ok := byName[name]
		if !ok {
			return 0, fmt.Errorf("%w: coefficient for unknown variable %q", constants.ErrVariableNotFound, name)
		}
		terms = append(terms, domain.Term{VariableID: v.ID, VariableName: v.Name, Coefficient: seed.Coefficients[name]})
	}

	set, err := tx.CreateCoefficientSet(ctx, &domain.CoefficientSet{
		Name:      seed.Name,
		Intercept: seed.Intercept,
		Epsilon:   seed.Epsilon,
		Terms:     terms,
	})
	if err != nil {
		return 0, fmt.Errorf("store.CreateCoefficientSet: %w", err)
	}

	if err := tx.ActivateCoefficientSet(ctx, set.ID); err != nil {
		return 0, fmt.Errorf("store.ActivateCoefficientSet: %w", err)
	}

	return set.ID, nil
}

func valuesByID(byName map[string]*domain.Variable, values map[string]float64) (domain.VariableValues, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	res := make(domain.VariableValues, 0, len(values))
	for _, name := range names {
		v, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown variable %q", constants.ErrVariableNotFound, name)
		}
		res = append(res, domain.VariableValue{VariableID: v.ID, Value: values[name]})
	}
	return res, nil
}
