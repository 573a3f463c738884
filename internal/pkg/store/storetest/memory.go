// Package storetest provides an in-memory store.Store for tests.
package storetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/lankasolar/solarcalc/internal/pkg/constants"
	"github.com/lankasolar/solarcalc/internal/pkg/store"
)

var _ store.Store = (*Memory)(nil)

// Memory keeps every table in maps. Set Fail to make a method return an error.
type Memory struct {
	mu sync.Mutex

	// Fail maps a method name, e.g. "InsertCalculation", to the error it returns.
	Fail map[string]error

	nextID       int64
	variables    map[int64]domain.Variable
	sets         map[int64]domain.CoefficientSet
	locations    map[int64]domain.Location
	panels       map[int64]domain.Panel
	tiers        map[int64]domain.RateTier
	calculations []domain.Calculation
	analytics    *domain.Analytics
}

func NewMemory() *Memory {
	return &Memory{
		Fail:      map[string]error{},
		variables: map[int64]domain.Variable{},
		sets:      map[int64]domain.CoefficientSet{},
		locations: map[int64]domain.Location{},
		panels:    map[int64]domain.Panel{},
		tiers:     map[int64]domain.RateTier{},
	}
}

func (m *Memory) fail(method string) error {
	return m.Fail[method]
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) InTx(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *Memory) ListVariables(_ context.Context, opts store.ListVariablesOpts) ([]*domain.Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListVariables"); err != nil {
		return nil, err
	}

	res := make([]*domain.Variable, 0, len(m.variables))
	for _, v := range m.variables {
		if opts.OnlyActive && !v.IsActive {
			continue
		}
		v := v
		res = append(res, &v)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].DisplayOrder != res[j].DisplayOrder {
			return res[i].DisplayOrder < res[j].DisplayOrder
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (m *Memory) GetVariable(_ context.Context, id int64) (*domain.Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.variables[id]
	if !ok {
		return nil, constants.ErrVariableNotFound
	}
	return &v, nil
}

func (m *Memory) CreateVariable(_ context.Context, variable *domain.Variable) (*domain.Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range m.variables {
		if v.Name == variable.Name {
			return nil, constants.ErrDuplicateVariable
		}
	}

	v := *variable
	v.ID = m.id()
	v.CreatedAt, v.UpdatedAt = time.Now(), time.Now()
	m.variables[v.ID] = v
	return &v, nil
}

func (m *Memory) UpdateVariable(_ context.Context, variable *domain.Variable) (*domain.Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.variables[variable.ID]
	if !ok {
		return nil, constants.ErrVariableNotFound
	}
	for _, v := range m.variables {
		if v.ID != variable.ID && v.Name == variable.Name {
			return nil, constants.ErrDuplicateVariable
		}
	}

	v := *variable
	v.CreatedAt, v.UpdatedAt = current.CreatedAt, time.Now()
	m.variables[v.ID] = v
	return &v, nil
}

func (m *Memory) SetVariableActive(_ context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.variables[id]
	if !ok {
		return constants.ErrVariableNotFound
	}
	v.IsActive = active
	m.variables[id] = v
	return nil
}

func (m *Memory) GetActiveCoefficientSet(_ context.Context) (*domain.CoefficientSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetActiveCoefficientSet"); err != nil {
		return nil, err
	}

	for _, s := range m.sets {
		if s.IsActive {
			return &s, nil
		}
	}
	return nil, constants.ErrModelNotConfigured
}

func (m *Memory) GetCoefficientSet(_ context.Context, id int64) (*domain.CoefficientSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sets[id]
	if !ok {
		return nil, constants.ErrCoefficientSetNotFound
	}
	return &s, nil
}

func (m *Memory) ListCoefficientSets(_ context.Context) ([]*domain.CoefficientSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]*domain.CoefficientSet, 0, len(m.sets))
	for _, s := range m.sets {
		s := s
		res = append(res, &s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (m *Memory) CreateCoefficientSet(_ context.Context, set *domain.CoefficientSet) (*domain.CoefficientSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := *set
	s.ID = m.id()
	s.IsActive = false
	s.CreatedAt, s.UpdatedAt = time.Now(), time.Now()
	m.sets[s.ID] = s
	return &s, nil
}

func (m *Memory) UpdateCoefficientSet(_ context.Context, set *domain.CoefficientSet) (*domain.CoefficientSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sets[set.ID]
	if !ok {
		return nil, constants.ErrCoefficientSetNotFound
	}

	s := *set
	s.IsActive = current.IsActive
	s.CreatedAt, s.UpdatedAt = current.CreatedAt, time.Now()
	m.sets[s.ID] = s
	return &s, nil
}

func (m *Memory) ActivateCoefficientSet(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sets[id]; !ok {
		return constants.ErrCoefficientSetNotFound
	}
	for sid, s := range m.sets {
		s.IsActive = sid == id
		m.sets[sid] = s
	}
	return nil
}

func (m *Memory) ListLocations(_ context.Context, opts store.ListLocationsOpts) ([]*domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]*domain.Location, 0, len(m.locations))
	for _, l := range m.locations {
		if opts.Province != nil && l.Province != *opts.Province {
			continue
		}
		if opts.District != nil && l.District != *opts.District {
			continue
		}
		l := l
		res = append(res, &l)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i].Place, res[j].Place
		if a.Province != b.Province {
			return a.Province < b.Province
		}
		if a.District != b.District {
			return a.District < b.District
		}
		return a.City < b.City
	})
	return res, nil
}

func (m *Memory) GetLocation(_ context.Context, place domain.Place) (*domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetLocation"); err != nil {
		return nil, err
	}

	for _, l := range m.locations {
		if l.Place == place {
			return &l, nil
		}
	}
	return nil, constants.ErrLocationNotFound
}

func (m *Memory) UpsertLocation(_ context.Context, location *domain.Location) (*domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := *location
	l.UpdatedAt = time.Now()
	for id, existing := range m.locations {
		if existing.Place == l.Place {
			l.ID, l.CreatedAt = id, existing.CreatedAt
			m.locations[id] = l
			return &l, nil
		}
	}

	l.ID = m.id()
	l.CreatedAt = l.UpdatedAt
	m.locations[l.ID] = l
	return &l, nil
}

func (m *Memory) DeleteLocation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.locations[id]; !ok {
		return constants.ErrLocationNotFound
	}
	delete(m.locations, id)
	return nil
}

func (m *Memory) CountLocations(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.locations)), nil
}

func (m *Memory) ListPanels(_ context.Context, opts store.ListPanelsOpts) ([]*domain.Panel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]*domain.Panel, 0, len(m.panels))
	for _, p := range m.panels {
		if opts.Technology != nil && p.Technology != *opts.Technology {
			continue
		}
		p := p
		res = append(res, &p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (m *Memory) GetPanel(_ context.Context, id int64) (*domain.Panel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.panels[id]
	if !ok {
		return nil, constants.ErrPanelNotFound
	}
	return &p, nil
}

func (m *Memory) CreatePanel(_ context.Context, panel *domain.Panel) (*domain.Panel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := *panel
	p.ID = m.id()
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	m.panels[p.ID] = p
	return &p, nil
}

func (m *Memory) UpdatePanel(_ context.Context, panel *domain.Panel) (*domain.Panel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.panels[panel.ID]
	if !ok {
		return nil, constants.ErrPanelNotFound
	}

	p := *panel
	p.CreatedAt, p.UpdatedAt = current.CreatedAt, time.Now()
	m.panels[p.ID] = p
	return &p, nil
}

func (m *Memory) DeletePanel(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.panels[id]; !ok {
		return constants.ErrPanelNotFound
	}
	delete(m.panels, id)
	return nil
}

func (m *Memory) ListRateTiers(_ context.Context, opts store.ListRateTiersOpts) ([]*domain.RateTier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListRateTiers"); err != nil {
		return nil, err
	}

	res := make([]*domain.RateTier, 0, len(m.tiers))
	for _, t := range m.tiers {
		if opts.OnlyActive && !t.IsActive {
			continue
		}
		t := t
		res = append(res, &t)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Lower != res[j].Lower {
			return res[i].Lower < res[j].Lower
		}
		return res[i].Upper < res[j].Upper
	})
	return res, nil
}

func (m *Memory) GetRateTier(_ context.Context, id int64) (*domain.RateTier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tiers[id]
	if !ok {
		return nil, constants.ErrRateTierNotFound
	}
	return &t, nil
}

func (m *Memory) CreateRateTier(_ context.Context, tier *domain.RateTier) (*domain.RateTier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tiers {
		if t.Lower == tier.Lower && t.Upper == tier.Upper {
			return nil, constants.ErrDuplicateRateTier
		}
	}

	t := *tier
	t.ID = m.id()
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	m.tiers[t.ID] = t
	return &t, nil
}

func (m *Memory) UpdateRateTier(_ context.Context, tier *domain.RateTier) (*domain.RateTier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.tiers[tier.ID]
	if !ok {
		return nil, constants.ErrRateTierNotFound
	}
	for _, t := range m.tiers {
		if t.ID != tier.ID && t.Lower == tier.Lower && t.Upper == tier.Upper {
			return nil, constants.ErrDuplicateRateTier
		}
	}

	t := *tier
	t.CreatedAt, t.UpdatedAt = current.CreatedAt, time.Now()
	m.tiers[t.ID] = t
	return &t, nil
}

func (m *Memory) SetRateTierActive(_ context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tiers[id]
	if !ok {
		return constants.ErrRateTierNotFound
	}
	t.IsActive = active
	m.tiers[id] = t
	return nil
}

func (m *Memory) ReplaceRateTiers(_ context.Context, tiers []*domain.RateTier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(tiers) == 0 {
		return nil
	}
	for id, existing := range m.tiers {
		existing.IsActive = false
		m.tiers[id] = existing
	}

	for _, tier := range tiers {
		t := *tier
		t.IsActive = true
		t.UpdatedAt = time.Now()
		for id, existing := range m.tiers {
			if existing.Lower == t.Lower && existing.Upper == t.Upper {
				t.ID, t.CreatedAt = id, existing.CreatedAt
			}
		}
		if t.ID == 0 {
			t.ID = m.id()
			t.CreatedAt = t.UpdatedAt
		}
		m.tiers[t.ID] = t
		tier.ID = t.ID
	}
	return nil
}

func (m *Memory) InsertCalculation(_ context.Context, calc *domain.Calculation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertCalculation"); err != nil {
		return err
	}

	m.calculations = append(m.calculations, *calc)
	return nil
}

func (m *Memory) ListCalculations(_ context.Context, limit int) ([]*domain.Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]*domain.Calculation, 0, len(m.calculations))
	for i := len(m.calculations) - 1; i >= 0 && len(res) < limit; i-- {
		c := m.calculations[i]
		res = append(res, &c)
	}
	return res, nil
}

func (m *Memory) GetCalculation(_ context.Context, id uuid.UUID) (*domain.Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.calculations {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, constants.ErrCalculationNotFound
}

func (m *Memory) GetAnalytics(_ context.Context, month string) (*domain.Analytics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.analytics == nil {
		m.analytics = &domain.Analytics{Month: month, UpdatedAt: time.Now()}
	}

	a := *m.analytics
	a.ActiveLocations = int64(len(m.locations))
	return &a, nil
}

func (m *Memory) IncrementCalculations(_ context.Context, month string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("IncrementCalculations"); err != nil {
		return err
	}

	if m.analytics == nil {
		m.analytics = &domain.Analytics{Month: month}
	}
	if m.analytics.Month != month {
		m.analytics.Month = month
		m.analytics.MonthlyCalculations = 0
	}
	m.analytics.TotalCalculations++
	m.analytics.MonthlyCalculations++
	m.analytics.UpdatedAt = time.Now()
	return nil
}
