package booking

import (
	"context"
	"sort"
	"sync"

	"farmbooking/internal/models"
)

// MemStore is an in-memory Store and Catalog, used by tests and as a
// reference implementation of the store contract. Alongside the per-day
// records it maintains a booked-day index so BookedOn never scans.
type MemStore struct {
	mu     sync.RWMutex
	farms  map[uint]models.Farmhouse
	days   map[uint]map[Day]DayState
	booked map[Day]map[uint]bool
	nextID uint
}

func NewMemStore() *MemStore {
	return &MemStore{
		farms:  make(map[uint]models.Farmhouse),
		days:   make(map[uint]map[Day]DayState),
		booked: make(map[Day]map[uint]bool),
		nextID: 1,
	}
}

// AddFarmhouse registers a farmhouse and returns its id.
func (m *MemStore) AddFarmhouse(fh models.Farmhouse) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fh.ID == 0 {
		fh.ID = m.nextID
	}
	if fh.ID >= m.nextID {
		m.nextID = fh.ID + 1
	}
	m.farms[fh.ID] = fh
	m.days[fh.ID] = make(map[Day]DayState)
	return fh.ID
}

func (m *MemStore) GetRange(_ context.Context, farmhouseID uint, start, end Day) ([]DayState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs, ok := m.days[farmhouseID]
	if !ok {
		return nil, ErrNotFound
	}
	var out []DayState
	for d, st := range recs {
		if !d.Before(start) && !end.Before(d) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (m *MemStore) ApplyChanges(_ context.Context, farmhouseID uint, changes []Change) error {
	// Validate the whole batch before touching state: all-or-nothing.
	for _, c := range changes {
		if !c.Day.Valid() {
			return ErrInvalidDay
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	recs, ok := m.days[farmhouseID]
	if !ok {
		return ErrNotFound
	}
	for _, c := range changes {
		recs[c.Day] = DayState{Day: c.Day, IsBooked: c.IsBooked, AdminBooked: c.AdminBooked, Note: c.Note}
		idx := m.booked[c.Day]
		if c.IsBooked {
			if idx == nil {
				idx = make(map[uint]bool)
				m.booked[c.Day] = idx
			}
			idx[farmhouseID] = true
		} else if idx != nil {
			delete(idx, farmhouseID)
		}
	}
	return nil
}

func (m *MemStore) BookedOn(_ context.Context, day Day) ([]uint, error) {
	if !day.Valid() {
		return nil, ErrInvalidDay
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uint, 0, len(m.booked[day]))
	for id := range m.booked[day] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Catalog implementation.

func (m *MemStore) Get(_ context.Context, id uint) (*models.Farmhouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fh, ok := m.farms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &fh, nil
}

func (m *MemStore) List(_ context.Context) ([]models.Farmhouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Farmhouse, 0, len(m.farms))
	for _, fh := range m.farms {
		out = append(out, fh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) ListByOwner(_ context.Context, ownerID uint) ([]models.Farmhouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Farmhouse
	for _, fh := range m.farms {
		if fh.OwnerID == ownerID {
			out = append(out, fh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
