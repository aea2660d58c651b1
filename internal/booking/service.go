package booking

import (
	"context"
	"sync"
	"time"
)

// Rejection reasons reported to the caller for day-level refusals.
const (
	ReasonAdminLocked = "admin_locked"
	ReasonPastDate    = "past_date"
	ReasonForbidden   = "forbidden"
)

// DayChange is one requested day-level edit, as it arrives from a client.
type DayChange struct {
	Day      Day    `json:"day"`
	IsBooked bool   `json:"is_booked"`
	Note     string `json:"note,omitempty"`
}

// Rejection names a day that was refused and why.
type Rejection struct {
	Day    Day    `json:"day"`
	Reason string `json:"reason"`
}

// ApplyResult reports the outcome of one mutation batch. Partial success is
// the expected, reportable case, not an error.
type ApplyResult struct {
	Applied  []Day       `json:"applied"`
	Rejected []Rejection `json:"rejected"`
}

// Service orchestrates the store under the authorization policy.
type Service struct {
	store   Store
	catalog Catalog
	loc     *time.Location
	now     func() time.Time

	// Per-farmhouse write serialization: policy decisions and the commit
	// they lead to form one critical section.
	lmu   sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewService(store Store, catalog Catalog, loc *time.Location) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		loc:     loc,
		now:     time.Now,
		locks:   make(map[uint]*sync.Mutex),
	}
}

func (s *Service) lockFor(farmhouseID uint) *sync.Mutex {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	l, ok := s.locks[farmhouseID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[farmhouseID] = l
	}
	return l
}

// Today is the current day in the service's reference calendar.
func (s *Service) Today() Day {
	return DayOf(s.now().In(s.loc))
}

// RangeView returns the explicit records of [start, end]. Missing days carry
// no record and are simply absent; callers merge their own defaults.
func (s *Service) RangeView(ctx context.Context, sess Session, farmhouseID uint, start, end Day) ([]DayState, error) {
	if !start.Valid() || !end.Valid() {
		return nil, ErrInvalidDay
	}
	if _, err := s.catalog.Get(ctx, farmhouseID); err != nil {
		return nil, err
	}
	if err := CanAccess(sess, farmhouseID); err != nil {
		return nil, err
	}
	return s.store.GetRange(ctx, farmhouseID, start, end)
}

// MonthView returns one entry per calendar day of the month. Days with an
// explicit record keep it; every other day gets the implicit default
// {is_booked:false, admin_booked:false}. Missing means available by contract,
// not by accident of a map lookup.
func (s *Service) MonthView(ctx context.Context, sess Session, farmhouseID uint, year int, month time.Month) (map[Day]DayState, error) {
	days, err := MonthDays(year, month)
	if err != nil {
		return nil, err
	}
	recs, err := s.RangeView(ctx, sess, farmhouseID, days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}
	explicit := make(map[Day]DayState, len(recs))
	for _, r := range recs {
		explicit[r.Day] = r
	}
	view := make(map[Day]DayState, len(days))
	for _, d := range days {
		if r, ok := explicit[d]; ok {
			view[d] = r
		} else {
			view[d] = DayState{Day: d}
		}
	}
	return view, nil
}

// ApplyDayChanges evaluates every requested change against the day's current
// stored state, commits the permitted subset in a single atomic store call and
// reports the rejected days individually. A hard error occurs only for
// malformed input or a property-level violation; rejections never abort
// sibling days.
func (s *Service) ApplyDayChanges(ctx context.Context, sess Session, farmhouseID uint, changes []DayChange) (*ApplyResult, error) {
	for _, c := range changes {
		if !c.Day.Valid() {
			return nil, ErrInvalidDay
		}
	}
	if _, err := s.catalog.Get(ctx, farmhouseID); err != nil {
		return nil, err
	}
	if err := CanAccess(sess, farmhouseID); err != nil {
		return nil, err
	}

	res := &ApplyResult{Applied: []Day{}, Rejected: []Rejection{}}
	if len(changes) == 0 {
		return res, nil
	}

	// Read-decide-write under the per-farmhouse lock so no concurrent writer
	// replaces the state a decision was made against.
	l := s.lockFor(farmhouseID)
	l.Lock()
	defer l.Unlock()

	lo, hi := changes[0].Day, changes[0].Day
	for _, c := range changes[1:] {
		if c.Day.Before(lo) {
			lo = c.Day
		}
		if hi.Before(c.Day) {
			hi = c.Day
		}
	}
	current, err := s.store.GetRange(ctx, farmhouseID, lo, hi)
	if err != nil {
		return nil, err
	}
	locked := make(map[Day]bool, len(current))
	for _, r := range current {
		locked[r.Day] = r.AdminBooked
	}

	today := s.Today()
	batch := make([]Change, 0, len(changes))
	for _, c := range changes {
		switch err := CheckDayWrite(sess, c.Day, today, locked[c.Day]); {
		case err == nil:
			adminLocked := LockAfterWrite(sess, c.IsBooked)
			batch = append(batch, Change{Day: c.Day, IsBooked: c.IsBooked, AdminBooked: adminLocked, Note: c.Note})
			res.Applied = append(res.Applied, c.Day)
			// Later duplicates in the same batch decide against the new state.
			locked[c.Day] = adminLocked
		case err == ErrPastDate:
			res.Rejected = append(res.Rejected, Rejection{Day: c.Day, Reason: ReasonPastDate})
		case err == ErrAdminLocked:
			res.Rejected = append(res.Rejected, Rejection{Day: c.Day, Reason: ReasonAdminLocked})
		case err == ErrForbidden:
			res.Rejected = append(res.Rejected, Rejection{Day: c.Day, Reason: ReasonForbidden})
		default:
			return nil, err
		}
	}

	if len(batch) > 0 {
		if err := s.store.ApplyChanges(ctx, farmhouseID, batch); err != nil {
			return nil, err
		}
	}
	return res, nil
}
