package booking

import (
	"context"

	"farmbooking/internal/models"
)

// Discovery answers "which farmhouses are free on date X" across the caller's
// visible universe without a per-farmhouse round trip.
type Discovery struct {
	store   Store
	catalog Catalog
}

func NewDiscovery(store Store, catalog Catalog) *Discovery {
	return &Discovery{store: store, catalog: catalog}
}

// AvailableOn returns the farmhouses with no booked record on the given day.
// A farmhouse with zero records at all is available. Admins see the whole
// universe, owners their own set. Results reflect the latest committed
// writes: the booked set is read from the store, not a stale snapshot.
func (d *Discovery) AvailableOn(ctx context.Context, sess Session, day Day) ([]models.Farmhouse, error) {
	if !day.Valid() {
		return nil, ErrInvalidDay
	}
	if !sess.Active {
		return nil, ErrForbidden
	}
	var universe []models.Farmhouse
	var err error
	if sess.IsAdmin() {
		universe, err = d.catalog.List(ctx)
	} else {
		universe, err = d.catalog.ListByOwner(ctx, sess.AccountID)
	}
	if err != nil {
		return nil, err
	}
	bookedIDs, err := d.store.BookedOn(ctx, day)
	if err != nil {
		return nil, err
	}
	booked := make(map[uint]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}
	out := make([]models.Farmhouse, 0, len(universe))
	for _, fh := range universe {
		if !booked[fh.ID] {
			out = append(out, fh)
		}
	}
	return out, nil
}

// Filter narrows a farmhouse list by attributes. Zero values leave the
// corresponding dimension unconstrained.
type Filter struct {
	Location string
	MinSize  int
	MaxSize  int
}

// ApplyFilter is a pure, stateless composition over Discovery output; it is
// owned by the calling layer, not Discovery itself.
func ApplyFilter(list []models.Farmhouse, f Filter) []models.Farmhouse {
	out := make([]models.Farmhouse, 0, len(list))
	for _, fh := range list {
		if f.Location != "" && fh.Location != f.Location {
			continue
		}
		if f.MinSize > 0 && fh.Size < f.MinSize {
			continue
		}
		if f.MaxSize > 0 && fh.Size > f.MaxSize {
			continue
		}
		out = append(out, fh)
	}
	return out
}
