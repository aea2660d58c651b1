package booking

import (
	"context"

	"farmbooking/internal/models"
)

// DayState is the stored booking state of one day, as the store reports it.
type DayState struct {
	Day         Day    `json:"day"`
	IsBooked    bool   `json:"is_booked"`
	AdminBooked bool   `json:"admin_booked"`
	Note        string `json:"note,omitempty"`
}

// Change is one day-level write as committed to the store, lock state already
// decided by policy.
type Change struct {
	Day         Day
	IsBooked    bool
	AdminBooked bool
	Note        string
}

// Store is the durable per-farmhouse, per-day booking ledger.
type Store interface {
	// GetRange returns the explicit records in [start, end], ordered by day.
	// Days without a record are not synthesized; that is the service's job.
	// Returns ErrNotFound for an unknown farmhouse.
	GetRange(ctx context.Context, farmhouseID uint, start, end Day) ([]DayState, error)

	// ApplyChanges commits the batch atomically: either every change lands or
	// none do. Returns ErrNotFound for an unknown farmhouse and ErrInvalidDay
	// when any day is malformed.
	ApplyChanges(ctx context.Context, farmhouseID uint, changes []Change) error

	// BookedOn reports the farmhouse ids with an explicit booked record on
	// the given day, reflecting the latest committed writes.
	BookedOn(ctx context.Context, day Day) ([]uint, error)
}

// Catalog is the farmhouse registry the booking core reads from.
type Catalog interface {
	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id uint) (*models.Farmhouse, error)
	List(ctx context.Context) ([]models.Farmhouse, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Farmhouse, error)
}
