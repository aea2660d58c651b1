package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmbooking/internal/models"
)

func farmIDs(list []models.Farmhouse) []uint {
	ids := make([]uint, 0, len(list))
	for _, fh := range list {
		ids = append(ids, fh.ID)
	}
	return ids
}

func TestAvailableOn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemStore()
	m.AddFarmhouse(models.Farmhouse{ID: 1, Name: "A", OwnerID: 10})
	m.AddFarmhouse(models.Farmhouse{ID: 2, Name: "B", OwnerID: 10})
	m.AddFarmhouse(models.Farmhouse{ID: 3, Name: "C", OwnerID: 20}) // zero records at all
	d := NewDiscovery(m, m)

	require.NoError(t, m.ApplyChanges(ctx, 1, []Change{
		{Day: "2025-04-01", IsBooked: true},
	}))
	// An explicit available record does not hide a farmhouse.
	require.NoError(t, m.ApplyChanges(ctx, 2, []Change{
		{Day: "2025-04-01", IsBooked: false},
	}))

	list, err := d.AvailableOn(ctx, adminSession(), "2025-04-01")
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, farmIDs(list))

	// On another day everything is free, including the booked-elsewhere one.
	list, err = d.AvailableOn(ctx, adminSession(), "2025-04-02")
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, farmIDs(list))
}

func TestAvailableOnScopedToOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemStore()
	m.AddFarmhouse(models.Farmhouse{ID: 1, Name: "A", OwnerID: 10})
	m.AddFarmhouse(models.Farmhouse{ID: 2, Name: "B", OwnerID: 20})
	d := NewDiscovery(m, m)

	list, err := d.AvailableOn(ctx, ownerSession(10, 1), "2025-04-01")
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, farmIDs(list))

	_, err = d.AvailableOn(ctx, Session{AccountID: 10, Role: models.RoleOwner}, "2025-04-01")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = d.AvailableOn(ctx, adminSession(), "April first")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

// Read-after-write: discovery must see a booking the moment it is committed.
func TestAvailableOnReadAfterWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := NewMemStore()
	m.AddFarmhouse(models.Farmhouse{ID: 1, Name: "A", OwnerID: 10})
	d := NewDiscovery(m, m)

	list, err := d.AvailableOn(ctx, adminSession(), "2025-04-01")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, m.ApplyChanges(ctx, 1, []Change{{Day: "2025-04-01", IsBooked: true}}))
	list, err = d.AvailableOn(ctx, adminSession(), "2025-04-01")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestApplyFilter(t *testing.T) {
	t.Parallel()

	list := []models.Farmhouse{
		{ID: 1, Location: "Pune", Size: 2},
		{ID: 2, Location: "Lonavala", Size: 5},
		{ID: 3, Location: "Pune", Size: 8},
	}

	assert.Equal(t, []uint{1, 3}, farmIDs(ApplyFilter(list, Filter{Location: "Pune"})))
	assert.Equal(t, []uint{2, 3}, farmIDs(ApplyFilter(list, Filter{MinSize: 5})))
	assert.Equal(t, []uint{1, 2}, farmIDs(ApplyFilter(list, Filter{MaxSize: 5})))
	assert.Equal(t, []uint{3}, farmIDs(ApplyFilter(list, Filter{Location: "Pune", MinSize: 3})))
	// Zero filter passes everything through.
	assert.Equal(t, []uint{1, 2, 3}, farmIDs(ApplyFilter(list, Filter{})))
}
