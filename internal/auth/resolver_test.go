package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmbooking/internal/booking"
	"farmbooking/internal/models"
)

// fakeAccounts is an in-memory Accounts for resolver tests.
type fakeAccounts struct {
	byLogin map[string]*models.Account
	owned   map[uint][]uint
}

func (f *fakeAccounts) FindByLogin(_ context.Context, login string) (*models.Account, error) {
	acct, ok := f.byLogin[login]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return acct, nil
}

func (f *fakeAccounts) OwnedFarmhouseIDs(_ context.Context, accountID uint) ([]uint, error) {
	return f.owned[accountID], nil
}

func strPtr(s string) *string { return &s }

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byLogin: map[string]*models.Account{
			"owner@farm.local": {
				ID: 1, Username: "ramesh", Email: strPtr("owner@farm.local"),
				Role: models.RoleOwner, IsActive: true,
			},
			"admin@farm.local": {
				ID: 2, Username: "admin", Email: strPtr("admin@farm.local"),
				Role: models.RoleAdmin, IsActive: true,
			},
			"blocked@farm.local": {
				ID: 3, Username: "blocked", Email: strPtr("blocked@farm.local"),
				Role: models.RoleOwner, IsActive: false,
			},
		},
		owned: map[uint][]uint{1: {7, 9}},
	}
}

const testSecret = "resolver-secret"

func TestResolveOwner(t *testing.T) {
	t.Parallel()
	rv := NewResolver(newFakeAccounts(), []byte(testSecret))

	tok, err := GenerateToken("owner@farm.local", models.RoleOwner, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	sess, acct, err := rv.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, uint(1), sess.AccountID)
	assert.Equal(t, models.RoleOwner, sess.Role)
	assert.True(t, sess.Active)
	assert.Equal(t, []uint{7, 9}, sess.OwnedFarmhouseIDs)
	assert.Equal(t, "ramesh", acct.Username)
}

func TestResolveAdminHasNoOwnedSet(t *testing.T) {
	t.Parallel()
	rv := NewResolver(newFakeAccounts(), []byte(testSecret))

	tok, err := GenerateToken("admin@farm.local", models.RoleAdmin, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	sess, _, err := rv.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin())
	assert.Empty(t, sess.OwnedFarmhouseIDs)
}

func TestResolveRejectsDisabledAccount(t *testing.T) {
	t.Parallel()
	rv := NewResolver(newFakeAccounts(), []byte(testSecret))

	// The token is still cryptographically valid; the account flag alone
	// must shut the request out.
	tok, err := GenerateToken("blocked@farm.local", models.RoleOwner, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	_, _, err = rv.Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, booking.ErrForbidden)
}

func TestResolveUnknownSubject(t *testing.T) {
	t.Parallel()
	rv := NewResolver(newFakeAccounts(), []byte(testSecret))

	tok, err := GenerateToken("ghost@farm.local", models.RoleOwner, []byte(testSecret), time.Hour)
	require.NoError(t, err)

	_, _, err = rv.Resolve(context.Background(), tok)
	assert.ErrorIs(t, err, booking.ErrUnauthenticated)
}

func TestResolveEmptyBearer(t *testing.T) {
	t.Parallel()
	rv := NewResolver(newFakeAccounts(), []byte(testSecret))

	_, _, err := rv.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, booking.ErrUnauthenticated)
}
