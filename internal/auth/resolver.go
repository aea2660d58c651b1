package auth

import (
	"context"
	"errors"
	"strings"

	"farmbooking/internal/booking"
	"farmbooking/internal/models"
)

// Accounts is the account lookup the resolver needs. Implemented by
// repo.AccountStore.
type Accounts interface {
	// FindByLogin matches the identifier against email or username.
	// Returns booking.ErrNotFound when no account matches.
	FindByLogin(ctx context.Context, login string) (*models.Account, error)
	// OwnedFarmhouseIDs lists the ids of the farmhouses owned by the account.
	OwnedFarmhouseIDs(ctx context.Context, accountID uint) ([]uint, error)
}

// Resolver turns a bearer credential into a per-request session. No state
// survives between requests; the token is the sole artifact.
type Resolver struct {
	accounts Accounts
	secret   []byte
}

func NewResolver(accounts Accounts, secret []byte) *Resolver {
	return &Resolver{accounts: accounts, secret: secret}
}

// Resolve verifies the bearer token and reconstructs the caller's identity,
// role and owned-farmhouse set. A disabled non-admin account is rejected here,
// at the authorization boundary, before any handler runs.
func (rv *Resolver) Resolve(ctx context.Context, bearer string) (booking.Session, *models.Account, error) {
	if strings.TrimSpace(bearer) == "" {
		return booking.Session{}, nil, booking.ErrUnauthenticated
	}
	claims, err := ParseToken(bearer, rv.secret)
	if err != nil {
		return booking.Session{}, nil, err
	}
	acct, err := rv.accounts.FindByLogin(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return booking.Session{}, nil, booking.ErrUnauthenticated
		}
		return booking.Session{}, nil, err
	}
	// Checked before any role or ownership logic: a disabled account fails
	// every operation, whatever its role.
	if !acct.IsActive {
		return booking.Session{}, nil, booking.ErrForbidden
	}
	var owned []uint
	if acct.Role == models.RoleOwner {
		owned, err = rv.accounts.OwnedFarmhouseIDs(ctx, acct.ID)
		if err != nil {
			return booking.Session{}, nil, err
		}
	}
	sess := booking.Session{
		AccountID:         acct.ID,
		Role:              acct.Role,
		Active:            acct.IsActive,
		OwnedFarmhouseIDs: owned,
	}
	return sess, acct, nil
}
