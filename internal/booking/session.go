package booking

import (
	"context"

	"farmbooking/internal/models"
)

// Session is the resolved identity of one request. It is rebuilt from the
// bearer token on every request; there is no server-side session store.
type Session struct {
	AccountID uint
	Role      string // models.RoleOwner | models.RoleAdmin
	Active    bool
	// OwnedFarmhouseIDs is the caller's owned-property set, resolved at the
	// same time as the identity.
	OwnedFarmhouseIDs []uint
}

func (s Session) IsAdmin() bool { return s.Role == models.RoleAdmin }

func (s Session) Owns(farmhouseID uint) bool {
	for _, id := range s.OwnedFarmhouseIDs {
		if id == farmhouseID {
			return true
		}
	}
	return false
}

type sessionKey struct{}

// WithSession attaches a resolved session to the request context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom extracts the session placed by the auth middleware.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
