package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"farmbooking/internal/booking"
	"farmbooking/internal/models"
)

type acctKey struct{}

// AccountFrom returns the full account record resolved by Middleware.
func AccountFrom(ctx context.Context) (*models.Account, bool) {
	a, ok := ctx.Value(acctKey{}).(*models.Account)
	return a, ok
}

// Middleware resolves the Authorization header into a session and injects it
// into the request context. 401 without a valid credential, 403 for a
// disabled account.
func (rv *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, prefix) {
			models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token", nil)
			return
		}
		sess, acct, err := rv.Resolve(r.Context(), strings.TrimPrefix(header, prefix))
		if err != nil {
			switch {
			case errors.Is(err, booking.ErrForbidden):
				models.WriteProblem(w, http.StatusForbidden, "Forbidden", "account disabled", nil)
			case errors.Is(err, booking.ErrUnauthenticated):
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid token", nil)
			default:
				models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
			}
			return
		}
		ctx := booking.WithSession(r.Context(), sess)
		ctx = context.WithValue(ctx, acctKey{}, acct)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
