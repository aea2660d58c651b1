package booking

import "errors"

// Error taxonomy of the booking core. Property- and account-level violations
// abort the whole operation; ErrPastDate and ErrAdminLocked are day-level and
// end up in the rejection list of a batch instead of failing it.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("farmhouse not found")
	ErrPastDate        = errors.New("cannot modify past dates")
	ErrAdminLocked     = errors.New("date is locked by admin")
	ErrInvalidDay      = errors.New("invalid day")
)
