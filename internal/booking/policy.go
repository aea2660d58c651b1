package booking

// Access-control decisions for availability data. Every lock/ownership rule
// lives here so it is defined exactly once and testable in isolation.

// CanAccess decides property-level access (both reads and writes follow the
// same rule): admins reach any farmhouse, owners only their own. Disabled
// accounts fail before any role check.
func CanAccess(sess Session, farmhouseID uint) error {
	if !sess.Active {
		return ErrForbidden
	}
	if sess.IsAdmin() {
		return nil
	}
	if sess.Owns(farmhouseID) {
		return nil
	}
	return ErrForbidden
}

// CheckDayWrite decides one day-level mutation given the day's current stored
// state (nil when no record exists yet). today is the current day in the
// service's reference calendar.
//
// An owner may not touch an admin-locked day at all, even to un-book it;
// the lock blocks any owner write regardless of the target state.
func CheckDayWrite(sess Session, day, today Day, currentAdminLocked bool) error {
	if !sess.Active {
		return ErrForbidden
	}
	if day.Before(today) {
		return ErrPastDate
	}
	if !sess.IsAdmin() && currentAdminLocked {
		return ErrAdminLocked
	}
	return nil
}

// LockAfterWrite is the admin-lock transition rule: an admin write locks the
// day exactly when it books it (un-booking releases the lock); an owner write
// always leaves the day unlocked.
func LockAfterWrite(sess Session, isBooked bool) bool {
	if sess.IsAdmin() {
		return isBooked
	}
	return false
}
