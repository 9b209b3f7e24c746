package user

import "errors"

// ErrNotAuthenticated is returned when no user can be resolved for the
// current request.
var ErrNotAuthenticated = errors.New("user not authorized")

// User is the authenticated caller, resolved per request. Read-only here;
// account management lives elsewhere.
type User struct {
	ID    string
	Email string
}
