// Package repository translates between the generic document store and the
// typed models.  It also defines the sentinel errors reused across layers so
// handlers can map failures to transport status codes without string
// matching.  Every failure an operation can produce is one of these values
// (possibly wrapped); raw store errors never leak past this package
// unwrapped.
package repository

import "errors"

// ErrUserNotFound is returned when the referenced account does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrHabitNotFound is returned when a catalog template or an assigned habit
// instance cannot be located.
var ErrHabitNotFound = errors.New("habit not found")

// ErrUsernameExists and ErrEmailExists signal registration conflicts.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

// ErrInvalidCredentials is returned when a credential check fails.  The same
// value covers unknown usernames so login does not reveal which part was
// wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrMissingField is returned when a required input is absent.
var ErrMissingField = errors.New("missing required field")

// ErrInvalidCadence is returned when a habit type is outside {daily, weekly}.
var ErrInvalidCadence = errors.New("invalid habit type: must be either \"daily\" or \"weekly\"")
