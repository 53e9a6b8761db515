package tracker

import "errors"

// Validation errors produced by the progression engine.  Entity lookups
// reuse the sentinels from the repository package (ErrUserNotFound,
// ErrHabitNotFound, ErrMissingField, ErrInvalidCadence) so a handler can
// match one set of values no matter which layer rejected the request.
var (
	// ErrInvalidDateFormat is returned when a timestamp does not match the
	// fixed "YYYY-MM-DD HH:MM" wire format.
	ErrInvalidDateFormat = errors.New("invalid date format: dates should be in YYYY-MM-DD HH:MM format")

	// ErrInvalidRange is returned when an end bound is not strictly after
	// its start bound.
	ErrInvalidRange = errors.New("end date range must be later than start date range")

	// ErrWrongCadence is returned when a completion is submitted against an
	// instance of the other cadence (a weekly habit on the daily endpoint or
	// vice versa).
	ErrWrongCadence = errors.New("habit cadence does not match the requested update")

	// ErrNoHabits is returned by the analytics queries when the filtered
	// habit list is empty.
	ErrNoHabits = errors.New("no habits found for user")
)
