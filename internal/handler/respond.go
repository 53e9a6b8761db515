// Package handler implements the HTTP layer: it binds request bodies, calls
// into the tracker engine and repositories, and translates the sentinel
// error kinds into transport status codes.  The engine itself never sees
// HTTP.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/tracker"
)

// fail renders a failed operation result.  Known error kinds keep their
// message and get a meaningful status; anything else is reported as a
// generic server failure so internal details never reach the client.
func fail(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "an error occurred"
	}
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrHabitNotFound),
		errors.Is(err, tracker.ErrNoHabits):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrMissingField),
		errors.Is(err, repository.ErrInvalidCadence),
		errors.Is(err, tracker.ErrInvalidDateFormat),
		errors.Is(err, tracker.ErrInvalidRange),
		errors.Is(err, tracker.ErrWrongCadence):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrUsernameExists),
		errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
