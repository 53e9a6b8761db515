// Package tracker is the habit progression engine: it owns the lifecycle of
// a habit instance once assigned to a user.  Every operation performs one
// read of the user document, a pure in-memory mutation of the embedded habit
// list, and one write-back; nothing is persisted when validation fails.
package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

// Tracker bundles the repositories the engine operates on.
type Tracker struct {
	Users   *repository.UserRepo
	Catalog *repository.CatalogRepo
}

func New(users *repository.UserRepo, catalog *repository.CatalogRepo) *Tracker {
	return &Tracker{Users: users, Catalog: catalog}
}

// validateRange parses both bounds and checks that end is strictly after
// start.  Bounds that do not parse win over the range check.
func validateRange(startRange, endRange string) error {
	start, err := utils.ParseStamp(startRange)
	if err != nil {
		return ErrInvalidDateFormat
	}
	end, err := utils.ParseStamp(endRange)
	if err != nil {
		return ErrInvalidDateFormat
	}
	if !end.After(start) {
		return ErrInvalidRange
	}
	return nil
}

// AssignHabit assigns a catalog template to a user over the given range.
// The template's fields are copied into a fresh instance: later template
// edits or removal never touch it.  The new instance starts in progress
// with zero streaks and an empty completion log.
func (t *Tracker) AssignHabit(ctx context.Context, username, templateID, startRange, endRange string) (model.HabitInstance, error) {
	if username == "" || templateID == "" || startRange == "" || endRange == "" {
		return model.HabitInstance{}, fmt.Errorf("%w: username, habit_id, start_range and end_range are required", repository.ErrMissingField)
	}
	if err := validateRange(startRange, endRange); err != nil {
		return model.HabitInstance{}, err
	}
	user, err := t.Users.GetByUsername(ctx, username)
	if err != nil {
		return model.HabitInstance{}, err
	}
	tpl, err := t.Catalog.GetByID(ctx, templateID)
	if err != nil {
		return model.HabitInstance{}, err
	}
	if !tpl.Cadence.Valid() {
		return model.HabitInstance{}, repository.ErrInvalidCadence
	}

	instance := model.HabitInstance{
		ID:          uuid.NewString(),
		TemplateID:  tpl.ID,
		Name:        tpl.Name,
		Cadence:     tpl.Cadence,
		Category:    tpl.Category,
		Subcategory: tpl.Subcategory,
		Description: tpl.Description,
		StartRange:  startRange,
		EndRange:    endRange,
		Status:      model.StatusInProgress,
		CreatedAt:   utils.NowStamp(),
	}
	user.Habits = append(user.Habits, instance)
	if err := t.Users.SaveHabits(ctx, user.ID, user.Habits); err != nil {
		return model.HabitInstance{}, err
	}
	return instance, nil
}

// AssignCustomHabit assigns a caller-defined habit: no catalog lookup, the
// fields are taken verbatim.  Category, subcategory and description are
// optional and default to empty.
func (t *Tracker) AssignCustomHabit(ctx context.Context, username, name string, cadence model.Cadence, startRange, endRange, category, subcategory, description string) (model.HabitInstance, error) {
	if username == "" || name == "" || cadence == "" || startRange == "" || endRange == "" {
		return model.HabitInstance{}, fmt.Errorf("%w: username, name, type, start_range and end_range are required", repository.ErrMissingField)
	}
	if err := validateRange(startRange, endRange); err != nil {
		return model.HabitInstance{}, err
	}
	user, err := t.Users.GetByUsername(ctx, username)
	if err != nil {
		return model.HabitInstance{}, err
	}
	if !cadence.Valid() {
		return model.HabitInstance{}, repository.ErrInvalidCadence
	}

	instance := model.HabitInstance{
		ID:          uuid.NewString(),
		Name:        name,
		Cadence:     cadence,
		Category:    category,
		Subcategory: subcategory,
		Description: description,
		StartRange:  startRange,
		EndRange:    endRange,
		Status:      model.StatusInProgress,
		CreatedAt:   utils.NowStamp(),
	}
	user.Habits = append(user.Habits, instance)
	if err := t.Users.SaveHabits(ctx, user.ID, user.Habits); err != nil {
		return model.HabitInstance{}, err
	}
	return instance, nil
}

// RemoveHabit removes exactly one instance from the user's list.  The
// remaining instances keep their order; a catalog template the instance was
// copied from is untouched.
func (t *Tracker) RemoveHabit(ctx context.Context, username, instanceID string) error {
	if username == "" || instanceID == "" {
		return fmt.Errorf("%w: username and habit_id are required", repository.ErrMissingField)
	}
	user, err := t.Users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	kept := make([]model.HabitInstance, 0, len(user.Habits))
	found := false
	for _, h := range user.Habits {
		if h.ID == instanceID {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	if !found {
		return repository.ErrHabitNotFound
	}
	return t.Users.SaveHabits(ctx, user.ID, kept)
}

// ListUserHabits returns the user's habit instances, optionally filtered by
// cadence and status.  Both filters are ANDed; an empty filter matches all.
// An empty result is a success, not an error.
func (t *Tracker) ListUserHabits(ctx context.Context, username string, cadence model.Cadence, status model.Status) ([]model.HabitInstance, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", repository.ErrMissingField)
	}
	user, err := t.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make([]model.HabitInstance, 0, len(user.Habits))
	for _, h := range user.Habits {
		if cadence != "" && h.Cadence != cadence {
			continue
		}
		if status != "" && h.Status != status {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}
