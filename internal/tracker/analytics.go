package tracker

import (
	"context"
	"fmt"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
)

// LongestStreakHabit returns the instance with the highest longest-streak
// watermark among the user's habits, optionally restricted to one cadence.
// Ties go to the instance encountered first in list order.
func (t *Tracker) LongestStreakHabit(ctx context.Context, username string, cadence model.Cadence) (model.HabitInstance, error) {
	habits, err := t.filteredHabits(ctx, username, cadence)
	if err != nil {
		return model.HabitInstance{}, err
	}
	best := habits[0]
	for _, h := range habits[1:] {
		if h.LongestStreak > best.LongestStreak {
			best = h
		}
	}
	return best, nil
}

// StrugglestHabit returns the instance with the lowest current streak among
// the user's habits, optionally restricted to one cadence: the habit
// currently doing worst, not the one with the weakest historical best.
// Ties go to the instance encountered first in list order.
func (t *Tracker) StrugglestHabit(ctx context.Context, username string, cadence model.Cadence) (model.HabitInstance, error) {
	habits, err := t.filteredHabits(ctx, username, cadence)
	if err != nil {
		return model.HabitInstance{}, err
	}
	worst := habits[0]
	for _, h := range habits[1:] {
		if h.Streak < worst.Streak {
			worst = h
		}
	}
	return worst, nil
}

func (t *Tracker) filteredHabits(ctx context.Context, username string, cadence model.Cadence) ([]model.HabitInstance, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", repository.ErrMissingField)
	}
	user, err := t.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	habits := user.Habits
	if cadence != "" {
		filtered := habits[:0:0]
		for _, h := range habits {
			if h.Cadence == cadence {
				filtered = append(filtered, h)
			}
		}
		habits = filtered
	}
	if len(habits) == 0 {
		return nil, ErrNoHabits
	}
	return habits, nil
}
