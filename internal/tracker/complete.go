package tracker

import (
	"context"
	"fmt"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

// UpdateDailyHabit applies a completion report to a daily habit instance.
// With continueHabit set, the active window rolls forward by one day.
func (t *Tracker) UpdateDailyHabit(ctx context.Context, username, instanceID, completionTime string, continueHabit bool) (model.HabitInstance, error) {
	return t.updateHabit(ctx, username, instanceID, completionTime, continueHabit, model.CadenceDaily)
}

// UpdateWeeklyHabit applies a completion report to a weekly habit instance.
// With continueHabit set, the active window rolls forward by one week.
func (t *Tracker) UpdateWeeklyHabit(ctx context.Context, username, instanceID, completionTime string, continueHabit bool) (model.HabitInstance, error) {
	return t.updateHabit(ctx, username, instanceID, completionTime, continueHabit, model.CadenceWeekly)
}

// updateHabit is the progression state machine shared by both cadences.
//
// The completion counts as in-range when it falls inside the window that was
// active when the report arrived, bounds inclusive.  The comparison is done
// on the raw fixed-width strings, which orders the same as the parsed times.
//
// When continueHabit is set, both window bounds shift forward by one cadence
// unit whether or not the completion was in range.
//
// An in-range completion increments the streak and raises the longest-streak
// watermark.  The live status becomes "in progress" when the habit
// continues, "completed" when it stops; the log entry records the opposite
// pairing.  That inversion matches the long-standing on-disk format and
// downstream consumers read both fields, so it must not be normalized.
//
// An out-of-range completion folds the just-ended run into the watermark,
// resets the streak and fails the habit, in the live status and the log
// alike.
func (t *Tracker) updateHabit(ctx context.Context, username, instanceID, completionTime string, continueHabit bool, cadence model.Cadence) (model.HabitInstance, error) {
	if username == "" || instanceID == "" || completionTime == "" {
		return model.HabitInstance{}, fmt.Errorf("%w: username, habit_id and completion_date are required", repository.ErrMissingField)
	}
	if _, err := utils.ParseStamp(completionTime); err != nil {
		return model.HabitInstance{}, ErrInvalidDateFormat
	}

	user, err := t.Users.GetByUsername(ctx, username)
	if err != nil {
		return model.HabitInstance{}, err
	}

	idx := -1
	for i := range user.Habits {
		if user.Habits[i].ID == instanceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.HabitInstance{}, repository.ErrHabitNotFound
	}
	habit := &user.Habits[idx]
	if habit.Cadence != cadence {
		return model.HabitInstance{}, ErrWrongCadence
	}

	inRange := habit.StartRange <= completionTime && completionTime <= habit.EndRange

	if continueHabit {
		if err := t.rollWindow(habit); err != nil {
			return model.HabitInstance{}, err
		}
	}

	var logged model.Status
	if inRange {
		habit.Streak++
		habit.LongestStreak = max(habit.LongestStreak, habit.Streak)
		if continueHabit {
			habit.Status = model.StatusInProgress
			logged = model.StatusCompleted
		} else {
			habit.Status = model.StatusCompleted
			logged = model.StatusInProgress
		}
	} else {
		// The run ends here; capture it in the watermark before the reset.
		habit.LongestStreak = max(habit.LongestStreak, habit.Streak)
		habit.Streak = 0
		habit.Status = model.StatusFailed
		logged = model.StatusFailed
	}

	habit.LastCompletion = completionTime
	habit.CompletionLog = append(habit.CompletionLog, model.CompletionEntry{
		Time:          completionTime,
		Status:        logged,
		Streak:        habit.Streak,
		LongestStreak: habit.LongestStreak,
	})

	if err := t.Users.SaveHabits(ctx, user.ID, user.Habits); err != nil {
		return model.HabitInstance{}, err
	}
	return *habit, nil
}

// rollWindow shifts both range bounds forward by one cadence unit.  Stored
// ranges are validated at assignment and on every rollover, so a parse
// failure here means the document was corrupted outside the engine.
func (t *Tracker) rollWindow(habit *model.HabitInstance) error {
	start, err := utils.ParseStamp(habit.StartRange)
	if err != nil {
		return fmt.Errorf("stored start_range unparseable: %w", err)
	}
	end, err := utils.ParseStamp(habit.EndRange)
	if err != nil {
		return fmt.Errorf("stored end_range unparseable: %w", err)
	}
	days := 1
	if habit.Cadence == model.CadenceWeekly {
		days = 7
	}
	habit.StartRange = utils.FormatStamp(start.AddDate(0, 0, days))
	habit.EndRange = utils.FormatStamp(end.AddDate(0, 0, days))
	return nil
}
