package tracker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/store"
)

const testUser = "maria"

func setup(t *testing.T) (context.Context, *Tracker) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemoryStore()
	users := repository.NewUserRepo(mem)
	catalog := repository.NewCatalogRepo(mem)
	tr := New(users, catalog)
	_, err := users.Create(ctx, testUser, "maria@example.com", "Maria", "s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	return ctx, tr
}

func seedTemplate(t *testing.T, ctx context.Context, tr *Tracker, name string, cadence model.Cadence) model.HabitTemplate {
	t.Helper()
	tpl, err := tr.Catalog.Add(ctx, model.HabitTemplate{
		Name:        name,
		Cadence:     cadence,
		Category:    "health",
		Subcategory: "fitness",
		Description: "demo habit",
	})
	require.NoError(t, err)
	return tpl
}

// setHabits replaces the test user's habit list directly, bypassing the
// assignment path, so analytics tests can stage precise streak values.
func setHabits(t *testing.T, ctx context.Context, tr *Tracker, habits []model.HabitInstance) {
	t.Helper()
	u, err := tr.Users.GetByUsername(ctx, testUser)
	require.NoError(t, err)
	require.NoError(t, tr.Users.SaveHabits(ctx, u.ID, habits))
}

func TestAssignHabit_CopiesTemplate(t *testing.T) {
	ctx, tr := setup(t)
	tpl := seedTemplate(t, ctx, tr, "Morning run", model.CadenceDaily)

	inst, err := tr.AssignHabit(ctx, testUser, tpl.ID, "2023-01-01 10:00", "2023-01-02 10:00")
	require.NoError(t, err)

	assert.NotEmpty(t, inst.ID)
	assert.Equal(t, tpl.ID, inst.TemplateID)
	assert.Equal(t, "Morning run", inst.Name)
	assert.Equal(t, model.CadenceDaily, inst.Cadence)
	assert.Equal(t, "health", inst.Category)
	assert.Equal(t, model.StatusInProgress, inst.Status)
	assert.Zero(t, inst.Streak)
	assert.Zero(t, inst.LongestStreak)
	assert.Empty(t, inst.CompletionLog)
	assert.NotEmpty(t, inst.CreatedAt)

	// Persisted, and a second assignment gets its own instance id.
	again, err := tr.AssignHabit(ctx, testUser, tpl.ID, "2023-01-01 10:00", "2023-01-02 10:00")
	require.NoError(t, err)
	assert.NotEqual(t, inst.ID, again.ID)

	habits, err := tr.ListUserHabits(ctx, testUser, "", "")
	require.NoError(t, err)
	assert.Len(t, habits, 2)
}

func TestAssignHabit_Validation(t *testing.T) {
	ctx, tr := setup(t)
	tpl := seedTemplate(t, ctx, tr, "Read", model.CadenceDaily)

	tests := []struct {
		name     string
		username string
		tplID    string
		start    string
		end      string
		wantErr  error
	}{
		{"missing range", testUser, tpl.ID, "", "2023-01-02 10:00", repository.ErrMissingField},
		{"end before start", testUser, tpl.ID, "2023-01-03 10:00", "2023-01-02 10:00", ErrInvalidRange},
		{"end equals start", testUser, tpl.ID, "2023-01-02 10:00", "2023-01-02 10:00", ErrInvalidRange},
		{"bad format", testUser, tpl.ID, "01/01/2023 10:00", "2023-01-02 10:00", ErrInvalidDateFormat},
		{"unknown user", "nobody", tpl.ID, "2023-01-01 10:00", "2023-01-02 10:00", repository.ErrUserNotFound},
		{"unknown template", testUser, "missing-id", "2023-01-01 10:00", "2023-01-02 10:00", repository.ErrHabitNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tr.AssignHabit(ctx, tc.username, tc.tplID, tc.start, tc.end)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Nothing was created by any failed attempt.
	habits, err := tr.ListUserHabits(ctx, testUser, "", "")
	require.NoError(t, err)
	assert.Empty(t, habits)
}

func TestAssignHabit_RangeCheckedBeforeUserLookup(t *testing.T) {
	ctx, tr := setup(t)
	// Both the range and the user are wrong; the range failure wins.
	_, err := tr.AssignHabit(ctx, "nobody", "some-id", "2023-01-03 10:00", "2023-01-02 10:00")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestAssignCustomHabit(t *testing.T) {
	ctx, tr := setup(t)

	inst, err := tr.AssignCustomHabit(ctx, testUser, "Journal", model.CadenceWeekly,
		"2023-01-01 08:00", "2023-01-08 08:00", "", "", "")
	require.NoError(t, err)
	assert.Empty(t, inst.TemplateID)
	assert.Equal(t, model.CadenceWeekly, inst.Cadence)
	assert.Empty(t, inst.Category)

	_, err = tr.AssignCustomHabit(ctx, testUser, "", model.CadenceDaily,
		"2023-01-01 08:00", "2023-01-02 08:00", "", "", "")
	assert.ErrorIs(t, err, repository.ErrMissingField)

	_, err = tr.AssignCustomHabit(ctx, testUser, "Nap", "monthly",
		"2023-01-01 08:00", "2023-01-02 08:00", "", "", "")
	assert.ErrorIs(t, err, repository.ErrInvalidCadence)
}

func TestUpdateDaily_InRangeWithContinue(t *testing.T) {
	ctx, tr := setup(t)
	tpl := seedTemplate(t, ctx, tr, "Morning run", model.CadenceDaily)
	inst, err := tr.AssignHabit(ctx, testUser, tpl.ID, "2023-01-01 10:00", "2023-01-02 10:00")
	require.NoError(t, err)

	got, err := tr.UpdateDailyHabit(ctx, testUser, inst.ID, "2023-01-01 10:00", true)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, "2023-01-02 10:00", got.StartRange)
	assert.Equal(t, "2023-01-03 10:00", got.EndRange)
	assert.Equal(t, "2023-01-01 10:00", got.LastCompletion)

	require.Len(t, got.CompletionLog, 1)
	entry := got.CompletionLog[0]
	// The log records the opposite status of the live field on in-range
	// completions; consumers of the historical export rely on it.
	assert.Equal(t, model.StatusCompleted, entry.Status)
	assert.Equal(t, 1, entry.Streak)
	assert.Equal(t, 1, entry.LongestStreak)
}

func TestUpdateDaily_InRangeWithoutContinue(t *testing.T) {
	ctx, tr := setup(t)
	tpl := seedTemplate(t, ctx, tr, "Morning run", model.CadenceDaily)
	inst, err := tr.AssignHabit(ctx, testUser, tpl.ID, "2023-01-01 10:00", "2023-01-02 10:00")
	require.NoError(t, err)

	got, err := tr.UpdateDailyHabit(ctx, testUser, inst.ID, "2023-01-01 12:00", false)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, got.Status)
	require.Len(t, got.CompletionLog, 1)
	assert.Equal(t, model.StatusInProgress, got.CompletionLog[0].Status)
	// Without the continue flag the window stays put.
	assert.Equal(t, "2023-01-01 10:00", got.StartRange)
	assert.Equal(t, "2023-01-02 10:00", got.EndRange)
}

func TestUpdateDaily_OutOfRangeFails(t *testing.T) {
	ctx, tr := setup(t)
	tpl := seedTemplate(t, ctx, tr, "Morning run", model.CadenceDaily)
	inst, err := tr.AssignHabit(ctx, testUser, tpl.ID, "2023-01-01 10:00", "2023-01-02 10:00")
	require.NoError(t, err)

	got, err := tr.UpdateDailyHabit(ctx, testUser, inst.ID, "2023-01-05 10:00", false)
	require.NoError(t, err)

	assert.Zero(t, got.Streak)
	assert.Zero(t, got.LongestStreak)
	assert.Equal(t, model.StatusFailed, got.Status)
	require.Len(t, got.CompletionLog, 1)
	assert.Equal(t, model.StatusFailed, got.CompletionLog[0].Status)
}

func TestUpdateDaily_RolloverIndependentOfRange(t *testing.T) {
	ctx, tr := setup(t)
	tpl := seedTemplate(t, ctx, tr, "Morning run", model.CadenceDaily)
	inst, err := tr.AssignHabit(ctx, testUser, tpl.ID, "2023-01-01 10:00", "2023-01-02 10:00")
	require.NoError(t, err)

	// Out of range but continue set: the habit fails, yet the window still
	// moves forward one day.
	got, err := tr.UpdateDailyHabit(ctx, testUser, inst.ID, "2023-01-05 10:00", true)
	require.NoError(t, err)

	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Equal(t, "2023-01-02 10:00", got.StartRange)
	assert.Equal(t, "2023-01-03 10:00", got.EndRange)
}

func TestUpdateWeekly_RollsOneWeek(t *testing.T) {
	ctx, tr := setup(t)
	inst, err := tr.AssignCustomHabit(ctx, testUser, "Meal prep", model.CadenceWeekly,
		"2023-01-01 09:00", "2023-01-08 09:00", "", "", "")
	require.NoError(t, err)

	got, err := tr.UpdateWeeklyHabit(ctx, testUser, inst.ID, "2023-01-03 09:00", true)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Streak)
	assert.Equal(t, "2023-01-08 09:00", got.StartRange)
	assert.Equal(t, "2023-01-15 09:00", got.EndRange)
}

func TestUpdate_RangeBoundsInclusive(t *testing.T) {
	ctx, tr := setup(t)

	for _, stamp := range []string{"2023-01-01 10:00", "2023-01-02 10:00"} {
		inst, err := tr.AssignCustomHabit(ctx, testUser, "Stretch "+stamp, model.CadenceDaily,
			"2023-01-01 10:00", "2023-01-02 10:00", "", "", "")
		require.NoError(t, err)

		got, err := tr.UpdateDailyHabit(ctx, testUser, inst.ID, stamp, false)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Streak, "completion at %s should count", stamp)
	}
}

func TestUpdate_Preconditions(t *testing.T) {
	ctx, tr := setup(t)
	inst, err := tr.AssignCustomHabit(ctx, testUser, "Meditate", model.CadenceWeekly,
		"2023-01-01 09:00", "2023-01-08 09:00", "", "", "")
	require.NoError(t, err)

	_, err = tr.UpdateDailyHabit(ctx, "nobody", inst.ID, "2023-01-01 09:30", true)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = tr.UpdateDailyHabit(ctx, testUser, "missing-id", "2023-01-01 09:30", true)
	assert.ErrorIs(t, err, repository.ErrHabitNotFound)

	// Weekly instance submitted to the daily endpoint.
	_, err = tr.UpdateDailyHabit(ctx, testUser, inst.ID, "2023-01-01 09:30", true)
	assert.ErrorIs(t, err, ErrWrongCadence)

	_, err = tr.UpdateWeeklyHabit(ctx, testUser, inst.ID, "not a date", true)
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	// None of the failures logged anything.
	habits, err := tr.ListUserHabits(ctx, testUser, "", "")
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Empty(t, habits[0].CompletionLog)
}

func TestUpdate_WatermarkAndLogGrowth(t *testing.T) {
	ctx, tr := setup(t)
	inst, err := tr.AssignCustomHabit(ctx, testUser, "Pushups", model.CadenceDaily,
		"2023-01-01 10:00", "2023-01-02 10:00", "", "", "")
	require.NoError(t, err)

	// Three in-range completions, one miss, two more in-range completions.
	// The streak resets in the middle; the watermark never goes down and the
	// log grows by exactly one entry per report.
	reports := []struct {
		offsetDays  int
		inRange     bool
		wantStreak  int
		wantLongest int
	}{
		{0, true, 1, 1},
		{1, true, 2, 2},
		{2, true, 3, 3},
		{0, false, 0, 3},
		{4, true, 1, 3},
		{5, true, 2, 3},
	}
	for i, r := range reports {
		stamp := "2023-03-01 10:00" // far outside every window
		if r.inRange {
			stamp = fmt.Sprintf("2023-01-0%d 10:30", 1+r.offsetDays)
		}
		got, err := tr.UpdateDailyHabit(ctx, testUser, inst.ID, stamp, true)
		require.NoError(t, err)
		assert.Equal(t, r.wantStreak, got.Streak, "report %d", i)
		assert.Equal(t, r.wantLongest, got.LongestStreak, "report %d", i)
		assert.GreaterOrEqual(t, got.LongestStreak, got.Streak, "report %d", i)
		assert.Len(t, got.CompletionLog, i+1, "report %d", i)
	}
}

func TestListUserHabits_Filters(t *testing.T) {
	ctx, tr := setup(t)
	setHabits(t, ctx, tr, []model.HabitInstance{
		{ID: "a", Name: "Run", Cadence: model.CadenceDaily, Status: model.StatusInProgress},
		{ID: "b", Name: "Prep", Cadence: model.CadenceWeekly, Status: model.StatusFailed},
		{ID: "c", Name: "Read", Cadence: model.CadenceDaily, Status: model.StatusFailed},
	})

	all, err := tr.ListUserHabits(ctx, testUser, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Repeating the call without mutations returns the identical list.
	again, err := tr.ListUserHabits(ctx, testUser, "", "")
	require.NoError(t, err)
	assert.Equal(t, all, again)

	daily, err := tr.ListUserHabits(ctx, testUser, model.CadenceDaily, "")
	require.NoError(t, err)
	assert.Len(t, daily, 2)

	// Filters are ANDed.
	dailyFailed, err := tr.ListUserHabits(ctx, testUser, model.CadenceDaily, model.StatusFailed)
	require.NoError(t, err)
	require.Len(t, dailyFailed, 1)
	assert.Equal(t, "c", dailyFailed[0].ID)

	// No match is a success with an empty list.
	none, err := tr.ListUserHabits(ctx, testUser, model.CadenceWeekly, model.StatusCompleted)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = tr.ListUserHabits(ctx, "nobody", "", "")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestRemoveHabit(t *testing.T) {
	ctx, tr := setup(t)
	setHabits(t, ctx, tr, []model.HabitInstance{
		{ID: "a", Name: "Run", Cadence: model.CadenceDaily},
		{ID: "b", Name: "Prep", Cadence: model.CadenceWeekly},
		{ID: "c", Name: "Read", Cadence: model.CadenceDaily},
	})

	require.NoError(t, tr.RemoveHabit(ctx, testUser, "b"))

	habits, err := tr.ListUserHabits(ctx, testUser, "", "")
	require.NoError(t, err)
	require.Len(t, habits, 2)
	// Remaining instances keep their order.
	assert.Equal(t, "a", habits[0].ID)
	assert.Equal(t, "c", habits[1].ID)

	assert.ErrorIs(t, tr.RemoveHabit(ctx, testUser, "b"), repository.ErrHabitNotFound)
	assert.ErrorIs(t, tr.RemoveHabit(ctx, "nobody", "a"), repository.ErrUserNotFound)
}

func TestLongestStreakHabit(t *testing.T) {
	ctx, tr := setup(t)
	setHabits(t, ctx, tr, []model.HabitInstance{
		{ID: "a", Name: "Run", Cadence: model.CadenceDaily, LongestStreak: 5},
		{ID: "b", Name: "Prep", Cadence: model.CadenceWeekly, LongestStreak: 4},
		{ID: "c", Name: "Read", Cadence: model.CadenceDaily, LongestStreak: 3},
	})

	// The cadence filter hides the higher daily value.
	got, err := tr.LongestStreakHabit(ctx, testUser, model.CadenceWeekly)
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	got, err = tr.LongestStreakHabit(ctx, testUser, "")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = tr.LongestStreakHabit(ctx, testUser, "monthly")
	assert.ErrorIs(t, err, ErrNoHabits)
}

func TestLongestStreakHabit_TieKeepsFirst(t *testing.T) {
	ctx, tr := setup(t)
	setHabits(t, ctx, tr, []model.HabitInstance{
		{ID: "a", Cadence: model.CadenceDaily, LongestStreak: 4},
		{ID: "b", Cadence: model.CadenceDaily, LongestStreak: 4},
	})
	got, err := tr.LongestStreakHabit(ctx, testUser, "")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}

func TestStrugglestHabit(t *testing.T) {
	ctx, tr := setup(t)
	setHabits(t, ctx, tr, []model.HabitInstance{
		{ID: "a", Name: "Run", Cadence: model.CadenceDaily, Streak: 1, LongestStreak: 9},
		{ID: "b", Name: "Prep", Cadence: model.CadenceWeekly, Streak: 5},
		{ID: "c", Name: "Read", Cadence: model.CadenceDaily, Streak: 2},
	})

	// Lowest current streak among daily habits, not the weakest historical
	// best.
	got, err := tr.StrugglestHabit(ctx, testUser, model.CadenceDaily)
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = tr.StrugglestHabit(ctx, "nobody", "")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	setHabits(t, ctx, tr, nil)
	_, err = tr.StrugglestHabit(ctx, testUser, "")
	assert.ErrorIs(t, err, ErrNoHabits)
}

func TestStrugglestHabit_TieKeepsFirst(t *testing.T) {
	ctx, tr := setup(t)
	setHabits(t, ctx, tr, []model.HabitInstance{
		{ID: "a", Cadence: model.CadenceDaily, Streak: 2},
		{ID: "b", Cadence: model.CadenceDaily, Streak: 2},
	})
	got, err := tr.StrugglestHabit(ctx, testUser, "")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}
