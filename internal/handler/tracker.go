package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/middleware"
	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/queue"
	queue_publisher "github.com/iliyamo/habit-tracker/internal/service"
	"github.com/iliyamo/habit-tracker/internal/tracker"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

// TrackerHandler exposes the progression engine over HTTP.  Every route is
// registered behind middleware.UserAuth, which resolves the acting username
// into the request context.
type TrackerHandler struct {
	Tracker *tracker.Tracker

	// PublishEvents enables best-effort habit.completed events after
	// successful completion updates.  Off in tests.
	PublishEvents bool
}

func NewTrackerHandler(t *tracker.Tracker, publishEvents bool) *TrackerHandler {
	return &TrackerHandler{Tracker: t, PublishEvents: publishEvents}
}

// ----- DTOs -----

type assignReq struct {
	HabitID    string `json:"habit_id"`
	StartRange string `json:"start_range"`
	EndRange   string `json:"end_range"`
}

type assignCustomReq struct {
	Name        string `json:"name"`
	Cadence     string `json:"type"`
	StartRange  string `json:"start_range"`
	EndRange    string `json:"end_range"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
}

type removeReq struct {
	HabitID string `json:"habit_id"`
}

type listReq struct {
	Cadence string `json:"type"`
	Status  string `json:"status"`
}

// completeReq carries a completion report.  ContinueHabit is a pointer so an
// absent field can fall back to the endpoint default: true for daily
// updates, false for weekly ones, matching the original API's behavior.
type completeReq struct {
	HabitID        string `json:"habit_id"`
	CompletionDate string `json:"completion_date"`
	ContinueHabit  *bool  `json:"continue_habit"`
}

type cadenceFilterReq struct {
	Cadence string `json:"type"`
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Assign attaches a catalog habit to the acting user over the given range.
func (h *TrackerHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Tracker.AssignHabit(ctx, middleware.Username(c), req.HabitID, req.StartRange, req.EndRange); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "habit assigned successfully"})
}

// AssignCustom attaches a caller-defined habit to the acting user.
func (h *TrackerHandler) AssignCustom(c echo.Context) error {
	var req assignCustomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Tracker.AssignCustomHabit(ctx, middleware.Username(c), req.Name, model.Cadence(req.Cadence),
		req.StartRange, req.EndRange, req.Category, req.Subcategory, req.Description); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "habit assigned successfully"})
}

// Remove detaches one habit instance from the acting user.
func (h *TrackerHandler) Remove(c echo.Context) error {
	var req removeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tracker.RemoveHabit(ctx, middleware.Username(c), req.HabitID); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "habit removed successfully"})
}

// List returns the acting user's habit instances with optional cadence and
// status filters.
func (h *TrackerHandler) List(c echo.Context) error {
	var req listReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	habits, err := h.Tracker.ListUserHabits(ctx, middleware.Username(c), model.Cadence(req.Cadence), model.Status(req.Status))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "habits": habits})
}

// UpdateDaily applies a completion report to a daily habit.  continue_habit
// defaults to true when absent.
func (h *TrackerHandler) UpdateDaily(c echo.Context) error {
	return h.update(c, model.CadenceDaily, true)
}

// UpdateWeekly applies a completion report to a weekly habit.
// continue_habit defaults to false when absent.
func (h *TrackerHandler) UpdateWeekly(c echo.Context) error {
	return h.update(c, model.CadenceWeekly, false)
}

func (h *TrackerHandler) update(c echo.Context, cadence model.Cadence, continueDefault bool) error {
	var req completeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	continueHabit := continueDefault
	if req.ContinueHabit != nil {
		continueHabit = *req.ContinueHabit
	}
	username := middleware.Username(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	var habit model.HabitInstance
	var err error
	if cadence == model.CadenceDaily {
		habit, err = h.Tracker.UpdateDailyHabit(ctx, username, req.HabitID, req.CompletionDate, continueHabit)
	} else {
		habit, err = h.Tracker.UpdateWeeklyHabit(ctx, username, req.HabitID, req.CompletionDate, continueHabit)
	}
	if err != nil {
		return fail(c, err)
	}

	if h.PublishEvents {
		// Best effort: a broker outage must not fail the completion.
		_ = queue_publisher.PublishHabitCompleted(ctx, queue.HabitCompletedEvent{
			Username:       username,
			InstanceID:     habit.ID,
			HabitName:      habit.Name,
			Cadence:        string(habit.Cadence),
			CompletionTime: req.CompletionDate,
			Status:         string(habit.Status),
			Streak:         habit.Streak,
			LongestStreak:  habit.LongestStreak,
			RecordedAt:     utils.NowStamp(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "habit updated successfully"})
}

// LongestStreak returns the instance holding the user's longest-streak
// record, optionally restricted to one cadence.
func (h *TrackerHandler) LongestStreak(c echo.Context) error {
	var req cadenceFilterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	habit, err := h.Tracker.LongestStreakHabit(ctx, middleware.Username(c), model.Cadence(req.Cadence))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "habit": habit})
}

// Strugglest returns the instance with the lowest current streak, optionally
// restricted to one cadence.
func (h *TrackerHandler) Strugglest(c echo.Context) error {
	var req cadenceFilterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	habit, err := h.Tracker.StrugglestHabit(ctx, middleware.Username(c), model.Cadence(req.Cadence))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "habit": habit})
}
