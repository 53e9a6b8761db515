// Package simulator seeds a demo dataset by driving the tracker engine's
// public operations: it registers a test user, fills the catalog, assigns
// every habit and replays a configurable number of days of completion
// reports with a given success probability.  It exists for demos and tests
// only; nothing in the request path depends on it.
package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/tracker"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

// Config is the JSON shape of the simulation config file.
type Config struct {
	TestUser struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Name     string `json:"name"`
	} `json:"test_user"`
	Habits     []model.HabitTemplate `json:"habits"`
	Simulation struct {
		// HabitTimeRanges maps a predefined habit name to its daily time
		// window, both bounds as "HH:MM".
		HabitTimeRanges map[string]TimeWindow `json:"habit_time_ranges"`
		CustomHabits    []CustomHabit         `json:"custom_habits"`
		SimulatedDays   int                   `json:"expected_simulated_time"`
	} `json:"simulation"`
}

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type CustomHabit struct {
	Name        string `json:"name"`
	Cadence     string `json:"type"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
}

// Interaction records one simulated completion report for the demo log.
type Interaction struct {
	Action  string `json:"action"`
	Habit   string `json:"habit"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Simulator drives the engine.  SuccessProb is the chance a simulated
// completion lands inside the habit's active window.
type Simulator struct {
	Users       *repository.UserRepo
	Catalog     *repository.CatalogRepo
	Tracker     *tracker.Tracker
	SuccessProb float64

	rng *rand.Rand
}

func New(users *repository.UserRepo, catalog *repository.CatalogRepo, t *tracker.Tracker, successProb float64) *Simulator {
	return &Simulator{
		Users:       users,
		Catalog:     catalog,
		Tracker:     t,
		SuccessProb: successProb,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// LoadConfig reads and decodes a simulation config file.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read simulation config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode simulation config: %w", err)
	}
	return cfg, nil
}

// Run seeds the dataset and replays the configured days of interactions.
// Seeding is idempotent: an existing test user or template is reused, so a
// restarted server does not duplicate demo data.
func (s *Simulator) Run(ctx context.Context, cfg Config) ([]Interaction, error) {
	tu := cfg.TestUser
	if _, err := s.Users.Create(ctx, tu.Username, tu.Email, tu.Name, tu.Password, 10); err != nil {
		if !errors.Is(err, repository.ErrUsernameExists) && !errors.Is(err, repository.ErrEmailExists) {
			return nil, fmt.Errorf("create test user: %w", err)
		}
		log.Printf("simulator: reusing existing test user %q", tu.Username)
	}

	for _, tpl := range cfg.Habits {
		if _, err := s.Catalog.GetByName(ctx, tpl.Name); err == nil {
			log.Printf("simulator: template %q already exists", tpl.Name)
			continue
		}
		if _, err := s.Catalog.Add(ctx, tpl); err != nil {
			return nil, fmt.Errorf("create template %q: %w", tpl.Name, err)
		}
	}

	if err := s.assignAll(ctx, cfg); err != nil {
		return nil, err
	}
	return s.replayDays(ctx, cfg)
}

// assignAll gives the test user every predefined template (over its
// configured daily window) plus each custom habit.
func (s *Simulator) assignAll(ctx context.Context, cfg Config) error {
	username := cfg.TestUser.Username
	templates, err := s.Catalog.List(ctx, "")
	if err != nil {
		return err
	}
	for _, tpl := range templates {
		window, ok := cfg.Simulation.HabitTimeRanges[tpl.Name]
		if !ok {
			continue
		}
		start, end, err := windowToday(window.Start, window.End)
		if err != nil {
			return fmt.Errorf("window for %q: %w", tpl.Name, err)
		}
		if _, err := s.Tracker.AssignHabit(ctx, username, tpl.ID, start, end); err != nil {
			return fmt.Errorf("assign %q: %w", tpl.Name, err)
		}
	}
	for _, ch := range cfg.Simulation.CustomHabits {
		start, end, err := windowToday(ch.Start, ch.End)
		if err != nil {
			return fmt.Errorf("window for %q: %w", ch.Name, err)
		}
		if _, err := s.Tracker.AssignCustomHabit(ctx, username, ch.Name, model.Cadence(ch.Cadence),
			start, end, ch.Category, ch.Subcategory, ch.Description); err != nil {
			return fmt.Errorf("assign custom %q: %w", ch.Name, err)
		}
	}
	return nil
}

// replayDays walks the simulated calendar.  Daily habits are completed every
// day, weekly habits every seventh; each completion either lands just inside
// the active window or just past its end, depending on the success roll.
func (s *Simulator) replayDays(ctx context.Context, cfg Config) ([]Interaction, error) {
	username := cfg.TestUser.Username
	interactions := make([]Interaction, 0, cfg.Simulation.SimulatedDays)

	for day := 0; day < cfg.Simulation.SimulatedDays; day++ {
		habits, err := s.Tracker.ListUserHabits(ctx, username, "", "")
		if err != nil {
			return nil, err
		}
		for _, h := range habits {
			if h.Cadence == model.CadenceWeekly && day%7 != 0 {
				continue
			}
			success := s.rng.Float64() < s.SuccessProb
			completion, err := completionStamp(h, success)
			if err != nil {
				return nil, err
			}
			if h.Cadence == model.CadenceDaily {
				_, err = s.Tracker.UpdateDailyHabit(ctx, username, h.ID, completion, true)
			} else {
				_, err = s.Tracker.UpdateWeeklyHabit(ctx, username, h.ID, completion, true)
			}
			inter := Interaction{Action: "complete", Habit: h.Name, Success: err == nil}
			if err != nil {
				inter.Error = err.Error()
			}
			interactions = append(interactions, inter)
		}
	}
	return interactions, nil
}

// SaveInteractions writes the interactions log as indented JSON.
func SaveInteractions(path string, interactions []Interaction) error {
	raw, err := json.MarshalIndent(interactions, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write interactions: %w", err)
	}
	return nil
}

// windowToday builds a range on today's date from two "HH:MM" bounds.
func windowToday(startHM, endHM string) (string, string, error) {
	now := time.Now()
	start, err := atToday(now, startHM)
	if err != nil {
		return "", "", err
	}
	end, err := atToday(now, endHM)
	if err != nil {
		return "", "", err
	}
	return utils.FormatStamp(start), utils.FormatStamp(end), nil
}

func atToday(now time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", hm, err)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// completionStamp picks a completion time relative to the habit's current
// window: one minute after the start for a success, one hour past the end
// for a failure.
func completionStamp(h model.HabitInstance, success bool) (string, error) {
	if success {
		start, err := utils.ParseStamp(h.StartRange)
		if err != nil {
			return "", err
		}
		return utils.FormatStamp(start.Add(time.Minute)), nil
	}
	end, err := utils.ParseStamp(h.EndRange)
	if err != nil {
		return "", err
	}
	return utils.FormatStamp(end.Add(time.Hour)), nil
}
