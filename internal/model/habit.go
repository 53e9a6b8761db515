package model

// Cadence is the rhythm of a habit.  It controls the in-range check on
// completion reports and how far the active window rolls forward after a
// completion: one day for daily habits, one week for weekly ones.
type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
)

// Valid reports whether the cadence is one of the two supported values.
func (c Cadence) Valid() bool {
	return c == CadenceDaily || c == CadenceWeekly
}

// Status is the live state of an assigned habit instance.
type Status string

const (
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// HabitTemplate is a catalog entry: a predefined habit users can assign to
// themselves.  Templates are immutable once created except via explicit
// admin removal; assignment copies the fields into a HabitInstance, so later
// template edits never touch already-assigned instances.
type HabitTemplate struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Cadence     Cadence `json:"type"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Description string  `json:"description"`
}

// CompletionEntry is one record in a habit's completion log.  Entries are
// append-only and immutable once written.
type CompletionEntry struct {
	Time          string `json:"datetime"`
	Status        Status `json:"status"`
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longest_streak"`
}

// HabitInstance is a habit assigned to a user.  Instances are embedded in
// the user document; no other entity holds a reference to one.  TemplateID
// is empty for custom habits.  StartRange and EndRange bound the current
// active window in the fixed "YYYY-MM-DD HH:MM" format and always satisfy
// EndRange > StartRange.
type HabitInstance struct {
	ID             string            `json:"_id"`
	TemplateID     string            `json:"habit_id,omitempty"`
	Name           string            `json:"name"`
	Cadence        Cadence           `json:"type"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory"`
	Description    string            `json:"description"`
	StartRange     string            `json:"start_range"`
	EndRange       string            `json:"end_range"`
	Status         Status            `json:"status"`
	Streak         int               `json:"streak"`
	LongestStreak  int               `json:"longest_streak"`
	CreatedAt      string            `json:"creation_datetime"`
	LastCompletion string            `json:"completion_datetime,omitempty"`
	CompletionLog  []CompletionEntry `json:"completion_datetimes,omitempty"`
}
