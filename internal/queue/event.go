// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// HabitCompletedEvent is published after a completion report is applied to a
// habit instance.  It carries enough for downstream consumers to log or feed
// analytics without querying the primary store.
type HabitCompletedEvent struct {
	Username       string `json:"username"`
	InstanceID     string `json:"instance_id"`
	HabitName      string `json:"habit_name"`
	Cadence        string `json:"cadence"`
	CompletionTime string `json:"completion_time"`
	Status         string `json:"status"`
	Streak         int    `json:"streak"`
	LongestStreak  int    `json:"longest_streak"`
	RecordedAt     string `json:"recorded_at"`
}
