package domain

import "time"

// ActionOperation describes one journaled client action against the remote
// service.
type ActionOperation string

// ActionOperation values used by the local action journal.
const (
	ActionOperationLoad           ActionOperation = "load"
	ActionOperationAdd            ActionOperation = "add"
	ActionOperationRemove         ActionOperation = "remove"
	ActionOperationUpdate         ActionOperation = "update"
	ActionOperationToggleAll      ActionOperation = "toggle_all"
	ActionOperationClearCompleted ActionOperation = "clear_completed"
)

// ActionEvent represents a single settled action outcome: what was attempted,
// against which todo, and whether the round-trip failed.
type ActionEvent struct {
	ID         int64
	Operation  ActionOperation
	TodoID     int64
	Title      string
	Failure    string
	OccurredAt time.Time
}

// Failed reports whether the recorded action settled with an error.
func (e ActionEvent) Failed() bool {
	return e.Failure != ""
}
