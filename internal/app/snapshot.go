package app

import (
	"slices"

	"github.com/hylla/sysla/internal/domain"
)

// ErrorKind identifies the single visible error banner. Later errors
// overwrite earlier ones; ErrorNone is the resting state.
type ErrorKind string

// ErrorKind values in the order failures surface during the session.
const (
	ErrorNone   ErrorKind = ""
	ErrorLoad   ErrorKind = "load"
	ErrorAdd    ErrorKind = "add"
	ErrorDelete ErrorKind = "delete"
	ErrorUpdate ErrorKind = "update"
	ErrorTitle  ErrorKind = "title"
)

// Message returns the fixed user-facing banner text for this kind. Raw
// transport detail never reaches the presentation layer.
func (k ErrorKind) Message() string {
	switch k {
	case ErrorLoad:
		return "Unable to load todos"
	case ErrorAdd:
		return "Unable to add a todo"
	case ErrorDelete:
		return "Unable to delete a todo"
	case ErrorUpdate:
		return "Unable to update a todo"
	case ErrorTitle:
		return "Title should not be empty"
	default:
		return ""
	}
}

// Snapshot is one immutable view of the synchronized state. Every derivation
// is recomputed from the canonical list it carries; nothing is memoized.
type Snapshot struct {
	Todos      []domain.Todo `json:"todos"`
	Filter     domain.Filter `json:"filter"`
	TempTodo   *domain.Todo  `json:"temp_todo,omitempty"`
	PendingIDs []int64       `json:"pending_ids"`
	Error      ErrorKind     `json:"error,omitempty"`
	Loaded     bool          `json:"loaded"`
}

// Visible returns the subset selected by the snapshot's active filter.
func (s Snapshot) Visible() []domain.Todo {
	return s.Filter.Apply(s.Todos)
}

// ActiveCount returns the number of incomplete todos in the canonical list.
func (s Snapshot) ActiveCount() int {
	return domain.CountActive(s.Todos)
}

// TotalCount returns the canonical list length.
func (s Snapshot) TotalCount() int {
	return len(s.Todos)
}

// CompletedCount returns the number of completed todos.
func (s Snapshot) CompletedCount() int {
	return len(s.Todos) - s.ActiveCount()
}

// IsPending reports whether the given id has a round-trip in flight.
func (s Snapshot) IsPending(id int64) bool {
	return slices.Contains(s.PendingIDs, id)
}

// TodoByID returns the canonical entry with the given id.
func (s Snapshot) TodoByID(id int64) (domain.Todo, bool) {
	for _, t := range s.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Todo{}, false
}
