package domain

import "strings"

// patchField identifies which variant a Patch carries.
type patchField int

const (
	patchNone patchField = iota
	patchCompleted
	patchTitle
)

// Patch is a tagged partial update: exactly one of the completed flag or the
// title is set. The zero Patch is invalid.
type Patch struct {
	field     patchField
	completed bool
	title     string
}

// CompletePatch builds a patch that sets the completed flag.
func CompletePatch(completed bool) Patch {
	return Patch{field: patchCompleted, completed: completed}
}

// RenamePatch builds a patch that replaces the title.
func RenamePatch(title string) (Patch, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Patch{}, ErrInvalidTitle
	}
	return Patch{field: patchTitle, title: title}, nil
}

// Completed returns the completed payload and whether this is the completed
// variant.
func (p Patch) Completed() (bool, bool) {
	return p.completed, p.field == patchCompleted
}

// Title returns the title payload and whether this is the title variant.
func (p Patch) Title() (string, bool) {
	return p.title, p.field == patchTitle
}

// IsZero reports whether no variant is set.
func (p Patch) IsZero() bool {
	return p.field == patchNone
}

// Apply returns a copy of the todo with the patched field replaced.
func (p Patch) Apply(t Todo) Todo {
	switch p.field {
	case patchCompleted:
		t.Completed = p.completed
	case patchTitle:
		t.Title = p.title
	}
	return t
}
