package domain

import "strings"

// Filter selects the visible subset of the canonical list. It never mutates
// canonical data.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var validFilters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter normalizes raw config/CLI input into a Filter.
func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.TrimSpace(strings.ToLower(raw)))
	if f == "" {
		return FilterAll, nil
	}
	for _, known := range validFilters {
		if f == known {
			return f, nil
		}
	}
	return "", ErrInvalidFilter
}

// Apply returns the todos visible under this filter. The result is always a
// fresh slice; the input is never aliased or reordered.
func (f Filter) Apply(todos []Todo) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		switch f {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// String handles string.
func (f Filter) String() string {
	if f == "" {
		return string(FilterAll)
	}
	return string(f)
}
