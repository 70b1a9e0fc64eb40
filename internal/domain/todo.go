package domain

import "strings"

// Todo is one task record as the remote service stores it. ID zero marks a
// local placeholder that the server has not persisted yet.
type Todo struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewTodo builds an unsaved placeholder todo for one user.
func NewTodo(userID int64, title string) (Todo, error) {
	title = strings.TrimSpace(title)
	if userID <= 0 {
		return Todo{}, ErrInvalidUserID
	}
	if title == "" {
		return Todo{}, ErrInvalidTitle
	}
	return Todo{
		UserID: userID,
		Title:  title,
	}, nil
}

// Persisted reports whether the server has assigned an identity.
func (t Todo) Persisted() bool {
	return t.ID != 0
}

// CountActive returns the number of todos that are not completed.
func CountActive(todos []Todo) int {
	count := 0
	for _, t := range todos {
		if !t.Completed {
			count++
		}
	}
	return count
}
