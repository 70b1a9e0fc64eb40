package app

import (
	"context"

	"github.com/hylla/sysla/internal/domain"
)

// API is the remote todos endpoint the service synchronizes against.
type API interface {
	ListTodos(context.Context, int64) ([]domain.Todo, error)
	CreateTodo(context.Context, domain.Todo) (domain.Todo, error)
	UpdateTodo(context.Context, int64, domain.Patch) (domain.Todo, error)
	DeleteTodo(context.Context, int64) error
}

// Journal records settled action outcomes locally. Implementations must
// tolerate concurrent appends.
type Journal interface {
	AppendActionEvent(context.Context, domain.ActionEvent) error
	ListActionEvents(context.Context, int) ([]domain.ActionEvent, error)
}
