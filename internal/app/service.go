package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hylla/sysla/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	UserID        int64
	Journal       Journal
	Clock         Clock
	DefaultFilter domain.Filter
}

// Service owns the synchronized todo state for one user: the canonical list,
// the in-flight placeholder, per-id pending markers, the active filter, and
// the single visible error. Mutations map one user intent to one or more
// remote calls and reconcile the list from server responses.
//
// Commands run in goroutines, so the state that a browser event loop would
// serialize implicitly is guarded by a mutex here. The lock is never held
// across a network round-trip.
type Service struct {
	api     API
	journal Journal
	clock   Clock
	userID  int64

	mu      sync.Mutex
	todos   []domain.Todo
	filter  domain.Filter
	temp    *domain.Todo
	pending map[int64]struct{}
	errKind ErrorKind
	loaded  bool
}

// NewService constructs a new value for this package.
func NewService(api API, cfg ServiceConfig) (*Service, error) {
	if api == nil {
		return nil, ErrNoAPI
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.DefaultFilter == "" {
		cfg.DefaultFilter = domain.FilterAll
	}
	if cfg.UserID <= 0 {
		cfg.UserID = 1
	}
	return &Service{
		api:     api,
		journal: cfg.Journal,
		clock:   cfg.Clock,
		userID:  cfg.UserID,
		filter:  cfg.DefaultFilter,
		pending: map[int64]struct{}{},
	}, nil
}

// UserID returns the fixed account the service is scoped to.
func (s *Service) UserID() int64 {
	return s.userID
}

// Snapshot returns the current immutable state view.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetFilter switches the visible subset without touching canonical data.
func (s *Service) SetFilter(filter domain.Filter) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch filter {
	case domain.FilterAll, domain.FilterActive, domain.FilterCompleted:
		s.filter = filter
	}
	return s.snapshotLocked()
}

// DismissError resets the visible error banner.
func (s *Service) DismissError() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errKind = ErrorNone
	return s.snapshotLocked()
}

// Load fetches the full list for the configured user and replaces the
// canonical list on success. On failure the list stays unchanged and the
// load error kind is set.
func (s *Service) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.errKind = ErrorNone
	s.mu.Unlock()

	todos, err := s.api.ListTodos(ctx, s.userID)

	s.mu.Lock()
	if err != nil {
		s.errKind = ErrorLoad
	} else {
		s.todos = todos
		s.loaded = true
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.journalEvent(ctx, domain.ActionOperationLoad, 0, "", err)
	if err != nil {
		return snap, fmt.Errorf("list todos: %w", err)
	}
	return snap, nil
}

// Add creates one todo from the given title. A blank title is rejected
// client-side and never reaches the wire. While the create is in flight the
// placeholder is visible as the snapshot's temp todo; it is cleared
// unconditionally once the call settles.
func (s *Service) Add(ctx context.Context, title string) (Snapshot, error) {
	placeholder, err := domain.NewTodo(s.userID, title)
	if err != nil {
		s.mu.Lock()
		s.errKind = ErrorTitle
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}

	s.mu.Lock()
	s.errKind = ErrorNone
	s.temp = &placeholder
	s.mu.Unlock()

	created, err := s.api.CreateTodo(ctx, placeholder)

	s.mu.Lock()
	s.temp = nil
	if err != nil {
		s.errKind = ErrorAdd
	} else {
		s.todos = append(s.todos, created)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.journalEvent(ctx, domain.ActionOperationAdd, created.ID, placeholder.Title, err)
	if err != nil {
		return snap, fmt.Errorf("create todo: %w", err)
	}
	return snap, nil
}

// Remove deletes one todo by id. The id stays pending until the round-trip
// settles; on failure the canonical list is left unchanged.
func (s *Service) Remove(ctx context.Context, id int64) (Snapshot, error) {
	if id <= 0 {
		return s.Snapshot(), fmt.Errorf("delete todo %d: %w", id, domain.ErrInvalidID)
	}

	s.mu.Lock()
	s.errKind = ErrorNone
	s.pending[id] = struct{}{}
	title := s.titleLocked(id)
	s.mu.Unlock()

	err := s.api.DeleteTodo(ctx, id)

	s.mu.Lock()
	delete(s.pending, id)
	if err != nil {
		s.errKind = ErrorDelete
	} else {
		s.removeLocked(id)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.journalEvent(ctx, domain.ActionOperationRemove, id, title, err)
	if err != nil {
		return snap, fmt.Errorf("delete todo %d: %w", id, err)
	}
	return snap, nil
}

// RemoveCompleted deletes every completed todo, one remote call per item in
// parallel, then reconciles the list from the individual outcomes: only ids
// whose delete succeeded leave the canonical list. Any failure surfaces as
// the delete error kind.
func (s *Service) RemoveCompleted(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.errKind = ErrorNone
	var targets []domain.Todo
	for _, t := range s.todos {
		if t.Completed {
			targets = append(targets, t)
			s.pending[t.ID] = struct{}{}
		}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if len(targets) == 0 {
		return snap, nil
	}

	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(idx int, id int64) {
			defer wg.Done()
			errs[idx] = s.api.DeleteTodo(ctx, id)
		}(i, target.ID)
	}
	wg.Wait()

	failed := false
	s.mu.Lock()
	for i, target := range targets {
		delete(s.pending, target.ID)
		if errs[i] != nil {
			failed = true
			continue
		}
		s.removeLocked(target.ID)
	}
	if failed {
		s.errKind = ErrorDelete
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()

	for i, target := range targets {
		s.journalEvent(ctx, domain.ActionOperationClearCompleted, target.ID, target.Title, errs[i])
	}
	if failed {
		return snap, fmt.Errorf("clear completed: %w", errors.Join(errs...))
	}
	return snap, nil
}

// Update applies one tagged partial update to a todo. On success the
// canonical entry is replaced wholesale from the server response; on failure
// the update error kind is set and the entry stays as it was.
func (s *Service) Update(ctx context.Context, id int64, patch domain.Patch) (Snapshot, error) {
	if id <= 0 {
		return s.Snapshot(), fmt.Errorf("update todo %d: %w", id, domain.ErrInvalidID)
	}
	if patch.IsZero() {
		return s.Snapshot(), domain.ErrEmptyPatch
	}

	s.mu.Lock()
	s.errKind = ErrorNone
	s.pending[id] = struct{}{}
	title := s.titleLocked(id)
	s.mu.Unlock()

	updated, err := s.api.UpdateTodo(ctx, id, patch)

	s.mu.Lock()
	delete(s.pending, id)
	if err != nil {
		s.errKind = ErrorUpdate
	} else {
		s.replaceLocked(updated)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.journalEvent(ctx, domain.ActionOperationUpdate, id, title, err)
	if err != nil {
		return snap, fmt.Errorf("update todo %d: %w", id, err)
	}
	return snap, nil
}

// Rename replaces one todo's title. A blank title is rejected client-side
// and surfaces as the title error kind without touching the wire, matching
// the validation Add applies to new titles.
func (s *Service) Rename(ctx context.Context, id int64, title string) (Snapshot, error) {
	patch, err := domain.RenamePatch(title)
	if err != nil {
		s.mu.Lock()
		s.errKind = ErrorTitle
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	return s.Update(ctx, id, patch)
}

// Toggle flips the completed flag of one canonical todo.
func (s *Service) Toggle(ctx context.Context, id int64) (Snapshot, error) {
	s.mu.Lock()
	current, ok := s.todoLocked(id)
	s.mu.Unlock()
	if !ok {
		return s.Snapshot(), fmt.Errorf("toggle todo %d: %w", id, ErrNotFound)
	}
	return s.Update(ctx, id, domain.CompletePatch(!current.Completed))
}

// ToggleAll flips completion in bulk. While any todo is still active only
// the active ones are targeted; once everything is complete all todos are
// toggled back to active. One update call per target runs in parallel and
// outcomes are reconciled individually.
func (s *Service) ToggleAll(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.errKind = ErrorNone
	var targets []domain.Todo
	if domain.CountActive(s.todos) > 0 {
		for _, t := range s.todos {
			if !t.Completed {
				targets = append(targets, t)
			}
		}
	} else {
		targets = append(targets, s.todos...)
	}
	for _, t := range targets {
		s.pending[t.ID] = struct{}{}
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if len(targets) == 0 {
		return snap, nil
	}

	type outcome struct {
		updated domain.Todo
		err     error
	}
	outcomes := make([]outcome, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(idx int, t domain.Todo) {
			defer wg.Done()
			updated, err := s.api.UpdateTodo(ctx, t.ID, domain.CompletePatch(!t.Completed))
			outcomes[idx] = outcome{updated: updated, err: err}
		}(i, target)
	}
	wg.Wait()

	failed := false
	var errs []error
	s.mu.Lock()
	for i, target := range targets {
		delete(s.pending, target.ID)
		if outcomes[i].err != nil {
			failed = true
			errs = append(errs, outcomes[i].err)
			continue
		}
		s.replaceLocked(outcomes[i].updated)
	}
	if failed {
		s.errKind = ErrorUpdate
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()

	for i, target := range targets {
		s.journalEvent(ctx, domain.ActionOperationToggleAll, target.ID, target.Title, outcomes[i].err)
	}
	if failed {
		return snap, fmt.Errorf("toggle all: %w", errors.Join(errs...))
	}
	return snap, nil
}

// RecentActivity lists the most recent journaled action outcomes.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]domain.ActionEvent, error) {
	if s.journal == nil {
		return nil, ErrJournalMissing
	}
	return s.journal.ListActionEvents(ctx, limit)
}

// snapshotLocked copies current state into an immutable view.
func (s *Service) snapshotLocked() Snapshot {
	pending := make([]int64, 0, len(s.pending))
	for id := range s.pending {
		pending = append(pending, id)
	}
	slices.Sort(pending)

	var temp *domain.Todo
	if s.temp != nil {
		copied := *s.temp
		temp = &copied
	}
	return Snapshot{
		Todos:      append([]domain.Todo(nil), s.todos...),
		Filter:     s.filter,
		TempTodo:   temp,
		PendingIDs: pending,
		Error:      s.errKind,
		Loaded:     s.loaded,
	}
}

// todoLocked returns the canonical entry with the given id.
func (s *Service) todoLocked(id int64) (domain.Todo, bool) {
	for _, t := range s.todos {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Todo{}, false
}

// titleLocked returns the canonical title for journaling, if known.
func (s *Service) titleLocked(id int64) string {
	if t, ok := s.todoLocked(id); ok {
		return t.Title
	}
	return ""
}

// removeLocked drops the canonical entry with the given id.
func (s *Service) removeLocked(id int64) {
	s.todos = slices.DeleteFunc(s.todos, func(t domain.Todo) bool {
		return t.ID == id
	})
}

// replaceLocked swaps the matching canonical entry for the server response.
func (s *Service) replaceLocked(updated domain.Todo) {
	for i, t := range s.todos {
		if t.ID == updated.ID {
			s.todos[i] = updated
			return
		}
	}
}

// journalEvent records one settled action outcome. Journal failures never
// affect synchronization state.
func (s *Service) journalEvent(ctx context.Context, op domain.ActionOperation, todoID int64, title string, opErr error) {
	if s.journal == nil {
		return
	}
	failure := ""
	if opErr != nil {
		failure = opErr.Error()
	}
	_ = s.journal.AppendActionEvent(ctx, domain.ActionEvent{
		Operation:  op,
		TodoID:     todoID,
		Title:      title,
		Failure:    failure,
		OccurredAt: s.clock().UTC(),
	})
}
