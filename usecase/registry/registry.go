// Package registry coordinates the authoritative in-memory task set
// and its write-through persistence.
package registry

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/domain"
	"github.com/taskdeck/taskdeck/repository"
)

const maxIDAttempts = 5

// Registry mirrors the stored task set in memory. Every mutation is
// persisted before memory changes, so the mirror never runs ahead of
// the store.
type Registry struct {
	store  repository.TaskStore
	logger *zap.Logger

	mu     sync.RWMutex
	index  taskIndex
	closed bool
}

// New wires a Registry over its backing store. Call Load to hydrate
// the mirror.
func New(store repository.TaskStore, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		store:  store,
		logger: logger,
		index:  newTaskIndex(),
	}
}

// Load hydrates the mirror from the store. On failure the registry
// stays usable with an empty mirror and the error is returned for the
// caller to report.
func (r *Registry) Load(ctx context.Context) error {
	records, err := r.store.FindAll(ctx)
	if err != nil {
		r.logger.Warn("task mirror not hydrated", zap.Error(err))
		return err
	}

	tasks := make([]*domain.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, domain.TaskFromRecord(rec))
	}

	r.mu.Lock()
	r.index.rebuild(tasks)
	r.mu.Unlock()

	r.logger.Info("task mirror hydrated", zap.Int("count", len(tasks)))
	return nil
}

// AddInput carries the raw values for a new task.
type AddInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
	Status      string
}

// Add validates the input, persists a new task, and only then inserts
// it into the mirror. An id collision against the mirror regenerates
// the id a bounded number of times before giving up.
func (r *Registry) Add(ctx context.Context, in AddInput) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.uniqueID()
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(domain.NewTaskInput{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
	})
	if err != nil {
		return nil, err
	}

	if err := r.store.Insert(ctx, task.Record()); err != nil {
		return nil, err
	}

	r.index.insert(task)
	r.logger.Info("task added", zap.String("task_id", task.ID()))
	return task, nil
}

func (r *Registry) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := domain.NewTaskID()
		if _, exists := r.index.get(id); !exists {
			return id, nil
		}
	}
	return "", domain.NewError(domain.ErrCodeConflict, "could not allocate a unique task id")
}

// Get returns the task with the given id. The id shape is re-checked
// so untrusted callers cannot probe with arbitrary strings.
func (r *Registry) Get(ctx context.Context, id string) (*domain.Task, error) {
	if !domain.ValidTaskID(id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.index.get(id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// ListAll returns a snapshot copy of the ordered view, newest created
// first.
func (r *Registry) ListAll(ctx context.Context) []*domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index.snapshot()
}

// UpdateFields carries the optional field changes for Update. Nil
// means leave unchanged; a non-nil empty DueDate clears the deadline.
type UpdateFields struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
}

func (f UpdateFields) empty() bool {
	return f.Title == nil && f.Description == nil && f.DueDate == nil &&
		f.Priority == nil && f.Status == nil
}

// Update stages every supplied field on a copy of the task, persists
// the merged field set, and only on success swaps the copy into the
// mirror. A failure at any point leaves both memory and store
// untouched.
func (r *Registry) Update(ctx context.Context, id string, fields UpdateFields) error {
	if !domain.ValidTaskID(id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.index.get(id)
	if !ok {
		return domain.ErrTaskNotFound
	}
	if fields.empty() {
		return nil
	}

	staged := task.Clone()
	set := make(map[string]any, 6)

	if fields.Title != nil {
		if err := staged.SetTitle(*fields.Title); err != nil {
			return err
		}
		set["title"] = staged.Title()
	}
	if fields.Description != nil {
		if err := staged.SetDescription(*fields.Description); err != nil {
			return err
		}
		set["description"] = staged.Description()
	}
	if fields.DueDate != nil {
		if err := staged.SetDueDate(*fields.DueDate); err != nil {
			return err
		}
		set["due_date"] = staged.DueDate()
	}
	if fields.Priority != nil {
		if err := staged.SetPriority(*fields.Priority); err != nil {
			return err
		}
		set["priority"] = int(staged.Priority())
	}
	if fields.Status != nil {
		if err := staged.SetStatus(*fields.Status); err != nil {
			return err
		}
		set["status"] = int(staged.Status())
	}
	set["updated_at"] = staged.UpdatedAt()

	if err := r.store.Update(ctx, id, set); err != nil {
		return err
	}

	r.index.replace(staged)
	r.logger.Info("task updated", zap.String("task_id", id))
	return nil
}

// Complete marks the task completed. Completing an already-completed
// task succeeds without touching the store.
func (r *Registry) Complete(ctx context.Context, id string) error {
	if !domain.ValidTaskID(id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.index.get(id)
	if !ok {
		return domain.ErrTaskNotFound
	}
	if task.IsCompleted() {
		return nil
	}

	staged := task.Clone()
	staged.MarkCompleted()
	set := map[string]any{
		"status":     int(staged.Status()),
		"updated_at": staged.UpdatedAt(),
	}

	if err := r.store.Update(ctx, id, set); err != nil {
		return err
	}

	r.index.replace(staged)
	r.logger.Info("task completed", zap.String("task_id", id))
	return nil
}

// Delete removes the task, store first. The mirror keeps the task on
// any persistence failure.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if !domain.ValidTaskID(id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidTaskID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index.get(id); !ok {
		return domain.ErrTaskNotFound
	}

	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.index.remove(id)
	r.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// Len returns the number of tasks in the mirror.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index.len()
}

// Ping reports whether the backing store is reachable.
func (r *Registry) Ping(ctx context.Context) bool {
	return r.store.Ping(ctx)
}

// Close releases the store connection. Safe to call repeatedly.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.store.Close(ctx)
}
