package repository

import (
	"context"

	"github.com/taskdeck/taskdeck/domain"
)

// TaskStore abstracts durable task storage. Implementations classify
// backend faults into domain errors so callers never observe driver
// error types.
type TaskStore interface {
	// Ping reports backend reachability, swallowing transport errors.
	Ping(ctx context.Context) bool
	// EnsureIndexes creates the indexes the task queries rely on.
	EnsureIndexes(ctx context.Context) error
	// Insert writes a new record, stamping timestamps when unset.
	Insert(ctx context.Context, rec domain.TaskRecord) error
	// FindAll returns every stored record, newest created first.
	FindAll(ctx context.Context) ([]domain.TaskRecord, error)
	// Update applies a partial field set to the record with the given
	// id, stamping updated_at when the set does not carry one.
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes the record with the given id.
	Delete(ctx context.Context, id string) error
	// Close releases the backend connection. Safe to call repeatedly.
	Close(ctx context.Context) error
}
