// Package storage defines the task store contract shared by the
// Postgres and in-memory implementations. Both must apply identical
// query semantics so listing and statistics never disagree about
// which tasks are in scope.
package storage

import (
	"context"
	"errors"

	"github.com/anlevch/go-taskboard/internal/models"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// Scope restricts which owners' tasks an operation may touch. The
// store trusts the scope it is given; resolving a caller into a scope
// is the service's job.
type Scope struct {
	ownerID string
	all     bool
}

// AllOwners returns a scope spanning every owner. Only the service
// hands it out, and only for privileged callers.
func AllOwners() Scope {
	return Scope{all: true}
}

// OwnedBy returns a scope restricted to a single owner.
func OwnedBy(ownerID string) Scope {
	return Scope{ownerID: ownerID}
}

func (s Scope) All() bool {
	return s.all
}

func (s Scope) OwnerID() string {
	return s.ownerID
}

// Contains reports whether a task owner falls inside the scope.
func (s Scope) Contains(ownerID string) bool {
	return s.all || s.ownerID == ownerID
}

type TaskStore interface {
	// Query returns one page of tasks matching the scope and filter,
	// newest-created first with ties broken by id, together with the
	// total match count before pagination. The filter must already be
	// normalized. Evaluating predicates never mutates stored records.
	Query(ctx context.Context, scope Scope, filter models.TaskFilter) ([]models.Task, int, error)

	// Stats aggregates counts over every task in scope, with no other
	// filter applied.
	Stats(ctx context.Context, scope Scope) (models.TaskStats, error)

	// GetByID returns the task with the given id regardless of owner,
	// or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Task, error)

	Insert(ctx context.Context, task *models.Task) error

	// Update overwrites the stored record with the given one. It
	// returns ErrNotFound if the task no longer exists.
	Update(ctx context.Context, task *models.Task) error

	// Delete removes the task permanently. It returns ErrNotFound if
	// the task does not exist, including on a repeated delete.
	Delete(ctx context.Context, id string) error
}
