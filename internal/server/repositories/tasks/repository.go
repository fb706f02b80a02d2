// Package tasks is the task store. Every mutating call is filtered on both
// the task id and its owner, so a single call is the atomic unit of
// "check owner, then mutate" from the service's point of view.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository persists tasks. Absent records (or records owned by someone
// else, on the owner-filtered calls) yield common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	// ListByUser returns the owner's tasks, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	// Update rewrites the editable fields; the owner is never touched.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	// UpdateStatus changes only the status (and the update timestamp).
	UpdateStatus(ctx context.Context, id, userID string, status models.Status) (*models.Task, error)
	Delete(ctx context.Context, id, userID string) error
}
