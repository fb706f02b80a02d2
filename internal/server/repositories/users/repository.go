// Package users is the credential store: user records keyed by an opaque
// id and by their unique email.
package users

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository persists users. Create must enforce email uniqueness itself
// and fail with common.ErrDuplicateEmail; lookups return
// common.ErrorNotFound when nothing matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
