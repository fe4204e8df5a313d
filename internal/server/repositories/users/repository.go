package users

import (
	"context"

	"taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDWithToken returns the user only if the exact token is still
	// present in the user's session set.
	GetByIDWithToken(ctx context.Context, id string, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
