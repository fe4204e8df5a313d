package tasks

import (
	"context"

	"taskkeeper/internal/server/models"
)

// ListOptions narrows and orders an owner-scoped listing. OrderBy must be one
// of the whitelisted column names; empty means the repository's default order.
// Limit <= 0 disables the limit, Skip <= 0 starts at the first row.
type ListOptions struct {
	Completed *bool
	OrderBy   string
	Desc      bool
	Limit     int
	Skip      int
}

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// GetByIDAndOwner returns the task only when it exists and belongs to
	// ownerID; an ownership mismatch is indistinguishable from absence.
	GetByIDAndOwner(ctx context.Context, id string, ownerID string) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id string, ownerID string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}
