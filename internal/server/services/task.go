package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"taskkeeper/internal/common"
	"taskkeeper/internal/server/models"
	"taskkeeper/internal/server/repositories/repomanager"
	"taskkeeper/internal/server/repositories/tasks"
)

// sortFields maps the caller-facing sort field names to storage columns.
// Anything outside this map is a validation error.
var sortFields = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

// TaskListParams narrows, orders and pages an owner-scoped listing.
type TaskListParams struct {
	Completed *bool
	SortField string
	SortDesc  bool
	Limit     int
	Skip      int
}

// TaskService implements task CRUD. Every operation takes the acting user's
// id and is scoped to it; a task owned by someone else behaves exactly like a
// task that does not exist.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService over the given repositories.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create stores a new task for ownerID. The owner is always the acting user;
// owner values supplied by a caller are never consulted.
func (s *TaskService) Create(ctx context.Context, ownerID string, description string, completed bool) (*models.Task, error) {
	desc, err := validateDescription(description)
	if err != nil {
		return nil, err
	}

	task := &models.Task{UserID: ownerID, Description: desc, Completed: completed}

	t, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return t, nil
}

// Get returns the task only when it exists and ownerID owns it.
func (s *TaskService) Get(ctx context.Context, ownerID string, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Tasks(s.db).GetByIDAndOwner(ctx, id, ownerID)
}

// List returns the owner's tasks according to p. The unspecified order is
// creation order; explicit sorts break ties by id so pagination never skips
// or repeats rows on a stable data set.
func (s *TaskService) List(ctx context.Context, ownerID string, p TaskListParams) ([]*models.Task, error) {
	opts := tasks.ListOptions{
		Completed: p.Completed,
		Desc:      p.SortDesc,
		Limit:     p.Limit,
		Skip:      p.Skip,
	}

	if p.SortField != "" {
		column, ok := sortFields[p.SortField]
		if !ok {
			return nil, fmt.Errorf("%w: cannot sort by %q", common.ErrorValidation, p.SortField)
		}
		opts.OrderBy = column
	}

	list, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, ownerID, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return list, nil
}

// Update applies a partial update to an owned task. Only description and
// completed are mutable; any other field in the set rejects the update
// wholesale before anything is read or written.
func (s *TaskService) Update(ctx context.Context, ownerID string, id string, fields map[string]any) (*models.Task, error) {
	if err := checkAllowedFields(fields, "description", "completed"); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Tasks(s.db)

	task, err := repo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if _, ok := fields["description"]; ok {
		raw, err := stringField(fields, "description")
		if err != nil {
			return nil, err
		}
		desc, err := validateDescription(raw)
		if err != nil {
			return nil, err
		}
		task.Description = desc
	}

	if _, ok := fields["completed"]; ok {
		completed, err := boolField(fields, "completed")
		if err != nil {
			return nil, err
		}
		task.Completed = completed
	}

	t, err := repo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}
	return t, nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ctx context.Context, ownerID string, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return s.repomanager.Tasks(s.db).DeleteByIDAndOwner(ctx, id, ownerID)
}
