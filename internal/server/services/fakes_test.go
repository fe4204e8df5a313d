package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"taskkeeper/internal/common"
	"taskkeeper/internal/dbx"
	"taskkeeper/internal/server/models"
	"taskkeeper/internal/server/repositories/sessions"
	"taskkeeper/internal/server/repositories/tasks"
	"taskkeeper/internal/server/repositories/users"
)

// --- in-memory fakes over the repository interfaces ---

type fakeSessionsRepo struct {
	tokens map[string][]string

	addErr       error
	removeErr    error
	removeAllErr error
}

func newFakeSessionsRepo() *fakeSessionsRepo {
	return &fakeSessionsRepo{tokens: map[string][]string{}}
}

func (f *fakeSessionsRepo) Add(ctx context.Context, userID, token string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.tokens[userID] = append(f.tokens[userID], token)
	return nil
}

func (f *fakeSessionsRepo) Remove(ctx context.Context, userID, token string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	kept := f.tokens[userID][:0]
	for _, t := range f.tokens[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	f.tokens[userID] = kept
	return nil
}

func (f *fakeSessionsRepo) RemoveAll(ctx context.Context, userID string) error {
	if f.removeAllErr != nil {
		return f.removeAllErr
	}
	delete(f.tokens, userID)
	return nil
}

func (f *fakeSessionsRepo) has(userID, token string) bool {
	for _, t := range f.tokens[userID] {
		if t == token {
			return true
		}
	}
	return false
}

type fakeUsersRepo struct {
	byID     map[string]*models.User
	sessions *fakeSessionsRepo
	nextID   int
	deleted  []string

	createErr error
	updateErr error
	deleteErr error
}

func newFakeUsersRepo(sessions *fakeSessionsRepo) *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}, sessions: sessions}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return nil, common.ErrEmailTaken
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID)
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByIDWithToken(ctx context.Context, id, token string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok || !f.sessions.has(id, token) {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.byID[user.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	for _, u := range f.byID {
		if u.ID != user.ID && u.Email == user.Email {
			return nil, common.ErrEmailTaken
		}
	}
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTasksRepo struct {
	byID         map[string]*models.Task
	lastListOpts tasks.ListOptions

	deleteByOwnerErr error
}

func newFakeTasksRepo() *fakeTasksRepo {
	return &fakeTasksRepo{byID: map[string]*models.Task{}}
}

func (f *fakeTasksRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = uuid.NewString()
	f.byID[task.ID] = task
	return task, nil
}

func (f *fakeTasksRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Task, error) {
	t, ok := f.byID[id]
	if !ok || t.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTasksRepo) ListByOwner(ctx context.Context, ownerID string, opts tasks.ListOptions) ([]*models.Task, error) {
	f.lastListOpts = opts
	var result []*models.Task
	for _, t := range f.byID {
		if t.UserID != ownerID {
			continue
		}
		if opts.Completed != nil && t.Completed != *opts.Completed {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	existing, ok := f.byID[task.ID]
	if !ok || existing.UserID != task.UserID {
		return nil, common.ErrorNotFound
	}
	f.byID[task.ID] = task
	return task, nil
}

func (f *fakeTasksRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	t, ok := f.byID[id]
	if !ok || t.UserID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTasksRepo) DeleteByOwner(ctx context.Context, ownerID string) error {
	if f.deleteByOwnerErr != nil {
		return f.deleteByOwnerErr
	}
	for id, t := range f.byID {
		if t.UserID == ownerID {
			delete(f.byID, id)
		}
	}
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository    { return m.s }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasks.Repository          { return m.t }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newFakeRepoManager() *fakeRepoManager {
	s := newFakeSessionsRepo()
	return &fakeRepoManager{u: newFakeUsersRepo(s), s: s, t: newFakeTasksRepo()}
}
