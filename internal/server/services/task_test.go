package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taskkeeper/internal/common"
)

const (
	ownerAlice = "11111111-1111-1111-1111-111111111111"
	ownerBob   = "22222222-2222-2222-2222-222222222222"
)

func newTaskService(t *testing.T) (*TaskService, *fakeRepoManager) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	rm := newFakeRepoManager()
	return NewTaskService(db, rm), rm
}

func TestTaskCreate_OwnerForcedAndDescriptionTrimmed(t *testing.T) {
	s, _ := newTaskService(t)

	task, err := s.Create(context.Background(), ownerAlice, "  buy milk  ", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if task.UserID != ownerAlice {
		t.Fatalf("owner mismatch: got %q want %q", task.UserID, ownerAlice)
	}
	if task.Description != "buy milk" {
		t.Fatalf("description not trimmed: %q", task.Description)
	}
	if task.Completed {
		t.Fatalf("completed must default to false")
	}
}

func TestTaskCreate_EmptyDescription(t *testing.T) {
	s, _ := newTaskService(t)

	for _, desc := range []string{"", "   "} {
		if _, err := s.Create(context.Background(), ownerAlice, desc, false); !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("description %q: want ErrorValidation, got %v", desc, err)
		}
	}
}

func TestTaskGet_OwnershipMaskedAsNotFound(t *testing.T) {
	s, _ := newTaskService(t)

	task, err := s.Create(context.Background(), ownerAlice, "buy milk", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	got, err := s.Get(context.Background(), ownerAlice, task.ID)
	if err != nil {
		t.Fatalf("owner Get error: %v", err)
	}
	if got.ID != task.ID {
		t.Fatalf("id mismatch: got %q want %q", got.ID, task.ID)
	}

	// A different owner sees exactly the absent-task behavior.
	if _, err := s.Get(context.Background(), ownerBob, task.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign Get: want ErrorNotFound, got %v", err)
	}
}

func TestTaskGet_MalformedID(t *testing.T) {
	s, _ := newTaskService(t)

	if _, err := s.Get(context.Background(), ownerAlice, "not-a-uuid"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for malformed id, got %v", err)
	}
}

func TestTaskList_ScopedToOwner(t *testing.T) {
	s, _ := newTaskService(t)

	if _, err := s.Create(context.Background(), ownerAlice, "alice one", false); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := s.Create(context.Background(), ownerAlice, "alice two", true); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := s.Create(context.Background(), ownerBob, "bob one", false); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	list, err := s.List(context.Background(), ownerAlice, TaskListParams{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 tasks for alice, got %d", len(list))
	}
	for _, task := range list {
		if task.UserID != ownerAlice {
			t.Fatalf("foreign task leaked into listing: %+v", task)
		}
	}
}

func TestTaskList_CompletedFilter(t *testing.T) {
	s, _ := newTaskService(t)

	if _, err := s.Create(context.Background(), ownerAlice, "open", false); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := s.Create(context.Background(), ownerAlice, "done", true); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	completed := true
	list, err := s.List(context.Background(), ownerAlice, TaskListParams{Completed: &completed})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || list[0].Description != "done" {
		t.Fatalf("completed filter not applied: %+v", list)
	}
}

func TestTaskList_SortFieldMapping(t *testing.T) {
	s, rm := newTaskService(t)

	_, err := s.List(context.Background(), ownerAlice, TaskListParams{
		SortField: "createdAt",
		SortDesc:  true,
		Limit:     10,
		Skip:      20,
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	opts := rm.t.lastListOpts
	if opts.OrderBy != "created_at" {
		t.Fatalf("sort field not mapped: %q", opts.OrderBy)
	}
	if !opts.Desc {
		t.Fatalf("descending flag lost")
	}
	if opts.Limit != 10 || opts.Skip != 20 {
		t.Fatalf("paging options lost: %+v", opts)
	}
}

func TestTaskList_UnknownSortField(t *testing.T) {
	s, _ := newTaskService(t)

	_, err := s.List(context.Background(), ownerAlice, TaskListParams{SortField: "owner"})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation for unknown sort field, got %v", err)
	}
}

func TestTaskUpdate_AppliesAllowedFields(t *testing.T) {
	s, rm := newTaskService(t)

	task, err := s.Create(context.Background(), ownerAlice, "buy milk", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := s.Update(context.Background(), ownerAlice, task.ID, map[string]any{
		"description": "buy oat milk",
		"completed":   true,
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Description != "buy oat milk" || !updated.Completed {
		t.Fatalf("update not applied: %+v", updated)
	}
	if stored := rm.t.byID[task.ID]; stored.Description != "buy oat milk" {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestTaskUpdate_UnknownFieldRejectedWholesale(t *testing.T) {
	s, rm := newTaskService(t)

	task, err := s.Create(context.Background(), ownerAlice, "buy milk", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err = s.Update(context.Background(), ownerAlice, task.ID, map[string]any{
		"completed": true,
		"owner":     ownerBob,
	})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}

	if stored := rm.t.byID[task.ID]; stored.Completed {
		t.Fatalf("rejected update must not mutate the task: %+v", stored)
	}
}

func TestTaskUpdate_FieldTypeValidation(t *testing.T) {
	s, _ := newTaskService(t)

	task, err := s.Create(context.Background(), ownerAlice, "buy milk", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"empty set", map[string]any{}},
		{"non-string description", map[string]any{"description": 1}},
		{"blank description", map[string]any{"description": "  "}},
		{"non-bool completed", map[string]any{"completed": "yes"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Update(context.Background(), ownerAlice, task.ID, tc.fields); !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("want ErrorValidation, got %v", err)
			}
		})
	}
}

func TestTaskUpdate_ForeignTaskNotFound(t *testing.T) {
	s, rm := newTaskService(t)

	task, err := s.Create(context.Background(), ownerAlice, "buy milk", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err = s.Update(context.Background(), ownerBob, task.ID, map[string]any{"completed": true})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if stored := rm.t.byID[task.ID]; stored.Completed {
		t.Fatalf("foreign update must not mutate the task: %+v", stored)
	}
}

func TestTaskDelete_OwnerOnly(t *testing.T) {
	s, rm := newTaskService(t)

	task, err := s.Create(context.Background(), ownerAlice, "buy milk", false)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := s.Delete(context.Background(), ownerBob, task.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign Delete: want ErrorNotFound, got %v", err)
	}
	if _, ok := rm.t.byID[task.ID]; !ok {
		t.Fatalf("foreign Delete must not remove the task")
	}

	if err := s.Delete(context.Background(), ownerAlice, task.ID); err != nil {
		t.Fatalf("owner Delete error: %v", err)
	}
	if _, ok := rm.t.byID[task.ID]; ok {
		t.Fatalf("task must be gone after owner Delete")
	}
}

func TestTaskDelete_MalformedID(t *testing.T) {
	s, _ := newTaskService(t)

	if err := s.Delete(context.Background(), ownerAlice, "42"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for malformed id, got %v", err)
	}

	// An absent but well-formed id behaves identically.
	if err := s.Delete(context.Background(), ownerAlice, uuid.NewString()); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for absent id, got %v", err)
	}
}
