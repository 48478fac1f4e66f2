// internal/usecase/tasks_test.go
package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/H0guera/task-tracker/internal/storage/postgres"
	"github.com/H0guera/task-tracker/internal/usecase"
)

func newTaskEnv(t *testing.T) (usecase.TaskHandler, *fakeTaskRepo) {
	t.Helper()
	repo := newFakeTaskRepo()
	return usecase.NewTaskHandler(repo, testLogger(t)), repo
}

func testUser(username string) *postgres.User {
	return &postgres.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
}

func TestTaskCreateAndGet(t *testing.T) {
	tasks, _ := newTaskEnv(t)
	ctx := context.Background()
	alice := testUser("alice")

	created, err := tasks.Create(ctx, alice, usecase.TaskInput{
		Title:       "write report",
		Description: "quarterly numbers",
		Status:      postgres.StatusTodo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.UserID != alice.ID {
		t.Errorf("owner: got %q, want %q", created.UserID, alice.ID)
	}

	got, err := tasks.Get(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "write report" || got.Status != postgres.StatusTodo {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestTaskOwnership(t *testing.T) {
	tasks, _ := newTaskEnv(t)
	ctx := context.Background()
	alice := testUser("alice")
	bob := testUser("bob")

	created, err := tasks.Create(ctx, alice, usecase.TaskInput{Title: "private", Status: postgres.StatusTodo})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Чужая задача и несуществующая задача дают одну и ту же ошибку.
	if _, err := tasks.Get(ctx, bob, created.ID); !errors.Is(err, usecase.ErrForbidden) {
		t.Errorf("foreign get: expected ErrForbidden, got %v", err)
	}
	if _, err := tasks.Get(ctx, alice, uuid.NewString()); !errors.Is(err, usecase.ErrForbidden) {
		t.Errorf("missing get: expected ErrForbidden, got %v", err)
	}
	if _, err := tasks.Update(ctx, bob, created.ID, usecase.TaskInput{Title: "hijack", Status: postgres.StatusDone}); !errors.Is(err, usecase.ErrForbidden) {
		t.Errorf("foreign update: expected ErrForbidden, got %v", err)
	}
	if err := tasks.Delete(ctx, bob, created.ID); !errors.Is(err, usecase.ErrForbidden) {
		t.Errorf("foreign delete: expected ErrForbidden, got %v", err)
	}

	// Владелец по-прежнему видит задачу нетронутой.
	got, err := tasks.Get(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Title != "private" {
		t.Errorf("task was modified: %+v", got)
	}
}

func TestTaskUpdate_Full(t *testing.T) {
	tasks, _ := newTaskEnv(t)
	ctx := context.Background()
	alice := testUser("alice")

	created, err := tasks.Create(ctx, alice, usecase.TaskInput{
		Title:       "draft",
		Description: "v1",
		Status:      postgres.StatusTodo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := tasks.Update(ctx, alice, created.ID, usecase.TaskInput{
		Title:       "final",
		Description: "v2",
		Status:      postgres.StatusDone,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "final" || updated.Description != "v2" || updated.Status != postgres.StatusDone {
		t.Errorf("unexpected task after update: %+v", updated)
	}
}

func TestTaskUpdate_Partial(t *testing.T) {
	tasks, _ := newTaskEnv(t)
	ctx := context.Background()
	alice := testUser("alice")

	created, err := tasks.Create(ctx, alice, usecase.TaskInput{
		Title:       "draft",
		Description: "keep me",
		Status:      postgres.StatusTodo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done := postgres.StatusDone
	updated, err := tasks.UpdatePartial(ctx, alice, created.ID, usecase.TaskPatch{Status: &done})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.Status != postgres.StatusDone {
		t.Errorf("status: got %q, want Done", updated.Status)
	}
	if updated.Title != "draft" || updated.Description != "keep me" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestTaskDelete(t *testing.T) {
	tasks, _ := newTaskEnv(t)
	ctx := context.Background()
	alice := testUser("alice")

	created, err := tasks.Create(ctx, alice, usecase.TaskInput{Title: "ephemeral", Status: postgres.StatusTodo})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tasks.Delete(ctx, alice, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Повторное удаление неотличимо от удаления чужой задачи.
	if err := tasks.Delete(ctx, alice, created.ID); !errors.Is(err, usecase.ErrForbidden) {
		t.Errorf("second delete: expected ErrForbidden, got %v", err)
	}
}

func TestTaskList_StatusFilter(t *testing.T) {
	tasks, _ := newTaskEnv(t)
	ctx := context.Background()
	alice := testUser("alice")
	bob := testUser("bob")

	if _, err := tasks.Create(ctx, alice, usecase.TaskInput{Title: "a", Status: postgres.StatusTodo}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := tasks.Create(ctx, bob, usecase.TaskInput{Title: "b", Status: postgres.StatusDone}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Листинг глобальный: задачи обоих пользователей видны.
	all, err := tasks.List(ctx, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("list all: got %d tasks, want 2", len(all))
	}

	done := postgres.StatusDone
	filtered, err := tasks.List(ctx, &done)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Title != "b" {
		t.Errorf("filtered list: %+v", filtered)
	}
}
