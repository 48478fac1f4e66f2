// internal/usecase/tasks.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/H0guera/task-tracker/internal/metrics"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
	"github.com/H0guera/task-tracker/pkg/logger"
)

type taskHandler struct {
	tasks postgres.TaskRepository
	log   *logger.Logger
}

func NewTaskHandler(tasks postgres.TaskRepository, log *logger.Logger) TaskHandler {
	return &taskHandler{tasks: tasks, log: log.Named("tasks")}
}

func (h *taskHandler) Create(ctx context.Context, user *postgres.User, in TaskInput) (*postgres.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskCreate")
	defer span.End()

	task := &postgres.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		UserID:      user.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.tasks.Create(ctx, task); err != nil {
		metrics.TaskOpsTotal.WithLabelValues("create", "fail").Inc()
		h.log.WithContext(ctx).Error("create task failed", zap.Error(err))
		return nil, fmt.Errorf("create task: %w", err)
	}
	metrics.TaskOpsTotal.WithLabelValues("create", "ok").Inc()
	return task, nil
}

// List возвращает задачи всех пользователей, при необходимости по статусу.
func (h *taskHandler) List(ctx context.Context, status *postgres.TaskStatus) ([]*postgres.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskList")
	defer span.End()

	tasks, err := h.tasks.List(ctx, status)
	if err != nil {
		metrics.TaskOpsTotal.WithLabelValues("list", "fail").Inc()
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	metrics.TaskOpsTotal.WithLabelValues("list", "ok").Inc()
	return tasks, nil
}

func (h *taskHandler) Get(ctx context.Context, user *postgres.User, taskID string) (*postgres.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskGet")
	defer span.End()

	task, err := h.owned(ctx, user, taskID)
	if err != nil {
		metrics.TaskOpsTotal.WithLabelValues("get", resultLabel(err)).Inc()
		return nil, err
	}
	metrics.TaskOpsTotal.WithLabelValues("get", "ok").Inc()
	return task, nil
}

func (h *taskHandler) Update(ctx context.Context, user *postgres.User, taskID string, in TaskInput) (*postgres.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskUpdate")
	defer span.End()

	task, err := h.owned(ctx, user, taskID)
	if err != nil {
		metrics.TaskOpsTotal.WithLabelValues("update", resultLabel(err)).Inc()
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Status = in.Status
	if err := h.tasks.Update(ctx, task); err != nil {
		metrics.TaskOpsTotal.WithLabelValues("update", "fail").Inc()
		return nil, fmt.Errorf("update task: %w", err)
	}
	metrics.TaskOpsTotal.WithLabelValues("update", "ok").Inc()
	return task, nil
}

func (h *taskHandler) UpdatePartial(ctx context.Context, user *postgres.User, taskID string, in TaskPatch) (*postgres.Task, error) {
	ctx, span := tracer.Start(ctx, "TaskUpdatePartial")
	defer span.End()

	task, err := h.owned(ctx, user, taskID)
	if err != nil {
		metrics.TaskOpsTotal.WithLabelValues("patch", resultLabel(err)).Inc()
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if err := h.tasks.Update(ctx, task); err != nil {
		metrics.TaskOpsTotal.WithLabelValues("patch", "fail").Inc()
		return nil, fmt.Errorf("update task: %w", err)
	}
	metrics.TaskOpsTotal.WithLabelValues("patch", "ok").Inc()
	return task, nil
}

func (h *taskHandler) Delete(ctx context.Context, user *postgres.User, taskID string) error {
	ctx, span := tracer.Start(ctx, "TaskDelete")
	defer span.End()

	if _, err := h.owned(ctx, user, taskID); err != nil {
		metrics.TaskOpsTotal.WithLabelValues("delete", resultLabel(err)).Inc()
		return err
	}
	if err := h.tasks.Delete(ctx, taskID); err != nil {
		// Гонка с параллельным удалением той же задачи.
		if errors.Is(err, postgres.ErrNotFound) {
			metrics.TaskOpsTotal.WithLabelValues("delete", "forbidden").Inc()
			return ErrForbidden
		}
		metrics.TaskOpsTotal.WithLabelValues("delete", "fail").Inc()
		return fmt.Errorf("delete task: %w", err)
	}
	metrics.TaskOpsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// owned загружает задачу и проверяет владельца. Отсутствующая и чужая
// задача неразличимы для вызывающего: обе дают ErrForbidden, чтобы не
// раскрывать существование чужих идентификаторов.
func (h *taskHandler) owned(ctx context.Context, user *postgres.User, taskID string) (*postgres.Task, error) {
	task, err := h.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrForbidden
		}
		h.log.WithContext(ctx).Error("find task failed", zap.Error(err))
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task.UserID != user.ID {
		return nil, ErrForbidden
	}
	return task, nil
}

func resultLabel(err error) string {
	if errors.Is(err, ErrForbidden) {
		return "forbidden"
	}
	return "fail"
}
