package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/taskdeck-server/internal/logger"
	"github.com/dtroode/taskdeck-server/internal/model"
)

// AddTaskParams contains new-task form input.
type AddTaskParams struct {
	Title   string     `validate:"required,min=5"`
	DueDate model.Date `validate:"required"`
	OwnerID uuid.UUID  `validate:"required"`
}

// Task owns task mutations, the ownership guard and bucket categorization.
// Every operation takes the acting identity explicitly; nothing is read from
// ambient request state.
type Task struct {
	taskStore model.TaskStore
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewTask creates a new Task service.
func NewTask(taskStore model.TaskStore, logger *logger.Logger) *Task {
	return &Task{
		taskStore: taskStore,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Add validates and persists a new incomplete task owned by params.OwnerID.
func (s *Task) Add(ctx context.Context, params AddTaskParams) (model.Task, error) {
	if err := s.validate.StructPartialCtx(ctx, params, "Title"); err != nil {
		return model.Task{}, model.NewValidationError("title", "must be at least 5 characters")
	}
	if params.DueDate.IsZero() {
		return model.Task{}, model.NewValidationError("due date", "must be a valid date")
	}
	if params.OwnerID == uuid.Nil {
		return model.Task{}, model.NewValidationError("owner", "is required")
	}

	task := model.Task{
		ID:        uuid.New(),
		Title:     params.Title,
		DueDate:   params.DueDate,
		Completed: false,
		OwnerID:   params.OwnerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	savedTask, err := s.taskStore.Create(ctx, task)
	if err != nil {
		s.logger.Error("Task service: failed to create task",
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Task service: task created",
		"task_id", savedTask.ID,
		"owner_id", savedTask.OwnerID)

	return savedTask, nil
}

// Get returns the task with the given id if actorID owns it. A foreign task
// yields an AuthorizationError that carries no task content.
func (s *Task) Get(ctx context.Context, taskID, actorID uuid.UUID) (model.Task, error) {
	return s.ownedTask(ctx, taskID, actorID)
}

// ToggleCompletion sets the completion flag on an owned task and returns the
// updated record.
func (s *Task) ToggleCompletion(ctx context.Context, taskID, actorID uuid.UUID, completed bool) (model.Task, error) {
	if _, err := s.ownedTask(ctx, taskID, actorID); err != nil {
		return model.Task{}, err
	}

	updatedTask, err := s.taskStore.SetCompleted(ctx, taskID, completed)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Task{}, model.ErrNotFound
		}
		s.logger.Error("Task service: failed to set completion",
			"task_id", taskID,
			"error", err.Error())
		return model.Task{}, fmt.Errorf("failed to set completion: %w", err)
	}

	s.logger.Info("Task service: completion toggled",
		"task_id", taskID,
		"completed", completed)

	return updatedTask, nil
}

// Delete removes an owned task. A foreign task fails with AuthorizationError,
// an absent one with ErrNotFound; neither silently succeeds.
func (s *Task) Delete(ctx context.Context, taskID, actorID uuid.UUID) error {
	if _, err := s.ownedTask(ctx, taskID, actorID); err != nil {
		return err
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		s.logger.Error("Task service: failed to delete task",
			"task_id", taskID,
			"error", err.Error())
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("Task service: task deleted", "task_id", taskID)
	return nil
}

// Buckets partitions the owner's tasks against today. An incomplete task goes
// to exactly one date bucket by calendar comparison; a completed task goes to
// Completed whatever its due date.
func (s *Task) Buckets(ctx context.Context, ownerID uuid.UUID, today model.Date) (model.TaskBuckets, error) {
	tasks, err := s.taskStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return model.TaskBuckets{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	buckets := model.TaskBuckets{
		Overdue:   []model.Task{},
		DueToday:  []model.Task{},
		DueLater:  []model.Task{},
		Completed: []model.Task{},
	}

	for _, task := range tasks {
		switch {
		case task.Completed:
			buckets.Completed = append(buckets.Completed, task)
		case task.DueDate.Before(today):
			buckets.Overdue = append(buckets.Overdue, task)
		case task.DueDate.Equal(today):
			buckets.DueToday = append(buckets.DueToday, task)
		default:
			buckets.DueLater = append(buckets.DueLater, task)
		}
	}

	return buckets, nil
}

func (s *Task) ownedTask(ctx context.Context, taskID, actorID uuid.UUID) (model.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Task{}, model.ErrNotFound
	}
	if err != nil {
		s.logger.Error("Task service: failed to get task",
			"task_id", taskID,
			"error", err.Error())
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	if task.OwnerID != actorID {
		return model.Task{}, model.NewAuthorizationError(taskID)
	}

	return task, nil
}
