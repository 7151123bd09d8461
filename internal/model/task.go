package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskStore defines persistence operations for tasks.
type TaskStore interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Task, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Task represents a dated todo item. OwnerID is set at creation from the
// authenticated identity and is never reassigned.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	DueDate   Date      `json:"dueDate"`
	Completed bool      `json:"completed"`
	OwnerID   uuid.UUID `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskBuckets groups an owner's tasks for display. An incomplete task lands in
// exactly one of the three date buckets; a completed task is only ever in
// Completed, whatever its due date.
type TaskBuckets struct {
	Overdue   []Task `json:"overDue"`
	DueToday  []Task `json:"dueToday"`
	DueLater  []Task `json:"dueLater"`
	Completed []Task `json:"completedItems"`
}
