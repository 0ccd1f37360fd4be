package ports

import (
	"context"
	"time"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// List narrowing discriminators. Any other value means no ownership narrowing.
const (
	ListTypeAssigned = "assigned"
	ListTypeCreated  = "created"
)

// CreateTaskInput carries all data needed to create a task. The acting user
// becomes the creator; status always starts at TODO.
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      time.Time
	Priority     domain.Priority
	AssignedToID string
}

// ListTasksQuery carries the parameters for the list endpoint. Type narrows
// ownership: "assigned" → tasks assigned to UserID, "created" → tasks created
// by UserID, anything else → all tasks visible under the remaining filters.
type ListTasksQuery struct {
	UserID   string
	Status   string
	Priority string
	Type     string
	Overdue  bool
}

// TaskService defines the use-case operations for tasks.
type TaskService interface {
	CreateTask(ctx context.Context, actorID string, input CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, query ListTasksQuery) ([]*domain.Task, error)
	UpdateTask(ctx context.Context, taskID, actorID string, updates TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID, actorID string) error
}
