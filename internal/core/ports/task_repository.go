package ports

import (
	"context"
	"time"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// TaskFilter is a conjunction of optional match criteria. Empty string fields
// are ignored. When Overdue is true the repository narrows to tasks whose due
// date has passed and whose status is not COMPLETED, replacing any Status
// equality filter.
type TaskFilter struct {
	Status       string
	Priority     string
	AssignedToID string
	CreatorID    string
	Overdue      bool
}

// TaskUpdate is a partial field merge. Nil fields are left untouched.
// The JSON tags define the delta shape broadcast in task:updated events.
type TaskUpdate struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	DueDate      *time.Time       `json:"dueDate,omitempty"`
	Priority     *domain.Priority `json:"priority,omitempty"`
	Status       *domain.Status   `json:"status,omitempty"`
	AssignedToID *string          `json:"assignedToId,omitempty"`
}

// TaskRepository defines persistence operations for tasks. It is a pure
// translation layer: no authorization or business rules live here.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	// Find returns tasks matching filter, ordered ascending by due date.
	Find(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// UpdateByID applies a partial merge and returns the post-update document.
	UpdateByID(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error)
	DeleteByID(ctx context.Context, id string) error
}

// AuditRepository appends entries to the write-only audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}
