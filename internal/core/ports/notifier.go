package ports

import "github.com/taskboard/taskboard-api/internal/core/domain"

// Event names pushed to connected clients.
const (
	EventTaskCreated  = "task:created"
	EventTaskUpdated  = "task:updated"
	EventTaskDeleted  = "task:deleted"
	EventTaskAssigned = "task:assigned"
)

// Notifier fans events out to connected clients. Delivery is best-effort and
// non-persistent: clients disconnected at emit time never receive the event.
type Notifier interface {
	// Broadcast delivers to every connected client regardless of room.
	Broadcast(event string, payload any)
	// SendToUser delivers only to connections in the given user's room.
	SendToUser(userID, event string, payload any)
}

// TaskUpdatedPayload is the delta broadcast on every update. Updates is the
// caller-supplied partial object verbatim, not the merged document.
type TaskUpdatedPayload struct {
	TaskID  string     `json:"taskId"`
	Updates TaskUpdate `json:"updates"`
}

// TaskDeletedPayload is broadcast after a successful delete.
type TaskDeletedPayload struct {
	TaskID string `json:"taskId"`
}

// TaskAssignedPayload is sent to an assignee's room on creation and on
// reassignment.
type TaskAssignedPayload struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}
