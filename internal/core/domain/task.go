package domain

import (
	"errors"
	"fmt"
	"time"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Status represents the lifecycle state of a task. Any authorized caller may
// set any status in any order; there is deliberately no transition ordering.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusCompleted  Status = "COMPLETED"
)

var ErrTaskNotFound = errors.New("task not found")
var ErrUserNotFound = errors.New("user not found")
var ErrNotTaskParticipant = errors.New("not authorized to update this task")
var ErrNotTaskCreator = errors.New("only creator can delete task")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidPriority = errors.New("invalid priority")
var ErrInvalidStatus = errors.New("invalid status")

// ParsePriority converts a raw string into a Priority, rejecting unknown values.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// ParseStatus converts a raw string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	_, err := ParsePriority(string(p))
	return err == nil
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Task is the core aggregate. CreatorID is fixed at creation; AssignedToID may
// change over the task's life.
type Task struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	DueDate      time.Time `json:"dueDate" bson:"due_date"`
	Priority     Priority  `json:"priority" bson:"priority"`
	Status       Status    `json:"status" bson:"status"`
	CreatorID    string    `json:"creatorId" bson:"creator_id"`
	AssignedToID string    `json:"assignedToId" bson:"assigned_to_id"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// Overdue reports whether the task's due date has passed and the task is not
// yet completed.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}

// IsParticipant reports whether userID is the task's creator or its assignee.
// Participants share update rights; only the creator may delete.
func (t *Task) IsParticipant(userID string) bool {
	return t.CreatorID == userID || t.AssignedToID == userID
}
