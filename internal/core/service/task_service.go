package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

const auditWriteTimeout = 5 * time.Second

// TaskService enforces task authorization and orchestrates persistence, audit
// logging, and real-time notification. It is the only component with
// non-trivial branching and side-effect ordering.
//
// The authorize-then-write sequence is not atomic against concurrent updates
// to the same task: the repository update is a single atomic document merge,
// but two interleaved UpdateTask calls can both pass the authorization read.
// Accepted behaviour, matching the storage layer's per-document guarantees.
type TaskService struct {
	tasks    ports.TaskRepository
	audit    ports.AuditRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	audit ports.AuditRepository,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{tasks: tasks, audit: audit, notifier: notifier, logger: logger}
}

// CreateTask persists a new task with the acting user as creator and status
// TODO, then broadcasts task:created and notifies the assignee's room. Any
// authenticated user may create a task assigned to any other user.
func (s *TaskService) CreateTask(ctx context.Context, actorID string, input ports.CreateTaskInput) (*domain.Task, error) {
	task := &domain.Task{
		Title:        input.Title,
		Description:  input.Description,
		DueDate:      input.DueDate,
		Priority:     input.Priority,
		Status:       domain.StatusTodo,
		CreatorID:    actorID,
		AssignedToID: input.AssignedToID,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.logger.Error().Err(err).Str("creator_id", actorID).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.notifier.Broadcast(ports.EventTaskCreated, created)
	s.notifier.SendToUser(created.AssignedToID, ports.EventTaskAssigned, ports.TaskAssignedPayload{
		Message: "You have been assigned a new task",
		Task:    created,
	})

	s.logger.Info().
		Str("task_id", created.ID).
		Str("creator_id", actorID).
		Str("assigned_to_id", created.AssignedToID).
		Msg("task created")

	return created, nil
}

// ListTasks returns tasks matching the query, ordered ascending by due date.
// Type narrows to the requester's assigned or created tasks; any other value
// leaves all tasks visible (shared-visibility board, no per-row filtering).
func (s *TaskService) ListTasks(ctx context.Context, query ports.ListTasksQuery) ([]*domain.Task, error) {
	filter := ports.TaskFilter{
		Status:   query.Status,
		Priority: query.Priority,
		Overdue:  query.Overdue,
	}

	switch query.Type {
	case ports.ListTypeAssigned:
		filter.AssignedToID = query.UserID
	case ports.ListTypeCreated:
		filter.CreatorID = query.UserID
	}

	tasks, err := s.tasks.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update after checking that the actor is the
// task's creator or assignee. Side effects, each independent of the primary
// result: an audit entry when status changes (detached, failure swallowed), a
// task:assigned notification when the assignee changes, and an unconditional
// task:updated broadcast carrying the raw delta.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, actorID string, updates ports.TaskUpdate) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !task.IsParticipant(actorID) {
		return nil, domain.ErrNotTaskParticipant
	}

	updated, err := s.tasks.UpdateByID(ctx, taskID, updates)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if updates.Status != nil {
		s.recordStatusChange(taskID, actorID, *updates.Status)
	}

	if updates.AssignedToID != nil && *updates.AssignedToID != task.AssignedToID {
		s.notifier.SendToUser(*updates.AssignedToID, ports.EventTaskAssigned, ports.TaskAssignedPayload{
			Message: "You have been assigned to task: " + updated.Title,
			Task:    updated,
		})
	}

	s.notifier.Broadcast(ports.EventTaskUpdated, ports.TaskUpdatedPayload{
		TaskID:  taskID,
		Updates: updates,
	})

	s.logger.Info().Str("task_id", taskID).Str("actor_id", actorID).Msg("task updated")

	return updated, nil
}

// DeleteTask removes a task after checking that the actor is its creator.
// This is strictly narrower than update rights: the assignee cannot delete. Deletion
// is final; a task:deleted broadcast follows.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID string) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	if task.CreatorID != actorID {
		return domain.ErrNotTaskCreator
	}

	if err := s.tasks.DeleteByID(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.notifier.Broadcast(ports.EventTaskDeleted, ports.TaskDeletedPayload{TaskID: taskID})

	s.logger.Info().Str("task_id", taskID).Str("actor_id", actorID).Msg("task deleted")

	return nil
}

// recordStatusChange appends an audit entry on a detached goroutine. The write
// is fire-and-forget: its outcome is never joined with the triggering update,
// and a failure is logged without affecting the caller-visible result.
func (s *TaskService) recordStatusChange(taskID, actorID string, status domain.Status) {
	entry := &domain.AuditEntry{
		TaskID:    taskID,
		UserID:    actorID,
		Action:    domain.ActionUpdateStatus,
		Details:   fmt.Sprintf("Status changed to %s", status),
		Timestamp: time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()

		if err := s.audit.Insert(ctx, entry); err != nil {
			s.logger.Warn().Err(err).Str("task_id", taskID).Msg("failed to write audit entry")
		}
	}()
}
