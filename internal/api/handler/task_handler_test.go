package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

type stubTaskService struct {
	createInput ports.CreateTaskInput
	createActor string
	createErr   error

	listQuery ports.ListTasksQuery

	updateID     string
	updateActor  string
	updateDelta  ports.TaskUpdate
	updateErr    error
	updateCalled bool

	deleteID    string
	deleteActor string
	deleteErr   error

	task *domain.Task
}

func (s *stubTaskService) CreateTask(_ context.Context, actorID string, input ports.CreateTaskInput) (*domain.Task, error) {
	s.createActor = actorID
	s.createInput = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.task, nil
}

func (s *stubTaskService) ListTasks(_ context.Context, query ports.ListTasksQuery) ([]*domain.Task, error) {
	s.listQuery = query
	return []*domain.Task{s.task}, nil
}

func (s *stubTaskService) UpdateTask(_ context.Context, taskID, actorID string, updates ports.TaskUpdate) (*domain.Task, error) {
	s.updateCalled = true
	s.updateID = taskID
	s.updateActor = actorID
	s.updateDelta = updates
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.task, nil
}

func (s *stubTaskService) DeleteTask(_ context.Context, taskID, actorID string) error {
	s.deleteID = taskID
	s.deleteActor = actorID
	return s.deleteErr
}

func sampleTask() *domain.Task {
	return &domain.Task{
		ID:           "task-1",
		Title:        "Test Task",
		Description:  "something to do",
		DueDate:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Priority:     domain.PriorityMedium,
		Status:       domain.StatusTodo,
		CreatorID:    "user123",
		AssignedToID: "user456",
	}
}

func newTaskContext(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestTaskHandler_Create(t *testing.T) {
	svc := &stubTaskService{task: sampleTask()}
	h := NewTaskHandler(svc)

	body := `{
		"title": "Test Task",
		"description": "something to do",
		"dueDate": "2026-09-01T12:00:00Z",
		"priority": "MEDIUM",
		"assignedToId": "user456"
	}`
	c, rec := newTaskContext(http.MethodPost, "/api/tasks", body, "user123")

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if svc.createActor != "user123" {
		t.Errorf("expected actor %q, got %q", "user123", svc.createActor)
	}
	if svc.createInput.Priority != domain.PriorityMedium {
		t.Errorf("expected parsed priority MEDIUM, got %q", svc.createInput.Priority)
	}
	if !svc.createInput.DueDate.Equal(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected due date %v", svc.createInput.DueDate)
	}

	var got domain.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if got.ID != "task-1" {
		t.Errorf("expected task id %q, got %q", "task-1", got.ID)
	}
}

func TestTaskHandler_Create_InvalidPriority(t *testing.T) {
	svc := &stubTaskService{task: sampleTask()}
	h := NewTaskHandler(svc)

	body := `{
		"title": "Test Task",
		"description": "something to do",
		"dueDate": "2026-09-01T12:00:00Z",
		"priority": "EXTREME",
		"assignedToId": "user456"
	}`
	c, _ := newTaskContext(http.MethodPost, "/api/tasks", body, "user123")

	err := h.Create(c)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestTaskHandler_Create_BadDueDate(t *testing.T) {
	svc := &stubTaskService{task: sampleTask()}
	h := NewTaskHandler(svc)

	body := `{
		"title": "Test Task",
		"description": "something to do",
		"dueDate": "tomorrow",
		"priority": "LOW",
		"assignedToId": "user456"
	}`
	c, _ := newTaskContext(http.MethodPost, "/api/tasks", body, "user123")

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparseable due date, got %v", err)
	}
}

func TestTaskHandler_Create_MissingIdentity(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{task: sampleTask()})

	c, _ := newTaskContext(http.MethodPost, "/api/tasks", `{}`, "")

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %v", err)
	}
}

func TestTaskHandler_List_PassesQuery(t *testing.T) {
	svc := &stubTaskService{task: sampleTask()}
	h := NewTaskHandler(svc)

	c, rec := newTaskContext(http.MethodGet, "/api/tasks?status=TODO&priority=HIGH&type=assigned&overdue=true", "", "user456")

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	q := svc.listQuery
	if q.UserID != "user456" || q.Status != "TODO" || q.Priority != "HIGH" || q.Type != "assigned" || !q.Overdue {
		t.Errorf("query not forwarded: %+v", q)
	}
}

func TestTaskHandler_List_OverdueFlagOnlyOnTrue(t *testing.T) {
	svc := &stubTaskService{task: sampleTask()}
	h := NewTaskHandler(svc)

	c, _ := newTaskContext(http.MethodGet, "/api/tasks?overdue=yes", "", "user456")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.listQuery.Overdue {
		t.Error("only the literal \"true\" may enable the overdue filter")
	}
}

func TestTaskHandler_Update_ForwardsDelta(t *testing.T) {
	svc := &stubTaskService{task: sampleTask()}
	h := NewTaskHandler(svc)

	c, rec := newTaskContext(http.MethodPatch, "/api/tasks/task-1", `{"status": "COMPLETED"}`, "user123")
	c.SetParamNames("id")
	c.SetParamValues("task-1")

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if svc.updateID != "task-1" || svc.updateActor != "user123" {
		t.Errorf("unexpected call: id=%q actor=%q", svc.updateID, svc.updateActor)
	}
	if svc.updateDelta.Status == nil || *svc.updateDelta.Status != domain.StatusCompleted {
		t.Error("status delta not forwarded")
	}
	if svc.updateDelta.Title != nil || svc.updateDelta.Priority != nil {
		t.Error("unset fields must stay nil in the delta")
	}
}

func TestTaskHandler_Update_InvalidStatus(t *testing.T) {
	svc := &stubTaskService{task: sampleTask()}
	h := NewTaskHandler(svc)

	c, _ := newTaskContext(http.MethodPatch, "/api/tasks/task-1", `{"status": "DONE"}`, "user123")
	c.SetParamNames("id")
	c.SetParamValues("task-1")

	if err := h.Update(c); err == nil {
		t.Fatal("expected error for unknown status, got nil")
	}
	if svc.updateCalled {
		t.Error("service must not be reached with an invalid status")
	}
}

func TestTaskHandler_Update_ServiceErrorPropagates(t *testing.T) {
	svc := &stubTaskService{task: sampleTask(), updateErr: domain.ErrNotTaskParticipant}
	h := NewTaskHandler(svc)

	c, _ := newTaskContext(http.MethodPatch, "/api/tasks/task-1", `{"title": "x"}`, "user789")
	c.SetParamNames("id")
	c.SetParamValues("task-1")

	err := h.Update(c)
	if err != domain.ErrNotTaskParticipant {
		t.Fatalf("service error must reach the central handler unchanged, got %v", err)
	}
}

func TestTaskHandler_Delete(t *testing.T) {
	svc := &stubTaskService{task: sampleTask()}
	h := NewTaskHandler(svc)

	c, rec := newTaskContext(http.MethodDelete, "/api/tasks/task-1", "", "user123")
	c.SetParamNames("id")
	c.SetParamValues("task-1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if svc.deleteID != "task-1" || svc.deleteActor != "user123" {
		t.Errorf("unexpected call: id=%q actor=%q", svc.deleteID, svc.deleteActor)
	}

	var body deleteTaskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !body.Success {
		t.Error("expected success: true")
	}
}

func TestTaskHandler_Delete_Forbidden(t *testing.T) {
	svc := &stubTaskService{task: sampleTask(), deleteErr: domain.ErrNotTaskCreator}
	h := NewTaskHandler(svc)

	c, _ := newTaskContext(http.MethodDelete, "/api/tasks/task-1", "", "user456")
	c.SetParamNames("id")
	c.SetParamValues("task-1")

	if err := h.Delete(c); err != domain.ErrNotTaskCreator {
		t.Fatalf("expected ErrNotTaskCreator, got %v", err)
	}
}
