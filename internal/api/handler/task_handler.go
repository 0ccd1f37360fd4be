package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/api/metrics"
	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /api/tasks.
//
// @Summary      Create a new task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actorID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dueDate must be an ISO 8601 timestamp")
	}

	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return err
	}

	task, err := h.service.CreateTask(c.Request().Context(), actorID, ports.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      dueDate,
		Priority:     priority,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	return c.JSON(http.StatusCreated, task)
}

// List handles GET /api/tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"
// @Param        priority  query     string  false  "Filter by priority"
// @Param        type      query     string  false  "Ownership narrowing: assigned or created"
// @Param        overdue   query     string  false  "When \"true\", only overdue tasks"
// @Success      200       {array}   domain.Task
// @Failure      401       {object}  map[string]string
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListTasks(c.Request().Context(), ports.ListTasksQuery{
		UserID:   userID,
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Type:     c.QueryParam("type"),
		Overdue:  c.QueryParam("overdue") == "true",
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

// Update handles PATCH /api/tasks/:id.
//
// @Summary      Update a task (creator or assignee only)
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to update"
// @Success      200   {object}  domain.Task
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	actorID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updates, err := toTaskUpdate(req)
	if err != nil {
		return err
	}

	task, err := h.service.UpdateTask(c.Request().Context(), c.Param("id"), actorID, updates)
	if err != nil {
		return err
	}

	metrics.TasksUpdatedTotal.Inc()
	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id.
//
// @Summary      Delete a task (creator only)
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Task ID"
// @Success      200 {object}  deleteTaskResponse
// @Failure      403 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	actorID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTask(c.Request().Context(), c.Param("id"), actorID); err != nil {
		return err
	}

	metrics.TasksDeletedTotal.Inc()
	return c.JSON(http.StatusOK, deleteTaskResponse{Success: true})
}

// toTaskUpdate maps the HTTP request to the service's partial update,
// validating enum values and the due date format.
func toTaskUpdate(req updateTaskRequest) (ports.TaskUpdate, error) {
	updates := ports.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
	}

	if req.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return ports.TaskUpdate{}, echo.NewHTTPError(http.StatusBadRequest, "dueDate must be an ISO 8601 timestamp")
		}
		updates.DueDate = &dueDate
	}
	if req.Priority != nil {
		priority, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return ports.TaskUpdate{}, err
		}
		updates.Priority = &priority
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return ports.TaskUpdate{}, err
		}
		updates.Status = &status
	}

	return updates, nil
}
