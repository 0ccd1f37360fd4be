package handler

// createTaskRequest carries the POST /api/tasks body. The due date is an ISO
// 8601 string, parsed by the handler.
type createTaskRequest struct {
	Title        string `json:"title"        validate:"required,max=100"`
	Description  string `json:"description"  validate:"required"`
	DueDate      string `json:"dueDate"      validate:"required"`
	Priority     string `json:"priority"     validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
	AssignedToID string `json:"assignedToId" validate:"required"`
}

// updateTaskRequest carries the PATCH /api/tasks/:id body. All fields are
// optional; absent fields are left untouched.
type updateTaskRequest struct {
	Title        *string `json:"title"        validate:"omitempty,min=1,max=100"`
	Description  *string `json:"description"  validate:"omitempty,min=1"`
	DueDate      *string `json:"dueDate"`
	Priority     *string `json:"priority"     validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status       *string `json:"status"       validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW COMPLETED"`
	AssignedToID *string `json:"assignedToId" validate:"omitempty,min=1"`
}

type deleteTaskResponse struct {
	Success bool `json:"success"`
}
