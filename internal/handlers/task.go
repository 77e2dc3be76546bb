package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/abacus-tasks/internal/dto"
	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
	"github.com/yukikurage/abacus-tasks/internal/middleware"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"github.com/yukikurage/abacus-tasks/internal/repository"
	"github.com/yukikurage/abacus-tasks/internal/services"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns all tasks. Can filter by status, priority and assignee_id,
// and sort=due_date orders by deadline.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var filter repository.TaskFilter

	if status := c.Query("status"); status != "" {
		if err := models.ValidateVar("status", status, "oneof=not_started in_progress completed approved rejected re_submit"); err != nil {
			apierrors.Respond(c, err)
			return
		}
		s := models.TaskStatus(status)
		filter.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		if err := models.ValidateVar("priority", priority, "oneof=low medium high critical"); err != nil {
			apierrors.Respond(c, err)
			return
		}
		p := models.TaskPriority(priority)
		filter.Priority = &p
	}
	if assigneeID := c.Query("assignee_id"); assigneeID != "" {
		filter.AssigneeID = &assigneeID
	}
	filter.SortByDueDate = c.Query("sort") == "due_date"

	tasks, err := h.taskService.ListTasks(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), middleware.GetEntityID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

type createTaskRequest struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	Progress    *int                `json:"progress"`
	DueDate     *string             `json:"due_date"`
	AssigneeID  *string             `json:"assignee_id"`
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	input := services.CreateTaskInput{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     dueDate,
		AssigneeID:  req.AssigneeID,
	}
	if req.Progress != nil {
		input.Progress = *req.Progress
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies the fields present in the body. Sending null clears
// description, due_date or assignee_id.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID := middleware.GetEntityID(c)

	body, err := bindPatch(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := taskPatch(taskID, body)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func taskPatch(taskID string, body patchBody) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	id, err := field[string](body, "id")
	if err != nil {
		return input, err
	}
	if id != nil && *id != taskID {
		return input, apierrors.NewValidationError("id", "cannot be changed")
	}

	if input.Title, err = field[string](body, "title"); err != nil {
		return input, err
	}
	if input.Description, input.ClearDescription, err = nullableField[string](body, "description"); err != nil {
		return input, err
	}
	if input.Priority, err = field[models.TaskPriority](body, "priority"); err != nil {
		return input, err
	}
	if input.Status, err = field[models.TaskStatus](body, "status"); err != nil {
		return input, err
	}
	if input.Progress, err = field[int](body, "progress"); err != nil {
		return input, err
	}

	due, clearDue, err := nullableField[string](body, "due_date")
	if err != nil {
		return input, err
	}
	input.ClearDueDate = clearDue
	if input.DueDate, err = parseDueDate(due); err != nil {
		return input, err
	}

	if input.AssigneeID, input.ClearAssignee, err = nullableField[string](body, "assignee_id"); err != nil {
		return input, err
	}

	return input, nil
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), middleware.GetEntityID(c)); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type assignTaskRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// AssignTask points a task at an employee or manager
func (h *TaskHandler) AssignTask(c *gin.Context) {
	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Assign(c.Request.Context(), middleware.GetEntityID(c), req.AssigneeID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UnassignTask clears the assignee of a task
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	task, err := h.taskService.Unassign(c.Request.Context(), middleware.GetEntityID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListEmployeeTasks returns the tasks assigned to one employee
func (h *TaskHandler) ListEmployeeTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasksByAssignee(c.Request.Context(), middleware.GetEntityID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

type generateTasksRequest struct {
	Text string `json:"text" binding:"required"`
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req generateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		apierrors.BadRequest(c, "text is required")
		return
	}

	drafts, err := h.taskService.DraftTasks(c.Request.Context(), req.Text)
	switch {
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		return
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
		return
	case err != nil:
		h.log.Error("Failed to generate tasks", zap.Error(err))
		apierrors.InternalError(c, "Failed to generate tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDraftDTOs(drafts),
	})
}

// fail reports err to the client and logs it when it has no kind
func (h *TaskHandler) fail(c *gin.Context, err error) {
	logUnexpected(h.log, c, err)
	apierrors.Respond(c, err)
}
