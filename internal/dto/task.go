package dto

import (
	"time"

	"github.com/yukikurage/abacus-tasks/internal/models"
	"github.com/yukikurage/abacus-tasks/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	Progress    int                 `json:"progress"`
	DueDate     *string             `json:"due_date"`
	AssigneeID  *string             `json:"assignee_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// TaskListResponse represents a list of tasks
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
	Count int       `json:"count"`
}

// TaskDraftDTO is an unsaved task suggested from free text
type TaskDraftDTO struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *string             `json:"due_date"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		Progress:    task.Progress,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.DueDate != nil {
		due := task.DueDate.Format(models.DateLayout)
		dto.DueDate = &due
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks: items,
		Count: len(items),
	}
}

// ToTaskDraftDTOs converts generated drafts for the response body
func ToTaskDraftDTOs(drafts []services.GeneratedTask) []TaskDraftDTO {
	items := make([]TaskDraftDTO, len(drafts))
	for i, draft := range drafts {
		items[i] = TaskDraftDTO{
			Title:       draft.Title,
			Description: draft.Description,
			Priority:    draft.Priority,
			DueDate:     draft.DueDate,
		}
	}
	return items
}
