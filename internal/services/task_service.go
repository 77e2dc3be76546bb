package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/abacus-tasks/internal/constants"
	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"github.com/yukikurage/abacus-tasks/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pendingTaskID stands in for a generated ID while the other fields are validated
const pendingTaskID = "pending"

// TaskService handles task business logic
type TaskService struct {
	store     repository.Store
	ids       *TaskIDPolicy
	aiService *AIService
	log       *zap.Logger
	now       func() time.Time
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(store repository.Store, ids *TaskIDPolicy, aiService *AIService, log *zap.Logger) *TaskService {
	return &TaskService{
		store:     store,
		ids:       ids,
		aiService: aiService,
		log:       log,
		now:       utcNow,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ID          string
	Title       string
	Description *string
	Priority    models.TaskPriority
	Status      models.TaskStatus
	Progress    int
	DueDate     *time.Time
	AssigneeID  *string
}

// ListTasks returns the tasks matching filter
func (s *TaskService) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.store.Tasks().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksByAssignee returns the tasks assigned to an existing user
func (s *TaskService) ListTasksByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	if _, err := s.store.Users().FindByID(ctx, userID, repository.NoLock); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return s.ListTasks(ctx, repository.TaskFilter{AssigneeID: &userID})
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	return findTask(ctx, s.store.Tasks(), taskID, repository.NoLock)
}

// CreateTask creates a new task after checking its fields and assignee
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	now := s.now()

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		Progress:    input.Progress,
		AssigneeID:  input.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityLow
	}
	if task.Status == "" {
		task.Status = models.TaskStatusNotStarted
	}
	if input.DueDate != nil {
		task.DueDate = ptr(models.NormalizeDate(*input.DueDate))
	}
	if task.AssigneeID != nil && *task.AssigneeID == "" {
		task.AssigneeID = nil
	}

	// Field errors win over ID conflicts, so validate before the ID is resolved
	requested := strings.TrimSpace(input.ID)
	draft := *task
	draft.ID = requested
	if draft.ID == "" {
		draft.ID = pendingTaskID
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		id, err := s.ids.resolve(ctx, requested, tx.Tasks())
		if err != nil {
			return err
		}
		task.ID = id

		if err := CheckAssignee(task.AssigneeID, userFinder(ctx, tx)); err != nil {
			return err
		}

		if err := tx.Tasks().Create(ctx, task); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTaskIDTaken
			}
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// UpdateTask applies a partial update to an existing task. An empty update
// returns the task untouched.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.IsEmpty() {
		return s.GetTask(ctx, taskID)
	}

	var updated models.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		// Users are locked before tasks everywhere
		var assigneeErr error
		if input.TouchesAssignee() {
			assigneeErr = CheckAssignee(input.NewAssigneeID(), userFinder(ctx, tx))
			if !deferrable(assigneeErr) {
				return assigneeErr
			}
		}

		task, err := findTask(ctx, tx.Tasks(), taskID, repository.LockUpdate)
		if err != nil {
			return err
		}

		next := ApplyTaskUpdate(*task, input, s.now())
		if err := next.Validate(); err != nil {
			return err
		}
		if assigneeErr != nil {
			return assigneeErr
		}

		if err := tx.Tasks().Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.store.Tasks().Delete(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Assign points a task at an employee or manager
func (s *TaskService) Assign(ctx context.Context, taskID, userID string) (*models.Task, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrAssigneeIDRequired
	}

	var updated models.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		assigneeErr := CheckAssignee(&userID, userFinder(ctx, tx))
		if !deferrable(assigneeErr) {
			return assigneeErr
		}

		task, err := findTask(ctx, tx.Tasks(), taskID, repository.LockUpdate)
		if err != nil {
			return err
		}

		if errors.Is(assigneeErr, ErrAssigneeNotFound) {
			return ErrAssignTargetNotFound
		}
		if assigneeErr != nil {
			return assigneeErr
		}

		next := ApplyTaskUpdate(*task, UpdateTaskInput{AssigneeID: &userID}, s.now())
		if err := tx.Tasks().Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to assign task: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// Unassign clears the assignee of a task. Unassigning an unassigned task
// succeeds without writing.
func (s *TaskService) Unassign(ctx context.Context, taskID string) (*models.Task, error) {
	var updated models.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		task, err := findTask(ctx, tx.Tasks(), taskID, repository.LockUpdate)
		if err != nil {
			return err
		}

		if !task.IsAssigned() {
			updated = *task
			return nil
		}

		next := ApplyTaskUpdate(*task, UpdateTaskInput{ClearAssignee: true}, s.now())
		if err := tx.Tasks().Update(ctx, &next); err != nil {
			return fmt.Errorf("failed to unassign task: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DraftTasks uses AI to turn free text into unsaved task drafts
func (s *TaskService) DraftTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	today := models.NormalizeDate(s.now())
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" || len([]rune(aiTask.Title)) > constants.MaxTitleLength {
			continue
		}

		if !validPriority(aiTask.Priority) {
			aiTask.Priority = models.PriorityLow
		}

		if aiTask.DueDate != nil {
			due, err := models.ParseDate("due_date", *aiTask.DueDate)
			if err != nil || due.Before(today) {
				aiTask.DueDate = nil
			}
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	s.log.Debug("Drafted tasks from text", zap.Int("drafts", len(validTasks)))
	return validTasks, nil
}

// findTask loads a task and maps a missing row to ErrTaskNotFound
func findTask(ctx context.Context, tasks repository.TaskRepository, taskID string, lock repository.LockMode) (*models.Task, error) {
	task, err := tasks.FindByID(ctx, taskID, lock)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// userFinder adapts the transaction's user repository to CheckAssignee.
// The share lock holds the user until commit so it cannot be deleted or
// demoted between the check and the write.
func userFinder(ctx context.Context, tx repository.Store) UserFinder {
	return func(id string) (*models.User, error) {
		user, err := tx.Users().FindByID(ctx, id, repository.LockShare)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		return user, nil
	}
}

// deferrable reports whether an assignee check result may wait until the task
// has been looked up. Only reference and policy failures qualify; anything
// else means the transaction is unusable.
func deferrable(err error) bool {
	return err == nil || apierrors.Is(err, apierrors.ErrReference) || apierrors.Is(err, apierrors.ErrPolicy)
}

func validPriority(p models.TaskPriority) bool {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		return true
	}
	return false
}

func utcNow() time.Time {
	return time.Now().UTC()
}
