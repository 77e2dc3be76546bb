package repository

import (
	"context"
	"time"

	"github.com/yukikurage/abacus-tasks/internal/database"
	"github.com/yukikurage/abacus-tasks/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string, lock LockMode) (*models.Task, error) {
	var task models.Task
	if err := withLock(r.db.WithContext(ctx), lock).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Exists reports whether a task with the ID exists
func (r *GormTaskRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(
			database.Equals("tasks.status", filter.Status),
			database.Equals("tasks.priority", filter.Priority),
			database.Equals("tasks.assignee_id", filter.AssigneeID),
		)

	if filter.SortByDueDate {
		query = query.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC")
	}
	query = query.Order("tasks.created_at ASC").Order("tasks.id ASC")

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves every field of an existing task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearAssignee unassigns every task assigned to the user
func (r *GormTaskRepository) ClearAssignee(ctx context.Context, userID string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("assignee_id = ?", userID).
		Updates(map[string]interface{}{
			"assignee_id": nil,
			"updated_at":  at,
		})
	return result.RowsAffected, result.Error
}

// CountByAssignee counts the tasks assigned to the user
func (r *GormTaskRepository) CountByAssignee(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("assignee_id = ?", userID).
		Count(&count).Error
	return count, err
}
