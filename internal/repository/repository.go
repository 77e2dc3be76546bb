package repository

import (
	"context"
	"time"

	"github.com/yukikurage/abacus-tasks/internal/models"
)

// LockMode selects the row lock taken when reading inside a transaction.
// Outside a transaction, and on SQLite, it has no effect.
type LockMode int

const (
	NoLock LockMode = iota
	// LockShare blocks concurrent writers of the row until commit
	LockShare
	// LockUpdate blocks concurrent readers that lock and all writers until commit
	LockUpdate
)

// Store groups the repositories and runs them inside transactions
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository

	// Transaction runs fn with repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string, lock LockMode) (*models.Task, error)

	// Exists reports whether a task with the ID exists
	Exists(ctx context.Context, id string) (bool, error)

	// List retrieves tasks matching the filter
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update saves every field of an existing task
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task
	Delete(ctx context.Context, id string) error

	// ClearAssignee unassigns every task assigned to the user and returns how many changed
	ClearAssignee(ctx context.Context, userID string, at time.Time) (int64, error)

	// CountByAssignee counts the tasks assigned to the user
	CountByAssignee(ctx context.Context, userID string) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *string
	SortByDueDate bool
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string, lock LockMode) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves users matching the filter
	List(ctx context.Context, filter UserFilter) ([]models.User, error)

	// Update saves every field of an existing user
	Update(ctx context.Context, user *models.User) error

	// Delete deletes a user
	Delete(ctx context.Context, id string) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role *models.Role
}
