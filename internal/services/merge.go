package services

import (
	"time"

	"github.com/yukikurage/abacus-tasks/internal/models"
)

// UpdateTaskInput is a partial task update. Nil fields are left unchanged;
// the Clear flags set a nullable field to empty.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Priority         *models.TaskPriority
	Status           *models.TaskStatus
	Progress         *int
	DueDate          *time.Time
	ClearDueDate     bool
	AssigneeID       *string
	ClearAssignee    bool
}

// IsEmpty reports whether the update sets no field at all.
func (in UpdateTaskInput) IsEmpty() bool {
	return in.Title == nil &&
		in.Description == nil && !in.ClearDescription &&
		in.Priority == nil &&
		in.Status == nil &&
		in.Progress == nil &&
		in.DueDate == nil && !in.ClearDueDate &&
		!in.TouchesAssignee()
}

// TouchesAssignee reports whether the update sets or clears the assignee.
func (in UpdateTaskInput) TouchesAssignee() bool {
	return in.AssigneeID != nil || in.ClearAssignee
}

// NewAssigneeID returns the assignee the update would leave on the task, or
// nil when it clears it. Only meaningful when TouchesAssignee is true.
func (in UpdateTaskInput) NewAssigneeID() *string {
	if in.ClearAssignee || in.AssigneeID == nil || *in.AssigneeID == "" {
		return nil
	}
	return ptr(*in.AssigneeID)
}

// ApplyTaskUpdate returns the snapshot of task after input. ID and CreatedAt
// always carry over. A non-empty update stamps UpdatedAt with now; an empty
// one returns task unchanged.
func ApplyTaskUpdate(task models.Task, input UpdateTaskInput, now time.Time) models.Task {
	if input.IsEmpty() {
		return task
	}

	next := task
	if input.Title != nil {
		next.Title = *input.Title
	}
	if input.ClearDescription {
		next.Description = nil
	} else if input.Description != nil {
		next.Description = ptr(*input.Description)
	}
	if input.Priority != nil {
		next.Priority = *input.Priority
	}
	if input.Status != nil {
		next.Status = *input.Status
	}
	if input.Progress != nil {
		next.Progress = *input.Progress
	}
	if input.ClearDueDate {
		next.DueDate = nil
	} else if input.DueDate != nil {
		next.DueDate = ptr(models.NormalizeDate(*input.DueDate))
	}
	if input.TouchesAssignee() {
		next.AssigneeID = input.NewAssigneeID()
	}

	next.UpdatedAt = now
	return next
}

// UpdateUserInput is a partial user update. Password is hashed by the caller.
type UpdateUserInput struct {
	Username      *string
	Email         *string
	FullName      *string
	ClearFullName bool
	Role          *models.Role
	Password      *string
}

// IsEmpty reports whether the update sets no field at all.
func (in UpdateUserInput) IsEmpty() bool {
	return in.Username == nil &&
		in.Email == nil &&
		in.FullName == nil && !in.ClearFullName &&
		in.Role == nil &&
		in.Password == nil
}

// ApplyUserUpdate returns the snapshot of user after input, with
// passwordHash replacing the credential when non-empty. Same touch rule as
// ApplyTaskUpdate.
func ApplyUserUpdate(user models.User, input UpdateUserInput, passwordHash string, now time.Time) models.User {
	if input.IsEmpty() {
		return user
	}

	next := user
	if input.Username != nil {
		next.Username = normalizeUsername(*input.Username)
	}
	if input.Email != nil {
		next.Email = normalizeEmail(*input.Email)
	}
	if input.ClearFullName {
		next.FullName = nil
	} else if input.FullName != nil {
		next.FullName = ptr(*input.FullName)
	}
	if input.Role != nil {
		next.Role = *input.Role
	}
	if passwordHash != "" {
		next.PasswordHash = passwordHash
	}

	next.UpdatedAt = now
	return next
}

func ptr[T any](v T) *T {
	return &v
}
