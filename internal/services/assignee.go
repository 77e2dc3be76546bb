package services

import (
	"github.com/yukikurage/abacus-tasks/internal/models"
)

// UserFinder looks up a user by ID and returns nil, nil when none exists.
type UserFinder func(id string) (*models.User, error)

// CheckAssignee decides whether a task may carry assigneeID. An absent or
// empty ID is always allowed. It has no side effects beyond the lookup.
func CheckAssignee(assigneeID *string, find UserFinder) error {
	if assigneeID == nil || *assigneeID == "" {
		return nil
	}

	user, err := find(*assigneeID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrAssigneeNotFound
	}
	if !user.Role.CanHoldAssignments() {
		return ErrInvalidAssigneeRole
	}

	return nil
}
