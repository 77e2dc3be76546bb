package services

import (
	"errors"

	apierrors "github.com/yukikurage/abacus-tasks/internal/errors"
)

var (
	ErrTaskNotFound = apierrors.New(apierrors.ErrNotFound, "task not found")
	ErrUserNotFound = apierrors.New(apierrors.ErrNotFound, "user not found")
	// ErrAssigneeNotFound is a dangling reference in a task payload
	ErrAssigneeNotFound = apierrors.New(apierrors.ErrReference, "assignee not found")
	// ErrAssignTargetNotFound is the target of an explicit assign that does not exist
	ErrAssignTargetNotFound = apierrors.New(apierrors.ErrNotFound, "assignee not found")
	ErrInvalidAssigneeRole  = apierrors.New(apierrors.ErrPolicy, "assignee must be employee or manager")
	ErrRoleHasAssignments   = apierrors.New(apierrors.ErrPolicy, "user holds task assignments and cannot become admin")

	ErrTaskIDTaken        = apierrors.New(apierrors.ErrConflict, "task id already exists")
	ErrTaskIDUnavailable  = apierrors.New(apierrors.ErrConflict, "could not generate a unique task id, try again")
	ErrUsernameTaken      = apierrors.New(apierrors.ErrConflict, "username already exists")
	ErrEmailTaken         = apierrors.New(apierrors.ErrConflict, "email already exists")
	ErrUserConflict       = apierrors.New(apierrors.ErrConflict, "username or email already exists")
	ErrTaskIDRequired     = apierrors.NewValidationError("id", "is required")
	ErrAssigneeIDRequired = apierrors.NewValidationError("assignee_id", "is required")

	ErrFailedToHashPassword   = errors.New("failed to hash password")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)
