package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/abacus-tasks/internal/models"
)

func baseTask() models.Task {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	return models.Task{
		ID:          "T1",
		Title:       "Original",
		Description: ptr("details"),
		Priority:    models.PriorityMedium,
		Status:      models.TaskStatusNotStarted,
		Progress:    10,
		DueDate:     &due,
		AssigneeID:  ptr("alice"),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestApplyTaskUpdate_EmptyReturnsTaskUnchanged(t *testing.T) {
	task := baseTask()
	now := task.UpdatedAt.Add(time.Hour)

	assert.Equal(t, task, ApplyTaskUpdate(task, UpdateTaskInput{}, now))
}

func TestApplyTaskUpdate_OnlyTouchesSuppliedFields(t *testing.T) {
	task := baseTask()
	now := task.UpdatedAt.Add(time.Hour)

	next := ApplyTaskUpdate(task, UpdateTaskInput{Status: ptr(models.TaskStatusCompleted)}, now)

	assert.Equal(t, models.TaskStatusCompleted, next.Status)
	assert.Equal(t, now, next.UpdatedAt)

	expected := task
	expected.Status = models.TaskStatusCompleted
	expected.UpdatedAt = now
	assert.Equal(t, expected, next)
}

func TestApplyTaskUpdate_DoesNotAliasInput(t *testing.T) {
	task := baseTask()
	desc := "new"
	next := ApplyTaskUpdate(task, UpdateTaskInput{Description: &desc}, task.UpdatedAt)

	desc = "mutated"
	assert.Equal(t, "new", *next.Description)
	assert.Equal(t, "details", *task.Description)
}

func TestApplyTaskUpdate_Clears(t *testing.T) {
	task := baseTask()
	next := ApplyTaskUpdate(task, UpdateTaskInput{
		ClearDescription: true,
		ClearDueDate:     true,
		ClearAssignee:    true,
	}, task.UpdatedAt.Add(time.Minute))

	assert.Nil(t, next.Description)
	assert.Nil(t, next.DueDate)
	assert.Nil(t, next.AssigneeID)
	assert.Equal(t, task.ID, next.ID)
	assert.Equal(t, task.CreatedAt, next.CreatedAt)
}

func TestApplyTaskUpdate_EmptyAssigneeClears(t *testing.T) {
	task := baseTask()
	next := ApplyTaskUpdate(task, UpdateTaskInput{AssigneeID: ptr("")}, task.UpdatedAt)

	assert.Nil(t, next.AssigneeID)
}

func TestApplyTaskUpdate_NormalizesDueDate(t *testing.T) {
	task := baseTask()
	due := time.Date(2025, 8, 15, 23, 59, 0, 0, time.UTC)
	next := ApplyTaskUpdate(task, UpdateTaskInput{DueDate: &due}, task.UpdatedAt)

	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), *next.DueDate)
}

func TestApplyUserUpdate(t *testing.T) {
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	user := models.User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     ptr("Alice"),
		Role:         models.RoleEmployee,
		PasswordHash: "old",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	now := created.Add(time.Hour)

	assert.Equal(t, user, ApplyUserUpdate(user, UpdateUserInput{}, "", now))

	next := ApplyUserUpdate(user, UpdateUserInput{Email: ptr(" ALICE@Example.org "), ClearFullName: true}, "", now)
	assert.Equal(t, "alice@example.org", next.Email)
	assert.Nil(t, next.FullName)
	assert.Equal(t, "old", next.PasswordHash)
	assert.Equal(t, now, next.UpdatedAt)

	next = ApplyUserUpdate(user, UpdateUserInput{Password: ptr("x")}, "new", now)
	assert.Equal(t, "new", next.PasswordHash)
}

func TestUpdateTaskInput_NewAssigneeID(t *testing.T) {
	assert.False(t, UpdateTaskInput{}.TouchesAssignee())
	assert.True(t, UpdateTaskInput{ClearAssignee: true}.TouchesAssignee())
	assert.Nil(t, UpdateTaskInput{ClearAssignee: true, AssigneeID: ptr("bob")}.NewAssigneeID())
	assert.Equal(t, "bob", *UpdateTaskInput{AssigneeID: ptr("bob")}.NewAssigneeID())
}
