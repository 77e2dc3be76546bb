package models

import (
	"time"
)

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusApproved   TaskStatus = "approved"
	TaskStatusRejected   TaskStatus = "rejected"
	TaskStatusReSubmit   TaskStatus = "re_submit"
)

// DateLayout is the wire format of calendar dates such as due_date.
const DateLayout = time.DateOnly

type Task struct {
	ID          string       `gorm:"type:varchar(36);primarykey" json:"id" validate:"required,entityid"`
	Title       string       `gorm:"type:varchar(200);not null;index" json:"title" validate:"required,min=1,max=200"`
	Description *string      `gorm:"type:text" json:"description"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'low'" json:"priority" validate:"required,oneof=low medium high critical"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'not_started';index" json:"status" validate:"required,oneof=not_started in_progress completed approved rejected re_submit"`
	Progress    int          `gorm:"not null;default:0" json:"progress" validate:"min=0,max=100"`
	DueDate     *time.Time   `gorm:"type:date" json:"due_date"`
	AssigneeID  *string      `gorm:"type:varchar(36);index" json:"assignee_id" validate:"omitempty,entityid"`
	CreatedAt   time.Time    `gorm:"autoCreateTime:false;not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime:false;not null" json:"updated_at"`

	// Only declared so migrations emit the foreign key; never loaded or saved.
	Assignee *User `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-" validate:"-"`
}

// Validate checks the field-level constraints of the task.
func (t *Task) Validate() error {
	return validateStruct(t)
}

// IsAssigned reports whether the task currently has an assignee.
func (t *Task) IsAssigned() bool {
	return t.AssigneeID != nil && *t.AssigneeID != ""
}

// NormalizeDate truncates t to its calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, newFieldError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
