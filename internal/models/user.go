package models

import (
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// CanHoldAssignments reports whether a user with this role may be a task assignee.
func (r Role) CanHoldAssignments() bool {
	return r == RoleEmployee || r == RoleManager
}

type User struct {
	ID           string    `gorm:"type:varchar(36);primarykey" json:"id" validate:"required,max=36"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username" validate:"required,min=3,max=50"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email,max=255"`
	FullName     *string   `gorm:"type:varchar(255)" json:"full_name" validate:"omitempty,max=255"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'employee'" json:"role" validate:"required,oneof=admin manager employee"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-" validate:"required"`
	CreatedAt    time.Time `gorm:"autoCreateTime:false;not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false;not null" json:"updated_at"`
}

// Validate checks the field-level constraints of the user.
func (u *User) Validate() error {
	return validateStruct(u)
}
