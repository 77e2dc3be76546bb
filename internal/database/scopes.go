package database

import (
	"gorm.io/gorm"
)

// Equals filters column by value when value is set
func Equals[T any](column string, value *T) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == nil {
			return db
		}
		return db.Where(column+" = ?", *value)
	}
}
