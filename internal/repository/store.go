package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is a GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) Store {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository {
	return NewUserRepository(s.db)
}

func (s *GormStore) Tasks() TaskRepository {
	return NewTaskRepository(s.db)
}

// Transaction runs fn inside a database transaction
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// withLock adds the row lock clause for mode
func withLock(db *gorm.DB, mode LockMode) *gorm.DB {
	switch mode {
	case LockShare:
		return db.Clauses(clause.Locking{Strength: "SHARE"})
	case LockUpdate:
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	default:
		return db
	}
}
