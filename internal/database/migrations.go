package database

import (
	"fmt"

	"github.com/yukikurage/abacus-tasks/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// extraIndexes are the indexes that struct tags do not declare
var extraIndexes = []struct {
	model   interface{}
	table   string
	name    string
	columns string
}{
	// Assignee listings filtered by status
	{&models.Task{}, "tasks", "idx_tasks_assignee_status", "assignee_id, status"},
	{&models.Task{}, "tasks", "idx_tasks_due_date", "due_date"},
	{&models.User{}, "users", "idx_users_role", "role"},
}

// EnsureIndexes adds the extra indexes if they are missing
func EnsureIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()

	for _, idx := range extraIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index", zap.String("index", idx.name), zap.String("table", idx.table), zap.String("columns", idx.columns))
	}

	return nil
}
