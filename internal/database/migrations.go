package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// derives from the model tags. The composite unique index on collaborators
// is created by AutoMigrate; everything here is a plain lookup index.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Vichar indexes for listing and soft-delete filtering
		{"vichars", "idx_vichars_user_id", "user_id"},
		{"vichars", "idx_vichars_deleted_at", "deleted_at"},
		{"vichars", "idx_vichars_created_at", "created_at"},

		// Collaborator lookup by granted user
		{"collaborators", "idx_collaborators_collaborator_id", "collaborator_id"},
		{"collaborators", "idx_collaborators_role_id", "role_id"},

		// Role name search
		{"roles", "idx_roles_name", "name"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
