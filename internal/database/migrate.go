package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// searchIndex backs full-text recipe search on postgres.
const searchIndex = `CREATE INDEX IF NOT EXISTS idx_recipes_search ON recipes
	USING GIN (to_tsvector('english', name || ' ' || ingredients))`

// Migrate creates or updates the schema and seeds the default categories.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Recipe{}, &models.RecipeCategory{}); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(searchIndex).Error; err != nil {
			return fmt.Errorf("failed to create search index: %w", err)
		}
	}

	seeded, err := SeedCategories(db)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"dialect":            db.Dialector.Name(),
		"categories_created": seeded,
	}).Info("database migrated")
	return nil
}

// SeedCategories inserts any default category that is missing and returns
// how many were created. Existing rows are left alone.
func SeedCategories(db *gorm.DB) (int, error) {
	created := 0
	for _, c := range models.DefaultCategories() {
		var count int64
		if err := db.Model(&models.RecipeCategory{}).Where("name = ?", c.Name).Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to check category %s: %w", c.Name, err)
		}
		if count > 0 {
			continue
		}
		c.ID = uuid.New()
		if err := db.Create(&c).Error; err != nil {
			return created, fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
		created++
	}
	return created, nil
}
