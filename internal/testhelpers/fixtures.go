package testhelpers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/models"
	"gorm.io/gorm"
)

// CreateUser inserts an active user with an unusable password hash.
func CreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:              uuid.New(),
		Name:            name,
		Email:           fmt.Sprintf("%s-%s@example.com", strings.ToLower(strings.ReplaceAll(name, " ", ".")), uuid.NewString()[:8]),
		PasswordHash:    "!",
		CreatedRecipes:  models.IDList{},
		FavoriteRecipes: models.IDList{},
		IsActive:        true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// ReloadUser reads a user back from the database.
func ReloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *models.User {
	t.Helper()
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload user %s: %v", id, err)
	}
	return &user
}

// ReloadRecipe reads a recipe back from the database.
func ReloadRecipe(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Recipe {
	t.Helper()
	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload recipe %s: %v", id, err)
	}
	return &recipe
}
