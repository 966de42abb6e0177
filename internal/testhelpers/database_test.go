package testhelpers

import (
	"testing"

	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDBSeedsCategories(t *testing.T) {
	db := NewSQLiteDB(t)

	var count int64
	require.NoError(t, db.Model(&models.RecipeCategory{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.Categories)), count)
}

func TestCreateUser(t *testing.T) {
	db := NewSQLiteDB(t)

	user := CreateUser(t, db, "Test User")
	got := ReloadUser(t, db, user.ID)

	assert.Equal(t, "Test User", got.Name)
	assert.True(t, got.IsActive)
	assert.Empty(t, got.FavoriteRecipes)
}

func TestSetupPostgres(t *testing.T) {
	db := SetupPostgres(t)

	var count int64
	require.NoError(t, db.Model(&models.RecipeCategory{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.Categories)), count)
}
