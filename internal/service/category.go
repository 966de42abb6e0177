package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/metrics"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CategoryService handles category display data and recipe counts
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryService instance
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// ListCategories returns the active categories in enum order.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.RecipeCategory, error) {
	var categories []models.RecipeCategory
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&categories).Error; err != nil {
		return nil, storageError(err, "category", "list")
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name.Position() < categories[j].Name.Position()
	})
	return categories, nil
}

// GetCategory returns a category by name.
func (s *CategoryService) GetCategory(ctx context.Context, name string) (*models.RecipeCategory, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	var category models.RecipeCategory
	if err := s.db.WithContext(ctx).First(&category, "name = ?", name).Error; err != nil {
		return nil, storageError(err, "category", "load")
	}
	return &category, nil
}

// CreateCategory stores display data for one of the fixed categories. Its
// recipe count is computed on creation.
func (s *CategoryService) CreateCategory(ctx context.Context, req *types.CreateCategoryRequest) (*models.RecipeCategory, error) {
	req.Name = strings.ToLower(strings.TrimSpace(req.Name))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	category := &models.RecipeCategory{
		ID:          uuid.New(),
		Name:        models.Category(req.Name),
		DisplayName: req.DisplayName,
		Emoji:       req.Emoji,
		Color:       strings.ToUpper(req.Color),
		Description: req.Description,
		IsActive:    true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.RecipeCategory{}).Where("name = ?", category.Name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return newError(KindConflict, "category %s already exists", category.Name)
		}
		if err := tx.Model(&models.Recipe{}).Where("category = ?", category.Name).Count(&category.RecipeCount).Error; err != nil {
			return err
		}
		return tx.Create(category).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, newError(KindConflict, "category %s already exists", category.Name)
	}
	if err != nil {
		return nil, storageError(err, "category", "create")
	}
	return category, nil
}

// UpdateCategory changes display fields and the active flag. The name is immutable.
func (s *CategoryService) UpdateCategory(ctx context.Context, name string, req *types.UpdateCategoryRequest) (*models.RecipeCategory, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	category, err := s.GetCategory(ctx, name)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		category.DisplayName = *req.DisplayName
		updates["display_name"] = category.DisplayName
	}
	if req.Emoji != nil {
		category.Emoji = *req.Emoji
		updates["emoji"] = category.Emoji
	}
	if req.Color != nil {
		category.Color = strings.ToUpper(*req.Color)
		updates["color"] = category.Color
	}
	if req.Description != nil {
		category.Description = *req.Description
		updates["description"] = category.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
		updates["is_active"] = category.IsActive
	}
	if len(updates) == 0 {
		return category, nil
	}
	if err := s.db.WithContext(ctx).Model(category).Updates(updates).Error; err != nil {
		return nil, storageError(err, "category", "update")
	}
	return category, nil
}

// Recount recomputes a category's recipe count from the recipes table.
func (s *CategoryService) Recount(ctx context.Context, name string) (int64, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !models.Category(name).Valid() {
		return 0, notFound("category")
	}

	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("category = ?", name).Count(&count).Error; err != nil {
			return err
		}
		res := tx.Model(&models.RecipeCategory{}).Where("name = ?", name).Update("recipe_count", count)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("category")
		}
		return nil
	})
	if err != nil {
		return 0, storageError(err, "category", "recount")
	}

	metrics.CategoryRecounts.Inc()
	log.WithFields(log.Fields{"category": name, "recipe_count": count}).Debug("category recounted")
	return count, nil
}

// RecountAll recomputes the recipe count of every stored category.
func (s *CategoryService) RecountAll(ctx context.Context) (map[models.Category]int64, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.RecipeCategory{}).Pluck("name", &names).Error; err != nil {
		return nil, storageError(err, "category", "list")
	}
	counts := make(map[models.Category]int64, len(names))
	for _, name := range names {
		n, err := s.Recount(ctx, name)
		if err != nil {
			return counts, err
		}
		counts[models.Category(name)] = n
	}
	return counts, nil
}
