package types

import (
	"github.com/pageza/recipeshare/backend/internal/models"
)

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name          string                `json:"name" validate:"required,min=2,max=100"`
	Image         string                `json:"image" validate:"required,url,max=500"`
	Ingredients   string                `json:"ingredients" validate:"required,min=10,max=1000"`
	Steps         string                `json:"steps" validate:"required,min=10,max=2000"`
	Category      string                `json:"category" validate:"required,recipecategory"`
	Time          string                `json:"time" validate:"required,cooktime"`
	Difficulty    string                `json:"difficulty" validate:"omitempty,difficulty"`
	Servings      *int                  `json:"servings" validate:"omitnil,min=1,max=20"`
	Rating        string                `json:"rating" validate:"omitempty,rating"`
	Tags          []string              `json:"tags" validate:"max=20,dive,max=30"`
	NutritionInfo *models.NutritionInfo `json:"nutrition_info" validate:"omitempty"`
	IsPublic      *bool                 `json:"is_public"`
}

// UpdateRecipeRequest is a partial update; nil fields are left unchanged.
type UpdateRecipeRequest struct {
	Name          *string               `json:"name" validate:"omitnil,min=2,max=100"`
	Image         *string               `json:"image" validate:"omitnil,url,max=500"`
	Ingredients   *string               `json:"ingredients" validate:"omitnil,min=10,max=1000"`
	Steps         *string               `json:"steps" validate:"omitnil,min=10,max=2000"`
	Category      *string               `json:"category" validate:"omitnil,recipecategory"`
	Time          *string               `json:"time" validate:"omitnil,cooktime"`
	Difficulty    *string               `json:"difficulty" validate:"omitnil,difficulty"`
	Servings      *int                  `json:"servings" validate:"omitnil,min=1,max=20"`
	Rating        *string               `json:"rating" validate:"omitnil,rating"`
	Tags          []string              `json:"tags" validate:"omitempty,max=20,dive,max=30"`
	NutritionInfo *models.NutritionInfo `json:"nutrition_info" validate:"omitempty"`
	IsPublic      *bool                 `json:"is_public"`
}

// RecipeQuery selects a page of recipes. Mine switches to the requester's
// own recipes, private ones included.
type RecipeQuery struct {
	Query      string `form:"q"`
	Category   string `form:"category"`
	Difficulty string `form:"difficulty"`
	Sort       string `form:"sort"`
	Page       int    `form:"page"`
	PageSize   int    `form:"limit"`
	Mine       bool   `form:"-"`
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"limit"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
}

// NewPagination computes the page count as ceil(total / pageSize).
func NewPagination(page, pageSize int, total int64) Pagination {
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Pages:    pages,
		HasNext:  page < pages,
		HasPrev:  page > 1,
	}
}

// RecipePage is one page of a recipe listing.
type RecipePage struct {
	Recipes    []*models.Recipe `json:"recipes"`
	Pagination Pagination       `json:"pagination"`
}

// LikeResponse reports the like state after a like or unlike.
type LikeResponse struct {
	RecipeID   string `json:"recipe_id"`
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likes_count"`
}
