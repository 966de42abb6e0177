package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/models"
)

// UserProfile is the public view of a user with recipe ids resolved to summaries.
type UserProfile struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email,omitempty"`
	Avatar          string                 `json:"avatar"`
	IsActive        bool                   `json:"is_active"`
	CreatedAt       time.Time              `json:"created_at"`
	CreatedRecipes  []models.RecipeSummary `json:"created_recipes"`
	FavoriteRecipes []models.RecipeSummary `json:"favorite_recipes"`
}

// UpdateUserRequest carries the mutable profile fields.
type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitnil,min=2,max=50"`
	Avatar *string `json:"avatar" validate:"omitempty,url,max=500"`
}

// UserPage is one page of the user listing.
type UserPage struct {
	Users      []*models.User `json:"users"`
	Pagination Pagination     `json:"pagination"`
}
