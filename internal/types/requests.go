package types

import (
	"github.com/pageza/recipeshare/backend/internal/models"
)

// RegisterRequest represents the request body for account registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,recipecategory"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=50"`
	Emoji       string `json:"emoji" validate:"required,max=16"`
	Color       string `json:"color" validate:"required,rgbhex"`
	Description string `json:"description" validate:"max=200"`
}

// UpdateCategoryRequest is a partial update of a category's display fields.
type UpdateCategoryRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=50"`
	Emoji       *string `json:"emoji" validate:"omitempty,min=1,max=16"`
	Color       *string `json:"color" validate:"omitempty,rgbhex"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	IsActive    *bool   `json:"is_active"`
}

// ImageUploadResponse is returned after a successful upload.
type ImageUploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
