package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	GenerateToken(userID uuid.UUID) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id, requester uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, requester uuid.UUID) error
	LikeRecipe(ctx context.Context, id, userID uuid.UUID) (int, error)
	UnlikeRecipe(ctx context.Context, id, userID uuid.UUID) (int, error)
	ListRecipes(ctx context.Context, q types.RecipeQuery, requester *uuid.UUID) (*types.RecipePage, error)
	SearchRecipes(ctx context.Context, text string, q types.RecipeQuery, requester *uuid.UUID) (*types.RecipePage, error)
	ListFavoriteRecipes(ctx context.Context, userID uuid.UUID) ([]*models.Recipe, error)
}

// IUserService defines the interface for user profile and favorites operations
type IUserService interface {
	GetUser(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*types.UserProfile, error)
	ListUsers(ctx context.Context, page, pageSize int) (*types.UserPage, error)
	UpdateUser(ctx context.Context, id, requester uuid.UUID, req *types.UpdateUserRequest) (*models.User, error)
	DeactivateUser(ctx context.Context, id, requester uuid.UUID) error
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error
}

// ICategoryService defines the interface for category operations
type ICategoryService interface {
	ListCategories(ctx context.Context) ([]models.RecipeCategory, error)
	GetCategory(ctx context.Context, name string) (*models.RecipeCategory, error)
	CreateCategory(ctx context.Context, req *types.CreateCategoryRequest) (*models.RecipeCategory, error)
	UpdateCategory(ctx context.Context, name string, req *types.UpdateCategoryRequest) (*models.RecipeCategory, error)
	Recount(ctx context.Context, name string) (int64, error)
	RecountAll(ctx context.Context) (map[models.Category]int64, error)
}

// IImageService defines the interface for image uploads
type IImageService interface {
	Upload(ctx context.Context, userID uuid.UUID, data []byte) (*types.ImageUploadResponse, error)
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IRecipeService   = (*RecipeService)(nil)
	_ IUserService     = (*UserService)(nil)
	_ ICategoryService = (*CategoryService)(nil)
	_ IImageService    = (*ImageService)(nil)
)
