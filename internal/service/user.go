package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/metrics"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/types"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserService handles user profile and favorites operations
type UserService struct {
	db     *gorm.DB
	paging Paging
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB, paging Paging) *UserService {
	return &UserService{db: db, paging: paging}
}

// GetUser returns a profile with authored and favorite recipes resolved to
// summaries. Deactivated users remain readable. Private recipes are only
// listed for their author, and the email is only shown to its owner.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*types.UserProfile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, storageError(err, "user", "load")
	}

	profile := &types.UserProfile{
		ID:              user.ID,
		Name:            user.Name,
		Avatar:          user.Avatar,
		IsActive:        user.IsActive,
		CreatedAt:       user.CreatedAt,
		CreatedRecipes:  []models.RecipeSummary{},
		FavoriteRecipes: []models.RecipeSummary{},
	}
	if requester != nil && *requester == user.ID {
		profile.Email = user.Email
	}

	ids := append(append([]uuid.UUID{}, user.CreatedRecipes...), user.FavoriteRecipes...)
	if len(ids) == 0 {
		return profile, nil
	}
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, storageError(err, "recipe", "list")
	}
	byID := make(map[uuid.UUID]*models.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}

	resolve := func(list models.IDList) []models.RecipeSummary {
		out := []models.RecipeSummary{}
		for _, rid := range list {
			if r, ok := byID[rid]; ok && r.VisibleTo(requester) {
				out = append(out, r.Summary())
			}
		}
		return out
	}
	profile.CreatedRecipes = resolve(user.CreatedRecipes)
	profile.FavoriteRecipes = resolve(user.FavoriteRecipes)
	return profile, nil
}

// ListUsers returns a page of active users, newest first.
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) (*types.UserPage, error) {
	page, pageSize, err := s.paging.resolve(page, pageSize)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true).Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, storageError(err, "user", "count")
	}
	users := []*models.User{}
	if err := query.Order("created_at DESC, id ASC").Offset(offset(page, pageSize)).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, storageError(err, "user", "list")
	}
	return &types.UserPage{
		Users:      users,
		Pagination: types.NewPagination(page, pageSize, total),
	}, nil
}

// UpdateUser changes the display name and avatar. Users may only update
// themselves.
func (s *UserService) UpdateUser(ctx context.Context, id, requester uuid.UUID, req *types.UpdateUserRequest) (*models.User, error) {
	if id != requester {
		return nil, accessDenied("users can only update their own profile")
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if !user.IsActive {
			return accessDenied("account is deactivated")
		}
		updates := map[string]interface{}{}
		if req.Name != nil {
			user.Name = *req.Name
			updates["name"] = user.Name
		}
		if req.Avatar != nil {
			user.Avatar = *req.Avatar
			updates["avatar"] = user.Avatar
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, storageError(err, "user", "update")
	}
	return &user, nil
}

// DeactivateUser soft-deletes the requester's own account. Authored recipes
// and other users' favorites are left untouched.
func (s *UserService) DeactivateUser(ctx context.Context, id, requester uuid.UUID) error {
	if id != requester {
		return accessDenied("users can only deactivate their own account")
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return storageError(res.Error, "user", "deactivate")
	}
	if res.RowsAffected == 0 {
		return notFound("user")
	}
	log.WithField("user_id", id).Info("user deactivated")
	return nil
}

// AddFavorite appends recipeID to the user's favorites.
func (s *UserService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := forShare(tx).Select("id", "author_id", "is_public").First(&recipe, "id = ?", recipeID).Error; err != nil {
			return storageError(err, "recipe", "load")
		}
		if !recipe.VisibleTo(&userID) {
			return accessDenied("recipe is private")
		}

		var user models.User
		if err := forUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
			return storageError(err, "user", "load")
		}
		if !user.IsActive {
			return accessDenied("account is deactivated")
		}
		if !user.FavoriteRecipes.Add(recipeID) {
			return newError(KindAlreadyFavorited, "recipe already in favorites")
		}
		return tx.Model(&user).Update("favorite_recipes", user.FavoriteRecipes).Error
	})
	if err != nil {
		return storageError(err, "user", "update")
	}
	metrics.RecordFavorite(true)
	return nil
}

// RemoveFavorite drops recipeID from the user's favorites. The recipe does
// not need to exist any more.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
			return storageError(err, "user", "load")
		}
		if !user.FavoriteRecipes.Remove(recipeID) {
			return newError(KindNotFavorited, "recipe not in favorites")
		}
		return tx.Model(&user).Update("favorite_recipes", user.FavoriteRecipes).Error
	})
	if err != nil {
		return storageError(err, "user", "update")
	}
	metrics.RecordFavorite(false)
	return nil
}
