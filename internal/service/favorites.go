package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/recipeshare/backend/internal/metrics"
	"github.com/pageza/recipeshare/backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// FavoritesCoordinator keeps recipe likes, like counts and the users' created
// and favorite lists consistent with each other.
type FavoritesCoordinator struct {
	db *gorm.DB
}

// NewFavoritesCoordinator creates a new FavoritesCoordinator instance
func NewFavoritesCoordinator(db *gorm.DB) *FavoritesCoordinator {
	return &FavoritesCoordinator{db: db}
}

// RepairReport summarizes a repair run.
type RepairReport struct {
	UsersScanned     int `json:"users_scanned"`
	UsersRepaired    int `json:"users_repaired"`
	DanglingRemoved  int `json:"dangling_removed"`
	RecipesScanned   int `json:"recipes_scanned"`
	RecipesRecounted int `json:"recipes_recounted"`
}

// applyLike adds or removes userID from the recipe's likes and recomputes
// the counter from the set.
func (c *FavoritesCoordinator) applyLike(recipe *models.Recipe, userID uuid.UUID, like bool) error {
	if like {
		if !recipe.Likes.Add(userID) {
			return newError(KindAlreadyLiked, "recipe already liked")
		}
	} else if !recipe.Likes.Remove(userID) {
		return newError(KindNotLiked, "recipe not liked")
	}
	recipe.SyncLikesCount()
	return nil
}

// saveLikes writes the likes set and its count in a single update.
func (c *FavoritesCoordinator) saveLikes(tx *gorm.DB, recipe *models.Recipe) error {
	recipe.SyncLikesCount()
	return tx.Model(recipe).Updates(map[string]interface{}{
		"likes":       recipe.Likes,
		"likes_count": recipe.LikesCount,
	}).Error
}

// linkCreated records a new recipe in its author's created list.
func (c *FavoritesCoordinator) linkCreated(tx *gorm.DB, author *models.User, recipeID uuid.UUID) error {
	if !author.CreatedRecipes.Add(recipeID) {
		return nil
	}
	return tx.Model(author).Update("created_recipes", author.CreatedRecipes).Error
}

// sweepDeleted removes a deleted recipe from its author's created list and
// from every favorite list. Re-running it is a no-op.
func (c *FavoritesCoordinator) sweepDeleted(tx *gorm.DB, recipeID, authorID uuid.UUID) (int, error) {
	var users []models.User
	err := forUpdate(tx).
		Where("id = ?", authorID).
		Or(c.containsClause(tx, "created_recipes"), c.containsValue(tx, recipeID)).
		Or(c.containsClause(tx, "favorite_recipes"), c.containsValue(tx, recipeID)).
		Find(&users).Error
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range users {
		u := &users[i]
		created := u.CreatedRecipes.Remove(recipeID)
		favorite := u.FavoriteRecipes.Remove(recipeID)
		if !created && !favorite {
			continue
		}
		if err := tx.Model(u).Updates(map[string]interface{}{
			"created_recipes":  u.CreatedRecipes,
			"favorite_recipes": u.FavoriteRecipes,
		}).Error; err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}

// containsClause builds a condition matching rows whose JSON list column
// holds a given id.
func (c *FavoritesCoordinator) containsClause(db *gorm.DB, column string) string {
	if isPostgres(db) {
		return column + " @> ?::jsonb"
	}
	return column + " LIKE ?"
}

func (c *FavoritesCoordinator) containsValue(db *gorm.DB, id uuid.UUID) string {
	if isPostgres(db) {
		return fmt.Sprintf(`["%s"]`, id)
	}
	return fmt.Sprintf(`%%"%s"%%`, id)
}

// Repair removes references to recipes that no longer exist from every
// user's lists and recomputes every recipe's like counter.
func (c *FavoritesCoordinator) Repair(ctx context.Context) (*RepairReport, error) {
	report := &RepairReport{}
	db := c.db.WithContext(ctx)

	var users []models.User
	err := db.Select("id").FindInBatches(&users, 100, func(batch *gorm.DB, _ int) error {
		for _, u := range users {
			removed, err := c.repairUser(db, u.ID)
			if err != nil {
				return err
			}
			report.UsersScanned++
			if removed > 0 {
				report.UsersRepaired++
				report.DanglingRemoved += removed
			}
		}
		return nil
	}).Error
	if err != nil {
		return report, storageError(err, "user", "repair")
	}

	var recipes []models.Recipe
	err = db.Select("id", "likes", "likes_count").FindInBatches(&recipes, 100, func(batch *gorm.DB, _ int) error {
		for i := range recipes {
			r := &recipes[i]
			report.RecipesScanned++
			if r.LikesCount == len(r.Likes) {
				continue
			}
			recounted, err := c.recountLikes(db, r.ID)
			if err != nil {
				return err
			}
			if recounted {
				report.RecipesRecounted++
			}
		}
		return nil
	}).Error
	if err != nil {
		return report, storageError(err, "recipe", "repair")
	}

	log.WithFields(log.Fields{
		"users_repaired":    report.UsersRepaired,
		"dangling_removed":  report.DanglingRemoved,
		"recipes_recounted": report.RecipesRecounted,
	}).Info("favorites repair finished")
	return report, nil
}

// recountLikes re-reads one recipe under a row lock and rewrites its counter
// from the locked likes set. It reports whether the counter changed.
func (c *FavoritesCoordinator) recountLikes(db *gorm.DB, recipeID uuid.UUID) (bool, error) {
	recounted := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := forUpdate(tx).Select("id", "likes", "likes_count").First(&recipe, "id = ?", recipeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if recipe.LikesCount == len(recipe.Likes) {
			return nil
		}
		recounted = true
		return tx.Model(&recipe).Update("likes_count", len(recipe.Likes)).Error
	})
	return recounted, err
}

// repairUser drops dangling ids from one user's lists under a row lock and
// returns how many were removed.
func (c *FavoritesCoordinator) repairUser(db *gorm.DB, userID uuid.UUID) (int, error) {
	removed := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		referenced := append(append([]uuid.UUID{}, user.CreatedRecipes...), user.FavoriteRecipes...)
		if len(referenced) == 0 {
			return nil
		}
		var existing []uuid.UUID
		if err := tx.Model(&models.Recipe{}).Where("id IN ?", referenced).Pluck("id", &existing).Error; err != nil {
			return err
		}
		live := make(map[uuid.UUID]bool, len(existing))
		for _, id := range existing {
			live[id] = true
		}

		created := keepLive(user.CreatedRecipes, live)
		favorites := keepLive(user.FavoriteRecipes, live)
		removed = len(user.CreatedRecipes) - len(created) + len(user.FavoriteRecipes) - len(favorites)
		if removed == 0 {
			return nil
		}
		return tx.Model(&user).Updates(map[string]interface{}{
			"created_recipes":  created,
			"favorite_recipes": favorites,
		}).Error
	})
	return removed, err
}

func keepLive(ids models.IDList, live map[uuid.UUID]bool) models.IDList {
	out := models.IDList{}
	for _, id := range ids {
		if live[id] {
			out = append(out, id)
		}
	}
	return out
}

func recordSweep(swept int) {
	metrics.CascadeUsersSwept.Add(float64(swept))
}
