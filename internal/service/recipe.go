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
	"gorm.io/gorm/clause"
)

// sortOrders whitelists the accepted list sort keys. Every order ends on the
// primary key so pages are stable.
var sortOrders = map[string]string{
	"-created_at":  "created_at DESC, id ASC",
	"created_at":   "created_at ASC, id ASC",
	"-likes_count": "likes_count DESC, created_at DESC, id ASC",
	"likes_count":  "likes_count ASC, created_at DESC, id ASC",
	"name":         "name ASC, id ASC",
	"-name":        "name DESC, id ASC",
	"-rating":      "rating DESC, created_at DESC, id ASC",
}

const defaultSort = "-created_at"

// RecipeService handles recipe operations
type RecipeService struct {
	db        *gorm.DB
	favorites *FavoritesCoordinator
	paging    Paging
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, favorites *FavoritesCoordinator, paging Paging) *RecipeService {
	return &RecipeService{
		db:        db,
		favorites: favorites,
		paging:    paging,
	}
}

// CreateRecipe validates the request and stores a new recipe owned by authorID.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Ingredients = strings.TrimSpace(req.Ingredients)
	req.Steps = strings.TrimSpace(req.Steps)
	req.Time = strings.TrimSpace(req.Time)
	req.Tags = normalizeTags(req.Tags)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		ID:          uuid.New(),
		Name:        req.Name,
		Image:       req.Image,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Category:    models.Category(req.Category),
		Time:        req.Time,
		Difficulty:  models.DefaultDifficulty,
		Servings:    models.DefaultServings,
		Rating:      models.DefaultRating,
		Tags:        models.StringList(req.Tags),
		Nutrition:   req.NutritionInfo,
		AuthorID:    authorID,
		Likes:       models.IDList{},
		IsPublic:    true,
	}
	if req.Difficulty != "" {
		recipe.Difficulty = models.Difficulty(req.Difficulty)
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if req.Rating != "" {
		recipe.Rating = req.Rating
	}
	if req.IsPublic != nil {
		recipe.IsPublic = *req.IsPublic
	}
	if recipe.Tags == nil {
		recipe.Tags = models.StringList{}
	}
	recipe.SyncLikesCount()

	var author models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&author, "id = ?", authorID).Error; err != nil {
			return storageError(err, "user", "load")
		}
		if !author.IsActive {
			return accessDenied("deactivated accounts cannot create recipes")
		}
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return s.favorites.linkCreated(tx, &author, recipe.ID)
	})
	if err != nil {
		return nil, storageError(err, "recipe", "create")
	}

	metrics.RecipesCreated.Inc()
	log.WithFields(log.Fields{
		"recipe_id": recipe.ID,
		"user_id":   authorID,
		"category":  recipe.Category,
	}).Info("recipe created")

	summary := author.Summary()
	recipe.Author = &summary
	return recipe, nil
}

// GetRecipe returns a recipe visible to the requester. A nil requester is anonymous.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID, requester *uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, storageError(err, "recipe", "load")
	}
	if !recipe.VisibleTo(requester) {
		return nil, accessDenied("recipe is private")
	}
	if err := s.attachAuthors(ctx, []*models.Recipe{&recipe}); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe applies a partial update. Only the author may update; the
// author itself never changes.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, requester uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&recipe, "id = ?", id).Error; err != nil {
			return err
		}
		if recipe.AuthorID != requester {
			return accessDenied("only the author can update this recipe")
		}

		req.Name = trimmed(req.Name)
		req.Ingredients = trimmed(req.Ingredients)
		req.Steps = trimmed(req.Steps)
		req.Time = trimmed(req.Time)
		req.Tags = normalizeTags(req.Tags)
		if err := validateStruct(req); err != nil {
			return err
		}
		applyRecipeUpdate(&recipe, req)
		recipe.SyncLikesCount()
		return tx.Save(&recipe).Error
	})
	if err != nil {
		return nil, storageError(err, "recipe", "update")
	}

	if err := s.attachAuthors(ctx, []*models.Recipe{&recipe}); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// trimmed returns a trimmed copy of an optional field.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func applyRecipeUpdate(r *models.Recipe, req *types.UpdateRecipeRequest) {
	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Image != nil {
		r.Image = *req.Image
	}
	if req.Ingredients != nil {
		r.Ingredients = *req.Ingredients
	}
	if req.Steps != nil {
		r.Steps = *req.Steps
	}
	if req.Category != nil {
		r.Category = models.Category(*req.Category)
	}
	if req.Time != nil {
		r.Time = *req.Time
	}
	if req.Difficulty != nil {
		r.Difficulty = models.Difficulty(*req.Difficulty)
	}
	if req.Servings != nil {
		r.Servings = *req.Servings
	}
	if req.Rating != nil {
		r.Rating = *req.Rating
	}
	if req.Tags != nil {
		r.Tags = models.StringList(req.Tags)
	}
	if req.NutritionInfo != nil {
		r.Nutrition = req.NutritionInfo
	}
	if req.IsPublic != nil {
		r.IsPublic = *req.IsPublic
	}
}

// DeleteRecipe removes a recipe and sweeps every reference to it from user
// lists in the same transaction.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, requester uuid.UUID) error {
	swept := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := forUpdate(tx).First(&recipe, "id = ?", id).Error; err != nil {
			return err
		}
		if recipe.AuthorID != requester {
			return accessDenied("only the author can delete this recipe")
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
			return err
		}
		var err error
		swept, err = s.favorites.sweepDeleted(tx, recipe.ID, recipe.AuthorID)
		return err
	})
	if err != nil {
		return storageError(err, "recipe", "delete")
	}

	metrics.RecipesDeleted.Inc()
	recordSweep(swept)
	log.WithFields(log.Fields{
		"recipe_id":   id,
		"user_id":     requester,
		"users_swept": swept,
	}).Info("recipe deleted")
	return nil
}

// LikeRecipe adds userID to the recipe's likes and returns the new count.
func (s *RecipeService) LikeRecipe(ctx context.Context, id, userID uuid.UUID) (int, error) {
	return s.toggleLike(ctx, id, userID, true)
}

// UnlikeRecipe removes userID from the recipe's likes and returns the new count.
func (s *RecipeService) UnlikeRecipe(ctx context.Context, id, userID uuid.UUID) (int, error) {
	return s.toggleLike(ctx, id, userID, false)
}

func (s *RecipeService) toggleLike(ctx context.Context, id, userID uuid.UUID, like bool) (int, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if like {
			if err := requireActiveUser(tx, userID); err != nil {
				return err
			}
		}
		if err := forUpdate(tx).First(&recipe, "id = ?", id).Error; err != nil {
			return err
		}
		if like && !recipe.VisibleTo(&userID) {
			return accessDenied("recipe is private")
		}
		if err := s.favorites.applyLike(&recipe, userID, like); err != nil {
			return err
		}
		return s.favorites.saveLikes(tx, &recipe)
	})
	if err != nil {
		return 0, storageError(err, "recipe", "like")
	}

	metrics.RecordLike(like)
	return recipe.LikesCount, nil
}

// ListRecipes returns one page of recipes matching q. Without Mine only
// public recipes are listed; with Mine all of the requester's recipes are.
func (s *RecipeService) ListRecipes(ctx context.Context, q types.RecipeQuery, requester *uuid.UUID) (*types.RecipePage, error) {
	page, pageSize, err := s.paging.resolve(q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if q.Category != "" && !models.Category(q.Category).Valid() {
		fields["category"] = "must be one of " + joinCategories()
	}
	if q.Difficulty != "" && !models.Difficulty(q.Difficulty).Valid() {
		fields["difficulty"] = "must be one of easy, medium, hard"
	}
	if q.Sort != "" {
		if _, ok := sortOrders[q.Sort]; !ok {
			fields["sort"] = "unsupported sort key"
		}
	}
	if len(fields) > 0 {
		return nil, validationFailed("invalid recipe filter", fields)
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{})
	if q.Mine {
		if requester == nil {
			return nil, newError(KindUnauthorized, "authentication required")
		}
		query = query.Where("author_id = ?", *requester)
	} else {
		query = query.Where("is_public = ?", true)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Difficulty != "" {
		query = query.Where("difficulty = ?", q.Difficulty)
	}

	text := strings.TrimSpace(q.Query)
	if text != "" {
		query = s.matchText(query, text)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, storageError(err, "recipe", "count")
	}

	switch {
	case q.Sort != "":
		query = query.Order(sortOrders[q.Sort])
	case text != "":
		query = query.Order(s.relevanceOrder(text))
	default:
		query = query.Order(sortOrders[defaultSort])
	}

	var recipes []*models.Recipe
	if err := query.Offset(offset(page, pageSize)).Limit(pageSize).Find(&recipes).Error; err != nil {
		return nil, storageError(err, "recipe", "list")
	}
	if err := s.attachAuthors(ctx, recipes); err != nil {
		return nil, err
	}

	return &types.RecipePage{
		Recipes:    recipes,
		Pagination: types.NewPagination(page, pageSize, total),
	}, nil
}

// SearchRecipes is ListRecipes with a text query.
func (s *RecipeService) SearchRecipes(ctx context.Context, text string, q types.RecipeQuery, requester *uuid.UUID) (*types.RecipePage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationFailed("search query required", map[string]string{"q": "is required"})
	}
	q.Query = text
	return s.ListRecipes(ctx, q, requester)
}

const searchDocument = "to_tsvector('english', name || ' ' || ingredients)"

// matchText filters on the search text. Postgres uses full-text search over
// name and ingredients; other dialects match any term by substring.
func (s *RecipeService) matchText(query *gorm.DB, text string) *gorm.DB {
	if isPostgres(s.db) {
		return query.Where(searchDocument+" @@ plainto_tsquery('english', ?)", text)
	}
	group := s.db.Session(&gorm.Session{NewDB: true})
	for i, term := range searchTerms(text) {
		like := "%" + term + "%"
		if i == 0 {
			group = group.Where("LOWER(name) LIKE ? OR LOWER(ingredients) LIKE ?", like, like)
		} else {
			group = group.Or("LOWER(name) LIKE ? OR LOWER(ingredients) LIKE ?", like, like)
		}
	}
	return query.Where(group)
}

// relevanceOrder ranks matches best first. Name hits outweigh ingredient hits
// when full-text ranking is unavailable.
func (s *RecipeService) relevanceOrder(text string) clause.OrderBy {
	if isPostgres(s.db) {
		return clause.OrderBy{Expression: clause.Expr{
			SQL:                "ts_rank(" + searchDocument + ", plainto_tsquery('english', ?)) DESC, created_at DESC, id ASC",
			Vars:               []interface{}{text},
			WithoutParentheses: true,
		}}
	}
	var parts []string
	var vars []interface{}
	for _, term := range searchTerms(text) {
		like := "%" + term + "%"
		parts = append(parts, "(CASE WHEN LOWER(name) LIKE ? THEN 2 ELSE 0 END) + (CASE WHEN LOWER(ingredients) LIKE ? THEN 1 ELSE 0 END)")
		vars = append(vars, like, like)
	}
	return clause.OrderBy{Expression: clause.Expr{
		SQL:                "(" + strings.Join(parts, " + ") + ") DESC, created_at DESC, id ASC",
		Vars:               vars,
		WithoutParentheses: true,
	}}
}

func searchTerms(text string) []string {
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) > 10 {
		terms = terms[:10]
	}
	return terms
}

// ListFavoriteRecipes returns the user's favorites in the order they were
// added, skipping ids that no longer resolve or are not visible to the user.
func (s *RecipeService) ListFavoriteRecipes(ctx context.Context, userID uuid.UUID) ([]*models.Recipe, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, storageError(err, "user", "load")
	}

	recipes := []*models.Recipe{}
	if len(user.FavoriteRecipes) == 0 {
		return recipes, nil
	}

	var found []*models.Recipe
	if err := s.db.WithContext(ctx).Where("id IN ?", []uuid.UUID(user.FavoriteRecipes)).Find(&found).Error; err != nil {
		return nil, storageError(err, "recipe", "list")
	}
	byID := make(map[uuid.UUID]*models.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	for _, id := range user.FavoriteRecipes {
		if r, ok := byID[id]; ok && r.VisibleTo(&userID) {
			recipes = append(recipes, r)
		}
	}
	if err := s.attachAuthors(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// attachAuthors fills in the author summary of each recipe.
func (s *RecipeService) attachAuthors(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, r := range recipes {
		if !seen[r.AuthorID] {
			seen[r.AuthorID] = true
			ids = append(ids, r.AuthorID)
		}
	}

	var authors []models.User
	if err := s.db.WithContext(ctx).Select("id", "name", "avatar").Where("id IN ?", ids).Find(&authors).Error; err != nil {
		return storageError(err, "user", "load")
	}
	byID := make(map[uuid.UUID]models.AuthorSummary, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i].Summary()
	}
	for _, r := range recipes {
		if a, ok := byID[r.AuthorID]; ok {
			r.Author = &a
		}
	}
	return nil
}

// requireActiveUser fails with NotFound for unknown users and AccessDenied
// for deactivated ones.
func requireActiveUser(tx *gorm.DB, userID uuid.UUID) error {
	var user models.User
	if err := tx.Select("id", "is_active").First(&user, "id = ?", userID).Error; err != nil {
		return storageError(err, "user", "load")
	}
	if !user.IsActive {
		return accessDenied("account is deactivated")
	}
	return nil
}
