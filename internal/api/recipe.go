package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// RecipeHandler serves the recipe directory
type RecipeHandler struct {
	recipes  service.IRecipeService
	guards   Guards
	pageSize int
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes service.IRecipeService, guards Guards, pageSize int) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, guards: guards, pageSize: pageSize}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	g := h.guards
	recipes := router.Group("/recipes")
	{
		recipes.GET("", g.OptionalAuth, h.ListRecipes)
		recipes.GET("/search", g.OptionalAuth, h.SearchRecipes)
		recipes.GET("/category/:category", g.OptionalAuth, h.ListByCategory)
		recipes.GET("/favorites", g.Auth, h.ListFavorites)
		recipes.GET("/my-recipes", g.Auth, h.ListMine)
		recipes.GET("/:id", g.OptionalAuth, h.GetRecipe)
		recipes.POST("", g.Auth, g.Active, g.CreateLimit, h.CreateRecipe)
		recipes.PUT("/:id", g.Auth, g.Active, h.UpdateRecipe)
		recipes.DELETE("/:id", g.Auth, h.DeleteRecipe)
		recipes.POST("/:id/like", g.Auth, g.Active, g.ToggleLimit, h.LikeRecipe)
		recipes.DELETE("/:id/like", g.Auth, g.Active, g.ToggleLimit, h.UnlikeRecipe)
	}
}

// bindRecipeQuery reads listing parameters. Absent page and limit fall back
// to the defaults; explicit bad values are rejected by the service.
func (h *RecipeHandler) bindRecipeQuery(c *gin.Context) (types.RecipeQuery, bool) {
	q := types.RecipeQuery{Page: 1, PageSize: h.pageSize}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters", map[string]string{"query": "page and limit must be integers"})
		return q, false
	}
	return q, true
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	q, ok := h.bindRecipeQuery(c)
	if !ok {
		return
	}
	h.list(c, q)
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	q, ok := h.bindRecipeQuery(c)
	if !ok {
		return
	}
	page, err := h.recipes.SearchRecipes(c.Request.Context(), q.Query, q, requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) ListByCategory(c *gin.Context) {
	q, ok := h.bindRecipeQuery(c)
	if !ok {
		return
	}
	q.Category = c.Param("category")
	h.list(c, q)
}

func (h *RecipeHandler) ListMine(c *gin.Context) {
	q, ok := h.bindRecipeQuery(c)
	if !ok {
		return
	}
	q.Mine = true
	h.list(c, q)
}

func (h *RecipeHandler) list(c *gin.Context, q types.RecipeQuery) {
	page, err := h.recipes.ListRecipes(c.Request.Context(), q, requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RecipeHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipes, err := h.recipes.ListFavoriteRecipes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id, requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", nil)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", nil)
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	h.toggleLike(c, true)
}

func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	h.toggleLike(c, false)
}

func (h *RecipeHandler) toggleLike(c *gin.Context, like bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	toggle := h.recipes.UnlikeRecipe
	if like {
		toggle = h.recipes.LikeRecipe
	}
	count, err := toggle(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.LikeResponse{
		RecipeID:   id.String(),
		Liked:      like,
		LikesCount: count,
	})
}
