package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// CategoryHandler serves category display data and recounts
type CategoryHandler struct {
	categories service.ICategoryService
	guards     Guards
}

// NewCategoryHandler creates a new CategoryHandler instance
func NewCategoryHandler(categories service.ICategoryService, guards Guards) *CategoryHandler {
	return &CategoryHandler{categories: categories, guards: guards}
}

// RegisterRoutes registers the category routes
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	g := h.guards
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:name", h.GetCategory)
		categories.POST("", g.Auth, h.CreateCategory)
		categories.PUT("/:name", g.Auth, h.UpdateCategory)
		categories.POST("/:name/recount", g.Auth, h.Recount)
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categories.GetCategory(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req types.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", nil)
		return
	}
	category, err := h.categories.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req types.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", nil)
		return
	}
	category, err := h.categories.UpdateCategory(c.Request.Context(), c.Param("name"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *CategoryHandler) Recount(c *gin.Context) {
	name := c.Param("name")
	count, err := h.categories.Recount(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "recipe_count": count})
}
