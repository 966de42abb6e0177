package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/types"
)

// UserHandler serves the user directory and favorites
type UserHandler struct {
	users    service.IUserService
	guards   Guards
	pageSize int
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(users service.IUserService, guards Guards, pageSize int) *UserHandler {
	return &UserHandler{users: users, guards: guards, pageSize: pageSize}
}

// RegisterRoutes registers the user routes
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	g := h.guards
	users := router.Group("/users")
	users.Use(g.Auth)
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", g.Active, h.UpdateUser)
		users.DELETE("/:id", h.DeactivateUser)
		users.POST("/favorites/:recipeId", g.Active, g.ToggleLimit, h.AddFavorite)
		users.DELETE("/favorites/:recipeId", g.Active, g.ToggleLimit, h.RemoveFavorite)
	}
}

type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	q := pageQuery{Page: 1, Limit: h.pageSize}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query parameters", map[string]string{"query": "page and limit must be integers"})
		return
	}
	page, err := h.users.ListUsers(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	profile, err := h.users.GetUser(c.Request.Context(), id, requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", nil)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), id, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) DeactivateUser(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeactivateUser(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) AddFavorite(c *gin.Context) {
	h.toggleFavorite(c, true)
}

func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	h.toggleFavorite(c, false)
}

func (h *UserHandler) toggleFavorite(c *gin.Context, add bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipeId")
	if !ok {
		return
	}

	toggle := h.users.RemoveFavorite
	if add {
		toggle = h.users.AddFavorite
	}
	if err := toggle(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe_id": recipeID, "favorited": add})
}
