package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipeshare/backend/internal/service"
)

// ImageHandler handles recipe image and avatar uploads
type ImageHandler struct {
	imageService service.IImageService
	guards       Guards
}

// NewImageHandler creates a new image handler. A nil service answers 503.
func NewImageHandler(imageService service.IImageService, guards Guards) *ImageHandler {
	return &ImageHandler{imageService: imageService, guards: guards}
}

// RegisterRoutes registers the image upload route
func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/images", h.guards.Auth, h.guards.Active, h.Upload)
}

// Upload stores the multipart file field "image" and returns its URL
func (h *ImageHandler) Upload(c *gin.Context) {
	if h.imageService == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error": "image storage is not configured",
			"code":  "STORAGE_DISABLED",
		})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "image file is required", map[string]string{"image": "is required"})
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "could not read image", map[string]string{"image": "is unreadable"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		badRequest(c, "could not read image", map[string]string{"image": "is unreadable"})
		return
	}

	resp, err := h.imageService.Upload(c.Request.Context(), userID, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
