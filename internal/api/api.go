package api

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services are the core operations the handlers adapt to HTTP.
type Services struct {
	Auth       service.IAuthService
	Recipes    service.IRecipeService
	Users      service.IUserService
	Categories service.ICategoryService
	// Images is nil when object storage is not configured.
	Images service.IImageService
}

// Guards are the per-route middlewares.
type Guards struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Active       gin.HandlerFunc
	CreateLimit  gin.HandlerFunc
	ToggleLimit  gin.HandlerFunc
}

// NewGuards builds the route guards. A nil redis client disables rate limiting.
func NewGuards(validator middleware.TokenValidator, db *gorm.DB, redisClient *redis.Client) Guards {
	return Guards{
		Auth:         middleware.AuthMiddleware(validator),
		OptionalAuth: middleware.OptionalAuth(validator),
		Active:       middleware.RequireActiveUser(db),
		CreateLimit:  middleware.NewRecipeCreationRateLimiter(redisClient).RateLimitMiddleware(),
		ToggleLimit:  middleware.NewToggleRateLimiter(redisClient).RateLimitMiddleware(),
	}
}

// SetupAPI registers every /api/v1 route on router. pageSize applies to
// listings that omit a limit.
func SetupAPI(router *gin.Engine, services Services, guards Guards, pageSize int) {
	v1 := router.Group("/api/v1")
	{
		NewAuthHandler(services.Auth).RegisterRoutes(v1)
		NewRecipeHandler(services.Recipes, guards, pageSize).RegisterRoutes(v1)
		NewUserHandler(services.Users, guards, pageSize).RegisterRoutes(v1)
		NewCategoryHandler(services.Categories, guards).RegisterRoutes(v1)
		NewImageHandler(services.Images, guards).RegisterRoutes(v1)
	}
}
