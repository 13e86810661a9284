package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

// Deps carries everything the handlers need
type Deps struct {
	Auth          service.IAuthService
	Users         service.IUserService
	Subscriptions service.ISubscriptionService
	Catalog       service.ICatalogService
	Recipes       service.IRecipeService
	Shopping      service.IShoppingService
	Blobs         storage.Store
	Settings      config.Settings
	PublicBaseURL string

	// Limiters guard recipe writes; nil means unlimited
	CreateLimiter *middleware.RateLimiter
	UpdateLimiter *middleware.RateLimiter

	// Health reports whether backing stores are reachable
	Health func(ctx context.Context) error
}

// Guards carries the auth middleware shared by every handler
type Guards struct {
	Required gin.HandlerFunc
	Optional gin.HandlerFunc
}

func NewGuards(v middleware.TokenValidator) Guards {
	return Guards{
		Required: middleware.AuthMiddleware(v),
		Optional: middleware.OptionalAuth(v),
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Deps) {
	RegisterValidators()

	guards := NewGuards(deps.Auth)
	present := &presenter{blobs: deps.Blobs, subs: deps.Subscriptions, recipes: deps.Recipes}

	router.GET("/health", healthCheck(deps.Health))
	router.GET("/api/health", healthCheck(deps.Health))

	api := router.Group("/api")
	NewAuthHandler(deps.Auth, guards).RegisterRoutes(api)
	NewUserHandler(deps.Users, deps.Subscriptions, present, guards, deps.Settings, deps.PublicBaseURL).RegisterRoutes(api)
	NewCatalogHandler(deps.Catalog).RegisterRoutes(api)
	NewRecipeHandler(RecipeHandlerConfig{
		Recipes:       deps.Recipes,
		Users:         deps.Users,
		Shopping:      deps.Shopping,
		Presenter:     present,
		Guards:        guards,
		Settings:      deps.Settings,
		PublicBaseURL: deps.PublicBaseURL,
		CreateLimit:   limiterMiddleware(deps.CreateLimiter, false),
		UpdateLimit:   limiterMiddleware(deps.UpdateLimiter, true),
	}).RegisterRoutes(api)

	router.GET("/s/:code", resolveShortLink(deps.Recipes))
}

// healthCheck returns the health status of the API
func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				log.Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

func limiterMiddleware(rl *middleware.RateLimiter, perRecipe bool) gin.HandlerFunc {
	switch {
	case rl == nil:
		return func(c *gin.Context) { c.Next() }
	case perRecipe:
		return rl.PerRecipeRateLimitMiddleware()
	default:
		return rl.RateLimitMiddleware()
	}
}

// idParam parses a positive numeric path parameter; anything else is a 404
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return uint(id), true
}

func resolveShortLink(recipes service.IRecipeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := recipes.ResolveShortLink(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Redirect(http.StatusFound, "/recipes/"+strconv.FormatUint(uint64(id), 10))
	}
}
