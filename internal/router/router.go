package router

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/storage"
)

// SetupRouter builds the engine with the shared middleware and every API route.
// Uploaded media is served directly when it lives on the local filesystem.
func SetupRouter(cfg *config.Config, deps api.Deps) *gin.Engine {
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	if fs, ok := deps.Blobs.(*storage.FilesystemStore); ok && strings.HasPrefix(cfg.Storage.MediaURL, "/") {
		router.Static(strings.TrimRight(cfg.Storage.MediaURL, "/"), fs.Root())
	}

	api.RegisterRoutes(router, deps)
	return router
}
