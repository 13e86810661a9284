package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg)

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.DatabaseURL()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	} else {
		log.Warn().Msg("REDIS_URL not set, rate limiting and token revocation are disabled")
	}

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize media storage")
	}

	links, err := shortlink.New(cfg.ShortLinkAlphabet, shortlink.DefaultMinLength)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize short links")
	}

	var revoker service.TokenRevoker
	deps := api.Deps{
		Users:         service.NewUserService(db, blobs),
		Subscriptions: service.NewSubscriptionService(db),
		Catalog:       service.NewCatalogService(db),
		Recipes:       service.NewRecipeService(db, blobs, cfg.Settings.Recipe, links),
		Shopping:      service.NewShoppingService(db, shoppinglist.NewRenderer(cfg.Settings.ShoppingList)),
		Blobs:         blobs,
		Settings:      cfg.Settings,
		PublicBaseURL: cfg.PublicBaseURL,
		Health:        healthCheck(db, redisClient),
	}
	if redisClient != nil {
		revoker = service.NewRedisTokenRevoker(redisClient)
		deps.CreateLimiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.Settings.RateLimit)
		deps.UpdateLimiter = middleware.NewRecipeModificationRateLimiter(redisClient, cfg.Settings.RateLimit)
	}
	deps.Auth = service.NewAuthService(db, cfg.JWTSecret, cfg.Settings.Auth.TokenTTL, revoker)

	srv := server.New(cfg.Addr(), router.SetupRouter(cfg, deps))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("received signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Environment == config.Development {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func newBlobStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s3cfg, err := config.NewS3Config(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", s3cfg.BucketName).Msg("storing media in s3")
		return storage.NewS3Store(s3cfg.Client, s3cfg.BucketName, s3cfg.PublicURL, 30*time.Second), nil
	default:
		log.Info().Str("root", cfg.Storage.MediaRoot).Msg("storing media on the local filesystem")
		return storage.NewFilesystemStore(cfg.Storage.MediaRoot, cfg.Storage.MediaURL)
	}
}

func healthCheck(db *gorm.DB, redisClient *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := database.HealthCheck(ctx, db); err != nil {
			return err
		}
		if redisClient != nil {
			return redisClient.Ping(ctx).Err()
		}
		return nil
	}
}
