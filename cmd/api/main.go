package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

// short link redirects per client address
const (
	redirectsPerSecond = 5
	redirectBurst      = 20
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Filename: cfg.LogFile, Stdout: true})
	defer logger.Sync()
	gin.SetMode(cfg.Environment.GinMode())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	images := service.NewImageService(store)
	shortLinks := service.NewShortLinkService(recipeRepo, redisClient)
	authService := service.NewAuthService(userRepo, redisClient, cfg.JWTSecret, cfg.JWTTTL)

	handlers := router.Handlers{
		Auth: api.NewAuthHandler(authService),
		Users: api.NewUserHandler(
			authService,
			service.NewUserService(userRepo, subscriptionRepo, images),
			service.NewSubscriptionService(userRepo, recipeRepo, subscriptionRepo),
			cfg.PageSize,
		),
		Catalog: api.NewCatalogHandler(service.NewCatalogService(catalogRepo)),
		Recipes: api.NewRecipeHandler(api.RecipeHandlerConfig{
			Recipes:          service.NewRecipeService(recipeRepo, catalogRepo, favoriteRepo, cartRepo, subscriptionRepo, images, shortLinks),
			Favorites:        service.NewFavoriteService(recipeRepo, favoriteRepo),
			Cart:             service.NewShoppingCartService(recipeRepo, cartRepo),
			ShoppingList:     service.NewShoppingListService(repository.NewShoppingListRepository(db)),
			ShortLinks:       shortLinks,
			PageSize:         cfg.PageSize,
			ShortLinkBaseURL: cfg.ShortLinkBaseURL,
		}),
		ShortLinks: api.NewShortLinkHandler(shortLinks),
		Health:     api.NewHealthHandler(db, redisClient),
	}

	opts := router.Options{
		Tokens:           authService,
		CORSOrigins:      cfg.AllowedOrigins(),
		CreateLimiter:    middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit),
		ShortLinkLimiter: middleware.NewIPRateLimiter(redirectsPerSecond, redirectBurst),
	}
	if cfg.StorageBackend == "local" {
		opts.MediaURL = cfg.MediaURL
		opts.MediaRoot = cfg.MediaRoot
	}

	logger.Logger.Info("starting server", zap.String("addr", cfg.Addr()), zap.String("environment", string(cfg.Environment)))
	return server.New(cfg.Addr(), router.SetupRouter(handlers, opts)).Run(ctx)
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBackend != "s3" {
		if err := os.MkdirAll(cfg.MediaRoot, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media root: %w", err)
		}
		return storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL), nil
	}

	s3Cfg, err := config.NewS3Config(ctx, cfg.S3BucketName, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return storage.NewS3Storage(s3Cfg), nil
}
