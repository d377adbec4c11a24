package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"screenlist/internal/cache"
	"screenlist/internal/config"
	"screenlist/internal/database"
	"screenlist/internal/handlers"
	"screenlist/internal/logger"
	"screenlist/internal/repository"
	"screenlist/internal/services"
	"screenlist/internal/tmdb"
)

const memoryCleanupInterval = 5 * time.Minute

type Container struct {
	Config *config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Cache  cache.Store
	Logger *logrus.Logger

	Tokens           *services.TokenService
	CatalogService   *services.CatalogService
	UserService      *services.UserService
	WatchlistService *services.WatchlistService
}

func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.Get()

	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, err
	}

	// Initialize database
	db, err := database.NewPool(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{Config: cfg, DB: db, Logger: log}

	// Initialize cache store
	if err := c.initCache(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	accessor := cache.NewAccessor(c.Cache, log)
	invalidator := cache.NewInvalidator(accessor, log)

	// Initialize services
	client := tmdb.NewClient(tmdb.ClientConfig{
		BaseURL:      cfg.TMDBBaseURL,
		ImageBaseURL: cfg.TMDBImageBaseURL,
		APIKey:       cfg.TMDBAPIKey,
		Timeout:      cfg.TMDBTimeout,
		RateLimit:    cfg.TMDBRateLimit,
		MaxRetries:   cfg.TMDBMaxRetries,
		RetryDelay:   cfg.TMDBRetryDelay,
		Logger:       log,
	})

	users := repository.NewUserRepository(db)
	watchlists := repository.NewWatchlistRepository(db)
	items := repository.NewWatchlistItemRepository(db)

	c.Tokens = services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	c.CatalogService = services.NewCatalogService(client, accessor, cfg.CacheTTL, log)
	c.UserService = services.NewUserService(services.UserServiceConfig{
		Users:       users,
		Watchlists:  watchlists,
		Tokens:      c.Tokens,
		Cache:       accessor,
		Invalidator: invalidator,
		ProfileTTL:  cfg.ProfileCacheTTL,
		Logger:      log,
	})
	c.WatchlistService = services.NewWatchlistService(services.WatchlistServiceConfig{
		Watchlists:  watchlists,
		Items:       items,
		Media:       c.CatalogService,
		Cache:       accessor,
		Invalidator: invalidator,
		TTL:         cfg.CacheTTL,
		Logger:      log,
	})

	return c, nil
}

func (c *Container) initCache(ctx context.Context) error {
	if c.Config.CacheBackend == "memory" {
		c.Cache = cache.NewMemoryStore(memoryCleanupInterval)
		c.Logger.Info("Using in-memory cache")
		return nil
	}

	client, err := cache.NewRedisClient(ctx, c.Config.RedisAddr(), c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		return err
	}
	c.Redis = client
	c.Cache = cache.NewRedisStore(client)
	c.Logger.Info("Redis connection successful")
	return nil
}

// Handler returns the HTTP API backed by the container's services.
func (c *Container) Handler() http.Handler {
	return handlers.NewRouter(handlers.Deps{
		Accounts:   c.UserService,
		Catalog:    c.CatalogService,
		Watchlists: c.WatchlistService,
		Tokens:     c.Tokens,
		Health: map[string]handlers.Pinger{
			"database": c.DB,
			"cache":    c.Cache,
		},
		Logger: c.Logger,
	})
}

func (c *Container) Close() {
	if c.Redis != nil {
		c.Redis.Close()
		c.Logger.Info("Redis connection closed")
	}
	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("Database connection closed")
	}
}
