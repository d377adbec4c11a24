package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"postgres"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME"`

	RedisHost     string `env:"R_HOST" envDefault:"redis"`
	RedisPort     string `env:"R_PORT" envDefault:"6379"`
	RedisPassword string `env:"R_PASS"`
	RedisDB       int    `env:"R_DB" envDefault:"0"`

	// CacheBackend selects the cache store: "redis" or "memory".
	CacheBackend    string        `env:"CACHE_BACKEND" envDefault:"redis"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"30m"`

	TMDBAPIKey       string        `env:"TMDB_API_KEY"`
	TMDBBaseURL      string        `env:"TMDB_BASE_URL" envDefault:"https://api.themoviedb.org/3"`
	TMDBImageBaseURL string        `env:"TMDB_IMAGE_BASE_URL" envDefault:"https://image.tmdb.org/t/p/w500"`
	TMDBTimeout      time.Duration `env:"TMDB_TIMEOUT" envDefault:"10s"`
	TMDBRateLimit    float64       `env:"TMDB_RATE_LIMIT" envDefault:"40"`
	TMDBMaxRetries   uint          `env:"TMDB_MAX_RETRIES" envDefault:"3"`
	TMDBRetryDelay   time.Duration `env:"TMDB_RETRY_DELAY" envDefault:"500ms"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE"`
}

// Load reads .env.local when present and parses the environment into a Config.
// The returned bool reports whether the env file was found.
func Load() (*Config, bool, error) {
	found := godotenv.Load(".env.local") == nil

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, found, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, found, nil
}

// Validate checks the settings the API server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.TMDBAPIKey == "" {
		errs = append(errs, errors.New("TMDB_API_KEY is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.CacheBackend != "redis" && c.CacheBackend != "memory" {
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be redis or memory, got %q", c.CacheBackend))
	}
	if c.CacheTTL < time.Second {
		errs = append(errs, errors.New("CACHE_TTL must be at least 1s"))
	}
	if _, err := c.DatabaseDSN(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// DatabaseDSN returns DATABASE_URL when set, otherwise a keyword/value DSN built from the DB_* parts.
func (c *Config) DatabaseDSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBHost == "" || c.DBPort == "" || c.DBUser == "" || c.DBPassword == "" || c.DBName == "" {
		return "", errors.New("missing required database configuration")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName), nil
}
