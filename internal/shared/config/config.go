package config

import (
	"fmt"
	"strings"
	"time"

	"spacetime-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Spacetime SpacetimeConfig
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	Issuer          string
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

// SpacetimeConfig holds the domain defaults: the name given to the root
// space on first boot and the layout used when a format request has none.
type SpacetimeConfig struct {
	RootName      string
	DefaultLayout string
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

// Load reads the configuration from the environment and validates it
// without touching GlobalConfig.
func Load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Spacetime: loadSpacetimeConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:  utils.GetEnvBool("REDIS_ENABLED", true),
		URL:      utils.GetEnv("REDIS_URL", ""),
		Host:     utils.GetEnv("REDIS_HOST", "localhost"),
		Port:     utils.GetEnv("REDIS_PORT", "6379"),
		Password: utils.GetEnv("REDIS_PASSWORD", ""),
		DB:       utils.GetEnvInt("REDIS_DB", 0),
		CacheTTL: utils.GetEnvDuration("REDIS_CACHE_TTL_MINUTES", 60, time.Minute),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		URL:          utils.GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  utils.GetEnvDuration("SERVER_READ_TIMEOUT_SECONDS", 15, time.Second),
		WriteTimeout: utils.GetEnvDuration("SERVER_WRITE_TIMEOUT_SECONDS", 15, time.Second),
		IdleTimeout:  utils.GetEnvDuration("SERVER_IDLE_TIMEOUT_SECONDS", 60, time.Second),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "spacetime"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: utils.GetEnvDuration("DB_CONN_MAX_LIFETIME_MINUTES", 5, time.Minute),
		MigrationsPath:  utils.GetEnv("DB_MIGRATIONS_PATH", "migrations"),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration: utils.GetEnvDuration("JWT_EXPIRATION_HOURS", 24, time.Hour),
		Issuer:          utils.GetEnv("JWT_ISSUER", "spacetime-server"),
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: utils.GetEnvBool("CORS_DEBUG", false),
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	format := utils.GetEnv("LOG_FORMAT", "text")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		Format:     format,
		JSONFormat: environment == "production" || strings.EqualFold(format, "json"),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           utils.GetEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerSecond: utils.GetEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func loadSpacetimeConfig() SpacetimeConfig {
	return SpacetimeConfig{
		RootName:      utils.GetEnv("SPACETIME_ROOT_NAME", "Paradox Space"),
		DefaultLayout: utils.GetEnv("SPACETIME_DEFAULT_LAYOUT", "2006-01-02T15:04:05.999999999Z07:00"),
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Server.URL == "" {
		return fmt.Errorf("SERVER_URL is required")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstSize <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND and RATE_LIMIT_BURST_SIZE must be positive")
	}

	if strings.TrimSpace(c.Spacetime.RootName) == "" {
		return fmt.Errorf("SPACETIME_ROOT_NAME must not be blank")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
