package config

import (
	"fmt"
	"strconv"
	"time"

	"lunarbase-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	OAuth     OAuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Layout    LayoutConfig
	Admin     AdminConfig
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int

	SessionTTL         time.Duration
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
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
	CookieSecure    bool
	CookieSameSite  string
}

type OAuthConfig struct {
	GitHub GitHubOAuthConfig
}

type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
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
}

// LayoutConfig tunes the placement and routing engine.
type LayoutConfig struct {
	RouteSegments int
	IDJitter      int
}

type AdminConfig struct {
	Email string
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		OAuth:     loadOAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Layout:    loadLayoutConfig(),
		Admin:     loadAdminConfig(),
	}

	return config, nil
}

func loadRedisConfig() RedisConfig {
	sessionTTL := utils.GetEnvInt("REDIS_SESSION_TTL_MINUTES", 720)
	maxFailures := utils.GetEnvInt("REDIS_BREAKER_MAX_FAILURES", 5)

	return RedisConfig{
		Enabled:            utils.GetEnv("REDIS_ENABLED", "true") == "true",
		URL:                utils.GetEnv("REDIS_URL", ""),
		Host:               utils.GetEnv("REDIS_HOST", "localhost"),
		Port:               utils.GetEnv("REDIS_PORT", "6379"),
		Password:           utils.GetEnv("REDIS_PASSWORD", ""),
		DB:                 utils.GetEnvInt("REDIS_DB", 0),
		SessionTTL:         time.Duration(sessionTTL) * time.Minute,
		BreakerMaxFailures: uint32(max(maxFailures, 1)),
		BreakerTimeout:     utils.GetEnvSeconds("REDIS_BREAKER_TIMEOUT_SECONDS", 30),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		URL:          utils.GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  utils.GetEnvSeconds("SERVER_READ_TIMEOUT_SECONDS", 15),
		WriteTimeout: utils.GetEnvSeconds("SERVER_WRITE_TIMEOUT_SECONDS", 15),
		IdleTimeout:  utils.GetEnvSeconds("SERVER_IDLE_TIMEOUT_SECONDS", 60),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	connMaxLifetime := utils.GetEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	return DatabaseConfig{
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "lunarbase"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(connMaxLifetime) * time.Minute,
		MigrationsPath:  utils.GetEnv("DB_MIGRATIONS_PATH", "migrations"),
	}
}

func loadAuthConfig() AuthConfig {
	tokenExpiration := utils.GetEnvInt("JWT_EXPIRATION_HOURS", 24)
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(tokenExpiration) * time.Hour,
		CookieSecure:    environment == "production",
		CookieSameSite:  utils.GetEnv("COOKIE_SAME_SITE", "lax"),
	}
}

func loadOAuthConfig() OAuthConfig {
	serverURL := utils.GetEnv("SERVER_URL", "http://localhost:8080")

	return OAuthConfig{
		GitHub: GitHubOAuthConfig{
			ClientID:     utils.GetEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: utils.GetEnv("GITHUB_CLIENT_SECRET", ""),
			RedirectURL:  serverURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
		},
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: utils.GetEnv("CORS_DEBUG", "") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		Format:     utils.GetEnv("LOG_FORMAT", "text"),
		JSONFormat: environment == "production",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	requestsPerSecond, err := strconv.ParseFloat(utils.GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "10"), 64)
	if err != nil {
		requestsPerSecond = 10
	}

	return RateLimitConfig{
		Enabled:           utils.GetEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
	}
}

func loadLayoutConfig() LayoutConfig {
	return LayoutConfig{
		RouteSegments: utils.GetEnvInt("LAYOUT_ROUTE_SEGMENTS", 128),
		IDJitter:      utils.GetEnvInt("LAYOUT_ID_JITTER", 100000),
	}
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Email: utils.GetEnv("ADMIN_EMAIL", "admin@lunarbase.local"),
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

	if c.Layout.RouteSegments < 1 {
		return fmt.Errorf("LAYOUT_ROUTE_SEGMENTS must be positive")
	}

	if c.Layout.IDJitter < 1 {
		return fmt.Errorf("LAYOUT_ID_JITTER must be positive")
	}

	return nil
}

func (c *Config) GitHubOAuthConfigured() bool {
	return c.OAuth.GitHub.ClientID != "" && c.OAuth.GitHub.ClientSecret != ""
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
