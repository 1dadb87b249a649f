package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const devJWTSecret = "dev_secret"

type Config struct {
	Env  string
	Port int

	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Log        LogConfig
	Uploads    UploadsConfig
	Revalidate RevalidateConfig
	Site       SiteConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig controls caching of public listings.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AuthConfig describes how access tokens issued by the auth provider are verified.
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	CookieName string
	LoginURL   string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig configures image storage for logos and announcement images.
type UploadsConfig struct {
	Dir           string
	PublicBaseURL string
	MaxBytes      int64
	MaxWidth      int
}

// RevalidateConfig tunes the background cache revalidation queue.
type RevalidateConfig struct {
	Workers int
	Retries int
}

// SiteConfig holds settings that affect what "today" means for public listings.
type SiteConfig struct {
	Timezone string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), time.Minute),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:  v.GetString("AUTH_JWT_SECRET"),
		Issuer:     v.GetString("AUTH_ISSUER"),
		CookieName: v.GetString("AUTH_COOKIE_NAME"),
		LoginURL:   v.GetString("AUTH_LOGIN_URL"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("UPLOADS_MAX_BYTES")
	if maxUpload <= 0 {
		maxUpload = 2 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:           v.GetString("UPLOADS_DIR"),
		PublicBaseURL: strings.TrimRight(v.GetString("UPLOADS_PUBLIC_BASE_URL"), "/"),
		MaxBytes:      maxUpload,
		MaxWidth:      v.GetInt("UPLOADS_MAX_WIDTH"),
	}

	cfg.Revalidate = RevalidateConfig{
		Workers: v.GetInt("REVALIDATE_WORKERS"),
		Retries: v.GetInt("REVALIDATE_RETRIES"),
	}

	cfg.Site = SiteConfig{Timezone: v.GetString("SITE_TIMEZONE")}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that only make sense on a developer machine when
// running in production.
func (c *Config) Validate() error {
	if c.Env != EnvProduction {
		return nil
	}
	var problems []string
	if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == devJWTSecret {
		problems = append(problems, "AUTH_JWT_SECRET must be set to the auth provider's signing secret")
	}
	if c.Auth.LoginURL == "" {
		problems = append(problems, "AUTH_LOGIN_URL is required")
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("SITE_TIMEZONE %q is not a known zone", c.Site.Timezone))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid production config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves the configured site timezone, falling back to UTC.
func (c SiteConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "atlas_site")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "1m")

	v.SetDefault("AUTH_JWT_SECRET", devJWTSecret)
	v.SetDefault("AUTH_ISSUER", "")
	v.SetDefault("AUTH_COOKIE_NAME", "sb-access-token")
	v.SetDefault("AUTH_LOGIN_URL", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOADS_PUBLIC_BASE_URL", "http://localhost:8080/uploads")
	v.SetDefault("UPLOADS_MAX_BYTES", 2*1024*1024)
	v.SetDefault("UPLOADS_MAX_WIDTH", 1200)

	v.SetDefault("REVALIDATE_WORKERS", 1)
	v.SetDefault("REVALIDATE_RETRIES", 3)

	v.SetDefault("SITE_TIMEZONE", "America/Vancouver")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
