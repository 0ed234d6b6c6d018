package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port" env:"TRAILMARK_PORT"`
	JWTSecret     string           `json:"jwt_secret" env:"TRAILMARK_JWT_SECRET"`
	JWTTTLHours   int              `json:"jwt_ttl_hours" env:"TRAILMARK_JWT_TTL_HOURS"`
	Database      DatabaseConfig   `json:"database"`
	LogConfig     logger.LogConfig `json:"log_config"`
	FileStore     FileStoreConfig  `json:"file_store"`
	Photo         PhotoConfig      `json:"photo"`
	TagCacheSize  int              `json:"tag_cache_size" env:"TRAILMARK_TAG_CACHE_SIZE"`
	PhotoGCCron   string           `json:"photo_gc_cron" env:"TRAILMARK_PHOTO_GC_CRON"`
	CORSAllowlist []string         `json:"cors_allowlist" env:"TRAILMARK_CORS_ALLOWLIST" envSeparator:","`
}

type DatabaseConfig struct {
	Driver   string `json:"driver" env:"TRAILMARK_DB_DRIVER"`
	DSN      string `json:"dsn" env:"TRAILMARK_DB_DSN"`
	Host     string `json:"host" env:"TRAILMARK_DB_HOST"`
	Port     int    `json:"port" env:"TRAILMARK_DB_PORT"`
	User     string `json:"user" env:"TRAILMARK_DB_USER"`
	Password string `json:"password" env:"TRAILMARK_DB_PASSWORD"`
	DBName   string `json:"dbname" env:"TRAILMARK_DB_NAME"`
	SSLMode  string `json:"sslmode" env:"TRAILMARK_DB_SSLMODE"`
}

type FileStoreConfig struct {
	Type string      `json:"type" env:"TRAILMARK_FILE_STORE_TYPE"`
	Data interface{} `json:"data"`
}

type PhotoConfig struct {
	MaxSize int64 `json:"max_size" env:"TRAILMARK_PHOTO_MAX_SIZE"`
}

const (
	defaultPhotoMaxSize = 5 * 1024 * 1024
	defaultTagCacheSize = 4096
	defaultPhotoGCCron  = "*/10 * * * *"
)

// Load reads the json config at path, then applies an optional .env file and
// TRAILMARK_* environment overrides.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (cfg *Config) normalize() error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 24
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case "", "postgres":
		cfg.Database.Driver = "postgres"
		if cfg.Database.DSN == "" && cfg.Database.Host == "" {
			return fmt.Errorf("database.dsn or database.host is required")
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = 5432
		}
	case "sqlite":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for sqlite")
		}
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite")
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.Photo.MaxSize <= 0 {
		cfg.Photo.MaxSize = defaultPhotoMaxSize
	}
	if cfg.TagCacheSize <= 0 {
		cfg.TagCacheSize = defaultTagCacheSize
	}
	if cfg.PhotoGCCron == "" {
		cfg.PhotoGCCron = defaultPhotoGCCron
	}
	return nil
}
