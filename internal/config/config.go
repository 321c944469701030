package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	PublicURL     string           `json:"public_url"`
	JWTSecret     string           `json:"jwt_secret"`
	JWTTTLHours   int              `json:"jwt_ttl_hours"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	Database      DatabaseConfig   `json:"database"`
	LogConfig     logger.LogConfig `json:"log_config"`
	FileStore     FileStoreConfig  `json:"file_store"`
	LinkCache     LinkCacheConfig  `json:"link_cache"`
	ExpirySweep   string           `json:"expiry_sweep"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type LinkCacheConfig struct {
	Size       int `json:"size"`
	TTLSeconds int `json:"ttl_seconds"`
}

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
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 24
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.LinkCache.Size == 0 {
		cfg.LinkCache.Size = 1024
	}
	if cfg.LinkCache.TTLSeconds == 0 {
		cfg.LinkCache.TTLSeconds = 30
	}
	if cfg.ExpirySweep == "" {
		cfg.ExpirySweep = "*/5 * * * *"
	}
	return &cfg, nil
}
