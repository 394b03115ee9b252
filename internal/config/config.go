package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Database      DatabaseConfig   `json:"database"`
	Auth          AuthConfig       `json:"auth"`
	Embedding     EmbeddingConfig  `json:"embedding"`
	Retrieval     RetrievalConfig  `json:"retrieval"`
	Chunking      ChunkingConfig   `json:"chunking"`
	QueryLog      QueryLogConfig   `json:"query_log"`
	FileStore     FileStoreConfig  `json:"file_store"`
	CORSAllowlist []string         `json:"cors_allowlist"`
	// AskRateLimitSeconds throttles the public question endpoint per
	// client IP. Zero disables throttling.
	AskRateLimitSeconds int `json:"ask_rate_limit_seconds"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type AuthConfig struct {
	JWTSecret         string `json:"jwt_secret"`
	TokenTTLHours     int    `json:"token_ttl_hours"`
	AdminUser         string `json:"admin_user"`
	AdminPasswordHash string `json:"admin_password_hash"`
}

type EmbeddingConfig struct {
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	Dimensions      int    `json:"dimensions"`
	APIKey          string `json:"api_key"`
	Endpoint        string `json:"endpoint"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	CacheSize       int    `json:"cache_size"`
	CacheTTLMinutes int    `json:"cache_ttl_minutes"`
}

type RetrievalConfig struct {
	MaxResults int `json:"max_results"`
	// SimilarityThreshold is read from legacy deployments but the retrieval
	// path applies its own fixed inclusion floor; see rag.InclusionFloor.
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

type ChunkingConfig struct {
	MaxChunkSize int `json:"max_chunk_size"`
	Overlap      int `json:"overlap"`
}

type QueryLogConfig struct {
	RetentionDays int    `json:"retention_days"`
	CleanupSpec   string `json:"cleanup_spec"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
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
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && cfg.Database.Host == "" {
		return nil, fmt.Errorf("database.dsn or database.host is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}
	if cfg.Auth.AdminUser == "" || cfg.Auth.AdminPasswordHash == "" {
		return nil, fmt.Errorf("auth.admin_user and auth.admin_password_hash are required")
	}
	if cfg.Auth.TokenTTLHours == 0 {
		cfg.Auth.TokenTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "gemini"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "embedding-001"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 768
	}
	if cfg.Embedding.TimeoutSeconds == 0 {
		cfg.Embedding.TimeoutSeconds = 30
	}
	if cfg.Retrieval.MaxResults == 0 {
		cfg.Retrieval.MaxResults = 3
	}
	if cfg.Retrieval.SimilarityThreshold == 0 {
		cfg.Retrieval.SimilarityThreshold = 0.1
	}
	if cfg.Chunking.MaxChunkSize == 0 {
		cfg.Chunking.MaxChunkSize = 1000
	}
	if cfg.Chunking.Overlap == 0 {
		cfg.Chunking.Overlap = 100
	}
	if cfg.QueryLog.RetentionDays == 0 {
		cfg.QueryLog.RetentionDays = 90
	}
	if cfg.QueryLog.CleanupSpec == "" {
		cfg.QueryLog.CleanupSpec = "0 4 * * *"
	}
	return &cfg, nil
}
