package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"movilidad/internal/errors"
)

// Asset sources
const (
	SourceFiles     = "files"
	SourceSQL       = "sql"
	SourceSynthetic = "synthetic"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Assets   AssetConfig
	Database DatabaseConfig
	Matching MatchingConfig
	LLM      LLMConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AssetConfig locates the precomputed tables and dictionaries
type AssetConfig struct {
	Source         string
	DataDir        string
	DictionaryFile string
	MappingFile    string
	RecordsFile    string
	ImportanceFile string
	ValuableFile   string
	ModelFile      string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL    string
	Driver string
}

// MatchingConfig holds neighbor counts per call site
type MatchingConfig struct {
	NeighborsDefault int
	NeighborsUI      int
}

// LLMConfig holds explanation provider settings
type LLMConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIKey    string
	OpenAIModel  string
	BaseURL      string
	Timeout      time.Duration
	CacheTTL     time.Duration
	CacheSize    int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Assets:   *loadAssetConfig(),
		Database: *loadDatabaseConfig(),
		Matching: *loadMatchingConfig(),
		LLM:      *loadLLMConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadAssetConfig() *AssetConfig {
	return &AssetConfig{
		Source:         strings.ToLower(getEnvOrDefault("ASSET_SOURCE", SourceFiles)),
		DataDir:        getEnvOrDefault("DATA_DIR", "data"),
		DictionaryFile: getEnvOrDefault("DICTIONARY_FILE", "diccionario.yaml"),
		MappingFile:    getEnvOrDefault("MAPPING_FILE", "mapeo.yaml"),
		RecordsFile:    getEnvOrDefault("RECORDS_FILE", "df_clusterizados_total_origi.csv"),
		ImportanceFile: getEnvOrDefault("IMPORTANCE_FILE", "df_feature_importances_total.csv"),
		ValuableFile:   getEnvOrDefault("VALUABLE_FILE", "df_valiosas.xlsx"),
		ModelFile:      getEnvOrDefault("MODEL_FILE", filepath.Join("models", "modelo_entrenado.yaml")),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:    os.Getenv("DATABASE_URL"),
		Driver: getEnvOrDefault("DB_DRIVER", "postgres"),
	}
}

func loadMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		NeighborsDefault: getEnvIntOrDefault("NEIGHBORS_DEFAULT", 20),
		NeighborsUI:      getEnvIntOrDefault("NEIGHBORS_UI", 50),
	}
}

func loadLLMConfig() *LLMConfig {
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		geminiKey = os.Getenv("gemini_api_key")
	}
	return &LLMConfig{
		Provider:     strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "gemini")),
		GeminiAPIKey: geminiKey,
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL_NAME", "gemini-3-flash-preview"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		BaseURL:      getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		Timeout:      getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
		CacheTTL:     getEnvDurationOrDefault("EXPLAIN_CACHE_TTL", time.Hour),
		CacheSize:    getEnvIntOrDefault("EXPLAIN_CACHE_SIZE", 128),
	}
}

// Path resolves an asset file name against DataDir. Absolute names are kept.
func (a AssetConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.DataDir, name)
}

// APIKey returns the credential of the configured provider.
func (l LLMConfig) APIKey() string {
	if l.Provider == "openai" {
		return l.OpenAIKey
	}
	return l.GeminiAPIKey
}

// Model returns the model name of the configured provider.
func (l LLMConfig) Model() string {
	if l.Provider == "openai" {
		return l.OpenAIModel
	}
	return l.GeminiModel
}

func validateConfig(config *Config) error {
	switch config.Assets.Source {
	case SourceFiles, SourceSynthetic:
	case SourceSQL:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required when ASSET_SOURCE=sql")
		}
	default:
		return errors.ConfigInvalid("ASSET_SOURCE must be one of files, sql, synthetic")
	}
	switch config.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.ConfigInvalid("DB_DRIVER must be postgres or sqlite")
	}
	switch config.LLM.Provider {
	case "gemini", "openai":
	default:
		return errors.ConfigInvalid("LLM_PROVIDER must be gemini or openai")
	}
	if config.Matching.NeighborsDefault <= 0 || config.Matching.NeighborsUI <= 0 {
		return errors.ConfigInvalid("neighbor counts must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
