package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the ragdex configuration shared by the API and the ingestion CLI.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Auth      AuthConfig      `yaml:"auth"`
	Index     IndexConfig     `yaml:"index"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Security  SecurityConfig  `yaml:"security"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json or console (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis Stack connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider and retry settings.
type EmbeddingConfig struct {
	Provider      string `yaml:"provider"`
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	APIVersion    string `yaml:"api_version"` // set for Azure OpenAI
	Deployment    string `yaml:"deployment"`
	Model         string `yaml:"model"`
	Dimensions    int    `yaml:"dimensions"`
	MaxRetries    int    `yaml:"max_retries"`
	BackoffBaseMs int    `yaml:"backoff_base_ms"`
	CacheTTLSec   int    `yaml:"cache_ttl_sec"` // 0 = no cache
}

// IndexConfig holds search index settings and retrieval caps.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"`
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
	AggregationCap  int    `yaml:"aggregation_cap"`
	AnalyticsCap    int    `yaml:"analytics_cap"`
	DefaultTopK     int    `yaml:"default_top_k"`
}

// IngestConfig holds ingestion pipeline settings.
type IngestConfig struct {
	SourcePath        string `yaml:"source_path"`
	BatchSize         int    `yaml:"batch_size"`
	SkipIndexCreation bool   `yaml:"skip_index_creation"`
	SanityFilter      string `yaml:"sanity_filter"`
	SanityField       string `yaml:"sanity_field"`
	SanityTop         int    `yaml:"sanity_top"`
}

// SecurityConfig holds permission trimming settings.
type SecurityConfig struct {
	GraphEndpoint string `yaml:"graph_endpoint"`
	GroupsField   string `yaml:"groups_field"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	c.applyEmbeddingDefaults()
	c.applyIndexDefaults()
	c.applyIngestDefaults()
	if c.Security.GroupsField == "" {
		c.Security.GroupsField = "permittedGroups"
	}
	if c.Security.GraphEndpoint == "" {
		c.Security.GraphEndpoint = "https://graph.microsoft.com/v1.0"
	}
}

func (c *Config) applyEmbeddingDefaults() {
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
		if c.Embedding.APIVersion != "" {
			c.Embedding.Provider = "azure"
		}
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-large"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 3072
	}
	if c.Embedding.MaxRetries <= 0 {
		c.Embedding.MaxRetries = 3
	}
	if c.Embedding.BackoffBaseMs <= 0 {
		c.Embedding.BackoffBaseMs = 1000
	}
}

func (c *Config) applyIndexDefaults() {
	if c.Index.Name == "" {
		c.Index.Name = "cms1500-claims"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "ragdex:"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 10
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 400
	}
	if c.Index.AggregationCap <= 0 {
		c.Index.AggregationCap = 1000
	}
	if c.Index.AnalyticsCap <= 0 {
		c.Index.AnalyticsCap = 10000
	}
	if c.Index.DefaultTopK <= 0 {
		c.Index.DefaultTopK = 50
	}
}

func (c *Config) applyIngestDefaults() {
	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = 25
	}
	if c.Ingest.SanityFilter == "" {
		c.Ingest.SanityFilter = "@isAggregationCandidate:{true}"
	}
	if c.Ingest.SanityField == "" {
		c.Ingest.SanityField = "claimAmount"
	}
	if c.Ingest.SanityTop <= 0 {
		c.Ingest.SanityTop = 50
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 0 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Index.AnalyticsCap < c.Index.AggregationCap {
		return fmt.Errorf(
			"index.analytics_cap (%d) must not be smaller than index.aggregation_cap (%d)",
			c.Index.AnalyticsCap, c.Index.AggregationCap,
		)
	}
	if c.Embedding.Dimensions > 16384 {
		return fmt.Errorf("embedding.dimensions must be at most 16384, got %d", c.Embedding.Dimensions)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
