package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the morgana pipeline configuration.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Database   DatabaseConfig   `yaml:"database"`
	Index      IndexConfig      `yaml:"index"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// MetricsConfig holds the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 disables the endpoint
}

// GenerationConfig holds the QA synthesizer settings.
type GenerationConfig struct {
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url"`
	Model             string  `yaml:"model"`
	MaxRetries        int     `yaml:"max_retries"`
	RetryDelaySec     float64 `yaml:"retry_delay_sec"`
	APICallDelaySec   float64 `yaml:"api_call_delay_sec"`
	MaxWorkers        int     `yaml:"max_workers"`
	QuestionsPerDoc   int     `yaml:"num_questions_per_document"`
	CandidatesPerCall int     `yaml:"candidate_questions_per_call"`
	RetryEmptySlot    bool    `yaml:"retry_empty_slot"`
	TaxonomyPath      string  `yaml:"taxonomy_path"`
}

// EmbeddingConfig holds the embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// DatabaseConfig holds vector store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds the vector index settings for the retrieval stage.
type IndexConfig struct {
	Collection      string `yaml:"collection"`
	Metric          string `yaml:"metric"` // IP, COSINE, L2
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
	KeyPrefix       string `yaml:"key_prefix"`
}

// RetrievalConfig holds the retrieve-and-generate run settings.
type RetrievalConfig struct {
	TopK       int    `yaml:"top_k"`
	Model      string `yaml:"model"`
	MaxWorkers int    `yaml:"max_workers"`
}

// EvaluationConfig holds the LLM-judge settings.
type EvaluationConfig struct {
	Model      string `yaml:"model"`
	MaxWorkers int    `yaml:"max_workers"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Generation.BaseURL == "" {
		c.Generation.BaseURL = "https://api.openai.com/v1"
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4.1"
	}
	if c.Generation.MaxRetries <= 0 {
		c.Generation.MaxRetries = 3
	}
	if c.Generation.RetryDelaySec <= 0 {
		c.Generation.RetryDelaySec = 5
	}
	if c.Generation.APICallDelaySec < 0 {
		c.Generation.APICallDelaySec = 0
	}
	if c.Generation.MaxWorkers <= 0 {
		c.Generation.MaxWorkers = 1
	}
	if c.Generation.QuestionsPerDoc <= 0 {
		c.Generation.QuestionsPerDoc = 1
	}
	if c.Generation.CandidatesPerCall <= 0 {
		c.Generation.CandidatesPerCall = 2
	}
	if c.Generation.TaxonomyPath == "" {
		c.Generation.TaxonomyPath = "taxonomy.json"
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = c.Generation.BaseURL
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.Collection == "" {
		c.Index.Collection = "benchmark_chunks"
	}
	if c.Index.Metric == "" {
		c.Index.Metric = "IP"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 32
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 400
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "morgana:"
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 3
	}
	if c.Retrieval.Model == "" {
		c.Retrieval.Model = c.Generation.Model
	}
	if c.Retrieval.MaxWorkers <= 0 {
		c.Retrieval.MaxWorkers = 4
	}
	if c.Evaluation.Model == "" {
		c.Evaluation.Model = c.Generation.Model
	}
	if c.Evaluation.MaxWorkers <= 0 {
		c.Evaluation.MaxWorkers = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Generation.MaxWorkers > 256 {
		return fmt.Errorf("generation.max_workers must be at most 256, got %d", c.Generation.MaxWorkers)
	}
	if c.Generation.MaxRetries > 10 {
		return fmt.Errorf("generation.max_retries must be at most 10, got %d", c.Generation.MaxRetries)
	}
	switch c.Index.Metric {
	case "IP", "COSINE", "L2":
		// ok
	default:
		return fmt.Errorf("index.metric must be one of IP, COSINE, L2, got %q", c.Index.Metric)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	return nil
}

// RetryDelay returns the base backoff delay as a duration.
func (g GenerationConfig) RetryDelay() time.Duration {
	return time.Duration(g.RetryDelaySec * float64(time.Second))
}

// APICallDelay returns the fixed post-call delay as a duration.
func (g GenerationConfig) APICallDelay() time.Duration {
	return time.Duration(g.APICallDelaySec * float64(time.Second))
}

// RequireDatabase checks the settings needed by the ingest and ask stages.
func (c *Config) RequireDatabase() error {
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required for this stage")
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

