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

// Config holds the activity discovery API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Search   SearchConfig   `yaml:"search"`
	Images   ImagesConfig   `yaml:"images"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
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

// OpenAIConfig holds completion provider settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// ClassifierTemperature is used for the relevance check (low, near-deterministic).
	ClassifierTemperature float32 `yaml:"classifier_temperature"`
	// ExtractorTemperature is used for activity extraction.
	ExtractorTemperature float32 `yaml:"extractor_temperature"`
}

// SearchConfig holds web search provider settings.
type SearchConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Depth      string `yaml:"depth"` // basic, advanced
	MaxResults int    `yaml:"max_results"`
}

// ImagesConfig holds local image catalog settings.
type ImagesConfig struct {
	// Dir is the catalog directory scanned for activity images.
	Dir string `yaml:"dir"`
	// PublicBase is the URL path prefix under which catalog files are served.
	PublicBase string `yaml:"public_base"`
	// DefaultImage is returned when the catalog is empty.
	DefaultImage string `yaml:"default_image"`
	// MappingsFile optionally overrides the built-in keyword/category tables.
	MappingsFile string `yaml:"mappings_file"`
	// ResolveConcurrency bounds simultaneous per-activity resolutions.
	ResolveConcurrency int `yaml:"resolve_concurrency"`
	// ImageSearchResults caps remote image search hits per activity.
	ImageSearchResults int `yaml:"image_search_results"`
}

// PipelineConfig holds orchestration settings.
type PipelineConfig struct {
	// CallTimeoutSec bounds each external call (completion, web search).
	CallTimeoutSec int `yaml:"call_timeout_sec"`
	// DeadlineSec bounds the whole pipeline invocation.
	DeadlineSec int `yaml:"deadline_sec"`
	// MaxActivities caps the extracted activity list.
	MaxActivities int `yaml:"max_activities"`
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
		// The pipeline chains several provider calls; keep the write timeout
		// above the pipeline deadline.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-3.5-turbo"
	}
	if c.OpenAI.ClassifierTemperature <= 0 {
		c.OpenAI.ClassifierTemperature = 0.3
	}
	if c.OpenAI.ExtractorTemperature <= 0 {
		c.OpenAI.ExtractorTemperature = 0.7
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://api.tavily.com"
	}
	if c.Search.Depth == "" {
		c.Search.Depth = "advanced"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 5
	}
	if c.Images.Dir == "" {
		c.Images.Dir = "frontend/public/images/blog"
	}
	if c.Images.PublicBase == "" {
		c.Images.PublicBase = "/images/blog"
	}
	if c.Images.DefaultImage == "" {
		c.Images.DefaultImage = "/images/blog/playa-1.jpg"
	}
	if c.Images.ResolveConcurrency <= 0 {
		c.Images.ResolveConcurrency = 5
	}
	if c.Images.ImageSearchResults <= 0 {
		c.Images.ImageSearchResults = 3
	}
	if c.Pipeline.CallTimeoutSec <= 0 {
		c.Pipeline.CallTimeoutSec = 12
	}
	if c.Pipeline.DeadlineSec <= 0 {
		c.Pipeline.DeadlineSec = 45
	}
	if c.Pipeline.MaxActivities <= 0 {
		c.Pipeline.MaxActivities = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	switch c.Search.Depth {
	case "basic", "advanced":
		// ok
	default:
		return fmt.Errorf("search.depth must be \"basic\" or \"advanced\", got %q", c.Search.Depth)
	}
	if c.Pipeline.CallTimeoutSec >= c.Pipeline.DeadlineSec {
		return fmt.Errorf(
			"pipeline.call_timeout_sec (%d) must be below pipeline.deadline_sec (%d)",
			c.Pipeline.CallTimeoutSec, c.Pipeline.DeadlineSec,
		)
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
