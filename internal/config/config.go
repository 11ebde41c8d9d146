// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config represents the service configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults, environment variables, or CLI flags.
type Config struct {
	// LLM
	APIKey          string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`                     // Gemini API key
	Model           string   `json:"model,omitempty" yaml:"model,omitempty"`                         // Gemini model name
	Transport       string   `json:"transport,omitempty" yaml:"transport,omitempty"`                 // rest or sdk
	BaseURL         string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`                   // REST endpoint root
	Temperature     *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`             // sampling temperature; 0 is honored
	MaxOutputTokens int      `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty"` // completion budget
	LLMTimeout      string   `json:"llm_timeout,omitempty" yaml:"llm_timeout,omitempty"`             // e.g. "90s"; empty means none
	RetryAttempts   int      `json:"retry_attempts,omitempty" yaml:"retry_attempts,omitempty"`       // total attempts; <2 disables retry
	RetryInterval   string   `json:"retry_interval,omitempty" yaml:"retry_interval,omitempty"`       // first backoff wait

	// Documents
	MaxUploadBytes int64    `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty"` // per-document limit
	BinaryTypes    []string `json:"binary_types,omitempty" yaml:"binary_types,omitempty"`         // accepted binary media types

	// Server
	Port             int  `json:"port,omitempty" yaml:"port,omitempty"`
	DisableRateLimit bool `json:"disable_rate_limit,omitempty" yaml:"disable_rate_limit,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json or pretty
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:           llm.DefaultModel,
		Transport:       string(llm.TransportREST),
		BaseURL:         llm.DefaultBaseURL,
		Temperature:     float64Ptr(0.1),
		MaxOutputTokens: int(llm.DefaultMaxOutputTokens),
		RetryAttempts:   1,
		RetryInterval:   "500ms",
		MaxUploadBytes:  10 << 20,
		BinaryTypes:     []string{"application/pdf"},
		Port:            8080,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load builds the effective configuration: defaults, then the optional file at path,
// then environment variables. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("GEMINI_API_KEY", &c.APIKey)
	str("GEMINI_MODEL", &c.Model)
	str("GEMINI_BASE_URL", &c.BaseURL)
	str("LLM_TRANSPORT", &c.Transport)
	str("LLM_TIMEOUT", &c.LLMTimeout)
	str("LLM_RETRY_INTERVAL", &c.RetryInterval)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup("LLM_TEMPERATURE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config error: LLM_TEMPERATURE: %w", err)
		}
		c.Temperature = &f
	}
	ints := map[string]*int{
		"LLM_MAX_OUTPUT_TOKENS": &c.MaxOutputTokens,
		"LLM_RETRY_ATTEMPTS":    &c.RetryAttempts,
		"PORT":                  &c.Port,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config error: %s: %w", key, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config error: MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	if v, ok := lookup("ALLOWED_BINARY_TYPES"); ok && v != "" {
		c.BinaryTypes = splitList(v)
	}
	return nil
}

// Validate checks that the configuration has valid values.
// A missing API key is not an error here; it surfaces per request.
func (c *Config) Validate() error {
	switch llm.Transport(c.Transport) {
	case "", llm.TransportREST, llm.TransportSDK:
	default:
		return fmt.Errorf("config error: 'transport' must be %q or %q", llm.TransportREST, llm.TransportSDK)
	}

	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}
	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("config error: 'max_output_tokens' must be non-negative")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("config error: 'retry_attempts' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if _, err := parseDuration(c.LLMTimeout); err != nil {
		return fmt.Errorf("config error: 'llm_timeout': %w", err)
	}
	if _, err := parseDuration(c.RetryInterval); err != nil {
		return fmt.Errorf("config error: 'retry_interval': %w", err)
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "pretty" {
		return fmt.Errorf("config error: 'log_format' must be json or pretty")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values over built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct{ dst, def *string }{
		{&result.APIKey, &defaults.APIKey},
		{&result.Model, &defaults.Model},
		{&result.Transport, &defaults.Transport},
		{&result.BaseURL, &defaults.BaseURL},
		{&result.LLMTimeout, &defaults.LLMTimeout},
		{&result.RetryInterval, &defaults.RetryInterval},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogFormat, &defaults.LogFormat},
	} {
		if *f.dst == "" {
			*f.dst = *f.def
		}
	}

	// Numeric fields: use default if zero
	if result.Temperature == nil {
		result.Temperature = defaults.Temperature
	}
	if result.MaxOutputTokens == 0 {
		result.MaxOutputTokens = defaults.MaxOutputTokens
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = defaults.RetryAttempts
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.BinaryTypes) == 0 {
		result.BinaryTypes = defaults.BinaryTypes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig converts the LLM settings into an llm.Config.
func (c *Config) LLMConfig() *llm.Config {
	timeout, _ := parseDuration(c.LLMTimeout)
	var temperature *float32
	if c.Temperature != nil {
		temperature = llm.TemperatureOf(float32(*c.Temperature))
	}
	return &llm.Config{
		Transport:       llm.Transport(c.Transport),
		Model:           c.Model,
		BaseURL:         c.BaseURL,
		Temperature:     temperature,
		MaxOutputTokens: int32(c.MaxOutputTokens),
		Timeout:         timeout,
	}
}

// RetryPolicy returns the retry settings for llm.WithRetry.
func (c *Config) RetryPolicy() llm.RetryPolicy {
	interval, _ := parseDuration(c.RetryInterval)
	return llm.RetryPolicy{MaxAttempts: c.RetryAttempts, InitialInterval: interval}
}

// LoggingConfig returns the settings for logging.Init.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat}
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must be non-negative")
	}
	return d, nil
}

func float64Ptr(v float64) *float64 {
	return &v
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
