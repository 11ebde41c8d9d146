// Package llm provides the generation client used by the extraction pipeline.
// Two transports share one interface: a raw REST client and the generative-ai-go SDK.
package llm

import "time"

// Transport selects how the generation endpoint is reached
type Transport string

const (
	// TransportREST posts JSON directly to the generateContent endpoint
	TransportREST Transport = "rest"
	// TransportSDK uses the google/generative-ai-go client
	TransportSDK Transport = "sdk"
)

const (
	// DefaultModel is the model used when none is configured
	DefaultModel = "gemini-2.5-flash"
	// DefaultBaseURL is the public Generative Language API root
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultTemperature keeps extraction output close to deterministic
	DefaultTemperature float32 = 0.1
	// DefaultMaxOutputTokens leaves room for long experience lists
	DefaultMaxOutputTokens int32 = 8192
)

// Config holds the model configuration for the application
type Config struct {
	Transport       Transport
	Model           string
	BaseURL         string        // REST transport only
	Temperature     *float32      // nil means DefaultTemperature; zero is a valid setting
	MaxOutputTokens int32
	Timeout         time.Duration // zero means no client-side timeout
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Transport:       TransportREST,
		Model:           DefaultModel,
		BaseURL:         DefaultBaseURL,
		Temperature:     TemperatureOf(DefaultTemperature),
		MaxOutputTokens: DefaultMaxOutputTokens,
	}
}

// WithModel returns a copy of the config using model
func (c *Config) WithModel(model string) *Config {
	newConfig := *c
	newConfig.Model = model
	return &newConfig
}

// WithBaseURL returns a copy of the config pointed at baseURL
func (c *Config) WithBaseURL(baseURL string) *Config {
	newConfig := *c
	newConfig.BaseURL = baseURL
	return &newConfig
}

// TemperatureOf returns a pointer suitable for Config.Temperature.
func TemperatureOf(v float32) *float32 {
	return &v
}

// withDefaults fills unset values from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Transport == "" {
		out.Transport = defaults.Transport
	}
	if out.Model == "" {
		out.Model = defaults.Model
	}
	if out.BaseURL == "" {
		out.BaseURL = defaults.BaseURL
	}
	if out.Temperature == nil {
		out.Temperature = defaults.Temperature
	}
	if out.MaxOutputTokens == 0 {
		out.MaxOutputTokens = defaults.MaxOutputTokens
	}
	return &out
}
