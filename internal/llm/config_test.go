package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, TransportREST, config.Transport)
	assert.Equal(t, "gemini-2.5-flash", config.Model)
	assert.Equal(t, DefaultBaseURL, config.BaseURL)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.1, *config.Temperature, 1e-6)
	assert.Equal(t, int32(8192), config.MaxOutputTokens)
	assert.Zero(t, config.Timeout)
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel("custom-model")

	// Original should be unchanged
	assert.Equal(t, DefaultModel, config.Model)
	assert.Equal(t, "custom-model", newConfig.Model)
	assert.Equal(t, config.MaxOutputTokens, newConfig.MaxOutputTokens)
}

func TestWithBaseURL(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithBaseURL("http://127.0.0.1:9999")

	assert.Equal(t, DefaultBaseURL, config.BaseURL)
	assert.Equal(t, "http://127.0.0.1:9999", newConfig.BaseURL)
}

func TestWithDefaults(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		var config *Config
		assert.Equal(t, DefaultConfig(), config.withDefaults())
	})

	t.Run("partial config keeps explicit values", func(t *testing.T) {
		config := &Config{Model: "gemini-2.5-pro", Timeout: time.Second}
		filled := config.withDefaults()

		assert.Equal(t, "gemini-2.5-pro", filled.Model)
		assert.Equal(t, time.Second, filled.Timeout)
		assert.Equal(t, TransportREST, filled.Transport)
		assert.Equal(t, DefaultMaxOutputTokens, filled.MaxOutputTokens)
		require.NotNil(t, filled.Temperature)
		assert.InDelta(t, DefaultTemperature, *filled.Temperature, 1e-6)
	})

	t.Run("zero temperature is kept", func(t *testing.T) {
		config := &Config{Temperature: TemperatureOf(0)}
		filled := config.withDefaults()

		require.NotNil(t, filled.Temperature)
		assert.Zero(t, *filled.Temperature)
	})
}

func TestTransportConstants(t *testing.T) {
	assert.Equal(t, Transport("rest"), TransportREST)
	assert.Equal(t, Transport("sdk"), TransportSDK)
}
