package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(Config{Level: "debug", Format: "json"}, &buf)

	Logger.Debug().Str("component", "loader").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "loader", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestInitWithWriter_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(Config{Level: "chatty"}, &buf)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	Logger.Debug().Msg("dropped")
	assert.Empty(t, buf.String())
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(Config{Level: "info"}, &buf)

	Ctx(context.Background()).Info().Msg("from global")
	assert.Contains(t, buf.String(), "from global")
}

func TestWithContext_UsesAttachedLogger(t *testing.T) {
	var global, scoped bytes.Buffer
	InitWithWriter(Config{Level: "info"}, &global)

	l := zerolog.New(&scoped).With().Str("request_id", "abc").Logger()
	ctx := WithContext(context.Background(), l)

	Ctx(ctx).Info().Msg("scoped")
	assert.Contains(t, scoped.String(), `"request_id":"abc"`)
	assert.Empty(t, global.String())
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "key=[REDACTED]&x=1", Redact("key=s3cret&x=1", "s3cret"))
	assert.Equal(t, "unchanged", Redact("unchanged", ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	// "é" is two bytes; cutting inside it backs up to the rune start
	assert.Equal(t, "a...", Truncate("aéb", 2))
	assert.True(t, utf8.ValidString(Truncate(strings.Repeat("日本", 10), 7)))
}
