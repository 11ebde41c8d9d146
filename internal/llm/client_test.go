package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_DefaultsToREST(t *testing.T) {
	client, err := NewClient(context.Background(), nil, "key")
	require.NoError(t, err)
	defer client.Close()

	_, ok := client.(*RESTClient)
	assert.True(t, ok)
}

func TestNewClient_UnknownTransport(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Transport: "carrier-pigeon"}, "key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM transport")
}

func TestPrompt_AllParts(t *testing.T) {
	prompt := Prompt{
		System: "sys",
		Parts:  []Part{TextPart("task"), InlinePart("application/pdf", "AAAA")},
	}

	parts := prompt.AllParts()
	require.Len(t, parts, 3)
	assert.Equal(t, "sys", parts[0].Text)
	assert.Equal(t, "task", parts[1].Text)
	assert.True(t, parts[2].IsInline())
	assert.False(t, parts[1].IsInline())
}

func TestPrompt_AllParts_NoSystem(t *testing.T) {
	parts := Prompt{Parts: []Part{TextPart("task")}}.AllParts()
	require.Len(t, parts, 1)
	assert.Equal(t, "task", parts[0].Text)
}
