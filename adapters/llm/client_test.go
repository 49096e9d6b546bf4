package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "movilidad/internal/errors"
	"movilidad/ports"
)

func TestOpenAIClient_Generate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"gpt-4o-mini","choices":[{"message":{"content":"hola"}}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`))
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), Config{Provider: "openai", APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), ports.LLMRequest{Model: "gpt-4o-mini", System: "sys", Prompt: "user"})
	require.NoError(t, err)

	assert.Equal(t, "hola", resp.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 4, resp.Usage.TotalTokens)
	assert.Equal(t, "openai", resp.Usage.Provider)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Content)
	assert.Equal(t, 1024, got.MaxTokens)
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), Config{Provider: "openai", APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), ports.LLMRequest{Model: "m", Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, apperrors.CodeExternalService, apperrors.GetCode(err))
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(context.Background(), Config{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewClient(context.Background(), Config{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewClient(context.Background(), Config{Provider: "claude", APIKey: "x"})
	assert.Error(t, err)
}

func TestMockLLMClient_RecordsRequests(t *testing.T) {
	m := &MockLLMClient{Response: "ok"}
	resp, err := m.Generate(context.Background(), ports.LLMRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Len(t, m.Requests, 1)
}
