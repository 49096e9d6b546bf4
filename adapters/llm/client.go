// Package llm connects the explanation service to hosted language models.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"movilidad/internal/config"
	apperrors "movilidad/internal/errors"
	"movilidad/ports"
)

// Config selects and configures one provider
type Config struct {
	Provider    string        // "gemini" or "openai"
	Model       string        // e.g., "gpt-4o-mini"
	APIKey      string        // provider API key
	BaseURL     string        // Optional override (default: https://api.openai.com/v1)
	Temperature float64       // 0.0-1.0, lower = more deterministic
	Timeout     time.Duration // Request timeout
}

// FromConfig picks the key and model of the configured provider
func FromConfig(c config.LLMConfig) Config {
	return Config{
		Provider: c.Provider,
		Model:    c.Model(),
		APIKey:   c.APIKey(),
		BaseURL:  c.BaseURL,
		Timeout:  c.Timeout,
	}
}

// NewClient creates an LLM client based on config
func NewClient(ctx context.Context, config Config) (ports.LLMClient, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return newOpenAIClient(config)
	case "gemini", "":
		return NewGeminiClient(ctx, config.APIKey, config.Model)
	default:
		return nil, apperrors.ConfigInvalid(fmt.Sprintf("unsupported LLM provider %q", config.Provider))
	}
}

func newOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, apperrors.ConfigInvalid("missing OpenAI API key")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIClient{
		APIKey:      config.APIKey,
		BaseURL:     baseURL,
		Timeout:     config.Timeout,
		Temperature: config.Temperature,
		http:        &http.Client{Timeout: config.Timeout},
	}, nil
}

// OpenAIClient implements ports.LLMClient over the Chat Completions API
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	http        *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *ports.UsageData `json:"usage"`
}

// Generate sends one system and one user message
func (c *OpenAIClient) Generate(ctx context.Context, req ports.LLMRequest) (*ports.LLMResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("missing model")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.Temperature
	}

	body := chatRequest{
		Model:       req.Model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	client := c.http
	if client == nil {
		client = &http.Client{Timeout: c.Timeout}
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, apperrors.ExternalServiceError("openai", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.ExternalServiceError("openai", fmt.Errorf("http %d: %s", resp.StatusCode, string(respRaw)))
	}

	var decoded chatResponse
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}

	out := &ports.LLMResponse{Content: decoded.Choices[0].Message.Content, Usage: decoded.Usage}
	if out.Usage != nil {
		out.Usage.Model = decoded.Model
		out.Usage.Provider = "openai"
	}
	return out, nil
}
