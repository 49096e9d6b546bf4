package llm

import (
	"context"

	"movilidad/ports"
)

// MockLLMClient is a mock LLM client for testing
type MockLLMClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors
	Requests []ports.LLMRequest
}

func (m *MockLLMClient) Generate(ctx context.Context, req ports.LLMRequest) (*ports.LLMResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.Error != nil {
		return nil, m.Error
	}
	if m.Response != "" {
		return &ports.LLMResponse{Content: m.Response}, nil
	}
	// Default mock response
	return &ports.LLMResponse{Content: "**Resumen:** los escenarios coinciden con hogares similares al suyo."}, nil
}
