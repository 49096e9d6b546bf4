package ports

import (
	"context"
	"time"
)

// LLMUsage is one persisted generation call
type LLMUsage struct {
	ID               string    `json:"id" db:"id"`
	Operation        string    `json:"operation" db:"operation"`
	Provider         string    `json:"provider" db:"provider"`
	Model            string    `json:"model" db:"model"`
	PromptTokens     int       `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens" db:"total_tokens"`
	CreatedAt        time.Time `json:"created_at" db:"-"`
}

// UsageSummary aggregates usage per provider and model
type UsageSummary struct {
	Provider         string `json:"provider" db:"provider"`
	Model            string `json:"model" db:"model"`
	Calls            int    `json:"calls" db:"calls"`
	PromptTokens     int    `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens" db:"total_tokens"`
}

// LLMUsageRepository persists LLM usage
type LLMUsageRepository interface {
	RecordUsage(ctx context.Context, usage *LLMUsage) error
	UsageSummary(ctx context.Context, since time.Time) ([]UsageSummary, error)
}
