package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "movilidad/internal/errors"
	"movilidad/ports"
)

// UsageRepository persists LLM usage in llm_usage
type UsageRepository struct {
	db *sqlx.DB
}

func NewUsageRepository(db *sqlx.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

func (r *UsageRepository) RecordUsage(ctx context.Context, usage *ports.LLMUsage) error {
	query := r.db.Rebind(`
		INSERT INTO llm_usage (id, operation, provider, model, prompt_tokens, completion_tokens, total_tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		usage.ID, usage.Operation, usage.Provider, usage.Model,
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens,
		usage.CreatedAt.UnixMilli())
	if err != nil {
		return apperrors.DatabaseError("failed to record llm usage", err)
	}
	return nil
}

func (r *UsageRepository) UsageSummary(ctx context.Context, since time.Time) ([]ports.UsageSummary, error) {
	query := r.db.Rebind(`
		SELECT provider, model,
			COUNT(*) AS calls,
			COALESCE(SUM(prompt_tokens), 0) AS prompt_tokens,
			COALESCE(SUM(completion_tokens), 0) AS completion_tokens,
			COALESCE(SUM(total_tokens), 0) AS total_tokens
		FROM llm_usage
		WHERE created_at >= ?
		GROUP BY provider, model
		ORDER BY provider, model`)

	summary := []ports.UsageSummary{}
	if err := r.db.SelectContext(ctx, &summary, query, since.UnixMilli()); err != nil {
		return nil, apperrors.DatabaseError("failed to summarize llm usage", err)
	}
	return summary, nil
}
