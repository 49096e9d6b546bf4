package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movilidad/ports"
)

func TestUsageRepository_RecordAndSummarize(t *testing.T) {
	repo := NewUsageRepository(newTestRepository(t).db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []ports.LLMUsage{
		{ID: "a", Operation: "explain", Provider: "gemini", Model: "flash", PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12, CreatedAt: base},
		{ID: "b", Operation: "explain", Provider: "gemini", Model: "flash", PromptTokens: 5, CompletionTokens: 1, TotalTokens: 6, CreatedAt: base.Add(time.Minute)},
		{ID: "c", Operation: "explain", Provider: "openai", Model: "gpt", PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2, CreatedAt: base.Add(-time.Hour)},
	}
	for i := range records {
		require.NoError(t, repo.RecordUsage(ctx, &records[i]))
	}

	summary, err := repo.UsageSummary(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, []ports.UsageSummary{
		{Provider: "gemini", Model: "flash", Calls: 2, PromptTokens: 15, CompletionTokens: 3, TotalTokens: 18},
	}, summary)

	summary, err = repo.UsageSummary(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, summary, 2)
}

func TestUsageRepository_DuplicateID(t *testing.T) {
	repo := NewUsageRepository(newTestRepository(t).db)
	ctx := context.Background()
	u := &ports.LLMUsage{ID: "dup", Operation: "explain", CreatedAt: time.Now()}

	require.NoError(t, repo.RecordUsage(ctx, u))
	assert.Error(t, repo.RecordUsage(ctx, u))
}
