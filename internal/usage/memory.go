package usage

import (
	"context"
	"sort"
	"sync"
	"time"

	"movilidad/ports"
)

// MemoryRepository keeps usage in process, for deployments without a database
type MemoryRepository struct {
	mu      sync.Mutex
	records []ports.LLMUsage
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) RecordUsage(ctx context.Context, usage *ports.LLMUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *usage)
	return nil
}

func (r *MemoryRepository) UsageSummary(ctx context.Context, since time.Time) ([]ports.UsageSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type key struct{ provider, model string }
	byKey := map[key]*ports.UsageSummary{}
	for _, u := range r.records {
		if u.CreatedAt.Before(since) {
			continue
		}
		k := key{u.Provider, u.Model}
		s, ok := byKey[k]
		if !ok {
			s = &ports.UsageSummary{Provider: u.Provider, Model: u.Model}
			byKey[k] = s
		}
		s.Calls++
		s.PromptTokens += u.PromptTokens
		s.CompletionTokens += u.CompletionTokens
		s.TotalTokens += u.TotalTokens
	}

	out := make([]ports.UsageSummary, 0, len(byKey))
	for _, s := range byKey {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}
