package usage

import (
	"context"
	"sync"
	"time"

	"movilidad/domain/core"
	"movilidad/internal"
	"movilidad/ports"
)

// Service handles LLM usage tracking and persistence
type Service struct {
	repo      ports.LLMUsageRepository
	log       *internal.Logger
	wg        sync.WaitGroup
	now       func() time.Time
	baseDelay time.Duration
}

// NewService creates a new usage service
func NewService(repo ports.LLMUsageRepository, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		repo:      repo,
		log:       logger.With("UsageService"),
		now:       time.Now,
		baseDelay: 100 * time.Millisecond,
	}
}

// RecordUsage asynchronously records LLM usage for an operation. Tracking
// problems are logged, never returned to the caller.
func (s *Service) RecordUsage(ctx context.Context, operation string, usage *ports.UsageData) {
	if usage == nil {
		s.log.Error("nil usage data provided")
		return
	}
	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
		s.log.Error("invalid token counts: %+v", usage)
		return
	}

	record := &ports.LLMUsage{
		ID:               core.NewID().String(),
		Operation:        operation,
		Provider:         usage.Provider,
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
		CreatedAt:        s.now(),
	}

	// persisted off the request path
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.persistWithRetry(record); err != nil {
			s.log.Error("failed to persist usage after retries: %v", err)
		}
	}()
}

// persistWithRetry attempts to persist usage with linear backoff
func (s *Service) persistWithRetry(usage *ports.LLMUsage) error {
	const maxRetries = 3

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = s.repo.RecordUsage(context.Background(), usage); err == nil {
			return nil
		}
		if attempt < maxRetries-1 {
			time.Sleep(time.Duration(attempt+1) * s.baseDelay)
		}
	}
	return err
}

// Summary returns usage aggregated per provider and model since the given time
func (s *Service) Summary(ctx context.Context, since time.Time) ([]ports.UsageSummary, error) {
	return s.repo.UsageSummary(ctx, since)
}

// Flush waits for pending writes
func (s *Service) Flush() {
	s.wg.Wait()
}
