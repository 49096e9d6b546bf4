package explain

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"movilidad/domain/core"
	"movilidad/internal"
	"movilidad/ports"
)

// Options configure an Explainer.
type Options struct {
	Provider  string
	APIKey    string
	Model     string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	MaxTokens int
	Usage     UsageRecorder
}

// UsageRecorder receives the token usage of every generation call
type UsageRecorder interface {
	RecordUsage(ctx context.Context, operation string, usage *ports.UsageData)
}

// Explainer turns a Context into an explanation through an LLM client. It
// never returns an error: every failure maps to a user-facing message.
// Successful explanations are cached by a hash of model and context text.
type Explainer struct {
	client ports.LLMClient
	opts   Options
	cache  *expirable.LRU[string, string]
	log    *internal.Logger
}

// NewExplainer creates an explainer. client may be nil when the provider
// client could not be constructed; Explain then reports the missing
// dependency.
func NewExplainer(client ports.LLMClient, opts Options, logger *internal.Logger) *Explainer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Explainer{
		client: client,
		opts:   opts,
		cache:  expirable.NewLRU[string, string](opts.CacheSize, nil, opts.CacheTTL),
		log:    logger.With("Explainer"),
	}
}

// Explain returns an explanation of c, or a fallback message. A single
// attempt is made per uncached context.
func (e *Explainer) Explain(ctx context.Context, c Context) string {
	if strings.TrimSpace(e.opts.APIKey) == "" {
		return e.missingKeyMessage()
	}
	if e.client == nil {
		return MissingDependencyMessage
	}

	text := ContextText(c)
	key := core.ContentHash(e.opts.Model, text).String()
	if cached, ok := e.cache.Get(key); ok {
		e.log.Debug("cache hit %s", key[:12])
		return cached
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.Generate(ctx, ports.LLMRequest{
		Model:     e.opts.Model,
		System:    SystemPrompt,
		Prompt:    text,
		MaxTokens: e.opts.MaxTokens,
	})
	if err != nil {
		e.log.Warn("generation failed after %v: %v", time.Since(start), err)
		return FallbackMessage
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		e.log.Warn("generation returned empty text")
		return FallbackMessage
	}
	if resp.Usage != nil {
		e.log.Info("explained target=%s model=%s tokens=%d in %v", c.Target, resp.Usage.Model, resp.Usage.TotalTokens, time.Since(start))
		if e.opts.Usage != nil {
			e.opts.Usage.RecordUsage(ctx, "explain", resp.Usage)
		}
	}

	e.cache.Add(key, resp.Content)
	return resp.Content
}

// Purge drops every cached explanation.
func (e *Explainer) Purge() {
	e.cache.Purge()
}

func (e *Explainer) missingKeyMessage() string {
	if e.opts.Provider == "openai" {
		return MissingOpenAIKeyMessage
	}
	return MissingGeminiKeyMessage
}
