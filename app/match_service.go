package app

import (
	"context"
	"time"

	domainAssets "movilidad/domain/assets"
	"movilidad/domain/cluster"
	"movilidad/domain/core"
	"movilidad/domain/match"
	domainQuestionnaire "movilidad/domain/questionnaire"
	"movilidad/domain/target"
	"movilidad/internal"
	"movilidad/internal/dataset"
	"movilidad/internal/describe"
	apperrors "movilidad/internal/errors"
	"movilidad/internal/explain"
	"movilidad/internal/featurepool"
	"movilidad/internal/grouping"
	"movilidad/internal/matcher"
	"movilidad/internal/questionnaire"
	"movilidad/ports"
)

// BundleSource provides the current asset bundle
type BundleSource interface {
	Get(ctx context.Context) (*domainAssets.Bundle, error)
}

// Explainer turns a run context into an explanation, never failing
type Explainer interface {
	Explain(ctx context.Context, c explain.Context) string
}

// RunRequest is one "Ejecutar" action
type RunRequest struct {
	Target    string            `json:"target"`
	Responses map[string]string `json:"answers"`
	K         int               `json:"k"`
	Filters   []explain.Filter  `json:"filters"`
}

// RunResult carries every intermediate product of a run
type RunResult struct {
	RunID       core.RunID                       `json:"run_id"`
	Target      string                           `json:"target"`
	TargetLabel string                           `json:"target_label"`
	Questions   []domainQuestionnaire.Question   `json:"questions"`
	Answers     *domainQuestionnaire.AnswerTable `json:"answers"`
	Match       match.Result                     `json:"match"`
	Parsed      []cluster.Parsed                 `json:"parsed"`
	Groups      []cluster.VariableGroup          `json:"groups"`
	Filters     []explain.Filter                 `json:"filters"`
	RuntimeMs   int64                            `json:"runtime_ms"`
}

// MatchService orchestrates questionnaire, matching, description and grouping
type MatchService struct {
	assets    BundleSource
	matcher   *matcher.Matcher
	describer ports.DescriptionBuilder
	explainer Explainer
	defaultK  int
	options   cluster.BuildOptions
	log       *internal.Logger
}

// NewMatchService creates a match service. defaultK applies when a request
// carries no neighbor count.
func NewMatchService(assets BundleSource, describer ports.DescriptionBuilder, explainer Explainer, defaultK int, logger *internal.Logger) *MatchService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if describer == nil {
		describer = describe.NewTextBuilder()
	}
	return &MatchService{
		assets:    assets,
		matcher:   matcher.New(logger),
		describer: describer,
		explainer: explainer,
		defaultK:  defaultK,
		options:   cluster.BuildOptions{Language: "es", ShowProbability: true, ShowObservations: true},
		log:       logger.With("MatchService"),
	}
}

// Targets lists the targets that have a description table
func (s *MatchService) Targets(ctx context.Context) ([]target.Target, error) {
	bundle, err := s.assets.Get(ctx)
	if err != nil {
		return nil, err
	}
	return target.List(bundle.Targets()), nil
}

// Questionnaire returns the ordered questions asked for targetID
func (s *MatchService) Questionnaire(ctx context.Context, targetID string) ([]domainQuestionnaire.Question, error) {
	bundle, err := s.assets.Get(ctx)
	if err != nil {
		return nil, err
	}
	_, questions, err := s.questions(bundle, targetID)
	return questions, err
}

// questions trims targetID and resolves it against the bundle.
func (s *MatchService) questions(bundle *domainAssets.Bundle, targetID string) (core.TargetID, []domainQuestionnaire.Question, error) {
	id, err := core.ParseTargetID(targetID)
	if err != nil || !bundle.HasTarget(id.String()) {
		return "", nil, apperrors.UnknownTarget(targetID)
	}
	pool := featurepool.Select(bundle.Importance, id.String())
	return id, questionnaire.BuildQuestions(bundle.Dictionary.Subset(pool)), nil
}

// Run executes the full pipeline for one set of responses
func (s *MatchService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	start := time.Now()

	bundle, err := s.assets.Get(ctx)
	if err != nil {
		return nil, err
	}
	id, questions, err := s.questions(bundle, req.Target)
	if err != nil {
		return nil, err
	}
	targetID := id.String()
	k := req.K
	if k <= 0 {
		k = s.defaultK
	}

	answers := questionnaire.Collect(questions, req.Responses)
	records := dataset.ForTarget(bundle.Records, targetID)
	result := s.matcher.Match(answers, records, bundle.Valuable[targetID], k)

	frame := describe.FilterResults(describe.AssignConfidenceTiers(result.Frame))
	raw := s.describer.Build(frame, bundle.Dictionary, bundle.Mapping, s.options)
	parsed := describe.ParseAll(raw)
	groups := grouping.Group(parsed)

	out := &RunResult{
		RunID:       core.NewRunID(),
		Target:      targetID,
		TargetLabel: target.Label(targetID),
		Questions:   questions,
		Answers:     answers,
		Match:       result,
		Parsed:      parsed,
		Groups:      groups,
		Filters:     req.Filters,
		RuntimeMs:   time.Since(start).Milliseconds(),
	}
	s.log.Info("run %s target=%s status=%s clusters=%d shown=%d groups=%d in %dms",
		out.RunID, targetID, result.Status, len(result.Clusters), frame.Len(), len(groups), out.RuntimeMs)
	return out, nil
}

// Explain describes a finished run. Failures come back as messages.
func (s *MatchService) Explain(ctx context.Context, result *RunResult, filters []explain.Filter) string {
	if s.explainer == nil {
		return explain.MissingDependencyMessage
	}
	if filters == nil {
		filters = result.Filters
	}
	return s.explainer.Explain(ctx, explain.Context{
		Target:        result.Target,
		TargetLabel:   result.TargetLabel,
		ActiveFilters: filters,
		Questionnaire: explain.RowsFromAnswers(result.Answers),
		Results:       result.Groups,
	})
}
