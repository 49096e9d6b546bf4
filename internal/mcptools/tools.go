// Package mcptools exposes the matching pipeline and the class model as MCP
// tools.
//
// Each tool is a struct with its services injected via constructor;
// Definition() returns the mcp.Tool schema and Handle() serves a call.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"movilidad/app"
	"movilidad/domain/dataset"
	"movilidad/internal/grouping"
)

// Register adds every tool to s. class may be nil when no model is configured.
func Register(s *server.MCPServer, match *app.MatchService, class *app.ClassService) {
	for _, t := range []interface {
		Definition() mcp.Tool
		Handle(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	}{
		NewTargetsTool(match),
		NewQuestionsTool(match),
		NewMatchTool(match),
		NewExplainTool(match),
		NewPredictTool(class),
	} {
		s.AddTool(t.Definition(), t.Handle)
	}
}

// TargetsTool handles list_targets.
type TargetsTool struct {
	match *app.MatchService
}

func NewTargetsTool(match *app.MatchService) *TargetsTool {
	return &TargetsTool{match: match}
}

func (t *TargetsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_targets",
		mcp.WithDescription("List the social mobility targets that have precomputed cluster tables."),
	)
}

func (t *TargetsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targets, err := t.match.Targets(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list targets: %v", err)), nil
	}
	var sb strings.Builder
	sb.WriteString("## Targets\n\n")
	for _, tg := range targets {
		sb.WriteString(fmt.Sprintf("- `%s`: %s\n", tg.ID, tg.Label))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// QuestionsTool handles question_pool.
type QuestionsTool struct {
	match *app.MatchService
}

func NewQuestionsTool(match *app.MatchService) *QuestionsTool {
	return &QuestionsTool{match: match}
}

func (t *QuestionsTool) Definition() mcp.Tool {
	return mcp.NewTool("question_pool",
		mcp.WithDescription("Show the questionnaire asked for a target, with the answer codes of each question."),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Target id, e.g. OBJ_subieron"),
		),
	)
}

func (t *QuestionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	questions, err := t.match.Questionnaire(ctx, req.GetString("target", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build questionnaire: %v", err)), nil
	}
	var sb strings.Builder
	for _, q := range questions {
		sb.WriteString(fmt.Sprintf("### %s\n%s\n", q.Variable, q.Description))
		for _, o := range q.Options {
			sb.WriteString(fmt.Sprintf("- %s\n", o.Display()))
		}
		if len(q.Options) == 0 {
			sb.WriteString(fmt.Sprintf("- numeric, default %s\n", dataset.FormatFloat(q.Default)))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func runOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Target id, e.g. OBJ_subieron"),
		),
		mcp.WithObject("answers",
			mcp.Description("Answers keyed by variable, values are answer codes"),
		),
		mcp.WithNumber("k",
			mcp.Description("Number of nearest neighbors (default server setting)"),
		),
	}
}

func runRequest(req mcp.CallToolRequest) app.RunRequest {
	return app.RunRequest{
		Target:    req.GetString("target", ""),
		Responses: stringMap(req.GetArguments()["answers"]),
		K:         intArg(req, "k", 0),
	}
}

// MatchTool handles match_clusters.
type MatchTool struct {
	match *app.MatchService
}

func NewMatchTool(match *app.MatchService) *MatchTool {
	return &MatchTool{match: match}
}

func (t *MatchTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Match questionnaire answers against the clustered survey records and describe the closest clusters."),
	}, runOptions()...)
	return mcp.NewTool("match_clusters", opts...)
}

func (t *MatchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.match.Run(ctx, runRequest(req))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("match failed: %v", err)), nil
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", result.TargetLabel))
	sb.WriteString(fmt.Sprintf("Run `%s`, status %s, %d neighbors\n\n", result.RunID, result.Match.Status, result.Match.K))
	sb.WriteString(grouping.RenderText(result.Groups))
	return mcp.NewToolResultText(sb.String()), nil
}

// ExplainTool handles explain_results.
type ExplainTool struct {
	match *app.MatchService
}

func NewExplainTool(match *app.MatchService) *ExplainTool {
	return &ExplainTool{match: match}
}

func (t *ExplainTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Match answers and return a plain-language explanation of the resulting clusters."),
	}, runOptions()...)
	return mcp.NewTool("explain_results", opts...)
}

func (t *ExplainTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.match.Run(ctx, runRequest(req))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("match failed: %v", err)), nil
	}
	return mcp.NewToolResultText(t.match.Explain(ctx, result, nil)), nil
}

// PredictTool handles predict_class.
type PredictTool struct {
	class *app.ClassService
}

func NewPredictTool(class *app.ClassService) *PredictTool {
	return &PredictTool{class: class}
}

func (t *PredictTool) Definition() mcp.Tool {
	return mcp.NewTool("predict_class",
		mcp.WithDescription("Estimate the socioeconomic class of a household from its asset checklist (1 = has it, 0 = does not)."),
		mcp.WithObject("features",
			mcp.Required(),
			mcp.Description("Checklist values keyed by variable, e.g. {\"p126d\": 1}"),
		),
	)
}

func (t *PredictTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.class == nil {
		return mcp.NewToolResultError("Modelo no configurado."), nil
	}
	features, ok := floatMap(req.GetArguments()["features"])
	if !ok {
		return mcp.NewToolResultError("features must map variables to numbers"), nil
	}
	pred, err := t.class.Predict(ctx, features)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("prediction failed: %v", err)), nil
	}
	out, err := json.MarshalIndent(pred, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
