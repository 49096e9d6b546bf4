package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movilidad/internal/assets"
	apperrors "movilidad/internal/errors"
	"movilidad/internal/explain"
	"movilidad/internal/featurepool"
	"movilidad/internal/testkit"
)

type mockExplainer struct {
	mock.Mock
}

func (m *mockExplainer) Explain(ctx context.Context, c explain.Context) string {
	return m.Called(ctx, c).String(0)
}

func newTestService(t *testing.T, explainer Explainer) *MatchService {
	t.Helper()
	repo := testkit.NewRepository(testkit.DefaultHouseholdConfig())
	return NewMatchService(assets.NewCache(repo, nil), nil, explainer, 20, nil)
}

func TestMatchService_Targets(t *testing.T) {
	svc := newTestService(t, nil)

	targets, err := svc.Targets(context.Background())
	require.NoError(t, err)
	require.Len(t, targets, 3)
	assert.Equal(t, "OBJ_pobre_a_rico", targets[0].ID)
	assert.Equal(t, "De Pobre a Rico", targets[0].Label)
}

func TestMatchService_QuestionnaireIncludesBaseline(t *testing.T) {
	svc := newTestService(t, nil)

	questions, err := svc.Questionnaire(context.Background(), "OBJ_subieron")
	require.NoError(t, err)

	asked := map[string]bool{}
	for _, q := range questions {
		asked[q.Variable] = true
	}
	for _, b := range featurepool.Baseline {
		assert.True(t, asked[b], b)
	}
	assert.False(t, asked["p133"])
}

func TestMatchService_UnknownTarget(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Run(context.Background(), RunRequest{Target: "OBJ_nope"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnknownTarget, apperrors.GetCode(err))
}

func TestMatchService_TargetIsTrimmed(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.Run(context.Background(), RunRequest{Target: "  OBJ_subieron "})
	require.NoError(t, err)
	assert.Equal(t, "OBJ_subieron", result.Target)

	_, err = svc.Questionnaire(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnknownTarget, apperrors.GetCode(err))
}

func TestMatchService_Run(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.Run(context.Background(), RunRequest{
		Target:    "OBJ_pobre_a_rico",
		Responses: map[string]string{"p05": "2", "p33_f": "3 - Secundaria", "p86": "40"},
		K:         30,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "De Pobre a Rico", result.TargetLabel)
	assert.Equal(t, len(result.Questions), result.Answers.Len())
	assert.Equal(t, 30, result.Match.K)

	total := 0
	for i, c := range result.Match.Clusters {
		assert.NotEqual(t, -1, c.Cluster)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Match.Clusters[i-1].Count, c.Count)
		}
		total += c.Count
	}
	assert.Equal(t, 30, total)

	scenarios := 0
	for _, g := range result.Groups {
		scenarios += len(g.Scenarios)
	}
	assert.Equal(t, len(result.Parsed), scenarios)
}

func TestMatchService_RunUsesDefaultK(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.Run(context.Background(), RunRequest{Target: "OBJ_subieron"})
	require.NoError(t, err)
	assert.Equal(t, 20, result.Match.K)
}

func TestMatchService_Explain(t *testing.T) {
	explainer := &mockExplainer{}
	explainer.On("Explain", mock.Anything, mock.MatchedBy(func(c explain.Context) bool {
		return c.Target == "OBJ_subieron" && len(c.ActiveFilters) == 1 && len(c.Questionnaire) > 0
	})).Return("explicación")

	svc := newTestService(t, explainer)
	result, err := svc.Run(context.Background(), RunRequest{
		Target:  "OBJ_subieron",
		Filters: []explain.Filter{{Variable: "Región", Values: []string{"Sur"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "explicación", svc.Explain(context.Background(), result, nil))
	explainer.AssertExpectations(t)
}

func TestMatchService_ExplainWithoutExplainer(t *testing.T) {
	svc := newTestService(t, nil)
	result, err := svc.Run(context.Background(), RunRequest{Target: "OBJ_subieron"})
	require.NoError(t, err)

	assert.Equal(t, explain.MissingDependencyMessage, svc.Explain(context.Background(), result, nil))
}
