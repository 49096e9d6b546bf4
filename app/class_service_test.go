package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movilidad/internal/classify"
	apperrors "movilidad/internal/errors"
	"movilidad/internal/testkit"
)

func TestClassService_Predict(t *testing.T) {
	repo := testkit.NewRepository(testkit.DefaultHouseholdConfig())
	svc := NewClassService(classify.NewService(repo.ModelLoader(), nil), nil)

	pred, err := svc.Predict(context.Background(), map[string]float64{"p131": 1, "p126b": 1})
	require.NoError(t, err)
	require.Len(t, pred.Classes, 5)

	var sum float64
	for _, c := range pred.Classes {
		sum += c.Probability
		assert.LessOrEqual(t, c.Probability, pred.Best.Probability)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestClassService_RejectsNonBinary(t *testing.T) {
	repo := testkit.NewRepository(testkit.DefaultHouseholdConfig())
	svc := NewClassService(classify.NewService(repo.ModelLoader(), nil), nil)

	_, err := svc.Predict(context.Background(), map[string]float64{"p131": 2})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}
