package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movilidad/domain/core"
	apperrors "movilidad/internal/errors"
)

func threeClassSpec() LogisticSpec {
	return LogisticSpec{
		Features:     []string{"a", "b"},
		Classes:      []int{1, 2, 3},
		Coefficients: [][]float64{{1, 0}, {0, 1}, {0, 0}},
		Intercepts:   []float64{0, 0, 0},
	}
}

func TestLogistic_PredictSumsToOne(t *testing.T) {
	m, err := NewLogistic(threeClassSpec())
	require.NoError(t, err)

	probs, err := m.Predict(context.Background(), []float64{2, 0})
	require.NoError(t, err)
	require.Len(t, probs, 3)

	var sum float64
	for _, p := range probs {
		sum += p.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, 1, probs[0].Class)
	assert.Greater(t, probs[0].Probability, probs[1].Probability)
	assert.InDelta(t, probs[1].Probability, probs[2].Probability, 1e-12)
}

func TestLogistic_Binary(t *testing.T) {
	m, err := NewLogistic(LogisticSpec{
		Features:     []string{"x"},
		Classes:      []int{0, 1},
		Coefficients: [][]float64{{1}},
		Intercepts:   []float64{0},
	})
	require.NoError(t, err)

	probs, err := m.Predict(context.Background(), []float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, probs[0].Probability, 1e-12)
	assert.InDelta(t, 0.5, probs[1].Probability, 1e-12)
}

func TestNewLogistic_ShapeErrors(t *testing.T) {
	spec := threeClassSpec()
	spec.Intercepts = []float64{0}
	_, err := NewLogistic(spec)
	assert.Error(t, err)

	spec = threeClassSpec()
	spec.Coefficients[1] = []float64{1}
	_, err = NewLogistic(spec)
	assert.Error(t, err)

	_, err = NewLogistic(LogisticSpec{Features: []string{"a"}, Classes: []int{1}})
	assert.Error(t, err)
}

func TestLogistic_PredictWrongWidth(t *testing.T) {
	m, err := NewLogistic(threeClassSpec())
	require.NoError(t, err)
	_, err = m.Predict(context.Background(), []float64{1})
	assert.Error(t, err)
}

func TestFileLoader_RoundTrip(t *testing.T) {
	m, err := NewLogistic(threeClassSpec())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "modelo.yaml")
	require.NoError(t, Write(path, m))

	loaded, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, loaded.Features())
}

func TestFileLoader_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeModelUnavailable, appErr.Code)
	assert.Equal(t, "No se encontró el archivo de modelo '"+path+"'.", appErr.Message)
	assert.True(t, errors.Is(err, core.ErrModelMissing))
}

func TestFileLoader_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features: [a]\nclasses: [1, 2, 3]\n"), 0o644))

	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeModelUnavailable, apperrors.GetCode(err))
}
