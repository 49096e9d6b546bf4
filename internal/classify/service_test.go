package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movilidad/ports"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Features() []string {
	return m.Called().Get(0).([]string)
}

func (m *mockModel) Predict(ctx context.Context, row []float64) ([]ports.ClassProbability, error) {
	args := m.Called(ctx, row)
	return args.Get(0).([]ports.ClassProbability), args.Error(1)
}

type mockLoader struct {
	mock.Mock
}

func (l *mockLoader) Load(ctx context.Context) (ports.ClassModel, error) {
	args := l.Called(ctx)
	if m := args.Get(0); m != nil {
		return m.(ports.ClassModel), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestService_PredictFillsMissingFeatures(t *testing.T) {
	ctx := context.Background()
	model := &mockModel{}
	model.On("Features").Return([]string{"p131", "p126b", "extra"})
	model.On("Predict", ctx, []float64{1, 0, 0}).Return([]ports.ClassProbability{
		{Class: 1, Probability: 0.1},
		{Class: 3, Probability: 0.6},
		{Class: 7, Probability: 0.3},
	}, nil)
	loader := &mockLoader{}
	loader.On("Load", ctx).Return(model, nil).Once()

	svc := NewService(loader, nil)
	pred, err := svc.Predict(ctx, map[string]float64{"p131": 1})
	require.NoError(t, err)

	require.Len(t, pred.Classes, 3)
	assert.Equal(t, "Baja Baja", pred.Classes[0].Label)
	assert.Equal(t, "7", pred.Classes[2].Label)
	assert.Equal(t, 3, pred.Best.Class)
	assert.Equal(t, "Media Baja", pred.Best.Label)

	_, err = svc.Predict(ctx, map[string]float64{"p131": 1})
	require.NoError(t, err)
	loader.AssertNumberOfCalls(t, "Load", 1)
}

func TestService_ChecklistOrderWithoutFeatureNames(t *testing.T) {
	ctx := context.Background()
	model := &mockModel{}
	model.On("Features").Return([]string{})
	model.On("Predict", ctx, []float64{1, 0, 0, 0, 0, 0, 0, 0, 1}).Return([]ports.ClassProbability{
		{Class: 5, Probability: 1},
	}, nil)
	loader := &mockLoader{}
	loader.On("Load", ctx).Return(model, nil)

	pred, err := NewService(loader, nil).Predict(ctx, map[string]float64{"p126d": 1, "p126b": 1})
	require.NoError(t, err)
	assert.Equal(t, "Alta", pred.Best.Label)
	model.AssertExpectations(t)
}

func TestService_LoadErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	loader := &mockLoader{}
	loader.On("Load", ctx).Return(nil, errors.New("missing")).Twice()

	svc := NewService(loader, nil)
	_, err := svc.Predict(ctx, nil)
	assert.Error(t, err)
	_, err = svc.Predict(ctx, nil)
	assert.Error(t, err)
	loader.AssertNumberOfCalls(t, "Load", 2)
}

func TestClassLabel(t *testing.T) {
	assert.Equal(t, "Baja Alta", ClassLabel(2))
	assert.Equal(t, "Media Alta", ClassLabel(4))
	assert.Equal(t, "0", ClassLabel(0))
}

func TestChecklist(t *testing.T) {
	c := Checklist()
	require.Len(t, c, 9)
	assert.Equal(t, "p126d", c[0].Variable)
	assert.Equal(t, "Lavadora", c[8].Description)
}
