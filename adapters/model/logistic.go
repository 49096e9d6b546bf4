// Package model loads the trained class model.
package model

import (
	"context"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"movilidad/domain/core"
	apperrors "movilidad/internal/errors"
	"movilidad/ports"
)

// LogisticSpec is the on-disk form of a multinomial logistic regression.
// A two-class model may carry a single coefficient row, read as the
// log-odds of the second class.
type LogisticSpec struct {
	Features     []string    `yaml:"features"`
	Classes      []int       `yaml:"classes"`
	Coefficients [][]float64 `yaml:"coefficients"`
	Intercepts   []float64   `yaml:"intercepts"`
}

// Logistic is a softmax classifier
type Logistic struct {
	spec    LogisticSpec
	weights *mat.Dense
	bias    *mat.VecDense
	binary  bool
}

var _ ports.ClassModel = (*Logistic)(nil)

// NewLogistic validates spec and builds the classifier
func NewLogistic(spec LogisticSpec) (*Logistic, error) {
	nClasses, nFeatures := len(spec.Classes), len(spec.Features)
	if nClasses < 2 {
		return nil, fmt.Errorf("model needs at least two classes, got %d", nClasses)
	}
	if nFeatures == 0 {
		return nil, fmt.Errorf("model has no features")
	}

	rows := len(spec.Coefficients)
	binary := nClasses == 2 && rows == 1
	if !binary && rows != nClasses {
		return nil, fmt.Errorf("model has %d coefficient rows for %d classes", rows, nClasses)
	}
	if len(spec.Intercepts) != rows {
		return nil, fmt.Errorf("model has %d intercepts for %d coefficient rows", len(spec.Intercepts), rows)
	}

	data := make([]float64, 0, rows*nFeatures)
	for i, row := range spec.Coefficients {
		if len(row) != nFeatures {
			return nil, fmt.Errorf("coefficient row %d has %d values for %d features", i, len(row), nFeatures)
		}
		data = append(data, row...)
	}

	return &Logistic{
		spec:    spec,
		weights: mat.NewDense(rows, nFeatures, data),
		bias:    mat.NewVecDense(rows, append([]float64(nil), spec.Intercepts...)),
		binary:  binary,
	}, nil
}

// Spec returns the model parameters
func (m *Logistic) Spec() LogisticSpec {
	return m.spec
}

// Features implements ports.ClassModel
func (m *Logistic) Features() []string {
	return append([]string(nil), m.spec.Features...)
}

// Predict implements ports.ClassModel
func (m *Logistic) Predict(ctx context.Context, row []float64) ([]ports.ClassProbability, error) {
	if len(row) != len(m.spec.Features) {
		return nil, fmt.Errorf("expected %d features, got %d", len(m.spec.Features), len(row))
	}

	var z mat.VecDense
	z.MulVec(m.weights, mat.NewVecDense(len(row), append([]float64(nil), row...)))
	z.AddVec(&z, m.bias)

	var probs []float64
	if m.binary {
		p := 1 / (1 + math.Exp(-z.AtVec(0)))
		probs = []float64{1 - p, p}
	} else {
		scores := mat.Col(nil, 0, &z)
		norm := floats.LogSumExp(scores)
		probs = make([]float64, len(scores))
		for i, s := range scores {
			probs[i] = math.Exp(s - norm)
		}
	}

	out := make([]ports.ClassProbability, len(probs))
	for i, p := range probs {
		out[i] = ports.ClassProbability{Class: m.spec.Classes[i], Probability: p}
	}
	return out, nil
}

// FileLoader reads a Logistic model from a YAML file
type FileLoader struct {
	Path string
}

// NewFileLoader creates a loader for path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load implements ports.ModelLoader
func (l *FileLoader) Load(ctx context.Context) (ports.ClassModel, error) {
	data, err := os.ReadFile(l.Path)
	if os.IsNotExist(err) {
		return nil, apperrors.ModelUnavailable(
			fmt.Sprintf("No se encontró el archivo de modelo '%s'.", l.Path),
			core.NewModelMissingError(l.Path),
		)
	}
	if err != nil {
		return nil, apperrors.ModelUnavailable("No se pudo leer el modelo.", err)
	}

	var spec LogisticSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, apperrors.ModelUnavailable("El archivo de modelo no es válido.", err)
	}
	m, err := NewLogistic(spec)
	if err != nil {
		return nil, apperrors.ModelUnavailable("El archivo de modelo no es válido.", err)
	}
	return m, nil
}

// Write stores the model parameters as YAML
func Write(path string, m *Logistic) error {
	data, err := yaml.Marshal(m.spec)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
