package app

import (
	"context"

	"movilidad/internal"
	"movilidad/internal/classify"
	apperrors "movilidad/internal/errors"
)

// ClassService answers "¿Qué clase soy?"
type ClassService struct {
	predictor *classify.Service
	log       *internal.Logger
}

// NewClassService creates a class prediction service
func NewClassService(predictor *classify.Service, logger *internal.Logger) *ClassService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ClassService{predictor: predictor, log: logger.With("ClassService")}
}

// Checklist returns the asset questions
func (s *ClassService) Checklist() []classify.Feature {
	return classify.Checklist()
}

// Predict scores checked assets. Values other than 0 and 1 are rejected.
func (s *ClassService) Predict(ctx context.Context, features map[string]float64) (*classify.Prediction, error) {
	for name, v := range features {
		if v != 0 && v != 1 {
			return nil, apperrors.InvalidInput("feature " + name + " must be 0 or 1")
		}
	}
	pred, err := s.predictor.Predict(ctx, features)
	if err != nil {
		s.log.Warn("prediction failed: %v", err)
		return nil, err
	}
	return pred, nil
}
