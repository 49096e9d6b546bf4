// Package classify answers "¿Qué clase soy?" from a household asset checklist.
package classify

import (
	"context"
	"strconv"
	"sync"

	"movilidad/internal"
	"movilidad/ports"
)

// Feature is one yes/no item of the asset checklist
type Feature struct {
	Variable    string `json:"variable"`
	Description string `json:"descripcion"`
}

var checklist = []Feature{
	{Variable: "p126d", Description: "Microondas"},
	{Variable: "p131", Description: "Automóvil propio"},
	{Variable: "p125d", Description: "Calentador de agua"},
	{Variable: "p126f", Description: "Tostador eléctrico de pan"},
	{Variable: "p126g", Description: "Aspiradora"},
	{Variable: "p125e", Description: "Servicio doméstico"},
	{Variable: "p129a", Description: "Otra casa/depto"},
	{Variable: "p125a", Description: "Agua entubada"},
	{Variable: "p126b", Description: "Lavadora"},
}

// Checklist returns the fixed asset questionnaire in display order
func Checklist() []Feature {
	return append([]Feature(nil), checklist...)
}

var classLabels = map[int]string{
	1: "Baja Baja",
	2: "Baja Alta",
	3: "Media Baja",
	4: "Media Alta",
	5: "Alta",
}

// ClassLabel names a class code; codes outside 1..5 keep their number
func ClassLabel(code int) string {
	if l, ok := classLabels[code]; ok {
		return l
	}
	return strconv.Itoa(code)
}

// ClassScore is one bar of the prediction chart
type ClassScore struct {
	Class       int     `json:"clase_codigo"`
	Label       string  `json:"clase"`
	Probability float64 `json:"probabilidad"`
}

// Prediction lists every class in model order plus the most likely one
type Prediction struct {
	Classes []ClassScore `json:"clases"`
	Best    ClassScore   `json:"prediccion"`
}

// Service loads the model on first use and keeps it for the process lifetime
type Service struct {
	loader ports.ModelLoader
	log    *internal.Logger

	mu    sync.Mutex
	model ports.ClassModel
}

// NewService creates a prediction service over loader
func NewService(loader ports.ModelLoader, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{loader: loader, log: logger.With("Classifier")}
}

func (s *Service) classModel(ctx context.Context) (ports.ClassModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != nil {
		return s.model, nil
	}
	m, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info("loaded class model with %d features", len(m.Features()))
	s.model = m
	return m, nil
}

// Predict scores a checklist. Model features absent from features count
// as 0; a model without feature names takes the checklist order.
func (s *Service) Predict(ctx context.Context, features map[string]float64) (*Prediction, error) {
	m, err := s.classModel(ctx)
	if err != nil {
		return nil, err
	}

	names := m.Features()
	if len(names) == 0 {
		for _, f := range checklist {
			names = append(names, f.Variable)
		}
	}
	row := make([]float64, len(names))
	for i, name := range names {
		row[i] = features[name]
	}

	probs, err := m.Predict(ctx, row)
	if err != nil {
		return nil, err
	}

	pred := &Prediction{Classes: make([]ClassScore, len(probs))}
	for i, p := range probs {
		score := ClassScore{Class: p.Class, Label: ClassLabel(p.Class), Probability: p.Probability}
		pred.Classes[i] = score
		if i == 0 || score.Probability > pred.Best.Probability {
			pred.Best = score
		}
	}
	s.log.Debug("predicted %s (%.4f)", pred.Best.Label, pred.Best.Probability)
	return pred, nil
}
