package ports

import "context"

// ClassProbability pairs a model class code with its probability
type ClassProbability struct {
	Class       int     `json:"class"`
	Probability float64 `json:"probability"`
}

// ClassModel is a trained classifier with a fixed feature order
type ClassModel interface {
	// Features lists the expected feature names, in input order
	Features() []string
	// Predict returns one probability per class, in model class order
	Predict(ctx context.Context, row []float64) ([]ClassProbability, error)
}

// ModelLoader opens the class model
type ModelLoader interface {
	Load(ctx context.Context) (ClassModel, error)
}
