package testkit

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"movilidad/adapters/excel"
	"movilidad/adapters/model"
	"movilidad/domain/assets"
	"movilidad/ports"
)

// Repository serves a generated bundle. The bundle is built once.
type Repository struct {
	generator *HouseholdGenerator

	once   sync.Once
	bundle *assets.Bundle
	model  *model.Logistic
}

var _ ports.AssetRepository = (*Repository)(nil)

// NewRepository creates a synthetic asset repository
func NewRepository(config HouseholdGeneratorConfig) *Repository {
	return &Repository{generator: NewHouseholdGenerator(config)}
}

func (r *Repository) build() {
	r.once.Do(func() {
		r.bundle = r.generator.Bundle()
		r.model = r.generator.ClassModel()
	})
}

// Load implements ports.AssetRepository
func (r *Repository) Load(ctx context.Context) (*assets.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.build()
	return r.bundle, nil
}

// Version implements ports.AssetRepository
func (r *Repository) Version(ctx context.Context) (string, error) {
	return r.generator.Version(), nil
}

// ModelLoader returns a loader for the generated class model
func (r *Repository) ModelLoader() ports.ModelLoader {
	return modelLoader{r}
}

type modelLoader struct {
	repo *Repository
}

func (l modelLoader) Load(ctx context.Context) (ports.ClassModel, error) {
	l.repo.build()
	return l.repo.model, nil
}

// WriteAssets stores the generated bundle as files and the model as YAML
func WriteAssets(ctx context.Context, config HouseholdGeneratorConfig, files excel.AssetFiles, modelPath string) error {
	repo := NewRepository(config)
	bundle, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	if err := excel.NewFileRepository(files, nil).Save(ctx, bundle); err != nil {
		return err
	}
	if modelPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
		return err
	}
	return model.Write(modelPath, repo.model)
}
