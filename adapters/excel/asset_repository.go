package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"movilidad/domain/assets"
	"movilidad/domain/core"
	"movilidad/domain/dataset"
	"movilidad/domain/questionnaire"
	"movilidad/internal"
	apperrors "movilidad/internal/errors"
)

// FileRepository loads assets from CSV, XLSX and YAML files
type FileRepository struct {
	files AssetFiles
	log   *internal.Logger
}

// NewFileRepository creates a repository over files
func NewFileRepository(files AssetFiles, logger *internal.Logger) *FileRepository {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FileRepository{files: files, log: logger.With("FileRepository")}
}

// Load reads every asset concurrently
func (r *FileRepository) Load(ctx context.Context) (*assets.Bundle, error) {
	version, err := r.Version(ctx)
	if err != nil {
		return nil, err
	}

	var (
		dict       questionnaire.Dictionary
		mapping    questionnaire.Mapping
		records    *dataset.Frame
		importance *dataset.Frame
		valuable   map[string]*dataset.Frame
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := ReadDictionary(r.files.Dictionary)
		if err != nil {
			return apperrors.AssetUnavailable("dictionary", err)
		}
		dict = d
		return nil
	})
	g.Go(func() error {
		m, err := ReadMapping(r.files.Mapping)
		if err != nil {
			return apperrors.AssetUnavailable("mapping", err)
		}
		mapping = m
		return nil
	})
	g.Go(func() error {
		f, err := NewDataReader(r.files.Records).ReadFrame()
		if err != nil {
			return apperrors.AssetUnavailable(assets.TableRecords, err)
		}
		records = f
		return nil
	})
	g.Go(func() error {
		f, err := NewDataReader(r.files.Importance).ReadFrame()
		if err != nil {
			return apperrors.AssetUnavailable(assets.TableImportance, err)
		}
		importance = f
		return nil
	})
	g.Go(func() error {
		v, err := r.readValuable(ctx)
		if err != nil {
			return apperrors.AssetUnavailable("valuable", err)
		}
		valuable = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.log.Info("loaded %d records, %d importance rows, %d targets (version %s)",
		records.Len(), importance.Len(), len(valuable), shortVersion(version))

	return &assets.Bundle{
		Version:    version,
		Dictionary: dict,
		Mapping:    mapping,
		Importance: importance,
		Records:    records,
		Valuable:   valuable,
	}, nil
}

func (r *FileRepository) readValuable(ctx context.Context) (map[string]*dataset.Frame, error) {
	info, err := os.Stat(r.files.Valuable)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return NewDataReader(r.files.Valuable).ReadSheets()
	}

	paths, err := filepath.Glob(filepath.Join(r.files.Valuable, "*.csv"))
	if err != nil {
		return nil, err
	}
	out := make(map[string]*dataset.Frame, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := NewDataReader(p).ReadFrame()
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))] = f
	}
	return out, nil
}

// Version hashes the modification time and size of every asset file
func (r *FileRepository) Version(ctx context.Context) (string, error) {
	stamps := make(map[string]string)
	for name, path := range r.files.all() {
		info, err := os.Stat(path)
		if err != nil {
			return "", apperrors.AssetUnavailable(name, core.NewAssetMissingError(name, path))
		}
		stamps[path] = stamp(info)
		if !info.IsDir() {
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return "", apperrors.AssetUnavailable(name, err)
		}
		for _, e := range entries {
			if fi, err := e.Info(); err == nil {
				stamps[filepath.Join(path, e.Name())] = stamp(fi)
			}
		}
	}
	return core.VersionHash(stamps).String(), nil
}

func stamp(info os.FileInfo) string {
	return strconv.FormatInt(info.ModTime().UnixNano(), 10) + ":" + strconv.FormatInt(info.Size(), 10)
}

// Save writes bundle to the repository files, creating parent directories
func (r *FileRepository) Save(ctx context.Context, bundle *assets.Bundle) error {
	for _, p := range r.files.all() {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
	}

	dict, err := EncodeDictionary(bundle.Dictionary)
	if err != nil {
		return fmt.Errorf("failed to encode dictionary: %w", err)
	}
	if err := os.WriteFile(r.files.Dictionary, dict, 0o644); err != nil {
		return err
	}
	mapping, err := EncodeMapping(bundle.Mapping)
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}
	if err := os.WriteFile(r.files.Mapping, mapping, 0o644); err != nil {
		return err
	}
	if err := WriteCSV(r.files.Records, bundle.Records); err != nil {
		return err
	}
	if err := WriteCSV(r.files.Importance, bundle.Importance); err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(r.files.Valuable), ".xlsx") {
		return WriteWorkbook(r.files.Valuable, bundle.Valuable)
	}
	if err := os.MkdirAll(r.files.Valuable, 0o755); err != nil {
		return err
	}
	for target, frame := range bundle.Valuable {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := WriteCSV(filepath.Join(r.files.Valuable, target+".csv"), frame); err != nil {
			return err
		}
	}
	return nil
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}
