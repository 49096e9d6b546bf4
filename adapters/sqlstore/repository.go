package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"movilidad/domain/assets"
	"movilidad/domain/dataset"
	"movilidad/domain/questionnaire"
	"movilidad/internal"
	apperrors "movilidad/internal/errors"
)

// Repository stores asset bundles in three tables: frames as JSON blobs,
// dictionary entries in file order and mapping rows.
type Repository struct {
	db  *sqlx.DB
	log *internal.Logger
	now func() time.Time
}

// NewRepository creates an asset repository over db
func NewRepository(db *sqlx.DB, logger *internal.Logger) *Repository {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Repository{db: db, log: logger.With("SQLStore"), now: time.Now}
}

type frameRow struct {
	Name      string `db:"name"`
	Payload   string `db:"payload"`
	RowCount  int    `db:"row_count"`
	UpdatedAt int64  `db:"updated_at"`
}

type dictionaryRow struct {
	Variable string `db:"variable"`
	Position int    `db:"position"`
	Payload  string `db:"payload"`
}

type mappingRow struct {
	Variable     string `db:"variable"`
	CambioYo     string `db:"cambio_yo"`
	Involucrados string `db:"involucrados"`
	Recursos     string `db:"recursos"`
}

type versionRow struct {
	Frames     int           `db:"frames"`
	FramesAt   sql.NullInt64 `db:"frames_at"`
	Entries    int           `db:"entries"`
	EntriesAt  sql.NullInt64 `db:"entries_at"`
	Mappings   int           `db:"mappings"`
	MappingsAt sql.NullInt64 `db:"mappings_at"`
}

// Version combines row counts and the latest update time of each table
func (r *Repository) Version(ctx context.Context) (string, error) {
	var v versionRow
	err := r.db.GetContext(ctx, &v, `
		SELECT
			(SELECT COUNT(*) FROM asset_frames) AS frames,
			(SELECT MAX(updated_at) FROM asset_frames) AS frames_at,
			(SELECT COUNT(*) FROM asset_dictionary) AS entries,
			(SELECT MAX(updated_at) FROM asset_dictionary) AS entries_at,
			(SELECT COUNT(*) FROM asset_mapping) AS mappings,
			(SELECT MAX(updated_at) FROM asset_mapping) AS mappings_at
	`)
	if err != nil {
		return "", apperrors.DatabaseError("failed to read asset version", err)
	}
	if v.Frames == 0 {
		return "", apperrors.AssetUnavailable(assets.TableRecords, fmt.Errorf("no frames stored"))
	}
	return fmt.Sprintf("sql:%d.%d:%d.%d:%d.%d",
		v.Frames, v.FramesAt.Int64, v.Entries, v.EntriesAt.Int64, v.Mappings, v.MappingsAt.Int64), nil
}

// Load reads the stored bundle
func (r *Repository) Load(ctx context.Context) (*assets.Bundle, error) {
	version, err := r.Version(ctx)
	if err != nil {
		return nil, err
	}

	var frames []frameRow
	if err := r.db.SelectContext(ctx, &frames, `SELECT name, payload, row_count, updated_at FROM asset_frames ORDER BY name`); err != nil {
		return nil, apperrors.DatabaseError("failed to read asset frames", err)
	}

	bundle := &assets.Bundle{Version: version, Valuable: make(map[string]*dataset.Frame)}
	for _, row := range frames {
		var f dataset.Frame
		if err := json.Unmarshal([]byte(row.Payload), &f); err != nil {
			return nil, apperrors.AssetUnavailable(row.Name, err)
		}
		switch {
		case row.Name == assets.TableRecords:
			bundle.Records = &f
		case row.Name == assets.TableImportance:
			bundle.Importance = &f
		case strings.HasPrefix(row.Name, assets.ValuablePrefix):
			bundle.Valuable[strings.TrimPrefix(row.Name, assets.ValuablePrefix)] = &f
		default:
			r.log.Warn("ignoring unknown frame %q", row.Name)
		}
	}
	if bundle.Records == nil {
		return nil, apperrors.AssetUnavailable(assets.TableRecords, fmt.Errorf("table not stored"))
	}
	if bundle.Importance == nil {
		return nil, apperrors.AssetUnavailable(assets.TableImportance, fmt.Errorf("table not stored"))
	}

	dict, err := r.loadDictionary(ctx)
	if err != nil {
		return nil, err
	}
	bundle.Dictionary = dict

	mapping, err := r.loadMapping(ctx)
	if err != nil {
		return nil, err
	}
	bundle.Mapping = mapping

	r.log.Info("loaded %d records, %d importance rows, %d targets", bundle.Records.Len(), bundle.Importance.Len(), len(bundle.Valuable))
	return bundle, nil
}

func (r *Repository) loadDictionary(ctx context.Context) (questionnaire.Dictionary, error) {
	var rows []dictionaryRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT variable, position, payload FROM asset_dictionary ORDER BY position`); err != nil {
		return questionnaire.Dictionary{}, apperrors.DatabaseError("failed to read dictionary", err)
	}
	dict := questionnaire.Dictionary{Entries: make([]questionnaire.DictionaryEntry, 0, len(rows))}
	for _, row := range rows {
		var e questionnaire.DictionaryEntry
		if err := json.Unmarshal([]byte(row.Payload), &e); err != nil {
			return questionnaire.Dictionary{}, apperrors.AssetUnavailable("dictionary", err)
		}
		e.Variable = row.Variable
		dict.Entries = append(dict.Entries, e)
	}
	return dict, nil
}

func (r *Repository) loadMapping(ctx context.Context) (questionnaire.Mapping, error) {
	var rows []mappingRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT variable, cambio_yo, involucrados, recursos FROM asset_mapping`); err != nil {
		return nil, apperrors.DatabaseError("failed to read mapping", err)
	}
	mapping := make(questionnaire.Mapping, len(rows))
	for _, row := range rows {
		mapping[row.Variable] = questionnaire.MappingEntry{
			Variable:     row.Variable,
			CambioYo:     row.CambioYo,
			Involucrados: row.Involucrados,
			Recursos:     row.Recursos,
		}
	}
	return mapping, nil
}

// Save replaces the stored bundle in one transaction
func (r *Repository) Save(ctx context.Context, bundle *assets.Bundle) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"asset_frames", "asset_dictionary", "asset_mapping"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return apperrors.DatabaseError("failed to clear "+table, err)
		}
	}

	stamp := r.now().UnixNano()

	frames := map[string]*dataset.Frame{
		assets.TableRecords:    bundle.Records,
		assets.TableImportance: bundle.Importance,
	}
	for target, f := range bundle.Valuable {
		frames[assets.ValuablePrefix+target] = f
	}
	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	sort.Strings(names)

	insertFrame := tx.Rebind(`INSERT INTO asset_frames (name, payload, row_count, updated_at) VALUES (?, ?, ?, ?)`)
	for _, name := range names {
		f := frames[name]
		if f == nil {
			f = dataset.NewFrame(nil, nil)
		}
		payload, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("failed to encode frame %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, insertFrame, name, string(payload), f.Len(), stamp); err != nil {
			return apperrors.DatabaseError("failed to store frame "+name, err)
		}
	}

	insertEntry := tx.Rebind(`INSERT INTO asset_dictionary (variable, position, payload, updated_at) VALUES (?, ?, ?, ?)`)
	for i, e := range bundle.Dictionary.Entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode dictionary entry %s: %w", e.Variable, err)
		}
		if _, err := tx.ExecContext(ctx, insertEntry, e.Variable, i, string(payload), stamp); err != nil {
			return apperrors.DatabaseError("failed to store dictionary entry "+e.Variable, err)
		}
	}

	insertMapping := tx.Rebind(`INSERT INTO asset_mapping (variable, cambio_yo, involucrados, recursos, updated_at) VALUES (?, ?, ?, ?, ?)`)
	for variable, m := range bundle.Mapping {
		if _, err := tx.ExecContext(ctx, insertMapping, variable, m.CambioYo, m.Involucrados, m.Recursos, stamp); err != nil {
			return apperrors.DatabaseError("failed to store mapping "+variable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.DatabaseError("failed to commit assets", err)
	}
	r.log.Info("stored %d frames, %d dictionary entries, %d mapping rows", len(names), len(bundle.Dictionary.Entries), len(bundle.Mapping))
	return nil
}
