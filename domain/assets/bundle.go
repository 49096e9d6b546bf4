package assets

import (
	"sort"

	"movilidad/domain/dataset"
	"movilidad/domain/questionnaire"
)

// Names of the tables in a bundle, used in errors and storage keys.
const (
	TableRecords    = "records"
	TableImportance = "importance"
	ValuablePrefix  = "valuable:"
)

// Bundle is the immutable set of precomputed inputs the pipeline reads.
type Bundle struct {
	Version    string
	Dictionary questionnaire.Dictionary
	Mapping    questionnaire.Mapping
	Importance *dataset.Frame
	Records    *dataset.Frame
	// Valuable holds the cluster description table of each target.
	Valuable map[string]*dataset.Frame
}

// Targets returns the targets that have a description table, sorted.
func (b *Bundle) Targets() []string {
	out := make([]string, 0, len(b.Valuable))
	for t := range b.Valuable {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasTarget reports whether target has a description table.
func (b *Bundle) HasTarget(target string) bool {
	_, ok := b.Valuable[target]
	return ok
}
