// Package dataset scopes the shared clustered-records table to one target.
package dataset

import (
	"strings"

	domainDataset "movilidad/domain/dataset"
)

// ForTarget renames every column prefixed with "<target>_" by stripping the
// prefix. Unprefixed columns pass through unchanged. A target with no
// prefixed columns yields an equivalent frame.
func ForTarget(wide *domainDataset.Frame, target string) *domainDataset.Frame {
	prefix := target + "_"
	renames := make(map[int]string)
	for i, col := range wide.Columns() {
		if strings.HasPrefix(col, prefix) {
			renames[i] = strings.TrimPrefix(col, prefix)
		}
	}
	if len(renames) == 0 {
		return wide
	}
	return wide.RenameColumns(renames)
}

// Targets lists the targets that have prefixed columns in wide, given the
// candidate ids. Used to check that a target id is usable before scoping.
func Targets(wide *domainDataset.Frame, candidates []string) []string {
	var out []string
	for _, t := range candidates {
		prefix := t + "_"
		for _, col := range wide.Columns() {
			if strings.HasPrefix(col, prefix) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
