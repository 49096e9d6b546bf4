// Package featurepool picks the variables the questionnaire asks about for a
// target.
package featurepool

import (
	"math"
	"sort"
	"strings"

	domainDataset "movilidad/domain/dataset"
)

// TopN is how many ranked features are taken before exclusion.
const TopN = 7

// Excluded variables are never asked.
var Excluded = map[string]bool{"p133": true, "CIUO2": true, "p23": true}

// Baseline variables are always asked.
var Baseline = []string{"p05", "p86", "p33_f"}

// ImportanceColumn is the column holding a target's importance scores.
func ImportanceColumn(target string) string {
	return target + "_importance"
}

// Select returns the sorted question pool for target: the top features by
// importance with their "-" suffix removed, minus Excluded, plus Baseline.
// A table without the target's importance column yields the baseline only.
func Select(importance *domainDataset.Frame, target string) []string {
	pool := make(map[string]bool, TopN+len(Baseline))
	for _, b := range Baseline {
		pool[b] = true
	}

	for _, name := range ranked(importance, target) {
		if base := baseName(name); base != "" && !Excluded[base] {
			pool[base] = true
		}
	}

	out := make([]string, 0, len(pool))
	for v := range pool {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func ranked(importance *domainDataset.Frame, target string) []string {
	col := ImportanceColumn(target)
	if importance.Len() == 0 || !importance.HasColumn(col) {
		return nil
	}
	nameCol := "feature"
	if !importance.HasColumn(nameCol) {
		nameCol = importance.Columns()[0]
	}

	scores := importance.Floats(col)
	order := make([]int, importance.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if math.IsNaN(sb) {
			return !math.IsNaN(sa)
		}
		return sa > sb
	})

	if len(order) > TopN {
		order = order[:TopN]
	}
	names := make([]string, len(order))
	for i, row := range order {
		names[i] = importance.Cell(row, nameCol)
	}
	return names
}

func baseName(feature string) string {
	if i := strings.Index(feature, "-"); i >= 0 {
		feature = feature[:i]
	}
	return strings.TrimSpace(feature)
}
