package describe

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"

	domainDataset "movilidad/domain/dataset"
)

// Columns read or written by the tiering and filtering steps.
const (
	ProbaCountColumn = "cluster_N_Proba"
	TierColumn       = "nivel_de_confianza_cluster"
)

// ChangeColumns must all be present for FilterResults to apply.
var ChangeColumns = []string{"cambio_yo_moderado", "cambio_yo_difícil", "cambio_yo_fácil"}

const tierBins = 4

// AssignConfidenceTiers adds TierColumn holding the quartile bin (0..3) of
// each row's cluster_N_Proba. Duplicate bin edges collapse, so fewer bins
// may be produced; a constant column puts every row in tier 0. Frames
// without the column, or without rows, are returned unchanged.
func AssignConfidenceTiers(f *domainDataset.Frame) *domainDataset.Frame {
	if f.Len() == 0 || !f.HasColumn(ProbaCountColumn) {
		return f
	}
	values := f.Floats(ProbaCountColumn)
	edges := binEdges(values, tierBins)

	tiers := make([]string, len(values))
	for i, v := range values {
		if b, ok := binOf(v, edges); ok {
			tiers[i] = strconv.Itoa(b)
		}
	}
	return f.WithColumn(TierColumn, tiers)
}

// binEdges returns the unique quantile edges of the finite values.
func binEdges(values []float64, q int) []float64 {
	var finite []float64
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return nil
	}
	sort.Float64s(finite)

	edges := make([]float64, 0, q+1)
	edges = append(edges, floats.Min(finite))
	for i := 1; i < q; i++ {
		e := quantile(float64(i)/float64(q), finite)
		if e != edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}
	if max := floats.Max(finite); max != edges[len(edges)-1] {
		edges = append(edges, max)
	}
	return edges
}

// quantile interpolates linearly between closest ranks at position
// p*(n-1) of sorted data.
func quantile(p float64, sorted []float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// binOf finds the interval holding v. The first interval is closed on both
// sides; later ones are (lo, hi].
func binOf(v float64, edges []float64) (int, bool) {
	if math.IsNaN(v) || len(edges) == 0 {
		return 0, false
	}
	if len(edges) == 1 {
		return 0, v == edges[0]
	}
	if v < edges[0] || v > edges[len(edges)-1] {
		return 0, false
	}
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] {
			return i - 1, true
		}
	}
	return len(edges) - 2, true
}

// FilterResults keeps rows with some self-changeable variable and a tier
// above zero. Frames missing any of the required columns pass through.
func FilterResults(f *domainDataset.Frame) *domainDataset.Frame {
	for _, col := range append(append([]string(nil), ChangeColumns...), TierColumn) {
		if !f.HasColumn(col) {
			return f
		}
	}
	return f.Filter(func(i int) bool {
		changeable := false
		for _, col := range ChangeColumns {
			if f.Float(i, col) > 0 {
				changeable = true
				break
			}
		}
		return changeable && f.Float(i, TierColumn) > 0
	})
}
