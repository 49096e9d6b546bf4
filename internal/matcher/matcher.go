// Package matcher finds the clusters whose records most resemble a partial
// answer vector.
package matcher

import (
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	domainDataset "movilidad/domain/dataset"
	"movilidad/domain/match"
	domainQuestionnaire "movilidad/domain/questionnaire"
	"movilidad/internal"
)

// DefaultK is the neighbor count used when callers pass k <= 0.
const DefaultK = 20

// Column names shared by the record and description tables.
const (
	ClusterColumn = "cluster"
	CountColumn   = "count"
)

// Matcher runs the nearest-neighbor cluster match. It holds no per-request
// state and is safe for concurrent use.
type Matcher struct {
	log *internal.Logger
}

// New creates a matcher. A nil logger uses internal.DefaultLogger.
func New(logger *internal.Logger) *Matcher {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Matcher{log: logger.With("Matcher")}
}

// Match embeds answers and the non-noise records into a common standardized
// space, retrieves the k nearest records, counts them per cluster and joins
// the counts onto descriptions in descending count order.
//
// It never fails: when no answered variable exists in the records, or no
// record is a candidate, the result carries a non-matched status and an
// empty frame with the description columns.
func (m *Matcher) Match(answers *domainQuestionnaire.AnswerTable, records, descriptions *domainDataset.Frame, k int) match.Result {
	candidates, clusters := candidatePool(records)
	variables := usableVariables(answers, records)

	if len(variables) == 0 {
		m.log.Debug("no answered variable present in %d record columns", records.Width())
		return emptyResult(match.StatusInsufficientInput, variables, descriptions)
	}
	if len(candidates) == 0 {
		m.log.Debug("candidate pool empty after noise exclusion")
		return emptyResult(match.StatusEmptyPool, variables, descriptions)
	}

	x, user, kept := design(answers, records, candidates, variables)
	if len(kept) == 0 {
		m.log.Debug("every usable variable is missing across the candidate pool")
		return emptyResult(match.StatusInsufficientInput, kept, descriptions)
	}
	standardize(x, user)

	if k <= 0 {
		k = DefaultK
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	neighbors := nearest(x, user, k)
	for i := range neighbors {
		pos := neighbors[i].Record
		neighbors[i].Record = candidates[pos]
		neighbors[i].Cluster = clusters[pos]
	}

	counts := countByCluster(neighbors)
	m.log.Debug("k=%d over %d candidates and %d variables hit %d clusters", k, len(candidates), len(kept), len(counts))

	return match.Result{
		Status:    match.StatusMatched,
		Variables: kept,
		K:         k,
		Clusters:  counts,
		Neighbors: neighbors,
		Frame:     join(descriptions, counts),
	}
}

// candidatePool returns the record positions with a usable, non-noise
// cluster label together with that label.
func candidatePool(records *domainDataset.Frame) ([]int, []int) {
	var rows, labels []int
	if !records.HasColumn(ClusterColumn) {
		return rows, labels
	}
	for i := 0; i < records.Len(); i++ {
		c, ok := ParseCluster(records.Cell(i, ClusterColumn))
		if !ok || c == match.NoiseCluster {
			continue
		}
		rows = append(rows, i)
		labels = append(labels, c)
	}
	return rows, labels
}

// ParseCluster reads an integral cluster label such as "3" or "3.0".
func ParseCluster(s string) (int, bool) {
	v := domainDataset.ParseFloat(s)
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

func usableVariables(answers *domainQuestionnaire.AnswerTable, records *domainDataset.Frame) []string {
	var out []string
	for _, v := range answers.Variables() {
		if v == ClusterColumn || !records.HasColumn(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// design builds the mean-imputed candidate matrix and user vector. Columns
// with no observed value in the pool are dropped from both.
func design(answers *domainQuestionnaire.AnswerTable, records *domainDataset.Frame, candidates []int, variables []string) (*mat.Dense, []float64, []string) {
	var kept []string
	var columns [][]float64
	var user []float64

	for _, v := range variables {
		col := make([]float64, len(candidates))
		observed := make([]float64, 0, len(candidates))
		for i, row := range candidates {
			col[i] = records.Float(row, v)
			if !math.IsNaN(col[i]) {
				observed = append(observed, col[i])
			}
		}
		mean, err := stats.Mean(observed)
		if err != nil {
			continue
		}
		for i := range col {
			if math.IsNaN(col[i]) {
				col[i] = mean
			}
		}
		a, _ := answers.Get(v)
		u := a.Code
		if math.IsNaN(u) {
			u = mean
		}
		kept = append(kept, v)
		columns = append(columns, col)
		user = append(user, u)
	}
	if len(kept) == 0 {
		return nil, nil, nil
	}

	x := mat.NewDense(len(candidates), len(kept), nil)
	for j, col := range columns {
		x.SetCol(j, col)
	}
	return x, user, kept
}

// standardize centers and scales each column of x in place using population
// statistics of x, and applies the same transform to user. Constant columns
// are only centered.
func standardize(x *mat.Dense, user []float64) {
	rows, cols := x.Dims()
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, _ := stats.Mean(col)
		sd, _ := stats.StandardDeviationPopulation(col)
		if sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		for i := range col {
			col[i] = (col[i] - mean) / sd
		}
		x.SetCol(j, col)
		user[j] = (user[j] - mean) / sd
	}
}

// nearest returns the k rows of x closest to user. Record holds the row
// position; equal distances keep row order.
func nearest(x *mat.Dense, user []float64, k int) []match.Neighbor {
	rows, _ := x.Dims()
	all := make([]match.Neighbor, rows)
	for i := 0; i < rows; i++ {
		all[i] = match.Neighbor{Record: i, Distance: floats.Distance(x.RawRowView(i), user, 2)}
	}
	sort.SliceStable(all, func(a, b int) bool {
		if all[a].Distance != all[b].Distance {
			return all[a].Distance < all[b].Distance
		}
		return all[a].Record < all[b].Record
	})
	return all[:k]
}

// countByCluster orders clusters by descending count, then by the rank of
// their nearest neighbor.
func countByCluster(neighbors []match.Neighbor) []match.ClusterCount {
	index := make(map[int]int)
	var counts []match.ClusterCount
	for _, n := range neighbors {
		i, ok := index[n.Cluster]
		if !ok {
			i = len(counts)
			index[n.Cluster] = i
			counts = append(counts, match.ClusterCount{Cluster: n.Cluster})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

// join keeps the description rows whose cluster was hit, appends their
// count and orders them by descending count. Rows with equal counts keep
// description order.
func join(descriptions *domainDataset.Frame, counts []match.ClusterCount) *domainDataset.Frame {
	if descriptions == nil {
		descriptions = domainDataset.NewFrame(nil, nil)
	}
	byCluster := make(map[int]int, len(counts))
	for _, c := range counts {
		byCluster[c.Cluster] = c.Count
	}

	type hit struct {
		row   int
		count int
	}
	var hits []hit
	for i := 0; i < descriptions.Len(); i++ {
		c, ok := ParseCluster(descriptions.Cell(i, ClusterColumn))
		if !ok {
			continue
		}
		if n, ok := byCluster[c]; ok {
			hits = append(hits, hit{row: i, count: n})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].count > hits[b].count })

	positions := make([]int, len(hits))
	values := make([]string, len(hits))
	for i, h := range hits {
		positions[i] = h.row
		values[i] = strconv.Itoa(h.count)
	}
	return descriptions.SelectRows(positions).WithColumn(CountColumn, values)
}

func emptyResult(status match.Status, variables []string, descriptions *domainDataset.Frame) match.Result {
	return match.Result{
		Status:    status,
		Variables: variables,
		Frame:     descriptions.Empty(),
	}
}
