package match

import "movilidad/domain/dataset"

// NoiseCluster labels records that the clustering left unassigned.
const NoiseCluster = -1

// Status tags the outcome of a match so callers handle the empty cases
// explicitly.
type Status string

const (
	StatusMatched           Status = "matched"
	StatusInsufficientInput Status = "insufficient_input"
	StatusEmptyPool         Status = "empty_pool"
)

// ClusterCount is how many of the nearest neighbors fell in a cluster.
type ClusterCount struct {
	Cluster int `json:"cluster"`
	Count   int `json:"count"`
}

// Neighbor is one retrieved record.
type Neighbor struct {
	Record   int     `json:"record"`
	Cluster  int     `json:"cluster"`
	Distance float64 `json:"distance"`
}

// Result is the ranked cluster table produced by the matcher.
type Result struct {
	Status    Status         `json:"status"`
	Variables []string       `json:"variables"`
	K         int            `json:"k"`
	Clusters  []ClusterCount `json:"clusters"`
	Neighbors []Neighbor     `json:"neighbors,omitempty"`
	Frame     *dataset.Frame `json:"frame"`
}

// Empty reports whether the result has no cluster rows.
func (r Result) Empty() bool {
	return r.Frame.Len() == 0
}
