package target

import "sort"

// Target is a mobility outcome the precomputed tables are conditioned on.
type Target struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var labels = map[string]string{
	"OBJ_pobre_a_rico":             "De Pobre a Rico",
	"OBJ_rico_a_pobre":             "De Rico a Pobre",
	"OBJ_siguie_siendo_rico":       "Permanece Rico",
	"OBJ_siguie_siendo_pobre":      "Permanece Pobre",
	"OBJ_sigue_siendo_clase_media": "Permanece Clase Media",
	"OBJ_clase_media_a_rico":       "De Clase Media a Rico",
	"OBJ_clase_media_a_pobre":      "De Clase Media a Pobre",
	"OBJ_subieron":                 "Ascendieron",
	"OBJ_bajaron":                  "Descendieron",
}

// Label returns the display name of a target, or the id itself when the
// target has no registered label.
func Label(id string) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return id
}

// List returns targets for the given ids, sorted by id.
func List(ids []string) []Target {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make([]Target, len(sorted))
	for i, id := range sorted {
		out[i] = Target{ID: id, Label: Label(id)}
	}
	return out
}
