package describe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainDataset "movilidad/domain/dataset"
)

func tierColumn(f *domainDataset.Frame) []string {
	out := make([]string, f.Len())
	for i := range out {
		out[i] = f.Cell(i, TierColumn)
	}
	return out
}

func TestAssignConfidenceTiersQuartiles(t *testing.T) {
	f := domainDataset.NewFrame([]string{"cluster", ProbaCountColumn}, [][]string{
		{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}, {"4", "5"}, {"5", "6"}, {"6", "7"}, {"7", "8"},
	})
	got := AssignConfidenceTiers(f)
	// edges 1, 2.75, 4.5, 6.25, 8
	assert.Equal(t, []string{"0", "0", "1", "1", "2", "2", "3", "3"}, tierColumn(got))
}

func TestAssignConfidenceTiersDuplicateEdges(t *testing.T) {
	f := domainDataset.NewFrame([]string{ProbaCountColumn}, [][]string{{"1"}, {"1"}, {"1"}, {"9"}, {""}})
	got := AssignConfidenceTiers(f)
	// quantiles 1, 1, 1, 3, 9 collapse to edges 1, 3, 9
	assert.Equal(t, []string{"0", "0", "0", "1", ""}, tierColumn(got))
}

func TestAssignConfidenceTiersConstant(t *testing.T) {
	f := domainDataset.NewFrame([]string{ProbaCountColumn}, [][]string{{"4"}, {"4"}})
	assert.Equal(t, []string{"0", "0"}, tierColumn(AssignConfidenceTiers(f)))
}

func TestAssignConfidenceTiersPassThrough(t *testing.T) {
	f := domainDataset.NewFrame([]string{"cluster"}, [][]string{{"1"}})
	assert.Same(t, f, AssignConfidenceTiers(f))
}

func TestFilterResults(t *testing.T) {
	f := domainDataset.NewFrame(
		[]string{"cluster", "cambio_yo_moderado", "cambio_yo_difícil", "cambio_yo_fácil", TierColumn},
		[][]string{
			{"0", "0", "0", "1", "2"},
			{"1", "0", "0", "0", "3"},
			{"2", "2", "0", "0", "0"},
			{"3", "0", "1", "0", "1"},
			{"4", "1", "0", "0", ""},
		},
	)
	got := FilterResults(f)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, "0", got.Cell(0, "cluster"))
	assert.Equal(t, "3", got.Cell(1, "cluster"))
}

func TestFilterResultsMissingColumns(t *testing.T) {
	f := domainDataset.NewFrame([]string{"cluster", TierColumn}, [][]string{{"0", "0"}})
	assert.Same(t, f, FilterResults(f))
}
