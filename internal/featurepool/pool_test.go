package featurepool

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	domainDataset "movilidad/domain/dataset"
)

func importanceFrame(rows [][]string) *domainDataset.Frame {
	return domainDataset.NewFrame([]string{"feature", "OBJ_subieron_importance", "OBJ_bajaron_importance"}, rows)
}

func TestSelectTopFeatures(t *testing.T) {
	f := importanceFrame([][]string{
		{"p10-a", "0.9", "0"},
		{"p133", "0.8", "0"},
		{"p11", "0.7", "0"},
		{"p12-x-y", "0.6", "0"},
		{"p13", "0.5", "0"},
		{"p14", "0.4", "0"},
		{"p05-b", "0.3", "0"},
		{"p15", "0.2", "0"},
		{"p16", "nan", "0"},
	})

	got := Select(f, "OBJ_subieron")
	assert.Equal(t, []string{"p05", "p10", "p11", "p12", "p13", "p14", "p33_f", "p86"}, got)
}

func TestSelectNaNRankedLast(t *testing.T) {
	f := importanceFrame([][]string{
		{"p20", "", "0"},
		{"p21", "0.1", "0"},
	})
	got := Select(f, "OBJ_subieron")
	assert.Contains(t, got, "p21")
	assert.Contains(t, got, "p20")
}

func TestSelectMissingColumnReturnsBaseline(t *testing.T) {
	f := importanceFrame([][]string{{"p10", "1", "1"}})
	assert.Equal(t, []string{"p05", "p33_f", "p86"}, Select(f, "OBJ_nope"))
	assert.Equal(t, []string{"p05", "p33_f", "p86"}, Select(nil, "OBJ_subieron"))
}

func TestSelectFirstColumnWhenNoFeatureColumn(t *testing.T) {
	f := domainDataset.NewFrame([]string{"name", "T_importance"}, [][]string{{"p40", "1"}})
	assert.Contains(t, Select(f, "T"), "p40")
}

func TestSelectBoundAndComposition(t *testing.T) {
	var rows [][]string
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("v%02d", i)
		switch i % 10 {
		case 0:
			name = "CIUO2-" + name
		case 1:
			name = "p23"
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", 40-i), "0"})
	}
	got := Select(importanceFrame(rows), "OBJ_subieron")

	assert.LessOrEqual(t, len(got), TopN+len(Baseline))
	assert.Subset(t, got, Baseline)
	for _, v := range got {
		assert.False(t, Excluded[v], v)
	}
	assert.IsNonDecreasing(t, got)
}
