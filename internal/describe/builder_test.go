package describe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movilidad/domain/cluster"
	domainDataset "movilidad/domain/dataset"
	domainQuestionnaire "movilidad/domain/questionnaire"
)

func builderFixtures() (*domainDataset.Frame, domainQuestionnaire.Dictionary, domainQuestionnaire.Mapping) {
	rows := domainDataset.NewFrame(
		[]string{"cluster", "incremento", "probabilidad", "variables", TierColumn, ObsColumn},
		[][]string{
			{"4.0", "1.35", "0.41", "p131:1..1;p86:6..12;missing", "2", "37"},
			{"7", "0.9", "0.10", "p131:2", "", ""},
		},
	)
	dict := domainQuestionnaire.Dictionary{Entries: []domainQuestionnaire.DictionaryEntry{
		{Variable: "p131", Description: "Automóvil propio", Values: []float64{1, 2}, Labels: []string{"Sí", "No"}},
		{Variable: "p86", Description: "Años de escolaridad"},
	}}
	mapping := domainQuestionnaire.Mapping{
		"p131": {Variable: "p131", CambioYo: "difícil", Involucrados: "familia", Recursos: "crédito"},
	}
	return rows, dict, mapping
}

func TestBuildRendersGrammar(t *testing.T) {
	rows, dict, mapping := builderFixtures()
	raws := NewTextBuilder().Build(rows, dict, mapping, cluster.BuildOptions{Language: "es", ShowProbability: true, ShowObservations: true})
	require.Len(t, raws, 2)

	assert.Equal(t, "4", raws[0].ClusterID)
	want := `Cluster 4:
- Incremento de probabilidad: 1.35
- Probabilidad: 0.41
- Nivel de confianza: 2 (37 obs)
- Variables y rangos:
  - Variable: p131
    - Descripción: Automóvil propio
    - Categorías en rango: 1=Sí
    - ¿Puedo cambiarlo yo?: difícil
    - Involucrados: familia
    - Recursos: crédito
  - Variable: p86
    - Descripción: Años de escolaridad
    - Categorías en rango: rango=6 a 12
    - ¿Puedo cambiarlo yo?: no_aplica
    - Involucrados: no_aplica
    - Recursos: no_aplica`
	assert.Equal(t, want, raws[0].Text)
}

func TestBuildThenParse(t *testing.T) {
	rows, dict, mapping := builderFixtures()
	raws := NewTextBuilder().Build(rows, dict, mapping, cluster.BuildOptions{ShowProbability: true, ShowObservations: true})
	parsed := ParseAll(raws)

	require.Len(t, parsed, 2)
	first := parsed[0]
	assert.Equal(t, "+35%", first.Summary.Incremento.Text)
	assert.Equal(t, "Alta", first.Summary.Confianza)
	assert.Equal(t, "37", first.Summary.Obs)
	require.Len(t, first.Variables, 2)
	assert.Equal(t, "Sí", first.Variables[0].Categorias)
	assert.Equal(t, cluster.ChangeHard, first.Variables[0].ChangeLevel)
	assert.Equal(t, "6 a 12", first.Variables[1].Categorias)
	assert.Equal(t, []string{"Involucrados: no_aplica"}, first.Variables[1].Extras)

	assert.Equal(t, "No", parsed[1].Variables[0].Categorias)
	assert.Equal(t, "", parsed[1].Summary.Confianza)
}

func TestBuildOmitsOptionalLines(t *testing.T) {
	rows := domainDataset.NewFrame([]string{"cluster", "incremento", "probabilidad", "variables"}, [][]string{{"1", "1", "0.5", ""}})
	raws := NewTextBuilder().Build(rows, domainQuestionnaire.Dictionary{}, nil, cluster.BuildOptions{})
	require.Len(t, raws, 1)
	assert.NotContains(t, raws[0].Text, "Probabilidad:")
	assert.NotContains(t, raws[0].Text, "Nivel de confianza")
}

func TestCategoriesUsePipeWhenLabelsHaveCommas(t *testing.T) {
	entry := domainQuestionnaire.DictionaryEntry{Values: []float64{1, 2}, Labels: []string{"Sí, propio", "No"}}
	got := categoriesInRange(entry, Range{Variable: "x", Lo: 1, Hi: 2})
	assert.Equal(t, "1=Sí, propio | 2=No", got)
	assert.Equal(t, "Sí, propio | No", ParseCategories(got))
}

func TestParseRanges(t *testing.T) {
	got := ParseRanges("a:1..3; b:5 ;c:x..2;:1;d:9..4")
	assert.Equal(t, []Range{
		{Variable: "a", Lo: 1, Hi: 3},
		{Variable: "b", Lo: 5, Hi: 5},
		{Variable: "d", Lo: 4, Hi: 9},
	}, got)
}
