package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movilidad/domain/cluster"
)

func vars(desc, cats string, extras ...string) []cluster.VariableDetail {
	return []cluster.VariableDetail{{Descripcion: desc, Categorias: cats, Extras: extras, ChangeLevel: cluster.ChangeUnknown}}
}

func summary(text string) cluster.Summary {
	return cluster.Summary{Incremento: cluster.Increment{Text: text, Color: "#000000"}, Probabilidad: "0.3", Confianza: "Alta", Obs: "10"}
}

func TestGroupMergesIdenticalSignatures(t *testing.T) {
	groups := Group([]cluster.Parsed{
		{ClusterID: "1", Summary: summary("+20%"), Variables: vars("Auto", "Sí")},
		{ClusterID: "2", Summary: summary("-5%"), Variables: vars("Auto", "Sí")},
	})

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Scenarios, 2)
	assert.Equal(t, "1", groups[0].Scenarios[0].Nombre)
	assert.Equal(t, "+20%", groups[0].Scenarios[0].Summary.Incremento.Text)
	assert.Equal(t, "2", groups[0].Scenarios[1].Nombre)
}

func TestGroupKeepsFirstOccurrenceOrder(t *testing.T) {
	groups := Group([]cluster.Parsed{
		{ClusterID: "5", Variables: vars("B", "x")},
		{ClusterID: "3", Variables: vars("A", "x")},
		{ClusterID: "9", Variables: vars("B", "x")},
		{ClusterID: "1", Variables: vars("A", "x", "Involucrados: yo")},
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "B", groups[0].Variables[0].Descripcion)
	assert.Len(t, groups[0].Scenarios, 2)
	assert.Equal(t, "A", groups[1].Variables[0].Descripcion)
	assert.Equal(t, []string{"Involucrados: yo"}, groups[2].Variables[0].Extras)
}

func TestSignatureDistinguishesFieldBoundaries(t *testing.T) {
	a := vars("ab", "c")
	b := vars("a", "bc")
	assert.NotEqual(t, Signature(a), Signature(b))
	assert.NotEqual(t, Signature(nil), Signature(vars("", "")))
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, Group(nil))
	assert.Equal(t, "Sin resultados.", RenderText(nil))
}

func TestRenderText(t *testing.T) {
	groups := Group([]cluster.Parsed{
		{ClusterID: "1", Summary: summary("+20%"), Variables: vars("Auto", "Sí", "¿Puedo cambiarlo yo?: difícil")},
	})
	want := "Grupo #1\n" +
		"- Auto -> Sí\n" +
		"    - ¿Puedo cambiarlo yo?: difícil\n" +
		"Escenarios:\n" +
		"  - Cluster 1: Incremento +20%, Probabilidad 0.3, Confianza Alta (10 obs)"
	assert.Equal(t, want, RenderText(groups))
}
