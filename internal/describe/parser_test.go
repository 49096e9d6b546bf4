package describe

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movilidad/domain/cluster"
)

const wellFormed = `Cluster 3:
- Incremento de probabilidad: 1.20
- Probabilidad: 0.33
- Nivel de confianza: 1 (15 obs)
- Variables y rangos:
  - Variable: x
    - Descripción: Foo
    - Categorías en rango: 1=A, 2=B`

func TestParseWellFormed(t *testing.T) {
	p := Parse(wellFormed)

	assert.Equal(t, "+20%", p.Summary.Incremento.Text)
	assert.Equal(t, Color(0.2), p.Summary.Incremento.Color)
	assert.Equal(t, "0.33", p.Summary.Probabilidad)
	assert.Equal(t, "Media", p.Summary.Confianza)
	assert.Equal(t, "15", p.Summary.Obs)
	require.Len(t, p.Variables, 1)
	assert.Equal(t, "Foo", p.Variables[0].Descripcion)
	assert.Equal(t, "A, B", p.Variables[0].Categorias)
	assert.Equal(t, cluster.ChangeUnknown, p.Variables[0].ChangeLevel)
}

func TestParseVariableBlocks(t *testing.T) {
	raw := `- Incremento de probabilidad: 0.7
- Nivel de confianza: 3
- Variables y rangos:
  - Variable: p131
    - Descripción: Automóvil propio
    - Categorías en rango: 1=Sí | 2=No | 3
    - ¿Puedo cambiarlo yo?: Difícil
    - Involucrados: familia
    - Recursos: no_aplica
  - Variable: p05
    - Descripción: Sexo
  - Variable: p86
    - Categorías en rango: rango=0 a 6
  - Variable: p33_f
    - Descripción: Región
    - Categorías en rango: 1=Norte
    - ¿Puedo cambiarlo yo?: NO_APLICA
    - Involucrados: no_aplica
    - Recursos: ahorro`

	p := Parse(raw)
	assert.Equal(t, "-30%", p.Summary.Incremento.Text)
	assert.Equal(t, "Muy Alta", p.Summary.Confianza)
	assert.Equal(t, "", p.Summary.Obs)

	want := []cluster.VariableDetail{
		{
			Descripcion:  "Automóvil propio",
			Categorias:   "Sí | No",
			ChangeLevel:  cluster.ChangeHard,
			Involucrados: "familia",
			Recursos:     "no_aplica",
			Extras:       []string{"¿Puedo cambiarlo yo?: Difícil", "Involucrados: familia"},
		},
		{
			Descripcion:  "Región",
			Categorias:   "Norte",
			ChangeLevel:  cluster.ChangeNotApplied,
			Involucrados: "no_aplica",
			Recursos:     "ahorro",
			Extras:       []string{"Involucrados: no_aplica", "Recursos: ahorro"},
		},
	}
	if diff := cmp.Diff(want, p.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIncrementFallback(t *testing.T) {
	p := Parse("- Incremento de probabilidad: alto\n- Variables y rangos:")
	assert.Equal(t, "- Incremento de probabilidad: alto", p.Summary.Incremento.Text)
	assert.Equal(t, NeutralColor, p.Summary.Incremento.Color)
	assert.Empty(t, p.Variables)

	for _, v := range []string{"nan", "NaN", "-nan"} {
		line := "- Incremento de probabilidad: " + v
		p = Parse(line + "\n- Variables y rangos:")
		assert.Equal(t, line, p.Summary.Incremento.Text, v)
		assert.Equal(t, NeutralColor, p.Summary.Incremento.Color, v)
	}
}

func TestParseVariableLinesBeforeSectionAreIgnored(t *testing.T) {
	p := Parse("- Variable: x\n- Descripción: Foo\n- Categorías en rango: 1=A")
	assert.Empty(t, p.Variables)
}

func TestParseCategories(t *testing.T) {
	assert.Equal(t, "A, B", ParseCategories("1=A, 2=B"))
	assert.Equal(t, "A, B | C", ParseCategories("1=A, B | 2=C"))
	assert.Equal(t, "", ParseCategories("sin rango"))
	assert.Equal(t, "0 a 6", ParseCategories("rango=0 a 6"))
	assert.Equal(t, "x=y", ParseCategories("1=x=y"))
}

func TestNormalizeChangeLevel(t *testing.T) {
	tests := map[string]cluster.ChangeLevel{
		"fácil":     cluster.ChangeEasy,
		"FACIL":     cluster.ChangeEasy,
		"Moderado":  cluster.ChangeMedium,
		"medio":     cluster.ChangeMedium,
		"DIFÍCIL":   cluster.ChangeHard,
		"imposible": cluster.ChangeImpossible,
		"No aplica": cluster.ChangeNotApplied,
		"":          cluster.ChangeUnknown,
		"quizás":    cluster.ChangeUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeChangeLevel(in), in)
	}
}

func TestParseAllKeepsOrderAndIDs(t *testing.T) {
	got := ParseAll([]cluster.RawDescription{{ClusterID: "9", Text: wellFormed}, {ClusterID: "2", Text: ""}})
	require.Len(t, got, 2)
	assert.Equal(t, "9", got[0].ClusterID)
	assert.Equal(t, "2", got[1].ClusterID)
	assert.Empty(t, got[1].Variables)
}
