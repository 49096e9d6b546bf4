package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movilidad/domain/questionnaire"
)

const dictionaryYAML = `
p86:
  descripcion: Años de escolaridad
p05:
  Descripción: Sexo
  Valores: [1, 2]
  Etiquetas: [Hombre, Mujer]
p33_f:
  descripcion: Región
  valores: ["1", "dos"]
  etiquetas: [Norte, Sur]
p99: sin metadatos
`

func TestDecodeDictionaryKeepsOrder(t *testing.T) {
	dict, err := DecodeDictionary([]byte(dictionaryYAML))
	require.NoError(t, err)
	require.Len(t, dict.Entries, 4)

	assert.Equal(t, "p86", dict.Entries[0].Variable)
	assert.Equal(t, "Años de escolaridad", dict.Entries[0].Description)
	assert.Empty(t, dict.Entries[0].Values)

	assert.Equal(t, questionnaire.DictionaryEntry{
		Variable:    "p05",
		Description: "Sexo",
		Values:      []float64{1, 2},
		Labels:      []string{"Hombre", "Mujer"},
	}, dict.Entries[1])

	// a non-numeric value drops the options
	assert.Nil(t, dict.Entries[2].Values)
	assert.Equal(t, "p99", dict.Entries[3].Variable)
}

func TestDecodeDictionaryRejectsList(t *testing.T) {
	_, err := DecodeDictionary([]byte("- a\n- b\n"))
	assert.Error(t, err)
}

func TestDictionaryEncodeDecode(t *testing.T) {
	in := questionnaire.Dictionary{Entries: []questionnaire.DictionaryEntry{
		{Variable: "z", Description: "Última"},
		{Variable: "a", Description: "Primera", Values: []float64{0, 1.5}, Labels: []string{"No", "Sí"}},
	}}
	data, err := EncodeDictionary(in)
	require.NoError(t, err)

	out, err := DecodeDictionary(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeMapping(t *testing.T) {
	m, err := DecodeMapping([]byte("p131:\n  cambio_yo: difícil\n  involucrados: familia\n  recursos: crédito\n"))
	require.NoError(t, err)
	assert.Equal(t, questionnaire.MappingEntry{Variable: "p131", CambioYo: "difícil", Involucrados: "familia", Recursos: "crédito"}, m["p131"])
}
