// Package testkit generates deterministic synthetic survey assets for tests
// and for the synthetic asset source.
package testkit

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"movilidad/adapters/model"
	"movilidad/domain/assets"
	"movilidad/domain/dataset"
	"movilidad/domain/questionnaire"
	"movilidad/internal/classify"
)

// HouseholdGeneratorConfig configures the household data generator
type HouseholdGeneratorConfig struct {
	Households int      `json:"households"`
	Clusters   int      `json:"clusters"`
	Targets    []string `json:"targets"`
	NoiseRate  float64  `json:"noise_rate"`
	Seed       int64    `json:"seed"`
}

// DefaultHouseholdConfig returns sensible defaults for household generation
func DefaultHouseholdConfig() HouseholdGeneratorConfig {
	return HouseholdGeneratorConfig{
		Households: 400,
		Clusters:   6,
		Targets:    []string{"OBJ_pobre_a_rico", "OBJ_rico_a_pobre", "OBJ_subieron"},
		NoiseRate:  0.05,
		Seed:       42,
	}
}

type surveyVariable struct {
	name        string
	description string
	codes       []float64
	labels      []string
	min, max    int // numeric variables
	cambioYo    string
	involved    string
	resources   string
}

func (v surveyVariable) categorical() bool {
	return len(v.codes) > 0
}

var surveyVariables = []surveyVariable{
	{name: "p05", description: "Sexo de la persona entrevistada", codes: []float64{1, 2}, labels: []string{"Hombre", "Mujer"},
		cambioYo: "imposible", involved: "Persona", resources: "Ninguno"},
	{name: "p86", description: "Edad de la persona entrevistada", min: 25, max: 64,
		cambioYo: "imposible", involved: "Persona", resources: "Ninguno"},
	{name: "p33_f", description: "Escolaridad del padre", codes: []float64{1, 2, 3, 4, 5},
		labels: []string{"Sin estudios", "Primaria", "Secundaria", "Preparatoria", "Universidad"},
		cambioYo: "no_aplica", involved: "Familia", resources: "Ninguno"},
	{name: "p10", description: "Tamaño de la localidad a los 14 años", codes: []float64{1, 2, 3},
		labels: []string{"Rural", "Semiurbana", "Urbana"},
		cambioYo: "difícil", involved: "Familia", resources: "Mudanza"},
	{name: "p12", description: "Personas en el hogar a los 14 años", min: 2, max: 10,
		cambioYo: "moderado", involved: "Familia", resources: "Planeación familiar"},
	{name: "p20", description: "Ocupación del jefe del hogar", codes: []float64{1, 2, 3, 4},
		labels: []string{"Agricultor", "Obrero", "Comerciante, por cuenta propia", "Profesionista"},
		cambioYo: "difícil", involved: "Jefe del hogar", resources: "Capacitación"},
	{name: "p31", description: "Vivienda propia", codes: []float64{0, 1}, labels: []string{"No", "Sí"},
		cambioYo: "difícil", involved: "Hogar", resources: "Crédito hipotecario"},
	{name: "p40", description: "Región de residencia", codes: []float64{1, 2, 3, 4},
		labels: []string{"Norte", "Centro", "Centro-Occidente", "Sur"},
		cambioYo: "moderado", involved: "Hogar", resources: "Mudanza"},
	{name: "p60", description: "Acceso a internet en el hogar", codes: []float64{0, 1}, labels: []string{"No", "Sí"},
		cambioYo: "fácil", involved: "Hogar", resources: "Contrato de servicio"},
	{name: "p133", description: "Ingreso mensual del hogar", min: 2000, max: 60000,
		cambioYo: "moderado", involved: "Hogar", resources: "Empleo"},
}

// HouseholdGenerator builds every precomputed asset from one seeded source
type HouseholdGenerator struct {
	config HouseholdGeneratorConfig
	rng    *rand.Rand
}

// NewHouseholdGenerator creates a new household data generator
func NewHouseholdGenerator(config HouseholdGeneratorConfig) *HouseholdGenerator {
	if config.Clusters <= 0 {
		config.Clusters = 1
	}
	return &HouseholdGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Bundle generates a complete asset bundle
func (g *HouseholdGenerator) Bundle() *assets.Bundle {
	records, sizes := g.records()
	valuable := make(map[string]*dataset.Frame, len(g.config.Targets))
	for ti, t := range g.config.Targets {
		valuable[t] = g.valuable(ti, sizes[ti])
	}
	return &assets.Bundle{
		Version:    g.Version(),
		Dictionary: Dictionary(),
		Mapping:    Mapping(),
		Importance: g.importance(),
		Records:    records,
		Valuable:   valuable,
	}
}

// Version identifies the generated content
func (g *HouseholdGenerator) Version() string {
	return fmt.Sprintf("synthetic:%d:%d:%d:%d", g.config.Seed, g.config.Households, g.config.Clusters, len(g.config.Targets))
}

// Dictionary returns the data dictionary of the synthetic survey
func Dictionary() questionnaire.Dictionary {
	dict := questionnaire.Dictionary{Entries: make([]questionnaire.DictionaryEntry, 0, len(surveyVariables))}
	for _, v := range surveyVariables {
		dict.Entries = append(dict.Entries, questionnaire.DictionaryEntry{
			Variable:    v.name,
			Description: v.description,
			Values:      append([]float64(nil), v.codes...),
			Labels:      append([]string(nil), v.labels...),
		})
	}
	return dict
}

// Mapping returns the actionability mapping of the synthetic survey
func Mapping() questionnaire.Mapping {
	m := make(questionnaire.Mapping, len(surveyVariables))
	for _, v := range surveyVariables {
		m[v.name] = questionnaire.MappingEntry{Variable: v.name, CambioYo: v.cambioYo, Involucrados: v.involved, Recursos: v.resources}
	}
	return m
}

func (g *HouseholdGenerator) draw(v surveyVariable) float64 {
	if v.categorical() {
		return v.codes[g.rng.Intn(len(v.codes))]
	}
	return float64(v.min + g.rng.Intn(v.max-v.min+1))
}

// records returns the wide table and, per target, the size of each cluster
func (g *HouseholdGenerator) records() (*dataset.Frame, [][]int) {
	cols := make([]string, 0, len(surveyVariables)+len(g.config.Targets))
	for _, v := range surveyVariables {
		cols = append(cols, v.name)
	}
	for _, t := range g.config.Targets {
		cols = append(cols, t+"_cluster")
	}

	sizes := make([][]int, len(g.config.Targets))
	for i := range sizes {
		sizes[i] = make([]int, g.config.Clusters)
	}

	rows := make([][]string, g.config.Households)
	for h := range rows {
		row := make([]string, 0, len(cols))
		values := make(map[string]float64, len(surveyVariables))
		for _, v := range surveyVariables {
			x := g.draw(v)
			values[v.name] = x
			// a few missing cells exercise mean imputation
			if !v.categorical() && g.rng.Float64() < 0.02 {
				row = append(row, "")
				continue
			}
			row = append(row, dataset.FormatFloat(x))
		}

		for ti := range g.config.Targets {
			c := g.assignCluster(values, ti)
			if c >= 0 {
				sizes[ti][c]++
			}
			row = append(row, strconv.Itoa(c))
		}
		rows[h] = row
	}
	return dataset.NewFrame(cols, rows), sizes
}

// assignCluster places similar households together, with some noise
func (g *HouseholdGenerator) assignCluster(values map[string]float64, target int) int {
	if g.rng.Float64() < g.config.NoiseRate {
		return -1
	}
	score := int(values["p33_f"]) + int(values["p10"]) + 2*int(values["p31"]) + int(values["p60"]) + target
	return score % g.config.Clusters
}

func (g *HouseholdGenerator) importance() *dataset.Frame {
	cols := []string{"feature"}
	for _, t := range g.config.Targets {
		cols = append(cols, t+"_importance")
	}

	var rows [][]string
	for _, v := range surveyVariables {
		names := []string{v.name}
		if len(v.codes) > 2 {
			// one-hot encoded features carry the code as suffix
			names = names[:0]
			for _, c := range v.codes {
				names = append(names, v.name+"-"+dataset.FormatFloat(c))
			}
		}
		for _, n := range names {
			row := []string{n}
			for range g.config.Targets {
				row = append(row, strconv.FormatFloat(g.rng.Float64()*0.2, 'f', 4, 64))
			}
			rows = append(rows, row)
		}
	}
	return dataset.NewFrame(cols, rows)
}

func (g *HouseholdGenerator) valuable(target int, sizes []int) *dataset.Frame {
	cols := []string{"cluster", "incremento", "probabilidad", "cluster_N", "cluster_N_Proba", "variables",
		"cambio_yo_moderado", "cambio_yo_difícil", "cambio_yo_fácil"}

	rows := make([][]string, 0, g.config.Clusters)
	for c := 0; c < g.config.Clusters; c++ {
		increment := 0.6 + g.rng.Float64()*0.9
		probability := 0.05 + g.rng.Float64()*0.5

		picked := g.pickVariables(2 + g.rng.Intn(2))
		changes := map[string]int{}
		ranges := ""
		for i, v := range picked {
			if i > 0 {
				ranges += ";"
			}
			ranges += v.name + ":" + g.rangeFor(v)
			changes[v.cambioYo]++
		}

		rows = append(rows, []string{
			strconv.Itoa(c),
			strconv.FormatFloat(increment, 'f', 3, 64),
			strconv.FormatFloat(probability, 'f', 3, 64),
			strconv.Itoa(sizes[c]),
			strconv.FormatFloat(float64(sizes[c])*probability, 'f', 2, 64),
			ranges,
			strconv.Itoa(changes["moderado"]),
			strconv.Itoa(changes["difícil"]),
			strconv.Itoa(changes["fácil"]),
		})
	}
	return dataset.NewFrame(cols, rows)
}

func (g *HouseholdGenerator) pickVariables(n int) []surveyVariable {
	idx := g.rng.Perm(len(surveyVariables))[:n]
	sort.Ints(idx)
	out := make([]surveyVariable, n)
	for i, j := range idx {
		out[i] = surveyVariables[j]
	}
	return out
}

func (g *HouseholdGenerator) rangeFor(v surveyVariable) string {
	if v.categorical() {
		lo := g.rng.Intn(len(v.codes))
		hi := lo + g.rng.Intn(len(v.codes)-lo)
		if lo == hi {
			return dataset.FormatFloat(v.codes[lo])
		}
		return dataset.FormatFloat(v.codes[lo]) + ".." + dataset.FormatFloat(v.codes[hi])
	}
	span := v.max - v.min
	lo := v.min + g.rng.Intn(span/2+1)
	hi := lo + g.rng.Intn(v.max-lo+1)
	return strconv.Itoa(lo) + ".." + strconv.Itoa(hi)
}

// ClassModel generates a five-class model over the asset checklist
func (g *HouseholdGenerator) ClassModel() *model.Logistic {
	checklist := classify.Checklist()
	spec := model.LogisticSpec{Classes: []int{1, 2, 3, 4, 5}}
	for _, f := range checklist {
		spec.Features = append(spec.Features, f.Variable)
	}
	for c := range spec.Classes {
		row := make([]float64, len(checklist))
		for j := range row {
			// richer classes weigh owned assets more
			row[j] = float64(c-2)*0.6 + g.rng.NormFloat64()*0.2
		}
		spec.Coefficients = append(spec.Coefficients, row)
		spec.Intercepts = append(spec.Intercepts, float64(2-c)*0.5)
	}
	m, err := model.NewLogistic(spec)
	if err != nil {
		panic(err)
	}
	return m
}
