package cluster

// ChangeLevel is how easily the user can change a variable on their own.
type ChangeLevel string

const (
	ChangeEasy       ChangeLevel = "fácil"
	ChangeMedium     ChangeLevel = "medio"
	ChangeHard       ChangeLevel = "difícil"
	ChangeImpossible ChangeLevel = "imposible"
	ChangeNotApplied ChangeLevel = "no_aplica"
	ChangeUnknown    ChangeLevel = "unknown"
)

// Actionable reports whether recommendations may target the variable.
func (c ChangeLevel) Actionable() bool {
	switch c {
	case ChangeEasy, ChangeMedium, ChangeHard:
		return true
	}
	return false
}

// Increment is the relative probability change of a cluster against the
// population mean, formatted for display.
type Increment struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Summary holds the outcome statistics of a cluster.
type Summary struct {
	Incremento   Increment `json:"incremento"`
	Probabilidad string    `json:"probabilidad"`
	Confianza    string    `json:"confianza"`
	Obs          string    `json:"obs"`
}

// VariableDetail is one key variable of a cluster profile.
type VariableDetail struct {
	Descripcion  string      `json:"descripcion"`
	Categorias   string      `json:"categorias"`
	ChangeLevel  ChangeLevel `json:"change_level"`
	Involucrados string      `json:"involucrados"`
	Recursos     string      `json:"recursos"`
	Extras       []string    `json:"extras"`
}

// RawDescription is the unparsed text produced for one cluster.
type RawDescription struct {
	ClusterID string `json:"cluster"`
	Text      string `json:"text"`
}

// Parsed is the structured form of a cluster description.
type Parsed struct {
	ClusterID string           `json:"cluster"`
	Summary   Summary          `json:"summary"`
	Variables []VariableDetail `json:"variables"`
}

// Scenario is one outcome attached to a variable group.
type Scenario struct {
	Nombre  string  `json:"nombre"`
	Summary Summary `json:"summary"`
}

// VariableGroup is the presentation unit: one variable signature and every
// cluster outcome that shares it.
type VariableGroup struct {
	Variables []VariableDetail `json:"variables"`
	Scenarios []Scenario       `json:"scenarios"`
}

// BuildOptions toggles optional summary lines of generated descriptions.
type BuildOptions struct {
	Language         string `json:"language"`
	ShowProbability  bool   `json:"show_probability"`
	ShowObservations bool   `json:"show_observations"`
}
