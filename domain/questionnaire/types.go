package questionnaire

import (
	"encoding/json"

	"movilidad/domain/dataset"
)

// Kind distinguishes categorical questions from free numeric ones.
type Kind string

const (
	KindCategorical Kind = "opciones"
	KindNumeric     Kind = "numeric"
)

// DictionaryEntry is the metadata of one survey variable.
type DictionaryEntry struct {
	Variable    string    `json:"variable" yaml:"-"`
	Description string    `json:"descripcion" yaml:"descripcion"`
	Values      []float64 `json:"valores,omitempty" yaml:"valores,omitempty"`
	Labels      []string  `json:"etiquetas,omitempty" yaml:"etiquetas,omitempty"`
}

// Dictionary is the ordered data dictionary. Order is the order the
// variables appear in the source file.
type Dictionary struct {
	Entries []DictionaryEntry `json:"entries"`
}

// Lookup returns the entry for variable.
func (d Dictionary) Lookup(variable string) (DictionaryEntry, bool) {
	for _, e := range d.Entries {
		if e.Variable == variable {
			return e, true
		}
	}
	return DictionaryEntry{}, false
}

// Subset returns the entries named in variables, in the order of variables.
// Unknown names are skipped.
func (d Dictionary) Subset(variables []string) Dictionary {
	byName := make(map[string]DictionaryEntry, len(d.Entries))
	for _, e := range d.Entries {
		byName[e.Variable] = e
	}
	out := Dictionary{Entries: make([]DictionaryEntry, 0, len(variables))}
	for _, v := range variables {
		if e, ok := byName[v]; ok {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

// LabelFor returns the label attached to code, if any.
func (e DictionaryEntry) LabelFor(code float64) (string, bool) {
	if len(e.Values) != len(e.Labels) {
		return "", false
	}
	for i, v := range e.Values {
		if v == code {
			return e.Labels[i], true
		}
	}
	return "", false
}

// MappingEntry describes how actionable a variable is.
type MappingEntry struct {
	Variable     string `json:"variable" yaml:"-"`
	CambioYo     string `json:"cambio_yo" yaml:"cambio_yo"`
	Involucrados string `json:"involucrados" yaml:"involucrados"`
	Recursos     string `json:"recursos" yaml:"recursos"`
}

// Mapping indexes mapping entries by variable.
type Mapping map[string]MappingEntry

// Option is one selectable answer of a categorical question.
type Option struct {
	Code  float64 `json:"code"`
	Label string  `json:"label"`
}

// Display renders the option the way it is shown in selectors: "<code> - <label>".
func (o Option) Display() string {
	return dataset.FormatFloat(o.Code) + " - " + o.Label
}

// Question is one item of the questionnaire.
type Question struct {
	Variable    string   `json:"variable"`
	Description string   `json:"descripcion"`
	Kind        Kind     `json:"tipo"`
	Options     []Option `json:"opciones,omitempty"`
	Default     float64  `json:"default"`
}

// Answer is the user's response to one question.
type Answer struct {
	Variable    string  `json:"variable"`
	Description string  `json:"descripcion"`
	Code        float64 `json:"respuesta_codigo"`
	Text        string  `json:"respuesta_texto"`
}

// AnswerTable holds at most one answer per variable, in insertion order.
type AnswerTable struct {
	answers  []Answer
	position map[string]int
}

// NewAnswerTable builds a table from answers. A later answer for the same
// variable replaces the earlier one.
func NewAnswerTable(answers ...Answer) *AnswerTable {
	t := &AnswerTable{position: make(map[string]int)}
	for _, a := range answers {
		t.Put(a)
	}
	return t
}

// Put adds or replaces the answer for a.Variable.
func (t *AnswerTable) Put(a Answer) {
	if t.position == nil {
		t.position = make(map[string]int)
	}
	if i, ok := t.position[a.Variable]; ok {
		t.answers[i] = a
		return
	}
	t.position[a.Variable] = len(t.answers)
	t.answers = append(t.answers, a)
}

// Get returns the answer for variable.
func (t *AnswerTable) Get(variable string) (Answer, bool) {
	if t == nil {
		return Answer{}, false
	}
	i, ok := t.position[variable]
	if !ok {
		return Answer{}, false
	}
	return t.answers[i], true
}

// Answers returns a copy of the answers in order.
func (t *AnswerTable) Answers() []Answer {
	if t == nil {
		return nil
	}
	return append([]Answer(nil), t.answers...)
}

// Variables returns the answered variable names in order.
func (t *AnswerTable) Variables() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.answers))
	for i, a := range t.answers {
		out[i] = a.Variable
	}
	return out
}

// Len returns the number of answers.
func (t *AnswerTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.answers)
}

// MarshalJSON encodes the table as an array of answers.
func (t *AnswerTable) MarshalJSON() ([]byte, error) {
	answers := t.Answers()
	if answers == nil {
		answers = []Answer{}
	}
	return json.Marshal(answers)
}

// UnmarshalJSON decodes an array of answers.
func (t *AnswerTable) UnmarshalJSON(data []byte) error {
	var answers []Answer
	if err := json.Unmarshal(data, &answers); err != nil {
		return err
	}
	*t = *NewAnswerTable(answers...)
	return nil
}
