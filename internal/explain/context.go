// Package explain serializes a pipeline run into a deterministic context
// text and turns it into a natural-language explanation.
package explain

import (
	"encoding/json"
	"fmt"
	"strings"

	"movilidad/domain/cluster"
	domainQuestionnaire "movilidad/domain/questionnaire"
)

const unavailable = "no disponible"

// Filter is an active filter shown to the user.
type Filter struct {
	Variable string   `json:"variable"`
	Values   []string `json:"values"`
}

// QuestionnaireRow is one answered question.
type QuestionnaireRow struct {
	Variable       string `json:"variable"`
	Descripcion    string `json:"descripcion"`
	RespuestaTexto string `json:"respuesta_texto"`
}

// Context is everything the explanation may refer to.
type Context struct {
	Target        string                  `json:"target"`
	TargetLabel   string                  `json:"target_label"`
	ActiveFilters []Filter                `json:"active_filters"`
	Questionnaire []QuestionnaireRow      `json:"questionnaire"`
	Results       []cluster.VariableGroup `json:"results"`
}

// RowsFromAnswers converts an answer table into questionnaire rows.
func RowsFromAnswers(answers *domainQuestionnaire.AnswerTable) []QuestionnaireRow {
	var rows []QuestionnaireRow
	for _, a := range answers.Answers() {
		rows = append(rows, QuestionnaireRow{Variable: a.Variable, Descripcion: a.Description, RespuestaTexto: a.Text})
	}
	return rows
}

// ContextText renders c with the fixed section order TARGET, FILTROS,
// CUESTIONARIO, RESULTADOS. Equal contexts always render equal text.
func ContextText(c Context) string {
	target := c.TargetLabel
	if strings.TrimSpace(target) == "" {
		target = c.Target
	}
	return "### TARGET\n- " + safeText(target) + "\n\n" +
		"### FILTROS\n" + formatFilters(c.ActiveFilters) + "\n\n" +
		"### CUESTIONARIO (INPUT)\n" + formatQuestionnaire(c.Questionnaire) + "\n\n" +
		"### RESULTADOS (OUTPUT)\n" + formatResults(c.Results)
}

func safeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unavailable
	}
	return s
}

func formatFilters(filters []Filter) string {
	if len(filters) == 0 {
		return "- No hay filtros activos."
	}
	lines := make([]string, len(filters))
	for i, f := range filters {
		values := unavailable
		if len(f.Values) > 0 {
			values = strings.Join(f.Values, " | ")
		}
		lines[i] = fmt.Sprintf("- %s: %s", safeText(f.Variable), values)
	}
	return strings.Join(lines, "\n")
}

func formatQuestionnaire(rows []QuestionnaireRow) string {
	if len(rows) == 0 {
		return "- " + unavailable
	}
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("- %s (%s): %s", safeText(r.Descripcion), safeText(r.Variable), safeText(r.RespuestaTexto))
	}
	return strings.Join(lines, "\n")
}

func formatResults(groups []cluster.VariableGroup) string {
	if len(groups) == 0 {
		return "- No hubo resultados del modelo para explicar."
	}
	rendered := make([]string, len(groups))
	for idx, g := range groups {
		lines := []string{fmt.Sprintf("- Grupo #%d", idx+1), "  - Variables clave:"}
		if len(g.Variables) == 0 {
			lines = append(lines, "    - "+unavailable)
		}
		for _, v := range g.Variables {
			lines = append(lines,
				fmt.Sprintf("    - %s: %s", safeText(v.Descripcion), safeText(v.Categorias)),
				"      - ¿Puedo cambiarlo yo?: "+safeText(string(v.ChangeLevel)),
				"      - Involucrados: "+safeText(v.Involucrados),
				"      - Recursos: "+safeText(v.Recursos),
			)
		}
		lines = append(lines, "  - Escenarios asociados:")
		if len(g.Scenarios) == 0 {
			lines = append(lines, "    - "+unavailable)
		}
		for _, s := range g.Scenarios {
			lines = append(lines, fmt.Sprintf("    - Escenario %s: incremento=%s, probabilidad=%s, Confianza=%s, Obs=%s",
				safeText(s.Nombre),
				safeText(s.Summary.Incremento.Text),
				safeText(s.Summary.Probabilidad),
				safeText(s.Summary.Confianza),
				safeText(s.Summary.Obs),
			))
		}
		rendered[idx] = strings.Join(lines, "\n")
	}
	return strings.Join(rendered, "\n\n")
}

// MarshalIndent returns c as indented JSON, used by the MCP and CLI
// surfaces to show the raw context.
func (c Context) MarshalIndent() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
