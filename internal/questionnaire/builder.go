// Package questionnaire turns the data dictionary into typed questions and
// collects responses into an answer table.
package questionnaire

import (
	"math"
	"strings"

	domainDataset "movilidad/domain/dataset"
	domainQuestionnaire "movilidad/domain/questionnaire"
)

// BuildQuestions emits one question per dictionary entry, in dictionary
// order. Entries whose values and labels are both present and of equal length
// become categorical; anything else degrades to a numeric question.
func BuildQuestions(dict domainQuestionnaire.Dictionary) []domainQuestionnaire.Question {
	out := make([]domainQuestionnaire.Question, 0, len(dict.Entries))
	for _, e := range dict.Entries {
		desc := e.Description
		if desc == "" {
			desc = e.Variable
		}
		q := domainQuestionnaire.Question{Variable: e.Variable, Description: desc}
		if len(e.Values) > 0 && len(e.Labels) > 0 && len(e.Values) == len(e.Labels) {
			q.Kind = domainQuestionnaire.KindCategorical
			q.Options = make([]domainQuestionnaire.Option, len(e.Values))
			for i := range e.Values {
				q.Options[i] = domainQuestionnaire.Option{Code: e.Values[i], Label: e.Labels[i]}
			}
			q.Default = q.Options[0].Code
		} else {
			q.Kind = domainQuestionnaire.KindNumeric
		}
		out = append(out, q)
	}
	return out
}

// Collect produces exactly one answer per question. responses maps a variable
// to the raw submitted value: a code, a "<code> - <label>" display string,
// or a number. Missing or unusable responses take the question default.
func Collect(questions []domainQuestionnaire.Question, responses map[string]string) *domainQuestionnaire.AnswerTable {
	table := domainQuestionnaire.NewAnswerTable()
	for _, q := range questions {
		raw, answered := responses[q.Variable]
		switch q.Kind {
		case domainQuestionnaire.KindCategorical:
			opt := q.Options[0]
			if answered {
				if o, ok := findOption(q.Options, raw); ok {
					opt = o
				}
			}
			table.Put(domainQuestionnaire.Answer{
				Variable:    q.Variable,
				Description: q.Description,
				Code:        opt.Code,
				Text:        opt.Label,
			})
		default:
			v := q.Default
			if answered {
				if parsed := domainDataset.ParseFloat(raw); !math.IsNaN(parsed) && !math.IsInf(parsed, 0) {
					v = parsed
				}
			}
			table.Put(domainQuestionnaire.Answer{
				Variable:    q.Variable,
				Description: q.Description,
				Code:        v,
				Text:        domainDataset.FormatFloat(v),
			})
		}
	}
	return table
}

// CodeFromDisplay extracts the code of a "<code> - <label>" selector value.
// Plain codes are returned unchanged.
func CodeFromDisplay(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, " - "); i >= 0 {
		return strings.TrimSpace(raw[:i])
	}
	return raw
}

func findOption(options []domainQuestionnaire.Option, raw string) (domainQuestionnaire.Option, bool) {
	code := domainDataset.ParseFloat(CodeFromDisplay(raw))
	if math.IsNaN(code) {
		return domainQuestionnaire.Option{}, false
	}
	for _, o := range options {
		if o.Code == code {
			return o, true
		}
	}
	return domainQuestionnaire.Option{}, false
}
