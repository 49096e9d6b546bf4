package describe

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"movilidad/domain/cluster"
)

// Line prefixes of the description grammar.
const (
	PrefixIncrement   = "- Incremento de probabilidad"
	PrefixProbability = "- Probabilidad:"
	PrefixConfidence  = "- Nivel de confianza"
	PrefixVariables   = "- Variables y rangos:"
	PrefixVariable    = "- Variable:"
	PrefixDescription = "- Descripción:"
	PrefixCategories  = "- Categorías en rango:"
	PrefixChange      = "- ¿Puedo cambiarlo yo?:"
	PrefixInvolved    = "- Involucrados:"
	PrefixResources   = "- Recursos:"
)

const noAplica = "no_aplica"

var obsPattern = regexp.MustCompile(`\((\d+)\s*obs\)`)

type parseState int

const (
	stateSummary parseState = iota
	stateVariables
)

// variableBlock accumulates one "- Variable:" block.
type variableBlock struct {
	detail      cluster.VariableDetail
	hasDesc     bool
	hasCategory bool
}

// Parse reads one cluster description. Lines before "- Variables y rangos:"
// feed the summary; after it, each "- Variable:" line opens a block. Blocks
// without both a description and categories are dropped. Malformed values
// degrade to raw text and never abort the parse.
func Parse(raw string) cluster.Parsed {
	var out cluster.Parsed
	state := stateSummary
	var current *variableBlock

	flush := func() {
		if current != nil && current.hasDesc && current.hasCategory {
			out.Variables = append(out.Variables, current.detail)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		stripped := strings.TrimSpace(line)
		switch state {
		case stateSummary:
			if strings.HasPrefix(stripped, PrefixVariables) {
				state = stateVariables
				continue
			}
			parseSummaryLine(stripped, &out.Summary)
		case stateVariables:
			if strings.HasPrefix(stripped, PrefixVariable) {
				flush()
				current = &variableBlock{detail: cluster.VariableDetail{ChangeLevel: cluster.ChangeUnknown}}
				continue
			}
			if current != nil {
				parseVariableLine(stripped, current)
			}
		}
	}
	flush()
	return out
}

// ParseAll parses every raw description, keeping input order.
func ParseAll(raws []cluster.RawDescription) []cluster.Parsed {
	out := make([]cluster.Parsed, len(raws))
	for i, r := range raws {
		out[i] = Parse(r.Text)
		out[i].ClusterID = r.ClusterID
	}
	return out
}

func parseSummaryLine(line string, s *cluster.Summary) {
	switch {
	case strings.HasPrefix(line, PrefixIncrement):
		s.Incremento = ParseIncrement(line)
	case strings.HasPrefix(line, PrefixProbability):
		s.Probabilidad = valueAfterColon(line)
	case strings.HasPrefix(line, PrefixConfidence):
		value := valueAfterColon(line)
		if m := obsPattern.FindStringSubmatch(value); m != nil {
			s.Obs = m[1]
			value = strings.TrimSpace(obsPattern.ReplaceAllString(value, ""))
		}
		s.Confianza = Confidence(value)
	}
}

// ParseIncrement formats an increment line as a signed percentage relative
// to 1.0 with its color. Unparseable or NaN values are shown verbatim in gray.
func ParseIncrement(line string) cluster.Increment {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return cluster.Increment{Text: line, Color: NeutralColor}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) {
		return cluster.Increment{Text: line, Color: NeutralColor}
	}
	return cluster.Increment{
		Text:  fmt.Sprintf("%+.0f%%", (v-1)*100),
		Color: Color(v - 1),
	}
}

func parseVariableLine(line string, b *variableBlock) {
	switch {
	case strings.HasPrefix(line, PrefixDescription):
		b.detail.Descripcion = valueAfterColon(line)
		b.hasDesc = true
	case strings.HasPrefix(line, PrefixCategories):
		b.detail.Categorias = ParseCategories(valueAfterColon(line))
		b.hasCategory = true
	case strings.HasPrefix(line, PrefixChange):
		value := valueAfterColon(line)
		b.detail.ChangeLevel = NormalizeChangeLevel(value)
		if !strings.EqualFold(value, noAplica) {
			b.detail.Extras = append(b.detail.Extras, "¿Puedo cambiarlo yo?: "+value)
		}
	case strings.HasPrefix(line, PrefixInvolved):
		value := valueAfterColon(line)
		b.detail.Involucrados = value
		b.detail.Extras = append(b.detail.Extras, "Involucrados: "+value)
	case strings.HasPrefix(line, PrefixResources):
		value := valueAfterColon(line)
		b.detail.Recursos = value
		if !strings.EqualFold(value, noAplica) {
			b.detail.Extras = append(b.detail.Extras, "Recursos: "+value)
		}
	}
}

// ParseCategories keeps the label side of each "code=label" part. Parts are
// split on "|" when present, otherwise on ","; the labels are rejoined with
// the same delimiter. Parts without "=" are dropped.
func ParseCategories(value string) string {
	sep, joiner := ",", ", "
	if strings.Contains(value, "|") {
		sep, joiner = "|", " | "
	}
	var labels []string
	for _, part := range strings.Split(value, sep) {
		if _, label, ok := strings.Cut(part, "="); ok {
			labels = append(labels, strings.TrimSpace(label))
		}
	}
	return strings.Join(labels, joiner)
}

// NormalizeChangeLevel maps free-form mutability text onto the closed set of
// change levels, ignoring case and accents.
func NormalizeChangeLevel(value string) cluster.ChangeLevel {
	// chains carry buffers, so build one per call
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripAccents, strings.TrimSpace(value))
	if err != nil {
		folded = value
	}
	folded = cases.Fold().String(folded)
	folded = strings.ReplaceAll(folded, " ", "_")

	switch folded {
	case "facil":
		return cluster.ChangeEasy
	case "medio", "moderado", "media":
		return cluster.ChangeMedium
	case "dificil":
		return cluster.ChangeHard
	case "imposible":
		return cluster.ChangeImpossible
	case "no_aplica", "noaplica", "n/a":
		return cluster.ChangeNotApplied
	}
	return cluster.ChangeUnknown
}

func valueAfterColon(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}
