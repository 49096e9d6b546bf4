package describe

import (
	"math"
	"strconv"
	"strings"

	"movilidad/domain/cluster"
	domainDataset "movilidad/domain/dataset"
	domainQuestionnaire "movilidad/domain/questionnaire"
)

// Description table columns read by the builder.
const (
	ClusterColumn     = "cluster"
	IncrementColumn   = "incremento"
	ProbabilityColumn = "probabilidad"
	VariablesColumn   = "variables"
	ObsColumn         = "cluster_N"
)

// TextBuilder renders description rows into the line grammar read by Parse.
// Only Spanish output is produced.
type TextBuilder struct{}

// NewTextBuilder creates a builder.
func NewTextBuilder() *TextBuilder {
	return &TextBuilder{}
}

// Build renders one description per row of rows, in row order.
func (b *TextBuilder) Build(rows *domainDataset.Frame, dict domainQuestionnaire.Dictionary, mapping domainQuestionnaire.Mapping, opts cluster.BuildOptions) []cluster.RawDescription {
	out := make([]cluster.RawDescription, 0, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		id := clusterID(rows.Cell(i, ClusterColumn))
		var sb strings.Builder
		sb.WriteString("Cluster " + id + ":\n")
		sb.WriteString(PrefixIncrement + ": " + rows.Cell(i, IncrementColumn) + "\n")
		if opts.ShowProbability {
			sb.WriteString(PrefixProbability + " " + rows.Cell(i, ProbabilityColumn) + "\n")
		}
		if rows.HasColumn(TierColumn) {
			sb.WriteString(PrefixConfidence + ": " + rows.Cell(i, TierColumn))
			if obs := rows.Cell(i, ObsColumn); opts.ShowObservations && obs != "" {
				sb.WriteString(" (" + clusterID(obs) + " obs)")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(PrefixVariables + "\n")
		for _, r := range ParseRanges(rows.Cell(i, VariablesColumn)) {
			writeVariable(&sb, r, dict, mapping)
		}
		out = append(out, cluster.RawDescription{ClusterID: id, Text: strings.TrimRight(sb.String(), "\n")})
	}
	return out
}

// Range is the span of a variable inside a cluster profile.
type Range struct {
	Variable string
	Lo       float64
	Hi       float64
}

// ParseRanges reads "var:lo..hi;var2:v". Malformed entries are skipped.
func ParseRanges(s string) []Range {
	var out []Range
	for _, item := range strings.Split(s, ";") {
		name, span, ok := strings.Cut(strings.TrimSpace(item), ":")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		loText, hiText, isSpan := strings.Cut(span, "..")
		if !isSpan {
			hiText = loText
		}
		lo := domainDataset.ParseFloat(loText)
		hi := domainDataset.ParseFloat(hiText)
		if math.IsNaN(lo) || math.IsNaN(hi) {
			continue
		}
		if lo > hi {
			lo, hi = hi, lo
		}
		out = append(out, Range{Variable: strings.TrimSpace(name), Lo: lo, Hi: hi})
	}
	return out
}

func writeVariable(sb *strings.Builder, r Range, dict domainQuestionnaire.Dictionary, mapping domainQuestionnaire.Mapping) {
	entry, _ := dict.Lookup(r.Variable)
	desc := entry.Description
	if desc == "" {
		desc = r.Variable
	}
	m, ok := mapping[r.Variable]
	if !ok {
		m = domainQuestionnaire.MappingEntry{}
	}

	sb.WriteString("  " + PrefixVariable + " " + r.Variable + "\n")
	sb.WriteString("    " + PrefixDescription + " " + desc + "\n")
	sb.WriteString("    " + PrefixCategories + " " + categoriesInRange(entry, r) + "\n")
	sb.WriteString("    " + PrefixChange + " " + orNoAplica(m.CambioYo) + "\n")
	sb.WriteString("    " + PrefixInvolved + " " + orNoAplica(m.Involucrados) + "\n")
	sb.WriteString("    " + PrefixResources + " " + orNoAplica(m.Recursos) + "\n")
}

// categoriesInRange lists "code=label" for the labelled codes inside r.
// Labels containing commas switch the delimiter to "|".
func categoriesInRange(entry domainQuestionnaire.DictionaryEntry, r Range) string {
	var parts []string
	sep := ", "
	if len(entry.Values) > 0 && len(entry.Values) == len(entry.Labels) {
		for i, code := range entry.Values {
			if code < r.Lo || code > r.Hi {
				continue
			}
			label := entry.Labels[i]
			if strings.Contains(label, ",") {
				sep = " | "
			}
			parts = append(parts, domainDataset.FormatFloat(code)+"="+label)
		}
	}
	if len(parts) == 0 {
		if r.Lo == r.Hi {
			return "rango=" + domainDataset.FormatFloat(r.Lo)
		}
		return "rango=" + domainDataset.FormatFloat(r.Lo) + " a " + domainDataset.FormatFloat(r.Hi)
	}
	return strings.Join(parts, sep)
}

func orNoAplica(s string) string {
	if strings.TrimSpace(s) == "" {
		return noAplica
	}
	return s
}

// clusterID renders integral numbers without a fractional part.
func clusterID(s string) string {
	v := domainDataset.ParseFloat(s)
	if math.IsNaN(v) || v != math.Trunc(v) {
		return strings.TrimSpace(s)
	}
	return strconv.FormatInt(int64(v), 10)
}
