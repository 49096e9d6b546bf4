// Package grouping collapses clusters that share a qualitative profile into
// one presentation group with several outcome scenarios.
package grouping

import (
	"fmt"
	"strings"

	"movilidad/domain/cluster"
)

const fieldSep = "\x1f"

// Signature is the grouping key of a variable list: description, categories
// and extras of each variable, in parse order.
func Signature(vars []cluster.VariableDetail) string {
	var sb strings.Builder
	for _, v := range vars {
		sb.WriteString(v.Descripcion)
		sb.WriteString(fieldSep)
		sb.WriteString(v.Categorias)
		sb.WriteString(fieldSep)
		sb.WriteString(strings.Join(v.Extras, fieldSep))
		sb.WriteString("\x1e")
	}
	return sb.String()
}

// Group merges parsed clusters with identical signatures. The first cluster
// of a signature contributes the variable list; every cluster adds a
// scenario. Groups keep first-occurrence order.
func Group(parsed []cluster.Parsed) []cluster.VariableGroup {
	index := make(map[string]int)
	var groups []cluster.VariableGroup
	for _, p := range parsed {
		key := Signature(p.Variables)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, cluster.VariableGroup{Variables: p.Variables})
		}
		groups[i].Scenarios = append(groups[i].Scenarios, cluster.Scenario{Nombre: p.ClusterID, Summary: p.Summary})
	}
	return groups
}

// RenderText lays groups out as plain-text cards.
func RenderText(groups []cluster.VariableGroup) string {
	if len(groups) == 0 {
		return "Sin resultados."
	}
	cards := make([]string, 0, len(groups))
	for i, g := range groups {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Grupo #%d\n", i+1)
		if len(g.Variables) == 0 {
			sb.WriteString("- Sin variables clave\n")
		}
		for _, v := range g.Variables {
			fmt.Fprintf(&sb, "- %s -> %s\n", v.Descripcion, v.Categorias)
			for _, extra := range v.Extras {
				fmt.Fprintf(&sb, "    - %s\n", extra)
			}
		}
		sb.WriteString("Escenarios:\n")
		for _, s := range g.Scenarios {
			fmt.Fprintf(&sb, "  - Cluster %s: Incremento %s", s.Nombre, s.Summary.Incremento.Text)
			if s.Summary.Probabilidad != "" {
				fmt.Fprintf(&sb, ", Probabilidad %s", s.Summary.Probabilidad)
			}
			if s.Summary.Confianza != "" {
				fmt.Fprintf(&sb, ", Confianza %s", s.Summary.Confianza)
			}
			if s.Summary.Obs != "" {
				fmt.Fprintf(&sb, " (%s obs)", s.Summary.Obs)
			}
			sb.WriteString("\n")
		}
		cards = append(cards, strings.TrimRight(sb.String(), "\n"))
	}
	return strings.Join(cards, "\n\n")
}
