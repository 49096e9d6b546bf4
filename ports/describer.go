package ports

import (
	"movilidad/domain/cluster"
	"movilidad/domain/dataset"
	"movilidad/domain/questionnaire"
)

// DescriptionBuilder renders matched description rows into raw cluster
// description text, one entry per row in row order
type DescriptionBuilder interface {
	Build(rows *dataset.Frame, dict questionnaire.Dictionary, mapping questionnaire.Mapping, opts cluster.BuildOptions) []cluster.RawDescription
}
