package excel

import (
	"movilidad/internal/config"
)

// AssetFiles locates every file the file repository reads
type AssetFiles struct {
	Dictionary string `json:"dictionary"`
	Mapping    string `json:"mapping"`
	Records    string `json:"records"`
	Importance string `json:"importance"`
	// Valuable is a workbook with one sheet per target, or a directory
	// holding one <target>.csv per target
	Valuable string `json:"valuable"`
}

// FilesFromConfig resolves asset file names against the data directory
func FilesFromConfig(cfg config.AssetConfig) AssetFiles {
	return AssetFiles{
		Dictionary: cfg.Path(cfg.DictionaryFile),
		Mapping:    cfg.Path(cfg.MappingFile),
		Records:    cfg.Path(cfg.RecordsFile),
		Importance: cfg.Path(cfg.ImportanceFile),
		Valuable:   cfg.Path(cfg.ValuableFile),
	}
}

func (f AssetFiles) all() map[string]string {
	return map[string]string{
		"dictionary": f.Dictionary,
		"mapping":    f.Mapping,
		"records":    f.Records,
		"importance": f.Importance,
		"valuable":   f.Valuable,
	}
}
