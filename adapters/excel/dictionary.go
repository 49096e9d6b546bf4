package excel

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"movilidad/domain/questionnaire"
)

// ReadDictionary loads the YAML data dictionary, preserving variable order
func ReadDictionary(path string) (questionnaire.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return questionnaire.Dictionary{}, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return DecodeDictionary(data)
}

// DecodeDictionary parses a YAML mapping of variable to metadata. Keys are
// matched case-insensitively, with or without accents ("descripcion",
// "Descripción"). Values that are not numbers leave the entry without
// options so it degrades to a numeric question.
func DecodeDictionary(data []byte) (questionnaire.Dictionary, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return questionnaire.Dictionary{}, fmt.Errorf("failed to parse dictionary: %w", err)
	}
	var dict questionnaire.Dictionary
	if len(root.Content) == 0 {
		return dict, nil
	}
	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return dict, fmt.Errorf("dictionary must be a mapping of variables")
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		var raw map[string]interface{}
		if err := m.Content[i+1].Decode(&raw); err != nil {
			// scalar or list metadata keeps the variable as a bare entry
			raw = nil
		}
		dict.Entries = append(dict.Entries, entryFromRaw(m.Content[i].Value, raw))
	}
	return dict, nil
}

func entryFromRaw(variable string, raw map[string]interface{}) questionnaire.DictionaryEntry {
	e := questionnaire.DictionaryEntry{Variable: variable}
	for key, v := range raw {
		switch normalizeKey(key) {
		case "descripcion":
			e.Description = strings.TrimSpace(fmt.Sprint(v))
		case "valores":
			e.Values = numbers(v)
		case "etiquetas":
			e.Labels = labels(v)
		}
	}
	return e
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer("ó", "o", "í", "i", "á", "a", "é", "e", "ú", "u").Replace(k)
}

func numbers(v interface{}) []float64 {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case int:
			out = append(out, float64(n))
		case float64:
			out = append(out, n)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil
			}
			out = append(out, f)
		default:
			return nil
		}
	}
	return out
}

func labels(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprint(item)
	}
	return out
}

// EncodeDictionary renders dict as YAML in entry order
func EncodeDictionary(dict questionnaire.Dictionary) ([]byte, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range dict.Entries {
		var value yaml.Node
		if err := value.Encode(e); err != nil {
			return nil, err
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e.Variable}, &value)
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{m}}
	return yaml.Marshal(doc)
}

// ReadMapping loads the YAML mapping dictionary
func ReadMapping(path string) (questionnaire.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}
	return DecodeMapping(data)
}

// DecodeMapping parses a YAML mapping of variable to mutability metadata
func DecodeMapping(data []byte) (questionnaire.Mapping, error) {
	var raw map[string]questionnaire.MappingEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}
	out := make(questionnaire.Mapping, len(raw))
	for variable, e := range raw {
		e.Variable = variable
		out[variable] = e
	}
	return out, nil
}

// EncodeMapping renders mapping as YAML sorted by variable
func EncodeMapping(mapping questionnaire.Mapping) ([]byte, error) {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var value yaml.Node
		if err := value.Encode(mapping[k]); err != nil {
			return nil, err
		}
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &value)
	}
	return yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{m}})
}
