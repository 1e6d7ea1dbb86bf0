package loaders

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// parseStructured decodes YAML, TOML or JSON into a Document. The top level
// must be a map; each value is a number, a list of numbers (one entry) or a
// list of lists of numbers (one entry per inner list).
func parseStructured(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	raw := make(map[string]any)
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported structured format %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s document: %w", format, err)
	}

	doc := NewDocument()
	for key, value := range raw {
		entries, err := toEntries(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		for _, entry := range entries {
			doc.Add(key, entry...)
		}
	}
	return doc, nil
}

func toEntries(value any) ([][]float64, error) {
	if f, ok := toNumber(value); ok {
		return [][]float64{{f}}, nil
	}

	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a number or a list, got %T", value)
	}
	if len(list) == 0 {
		return [][]float64{{}}, nil
	}

	// A list of lists is several entries
	if _, nested := list[0].([]any); nested {
		entries := make([][]float64, 0, len(list))
		for i, item := range list {
			inner, ok := item.([]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected a list, got %T", i, item)
			}
			entry, err := toNumbers(inner)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			entries = append(entries, entry)
		}
		return entries, nil
	}

	entry, err := toNumbers(list)
	if err != nil {
		return nil, err
	}
	return [][]float64{entry}, nil
}

func toNumbers(list []any) ([]float64, error) {
	values := make([]float64, 0, len(list))
	for i, item := range list {
		f, ok := toNumber(item)
		if !ok {
			return nil, fmt.Errorf("value %d: expected a number, got %T", i, item)
		}
		values = append(values, f)
	}
	return values, nil
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
