package loaders

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrMissingKey is returned when a document has no entry for a key
	ErrMissingKey = errors.New("missing key")
	// ErrIndexOutOfRange is returned for entry or value indices past the end
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Format identifies a scene document encoding
type Format int

const (
	FormatText Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// String returns the short name of the format
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "text"
	}
}

// FormatFromExt picks a format from a filename extension. Anything
// unrecognised is treated as the native text format.
func FormatFromExt(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

// ParseFormat parses a format name such as "yaml" or "text"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "text", "txt", "scene":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown scene format %q", name)
}

// Document is a parsed scene description. Every key maps to an ordered list
// of entries and every entry is a list of numbers; repeating a key in the
// source appends an entry.
type Document struct {
	entries map[string][][]float64
}

// NewDocument creates an empty document
func NewDocument() *Document {
	return &Document{entries: make(map[string][][]float64)}
}

// Add appends one entry for key
func (d *Document) Add(key string, values ...float64) {
	d.entries[key] = append(d.entries[key], values)
}

// Keys returns the document keys in sorted order
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of entries for key, 0 when absent
func (d *Document) Count(key string) int {
	return len(d.entries[key])
}

// Values returns a copy of one entry
func (d *Document) Values(key string, entry int) ([]float64, error) {
	entries, ok := d.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	if entry < 0 || entry >= len(entries) {
		return nil, fmt.Errorf("%w: %s entry %d of %d", ErrIndexOutOfRange, key, entry, len(entries))
	}
	return append([]float64(nil), entries[entry]...), nil
}

// Float returns value index of the given entry for key
func (d *Document) Float(key string, entry, index int) (float32, error) {
	v, err := d.value(key, entry, index)
	return float32(v), err
}

// Int returns value index of the given entry for key, which must be integral
func (d *Document) Int(key string, entry, index int) (int, error) {
	v, err := d.value(key, entry, index)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%s[%d][%d]: %v is not an integer", key, entry, index, v)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%s[%d][%d]: %v is out of range", key, entry, index, v)
	}
	return int(v), nil
}

// Vec3 reads three consecutive values starting at offset
func (d *Document) Vec3(key string, entry, offset int) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := d.Float(key, entry, offset+i)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

func (d *Document) value(key string, entry, index int) (float64, error) {
	values, err := d.Values(key, entry)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(values) {
		return 0, fmt.Errorf("%w: %s[%d] value %d of %d", ErrIndexOutOfRange, key, entry, index, len(values))
	}
	return values[index], nil
}

// ParseDocument reads a scene document in the given format
func ParseDocument(r io.Reader, format Format) (*Document, error) {
	switch format {
	case FormatText:
		return ParseText(r)
	default:
		return parseStructured(r, format)
	}
}

// LoadDocument loads a scene document, choosing the format by extension
func LoadDocument(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	doc, err := ParseDocument(file, FormatFromExt(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return doc, nil
}
