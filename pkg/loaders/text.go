package loaders

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseText parses the native line-oriented scene format:
//
//	# comment
//	camera_position 0 0 5
//	sphere: [1, 0 0 0, 1 1 1]
//
// The first token on a line is the key, the rest are numbers.
func ParseText(r io.Reader) (*Document, error) {
	doc := NewDocument()

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := parseTextLine(doc, scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return doc, nil
}

func parseTextLine(doc *Document, line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	tokens := tokenizeText(line)
	if len(tokens) == 0 {
		return nil
	}

	key := strings.TrimSuffix(tokens[0], ":")
	if key == "" {
		return fmt.Errorf("missing key")
	}

	values := make([]float64, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s", token, key)
		}
		values = append(values, v)
	}

	doc.Add(key, values...)
	return nil
}

// tokenizeText splits a line on whitespace and commas, dropping brackets
func tokenizeText(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		switch r {
		case ' ', '\t', '\r', ',', '[', ']':
			return true
		}
		return false
	})
}
