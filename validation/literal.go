package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ParseLiteral parses array or tuple text entered in a single field. The text must be JSON, with numbers kept as
// json.Number so that no precision is lost. A flat bracketed list whose items are free of quotes, brackets and
// braces (e.g. [0xabc..., 0xdef...]) is also accepted and split on commas, yielding string items.
func ParseLiteral(text string) (any, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, fmt.Errorf("empty literal")
	}

	decoder := json.NewDecoder(strings.NewReader(s))
	decoder.UseNumber()
	var parsed any
	err := decoder.Decode(&parsed)
	if err == nil {
		// Trailing content after the first JSON value makes the literal ambiguous
		var trailing any
		if decoder.Decode(&trailing) == io.EOF {
			return parsed, nil
		}
		return nil, fmt.Errorf("unexpected content after literal")
	}

	if items, ok := parseBareList(s); ok {
		return items, nil
	}
	return nil, fmt.Errorf("invalid literal: %v", err)
}

// parseBareList splits a bracketed list of unquoted items. It refuses nested or quoted content.
func parseBareList(s string) ([]any, bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}
	inner := s[1 : len(s)-1]
	if strings.ContainsAny(inner, "\"'[]{}") {
		return nil, false
	}
	if strings.TrimSpace(inner) == "" {
		return []any{}, true
	}

	parts := strings.Split(inner, ",")
	items := make([]any, len(parts))
	for i, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			return nil, false
		}
		items[i] = item
	}
	return items, true
}
