package usecase

import (
	"errors"
	"strings"
)

// extractJSONArray slices the first '[' through the last ']' out of raw
// generation output. Backends routinely wrap the requested JSON array in
// prose; everything outside the brackets is discarded.
func extractJSONArray(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("generation output is empty")
	}
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("generation output contains no JSON array")
	}
	return trimmed[start : end+1], nil
}

// stringField reads a string value from a loosely-typed generation item.
func stringField(item map[string]any, key string) (string, bool) {
	v, ok := item[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// stringListField reads a list of strings, tolerating mixed-type arrays by
// keeping only the string entries.
func stringListField(item map[string]any, key string) ([]string, bool) {
	v, ok := item[key]
	if !ok {
		return nil, false
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// intField reads a numeric value; JSON numbers decode as float64.
func intField(item map[string]any, key string) (int, bool) {
	v, ok := item[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
