// Package pagedoc normalizes persisted page-builder documents into the
// canonical block-tree shape consumed by the editor and renderer. It accepts
// documents written by several historical schema generations, including
// malformed and doubly-serialized payloads, and always returns a valid
// document without mutating its input.
package pagedoc

import (
	"encoding/json"
	"sort"
	"strings"
)

// isRecord reports whether v is a JSON object (never an array).
func isRecord(v any) (map[string]any, bool) {
	rec, ok := v.(map[string]any)
	return rec, ok
}

// cloneValue deep-copies a JSON-decoded value. Values outside the JSON data
// model (which cannot appear in decoded documents) are returned as-is.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// parseJSON parses raw as JSON, returning nil on any failure.
func parseJSON(raw string) any {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}
	return parsed
}

// parseJSONMaybeNested parses raw as JSON and, if the result is itself a
// JSON-shaped string, parses that string too. Handles configurations that
// were serialized twice by an upstream step. Returns nil if the first parse
// fails; returns the first-level string unchanged if the second parse fails.
func parseJSONMaybeNested(raw string) any {
	parsed := parseJSON(raw)
	inner, ok := parsed.(string)
	if !ok || !looksLikeJSON(inner) {
		return parsed
	}
	if reparsed := parseJSON(inner); reparsed != nil {
		return reparsed
	}
	return inner
}

// looksLikeJSON reports whether s is plausibly a serialized JSON object or
// array: trimmed text starting with {/[ and ending with the matching }/].
func looksLikeJSON(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 {
		return false
	}
	switch trimmed[0] {
	case '{':
		return trimmed[len(trimmed)-1] == '}'
	case '[':
		return trimmed[len(trimmed)-1] == ']'
	}
	return false
}

// firstString returns the first non-empty string found in rec under keys.
func firstString(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := rec[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// stringField returns rec[key] if it is a string, else "".
func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

// hasAnyKey reports whether rec contains any of keys, regardless of value.
func hasAnyKey(rec map[string]any, keys ...string) bool {
	for _, key := range keys {
		if _, ok := rec[key]; ok {
			return true
		}
	}
	return false
}

// sortedKeys returns the keys of rec in sorted order so that tree walks are
// deterministic regardless of map iteration order.
func sortedKeys(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
