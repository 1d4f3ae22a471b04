package search

import (
	"sort"
	"strings"
)

// textKeys are the config fields whose string values carry visible page copy.
var textKeys = map[string]struct{}{
	"title":       {},
	"subtitle":    {},
	"headline":    {},
	"description": {},
	"body":        {},
	"text":        {},
	"quote":       {},
	"label":       {},
	"copy":        {},
}

// ExtractText collects the visible copy from a normalized page document into
// one plain-text string for indexing. The walk is total: unknown shapes are
// skipped, never an error.
func ExtractText(doc map[string]any) string {
	var parts []string
	collectText(doc["root"], &parts)
	collectText(doc["content"], &parts)
	collectText(doc["zones"], &parts)
	return strings.Join(parts, " ")
}

func collectText(v any, parts *[]string) {
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					*parts = append(*parts, trimmed)
				}
				continue
			}
			collectText(item, parts)
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, textual := textKeys[key]; textual {
				if s, ok := val[key].(string); ok {
					if trimmed := strings.TrimSpace(s); trimmed != "" {
						*parts = append(*parts, trimmed)
					}
					continue
				}
			}
			// configJson mirrors duplicate the config object, skip them.
			if key == "configJson" {
				continue
			}
			collectText(val[key], parts)
		}
	}
}
