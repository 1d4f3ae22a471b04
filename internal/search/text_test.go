package search

import (
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	doc := map[string]any{
		"root": map[string]any{
			"props": map[string]any{"title": "Landing", "description": "A funnel page"},
		},
		"content": []any{
			map[string]any{
				"type": "hero",
				"props": map[string]any{
					"id": "b1",
					"config": map[string]any{
						"hero":   map[string]any{"title": "Big Promise", "subtitle": "Small print"},
						"badges": []any{},
					},
					"configJson": `{"hero":{"title":"Big Promise"}}`,
				},
			},
			map[string]any{
				"type": "pitch",
				"props": map[string]any{
					"id": "b2",
					"config": map[string]any{
						"title":   "Why us",
						"bullets": []any{"fast", "cheap"},
					},
				},
			},
		},
		"zones": map[string]any{
			"global": []any{
				map[string]any{
					"type": "footer",
					"props": map[string]any{
						"id":     "b3",
						"config": map[string]any{"copyrightText": "ignored", "label": "Contact"},
					},
				},
			},
		},
	}

	text := ExtractText(doc)
	for _, want := range []string{"Landing", "A funnel page", "Big Promise", "Small print", "Why us", "fast", "cheap", "Contact"} {
		if !strings.Contains(text, want) {
			t.Errorf("extracted text missing %q: %s", want, text)
		}
	}
	if strings.Count(text, "Big Promise") != 1 {
		t.Errorf("configJson mirror must not be double-indexed: %s", text)
	}
}

func TestExtractTextTotalOverJunk(t *testing.T) {
	if got := ExtractText(map[string]any{"content": "nope", "zones": 4.0}); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
	if got := ExtractText(nil); got != "" {
		t.Fatalf("expected empty text for nil doc, got %q", got)
	}
}
