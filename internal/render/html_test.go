package render

import (
	"strings"
	"testing"
)

func TestPageHTML(t *testing.T) {
	doc := map[string]any{
		"root": map[string]any{
			"props": map[string]any{"title": "Landing <page>", "description": ""},
		},
		"content": []any{
			map[string]any{
				"type": "hero",
				"props": map[string]any{
					"id": "b1",
					"config": map[string]any{
						"hero": map[string]any{"title": "Big & Bold", "subtitle": "sub"},
					},
				},
			},
			map[string]any{
				"type": "pitch",
				"props": map[string]any{
					"id": "b2",
					"config": map[string]any{
						"title":   "Why",
						"bullets": []any{"one", "two"},
					},
				},
			},
			map[string]any{
				"type": "page",
				"props": map[string]any{
					"id": "b3",
					"children": []any{
						map[string]any{
							"type": "footer",
							"props": map[string]any{
								"id":     "b4",
								"config": map[string]any{"copyrightText": "© Acme"},
							},
						},
					},
				},
			},
		},
		"zones": map[string]any{},
	}

	got := PageHTML(doc)
	for _, want := range []string{
		"<title>Landing &lt;page&gt;</title>",
		"<h1>Big &amp; Bold</h1>",
		"<li>one</li><li>two</li>",
		"<main>",
		"<footer><p>© Acme</p></footer>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered HTML missing %q:\n%s", want, got)
		}
	}
}

func TestPageHTMLTotalOverJunk(t *testing.T) {
	inputs := []map[string]any{
		nil,
		{},
		{"content": "not an array", "root": 4.0},
		{"content": []any{"not a block", map[string]any{"type": 7.0}}},
	}
	for _, doc := range inputs {
		got := PageHTML(doc)
		if !strings.Contains(got, "<body>") {
			t.Errorf("expected a valid HTML shell for %#v, got %q", doc, got)
		}
	}
}

func TestPageHTMLUnknownTypeRendersChildren(t *testing.T) {
	doc := map[string]any{
		"content": []any{
			map[string]any{
				"type": "mystery",
				"props": map[string]any{
					"id": "b1",
					"children": []any{
						map[string]any{
							"type":  "cta",
							"props": map[string]any{"id": "b2", "config": map[string]any{"label": "Go"}},
						},
					},
				},
			},
		},
	}
	if !strings.Contains(PageHTML(doc), "<a>Go</a>") {
		t.Fatal("unknown block type should render its children")
	}
}
