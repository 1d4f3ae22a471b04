package pagedoc

import (
	"reflect"
	"testing"
)

func salesTemplateBlock() map[string]any {
	return map[string]any{
		"type": "salesPageTemplate",
		"props": map[string]any{
			"id":     "tpl_1",
			"theme":  "dark",
			"anchor": "top",
			"config": map[string]any{
				"hero": map[string]any{
					"header": map[string]any{"nav": []any{"Home"}},
					"title":  "Big Promise",
				},
				"story": map[string]any{
					"problem":  map[string]any{"title": "The problem"},
					"solution": map[string]any{"title": "The fix"},
				},
				"reviewWall": map[string]any{
					"tiles": []any{
						map[string]any{"image": "t1.png", "quote": "wow"},
						map[string]any{"quote": "no image"},
						map[string]any{"image": "t2.png"},
					},
				},
				"offer":     map[string]any{"price": "$49"},
				"guarantee": map[string]any{"title": "30 days"},
				"faq":       map[string]any{"items": []any{}},
				"footer":    map[string]any{"copyrightText": "c"},
			},
		},
	}
}

func TestExpandSalesPageTemplate(t *testing.T) {
	content := []any{salesTemplateBlock()}
	out := expandComposites(content)

	if len(out) != 1 {
		t.Fatalf("expected 1 block, got %d", len(out))
	}
	page, _ := isRecord(out[0])
	if page["type"] != "page" {
		t.Fatalf("expected page wrapper, got %#v", page["type"])
	}
	props, _ := isRecord(page["props"])
	if props["theme"] != "dark" || props["anchor"] != "top" {
		t.Fatalf("theme/anchor metadata not carried over: %#v", props)
	}
	if id, _ := props["id"].(string); id == "" {
		t.Fatalf("page wrapper must get a fresh id")
	}

	children, _ := props["children"].([]any)
	wantTypes := []string{
		"header", "hero", "problem", "solution", "reviewWall",
		"offer", "guarantee", "faq", "footer",
	}
	if len(children) != len(wantTypes) {
		t.Fatalf("expected %d children, got %d", len(wantTypes), len(children))
	}
	for i, want := range wantTypes {
		child, _ := isRecord(children[i])
		if child["type"] != want {
			t.Fatalf("child %d type = %#v, want %q", i, child["type"], want)
		}
		childProps, _ := isRecord(child["props"])
		if id, _ := childProps["id"].(string); id == "" {
			t.Fatalf("child %d missing minted id", i)
		}
		if _, ok := isRecord(childProps["config"]); !ok {
			t.Fatalf("child %d config is not an object: %#v", i, childProps["config"])
		}
	}

	headerProps, _ := isRecord(children[0].(map[string]any)["props"])
	if !reflect.DeepEqual(headerProps["config"], map[string]any{"nav": []any{"Home"}}) {
		t.Fatalf("header config = %#v", headerProps["config"])
	}

	heroProps, _ := isRecord(children[1].(map[string]any)["props"])
	if !reflect.DeepEqual(heroProps["config"], map[string]any{"title": "Big Promise"}) {
		t.Fatalf("hero config must drop the header sub-object: %#v", heroProps["config"])
	}

	guaranteeProps, _ := isRecord(children[6].(map[string]any)["props"])
	if !reflect.DeepEqual(guaranteeProps["feedImages"], []any{"t1.png", "t2.png"}) {
		t.Fatalf("feedImages = %#v, want tile images in original order", guaranteeProps["feedImages"])
	}
	if !reflect.DeepEqual(guaranteeProps["config"], map[string]any{"title": "30 days"}) {
		t.Fatalf("guarantee config = %#v", guaranteeProps["config"])
	}
}

func TestExpandListicleTemplate(t *testing.T) {
	content := []any{map[string]any{
		"type": "listicleTemplate",
		"props": map[string]any{
			"id": "tpl_2",
			"config": map[string]any{
				"header": map[string]any{"nav": []any{}},
				"intro":  map[string]any{"title": "5 reasons"},
				"items":  []any{map[string]any{"title": "one"}},
				"cta":    map[string]any{"label": "Go"},
				"footer": map[string]any{},
			},
		},
	}}
	out := expandComposites(content)

	page, _ := isRecord(out[0])
	props, _ := isRecord(page["props"])
	children, _ := props["children"].([]any)

	wantTypes := []string{"header", "listicleIntro", "listicleItems", "cta", "footer"}
	if len(children) != len(wantTypes) {
		t.Fatalf("expected %d children, got %d", len(wantTypes), len(children))
	}
	for i, want := range wantTypes {
		child, _ := isRecord(children[i])
		if child["type"] != want {
			t.Fatalf("child %d type = %#v, want %q", i, child["type"], want)
		}
	}

	itemsProps, _ := isRecord(children[2].(map[string]any)["props"])
	expected := map[string]any{"items": []any{map[string]any{"title": "one"}}}
	if !reflect.DeepEqual(itemsProps["config"], expected) {
		t.Fatalf("listicleItems config = %#v, want %#v", itemsProps["config"], expected)
	}
}

func TestExpandCompositesShortCircuit(t *testing.T) {
	content := []any{
		map[string]any{"type": "hero", "props": map[string]any{"id": "b1"}},
		"not a block",
	}
	out := expandComposites(content)
	if reflect.ValueOf(out).Pointer() != reflect.ValueOf(content).Pointer() {
		t.Fatalf("content without composites must come back as the same slice")
	}
}

func TestExpandCompositesUnusableConfigLeftAlone(t *testing.T) {
	content := []any{map[string]any{
		"type":  "salesPageTemplate",
		"props": map[string]any{"id": "tpl_1", "configJson": "{broken"},
	}}
	out := expandComposites(content)
	if reflect.ValueOf(out).Pointer() != reflect.ValueOf(content).Pointer() {
		t.Fatalf("composite without usable config must be left untouched")
	}
}

func TestExpandCompositesDoesNotMutateInput(t *testing.T) {
	content := []any{salesTemplateBlock()}
	expandComposites(content)
	block, _ := isRecord(content[0])
	if block["type"] != "salesPageTemplate" {
		t.Fatalf("input slice element was mutated: %#v", block["type"])
	}
}

func TestExpandCompositesFromConfigJSONMirror(t *testing.T) {
	content := []any{map[string]any{
		"type": "listicleTemplate",
		"props": map[string]any{
			"id":         "tpl_3",
			"configJson": `{"intro":{"title":"from mirror"},"items":[]}`,
		},
	}}
	out := expandComposites(content)
	page, _ := isRecord(out[0])
	if page["type"] != "page" {
		t.Fatalf("composite with string-only config must still expand, got %#v", page["type"])
	}
}
