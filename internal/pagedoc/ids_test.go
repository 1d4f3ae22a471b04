package pagedoc

import (
	"strings"
	"testing"
)

func TestAssignIDsMintsMissingAndEmpty(t *testing.T) {
	doc := map[string]any{
		"content": []any{
			map[string]any{"type": "hero", "props": map[string]any{}},
			map[string]any{"type": "footer", "props": map[string]any{"id": ""}},
		},
		"zones": map[string]any{},
	}
	assignIDs(doc)

	for i, item := range doc["content"].([]any) {
		props, _ := isRecord(item.(map[string]any)["props"])
		id, _ := props["id"].(string)
		if id == "" {
			t.Fatalf("block %d still has no id", i)
		}
		if !strings.HasPrefix(id, "blk_") {
			t.Fatalf("minted id %q missing blk prefix", id)
		}
	}
}

func TestAssignIDsDeduplicatesAcrossZones(t *testing.T) {
	doc := map[string]any{
		"content": []any{
			map[string]any{"type": "hero", "props": map[string]any{"id": "dup"}},
		},
		"zones": map[string]any{
			"sidebar": []any{
				map[string]any{"type": "cta", "props": map[string]any{"id": "dup"}},
			},
			"footer": []any{
				map[string]any{"type": "footer", "props": map[string]any{"id": "dup"}},
			},
		},
	}
	assignIDs(doc)

	seen := map[string]bool{}
	collect := func(v any) {
		props, _ := isRecord(v.(map[string]any)["props"])
		id, _ := props["id"].(string)
		if id == "" {
			t.Fatalf("empty id after assignment")
		}
		if seen[id] {
			t.Fatalf("duplicate id %q survived", id)
		}
		seen[id] = true
	}
	collect(doc["content"].([]any)[0])
	zones := doc["zones"].(map[string]any)
	collect(zones["sidebar"].([]any)[0])
	collect(zones["footer"].([]any)[0])

	// Content is walked before zones, so the content block keeps its id.
	contentProps, _ := isRecord(doc["content"].([]any)[0].(map[string]any)["props"])
	if contentProps["id"] != "dup" {
		t.Fatalf("first occurrence should keep its id, got %#v", contentProps["id"])
	}
}

func TestAssignIDsRecursesIntoArbitrarySlots(t *testing.T) {
	inner := map[string]any{"type": "cta", "props": map[string]any{"id": "x"}}
	doc := map[string]any{
		"content": []any{
			map[string]any{
				"type": "page",
				"props": map[string]any{
					"id": "x",
					"someCustomSlot": map[string]any{
						"deep": []any{inner},
					},
				},
			},
		},
		"zones": map[string]any{},
	}
	assignIDs(doc)

	props, _ := isRecord(inner["props"])
	if props["id"] == "x" {
		t.Fatalf("nested slot block kept the duplicate id")
	}
}

func TestAssignIDsKeepsUniqueIDs(t *testing.T) {
	doc := map[string]any{
		"content": []any{
			map[string]any{"type": "hero", "props": map[string]any{"id": "a"}},
			map[string]any{"type": "footer", "props": map[string]any{"id": "b"}},
		},
		"zones": map[string]any{},
	}
	assignIDs(doc)

	first, _ := isRecord(doc["content"].([]any)[0].(map[string]any)["props"])
	second, _ := isRecord(doc["content"].([]any)[1].(map[string]any)["props"])
	if first["id"] != "a" || second["id"] != "b" {
		t.Fatalf("unique ids must be preserved: %#v %#v", first["id"], second["id"])
	}
}
