package pagedoc

// Normalize accepts any JSON-compatible value — a stored page document, an
// editor draft, or a raw AI-generated candidate — and returns the canonical
// document. The input is never mutated and the result is a fresh tree, so
// concurrent calls share no state. Every stage is total: malformed fragments
// degrade to valid defaults or are left as close to the input as possible,
// and repeat application is idempotent.
//
// Stages, each reading only the previous stage's output:
//
//  1. structural defaulting on a deep clone of raw
//  2. composite template expansion over content
//  3. depth-first legacy-shape migration over content and zones
//  4. identifier assignment and dedup over content and zones
func Normalize(raw any, mctx *Context) map[string]any {
	doc := EnsureDocument(raw)

	if content, ok := doc["content"].([]any); ok {
		doc["content"] = expandComposites(content)
	}

	migrateTree(doc["content"], mctx)
	if zones, ok := isRecord(doc["zones"]); ok {
		for _, zone := range sortedKeys(zones) {
			migrateTree(zones[zone], mctx)
		}
	}

	assignIDs(doc)
	return doc
}
