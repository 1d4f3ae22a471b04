package pagedoc

// EnsureDocument coerces an arbitrary value into the structural shape the
// editor expects: root.props.title and root.props.description as strings,
// content as an array, zones as an object. The input is deep-cloned first and
// never mutated. Non-object input degrades to the minimal empty document.
func EnsureDocument(raw any) map[string]any {
	rec, ok := isRecord(raw)
	if !ok {
		return emptyDocument()
	}
	doc, _ := cloneValue(rec).(map[string]any)

	root, ok := isRecord(doc["root"])
	if !ok {
		root = map[string]any{}
		doc["root"] = root
	}
	props, ok := isRecord(root["props"])
	if !ok {
		props = map[string]any{}
		root["props"] = props
	}
	if _, ok := props["title"].(string); !ok {
		props["title"] = ""
	}
	if _, ok := props["description"].(string); !ok {
		props["description"] = ""
	}
	if _, ok := doc["content"].([]any); !ok {
		doc["content"] = []any{}
	}
	if _, ok := isRecord(doc["zones"]); !ok {
		doc["zones"] = map[string]any{}
	}
	return doc
}

func emptyDocument() map[string]any {
	return map[string]any{
		"root": map[string]any{
			"props": map[string]any{
				"title":       "",
				"description": "",
			},
		},
		"content": []any{},
		"zones":   map[string]any{},
	}
}
