package pagedoc

import "encoding/json"

// coerceConfig resolves a block's effective configuration from its dual
// object/string storage. The object field wins when both are present: it
// reflects the live editor state, the string field is a cached mirror.
// Returns nil when no usable structured config exists. Never panics; parse
// failures degrade to nil.
func coerceConfig(objectField, stringField any) map[string]any {
	if rec, ok := isRecord(objectField); ok {
		return rec
	}
	raw, ok := stringField.(string)
	if !ok || raw == "" {
		return nil
	}
	if rec, ok := isRecord(parseJSONMaybeNested(raw)); ok {
		return rec
	}
	return nil
}

// blockConfig reads the coerced config for a block's props bag.
func blockConfig(props map[string]any) map[string]any {
	return coerceConfig(props["config"], props["configJson"])
}

// writeConfig stores cfg as the block's config and, when a configJson string
// mirror was originally present, re-serializes it so the mirror never goes
// stale relative to the object field.
func writeConfig(props map[string]any, cfg any) {
	props["config"] = cfg
	if _, hadMirror := props["configJson"].(string); hadMirror {
		if encoded, err := json.Marshal(cfg); err == nil {
			props["configJson"] = string(encoded)
		}
	}
}
