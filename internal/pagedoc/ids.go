package pagedoc

import "launchpage/api/internal/util"

// assignIDs walks the whole document (content first, then zones in sorted
// order) and guarantees every block has a non-empty props.id unique across
// the entire document, not merely within its subtree. Missing, empty, and
// duplicate ids are silently replaced with freshly minted ones; duplicates
// are expected transient state for copy/pasted content. Runs after template
// expansion and legacy migration, both of which produce id-less blocks.
func assignIDs(doc map[string]any) {
	seen := map[string]struct{}{}
	assignIDsValue(doc["content"], seen)
	if zones, ok := isRecord(doc["zones"]); ok {
		for _, zone := range sortedKeys(zones) {
			assignIDsValue(zones[zone], seen)
		}
	}
}

// assignIDsValue recurses into every enumerable field of every object and
// array, not only known children slots: slot fields are ordinary nested
// values with unpredictable key names. The seen set is threaded through the
// whole walk as an accumulator.
func assignIDsValue(v any, seen map[string]struct{}) {
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			assignIDsValue(item, seen)
		}
	case map[string]any:
		if props, ok := blockProps(val); ok {
			id, _ := props["id"].(string)
			if _, dup := seen[id]; id == "" || dup {
				id = util.NewID("blk")
				props["id"] = id
			}
			seen[id] = struct{}{}
		}
		for _, key := range sortedKeys(val) {
			assignIDsValue(val[key], seen)
		}
	}
}
