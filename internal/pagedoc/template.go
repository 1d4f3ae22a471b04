package pagedoc

import "launchpage/api/internal/util"

// expandComposites replaces retired monolithic template blocks in the
// top-level content array with a "page" wrapper block holding the current
// generation's granular sibling blocks. Nested zones are not scanned; the
// composite generation only ever wrote to content. When nothing matches, the
// original slice is returned unchanged so callers can skip further work with
// a reference comparison.
func expandComposites(content []any) []any {
	out := content
	expanded := false
	for i, item := range content {
		block, ok := isRecord(item)
		if !ok {
			continue
		}
		props, ok := blockProps(block)
		if !ok {
			continue
		}
		var replacement map[string]any
		switch stringField(block, "type") {
		case "salesPageTemplate":
			replacement = expandSalesPage(props)
		case "listicleTemplate":
			replacement = expandListicle(props)
		default:
			continue
		}
		if replacement == nil {
			continue
		}
		if !expanded {
			out = make([]any, len(content))
			copy(out, content)
			expanded = true
		}
		out[i] = replacement
	}
	return out
}

// expandSalesPage splits a sales-page template config into the fixed ordered
// set of granular section blocks. Returns nil (block left untouched) when no
// usable config exists.
func expandSalesPage(props map[string]any) map[string]any {
	cfg := blockConfig(props)
	if cfg == nil {
		return nil
	}
	hero, _ := isRecord(cfg["hero"])
	story, _ := isRecord(cfg["story"])
	reviewWall, _ := isRecord(cfg["reviewWall"])
	guarantee, _ := isRecord(cfg["guarantee"])

	var headerCfg any
	heroCfg := map[string]any{}
	if hero != nil {
		headerCfg = hero["header"]
		for _, key := range sortedKeys(hero) {
			if key != "header" {
				heroCfg[key] = hero[key]
			}
		}
	}
	var problemCfg, solutionCfg any
	if story != nil {
		problemCfg = story["problem"]
		solutionCfg = story["solution"]
	}

	guaranteeBlock := newSectionBlock("guarantee", cloneSection(guarantee))
	guaranteeProps, _ := isRecord(guaranteeBlock["props"])
	guaranteeProps["feedImages"] = reviewWallImages(reviewWall)

	children := []any{
		newSectionBlock("header", headerCfg),
		newSectionBlock("hero", heroCfg),
		newSectionBlock("problem", problemCfg),
		newSectionBlock("solution", solutionCfg),
		newSectionBlock("reviewWall", cfg["reviewWall"]),
		newSectionBlock("offer", cfg["offer"]),
		guaranteeBlock,
		newSectionBlock("faq", cfg["faq"]),
		newSectionBlock("footer", cfg["footer"]),
	}
	return newPageBlock(props, children)
}

// expandListicle splits a pre-sales listicle template config into its
// granular section blocks.
func expandListicle(props map[string]any) map[string]any {
	cfg := blockConfig(props)
	if cfg == nil {
		return nil
	}
	items, ok := cfg["items"].([]any)
	if !ok {
		items = []any{}
	}
	children := []any{
		newSectionBlock("header", cfg["header"]),
		newSectionBlock("listicleIntro", cfg["intro"]),
		newSectionBlock("listicleItems", map[string]any{"items": items}),
		newSectionBlock("cta", cfg["cta"]),
		newSectionBlock("footer", cfg["footer"]),
	}
	return newPageBlock(props, children)
}

// newPageBlock wraps the expanded children in a page block carrying over the
// composite's theme and anchor metadata.
func newPageBlock(composite map[string]any, children []any) map[string]any {
	pageProps := map[string]any{
		"id":       util.NewID("blk"),
		"children": children,
	}
	for _, key := range []string{"theme", "anchor"} {
		if v, ok := composite[key]; ok {
			pageProps[key] = v
		}
	}
	return map[string]any{
		"type":  "page",
		"props": pageProps,
	}
}

// newSectionBlock builds a granular block around one slice of the composite
// config. A missing slice becomes an empty config object so the canonical
// config-is-an-object invariant holds for every expanded block.
func newSectionBlock(blockType string, cfg any) map[string]any {
	section, ok := isRecord(cfg)
	if !ok {
		section = map[string]any{}
	}
	return map[string]any{
		"type": blockType,
		"props": map[string]any{
			"id":     util.NewID("blk"),
			"config": section,
		},
	}
}

func cloneSection(rec map[string]any) map[string]any {
	if rec == nil {
		return map[string]any{}
	}
	out, _ := cloneValue(rec).(map[string]any)
	return out
}

// reviewWallImages collects each tile's image in original order, skipping
// tiles without one.
func reviewWallImages(reviewWall map[string]any) []any {
	images := []any{}
	if reviewWall == nil {
		return images
	}
	tiles, ok := reviewWall["tiles"].([]any)
	if !ok {
		return images
	}
	for _, item := range tiles {
		tile, ok := isRecord(item)
		if !ok {
			continue
		}
		if image := tile["image"]; image != nil {
			images = append(images, image)
		}
	}
	return images
}
