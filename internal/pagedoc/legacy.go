package pagedoc

import "strings"

// Context carries external inputs consulted by individual migrations. Only
// the footer logo inference reads it today; every other migration works from
// the document alone.
type Context struct {
	// DesignTokens is the site's design-system tokens object, when available.
	DesignTokens any
}

// A migrateFunc inspects a block's coerced config and returns the migrated
// replacement value, or nil when the config is already canonical or not
// recognizably legacy. Returning nil means "leave the block untouched" —
// ambiguous shapes are never rewritten.
type migrateFunc func(cfg map[string]any, mctx *Context) any

// migrations dispatches legacy-shape detection by block type. Each entry is
// independently unit-testable; unknown types simply have no entry.
var migrations = map[string]migrateFunc{
	"hero":           migrateHero,
	"whyItWorks":     migrateWhyItWorks,
	"logoMarquee":    migrateLogoMarquee,
	"pitch":          migratePitch,
	"reviewCarousel": migrateReviewCarousel,
	"footer":         migrateFooter,
}

// migrateTree walks every block reachable from v, depth-first, and applies
// the type-keyed migration to each block's coerced config. Map keys are
// visited in sorted order so the walk is deterministic.
func migrateTree(v any, mctx *Context) {
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			migrateTree(item, mctx)
		}
	case map[string]any:
		if props, ok := blockProps(val); ok {
			migrateBlock(stringField(val, "type"), props, mctx)
		}
		for _, key := range sortedKeys(val) {
			migrateTree(val[key], mctx)
		}
	}
}

func migrateBlock(blockType string, props map[string]any, mctx *Context) {
	migrate, ok := migrations[blockType]
	if !ok {
		return
	}
	cfg := blockConfig(props)
	if cfg == nil {
		return
	}
	migrated := migrate(cfg, mctx)
	if migrated == nil {
		return
	}
	writeConfig(props, migrated)
}

// blockProps recognizes the block shape {type: string, props: object} and
// returns the props bag.
func blockProps(rec map[string]any) (map[string]any, bool) {
	if t, ok := rec["type"].(string); !ok || t == "" {
		return nil, false
	}
	return isRecord(rec["props"])
}

// migrateHero converts flat headline/subheadline/image hero configs into the
// nested {hero:{title,subtitle,media}, badges} shape. A config that already
// carries hero.title/hero.subtitle and a badges array is canonical.
func migrateHero(cfg map[string]any, _ *Context) any {
	if hero, ok := isRecord(cfg["hero"]); ok {
		if hasAnyKey(hero, "title") && hasAnyKey(hero, "subtitle") {
			if _, ok := cfg["badges"].([]any); ok {
				return nil
			}
		}
	}
	if !hasAnyKey(cfg, "title", "headline", "subtitle", "subheadline", "image") {
		return nil
	}
	hero := map[string]any{
		"title":    firstString(cfg, "title", "headline"),
		"subtitle": firstString(cfg, "subtitle", "subheadline"),
	}
	if media := heroMedia(cfg["image"]); media != nil {
		hero["media"] = media
	}
	return map[string]any{
		"hero":   hero,
		"badges": []any{},
	}
}

// heroMedia derives the canonical media object from a legacy image object.
// An MP4 source marks it as video; anything else is treated as an image.
func heroMedia(v any) map[string]any {
	image, ok := isRecord(v)
	if !ok {
		return nil
	}
	if srcMp4 := stringField(image, "srcMp4"); srcMp4 != "" {
		media := map[string]any{"type": "video", "srcMp4": srcMp4}
		copyStringFields(media, image, "poster", "alt", "assetPublicId", "posterAssetPublicId")
		return media
	}
	media := map[string]any{"type": "image"}
	copyStringFields(media, image, "src", "alt", "assetPublicId")
	return media
}

func copyStringFields(dst, src map[string]any, keys ...string) {
	for _, key := range keys {
		if s := stringField(src, key); s != "" {
			dst[key] = s
		}
	}
}

// migrateWhyItWorks unwraps the legacy {reasons:[...]} object wrapper into
// the canonical bare array, normalizing each entry to {number,title,body}
// with an optional image. The canonical bare-array form never reaches this
// function because the config coercer only yields objects.
func migrateWhyItWorks(cfg map[string]any, _ *Context) any {
	reasons, ok := cfg["reasons"].([]any)
	if !ok {
		return nil
	}
	out := make([]any, 0, len(reasons))
	for i, item := range reasons {
		entry, ok := isRecord(item)
		if !ok {
			continue
		}
		reason := map[string]any{
			"title": firstString(entry, "title", "headline", "heading"),
			"body":  firstString(entry, "body", "text", "copy"),
		}
		if number, ok := entry["number"].(float64); ok {
			reason["number"] = number
		} else {
			reason["number"] = float64(i + 1)
		}
		if image := entry["image"]; image != nil {
			reason["image"] = image
		}
		out = append(out, reason)
	}
	return out
}

// migrateLogoMarquee unwraps the legacy {items:[...]} wrapper into the bare
// items array.
func migrateLogoMarquee(cfg map[string]any, _ *Context) any {
	items, ok := cfg["items"].([]any)
	if !ok {
		return nil
	}
	return items
}

// migratePitch rebuilds the canonical {title,bullets,image,cta?} shape from
// legacy title/headline + body/bullets + image configs. Both a title-ish
// field set and an image are required before the config qualifies as legacy.
func migratePitch(cfg map[string]any, _ *Context) any {
	_, hasBullets := cfg["bullets"].([]any)
	if hasBullets && !hasAnyKey(cfg, "body", "headline", "ctaLabel") {
		return nil
	}
	title := firstString(cfg, "title", "headline")
	if title == "" || cfg["image"] == nil {
		return nil
	}
	bullets := pitchBullets(cfg)
	if bullets == nil {
		return nil
	}
	out := map[string]any{
		"title":   title,
		"bullets": bullets,
		"image":   cfg["image"],
	}
	if label := stringField(cfg, "ctaLabel"); label != "" {
		cta := map[string]any{"label": label}
		if href := stringField(cfg, "ctaHref"); href != "" {
			cta["href"] = href
		}
		out["cta"] = cta
	}
	return out
}

// pitchBullets derives bullets from a bullets/body array, or by splitting a
// multi-line string body into non-empty trimmed lines, falling back to the
// whole trimmed string as a single bullet.
func pitchBullets(cfg map[string]any) []any {
	if bullets, ok := cfg["bullets"].([]any); ok {
		return bullets
	}
	if body, ok := cfg["body"].([]any); ok {
		return body
	}
	body, ok := cfg["body"].(string)
	if !ok {
		return nil
	}
	var bullets []any
	for _, line := range strings.Split(body, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			bullets = append(bullets, trimmed)
		}
	}
	if bullets == nil {
		if trimmed := strings.TrimSpace(body); trimmed != "" {
			bullets = []any{trimmed}
		} else {
			bullets = []any{}
		}
	}
	return bullets
}

// migrateReviewCarousel unwraps legacy {reviews:[...]} into {slides:[...]},
// promoting each slide's singular image into an images array. A config that
// already has a slides array is canonical.
func migrateReviewCarousel(cfg map[string]any, _ *Context) any {
	if _, ok := cfg["slides"].([]any); ok {
		return nil
	}
	reviews, ok := cfg["reviews"].([]any)
	if !ok {
		return nil
	}
	slides := make([]any, 0, len(reviews))
	for _, item := range reviews {
		review, ok := isRecord(item)
		if !ok {
			continue
		}
		slide := make(map[string]any, len(review)+1)
		for _, key := range sortedKeys(review) {
			if key != "image" {
				slide[key] = review[key]
			}
		}
		if image := review["image"]; image != nil {
			slide["images"] = []any{image}
		} else {
			slide["images"] = []any{}
		}
		slides = append(slides, slide)
	}
	out := map[string]any{"slides": slides}
	if ms, ok := cfg["autoAdvanceMs"].(float64); ok {
		out["autoAdvanceMs"] = ms
	}
	return out
}

// migrateFooter infers a brand logo from the site's design tokens for legacy
// footer configs that lack one. This is the only migration that depends on
// injected context; with no tokens available it leaves the block untouched so
// a later normalize with tokens can still repair it.
func migrateFooter(cfg map[string]any, mctx *Context) any {
	if logo, ok := isRecord(cfg["logo"]); ok {
		if _, ok := logo["alt"].(string); ok {
			return nil
		}
	}
	if !hasAnyKey(cfg, "links", "copyrightText", "logo", "image") {
		return nil
	}
	brand := brandTokens(mctx)
	if brand == nil {
		return nil
	}
	alt := firstString(brand, "logoAlt", "name")
	out := map[string]any{
		"copyrightText": stringField(cfg, "copyrightText"),
		"logo": map[string]any{
			"assetPublicId": stringField(brand, "logoAssetPublicId"),
			"alt":           alt,
		},
	}
	if links, ok := cfg["links"].([]any); ok {
		out["links"] = links
	} else {
		out["links"] = []any{}
	}
	return out
}

func brandTokens(mctx *Context) map[string]any {
	if mctx == nil {
		return nil
	}
	tokens, ok := isRecord(mctx.DesignTokens)
	if !ok {
		return nil
	}
	brand, ok := isRecord(tokens["brand"])
	if !ok {
		return nil
	}
	return brand
}
