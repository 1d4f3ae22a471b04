// Package render turns a normalized page document into the minimal HTML used
// for previews. It is not the production renderer (the editor frontend owns
// that); it only needs to be faithful enough for screenshots.
package render

import (
	"fmt"
	"html"
	"strings"
)

// PageHTML renders a normalized document. Total over malformed input: an
// unexpected shape renders as nothing rather than failing.
func PageHTML(doc map[string]any) string {
	root, _ := doc["root"].(map[string]any)
	title := ""
	if props, ok := root["props"].(map[string]any); ok {
		title, _ = props["title"].(string)
	}

	var body strings.Builder
	if content, ok := doc["content"].([]any); ok {
		body.WriteString(renderBlocks(content))
	}

	return fmt.Sprintf(
		"<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n%s</body></html>\n",
		html.EscapeString(title), body.String())
}

func renderBlocks(blocks []any) string {
	var out strings.Builder
	for _, item := range blocks {
		if block, ok := item.(map[string]any); ok {
			out.WriteString(renderBlock(block))
		}
	}
	return out.String()
}

func renderBlock(block map[string]any) string {
	blockType, _ := block["type"].(string)
	props, _ := block["props"].(map[string]any)
	if blockType == "" || props == nil {
		return ""
	}
	cfg, _ := props["config"].(map[string]any)

	switch blockType {
	case "page":
		children, _ := props["children"].([]any)
		return fmt.Sprintf("<main>\n%s</main>\n", renderBlocks(children))
	case "header":
		return "<header></header>\n"
	case "hero":
		hero, _ := cfg["hero"].(map[string]any)
		title := configString(hero, "title")
		subtitle := configString(hero, "subtitle")
		return fmt.Sprintf("<section class=\"hero\"><h1>%s</h1><p>%s</p></section>\n",
			html.EscapeString(title), html.EscapeString(subtitle))
	case "problem", "solution", "offer", "guarantee", "faq", "reviewWall", "listicleIntro":
		return fmt.Sprintf("<section class=\"%s\"><h2>%s</h2></section>\n",
			blockType, html.EscapeString(configString(cfg, "title")))
	case "pitch":
		var bullets strings.Builder
		if items, ok := cfg["bullets"].([]any); ok {
			for _, item := range items {
				if s, ok := item.(string); ok {
					bullets.WriteString(fmt.Sprintf("<li>%s</li>", html.EscapeString(s)))
				}
			}
		}
		return fmt.Sprintf("<section class=\"pitch\"><h2>%s</h2><ul>%s</ul></section>\n",
			html.EscapeString(configString(cfg, "title")), bullets.String())
	case "cta":
		return fmt.Sprintf("<section class=\"cta\"><a>%s</a></section>\n",
			html.EscapeString(configString(cfg, "label")))
	case "footer":
		return fmt.Sprintf("<footer><p>%s</p></footer>\n",
			html.EscapeString(configString(cfg, "copyrightText")))
	default:
		// Unknown block type - render nested children if any
		if children, ok := props["children"].([]any); ok {
			return renderBlocks(children)
		}
		return ""
	}
}

func configString(cfg map[string]any, key string) string {
	if cfg == nil {
		return ""
	}
	s, _ := cfg[key].(string)
	return s
}
