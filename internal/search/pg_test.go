package search

import (
	"strings"
	"testing"
)

func TestBuildPageQueryClampsWindow(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		wantLimit  string
		wantOffset string
	}{
		{"defaults", Query{Text: "launch"}, "LIMIT 20", "OFFSET 0"},
		{"negative offset", Query{Text: "launch", Offset: -1}, "LIMIT 20", "OFFSET 0"},
		{"negative limit", Query{Text: "launch", Limit: -5}, "LIMIT 20", "OFFSET 0"},
		{"oversized limit", Query{Text: "launch", Limit: 500}, "LIMIT 20", "OFFSET 0"},
		{"explicit window", Query{Text: "launch", Limit: 10, Offset: 30}, "LIMIT 10", "OFFSET 30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _ := buildPageQuery(tt.query)
			if !strings.Contains(query, tt.wantLimit) {
				t.Errorf("query missing %q:\n%s", tt.wantLimit, query)
			}
			if !strings.Contains(query, tt.wantOffset) {
				t.Errorf("query missing %q:\n%s", tt.wantOffset, query)
			}
		})
	}
}

func TestBuildPageQuerySiteFilter(t *testing.T) {
	query, args := buildPageQuery(Query{Text: "launch", SiteID: "site-1"})
	if !strings.Contains(query, "site_id = $2") {
		t.Errorf("expected a site filter:\n%s", query)
	}
	if len(args) != 2 || args[1] != "site-1" {
		t.Errorf("args = %v", args)
	}

	query, args = buildPageQuery(Query{Text: "launch"})
	if strings.Contains(query, "site_id") {
		t.Errorf("unexpected site filter:\n%s", query)
	}
	if len(args) != 1 {
		t.Errorf("args = %v", args)
	}
}
