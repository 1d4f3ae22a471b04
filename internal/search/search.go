package search

// Result is a single page hit returned to the caller.
type Result struct {
	ID      string `json:"id"`
	SiteID  string `json:"siteId"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Status  string `json:"status"`
	Snippet string `json:"snippet"`
}

// Query describes a page search request.
type Query struct {
	Text   string
	SiteID string
	Limit  int
	Offset int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// PageRecord is the data indexed for one page. Text is the plain text
// extracted from the page's normalized blocks, so block copy is searchable
// even though it lives inside config objects.
type PageRecord struct {
	ID     string `json:"id"`
	SiteID string `json:"siteId"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
	Text   string `json:"text"`
}

// Searcher can execute a page search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}
