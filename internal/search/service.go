package search

import "log"

// Service is the facade that tries Meilisearch first and falls back to the
// Postgres scan.
type Service struct {
	meili *Meili
	pg    *PgSearch
}

// NewService creates a search service. meili may be nil when Meilisearch is
// not configured.
func NewService(meili *Meili, pg *PgSearch) *Service {
	return &Service{meili: meili, pg: pg}
}

// Search tries Meilisearch if healthy, otherwise falls back to Postgres.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to postgres: %v", err)
	}

	results, total, err := s.pg.Search(q)
	if err != nil {
		log.Printf("search: postgres error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexPage indexes a page (fire-and-forget to Meilisearch).
func (s *Service) IndexPage(record PageRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexPage(record); err != nil {
			log.Printf("search: index page %s: %v", record.ID, err)
		}
	}()
}

// DeletePage removes a page from the search index (fire-and-forget).
func (s *Service) DeletePage(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeletePage(id); err != nil {
			log.Printf("search: delete page %s: %v", id, err)
		}
	}()
}

func nonNil(results []Result) []Result {
	if results == nil {
		return []Result{}
	}
	return results
}
