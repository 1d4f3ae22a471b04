package search

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PgSearch is the always-available fallback: an ILIKE scan over page titles
// and slugs. No block-text search, but it keeps the endpoint working when
// Meilisearch is down.
type PgSearch struct {
	db *sql.DB
}

func NewPgSearch(db *sql.DB) *PgSearch {
	return &PgSearch{db: db}
}

func (p *PgSearch) Healthy() bool {
	return true
}

func (p *PgSearch) Search(q Query) ([]Result, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query, args := buildPageQuery(q)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pg search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.SiteID, &r.Title, &r.Slug, &r.Status); err != nil {
			return nil, 0, fmt.Errorf("scan search result: %w", err)
		}
		r.Snippet = r.Slug
		results = append(results, r)
	}
	return results, len(results), rows.Err()
}

// buildPageQuery assembles the fallback SQL. Limit and offset are clamped
// before interpolation; only the text and site id travel as bind parameters.
func buildPageQuery(q Query) (string, []any) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, site_id, title, slug, status
		FROM pages
		WHERE (title ILIKE '%' || $1 || '%' OR slug ILIKE '%' || $1 || '%')
	`
	args := []any{q.Text}
	if q.SiteID != "" {
		query += ` AND site_id = $2`
		args = append(args, q.SiteID)
	}
	query += fmt.Sprintf(` ORDER BY updated_at DESC LIMIT %d OFFSET %d`, limit, offset)
	return query, args
}
