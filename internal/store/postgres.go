package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("not found")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, role)
		VALUES ($1, LOWER($2), $3, $4, $5)
	`, user.ID, user.Email, user.DisplayName, user.PasswordHash, user.Role)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, role, created_at
		FROM users WHERE email = LOWER($1)
	`, email).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user by email: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, role, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) InsertSite(ctx context.Context, site Site) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sites (id, name, slug, tokens)
		VALUES ($1, $2, $3, NULLIF($4, ''))
	`, site.ID, site.Name, site.Slug, site.Tokens)
	if err != nil {
		return fmt.Errorf("insert site: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSite(ctx context.Context, siteID string) (Site, error) {
	var site Site
	var tokens sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, tokens, created_at, updated_at
		FROM sites WHERE id = $1
	`, siteID).Scan(&site.ID, &site.Name, &site.Slug, &tokens, &site.CreatedAt, &site.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Site{}, ErrNotFound
	}
	if err != nil {
		return Site{}, fmt.Errorf("lookup site: %w", err)
	}
	site.Tokens = tokens.String
	return site, nil
}

func (s *PostgresStore) ListSites(ctx context.Context) ([]Site, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, tokens, created_at, updated_at
		FROM sites ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []Site
	for rows.Next() {
		var site Site
		var tokens sql.NullString
		if err := rows.Scan(&site.ID, &site.Name, &site.Slug, &tokens, &site.CreatedAt, &site.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		site.Tokens = tokens.String
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (s *PostgresStore) UpdateSiteTokens(ctx context.Context, siteID, tokens string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sites SET tokens = NULLIF($2, ''), updated_at = NOW() WHERE id = $1
	`, siteID, tokens)
	if err != nil {
		return fmt.Errorf("update site tokens: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) InsertPage(ctx context.Context, page Page) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, site_id, title, slug, status, doc, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, page.ID, page.SiteID, page.Title, page.Slug, page.Status, page.Doc, page.UpdatedBy)
	if err != nil {
		return fmt.Errorf("insert page: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPage(ctx context.Context, pageID string) (Page, error) {
	var page Page
	err := s.db.QueryRowContext(ctx, `
		SELECT id, site_id, title, slug, status, doc, updated_by, created_at, updated_at
		FROM pages WHERE id = $1
	`, pageID).Scan(&page.ID, &page.SiteID, &page.Title, &page.Slug, &page.Status,
		&page.Doc, &page.UpdatedBy, &page.CreatedAt, &page.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Page{}, ErrNotFound
	}
	if err != nil {
		return Page{}, fmt.Errorf("lookup page: %w", err)
	}
	return page, nil
}

func (s *PostgresStore) ListPages(ctx context.Context, siteID string) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, title, slug, status, updated_by, created_at, updated_at
		FROM pages WHERE site_id = $1 ORDER BY created_at
	`, siteID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var page Page
		if err := rows.Scan(&page.ID, &page.SiteID, &page.Title, &page.Slug, &page.Status,
			&page.UpdatedBy, &page.CreatedAt, &page.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

func (s *PostgresStore) UpdatePageDoc(ctx context.Context, pageID, title, doc, updatedBy string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE pages SET title = $2, doc = $3, updated_by = $4, updated_at = NOW()
		WHERE id = $1
	`, pageID, title, doc, updatedBy)
	if err != nil {
		return fmt.Errorf("update page doc: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdatePageStatus(ctx context.Context, pageID, status string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE pages SET status = $2, updated_at = NOW() WHERE id = $1
	`, pageID, status)
	if err != nil {
		return fmt.Errorf("update page status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SearchPages(ctx context.Context, siteID, query string, limit int) ([]Page, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, title, slug, status, updated_by, created_at, updated_at
		FROM pages
		WHERE site_id = $1 AND (title ILIKE '%' || $2 || '%' OR slug ILIKE '%' || $2 || '%')
		ORDER BY updated_at DESC
		LIMIT $3
	`, siteID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		var page Page
		if err := rows.Scan(&page.ID, &page.SiteID, &page.Title, &page.Slug, &page.Status,
			&page.UpdatedBy, &page.CreatedAt, &page.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	const query = `
		SELECT u.id, u.email, u.display_name, u.role
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&user.ID, &user.Email, &user.DisplayName, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup refresh session: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}
