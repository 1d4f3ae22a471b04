package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"launchpage/api/internal/assets"
	"launchpage/api/internal/auth"
	"launchpage/api/internal/cache"
	"launchpage/api/internal/config"
	"launchpage/api/internal/pagedoc"
	"launchpage/api/internal/preview"
	"launchpage/api/internal/rbac"
	"launchpage/api/internal/render"
	"launchpage/api/internal/revisions"
	"launchpage/api/internal/search"
	"launchpage/api/internal/store"
	"launchpage/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Role         string
	JTI          string
	ExpiresAt    time.Time
}

type dataStore interface {
	Ping(ctx context.Context) error
	CreateUser(context.Context, store.User) error
	GetUserByEmail(context.Context, string) (store.User, error)
	GetUserByID(context.Context, string) (store.User, error)
	InsertSite(context.Context, store.Site) error
	GetSite(context.Context, string) (store.Site, error)
	ListSites(context.Context) ([]store.Site, error)
	UpdateSiteTokens(context.Context, string, string) error
	InsertPage(context.Context, store.Page) error
	GetPage(context.Context, string) (store.Page, error)
	ListPages(context.Context, string) ([]store.Page, error)
	UpdatePageDoc(context.Context, string, string, string, string) error
	UpdatePageStatus(context.Context, string, string) error
	SaveRefreshSession(context.Context, string, string, time.Time) error
	LookupRefreshSession(context.Context, string) (store.User, error)
	RevokeRefreshSession(context.Context, string) error
}

type revisionLog interface {
	CommitPage(siteID, pageID, docJSON, author, message string) (revisions.CommitInfo, error)
	History(siteID, pageID string, limit int) ([]revisions.CommitInfo, error)
	Show(siteID, pageID, hash string) (string, error)
}

type Service struct {
	cfg       config.Config
	store     dataStore
	cache     *cache.DocumentCache
	search    *search.Service
	revisions revisionLog
	assets    *assets.Store
}

func New(cfg config.Config, dataStore *store.PostgresStore, docCache *cache.DocumentCache, searchSvc *search.Service, revisionSvc *revisions.Service, assetStore *assets.Store) *Service {
	svc := &Service{
		cfg:    cfg,
		store:  dataStore,
		cache:  docCache,
		search: searchSvc,
		assets: assetStore,
	}
	if revisionSvc != nil {
		svc.revisions = revisionSvc
	}
	return svc
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// SignUp registers a user with email/password. New accounts get the editor
// role; owners are promoted out of band.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "a valid email is required", nil)
	}
	if len(password) < 8 {
		return Session{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "password must be at least 8 characters", nil)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return Session{}, domainError(http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists", nil)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	user := store.User{
		ID:           util.NewID("usr"),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         string(rbac.RoleEditor),
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	return s.issueSession(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a fresh
// session is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	user, err := s.store.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, domainError(http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token invalid", nil)
	}
	if err := s.store.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		_ = s.store.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.TokenSecret), auth.Claims{
		Sub:  user.ID,
		Name: user.DisplayName,
		Role: user.Role,
		JTI:  jti,
		Exp:  expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	if err := s.store.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, now.Add(s.cfg.RefreshTTL)); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		Role:         user.Role,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.TokenSecret), token)
	if err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		Role:      user.Role,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) CreateSite(ctx context.Context, name, slug, tokensJSON string) (map[string]any, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "name is required", nil)
	}
	slug = normalizeSlug(slug)
	if slug == "" {
		slug = normalizeSlug(name)
	}
	if tokensJSON != "" && !validJSONObject(tokensJSON) {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "tokens must be a JSON object", nil)
	}

	now := time.Now()
	site := store.Site{
		ID:        util.NewID("site"),
		Name:      name,
		Slug:      slug,
		Tokens:    tokensJSON,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertSite(ctx, site); err != nil {
		return nil, err
	}
	return siteResponse(site), nil
}

func (s *Service) GetSite(ctx context.Context, siteID string) (map[string]any, error) {
	site, err := s.store.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return siteResponse(site), nil
}

func (s *Service) ListSites(ctx context.Context) ([]map[string]any, error) {
	sites, err := s.store.ListSites(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(sites))
	for _, site := range sites {
		items = append(items, siteResponse(site))
	}
	return items, nil
}

// UpdateSiteTokens replaces a site's design-system tokens. Cached documents
// for the site are dropped because token changes feed block migrations.
func (s *Service) UpdateSiteTokens(ctx context.Context, siteID, tokensJSON string) (map[string]any, error) {
	if tokensJSON != "" && !validJSONObject(tokensJSON) {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "tokens must be a JSON object", nil)
	}
	if _, err := s.store.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSiteTokens(ctx, siteID, tokensJSON); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if pages, err := s.store.ListPages(ctx, siteID); err == nil {
			for _, page := range pages {
				_ = s.cache.Invalidate(ctx, page.ID)
			}
		}
	}
	site, err := s.store.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return siteResponse(site), nil
}

func (s *Service) CreatePage(ctx context.Context, siteID, title, slug, userName string) (map[string]any, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "title is required", nil)
	}
	if _, err := s.store.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	slug = normalizeSlug(slug)
	if slug == "" {
		slug = normalizeSlug(title)
	}

	doc, err := json.Marshal(map[string]any{
		"root":    map[string]any{"props": map[string]any{"title": title, "description": ""}},
		"content": []any{},
		"zones":   map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal empty document: %w", err)
	}

	now := time.Now()
	page := store.Page{
		ID:        util.NewID("pg"),
		SiteID:    siteID,
		Title:     title,
		Slug:      slug,
		Status:    store.PageStatusDraft,
		Doc:       string(doc),
		UpdatedBy: userName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertPage(ctx, page); err != nil {
		return nil, err
	}
	s.indexPage(page, pagedoc.Normalize(parseDoc(page.Doc), nil))
	return pageResponse(page, nil), nil
}

func (s *Service) ListPages(ctx context.Context, siteID string) ([]map[string]any, error) {
	pages, err := s.store.ListPages(ctx, siteID)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(pages))
	for _, page := range pages {
		items = append(items, pageResponse(page, nil))
	}
	return items, nil
}

// GetPage loads a page and returns it with its normalized document. The
// stored document is never rewritten; normalization is applied per read. A
// cache hit skips both the document parse and the normalization pass.
func (s *Service) GetPage(ctx context.Context, pageID string) (map[string]any, error) {
	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if doc := s.cache.GetDocument(ctx, pageID); doc != nil {
			return pageResponse(page, doc), nil
		}
	}

	doc, err := s.normalizedDoc(ctx, page)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetDocument(ctx, pageID, doc)
	}
	return pageResponse(page, doc), nil
}

// SavePage persists the submitted document byte for byte and returns the
// normalized view. Legacy shapes survive in storage; only reads see the
// canonical form.
func (s *Service) SavePage(ctx context.Context, pageID string, rawDoc json.RawMessage, session Session) (map[string]any, error) {
	var parsed any
	if err := json.Unmarshal(rawDoc, &parsed); err != nil {
		return nil, domainError(http.StatusBadRequest, "INVALID_BODY", "doc must be valid JSON", nil)
	}

	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	mctx, err := s.migrationContext(ctx, page.SiteID)
	if err != nil {
		return nil, err
	}
	doc := pagedoc.Normalize(parsed, mctx)

	title := docTitle(doc)
	if title == "" {
		title = page.Title
	}
	if err := s.store.UpdatePageDoc(ctx, pageID, title, string(rawDoc), session.UserName); err != nil {
		return nil, err
	}
	page.Title = title
	page.Doc = string(rawDoc)
	page.UpdatedBy = session.UserName
	page.UpdatedAt = time.Now()

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, pageID)
	}
	s.commitRevision(page, session.UserName, "save page")
	s.indexPage(page, doc)
	return pageResponse(page, doc), nil
}

// ApplyDraft accepts a machine-generated draft document. Unlike SavePage the
// candidate is normalized before it is stored, so drafts never introduce
// legacy shapes into the database.
func (s *Service) ApplyDraft(ctx context.Context, pageID string, candidate json.RawMessage, session Session) (map[string]any, error) {
	var parsed any
	if err := json.Unmarshal(candidate, &parsed); err != nil {
		return nil, domainError(http.StatusBadRequest, "INVALID_BODY", "draft must be valid JSON", nil)
	}

	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	mctx, err := s.migrationContext(ctx, page.SiteID)
	if err != nil {
		return nil, err
	}
	doc := pagedoc.Normalize(parsed, mctx)
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal normalized draft: %w", err)
	}

	title := docTitle(doc)
	if title == "" {
		title = page.Title
	}
	if err := s.store.UpdatePageDoc(ctx, pageID, title, string(encoded), session.UserName); err != nil {
		return nil, err
	}
	page.Title = title
	page.Doc = string(encoded)
	page.UpdatedBy = session.UserName
	page.UpdatedAt = time.Now()

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, pageID)
	}
	s.commitRevision(page, session.UserName, "apply draft")
	s.indexPage(page, doc)
	return pageResponse(page, doc), nil
}

func (s *Service) SetPageStatus(ctx context.Context, pageID, status string) (map[string]any, error) {
	if status != store.PageStatusDraft && status != store.PageStatusPublished {
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "status must be draft or published", nil)
	}
	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdatePageStatus(ctx, pageID, status); err != nil {
		return nil, err
	}
	page.Status = status
	doc, err := s.normalizedDoc(ctx, page)
	if err != nil {
		return nil, err
	}
	s.indexPage(page, doc)
	return pageResponse(page, nil), nil
}

func (s *Service) SearchPages(ctx context.Context, q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	return s.search.Search(q)
}

func (s *Service) PageRevisions(ctx context.Context, pageID string, limit int) ([]revisions.CommitInfo, error) {
	if s.revisions == nil {
		return nil, domainError(http.StatusServiceUnavailable, "REVISIONS_UNAVAILABLE", "Revision history not configured", nil)
	}
	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	history, err := s.revisions.History(page.SiteID, pageID, limit)
	if err != nil {
		return nil, err
	}
	return history, nil
}

// PageRevisionDoc returns the normalized view of a page as of an old commit.
func (s *Service) PageRevisionDoc(ctx context.Context, pageID, hash string) (map[string]any, error) {
	if s.revisions == nil {
		return nil, domainError(http.StatusServiceUnavailable, "REVISIONS_UNAVAILABLE", "Revision history not configured", nil)
	}
	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	docJSON, err := s.revisions.Show(page.SiteID, pageID, hash)
	if err != nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Revision not found", nil)
	}
	mctx, err := s.migrationContext(ctx, page.SiteID)
	if err != nil {
		return nil, err
	}
	return pagedoc.Normalize(parseDoc(docJSON), mctx), nil
}

// PreviewPage renders the normalized page to HTML and screenshots it with
// headless Chrome.
func (s *Service) PreviewPage(ctx context.Context, pageID string) (*preview.Result, error) {
	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	doc, err := s.normalizedDoc(ctx, page)
	if err != nil {
		return nil, err
	}
	result, err := preview.Screenshot(ctx, render.PageHTML(doc))
	if err != nil {
		if errors.Is(err, preview.ErrChromeMissing) {
			return nil, domainError(http.StatusServiceUnavailable, "PREVIEW_UNAVAILABLE", "Preview rendering not available", nil)
		}
		return nil, err
	}
	return result, nil
}

func (s *Service) UploadAsset(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	if s.assets == nil {
		return "", domainError(http.StatusServiceUnavailable, "ASSETS_UNAVAILABLE", "Asset storage not configured", nil)
	}
	return s.assets.Put(ctx, reader, size, contentType)
}

func (s *Service) AssetURL(ctx context.Context, publicID string) (string, error) {
	if s.assets == nil {
		return "", domainError(http.StatusServiceUnavailable, "ASSETS_UNAVAILABLE", "Asset storage not configured", nil)
	}
	return s.assets.PresignedURL(ctx, publicID, time.Hour)
}

func (s *Service) normalizedDoc(ctx context.Context, page store.Page) (map[string]any, error) {
	mctx, err := s.migrationContext(ctx, page.SiteID)
	if err != nil {
		return nil, err
	}
	return pagedoc.Normalize(parseDoc(page.Doc), mctx), nil
}

func (s *Service) migrationContext(ctx context.Context, siteID string) (*pagedoc.Context, error) {
	site, err := s.store.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if site.Tokens == "" {
		return &pagedoc.Context{}, nil
	}
	var tokens any
	if err := json.Unmarshal([]byte(site.Tokens), &tokens); err != nil {
		return &pagedoc.Context{}, nil
	}
	return &pagedoc.Context{DesignTokens: tokens}, nil
}

func (s *Service) commitRevision(page store.Page, author, message string) {
	if s.revisions == nil {
		return
	}
	if _, err := s.revisions.CommitPage(page.SiteID, page.ID, page.Doc, author, message); err != nil {
		// Revision history is best effort; the save already succeeded.
		log.Printf("commit page revision %s: %v", page.ID, err)
	}
}

func (s *Service) indexPage(page store.Page, doc map[string]any) {
	if s.search == nil {
		return
	}
	s.search.IndexPage(search.PageRecord{
		ID:     page.ID,
		SiteID: page.SiteID,
		Title:  page.Title,
		Slug:   page.Slug,
		Status: page.Status,
		Text:   search.ExtractText(doc),
	})
}

func parseDoc(docJSON string) any {
	var parsed any
	if err := json.Unmarshal([]byte(docJSON), &parsed); err != nil {
		return nil
	}
	return parsed
}

func docTitle(doc map[string]any) string {
	root, _ := doc["root"].(map[string]any)
	props, _ := root["props"].(map[string]any)
	title, _ := props["title"].(string)
	return strings.TrimSpace(title)
}

func siteResponse(site store.Site) map[string]any {
	var tokens any
	if site.Tokens != "" {
		_ = json.Unmarshal([]byte(site.Tokens), &tokens)
	}
	return map[string]any{
		"id":        site.ID,
		"name":      site.Name,
		"slug":      site.Slug,
		"tokens":    tokens,
		"createdAt": site.CreatedAt.Unix(),
		"updatedAt": site.UpdatedAt.Unix(),
	}
}

func pageResponse(page store.Page, doc map[string]any) map[string]any {
	response := map[string]any{
		"id":        page.ID,
		"siteId":    page.SiteID,
		"title":     page.Title,
		"slug":      page.Slug,
		"status":    page.Status,
		"updatedBy": page.UpdatedBy,
		"createdAt": page.CreatedAt.Unix(),
		"updatedAt": page.UpdatedAt.Unix(),
	}
	if doc != nil {
		response["doc"] = doc
	}
	return response
}

func validJSONObject(raw string) bool {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return false
	}
	_, ok := parsed.(map[string]any)
	return ok
}

func normalizeSlug(input string) string {
	var out strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				out.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(out.String(), "-")
}
