package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"launchpage/api/internal/auth"
	"launchpage/api/internal/store"
)

func seedUser(t *testing.T, fs *fakeStore, role string) store.User {
	t.Helper()
	hash, err := auth.HashPassword("supersecret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := store.User{
		ID:           "usr-" + role,
		Email:        role + "@example.com",
		DisplayName:  "Test " + role,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	fs.users[user.ID] = user
	return user
}

func signIn(t *testing.T, server *HTTPServer, email string) string {
	t.Helper()
	body := bytes.NewBufferString(`{"email":"` + email + `","password":"supersecret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", body)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("signin failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse signin response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}
	return token
}

func authedRequest(method, target, token string, body string) *http.Request {
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSignUpReturnsSessionContract(t *testing.T) {
	fs := newFakeStore()
	server := NewHTTPServer(newTestService(fs), "*")

	body := bytes.NewBufferString(`{"email":"avery@example.com","password":"supersecret","displayName":"Avery"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", body)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload["token"] == "" || payload["refreshToken"] == "" {
		t.Fatalf("expected session tokens, got %v", payload)
	}
	if payload["userName"] != "Avery" {
		t.Fatalf("userName = %v", payload["userName"])
	}
	if payload["role"] != "editor" {
		t.Fatalf("role = %v", payload["role"])
	}
}

func TestProtectedRouteWithoutBearerReturnsUnauthorized(t *testing.T) {
	server := NewHTTPServer(newTestService(newFakeStore()), "*")

	req := httptest.NewRequest(http.MethodGet, "/api/sites", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestViewerCannotSavePage(t *testing.T) {
	fs := newFakeStore()
	seedSite(fs, "")
	seedPage(fs, `{"content":[]}`)
	seedUser(t, fs, "viewer")
	server := NewHTTPServer(newTestService(fs), "*")
	token := signIn(t, server, "viewer@example.com")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(http.MethodPut, "/api/pages/page-1", token, `{"doc":{"content":[]}}`))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	// Reading stays allowed.
	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(http.MethodGet, "/api/pages/page-1", token, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestEditorCannotPublish(t *testing.T) {
	fs := newFakeStore()
	seedSite(fs, "")
	seedPage(fs, `{"content":[]}`)
	seedUser(t, fs, "editor")
	server := NewHTTPServer(newTestService(fs), "*")
	token := signIn(t, server, "editor@example.com")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(http.MethodPost, "/api/pages/page-1/publish", token, ""))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPageLifecycleOverHTTP(t *testing.T) {
	fs := newFakeStore()
	seedSite(fs, "")
	seedUser(t, fs, "owner")
	server := NewHTTPServer(newTestService(fs), "*")
	token := signIn(t, server, "owner@example.com")

	// Create a page in the site.
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(http.MethodPost, "/api/sites/site-1/pages", token, `{"title":"Spring Launch"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create page: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("parse create response: %v", err)
	}
	pageID, _ := created["id"].(string)
	if pageID == "" {
		t.Fatal("expected a page id")
	}

	// Save a legacy-shaped document; the response carries the normalized view.
	saveBody := `{"doc":{"content":[{"type":"hero","props":{"config":{"headline":"Hi"}}}]}}`
	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(http.MethodPut, "/api/pages/"+pageID, token, saveBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("save page: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var saved map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &saved); err != nil {
		t.Fatalf("parse save response: %v", err)
	}
	doc := saved["doc"].(map[string]any)
	hero := doc["content"].([]any)[0].(map[string]any)
	cfg := hero["props"].(map[string]any)["config"].(map[string]any)
	if _, ok := cfg["hero"].(map[string]any); !ok {
		t.Fatalf("expected normalized hero config, got %v", cfg)
	}

	// The stored document keeps the legacy shape.
	page, err := fs.GetPage(context.Background(), pageID)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if page.Doc != `{"content":[{"type":"hero","props":{"config":{"headline":"Hi"}}}]}` {
		t.Fatalf("stored doc = %s", page.Doc)
	}

	// Publish.
	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(http.MethodPost, "/api/pages/"+pageID+"/publish", token, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if got, _ := fs.GetPage(context.Background(), pageID); got.Status != store.PageStatusPublished {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	fs := newFakeStore()
	seedUser(t, fs, "viewer")
	server := NewHTTPServer(newTestService(fs), "*")
	token := signIn(t, server, "viewer@example.com")

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, authedRequest(http.MethodGet, "/api/unknown", token, ""))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
