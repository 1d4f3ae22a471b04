package cache

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestCache(t *testing.T) (*DocumentCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	c, err := New("redis://"+s.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return c, s
}

func TestSetAndGetDocument(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	ctx := context.Background()
	doc := map[string]any{
		"root":    map[string]any{"props": map[string]any{"title": "Landing", "description": ""}},
		"content": []any{},
		"zones":   map[string]any{},
	}

	if err := c.SetDocument(ctx, "page-1", doc); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}
	got := c.GetDocument(ctx, "page-1")
	if !reflect.DeepEqual(got, doc) {
		t.Fatalf("GetDocument = %#v, want %#v", got, doc)
	}
}

func TestGetDocumentMiss(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	if got := c.GetDocument(context.Background(), "nope"); got != nil {
		t.Fatalf("expected nil on miss, got %#v", got)
	}
}

func TestInvalidate(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	ctx := context.Background()
	doc := map[string]any{"content": []any{}}
	if err := c.SetDocument(ctx, "page-1", doc); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}
	if err := c.Invalidate(ctx, "page-1"); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if got := c.GetDocument(ctx, "page-1"); got != nil {
		t.Fatalf("expected nil after invalidation, got %#v", got)
	}
}

func TestDocumentExpires(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()
	c, err := New("redis://"+s.Addr(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.SetDocument(ctx, "page-1", map[string]any{"content": []any{}}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}
	s.FastForward(100 * time.Millisecond)
	if got := c.GetDocument(ctx, "page-1"); got != nil {
		t.Fatalf("expected nil after TTL, got %#v", got)
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, s := setupTestCache(t)
	defer c.Close()
	defer s.Close()

	s.Set("page:page-1:doc", "{not json")
	if got := c.GetDocument(context.Background(), "page-1"); got != nil {
		t.Fatalf("expected corrupt entry to read as miss, got %#v", got)
	}
}
