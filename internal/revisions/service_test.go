package revisions

import (
	"testing"
)

func TestCommitAndHistory(t *testing.T) {
	svc := New(t.TempDir())

	first, err := svc.CommitPage("site-1", "page-1", `{"content":[]}`, "Avery", "initial save")
	if err != nil {
		t.Fatalf("CommitPage failed: %v", err)
	}
	if first.Hash == "" {
		t.Fatal("expected commit hash")
	}
	if first.Author != "Avery" {
		t.Fatalf("author = %q", first.Author)
	}

	second, err := svc.CommitPage("site-1", "page-1", `{"content":["changed"]}`, "Avery", "second save")
	if err != nil {
		t.Fatalf("second CommitPage failed: %v", err)
	}
	if second.Hash == first.Hash {
		t.Fatal("expected a new commit for changed content")
	}

	history, err := svc.History("site-1", "page-1", 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(history))
	}
	if history[0].Hash != second.Hash {
		t.Fatalf("expected newest-first ordering")
	}
}

func TestCommitPageNoChangeReturnsHead(t *testing.T) {
	svc := New(t.TempDir())

	first, err := svc.CommitPage("site-1", "page-1", `{"content":[]}`, "Avery", "initial save")
	if err != nil {
		t.Fatalf("CommitPage failed: %v", err)
	}
	again, err := svc.CommitPage("site-1", "page-1", `{"content":[]}`, "Avery", "no-op save")
	if err != nil {
		t.Fatalf("no-op CommitPage failed: %v", err)
	}
	if again.Hash != first.Hash {
		t.Fatalf("expected head reuse for unchanged content, got %s and %s", first.Hash, again.Hash)
	}
}

func TestShowReturnsDocumentAtCommit(t *testing.T) {
	svc := New(t.TempDir())

	first, err := svc.CommitPage("site-1", "page-1", `{"v":1}`, "Avery", "save 1")
	if err != nil {
		t.Fatalf("CommitPage failed: %v", err)
	}
	if _, err := svc.CommitPage("site-1", "page-1", `{"v":2}`, "Avery", "save 2"); err != nil {
		t.Fatalf("CommitPage failed: %v", err)
	}

	doc, err := svc.Show("site-1", "page-1", first.Hash)
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if doc != `{"v":1}` {
		t.Fatalf("Show = %q, want original document", doc)
	}
}

func TestHistoryIsPerPage(t *testing.T) {
	svc := New(t.TempDir())

	if _, err := svc.CommitPage("site-1", "page-1", `{"v":1}`, "Avery", "save p1"); err != nil {
		t.Fatalf("CommitPage failed: %v", err)
	}
	if _, err := svc.CommitPage("site-1", "page-2", `{"v":1}`, "Avery", "save p2"); err != nil {
		t.Fatalf("CommitPage failed: %v", err)
	}

	history, err := svc.History("site-1", "page-1", 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected only page-1 commits, got %d", len(history))
	}
}
