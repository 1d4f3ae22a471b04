// Package revisions keeps a git-backed history of page documents: one
// repository per site, one JSON file per page, one commit per save.
package revisions

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type CommitInfo struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Message string    `json:"message"`
	When    time.Time `json:"when"`
}

type Service struct {
	baseDir string
	lockMu  sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(baseDir string) *Service {
	return &Service{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// CommitPage records the page document as a commit in the site's repository,
// creating the repository on first use. A save with no content change
// returns the current head instead of an empty commit.
func (s *Service) CommitPage(siteID, pageID, docJSON, author, message string) (CommitInfo, error) {
	lock := s.siteLock(siteID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := s.ensureRepo(siteID)
	if err != nil {
		return CommitInfo{}, err
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open worktree: %w", err)
	}

	relPath := pageFile(pageID)
	fullPath := filepath.Join(s.repoPath(siteID), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return CommitInfo{}, fmt.Errorf("create pages dir: %w", err)
	}
	if err := os.WriteFile(fullPath, append([]byte(docJSON), '\n'), 0o644); err != nil {
		return CommitInfo{}, fmt.Errorf("write page file: %w", err)
	}
	if _, err := worktree.Add(relPath); err != nil {
		return CommitInfo{}, fmt.Errorf("git add page: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read worktree status: %w", err)
	}
	if status.IsClean() {
		return s.head(repo)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: fmt.Sprintf("%s@local.launchpage.dev", sanitizeEmail(author)),
			When:  time.Now(),
		},
	})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("commit page: %w", err)
	}
	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read commit object: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

// History lists commits touching one page, newest first.
func (s *Service) History(siteID, pageID string, limit int) ([]CommitInfo, error) {
	lock := s.siteLock(siteID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(siteID))
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve head: %w", err)
	}

	relPath := pageFile(pageID)
	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), FileName: &relPath})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]CommitInfo, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toCommitInfo(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

// Show returns the page document JSON as of a given commit.
func (s *Service) Show(siteID, pageID, hash string) (string, error) {
	lock := s.siteLock(siteID)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(siteID))
	if err != nil {
		return "", fmt.Errorf("open repo: %w", err)
	}
	commitObj, err := repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return "", fmt.Errorf("read commit %s: %w", hash, err)
	}
	file, err := commitObj.File(pageFile(pageID))
	if err != nil {
		return "", fmt.Errorf("read page file at %s: %w", hash, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("read page contents: %w", err)
	}
	return strings.TrimSuffix(contents, "\n"), nil
}

func (s *Service) ensureRepo(siteID string) (*git.Repository, error) {
	path := s.repoPath(siteID)
	repo, err := git.PlainOpen(path)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create repo dir: %w", err)
	}
	repo, err = git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main"))); err != nil {
		return nil, fmt.Errorf("set HEAD to main: %w", err)
	}
	return repo, nil
}

func (s *Service) head(repo *git.Repository) (CommitInfo, error) {
	head, err := repo.Head()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("resolve head: %w", err)
	}
	commitObj, err := repo.CommitObject(head.Hash())
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read head commit: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

func (s *Service) repoPath(siteID string) string {
	return filepath.Join(s.baseDir, siteID)
}

func (s *Service) siteLock(siteID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[siteID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[siteID] = lock
	}
	return lock
}

func pageFile(pageID string) string {
	return filepath.Join("pages", pageID+".json")
}

func toCommitInfo(commitObj *object.Commit) CommitInfo {
	return CommitInfo{
		Hash:    commitObj.Hash.String(),
		Author:  commitObj.Author.Name,
		Message: commitObj.Message,
		When:    commitObj.Author.When,
	}
}

func sanitizeEmail(input string) string {
	var out strings.Builder
	for _, r := range strings.ToLower(input) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			out.WriteRune(r)
		case r == ' ':
			out.WriteRune('.')
		}
	}
	if out.Len() == 0 {
		return "editor"
	}
	return out.String()
}
