// Package testutil builds throwaway git repositories for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Repo is a git repository with a worktree that tests can write commits into.
type Repo struct {
	t    testing.TB
	Repo *gogit.Repository
	Dir  string // empty for in-memory repositories
	fs   billy.Filesystem
	wt   *gogit.Worktree
}

// NewMemoryRepo creates an in-memory repository backed by memfs.
func NewMemoryRepo(t testing.TB) *Repo {
	t.Helper()

	fs := memfs.New()
	repo, err := gogit.Init(memory.NewStorage(), fs)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &Repo{t: t, Repo: repo, fs: fs, wt: wt}
}

// NewDiskRepo creates a repository in a temporary directory.
func NewDiskRepo(t testing.TB) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &Repo{t: t, Repo: repo, Dir: dir, fs: wt.Filesystem, wt: wt}
}

// Write creates or replaces a file and stages it.
func (r *Repo) Write(rel, content string) {
	r.t.Helper()

	if r.Dir != "" {
		full := filepath.Join(r.Dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			r.t.Fatalf("MkdirAll: %v", err)
		}
	}
	if err := util.WriteFile(r.fs, rel, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile(%s): %v", rel, err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add(%s): %v", rel, err)
	}
}

// Remove deletes a file and stages the deletion.
func (r *Repo) Remove(rel string) {
	r.t.Helper()

	if _, err := r.wt.Remove(rel); err != nil {
		r.t.Fatalf("Remove(%s): %v", rel, err)
	}
}

// Move renames a file and stages the rename.
func (r *Repo) Move(from, to string) {
	r.t.Helper()

	if _, err := r.wt.Move(from, to); err != nil {
		r.t.Fatalf("Move(%s, %s): %v", from, to, err)
	}
}

// Commit records the staged changes with author and committer time set to when.
func (r *Repo) Commit(message string, when time.Time) string {
	r.t.Helper()

	sig := &object.Signature{Name: "Test Author", Email: "test@example.com", When: when}
	hash, err := r.wt.Commit(message, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("Commit(%q): %v", message, err)
	}
	return hash.String()
}

// CommitAs is Commit with a custom author.
func (r *Repo) CommitAs(message, name, email string, when time.Time) string {
	r.t.Helper()

	sig := &object.Signature{Name: name, Email: email, When: when}
	hash, err := r.wt.Commit(message, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("Commit(%q): %v", message, err)
	}
	return hash.String()
}

// Clock hands out strictly increasing commit times starting at a fixed date.
type Clock struct {
	next time.Time
}

// NewClock returns a clock starting at 2020-01-01 UTC.
func NewClock() *Clock {
	return &Clock{next: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Tick returns the current time and advances the clock by one hour.
func (c *Clock) Tick() time.Time {
	t := c.next
	c.next = c.next.Add(time.Hour)
	return t
}
