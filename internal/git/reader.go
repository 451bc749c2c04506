package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// HistoryReader reads path histories and file snapshots from a Git repository.
// A HistoryReader must not be shared between goroutines; open one per worker.
type HistoryReader struct {
	repo *git.Repository
	opts ReadOptions
}

// NewHistoryReader opens the repository at opts.RepoPath.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", opts.RepoPath, err)
	}
	return &HistoryReader{repo: repo, opts: opts}, nil
}

// NewHistoryReaderFromRepository wraps an already opened repository.
func NewHistoryReaderFromRepository(repo *git.Repository, opts ReadOptions) *HistoryReader {
	return &HistoryReader{repo: repo, opts: opts}
}

// ResolveRef resolves a revision expression (branch, tag, SHA, HEAD) to a commit hash.
// An empty ref resolves HEAD.
func (r *HistoryReader) ResolveRef(ref string) (plumbing.Hash, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "HEAD"
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, graphReadError("resolve", ref, err)
	}
	return *hash, nil
}

// Walk starts a fresh traversal from ref and returns an iterator that resolves path
// in every visited commit, newest first.
func (r *HistoryReader) Walk(ctx context.Context, ref, path string) (BindingIter, error) {
	from, err := r.ResolveRef(ref)
	if err != nil {
		return nil, err
	}

	cIter, err := r.repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, graphReadError("log", from.String(), err)
	}

	return &bindingIter{ctx: ctx, commits: cIter, path: normalizePath(path)}, nil
}

// ReadSnapshot reads the blob that path resolves to at rev, without touching a worktree.
func (r *HistoryReader) ReadSnapshot(ctx context.Context, rev Revision, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := r.repo.CommitObject(plumbing.NewHash(rev.SHA))
	if err != nil {
		return nil, objectError("commit", rev.SHA, err)
	}

	tree, err := c.Tree()
	if err != nil {
		return nil, objectError("tree", rev.SHA, err)
	}

	path = normalizePath(path)
	entry, err := tree.FindEntry(path)
	if err != nil {
		if isMissingEntry(err) {
			return nil, fmt.Errorf("%s @ %s: %w", path, rev.ShortSHA(), ErrContentNotFound)
		}
		return nil, graphReadError("tree entry", rev.SHA, err)
	}
	if !isBlobMode(entry.Mode) {
		return nil, fmt.Errorf("%s @ %s is not a regular file: %w", path, rev.ShortSHA(), ErrContentNotFound)
	}

	blob, err := r.repo.BlobObject(entry.Hash)
	if err != nil {
		return nil, objectError("blob", rev.SHA, err)
	}

	if limit := r.opts.MaxSnapshotBytes; limit > 0 && blob.Size > limit {
		return nil, fmt.Errorf("%s @ %s is %d bytes (limit %d): %w", path, rev.ShortSHA(), blob.Size, limit, ErrSnapshotTooLarge)
	}

	rd, err := blob.Reader()
	if err != nil {
		return nil, objectError("blob", rev.SHA, err)
	}
	defer rd.Close()

	var buf bytes.Buffer
	buf.Grow(int(blob.Size))
	if _, err := io.Copy(&buf, rd); err != nil {
		return nil, graphReadError("read blob", rev.SHA, err)
	}
	return buf.Bytes(), nil
}

// bindingIter adapts a go-git commit iterator into a sequence of path bindings.
type bindingIter struct {
	ctx     context.Context
	commits object.CommitIter
	path    string
}

func (it *bindingIter) Next() (RevisionBinding, error) {
	if err := it.ctx.Err(); err != nil {
		return RevisionBinding{}, err
	}

	c, err := it.commits.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RevisionBinding{}, io.EOF
		}
		return RevisionBinding{}, graphReadError("next commit", "", err)
	}

	binding, err := resolvePath(c, it.path)
	if err != nil {
		return RevisionBinding{}, err
	}

	return RevisionBinding{Revision: toRevision(c), Binding: binding}, nil
}

func (it *bindingIter) Close() {
	it.commits.Close()
}

// resolvePath finds the content object path points to in the commit's tree.
// Only the trees along the path are loaded; the blob itself is not read.
func resolvePath(c *object.Commit, path string) (PathBinding, error) {
	tree, err := c.Tree()
	if err != nil {
		return PathBinding{}, graphReadError("tree", c.Hash.String(), err)
	}

	entry, err := tree.FindEntry(path)
	if err != nil {
		if isMissingEntry(err) {
			return PathBinding{Path: path}, nil
		}
		return PathBinding{}, graphReadError("tree entry", c.Hash.String(), err)
	}
	if !isBlobMode(entry.Mode) {
		return PathBinding{Path: path}, nil
	}

	return PathBinding{Path: path, ContentID: entry.Hash.String()}, nil
}

func toRevision(c *object.Commit) Revision {
	message := c.Message
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}

	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return Revision{
		SHA:     c.Hash.String(),
		When:    c.Author.When,
		Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Parents: parents,
		Message: message,
	}
}

func isMissingEntry(err error) bool {
	return errors.Is(err, object.ErrEntryNotFound) ||
		errors.Is(err, object.ErrDirectoryNotFound) ||
		errors.Is(err, object.ErrFileNotFound)
}

// objectError classifies a failed object lookup: a missing object is a content
// boundary, anything else means the store itself is unreadable.
func objectError(op, sha string, err error) error {
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return fmt.Errorf("%s %s: %w", op, sha, ErrContentNotFound)
	}
	return graphReadError(op, sha, err)
}

func normalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimPrefix(path, "./")
}
