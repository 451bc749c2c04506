package git

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5/plumbing"
)

// MockCommit is one revision of a MockGraphReader history with the files it contains.
type MockCommit struct {
	Revision Revision
	Files    map[string]string
}

// MockGraphReader is a test double for HistoryReader.
// It allows tests to provide a predefined history without needing a real Git repository.
type MockGraphReader struct {
	// Commits are ordered newest first, the order Walk yields them in.
	Commits []MockCommit
	// WalkErr is returned by Walk when set.
	WalkErr error
	// SnapshotErrs forces ReadSnapshot failures keyed by "<sha>:<path>".
	SnapshotErrs map[string]error
}

// NewMockGraphReader creates a new MockGraphReader with the given history.
func NewMockGraphReader(commits ...MockCommit) *MockGraphReader {
	return &MockGraphReader{Commits: commits, SnapshotErrs: make(map[string]error)}
}

// Walk yields the predefined commits with the path resolved to a git blob hash.
func (m *MockGraphReader) Walk(_ context.Context, _ string, path string) (BindingIter, error) {
	if m.WalkErr != nil {
		return nil, m.WalkErr
	}
	items := make([]RevisionBinding, 0, len(m.Commits))
	for _, c := range m.Commits {
		binding := PathBinding{Path: path}
		if content, ok := c.Files[path]; ok {
			binding.ContentID = MockContentID(content)
		}
		items = append(items, RevisionBinding{Revision: c.Revision, Binding: binding})
	}
	return &SliceBindingIter{Items: items}, nil
}

// ReadSnapshot returns the predefined content of path at rev.
func (m *MockGraphReader) ReadSnapshot(_ context.Context, rev Revision, path string) ([]byte, error) {
	if err, ok := m.SnapshotErrs[rev.SHA+":"+path]; ok {
		return nil, err
	}
	for _, c := range m.Commits {
		if c.Revision.SHA != rev.SHA {
			continue
		}
		if content, ok := c.Files[path]; ok {
			return []byte(content), nil
		}
		break
	}
	return nil, fmt.Errorf("%s @ %s: %w", path, rev.ShortSHA(), ErrContentNotFound)
}

// MockContentID returns the git blob hash of content.
func MockContentID(content string) string {
	return plumbing.ComputeHash(plumbing.BlobObject, []byte(content)).String()
}

// SliceBindingIter iterates over a fixed slice of bindings.
type SliceBindingIter struct {
	Items  []RevisionBinding
	pos    int
	closed bool
}

// Next returns the next binding or io.EOF.
func (s *SliceBindingIter) Next() (RevisionBinding, error) {
	if s.closed || s.pos >= len(s.Items) {
		return RevisionBinding{}, io.EOF
	}
	item := s.Items[s.pos]
	s.pos++
	return item, nil
}

// Close stops the iteration.
func (s *SliceBindingIter) Close() {
	s.closed = true
}

// Consumed reports how many bindings were pulled from the iterator.
func (s *SliceBindingIter) Consumed() int {
	return s.pos
}

// Compile-time interface conformance check.
var _ GraphReader = (*MockGraphReader)(nil)
