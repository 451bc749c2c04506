package git

import "context"

// GraphReader defines read-only access to a repository's revision graph and object store.
// This abstraction allows for easier testing and potential alternative implementations.
type GraphReader interface {
	// Walk visits the revisions reachable from ref, newest first, resolving path in each.
	Walk(ctx context.Context, ref, path string) (BindingIter, error)
	// ReadSnapshot returns the raw content of path at the given revision.
	ReadSnapshot(ctx context.Context, rev Revision, path string) ([]byte, error)
}

// BindingIter is a lazy, non-restartable sequence of revision bindings.
// Next returns io.EOF once the traversal is exhausted.
type BindingIter interface {
	Next() (RevisionBinding, error)
	Close()
}

// Compile-time interface conformance check.
var _ GraphReader = (*HistoryReader)(nil)
