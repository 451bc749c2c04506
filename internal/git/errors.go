package git

import (
	"errors"
	"fmt"
)

var (
	// ErrContentNotFound is returned when a path's content cannot be read at a revision.
	// Callers treat it as a history boundary for that path.
	ErrContentNotFound = errors.New("content not found")

	// ErrSnapshotTooLarge is returned when a manifest blob exceeds the configured size limit.
	ErrSnapshotTooLarge = errors.New("snapshot too large")

	// ErrInvalidRepositoryIdentifier is returned for repository arguments that are neither
	// a local repository, an owner/name pair, nor a URL.
	ErrInvalidRepositoryIdentifier = errors.New(`invalid repository identifier (expected a local path, "owner/name" or a URL)`)
)

// GraphReadError reports that the revision graph or object store could not be read.
type GraphReadError struct {
	Op       string
	Revision string
	Err      error
}

func (e *GraphReadError) Error() string {
	if e.Revision != "" {
		return fmt.Sprintf("read revision graph: %s %s: %v", e.Op, e.Revision, e.Err)
	}
	return fmt.Sprintf("read revision graph: %s: %v", e.Op, e.Err)
}

func (e *GraphReadError) Unwrap() error {
	return e.Err
}

func graphReadError(op, revision string, err error) error {
	return &GraphReadError{Op: op, Revision: revision, Err: err}
}
