// Package history collapses a path's revision walk into its effective history: the
// revisions that introduced each distinct content of the path.
package history

import (
	"context"
	"errors"
	"io"

	"github.com/masmgr/dephistory-go/internal/git"
)

// State is the accumulator of the effective-history fold.
type State struct {
	// Current is the binding the path had at the most recently visited revision.
	Current git.PathBinding
	// Last is the oldest visited revision still holding Current's content, i.e. the
	// revision that introduced it as far as the walk has seen.
	Last *git.Revision
	// Halted is set once the path stops existing; nothing older is in scope.
	Halted bool
}

// Step folds one binding, visited newest first, into the state. It returns the
// revision to emit, if the binding closed a run of identical content.
func Step(s State, rb git.RevisionBinding) (State, *git.Revision) {
	if s.Halted {
		return s, nil
	}

	if rb.Binding.NotFound() {
		// Rename, deletion or creation boundary. When nothing was established yet the
		// path does not exist at the starting reference at all.
		s.Halted = true
		return s, nil
	}

	rev := rb.Revision
	if s.Last == nil {
		s.Current = rb.Binding
		s.Last = &rev
		return s, nil
	}

	if !rb.Binding.SameContent(s.Current) {
		emit := s.Last
		s.Current = rb.Binding
		s.Last = &rev
		return s, emit
	}

	s.Last = &rev
	return s, nil
}

// Finish flushes the oldest boundary once the traversal ends.
func Finish(s State) *git.Revision {
	return s.Last
}

// Extract drains iter through Step and returns the effective history, newest first.
// The iterator is closed on return; once the fold halts no further revisions are read.
func Extract(ctx context.Context, iter git.BindingIter) ([]git.Revision, error) {
	defer iter.Close()

	var (
		state State
		out   []git.Revision
	)
	for !state.Halted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rb, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var emit *git.Revision
		state, emit = Step(state, rb)
		if emit != nil {
			out = append(out, *emit)
		}
	}

	if last := Finish(state); last != nil {
		out = append(out, *last)
	}
	return out, nil
}

// ExtractAll is Extract over an in-memory slice of bindings.
func ExtractAll(bindings []git.RevisionBinding) []git.Revision {
	var (
		state State
		out   []git.Revision
	)
	for _, rb := range bindings {
		var emit *git.Revision
		state, emit = Step(state, rb)
		if emit != nil {
			out = append(out, *emit)
		}
		if state.Halted {
			break
		}
	}
	if last := Finish(state); last != nil {
		out = append(out, *last)
	}
	return out
}
