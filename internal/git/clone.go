package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
)

// SourceKind tells how a repository identifier is acquired.
type SourceKind int

const (
	SourceLocal SourceKind = iota
	SourceRemote
)

// RepositorySource is a parsed repository identifier.
type RepositorySource struct {
	Kind SourceKind
	// Location is a local directory for SourceLocal and a clone URL for SourceRemote.
	Location string
}

var (
	ownerNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
	scpLikePattern   = regexp.MustCompile(`^[A-Za-z0-9_.-]+@[A-Za-z0-9_.-]+:.+$`)
)

// ParseRepository classifies a repository identifier. An existing directory is used in
// place; "owner/name" is expanded to a GitHub URL; http(s), ssh, git, file and
// scp-like URLs are cloned.
func ParseRepository(id string) (RepositorySource, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return RepositorySource{}, ErrInvalidRepositoryIdentifier
	}

	if info, err := os.Stat(id); err == nil && info.IsDir() {
		abs, err := filepath.Abs(id)
		if err != nil {
			return RepositorySource{}, fmt.Errorf("%q: %w", id, err)
		}
		return RepositorySource{Kind: SourceLocal, Location: abs}, nil
	}

	for _, scheme := range []string{"https://", "http://", "ssh://", "git://", "file://"} {
		if strings.HasPrefix(id, scheme) {
			if len(id) == len(scheme) {
				break
			}
			return RepositorySource{Kind: SourceRemote, Location: id}, nil
		}
	}

	if scpLikePattern.MatchString(id) {
		return RepositorySource{Kind: SourceRemote, Location: id}, nil
	}

	if ownerNamePattern.MatchString(id) {
		return RepositorySource{Kind: SourceRemote, Location: "https://github.com/" + strings.TrimSuffix(id, ".git") + ".git"}, nil
	}

	return RepositorySource{}, fmt.Errorf("%q: %w", id, ErrInvalidRepositoryIdentifier)
}

// CloneOptions configures repository acquisition.
type CloneOptions struct {
	TmpDir   string
	Keep     bool
	Progress bool
}

// Checkout is a local copy of a repository ready for reading.
type Checkout struct {
	Path    string
	cleanup func() error
}

// Cleanup removes the temporary clone, if one was made.
func (c *Checkout) Cleanup() error {
	if c.cleanup == nil {
		return nil
	}
	return c.cleanup()
}

// Acquire makes src available locally. Remote sources are cloned bare into a fresh
// temporary directory; only the object store is needed for history reads.
func Acquire(ctx context.Context, src RepositorySource, opts CloneOptions) (*Checkout, error) {
	if src.Kind == SourceLocal {
		return &Checkout{Path: src.Location}, nil
	}

	dir, err := os.MkdirTemp(opts.TmpDir, "repo-")
	if err != nil {
		return nil, fmt.Errorf("create clone directory: %w", err)
	}
	removeDir := func() error { return os.RemoveAll(dir) }

	cloneOpts := &git.CloneOptions{URL: src.Location, Tags: git.NoTags}
	if opts.Progress {
		cloneOpts.Progress = os.Stderr
	}

	if _, err := git.PlainCloneContext(ctx, dir, true, cloneOpts); err != nil {
		_ = removeDir()
		return nil, fmt.Errorf("clone %s: %w", src.Location, err)
	}

	co := &Checkout{Path: dir}
	if !opts.Keep {
		co.cleanup = removeDir
	}
	return co, nil
}
