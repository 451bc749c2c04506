package git

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DiscoverOptions configures manifest discovery.
type DiscoverOptions struct {
	Patterns                []string // doublestar patterns matched against repository-relative paths
	ModuleDirectories       []string // directory names holding vendored packages
	IgnoreModuleDirectories bool
	Include                 []string
	Exclude                 []string
}

// DefaultManifestPatterns match npm and bower manifests anywhere in the tree.
var DefaultManifestPatterns = []string{"**/package.json", "**/bower.json"}

// DefaultModuleDirectories are the vendored dependency directories skipped by default.
var DefaultModuleDirectories = []string{"node_modules", "bower_components", "bower_modules"}

// DiscoverManifests lists the manifest files present in the tree at ref.
// The tree is read from the object store; no working tree is required.
func (r *HistoryReader) DiscoverManifests(ctx context.Context, ref string, opts DiscoverOptions) ([]string, error) {
	hash, err := r.ResolveRef(ref)
	if err != nil {
		return nil, err
	}

	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, graphReadError("commit", hash.String(), err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, graphReadError("tree", hash.String(), err)
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultManifestPatterns
	}

	seen := make(map[string]struct{})
	var files []string

	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name, entry, err := walker.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, graphReadError("walk tree", hash.String(), err)
		}
		if !isBlobMode(entry.Mode) {
			continue
		}
		if opts.IgnoreModuleDirectories && inModuleDirectory(name, opts.ModuleDirectories) {
			continue
		}
		if !matchesAny(patterns, name) || !matchesFilters(name, opts.Include, opts.Exclude) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		files = append(files, name)
	}

	sort.Strings(files)
	return files, nil
}

// inModuleDirectory reports whether any directory component of p is a module directory.
func inModuleDirectory(p string, moduleDirs []string) bool {
	if len(moduleDirs) == 0 {
		moduleDirs = DefaultModuleDirectories
	}
	dir := path.Dir(p)
	if dir == "." {
		return false
	}
	for _, part := range strings.Split(dir, "/") {
		for _, m := range moduleDirs {
			if part == m {
				return true
			}
		}
	}
	return false
}

func matchesAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, p); matched {
			return true
		}
	}
	return false
}

// matchesFilters checks if a path matches the include/exclude filters.
func matchesFilters(p string, include, exclude []string) bool {
	// Normalize path separators
	p = strings.ReplaceAll(p, "\\", "/")

	// Check exclude patterns first
	if matchesAny(exclude, p) {
		return false
	}

	// If no include patterns, accept all
	if len(include) == 0 {
		return true
	}

	return matchesAny(include, p)
}
