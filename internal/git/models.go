package git

import (
	"strings"
	"time"
)

// Revision represents a commit visited while walking the history of a path.
type Revision struct {
	SHA     string
	When    time.Time // author timestamp
	Author  AuthorInfo
	Parents []string
	Message string // subject line
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// ContributorKey returns a normalized identifier for grouping contributors.
// Authors without an email are grouped by name.
func (a AuthorInfo) ContributorKey() string {
	if a.Email == "" {
		return strings.ToLower(a.Name)
	}
	return strings.ToLower(a.Email)
}

// ShortSHA returns the abbreviated commit hash.
func (r Revision) ShortSHA() string {
	if len(r.SHA) > 7 {
		return r.SHA[:7]
	}
	return r.SHA
}

// PathBinding is the content object a path resolved to at some revision.
// An empty ContentID means the path did not exist there.
type PathBinding struct {
	Path      string
	ContentID string
}

// NotFound reports whether the path was absent at the revision.
func (b PathBinding) NotFound() bool {
	return b.ContentID == ""
}

// SameContent reports whether two bindings point at bit-identical content.
func (b PathBinding) SameContent(other PathBinding) bool {
	return !b.NotFound() && b.ContentID == other.ContentID
}

// RevisionBinding pairs a visited revision with the binding of the walked path.
type RevisionBinding struct {
	Revision Revision
	Binding  PathBinding
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath string
	// MaxSnapshotBytes caps the size of a manifest blob read by ReadSnapshot.
	// Zero disables the limit.
	MaxSnapshotBytes int64
}
