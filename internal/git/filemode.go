package git

import "github.com/go-git/go-git/v5/plumbing/filemode"

// isBlobMode reports whether a tree entry mode holds manifest content.
// Symlinks are excluded: their blob is the link target, not the file.
func isBlobMode(m filemode.FileMode) bool {
	switch m {
	case filemode.Regular, filemode.Executable, filemode.Deprecated:
		return true
	default:
		return false
	}
}
