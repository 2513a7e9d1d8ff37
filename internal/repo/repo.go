// Package repo models the repository selected for a browsing session.
package repo

import (
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// Repository is an immutable snapshot of a candidate repository path.
// A refresh or re-selection produces a new snapshot; nothing mutates one
// in place, so the TUI never observes a half-updated repository.
type Repository struct {
	// Path is the absolute form of the selected path.
	Path string
	// Name is the last path segment, used as the display name.
	Name string
	// Exists reports whether the path resolves to a filesystem entry.
	Exists bool
	// IsGitRepo reports whether the path holds a recognizable Git
	// repository. Detection is delegated to go-git.
	IsGitRepo bool
}

// FromPath builds a snapshot for path, which may be relative. It never
// fails: unresolvable or non-Git paths come back with Exists/IsGitRepo
// false so the presentation layer can render a "not a repository" state.
func FromPath(path string) Repository {
	abs, err := filepath.Abs(path)
	if err != nil {
		// Abs only fails when the working directory is gone; fall
		// back to the raw path so the snapshot still names something.
		abs = path
	}

	r := Repository{
		Path: abs,
		Name: filepath.Base(abs),
	}

	info, err := os.Stat(abs)
	if err != nil {
		return r
	}
	r.Exists = true

	if !info.IsDir() {
		return r
	}

	if _, err := git.PlainOpen(abs); err == nil {
		r.IsGitRepo = true
	}

	return r
}
