package gitops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/cj3636/gtaz/internal/repo"
	"github.com/cj3636/gtaz/internal/textdiff"
)

// DiffTarget selects what the diff tool compares. The choice is an
// explicit parameter rather than an implicit default baked into the
// gateway.
type DiffTarget string

const (
	// DiffWorktree compares HEAD against the working tree.
	DiffWorktree DiffTarget = "worktree"
	// DiffStaged compares HEAD against the index.
	DiffStaged DiffTarget = "staged"
	// DiffRange compares two named revisions.
	DiffRange DiffTarget = "range"
)

// ParseDiffTarget maps a flag or config value to a DiffTarget.
func ParseDiffTarget(raw string) (DiffTarget, error) {
	switch strings.ToLower(raw) {
	case "", string(DiffWorktree):
		return DiffWorktree, nil
	case string(DiffStaged), "index":
		return DiffStaged, nil
	case string(DiffRange):
		return DiffRange, nil
	default:
		return "", fmt.Errorf("unsupported diff target: %s", raw)
	}
}

func (g *Gateway) diff(gr *git.Repository, r repo.Repository) (string, error) {
	switch g.DiffTarget {
	case DiffStaged:
		return g.diffStaged(gr)
	case DiffRange:
		return g.diffRange(gr)
	default:
		return g.diffWorktree(gr, r)
	}
}

// diffWorktree renders HEAD vs working tree for every tracked path the
// status reports as changed. Untracked files are skipped, matching what
// git diff shows.
func (g *Gateway) diffWorktree(gr *git.Repository, r repo.Repository) (string, error) {
	head, err := headCommit(gr)
	if err != nil {
		return "", err
	}

	wt, err := gr.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("status: %w", err)
	}

	var paths []string
	for path, fs := range st {
		if fs.Staging == git.Untracked {
			continue
		}
		if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	var sections []string
	for _, path := range paths {
		old, err := headContent(head, path)
		if err != nil {
			return "", err
		}
		cur, err := worktreeContent(r, path)
		if err != nil {
			return "", err
		}

		unified := textdiff.Unified(
			textdiff.Split(old), textdiff.Split(cur),
			"a/"+path, "b/"+path)
		if unified != "" {
			sections = append(sections, strings.TrimRight(unified, "\n"))
		}
	}

	if len(sections) == 0 {
		return "no differences", nil
	}
	return strings.Join(sections, "\n"), nil
}

// diffStaged renders HEAD vs index for every staged path.
func (g *Gateway) diffStaged(gr *git.Repository) (string, error) {
	head, err := headCommit(gr)
	if err != nil {
		return "", err
	}

	wt, err := gr.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}
	st, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("status: %w", err)
	}

	var paths []string
	for path, fs := range st {
		if fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	var sections []string
	for _, path := range paths {
		old, err := headContent(head, path)
		if err != nil {
			return "", err
		}
		cur, err := indexContent(gr, path)
		if err != nil {
			return "", err
		}

		unified := textdiff.Unified(
			textdiff.Split(old), textdiff.Split(cur),
			"a/"+path, "b/"+path)
		if unified != "" {
			sections = append(sections, strings.TrimRight(unified, "\n"))
		}
	}

	if len(sections) == 0 {
		return "no differences", nil
	}
	return strings.Join(sections, "\n"), nil
}

// diffRange renders the patch between the two configured revisions,
// delegating the whole computation to go-git.
func (g *Gateway) diffRange(gr *git.Repository) (string, error) {
	if g.RangeFrom == "" || g.RangeTo == "" {
		return "", errors.New("diff range requires two revisions")
	}

	from, err := revisionCommit(gr, g.RangeFrom)
	if err != nil {
		return "", err
	}
	to, err := revisionCommit(gr, g.RangeTo)
	if err != nil {
		return "", err
	}

	patch, err := from.Patch(to)
	if err != nil {
		return "", fmt.Errorf("patch %s..%s: %w", g.RangeFrom, g.RangeTo, err)
	}

	text := strings.TrimRight(patch.String(), "\n")
	if text == "" {
		return "no differences", nil
	}
	return text, nil
}

// headCommit resolves the commit HEAD points at. An empty repository
// yields nil without error so the old side of a diff reads as empty.
func headCommit(gr *git.Repository) (*object.Commit, error) {
	ref, err := gr.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("head: %w", err)
	}
	commit, err := gr.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("head commit: %w", err)
	}
	return commit, nil
}

func revisionCommit(gr *git.Repository, rev string) (*object.Commit, error) {
	hash, err := gr.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}
	commit, err := gr.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", rev, err)
	}
	return commit, nil
}

func headContent(commit *object.Commit, path string) (string, error) {
	if commit == nil {
		return "", nil
	}
	f, err := commit.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read %s from HEAD: %w", path, err)
	}
	return f.Contents()
}

func worktreeContent(r repo.Repository, path string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Path, path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func indexContent(gr *git.Repository, path string) (string, error) {
	idx, err := gr.Storer.Index()
	if err != nil {
		return "", fmt.Errorf("index: %w", err)
	}
	entry, err := idx.Entry(path)
	if err != nil {
		// Staged deletions have no index entry.
		return "", nil
	}
	blob, err := gr.BlobObject(entry.Hash)
	if err != nil {
		return "", fmt.Errorf("read %s from index: %w", path, err)
	}
	rd, err := blob.Reader()
	if err != nil {
		return "", fmt.Errorf("read %s from index: %w", path, err)
	}
	defer rd.Close()

	var b strings.Builder
	if _, err := io.Copy(&b, rd); err != nil {
		return "", fmt.Errorf("read %s from index: %w", path, err)
	}
	return b.String(), nil
}
