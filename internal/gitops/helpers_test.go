package gitops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/cj3636/gtaz/internal/repo"
)

// testRepo is a throwaway repository created entirely through go-git,
// so the tests do not need a git binary on the host.
type testRepo struct {
	dir string
	gr  *git.Repository
	t   *testing.T
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	gr, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return &testRepo{dir: dir, gr: gr, t: t}
}

func (r *testRepo) snapshot() repo.Repository {
	return repo.FromPath(r.dir)
}

func (r *testRepo) writeFile(name, content string) {
	r.t.Helper()
	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile %s: %v", name, err)
	}
}

func (r *testRepo) add(name string) {
	r.t.Helper()
	wt, err := r.gr.Worktree()
	if err != nil {
		r.t.Fatalf("Worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		r.t.Fatalf("Add %s: %v", name, err)
	}
}

func (r *testRepo) commit(message string) plumbing.Hash {
	r.t.Helper()
	wt, err := r.gr.Worktree()
	if err != nil {
		r.t.Fatalf("Worktree: %v", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		r.t.Fatalf("Commit %q: %v", message, err)
	}
	return hash
}

func (r *testRepo) commitAs(author, email, message string) plumbing.Hash {
	r.t.Helper()
	wt, err := r.gr.Worktree()
	if err != nil {
		r.t.Fatalf("Worktree: %v", err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: email,
			When:  time.Now(),
		},
	})
	if err != nil {
		r.t.Fatalf("Commit %q: %v", message, err)
	}
	return hash
}

func (r *testRepo) commitFile(name, content, message string) plumbing.Hash {
	r.t.Helper()
	r.writeFile(name, content)
	r.add(name)
	return r.commit(message)
}

func (r *testRepo) branch(name string) {
	r.t.Helper()
	wt, err := r.gr.Worktree()
	if err != nil {
		r.t.Fatalf("Worktree: %v", err)
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		r.t.Fatalf("Checkout -b %s: %v", name, err)
	}
}

func (r *testRepo) checkout(name string) {
	r.t.Helper()
	wt, err := r.gr.Worktree()
	if err != nil {
		r.t.Fatalf("Worktree: %v", err)
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	})
	if err != nil {
		r.t.Fatalf("Checkout %s: %v", name, err)
	}
}

func (r *testRepo) headBranch() string {
	r.t.Helper()
	head, err := r.gr.Head()
	if err != nil {
		r.t.Fatalf("Head: %v", err)
	}
	return head.Name().Short()
}

func mustLookup(t *testing.T, id ToolID) Tool {
	t.Helper()
	tool, ok := Lookup(id)
	if !ok {
		t.Fatalf("tool %s not in catalog", id)
	}
	return tool
}
