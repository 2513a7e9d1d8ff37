package gitops

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/cj3636/gtaz/internal/repo"
)

// DefaultLogLimit bounds how many commits the log tool renders.
const DefaultLogLimit = 15

// Gateway runs the catalog tools against a repository through go-git.
// It is read-only with the single exception of Checkout, performs no
// caching and no retries: every failure from the library is caught here
// and surfaced inside a Result.
type Gateway struct {
	// LogLimit caps the number of commits returned by the log tool.
	LogLimit int
	// DiffTarget selects what the diff tool compares. See DiffTarget.
	DiffTarget DiffTarget
	// RangeFrom and RangeTo name the endpoints for DiffRange.
	RangeFrom string
	RangeTo   string
}

// NewGateway returns a gateway with the default log limit and diff
// target.
func NewGateway() *Gateway {
	return &Gateway{LogLimit: DefaultLogLimit, DiffTarget: DiffWorktree}
}

// Execute runs one tool against the repository snapshot. Snapshots that
// are not usable repositories are refused before any library call, and
// library failures never escape as errors.
func (g *Gateway) Execute(tool Tool, r repo.Repository) Result {
	if !r.Exists {
		return failure(tool.ID, fmt.Sprintf("path does not exist: %s", r.Path))
	}
	if !r.IsGitRepo {
		return failure(tool.ID, fmt.Sprintf("not a git repository: %s", r.Path))
	}

	gr, err := git.PlainOpen(r.Path)
	if err != nil {
		return failure(tool.ID, fmt.Sprintf("open repository: %v", err))
	}

	var output string
	switch tool.ID {
	case ToolStatus:
		output, err = g.status(gr)
	case ToolLog:
		output, err = g.log(gr)
	case ToolDiff:
		output, err = g.diff(gr, r)
	case ToolBranches:
		output, err = g.branches(gr)
	case ToolRemotes:
		output, err = g.remotes(gr)
	default:
		return failure(tool.ID, fmt.Sprintf("unknown tool: %s", tool.ID))
	}

	if err != nil {
		return failure(tool.ID, err.Error())
	}
	return success(tool.ID, output)
}

func (g *Gateway) status(gr *git.Repository) (string, error) {
	wt, err := gr.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}

	st, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("status: %w", err)
	}

	if st.IsClean() {
		return "working tree clean", nil
	}

	paths := make([]string, 0, len(st))
	for path := range st {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		fs := st[path]
		fmt.Fprintf(&b, "%c%c %s\n", byte(fs.Staging), byte(fs.Worktree), path)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (g *Gateway) log(gr *git.Repository) (string, error) {
	limit := g.LogLimit
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	commits, err := g.Commits(gr, limit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, c := range commits {
		fmt.Fprintf(&b, "%s %-22s %s %s\n",
			c.When.Format("2006-01-02 15:04"),
			truncate(c.Author, 22),
			c.Hash[:7],
			truncate(c.Subject, 80))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (g *Gateway) branches(gr *git.Repository) (string, error) {
	current := ""
	if head, err := gr.Head(); err == nil && head.Name().IsBranch() {
		current = head.Name().Short()
	}

	iter, err := gr.Branches()
	if err != nil {
		return "", fmt.Errorf("branches: %w", err)
	}

	var local []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		local = append(local, ref.Name().Short())
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("branches: %w", err)
	}
	sort.Strings(local)

	var lines []string
	for _, name := range local {
		marker := "  "
		if name == current {
			marker = "* "
		}
		lines = append(lines, marker+name)
	}

	refs, err := gr.References()
	if err != nil {
		return "", fmt.Errorf("references: %w", err)
	}

	var remote []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsRemote() {
			remote = append(remote, "  remotes/"+ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("references: %w", err)
	}
	sort.Strings(remote)

	lines = append(lines, remote...)
	if len(lines) == 0 {
		return "no branches", nil
	}
	return strings.Join(lines, "\n"), nil
}

func (g *Gateway) remotes(gr *git.Repository) (string, error) {
	remotes, err := gr.Remotes()
	if err != nil {
		return "", fmt.Errorf("remotes: %w", err)
	}

	if len(remotes) == 0 {
		return "no remotes configured", nil
	}

	// Remotes come from a map; sort for stable output.
	sort.Slice(remotes, func(i, j int) bool {
		return remotes[i].Config().Name < remotes[j].Config().Name
	})

	var lines []string
	for _, rem := range remotes {
		cfg := rem.Config()
		if len(cfg.URLs) == 0 {
			continue
		}
		fetch := cfg.URLs[0]
		push := cfg.URLs[len(cfg.URLs)-1]
		lines = append(lines, fmt.Sprintf("%s\t%s (fetch)", cfg.Name, fetch))
		lines = append(lines, fmt.Sprintf("%s\t%s (push)", cfg.Name, push))
	}
	return strings.Join(lines, "\n"), nil
}

// Commit is one history entry for the commits pane and the log tool.
type Commit struct {
	Hash    string
	Author  string
	When    time.Time
	Subject string
}

// Commits returns up to limit history entries, newest first. An empty
// repository yields an empty slice, not an error.
func (g *Gateway) Commits(gr *git.Repository, limit int) ([]Commit, error) {
	iter, err := gr.Log(&git.LogOptions{})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("log: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			When:    c.Author.When,
			Subject: firstLine(c.Message),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	return commits, nil
}

// History is the snapshot-facing variant of Commits used by the TUI.
func (g *Gateway) History(r repo.Repository, limit int) ([]Commit, error) {
	if !r.IsGitRepo {
		return nil, fmt.Errorf("not a git repository: %s", r.Path)
	}
	gr, err := git.PlainOpen(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return g.Commits(gr, limit)
}

// CurrentBranch returns the short name of the checked-out branch, or
// the abbreviated hash when HEAD is detached. An empty repository
// returns an empty string.
func (g *Gateway) CurrentBranch(r repo.Repository) string {
	if !r.IsGitRepo {
		return ""
	}
	gr, err := git.PlainOpen(r.Path)
	if err != nil {
		return ""
	}
	head, err := gr.Head()
	if err != nil {
		return ""
	}
	if head.Name().IsBranch() {
		return head.Name().Short()
	}
	return head.Hash().String()[:7]
}

// CheckoutResult reports the outcome of a checkout.
type CheckoutResult struct {
	Success bool
	Message string
	Target  string
}

// CheckoutTargets lists branch names followed by tag names, each group
// sorted, for the checkout picker.
func (g *Gateway) CheckoutTargets(r repo.Repository) ([]string, error) {
	if !r.IsGitRepo {
		return nil, fmt.Errorf("not a git repository: %s", r.Path)
	}
	gr, err := git.PlainOpen(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	var branches []string
	iter, err := gr.Branches()
	if err != nil {
		return nil, fmt.Errorf("branches: %w", err)
	}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		branches = append(branches, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("branches: %w", err)
	}
	sort.Strings(branches)

	var tags []string
	titer, err := gr.Tags()
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	err = titer.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	sort.Strings(tags)

	return append(branches, tags...), nil
}

// Checkout switches the working tree to the named branch, tag, or
// revision. Branches stay attached; anything else detaches HEAD.
func (g *Gateway) Checkout(r repo.Repository, target string) CheckoutResult {
	if !r.IsGitRepo {
		return CheckoutResult{Message: fmt.Sprintf("not a git repository: %s", r.Path)}
	}

	gr, err := git.PlainOpen(r.Path)
	if err != nil {
		return CheckoutResult{Message: fmt.Sprintf("open repository: %v", err)}
	}

	wt, err := gr.Worktree()
	if err != nil {
		return CheckoutResult{Message: fmt.Sprintf("worktree: %v", err)}
	}

	branchRef := plumbing.NewBranchReferenceName(target)
	if _, err := gr.Reference(branchRef, true); err == nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: branchRef}); err != nil {
			return CheckoutResult{Message: fmt.Sprintf("checkout failed: %v", err)}
		}
		return CheckoutResult{Success: true, Message: "checked out " + target, Target: target}
	}

	hash, err := gr.ResolveRevision(plumbing.Revision(target))
	if err != nil {
		return CheckoutResult{Message: fmt.Sprintf("checkout failed: %v", err)}
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		return CheckoutResult{Message: fmt.Sprintf("checkout failed: %v", err)}
	}
	return CheckoutResult{Success: true, Message: "checked out " + target + " (detached)", Target: target}
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return strings.TrimSpace(message)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
