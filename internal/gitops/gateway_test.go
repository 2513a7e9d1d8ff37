package gitops

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/cj3636/gtaz/internal/repo"
)

func TestExecuteRefusesNonexistentPath(t *testing.T) {
	snapshot := repo.FromPath(filepath.Join(t.TempDir(), "missing"))

	gw := NewGateway()
	for _, tool := range Catalog() {
		res := gw.Execute(tool, snapshot)
		if res.Success {
			t.Errorf("%s: Success = true, want false", tool.ID)
		}
		if !strings.Contains(res.Err, "does not exist") {
			t.Errorf("%s: Err = %q, want path error", tool.ID, res.Err)
		}
	}
}

func TestExecuteRefusesNonRepo(t *testing.T) {
	snapshot := repo.FromPath(t.TempDir())
	if !snapshot.Exists {
		t.Fatal("Exists = false, want true")
	}

	gw := NewGateway()
	for _, tool := range Catalog() {
		res := gw.Execute(tool, snapshot)
		if res.Success {
			t.Errorf("%s: Success = true, want false", tool.ID)
		}
		if !strings.Contains(res.Err, "not a git repository") {
			t.Errorf("%s: Err = %q, want repo error", tool.ID, res.Err)
		}
	}
}

func TestStatusCleanTree(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("README.md", "hello\n", "init")

	res := NewGateway().Execute(mustLookup(t, ToolStatus), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if res.Output != "working tree clean" {
		t.Errorf("Output = %q, want clean", res.Output)
	}
}

func TestStatusReportsModifiedFile(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("README.md", "hello\n", "init")
	r.writeFile("README.md", "changed\n")

	res := NewGateway().Execute(mustLookup(t, ToolStatus), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if !strings.Contains(res.Output, "M README.md") {
		t.Errorf("Output = %q, want modified README.md", res.Output)
	}
}

func TestStatusReportsUntrackedFile(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("README.md", "hello\n", "init")
	r.writeFile("notes.txt", "scratch\n")

	res := NewGateway().Execute(mustLookup(t, ToolStatus), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if !strings.Contains(res.Output, "?? notes.txt") {
		t.Errorf("Output = %q, want untracked notes.txt", res.Output)
	}
}

func TestLogEmptyRepository(t *testing.T) {
	r := newTestRepo(t)

	res := NewGateway().Execute(mustLookup(t, ToolLog), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success on empty repo", res.Err)
	}
	if res.Output != "" {
		t.Errorf("Output = %q, want empty history", res.Output)
	}
}

func TestLogNewestFirst(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")
	r.commitFile("a.txt", "2\n", "add feature")
	r.commitFile("a.txt", "3\n", "fix bug")

	res := NewGateway().Execute(mustLookup(t, ToolLog), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}

	lines := strings.Split(res.Output, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d log lines, want 3:\n%s", len(lines), res.Output)
	}

	want := []string{"fix bug", "add feature", "init"}
	for i, subject := range want {
		if !strings.Contains(lines[i], subject) {
			t.Errorf("line %d = %q, want subject %q", i, lines[i], subject)
		}
	}
}

func TestLogHonorsLimit(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "one")
	r.commitFile("a.txt", "2\n", "two")
	r.commitFile("a.txt", "3\n", "three")

	gw := NewGateway()
	gw.LogLimit = 2

	res := gw.Execute(mustLookup(t, ToolLog), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if got := len(strings.Split(res.Output, "\n")); got != 2 {
		t.Errorf("got %d log lines, want 2", got)
	}
}

func TestLogTruncatesAuthorAndSubject(t *testing.T) {
	r := newTestRepo(t)
	hash := r.commitFile("a.txt", "1\n", strings.Repeat("long subject ", 20))

	res := NewGateway().Execute(mustLookup(t, ToolLog), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if !strings.Contains(res.Output, hash.String()[:7]) {
		t.Errorf("Output = %q, want abbreviated hash %s", res.Output, hash.String()[:7])
	}
	if !strings.Contains(res.Output, "...") {
		t.Errorf("Output = %q, want truncated subject", res.Output)
	}
}

func TestLogTruncatesMultibyteAuthorOnRuneBoundary(t *testing.T) {
	r := newTestRepo(t)
	r.writeFile("a.txt", "1\n")
	r.add("a.txt")
	r.commitAs(strings.Repeat("é", 24), "author@example.com", "init")

	res := NewGateway().Execute(mustLookup(t, ToolLog), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if !utf8.ValidString(res.Output) {
		t.Fatalf("Output = %q, want valid UTF-8", res.Output)
	}
	// 24 runes truncated to 22: 19 kept plus the ellipsis.
	if !strings.Contains(res.Output, strings.Repeat("é", 19)+"...") {
		t.Errorf("Output = %q, want author cut on a rune boundary", res.Output)
	}
}

func TestBranchesMarksCurrent(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")
	r.branch("feature")
	r.checkout("master")

	res := NewGateway().Execute(mustLookup(t, ToolBranches), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if !strings.Contains(res.Output, "* master") {
		t.Errorf("Output = %q, want current marker on master", res.Output)
	}
	if !strings.Contains(res.Output, "  feature") {
		t.Errorf("Output = %q, want feature branch listed", res.Output)
	}
}

func TestBranchesIdempotent(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")
	r.branch("feature")

	gw := NewGateway()
	tool := mustLookup(t, ToolBranches)

	first := gw.Execute(tool, r.snapshot())
	second := gw.Execute(tool, r.snapshot())
	if first.Output != second.Output {
		t.Errorf("outputs differ between calls:\n%q\n%q", first.Output, second.Output)
	}
}

func TestRemotesListsURLs(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")

	_, err := r.gr.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.com/project.git"},
	})
	if err != nil {
		t.Fatalf("CreateRemote: %v", err)
	}

	res := NewGateway().Execute(mustLookup(t, ToolRemotes), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if !strings.Contains(res.Output, "origin\thttps://example.com/project.git (fetch)") {
		t.Errorf("Output = %q, want fetch line", res.Output)
	}
	if !strings.Contains(res.Output, "(push)") {
		t.Errorf("Output = %q, want push line", res.Output)
	}
}

func TestRemotesEmpty(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")

	res := NewGateway().Execute(mustLookup(t, ToolRemotes), r.snapshot())
	if !res.Success {
		t.Fatalf("Err = %q, want success", res.Err)
	}
	if res.Output != "no remotes configured" {
		t.Errorf("Output = %q, want no-remotes message", res.Output)
	}
}

func TestHistoryReturnsStructuredEntries(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")
	r.commitFile("a.txt", "2\n", "second")

	commits, err := NewGateway().History(r.snapshot(), 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	if commits[0].Subject != "second" {
		t.Errorf("Subject = %q, want %q", commits[0].Subject, "second")
	}
	if commits[0].Author != "Test User" {
		t.Errorf("Author = %q, want Test User", commits[0].Author)
	}
}

func TestCurrentBranch(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")

	if got := NewGateway().CurrentBranch(r.snapshot()); got != "master" {
		t.Errorf("CurrentBranch = %q, want master", got)
	}
}

func TestCheckoutSwitchesBranch(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")
	r.branch("feature")
	r.checkout("master")

	res := NewGateway().Checkout(r.snapshot(), "feature")
	if !res.Success {
		t.Fatalf("Message = %q, want success", res.Message)
	}
	if got := r.headBranch(); got != "feature" {
		t.Errorf("HEAD = %q, want feature", got)
	}
}

func TestCheckoutUnknownTargetFails(t *testing.T) {
	r := newTestRepo(t)
	r.commitFile("a.txt", "1\n", "init")

	res := NewGateway().Checkout(r.snapshot(), "no-such-branch")
	if res.Success {
		t.Fatal("Success = true, want false")
	}
	if got := r.headBranch(); got != "master" {
		t.Errorf("HEAD = %q, want master untouched", got)
	}
}

func TestCheckoutTargetsListsBranchesAndTags(t *testing.T) {
	r := newTestRepo(t)
	hash := r.commitFile("a.txt", "1\n", "init")
	r.branch("feature")

	if _, err := r.gr.CreateTag("v1.0.0", hash, nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	targets, err := NewGateway().CheckoutTargets(r.snapshot())
	if err != nil {
		t.Fatalf("CheckoutTargets: %v", err)
	}

	want := []string{"feature", "master", "v1.0.0"}
	if len(targets) != len(want) {
		t.Fatalf("targets = %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("targets[%d] = %q, want %q", i, targets[i], want[i])
		}
	}
}
