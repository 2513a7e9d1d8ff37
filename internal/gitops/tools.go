// Package gitops exposes the fixed set of repository inspection tools
// and executes them against a repository snapshot. All Git semantics are
// delegated to go-git; this package only marshals arguments and
// normalizes results.
package gitops

// ToolID tags one of the available operations. The set is closed: ids
// only ever originate from the catalog.
type ToolID string

const (
	ToolStatus   ToolID = "status"
	ToolLog      ToolID = "log"
	ToolDiff     ToolID = "diff"
	ToolBranches ToolID = "branches"
	ToolRemotes  ToolID = "remotes"
)

// Tool describes one operation as shown in the tool menu.
type Tool struct {
	ID          ToolID
	Label       string
	Description string
	Category    string
}

var catalog = []Tool{
	{ID: ToolStatus, Label: "Git Status", Description: "Show the working tree status", Category: "Information"},
	{ID: ToolLog, Label: "Git Log", Description: "Show commit history", Category: "Information"},
	{ID: ToolDiff, Label: "Git Diff", Description: "Show file differences", Category: "Analysis"},
	{ID: ToolBranches, Label: "List Branches", Description: "List local and remote branches", Category: "Information"},
	{ID: ToolRemotes, Label: "List Remotes", Description: "List remotes and their URLs", Category: "Information"},
}

// Catalog returns the available tools in stable display order. Callers
// get a fresh slice and may not observe each other's mutations.
func Catalog() []Tool {
	tools := make([]Tool, len(catalog))
	copy(tools, catalog)
	return tools
}

// Lookup resolves a tool id against the catalog.
func Lookup(id ToolID) (Tool, bool) {
	for _, tool := range catalog {
		if tool.ID == id {
			return tool, true
		}
	}
	return Tool{}, false
}

// Result is the normalized outcome of one tool invocation. It is
// created once per run, never mutated afterwards, and handed to the
// presentation layer by value.
type Result struct {
	ToolID  ToolID
	Success bool
	Output  string
	Err     string
}

func failure(id ToolID, msg string) Result {
	return Result{ToolID: id, Err: msg}
}

func success(id ToolID, output string) Result {
	return Result{ToolID: id, Success: true, Output: output}
}
