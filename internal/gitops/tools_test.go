package gitops

import "testing"

func TestCatalogStableOrder(t *testing.T) {
	want := []ToolID{ToolStatus, ToolLog, ToolDiff, ToolBranches, ToolRemotes}

	for call := 0; call < 3; call++ {
		tools := Catalog()
		if len(tools) != len(want) {
			t.Fatalf("call %d: got %d tools, want %d", call, len(tools), len(want))
		}
		for i, id := range want {
			if tools[i].ID != id {
				t.Errorf("call %d: tools[%d].ID = %s, want %s", call, i, tools[i].ID, id)
			}
		}
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	tools := Catalog()
	tools[0].Label = "mutated"

	if got := Catalog()[0].Label; got == "mutated" {
		t.Error("catalog mutation leaked into subsequent calls")
	}
}

func TestCatalogEntriesPopulated(t *testing.T) {
	for _, tool := range Catalog() {
		if tool.Label == "" || tool.Description == "" || tool.Category == "" {
			t.Errorf("%s: incomplete tool entry %+v", tool.ID, tool)
		}
	}
}

func TestLookup(t *testing.T) {
	tool, ok := Lookup(ToolDiff)
	if !ok {
		t.Fatal("Lookup(diff) not found")
	}
	if tool.Label != "Git Diff" {
		t.Errorf("Label = %q, want Git Diff", tool.Label)
	}

	if _, ok := Lookup("rebase"); ok {
		t.Error("Lookup(rebase) found, want miss")
	}
}
