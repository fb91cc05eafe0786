package visualization

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/rules"
	"github.com/nvandessel/epochtree/internal/selection"
	"github.com/nvandessel/epochtree/internal/tree"
)

func fixtureTree(t *testing.T) *tree.Node {
	t.Helper()
	var epochs []*models.Epoch
	seq := 0
	for _, cell := range []string{"A", "B"} {
		for _, proto := range []string{"P1", "P2"} {
			epochs = append(epochs, &models.Epoch{
				Seq:      seq,
				Selected: true,
				Meta: map[string]interface{}{
					"cellType": cell,
					"protocol": proto,
				},
			})
			seq++
		}
	}
	rs, err := rules.ResolveAll([]string{"cellType", "protocol"})
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	return tree.Build(epochs, rs)
}

func TestRenderText(t *testing.T) {
	root := fixtureTree(t)
	out := RenderText(root)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("line count = %d, want 7 (root + 2 cells + 4 leaves):\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "root [4/4]") {
		t.Errorf("root line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  A [2/2]") {
		t.Errorf("first cell line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "    P1 [1/1]") {
		t.Errorf("first leaf line = %q", lines[2])
	}
}

func TestRenderText_ReflectsSelection(t *testing.T) {
	root := fixtureTree(t)
	selection.SetSelected(root.Child(0), false, true)

	out := RenderText(root)
	if !strings.Contains(out, "root [2/4]") {
		t.Errorf("root counts should drop after deselect:\n%s", out)
	}
	if !strings.Contains(out, "A [0/2]") {
		t.Errorf("deselected subtree should show zero selected:\n%s", out)
	}
}

func TestRenderDOT(t *testing.T) {
	root := fixtureTree(t)
	out := RenderDOT(root)

	if !strings.HasPrefix(out, "digraph epochtree {") {
		t.Errorf("missing digraph header:\n%s", out)
	}
	if got := strings.Count(out, "shape=box"); got != 4 {
		t.Errorf("leaf boxes = %d, want 4", got)
	}
	if got := strings.Count(out, " -> "); got != 6 {
		t.Errorf("edges = %d, want 6", got)
	}
	if !strings.Contains(out, "A\\n2/2") {
		t.Errorf("node label with counts missing:\n%s", out)
	}
}

func TestRenderDOT_GraysOutDeselected(t *testing.T) {
	root := fixtureTree(t)
	selection.SetSelected(root.Child(0), false, true)

	out := RenderDOT(root)
	if !strings.Contains(out, "lightgray") {
		t.Error("fully deselected nodes should be grayed out")
	}
}

func TestRenderJSON(t *testing.T) {
	root := fixtureTree(t)
	entry := RenderJSON(root)

	// Must survive marshaling: the CLI emits this directly.
	if _, err := json.Marshal(entry); err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if entry["label"] != "root" || entry["epochs"] != 4 || entry["leaf"] != false {
		t.Errorf("root entry = %v", entry)
	}
	if entry["split_key"] != "cellType" {
		t.Errorf("split_key = %v", entry["split_key"])
	}
	children, ok := entry["children"].([]map[string]interface{})
	if !ok || len(children) != 2 {
		t.Fatalf("children = %v", entry["children"])
	}
	leafParent := children[0]
	leaves, ok := leafParent["children"].([]map[string]interface{})
	if !ok || len(leaves) != 2 {
		t.Fatalf("grandchildren = %v", leafParent["children"])
	}
	if leaves[0]["leaf"] != true || leaves[0]["label"] != "P1" {
		t.Errorf("leaf entry = %v", leaves[0])
	}
	if _, present := leaves[0]["children"]; present {
		t.Error("leaves must not carry a children key")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 60)
	got := truncate(long, 40)
	if len(got) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q", got)
	}
	if truncate("short", 40) != "short" {
		t.Error("short strings must pass through")
	}
}
