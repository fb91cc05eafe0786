package selection

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/rules"
	"github.com/nvandessel/epochtree/internal/tree"
)

func sixEpochs() []*models.Epoch {
	var epochs []*models.Epoch
	seq := 0
	for _, cell := range []string{"A", "B"} {
		for _, proto := range []string{"P1", "P2", "P3"} {
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
	return epochs
}

func buildTree(t *testing.T, epochs []*models.Epoch) *tree.Node {
	t.Helper()
	rs, err := rules.ResolveAll([]string{"cellType", "protocol"})
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	return tree.Build(epochs, rs)
}

func TestSetSelected_Recursive(t *testing.T) {
	epochs := sixEpochs()
	root := buildTree(t, epochs)

	nodeA := root.ChildBySplitValue("A")
	SetSelected(nodeA, false, true)

	selected := Epochs(root, true)
	if len(selected) != 3 {
		t.Fatalf("selected = %d, want 3", len(selected))
	}
	for _, e := range selected {
		if e.Meta["cellType"] != "B" {
			t.Errorf("epoch seq=%d cellType=%v should not be selected", e.Seq, e.Meta["cellType"])
		}
	}
}

func TestSetSelected_NonRecursiveOnInternalNode(t *testing.T) {
	epochs := sixEpochs()
	root := buildTree(t, epochs)

	// Internal node has no direct epochs: non-recursive set is a no-op.
	SetSelected(root.ChildBySplitValue("A"), false, false)
	if got := Count(root); got != 6 {
		t.Errorf("Count = %d, want 6 (no-op expected)", got)
	}
}

func TestSetSelected_NonRecursiveOnLeaf(t *testing.T) {
	epochs := sixEpochs()
	root := buildTree(t, epochs)

	leaf := root.ChildBySplitValue("A").ChildBySplitValue("P1")
	SetSelected(leaf, false, false)
	if got := Count(root); got != 5 {
		t.Errorf("Count = %d, want 5", got)
	}
}

func TestCount_MatchesEpochsLength(t *testing.T) {
	epochs := sixEpochs()
	root := buildTree(t, epochs)

	checkInvariant := func() {
		var walk func(n *tree.Node)
		walk = func(n *tree.Node) {
			if got, want := Count(n), len(Epochs(n, true)); got != want {
				t.Errorf("node %q: Count=%d, len(Epochs(true))=%d", n.PathString(), got, want)
			}
			for i := 0; i < n.ChildCount(); i++ {
				walk(n.Child(i))
			}
		}
		walk(root)
	}

	checkInvariant()
	SetSelected(root.ChildBySplitValue("B"), false, true)
	checkInvariant()
	SetSelected(root, true, true)
	checkInvariant()
}

func TestEpochs_PureQuery(t *testing.T) {
	epochs := sixEpochs()
	root := buildTree(t, epochs)

	got := Epochs(root, false)
	got[0] = nil

	if fresh := Epochs(root, false); fresh[0] == nil {
		t.Error("mutating the query result must not affect the tree")
	}
}

func TestSelection_RoundTrip(t *testing.T) {
	epochs := sixEpochs()
	// Start with a non-trivial selected set.
	epochs[1].Selected = false
	epochs[4].Selected = false
	root := buildTree(t, epochs)

	before := make(map[int]bool)
	for _, e := range epochs {
		before[e.Seq] = e.Selected
	}

	nodeA := root.ChildBySplitValue("A")
	SetSelected(nodeA, false, true)
	SetSelected(nodeA, true, true)

	// Deselect-then-select restores a fully selected A subtree, but the
	// documented round-trip property concerns mask save/restore; here we
	// check the subtree is exactly selected again.
	for _, e := range nodeA.AllEpochs() {
		if !e.Selected {
			t.Errorf("epoch seq=%d not reselected", e.Seq)
		}
	}
	// Epochs outside the subtree are untouched.
	for _, e := range root.ChildBySplitValue("B").AllEpochs() {
		if e.Selected != before[e.Seq] {
			t.Errorf("epoch seq=%d outside subtree changed", e.Seq)
		}
	}
}

func TestMask_SaveLoadRoundTrip(t *testing.T) {
	epochs := sixEpochs()
	root := buildTree(t, epochs)
	SetSelected(root.ChildBySplitValue("A"), false, true)

	mask := BuildMask(epochs, "archive-123")
	if mask.EpochCount != 6 {
		t.Fatalf("mask epoch count = %d, want 6", mask.EpochCount)
	}

	path := filepath.Join(t.TempDir(), "masks", "run1.json")
	if err := SaveMask(mask, path); err != nil {
		t.Fatalf("SaveMask: %v", err)
	}
	loaded, err := LoadMask(path)
	if err != nil {
		t.Fatalf("LoadMask: %v", err)
	}
	if loaded.Source != "archive-123" {
		t.Errorf("Source = %q", loaded.Source)
	}
	if loaded.CreatedAt.IsZero() {
		t.Error("CreatedAt not persisted")
	}

	// Reset flags, then apply: selected set must match exactly.
	fresh := sixEpochs()
	if err := loaded.Apply(fresh); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i, e := range fresh {
		want := epochs[i].Selected
		if e.Selected != want {
			t.Errorf("epoch seq=%d selected = %v, want %v", e.Seq, e.Selected, want)
		}
	}
}

func TestMask_ApplyUsesCanonicalOrder(t *testing.T) {
	epochs := sixEpochs()
	epochs[0].Selected = false
	mask := BuildMask(epochs, "")

	// Shuffle the slice: Apply must still align by Seq.
	shuffled := []*models.Epoch{epochs[3], epochs[0], epochs[5], epochs[1], epochs[4], epochs[2]}
	for _, e := range shuffled {
		e.Selected = true
	}
	if err := mask.Apply(shuffled); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if epochs[0].Selected {
		t.Error("seq 0 should be deselected after apply")
	}
	for _, e := range epochs[1:] {
		if !e.Selected {
			t.Errorf("seq %d should be selected", e.Seq)
		}
	}
}

func TestMask_CountMismatchRefused(t *testing.T) {
	epochs := sixEpochs()
	root := buildTree(t, epochs)
	SetSelected(root, false, true)

	mask := BuildMask(sixEpochs()[:4], "")
	err := mask.Apply(epochs)
	if !errors.Is(err, ErrEpochCountMismatch) {
		t.Fatalf("err = %v, want ErrEpochCountMismatch", err)
	}

	// Current state completely unchanged.
	if got := Count(root); got != 0 {
		t.Errorf("Count = %d after refused apply, want 0", got)
	}
}

func TestLoadMask_Malformed(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad json", "{not json"},
		{"unsupported version", `{"version": 99, "epoch_count": 0, "bits": []}`},
		{"bit count disagrees", `{"version": 1, "epoch_count": 3, "bits": [true]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := writeFile(path, tt.content); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadMask(path); err == nil {
				t.Error("expected load error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadMask(filepath.Join(dir, "absent.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
