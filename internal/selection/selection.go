// Package selection implements the per-epoch selection model and its
// persistence format.
//
// The isSelected flag lives only on the epoch; tree nodes never hold
// authoritative selection state. Counts are always derived fresh from the
// flags — there is no cached aggregate to refresh.
package selection

import (
	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/tree"
)

// SetSelected sets the flag on epochs reachable under node. When
// recursive, every epoch in the subtree is updated; otherwise only the
// node's own direct epoch list, which makes it a no-op on a purely
// internal node.
func SetSelected(node *tree.Node, flag bool, recursive bool) {
	var epochs []*models.Epoch
	if recursive {
		epochs = node.AllEpochs()
	} else {
		epochs = node.Epochs()
	}
	for _, e := range epochs {
		e.Selected = flag
	}
}

// Epochs flattens the node's subtree and optionally filters to selected
// epochs. The result is a fresh slice in depth-first leaf order; mutating
// it never affects the tree.
func Epochs(node *tree.Node, onlySelected bool) []*models.Epoch {
	all := node.AllEpochs()
	if !onlySelected {
		return all
	}
	out := make([]*models.Epoch, 0, len(all))
	for _, e := range all {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of selected epochs under node. It always
// equals len(Epochs(node, true)).
func Count(node *tree.Node) int {
	count := 0
	for _, e := range node.AllEpochs() {
		if e.Selected {
			count++
		}
	}
	return count
}
