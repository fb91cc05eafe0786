// Package tree builds and navigates the epoch hierarchy.
//
// Build regroups a flat epoch set level by level using an ordered list of
// grouping rules. Each level scans its full input set once, so
// construction is O(levels × epochs) — intended for one-shot interactive
// builds over collections up to low tens of thousands of records, not for
// incremental maintenance.
//
// Invariants:
//   - A node is leaf XOR internal, never both, never neither.
//   - Every epoch under a subtree shares identical rule outputs for every
//     split key on the path from the root to that subtree.
//   - Parent links are non-owning back-pointers for navigation only;
//     traversal and serialization walk the owning parent→children edges.
//   - Rebuilding never mutates epoch contents or selection flags, only
//     regroups references. Node identities do not survive a rebuild.
package tree

import (
	"github.com/nvandessel/epochtree/internal/models"
	"github.com/nvandessel/epochtree/internal/rules"
)

// Node is one level of the epoch hierarchy. Exactly one of children or
// epochs is populated: internal nodes hold ordered child nodes, leaves
// hold ordered epoch references.
type Node struct {
	// SplitKey is the identifier of the rule that produced this node's
	// children. Empty on leaves.
	SplitKey string

	// SplitValue is the rule output shared by everything under this node.
	// The zero Value on the root.
	SplitValue rules.Value

	parent   *Node
	children []*Node
	epochs   []*models.Epoch
	custom   map[string]interface{}
}

// Build constructs the hierarchy for epochs using the ordered rule list.
// An empty rule list yields a single leaf holding every epoch. Missing or
// unreadable rule fields group under the sentinel value rather than
// erroring. Building twice from the same inputs yields identical child
// order and per-node epoch counts.
func Build(epochs []*models.Epoch, ruleList []rules.Rule) *Node {
	root := &Node{}
	split(root, epochs, ruleList)
	return root
}

func split(n *Node, epochs []*models.Epoch, ruleList []rules.Rule) {
	if len(ruleList) == 0 {
		n.epochs = append([]*models.Epoch(nil), epochs...)
		return
	}

	rule := ruleList[0]
	n.SplitKey = rule.ID

	// Group by the rule's output Value itself. Keying by its string form
	// would merge distinct outputs whose renderings collide, e.g. the
	// number 1 and the string "1".
	groups := make(map[rules.Value][]*models.Epoch)
	for _, e := range epochs {
		v := rule.Fn(e)
		groups[v] = append(groups[v], e)
	}

	ordered := make([]rules.Value, 0, len(groups))
	for v := range groups {
		ordered = append(ordered, v)
	}
	rules.Sort(ordered)

	rest := ruleList[1:]
	n.children = make([]*Node, 0, len(ordered))
	for _, v := range ordered {
		child := &Node{
			SplitValue: v,
			parent:     n,
		}
		split(child, groups[v], rest)
		n.children = append(n.children, child)
	}
}

// IsLeaf reports whether the node holds epochs directly.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// Epochs returns the node's direct epoch list. Empty on internal nodes.
// The returned slice is a copy; mutating it does not affect the tree.
func (n *Node) Epochs() []*models.Epoch {
	return append([]*models.Epoch(nil), n.epochs...)
}

// EpochCount returns the number of epochs in the node's subtree.
func (n *Node) EpochCount() int {
	if n.IsLeaf() {
		return len(n.epochs)
	}
	count := 0
	for _, c := range n.children {
		count += c.EpochCount()
	}
	return count
}

// AllEpochs returns every epoch in the node's subtree in depth-first
// leaf order. The returned slice is freshly allocated.
func (n *Node) AllEpochs() []*models.Epoch {
	if n.IsLeaf() {
		return n.Epochs()
	}
	var out []*models.Epoch
	for _, c := range n.children {
		out = append(out, c.AllEpochs()...)
	}
	return out
}
