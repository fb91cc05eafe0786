package tree

import (
	"strings"

	"github.com/nvandessel/epochtree/internal/constants"
)

// Navigation operations. All are read-only and side-effect free.

// Parent returns the node's parent, or nil at the root. The link is a
// back-pointer only; it must never be used to reconstruct children.
func (n *Node) Parent() *Node {
	return n.parent
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the i-th child, or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the ordered child list. The returned slice is a copy.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// ChildBySplitValue returns the first child whose split value's string
// form contains value as a substring. Substring matching tolerates
// verbose fully-qualified identifiers ("LightStep" matches
// "edu.washington.rieke.protocols.LightStep"). Returns nil when no child
// matches; a miss is not an error.
func (n *Node) ChildBySplitValue(value string) *Node {
	if value == "" {
		return nil
	}
	for _, c := range n.children {
		if strings.Contains(c.SplitValue.String(), value) {
			return c
		}
	}
	return nil
}

// Leaves returns the subtree's leaf nodes in depth-first order.
func (n *Node) Leaves() []*Node {
	if n.IsLeaf() {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Depth returns the node's distance from the root. The root has depth 0.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Ancestor returns the node's k-th ancestor: Ancestor(0) is the node
// itself, Ancestor(1) its parent. Returns nil when k exceeds the depth.
func (n *Node) Ancestor(k int) *Node {
	cur := n
	for i := 0; i < k; i++ {
		if cur == nil {
			return nil
		}
		cur = cur.parent
	}
	return cur
}

// PathFromRoot returns the ordered ancestor list from the root down to
// and including the node itself.
func (n *Node) PathFromRoot() []*Node {
	var path []*Node
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	// Reverse into root-first order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathString returns a human-readable join of the split values from the
// root to this node. The root contributes nothing, so its path is empty.
func (n *Node) PathString() string {
	parts := make([]string, 0, n.Depth())
	for _, node := range n.PathFromRoot() {
		if node.parent == nil {
			continue
		}
		parts = append(parts, node.SplitValue.String())
	}
	return strings.Join(parts, constants.PathSeparator)
}
