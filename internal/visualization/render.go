// Package visualization renders epoch hierarchies in various output formats.
package visualization

import (
	"fmt"
	"strings"

	"github.com/nvandessel/epochtree/internal/constants"
	"github.com/nvandessel/epochtree/internal/selection"
	"github.com/nvandessel/epochtree/internal/tree"
)

// Format specifies the output format for tree rendering.
type Format string

const (
	FormatText Format = "text"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// RenderText produces an indented text representation of the hierarchy.
// Each line shows the node's split value and its selected/total epoch
// counts.
func RenderText(root *tree.Node) string {
	var b strings.Builder
	renderTextNode(&b, root, 0)
	return b.String()
}

func renderTextNode(b *strings.Builder, n *tree.Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(nodeLabel(n))
	fmt.Fprintf(b, " [%d/%d]\n", selection.Count(n), n.EpochCount())
	for _, child := range n.Children() {
		renderTextNode(b, child, depth+1)
	}
}

// RenderDOT produces a Graphviz DOT representation of the hierarchy.
// Leaves render as filled boxes, internal nodes as ellipses; nodes with no
// selected epochs are grayed out.
func RenderDOT(root *tree.Node) string {
	var b strings.Builder
	b.WriteString("digraph epochtree {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	ids := make(map[*tree.Node]string)
	next := 0
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		id := fmt.Sprintf("n%d", next)
		next++
		ids[n] = id

		shape := "ellipse"
		style := "solid"
		if n.IsLeaf() {
			shape = "box"
			style = "filled"
		}
		color := "lightsteelblue"
		if selection.Count(n) == 0 {
			color = "lightgray"
		}

		label := fmt.Sprintf("%s\\n%d/%d", nodeLabel(n), selection.Count(n), n.EpochCount())
		b.WriteString(fmt.Sprintf("  %s [label=\"%s\", shape=%s, style=%s, fillcolor=%q];\n",
			id, label, shape, style, color))

		for _, child := range n.Children() {
			walk(child)
			b.WriteString(fmt.Sprintf("  %s -> %s;\n", id, ids[child]))
		}
	}
	walk(root)

	b.WriteString("}\n")
	return b.String()
}

// RenderJSON produces a nested map representation of the hierarchy,
// suitable for JSON marshaling.
func RenderJSON(root *tree.Node) map[string]interface{} {
	entry := map[string]interface{}{
		"label":    nodeLabel(root),
		"epochs":   root.EpochCount(),
		"selected": selection.Count(root),
		"leaf":     root.IsLeaf(),
	}
	if root.SplitKey != "" {
		entry["split_key"] = root.SplitKey
	}
	if children := root.Children(); len(children) > 0 {
		rendered := make([]map[string]interface{}, 0, len(children))
		for _, child := range children {
			rendered = append(rendered, RenderJSON(child))
		}
		entry["children"] = rendered
	}
	return entry
}

// nodeLabel returns the display label for a node: its split value,
// truncated for readability, or "root" for the tree root.
func nodeLabel(n *tree.Node) string {
	if n.Parent() == nil {
		return "root"
	}
	return truncate(n.SplitValue.String(), constants.MaxSplitValueDisplayLen)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
