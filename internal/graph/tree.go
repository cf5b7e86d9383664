package graph

import (
	"fmt"
	"strings"
)

// Formatter renders a node's label for DependencyTreeString. The default
// formatter prints the module (or broken-node) name.
type Formatter func(n *Node) string

// DefaultFormatter is used when DependencyTreeString is called with a nil
// formatter.
func DefaultFormatter(n *Node) string {
	if n.State == StateBroken {
		return fmt.Sprintf("%s (broken: %s)", n.Name(), strings.Join(n.Messages, "; "))
	}
	return n.Name()
}

// DependencyTreeString pretty-prints the depth-first tree rooted at root,
// per spec §4.3: each level indented by two spaces followed by "|-"; a
// node that would reopen an ancestor is suffixed with
// "(circular dependency)" and not descended into again.
func (g *Graph) DependencyTreeString(root *Node, formatter Formatter) string {
	if formatter == nil {
		formatter = DefaultFormatter
	}
	var b strings.Builder
	b.WriteString(formatter(root))
	b.WriteByte('\n')
	g.printChildren(&b, root, formatter, []*Node{root}, 1)
	return b.String()
}

func (g *Graph) printChildren(b *strings.Builder, n *Node, formatter Formatter, stack []*Node, depth int) {
	indent := strings.Repeat("  ", depth) + "|-"
	for _, e := range g.Edges(n) {
		child := e.T
		b.WriteString(indent)
		b.WriteString(formatter(child))
		if nodeIn(child, stack) {
			b.WriteString(" (circular dependency)")
			b.WriteByte('\n')
			continue
		}
		b.WriteByte('\n')
		g.printChildren(b, child, formatter, append(stack, child), depth+1)
	}
	for _, reopened := range g.CircularChildren(n) {
		b.WriteString(indent)
		b.WriteString(formatter(reopened))
		b.WriteString(" (circular dependency)")
		b.WriteByte('\n')
	}
}

func nodeIn(n *Node, stack []*Node) bool {
	for _, s := range stack {
		if s == n {
			return true
		}
	}
	return false
}
