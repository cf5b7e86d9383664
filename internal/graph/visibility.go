package graph

import "github.com/ebuild-dev/ebuild/internal/module"

// FirstLevelAndPublic implements spec §4.3's visibility projection: the
// direct children of n, plus, transitively, each public child's own public
// closure. Ordering preserves DFS pre-order; duplicates are removed by
// first occurrence (P6).
func (g *Graph) FirstLevelAndPublic(n *Node) []*Node {
	var order []*Node
	seen := make(map[*Node]bool)
	add := func(x *Node) bool {
		if seen[x] {
			return false
		}
		seen[x] = true
		order = append(order, x)
		return true
	}

	var walkPublic func(x *Node)
	walkPublic = func(x *Node) {
		for _, e := range g.Edges(x) {
			if e.Visibility != module.Public {
				continue
			}
			if add(e.T) {
				walkPublic(e.T)
			}
		}
	}

	for _, e := range g.Edges(n) {
		if add(e.T) && e.Visibility == module.Public {
			walkPublic(e.T)
		}
	}
	return order
}
