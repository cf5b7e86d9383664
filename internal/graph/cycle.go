package graph

// HasCycle reports whether any circular dependency edge was recorded
// during graph construction (spec §4.3, P3). The result is memoized until
// the next mutation (AddRoot call).
func (g *Graph) HasCycle() bool {
	g.computeCycle()
	return g.hasCycle
}

// CyclePath returns the ancestor chain starting at the first repeat
// occurrence, ending back at that node — inclusive of both endpoints (spec
// §4.3, P3). Returns nil if there is no cycle.
func (g *Graph) CyclePath() []*Node {
	g.computeCycle()
	return g.cyclePath
}

func (g *Graph) computeCycle() {
	g.cycleOnce.Do(func() {
		if len(g.circular) == 0 {
			return
		}
		g.hasCycle = true
		first := g.circular[0]
		// first.stack is the ancestor chain at the moment the repeat was
		// detected; find where `first.to` sits in it and slice from there.
		start := 0
		for i, n := range first.stack {
			if n.Key == first.to.Key {
				start = i
				break
			}
		}
		path := append([]*Node{}, first.stack[start:]...)
		path = append(path, first.to) // inclusive of both endpoints
		g.cyclePath = path
	})
}
