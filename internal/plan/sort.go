package plan

import "golang.org/x/xerrors"

// topoSort returns nodes in an order consistent with their Predecessors
// edges (spec §4.4 step 4), using Kahn's algorithm with ties broken by the
// nodes' original emission order — so that, absent any ordering
// constraint, plan output stays stable across runs (P5).
func topoSort(nodes []*Node) ([]*Node, error) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.key] = i
	}

	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if _, ok := indegree[n.key]; !ok {
			indegree[n.key] = 0
		}
		for _, p := range n.Predecessors {
			if _, ok := index[p]; !ok {
				continue // predecessor pruned by dedup of an identical-key duplicate elsewhere
			}
			indegree[n.key]++
			dependents[p] = append(dependents[p], n.key)
		}
	}

	var ready []string
	for _, n := range nodes {
		if indegree[n.key] == 0 {
			ready = append(ready, n.key)
		}
	}

	var out []*Node
	seen := make(map[string]bool)
	for len(ready) > 0 {
		// Stable pick: the readiest node with the smallest original index.
		bestPos := 0
		for i := 1; i < len(ready); i++ {
			if index[ready[i]] < index[ready[bestPos]] {
				bestPos = i
			}
		}
		key := ready[bestPos]
		ready = append(ready[:bestPos], ready[bestPos+1:]...)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, nodes[index[key]])
		for _, d := range dependents[key] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(out) != len(nodes) {
		return nil, xerrors.New("build plan contains a predecessor cycle")
	}
	return out, nil
}
