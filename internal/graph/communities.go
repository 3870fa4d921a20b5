package graph

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph/community"
)

// Communities splits the network into connected components with a depth-first
// walk from each unvisited node, in input order. Members appear in visit order.
// Components are not modularity-optimised; see ModularCommunities for that.
func Communities(snap *Snapshot) [][]int64 {
	visited := make(map[int64]bool, len(snap.Nodes))
	out := [][]int64{}
	for _, start := range snap.NodeIDs() {
		if visited[start] {
			continue
		}
		var members []int64
		stack := []int64{start}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			members = append(members, cur)
			nbrs := snap.Adj[cur]
			for i := len(nbrs) - 1; i >= 0; i-- {
				if !visited[nbrs[i]] {
					stack = append(stack, nbrs[i])
				}
			}
		}
		out = append(out, members)
	}
	return out
}

// ModularPartition is a Louvain community partition and its modularity
type ModularPartition struct {
	Communities [][]int64 `json:"communities"`
	Modularity  float64   `json:"modularity"`
}

// ModularCommunities runs Louvain modularity optimisation. The seed makes the
// node visiting order reproducible. Communities are sorted by size, largest
// first, and members ascending. A graph without relationships yields one
// community per node and modularity 0.
func ModularCommunities(snap *Snapshot, resolution float64, seed uint64) ModularPartition {
	if len(snap.Nodes) == 0 {
		return ModularPartition{Communities: [][]int64{}}
	}
	if len(snap.Edges) == 0 {
		singles := make([][]int64, 0, len(snap.Nodes))
		for _, id := range snap.NodeIDs() {
			singles = append(singles, []int64{id})
		}
		return ModularPartition{Communities: singles}
	}

	g := undirected(snap)
	reduced := community.Modularize(g, resolution, rand.NewPCG(seed, seed))
	groups := reduced.Communities()

	out := make([][]int64, 0, len(groups))
	for _, c := range groups {
		if len(c) == 0 {
			continue
		}
		ids := make([]int64, 0, len(c))
		for _, n := range c {
			ids = append(ids, n.ID())
		}
		slices.Sort(ids)
		out = append(out, ids)
	}
	slices.SortStableFunc(out, func(a, b []int64) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return cmp.Compare(a[0], b[0])
	})

	return ModularPartition{
		Communities: out,
		Modularity:  round(community.Q(g, groups, resolution), 4),
	}
}
