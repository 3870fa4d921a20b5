package graph

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
)

// DegreeCentrality counts incident relationships per node. Parallel
// relationships each count; isolated nodes are reported with 0.
func DegreeCentrality(snap *Snapshot) map[int64]int {
	degree := make(map[int64]int, len(snap.Nodes))
	for id := range snap.Nodes {
		degree[id] = 0
	}
	for _, e := range snap.Edges {
		degree[e.Source]++
		degree[e.Target]++
	}
	return degree
}

// ApproxBetweenness is a coarse stand-in for betweenness centrality, not
// Brandes' algorithm. For node v it counts ordered pairs (s, t) of distinct
// neighbours of v that have no direct relationship: the two-hop route through
// v is then at least as short as any other s-t route. Longer detours through v
// are never counted, so values understate true betweenness on sparse graphs.
func ApproxBetweenness(snap *Snapshot) map[int64]float64 {
	out := make(map[int64]float64, len(snap.Nodes))
	for id, nbrs := range snap.Adj {
		count := 0
		for i, s := range nbrs {
			for j, t := range nbrs {
				if i != j && !snap.Linked(s, t) {
					count++
				}
			}
		}
		out[id] = float64(count)
	}
	return out
}

// ExactBetweenness computes Brandes betweenness over ordered node pairs, so an
// undirected path A-B-C gives B a score of 2. Every node is present in the result.
func ExactBetweenness(snap *Snapshot) map[int64]float64 {
	out := make(map[int64]float64, len(snap.Nodes))
	for id := range snap.Nodes {
		out[id] = 0
	}
	for id, v := range network.Betweenness(undirected(snap)) {
		out[id] = round(v, 4)
	}
	return out
}

// Closeness returns Wasserman-Faust closeness: (r/sum) * (r/(n-1)) where r is
// the number of nodes reachable from v and sum their total distance. Nodes
// that reach nothing score 0.
func Closeness(snap *Snapshot) map[int64]float64 {
	n := len(snap.Nodes)
	out := make(map[int64]float64, n)
	for id := range snap.Nodes {
		dist := bfsDistances(snap, id)
		reach := len(dist) - 1
		if reach == 0 {
			out[id] = 0
			continue
		}
		sum := 0
		for _, d := range dist {
			sum += d
		}
		r := float64(reach)
		out[id] = round(r/float64(sum)*r/float64(n-1), 4)
	}
	return out
}

// undirected converts the snapshot into a gonum simple graph
func undirected(snap *Snapshot) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for _, id := range snap.NodeIDs() {
		g.AddNode(simple.Node(id))
	}
	for id, nbrs := range snap.Adj {
		for _, nb := range nbrs {
			if id < nb {
				g.SetEdge(simple.Edge{F: simple.Node(id), T: simple.Node(nb)})
			}
		}
	}
	return g
}

// bfsDistances returns hop counts from src to every reachable node, src included at 0
func bfsDistances(snap *Snapshot, src int64) map[int64]int {
	dist := map[int64]int{src: 0}
	queue := []int64{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range snap.Adj[cur] {
			if _, seen := dist[nb]; seen {
				continue
			}
			dist[nb] = dist[cur] + 1
			queue = append(queue, nb)
		}
	}
	return dist
}
