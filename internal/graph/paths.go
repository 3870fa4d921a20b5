package graph

import "container/heap"

type pathEntry struct {
	distance int
	nodeID   int64
}

// pathHeap implements container/heap.Interface as a min-heap.
// Ties broken by node ID for deterministic output.
type pathHeap []pathEntry

func (h pathHeap) Len() int { return len(h) }
func (h pathHeap) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	return h[i].nodeID < h[j].nodeID
}
func (h pathHeap) Swap(i, j int)  { h[i], h[j] = h[j], h[i] }
func (h *pathHeap) Push(x any)    { *h = append(*h, x.(pathEntry)) }
func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra with unit weights over the undirected adjacency
// and returns the node IDs from `from` to `to` inclusive. The result is empty
// when either endpoint is absent or `to` is unreachable.
func ShortestPath(snap *Snapshot, from, to int64) []int64 {
	if _, ok := snap.Nodes[from]; !ok {
		return []int64{}
	}
	if _, ok := snap.Nodes[to]; !ok {
		return []int64{}
	}
	if from == to {
		return []int64{from}
	}

	dist := map[int64]int{from: 0}
	prev := make(map[int64]int64)
	visited := make(map[int64]bool)

	h := &pathHeap{{distance: 0, nodeID: from}}
	heap.Init(h)

	for h.Len() > 0 {
		entry := heap.Pop(h).(pathEntry)
		current := entry.nodeID
		if visited[current] {
			continue
		}
		visited[current] = true
		if current == to {
			break
		}

		for _, nb := range snap.Adj[current] {
			if visited[nb] {
				continue
			}
			nd := entry.distance + 1
			if d, ok := dist[nb]; !ok || nd < d {
				dist[nb] = nd
				prev[nb] = current
				heap.Push(h, pathEntry{distance: nd, nodeID: nb})
			}
		}
	}

	if !visited[to] {
		return []int64{}
	}
	var path []int64
	for cur := to; ; cur = prev[cur] {
		path = append(path, cur)
		if cur == from {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Diameter is the longest shortest-path hop count over all connected pairs.
// Disconnected pairs are skipped, so a graph of isolated nodes has diameter 0.
func Diameter(snap *Snapshot) int {
	longest := 0
	for id := range snap.Nodes {
		for _, d := range bfsDistances(snap, id) {
			longest = max(longest, d)
		}
	}
	return longest
}

// AverageDegree is 2|E| / |V| over the raw relationship list
func AverageDegree(snap *Snapshot) float64 {
	if len(snap.Nodes) == 0 {
		return 0
	}
	return round(2*float64(len(snap.Edges))/float64(len(snap.Nodes)), 2)
}
