package graph

// ClusteringCoefficients returns, for every node with at least two distinct
// neighbours, the fraction of neighbour pairs that are themselves linked.
// Nodes with fewer than two neighbours are left out rather than scored 0.
func ClusteringCoefficients(snap *Snapshot) map[int64]float64 {
	out := make(map[int64]float64)
	for id, nbrs := range snap.Adj {
		k := len(nbrs)
		if k < 2 {
			continue
		}
		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if snap.Linked(nbrs[i], nbrs[j]) {
					links++
				}
			}
		}
		out[id] = round(float64(links)/float64(k*(k-1)/2), 4)
	}
	return out
}

// AverageClustering averages ClusteringCoefficients; 0 when no node qualifies
func AverageClustering(snap *Snapshot) float64 {
	coeffs := ClusteringCoefficients(snap)
	if len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return round(sum/float64(len(coeffs)), 4)
}
