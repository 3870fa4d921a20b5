package graph

// Broker is a stakeholder whose removal splits their part of the network
type Broker struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Degree int    `json:"degree"`
}

// BridgeRelationship is the only link between two parts of the network
type BridgeRelationship struct {
	SourceID   int64  `json:"source_id"`
	TargetID   int64  `json:"target_id"`
	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`
}

// BrokerReport contains articulation point and bridge results
type BrokerReport struct {
	Brokers     []Broker             `json:"brokers"`
	Bridges     []BridgeRelationship `json:"bridges"`
	BrokerCount int                  `json:"broker_count"`
	BridgeCount int                  `json:"bridge_count"`
}

// ComputeBrokers finds articulation points and bridge relationships using an
// iterative Tarjan traversal over the undirected adjacency.
func ComputeBrokers(snap *Snapshot) *BrokerReport {
	if len(snap.Nodes) == 0 {
		return &BrokerReport{Brokers: []Broker{}, Bridges: []BridgeRelationship{}}
	}

	nodeIDs := snap.NodeIDs()
	idToIdx := make(map[int64]int, len(nodeIDs))
	for i, id := range nodeIDs {
		idToIdx[id] = i
	}
	n := len(nodeIDs)

	adjIdx := make([][]int, n)
	for i, id := range nodeIDs {
		for _, nb := range snap.Adj[id] {
			adjIdx[i] = append(adjIdx[i], idToIdx[nb])
		}
	}

	// parallel relationships between a pair mean that pair is never a bridge
	multiplicity := make(map[pairKey]int)
	for _, e := range snap.Edges {
		multiplicity[newPairKey(e.Source, e.Target)]++
	}

	disc := make([]int, n)
	low := make([]int, n)
	visited := make([]bool, n)
	isAP := make([]bool, n)
	var bridgePairs [][2]int
	counter := 1

	const noParent = -1

	type frame struct {
		node, parent, ni int
	}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		visited[start] = true
		disc[start] = counter
		low[start] = counter
		counter++

		stack := []frame{{start, noParent, 0}}
		rootChildren := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			node := top.node

			if top.ni < len(adjIdx[node]) {
				child := adjIdx[node][top.ni]
				top.ni++

				if child == top.parent {
					continue
				}
				if visited[child] {
					// back edge
					low[node] = min(low[node], disc[child])
					continue
				}

				visited[child] = true
				disc[child] = counter
				low[child] = counter
				counter++
				if node == start {
					rootChildren++
				}
				stack = append(stack, frame{child, node, 0})
				continue
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break
			}
			pn := stack[len(stack)-1].node
			low[pn] = min(low[pn], low[node])

			if low[node] > disc[pn] {
				bridgePairs = append(bridgePairs, [2]int{pn, node})
			}
			if pn != start && low[node] >= disc[pn] {
				isAP[pn] = true
			}
		}

		if rootChildren >= 2 {
			isAP[start] = true
		}
	}

	report := &BrokerReport{
		Brokers: []Broker{},
		Bridges: []BridgeRelationship{},
	}
	for i := 0; i < n; i++ {
		if !isAP[i] {
			continue
		}
		id := nodeIDs[i]
		report.Brokers = append(report.Brokers, Broker{
			ID:     id,
			Name:   snap.Name(id),
			Degree: len(adjIdx[i]),
		})
	}
	for _, pair := range bridgePairs {
		uid, vid := nodeIDs[pair[0]], nodeIDs[pair[1]]
		if multiplicity[newPairKey(uid, vid)] > 1 {
			continue
		}
		report.Bridges = append(report.Bridges, BridgeRelationship{
			SourceID:   uid,
			TargetID:   vid,
			SourceName: snap.Name(uid),
			TargetName: snap.Name(vid),
		})
	}
	report.BrokerCount = len(report.Brokers)
	report.BridgeCount = len(report.Bridges)
	return report
}
