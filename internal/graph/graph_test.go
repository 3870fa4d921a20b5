package graph

import (
	"math"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"powermap/core/internal/metrics"
	"powermap/core/internal/model"
)

// quickSnapshot builds a snapshot of neutral individuals joined by strength-2 relationships
func quickSnapshot(nodeIDs []int64, edges [][2]int64) *Snapshot {
	var nodes []model.Stakeholder
	for _, id := range nodeIDs {
		nodes = append(nodes, model.Stakeholder{
			ID: id, Name: "Node", Category: model.CategoryIndividual,
			Influence: 3, Support: 3, Strength: 2,
		})
	}
	var rels []model.Relationship
	for i, e := range edges {
		rels = append(rels, model.Relationship{
			ID: int64(i + 1), Source: e[0], Target: e[1],
			Type: model.DefaultRelationshipLabel, Strength: 2,
		})
	}
	return NewSnapshot(model.NewGraph(nodes, rels))
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

// --- Snapshot Tests ---

func TestSnapshot_MergesParallelAndDropsSelfLoops(t *testing.T) {
	snap := quickSnapshot(
		[]int64{1, 2, 3},
		[][2]int64{{1, 2}, {2, 1}, {1, 2}, {3, 3}, {1, 9}},
	)
	if len(snap.Edges) != 3 {
		t.Errorf("expected 3 raw edges kept, got %d", len(snap.Edges))
	}
	if len(snap.Adj[1]) != 1 || len(snap.Adj[2]) != 1 {
		t.Errorf("parallel edges should merge in adjacency, got %v", snap.Adj)
	}
	if len(snap.Adj[3]) != 0 {
		t.Errorf("self loop must not create adjacency, got %v", snap.Adj[3])
	}
	if !snap.Linked(2, 1) || snap.Linked(1, 3) {
		t.Errorf("Linked is wrong")
	}
}

// --- Topology Tests ---

func TestTopology_EmptyGraph(t *testing.T) {
	snap := NewSnapshot(nil)
	r := ComputeTopology(snap, 4, 10)
	if r.TotalNodes != 0 || r.TotalEdges != 0 || r.NumComponents != 0 {
		t.Errorf("empty graph should have all zeros, got nodes=%d edges=%d components=%d",
			r.TotalNodes, r.TotalEdges, r.NumComponents)
	}
}

func TestTopology_TwoComponents(t *testing.T) {
	snap := quickSnapshot(
		[]int64{1, 2, 3, 4, 5},
		[][2]int64{{1, 2}, {2, 3}, {4, 5}},
	)
	r := ComputeTopology(snap, 4, 10)
	if r.NumComponents != 2 {
		t.Errorf("expected 2 components, got %d", r.NumComponents)
	}
	if r.LargestComponent != 3 {
		t.Errorf("expected largest=3, got %d", r.LargestComponent)
	}
	if r.SmallestComponent != 2 {
		t.Errorf("expected smallest=2, got %d", r.SmallestComponent)
	}
}

func TestTopology_Isolates(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3}, [][2]int64{{1, 2}})
	r := ComputeTopology(snap, 4, 10)
	if r.IsolateCount != 1 || !reflect.DeepEqual(r.IsolateIDs, []int64{3}) {
		t.Errorf("expected isolate [3], got %d %v", r.IsolateCount, r.IsolateIDs)
	}
}

func TestTopology_Hub(t *testing.T) {
	snap := quickSnapshot(
		[]int64{10, 1, 2, 3, 4, 5},
		[][2]int64{{10, 1}, {10, 2}, {10, 3}, {10, 4}, {5, 10}},
	)
	r := ComputeTopology(snap, 4, 10)
	if len(r.Hubs) != 1 {
		t.Fatalf("expected 1 hub, got %d", len(r.Hubs))
	}
	if r.Hubs[0].ID != 10 || r.Hubs[0].OutDegree != 4 || r.Hubs[0].InDegree != 1 {
		t.Errorf("unexpected hub %+v", r.Hubs[0])
	}
}

// --- Broker Tests ---

func TestBrokers_Path(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3}, [][2]int64{{1, 2}, {2, 3}})
	r := ComputeBrokers(snap)
	if r.BridgeCount != 2 {
		t.Errorf("expected 2 bridges, got %d", r.BridgeCount)
	}
	if r.BrokerCount != 1 || r.Brokers[0].ID != 2 {
		t.Errorf("expected node 2 as the only broker, got %+v", r.Brokers)
	}
}

func TestBrokers_CycleHasNone(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3}, [][2]int64{{1, 2}, {2, 3}, {3, 1}})
	r := ComputeBrokers(snap)
	if r.BridgeCount != 0 || r.BrokerCount != 0 {
		t.Errorf("triangle should have no bridges or brokers, got %d/%d", r.BridgeCount, r.BrokerCount)
	}
}

func TestBrokers_TwoTrianglesJoined(t *testing.T) {
	snap := quickSnapshot(
		[]int64{1, 2, 3, 4, 5, 6},
		[][2]int64{
			{1, 2}, {2, 3}, {3, 1},
			{4, 5}, {5, 6}, {6, 4},
			{3, 4},
		},
	)
	r := ComputeBrokers(snap)
	if r.BridgeCount != 1 {
		t.Errorf("expected 1 bridge (3-4), got %d", r.BridgeCount)
	}
	ids := map[int64]bool{}
	for _, b := range r.Brokers {
		ids[b.ID] = true
	}
	if len(ids) != 2 || !ids[3] || !ids[4] {
		t.Errorf("3 and 4 should be the brokers, got %v", ids)
	}
}

func TestBrokers_ParallelRelationshipIsNotBridge(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2}, [][2]int64{{1, 2}, {2, 1}})
	r := ComputeBrokers(snap)
	if r.BridgeCount != 0 {
		t.Errorf("doubly linked pair is not a bridge, got %d", r.BridgeCount)
	}
}

// --- Centrality Tests ---

func TestTwoNodeScenario(t *testing.T) {
	nodes := []model.Stakeholder{
		{ID: 1, Name: "A", Category: model.CategoryIndividual, Influence: 5, Support: 3},
		{ID: 2, Name: "B", Category: model.CategoryIndividual, Influence: 3, Support: 3},
	}
	edges := []model.Relationship{{ID: 1, Source: 1, Target: 2, Strength: 2}}
	snap := NewSnapshot(model.NewGraph(nodes, edges))

	if got := DegreeCentrality(snap); !reflect.DeepEqual(got, map[int64]int{1: 1, 2: 1}) {
		t.Errorf("degree = %v", got)
	}
	if d := Diameter(snap); d != 1 {
		t.Errorf("diameter = %d, want 1", d)
	}
	if d := Density(snap); d != 1 {
		t.Errorf("density = %f, want 1", d)
	}
	// 0.3*1 + 0.4*5 + 0.2*2 + 0.1*1
	if s := InfluenceScore(snap, 1); !approx(s, 2.8) {
		t.Errorf("influence(A) = %f, want 2.8", s)
	}
	if s := InfluenceScore(snap, 2); !approx(s, 2.0) {
		t.Errorf("influence(B) = %f, want 2.0", s)
	}
}

func TestDegree_CountsParallelAndIsolated(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3}, [][2]int64{{1, 2}, {1, 2}})
	got := DegreeCentrality(snap)
	if got[1] != 2 || got[2] != 2 || got[3] != 0 {
		t.Errorf("degree = %v", got)
	}
	if _, ok := got[3]; !ok {
		t.Errorf("isolated node must be present with 0")
	}
}

func TestBetweenness_Star(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3, 4}, [][2]int64{{1, 2}, {1, 3}, {1, 4}})
	approxB := ApproxBetweenness(snap)
	exact := ExactBetweenness(snap)
	// 3 leaves, 6 ordered leaf pairs, all routed through the centre
	if approxB[1] != 6 || exact[1] != 6 {
		t.Errorf("centre betweenness approx=%f exact=%f, want 6", approxB[1], exact[1])
	}
	if approxB[2] != 0 || exact[2] != 0 {
		t.Errorf("leaf betweenness approx=%f exact=%f, want 0", approxB[2], exact[2])
	}
}

func TestBetweenness_TriangleIsZero(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3}, [][2]int64{{1, 2}, {2, 3}, {3, 1}})
	for id, v := range ApproxBetweenness(snap) {
		if v != 0 {
			t.Errorf("node %d: %f, want 0", id, v)
		}
	}
}

func TestCloseness(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3, 4}, [][2]int64{{1, 2}, {2, 3}})
	c := Closeness(snap)
	// node 2 reaches 2 of 3 others at distance 1 each: (2/2)*(2/3)
	if !approx(c[2], 0.6667) {
		t.Errorf("closeness(2) = %f", c[2])
	}
	if c[4] != 0 {
		t.Errorf("isolated closeness = %f, want 0", c[4])
	}
}

// --- Influence Tests ---

func TestInfluenceScore_Clamped(t *testing.T) {
	nodes := []model.Stakeholder{{ID: 1, Category: model.CategoryHousehold, Influence: 1}}
	snap := NewSnapshot(model.NewGraph(nodes, nil))
	if s := InfluenceScore(snap, 1); s != 1 {
		t.Errorf("low score should clamp to 1, got %f", s)
	}

	ids := []int64{100}
	var edges [][2]int64
	for i := int64(1); i <= 20; i++ {
		ids = append(ids, i)
		edges = append(edges, [2]int64{100, i})
	}
	star := quickSnapshot(ids, edges)
	if s := InfluenceScore(star, 100); s != 5 {
		t.Errorf("high score should clamp to 5, got %f", s)
	}
	if s := InfluenceScore(star, 999); s != 0 {
		t.Errorf("unknown node should score 0, got %f", s)
	}
}

func TestInfluenceScore_CategoryWeight(t *testing.T) {
	nodes := []model.Stakeholder{
		{ID: 1, Category: model.CategoryOrganization, Influence: 3},
		{ID: 2, Category: "Unknown", Influence: 3},
	}
	snap := NewSnapshot(model.NewGraph(nodes, nil))
	// 0.4*3 + 0.2*2 + 0.1*w
	if s := InfluenceScore(snap, 1); !approx(s, 1.75) {
		t.Errorf("organisation score = %f, want 1.75", s)
	}
	if s := InfluenceScore(snap, 2); !approx(s, 1.7) {
		t.Errorf("default category score = %f, want 1.7", s)
	}
}

func TestKeyInfluencers_StableOrderAndLimit(t *testing.T) {
	snap := quickSnapshot([]int64{5, 3, 9, 1}, [][2]int64{{1, 9}})
	got := KeyInfluencers(snap, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	// 9 and 1 have a connection and tie; 5 and 3 tie below them
	want := []int64{9, 1, 5}
	for i, w := range want {
		if got[i].ID != w {
			t.Errorf("rank %d = %d, want %d", i, got[i].ID, w)
		}
	}
	if len(KeyInfluencers(snap, 0)) != 0 {
		t.Errorf("limit 0 should return nothing")
	}
	if len(KeyInfluencers(snap, 50)) != 4 {
		t.Errorf("limit above node count should return every node")
	}
}

// --- Path Tests ---

func TestShortestPath(t *testing.T) {
	snap := quickSnapshot(
		[]int64{1, 2, 3, 4, 5},
		[][2]int64{{1, 2}, {2, 3}, {3, 4}, {1, 3}},
	)
	if p := ShortestPath(snap, 1, 4); !reflect.DeepEqual(p, []int64{1, 3, 4}) {
		t.Errorf("path 1->4 = %v", p)
	}
	if p := ShortestPath(snap, 4, 1); !reflect.DeepEqual(p, []int64{4, 3, 1}) {
		t.Errorf("path 4->1 = %v", p)
	}
	if p := ShortestPath(snap, 2, 2); !reflect.DeepEqual(p, []int64{2}) {
		t.Errorf("path 2->2 = %v", p)
	}
	if p := ShortestPath(snap, 1, 5); len(p) != 0 {
		t.Errorf("unreachable target should give empty path, got %v", p)
	}
	if p := ShortestPath(snap, 42, 42); len(p) != 0 {
		t.Errorf("absent node should give empty path, got %v", p)
	}
}

func TestDiameter_IgnoresDisconnectedPairs(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3, 4, 5}, [][2]int64{{1, 2}, {2, 3}, {3, 4}})
	if d := Diameter(snap); d != 3 {
		t.Errorf("diameter = %d, want 3", d)
	}
	if d := Diameter(quickSnapshot([]int64{1}, nil)); d != 0 {
		t.Errorf("single node diameter = %d, want 0", d)
	}
}

// --- Clustering Tests ---

func TestClustering_TriangleWithPendant(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3, 4}, [][2]int64{{1, 2}, {2, 3}, {3, 1}, {1, 4}})
	c := ClusteringCoefficients(snap)
	if _, ok := c[4]; ok {
		t.Errorf("node with one neighbour must be excluded")
	}
	if !approx(c[1], 0.3333) || c[2] != 1 || c[3] != 1 {
		t.Errorf("coefficients = %v", c)
	}
	if avg := AverageClustering(snap); !approx(avg, 0.7778) {
		t.Errorf("average = %f, want 0.7778", avg)
	}
}

// --- Community Tests ---

func TestCommunities_Components(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3, 4, 5}, [][2]int64{{1, 2}, {2, 3}, {4, 5}})
	got := Communities(snap)
	want := [][]int64{{1, 2, 3}, {4, 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("communities = %v, want %v", got, want)
	}
}

func TestModularCommunities_TwoTriangles(t *testing.T) {
	snap := quickSnapshot(
		[]int64{1, 2, 3, 4, 5, 6},
		[][2]int64{{1, 2}, {2, 3}, {3, 1}, {4, 5}, {5, 6}, {6, 4}, {3, 4}},
	)
	got := ModularCommunities(snap, 1.0, 1)
	want := [][]int64{{1, 2, 3}, {4, 5, 6}}
	if !reflect.DeepEqual(got.Communities, want) {
		t.Errorf("communities = %v, want %v", got.Communities, want)
	}
	if !approx(got.Modularity, 0.3571) {
		t.Errorf("modularity = %f, want 0.3571", got.Modularity)
	}
}

func TestModularCommunities_NoEdges(t *testing.T) {
	got := ModularCommunities(quickSnapshot([]int64{1, 2}, nil), 1.0, 1)
	if len(got.Communities) != 2 || got.Modularity != 0 {
		t.Errorf("expected singletons with Q=0, got %+v", got)
	}
}

// --- Analyze Tests ---

func TestAnalyze_PerfectTriangle(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2, 3}, [][2]int64{{1, 2}, {2, 3}, {3, 1}})
	r := Analyze(snap, DefaultConfig())
	if r.HealthScore < 0.95 {
		t.Errorf("triangle should have health ~1.0, got %f", r.HealthScore)
	}
	if len(r.FailedMetrics) != 0 {
		t.Errorf("unexpected failures %v", r.FailedMetrics)
	}
	if r.NetworkStatistics.Diameter != 1 || r.NetworkStatistics.ClusteringCoeff != 1 {
		t.Errorf("unexpected stats %+v", r.NetworkStatistics)
	}
	if len(r.KeyInfluencers) != 3 {
		t.Errorf("expected 3 key influencers, got %d", len(r.KeyInfluencers))
	}
}

func TestAnalyze_EmptyGraphHasFullShape(t *testing.T) {
	r := Analyze(NewSnapshot(nil), nil)
	if r.CentralityMeasures.Degree == nil || r.KeyInfluencers == nil ||
		r.NetworkStatistics.Communities == nil || r.Topology == nil || r.Brokers == nil {
		t.Errorf("empty graph report has nil sections: %+v", r)
	}
}

func TestAnalyze_IsolatesFailingMetric(t *testing.T) {
	snap := quickSnapshot([]int64{1, 2}, [][2]int64{{1, 2}})
	snap.Nodes[2] = nil // breaks the ranking, which dereferences every node

	reg := metrics.NewRegistry()
	cfg := DefaultConfig()
	cfg.Metrics = reg
	r := Analyze(snap, cfg)

	if !reflect.DeepEqual(r.FailedMetrics, []string{"key_influencers"}) {
		t.Fatalf("failed metrics = %v", r.FailedMetrics)
	}
	if r.KeyInfluencers == nil || len(r.KeyInfluencers) != 0 {
		t.Errorf("failed section should be empty, got %v", r.KeyInfluencers)
	}
	if r.CentralityMeasures.Degree[1] != 1 {
		t.Errorf("other metrics should still be computed")
	}
	if v := testutil.ToFloat64(reg.MetricFailuresTotal.WithLabelValues("key_influencers")); v != 1 {
		t.Errorf("failure counter = %f, want 1", v)
	}
}
