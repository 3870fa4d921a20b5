package graph

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"powermap/core/internal/metrics"
)

// HealthBreakdown shows the sub-scores of the cohesion formula
type HealthBreakdown struct {
	Connectivity float64 `json:"connectivity"`
	Components   float64 `json:"components"`
	Fragility    float64 `json:"fragility"`
}

// Centrality groups the per-node centrality measures
type Centrality struct {
	Degree map[int64]int `json:"degree"`
	// Betweenness holds the two-hop approximation; see ApproxBetweenness
	Betweenness      map[int64]float64 `json:"betweenness"`
	ExactBetweenness map[int64]float64 `json:"exact_betweenness"`
	Closeness        map[int64]float64 `json:"closeness"`
	Influence        map[int64]float64 `json:"influence"`
	Clustering       map[int64]float64 `json:"clustering"`
}

// NetworkStatistics are whole-network measures
type NetworkStatistics struct {
	TotalNodes         int              `json:"total_nodes"`
	TotalEdges         int              `json:"total_edges"`
	Density            float64          `json:"density"`
	AverageDegree      float64          `json:"average_degree"`
	ClusteringCoeff    float64          `json:"clustering_coefficient"`
	Diameter           int              `json:"diameter"`
	Communities        [][]int64        `json:"communities"`
	ModularCommunities ModularPartition `json:"modular_communities"`
}

// AnalysisReport is the full analysis result. Sections whose computation
// failed are left empty and named in FailedMetrics.
type AnalysisReport struct {
	CentralityMeasures Centrality        `json:"centrality_measures"`
	KeyInfluencers     []Influencer      `json:"key_influencers"`
	NetworkStatistics  NetworkStatistics `json:"network_statistics"`
	HealthScore        float64           `json:"health_score"`
	HealthBreakdown    HealthBreakdown   `json:"health_breakdown"`
	Topology           *TopologyReport   `json:"topology"`
	Brokers            *BrokerReport     `json:"brokers"`
	FailedMetrics      []string          `json:"failed_metrics,omitempty"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold        int
	TopN                int
	KeyInfluencerLimit  int
	CommunityResolution float64
	CommunitySeed       uint64

	Metrics *metrics.Registry
	Logger  *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold:        5,
		TopN:                10,
		KeyInfluencerLimit:  10,
		CommunityResolution: 1.0,
		CommunitySeed:       1,
	}
}

// Analyze runs every analysis over the snapshot. A panic inside one metric
// leaves that section empty and does not affect the others.
func Analyze(snap *Snapshot, config *AnalyzerConfig) *AnalysisReport {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()

	report := emptyReport()
	section := func(name string, fn func()) {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("metric failed", "metric", name, "panic", fmt.Sprint(r))
				config.Metrics.RecordMetricFailure(name)
				report.FailedMetrics = append(report.FailedMetrics, name)
			}
		}()
		fn()
	}

	c := &report.CentralityMeasures
	stats := &report.NetworkStatistics
	stats.TotalNodes = len(snap.Nodes)
	stats.TotalEdges = len(snap.Edges)

	section("degree", func() { c.Degree = DegreeCentrality(snap) })
	section("betweenness", func() { c.Betweenness = ApproxBetweenness(snap) })
	section("exact_betweenness", func() { c.ExactBetweenness = ExactBetweenness(snap) })
	section("closeness", func() { c.Closeness = Closeness(snap) })
	section("influence", func() { c.Influence = InfluenceScores(snap) })
	section("clustering", func() {
		c.Clustering = ClusteringCoefficients(snap)
		stats.ClusteringCoeff = AverageClustering(snap)
	})
	section("key_influencers", func() {
		report.KeyInfluencers = KeyInfluencers(snap, config.KeyInfluencerLimit)
	})
	section("density", func() {
		stats.Density = Density(snap)
		stats.AverageDegree = AverageDegree(snap)
	})
	section("diameter", func() { stats.Diameter = Diameter(snap) })
	section("communities", func() { stats.Communities = Communities(snap) })
	section("modular_communities", func() {
		stats.ModularCommunities = ModularCommunities(snap, config.CommunityResolution, config.CommunitySeed)
	})
	section("topology", func() {
		report.Topology = ComputeTopology(snap, config.HubThreshold, config.TopN)
	})
	section("brokers", func() { report.Brokers = ComputeBrokers(snap) })
	section("health", func() { scoreHealth(report) })

	config.Metrics.RecordAnalysis(time.Since(start))
	logger.Debug("analysis complete",
		"nodes", stats.TotalNodes,
		"edges", stats.TotalEdges,
		"failed", len(report.FailedMetrics),
		"elapsed", time.Since(start))
	return report
}

// Density is the share of distinct linked pairs among all possible pairs, in [0,1]
func Density(snap *Snapshot) float64 {
	n := len(snap.Nodes)
	if n < 2 {
		return 0
	}
	return round(float64(len(snap.linked))/(float64(n)*float64(n-1)/2), 4)
}

func emptyReport() *AnalysisReport {
	return &AnalysisReport{
		CentralityMeasures: Centrality{
			Degree:           map[int64]int{},
			Betweenness:      map[int64]float64{},
			ExactBetweenness: map[int64]float64{},
			Closeness:        map[int64]float64{},
			Influence:        map[int64]float64{},
			Clustering:       map[int64]float64{},
		},
		KeyInfluencers: []Influencer{},
		NetworkStatistics: NetworkStatistics{
			Communities:        [][]int64{},
			ModularCommunities: ModularPartition{Communities: [][]int64{}},
		},
		Topology: &TopologyReport{IsolateIDs: []int64{}, DegreeHistogram: defaultHistogram(), Hubs: []HubNode{}},
		Brokers:  &BrokerReport{Brokers: []Broker{}, Bridges: []BridgeRelationship{}},
	}
}

// scoreHealth derives a 0-1 cohesion score from topology and brokers
func scoreHealth(report *AnalysisReport) {
	topology := report.Topology
	total := float64(topology.TotalNodes)

	var connectivity, components, fragility float64
	if total > 0 {
		connectivity = clamp(1.0-math.Min(float64(topology.IsolateCount)/total, 0.2)*5.0, 0, 1)
		fragility = clamp(1.0-math.Min(float64(report.Brokers.BrokerCount)/total, 0.05)*20.0, 0, 1)
	}
	if topology.NumComponents > 0 {
		components = clamp(1.0/float64(topology.NumComponents), 0, 1)
	}

	report.HealthScore = round(0.40*connectivity+0.35*components+0.25*fragility, 4)
	report.HealthBreakdown = HealthBreakdown{
		Connectivity: connectivity,
		Components:   components,
		Fragility:    fragility,
	}
}
