package network

import (
	"math"

	"powermap/core/internal/model"
)

// Stats is the dashboard summary of an assembled graph
type Stats struct {
	Total               int     `json:"total"`
	HighInfluence       int     `json:"high_influence"`
	Supporters          int     `json:"supporters"`
	Opposition          int     `json:"opposition"`
	Neutral             int     `json:"neutral"`
	AvgInfluence        float64 `json:"avg_influence"`
	AvgSupport          float64 `json:"avg_support"`
	NetworkDensity      float64 `json:"network_density"`
	TotalRelationships  int     `json:"total_relationships"`
	StrongRelationships int     `json:"strong_relationships"`
}

// ComputeStats summarises g. Density is a percentage of possible pairs with
// parallel relationships counted once, so it never exceeds 100.
func ComputeStats(g *model.Graph) Stats {
	s := Stats{
		Total:              len(g.Nodes),
		TotalRelationships: len(g.Edges),
	}

	influenceSum, supportSum := 0, 0
	for _, n := range g.Nodes {
		influenceSum += n.Influence
		supportSum += n.Support
		if n.Influence >= 4 {
			s.HighInfluence++
		}
		switch {
		case n.Support >= 4:
			s.Supporters++
		case n.Support <= 2:
			s.Opposition++
		}
	}
	s.Neutral = s.Total - s.Supporters - s.Opposition

	if s.Total > 0 {
		s.AvgInfluence = round(float64(influenceSum)/float64(s.Total), 2)
		s.AvgSupport = round(float64(supportSum)/float64(s.Total), 2)
	}

	pairs := make(map[[2]int64]bool, len(g.Edges))
	for _, e := range g.Edges {
		if e.Strength >= model.StrongStrength {
			s.StrongRelationships++
		}
		if e.Source == e.Target || !g.Has(e.Source) || !g.Has(e.Target) {
			continue
		}
		a, b := e.Source, e.Target
		if a > b {
			a, b = b, a
		}
		pairs[[2]int64{a, b}] = true
	}
	if s.Total >= 2 {
		possible := float64(s.Total) * float64(s.Total-1) / 2
		s.NetworkDensity = round(float64(len(pairs))/possible*100, 1)
	}
	return s
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
