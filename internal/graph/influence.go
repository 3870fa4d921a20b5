package graph

import (
	"math"
	"sort"

	"powermap/core/internal/model"
)

// Influence score weights
const (
	weightConnections = 0.3
	weightInfluence   = 0.4
	weightStrength    = 0.2
	weightCategory    = 0.1

	// defaultMeanStrength applies to nodes without relationships
	defaultMeanStrength = 2.0
)

var categoryWeights = map[string]float64{
	model.CategoryIndividual:   1.0,
	model.CategoryOrganization: 1.5,
	model.CategoryHousehold:    0.8,
}

// Influencer is one entry of the key-influencer ranking
type Influencer struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"type"`
	Score     float64 `json:"influence_score"`
	Influence int     `json:"influence"`
	Support   int     `json:"support"`
}

// InfluenceScore combines ego-network size, the influence attribute, mean
// incident strength and a category weight. The result is clamped to [1,5] and
// rounded to 2 decimals. Unknown IDs score 0.
func InfluenceScore(snap *Snapshot, id int64) float64 {
	node := snap.Nodes[id]
	if node == nil {
		return 0
	}

	connections := float64(len(snap.Adj[id]))

	meanStrength := defaultMeanStrength
	total, count := 0, 0
	for _, e := range snap.Edges {
		if e.Touches(id) {
			total += e.Strength
			count++
		}
	}
	if count > 0 {
		meanStrength = float64(total) / float64(count)
	}

	catWeight, ok := categoryWeights[node.Category]
	if !ok {
		catWeight = 1.0
	}

	score := weightConnections*connections +
		weightInfluence*float64(node.Influence) +
		weightStrength*meanStrength +
		weightCategory*catWeight

	return round(clamp(score, 1, 5), 2)
}

// InfluenceScores scores every node
func InfluenceScores(snap *Snapshot) map[int64]float64 {
	out := make(map[int64]float64, len(snap.Nodes))
	for id := range snap.Nodes {
		out[id] = InfluenceScore(snap, id)
	}
	return out
}

// KeyInfluencers ranks nodes by influence score, highest first. Ties keep
// input order. At most limit entries are returned; limit <= 0 returns none.
func KeyInfluencers(snap *Snapshot, limit int) []Influencer {
	ranked := make([]Influencer, 0, len(snap.Nodes))
	if limit <= 0 {
		return ranked
	}
	for _, id := range snap.NodeIDs() {
		n := snap.Nodes[id]
		ranked = append(ranked, Influencer{
			ID:        id,
			Name:      n.Name,
			Category:  n.Category,
			Score:     InfluenceScore(snap, id),
			Influence: n.Influence,
			Support:   n.Support,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
