package model

// Category labels as stored by the contact store
const (
	CategoryIndividual   = "Individual"
	CategoryOrganization = "Organization"
	CategoryHousehold    = "Household"
)

// DefaultRelationshipLabel is used when a relationship type has no label
const DefaultRelationshipLabel = "Related to"

// Level bounds for stakeholder attributes
const (
	MinLevel    = 1
	MaxLevel    = 5
	MinStrength = 1
	MaxStrength = 3

	// StrongStrength is the edge strength at which a relationship counts as strong
	StrongStrength = 3
)

// Stakeholder is a node of the power map
type Stakeholder struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"type"`
	SubCategory string `json:"subtype"`
	Influence   int    `json:"influence"`
	Support     int    `json:"support"`
	Strength    int    `json:"strength"`
	Group       string `json:"group"` // "high", "medium", "low"
	Notes       string `json:"notes"`
}

// Relationship is an undirected-for-analysis edge between two stakeholders
type Relationship struct {
	ID       int64  `json:"id"`
	Source   int64  `json:"source"`
	Target   int64  `json:"target"`
	TypeID   int64  `json:"type_id"`
	Type     string `json:"type"`
	Strength int    `json:"strength"`
}

// Touches reports whether id is one of the relationship's endpoints
func (r Relationship) Touches(id int64) bool {
	return r.Source == id || r.Target == id
}

// InfluenceGroup classifies an influence level into a display band
func InfluenceGroup(influence int) string {
	switch {
	case influence >= 4:
		return "high"
	case influence >= 3:
		return "medium"
	default:
		return "low"
	}
}

// ClampInt bounds v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
