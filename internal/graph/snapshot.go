package graph

import "powermap/core/internal/model"

// Snapshot holds an assembled network with precomputed adjacency.
// Adj is the undirected simple-graph view: parallel relationships between the
// same pair collapse into one neighbour entry. Edges keeps every relationship.
type Snapshot struct {
	Nodes  map[int64]*model.Stakeholder
	Edges  []model.Relationship
	Adj    map[int64][]int64 // undirected, deduplicated
	OutAdj map[int64][]int64 // source -> targets, deduplicated
	InAdj  map[int64][]int64 // target -> sources, deduplicated

	order  []int64
	linked map[pairKey]bool
}

// pairKey is an unordered node pair with a < b
type pairKey struct{ a, b int64 }

func newPairKey(u, v int64) pairKey {
	if u > v {
		u, v = v, u
	}
	return pairKey{u, v}
}

// NewSnapshot builds a Snapshot from an assembled graph. Relationships with a
// missing endpoint or with source == target are ignored.
func NewSnapshot(g *model.Graph) *Snapshot {
	s := &Snapshot{
		Nodes:  make(map[int64]*model.Stakeholder),
		Adj:    make(map[int64][]int64),
		OutAdj: make(map[int64][]int64),
		InAdj:  make(map[int64][]int64),
		linked: make(map[pairKey]bool),
	}
	if g == nil {
		return s
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if _, dup := s.Nodes[n.ID]; dup {
			continue
		}
		s.Nodes[n.ID] = n
		s.order = append(s.order, n.ID)
		s.Adj[n.ID] = nil // ensure entry exists
		s.OutAdj[n.ID] = nil
		s.InAdj[n.ID] = nil
	}

	directed := make(map[[2]int64]bool)
	for _, e := range g.Edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := s.Nodes[e.Source]; !ok {
			continue
		}
		if _, ok := s.Nodes[e.Target]; !ok {
			continue
		}
		s.Edges = append(s.Edges, e)

		key := newPairKey(e.Source, e.Target)
		if !s.linked[key] {
			s.linked[key] = true
			s.Adj[e.Source] = append(s.Adj[e.Source], e.Target)
			s.Adj[e.Target] = append(s.Adj[e.Target], e.Source)
		}
		if dk := [2]int64{e.Source, e.Target}; !directed[dk] {
			directed[dk] = true
			s.OutAdj[e.Source] = append(s.OutAdj[e.Source], e.Target)
			s.InAdj[e.Target] = append(s.InAdj[e.Target], e.Source)
		}
	}
	return s
}

// NodeIDs returns node IDs in input order (the tie-break order for rankings)
func (s *Snapshot) NodeIDs() []int64 {
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}

// Linked reports whether at least one relationship joins a and b
func (s *Snapshot) Linked(a, b int64) bool {
	return s.linked[newPairKey(a, b)]
}

// Name returns the display name of a node, or "" if absent
func (s *Snapshot) Name(id int64) string {
	if n := s.Nodes[id]; n != nil {
		return n.Name
	}
	return ""
}
