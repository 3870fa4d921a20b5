package model

// Graph is an assembled stakeholder network. Node order is the order in which
// stakeholders were resolved and is used for stable tie-breaking.
type Graph struct {
	Nodes []Stakeholder  `json:"nodes"`
	Edges []Relationship `json:"edges"`
	Demo  bool           `json:"-"`

	// AssemblyID identifies the assembly run that produced the graph
	AssemblyID string `json:"-"`

	index map[int64]int
}

// NewGraph builds a graph and its ID index. Later duplicates of a node ID are dropped.
func NewGraph(nodes []Stakeholder, edges []Relationship) *Graph {
	g := &Graph{
		Nodes: make([]Stakeholder, 0, len(nodes)),
		Edges: edges,
		index: make(map[int64]int, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := g.index[n.ID]; dup {
			continue
		}
		g.index[n.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}
	if g.Edges == nil {
		g.Edges = []Relationship{}
	}
	return g
}

func (g *Graph) ensureIndex() {
	if g.index != nil && len(g.index) == len(g.Nodes) {
		return
	}
	g.index = make(map[int64]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.index[n.ID] = i
	}
}

// Has reports whether the node is part of the graph
func (g *Graph) Has(id int64) bool {
	g.ensureIndex()
	_, ok := g.index[id]
	return ok
}

// Node returns the stakeholder with the given ID, or nil
func (g *Graph) Node(id int64) *Stakeholder {
	g.ensureIndex()
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return &g.Nodes[i]
}

// NodeIDs returns node IDs in graph order
func (g *Graph) NodeIDs() []int64 {
	ids := make([]int64, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}
