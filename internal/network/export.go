package network

import (
	"strconv"

	"powermap/core/internal/model"
)

// ExportHeader is the first row of every export
var ExportHeader = []string{
	"ID", "Name", "Type", "Subtype", "Influence", "Support",
	"Connections", "Strong Connections", "Notes",
}

// ToRows flattens g into a header row followed by one row per node
func ToRows(g *model.Graph) [][]string {
	connections := make(map[int64]int, len(g.Nodes))
	strong := make(map[int64]int, len(g.Nodes))
	for _, e := range g.Edges {
		ends := []int64{e.Source}
		if e.Target != e.Source {
			ends = append(ends, e.Target)
		}
		for _, id := range ends {
			connections[id]++
			if e.Strength >= model.StrongStrength {
				strong[id]++
			}
		}
	}

	header := make([]string, len(ExportHeader))
	copy(header, ExportHeader)
	rows := make([][]string, 0, len(g.Nodes)+1)
	rows = append(rows, header)
	for _, n := range g.Nodes {
		rows = append(rows, []string{
			strconv.FormatInt(n.ID, 10),
			n.Name,
			n.Category,
			n.SubCategory,
			strconv.Itoa(n.Influence),
			strconv.Itoa(n.Support),
			strconv.Itoa(connections[n.ID]),
			strconv.Itoa(strong[n.ID]),
			n.Notes,
		})
	}
	return rows
}
