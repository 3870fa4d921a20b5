package network

import "powermap/core/internal/model"

// DemoGraph is the fixed network served when the store cannot be read.
// Its relationship strengths are fixed data and do not follow the
// max-of-endpoint-strengths rule that assembled graphs obey.
func DemoGraph() *model.Graph {
	nodes := []model.Stakeholder{
		demoNode(1, "John Smith", model.CategoryIndividual, 5, 4, "Key decision maker"),
		demoNode(2, "Mary Johnson", model.CategoryIndividual, 4, 5, "Strong supporter"),
		demoNode(3, "Tech Corporation", model.CategoryOrganization, 3, 2, "Potential opposition"),
		demoNode(4, "Community Group", model.CategoryOrganization, 2, 5, "Grassroots support"),
		demoNode(5, "City Council", model.CategoryOrganization, 5, 3, "Regulatory authority"),
	}
	edges := []model.Relationship{
		{ID: 1, Source: 1, Target: 2, Type: "Colleague", Strength: 2},
		{ID: 2, Source: 2, Target: 3, Type: "Advisor", Strength: 3},
		{ID: 3, Source: 1, Target: 4, Type: "Member", Strength: 1},
		{ID: 4, Source: 3, Target: 5, Type: "Reports To", Strength: 2},
		{ID: 5, Source: 4, Target: 5, Type: "Advocate", Strength: 1},
	}
	g := model.NewGraph(nodes, edges)
	g.Demo = true
	return g
}

func demoNode(id int64, name, category string, influence, support int, notes string) model.Stakeholder {
	return model.Stakeholder{
		ID:        id,
		Name:      name,
		Category:  category,
		Influence: influence,
		Support:   support,
		Strength:  model.MinStrength,
		Group:     model.InfluenceGroup(influence),
		Notes:     notes,
	}
}
