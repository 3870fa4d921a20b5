package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"powermap/core/internal/model"
)

// filterFlags holds the graph selection flags shared by the network commands
type filterFlags struct {
	group             int64
	contacts          string
	influenceMin      int
	supportMin        int
	relationshipTypes string
	relationshipOnly  bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Int64Var(&f.group, "group", 0, "Start from the members of this group")
	fl.StringVar(&f.contacts, "contacts", "", "Comma-separated contact IDs to start from (overrides --group)")
	fl.IntVar(&f.influenceMin, "influence-min", 0, "Minimum influence level (1-5)")
	fl.IntVar(&f.supportMin, "support-min", 0, "Minimum support level (1-5)")
	fl.StringVar(&f.relationshipTypes, "relationship-types", "", "Comma-separated relationship type IDs to keep")
	fl.BoolVar(&f.relationshipOnly, "relationship-only", false, "Drop stakeholders without relationships")
}

// criteria converts the flags into validated filter criteria
func (f *filterFlags) criteria() (model.FilterCriteria, error) {
	c := model.FilterCriteria{
		InfluenceMin:     f.influenceMin,
		SupportMin:       f.supportMin,
		RelationshipOnly: f.relationshipOnly,
	}
	if f.group != 0 {
		g := f.group
		c.GroupID = &g
	}

	var err error
	if c.ContactIDs, err = parseIDs(f.contacts); err != nil {
		return c, fmt.Errorf("--contacts: %w", err)
	}
	if c.RelationshipTypes, err = parseIDs(f.relationshipTypes); err != nil {
		return c, fmt.Errorf("--relationship-types: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// parseIDs splits a comma-separated list of integer IDs, ignoring blanks
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
