package cmd

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"powermap/core/internal/network"
)

var (
	networkJSON   bool
	networkFilter filterFlags
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Assemble the power map and summarise it",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := networkFilter.criteria()
		if err != nil {
			return err
		}
		return withService(cmd, serviceOptions(cfg), func(ctx context.Context, svc *network.Service) error {
			data := svc.GetNetworkData(ctx, filter)
			if networkJSON {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			printNetwork(cmd.OutOrStdout(), data)
			return nil
		})
	},
}

func init() {
	networkCmd.Flags().BoolVar(&networkJSON, "json", false, "Output as JSON")
	networkFilter.register(networkCmd)
	rootCmd.AddCommand(networkCmd)
}

func printNetwork(w io.Writer, data network.NetworkData) {
	s := data.Stats
	demo := ""
	if data.Metadata.IsDemoData {
		demo = "  (demo data, store unavailable)"
	}
	fmt.Fprintf(w, "\n  Power map: %d stakeholders, %d relationships%s\n", s.Total, s.TotalRelationships, demo)
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	fmt.Fprintf(w, "  Influence: %d high, average %.2f\n", s.HighInfluence, s.AvgInfluence)
	fmt.Fprintf(w, "  Support:   %d supporters, %d neutral, %d opposition, average %.2f\n",
		s.Supporters, s.Neutral, s.Opposition, s.AvgSupport)
	fmt.Fprintf(w, "  Density:   %.1f%%  strong relationships: %d\n\n", s.NetworkDensity, s.StrongRelationships)

	for _, n := range data.Nodes {
		fmt.Fprintf(w, "    %6d  %-30s  %-12s  influence=%d support=%d  %s\n",
			n.ID, truncName(n.Name, 30), n.Category, n.Influence, n.Support, n.Group)
	}
	fmt.Fprintf(w, "\n  assembly %s\n\n", data.Metadata.AssemblyID)
}

func truncName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// back off to a UTF-8 boundary
	truncated := s[:max]
	for len(truncated) > 0 && !utf8.ValidString(truncated) {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "..."
}
