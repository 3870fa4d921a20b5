package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"powermap/core/internal/network"
)

var (
	analyzeJSON         bool
	analyzeTopN         int
	analyzeHubThreshold int
	analyzeFilter       filterFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the power map: centrality, key influencers, communities, brokers",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := analyzeFilter.criteria()
		if err != nil {
			return err
		}
		if analyzeTopN < 0 {
			return fmt.Errorf("--top-n must not be negative")
		}
		opts := serviceOptions(cfg)
		opts.Analyzer.TopN = analyzeTopN
		if cmd.Flags().Changed("hub-threshold") {
			opts.Analyzer.HubThreshold = analyzeHubThreshold
		}

		return withService(cmd, opts, func(ctx context.Context, svc *network.Service) error {
			analysis := svc.GetNetworkAnalysis(ctx, filter)
			if analyzeJSON {
				return writeJSON(cmd.OutOrStdout(), analysis)
			}
			printAnalysis(cmd.OutOrStdout(), analysis, analyzeTopN)
			return nil
		})
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of top items to show per section")
	analyzeCmd.Flags().IntVar(&analyzeHubThreshold, "hub-threshold", 5, "Minimum degree to consider a stakeholder a hub")
	analyzeFilter.register(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func printAnalysis(w io.Writer, a network.NetworkAnalysis, topN int) {
	names := make(map[int64]string, len(a.NetworkData.Nodes))
	for _, n := range a.NetworkData.Nodes {
		names[n.ID] = n.Name
	}
	name := func(id int64) string {
		if n, ok := names[id]; ok {
			return truncName(n, 30)
		}
		return "?"
	}

	barLen := min(int(a.HealthScore*20), 20)
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	fmt.Fprintf(w, "\n  Network cohesion: %.0f%%  [%s]\n", a.HealthScore*100, bar)
	fmt.Fprintf(w, "  breakdown: connectivity=%.2f components=%.2f fragility=%.2f\n",
		a.HealthBreakdown.Connectivity,
		a.HealthBreakdown.Components,
		a.HealthBreakdown.Fragility)
	if a.NetworkData.Metadata.IsDemoData {
		fmt.Fprintln(w, "  (demo data, store unavailable)")
	}
	fmt.Fprintln(w)

	st := a.NetworkStatistics
	fmt.Fprintln(w, "  NETWORK")
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	fmt.Fprintf(w, "  Stakeholders: %d  Relationships: %d  Density: %.4f\n", st.TotalNodes, st.TotalEdges, st.Density)
	fmt.Fprintf(w, "  Average degree: %.2f  Clustering: %.4f  Diameter: %d\n", st.AverageDegree, st.ClusteringCoeff, st.Diameter)
	fmt.Fprintf(w, "  Connected groups: %d  Communities: %d (modularity %.4f)\n",
		len(st.Communities), len(st.ModularCommunities.Communities), st.ModularCommunities.Modularity)

	if len(a.KeyInfluencers) > 0 {
		fmt.Fprintln(w, "\n  KEY INFLUENCERS")
		fmt.Fprintln(w, "  ────────────────────────────────────────")
		for i, k := range a.KeyInfluencers {
			if i == topN {
				break
			}
			fmt.Fprintf(w, "  %2d. %-30s score=%.2f influence=%d support=%d\n",
				i+1, truncName(k.Name, 30), k.Score, k.Influence, k.Support)
		}
	}

	if t := a.Topology; t != nil && t.TotalNodes > 0 {
		fmt.Fprintln(w, "\n  TOPOLOGY")
		fmt.Fprintln(w, "  ────────────────────────────────────────")
		fmt.Fprintf(w, "  Components: %d  Largest: %d  Smallest: %d\n", t.NumComponents, t.LargestComponent, t.SmallestComponent)
		if t.IsolateCount > 0 {
			fmt.Fprintf(w, "  Isolated: %d stakeholders without relationships\n", t.IsolateCount)
			limit := min(len(t.IsolateIDs), 5)
			for _, id := range t.IsolateIDs[:limit] {
				fmt.Fprintf(w, "    - %d (%s)\n", id, name(id))
			}
			if t.IsolateCount > 5 {
				fmt.Fprintf(w, "    ... and %d more\n", t.IsolateCount-5)
			}
		}

		fmt.Fprintln(w, "\n  Degree distribution:")
		for _, b := range t.DegreeHistogram {
			if b.Count > 0 {
				barWidth := max(int(math.Log2(float64(b.Count)))+2, 1)
				fmt.Fprintf(w, "    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
			}
		}

		if len(t.Hubs) > 0 {
			fmt.Fprintln(w, "\n  Hubs (degree > threshold):")
			for _, hub := range t.Hubs {
				fmt.Fprintf(w, "    %d degree=%d  %s\n", hub.ID, hub.Degree, truncName(hub.Name, 40))
			}
		}
	}

	if br := a.Brokers; br != nil && (br.BrokerCount > 0 || br.BridgeCount > 0) {
		fmt.Fprintln(w, "\n  BROKERS")
		fmt.Fprintln(w, "  ────────────────────────────────────────")
		if br.BrokerCount > 0 {
			fmt.Fprintf(w, "  %d brokers (removal splits the network):\n", br.BrokerCount)
			for _, b := range br.Brokers[:min(len(br.Brokers), topN)] {
				fmt.Fprintf(w, "    %d (degree %d)  %s\n", b.ID, b.Degree, truncName(b.Name, 40))
			}
		}
		if br.BridgeCount > 0 {
			fmt.Fprintf(w, "  %d bridge relationships:\n", br.BridgeCount)
			for _, be := range br.Bridges[:min(len(br.Bridges), topN)] {
				fmt.Fprintf(w, "    %s <-> %s\n", truncName(be.SourceName, 30), truncName(be.TargetName, 30))
			}
		}
	}

	if len(a.FailedMetrics) > 0 {
		fmt.Fprintf(w, "\n  Not computed: %s\n", strings.Join(a.FailedMetrics, ", "))
	}
	fmt.Fprintln(w)
}
