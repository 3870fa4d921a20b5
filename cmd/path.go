package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"powermap/core/internal/network"
)

var (
	pathJSON   bool
	pathFilter filterFlags
)

var pathCmd = &cobra.Command{
	Use:   "path <from-id> <to-id>",
	Short: "Shortest chain of relationships between two stakeholders",
	Long: "Finds the shortest chain of relationships inside the assembled graph. Without\n" +
		"--contacts or --group the graph holds the two stakeholders and their direct\n" +
		"contacts, so only chains of up to two relationships are found.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid from id %q", args[0])
		}
		to, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid to id %q", args[1])
		}
		filter, err := pathFilter.criteria()
		if err != nil {
			return err
		}
		if len(filter.ContactIDs) == 0 && filter.GroupID == nil {
			filter.ContactIDs = []int64{from, to}
		}

		return withService(cmd, serviceOptions(cfg), func(ctx context.Context, svc *network.Service) error {
			res := svc.ShortestPath(ctx, filter, from, to)
			if pathJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			w := cmd.OutOrStdout()
			if len(res.Path) == 0 {
				fmt.Fprintf(w, "No path between %d and %d\n", from, to)
				return nil
			}
			hops := make([]string, len(res.Nodes))
			for i, n := range res.Nodes {
				hops[i] = fmt.Sprintf("%s (%d)", n.Name, n.ID)
			}
			fmt.Fprintf(w, "%s\n%d hop(s)\n", strings.Join(hops, " -> "), res.Hops)
			return nil
		})
	},
}

func init() {
	pathCmd.Flags().BoolVar(&pathJSON, "json", false, "Output as JSON")
	pathFilter.register(pathCmd)
	rootCmd.AddCommand(pathCmd)
}
