package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"powermap/core/internal/network"
)

var typesJSON bool

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the active relationship types",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, serviceOptions(cfg), func(ctx context.Context, svc *network.Service) error {
			types, err := svc.RelationshipTypes(ctx)
			if err != nil {
				return err
			}
			if typesJSON {
				return writeJSON(cmd.OutOrStdout(), types)
			}
			w := cmd.OutOrStdout()
			for _, t := range types {
				fmt.Fprintf(w, "  %4d  %-30s  %s\n", t.ID, t.Label, t.ReverseLabel)
			}
			return nil
		})
	},
}

func init() {
	typesCmd.Flags().BoolVar(&typesJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(typesCmd)
}
