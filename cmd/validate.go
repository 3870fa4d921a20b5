package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"powermap/core/internal/network"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit the store for data-quality problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, serviceOptions(cfg), func(ctx context.Context, svc *network.Service) error {
			report := svc.ValidateData(ctx)
			if validateJSON {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				printQuality(cmd.OutOrStdout(), report)
			}
			if report.Error != "" {
				return errors.New(report.Error)
			}
			return nil
		})
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(validateCmd)
}

func printQuality(w io.Writer, r *network.QualityReport) {
	if r.Error != "" {
		fmt.Fprintf(w, "\n  Validation failed: %s\n\n", r.Error)
		return
	}
	s := r.Stats
	fmt.Fprintf(w, "\n  Data quality: %.0f/100  (%d issues, %d critical)\n", r.Score, r.TotalIssues, r.CriticalIssues)
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	fmt.Fprintf(w, "  Contacts: %d  without influence: %d  without support: %d\n",
		s.TotalContacts, s.ContactsWithoutInfluence, s.ContactsWithoutSupport)
	fmt.Fprintf(w, "  Relationships: %d orphaned, %d duplicate, %d inactive\n",
		s.OrphanedRelationships, s.DuplicateRelationships, s.InactiveRelationships)
	fmt.Fprintf(w, "  Missing or inactive relationship types: %d\n", s.MissingRelationshipTypes)

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, "\n  Recommendations:")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "    [%s] %s\n", rec.Priority, rec.Message)
		}
	}
	fmt.Fprintln(w)
}
