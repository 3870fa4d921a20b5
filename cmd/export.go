package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"powermap/core/internal/network"
)

var (
	exportOut    string
	exportFilter filterFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the power map as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := exportFilter.criteria()
		if err != nil {
			return err
		}
		return withService(cmd, serviceOptions(cfg), func(ctx context.Context, svc *network.Service) error {
			rows := svc.ExportRows(ctx, filter)
			if exportOut == "" {
				return writeCSV(cmd.OutOrStdout(), rows)
			}
			if err := writeCSVFile(exportOut, rows); err != nil {
				return err
			}
			logger.Info("export written", "path", exportOut, "rows", len(rows)-1)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to this file instead of stdout")
	exportFilter.register(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

// writeCSVFile writes rows to path. A failed close is reported like a failed write.
func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := writeCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
