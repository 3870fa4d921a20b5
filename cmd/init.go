package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"powermap/core/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the power map tables in a SQLite database",
	Long:  "Creates any missing tables at --db, the configured database, or ./" + DBFileName + ". Existing data is left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath
		if path == "" {
			path = cfg.Database
		}
		if path == "" {
			path = DBFileName
		}

		d, err := db.OpenDB(path)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.EnsureSchema(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema ready at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
