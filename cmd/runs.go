package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List conversion runs recorded in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase(appConfig)
		if err != nil {
			return err
		}
		defer d.Close()

		runs, err := d.Runs(runsLimit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if runsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}
		for _, r := range runs {
			created := time.UnixMilli(r.CreatedAt).Format("2006-01-02 15:04:05")
			fmt.Fprintf(out, "%s  %s  rows=%d nodes=%d edges=%d provenance=%d  %s\n",
				r.ID[:8], created, r.RowCount, r.NodeCount, r.EdgeCount, r.ProvenanceCount, r.Source)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list (0 = all)")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(runsCmd)
}
