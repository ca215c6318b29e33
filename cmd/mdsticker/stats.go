package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store and index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			live, archived, err := db.Count(cmd.Context())
			if err != nil {
				return err
			}
			version, err := db.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== Store Statistics ===")
			fmt.Fprintf(out, "Schema version:  %d\n", version)
			fmt.Fprintf(out, "Live notes:      %d\n", live)
			fmt.Fprintf(out, "Notes in trash:  %d\n", archived)

			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			if idx == nil {
				return nil
			}
			defer idx.Close()

			indexed, err := idx.Count()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Notes in index:  %d\n", indexed)
			return nil
		},
	}
}
