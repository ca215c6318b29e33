package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>...",
		Short: "Move notes out of the trash",
		Long: `Move notes out of the trash. Their windows open at their stored
position the next time the desktop app starts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			restored, err := db.Restore(cmd.Context(), args)
			if err != nil {
				return err
			}

			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			if idx != nil {
				defer idx.Close()
				for _, n := range restored {
					if err := idx.IndexNote(n); err != nil {
						a.log().Warn().Err(err).Str("note", n.ID).Msg("failed to index note")
					}
				}
			}

			for _, n := range restored {
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", n.ID)
			}
			if skipped := len(args) - len(restored); skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d ids not in the trash\n", skipped)
			}
			return nil
		},
	}
}
