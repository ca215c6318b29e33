package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPurgeCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "purge [<id>...]",
		Short: "Permanently delete notes from the trash",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("no ids given (use --all to empty the trash)")
			}

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			var deleted int64
			if all {
				deleted, err = db.PurgeArchived(cmd.Context())
			} else {
				deleted, err = db.DeletePermanently(cmd.Context(), args)
			}
			if err != nil {
				return err
			}
			a.log().Info().Int64("deleted", deleted).Msg("purged trash")
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d notes\n", deleted)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Delete every note in the trash")
	return cmd
}
