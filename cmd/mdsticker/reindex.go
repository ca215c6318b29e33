package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newReindexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the live notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			if idx == nil {
				return errors.New("search index is disabled in the config")
			}
			defer idx.Close()

			start := time.Now()
			log := a.log()
			err = idx.Rebuild(cmd.Context(), db, func(current, total int) {
				if current%100 == 0 || current == total {
					log.Info().Int("current", current).Int("total", total).Msg("indexing notes")
				}
			})
			if err != nil {
				return err
			}

			count, err := idx.Count()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d notes in %v\n", count, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
