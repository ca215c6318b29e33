package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search live notes",
		Long: `Search live notes. The query supports "exact phrases", +required and
-excluded terms, and fuzzy~ matching.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex()
			if err != nil {
				return err
			}
			if idx == nil {
				return errors.New("search index is disabled in the config")
			}
			defer idx.Close()

			results, err := idx.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No results found")
				return nil
			}

			fmt.Fprintf(out, "Found %d results:\n\n", len(results))
			for i, result := range results {
				fmt.Fprintf(out, "%d. %s\n", i+1, result.Title)
				fmt.Fprintf(out, "   ID: %s\n", result.ID)
				fmt.Fprintf(out, "   Score: %.3f\n", result.Score)
				if snippets, ok := result.Fragments["Content"]; ok && len(snippets) > 0 {
					fmt.Fprintf(out, "   Preview: %s\n", snippets[0])
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	return cmd
}
