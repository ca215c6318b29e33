package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fuchigta/mdsticker/internal/note"
)

func newListCmd(a *app) *cobra.Command {
	var archived, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd, archived, asJSON)
		},
	}
	cmd.Flags().BoolVar(&archived, "archived", false, "List notes in the trash instead")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newTrashCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trash",
		Short: "List notes in the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd, true, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func (a *app) list(cmd *cobra.Command, archived, asJSON bool) error {
	db, err := a.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	var notes []note.Note
	if archived {
		notes, err = db.ListArchived(cmd.Context())
	} else {
		notes, err = db.ListLive(cmd.Context())
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(notes)
	}

	printNotes(out, notes)
	return nil
}

func printNotes(out io.Writer, notes []note.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes")
		return
	}
	for _, n := range notes {
		pin := " "
		if n.Pinned {
			pin = "*"
		}
		fmt.Fprintf(out, "%s %s %s %dx%d+%d+%d  %s\n",
			n.ID, pin, n.Color, n.Width, n.Height, n.X, n.Y, n.Title())
	}
}
