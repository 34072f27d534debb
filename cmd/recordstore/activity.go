package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newActivityCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity <entity-type> <id>",
		Short: "Show an entity's activity trail, newest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				entries, err := d.ActivityHandler.HandleFetch(cmd.Context(), args[0], args[1], limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No activity found.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "WHEN\tACTION\tACTOR\tPAYLOAD")
				for _, entry := range entries {
					payload, _ := json.Marshal(entry.Payload)
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						entry.CreatedAt.Format("2006-01-02 15:04"),
						entry.Action,
						entry.Actor,
						truncate(string(payload), 70),
					)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of entries (default 50)")

	return cmd
}
