package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

func newMentionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mention",
		Short: "Inspect the mention graph",
	}
	cmd.AddCommand(
		newMentionContextCmd(),
		newMentionTargetCmd(),
	)
	return cmd
}

func newMentionContextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context <entity-type> <id>",
		Short: "List mentions made by an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				mentions, err := d.MentionHandler.HandleListByContext(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				displayMentions(mentions)
				return nil
			})
		},
	}
}

func newMentionTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "target <entity-type> <id>",
		Short: "List mentions pointing at an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				mentions, err := d.MentionHandler.HandleListByTarget(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				displayMentions(mentions)
				return nil
			})
		},
	}
}

func displayMentions(mentions []entities.Mention) {
	if len(mentions) == 0 {
		fmt.Println("No mentions found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HANDLE\tMENTIONED\tCONTEXT\tSNIPPET")
	for _, m := range mentions {
		fmt.Fprintf(w, "@%s\t%s:%s\t%s:%s\t%s\n",
			m.MentionedHandle,
			m.MentionedEntityType,
			m.MentionedEntityID,
			m.ContextEntityType,
			m.ContextEntityID,
			truncate(m.Snippet, 60),
		)
	}
	w.Flush()
}
