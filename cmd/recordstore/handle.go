package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHandleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "handle",
		Short: "Inspect the handle directory",
	}
	cmd.AddCommand(
		newHandleListCmd(),
		newHandleResolveCmd(),
		newHandleGenerateCmd(),
	)
	return cmd
}

func newHandleListCmd() *cobra.Command {
	var (
		entityTypes []string
		search      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List directory entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				entries, err := d.HandleHandler.HandleList(cmd.Context(), entityTypes, search)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No handles found.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "HANDLE\tTYPE\tDISPLAY\tCONTACT")
				for _, entry := range entries {
					contact := ""
					if entry.Contact != nil {
						contact = entry.Contact.Email
						if contact == "" {
							contact = entry.Contact.Phone
						}
					}
					fmt.Fprintf(w, "@%s\t%s\t%s\t%s\n",
						entry.Handle.Handle,
						entry.EntityType,
						truncate(entry.DisplayName, 40),
						contact,
					)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringSliceVarP(&entityTypes, "type", "t", nil, "Filter by entity types")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive search substring")

	return cmd
}

func newHandleResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <handle>...",
		Short: "Resolve handles to their owners",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				resolved, err := d.HandleHandler.HandleResolve(cmd.Context(), args)
				if err != nil {
					return err
				}

				handles := make([]string, 0, len(resolved))
				for handle := range resolved {
					handles = append(handles, handle)
				}
				sort.Strings(handles)

				for _, handle := range handles {
					owner := resolved[handle]
					fmt.Printf("@%s -> %s:%s (%s)\n", handle, owner.EntityType, owner.EntityID, owner.DisplayName)
				}
				if len(resolved) < len(args) {
					fmt.Printf("%d handle(s) did not resolve.\n", len(args)-len(resolved))
				}
				return nil
			})
		},
	}
}

func newHandleGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <text>",
		Short: "Allocate a unique handle slug from free text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				handle, err := d.HandleHandler.HandleGenerate(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("@%s\n", handle)
				return nil
			})
		},
	}
}
