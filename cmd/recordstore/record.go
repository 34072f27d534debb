package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Create, read, update and delete records",
	}
	cmd.AddCommand(
		newRecordCreateCmd(),
		newRecordUpdateCmd(),
		newRecordGetCmd(),
		newRecordListCmd(),
		newRecordDeleteCmd(),
	)
	return cmd
}

func newRecordCreateCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "create <entity-type>",
		Short: "Create a record from a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePayload(data)
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				view, err := d.RecordHandler.HandleCreate(cmd.Context(), args[0], payload, d.Actor())
				if err != nil {
					return describeError(err)
				}
				return printJSON(view)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "Record payload as a JSON object (required)")
	cmd.MarkFlagRequired("data")

	return cmd
}

func newRecordUpdateCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "update <entity-type> <id>",
		Short: "Apply a partial JSON payload to a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePayload(data)
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				view, err := d.RecordHandler.HandleUpdate(cmd.Context(), args[0], args[1], payload, d.Actor())
				if err != nil {
					return describeError(err)
				}
				return printJSON(view)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "Fields to change as a JSON object (required)")
	cmd.MarkFlagRequired("data")

	return cmd
}

func newRecordGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <entity-type> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				rec, err := d.RecordHandler.HandleGet(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("record %s:%s not found", args[0], args[1])
				}
				return printJSON(rec)
			})
		},
	}
}

func newRecordListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <entity-type>",
		Short: "List records of a type, newest-touched first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				records, err := d.RecordHandler.HandleList(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Println("No records found.")
					return nil
				}
				displayRecords(records)
				return nil
			})
		},
	}
}

func newRecordDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity-type> <id>",
		Short: "Delete a record and its handle, mentions and activity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.RecordHandler.HandleDelete(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Printf("Deleted %s:%s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func parsePayload(data string) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("parsing payload JSON: %w", err)
	}
	return payload, nil
}

func displayRecords(records []entities.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUPDATED\tDATA")
	for _, rec := range records {
		data, _ := json.Marshal(rec.Data)
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			rec.EntityID,
			rec.UpdatedAt.Format("2006-01-02 15:04"),
			truncate(string(data), 80),
		)
	}
	w.Flush()
}
