package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage record schemas",
	}
	cmd.AddCommand(
		newSchemaListCmd(),
		newSchemaDescribeCmd(),
		newSchemaImportCmd(),
	)
	return cmd
}

func newSchemaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				schemas := d.SchemaHandler.HandleList(cmd.Context())
				if len(schemas) == 0 {
					fmt.Println("No schemas registered.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tSTORAGE\tHANDLE FIELD\tFIELDS\tDESCRIPTION")
				for _, schema := range schemas {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
						schema.EntityType,
						schema.Storage,
						schema.HandleField,
						len(schema.Fields),
						truncate(schema.Description, 50),
					)
				}
				return w.Flush()
			})
		},
	}
}

func newSchemaDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <entity-type>",
		Short: "Show a schema's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				schema, err := d.SchemaHandler.HandleDescribe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				displaySchema(schema)
				return nil
			})
		},
	}
}

func newSchemaImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import schema documents from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening schema file: %w", err)
				}
				defer f.Close()

				if format == "" {
					format = formatForFile(args[0])
				}
				result, err := d.SchemaHandler.HandleImport(cmd.Context(), f, format)
				if err != nil {
					return err
				}
				for _, entityType := range result.Registered {
					fmt.Printf("Registered schema: %s\n", entityType)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json or yaml (default: by file extension)")

	return cmd
}

func displaySchema(schema *entities.RecordSchema) {
	fmt.Printf("Type: %s\n", schema.EntityType)
	fmt.Printf("Storage: %s\n", schema.Storage)
	if schema.Description != "" {
		fmt.Printf("Description: %s\n", schema.Description)
	}
	if schema.HandleField != "" {
		fmt.Printf("Handle field: %s\n", schema.HandleField)
	}
	if schema.DisplayField != "" {
		fmt.Printf("Display field: %s\n", schema.DisplayField)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tKIND\tREQUIRED\tMENTION\tDESCRIPTION")
	for _, field := range schema.Fields {
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
			field.Name,
			field.Kind,
			field.Required,
			field.Mention,
			truncate(field.Description, 50),
		)
	}
	w.Flush()
}
