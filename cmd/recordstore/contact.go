package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

func newContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contacts",
	}
	cmd.AddCommand(
		newContactCreateCmd(),
		newContactUpdateCmd(),
		newContactGetCmd(),
		newContactListCmd(),
		newContactRefreshLinksCmd(),
	)
	return cmd
}

// contactFlags binds the shared create/update flag set.
type contactFlags struct {
	companyName string
	contactName string
	email       string
	phone       string
	handle      string
	notes       string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.companyName, "company", "", "Company name")
	cmd.Flags().StringVar(&f.contactName, "name", "", "Contact name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.handle, "handle", "", "Handle (generated from name when empty)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-text notes, @handles are linked")
}

func newContactCreateCmd() *cobra.Command {
	var flags contactFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				contact, err := d.ContactHandler.HandleCreate(cmd.Context(), &entities.Contact{
					CompanyName: flags.companyName,
					ContactName: flags.contactName,
					Email:       flags.email,
					Phone:       flags.phone,
					Handle:      flags.handle,
					Notes:       flags.notes,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Created contact %s (@%s)\n", contact.ID, contact.Handle)
				return nil
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newContactUpdateCmd() *cobra.Command {
	var flags contactFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				current, err := d.ContactHandler.HandleGet(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if current == nil {
					return fmt.Errorf("contact %s not found", args[0])
				}

				// Only flags the user set overwrite stored values
				if cmd.Flags().Changed("company") {
					current.CompanyName = flags.companyName
				}
				if cmd.Flags().Changed("name") {
					current.ContactName = flags.contactName
				}
				if cmd.Flags().Changed("email") {
					current.Email = flags.email
				}
				if cmd.Flags().Changed("phone") {
					current.Phone = flags.phone
				}
				if cmd.Flags().Changed("handle") {
					current.Handle = flags.handle
				}
				if cmd.Flags().Changed("notes") {
					current.Notes = flags.notes
				}

				contact, err := d.ContactHandler.HandleUpdate(cmd.Context(), current)
				if err != nil {
					return err
				}
				fmt.Printf("Updated contact %s (@%s)\n", contact.ID, contact.Handle)
				return nil
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func newContactGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				contact, err := d.ContactHandler.HandleGet(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if contact == nil {
					return fmt.Errorf("contact %s not found", args[0])
				}
				return printJSON(contact)
			})
		},
	}
}

func newContactListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				contacts, err := d.ContactHandler.HandleList(cmd.Context())
				if err != nil {
					return err
				}
				if len(contacts) == 0 {
					fmt.Println("No contacts found.")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tHANDLE\tNAME\tCOMPANY\tEMAIL\tPHONE")
				for _, c := range contacts {
					fmt.Fprintf(w, "%s\t@%s\t%s\t%s\t%s\t%s\n",
						c.ID, c.Handle, c.ContactName, c.CompanyName, c.Email, c.Phone)
				}
				return w.Flush()
			})
		},
	}
}

func newContactRefreshLinksCmd() *cobra.Command {
	var primary string

	cmd := &cobra.Command{
		Use:   "refresh-links <order-id>",
		Short: "Rebuild an order's secondary contact links from its note mentions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.ContactHandler.HandleRefreshOrderLinks(cmd.Context(), args[0], primary); err != nil {
					return err
				}
				fmt.Printf("Refreshed contact links for order %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&primary, "primary", "p", "", "Primary contact ID to exclude from secondary links")

	return cmd
}
