// Package main provides the entry point for the recordstore CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version     = "0.1.0-dev"
	globalActor string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "recordstore",
		Short:   "A schema-driven record store with a shared handle directory and mention graph",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalActor, "actor", "a", "", "Actor recorded on activity entries (overrides config)")

	rootCmd.AddCommand(
		newInitCmd(),
		newSchemaCmd(),
		newRecordCmd(),
		newHandleCmd(),
		newMentionCmd(),
		newActivityCmd(),
		newContactCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
