package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firecoast/recordstore/internal/infrastructure/config"
	"github.com/firecoast/recordstore/internal/infrastructure/relationaldb/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new record store",
		Long:  "Creates a .recordstore directory with default configuration and sets up the SQLite database.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("recordstore already initialized in %s", cwd)
	}

	cfg := config.Default()
	cfg.SQLite.Path = config.DatabasePath(cwd)
	if err := cfg.Save(cwd); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))

	repo, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	fmt.Printf("Created database: %s\n", cfg.SQLite.Path)
	fmt.Println("Record store initialized successfully!")

	return nil
}
