package main

import (
	"context"
	"fmt"
	"os"

	"github.com/firecoast/recordstore/internal/application/handlers"
	"github.com/firecoast/recordstore/internal/domain/services"
	"github.com/firecoast/recordstore/internal/infrastructure/config"
	"github.com/firecoast/recordstore/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config          *config.Config
	RecordHandler   *handlers.RecordHandler
	SchemaHandler   *handlers.SchemaHandler
	HandleHandler   *handlers.HandleHandler
	MentionHandler  *handlers.MentionHandler
	ActivityHandler *handlers.ActivityHandler
	ContactHandler  *handlers.ContactHandler
}

// Actor returns the actor recorded on activity entries, preferring the
// command-line override over the configured value.
func (d *Deps) Actor() string {
	if globalActor != "" {
		return globalActor
	}
	return d.Config.Actor
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	repo, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	registry := services.NewRegistryService()
	recordService := services.NewRecordService(registry, repo)
	handleService := services.NewHandleService(repo)
	mentionService := services.NewMentionService(repo)
	activityService := services.NewActivityService(repo)
	contactService := services.NewContactService(repo, handleService)

	// Load persisted schemas and seed builtins
	if err := recordService.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrapping schemas: %w", err)
	}

	deps := &Deps{
		Config:          cfg,
		RecordHandler:   handlers.NewRecordHandler(recordService),
		SchemaHandler:   handlers.NewSchemaHandler(recordService),
		HandleHandler:   handlers.NewHandleHandler(handleService),
		MentionHandler:  handlers.NewMentionHandler(mentionService),
		ActivityHandler: handlers.NewActivityHandler(activityService),
		ContactHandler:  handlers.NewContactHandler(contactService),
	}

	return fn(deps)
}
