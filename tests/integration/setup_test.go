package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firecoast/recordstore/internal/domain/services"
	"github.com/firecoast/recordstore/internal/infrastructure/config"
	"github.com/firecoast/recordstore/internal/infrastructure/relationaldb/sqlite"
)

// testEnv wires every service against a file-backed SQLite database.
type testEnv struct {
	Repo     *sqlite.Repository
	Registry *services.RegistryService
	Records  *services.RecordService
	Handles  *services.HandleService
	Mentions *services.MentionService
	Activity *services.ActivityService
	Contacts *services.ContactService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.EnsureSchema(context.Background()))

	registry := services.NewRegistryService()
	records := services.NewRecordService(registry, repo)
	handles := services.NewHandleService(repo)
	require.NoError(t, records.Bootstrap(context.Background()))

	return &testEnv{
		Repo:     repo,
		Registry: registry,
		Records:  records,
		Handles:  handles,
		Mentions: services.NewMentionService(repo),
		Activity: services.NewActivityService(repo),
		Contacts: services.NewContactService(repo, handles),
	}
}
