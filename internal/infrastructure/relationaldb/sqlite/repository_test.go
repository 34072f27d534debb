package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/ports"
	"github.com/firecoast/recordstore/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	// Verify tables exist
	tables := []string{"record_schemas", "records", "record_handles", "record_mentions", "record_activity_logs", "contacts", "order_contact_links"}
	for _, table := range tables {
		var count int
		err := repo.sqldb.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestRepository_EnsureSchema_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	// Should not error when called again
	err := repo.EnsureSchema(context.Background())
	require.NoError(t, err)
}

func TestRepository_Schemas(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("upsert and list", func(t *testing.T) {
		require.NoError(t, repo.UpsertSchema(ctx, "note", `{"entity_type":"note"}`, "notes"))
		require.NoError(t, repo.UpsertSchema(ctx, "note", `{"entity_type":"note","v":2}`, "notes v2"))

		rows, err := repo.ListSchemas(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "note", rows[0].EntityType)
		assert.Contains(t, rows[0].SchemaJSON, `"v":2`)
	})
}

func TestRepository_Records(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("insert and find", func(t *testing.T) {
		rec := &entities.Record{
			EntityType: "note",
			EntityID:   "n1",
			Data:       map[string]any{"title": "Hello", "count": float64(3)},
		}
		require.NoError(t, repo.InsertRecord(ctx, rec))

		found, err := repo.FindRecord(ctx, "note", "n1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Hello", found.Data["title"])
		assert.Equal(t, float64(3), found.Data["count"])
		assert.False(t, found.CreatedAt.IsZero())
	})

	t.Run("find absent returns nil", func(t *testing.T) {
		found, err := repo.FindRecord(ctx, "note", "missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update replaces data", func(t *testing.T) {
		require.NoError(t, repo.UpdateRecordData(ctx, "note", "n1", map[string]any{"title": "Renamed"}))

		found, err := repo.FindRecord(ctx, "note", "n1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Renamed", found.Data["title"])
		_, present := found.Data["count"]
		assert.False(t, present)
	})

	t.Run("list is scoped by type", func(t *testing.T) {
		require.NoError(t, repo.InsertRecord(ctx, &entities.Record{
			EntityType: "reminder",
			EntityID:   "r1",
			Data:       map[string]any{"title": "Other"},
		}))

		records, err := repo.ListRecords(ctx, "note")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "n1", records[0].EntityID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteRecord(ctx, "note", "n1"))

		found, err := repo.FindRecord(ctx, "note", "n1")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRepository_Handles(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("upsert and resolve", func(t *testing.T) {
		require.NoError(t, repo.UpsertHandle(ctx, &entities.Handle{
			Handle:      "alice",
			EntityType:  "contact",
			EntityID:    "c1",
			DisplayName: "Alice Smith",
			SearchBlob:  "alice smith acme",
			Metadata:    map[string]any{"source": "crm"},
		}))

		resolved, err := repo.ResolveHandles(ctx, []string{"alice", "missing"})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		owner := resolved["alice"]
		assert.Equal(t, "c1", owner.EntityID)
		assert.Equal(t, "crm", owner.Metadata["source"])
	})

	t.Run("conflict reassigns the owner", func(t *testing.T) {
		require.NoError(t, repo.UpsertHandle(ctx, &entities.Handle{
			Handle:      "alice",
			EntityType:  "note",
			EntityID:    "n1",
			DisplayName: "Alice Note",
		}))

		resolved, err := repo.ResolveHandles(ctx, []string{"alice"})
		require.NoError(t, err)
		owner := resolved["alice"]
		assert.Equal(t, "note", owner.EntityType)
		assert.Equal(t, "n1", owner.EntityID)
		assert.Nil(t, owner.Metadata)
	})

	t.Run("exists", func(t *testing.T) {
		taken, err := repo.HandleExists(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.HandleExists(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("delete by owner", func(t *testing.T) {
		require.NoError(t, repo.DeleteHandleByOwner(ctx, "note", "n1"))

		taken, err := repo.HandleExists(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func TestRepository_ListHandles(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	seed := []entities.Handle{
		{Handle: "alice", EntityType: "contact", EntityID: "c1", DisplayName: "alice smith", SearchBlob: "alice smith acme"},
		{Handle: "bob", EntityType: "contact", EntityID: "c2", DisplayName: "Bob Jones", SearchBlob: "bob jones"},
		{Handle: "standup", EntityType: "note", EntityID: "n1", DisplayName: "Standup", SearchBlob: "standup daily"},
	}
	for i := range seed {
		require.NoError(t, repo.UpsertHandle(ctx, &seed[i]))
	}

	t.Run("orders by display name case-insensitively", func(t *testing.T) {
		handles, err := repo.ListHandles(ctx, nil, "")
		require.NoError(t, err)
		require.Len(t, handles, 3)
		assert.Equal(t, "alice", handles[0].Handle)
		assert.Equal(t, "bob", handles[1].Handle)
		assert.Equal(t, "standup", handles[2].Handle)
	})

	t.Run("filters by type", func(t *testing.T) {
		handles, err := repo.ListHandles(ctx, []string{"note"}, "")
		require.NoError(t, err)
		require.Len(t, handles, 1)
		assert.Equal(t, "standup", handles[0].Handle)
	})

	t.Run("filters by search substring", func(t *testing.T) {
		handles, err := repo.ListHandles(ctx, nil, "acme")
		require.NoError(t, err)
		require.Len(t, handles, 1)
		assert.Equal(t, "alice", handles[0].Handle)
	})
}

func TestRepository_Mentions(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	insert := func(t *testing.T, handle, targetType, targetID, ctxType, ctxID string) {
		t.Helper()
		require.NoError(t, repo.InsertMention(ctx, &entities.Mention{
			MentionedHandle:     handle,
			MentionedEntityType: targetType,
			MentionedEntityID:   targetID,
			ContextEntityType:   ctxType,
			ContextEntityID:     ctxID,
			Snippet:             "snippet",
		}))
	}

	insert(t, "alice", "contact", "c1", "note", "n1")
	insert(t, "bob", "contact", "c2", "note", "n1")
	insert(t, "alice", "contact", "c1", "note", "n2")

	t.Run("find by context", func(t *testing.T) {
		mentions, err := repo.FindMentionsByContext(ctx, "note", "n1")
		require.NoError(t, err)
		require.Len(t, mentions, 2)
		assert.Equal(t, "alice", mentions[0].MentionedHandle)
		assert.Equal(t, "bob", mentions[1].MentionedHandle)
	})

	t.Run("find by target", func(t *testing.T) {
		mentions, err := repo.FindMentionsByTarget(ctx, "contact", "c1")
		require.NoError(t, err)
		assert.Len(t, mentions, 2)
	})

	t.Run("delete by context", func(t *testing.T) {
		require.NoError(t, repo.DeleteMentionsByContext(ctx, "note", "n1"))

		mentions, err := repo.FindMentionsByContext(ctx, "note", "n1")
		require.NoError(t, err)
		assert.Empty(t, mentions)
	})

	t.Run("delete by target", func(t *testing.T) {
		require.NoError(t, repo.DeleteMentionsByTarget(ctx, "contact", "c1"))

		mentions, err := repo.FindMentionsByTarget(ctx, "contact", "c1")
		require.NoError(t, err)
		assert.Empty(t, mentions)
	})
}

func TestRepository_FindMentionedContactIDs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.InsertRecord(ctx, &entities.Record{
		EntityType: "order_note",
		EntityID:   "on1",
		Data:       map[string]any{"order_id": "order-9", "body": "cc @alice"},
	}))
	require.NoError(t, repo.InsertRecord(ctx, &entities.Record{
		EntityType: "order_log",
		EntityID:   "ol1",
		Data:       map[string]any{"order_id": "order-9", "body": "ping @bob"},
	}))
	require.NoError(t, repo.InsertRecord(ctx, &entities.Record{
		EntityType: "order_note",
		EntityID:   "on2",
		Data:       map[string]any{"order_id": "other-order", "body": "cc @carol"},
	}))

	mentions := []entities.Mention{
		{MentionedHandle: "alice", MentionedEntityType: "contact", MentionedEntityID: "c1", ContextEntityType: "order_note", ContextEntityID: "on1"},
		{MentionedHandle: "bob", MentionedEntityType: "contact", MentionedEntityID: "c2", ContextEntityType: "order_log", ContextEntityID: "ol1"},
		{MentionedHandle: "carol", MentionedEntityType: "contact", MentionedEntityID: "c3", ContextEntityType: "order_note", ContextEntityID: "on2"},
		{MentionedHandle: "standup", MentionedEntityType: "note", MentionedEntityID: "n1", ContextEntityType: "order_note", ContextEntityID: "on1"},
	}
	for i := range mentions {
		require.NoError(t, repo.InsertMention(ctx, &mentions[i]))
	}

	ids, err := repo.FindMentionedContactIDs(ctx, "order-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, ids)
}

func TestRepository_Activity(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.AppendActivity(ctx, &entities.ActivityEntry{
			EntityType: "note",
			EntityID:   "n1",
			Action:     "touched",
			Actor:      "tester",
			Payload:    map[string]any{"seq": float64(i)},
		}))
	}

	t.Run("newest first with limit", func(t *testing.T) {
		entries, err := repo.FindActivity(ctx, "note", "n1", 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, float64(2), entries[0].Payload["seq"])
		assert.Equal(t, float64(1), entries[1].Payload["seq"])
	})

	t.Run("delete by entity", func(t *testing.T) {
		require.NoError(t, repo.DeleteActivityByEntity(ctx, "note", "n1"))

		entries, err := repo.FindActivity(ctx, "note", "n1", 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestRepository_Contacts(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("upsert and find", func(t *testing.T) {
		require.NoError(t, repo.UpsertContact(ctx, &entities.Contact{
			ID:          "c1",
			ContactName: "Alice Smith",
			CompanyName: "Acme",
			Email:       "alice@acme.test",
			Handle:      "alice",
			Details:     map[string]any{"tier": "gold"},
		}))

		found, err := repo.FindContact(ctx, "c1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Alice Smith", found.ContactName)
		assert.Equal(t, "gold", found.Details["tier"])
	})

	t.Run("find absent returns nil", func(t *testing.T) {
		found, err := repo.FindContact(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("batch load", func(t *testing.T) {
		require.NoError(t, repo.UpsertContact(ctx, &entities.Contact{ID: "c2", CompanyName: "Beta", Handle: "beta"}))

		found, err := repo.FindContactsByIDs(ctx, []string{"c1", "c2", "missing"})
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("list orders by display name", func(t *testing.T) {
		contacts, err := repo.ListContacts(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "c1", contacts[0].ID)
		assert.Equal(t, "c2", contacts[1].ID)
	})

	t.Run("contact handle exists", func(t *testing.T) {
		taken, err := repo.ContactHandleExists(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ContactHandleExists(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func TestRepository_OrderContactLinks(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	links := []entities.OrderContactLink{
		{OrderID: "order-9", ContactID: "c2", Relationship: "secondary"},
		{OrderID: "order-9", ContactID: "c3", Relationship: "secondary"},
	}
	require.NoError(t, repo.ReplaceOrderContactLinks(ctx, "order-9", links))

	found, err := repo.ListOrderContactLinks(ctx, "order-9")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "c2", found[0].ContactID)

	t.Run("replace overwrites", func(t *testing.T) {
		require.NoError(t, repo.ReplaceOrderContactLinks(ctx, "order-9", nil))

		found, err := repo.ListOrderContactLinks(ctx, "order-9")
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestRepository_InTransaction(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("commits on nil", func(t *testing.T) {
		err := repo.InTransaction(ctx, func(q ports.Querier) error {
			return q.InsertRecord(ctx, &entities.Record{
				EntityType: "note",
				EntityID:   "tx1",
				Data:       map[string]any{"title": "committed"},
			})
		})
		require.NoError(t, err)

		found, err := repo.FindRecord(ctx, "note", "tx1")
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := repo.InTransaction(ctx, func(q ports.Querier) error {
			if err := q.InsertRecord(ctx, &entities.Record{
				EntityType: "note",
				EntityID:   "tx2",
				Data:       map[string]any{"title": "doomed"},
			}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		found, err := repo.FindRecord(ctx, "note", "tx2")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}
