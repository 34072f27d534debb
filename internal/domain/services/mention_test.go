package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/mocks"
)

func TestExtractMentions(t *testing.T) {
	t.Run("basic extraction", func(t *testing.T) {
		handles := ExtractMentions("Talk to @alice and @bob about this")
		assert.Equal(t, []string{"alice", "bob"}, handles)
	})

	t.Run("lowercases and dedupes in first-occurrence order", func(t *testing.T) {
		handles := ExtractMentions("@Bob then @alice then @BOB again")
		assert.Equal(t, []string{"bob", "alice"}, handles)
	})

	t.Run("email addresses are not mentions", func(t *testing.T) {
		handles := ExtractMentions("Ping @Ops.Team then email ops@example.com")
		assert.Equal(t, []string{"ops.team"}, handles)
	})

	t.Run("start of text counts as a boundary", func(t *testing.T) {
		handles := ExtractMentions("@first thing in the morning")
		assert.Equal(t, []string{"first"}, handles)
	})

	t.Run("allowed characters", func(t *testing.T) {
		handles := ExtractMentions("See @a_b.c-1 for details")
		assert.Equal(t, []string{"a_b.c-1"}, handles)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Nil(t, ExtractMentions(""))
		assert.Nil(t, ExtractMentions("no mentions here"))
	})
}

func TestSyncMentions(t *testing.T) {
	ctx := context.Background()

	registerTarget := func(t *testing.T, store *mocks.Store, handle, entityType, entityID string) {
		t.Helper()
		require.NoError(t, store.UpsertHandle(ctx, &entities.Handle{
			Handle:     handle,
			EntityType: entityType,
			EntityID:   entityID,
		}))
	}

	t.Run("inserts resolved handles and drops unresolved", func(t *testing.T) {
		store := mocks.NewStore()
		registerTarget(t, store, "alice", "contact", "c1")

		err := SyncMentions(ctx, store, []string{"alice", "ghost"}, "note", "n1", "snippet text")
		require.NoError(t, err)

		mentions, err := store.FindMentionsByContext(ctx, "note", "n1")
		require.NoError(t, err)
		require.Len(t, mentions, 1)
		assert.Equal(t, "alice", mentions[0].MentionedHandle)
		assert.Equal(t, "contact", mentions[0].MentionedEntityType)
		assert.Equal(t, "c1", mentions[0].MentionedEntityID)
		assert.Equal(t, "snippet text", mentions[0].Snippet)
	})

	t.Run("replaces previous set for the context", func(t *testing.T) {
		store := mocks.NewStore()
		registerTarget(t, store, "alice", "contact", "c1")
		registerTarget(t, store, "bob", "contact", "c2")

		require.NoError(t, SyncMentions(ctx, store, []string{"alice"}, "note", "n1", ""))
		require.NoError(t, SyncMentions(ctx, store, []string{"bob"}, "note", "n1", ""))

		mentions, err := store.FindMentionsByContext(ctx, "note", "n1")
		require.NoError(t, err)
		require.Len(t, mentions, 1)
		assert.Equal(t, "bob", mentions[0].MentionedHandle)
	})

	t.Run("empty handle set clears stale mentions", func(t *testing.T) {
		store := mocks.NewStore()
		registerTarget(t, store, "alice", "contact", "c1")
		require.NoError(t, SyncMentions(ctx, store, []string{"alice"}, "note", "n1", ""))

		require.NoError(t, SyncMentions(ctx, store, nil, "note", "n1", ""))

		mentions, err := store.FindMentionsByContext(ctx, "note", "n1")
		require.NoError(t, err)
		assert.Empty(t, mentions)
	})

	t.Run("duplicate handles insert once", func(t *testing.T) {
		store := mocks.NewStore()
		registerTarget(t, store, "alice", "contact", "c1")

		err := SyncMentions(ctx, store, []string{"alice", "Alice", "ALICE"}, "note", "n1", "")
		require.NoError(t, err)

		mentions, err := store.FindMentionsByContext(ctx, "note", "n1")
		require.NoError(t, err)
		assert.Len(t, mentions, 1)
	})

	t.Run("long snippets are truncated with ellipsis", func(t *testing.T) {
		store := mocks.NewStore()
		registerTarget(t, store, "alice", "contact", "c1")

		long := strings.Repeat("x", 600)
		err := SyncMentions(ctx, store, []string{"alice"}, "note", "n1", long)
		require.NoError(t, err)

		mentions, err := store.FindMentionsByContext(ctx, "note", "n1")
		require.NoError(t, err)
		require.Len(t, mentions, 1)
		assert.Len(t, []rune(mentions[0].Snippet), 500)
		assert.True(t, strings.HasSuffix(mentions[0].Snippet, "..."))
	})
}

func TestMentionService_Reads(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewStore()
	service := NewMentionService(store)

	require.NoError(t, store.UpsertHandle(ctx, &entities.Handle{Handle: "alice", EntityType: "contact", EntityID: "c1"}))
	require.NoError(t, SyncMentions(ctx, store, []string{"alice"}, "note", "n1", "hello"))

	byContext, err := service.ByContext(ctx, "note", "n1")
	require.NoError(t, err)
	assert.Len(t, byContext, 1)

	byTarget, err := service.ByTarget(ctx, "contact", "c1")
	require.NoError(t, err)
	assert.Len(t, byTarget, 1)
}
