package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *RecordSchema {
	return &RecordSchema{
		EntityType: "task",
		Fields: []FieldDefinition{
			{Name: "title", Kind: KindString, Required: true},
			{Name: "handle", Kind: KindString, Required: true},
			{Name: "notes", Kind: KindText, Mention: true},
			{Name: "priority", Kind: KindInteger},
			{Name: "completed", Kind: KindBoolean, Default: false},
			{Name: "timezone", Kind: KindString, Default: "UTC"},
		},
		HandleField:  "handle",
		DisplayField: "title",
		Storage:      StorageRecords,
		Persist:      true,
	}
}

func TestRecordSchema_Validate(t *testing.T) {
	schema := testSchema()

	t.Run("valid payload", func(t *testing.T) {
		normalized, err := schema.Validate(map[string]any{
			"title":    "Ship it",
			"handle":   "shipit",
			"priority": "2",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ship it", normalized["title"])
		assert.Equal(t, int64(2), normalized["priority"])
		assert.Equal(t, false, normalized["completed"])
		assert.Equal(t, "UTC", normalized["timezone"])
	})

	t.Run("collects every failure", func(t *testing.T) {
		_, err := schema.Validate(map[string]any{
			"priority": "high",
		})
		require.Error(t, err)

		verr, ok := IsValidationError(err)
		require.True(t, ok)
		assert.Len(t, verr.Fields, 3)
		assert.Equal(t, "Field is required", verr.Fields["title"])
		assert.Equal(t, "Field is required", verr.Fields["handle"])
		assert.Contains(t, verr.Fields["priority"], "invalid integer")
	})

	t.Run("empty optional fields are omitted", func(t *testing.T) {
		normalized, err := schema.Validate(map[string]any{
			"title":  "Minimal",
			"handle": "minimal",
			"notes":  "",
		})
		require.NoError(t, err)
		_, present := normalized["notes"]
		assert.False(t, present)
		_, present = normalized["priority"]
		assert.False(t, present)
	})

	t.Run("unknown keys are dropped", func(t *testing.T) {
		normalized, err := schema.Validate(map[string]any{
			"title":   "Known",
			"handle":  "known",
			"unknown": "value",
		})
		require.NoError(t, err)
		_, present := normalized["unknown"]
		assert.False(t, present)
	})

	t.Run("required with default is filled", func(t *testing.T) {
		s := &RecordSchema{
			EntityType: "thing",
			Fields: []FieldDefinition{
				{Name: "kind", Kind: KindString, Required: true, Default: "generic"},
			},
			Storage: StorageRecords,
		}
		normalized, err := s.Validate(map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "generic", normalized["kind"])
	})

	t.Run("error message is deterministic", func(t *testing.T) {
		_, err := schema.Validate(map[string]any{})
		require.Error(t, err)
		assert.Equal(t, "record validation failed: handle: Field is required; title: Field is required", err.Error())
	})
}

func TestRecordSchema_ResolveDisplayValue(t *testing.T) {
	schema := testSchema()

	t.Run("prefers display field", func(t *testing.T) {
		got := schema.ResolveDisplayValue(map[string]any{"title": "Hello", "handle": "hello"})
		assert.Equal(t, "Hello", got)
	})

	t.Run("falls back to handle field", func(t *testing.T) {
		got := schema.ResolveDisplayValue(map[string]any{"handle": "hello"})
		assert.Equal(t, "hello", got)
	})

	t.Run("falls back to well-known names", func(t *testing.T) {
		s := &RecordSchema{EntityType: "widget", Storage: StorageRecords}
		got := s.ResolveDisplayValue(map[string]any{"name": "Widget One"})
		assert.Equal(t, "Widget One", got)
	})

	t.Run("falls back to entity type", func(t *testing.T) {
		s := &RecordSchema{EntityType: "widget", Storage: StorageRecords}
		got := s.ResolveDisplayValue(map[string]any{})
		assert.Equal(t, "Widget", got)
	})
}

func TestRecordSchema_BuildSearchBlob(t *testing.T) {
	schema := testSchema()
	blob := schema.BuildSearchBlob(map[string]any{
		"title":  "Ship It",
		"handle": "shipit",
		"notes":  "  Final Review ",
	})
	assert.Equal(t, "ship it shipit final review shipit", blob)
}

func TestRecordSchema_MentionFieldNames(t *testing.T) {
	t.Run("derived from field flags", func(t *testing.T) {
		schema := testSchema()
		assert.Equal(t, []string{"notes"}, schema.MentionFieldNames())
	})

	t.Run("explicit list wins", func(t *testing.T) {
		schema := testSchema()
		schema.MentionFields = []string{"title"}
		assert.Equal(t, []string{"title"}, schema.MentionFieldNames())
	})
}

func TestSchemaDocument_RoundTrip(t *testing.T) {
	schema := testSchema()

	data, err := json.Marshal(schema.ToDocument())
	require.NoError(t, err)

	var doc SchemaDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	restored := SchemaFromDocument(doc)
	assert.Equal(t, schema.EntityType, restored.EntityType)
	assert.Equal(t, schema.HandleField, restored.HandleField)
	assert.Equal(t, schema.DisplayField, restored.DisplayField)
	assert.Equal(t, StorageRecords, restored.Storage)
	assert.True(t, restored.Persist)
	assert.Len(t, restored.Fields, len(schema.Fields))
	assert.Equal(t, []string{"notes"}, restored.MentionFields)

	completed := restored.Field("completed")
	require.NotNil(t, completed)
	assert.True(t, completed.HasDefault())
}

func TestSchemaFromDocument_Defaults(t *testing.T) {
	doc := SchemaDocument{
		EntityType: "minimal",
		Fields:     []FieldDocument{{Name: "title"}},
	}
	schema := SchemaFromDocument(doc)
	assert.Equal(t, KindString, schema.Fields[0].Kind)
	assert.Equal(t, StorageRecords, schema.Storage)
	assert.True(t, schema.Persist)
}

func TestBuiltinSchemas(t *testing.T) {
	schemas := BuiltinSchemas()
	require.Len(t, schemas, 4)

	byType := make(map[string]*RecordSchema)
	for _, schema := range schemas {
		byType[schema.EntityType] = schema
	}

	contact := byType["contact"]
	require.NotNil(t, contact)
	assert.Equal(t, StorageExternal, contact.Storage)
	assert.False(t, contact.Persist)

	for _, name := range []string{"note", "calendar_event", "reminder"} {
		schema := byType[name]
		require.NotNil(t, schema, "builtin %s", name)
		assert.Equal(t, StorageRecords, schema.Storage)
		assert.True(t, schema.Persist)
		assert.Equal(t, "handle", schema.HandleField)
	}
}
