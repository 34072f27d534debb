package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/ports"
)

// RecordView is the shape returned to collaborators after a mutation.
type RecordView struct {
	EntityType string         `json:"entityType"`
	ID         string         `json:"id"`
	Data       map[string]any `json:"data"`
}

// RecordService coordinates schema registration and record persistence. Each
// create, update and delete runs inside one storage transaction covering the
// record row, its handle, its mentions and its activity trail, so a handle
// failure aborts the whole operation.
type RecordService struct {
	registry *RegistryService
	store    ports.Store
}

// NewRecordService creates a new RecordService.
func NewRecordService(registry *RegistryService, store ports.Store) *RecordService {
	return &RecordService{
		registry: registry,
		store:    store,
	}
}

// Registry exposes the schema registry for collaborators.
func (s *RecordService) Registry() *RegistryService {
	return s.registry
}

// Bootstrap loads persisted schemas from storage into the registry, then
// seeds the builtin contact, note, calendar_event and reminder schemas for
// any type not already registered.
func (s *RecordService) Bootstrap(ctx context.Context) error {
	rows, err := s.store.ListSchemas(ctx)
	if err != nil {
		return fmt.Errorf("loading schemas: %w", err)
	}
	for _, row := range rows {
		var doc entities.SchemaDocument
		if err := json.Unmarshal([]byte(row.SchemaJSON), &doc); err != nil {
			// Unreadable rows are skipped; re-registration repairs them.
			continue
		}
		s.registry.Register(entities.SchemaFromDocument(doc))
	}
	for _, schema := range entities.BuiltinSchemas() {
		if s.registry.Has(schema.EntityType) {
			continue
		}
		if err := s.RegisterSchema(ctx, schema); err != nil {
			return fmt.Errorf("seeding schema %s: %w", schema.EntityType, err)
		}
	}
	// Normalizers are code, not storage, so they are installed regardless of
	// whether the schema row came from the database or the builtin seeds.
	for entityType, fn := range builtinNormalizers() {
		s.registry.RegisterNormalizer(entityType, fn)
	}
	return nil
}

// RegisterSchema upserts a schema in the registry and, unless the schema
// opts out, persists its JSON document.
func (s *RecordService) RegisterSchema(ctx context.Context, schema *entities.RecordSchema) error {
	s.registry.Register(schema)
	if !schema.Persist {
		return nil
	}
	doc, err := json.Marshal(schema.ToDocument())
	if err != nil {
		return fmt.Errorf("encoding schema %s: %w", schema.EntityType, err)
	}
	if err := s.store.UpsertSchema(ctx, schema.EntityType, string(doc), schema.Description); err != nil {
		return fmt.Errorf("persisting schema %s: %w", schema.EntityType, err)
	}
	return nil
}

// Create validates a payload against the entity type's schema, persists the
// record, registers its handle, appends a "created" activity entry and
// synchronizes mentions, all in one transaction.
func (s *RecordService) Create(ctx context.Context, entityType string, payload map[string]any, actor string) (*RecordView, error) {
	schema, err := s.requireRecordsStorage(entityType, "created")
	if err != nil {
		return nil, err
	}
	normalized, err := schema.Validate(payload)
	if err != nil {
		return nil, err
	}
	if fn := s.registry.Normalizer(entityType); fn != nil {
		fn(normalized)
	}

	entityID := ""
	if raw, ok := payload["id"]; ok && !valueEmpty(raw) {
		entityID = fmt.Sprintf("%v", raw)
	}
	if entityID == "" {
		entityID = uuid.New().String()
	}
	normalized["id"] = entityID

	rec := &entities.Record{
		EntityType: entityType,
		EntityID:   entityID,
		Data:       normalized,
	}
	err = s.store.InTransaction(ctx, func(q ports.Querier) error {
		if err := q.InsertRecord(ctx, rec); err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}
		if err := s.registerHandleIfApplicable(ctx, q, schema, normalized); err != nil {
			return err
		}
		if err := appendActivity(ctx, q, entityType, entityID, "created", actor, normalized); err != nil {
			return err
		}
		return s.syncRecordMentions(ctx, q, schema, normalized)
	})
	if err != nil {
		return nil, err
	}
	return &RecordView{EntityType: entityType, ID: entityID, Data: normalized}, nil
}

// Update applies patch semantics: keys present in the payload overwrite the
// stored data, the merged superset is revalidated, and handle, activity and
// mentions are refreshed in the same transaction. Mentions are recomputed
// unconditionally even when no mention-tagged field changed.
func (s *RecordService) Update(ctx context.Context, entityType, entityID string, payload map[string]any, actor string) (*RecordView, error) {
	schema, err := s.requireRecordsStorage(entityType, "mutated")
	if err != nil {
		return nil, err
	}

	var view *RecordView
	err = s.store.InTransaction(ctx, func(q ports.Querier) error {
		current, err := q.FindRecord(ctx, entityType, entityID)
		if err != nil {
			return fmt.Errorf("loading record: %w", err)
		}
		if current == nil {
			return fmt.Errorf("record %s:%s: %w", entityType, entityID, entities.ErrNotFound)
		}

		merged := make(map[string]any, len(current.Data)+len(payload))
		for k, v := range current.Data {
			merged[k] = v
		}
		for k, v := range payload {
			merged[k] = v
		}
		normalized, err := schema.Validate(merged)
		if err != nil {
			return err
		}
		if fn := s.registry.Normalizer(entityType); fn != nil {
			fn(normalized)
		}
		normalized["id"] = entityID

		if err := q.UpdateRecordData(ctx, entityType, entityID, normalized); err != nil {
			return fmt.Errorf("updating record: %w", err)
		}
		if err := s.registerHandleIfApplicable(ctx, q, schema, normalized); err != nil {
			return err
		}
		if err := appendActivity(ctx, q, entityType, entityID, "updated", actor, normalized); err != nil {
			return err
		}
		if err := s.syncRecordMentions(ctx, q, schema, normalized); err != nil {
			return err
		}
		view = &RecordView{EntityType: entityType, ID: entityID, Data: normalized}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Get returns one record with its timestamps, or nil when absent.
func (s *RecordService) Get(ctx context.Context, entityType, entityID string) (*entities.Record, error) {
	if _, err := s.requireRecordsStorage(entityType, "read"); err != nil {
		return nil, err
	}
	return s.store.FindRecord(ctx, entityType, entityID)
}

// List returns all records of a type, newest-touched first.
func (s *RecordService) List(ctx context.Context, entityType string) ([]entities.Record, error) {
	if _, err := s.requireRecordsStorage(entityType, "listed"); err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	for i := range records {
		if records[i].Data == nil {
			records[i].Data = map[string]any{}
		}
		records[i].Data["id"] = records[i].EntityID
	}
	return records, nil
}

// Delete removes the record together with its handle, every mention where it
// is context or target, and its activity trail, in a single transaction.
func (s *RecordService) Delete(ctx context.Context, entityType, entityID string) error {
	if _, err := s.requireRecordsStorage(entityType, "removed"); err != nil {
		return err
	}
	return s.store.InTransaction(ctx, func(q ports.Querier) error {
		current, err := q.FindRecord(ctx, entityType, entityID)
		if err != nil {
			return fmt.Errorf("loading record: %w", err)
		}
		if current == nil {
			return fmt.Errorf("record %s:%s: %w", entityType, entityID, entities.ErrNotFound)
		}
		if err := q.DeleteRecord(ctx, entityType, entityID); err != nil {
			return fmt.Errorf("deleting record: %w", err)
		}
		if err := q.DeleteHandleByOwner(ctx, entityType, entityID); err != nil {
			return fmt.Errorf("deleting handle: %w", err)
		}
		if err := q.DeleteMentionsByContext(ctx, entityType, entityID); err != nil {
			return fmt.Errorf("deleting context mentions: %w", err)
		}
		if err := q.DeleteMentionsByTarget(ctx, entityType, entityID); err != nil {
			return fmt.Errorf("deleting target mentions: %w", err)
		}
		if err := q.DeleteActivityByEntity(ctx, entityType, entityID); err != nil {
			return fmt.Errorf("deleting activity: %w", err)
		}
		return nil
	})
}

// requireRecordsStorage returns the schema and rejects externally-managed
// types with a distinct error so callers can present a read-only message.
func (s *RecordService) requireRecordsStorage(entityType, verb string) (*entities.RecordSchema, error) {
	schema, err := s.registry.Get(entityType)
	if err != nil {
		return nil, err
	}
	if schema.Storage != entities.StorageRecords {
		return nil, fmt.Errorf("record type %q cannot be %s via this API: %w", entityType, verb, entities.ErrExternallyManaged)
	}
	return schema, nil
}

// registerHandleIfApplicable installs the record's handle when the schema
// designates a handle field and the normalized data carries a value for it.
func (s *RecordService) registerHandleIfApplicable(ctx context.Context, q ports.Querier, schema *entities.RecordSchema, data map[string]any) error {
	if schema.HandleField == "" {
		return nil
	}
	raw := data[schema.HandleField]
	if valueEmpty(raw) {
		return nil
	}
	handle := fmt.Sprintf("%v", raw)
	display := schema.ResolveDisplayValue(data)
	blob := schema.BuildSearchBlob(data)
	entityID := fmt.Sprintf("%v", data["id"])
	return registerHandle(ctx, q, schema.EntityType, entityID, handle, display, blob, nil)
}

// syncRecordMentions extracts handles from every mention-tagged text field
// and replaces the record's mention rows. It runs on every save, including
// when the extracted set is empty, so stale mentions are cleared.
func (s *RecordService) syncRecordMentions(ctx context.Context, q ports.Querier, schema *entities.RecordSchema, data map[string]any) error {
	mentionFields := schema.MentionFieldNames()
	if len(mentionFields) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var handles []string
	var snippetSource string
	for _, name := range mentionFields {
		value, ok := data[name].(string)
		if !ok {
			continue
		}
		for _, handle := range ExtractMentions(value) {
			if !seen[handle] {
				seen[handle] = true
				handles = append(handles, handle)
			}
		}
		if snippetSource == "" && strings.TrimSpace(value) != "" {
			snippetSource = value
		}
	}
	sort.Strings(handles)

	entityID := fmt.Sprintf("%v", data["id"])
	return SyncMentions(ctx, q, handles, schema.EntityType, entityID, snippetSource)
}

func valueEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}
