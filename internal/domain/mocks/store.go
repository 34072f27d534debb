// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/ports"
)

// Store is a functional in-memory implementation of ports.Store. Setting Err
// makes every operation fail with it.
type Store struct {
	Err error

	Schemas    map[string]ports.SchemaRow
	Records    map[string]*entities.Record
	Handles    map[string]*entities.Handle
	Mentions   []entities.Mention
	Activity   []entities.ActivityEntry
	Contacts   map[string]*entities.Contact
	OrderLinks map[string][]entities.OrderContactLink

	nextMentionID  int64
	nextActivityID int64
}

// NewStore creates a new empty mock Store.
func NewStore() *Store {
	return &Store{
		Schemas:    make(map[string]ports.SchemaRow),
		Records:    make(map[string]*entities.Record),
		Handles:    make(map[string]*entities.Handle),
		Contacts:   make(map[string]*entities.Contact),
		OrderLinks: make(map[string][]entities.OrderContactLink),
	}
}

func recordKey(entityType, entityID string) string {
	return entityType + "/" + entityID
}

// EnsureSchema is a no-op for the in-memory store.
func (m *Store) EnsureSchema(ctx context.Context) error {
	return m.Err
}

// Close is a no-op for the in-memory store.
func (m *Store) Close() error {
	return nil
}

// InTransaction runs fn against the store itself; the mock has no rollback.
func (m *Store) InTransaction(ctx context.Context, fn func(q ports.Querier) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(m)
}

// UpsertSchema stores one schema document.
func (m *Store) UpsertSchema(ctx context.Context, entityType, schemaJSON, description string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Schemas[entityType] = ports.SchemaRow{EntityType: entityType, SchemaJSON: schemaJSON}
	return nil
}

// ListSchemas returns every stored schema document.
func (m *Store) ListSchemas(ctx context.Context) ([]ports.SchemaRow, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	rows := make([]ports.SchemaRow, 0, len(m.Schemas))
	for _, row := range m.Schemas {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].EntityType < rows[j].EntityType })
	return rows, nil
}

// InsertRecord inserts a new record row.
func (m *Store) InsertRecord(ctx context.Context, rec *entities.Record) error {
	if m.Err != nil {
		return m.Err
	}
	now := time.Now().UTC()
	stored := *rec
	stored.Data = copyData(rec.Data)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.Records[recordKey(rec.EntityType, rec.EntityID)] = &stored
	return nil
}

// UpdateRecordData replaces a record's data payload.
func (m *Store) UpdateRecordData(ctx context.Context, entityType, entityID string, data map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	rec, ok := m.Records[recordKey(entityType, entityID)]
	if !ok {
		return nil
	}
	rec.Data = copyData(data)
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

// FindRecord returns a record row, or nil if absent.
func (m *Store) FindRecord(ctx context.Context, entityType, entityID string) (*entities.Record, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	rec, ok := m.Records[recordKey(entityType, entityID)]
	if !ok {
		return nil, nil
	}
	out := *rec
	out.Data = copyData(rec.Data)
	return &out, nil
}

// ListRecords returns all rows for a type, newest-touched first.
func (m *Store) ListRecords(ctx context.Context, entityType string) ([]entities.Record, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.Record
	for _, rec := range m.Records {
		if rec.EntityType != entityType {
			continue
		}
		copied := *rec
		copied.Data = copyData(rec.Data)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// DeleteRecord removes a record row.
func (m *Store) DeleteRecord(ctx context.Context, entityType, entityID string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Records, recordKey(entityType, entityID))
	return nil
}

// DeleteHandleByOwner removes any handle owned by the entity.
func (m *Store) DeleteHandleByOwner(ctx context.Context, entityType, entityID string) error {
	if m.Err != nil {
		return m.Err
	}
	for handle, h := range m.Handles {
		if h.EntityType == entityType && h.EntityID == entityID {
			delete(m.Handles, handle)
		}
	}
	return nil
}

// UpsertHandle inserts or overwrites a handle row keyed by handle string.
func (m *Store) UpsertHandle(ctx context.Context, h *entities.Handle) error {
	if m.Err != nil {
		return m.Err
	}
	now := time.Now().UTC()
	stored := *h
	if existing, ok := m.Handles[h.Handle]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.Handles[h.Handle] = &stored
	return nil
}

// HandleExists reports whether a handle string is taken.
func (m *Store) HandleExists(ctx context.Context, handle string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Handles[handle]
	return ok, nil
}

// ResolveHandles batch-resolves handle strings to their owners.
func (m *Store) ResolveHandles(ctx context.Context, handles []string) (map[string]entities.Handle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]entities.Handle)
	for _, handle := range handles {
		if h, ok := m.Handles[handle]; ok {
			out[handle] = *h
		}
	}
	return out, nil
}

// ListHandles returns directory entries filtered by types and search substring.
func (m *Store) ListHandles(ctx context.Context, entityTypes []string, search string) ([]entities.Handle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	typeSet := make(map[string]bool, len(entityTypes))
	for _, t := range entityTypes {
		typeSet[t] = true
	}
	var out []entities.Handle
	for _, h := range m.Handles {
		if len(typeSet) > 0 && !typeSet[h.EntityType] {
			continue
		}
		if search != "" && !strings.Contains(h.SearchBlob, search) {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName) < strings.ToLower(out[j].DisplayName)
	})
	return out, nil
}

// DeleteMentionsByContext removes every mention owned by a context key.
func (m *Store) DeleteMentionsByContext(ctx context.Context, contextType, contextID string) error {
	if m.Err != nil {
		return m.Err
	}
	kept := m.Mentions[:0]
	for _, mention := range m.Mentions {
		if mention.ContextEntityType == contextType && mention.ContextEntityID == contextID {
			continue
		}
		kept = append(kept, mention)
	}
	m.Mentions = kept
	return nil
}

// DeleteMentionsByTarget removes every mention pointing at an entity.
func (m *Store) DeleteMentionsByTarget(ctx context.Context, entityType, entityID string) error {
	if m.Err != nil {
		return m.Err
	}
	kept := m.Mentions[:0]
	for _, mention := range m.Mentions {
		if mention.MentionedEntityType == entityType && mention.MentionedEntityID == entityID {
			continue
		}
		kept = append(kept, mention)
	}
	m.Mentions = kept
	return nil
}

// InsertMention appends one mention edge.
func (m *Store) InsertMention(ctx context.Context, mention *entities.Mention) error {
	if m.Err != nil {
		return m.Err
	}
	m.nextMentionID++
	stored := *mention
	stored.ID = m.nextMentionID
	stored.CreatedAt = time.Now().UTC()
	m.Mentions = append(m.Mentions, stored)
	return nil
}

// FindMentionsByContext returns mentions owned by a context key.
func (m *Store) FindMentionsByContext(ctx context.Context, contextType, contextID string) ([]entities.Mention, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.Mention
	for _, mention := range m.Mentions {
		if mention.ContextEntityType == contextType && mention.ContextEntityID == contextID {
			out = append(out, mention)
		}
	}
	return out, nil
}

// FindMentionsByTarget returns mentions pointing at an entity.
func (m *Store) FindMentionsByTarget(ctx context.Context, entityType, entityID string) ([]entities.Mention, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.Mention
	for _, mention := range m.Mentions {
		if mention.MentionedEntityType == entityType && mention.MentionedEntityID == entityID {
			out = append(out, mention)
		}
	}
	return out, nil
}

// FindMentionedContactIDs returns distinct contact IDs mentioned from the
// given order's note and log records.
func (m *Store) FindMentionedContactIDs(ctx context.Context, orderID string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	seen := make(map[string]bool)
	var out []string
	for _, mention := range m.Mentions {
		if mention.MentionedEntityType != "contact" {
			continue
		}
		if mention.ContextEntityType != "order_note" && mention.ContextEntityType != "order_log" {
			continue
		}
		rec, ok := m.Records[recordKey(mention.ContextEntityType, mention.ContextEntityID)]
		if !ok {
			continue
		}
		if id, _ := rec.Data["order_id"].(string); id != orderID {
			continue
		}
		if !seen[mention.MentionedEntityID] {
			seen[mention.MentionedEntityID] = true
			out = append(out, mention.MentionedEntityID)
		}
	}
	return out, nil
}

// AppendActivity appends one audit trail row.
func (m *Store) AppendActivity(ctx context.Context, e *entities.ActivityEntry) error {
	if m.Err != nil {
		return m.Err
	}
	m.nextActivityID++
	stored := *e
	stored.ID = m.nextActivityID
	stored.CreatedAt = time.Now().UTC()
	m.Activity = append(m.Activity, stored)
	return nil
}

// FindActivity returns audit rows for an entity, newest first.
func (m *Store) FindActivity(ctx context.Context, entityType, entityID string, limit int) ([]entities.ActivityEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.ActivityEntry
	for i := len(m.Activity) - 1; i >= 0; i-- {
		e := m.Activity[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// DeleteActivityByEntity removes every audit row for an entity.
func (m *Store) DeleteActivityByEntity(ctx context.Context, entityType, entityID string) error {
	if m.Err != nil {
		return m.Err
	}
	kept := m.Activity[:0]
	for _, e := range m.Activity {
		if e.EntityType == entityType && e.EntityID == entityID {
			continue
		}
		kept = append(kept, e)
	}
	m.Activity = kept
	return nil
}

// UpsertContact inserts or updates a contact row.
func (m *Store) UpsertContact(ctx context.Context, c *entities.Contact) error {
	if m.Err != nil {
		return m.Err
	}
	now := time.Now().UTC()
	stored := *c
	if existing, ok := m.Contacts[c.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.Contacts[c.ID] = &stored
	return nil
}

// FindContact returns a contact, or nil if absent.
func (m *Store) FindContact(ctx context.Context, id string) (*entities.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Contacts[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

// FindContactsByIDs batch-loads contacts keyed by ID.
func (m *Store) FindContactsByIDs(ctx context.Context, ids []string) (map[string]entities.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]entities.Contact)
	for _, id := range ids {
		if c, ok := m.Contacts[id]; ok {
			out[id] = *c
		}
	}
	return out, nil
}

// ListContacts returns all contacts ordered by display name.
func (m *Store) ListContacts(ctx context.Context) ([]entities.Contact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]entities.Contact, 0, len(m.Contacts))
	for _, c := range m.Contacts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
	})
	return out, nil
}

// ContactHandleExists reports whether a handle is taken on a contact row.
func (m *Store) ContactHandleExists(ctx context.Context, handle string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	for _, c := range m.Contacts {
		if c.Handle == handle {
			return true, nil
		}
	}
	return false, nil
}

// ReplaceOrderContactLinks replaces the derived link set for an order.
func (m *Store) ReplaceOrderContactLinks(ctx context.Context, orderID string, links []entities.OrderContactLink) error {
	if m.Err != nil {
		return m.Err
	}
	m.OrderLinks[orderID] = append([]entities.OrderContactLink(nil), links...)
	return nil
}

// ListOrderContactLinks returns the links for an order.
func (m *Store) ListOrderContactLinks(ctx context.Context, orderID string) ([]entities.OrderContactLink, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]entities.OrderContactLink(nil), m.OrderLinks[orderID]...), nil
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
