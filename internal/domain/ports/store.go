// Package ports defines the interfaces between domain services and
// infrastructure.
package ports

import (
	"context"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

// SchemaRow is one persisted schema document with its entity type key.
type SchemaRow struct {
	EntityType string
	SchemaJSON string
}

// Querier is the set of storage operations available both on the plain
// connection and inside a transaction. Services compose these; the mutation
// paths of RecordService always run them under Store.InTransaction so a
// create/update/delete is one atomic unit.
type Querier interface {
	// Schema documents

	// UpsertSchema stores one schema JSON document keyed by entity type.
	UpsertSchema(ctx context.Context, entityType, schemaJSON, description string) error

	// ListSchemas returns every persisted schema document.
	ListSchemas(ctx context.Context) ([]SchemaRow, error)

	// Record rows

	// InsertRecord inserts a new record row.
	InsertRecord(ctx context.Context, rec *entities.Record) error

	// UpdateRecordData replaces a record's data payload and bumps updated_at.
	UpdateRecordData(ctx context.Context, entityType, entityID string, data map[string]any) error

	// FindRecord returns a record row, or nil if absent.
	FindRecord(ctx context.Context, entityType, entityID string) (*entities.Record, error)

	// ListRecords returns all rows for a type, newest-touched first.
	ListRecords(ctx context.Context, entityType string) ([]entities.Record, error)

	// DeleteRecord removes a record row only; cascade is composed by the service.
	DeleteRecord(ctx context.Context, entityType, entityID string) error

	// Handles

	// DeleteHandleByOwner removes any handle owned by the entity.
	DeleteHandleByOwner(ctx context.Context, entityType, entityID string) error

	// UpsertHandle inserts a handle row, overwriting owner, display name,
	// search blob and metadata when the handle string already exists.
	UpsertHandle(ctx context.Context, h *entities.Handle) error

	// HandleExists reports whether a handle string is taken.
	HandleExists(ctx context.Context, handle string) (bool, error)

	// ResolveHandles batch-resolves handle strings to their owners.
	// Handles with no owner are omitted from the result.
	ResolveHandles(ctx context.Context, handles []string) (map[string]entities.Handle, error)

	// ListHandles returns directory entries, optionally filtered by entity
	// types and a search-blob substring, ordered by display name.
	ListHandles(ctx context.Context, entityTypes []string, search string) ([]entities.Handle, error)

	// Mentions

	// DeleteMentionsByContext removes every mention owned by a context key.
	DeleteMentionsByContext(ctx context.Context, contextType, contextID string) error

	// DeleteMentionsByTarget removes every mention pointing at an entity.
	DeleteMentionsByTarget(ctx context.Context, entityType, entityID string) error

	// InsertMention appends one mention edge.
	InsertMention(ctx context.Context, m *entities.Mention) error

	// FindMentionsByContext returns mentions owned by a context key.
	FindMentionsByContext(ctx context.Context, contextType, contextID string) ([]entities.Mention, error)

	// FindMentionsByTarget returns mentions pointing at an entity.
	FindMentionsByTarget(ctx context.Context, entityType, entityID string) ([]entities.Mention, error)

	// FindMentionedContactIDs returns distinct contact IDs mentioned in the
	// given order's note and log contexts.
	FindMentionedContactIDs(ctx context.Context, orderID string) ([]string, error)

	// Activity log

	// AppendActivity appends one audit trail row.
	AppendActivity(ctx context.Context, e *entities.ActivityEntry) error

	// FindActivity returns audit rows for an entity, newest first.
	FindActivity(ctx context.Context, entityType, entityID string, limit int) ([]entities.ActivityEntry, error)

	// DeleteActivityByEntity removes every audit row for an entity.
	DeleteActivityByEntity(ctx context.Context, entityType, entityID string) error

	// Contacts (externally-managed canonical data)

	// UpsertContact inserts or updates a contact row.
	UpsertContact(ctx context.Context, c *entities.Contact) error

	// FindContact returns a contact, or nil if absent.
	FindContact(ctx context.Context, id string) (*entities.Contact, error)

	// FindContactsByIDs batch-loads contacts keyed by ID.
	FindContactsByIDs(ctx context.Context, ids []string) (map[string]entities.Contact, error)

	// ListContacts returns all contacts ordered by display name.
	ListContacts(ctx context.Context) ([]entities.Contact, error)

	// ContactHandleExists reports whether a handle is taken on the
	// contacts table itself.
	ContactHandleExists(ctx context.Context, handle string) (bool, error)

	// ReplaceOrderContactLinks replaces the derived secondary links for an order.
	ReplaceOrderContactLinks(ctx context.Context, orderID string, links []entities.OrderContactLink) error

	// ListOrderContactLinks returns the links for an order.
	ListOrderContactLinks(ctx context.Context, orderID string) ([]entities.OrderContactLink, error)
}

// Store is the storage backend: a Querier plus lifecycle and transaction
// control.
type Store interface {
	Querier

	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// InTransaction runs fn against a transactional Querier, committing on
	// nil and rolling back on error.
	InTransaction(ctx context.Context, fn func(q Querier) error) error
}
