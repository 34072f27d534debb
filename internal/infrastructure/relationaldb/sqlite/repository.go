// Package sqlite provides a SQLite implementation of the Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/ports"
	"github.com/firecoast/recordstore/internal/infrastructure/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same query methods serve both the plain connection and transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements ports.Querier against a dbtx.
type queries struct {
	db dbtx
}

// Repository implements ports.Store using SQLite.
type Repository struct {
	queries
	sqldb *sql.DB
	path  string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// A single connection serializes writes and keeps :memory: databases
	// from being split across pool connections.
	db.SetMaxOpenConns(1)

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		queries: queries{db: db},
		sqldb:   db,
		path:    cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.sqldb.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// InTransaction runs fn inside a transaction, committing on nil and rolling
// back on error or panic.
func (r *Repository) InTransaction(ctx context.Context, fn func(q ports.Querier) error) error {
	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Schema documents, one JSON blob per registered entity type
	CREATE TABLE IF NOT EXISTS record_schemas (
		entity_type TEXT PRIMARY KEY,
		schema_json TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	-- Polymorphic record rows, payload stored as JSON
	CREATE TABLE IF NOT EXISTS records (
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (entity_type, entity_id)
	);
	CREATE INDEX IF NOT EXISTS idx_records_type ON records(entity_type);

	-- Global handle directory, one handle string maps to one owner
	CREATE TABLE IF NOT EXISTS record_handles (
		handle TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		search_blob TEXT NOT NULL DEFAULT '',
		metadata TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_record_handles_owner ON record_handles(entity_type, entity_id);

	-- Mention edges from a context entity to a mentioned entity
	CREATE TABLE IF NOT EXISTS record_mentions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mentioned_handle TEXT NOT NULL,
		mentioned_entity_type TEXT NOT NULL,
		mentioned_entity_id TEXT NOT NULL,
		context_entity_type TEXT NOT NULL,
		context_entity_id TEXT NOT NULL,
		snippet TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_record_mentions_target ON record_mentions(mentioned_entity_type, mentioned_entity_id);
	CREATE INDEX IF NOT EXISTS idx_record_mentions_context ON record_mentions(context_entity_type, context_entity_id);

	-- Append-only audit trail per entity
	CREATE TABLE IF NOT EXISTS record_activity_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		action TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_record_activity_entity ON record_activity_logs(entity_type, entity_id);

	-- Canonical contact rows, managed outside the generic record store
	CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		company_name TEXT NOT NULL DEFAULT '',
		contact_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		handle TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		details TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_contacts_handle ON contacts(handle);

	-- Derived secondary contact links per order, rebuilt from mentions
	CREATE TABLE IF NOT EXISTS order_contact_links (
		order_id TEXT NOT NULL,
		contact_id TEXT NOT NULL,
		relationship TEXT NOT NULL DEFAULT 'secondary',
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (order_id, contact_id)
	);
	`
	if _, err := r.sqldb.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// UpsertSchema stores one schema JSON document keyed by entity type.
func (q *queries) UpsertSchema(ctx context.Context, entityType, schemaJSON, description string) error {
	query := `
		INSERT INTO record_schemas (entity_type, schema_json, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity_type) DO UPDATE SET
			schema_json = excluded.schema_json,
			description = excluded.description,
			updated_at = excluded.updated_at
	`
	now := timeNow()
	if _, err := q.db.ExecContext(ctx, query, entityType, schemaJSON, description, now, now); err != nil {
		return fmt.Errorf("upserting schema: %w", err)
	}
	return nil
}

// ListSchemas returns every persisted schema document.
func (q *queries) ListSchemas(ctx context.Context) ([]ports.SchemaRow, error) {
	query := `
		SELECT entity_type, schema_json
		FROM record_schemas
		ORDER BY entity_type ASC
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying schemas: %w", err)
	}
	defer rows.Close()

	var result []ports.SchemaRow
	for rows.Next() {
		var row ports.SchemaRow
		if err := rows.Scan(&row.EntityType, &row.SchemaJSON); err != nil {
			return nil, fmt.Errorf("scanning schema: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// InsertRecord inserts a new record row.
func (q *queries) InsertRecord(ctx context.Context, rec *entities.Record) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("encoding record data: %w", err)
	}
	query := `
		INSERT INTO records (entity_type, entity_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	now := timeNow()
	if _, err := q.db.ExecContext(ctx, query, rec.EntityType, rec.EntityID, string(data), now, now); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// UpdateRecordData replaces a record's data payload and bumps updated_at.
func (q *queries) UpdateRecordData(ctx context.Context, entityType, entityID string, data map[string]any) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding record data: %w", err)
	}
	query := `
		UPDATE records
		SET data = ?, updated_at = ?
		WHERE entity_type = ? AND entity_id = ?
	`
	if _, err := q.db.ExecContext(ctx, query, string(encoded), timeNow(), entityType, entityID); err != nil {
		return fmt.Errorf("updating record: %w", err)
	}
	return nil
}

// FindRecord returns a record row, or nil if absent.
func (q *queries) FindRecord(ctx context.Context, entityType, entityID string) (*entities.Record, error) {
	query := `
		SELECT entity_type, entity_id, data, created_at, updated_at
		FROM records
		WHERE entity_type = ? AND entity_id = ?
	`
	row := q.db.QueryRowContext(ctx, query, entityType, entityID)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecords returns all rows for a type, newest-touched first.
func (q *queries) ListRecords(ctx context.Context, entityType string) ([]entities.Record, error) {
	query := `
		SELECT entity_type, entity_id, data, created_at, updated_at
		FROM records
		WHERE entity_type = ?
		ORDER BY updated_at DESC
	`
	rows, err := q.db.QueryContext(ctx, query, entityType)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var result []entities.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (*entities.Record, error) {
	var rec entities.Record
	var data string
	if err := scan(&rec.EntityType, &rec.EntityID, &data, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
		return nil, fmt.Errorf("decoding record data: %w", err)
	}
	return &rec, nil
}

// DeleteRecord removes a record row.
func (q *queries) DeleteRecord(ctx context.Context, entityType, entityID string) error {
	query := `DELETE FROM records WHERE entity_type = ? AND entity_id = ?`
	if _, err := q.db.ExecContext(ctx, query, entityType, entityID); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// DeleteHandleByOwner removes any handle owned by the entity.
func (q *queries) DeleteHandleByOwner(ctx context.Context, entityType, entityID string) error {
	query := `DELETE FROM record_handles WHERE entity_type = ? AND entity_id = ?`
	if _, err := q.db.ExecContext(ctx, query, entityType, entityID); err != nil {
		return fmt.Errorf("deleting handle: %w", err)
	}
	return nil
}

// UpsertHandle inserts a handle row, reassigning the handle string to the new
// owner when it already exists.
func (q *queries) UpsertHandle(ctx context.Context, h *entities.Handle) error {
	metadata, err := encodeNullableJSON(h.Metadata)
	if err != nil {
		return fmt.Errorf("encoding handle metadata: %w", err)
	}
	query := `
		INSERT INTO record_handles (handle, entity_type, entity_id, display_name, search_blob, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(handle) DO UPDATE SET
			entity_type = excluded.entity_type,
			entity_id = excluded.entity_id,
			display_name = excluded.display_name,
			search_blob = excluded.search_blob,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`
	now := timeNow()
	if _, err := q.db.ExecContext(ctx, query, h.Handle, h.EntityType, h.EntityID, h.DisplayName, h.SearchBlob, metadata, now, now); err != nil {
		return fmt.Errorf("upserting handle: %w", err)
	}
	return nil
}

// HandleExists reports whether a handle string is taken.
func (q *queries) HandleExists(ctx context.Context, handle string) (bool, error) {
	query := `SELECT 1 FROM record_handles WHERE handle = ?`
	var one int
	err := q.db.QueryRowContext(ctx, query, handle).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probing handle: %w", err)
	}
	return true, nil
}

// ResolveHandles batch-resolves handle strings to their owners.
func (q *queries) ResolveHandles(ctx context.Context, handles []string) (map[string]entities.Handle, error) {
	result := make(map[string]entities.Handle)
	if len(handles) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(handles))
	args := make([]any, len(handles))
	for i, handle := range handles {
		placeholders[i] = "?"
		args[i] = handle
	}
	query := fmt.Sprintf(`
		SELECT handle, entity_type, entity_id, display_name, search_blob, metadata, created_at, updated_at
		FROM record_handles
		WHERE handle IN (%s)
	`, strings.Join(placeholders, ","))

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying handles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		h, err := scanHandle(rows.Scan)
		if err != nil {
			return nil, err
		}
		result[h.Handle] = *h
	}
	return result, rows.Err()
}

// ListHandles returns directory entries, optionally filtered by entity types
// and a search-blob substring, ordered by display name.
func (q *queries) ListHandles(ctx context.Context, entityTypes []string, search string) ([]entities.Handle, error) {
	var conditions []string
	var args []any
	if len(entityTypes) > 0 {
		placeholders := make([]string, len(entityTypes))
		for i, t := range entityTypes {
			placeholders[i] = "?"
			args = append(args, t)
		}
		conditions = append(conditions, fmt.Sprintf("entity_type IN (%s)", strings.Join(placeholders, ",")))
	}
	if search != "" {
		conditions = append(conditions, "search_blob LIKE ?")
		args = append(args, "%"+search+"%")
	}

	query := `
		SELECT handle, entity_type, entity_id, display_name, search_blob, metadata, created_at, updated_at
		FROM record_handles
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY display_name COLLATE NOCASE ASC"

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying handles: %w", err)
	}
	defer rows.Close()

	var result []entities.Handle
	for rows.Next() {
		h, err := scanHandle(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *h)
	}
	return result, rows.Err()
}

func scanHandle(scan func(dest ...any) error) (*entities.Handle, error) {
	var h entities.Handle
	var metadata sql.NullString
	if err := scan(&h.Handle, &h.EntityType, &h.EntityID, &h.DisplayName, &h.SearchBlob, &metadata, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning handle: %w", err)
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &h.Metadata); err != nil {
			return nil, fmt.Errorf("decoding handle metadata: %w", err)
		}
	}
	return &h, nil
}

// DeleteMentionsByContext removes every mention owned by a context key.
func (q *queries) DeleteMentionsByContext(ctx context.Context, contextType, contextID string) error {
	query := `DELETE FROM record_mentions WHERE context_entity_type = ? AND context_entity_id = ?`
	if _, err := q.db.ExecContext(ctx, query, contextType, contextID); err != nil {
		return fmt.Errorf("deleting mentions: %w", err)
	}
	return nil
}

// DeleteMentionsByTarget removes every mention pointing at an entity.
func (q *queries) DeleteMentionsByTarget(ctx context.Context, entityType, entityID string) error {
	query := `DELETE FROM record_mentions WHERE mentioned_entity_type = ? AND mentioned_entity_id = ?`
	if _, err := q.db.ExecContext(ctx, query, entityType, entityID); err != nil {
		return fmt.Errorf("deleting mentions: %w", err)
	}
	return nil
}

// InsertMention appends one mention edge.
func (q *queries) InsertMention(ctx context.Context, m *entities.Mention) error {
	query := `
		INSERT INTO record_mentions (mentioned_handle, mentioned_entity_type, mentioned_entity_id, context_entity_type, context_entity_id, snippet, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := q.db.ExecContext(ctx, query, m.MentionedHandle, m.MentionedEntityType, m.MentionedEntityID, m.ContextEntityType, m.ContextEntityID, m.Snippet, timeNow()); err != nil {
		return fmt.Errorf("inserting mention: %w", err)
	}
	return nil
}

// FindMentionsByContext returns mentions owned by a context key.
func (q *queries) FindMentionsByContext(ctx context.Context, contextType, contextID string) ([]entities.Mention, error) {
	query := `
		SELECT id, mentioned_handle, mentioned_entity_type, mentioned_entity_id, context_entity_type, context_entity_id, snippet, created_at
		FROM record_mentions
		WHERE context_entity_type = ? AND context_entity_id = ?
		ORDER BY id ASC
	`
	return q.queryMentions(ctx, query, contextType, contextID)
}

// FindMentionsByTarget returns mentions pointing at an entity.
func (q *queries) FindMentionsByTarget(ctx context.Context, entityType, entityID string) ([]entities.Mention, error) {
	query := `
		SELECT id, mentioned_handle, mentioned_entity_type, mentioned_entity_id, context_entity_type, context_entity_id, snippet, created_at
		FROM record_mentions
		WHERE mentioned_entity_type = ? AND mentioned_entity_id = ?
		ORDER BY id DESC
	`
	return q.queryMentions(ctx, query, entityType, entityID)
}

func (q *queries) queryMentions(ctx context.Context, query string, args ...any) ([]entities.Mention, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mentions: %w", err)
	}
	defer rows.Close()

	var result []entities.Mention
	for rows.Next() {
		var m entities.Mention
		if err := rows.Scan(
			&m.ID,
			&m.MentionedHandle,
			&m.MentionedEntityType,
			&m.MentionedEntityID,
			&m.ContextEntityType,
			&m.ContextEntityID,
			&m.Snippet,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning mention: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// FindMentionedContactIDs returns distinct contact IDs mentioned from the
// given order's note and log records.
func (q *queries) FindMentionedContactIDs(ctx context.Context, orderID string) ([]string, error) {
	query := `
		SELECT DISTINCT m.mentioned_entity_id
		FROM record_mentions m
		JOIN records r
			ON r.entity_type = m.context_entity_type
			AND r.entity_id = m.context_entity_id
		WHERE m.mentioned_entity_type = 'contact'
			AND m.context_entity_type IN ('order_note', 'order_log')
			AND json_extract(r.data, '$.order_id') = ?
		ORDER BY m.mentioned_entity_id ASC
	`
	rows, err := q.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying mentioned contacts: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning contact id: %w", err)
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

// AppendActivity appends one audit trail row.
func (q *queries) AppendActivity(ctx context.Context, e *entities.ActivityEntry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("encoding activity payload: %w", err)
	}
	query := `
		INSERT INTO record_activity_logs (entity_type, entity_id, action, actor, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := q.db.ExecContext(ctx, query, e.EntityType, e.EntityID, e.Action, e.Actor, string(payload), timeNow()); err != nil {
		return fmt.Errorf("appending activity: %w", err)
	}
	return nil
}

// FindActivity returns audit rows for an entity, newest first.
func (q *queries) FindActivity(ctx context.Context, entityType, entityID string, limit int) ([]entities.ActivityEntry, error) {
	query := `
		SELECT id, entity_type, entity_id, action, actor, payload, created_at
		FROM record_activity_logs
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := q.db.QueryContext(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()

	var result []entities.ActivityEntry
	for rows.Next() {
		var e entities.ActivityEntry
		var payload string
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Actor, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, fmt.Errorf("decoding activity payload: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// DeleteActivityByEntity removes every audit row for an entity.
func (q *queries) DeleteActivityByEntity(ctx context.Context, entityType, entityID string) error {
	query := `DELETE FROM record_activity_logs WHERE entity_type = ? AND entity_id = ?`
	if _, err := q.db.ExecContext(ctx, query, entityType, entityID); err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

// UpsertContact inserts or updates a contact row.
func (q *queries) UpsertContact(ctx context.Context, c *entities.Contact) error {
	details, err := json.Marshal(orEmptyMap(c.Details))
	if err != nil {
		return fmt.Errorf("encoding contact details: %w", err)
	}
	query := `
		INSERT INTO contacts (id, company_name, contact_name, email, phone, handle, notes, details, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			contact_name = excluded.contact_name,
			email = excluded.email,
			phone = excluded.phone,
			handle = excluded.handle,
			notes = excluded.notes,
			details = excluded.details,
			updated_at = excluded.updated_at
	`
	now := timeNow()
	if _, err := q.db.ExecContext(ctx, query, c.ID, c.CompanyName, c.ContactName, c.Email, c.Phone, c.Handle, c.Notes, string(details), now, now); err != nil {
		return fmt.Errorf("upserting contact: %w", err)
	}
	return nil
}

// FindContact returns a contact, or nil if absent.
func (q *queries) FindContact(ctx context.Context, id string) (*entities.Contact, error) {
	query := `
		SELECT id, company_name, contact_name, email, phone, handle, notes, details, created_at, updated_at
		FROM contacts
		WHERE id = ?
	`
	row := q.db.QueryRowContext(ctx, query, id)

	c, err := scanContact(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindContactsByIDs batch-loads contacts keyed by ID.
func (q *queries) FindContactsByIDs(ctx context.Context, ids []string) (map[string]entities.Contact, error) {
	result := make(map[string]entities.Contact)
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`
		SELECT id, company_name, contact_name, email, phone, handle, notes, details, created_at, updated_at
		FROM contacts
		WHERE id IN (%s)
	`, strings.Join(placeholders, ","))

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		result[c.ID] = *c
	}
	return result, rows.Err()
}

// ListContacts returns all contacts ordered by display name.
func (q *queries) ListContacts(ctx context.Context) ([]entities.Contact, error) {
	query := `
		SELECT id, company_name, contact_name, email, phone, handle, notes, details, created_at, updated_at
		FROM contacts
		ORDER BY
			CASE WHEN contact_name != '' THEN contact_name ELSE company_name END COLLATE NOCASE ASC
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var result []entities.Contact
	for rows.Next() {
		c, err := scanContact(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func scanContact(scan func(dest ...any) error) (*entities.Contact, error) {
	var c entities.Contact
	var details string
	if err := scan(&c.ID, &c.CompanyName, &c.ContactName, &c.Email, &c.Phone, &c.Handle, &c.Notes, &details, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if details != "" {
		if err := json.Unmarshal([]byte(details), &c.Details); err != nil {
			return nil, fmt.Errorf("decoding contact details: %w", err)
		}
	}
	return &c, nil
}

// ContactHandleExists reports whether a handle is taken on the contacts table.
func (q *queries) ContactHandleExists(ctx context.Context, handle string) (bool, error) {
	query := `SELECT 1 FROM contacts WHERE handle = ?`
	var one int
	err := q.db.QueryRowContext(ctx, query, handle).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probing contact handle: %w", err)
	}
	return true, nil
}

// ReplaceOrderContactLinks replaces the derived link set for an order.
func (q *queries) ReplaceOrderContactLinks(ctx context.Context, orderID string, links []entities.OrderContactLink) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM order_contact_links WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("clearing order contact links: %w", err)
	}
	query := `
		INSERT INTO order_contact_links (order_id, contact_id, relationship, created_at)
		VALUES (?, ?, ?, ?)
	`
	now := timeNow()
	for _, link := range links {
		if _, err := q.db.ExecContext(ctx, query, orderID, link.ContactID, link.Relationship, now); err != nil {
			return fmt.Errorf("inserting order contact link: %w", err)
		}
	}
	return nil
}

// ListOrderContactLinks returns the links for an order.
func (q *queries) ListOrderContactLinks(ctx context.Context, orderID string) ([]entities.OrderContactLink, error) {
	query := `
		SELECT order_id, contact_id, relationship, created_at
		FROM order_contact_links
		WHERE order_id = ?
		ORDER BY contact_id ASC
	`
	rows, err := q.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order contact links: %w", err)
	}
	defer rows.Close()

	var result []entities.OrderContactLink
	for rows.Next() {
		var link entities.OrderContactLink
		if err := rows.Scan(&link.OrderID, &link.ContactID, &link.Relationship, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order contact link: %w", err)
		}
		result = append(result, link)
	}
	return result, rows.Err()
}

// encodeNullableJSON returns nil for an empty map so the column stays NULL.
func encodeNullableJSON(data map[string]any) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func orEmptyMap(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return data
}
