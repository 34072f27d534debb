package entities

import "time"

// ActivityEntry is one row of the append-only per-entity audit trail.
// Entries are never edited; they disappear only when the owning record's
// cascading delete removes them.
type ActivityEntry struct {
	ID         int64          `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
