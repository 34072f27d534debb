package entities

import "time"

// Record is one stored row of a schema-governed record type. Data holds the
// normalized payload as produced by RecordSchema.Validate; the storage layer
// serializes it as JSON and enforces nothing about its shape.
type Record struct {
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
