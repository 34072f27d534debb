package entities

import "time"

// Handle names one record with a short, globally unique, lowercase slug.
// A handle string maps to exactly one (entityType, entityID), and an entity
// owns at most one handle at a time.
type Handle struct {
	Handle      string         `json:"handle"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	DisplayName string         `json:"display_name"`
	SearchBlob  string         `json:"search_blob,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// HandleEntry is a directory listing row: the handle plus contact details
// when the owner is a contact.
type HandleEntry struct {
	Handle
	Contact *ContactCard `json:"contact,omitempty"`
}
