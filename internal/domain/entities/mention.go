package entities

import "time"

// Mention is a directed edge from a context record to a mentioned handle,
// discovered by scanning the context's mention-tagged text fields. For a
// fixed context key the stored set always equals the handles extractable
// from the context's current text; sync is a full replace, never incremental.
type Mention struct {
	ID                  int64     `json:"id"`
	MentionedHandle     string    `json:"mentioned_handle"`
	MentionedEntityType string    `json:"mentioned_entity_type"`
	MentionedEntityID   string    `json:"mentioned_entity_id"`
	ContextEntityType   string    `json:"context_entity_type"`
	ContextEntityID     string    `json:"context_entity_id"`
	Snippet             string    `json:"snippet,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}
