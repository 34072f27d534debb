package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/ports"
)

// mentionTokenRegex matches an @handle token. The whitespace boundary in
// front of the "@" cannot be expressed in RE2 (no lookbehind), so
// ExtractMentions checks the preceding rune itself.
var mentionTokenRegex = regexp.MustCompile(`@[A-Za-z0-9_.-]+`)

// maxSnippetRunes caps the snippet stored with a mention.
const maxSnippetRunes = 500

// MentionService exposes reads over the mention graph. Writes go through
// SyncMentions inside the mutation transactions of the owning services.
type MentionService struct {
	store ports.Store
}

// NewMentionService creates a new MentionService.
func NewMentionService(store ports.Store) *MentionService {
	return &MentionService{store: store}
}

// ByContext returns the mentions recorded under a context entity.
func (s *MentionService) ByContext(ctx context.Context, contextType, contextID string) ([]entities.Mention, error) {
	return s.store.FindMentionsByContext(ctx, contextType, contextID)
}

// ByTarget returns the mentions pointing at an entity.
func (s *MentionService) ByTarget(ctx context.Context, entityType, entityID string) ([]entities.Mention, error) {
	return s.store.FindMentionsByTarget(ctx, entityType, entityID)
}

// ExtractMentions scans free text for @handle tokens and returns the
// lowercased handles in first-occurrence order, without duplicates. A token
// whose "@" is preceded by a non-whitespace character is rejected, which
// keeps the local part of an email address from reading as a mention.
func ExtractMentions(text string) []string {
	if text == "" {
		return nil
	}
	var handles []string
	seen := make(map[string]bool)
	for _, loc := range mentionTokenRegex.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
			if !unicode.IsSpace(prev) {
				continue
			}
		}
		handle := strings.ToLower(text[loc[0]+1 : loc[1]])
		if !seen[handle] {
			seen[handle] = true
			handles = append(handles, handle)
		}
	}
	return handles
}

// SyncMentions replaces the stored mention set for a context key with the
// given handles. Deletion always happens first so an empty handle set clears
// stale mentions. Handles that resolve to no owner are silently dropped;
// dangling mentions are never stored.
func SyncMentions(ctx context.Context, q ports.Querier, handles []string, contextType, contextID, snippet string) error {
	if err := q.DeleteMentionsByContext(ctx, contextType, contextID); err != nil {
		return fmt.Errorf("clearing mentions: %w", err)
	}
	if len(handles) == 0 {
		return nil
	}

	lowered := make([]string, 0, len(handles))
	seen := make(map[string]bool, len(handles))
	for _, handle := range handles {
		handle = strings.ToLower(handle)
		if !seen[handle] {
			seen[handle] = true
			lowered = append(lowered, handle)
		}
	}
	resolved, err := q.ResolveHandles(ctx, lowered)
	if err != nil {
		return fmt.Errorf("resolving handles: %w", err)
	}

	snippetText := truncateSnippet(snippet)
	for _, handle := range lowered {
		owner, ok := resolved[handle]
		if !ok {
			continue
		}
		mention := &entities.Mention{
			MentionedHandle:     owner.Handle,
			MentionedEntityType: owner.EntityType,
			MentionedEntityID:   owner.EntityID,
			ContextEntityType:   contextType,
			ContextEntityID:     contextID,
			Snippet:             snippetText,
		}
		if err := q.InsertMention(ctx, mention); err != nil {
			return fmt.Errorf("inserting mention: %w", err)
		}
	}
	return nil
}

// truncateSnippet trims and caps snippet text, appending an ellipsis when cut.
func truncateSnippet(snippet string) string {
	text := strings.TrimSpace(snippet)
	runes := []rune(text)
	if len(runes) <= maxSnippetRunes {
		return text
	}
	return string(runes[:maxSnippetRunes-3]) + "..."
}
