package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/ports"
)

// handleSanitizeRegex collapses every run of non-alphanumerics while slugifying.
var handleSanitizeRegex = regexp.MustCompile(`[^a-z0-9]+`)

// maxHandleLength caps generated handle slugs.
const maxHandleLength = 32

// HandleService is the global naming directory shared by all entity types.
// A handle string maps to exactly one owner; registering an existing handle
// string reassigns it to the new owner. Last write wins, the registry never
// renames either side.
type HandleService struct {
	store ports.Store

	// allocMu serializes unique-handle allocation so two requests probing
	// the same preferred text cannot both claim the same slug.
	allocMu sync.Mutex
}

// NewHandleService creates a new HandleService.
func NewHandleService(store ports.Store) *HandleService {
	return &HandleService{store: store}
}

// Register installs a handle for an entity in its own transaction. Mutation
// paths that already run inside a transaction use registerHandle directly.
func (s *HandleService) Register(ctx context.Context, entityType, entityID, handle, displayName, searchBlob string, metadata map[string]any) error {
	return s.store.InTransaction(ctx, func(q ports.Querier) error {
		return registerHandle(ctx, q, entityType, entityID, handle, displayName, searchBlob, metadata)
	})
}

// registerHandle lowercases the handle, removes any handle currently owned by
// the entity (at most one handle per entity), then upserts by handle string.
func registerHandle(ctx context.Context, q ports.Querier, entityType, entityID, handle, displayName, searchBlob string, metadata map[string]any) error {
	if handle == "" {
		return nil
	}
	display := strings.TrimSpace(displayName)
	if display == "" {
		display = strings.TrimSpace(handle)
	}
	search := strings.ToLower(searchBlob)
	if search == "" {
		search = strings.ToLower(display)
	}

	if err := q.DeleteHandleByOwner(ctx, entityType, entityID); err != nil {
		return fmt.Errorf("removing previous handle: %w", err)
	}
	h := &entities.Handle{
		Handle:      strings.ToLower(handle),
		EntityType:  entityType,
		EntityID:    entityID,
		DisplayName: display,
		SearchBlob:  search,
		Metadata:    metadata,
	}
	if err := q.UpsertHandle(ctx, h); err != nil {
		return fmt.Errorf("registering handle %q: %w", h.Handle, err)
	}
	return nil
}

// SlugifyHandle reduces free text to a handle base: lowercase, runs of
// non-alphanumerics collapsed and then removed, capped length, with a
// fallback base when nothing survives.
func SlugifyHandle(text string) string {
	base := handleSanitizeRegex.ReplaceAllString(strings.ToLower(text), "-")
	base = strings.ReplaceAll(strings.Trim(base, "-"), "-", "")
	if base == "" {
		return "record"
	}
	if len(base) > maxHandleLength {
		base = base[:maxHandleLength]
	}
	return base
}

// GenerateUnique slugifies the preferred text and probes base, base1, base2…
// until an unclaimed handle is found. Allocation is serialized behind a
// per-process lock; both the handle directory and the contacts table are
// probed so legacy contact handles cannot be shadowed.
func (s *HandleService) GenerateUnique(ctx context.Context, preferred string) (string, error) {
	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	base := SlugifyHandle(preferred)
	candidate := base
	for suffix := 1; ; suffix++ {
		taken, err := s.store.HandleExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probing handle %q: %w", candidate, err)
		}
		if !taken {
			taken, err = s.store.ContactHandleExists(ctx, candidate)
			if err != nil {
				return "", fmt.Errorf("probing contact handle %q: %w", candidate, err)
			}
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(suffix)
	}
}

// Resolve batch-resolves handle strings to their owners. Handles with no
// owner are omitted.
func (s *HandleService) Resolve(ctx context.Context, handles []string) (map[string]entities.Handle, error) {
	if len(handles) == 0 {
		return map[string]entities.Handle{}, nil
	}
	lowered := make([]string, len(handles))
	for i, handle := range handles {
		lowered[i] = strings.ToLower(handle)
	}
	return s.store.ResolveHandles(ctx, lowered)
}

// List returns directory entries for UI autocomplete, optionally filtered by
// entity types and a case-insensitive search substring. Entries owned by
// contacts carry a contact summary loaded from the contacts table.
func (s *HandleService) List(ctx context.Context, entityTypes []string, search string) ([]entities.HandleEntry, error) {
	handles, err := s.store.ListHandles(ctx, entityTypes, strings.ToLower(search))
	if err != nil {
		return nil, fmt.Errorf("listing handles: %w", err)
	}

	var contactIDs []string
	for i := range handles {
		if strings.EqualFold(handles[i].EntityType, "contact") && handles[i].EntityID != "" {
			contactIDs = append(contactIDs, handles[i].EntityID)
		}
	}
	var contacts map[string]entities.Contact
	if len(contactIDs) > 0 {
		contacts, err = s.store.FindContactsByIDs(ctx, contactIDs)
		if err != nil {
			return nil, fmt.Errorf("loading contact details: %w", err)
		}
	}

	entries := make([]entities.HandleEntry, 0, len(handles))
	for i := range handles {
		entry := entities.HandleEntry{Handle: handles[i]}
		if strings.EqualFold(handles[i].EntityType, "contact") {
			if c, ok := contacts[handles[i].EntityID]; ok {
				entry.Contact = &entities.ContactCard{
					CompanyName: c.CompanyName,
					ContactName: c.ContactName,
					Email:       c.Email,
					Phone:       c.Phone,
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
