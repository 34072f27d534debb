package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/ports"
)

// contactNotesContextType keys mentions found in a contact's profile notes.
const contactNotesContextType = "contact_profile_note"

// ContactService manages externally-shaped contact rows. Contacts live in
// their own table rather than the generic record store, but they share the
// handle directory and the mention graph with every other entity type.
type ContactService struct {
	store   ports.Store
	handles *HandleService
}

// NewContactService creates a new ContactService.
func NewContactService(store ports.Store, handles *HandleService) *ContactService {
	return &ContactService{
		store:   store,
		handles: handles,
	}
}

// Create persists a new contact. A missing ID is generated and a missing
// handle is derived from the contact or company name and made unique.
func (s *ContactService) Create(ctx context.Context, contact *entities.Contact) (*entities.Contact, error) {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	if err := s.ensureHandle(ctx, contact); err != nil {
		return nil, err
	}
	if err := s.save(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Update overwrites an existing contact. The stored handle is kept when the
// incoming contact carries none.
func (s *ContactService) Update(ctx context.Context, contact *entities.Contact) (*entities.Contact, error) {
	if contact.ID == "" {
		return nil, fmt.Errorf("contact id is required")
	}
	current, err := s.store.FindContact(ctx, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("loading contact: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("contact %s: %w", contact.ID, entities.ErrNotFound)
	}
	if contact.Handle == "" {
		contact.Handle = current.Handle
	}
	if err := s.ensureHandle(ctx, contact); err != nil {
		return nil, err
	}
	if err := s.save(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Get returns one contact, or nil when absent.
func (s *ContactService) Get(ctx context.Context, id string) (*entities.Contact, error) {
	return s.store.FindContact(ctx, id)
}

// List returns all contacts.
func (s *ContactService) List(ctx context.Context) ([]entities.Contact, error) {
	return s.store.ListContacts(ctx)
}

// RefreshOrderLinks rebuilds an order's derived contact links from the
// mentions recorded under the order's note and log entries. Contacts other
// than the primary one become "secondary" links; the previous link set is
// replaced wholesale.
func (s *ContactService) RefreshOrderLinks(ctx context.Context, orderID, primaryContactID string) error {
	ids, err := s.store.FindMentionedContactIDs(ctx, orderID)
	if err != nil {
		return fmt.Errorf("finding mentioned contacts: %w", err)
	}
	links := make([]entities.OrderContactLink, 0, len(ids))
	for _, id := range ids {
		if id == primaryContactID {
			continue
		}
		links = append(links, entities.OrderContactLink{
			OrderID:      orderID,
			ContactID:    id,
			Relationship: "secondary",
		})
	}
	if err := s.store.ReplaceOrderContactLinks(ctx, orderID, links); err != nil {
		return fmt.Errorf("replacing order contact links: %w", err)
	}
	return nil
}

// ensureHandle fills an empty handle from the contact's display name, probing
// the directory for a unique slug.
func (s *ContactService) ensureHandle(ctx context.Context, contact *entities.Contact) error {
	if contact.Handle != "" {
		contact.Handle = strings.ToLower(contact.Handle)
		return nil
	}
	preferred := contact.ContactName
	if preferred == "" {
		preferred = contact.CompanyName
	}
	if preferred == "" {
		preferred = "contact"
	}
	handle, err := s.handles.GenerateUnique(ctx, preferred)
	if err != nil {
		return fmt.Errorf("generating contact handle: %w", err)
	}
	contact.Handle = handle
	return nil
}

// save writes the contact row, its directory handle and its notes mentions in
// one transaction.
func (s *ContactService) save(ctx context.Context, contact *entities.Contact) error {
	return s.store.InTransaction(ctx, func(q ports.Querier) error {
		if err := q.UpsertContact(ctx, contact); err != nil {
			return fmt.Errorf("saving contact: %w", err)
		}
		if err := registerHandle(ctx, q, "contact", contact.ID, contact.Handle, contact.DisplayName(), contactSearchBlob(contact), nil); err != nil {
			return err
		}
		return SyncMentions(ctx, q, ExtractMentions(contact.Notes), contactNotesContextType, contact.ID, contact.Notes)
	})
}

func contactSearchBlob(contact *entities.Contact) string {
	parts := []string{contact.ContactName, contact.CompanyName, contact.Email, contact.Handle}
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}
