package handlers

import (
	"context"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/services"
)

// ContactHandler handles contact operations at the application layer.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// HandleCreate persists a new contact, generating ID and handle as needed.
func (h *ContactHandler) HandleCreate(ctx context.Context, contact *entities.Contact) (*entities.Contact, error) {
	return h.contactService.Create(ctx, contact)
}

// HandleUpdate overwrites an existing contact.
func (h *ContactHandler) HandleUpdate(ctx context.Context, contact *entities.Contact) (*entities.Contact, error) {
	return h.contactService.Update(ctx, contact)
}

// HandleGet returns one contact, or nil when absent.
func (h *ContactHandler) HandleGet(ctx context.Context, id string) (*entities.Contact, error) {
	return h.contactService.Get(ctx, id)
}

// HandleList returns all contacts.
func (h *ContactHandler) HandleList(ctx context.Context) ([]entities.Contact, error) {
	return h.contactService.List(ctx)
}

// HandleRefreshOrderLinks rebuilds an order's derived contact links from its
// note and log mentions.
func (h *ContactHandler) HandleRefreshOrderLinks(ctx context.Context, orderID, primaryContactID string) error {
	return h.contactService.RefreshOrderLinks(ctx, orderID, primaryContactID)
}
