package handlers

import (
	"context"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/services"
)

// HandleHandler handles directory operations over the handle registry.
type HandleHandler struct {
	handleService *services.HandleService
}

// NewHandleHandler creates a new HandleHandler.
func NewHandleHandler(handleService *services.HandleService) *HandleHandler {
	return &HandleHandler{
		handleService: handleService,
	}
}

// HandleList returns directory entries, optionally filtered by entity types
// and a search substring.
func (h *HandleHandler) HandleList(ctx context.Context, entityTypes []string, search string) ([]entities.HandleEntry, error) {
	return h.handleService.List(ctx, entityTypes, search)
}

// HandleResolve batch-resolves handle strings to their owners.
func (h *HandleHandler) HandleResolve(ctx context.Context, handles []string) (map[string]entities.Handle, error) {
	return h.handleService.Resolve(ctx, handles)
}

// HandleGenerate allocates a unique handle slug from preferred text.
func (h *HandleHandler) HandleGenerate(ctx context.Context, preferred string) (string, error) {
	return h.handleService.GenerateUnique(ctx, preferred)
}
