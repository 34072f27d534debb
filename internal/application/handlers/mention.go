package handlers

import (
	"context"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/services"
)

// MentionHandler handles mention graph reads.
type MentionHandler struct {
	mentionService *services.MentionService
}

// NewMentionHandler creates a new MentionHandler.
func NewMentionHandler(mentionService *services.MentionService) *MentionHandler {
	return &MentionHandler{
		mentionService: mentionService,
	}
}

// HandleListByContext returns mentions recorded under a context entity.
func (h *MentionHandler) HandleListByContext(ctx context.Context, contextType, contextID string) ([]entities.Mention, error) {
	return h.mentionService.ByContext(ctx, contextType, contextID)
}

// HandleListByTarget returns mentions pointing at an entity.
func (h *MentionHandler) HandleListByTarget(ctx context.Context, entityType, entityID string) ([]entities.Mention, error) {
	return h.mentionService.ByTarget(ctx, entityType, entityID)
}
