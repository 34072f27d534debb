package handlers

import (
	"context"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/services"
)

// ActivityHandler handles audit trail reads and manual log entries.
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// HandleFetch returns an entity's activity, newest first. A non-positive
// limit falls back to the service default.
func (h *ActivityHandler) HandleFetch(ctx context.Context, entityType, entityID string, limit int) ([]entities.ActivityEntry, error) {
	return h.activityService.Fetch(ctx, entityType, entityID, limit)
}

// HandleLog appends one manual audit entry.
func (h *ActivityHandler) HandleLog(ctx context.Context, entityType, entityID, action, actor string, payload map[string]any) error {
	return h.activityService.Log(ctx, entityType, entityID, action, actor, payload)
}
