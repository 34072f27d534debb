// Package handlers contains application-layer façades over the domain
// services, one handler per command surface.
package handlers

import (
	"context"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/services"
)

// RecordHandler handles record CRUD at the application layer.
type RecordHandler struct {
	recordService *services.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService *services.RecordService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
	}
}

// HandleCreate validates and persists a new record.
func (h *RecordHandler) HandleCreate(ctx context.Context, entityType string, payload map[string]any, actor string) (*services.RecordView, error) {
	return h.recordService.Create(ctx, entityType, payload, actor)
}

// HandleUpdate applies a partial payload to an existing record.
func (h *RecordHandler) HandleUpdate(ctx context.Context, entityType, entityID string, payload map[string]any, actor string) (*services.RecordView, error) {
	return h.recordService.Update(ctx, entityType, entityID, payload, actor)
}

// HandleGet returns one record, or nil when absent.
func (h *RecordHandler) HandleGet(ctx context.Context, entityType, entityID string) (*entities.Record, error) {
	return h.recordService.Get(ctx, entityType, entityID)
}

// HandleList returns all records of a type, newest-touched first.
func (h *RecordHandler) HandleList(ctx context.Context, entityType string) ([]entities.Record, error) {
	return h.recordService.List(ctx, entityType)
}

// HandleDelete removes a record and its handle, mentions and activity.
func (h *RecordHandler) HandleDelete(ctx context.Context, entityType, entityID string) error {
	return h.recordService.Delete(ctx, entityType, entityID)
}
