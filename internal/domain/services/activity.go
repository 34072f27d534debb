package services

import (
	"context"
	"fmt"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/ports"
)

// defaultActivityLimit bounds activity fetches when the caller passes no limit.
const defaultActivityLimit = 50

// ActivityService manages the append-only per-entity audit trail. There is no
// edit or standalone delete API; rows are removed only by the record delete
// cascade.
type ActivityService struct {
	store ports.Store
}

// NewActivityService creates a new ActivityService.
func NewActivityService(store ports.Store) *ActivityService {
	return &ActivityService{store: store}
}

// Log appends one entry with a JSON payload snapshot and a server timestamp.
func (s *ActivityService) Log(ctx context.Context, entityType, entityID, action, actor string, payload map[string]any) error {
	return appendActivity(ctx, s.store, entityType, entityID, action, actor, payload)
}

// Fetch returns an entity's activity, newest first.
func (s *ActivityService) Fetch(ctx context.Context, entityType, entityID string, limit int) ([]entities.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.store.FindActivity(ctx, entityType, entityID, limit)
}

// appendActivity is the transaction-friendly form used inside record mutations.
func appendActivity(ctx context.Context, q ports.Querier, entityType, entityID, action, actor string, payload map[string]any) error {
	if payload == nil {
		payload = map[string]any{}
	}
	entry := &entities.ActivityEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      actor,
		Payload:    payload,
	}
	if err := q.AppendActivity(ctx, entry); err != nil {
		return fmt.Errorf("appending activity: %w", err)
	}
	return nil
}
