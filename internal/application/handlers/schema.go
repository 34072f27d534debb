package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/firecoast/recordstore/internal/domain/entities"
	"github.com/firecoast/recordstore/internal/domain/services"
	"github.com/firecoast/recordstore/internal/infrastructure/parsers"
)

// SchemaHandler handles schema registration and inspection.
type SchemaHandler struct {
	recordService *services.RecordService
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(recordService *services.RecordService) *SchemaHandler {
	return &SchemaHandler{
		recordService: recordService,
	}
}

// SchemaImportResult contains the outcome of a schema import.
type SchemaImportResult struct {
	Registered []string `json:"registered"`
}

// HandleList returns every registered schema, ordered by entity type.
func (h *SchemaHandler) HandleList(ctx context.Context) []*entities.RecordSchema {
	return h.recordService.Registry().All()
}

// HandleDescribe returns one schema by entity type.
func (h *SchemaHandler) HandleDescribe(ctx context.Context, entityType string) (*entities.RecordSchema, error) {
	return h.recordService.Registry().Get(entityType)
}

// HandleRegister registers a single schema.
func (h *SchemaHandler) HandleRegister(ctx context.Context, schema *entities.RecordSchema) error {
	return h.recordService.RegisterSchema(ctx, schema)
}

// HandleImport parses schema documents from the reader and registers each.
func (h *SchemaHandler) HandleImport(ctx context.Context, r io.Reader, format string) (*SchemaImportResult, error) {
	parser := parsers.ForFormat(format)
	if parser == nil {
		return nil, fmt.Errorf("unsupported schema format: %s", format)
	}
	docs, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &SchemaImportResult{}
	for _, doc := range docs {
		if doc.EntityType == "" {
			return nil, fmt.Errorf("schema document missing entity_type")
		}
		schema := entities.SchemaFromDocument(doc)
		if err := h.recordService.RegisterSchema(ctx, schema); err != nil {
			return nil, err
		}
		result.Registered = append(result.Registered, schema.EntityType)
	}
	return result, nil
}
