package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

// RegistryService is the in-memory registry of record schemas, keyed by
// entity type. It is constructed explicitly in the composition root and
// passed by reference; there is no process-wide instance.
type RegistryService struct {
	mu          sync.RWMutex
	schemas     map[string]*entities.RecordSchema
	normalizers map[string]NormalizerFunc
}

// NewRegistryService creates an empty schema registry.
func NewRegistryService() *RegistryService {
	return &RegistryService{
		schemas:     make(map[string]*entities.RecordSchema),
		normalizers: make(map[string]NormalizerFunc),
	}
}

// Register upserts a schema by entity type.
func (s *RegistryService) Register(schema *entities.RecordSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[schema.EntityType] = schema
}

// Get returns the schema for an entity type.
func (s *RegistryService) Get(entityType string) (*entities.RecordSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schema, ok := s.schemas[entityType]
	if !ok {
		return nil, fmt.Errorf("unknown record type %q: %w", entityType, entities.ErrNotFound)
	}
	return schema, nil
}

// RegisterNormalizer installs a payload normalizer for an entity type. Types
// with no entry get no extra normalization beyond schema validation.
func (s *RegistryService) RegisterNormalizer(entityType string, fn NormalizerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.normalizers[entityType] = fn
}

// Normalizer returns the payload normalizer for an entity type, or nil.
func (s *RegistryService) Normalizer(entityType string) NormalizerFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.normalizers[entityType]
}

// Has reports whether an entity type is registered.
func (s *RegistryService) Has(entityType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.schemas[entityType]
	return ok
}

// All returns every registered schema, ordered by entity type.
func (s *RegistryService) All() []*entities.RecordSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*entities.RecordSchema, 0, len(s.schemas))
	for _, schema := range s.schemas {
		result = append(result, schema)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EntityType < result[j].EntityType
	})
	return result
}

// Clear removes all registered schemas so they can be reloaded from storage.
func (s *RegistryService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas = make(map[string]*entities.RecordSchema)
}
