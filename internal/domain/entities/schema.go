// Package entities contains core domain data structures.
package entities

import (
	"strings"
	"unicode"
)

// StorageMode selects where a record type's canonical data lives.
type StorageMode string

const (
	// StorageRecords keeps rows in the generic records table.
	StorageRecords StorageMode = "records"
	// StorageExternal marks types whose canonical data lives elsewhere
	// (e.g. the contacts table) but which still participate in the
	// handle and mention graph.
	StorageExternal StorageMode = "external"
)

// RecordSchema describes a polymorphic record type. Fields keep their
// declaration order; lookups go through Field.
type RecordSchema struct {
	EntityType    string
	Fields        []FieldDefinition
	HandleField   string
	DisplayField  string
	MentionFields []string
	Description   string
	Storage       StorageMode
	Metadata      map[string]any
	Persist       bool
}

// Field returns the definition with the given name, or nil.
func (s *RecordSchema) Field(name string) *FieldDefinition {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// isEmpty mirrors the "absent or empty" test used throughout validation:
// only nil and the empty string count as empty.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// Validate normalizes a payload against the schema. Every declared field is
// checked and every failure is collected before returning, so a caller can
// surface all problems at once. Empty optional fields without defaults are
// omitted from the result rather than set to a zero value.
func (s *RecordSchema) Validate(payload map[string]any) (map[string]any, error) {
	errs := make(map[string]string)
	normalized := make(map[string]any, len(s.Fields))

	for _, def := range s.Fields {
		incoming := payload[def.Name]
		if isEmpty(incoming) {
			if def.Required && !def.HasDefault() {
				errs[def.Name] = "Field is required"
				continue
			}
			if def.HasDefault() {
				value, err := def.Clean(def.DefaultValue())
				if err != nil {
					errs[def.Name] = err.Error()
					continue
				}
				normalized[def.Name] = value
			}
			continue
		}
		value, err := def.Clean(incoming)
		if err != nil {
			errs[def.Name] = err.Error()
			continue
		}
		normalized[def.Name] = value
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	// Overlay pass: payload keys that name a schema field but were skipped
	// above are coerced and merged, supporting partial-update payloads that
	// carry already-valid incidental fields.
	for name, value := range payload {
		if _, done := normalized[name]; done {
			continue
		}
		def := s.Field(name)
		if def == nil || isEmpty(value) {
			continue
		}
		cleaned, err := def.Clean(value)
		if err != nil {
			errs[name] = err.Error()
			continue
		}
		normalized[name] = cleaned
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return normalized, nil
}

// ResolveDisplayValue picks a human-readable label for a record.
func (s *RecordSchema) ResolveDisplayValue(data map[string]any) string {
	if s.DisplayField != "" && !isEmpty(data[s.DisplayField]) {
		return stringify(data[s.DisplayField])
	}
	if s.HandleField != "" && !isEmpty(data[s.HandleField]) {
		return stringify(data[s.HandleField])
	}
	for _, candidate := range []string{"title", "name", "contactName", "companyName"} {
		if !isEmpty(data[candidate]) {
			return stringify(data[candidate])
		}
	}
	return titleCase(s.EntityType)
}

// BuildSearchBlob concatenates every string-valued field plus the handle
// itself into a lowercase blob for directory substring search.
func (s *RecordSchema) BuildSearchBlob(data map[string]any) string {
	pieces := make([]string, 0, len(s.Fields)+1)
	for _, def := range s.Fields {
		if value, ok := data[def.Name].(string); ok && strings.TrimSpace(value) != "" {
			pieces = append(pieces, strings.TrimSpace(value))
		}
	}
	if s.HandleField != "" && !isEmpty(data[s.HandleField]) {
		pieces = append(pieces, stringify(data[s.HandleField]))
	}
	return strings.ToLower(strings.Join(pieces, " "))
}

// MentionFieldNames returns the fields whose text is scanned for mentions:
// the explicit list when present, otherwise every field flagged Mention.
func (s *RecordSchema) MentionFieldNames() []string {
	if len(s.MentionFields) > 0 {
		return append([]string(nil), s.MentionFields...)
	}
	var names []string
	for _, def := range s.Fields {
		if def.Mention {
			names = append(names, def.Name)
		}
	}
	return names
}

func titleCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
