package entities

// SchemaDocument is the JSON persistence shape for a record schema: one
// document per entity type, stored in the record_schemas table and exchanged
// with collaborators.
type SchemaDocument struct {
	EntityType    string          `json:"entity_type"`
	Fields        []FieldDocument `json:"fields"`
	HandleField   string          `json:"handle_field,omitempty"`
	DisplayField  string          `json:"display_field,omitempty"`
	MentionFields []string        `json:"mention_fields,omitempty"`
	Description   string          `json:"description,omitempty"`
	Storage       string          `json:"storage,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Persist       *bool           `json:"persist,omitempty"`
}

// FieldDocument is the JSON persistence shape for one field definition.
// Lazy defaults are not representable and round-trip as null.
type FieldDocument struct {
	Name        string `json:"name"`
	FieldType   string `json:"field_type,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
	Mention     bool   `json:"mention,omitempty"`
	Description string `json:"description,omitempty"`
	Choices     []any  `json:"choices,omitempty"`
}

// ToDocument converts the schema into its JSON persistence shape.
func (s *RecordSchema) ToDocument() SchemaDocument {
	fields := make([]FieldDocument, 0, len(s.Fields))
	for _, def := range s.Fields {
		fields = append(fields, FieldDocument{
			Name:        def.Name,
			FieldType:   string(def.Kind),
			Required:    def.Required,
			Default:     def.Default,
			Mention:     def.Mention,
			Description: def.Description,
			Choices:     def.Choices,
		})
	}
	persist := s.Persist
	return SchemaDocument{
		EntityType:    s.EntityType,
		Fields:        fields,
		HandleField:   s.HandleField,
		DisplayField:  s.DisplayField,
		MentionFields: s.MentionFields,
		Description:   s.Description,
		Storage:       string(s.Storage),
		Metadata:      s.Metadata,
		Persist:       &persist,
	}
}

// SchemaFromDocument builds a RecordSchema from its persistence shape,
// applying the documented defaults: field type "string", storage "records",
// persist true, and mention fields derived from field flags when absent.
func SchemaFromDocument(doc SchemaDocument) *RecordSchema {
	fields := make([]FieldDefinition, 0, len(doc.Fields))
	for _, fd := range doc.Fields {
		kind := FieldKind(fd.FieldType)
		if kind == "" {
			kind = KindString
		}
		fields = append(fields, FieldDefinition{
			Name:        fd.Name,
			Kind:        kind,
			Required:    fd.Required,
			Default:     fd.Default,
			Mention:     fd.Mention,
			Description: fd.Description,
			Choices:     fd.Choices,
		})
	}

	storage := StorageMode(doc.Storage)
	if storage == "" {
		storage = StorageRecords
	}
	persist := true
	if doc.Persist != nil {
		persist = *doc.Persist
	}

	schema := &RecordSchema{
		EntityType:    doc.EntityType,
		Fields:        fields,
		HandleField:   doc.HandleField,
		DisplayField:  doc.DisplayField,
		MentionFields: doc.MentionFields,
		Description:   doc.Description,
		Storage:       storage,
		Metadata:      doc.Metadata,
		Persist:       persist,
	}
	if len(schema.MentionFields) == 0 {
		schema.MentionFields = schema.MentionFieldNames()
	}
	return schema
}
