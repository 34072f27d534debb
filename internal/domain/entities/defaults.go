package entities

// BuiltinSchemas returns the record schemas seeded at bootstrap. The contact
// schema is externally managed (canonical data lives in the contacts table)
// and is never persisted to record_schemas; the rest are regular persisted
// record types.
func BuiltinSchemas() []*RecordSchema {
	return []*RecordSchema{
		contactSchema(),
		noteSchema(),
		calendarEventSchema(),
		reminderSchema(),
	}
}

func contactSchema() *RecordSchema {
	return &RecordSchema{
		EntityType: "contact",
		Fields: []FieldDefinition{
			{Name: "id", Kind: KindString, Required: true},
			{Name: "contactName", Kind: KindString},
			{Name: "companyName", Kind: KindString},
			{Name: "email", Kind: KindString},
			{Name: "phone", Kind: KindString},
			{Name: "handle", Kind: KindString, Required: true},
			{Name: "notes", Kind: KindText, Mention: true},
		},
		HandleField:  "handle",
		DisplayField: "contactName",
		Description:  "Core CRM contacts stored in the dedicated contacts table.",
		Storage:      StorageExternal,
		Metadata:     map[string]any{"list_endpoint": "/api/contacts"},
		Persist:      false,
	}
}

func noteSchema() *RecordSchema {
	return &RecordSchema{
		EntityType: "note",
		Fields: []FieldDefinition{
			{Name: "title", Kind: KindString, Required: true},
			{Name: "body", Kind: KindText, Required: true, Mention: true},
			{Name: "handle", Kind: KindString, Required: true},
			{Name: "author", Kind: KindString},
		},
		HandleField:  "handle",
		DisplayField: "title",
		Description:  "General purpose notes that support @mentions out of the box.",
		Storage:      StorageRecords,
		Metadata:     map[string]any{"example": true},
		Persist:      true,
	}
}

func calendarEventSchema() *RecordSchema {
	return &RecordSchema{
		EntityType: "calendar_event",
		Fields: []FieldDefinition{
			{Name: "title", Kind: KindString, Required: true},
			{Name: "handle", Kind: KindString, Required: true},
			{Name: "start_at", Kind: KindString, Required: true},
			{Name: "end_at", Kind: KindString},
			{Name: "all_day", Kind: KindBoolean, Default: false},
			{Name: "location", Kind: KindString},
			{Name: "notes", Kind: KindText, Mention: true},
			{Name: "timezone", Kind: KindString, Default: "UTC"},
		},
		HandleField:  "handle",
		DisplayField: "title",
		Description:  "Calendar events with scheduling metadata and mention-enabled notes.",
		Storage:      StorageRecords,
		Persist:      true,
	}
}

func reminderSchema() *RecordSchema {
	return &RecordSchema{
		EntityType: "reminder",
		Fields: []FieldDefinition{
			{Name: "title", Kind: KindString, Required: true},
			{Name: "handle", Kind: KindString, Required: true},
			{Name: "notes", Kind: KindText, Mention: true},
			{Name: "kind", Kind: KindString, Default: "reminder"},
			{Name: "due_at", Kind: KindString},
			{Name: "due_has_time", Kind: KindBoolean, Default: false},
			{Name: "remind_at", Kind: KindString},
			{Name: "timer_seconds", Kind: KindInteger},
			{Name: "timezone", Kind: KindString, Default: "UTC"},
			{Name: "completed", Kind: KindBoolean, Default: false},
			{Name: "completed_at", Kind: KindString},
			{Name: "persistent", Kind: KindBoolean, Default: false},
			{Name: "last_notified_at", Kind: KindString},
			{Name: "context_note_id", Kind: KindString},
		},
		HandleField:  "handle",
		DisplayField: "title",
		Description:  "Operational reminders with optional due dates and mention-enabled notes.",
		Storage:      StorageRecords,
		Persist:      true,
	}
}
