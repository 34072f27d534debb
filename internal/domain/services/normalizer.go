package services

import "time"

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// NormalizerFunc adjusts a validated payload in place before it is
// persisted. Normalizers run after schema validation, so they see coerced
// values and may rely on field defaults being present.
type NormalizerFunc func(data map[string]any)

// builtinNormalizers maps entity types to their payload normalizers. The
// table is registered during Bootstrap alongside the builtin schemas.
func builtinNormalizers() map[string]NormalizerFunc {
	return map[string]NormalizerFunc{
		"reminder": normalizeReminder,
	}
}

// normalizeReminder manages the completion timestamp. Completing a reminder
// without an explicit completed_at stamps the current UTC time; reopening it
// clears the stamp.
func normalizeReminder(data map[string]any) {
	completed, _ := data["completed"].(bool)
	if !completed {
		delete(data, "completed_at")
		return
	}
	if existing, ok := data["completed_at"].(string); ok && existing != "" {
		return
	}
	data["completed_at"] = timeNow().UTC().Format(time.RFC3339)
}
