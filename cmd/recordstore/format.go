package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

// truncate shortens a string for tabular display.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// formatForFile maps a file extension to a schema input format.
func formatForFile(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// printJSON writes a value as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// describeError expands a validation error into per-field lines; other
// errors pass through unchanged.
func describeError(err error) error {
	verr, ok := entities.IsValidationError(err)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(verr.Fields))
	for name := range verr.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed:")
	for _, name := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", name, verr.Fields[name])
	}
	return fmt.Errorf("%s", b.String())
}
