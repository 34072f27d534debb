package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

// JSONParser parses schema documents from JSON. The input may be a single
// document object or an array of documents.
type JSONParser struct{}

// Parse reads JSON from the reader and returns the parsed documents.
func (p *JSONParser) Parse(r io.Reader) ([]entities.SchemaDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []entities.SchemaDocument
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return docs, nil
	}

	var doc entities.SchemaDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return []entities.SchemaDocument{doc}, nil
}
