package parsers

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/firecoast/recordstore/internal/domain/entities"
)

// YAMLParser parses schema documents from YAML. The input may be a single
// document mapping or a sequence of documents.
type YAMLParser struct{}

// Parse reads YAML from the reader and returns the parsed documents. The YAML
// is decoded generically and re-encoded as JSON so the document field names
// match the JSON wire format.
func (p *YAMLParser) Parse(r io.Reader) ([]entities.SchemaDocument, error) {
	var raw any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting YAML: %w", err)
	}

	if seq, ok := raw.([]any); ok {
		docs := make([]entities.SchemaDocument, 0, len(seq))
		if err := json.Unmarshal(encoded, &docs); err != nil {
			return nil, fmt.Errorf("decoding documents: %w", err)
		}
		return docs, nil
	}

	var doc entities.SchemaDocument
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return []entities.SchemaDocument{doc}, nil
}
