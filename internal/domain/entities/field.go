package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldKind is the closed set of value types a schema field can declare.
type FieldKind string

const (
	KindString  FieldKind = "string"
	KindText    FieldKind = "text"
	KindInteger FieldKind = "integer"
	KindNumber  FieldKind = "number"
	KindBoolean FieldKind = "boolean"
	KindJSON    FieldKind = "json"
)

// validFieldKinds is the set of recognized field kinds.
var validFieldKinds = map[FieldKind]bool{
	KindString:  true,
	KindText:    true,
	KindInteger: true,
	KindNumber:  true,
	KindBoolean: true,
	KindJSON:    true,
}

// IsValid reports whether the kind is one of the declared constants.
func (k FieldKind) IsValid() bool {
	return validFieldKinds[k]
}

// trueWords are the string spellings accepted as boolean true.
var trueWords = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"y":    true,
}

// FieldDefinition describes a single field inside a record schema.
type FieldDefinition struct {
	Name        string
	Kind        FieldKind
	Required    bool
	Default     any
	DefaultFunc func() any // lazy default, evaluated at validation time
	Mention     bool       // field text is scanned for @handle mentions
	Description string
	Choices     []any
}

// HasDefault reports whether the field carries a static or lazy default.
func (d FieldDefinition) HasDefault() bool {
	return d.Default != nil || d.DefaultFunc != nil
}

// DefaultValue evaluates the field default. Lazy defaults win over static ones.
func (d FieldDefinition) DefaultValue() any {
	if d.DefaultFunc != nil {
		return d.DefaultFunc()
	}
	return d.Default
}

// Clean normalizes an input value for this field. A nil input passes through
// unchanged so that emptiness checks upstream can distinguish "absent" from
// a coerced zero value. Parse failures return field-scoped errors; Clean
// never aborts a whole-payload validation on its own.
func (d FieldDefinition) Clean(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch d.Kind {
	case KindString, KindText:
		return stringify(value), nil
	case KindInteger:
		return cleanInteger(value)
	case KindNumber:
		return cleanNumber(value)
	case KindBoolean:
		return cleanBoolean(value)
	case KindJSON:
		return cleanJSON(value)
	default:
		return nil, fmt.Errorf("unknown field kind %q", d.Kind)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func cleanInteger(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		if v == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("invalid integer value of type %T", value)
	}
}

func cleanNumber(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("invalid number value of type %T", value)
	}
}

func cleanBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case string:
		return trueWords[strings.ToLower(strings.TrimSpace(v))], nil
	default:
		return nil, fmt.Errorf("invalid boolean value of type %T", value)
	}
}

func cleanJSON(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any, []any:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return map[string]any{}, nil
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %v", err)
		}
		return parsed, nil
	default:
		return map[string]any{}, nil
	}
}
