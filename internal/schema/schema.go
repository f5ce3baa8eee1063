package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FieldKind describes the expected YAML shape of a node data field.
type FieldKind int

const (
	KindAny FieldKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// String returns the kind name used in tool responses and violation messages.
func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindList:
		return "array"
	case KindMap:
		return "object"
	default:
		return "any"
	}
}

// matches reports whether a parsed YAML value satisfies the kind.
func (k FieldKind) matches(v interface{}) bool {
	switch k {
	case KindAny:
		return true
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		switch v.(type) {
		case int, int64, uint64, float64:
			return true
		}
		return false
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindList:
		_, ok := v.([]interface{})
		return ok
	case KindMap:
		_, ok := v.(map[string]interface{})
		return ok
	}
	return false
}

// FieldInfo describes one field of a node data schema.
type FieldInfo struct {
	Kind        FieldKind
	Required    bool
	Description string
	// Enum restricts a string field to a fixed set of values.
	Enum []string
}

// FieldViolation is a single field-level schema violation. The validator
// surfaces one issue per violation, carrying the field path and a
// machine-readable error type.
type FieldViolation struct {
	Field     string `json:"field"`
	Message   string `json:"message"`
	ErrorType string `json:"error_type"`
}

// Schema is the pluggable validation capability for one node type: hand it
// a node's data mapping, get back the list of violations.
type Schema interface {
	// Validate checks the node data mapping and returns all field-level
	// violations found. An empty result means the data is structurally valid.
	Validate(data map[string]interface{}) []FieldViolation

	// Fields returns the field metadata for schema introspection.
	Fields() map[string]FieldInfo
}

// objectSchema is a declarative Schema implementation: a flat field table
// with required flags, kind checks, and optional enums. It covers every
// bundled node type; node types whose rules live in external plugin
// manifests are registered as unavailable instead.
type objectSchema struct {
	fields map[string]FieldInfo
}

func (s *objectSchema) Validate(data map[string]interface{}) []FieldViolation {
	var violations []FieldViolation

	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := s.fields[name]
		raw, present := data[name]
		if !present || raw == nil {
			if info.Required {
				violations = append(violations, FieldViolation{
					Field:     name,
					Message:   "field is required",
					ErrorType: "missing",
				})
			}
			continue
		}

		if !info.Kind.matches(raw) {
			violations = append(violations, FieldViolation{
				Field:     name,
				Message:   fmt.Sprintf("expected %s, got %T", info.Kind, raw),
				ErrorType: "type_error",
			})
			continue
		}

		if len(info.Enum) > 0 {
			value, _ := raw.(string)
			if !containsString(info.Enum, value) {
				violations = append(violations, FieldViolation{
					Field:     name,
					Message:   fmt.Sprintf("must be one of: %s", strings.Join(info.Enum, ", ")),
					ErrorType: "value_error",
				})
			}
		}
	}

	return violations
}

func (s *objectSchema) Fields() map[string]FieldInfo {
	out := make(map[string]FieldInfo, len(s.fields))
	for name, info := range s.fields {
		out[name] = info
	}
	return out
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// nodeSchema builds an objectSchema carrying the base fields every node data
// mapping must have (type, title) plus the type-specific fields.
func nodeSchema(extra map[string]FieldInfo) Schema {
	fields := map[string]FieldInfo{
		"type": {
			Kind:        KindString,
			Required:    true,
			Description: "Node type identifier",
		},
		"title": {
			Kind:        KindString,
			Required:    true,
			Description: "Node display title",
		},
		"desc": {
			Kind:        KindString,
			Description: "Node description",
		},
	}
	for name, info := range extra {
		fields[name] = info
	}
	return &objectSchema{fields: fields}
}
