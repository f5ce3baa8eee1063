package schema

import "sort"

// FieldDescription is the introspection view of one schema field.
type FieldDescription struct {
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Info is the structured answer to a node-schema introspection request.
// Exactly one of three shapes is populated: unknown type (Error +
// AvailableTypes), unavailable (SchemaAvailable=false + RequiredFields), or
// available (SchemaAvailable=true + Fields + RequiredFields +
// ExampleStructure).
type Info struct {
	Type             string                      `json:"type,omitempty"`
	SchemaAvailable  *bool                       `json:"schema_available,omitempty"`
	Fields           map[string]FieldDescription `json:"fields,omitempty"`
	RequiredFields   []string                    `json:"required_fields,omitempty"`
	Message          string                      `json:"message,omitempty"`
	Error            string                      `json:"error,omitempty"`
	AvailableTypes   []string                    `json:"available_types,omitempty"`
	ExampleStructure map[string]interface{}      `json:"example_structure,omitempty"`
}

// NodeSchemaInfo describes the schema registered for a node type.
func (r *Registry) NodeSchemaInfo(nodeType string) Info {
	s, status := r.Lookup(nodeType)

	switch status {
	case StatusUnknown:
		return Info{
			Error:          "Unknown node type: " + nodeType,
			AvailableTypes: r.NodeTypes(),
		}
	case StatusUnavailable:
		return Info{
			Type:            nodeType,
			SchemaAvailable: boolPtr(false),
			Message:         "Schema validation is unavailable for this node type (schema not bundled)",
			RequiredFields:  []string{"id", "type", "title"},
		}
	}

	fields := make(map[string]FieldDescription)
	for name, info := range s.Fields() {
		fields[name] = FieldDescription{
			Type:        info.Kind.String(),
			Required:    info.Required,
			Description: info.Description,
			Enum:        info.Enum,
		}
	}

	return Info{
		Type:            nodeType,
		SchemaAvailable: boolPtr(true),
		Fields:          fields,
		RequiredFields:  RequiredFieldNames(s),
		ExampleStructure: map[string]interface{}{
			"id":       "node_id",
			"position": map[string]interface{}{"x": 100, "y": 100},
			"data": map[string]interface{}{
				"type":  nodeType,
				"title": "Node Title",
			},
		},
	}
}

// RequiredFieldNames returns the sorted required field names of a schema.
func RequiredFieldNames(s Schema) []string {
	var names []string
	for name, info := range s.Fields() {
		if info.Required {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func boolPtr(b bool) *bool { return &b }
