package manager

import (
	"fmt"
	"strings"

	"difydsl/internal/dsl"
	"difydsl/internal/schema"
	"difydsl/internal/validator"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manager holds one workflow document in memory and mutates it through
// checked operations. The document is a plain YAML tree so round-trips
// preserve fields the manager does not know about. A Manager is not safe for
// concurrent use; callers serialize access per document.
type Manager struct {
	data     map[string]interface{}
	registry *schema.Registry
}

// New creates a manager around a fresh, empty workflow document.
func New(name, description, icon, iconBackground string) *Manager {
	if icon == "" {
		icon = "🤖"
	}
	if iconBackground == "" {
		iconBackground = "#FFEAD5"
	}

	return &Manager{
		registry: schema.Default(),
		data: map[string]interface{}{
			"version": dsl.CurrentDSLVersion,
			"kind":    dsl.Kind,
			"app": map[string]interface{}{
				"name":            name,
				"description":     description,
				"icon":            icon,
				"icon_background": iconBackground,
				"mode":            string(dsl.AppModeWorkflow),
			},
			"workflow": map[string]interface{}{
				"graph": map[string]interface{}{
					"nodes": []interface{}{},
					"edges": []interface{}{},
					"viewport": map[string]interface{}{
						"x":    0,
						"y":    0,
						"zoom": 1,
					},
				},
				"features":               map[string]interface{}{},
				"environment_variables":  []interface{}{},
				"conversation_variables": []interface{}{},
			},
		},
	}
}

// FromYAML creates a manager from existing YAML content. The content only
// needs to be a mapping; full validation is a separate, explicit step.
func FromYAML(content string) (*Manager, error) {
	var raw interface{}
	if err := yaml.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("YAML content must be a mapping")
	}
	return &Manager{data: doc, registry: schema.Default()}, nil
}

// ToYAML serializes the current document.
func (m *Manager) ToYAML() (string, error) {
	out, err := yaml.Marshal(m.data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize workflow: %w", err)
	}
	return string(out), nil
}

// Data returns the underlying document tree. Callers must not mutate it.
func (m *Manager) Data() map[string]interface{} {
	return m.data
}

// Validate runs the full validation pipeline over the current document.
func (m *Manager) Validate(v *validator.Validator) (*validator.Result, error) {
	content, err := m.ToYAML()
	if err != nil {
		return nil, err
	}
	return v.Validate(content), nil
}

// graph returns the graph mapping, creating the workflow/graph skeleton when
// a loaded document lacks it.
func (m *Manager) graph() map[string]interface{} {
	workflow, ok := m.data["workflow"].(map[string]interface{})
	if !ok {
		workflow = map[string]interface{}{}
		m.data["workflow"] = workflow
	}
	graph, ok := workflow["graph"].(map[string]interface{})
	if !ok {
		graph = map[string]interface{}{
			"nodes": []interface{}{},
			"edges": []interface{}{},
		}
		workflow["graph"] = graph
	}
	return graph
}

func (m *Manager) nodes() []interface{} {
	nodes, _ := m.graph()["nodes"].([]interface{})
	return nodes
}

func (m *Manager) edges() []interface{} {
	edges, _ := m.graph()["edges"].([]interface{})
	return edges
}

// AddNode appends a node to the graph. The node id must be unique and the
// node data must satisfy the schema for its type when one is available.
func (m *Manager) AddNode(node map[string]interface{}) error {
	id, _ := node["id"].(string)
	if id == "" {
		return fmt.Errorf("node must have a non-empty string 'id'")
	}
	if m.findNode(id) != nil {
		return NewAlreadyExistsError("node", id)
	}

	data, ok := node["data"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("node %s must have a 'data' mapping", id)
	}
	nodeType, _ := data["type"].(string)
	if s, status := m.registry.Lookup(nodeType); status == schema.StatusAvailable {
		if violations := s.Validate(data); len(violations) > 0 {
			msgs := make([]string, 0, len(violations))
			for _, violation := range violations {
				msgs = append(msgs, fmt.Sprintf("%s: %s", violation.Field, violation.Message))
			}
			return fmt.Errorf("node %s data is invalid for type %s: %s", id, nodeType, strings.Join(msgs, "; "))
		}
	}

	graph := m.graph()
	graph["nodes"] = append(m.nodes(), node)
	return nil
}

// RemoveNode deletes a node and every edge connected to it.
func (m *Manager) RemoveNode(nodeID string) error {
	nodes := m.nodes()
	kept := make([]interface{}, 0, len(nodes))
	found := false
	for _, nodeRaw := range nodes {
		node, ok := nodeRaw.(map[string]interface{})
		if ok && node["id"] == nodeID {
			found = true
			continue
		}
		kept = append(kept, nodeRaw)
	}
	if !found {
		return NewNotFoundError("node", nodeID)
	}

	graph := m.graph()
	graph["nodes"] = kept

	edges := m.edges()
	keptEdges := make([]interface{}, 0, len(edges))
	for _, edgeRaw := range edges {
		edge, ok := edgeRaw.(map[string]interface{})
		if ok && (edge["source"] == nodeID || edge["target"] == nodeID) {
			continue
		}
		keptEdges = append(keptEdges, edgeRaw)
	}
	graph["edges"] = keptEdges
	return nil
}

// GetNode returns the node with the given id.
func (m *Manager) GetNode(nodeID string) (map[string]interface{}, error) {
	node := m.findNode(nodeID)
	if node == nil {
		return nil, NewNotFoundError("node", nodeID)
	}
	return node, nil
}

// ListNodes returns id, type, and title for every node in the graph.
func (m *Manager) ListNodes() []map[string]interface{} {
	summaries := []map[string]interface{}{}
	for _, nodeRaw := range m.nodes() {
		node, ok := nodeRaw.(map[string]interface{})
		if !ok {
			continue
		}
		summary := map[string]interface{}{"id": node["id"]}
		if data, ok := node["data"].(map[string]interface{}); ok {
			summary["type"] = data["type"]
			summary["title"] = data["title"]
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// AddEdge connects two existing nodes. The edge id encodes both endpoints
// and handles, so the same connection cannot be added twice.
func (m *Manager) AddEdge(source, target, sourceHandle, targetHandle string) (string, error) {
	if m.findNode(source) == nil {
		return "", NewNotFoundError("node", source)
	}
	if m.findNode(target) == nil {
		return "", NewNotFoundError("node", target)
	}
	if sourceHandle == "" {
		sourceHandle = "source"
	}
	if targetHandle == "" {
		targetHandle = "target"
	}

	edgeID := fmt.Sprintf("%s-%s-%s-%s", source, sourceHandle, target, targetHandle)
	for _, edgeRaw := range m.edges() {
		if edge, ok := edgeRaw.(map[string]interface{}); ok && edge["id"] == edgeID {
			return "", NewAlreadyExistsError("edge", edgeID)
		}
	}

	edge := map[string]interface{}{
		"id":           edgeID,
		"source":       source,
		"target":       target,
		"sourceHandle": sourceHandle,
		"targetHandle": targetHandle,
		"type":         "custom",
		"zIndex":       0,
		"data": map[string]interface{}{
			"sourceType": m.nodeType(source),
			"targetType": m.nodeType(target),
			"isInLoop":   false,
		},
	}

	graph := m.graph()
	graph["edges"] = append(m.edges(), edge)
	return edgeID, nil
}

// RemoveEdge deletes the edge with the given id.
func (m *Manager) RemoveEdge(edgeID string) error {
	edges := m.edges()
	kept := make([]interface{}, 0, len(edges))
	found := false
	for _, edgeRaw := range edges {
		edge, ok := edgeRaw.(map[string]interface{})
		if ok && edge["id"] == edgeID {
			found = true
			continue
		}
		kept = append(kept, edgeRaw)
	}
	if !found {
		return NewNotFoundError("edge", edgeID)
	}
	graph := m.graph()
	graph["edges"] = kept
	return nil
}

// ListEdges returns id and endpoints for every edge in the graph.
func (m *Manager) ListEdges() []map[string]interface{} {
	summaries := []map[string]interface{}{}
	for _, edgeRaw := range m.edges() {
		edge, ok := edgeRaw.(map[string]interface{})
		if !ok {
			continue
		}
		summaries = append(summaries, map[string]interface{}{
			"id":     edge["id"],
			"source": edge["source"],
			"target": edge["target"],
		})
	}
	return summaries
}

// AddEnvironmentVariable declares an environment variable. The value is
// required so exported documents never carry dangling secret placeholders.
func (m *Manager) AddEnvironmentVariable(name, valueType string, value interface{}) (string, error) {
	if name == "" {
		return "", fmt.Errorf("environment variable name must not be empty")
	}
	if !validValueType(valueType, dsl.EnvironmentVariableTypes) {
		return "", fmt.Errorf("invalid value_type %q, must be one of: %s",
			valueType, strings.Join(dsl.EnvironmentVariableTypes, ", "))
	}
	if value == nil {
		return "", fmt.Errorf("environment variable %s requires a value", name)
	}

	id := newVariableID()
	entry := map[string]interface{}{
		"id":         id,
		"name":       name,
		"value_type": valueType,
		"value":      value,
	}
	m.appendVariable("environment_variables", entry)
	return id, nil
}

// AddConversationVariable declares a conversation variable with an optional
// default value.
func (m *Manager) AddConversationVariable(name, valueType string, value interface{}) (string, error) {
	if name == "" {
		return "", fmt.Errorf("conversation variable name must not be empty")
	}
	if !validValueType(valueType, dsl.ConversationVariableTypes) {
		return "", fmt.Errorf("invalid value_type %q, must be one of: %s",
			valueType, strings.Join(dsl.ConversationVariableTypes, ", "))
	}

	id := newVariableID()
	entry := map[string]interface{}{
		"id":         id,
		"name":       name,
		"value_type": valueType,
		"value":      value,
	}
	m.appendVariable("conversation_variables", entry)
	return id, nil
}

// RemoveEnvironmentVariable deletes an environment variable by id or name.
func (m *Manager) RemoveEnvironmentVariable(idOrName string) error {
	return m.removeVariable("environment_variables", "environment variable", idOrName)
}

// RemoveConversationVariable deletes a conversation variable by id or name.
func (m *Manager) RemoveConversationVariable(idOrName string) error {
	return m.removeVariable("conversation_variables", "conversation variable", idOrName)
}

// SetAppName updates the app display name.
func (m *Manager) SetAppName(name string) {
	m.app()["name"] = name
}

// SetAppDescription updates the app description.
func (m *Manager) SetAppDescription(description string) {
	m.app()["description"] = description
}

// SetAppIcon updates the app icon and optionally its background color.
func (m *Manager) SetAppIcon(icon, background string) {
	app := m.app()
	app["icon"] = icon
	if background != "" {
		app["icon_background"] = background
	}
}

func (m *Manager) app() map[string]interface{} {
	app, ok := m.data["app"].(map[string]interface{})
	if !ok {
		app = map[string]interface{}{}
		m.data["app"] = app
	}
	return app
}

func (m *Manager) findNode(nodeID string) map[string]interface{} {
	for _, nodeRaw := range m.nodes() {
		if node, ok := nodeRaw.(map[string]interface{}); ok && node["id"] == nodeID {
			return node
		}
	}
	return nil
}

func (m *Manager) nodeType(nodeID string) string {
	node := m.findNode(nodeID)
	if node == nil {
		return ""
	}
	if data, ok := node["data"].(map[string]interface{}); ok {
		if t, ok := data["type"].(string); ok {
			return t
		}
	}
	return ""
}

func (m *Manager) workflow() map[string]interface{} {
	workflow, ok := m.data["workflow"].(map[string]interface{})
	if !ok {
		workflow = map[string]interface{}{}
		m.data["workflow"] = workflow
	}
	return workflow
}

func (m *Manager) appendVariable(key string, entry map[string]interface{}) {
	workflow := m.workflow()
	list, _ := workflow[key].([]interface{})
	workflow[key] = append(list, entry)
}

func (m *Manager) removeVariable(key, resourceType, idOrName string) error {
	workflow := m.workflow()
	list, _ := workflow[key].([]interface{})
	kept := make([]interface{}, 0, len(list))
	found := false
	for _, entryRaw := range list {
		entry, ok := entryRaw.(map[string]interface{})
		if ok && (entry["id"] == idOrName || entry["name"] == idOrName) {
			found = true
			continue
		}
		kept = append(kept, entryRaw)
	}
	if !found {
		return NewNotFoundError(resourceType, idOrName)
	}
	workflow[key] = kept
	return nil
}

func validValueType(valueType string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == valueType {
			return true
		}
	}
	return false
}

// newVariableID produces the short id format the canvas uses for variables
// and nodes.
func newVariableID() string {
	return uuid.NewString()[:13]
}
