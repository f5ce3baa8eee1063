package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"difydsl/internal/dsl"
	"difydsl/internal/manager"
	"difydsl/internal/schema"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool handlers. User-level failures (bad YAML, unknown ids, invalid value
// types) come back as tool results so the calling agent can read and react
// to them; protocol errors are reserved for malformed requests.

func (s *Server) handleValidateWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("yaml_content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.validator.Validate(content))
}

func (s *Server) handleGetDSLVersion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]interface{}{
		"current_dsl_version":    dsl.CurrentDSLVersion,
		"default_import_version": dsl.DefaultImportVersion,
		"kind":                   dsl.Kind,
	})
}

func (s *Server) handleGetSupportedAppModes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modes := make([]map[string]interface{}, 0, len(dsl.AppModes()))
	for _, mode := range dsl.AppModes() {
		modes = append(modes, map[string]interface{}{
			"mode":                  string(mode),
			"has_graph":             mode.IsGraphMode(),
			"requires_model_config": mode.RequiresModelConfig(),
		})
	}
	return jsonResult(map[string]interface{}{"app_modes": modes})
}

func (s *Server) handleGetNodeSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeType, err := request.RequireString("node_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(schema.Default().NodeSchemaInfo(nodeType))
}

func (s *Server) handleCreateWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	m := manager.New(name,
		stringArg(args, "description", ""),
		stringArg(args, "icon", ""),
		stringArg(args, "icon_background", ""))
	return yamlResult(m)
}

func (s *Server) handleAddStartNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, args, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	variables, err := startVariablesArg(args["variables"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	node := manager.NewStartNode(
		stringArg(args, "node_id", ""),
		stringArg(args, "title", ""),
		floatArg(args, "x", 80),
		floatArg(args, "y", 282),
		variables)
	return s.addNodeResult(m, node)
}

func (s *Server) handleAddEndNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, args, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	outputs, err := selectorListArg(args["outputs"], "outputs")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	endOutputs := make([]manager.EndOutput, 0, len(outputs))
	for _, entry := range outputs {
		endOutputs = append(endOutputs, manager.EndOutput(entry))
	}

	node := manager.NewEndNode(
		stringArg(args, "node_id", ""),
		stringArg(args, "title", ""),
		floatArg(args, "x", 756),
		floatArg(args, "y", 300),
		endOutputs)
	return s.addNodeResult(m, node)
}

func (s *Server) handleAddLLMNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, args, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	provider, err := request.RequireString("provider")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	model, err := request.RequireString("model")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var prompts []manager.PromptMessage
	if text := stringArg(args, "system_prompt", ""); text != "" {
		prompts = append(prompts, manager.PromptMessage{Role: "system", Text: text})
	}
	if text := stringArg(args, "user_prompt", ""); text != "" {
		prompts = append(prompts, manager.PromptMessage{Role: "user", Text: text})
	}

	node := manager.NewLLMNode(
		stringArg(args, "node_id", ""),
		stringArg(args, "title", ""),
		floatArg(args, "x", 382),
		floatArg(args, "y", 282),
		manager.LLMConfig{
			Provider:    provider,
			Model:       model,
			Temperature: floatArg(args, "temperature", 0.7),
		},
		prompts)
	return s.addNodeResult(m, node)
}

func (s *Server) handleAddTemplateTransformNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, args, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	template, err := request.RequireString("template")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	variables, err := selectorListArg(args["variables"], "variables")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	templateVars := make([]manager.TemplateVariable, 0, len(variables))
	for _, entry := range variables {
		templateVars = append(templateVars, manager.TemplateVariable(entry))
	}

	node := manager.NewTemplateTransformNode(
		stringArg(args, "node_id", ""),
		stringArg(args, "title", ""),
		floatArg(args, "x", 0),
		floatArg(args, "y", 0),
		template,
		templateVars)
	return s.addNodeResult(m, node)
}

func (s *Server) handleAddAnswerNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, args, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	answer, err := request.RequireString("answer")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	node := manager.NewAnswerNode(
		stringArg(args, "node_id", ""),
		stringArg(args, "title", ""),
		floatArg(args, "x", 0),
		floatArg(args, "y", 0),
		answer)
	return s.addNodeResult(m, node)
}

func (s *Server) handleAddEdge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, args, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := request.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := m.AddEdge(source, target,
		stringArg(args, "source_handle", ""),
		stringArg(args, "target_handle", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(m)
}

func (s *Server) handleRemoveNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, _, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	nodeID, err := request.RequireString("node_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := m.RemoveNode(nodeID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(m)
}

func (s *Server) handleRemoveEdge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, _, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	edgeID, err := request.RequireString("edge_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := m.RemoveEdge(edgeID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(m)
}

func (s *Server) handleAddEnvironmentVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, _, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	valueType, err := request.RequireString("value_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := m.AddEnvironmentVariable(name, valueType, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(m)
}

func (s *Server) handleAddConversationVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, args, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	valueType, err := request.RequireString("value_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if _, err := m.AddConversationVariable(name, valueType, args["value"]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(m)
}

func (s *Server) handleRemoveEnvironmentVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleRemoveVariable(request, (*manager.Manager).RemoveEnvironmentVariable)
}

func (s *Server) handleRemoveConversationVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleRemoveVariable(request, (*manager.Manager).RemoveConversationVariable)
}

func (s *Server) handleRemoveVariable(request mcp.CallToolRequest, remove func(*manager.Manager, string) error) (*mcp.CallToolResult, error) {
	m, _, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}

	variable, err := request.RequireString("variable")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := remove(m, variable); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(m)
}

func (s *Server) handleListWorkflowNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, _, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(map[string]interface{}{"nodes": m.ListNodes()})
}

func (s *Server) handleListWorkflowEdges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, _, errResult := s.requireWorkflow(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(map[string]interface{}{"edges": m.ListEdges()})
}

// requireWorkflow parses the workflow_yaml argument into a manager. The
// third return value is a ready error result when parsing fails.
func (s *Server) requireWorkflow(request mcp.CallToolRequest) (*manager.Manager, map[string]interface{}, *mcp.CallToolResult) {
	content, err := request.RequireString("workflow_yaml")
	if err != nil {
		return nil, nil, mcp.NewToolResultError(err.Error())
	}
	m, err := manager.FromYAML(content)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(err.Error())
	}
	return m, request.GetArguments(), nil
}

func (s *Server) addNodeResult(m *manager.Manager, node map[string]interface{}) (*mcp.CallToolResult, error) {
	if err := m.AddNode(node); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return yamlResult(m)
}

func yamlResult(m *manager.Manager) (*mcp.CallToolResult, error) {
	content, err := m.ToYAML()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Argument coercion helpers. MCP arguments arrive as decoded JSON, so
// numbers are float64 and structured values are generic maps and slices.

func stringArg(args map[string]interface{}, key, fallback string) string {
	if value, ok := args[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func floatArg(args map[string]interface{}, key string, fallback float64) float64 {
	switch value := args[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	}
	return fallback
}

// startVariablesArg decodes the start-node variables argument.
func startVariablesArg(raw interface{}) ([]manager.StartVariable, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("variables must be an array of objects")
	}

	variables := make([]manager.StartVariable, 0, len(list))
	for idx, entryRaw := range list {
		entry, ok := entryRaw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("variables[%d] must be an object", idx)
		}
		name, _ := entry["variable"].(string)
		if name == "" {
			return nil, fmt.Errorf("variables[%d] is missing 'variable'", idx)
		}

		variable := manager.StartVariable{
			Variable:    name,
			Label:       stringArg(entry, "label", name),
			Type:        stringArg(entry, "type", ""),
			Default:     stringArg(entry, "default", ""),
			Placeholder: stringArg(entry, "placeholder", ""),
		}
		if required, ok := entry["required"].(bool); ok {
			variable.Required = required
		}
		if maxLength, ok := entry["max_length"].(float64); ok {
			variable.MaxLength = int(maxLength)
		}
		if options, ok := entry["options"].([]interface{}); ok {
			for _, option := range options {
				if s, ok := option.(string); ok {
					variable.Options = append(variable.Options, s)
				}
			}
		}
		variables = append(variables, variable)
	}
	return variables, nil
}

// selectorBinding is the shared shape of end outputs and template variables.
type selectorBinding struct {
	Variable      string
	ValueSelector []string
}

func selectorListArg(raw interface{}, name string) ([]selectorBinding, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of objects", name)
	}

	bindings := make([]selectorBinding, 0, len(list))
	for idx, entryRaw := range list {
		entry, ok := entryRaw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be an object", name, idx)
		}
		variable, _ := entry["variable"].(string)
		if variable == "" {
			return nil, fmt.Errorf("%s[%d] is missing 'variable'", name, idx)
		}
		selectorRaw, ok := entry["value_selector"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s[%d] is missing 'value_selector'", name, idx)
		}
		selector := make([]string, 0, len(selectorRaw))
		for _, segment := range selectorRaw {
			s, ok := segment.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d].value_selector must contain strings", name, idx)
			}
			selector = append(selector, s)
		}
		bindings = append(bindings, selectorBinding{Variable: variable, ValueSelector: selector})
	}
	return bindings, nil
}
