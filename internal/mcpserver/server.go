package mcpserver

import (
	"context"

	"difydsl/internal/validator"
	"difydsl/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes workflow validation and construction as MCP tools over
// stdio. The tool surface is stateless: workflow documents travel through
// every call as YAML text, so any number of clients can interleave requests
// without sessions or locking.
type Server struct {
	mcpServer *server.MCPServer
	validator *validator.Validator
}

// New creates the MCP server and registers the full tool surface.
func New(version string) *Server {
	mcpServer := server.NewMCPServer(
		"difydsl",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer: mcpServer,
		validator: validator.New(),
	}
	s.registerTools()
	return s
}

// Start serves the MCP protocol over stdin/stdout. It blocks until the
// client closes the connection.
func (s *Server) Start(ctx context.Context) error {
	logging.Info("mcpserver", "Starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("validate_workflow",
		mcp.WithDescription("Validate a workflow DSL document and report errors, warnings, and diagnostic info"),
		mcp.WithString("yaml_content",
			mcp.Required(),
			mcp.Description("The workflow DSL document as YAML text"),
		),
	), s.handleValidateWorkflow)

	s.mcpServer.AddTool(mcp.NewTool("get_dsl_version",
		mcp.WithDescription("Get the current DSL version and import defaults"),
	), s.handleGetDSLVersion)

	s.mcpServer.AddTool(mcp.NewTool("get_supported_app_modes",
		mcp.WithDescription("List the supported app modes and their requirements"),
	), s.handleGetSupportedAppModes)

	s.mcpServer.AddTool(mcp.NewTool("get_node_schema",
		mcp.WithDescription("Get the field schema for a node type, including required fields and an example structure"),
		mcp.WithString("node_type",
			mcp.Required(),
			mcp.Description("Node type identifier (e.g. 'start', 'llm', 'end')"),
		),
	), s.handleGetNodeSchema)

	s.mcpServer.AddTool(mcp.NewTool("create_workflow",
		mcp.WithDescription("Create a new empty workflow document and return it as YAML"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("App display name"),
		),
		mcp.WithString("description",
			mcp.Description("App description"),
		),
		mcp.WithString("icon",
			mcp.Description("App icon emoji (default 🤖)"),
		),
		mcp.WithString("icon_background",
			mcp.Description("Icon background color (default #FFEAD5)"),
		),
	), s.handleCreateWorkflow)

	s.mcpServer.AddTool(mcp.NewTool("add_start_node",
		mcp.WithDescription("Add a start node with input variables to a workflow document"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("node_id",
			mcp.Description("Node id (auto-generated if omitted)"),
		),
		mcp.WithString("title",
			mcp.Description("Node title"),
		),
		mcp.WithNumber("x",
			mcp.Description("Canvas x coordinate (default 80)"),
		),
		mcp.WithNumber("y",
			mcp.Description("Canvas y coordinate (default 282)"),
		),
		mcp.WithArray("variables",
			mcp.Description("Input variables: objects with 'variable', 'label', optional 'type' (text-input, paragraph, select), 'required', 'default', 'options'"),
		),
	), s.handleAddStartNode)

	s.mcpServer.AddTool(mcp.NewTool("add_end_node",
		mcp.WithDescription("Add an end node with output mappings to a workflow document"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("node_id",
			mcp.Description("Node id (auto-generated if omitted)"),
		),
		mcp.WithString("title",
			mcp.Description("Node title"),
		),
		mcp.WithNumber("x",
			mcp.Description("Canvas x coordinate (default 756)"),
		),
		mcp.WithNumber("y",
			mcp.Description("Canvas y coordinate (default 300)"),
		),
		mcp.WithArray("outputs",
			mcp.Description("Outputs: objects with 'variable' and 'value_selector' (e.g. [\"llm_node\", \"text\"])"),
		),
	), s.handleAddEndNode)

	s.mcpServer.AddTool(mcp.NewTool("add_llm_node",
		mcp.WithDescription("Add an LLM node to a workflow document"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("provider",
			mcp.Required(),
			mcp.Description("Model provider (e.g. 'openai', 'anthropic')"),
		),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model name (e.g. 'gpt-4o')"),
		),
		mcp.WithString("node_id",
			mcp.Description("Node id (auto-generated if omitted)"),
		),
		mcp.WithString("title",
			mcp.Description("Node title"),
		),
		mcp.WithString("system_prompt",
			mcp.Description("System prompt text"),
		),
		mcp.WithString("user_prompt",
			mcp.Description("User prompt text, may embed references like {{#start.query#}}"),
		),
		mcp.WithNumber("temperature",
			mcp.Description("Sampling temperature (default 0.7)"),
		),
		mcp.WithNumber("x",
			mcp.Description("Canvas x coordinate (default 382)"),
		),
		mcp.WithNumber("y",
			mcp.Description("Canvas y coordinate (default 282)"),
		),
	), s.handleAddLLMNode)

	s.mcpServer.AddTool(mcp.NewTool("add_template_transform_node",
		mcp.WithDescription("Add a template-transform node rendering a Jinja2 template"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("template",
			mcp.Required(),
			mcp.Description("Jinja2 template string"),
		),
		mcp.WithString("node_id",
			mcp.Description("Node id (auto-generated if omitted)"),
		),
		mcp.WithString("title",
			mcp.Description("Node title"),
		),
		mcp.WithArray("variables",
			mcp.Description("Template variables: objects with 'variable' and 'value_selector'"),
		),
		mcp.WithNumber("x",
			mcp.Description("Canvas x coordinate"),
		),
		mcp.WithNumber("y",
			mcp.Description("Canvas y coordinate"),
		),
	), s.handleAddTemplateTransformNode)

	s.mcpServer.AddTool(mcp.NewTool("add_answer_node",
		mcp.WithDescription("Add an answer node for advanced-chat apps"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("Answer template, may embed references like {{#llm.text#}}"),
		),
		mcp.WithString("node_id",
			mcp.Description("Node id (auto-generated if omitted)"),
		),
		mcp.WithString("title",
			mcp.Description("Node title"),
		),
		mcp.WithNumber("x",
			mcp.Description("Canvas x coordinate"),
		),
		mcp.WithNumber("y",
			mcp.Description("Canvas y coordinate"),
		),
	), s.handleAddAnswerNode)

	s.mcpServer.AddTool(mcp.NewTool("add_edge",
		mcp.WithDescription("Connect two nodes in a workflow document"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Source node id"),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Target node id"),
		),
		mcp.WithString("source_handle",
			mcp.Description("Source handle (default 'source')"),
		),
		mcp.WithString("target_handle",
			mcp.Description("Target handle (default 'target')"),
		),
	), s.handleAddEdge)

	s.mcpServer.AddTool(mcp.NewTool("remove_node",
		mcp.WithDescription("Remove a node and every edge connected to it"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("node_id",
			mcp.Required(),
			mcp.Description("Node id to remove"),
		),
	), s.handleRemoveNode)

	s.mcpServer.AddTool(mcp.NewTool("remove_edge",
		mcp.WithDescription("Remove an edge by id"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("edge_id",
			mcp.Required(),
			mcp.Description("Edge id to remove"),
		),
	), s.handleRemoveEdge)

	s.mcpServer.AddTool(mcp.NewTool("add_environment_variable",
		mcp.WithDescription("Declare an environment variable (a value is required)"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Variable name"),
		),
		mcp.WithString("value_type",
			mcp.Required(),
			mcp.Description("Value type: string, number, or secret"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Variable value"),
		),
	), s.handleAddEnvironmentVariable)

	s.mcpServer.AddTool(mcp.NewTool("add_conversation_variable",
		mcp.WithDescription("Declare a conversation variable"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Variable name"),
		),
		mcp.WithString("value_type",
			mcp.Required(),
			mcp.Description("Value type: string, number, object, array[string], array[number], or array[object]"),
		),
		mcp.WithString("value",
			mcp.Description("Default value"),
		),
	), s.handleAddConversationVariable)

	s.mcpServer.AddTool(mcp.NewTool("remove_environment_variable",
		mcp.WithDescription("Remove an environment variable by id or name"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("variable",
			mcp.Required(),
			mcp.Description("Variable id or name"),
		),
	), s.handleRemoveEnvironmentVariable)

	s.mcpServer.AddTool(mcp.NewTool("remove_conversation_variable",
		mcp.WithDescription("Remove a conversation variable by id or name"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
		mcp.WithString("variable",
			mcp.Required(),
			mcp.Description("Variable id or name"),
		),
	), s.handleRemoveConversationVariable)

	s.mcpServer.AddTool(mcp.NewTool("list_workflow_nodes",
		mcp.WithDescription("List id, type, and title for every node in a workflow document"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
	), s.handleListWorkflowNodes)

	s.mcpServer.AddTool(mcp.NewTool("list_workflow_edges",
		mcp.WithDescription("List id, source, and target for every edge in a workflow document"),
		mcp.WithString("workflow_yaml",
			mcp.Required(),
			mcp.Description("The workflow document as YAML text"),
		),
	), s.handleListWorkflowEdges)
}
