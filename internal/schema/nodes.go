package schema

// Node data schemas for the bundled node types. Field sets follow the Dify
// node entity definitions; only structural shape is checked here, value
// semantics (prompt contents, selectors resolving, ...) are left to the
// cross-reference validator and the runtime.

func startNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"variables": {Kind: KindList, Description: "User input variable definitions"},
	})
}

func endNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"outputs": {Kind: KindList, Description: "Output variable selectors"},
	})
}

func answerNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"answer": {Kind: KindString, Required: true, Description: "Answer template with variable references"},
	})
}

func llmNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"model":           {Kind: KindMap, Required: true, Description: "Model provider/name/mode configuration"},
		"prompt_template": {Kind: KindAny, Required: true, Description: "Prompt messages or completion template"},
		"context":         {Kind: KindMap, Description: "Context input configuration"},
		"vision":          {Kind: KindMap, Description: "Vision configuration"},
		"memory":          {Kind: KindMap, Description: "Conversation memory configuration"},
	})
}

func codeNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"code":          {Kind: KindString, Required: true, Description: "Source code to execute"},
		"code_language": {Kind: KindString, Required: true, Enum: []string{"python3", "javascript"}, Description: "Execution language"},
		"variables":     {Kind: KindList, Description: "Input variable selectors"},
		"outputs":       {Kind: KindMap, Description: "Output variable declarations"},
	})
}

func templateTransformNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"template":  {Kind: KindString, Required: true, Description: "Jinja2 template string"},
		"variables": {Kind: KindList, Description: "Input variable selectors"},
	})
}

func httpRequestNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"method": {
			Kind:     KindString,
			Required: true,
			Enum:     []string{"get", "post", "put", "patch", "delete", "head"},
		},
		"url":           {Kind: KindString, Required: true},
		"headers":       {Kind: KindString, Description: "Newline-separated header lines"},
		"params":        {Kind: KindString, Description: "Newline-separated query parameters"},
		"body":          {Kind: KindMap},
		"authorization": {Kind: KindMap},
		"timeout":       {Kind: KindMap},
	})
}

func ifElseNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"cases":      {Kind: KindList, Required: true, Description: "Condition branches"},
		"conditions": {Kind: KindList, Description: "Legacy single-branch conditions"},
	})
}

func toolNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"provider_id":   {Kind: KindString, Required: true},
		"provider_type": {Kind: KindString, Required: true, Enum: []string{"builtin", "api", "workflow", "mcp", "plugin"}},
		"provider_name": {Kind: KindString},
		"tool_name":     {Kind: KindString, Required: true},
		"tool_label":    {Kind: KindString},
		"tool_parameters": {
			Kind:        KindMap,
			Description: "Tool invocation parameters",
		},
	})
}

func questionClassifierNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"model":                   {Kind: KindMap, Required: true},
		"query_variable_selector": {Kind: KindList, Required: true},
		"classes":                 {Kind: KindList, Required: true, Description: "Classification branches"},
		"instruction":             {Kind: KindString},
	})
}

func iterationNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"iterator_selector": {Kind: KindList, Required: true, Description: "Selector of the list to iterate"},
		"output_selector":   {Kind: KindList, Required: true, Description: "Selector of the per-iteration output"},
		"start_node_id":     {Kind: KindString},
		"is_parallel":       {Kind: KindBool},
	})
}

func loopNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"loop_count":       {Kind: KindNumber, Required: true},
		"break_conditions": {Kind: KindList},
		"start_node_id":    {Kind: KindString},
	})
}

func variableAggregatorNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"variables":   {Kind: KindList, Required: true, Description: "Variable selectors to aggregate"},
		"output_type": {Kind: KindString, Required: true},
	})
}

func knowledgeRetrievalNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"query_variable_selector":   {Kind: KindList, Required: true},
		"dataset_ids":               {Kind: KindList, Required: true},
		"retrieval_mode":            {Kind: KindString, Required: true, Enum: []string{"single", "multiple"}},
		"multiple_retrieval_config": {Kind: KindMap},
	})
}

func parameterExtractorNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"model":          {Kind: KindMap, Required: true},
		"query":          {Kind: KindList, Required: true, Description: "Selector of the text to extract from"},
		"parameters":     {Kind: KindList, Required: true, Description: "Parameters to extract"},
		"instruction":    {Kind: KindString},
		"reasoning_mode": {Kind: KindString, Enum: []string{"function_call", "prompt"}},
	})
}

func listOperatorNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"variable":  {Kind: KindList, Required: true, Description: "Selector of the list to operate on"},
		"filter_by": {Kind: KindMap},
		"order_by":  {Kind: KindMap},
		"limit":     {Kind: KindMap},
	})
}

func documentExtractorNodeSchema() Schema {
	return nodeSchema(map[string]FieldInfo{
		"variable_selector": {Kind: KindList, Required: true, Description: "Selector of the file variable"},
	})
}

// dependencySchema validates one entry of the top-level dependencies list.
func dependencySchema() Schema {
	return &objectSchema{fields: map[string]FieldInfo{
		"type": {
			Kind:        KindString,
			Required:    true,
			Enum:        []string{"marketplace", "github", "package"},
			Description: "Dependency source",
		},
		"value": {
			Kind:        KindMap,
			Required:    true,
			Description: "Source-specific dependency descriptor",
		},
		"current_identifier": {
			Kind:        KindString,
			Description: "Installed plugin identifier",
		},
	}}
}
