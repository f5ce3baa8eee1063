package validator

import (
	"strings"
	"testing"

	"difydsl/internal/dsl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// validDoc returns a minimal document that passes validation cleanly:
// two schema-valid nodes with canvas layout, one edge between them.
func validDoc() map[string]interface{} {
	return map[string]interface{}{
		"version": dsl.CurrentDSLVersion,
		"kind":    "app",
		"app": map[string]interface{}{
			"name": "Test Workflow",
			"mode": "workflow",
		},
		"workflow": map[string]interface{}{
			"graph": map[string]interface{}{
				"nodes": []interface{}{
					map[string]interface{}{
						"id":       "start",
						"type":     "custom",
						"width":    244,
						"height":   54,
						"position": map[string]interface{}{"x": 80, "y": 282},
						"data": map[string]interface{}{
							"type":      "start",
							"title":     "Start",
							"variables": []interface{}{},
						},
					},
					map[string]interface{}{
						"id":       "end",
						"type":     "custom",
						"width":    244,
						"height":   90,
						"position": map[string]interface{}{"x": 756, "y": 300},
						"data": map[string]interface{}{
							"type":    "end",
							"title":   "End",
							"outputs": []interface{}{},
						},
					},
				},
				"edges": []interface{}{
					map[string]interface{}{
						"id":     "start-source-end-target",
						"source": "start",
						"target": "end",
						"type":   "custom",
						"zIndex": 0,
					},
				},
			},
		},
	}
}

func validateDoc(t *testing.T, doc map[string]interface{}) *Result {
	t.Helper()
	content, err := yaml.Marshal(doc)
	require.NoError(t, err)
	return New().Validate(string(content))
}

func workflowSection(doc map[string]interface{}) map[string]interface{} {
	return doc["workflow"].(map[string]interface{})
}

func graphSection(doc map[string]interface{}) map[string]interface{} {
	return workflowSection(doc)["graph"].(map[string]interface{})
}

func firstNode(doc map[string]interface{}) map[string]interface{} {
	return graphSection(doc)["nodes"].([]interface{})[0].(map[string]interface{})
}

func TestValidate_ValidWorkflow(t *testing.T) {
	result := validateDoc(t, validDoc())

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "workflow", result.Info["app_mode"])
	assert.Equal(t, dsl.CurrentDSLVersion, result.Info["dsl_version"])
	assert.Equal(t, 2, result.Info["node_count"])
	assert.Equal(t, 1, result.Info["edge_count"])
}

func TestValidate_EmptyContent(t *testing.T) {
	for _, content := range []string{"", "   \n\t  "} {
		result := New().Validate(content)
		assert.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "EMPTY_CONTENT", result.Errors[0].Code)
		assert.Equal(t, StageContentCheck, result.Errors[0].Stage)
	}
}

func TestValidate_FileTooLarge(t *testing.T) {
	content := strings.Repeat("a", dsl.MaxDSLSize+1)
	result := New().Validate(content)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "FILE_TOO_LARGE", result.Errors[0].Code)
	assert.Equal(t, StageSizeCheck, result.Errors[0].Stage)
	assert.Contains(t, result.Errors[0].Message, "10MB")
}

func TestValidate_InvalidYAMLSyntax(t *testing.T) {
	result := New().Validate("app: [unclosed")

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "YAML_SYNTAX_ERROR", result.Errors[0].Code)
	assert.Equal(t, StageYAMLParsing, result.Errors[0].Stage)
}

func TestValidate_NonMappingContent(t *testing.T) {
	result := New().Validate("- just\n- a\n- list\n")

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INVALID_YAML_TYPE", result.Errors[0].Code)
	assert.Equal(t, "Invalid YAML format: content must be a mapping", result.Errors[0].Message)
}

func TestValidate_VersionDefaultsWhenMissing(t *testing.T) {
	doc := validDoc()
	delete(doc, "version")
	result := validateDoc(t, doc)

	assert.True(t, result.Success)
	assert.Equal(t, dsl.DefaultImportVersion, result.Info["dsl_version"])
	// 0.1.0 against 0.4.0 is an older minor version
	assert.True(t, result.HasWarningCode("VERSION_MINOR_OLDER"))
}

func TestValidate_InvalidVersionType(t *testing.T) {
	doc := validDoc()
	doc["version"] = []interface{}{1, 2}
	result := validateDoc(t, doc)

	assert.False(t, result.Success)
	assert.True(t, result.HasErrorCode("INVALID_VERSION_TYPE"))
}

func TestValidate_InvalidVersionFormat(t *testing.T) {
	doc := validDoc()
	doc["version"] = "not-a-version"
	result := validateDoc(t, doc)

	assert.False(t, result.Success)
	assert.True(t, result.HasErrorCode("INVALID_VERSION_FORMAT"))
	assert.Equal(t, "not-a-version", result.Info["dsl_version"])
}

func TestValidate_VersionNewerWarns(t *testing.T) {
	doc := validDoc()
	doc["version"] = "1.0.0"
	result := validateDoc(t, doc)

	assert.True(t, result.Success)
	require.True(t, result.HasWarningCode("VERSION_NEWER"))
	for _, warning := range result.Warnings {
		if warning.Code == "VERSION_NEWER" {
			assert.Equal(t, "1.0.0", warning.Details["imported_version"])
			assert.Equal(t, dsl.CurrentDSLVersion, warning.Details["current_version"])
		}
	}
}

func TestValidate_MissingAppData(t *testing.T) {
	doc := validDoc()
	delete(doc, "app")
	result := validateDoc(t, doc)

	assert.False(t, result.Success)
	assert.True(t, result.HasErrorCode("MISSING_APP_DATA"))

	doc = validDoc()
	doc["app"] = "not a mapping"
	result = validateDoc(t, doc)
	assert.True(t, result.HasErrorCode("MISSING_APP_DATA"))
}

func TestValidate_MissingAppMode(t *testing.T) {
	doc := validDoc()
	delete(doc["app"].(map[string]interface{}), "mode")
	result := validateDoc(t, doc)

	assert.False(t, result.Success)
	assert.True(t, result.HasErrorCode("MISSING_APP_MODE"))
}

func TestValidate_InvalidAppMode(t *testing.T) {
	doc := validDoc()
	doc["app"].(map[string]interface{})["mode"] = "turbo"
	result := validateDoc(t, doc)

	assert.False(t, result.Success)
	require.True(t, result.HasErrorCode("INVALID_APP_MODE"))
	assert.Contains(t, result.Errors[0].Message, "invalid app mode: turbo")

	// a mode of the wrong type is invalid, not missing
	doc["app"].(map[string]interface{})["mode"] = 123
	result = validateDoc(t, doc)
	require.True(t, result.HasErrorCode("INVALID_APP_MODE"))
	assert.False(t, result.HasErrorCode("MISSING_APP_MODE"))
	assert.Contains(t, result.Errors[0].Message, "invalid app mode: 123")
}

func TestValidate_MissingWorkflowData(t *testing.T) {
	doc := validDoc()
	delete(doc, "workflow")
	result := validateDoc(t, doc)

	assert.False(t, result.Success)
	assert.True(t, result.HasErrorCode("MISSING_WORKFLOW_DATA"))
}

func TestValidate_ChatRequiresModelConfig(t *testing.T) {
	doc := map[string]interface{}{
		"version": dsl.CurrentDSLVersion,
		"app": map[string]interface{}{
			"name": "Chat App",
			"mode": "chat",
		},
	}
	result := validateDoc(t, doc)
	assert.False(t, result.Success)
	assert.True(t, result.HasErrorCode("MISSING_MODEL_CONFIG"))

	doc["model_config"] = map[string]interface{}{
		"model": map[string]interface{}{"provider": "openai", "name": "gpt-4o"},
	}
	result = validateDoc(t, doc)
	assert.True(t, result.Success)
}

func TestValidate_GraphContainerTypes(t *testing.T) {
	tests := []struct {
		name string
		code string
		prep func(doc map[string]interface{})
	}{
		{
			name: "graph not a mapping",
			code: "INVALID_GRAPH_TYPE",
			prep: func(doc map[string]interface{}) {
				workflowSection(doc)["graph"] = "broken"
			},
		},
		{
			name: "nodes not a list",
			code: "INVALID_NODES_TYPE",
			prep: func(doc map[string]interface{}) {
				graphSection(doc)["nodes"] = "broken"
			},
		},
		{
			name: "edges not a list",
			code: "INVALID_EDGES_TYPE",
			prep: func(doc map[string]interface{}) {
				graphSection(doc)["edges"] = "broken"
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := validDoc()
			test.prep(doc)
			result := validateDoc(t, doc)
			assert.False(t, result.Success)
			assert.True(t, result.HasErrorCode(test.code), "expected %s, got %v", test.code, result.ErrorCodes())
		})
	}
}

func TestValidate_EmptyGraphIsValid(t *testing.T) {
	doc := validDoc()
	workflowSection(doc)["graph"] = map[string]interface{}{}
	result := validateDoc(t, doc)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Info["node_count"])
	assert.Equal(t, 0, result.Info["edge_count"])
}

func TestValidate_NodeDefects(t *testing.T) {
	t.Run("node not a mapping", func(t *testing.T) {
		doc := validDoc()
		graphSection(doc)["nodes"] = []interface{}{"not a node"}
		graphSection(doc)["edges"] = []interface{}{}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INVALID_NODE_TYPE"))
	})

	t.Run("missing id", func(t *testing.T) {
		doc := validDoc()
		delete(firstNode(doc), "id")
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("MISSING_NODE_ID"))
	})

	t.Run("duplicate id", func(t *testing.T) {
		doc := validDoc()
		nodes := graphSection(doc)["nodes"].([]interface{})
		dup := validDoc()
		duplicated := firstNode(dup)
		graphSection(doc)["nodes"] = append(nodes, duplicated)
		result := validateDoc(t, doc)
		require.True(t, result.HasErrorCode("DUPLICATE_NODE_ID"))
		for _, issue := range result.Errors {
			if issue.Code == "DUPLICATE_NODE_ID" {
				assert.Equal(t, "start", issue.Details["node_id"])
			}
		}
	})

	t.Run("missing data", func(t *testing.T) {
		doc := validDoc()
		delete(firstNode(doc), "data")
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("MISSING_NODE_DATA"))
	})
}

func TestValidate_NodeLayout(t *testing.T) {
	t.Run("missing position", func(t *testing.T) {
		doc := validDoc()
		delete(firstNode(doc), "position")
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("MISSING_NODE_POSITION"))
	})

	t.Run("position not a mapping", func(t *testing.T) {
		doc := validDoc()
		firstNode(doc)["position"] = "80,282"
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INVALID_NODE_POSITION_TYPE"))
	})

	t.Run("incomplete position", func(t *testing.T) {
		doc := validDoc()
		firstNode(doc)["position"] = map[string]interface{}{"x": 80}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INCOMPLETE_NODE_POSITION"))
	})

	t.Run("non-numeric coordinates", func(t *testing.T) {
		doc := validDoc()
		firstNode(doc)["position"] = map[string]interface{}{"x": "left", "y": 282}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INVALID_NODE_POSITION_VALUES"))
	})

	t.Run("missing dimensions warns", func(t *testing.T) {
		doc := validDoc()
		delete(firstNode(doc), "width")
		result := validateDoc(t, doc)
		assert.True(t, result.Success)
		assert.True(t, result.HasWarningCode("MISSING_NODE_DIMENSIONS"))
	})
}

func TestValidate_EdgeDefects(t *testing.T) {
	t.Run("missing endpoints", func(t *testing.T) {
		doc := validDoc()
		graphSection(doc)["edges"] = []interface{}{map[string]interface{}{"id": "e1"}}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("MISSING_EDGE_SOURCE"))
		assert.True(t, result.HasErrorCode("MISSING_EDGE_TARGET"))
	})

	t.Run("nonexistent endpoints", func(t *testing.T) {
		doc := validDoc()
		graphSection(doc)["edges"] = []interface{}{map[string]interface{}{
			"id":     "e1",
			"source": "ghost",
			"target": "phantom",
		}}
		result := validateDoc(t, doc)
		require.True(t, result.HasErrorCode("INVALID_EDGE_SOURCE"))
		assert.True(t, result.HasErrorCode("INVALID_EDGE_TARGET"))
		assert.Contains(t, result.Errors[0].Message, "Edge references non-existent source node 'ghost'")
	})
}

func TestValidate_NodeSchemas(t *testing.T) {
	t.Run("unknown type warns", func(t *testing.T) {
		doc := validDoc()
		firstNode(doc)["data"] = map[string]interface{}{"type": "quantum", "title": "Q"}
		result := validateDoc(t, doc)
		assert.True(t, result.Success)
		assert.True(t, result.HasWarningCode("UNKNOWN_NODE_TYPE"))
	})

	t.Run("unavailable schema warns", func(t *testing.T) {
		doc := validDoc()
		firstNode(doc)["data"] = map[string]interface{}{"type": "agent", "title": "Agent"}
		result := validateDoc(t, doc)
		assert.True(t, result.Success)
		assert.True(t, result.HasWarningCode("NODE_SCHEMA_UNAVAILABLE"))
	})

	t.Run("missing required field errors", func(t *testing.T) {
		doc := validDoc()
		firstNode(doc)["data"] = map[string]interface{}{"type": "llm", "title": "LLM"}
		result := validateDoc(t, doc)
		assert.False(t, result.Success)
		require.True(t, result.HasErrorCode("NODE_VALIDATION_ERROR"))
		var fields []string
		for _, issue := range result.Errors {
			assert.Equal(t, StageNodeSchemaValidation, issue.Stage)
			fields = append(fields, issue.Details["field"].(string))
		}
		assert.Contains(t, fields, "model")
		assert.Contains(t, fields, "prompt_template")
	})

	t.Run("enum violation errors", func(t *testing.T) {
		doc := validDoc()
		firstNode(doc)["data"] = map[string]interface{}{
			"type":          "code",
			"title":         "Code",
			"code":          "print('hi')",
			"code_language": "cobol",
		}
		result := validateDoc(t, doc)
		assert.False(t, result.Success)
		require.True(t, result.HasErrorCode("NODE_VALIDATION_ERROR"))
		assert.Equal(t, "value_error", result.Errors[0].Details["error_type"])
	})
}

func TestValidate_Features(t *testing.T) {
	t.Run("file upload enabled without config warns", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["features"] = map[string]interface{}{
			"file_upload": map[string]interface{}{"enabled": true},
		}
		result := validateDoc(t, doc)
		assert.True(t, result.Success)
		assert.True(t, result.HasWarningCode("MISSING_FILE_UPLOAD_FIELD"))
		assert.True(t, result.HasWarningCode("MISSING_FILE_UPLOAD_CONFIG"))
	})

	t.Run("suggested questions must be a list", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["features"] = map[string]interface{}{
			"suggested_questions": "what can you do?",
		}
		result := validateDoc(t, doc)
		assert.False(t, result.Success)
		assert.True(t, result.HasErrorCode("INVALID_SUGGESTED_QUESTIONS_TYPE"))
	})
}

func TestValidate_Idempotent(t *testing.T) {
	doc := validDoc()
	firstNode(doc)["data"] = map[string]interface{}{"type": "llm", "title": "LLM"}
	delete(firstNode(doc), "width")

	content, err := yaml.Marshal(doc)
	require.NoError(t, err)

	first := New().Validate(string(content))
	second := New().Validate(string(content))
	assert.Equal(t, first, second)
}
