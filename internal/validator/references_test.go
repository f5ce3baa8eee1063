package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docWithReference returns a valid two-node document whose end node embeds
// the given answer-style template in a data field.
func docWithReference(template string) map[string]interface{} {
	doc := validDoc()
	nodes := graphSection(doc)["nodes"].([]interface{})
	end := nodes[1].(map[string]interface{})
	end["data"].(map[string]interface{})["outputs"] = []interface{}{
		map[string]interface{}{
			"variable":       "result",
			"value_selector": []interface{}{"start", "query"},
		},
	}
	end["data"].(map[string]interface{})["desc"] = template
	return doc
}

func TestValidate_VariableReferences(t *testing.T) {
	t.Run("reference to existing node passes", func(t *testing.T) {
		doc := docWithReference("Result: {{#start.query#}}")
		result := validateDoc(t, doc)
		assert.True(t, result.Success, "unexpected errors: %v", result.ErrorCodes())
	})

	t.Run("reference to missing node errors", func(t *testing.T) {
		doc := docWithReference("Result: {{#ghost.text#}}")
		result := validateDoc(t, doc)

		assert.False(t, result.Success)
		require.True(t, result.HasErrorCode("UNDEFINED_NODE_REFERENCE"))
		issue := result.Errors[0]
		assert.Equal(t, StageReferenceValidation, issue.Stage)
		assert.Equal(t, "ghost", issue.Details["referenced_node_id"])
		assert.Equal(t, "end", issue.Details["node_id"])
		assert.Equal(t, "{{#ghost.text#}}", issue.Details["reference"])
		assert.Equal(t, "data.desc", issue.Details["path"])
	})

	t.Run("environment reference resolves against declarations", func(t *testing.T) {
		doc := docWithReference("Key: {{#env.api_key#}}")
		result := validateDoc(t, doc)
		require.True(t, result.HasErrorCode("UNDEFINED_ENVIRONMENT_VARIABLE"))
		assert.Equal(t, "api_key", result.Errors[0].Details["variable_id"])

		workflowSection(doc)["environment_variables"] = []interface{}{
			envVar("api_key", "API_KEY", "secret"),
		}
		result = validateDoc(t, doc)
		assert.True(t, result.Success)
	})

	t.Run("conversation reference resolves against declarations", func(t *testing.T) {
		doc := docWithReference("So far: {{#conversation.history#}}")
		result := validateDoc(t, doc)
		require.True(t, result.HasErrorCode("UNDEFINED_CONVERSATION_VARIABLE"))

		workflowSection(doc)["conversation_variables"] = []interface{}{
			envVar("history", "history", "array[object]"),
		}
		result = validateDoc(t, doc)
		assert.True(t, result.Success)
	})

	t.Run("environment variable id is the whole remainder", func(t *testing.T) {
		// env selectors have no sub-paths: a trailing segment makes the
		// reference point at a different, undeclared id
		doc := docWithReference("Key: {{#env.api_key.extra#}}")
		workflowSection(doc)["environment_variables"] = []interface{}{
			envVar("api_key", "API_KEY", "secret"),
		}
		result := validateDoc(t, doc)

		require.True(t, result.HasErrorCode("UNDEFINED_ENVIRONMENT_VARIABLE"),
			"errors: %v", result.ErrorCodes())
		assert.Equal(t, "api_key.extra", result.Errors[0].Details["variable_id"])
	})

	t.Run("conversation variable id is the whole remainder", func(t *testing.T) {
		doc := docWithReference("So far: {{#conversation.history.length#}}")
		workflowSection(doc)["conversation_variables"] = []interface{}{
			envVar("history", "history", "array[object]"),
		}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("UNDEFINED_CONVERSATION_VARIABLE"))
	})

	t.Run("references inside nested lists carry bracketed paths", func(t *testing.T) {
		doc := validDoc()
		start := firstNode(doc)
		start["data"].(map[string]interface{})["variables"] = []interface{}{
			map[string]interface{}{
				"variable": "greeting",
				"default":  "{{#ghost.text#}}",
			},
		}
		result := validateDoc(t, doc)
		require.True(t, result.HasErrorCode("UNDEFINED_NODE_REFERENCE"))
		assert.Equal(t, "data.variables[0].default", result.Errors[0].Details["path"])
	})

	t.Run("plain text with braces is ignored", func(t *testing.T) {
		doc := docWithReference("Hello {{name}}, this is {not a reference}")
		result := validateDoc(t, doc)
		assert.True(t, result.Success)
	})
}
