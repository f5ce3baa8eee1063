package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envVar(id, name, valueType string) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"name":       name,
		"value_type": valueType,
		"value":      "x",
	}
}

func TestValidate_EnvironmentVariables(t *testing.T) {
	t.Run("well-formed list passes", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["environment_variables"] = []interface{}{
			envVar("api_key", "API_KEY", "secret"),
			envVar("base_url", "BASE_URL", "string"),
		}
		result := validateDoc(t, doc)
		assert.True(t, result.Success)
	})

	t.Run("list type error", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["environment_variables"] = "nope"
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INVALID_ENVIRONMENT_VARIABLES_TYPE"))
	})

	t.Run("entry type error", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["environment_variables"] = []interface{}{"nope"}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INVALID_ENV_VAR_TYPE"))
	})

	t.Run("missing fields reported per field", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["environment_variables"] = []interface{}{
			map[string]interface{}{"id": "lonely"},
		}
		result := validateDoc(t, doc)

		var missing []string
		for _, issue := range result.Errors {
			if issue.Code == "MISSING_ENV_VAR_FIELD" {
				assert.Equal(t, StageVariableValidation, issue.Stage)
				assert.Equal(t, 0, issue.Details["index"])
				missing = append(missing, issue.Details["field"].(string))
			}
		}
		assert.ElementsMatch(t, []string{"name", "value_type"}, missing)
	})

	t.Run("invalid value type", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["environment_variables"] = []interface{}{
			envVar("flag", "FLAG", "boolean"),
		}
		result := validateDoc(t, doc)
		require.True(t, result.HasErrorCode("INVALID_ENV_VAR_VALUE_TYPE"))
		assert.Contains(t, result.Errors[0].Message, "string, number, secret")
	})
}

func TestValidate_ConversationVariables(t *testing.T) {
	t.Run("list type error", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["conversation_variables"] = map[string]interface{}{}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INVALID_CONVERSATION_VARIABLES_TYPE"))
	})

	t.Run("value type set is wider than environment", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["conversation_variables"] = []interface{}{
			envVar("history", "history", "array[object]"),
		}
		result := validateDoc(t, doc)
		assert.True(t, result.Success)

		workflowSection(doc)["conversation_variables"] = []interface{}{
			envVar("token", "token", "secret"),
		}
		result = validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INVALID_CONVERSATION_VAR_VALUE_TYPE"))
	})

	t.Run("missing fields", func(t *testing.T) {
		doc := validDoc()
		workflowSection(doc)["conversation_variables"] = []interface{}{
			map[string]interface{}{"name": "anon"},
		}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("MISSING_CONVERSATION_VAR_FIELD"))
	})
}
