package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Dependencies(t *testing.T) {
	t.Run("absent dependencies are fine", func(t *testing.T) {
		result := validateDoc(t, validDoc())
		assert.True(t, result.Success)
	})

	t.Run("well-formed entry passes", func(t *testing.T) {
		doc := validDoc()
		doc["dependencies"] = []interface{}{
			map[string]interface{}{
				"type":               "marketplace",
				"value":              map[string]interface{}{"marketplace_plugin_unique_identifier": "langgenius/openai:0.2.5"},
				"current_identifier": nil,
			},
		}
		result := validateDoc(t, doc)
		assert.True(t, result.Success, "unexpected errors: %v", result.ErrorCodes())
	})

	t.Run("dependencies must be a list", func(t *testing.T) {
		doc := validDoc()
		doc["dependencies"] = map[string]interface{}{}
		result := validateDoc(t, doc)
		assert.True(t, result.HasErrorCode("INVALID_DEPENDENCIES_TYPE"))
	})

	t.Run("entry must be a mapping", func(t *testing.T) {
		doc := validDoc()
		doc["dependencies"] = []interface{}{"langgenius/openai"}
		result := validateDoc(t, doc)
		require.True(t, result.HasErrorCode("INVALID_DEPENDENCY_TYPE"))
		assert.Equal(t, "Dependency at index 0 must be a mapping", result.Errors[0].Message)
	})

	t.Run("schema violations carry index and field", func(t *testing.T) {
		doc := validDoc()
		doc["dependencies"] = []interface{}{
			map[string]interface{}{"type": "npm"},
		}
		result := validateDoc(t, doc)

		require.True(t, result.HasErrorCode("DEPENDENCY_VALIDATION_ERROR"))
		var fields []string
		var errorTypes []string
		for _, issue := range result.Errors {
			assert.Equal(t, StageDependencyValidation, issue.Stage)
			assert.Equal(t, 0, issue.Details["dependency_index"])
			fields = append(fields, issue.Details["field"].(string))
			errorTypes = append(errorTypes, issue.Details["error_type"].(string))
		}
		assert.ElementsMatch(t, []string{"type", "value"}, fields)
		assert.ElementsMatch(t, []string{"value_error", "missing"}, errorTypes)
	})
}
