package validator

import (
	"fmt"
	"strings"

	"difydsl/internal/dsl"
)

// validateEnvironmentVariables checks the declared environment-variable list.
// Entry-level defects accumulate; a mistyped list produces a single
// list-level error instead of one per entry.
func (v *Validator) validateEnvironmentVariables(result *Result, workflow map[string]interface{}) {
	validateVariableList(result, workflow["environment_variables"], variableListRules{
		listName:          "environment_variables",
		listTypeCode:      "INVALID_ENVIRONMENT_VARIABLES_TYPE",
		entryTypeCode:     "INVALID_ENV_VAR_TYPE",
		missingFieldCode:  "MISSING_ENV_VAR_FIELD",
		valueTypeCode:     "INVALID_ENV_VAR_VALUE_TYPE",
		allowedValueTypes: dsl.EnvironmentVariableTypes,
	})
}

// validateConversationVariables checks the declared conversation-variable
// list with the wider conversation value-type set.
func (v *Validator) validateConversationVariables(result *Result, workflow map[string]interface{}) {
	validateVariableList(result, workflow["conversation_variables"], variableListRules{
		listName:          "conversation_variables",
		listTypeCode:      "INVALID_CONVERSATION_VARIABLES_TYPE",
		entryTypeCode:     "INVALID_CONVERSATION_VAR_TYPE",
		missingFieldCode:  "MISSING_CONVERSATION_VAR_FIELD",
		valueTypeCode:     "INVALID_CONVERSATION_VAR_VALUE_TYPE",
		allowedValueTypes: dsl.ConversationVariableTypes,
	})
}

// variableListRules parameterizes the shared list walk: environment and
// conversation variables differ only in codes and allowed value types.
type variableListRules struct {
	listName          string
	listTypeCode      string
	entryTypeCode     string
	missingFieldCode  string
	valueTypeCode     string
	allowedValueTypes []string
}

func validateVariableList(result *Result, raw interface{}, rules variableListRules) {
	if raw == nil {
		return
	}

	list, ok := raw.([]interface{})
	if !ok {
		result.addError(StageVariableValidation, rules.listTypeCode,
			fmt.Sprintf("workflow.%s must be a list", rules.listName))
		return
	}

	for idx, entryRaw := range list {
		entry, ok := entryRaw.(map[string]interface{})
		if !ok {
			result.addError(StageVariableValidation, rules.entryTypeCode,
				fmt.Sprintf("%s entry at index %d must be a mapping", rules.listName, idx))
			continue
		}

		varID := stringOr(entry["id"], fmt.Sprintf("%s[%d]", rules.listName, idx))

		for _, field := range []string{"id", "name", "value_type"} {
			if _, present := entry[field]; !present {
				result.addErrorDetails(StageVariableValidation, rules.missingFieldCode,
					fmt.Sprintf("%s entry '%s' is missing '%s' field", rules.listName, varID, field),
					map[string]interface{}{"index": idx, "field": field})
			}
		}

		if raw, present := entry["value_type"]; present {
			valueType, _ := raw.(string)
			if !containsString(rules.allowedValueTypes, valueType) {
				result.addErrorDetails(StageVariableValidation, rules.valueTypeCode,
					fmt.Sprintf("%s entry '%s' value_type must be one of: %s",
						rules.listName, varID, strings.Join(rules.allowedValueTypes, ", ")),
					map[string]interface{}{"index": idx, "value_type": valueType})
			}
		}
	}
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
