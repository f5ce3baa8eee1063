package validator

import (
	"fmt"
)

// validateDependencies checks the optional top-level plugin dependency list.
// Absent dependencies are fine; a declared list must hold mappings matching
// the dependency schema.
func (v *Validator) validateDependencies(result *Result, raw interface{}) {
	if raw == nil {
		return
	}

	list, ok := raw.([]interface{})
	if !ok {
		result.addError(StageDependencyValidation, "INVALID_DEPENDENCIES_TYPE",
			"dependencies must be a list")
		return
	}

	depSchema, hasSchema := v.registry.DependencySchema()
	for idx, entryRaw := range list {
		entry, ok := entryRaw.(map[string]interface{})
		if !ok {
			result.addError(StageDependencyValidation, "INVALID_DEPENDENCY_TYPE",
				fmt.Sprintf("Dependency at index %d must be a mapping", idx))
			continue
		}

		if !hasSchema {
			if _, present := entry["type"]; !present {
				result.addError(StageDependencyValidation, "MISSING_DEPENDENCY_TYPE",
					fmt.Sprintf("Dependency at index %d is missing 'type' field", idx))
			}
			if _, present := entry["value"]; !present {
				result.addError(StageDependencyValidation, "MISSING_DEPENDENCY_VALUE",
					fmt.Sprintf("Dependency at index %d is missing 'value' field", idx))
			}
			continue
		}

		for _, violation := range depSchema.Validate(entry) {
			result.addErrorDetails(StageDependencyValidation, "DEPENDENCY_VALIDATION_ERROR",
				fmt.Sprintf("Dependency at index %d: field '%s' %s", idx, violation.Field, violation.Message),
				map[string]interface{}{
					"dependency_index": idx,
					"field":            violation.Field,
					"error_type":       violation.ErrorType,
				})
		}
	}
}
