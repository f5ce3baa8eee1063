package validator

import (
	"fmt"
	"strings"

	"difydsl/internal/dsl"
	"difydsl/internal/schema"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Validator is the DSL validation engine. It is stateless apart from the
// read-only schema registry, so a single instance serves concurrent callers.
type Validator struct {
	registry *schema.Registry
}

// New creates a validator backed by the process-wide schema registry.
func New() *Validator {
	return &Validator{registry: schema.Default()}
}

// NewWithRegistry creates a validator with a custom registry. Used by tests
// to exercise the unavailable-schema and missing-capability paths.
func NewWithRegistry(registry *schema.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate runs the full validation pipeline over raw YAML content and
// returns the accumulated result. It never returns a Go error: anything
// unanticipated is caught and surfaced as a single VALIDATION_ERROR issue.
func (v *Validator) Validate(content string) (result *Result) {
	result = newResult()

	defer func() {
		if rec := recover(); rec != nil {
			result.addError(StageUnexpectedError, "VALIDATION_ERROR", fmt.Sprint(rec))
			result.Success = false
		}
	}()

	v.run(content, result)
	result.Success = !result.HasErrors()
	return result
}

// run executes the pipeline: structural checks short-circuit on the first
// fatal defect; once the document shape is trusted, the remaining stages
// accumulate everything they find.
func (v *Validator) run(content string, result *Result) {
	if len(content) > dsl.MaxDSLSize {
		result.addError(StageSizeCheck, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds the limit of %dMB", dsl.MaxDSLSize/1024/1024))
		return
	}

	if strings.TrimSpace(content) == "" {
		result.addError(StageContentCheck, "EMPTY_CONTENT", "Empty YAML content")
		return
	}

	var raw interface{}
	if err := yaml.Unmarshal([]byte(content), &raw); err != nil {
		result.addError(StageYAMLParsing, "YAML_SYNTAX_ERROR",
			fmt.Sprintf("Invalid YAML format: %v", err))
		return
	}

	doc, ok := raw.(map[string]interface{})
	if !ok {
		result.addError(StageYAMLParsing, "INVALID_YAML_TYPE",
			"Invalid YAML format: content must be a mapping")
		return
	}

	version, ok := v.checkVersion(doc, result)
	if !ok {
		return
	}
	result.Info["dsl_version"] = version

	mode, ok := v.checkApp(doc, result)
	if !ok {
		return
	}

	if mode.IsGraphMode() {
		workflow, ok := doc["workflow"].(map[string]interface{})
		if !ok || len(workflow) == 0 {
			result.addError(StageSchemaValidation, "MISSING_WORKFLOW_DATA",
				"Missing workflow data for workflow/advanced chat app")
			return
		}

		nodes, ok := v.validateGraph(result, workflow)
		if !ok {
			return
		}

		v.validateFeatures(result, workflow)
		v.validateEnvironmentVariables(result, workflow)
		v.validateConversationVariables(result, workflow)
		v.validateVariableReferences(result, workflow, nodes)
	} else if mode.RequiresModelConfig() {
		if _, present := doc["model_config"]; !present {
			result.addError(StageSchemaValidation, "MISSING_MODEL_CONFIG",
				fmt.Sprintf("Missing model_config for %s app", mode))
			return
		}
	}

	v.validateDependencies(result, doc["dependencies"])
}

// checkVersion normalizes the version field (defaulting when absent) and
// validates its type and format. Version skew against the current DSL
// version only warns, matching the import behavior of the platform.
func (v *Validator) checkVersion(doc map[string]interface{}, result *Result) (string, bool) {
	var version string
	switch raw := doc["version"].(type) {
	case nil:
		version = dsl.DefaultImportVersion
	case string:
		version = raw
		if version == "" {
			version = dsl.DefaultImportVersion
		}
	default:
		result.addError(StageVersionCheck, "INVALID_VERSION_TYPE",
			fmt.Sprintf("Invalid version type, expected string, got %T", raw))
		return "", false
	}

	imported, err := semver.NewVersion(version)
	if err != nil {
		result.Info["dsl_version"] = version
		result.addError(StageVersionCheck, "INVALID_VERSION_FORMAT",
			fmt.Sprintf("Invalid version format: %s", version))
		return "", false
	}

	current := semver.MustParse(dsl.CurrentDSLVersion)
	skewDetails := map[string]interface{}{
		"imported_version": version,
		"current_version":  dsl.CurrentDSLVersion,
	}
	switch {
	case imported.GreaterThan(current):
		result.addWarningDetails(StageVersionCheck, "VERSION_NEWER",
			fmt.Sprintf("DSL version %s is newer than current %s. User confirmation may be required.",
				version, dsl.CurrentDSLVersion), skewDetails)
	case imported.Major() < current.Major():
		result.addWarningDetails(StageVersionCheck, "VERSION_MAJOR_MISMATCH",
			fmt.Sprintf("DSL version %s has different major version. User confirmation may be required.",
				version), skewDetails)
	case imported.Minor() < current.Minor():
		result.addWarningDetails(StageVersionCheck, "VERSION_MINOR_OLDER",
			fmt.Sprintf("DSL version %s is older than current %s", version, dsl.CurrentDSLVersion),
			skewDetails)
	}

	return version, true
}

// checkApp validates the app block and resolves the app mode.
func (v *Validator) checkApp(doc map[string]interface{}, result *Result) (dsl.AppMode, bool) {
	appData, ok := doc["app"].(map[string]interface{})
	if !ok || len(appData) == 0 {
		result.addError(StageSchemaValidation, "MISSING_APP_DATA", "Missing app data in YAML content")
		return "", false
	}

	modeRaw, present := appData["mode"]
	if !present || modeRaw == nil || modeRaw == "" {
		result.addError(StageSchemaValidation, "MISSING_APP_MODE", "Missing app mode")
		return "", false
	}

	modeStr, ok := modeRaw.(string)
	if !ok {
		result.addError(StageSchemaValidation, "INVALID_APP_MODE",
			fmt.Sprintf("invalid app mode: %v. Must be one of: %s", modeRaw, strings.Join(dsl.AppModeStrings(), ", ")))
		return "", false
	}

	mode, err := dsl.ParseAppMode(modeStr)
	if err != nil {
		result.addError(StageSchemaValidation, "INVALID_APP_MODE", err.Error())
		return "", false
	}

	result.Info["app_mode"] = modeStr
	return mode, true
}

// stringOr returns the value as a string, or the fallback when it is not one.
func stringOr(raw interface{}, fallback string) string {
	if s, ok := raw.(string); ok && s != "" {
		return s
	}
	return fallback
}
