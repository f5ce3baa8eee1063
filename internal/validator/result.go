package validator

// Validation stages. Every Issue names the stage that produced it so callers
// can group diagnostics by pipeline phase.
const (
	StageSizeCheck             = "size_check"
	StageContentCheck          = "content_check"
	StageYAMLParsing           = "yaml_parsing"
	StageVersionCheck          = "version_check"
	StageSchemaValidation      = "schema_validation"
	StageWorkflowValidation    = "workflow_validation"
	StageFrontendCompatibility = "frontend_compatibility"
	StageNodeSchemaValidation  = "node_schema_validation"
	StageDependencyValidation  = "dependency_validation"
	StageVariableValidation    = "variable_validation"
	StageReferenceValidation   = "reference_validation"
	StageUnexpectedError       = "unexpected_error"
)

// Issue is a single validation finding. Issues are immutable once appended.
type Issue struct {
	Stage   string                 `json:"stage" yaml:"stage"`
	Code    string                 `json:"code" yaml:"code"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// Result accumulates errors, warnings, and diagnostic info across all
// validation stages. A fresh Result is created per validation call; Success
// is computed once at the end as "no errors". Warnings never block success.
type Result struct {
	Success  bool                   `json:"success" yaml:"success"`
	Errors   []Issue                `json:"errors" yaml:"errors"`
	Warnings []Issue                `json:"warnings" yaml:"warnings"`
	Info     map[string]interface{} `json:"info" yaml:"info"`
}

func newResult() *Result {
	return &Result{
		Errors:   []Issue{},
		Warnings: []Issue{},
		Info:     map[string]interface{}{},
	}
}

// HasErrors reports whether any error has been accumulated so far.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorCodes returns the accumulated error codes in order. Test helper
// callers use it to assert on specific findings.
func (r *Result) ErrorCodes() []string {
	codes := make([]string, 0, len(r.Errors))
	for _, issue := range r.Errors {
		codes = append(codes, issue.Code)
	}
	return codes
}

// HasErrorCode reports whether an error with the given code was accumulated.
func (r *Result) HasErrorCode(code string) bool {
	for _, issue := range r.Errors {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// HasWarningCode reports whether a warning with the given code was
// accumulated.
func (r *Result) HasWarningCode(code string) bool {
	for _, issue := range r.Warnings {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func (r *Result) addError(stage, code, message string) {
	r.Errors = append(r.Errors, Issue{Stage: stage, Code: code, Message: message})
}

func (r *Result) addErrorDetails(stage, code, message string, details map[string]interface{}) {
	r.Errors = append(r.Errors, Issue{Stage: stage, Code: code, Message: message, Details: details})
}

func (r *Result) addWarning(stage, code, message string) {
	r.Warnings = append(r.Warnings, Issue{Stage: stage, Code: code, Message: message})
}

func (r *Result) addWarningDetails(stage, code, message string, details map[string]interface{}) {
	r.Warnings = append(r.Warnings, Issue{Stage: stage, Code: code, Message: message, Details: details})
}
