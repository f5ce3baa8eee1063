package dsl

// CurrentDSLVersion is the DSL version this tool targets. Documents with a
// newer or older version still validate, but produce version-skew warnings.
const CurrentDSLVersion = "0.4.0"

// DefaultImportVersion is assumed for documents that omit the version field.
const DefaultImportVersion = "0.1.0"

// MaxDSLSize is the hard ceiling on document size, enforced before parsing.
const MaxDSLSize = 10 * 1024 * 1024 // 10MiB

// Kind is the only accepted resource kind. Documents with a missing or
// different kind are normalized rather than rejected.
const Kind = "app"

// EnvironmentVariableTypes lists the allowed value_type values for
// environment variables.
var EnvironmentVariableTypes = []string{"string", "number", "secret"}

// ConversationVariableTypes lists the allowed value_type values for
// conversation variables.
var ConversationVariableTypes = []string{
	"string",
	"number",
	"array[string]",
	"array[number]",
	"array[object]",
	"object",
}
