// Package validator implements the workflow DSL validation pipeline.
//
// Validation runs in ordered stages. Structural stages (size, content, YAML
// parsing, version, app block) abort on the first fatal defect because later
// stages cannot interpret a document whose shape is broken. Once the shape is
// trusted, the remaining stages accumulate every finding they can: graph
// integrity, node schemas, frontend layout compatibility, declared variables,
// embedded variable references, and plugin dependencies.
//
// Findings are split into errors and warnings. Errors make the document
// invalid; warnings flag likely problems (version skew, missing canvas
// dimensions, unknown plugin node types) that the platform tolerates on
// import. Success is simply the absence of errors.
package validator
