// Package mcpserver exposes workflow DSL validation and construction as MCP
// tools over stdio, so coding agents can build and check workflow documents
// without touching YAML serialization details themselves.
//
// The tool surface is stateless. Every construction tool accepts the current
// document as YAML text and returns the updated document the same way;
// inspection tools return JSON. Failures a caller can act on (parse errors,
// unknown node ids, invalid value types) come back as error tool results
// rather than protocol errors.
package mcpserver
