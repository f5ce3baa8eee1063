// Package logging provides a thin slog-backed logging layer with a
// subsystem tag on every entry. All output goes to a single configurable
// writer, stderr by default, so MCP stdio traffic on stdout stays clean.
package logging
