// Package schema holds the node-type schema registry: the pluggable
// structural validation capability keyed by node-type string.
//
// A registry lookup has exactly three outcomes, and the validator depends on
// nothing else:
//
//   - available: a Schema whose Validate returns field-level violations
//   - unavailable: the type is known but its schema is not bundled (the
//     validator degrades to a warning for such nodes)
//   - unknown: the type is not registered at all
//
// Schemas are declarative field tables (required flags, YAML shape checks,
// optional enums). The registry is constructed once and never mutated, so it
// is safe for concurrent use without locking.
package schema
