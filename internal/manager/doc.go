// Package manager provides in-memory construction and editing of workflow
// documents. A Manager wraps one YAML document tree and exposes checked
// mutations: node and edge operations keep the graph referentially intact,
// variable operations enforce the allowed value types, and node construction
// helpers produce canvas-ready node mappings. Serialization round-trips
// preserve document fields the manager does not model.
package manager
