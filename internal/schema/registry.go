package schema

import (
	"sort"
	"sync"
)

// Status is the three-way outcome of a registry lookup.
type Status int

const (
	// StatusUnknown means the node type is not registered at all.
	StatusUnknown Status = iota
	// StatusAvailable means a validation capability is registered and usable.
	StatusAvailable
	// StatusUnavailable means the node type is known but its validation
	// capability could not be loaded; validation degrades to a warning.
	StatusUnavailable
)

// Registry maps node-type identifiers to their validation capabilities.
// It is read-only after construction, so concurrent lookups need no locking.
type Registry struct {
	nodes      map[string]Schema // nil value marks a registered-but-unavailable type
	dependency Schema
}

// NewRegistry builds a registry with every bundled node type registered.
// Plugin-backed node types whose field rules live in external plugin
// manifests are registered as unavailable.
func NewRegistry() *Registry {
	r := &Registry{nodes: make(map[string]Schema)}

	r.register("start", startNodeSchema())
	r.register("end", endNodeSchema())
	r.register("answer", answerNodeSchema())
	r.register("llm", llmNodeSchema())
	r.register("code", codeNodeSchema())
	r.register("template-transform", templateTransformNodeSchema())
	r.register("http-request", httpRequestNodeSchema())
	r.register("if-else", ifElseNodeSchema())
	r.register("tool", toolNodeSchema())
	r.register("question-classifier", questionClassifierNodeSchema())
	r.register("iteration", iterationNodeSchema())
	r.register("loop", loopNodeSchema())
	r.register("variable-aggregator", variableAggregatorNodeSchema())
	r.register("knowledge-retrieval", knowledgeRetrievalNodeSchema())
	r.register("parameter-extractor", parameterExtractorNodeSchema())
	r.register("list-operator", listOperatorNodeSchema())
	r.register("document-extractor", documentExtractorNodeSchema())

	// Plugin-backed types: recognized, but their schemas are not bundled.
	r.register("agent", nil)
	r.register("datasource", nil)
	r.register("knowledge-index", nil)
	r.register("human-input", nil)

	r.dependency = dependencySchema()

	return r
}

// register adds a node type. A nil schema marks the type as unavailable.
func (r *Registry) register(nodeType string, s Schema) {
	r.nodes[nodeType] = s
}

// Lookup resolves a node type to its capability and status.
func (r *Registry) Lookup(nodeType string) (Schema, Status) {
	s, ok := r.nodes[nodeType]
	if !ok {
		return nil, StatusUnknown
	}
	if s == nil {
		return nil, StatusUnavailable
	}
	return s, StatusAvailable
}

// DependencySchema returns the dependency-entry capability, if present.
func (r *Registry) DependencySchema() (Schema, bool) {
	if r.dependency == nil {
		return nil, false
	}
	return r.dependency, true
}

// NodeTypes returns all registered node types, sorted.
func (r *Registry) NodeTypes() []string {
	types := make([]string, 0, len(r.nodes))
	for t := range r.nodes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, initialized once at first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
