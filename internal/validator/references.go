package validator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// referencePattern matches variable reference tokens embedded in string
// values: a selector of dot-separated segments wrapped in {{# ... #}}. The
// head segment identifies the source (env, conversation, or a node id).
var referencePattern = regexp.MustCompile(`\{\{#([a-zA-Z0-9_]{1,50}(?:\.[a-zA-Z_][a-zA-Z0-9_]{0,29}){1,10})#\}\}`)

// validateVariableReferences walks every node's data tree and resolves each
// embedded reference token against the declared environment variables,
// conversation variables, and node ids. Map keys are visited in sorted order
// so repeated runs over the same document report issues identically.
func (v *Validator) validateVariableReferences(result *Result, workflow map[string]interface{}, nodes []interface{}) {
	envIDs := collectVariableIDs(workflow["environment_variables"])
	convIDs := collectVariableIDs(workflow["conversation_variables"])
	nodeIDs := collectNodeIDs(nodes)

	for idx, nodeRaw := range nodes {
		node, ok := nodeRaw.(map[string]interface{})
		if !ok {
			continue
		}
		data, ok := node["data"].(map[string]interface{})
		if !ok {
			continue
		}
		nodeID := stringOr(node["id"], fmt.Sprintf("node_%d", idx))

		walkReferences(data, "data", func(path, value string) {
			checkReferences(result, nodeID, path, value, envIDs, convIDs, nodeIDs)
		})
	}
}

// checkReferences scans a single string value for reference tokens and
// reports each unresolved one.
func checkReferences(result *Result, nodeID, path, value string, envIDs, convIDs, nodeIDs map[string]bool) {
	for _, match := range referencePattern.FindAllStringSubmatch(value, -1) {
		selector := match[1]

		head, rest, found := strings.Cut(selector, ".")
		if !found {
			result.addWarningDetails(StageReferenceValidation, "INVALID_VARIABLE_REFERENCE_FORMAT",
				fmt.Sprintf("Node '%s' at %s: reference '%s' has no variable selector", nodeID, path, match[0]),
				map[string]interface{}{"node_id": nodeID, "reference": match[0], "path": path})
			continue
		}

		switch head {
		case "env":
			// the entire remainder is the variable id; env selectors have
			// no sub-paths
			if !envIDs[rest] {
				result.addErrorDetails(StageReferenceValidation, "UNDEFINED_ENVIRONMENT_VARIABLE",
					fmt.Sprintf("Node '%s' at %s references undefined environment variable '%s'", nodeID, path, rest),
					map[string]interface{}{"node_id": nodeID, "variable_id": rest, "reference": match[0], "path": path})
			}
		case "conversation":
			if !convIDs[rest] {
				result.addErrorDetails(StageReferenceValidation, "UNDEFINED_CONVERSATION_VARIABLE",
					fmt.Sprintf("Node '%s' at %s references undefined conversation variable '%s'", nodeID, path, rest),
					map[string]interface{}{"node_id": nodeID, "variable_id": rest, "reference": match[0], "path": path})
			}
		default:
			if !nodeIDs[head] {
				result.addErrorDetails(StageReferenceValidation, "UNDEFINED_NODE_REFERENCE",
					fmt.Sprintf("Node '%s' at %s references non-existent node '%s'", nodeID, path, head),
					map[string]interface{}{"node_id": nodeID, "referenced_node_id": head, "reference": match[0], "path": path})
			}
		}
	}
}

// walkReferences recursively visits every string value in a YAML data tree,
// tracking a dotted/bracketed path for diagnostics.
func walkReferences(value interface{}, path string, visit func(path, value string)) {
	switch typed := value.(type) {
	case string:
		visit(path, typed)
	case map[string]interface{}:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			walkReferences(typed[key], path+"."+key, visit)
		}
	case []interface{}:
		for idx, element := range typed {
			walkReferences(element, fmt.Sprintf("%s[%d]", path, idx), visit)
		}
	}
}

// collectVariableIDs gathers the ids of well-formed variable declarations.
// Malformed entries are skipped here; the variable validators already report
// them.
func collectVariableIDs(raw interface{}) map[string]bool {
	ids := map[string]bool{}
	list, ok := raw.([]interface{})
	if !ok {
		return ids
	}
	for _, entryRaw := range list {
		entry, ok := entryRaw.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := entry["id"].(string); ok && id != "" {
			ids[id] = true
		}
	}
	return ids
}
