package validator

import (
	"fmt"

	"difydsl/internal/schema"
)

// validateGraph checks the workflow graph: container types first (fatal),
// then per-node and per-edge rules, which accumulate without aborting.
// Returns the node list for downstream stages, or ok=false when the graph
// containers are too malformed to inspect further.
func (v *Validator) validateGraph(result *Result, workflow map[string]interface{}) ([]interface{}, bool) {
	graphRaw, present := workflow["graph"]
	if !present || graphRaw == nil {
		graphRaw = map[string]interface{}{}
	}
	graph, ok := graphRaw.(map[string]interface{})
	if !ok {
		result.addError(StageWorkflowValidation, "INVALID_GRAPH_TYPE", "Workflow graph must be a mapping")
		return nil, false
	}

	nodesRaw, present := graph["nodes"]
	if !present || nodesRaw == nil {
		nodesRaw = []interface{}{}
	}
	nodes, ok := nodesRaw.([]interface{})
	if !ok {
		result.addError(StageWorkflowValidation, "INVALID_NODES_TYPE", "Workflow nodes must be a list")
		return nil, false
	}

	edgesRaw, present := graph["edges"]
	if !present || edgesRaw == nil {
		edgesRaw = []interface{}{}
	}
	edges, ok := edgesRaw.([]interface{})
	if !ok {
		result.addError(StageWorkflowValidation, "INVALID_EDGES_TYPE", "Workflow edges must be a list")
		return nil, false
	}

	result.Info["node_count"] = len(nodes)
	result.Info["edge_count"] = len(edges)

	seenIDs := map[string]bool{}
	for idx, nodeRaw := range nodes {
		node, ok := nodeRaw.(map[string]interface{})
		if !ok {
			result.addError(StageWorkflowValidation, "INVALID_NODE_TYPE",
				fmt.Sprintf("Node at index %d must be a mapping", idx))
			continue
		}

		nodeID := stringOr(node["id"], fmt.Sprintf("node_%d", idx))

		if _, present := node["id"]; !present {
			result.addError(StageWorkflowValidation, "MISSING_NODE_ID",
				fmt.Sprintf("Node at index %d is missing 'id' field", idx))
		} else if id, ok := node["id"].(string); ok {
			if seenIDs[id] {
				result.addErrorDetails(StageWorkflowValidation, "DUPLICATE_NODE_ID",
					fmt.Sprintf("Node id '%s' is declared more than once", id),
					map[string]interface{}{"node_id": id})
			}
			seenIDs[id] = true
		}

		data, dataOK := node["data"].(map[string]interface{})
		if !dataOK {
			result.addError(StageWorkflowValidation, "MISSING_NODE_DATA",
				fmt.Sprintf("Node '%s' is missing or has invalid 'data' field", nodeID))
		} else {
			v.validateNodeData(result, nodeID, data)
		}

		v.validateNodeLayout(result, nodeID, node)
	}

	nodeIDs := collectNodeIDs(nodes)
	for idx, edgeRaw := range edges {
		edge, ok := edgeRaw.(map[string]interface{})
		if !ok {
			result.addError(StageWorkflowValidation, "INVALID_EDGE_TYPE",
				fmt.Sprintf("Edge at index %d must be a mapping", idx))
			continue
		}

		source := stringOr(edge["source"], "")
		target := stringOr(edge["target"], "")

		if source == "" {
			result.addError(StageWorkflowValidation, "MISSING_EDGE_SOURCE",
				fmt.Sprintf("Edge at index %d is missing 'source' field", idx))
		}
		if target == "" {
			result.addError(StageWorkflowValidation, "MISSING_EDGE_TARGET",
				fmt.Sprintf("Edge at index %d is missing 'target' field", idx))
		}

		if source != "" && !nodeIDs[source] {
			result.addError(StageWorkflowValidation, "INVALID_EDGE_SOURCE",
				fmt.Sprintf("Edge references non-existent source node '%s'", source))
		}
		if target != "" && !nodeIDs[target] {
			result.addError(StageWorkflowValidation, "INVALID_EDGE_TARGET",
				fmt.Sprintf("Edge references non-existent target node '%s'", target))
		}
	}

	return nodes, true
}

// validateNodeData runs the node-type schema capability against the node's
// data mapping. Unknown and unavailable schemas degrade to warnings so that
// documents using plugin node types still get everything else validated.
func (v *Validator) validateNodeData(result *Result, nodeID string, data map[string]interface{}) {
	nodeType, _ := data["type"].(string)

	s, status := v.registry.Lookup(nodeType)
	switch status {
	case schema.StatusUnknown:
		result.addWarningDetails(StageNodeSchemaValidation, "UNKNOWN_NODE_TYPE",
			fmt.Sprintf("Node '%s' has unknown type '%s', structural validation skipped", nodeID, nodeType),
			map[string]interface{}{"node_id": nodeID, "node_type": nodeType})
	case schema.StatusUnavailable:
		result.addWarningDetails(StageNodeSchemaValidation, "NODE_SCHEMA_UNAVAILABLE",
			fmt.Sprintf("Schema validation unavailable for node '%s' of type '%s'", nodeID, nodeType),
			map[string]interface{}{"node_id": nodeID, "node_type": nodeType})
	case schema.StatusAvailable:
		for _, violation := range s.Validate(data) {
			result.addErrorDetails(StageNodeSchemaValidation, "NODE_VALIDATION_ERROR",
				fmt.Sprintf("Node '%s' (%s): field '%s' %s", nodeID, nodeType, violation.Field, violation.Message),
				map[string]interface{}{
					"node_id":    nodeID,
					"node_type":  nodeType,
					"field":      violation.Field,
					"error_type": violation.ErrorType,
				})
		}
	}
}

// validateNodeLayout checks the canvas fields the frontend depends on.
// A broken position skips the dimension warning, since the node needs manual
// repair anyway.
func (v *Validator) validateNodeLayout(result *Result, nodeID string, node map[string]interface{}) {
	positionRaw, present := node["position"]
	if !present {
		result.addError(StageFrontendCompatibility, "MISSING_NODE_POSITION",
			fmt.Sprintf("Node '%s' is missing 'position' field required by frontend", nodeID))
		return
	}

	position, ok := positionRaw.(map[string]interface{})
	if !ok {
		result.addError(StageFrontendCompatibility, "INVALID_NODE_POSITION_TYPE",
			fmt.Sprintf("Node '%s' position must be a mapping with x and y coordinates", nodeID))
		return
	}

	xRaw, hasX := position["x"]
	yRaw, hasY := position["y"]
	if !hasX || !hasY {
		result.addError(StageFrontendCompatibility, "INCOMPLETE_NODE_POSITION",
			fmt.Sprintf("Node '%s' position must have both 'x' and 'y' coordinates", nodeID))
		return
	}

	if !isNumeric(xRaw) || !isNumeric(yRaw) {
		result.addError(StageFrontendCompatibility, "INVALID_NODE_POSITION_VALUES",
			fmt.Sprintf("Node '%s' position x and y must be numeric values", nodeID))
	}

	_, hasWidth := node["width"]
	_, hasHeight := node["height"]
	if !hasWidth || !hasHeight {
		result.addWarning(StageFrontendCompatibility, "MISSING_NODE_DIMENSIONS",
			fmt.Sprintf("Node '%s' is missing 'width' or 'height'. Frontend will calculate these dynamically.", nodeID))
	}
}

// validateFeatures checks workflow.features for frontend compatibility.
func (v *Validator) validateFeatures(result *Result, workflow map[string]interface{}) {
	features, ok := workflow["features"].(map[string]interface{})
	if !ok {
		return
	}

	if fileUpload, ok := features["file_upload"].(map[string]interface{}); ok && isTruthy(fileUpload["enabled"]) {
		for _, field := range []string{"allowed_file_types", "allowed_file_extensions", "allowed_file_upload_methods"} {
			raw, present := fileUpload[field]
			if !present {
				result.addWarning(StageFrontendCompatibility, "MISSING_FILE_UPLOAD_FIELD",
					fmt.Sprintf("file_upload.%s is missing. Frontend may use default values.", field))
				continue
			}
			if _, isList := raw.([]interface{}); !isList {
				result.addWarning(StageFrontendCompatibility, "INVALID_FILE_UPLOAD_FIELD_TYPE",
					fmt.Sprintf("file_upload.%s should be an array", field))
			}
		}

		if _, present := fileUpload["fileUploadConfig"]; !present {
			result.addWarning(StageFrontendCompatibility, "MISSING_FILE_UPLOAD_CONFIG",
				"file_upload.fileUploadConfig is missing. Frontend may use default values.")
		}

		if image, ok := fileUpload["image"].(map[string]interface{}); ok && isTruthy(image["enabled"]) {
			if _, isList := image["transfer_methods"].([]interface{}); !isList {
				result.addWarning(StageFrontendCompatibility, "MISSING_IMAGE_TRANSFER_METHODS",
					"file_upload.image.transfer_methods should be an array")
			}
		}
	}

	if suggested, present := features["suggested_questions"]; present && suggested != nil {
		if _, isList := suggested.([]interface{}); !isList {
			result.addError(StageFrontendCompatibility, "INVALID_SUGGESTED_QUESTIONS_TYPE",
				"features.suggested_questions must be an array")
		}
	}
}

// collectNodeIDs gathers the ids of all well-formed nodes, for edge and
// reference resolution.
func collectNodeIDs(nodes []interface{}) map[string]bool {
	ids := map[string]bool{}
	for _, nodeRaw := range nodes {
		node, ok := nodeRaw.(map[string]interface{})
		if !ok {
			continue
		}
		if id, ok := node["id"].(string); ok && id != "" {
			ids[id] = true
		}
	}
	return ids
}

func isNumeric(raw interface{}) bool {
	switch raw.(type) {
	case int, int64, uint64, float64:
		return true
	}
	return false
}

func isTruthy(raw interface{}) bool {
	b, ok := raw.(bool)
	return ok && b
}
