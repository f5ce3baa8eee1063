package dsl

import (
	"fmt"
	"strings"
)

// AppMode is the execution paradigm of a Dify application. Graph-based modes
// carry a workflow graph; conversational modes carry a model_config instead.
type AppMode string

const (
	AppModeCompletion   AppMode = "completion"
	AppModeChat         AppMode = "chat"
	AppModeAgentChat    AppMode = "agent-chat"
	AppModeAdvancedChat AppMode = "advanced-chat"
	AppModeWorkflow     AppMode = "workflow"
)

// AppModes returns all supported app modes in their canonical order.
func AppModes() []AppMode {
	return []AppMode{
		AppModeCompletion,
		AppModeChat,
		AppModeAgentChat,
		AppModeAdvancedChat,
		AppModeWorkflow,
	}
}

// AppModeStrings returns the supported app modes as plain strings, for tool
// responses and error messages.
func AppModeStrings() []string {
	modes := AppModes()
	out := make([]string, 0, len(modes))
	for _, m := range modes {
		out = append(out, string(m))
	}
	return out
}

// ParseAppMode converts a raw mode string into an AppMode, rejecting values
// outside the closed enumeration.
func ParseAppMode(raw string) (AppMode, error) {
	for _, m := range AppModes() {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid app mode: %s. Must be one of: %s", raw, strings.Join(AppModeStrings(), ", "))
}

// IsGraphMode reports whether the mode requires a workflow graph.
func (m AppMode) IsGraphMode() bool {
	return m == AppModeWorkflow || m == AppModeAdvancedChat
}

// RequiresModelConfig reports whether the mode requires a model_config block.
func (m AppMode) RequiresModelConfig() bool {
	return m == AppModeChat || m == AppModeAgentChat || m == AppModeCompletion
}
