package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppMode(t *testing.T) {
	for _, mode := range AppModes() {
		parsed, err := ParseAppMode(string(mode))
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := ParseAppMode("turbo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid app mode: turbo")
	assert.Contains(t, err.Error(), "workflow")
}

func TestAppMode_Classification(t *testing.T) {
	tests := []struct {
		mode        AppMode
		graph       bool
		modelConfig bool
	}{
		{AppModeWorkflow, true, false},
		{AppModeAdvancedChat, true, false},
		{AppModeChat, false, true},
		{AppModeAgentChat, false, true},
		{AppModeCompletion, false, true},
	}

	for _, test := range tests {
		assert.Equal(t, test.graph, test.mode.IsGraphMode(), test.mode)
		assert.Equal(t, test.modelConfig, test.mode.RequiresModelConfig(), test.mode)
	}
}
