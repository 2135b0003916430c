package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptRequest(args map[string]string) mcp.GetPromptRequest {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = args
	return req
}

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, mcp.RoleUser, result.Messages[0].Role)
	tc, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestCreateAutomationPrompt(t *testing.T) {
	p := NewPrompts()

	result, err := p.createAutomationHandler(context.Background(), promptRequest(map[string]string{
		"trigger_type": "time",
		"entity_id":    "light.kitchen",
	}))
	require.NoError(t, err)

	text := promptText(t, result)
	assert.Contains(t, text, "Trigger Type: time")
	assert.Contains(t, text, "Target Entity: light.kitchen")
	assert.Contains(t, text, "configure_component")
}

func TestCreateAutomationPromptDefaults(t *testing.T) {
	p := NewPrompts()

	result, err := p.createAutomationHandler(context.Background(), promptRequest(nil))
	require.NoError(t, err)

	text := promptText(t, result)
	assert.Contains(t, text, "Trigger Type: state")
	assert.Contains(t, text, "Target Entity: (not specified)")
}

func TestDebugAutomationPrompt(t *testing.T) {
	p := NewPrompts()

	result, err := p.debugAutomationHandler(context.Background(), promptRequest(map[string]string{
		"automation_id": "automation.morning_lights",
	}))
	require.NoError(t, err)

	text := promptText(t, result)
	assert.Contains(t, text, "automation.morning_lights")
	assert.Contains(t, text, "get_error_log")
}

func TestTroubleshootEntityPrompt(t *testing.T) {
	p := NewPrompts()

	result, err := p.troubleshootEntityHandler(context.Background(), promptRequest(map[string]string{
		"entity_id": "sensor.temperature",
	}))
	require.NoError(t, err)
	assert.Contains(t, promptText(t, result), "sensor.temperature")
}
