package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/hass-mcp/hass-mcp/internal/homeassistant"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRequest(uri string, args map[string]any) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	req.Params.Arguments = args
	return req
}

func resourceText(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "text/markdown", tc.MIMEType)
	return tc.Text
}

func TestTemplateArg(t *testing.T) {
	req := readRequest("hass://search/kitchen/10", map[string]any{
		"plain":   "kitchen",
		"wrapped": []string{"kitchen"},
	})

	assert.Equal(t, "kitchen", templateArg(req, "plain"))
	assert.Equal(t, "kitchen", templateArg(req, "wrapped"))
	assert.Equal(t, "", templateArg(req, "missing"))
}

func TestFormatEntityLine(t *testing.T) {
	withName := map[string]any{
		"entity_id":  "light.kitchen",
		"state":      "on",
		"attributes": map[string]any{"friendly_name": "Kitchen Light"},
	}
	assert.Equal(t, "- **light.kitchen** (Kitchen Light): on\n", formatEntityLine(withName))

	withoutName := map[string]any{"entity_id": "light.bedroom", "state": "off"}
	assert.Equal(t, "- **light.bedroom**: off\n", formatEntityLine(withoutName))
}

func TestEntityResourceHandler(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/states/light.kitchen", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"entity_id":  "light.kitchen",
			"state":      "on",
			"attributes": map[string]any{"friendly_name": "Kitchen Light", "brightness": 200},
		})
	}))
	r := NewResources(s.client)

	contents, err := r.entityHandler(context.Background(), readRequest("hass://entities/light.kitchen", map[string]any{
		"entity_id": "light.kitchen",
	}))
	require.NoError(t, err)

	text := resourceText(t, contents)
	assert.Contains(t, text, "# light.kitchen")
	assert.Contains(t, text, "**State**: on")
	assert.Contains(t, text, "brightness")
}

func TestDomainResourceHandler(t *testing.T) {
	s := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"entity_id": "light.kitchen", "state": "on", "attributes": map[string]any{"friendly_name": "Kitchen Light"}},
			{"entity_id": "light.bedroom", "state": "off"},
			{"entity_id": "switch.heater", "state": "off"},
		})
	}))
	r := NewResources(s.client)

	contents, err := r.domainHandler(context.Background(), readRequest("hass://entities/domain/light", map[string]any{
		"domain": "light",
	}))
	require.NoError(t, err)

	text := resourceText(t, contents)
	assert.Contains(t, text, "# light Entities (2)")
	assert.Contains(t, text, "light.kitchen")
	assert.NotContains(t, text, "switch.heater")
}

func TestResourceHandlerErrorInBand(t *testing.T) {
	r := NewResources(unconfiguredServer(t).client)

	contents, err := r.entityHandler(context.Background(), readRequest("hass://entities/light.kitchen", map[string]any{
		"entity_id": "light.kitchen",
	}))
	require.NoError(t, err, "backend failures render as markdown, not protocol errors")

	text := resourceText(t, contents)
	assert.Contains(t, text, "# Error")
	assert.Contains(t, text, homeassistant.ErrNotConfigured.Error())
}
