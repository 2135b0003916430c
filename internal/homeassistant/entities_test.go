package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hass-mcp/hass-mcp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		URL:      ts.URL,
		Token:    "test-token",
		Timeout:  5 * time.Second,
		LogLevel: "error",
	}
	c := NewClient(cfg)
	t.Cleanup(c.Close)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetEntityStateNoTokenNoNetworkCall(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	c.cfg.Token = ""

	_, err := c.GetEntityState(context.Background(), "light.kitchen", nil, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "HA_TOKEN")
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "unconfigured client must not hit the network")
}

func TestGetEntityStateCachedWithinTTL(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/api/states/light.kitchen", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(t, w, Entity{
			EntityID:   "light.kitchen",
			State:      "on",
			Attributes: map[string]any{"friendly_name": "Kitchen Light", "brightness": 200},
		})
	}))

	first, err := c.GetEntityState(context.Background(), "light.kitchen", nil, true)
	require.NoError(t, err)
	second, err := c.GetEntityState(context.Background(), "light.kitchen", nil, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second read within TTL must come from cache")
}

func TestGetEntityStateLeanProjection(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, Entity{
			EntityID: "light.kitchen",
			State:    "on",
			Attributes: map[string]any{
				"friendly_name":     "Kitchen Light",
				"brightness":        200,
				"supported_features": 44, // not in the lean set
			},
		})
	}))

	result, err := c.GetEntityState(context.Background(), "light.kitchen", nil, true)
	require.NoError(t, err)

	assert.Equal(t, "light.kitchen", result["entity_id"])
	assert.Equal(t, "on", result["state"])
	attrs, ok := result["attributes"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, attrs, "friendly_name")
	assert.Contains(t, attrs, "brightness")
	assert.NotContains(t, attrs, "supported_features")
	assert.NotContains(t, attrs, "color_temp", "absent lean attribute must not appear")
}

func TestGetEntityStateCallerCannotPoisonCache(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, Entity{EntityID: "light.kitchen", State: "on"})
	}))

	first, err := c.GetEntityState(context.Background(), "light.kitchen", nil, true)
	require.NoError(t, err)
	delete(first, "state")
	first["entity_id"] = "light.mangled"

	second, err := c.GetEntityState(context.Background(), "light.kitchen", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "light.kitchen", second["entity_id"])
	assert.Equal(t, "on", second["state"], "top-level mutations by one caller must not leak through the cache")
}

func TestGetEntityStateNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := c.GetEntityState(context.Background(), "light.missing", nil, true)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)

	// Errors are never cached.
	assert.Equal(t, 0, c.entityCache.Len())
}

func statesFixture() []Entity {
	return []Entity{
		{EntityID: "light.kitchen", State: "on", Attributes: map[string]any{"friendly_name": "Kitchen Light", "brightness": 200}},
		{EntityID: "light.bedroom", State: "off", Attributes: map[string]any{"friendly_name": "Bedroom Light"}},
		{EntityID: "switch.heater", State: "off", Attributes: map[string]any{"friendly_name": "Heater"}},
		{EntityID: "sensor.temperature", State: "21.5", Attributes: map[string]any{"friendly_name": "Temperature", "unit_of_measurement": "°C"}},
	}
}

func TestListEntitiesDomainFilter(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/states", r.URL.Path)
		writeJSON(t, w, statesFixture())
	}))

	entities, err := c.ListEntities(context.Background(), ListOptions{Domain: "light", Lean: true})
	require.NoError(t, err)
	require.Len(t, entities, 2)
	for _, e := range entities {
		id, _ := e["entity_id"].(string)
		assert.True(t, strings.HasPrefix(id, "light."), "entity %q escaped the domain filter", id)
	}
}

func TestListEntitiesSearchQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, statesFixture())
	}))

	entities, err := c.ListEntities(context.Background(), ListOptions{SearchQuery: "kitchen", Lean: true})
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "light.kitchen", entities[0]["entity_id"])
}

func TestListEntitiesLimit(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, statesFixture())
	}))

	entities, err := c.ListEntities(context.Background(), ListOptions{Limit: 2, Lean: true})
	require.NoError(t, err)
	assert.Len(t, entities, 2)
}

func TestListEntitiesZeroLimitReturnsAll(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, statesFixture())
	}))

	entities, err := c.ListEntities(context.Background(), ListOptions{Limit: 0, Lean: true})
	require.NoError(t, err)
	assert.Len(t, entities, len(statesFixture()))
}

func TestListEntitiesLimitCapped(t *testing.T) {
	many := make([]Entity, 0, maxListLimit+200)
	for i := 0; i < maxListLimit+200; i++ {
		many = append(many, Entity{EntityID: fmt.Sprintf("sensor.s%d", i), State: "1"})
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, many)
	}))

	unbounded, err := c.ListEntities(context.Background(), ListOptions{Limit: 0, Lean: true})
	require.NoError(t, err)
	assert.Len(t, unbounded, maxListLimit, "limit <= 0 is unbounded but capped")

	oversized, err := c.ListEntities(context.Background(), ListOptions{Limit: 5000, Lean: true})
	require.NoError(t, err)
	assert.Len(t, oversized, maxListLimit, "limits above the cap collapse to it")
}

func TestSearchEntitiesWildcardEqualsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, statesFixture())
	}))

	star, err := c.SearchEntities(context.Background(), "*", 50)
	require.NoError(t, err)
	empty, err := c.SearchEntities(context.Background(), "", 50)
	require.NoError(t, err)

	assert.Equal(t, star.Count, empty.Count)
	assert.Equal(t, star.Results, empty.Results)
	assert.Equal(t, "all entities (no filtering)", star.Query)
	assert.Equal(t, star.Query, empty.Query)
}

func TestSearchEntitiesQueryEchoedVerbatim(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, statesFixture())
	}))

	results, err := c.SearchEntities(context.Background(), "Kitchen", 10)
	require.NoError(t, err)

	assert.Equal(t, "Kitchen", results.Query, "caller's casing is preserved in the echo")
	require.Equal(t, 1, results.Count, "matching stays case-insensitive")
	assert.Equal(t, "light.kitchen", results.Results[0]["entity_id"])
}

func TestSearchEntitiesHighlights(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, statesFixture())
	}))

	results, err := c.SearchEntities(context.Background(), "temperature", 10)
	require.NoError(t, err)
	require.Equal(t, 1, results.Count)

	match := results.Results[0]
	assert.Equal(t, "sensor.temperature", match["entity_id"])
	assert.Equal(t, "Temperature", match["friendly_name"])
	assert.Equal(t, "°C", match["unit"])
	assert.Equal(t, map[string]int{"sensor": 1}, results.Domains)
}

func TestCallServiceInvalidatesEntityCache(t *testing.T) {
	var stateCalls int32
	state := atomic.Value{}
	state.Store("off")

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/states/light.kitchen":
			atomic.AddInt32(&stateCalls, 1)
			writeJSON(t, w, Entity{EntityID: "light.kitchen", State: state.Load().(string)})
		case r.URL.Path == "/api/services/light/turn_on" && r.Method == http.MethodPost:
			state.Store("on")
			writeJSON(t, w, []any{})
		default:
			http.NotFound(w, r)
		}
	}))

	before, err := c.GetEntityState(context.Background(), "light.kitchen", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "off", before["state"])

	_, err = c.CallService(context.Background(), "light", "turn_on", map[string]any{"entity_id": "light.kitchen"})
	require.NoError(t, err)

	after, err := c.GetEntityState(context.Background(), "light.kitchen", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "on", after["state"], "post-call read must not see the pre-call snapshot")
	assert.Equal(t, int32(2), atomic.LoadInt32(&stateCalls))
}

func TestGetVersion(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/api/config", r.URL.Path)
		writeJSON(t, w, map[string]any{"version": "2026.8.1"})
	}))

	version, err := c.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026.8.1", version)

	// Second read is served from the config cache.
	version, err = c.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026.8.1", version)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetErrorLog(t *testing.T) {
	logText := "2026-08-31 ERROR [zwave_js] node dead\n2026-08-31 WARNING [mqtt] reconnecting\n2026-08-31 ERROR [zwave_js] node dead again\n"
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/error_log", r.URL.Path)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(logText))
	}))

	errorLog, err := c.GetErrorLog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, logText, errorLog.LogText)
	assert.Equal(t, 2, errorLog.ErrorCount)
	assert.Equal(t, 1, errorLog.WarningCount)
	assert.Equal(t, 2, errorLog.IntegrationMentions["zwave_js"])
	assert.Equal(t, 1, errorLog.IntegrationMentions["mqtt"])
}
