package homeassistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntity() Entity {
	return Entity{
		EntityID: "light.kitchen",
		State:    "on",
		Attributes: map[string]any{
			"friendly_name": "Kitchen Light",
			"brightness":    float64(200),
		},
		LastChanged: "2026-08-30T10:00:00+00:00",
		LastUpdated: "2026-08-30T10:00:00+00:00",
		Context:     map[string]any{"id": "abc123"},
	}
}

func TestFilterFieldsEmptyReturnsFullRecord(t *testing.T) {
	e := testEntity()
	result := FilterFields(e, nil)

	assert.Equal(t, "light.kitchen", result["entity_id"])
	assert.Equal(t, "on", result["state"])
	assert.Equal(t, e.Attributes, result["attributes"])
	assert.Equal(t, e.LastChanged, result["last_changed"])
	assert.Equal(t, e.LastUpdated, result["last_updated"])
	assert.Equal(t, e.Context, result["context"])
}

func TestFilterFieldsAlwaysIncludesEntityID(t *testing.T) {
	result := FilterFields(testEntity(), []string{"state"})
	assert.Equal(t, "light.kitchen", result["entity_id"])
	assert.Equal(t, "on", result["state"])
	assert.NotContains(t, result, "attributes")
	assert.NotContains(t, result, "last_changed")
}

func TestFilterFieldsSingleAttribute(t *testing.T) {
	result := FilterFields(testEntity(), []string{"attr.brightness"})

	attrs, ok := result["attributes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(200), attrs["brightness"])
	assert.NotContains(t, attrs, "friendly_name")
}

func TestFilterFieldsAbsentAttributeSkipped(t *testing.T) {
	result := FilterFields(testEntity(), []string{"state", "attr.color_temp"})

	assert.Equal(t, "on", result["state"])
	assert.NotContains(t, result, "attributes", "absent attribute must not produce a placeholder")
}

func TestFilterFieldsUnknownSelectorIgnored(t *testing.T) {
	result := FilterFields(testEntity(), []string{"state", "bogus"})
	assert.Len(t, result, 2) // entity_id + state
}

func TestFilterFieldsAllAttributes(t *testing.T) {
	e := testEntity()
	result := FilterFields(e, []string{"attributes"})
	assert.Equal(t, e.Attributes, result["attributes"])
}

func TestLeanFieldsPerDomain(t *testing.T) {
	tests := []struct {
		domain string
		want   []string
	}{
		{"light", []string{"entity_id", "state", "attr.friendly_name", "attr.brightness", "attr.color_temp", "attr.color_mode", "attr.rgb_color"}},
		{"sensor", []string{"entity_id", "state", "attr.friendly_name", "attr.unit_of_measurement", "attr.device_class", "attr.state_class"}},
		{"unknown_domain", []string{"entity_id", "state", "attr.friendly_name"}},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, LeanFields(tt.domain))
		})
	}
}

func TestLeanFieldsDoesNotMutateDefaults(t *testing.T) {
	_ = LeanFields("light")
	assert.Equal(t, []string{"entity_id", "state", "attr.friendly_name"}, defaultLeanFields)
}

func TestDomainAndObjectID(t *testing.T) {
	assert.Equal(t, "light", Domain("light.kitchen"))
	assert.Equal(t, "kitchen", ObjectID("light.kitchen"))
	assert.Equal(t, "nodot", Domain("nodot"))
	assert.Equal(t, "", ObjectID("nodot"))
}
