package homeassistant

import "strings"

// defaultLeanFields is the token-efficient baseline every domain gets.
var defaultLeanFields = []string{"entity_id", "state", "attr.friendly_name"}

// domainImportantAttributes lists the conventionally important attributes
// appended to the lean projection per domain.
var domainImportantAttributes = map[string][]string{
	"light":         {"brightness", "color_temp", "color_mode", "rgb_color"},
	"switch":        {"device_class", "icon"},
	"binary_sensor": {"device_class", "is_on"},
	"sensor":        {"unit_of_measurement", "device_class", "state_class"},
	"climate":       {"temperature", "current_temperature", "hvac_mode", "hvac_action"},
	"cover":         {"current_position", "current_tilt_position"},
	"media_player":  {"media_title", "media_artist", "volume_level", "source"},
	"camera":        {"entity_picture"},
}

// LeanFields returns the default projection for bulk operations on the
// given domain.
func LeanFields(domain string) []string {
	fields := make([]string, len(defaultLeanFields))
	copy(fields, defaultLeanFields)
	for _, attr := range domainImportantAttributes[domain] {
		fields = append(fields, "attr."+attr)
	}
	return fields
}

// FilterFields reduces an entity record to the requested field selectors.
// Selectors: "state", "attributes" (all of them), "attr.<name>" (one
// attribute, silently skipped when absent), "context", "last_updated",
// "last_changed". Unknown selectors are ignored. entity_id is always
// included. An empty selector list returns the full record.
func FilterFields(e Entity, fields []string) map[string]any {
	if len(fields) == 0 {
		return fullRecord(e)
	}

	result := map[string]any{"entity_id": e.EntityID}
	for _, field := range fields {
		switch {
		case field == "state":
			result["state"] = e.State
		case field == "attributes":
			result["attributes"] = e.Attributes
		case strings.HasPrefix(field, "attr.") && len(field) > len("attr."):
			name := field[len("attr."):]
			value, ok := e.Attributes[name]
			if !ok {
				continue
			}
			attrs, ok := result["attributes"].(map[string]any)
			if !ok {
				attrs = map[string]any{}
				result["attributes"] = attrs
			}
			attrs[name] = value
		case field == "context":
			if e.Context != nil {
				result["context"] = e.Context
			}
		case field == "last_updated":
			if e.LastUpdated != "" {
				result["last_updated"] = e.LastUpdated
			}
		case field == "last_changed":
			if e.LastChanged != "" {
				result["last_changed"] = e.LastChanged
			}
		}
	}
	return result
}

func fullRecord(e Entity) map[string]any {
	record := map[string]any{
		"entity_id": e.EntityID,
		"state":     e.State,
	}
	if e.Attributes != nil {
		record["attributes"] = e.Attributes
	}
	if e.LastChanged != "" {
		record["last_changed"] = e.LastChanged
	}
	if e.LastUpdated != "" {
		record["last_updated"] = e.LastUpdated
	}
	if e.Context != nil {
		record["context"] = e.Context
	}
	return record
}
