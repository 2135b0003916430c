package homeassistant

import (
	"context"
	"fmt"
	"net/url"
)

// reloadable lists the component types whose config changes require a
// backend reload to take effect.
var reloadable = map[string]bool{
	"automation": true,
	"script":     true,
	"scene":      true,
}

// ConfigureComponent creates or updates a component (automation, script,
// scene, ...) through the config API. Updates fetch the current config and
// merge the supplied keys over it before POSTing; creation POSTs the body
// as given. The API uses POST for both.
func (c *Client) ConfigureComponent(ctx context.Context, componentType, objectID string, configData map[string]any, update bool) (any, error) {
	path := componentConfigPath(componentType, objectID)

	body := configData
	if update {
		var current map[string]any
		if err := c.getJSON(ctx, path, &current); err != nil {
			return nil, err
		}
		merged := make(map[string]any, len(current)+len(configData))
		for k, v := range current {
			merged[k] = v
		}
		for k, v := range configData {
			merged[k] = v
		}
		body = merged
	}

	var result any
	if err := c.postJSON(ctx, path, body, &result); err != nil {
		return nil, err
	}

	if err := c.reloadComponent(ctx, componentType); err != nil {
		return nil, err
	}
	if result == nil {
		result = map[string]any{"result": "success"}
	}
	return result, nil
}

// DeleteComponent removes a component through the config API.
func (c *Client) DeleteComponent(ctx context.Context, componentType, objectID string) (map[string]any, error) {
	if err := c.deleteJSON(ctx, componentConfigPath(componentType, objectID)); err != nil {
		return nil, err
	}
	if err := c.reloadComponent(ctx, componentType); err != nil {
		return nil, err
	}
	return map[string]any{
		"result":  "success",
		"message": fmt.Sprintf("%s %s deleted", componentType, objectID),
	}, nil
}

func componentConfigPath(componentType, objectID string) string {
	return fmt.Sprintf("/api/config/%s/config/%s", url.PathEscape(componentType), url.PathEscape(objectID))
}

func (c *Client) reloadComponent(ctx context.Context, componentType string) error {
	if !reloadable[componentType] {
		return nil
	}
	_, err := c.CallService(ctx, componentType, "reload", map[string]any{})
	return err
}

// attributeServices maps a domain to (attribute → service) dispatch rules,
// checked in order. The first rule whose attribute is present in the call
// wins; domains without a matching rule fall back to their default service.
var attributeServices = map[string][]struct{ attribute, service string }{
	"climate": {
		{"temperature", "set_temperature"},
		{"hvac_mode", "set_hvac_mode"},
	},
	"cover": {
		{"position", "set_cover_position"},
	},
	"media_player": {
		{"media_content_id", "play_media"},
		{"volume_level", "volume_set"},
	},
}

var domainDefaultService = map[string]string{
	"cover": "open_cover",
}

// resolveAttributeService picks the backend service for a set-attributes
// call on the given domain.
func resolveAttributeService(domain string, attributes map[string]any) string {
	for _, rule := range attributeServices[domain] {
		if _, ok := attributes[rule.attribute]; ok {
			return rule.service
		}
	}
	if service, ok := domainDefaultService[domain]; ok {
		return service
	}
	return "turn_on"
}

// SetEntityAttributes applies attributes to an entity by dispatching to the
// appropriate domain service.
func (c *Client) SetEntityAttributes(ctx context.Context, entityID string, attributes map[string]any) (any, error) {
	domain := Domain(entityID)
	service := resolveAttributeService(domain, attributes)

	data := map[string]any{"entity_id": entityID}
	for k, v := range attributes {
		data[k] = v
	}
	return c.CallService(ctx, domain, service, data)
}
