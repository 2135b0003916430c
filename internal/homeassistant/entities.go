package homeassistant

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// maxListLimit bounds "unbounded" list requests so a misbehaving caller
// cannot pull an arbitrarily large payload.
const maxListLimit = 1000

// GetEntityState fetches one entity. Explicit fields win over lean; with
// neither, the full record is returned. Successful results are cached with
// the short TTL. Each caller gets its own top-level map; nested values
// (the attributes map, context) are shared with the cache and must be
// treated as read-only.
func (c *Client) GetEntityState(ctx context.Context, entityID string, fields []string, lean bool) (map[string]any, error) {
	key := CacheKey("get_entity_state", entityID, fields, lean)
	if v, ok := c.entityCache.Get(key); ok {
		c.log.WithField("entity_id", entityID).Debug("cache hit")
		return copyRecord(v.(map[string]any)), nil
	}

	var entity Entity
	if err := c.getJSON(ctx, "/api/states/"+url.PathEscape(entityID), &entity); err != nil {
		return nil, err
	}

	var result map[string]any
	switch {
	case len(fields) > 0:
		result = FilterFields(entity, fields)
	case lean:
		result = FilterFields(entity, LeanFields(Domain(entityID)))
	default:
		result = fullRecord(entity)
	}

	c.entityCache.Set(key, result)
	return copyRecord(result), nil
}

func copyRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}

// ListEntities fetches the entity set with optional domain and search
// filtering, truncates to the limit, and projects each survivor. The
// returned slice and its records are shared with the cache across calls
// within the TTL; callers must not mutate them.
func (c *Client) ListEntities(ctx context.Context, opts ListOptions) ([]map[string]any, error) {
	query := normalizeQuery(opts.SearchQuery)

	key := CacheKey("get_entities", opts.Domain, query, opts.Limit, opts.Fields, opts.Lean)
	if v, ok := c.entityCache.Get(key); ok {
		c.log.Debug("cache hit for entity list")
		return v.([]map[string]any), nil
	}

	entities, err := c.fetchAllStates(ctx)
	if err != nil {
		return nil, err
	}

	if opts.Domain != "" {
		filtered := entities[:0:0]
		for _, e := range entities {
			if strings.HasPrefix(e.EntityID, opts.Domain+".") {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	if query != "" {
		filtered := entities[:0:0]
		for _, e := range entities {
			if matchesQuery(e, query) {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	limit := opts.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	if len(entities) > limit {
		entities = entities[:limit]
	}

	results := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		switch {
		case len(opts.Fields) > 0:
			results = append(results, FilterFields(e, opts.Fields))
		case opts.Lean:
			results = append(results, FilterFields(e, LeanFields(Domain(e.EntityID))))
		default:
			results = append(results, fullRecord(e))
		}
	}

	c.entityCache.Set(key, results)
	return results, nil
}

// normalizeQuery treats "*" and whitespace-only queries as "no filter".
func normalizeQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "*" {
		return ""
	}
	return strings.ToLower(query)
}

// matchesQuery reports whether the entity matches a case-insensitive
// substring search over its ID, friendly name, state, and primitive-valued
// attributes.
func matchesQuery(e Entity, term string) bool {
	if strings.Contains(strings.ToLower(e.EntityID), term) {
		return true
	}
	if name, ok := e.Attributes["friendly_name"].(string); ok {
		if strings.Contains(strings.ToLower(name), term) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(e.State), term) {
		return true
	}
	for _, value := range e.Attributes {
		switch value.(type) {
		case string, bool, float64, int:
			if strings.Contains(strings.ToLower(fmt.Sprint(value)), term) {
				return true
			}
		}
	}
	return false
}

// searchHighlights maps a domain to the one attribute surfaced on its
// search results, and the key it is published under.
var searchHighlights = map[string]struct{ attr, key string }{
	"light":        {"brightness", "brightness"},
	"sensor":       {"unit_of_measurement", "unit"},
	"climate":      {"temperature", "temperature"},
	"media_player": {"media_title", "media_title"},
}

// SearchEntities runs a lean entity search and rolls the matches up into a
// compact result set with per-domain counts.
func (c *Client) SearchEntities(ctx context.Context, query string, limit int) (*SearchResults, error) {
	if limit <= 0 {
		limit = 20
	}

	// Matching is case-insensitive but the result echoes the caller's
	// query verbatim.
	normalized := normalizeQuery(query)
	label := query
	if normalized == "" {
		label = "all entities (no filtering)"
	}

	entities, err := c.ListEntities(ctx, ListOptions{SearchQuery: normalized, Limit: limit, Lean: true})
	if err != nil {
		return nil, err
	}

	results := &SearchResults{
		Results: make([]map[string]any, 0, len(entities)),
		Domains: map[string]int{},
		Query:   label,
	}

	for _, entity := range entities {
		entityID, _ := entity["entity_id"].(string)
		domain := Domain(entityID)
		results.Domains[domain]++

		state, _ := entity["state"].(string)
		if state == "" {
			state = "unknown"
		}
		simplified := map[string]any{
			"entity_id":     entityID,
			"state":         state,
			"domain":        domain,
			"friendly_name": entityID,
		}

		attrs, _ := entity["attributes"].(map[string]any)
		if name, ok := attrs["friendly_name"].(string); ok && name != "" {
			simplified["friendly_name"] = name
		}
		if highlight, ok := searchHighlights[domain]; ok {
			if value, ok := attrs[highlight.attr]; ok {
				simplified[highlight.key] = value
			}
		}

		results.Results = append(results.Results, simplified)
	}

	results.Count = len(results.Results)
	return results, nil
}

// CallService POSTs a service invocation. Entity state may have changed, so
// the short-TTL cache is invalidated before returning; callers must not see
// pre-call snapshots afterward.
func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]any) (any, error) {
	if data == nil {
		data = map[string]any{}
	}

	var result any
	path := fmt.Sprintf("/api/services/%s/%s", url.PathEscape(domain), url.PathEscape(service))
	if err := c.postJSON(ctx, path, data, &result); err != nil {
		return nil, err
	}

	c.entityCache.Invalidate("")
	c.log.WithFields(map[string]any{"domain": domain, "service": service}).Info("service called, entity cache invalidated")
	return result, nil
}
