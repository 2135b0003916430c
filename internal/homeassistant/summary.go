package homeassistant

import (
	"context"
	"sort"
)

// orderedTally counts keys while remembering first-encounter order, so
// frequency rankings can break ties stably.
type orderedTally struct {
	counts map[string]int
	order  []string
}

func newOrderedTally() *orderedTally {
	return &orderedTally{counts: map[string]int{}}
}

func (t *orderedTally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// top returns up to n keys sorted descending by count; ties preserve
// encounter order.
func (t *orderedTally) top(n int) []AttributeCount {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return t.counts[keys[i]] > t.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	ranked := make([]AttributeCount, 0, len(keys))
	for _, key := range keys {
		ranked = append(ranked, AttributeCount{Name: key, Count: t.counts[key]})
	}
	return ranked
}

// SummarizeDomain builds a read-only summary of one domain: entity count,
// state histogram with a few examples per state, and the ten most common
// attribute names.
func (c *Client) SummarizeDomain(ctx context.Context, domain string, exampleLimit int) (*DomainSummary, error) {
	if exampleLimit <= 0 {
		exampleLimit = 3
	}

	entities, err := c.ListEntities(ctx, ListOptions{Domain: domain, Limit: 100, Lean: true})
	if err != nil {
		return nil, err
	}

	summary := &DomainSummary{
		Domain:            domain,
		TotalCount:        len(entities),
		StateDistribution: map[string]int{},
		Examples:          map[string][]EntityExample{},
	}
	attributes := newOrderedTally()

	for _, entity := range entities {
		entityID, _ := entity["entity_id"].(string)
		state, ok := entity["state"].(string)
		if !ok || state == "" {
			state = "unknown"
		}
		summary.StateDistribution[state]++

		if len(summary.Examples[state]) < exampleLimit {
			example := EntityExample{EntityID: entityID, FriendlyName: entityID}
			if attrs, ok := entity["attributes"].(map[string]any); ok {
				if name, ok := attrs["friendly_name"].(string); ok && name != "" {
					example.FriendlyName = name
				}
			}
			summary.Examples[state] = append(summary.Examples[state], example)
		}

		if attrs, ok := entity["attributes"].(map[string]any); ok {
			for name := range attrs {
				attributes.add(name)
			}
		}
	}

	summary.CommonAttributes = attributes.top(10)
	return summary, nil
}

// GetSystemOverview rolls the whole entity set up into per-domain counts,
// state histograms, representative samples, common attributes, and an
// area-by-domain cross tabulation. One backend round trip: the cost is in
// response size, not request count.
func (c *Client) GetSystemOverview(ctx context.Context) (*SystemOverview, error) {
	raw, err := c.fetchAllStates(ctx)
	if err != nil {
		return nil, err
	}

	overview := &SystemOverview{
		TotalEntities:    len(raw),
		Domains:          map[string]DomainInfo{},
		DomainSamples:    map[string][]OverviewSample{},
		DomainAttributes: map[string][]string{},
		AreaDistribution: map[string]map[string]int{},
	}

	// Lean-project everything first; the overview must not leak full
	// attribute payloads.
	byDomain := map[string][]map[string]any{}
	var domainOrder []string
	for _, entity := range raw {
		domain := Domain(entity.EntityID)
		if _, ok := byDomain[domain]; !ok {
			domainOrder = append(domainOrder, domain)
		}
		byDomain[domain] = append(byDomain[domain], FilterFields(entity, LeanFields(domain)))
	}

	for _, domain := range domainOrder {
		entities := byDomain[domain]

		states := map[string]int{}
		attributes := newOrderedTally()
		var samples []OverviewSample

		for _, entity := range entities {
			entityID, _ := entity["entity_id"].(string)
			state, ok := entity["state"].(string)
			if !ok || state == "" {
				state = "unknown"
			}
			states[state]++

			attrs, _ := entity["attributes"].(map[string]any)
			if len(samples) < 3 {
				sample := OverviewSample{EntityID: entityID, State: state, FriendlyName: entityID}
				if name, ok := attrs["friendly_name"].(string); ok && name != "" {
					sample.FriendlyName = name
				}
				samples = append(samples, sample)
			}
			for name := range attrs {
				attributes.add(name)
			}

			area := "Unknown"
			if id, ok := attrs["area_id"].(string); ok && id != "" {
				area = id
			}
			if name, ok := attrs["area_name"].(string); ok && name != "" {
				area = name
			}
			if overview.AreaDistribution[area] == nil {
				overview.AreaDistribution[area] = map[string]int{}
			}
			overview.AreaDistribution[area][domain]++
		}

		overview.Domains[domain] = DomainInfo{Count: len(entities), States: states}
		overview.DomainSamples[domain] = samples

		topAttrs := attributes.top(5)
		names := make([]string, 0, len(topAttrs))
		for _, attr := range topAttrs {
			names = append(names, attr.Name)
		}
		overview.DomainAttributes[domain] = names
	}

	overview.DomainCount = len(domainOrder)

	ranked := make([]string, len(domainOrder))
	copy(ranked, domainOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(byDomain[ranked[i]]) > len(byDomain[ranked[j]])
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	for _, domain := range ranked {
		overview.MostCommonDomains = append(overview.MostCommonDomains, DomainCount{Domain: domain, Count: len(byDomain[domain])})
	}

	return overview, nil
}

// ListAutomations projects automation.* entities into a compact listing.
// This feeds a conversational flow where silence beats failure, so any
// upstream error degrades to an empty list.
func (c *Client) ListAutomations(ctx context.Context) []AutomationInfo {
	fields := []string{"state", "attr.friendly_name", "attr.last_triggered"}
	entities, err := c.ListEntities(ctx, ListOptions{Domain: "automation", Limit: maxListLimit, Fields: fields})
	if err != nil {
		c.log.WithError(err).Warn("listing automations failed, returning empty list")
		return []AutomationInfo{}
	}

	automations := make([]AutomationInfo, 0, len(entities))
	for _, entity := range entities {
		entityID, _ := entity["entity_id"].(string)
		state, _ := entity["state"].(string)

		info := AutomationInfo{
			ID:       ObjectID(entityID),
			EntityID: entityID,
			State:    state,
			Alias:    entityID,
		}
		if attrs, ok := entity["attributes"].(map[string]any); ok {
			if name, ok := attrs["friendly_name"].(string); ok && name != "" {
				info.Alias = name
			}
			if triggered, ok := attrs["last_triggered"].(string); ok {
				info.LastTriggered = triggered
			}
		}
		automations = append(automations, info)
	}
	return automations
}
