package homeassistant

import "strings"

// Entity is one state object from the Home Assistant states API.
type Entity struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	LastChanged string         `json:"last_changed,omitempty"`
	LastUpdated string         `json:"last_updated,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
}

// FriendlyName returns the friendly_name attribute, falling back to the
// entity ID.
func (e Entity) FriendlyName() string {
	if name, ok := e.Attributes["friendly_name"].(string); ok && name != "" {
		return name
	}
	return e.EntityID
}

// Domain returns the category prefix of an entity ID (everything before the
// first dot).
func Domain(entityID string) string {
	if idx := strings.Index(entityID, "."); idx >= 0 {
		return entityID[:idx]
	}
	return entityID
}

// ObjectID returns the part of an entity ID after the domain.
func ObjectID(entityID string) string {
	if idx := strings.Index(entityID, "."); idx >= 0 {
		return entityID[idx+1:]
	}
	return ""
}

// ListOptions control filtering and projection for ListEntities.
type ListOptions struct {
	Domain      string
	SearchQuery string
	Limit       int
	Fields      []string
	Lean        bool
}

// SearchResults is the synthesized search response: simplified matches plus
// a per-domain occurrence count.
type SearchResults struct {
	Count   int              `json:"count"`
	Results []map[string]any `json:"results"`
	Domains map[string]int   `json:"domains"`
	Query   string           `json:"query"`
}

// EntityExample is a compact (id, name) pair used in summaries.
type EntityExample struct {
	EntityID     string `json:"entity_id"`
	FriendlyName string `json:"friendly_name"`
}

// AttributeCount is one attribute-name frequency in a summary ranking.
type AttributeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DomainSummary aggregates one domain: totals, a state histogram, a few
// example entities per state, and the most common attribute names.
type DomainSummary struct {
	Domain            string                     `json:"domain"`
	TotalCount        int                        `json:"total_count"`
	StateDistribution map[string]int             `json:"state_distribution"`
	Examples          map[string][]EntityExample `json:"examples"`
	CommonAttributes  []AttributeCount           `json:"common_attributes"`
}

// DomainInfo is the per-domain block of a system overview.
type DomainInfo struct {
	Count  int            `json:"count"`
	States map[string]int `json:"states"`
}

// OverviewSample is one representative entity in a system overview.
type OverviewSample struct {
	EntityID     string `json:"entity_id"`
	State        string `json:"state"`
	FriendlyName string `json:"friendly_name"`
}

// DomainCount ranks a domain by entity count.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// SystemOverview is the whole-system derived view built from a single
// states fetch.
type SystemOverview struct {
	TotalEntities     int                         `json:"total_entities"`
	DomainCount       int                         `json:"domain_count"`
	Domains           map[string]DomainInfo       `json:"domains"`
	DomainSamples     map[string][]OverviewSample `json:"domain_samples"`
	DomainAttributes  map[string][]string         `json:"domain_attributes"`
	AreaDistribution  map[string]map[string]int   `json:"area_distribution"`
	MostCommonDomains []DomainCount               `json:"most_common_domains"`
}

// AutomationInfo is the projected view of an automation.* entity.
type AutomationInfo struct {
	ID            string `json:"id"`
	EntityID      string `json:"entity_id"`
	State         string `json:"state"`
	Alias         string `json:"alias"`
	LastTriggered string `json:"last_triggered,omitempty"`
}

// HistoryPoint is one kept state-change record.
type HistoryPoint struct {
	State       string         `json:"state"`
	LastChanged string         `json:"last_changed"`
	Attributes  map[string]any `json:"attributes,omitempty"`
}

// HistoryResult is the sampled history of one entity. Statistics is only
// populated when at least one numeric state was observed.
type HistoryResult struct {
	EntityID     string         `json:"entity_id"`
	States       []HistoryPoint `json:"states"`
	Count        int            `json:"count"`
	FirstChanged string         `json:"first_changed,omitempty"`
	LastChanged  string         `json:"last_changed,omitempty"`
	Statistics   map[string]any `json:"statistics,omitempty"`
	Note         string         `json:"note,omitempty"`
}

// ErrorLog summarizes the backend error log.
type ErrorLog struct {
	LogText             string         `json:"log_text"`
	ErrorCount          int            `json:"error_count"`
	WarningCount        int            `json:"warning_count"`
	IntegrationMentions map[string]int `json:"integration_mentions"`
}

// DashboardRequest carries the parameters of a manage_dashboard call.
type DashboardRequest struct {
	Action        string
	DashboardID   string
	Config        map[string]any
	Title         string
	Icon          string
	ShowInSidebar bool
	Views         []any
	Resources     []any
}
