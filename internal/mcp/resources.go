package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hass-mcp/hass-mcp/internal/homeassistant"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resources manages MCP resources
type Resources struct {
	client *homeassistant.Client
}

// NewResources creates a new resources manager
func NewResources(client *homeassistant.Client) *Resources {
	return &Resources{client: client}
}

// Register adds all resources to the MCP server
func (r *Resources) Register(s *server.MCPServer) error {
	s.AddResource(mcp.NewResource("hass://entities", "All Entities",
		mcp.WithResourceDescription("All Home Assistant entities grouped by domain"),
		mcp.WithMIMEType("text/markdown"),
	), r.entitiesHandler)

	s.AddResourceTemplate(mcp.NewResourceTemplate("hass://entities/{entity_id}", "Entity State",
		mcp.WithTemplateDescription("State of a single Home Assistant entity (lean format)"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), r.entityHandler)

	s.AddResourceTemplate(mcp.NewResourceTemplate("hass://entities/{entity_id}/detailed", "Entity Detail",
		mcp.WithTemplateDescription("Complete state of a single Home Assistant entity with all attributes"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), r.entityDetailedHandler)

	s.AddResourceTemplate(mcp.NewResourceTemplate("hass://entities/domain/{domain}", "Domain Entities",
		mcp.WithTemplateDescription("All entities in a specific domain"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), r.domainHandler)

	s.AddResourceTemplate(mcp.NewResourceTemplate("hass://search/{query}/{limit}", "Entity Search",
		mcp.WithTemplateDescription("Search entities with a result limit"),
		mcp.WithTemplateMIMEType("text/markdown"),
	), r.searchHandler)

	return nil
}

// templateArg extracts a URI template argument as a plain string. The
// transport may deliver template values wrapped as single-element arrays.
func templateArg(request mcp.ReadResourceRequest, key string) string {
	v := request.Params.Arguments[key]
	if v == nil {
		return ""
	}
	str := fmt.Sprintf("%v", v)
	if strings.HasPrefix(str, "[") && strings.HasSuffix(str, "]") {
		content := strings.TrimPrefix(strings.TrimSuffix(str, "]"), "[")
		if parts := strings.Fields(content); len(parts) > 0 {
			return parts[0]
		}
		return content
	}
	return str
}

func markdownContents(request mcp.ReadResourceRequest, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}
}

func (r *Resources) entitiesHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entities, err := r.client.ListEntities(ctx, homeassistant.ListOptions{Limit: 1000, Lean: true})
	if err != nil {
		return markdownContents(request, fmt.Sprintf("# Error\n\n%s", homeassistant.ErrorMessage(err))), nil
	}

	grouped := map[string][]map[string]any{}
	var domains []string
	for _, e := range entities {
		id, _ := e["entity_id"].(string)
		domain := homeassistant.Domain(id)
		if _, ok := grouped[domain]; !ok {
			domains = append(domains, domain)
		}
		grouped[domain] = append(grouped[domain], e)
	}
	sort.Strings(domains)

	var b strings.Builder
	fmt.Fprintf(&b, "# Home Assistant Entities (%d)\n", len(entities))
	for _, domain := range domains {
		fmt.Fprintf(&b, "\n## %s (%d)\n", domain, len(grouped[domain]))
		for _, e := range grouped[domain] {
			b.WriteString(formatEntityLine(e))
		}
	}
	return markdownContents(request, b.String()), nil
}

func (r *Resources) entityHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entityID := templateArg(request, "entity_id")
	entity, err := r.client.GetEntityState(ctx, entityID, nil, true)
	if err != nil {
		return markdownContents(request, fmt.Sprintf("# Error\n\n%s", homeassistant.ErrorMessage(err))), nil
	}
	return markdownContents(request, formatEntity(entityID, entity)), nil
}

func (r *Resources) entityDetailedHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entityID := templateArg(request, "entity_id")
	entity, err := r.client.GetEntityState(ctx, entityID, nil, false)
	if err != nil {
		return markdownContents(request, fmt.Sprintf("# Error\n\n%s", homeassistant.ErrorMessage(err))), nil
	}
	return markdownContents(request, formatEntity(entityID, entity)), nil
}

func (r *Resources) domainHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	domain := templateArg(request, "domain")
	entities, err := r.client.ListEntities(ctx, homeassistant.ListOptions{Domain: domain, Limit: 1000, Lean: true})
	if err != nil {
		return markdownContents(request, fmt.Sprintf("# Error\n\n%s", homeassistant.ErrorMessage(err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Entities (%d)\n\n", domain, len(entities))
	for _, e := range entities {
		b.WriteString(formatEntityLine(e))
	}
	return markdownContents(request, b.String()), nil
}

func (r *Resources) searchHandler(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	query := templateArg(request, "query")
	limit := 20
	if n, err := strconv.Atoi(templateArg(request, "limit")); err == nil && n > 0 {
		limit = n
	}

	results, err := r.client.SearchEntities(ctx, query, limit)
	if err != nil {
		return markdownContents(request, fmt.Sprintf("# Error\n\n%s", homeassistant.ErrorMessage(err))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Search Results: %q (%d)\n\n", results.Query, results.Count)
	for _, e := range results.Results {
		b.WriteString(formatEntityLine(e))
	}
	if len(results.Domains) > 0 {
		b.WriteString("\n## Domains\n")
		var names []string
		for d := range results.Domains {
			names = append(names, d)
		}
		sort.Strings(names)
		for _, d := range names {
			fmt.Fprintf(&b, "- %s: %d\n", d, results.Domains[d])
		}
	}
	return markdownContents(request, b.String()), nil
}

func formatEntityLine(e map[string]any) string {
	id, _ := e["entity_id"].(string)
	state, _ := e["state"].(string)
	attrs, _ := e["attributes"].(map[string]any)
	if name, ok := attrs["friendly_name"].(string); ok && name != "" && name != id {
		return fmt.Sprintf("- **%s** (%s): %s\n", id, name, state)
	}
	return fmt.Sprintf("- **%s**: %s\n", id, state)
}

func formatEntity(entityID string, entity map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", entityID)
	if state, ok := entity["state"]; ok {
		fmt.Fprintf(&b, "**State**: %v\n\n", state)
	}

	rest := make(map[string]any, len(entity))
	for k, v := range entity {
		if k == "entity_id" || k == "state" {
			continue
		}
		rest[k] = v
	}
	if len(rest) > 0 {
		data, err := json.MarshalIndent(rest, "", "  ")
		if err == nil {
			fmt.Fprintf(&b, "## Attributes\n\n```json\n%s\n```\n", data)
		}
	}
	return b.String()
}
