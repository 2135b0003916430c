package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hass-mcp/hass-mcp/internal/homeassistant"
	"github.com/mark3labs/mcp-go/mcp"
)

// Every handler returns either the successful payload or the uniform
// single-key error mapping {"error": message}; list-returning operations
// wrap the error in a single-element list. Errors never propagate as
// protocol-level failures.

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorText(fmt.Sprintf("Unexpected error: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

func errorText(message string) *mcp.CallToolResult {
	data, _ := json.Marshal(map[string]string{"error": message})
	return mcp.NewToolResultText(string(data))
}

func errorResult(err error) *mcp.CallToolResult {
	return errorText(homeassistant.ErrorMessage(err))
}

func listErrorResult(err error) *mcp.CallToolResult {
	data, _ := json.Marshal([]map[string]string{{"error": homeassistant.ErrorMessage(err)}})
	return mcp.NewToolResultText(string(data))
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string, def int) int {
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	return def
}

func boolArg(args map[string]any, key string, def bool) bool {
	if b, ok := args[key].(bool); ok {
		return b
	}
	return def
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func objectArg(args map[string]any, key string) map[string]any {
	m, _ := args[key].(map[string]any)
	return m
}

func sliceArg(args map[string]any, key string) []any {
	s, _ := args[key].([]any)
	return s
}

func (s *Server) getVersionHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	version, err := s.client.GetVersion(ctx)
	if err != nil {
		// String-returning operation: the message itself is the payload.
		return mcp.NewToolResultText(homeassistant.ErrorMessage(err)), nil
	}
	return mcp.NewToolResultText(version), nil
}

func (s *Server) getEntityHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	entityID := stringArg(args, "entity_id")
	if entityID == "" {
		return errorText("entity_id parameter is required"), nil
	}
	fields := stringSliceArg(args, "fields")
	detailed := boolArg(args, "detailed", false)

	s.log.WithField("entity_id", entityID).Info("get_entity")
	lean := !detailed && len(fields) == 0
	entity, err := s.client.GetEntityState(ctx, entityID, fields, lean)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(entity), nil
}

func (s *Server) entityActionHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	entityID := stringArg(args, "entity_id")
	if entityID == "" {
		return errorText("entity_id parameter is required"), nil
	}
	action := stringArg(args, "action")

	var service string
	switch action {
	case "on":
		service = "turn_on"
	case "off":
		service = "turn_off"
	case "toggle":
		service = "toggle"
	default:
		return errorText(fmt.Sprintf("Invalid action: %s. Valid actions are 'on', 'off', 'toggle'", action)), nil
	}

	data := map[string]any{"entity_id": entityID}
	for k, v := range objectArg(args, "params") {
		data[k] = v
	}

	s.log.WithFields(map[string]any{"entity_id": entityID, "service": service}).Info("entity_action")
	result, err := s.client.CallService(ctx, homeassistant.Domain(entityID), service, data)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) listEntitiesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	opts := homeassistant.ListOptions{
		Domain:      stringArg(args, "domain"),
		SearchQuery: stringArg(args, "search_query"),
		Limit:       intArg(args, "limit", 100),
		Fields:      stringSliceArg(args, "fields"),
		Lean:        !boolArg(args, "detailed", false),
	}

	s.log.WithFields(map[string]any{"domain": opts.Domain, "query": opts.SearchQuery}).Info("list_entities")
	entities, err := s.client.ListEntities(ctx, opts)
	if err != nil {
		return listErrorResult(err), nil
	}
	return jsonResult(entities), nil
}

func (s *Server) searchEntitiesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query := stringArg(args, "query")
	limit := intArg(args, "limit", 20)

	s.log.WithFields(map[string]any{"query": query, "limit": limit}).Info("search_entities")
	results, err := s.client.SearchEntities(ctx, query, limit)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(results), nil
}

func (s *Server) domainSummaryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	domain := stringArg(args, "domain")
	if domain == "" {
		return errorText("domain parameter is required"), nil
	}

	s.log.WithField("domain", domain).Info("domain_summary")
	summary, err := s.client.SummarizeDomain(ctx, domain, intArg(args, "example_limit", 3))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(summary), nil
}

func (s *Server) systemOverviewHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.log.Info("system_overview")
	overview, err := s.client.GetSystemOverview(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(overview), nil
}

func (s *Server) listAutomationsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.log.Info("list_automations")
	// Best-effort by design: upstream failures surface as an empty list.
	return jsonResult(s.client.ListAutomations(ctx)), nil
}

func (s *Server) restartHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.log.Warn("restart_ha requested")
	result, err := s.client.CallService(ctx, "homeassistant", "restart", map[string]any{})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) callServiceHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	domain := stringArg(args, "domain")
	service := stringArg(args, "service")
	if domain == "" || service == "" {
		return errorText("domain and service parameters are required"), nil
	}

	s.log.WithFields(map[string]any{"domain": domain, "service": service}).Info("call_service")
	result, err := s.client.CallService(ctx, domain, service, objectArg(args, "data"))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) getHistoryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	entityID := stringArg(args, "entity_id")
	if entityID == "" {
		return errorText("entity_id parameter is required"), nil
	}
	hours := intArg(args, "hours", 24)

	s.log.WithFields(map[string]any{"entity_id": entityID, "hours": hours}).Info("get_history")
	history, err := s.client.GetEntityHistory(ctx, entityID, hours, true)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(history), nil
}

func (s *Server) getErrorLogHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.log.Info("get_error_log")
	errorLog, err := s.client.GetErrorLog(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(errorLog), nil
}

func (s *Server) configureComponentHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	componentType := stringArg(args, "component_type")
	objectID := stringArg(args, "object_id")
	configData := objectArg(args, "config_data")
	if componentType == "" || objectID == "" || configData == nil {
		return errorText("component_type, object_id and config_data parameters are required"), nil
	}
	update := boolArg(args, "update", false)

	s.log.WithFields(map[string]any{"type": componentType, "object_id": objectID, "update": update}).Info("configure_component")
	result, err := s.client.ConfigureComponent(ctx, componentType, objectID, configData, update)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) deleteComponentHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	componentType := stringArg(args, "component_type")
	objectID := stringArg(args, "object_id")
	if componentType == "" || objectID == "" {
		return errorText("component_type and object_id parameters are required"), nil
	}

	s.log.WithFields(map[string]any{"type": componentType, "object_id": objectID}).Info("delete_component")
	result, err := s.client.DeleteComponent(ctx, componentType, objectID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) setAttributesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	entityID := stringArg(args, "entity_id")
	attributes := objectArg(args, "attributes")
	if entityID == "" || attributes == nil {
		return errorText("entity_id and attributes parameters are required"), nil
	}

	s.log.WithField("entity_id", entityID).Info("set_attributes")
	result, err := s.client.SetEntityAttributes(ctx, entityID, attributes)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}

func (s *Server) listDashboardsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.log.Info("list_dashboards")
	dashboards, err := s.client.ListDashboards(ctx)
	if err != nil {
		return listErrorResult(err), nil
	}
	return jsonResult(dashboards), nil
}

func (s *Server) manageDashboardHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	action := stringArg(args, "action")
	if action == "" {
		return errorText("action parameter is required"), nil
	}

	req := homeassistant.DashboardRequest{
		Action:        action,
		DashboardID:   stringArg(args, "dashboard_id"),
		Config:        objectArg(args, "config"),
		Title:         stringArg(args, "title"),
		Icon:          stringArg(args, "icon"),
		ShowInSidebar: boolArg(args, "show_in_sidebar", true),
		Views:         sliceArg(args, "views"),
		Resources:     sliceArg(args, "resources"),
	}

	s.log.WithFields(map[string]any{"action": action, "dashboard_id": req.DashboardID}).Info("manage_dashboard")
	result, err := s.client.ManageDashboard(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result), nil
}
