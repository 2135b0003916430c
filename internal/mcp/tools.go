package mcp

import "github.com/mark3labs/mcp-go/mcp"

// addTools registers every tool exposed by the server. Tool names and
// parameter shapes are the published contract; changing them breaks
// existing assistant configurations.
func (s *Server) addTools() error {
	s.server.AddTool(mcp.NewTool("get_version",
		mcp.WithDescription("Get the Home Assistant version"),
	), s.getVersionHandler)

	s.server.AddTool(mcp.NewTool("get_entity",
		mcp.WithDescription("Get the state of a Home Assistant entity with optional field filtering"),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("The entity ID to get (e.g. 'light.living_room')")),
		mcp.WithArray("fields", mcp.Description("Optional list of fields to include (e.g. ['state', 'attr.brightness'])")),
		mcp.WithBoolean("detailed", mcp.Description("If true, returns all entity fields without filtering")),
	), s.getEntityHandler)

	s.server.AddTool(mcp.NewTool("entity_action",
		mcp.WithDescription("Perform an action on a Home Assistant entity (on, off, toggle)"),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("The entity ID to control (e.g. 'light.living_room')")),
		mcp.WithString("action", mcp.Required(), mcp.Description("The action to perform ('on', 'off', 'toggle')")),
		mcp.WithObject("params", mcp.Description("Additional service parameters (e.g. {'brightness': 255})")),
	), s.entityActionHandler)

	s.server.AddTool(mcp.NewTool("list_entities",
		mcp.WithDescription("Get a list of Home Assistant entities with optional filtering"),
		mcp.WithString("domain", mcp.Description("Optional domain to filter by (e.g. 'light', 'switch', 'sensor')")),
		mcp.WithString("search_query", mcp.Description("Optional search term matched against IDs, names and attributes; leave empty for all entities")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entities to return (default: 100)")),
		mcp.WithArray("fields", mcp.Description("Optional list of specific fields to include in each entity")),
		mcp.WithBoolean("detailed", mcp.Description("If true, returns all entity fields without lean filtering")),
	), s.listEntitiesHandler)

	s.server.AddTool(mcp.NewTool("search_entities_tool",
		mcp.WithDescription("Search for entities matching a query string"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query; leave blank to list all entities up to the limit")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results to return (default: 20)")),
	), s.searchEntitiesHandler)

	s.server.AddTool(mcp.NewTool("domain_summary_tool",
		mcp.WithDescription("Get a summary of entities in a specific domain"),
		mcp.WithString("domain", mcp.Required(), mcp.Description("The domain to summarize (e.g. 'light', 'switch', 'sensor')")),
		mcp.WithNumber("example_limit", mcp.Description("Maximum number of examples to include for each state (default: 3)")),
	), s.domainSummaryHandler)

	s.server.AddTool(mcp.NewTool("system_overview",
		mcp.WithDescription("Get a comprehensive overview of the entire Home Assistant system"),
	), s.systemOverviewHandler)

	s.server.AddTool(mcp.NewTool("list_automations",
		mcp.WithDescription("Get a list of all automations from Home Assistant"),
	), s.listAutomationsHandler)

	s.server.AddTool(mcp.NewTool("restart_ha",
		mcp.WithDescription("Restart Home Assistant. WARNING: temporarily disrupts all operations"),
	), s.restartHandler)

	s.server.AddTool(mcp.NewTool("call_service_tool",
		mcp.WithDescription("Call any Home Assistant service (low-level API access)"),
		mcp.WithString("domain", mcp.Required(), mcp.Description("The domain of the service (e.g. 'light', 'automation')")),
		mcp.WithString("service", mcp.Required(), mcp.Description("The service to call (e.g. 'turn_on', 'reload')")),
		mcp.WithObject("data", mcp.Description("Optional service data (e.g. {'entity_id': 'light.living_room'})")),
	), s.callServiceHandler)

	s.server.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Get the history of an entity's state changes"),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("The entity ID to get history for")),
		mcp.WithNumber("hours", mcp.Description("Number of hours of history to retrieve (default: 24)")),
	), s.getHistoryHandler)

	s.server.AddTool(mcp.NewTool("get_error_log",
		mcp.WithDescription("Get the Home Assistant error log for troubleshooting"),
	), s.getErrorLogHandler)

	s.server.AddTool(mcp.NewTool("configure_component",
		mcp.WithDescription("Create or update a Home Assistant component (automation, script, scene, ...)"),
		mcp.WithString("component_type", mcp.Required(), mcp.Description("Component type (automation, script, scene, etc.)")),
		mcp.WithString("object_id", mcp.Required(), mcp.Description("ID of the component to configure")),
		mcp.WithObject("config_data", mcp.Required(), mcp.Description("Configuration data for the component")),
		mcp.WithBoolean("update", mcp.Description("True to update an existing component, false to create")),
	), s.configureComponentHandler)

	s.server.AddTool(mcp.NewTool("delete_component",
		mcp.WithDescription("Delete a Home Assistant component"),
		mcp.WithString("component_type", mcp.Required(), mcp.Description("Component type (automation, script, scene, etc.)")),
		mcp.WithString("object_id", mcp.Required(), mcp.Description("ID of the component to delete")),
	), s.deleteComponentHandler)

	s.server.AddTool(mcp.NewTool("set_attributes",
		mcp.WithDescription("Set attributes on an entity; the matching service is picked per domain"),
		mcp.WithString("entity_id", mcp.Required(), mcp.Description("The entity ID to modify")),
		mcp.WithObject("attributes", mcp.Required(), mcp.Description("Attributes to set (e.g. {'brightness': 150})")),
	), s.setAttributesHandler)

	s.server.AddTool(mcp.NewTool("list_dashboards",
		mcp.WithDescription("List all Lovelace dashboards"),
	), s.listDashboardsHandler)

	s.server.AddTool(mcp.NewTool("manage_dashboard",
		mcp.WithDescription("Manage Lovelace dashboards (create, update, delete, get)"),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to perform: create, update, delete, get")),
		mcp.WithString("dashboard_id", mcp.Description("Dashboard url_path; omit for the default dashboard")),
		mcp.WithObject("config", mcp.Description("Complete dashboard configuration (for update)")),
		mcp.WithString("title", mcp.Description("Dashboard title (for create)")),
		mcp.WithString("icon", mcp.Description("Dashboard icon (for create)")),
		mcp.WithBoolean("show_in_sidebar", mcp.Description("Show the dashboard in the sidebar (default: true)")),
		mcp.WithArray("views", mcp.Description("Dashboard views (for create/update)")),
		mcp.WithArray("resources", mcp.Description("Custom resources/modules (for create/update)")),
	), s.manageDashboardHandler)

	return nil
}
