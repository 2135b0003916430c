package homeassistant

import (
	"context"
	"fmt"
	"net/url"
)

// ListDashboards returns all Lovelace dashboards.
func (c *Client) ListDashboards(ctx context.Context) ([]map[string]any, error) {
	var dashboards []map[string]any
	if err := c.getJSON(ctx, "/api/lovelace/dashboards", &dashboards); err != nil {
		return nil, err
	}
	return dashboards, nil
}

// GetDashboardConfig fetches a dashboard's configuration; an empty ID means
// the default dashboard.
func (c *Client) GetDashboardConfig(ctx context.Context, dashboardID string) (map[string]any, error) {
	path := "/api/lovelace/config"
	if dashboardID != "" {
		path = "/api/lovelace/dashboards/" + url.PathEscape(dashboardID)
	}
	var cfg map[string]any
	if err := c.getJSON(ctx, path, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Client) updateDashboardConfig(ctx context.Context, dashboardID string, cfg map[string]any) (map[string]any, error) {
	path := "/api/lovelace/config"
	if dashboardID != "" {
		path = "/api/lovelace/dashboards/" + url.PathEscape(dashboardID) + "/config"
	}
	if err := c.postJSON(ctx, path, cfg, nil); err != nil {
		return nil, err
	}
	label := dashboardID
	if label == "" {
		label = "default"
	}
	return map[string]any{
		"result":  "success",
		"message": fmt.Sprintf("Dashboard %s updated", label),
	}, nil
}

// ManageDashboard is the passthrough CRUD surface for Lovelace dashboards.
// Storage-mode dashboards only; YAML dashboards may reject writes.
func (c *Client) ManageDashboard(ctx context.Context, req DashboardRequest) (any, error) {
	switch req.Action {
	case "get":
		return c.GetDashboardConfig(ctx, req.DashboardID)

	case "create":
		body := map[string]any{
			"title":           req.Title,
			"show_in_sidebar": req.ShowInSidebar,
			"require_admin":   false,
		}
		if req.Icon != "" {
			body["icon"] = req.Icon
		}

		var created map[string]any
		if err := c.postJSON(ctx, "/api/lovelace/dashboards", body, &created); err != nil {
			return nil, err
		}

		if len(req.Views) > 0 || len(req.Resources) > 0 {
			cfg := map[string]any{}
			if req.Title != "" {
				cfg["title"] = req.Title
			}
			if len(req.Views) > 0 {
				cfg["views"] = req.Views
			}
			if len(req.Resources) > 0 {
				cfg["resources"] = req.Resources
			}
			urlPath, _ := created["url_path"].(string)
			if _, err := c.updateDashboardConfig(ctx, urlPath, cfg); err != nil {
				return nil, err
			}
		}
		return created, nil

	case "update":
		if req.Config != nil {
			return c.updateDashboardConfig(ctx, req.DashboardID, req.Config)
		}
		current, err := c.GetDashboardConfig(ctx, req.DashboardID)
		if err != nil {
			return nil, err
		}
		if len(req.Resources) > 0 {
			existing, _ := current["resources"].([]any)
			seen := map[string]bool{}
			for _, r := range existing {
				if m, ok := r.(map[string]any); ok {
					if u, ok := m["url"].(string); ok {
						seen[u] = true
					}
				}
			}
			for _, r := range req.Resources {
				m, ok := r.(map[string]any)
				if !ok {
					continue
				}
				u, _ := m["url"].(string)
				if !seen[u] {
					existing = append(existing, r)
				}
			}
			current["resources"] = existing
		}
		return c.updateDashboardConfig(ctx, req.DashboardID, current)

	case "delete":
		if req.DashboardID == "" {
			return nil, fmt.Errorf("dashboard_id is required for delete")
		}
		if err := c.deleteJSON(ctx, "/api/lovelace/dashboards/"+url.PathEscape(req.DashboardID)); err != nil {
			return nil, err
		}
		return map[string]any{
			"result":  "success",
			"message": fmt.Sprintf("Dashboard %s deleted", req.DashboardID),
		}, nil

	default:
		return nil, fmt.Errorf("unknown action: %s", req.Action)
	}
}
