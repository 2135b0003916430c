package cli

import (
	"github.com/hass-mcp/hass-mcp/internal/config"
	"github.com/spf13/cobra"
)

func Execute(cfg *config.Config) error {
	rootCmd := &cobra.Command{
		Use:   "hass-mcp",
		Short: "Home Assistant MCP server",
		Long: `Hass-MCP exposes a Home Assistant instance to MCP clients.

It talks to the Home Assistant REST API and publishes entity state,
history, automations and dashboards as MCP tools, resources and prompts
over stdio.

Configuration is taken from the environment:
  HA_URL     Home Assistant base URL (default: http://localhost:8123)
  HA_TOKEN   Long-lived access token`,
		Example: `  # Serve MCP on stdio (the default for MCP client configs)
  hass-mcp serve

  # Print the server version
  hass-mcp version`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCommand(cfg),
		newVersionCommand(),
	)

	return rootCmd.Execute()
}
