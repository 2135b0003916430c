package cli

import (
	"fmt"

	"github.com/hass-mcp/hass-mcp/internal/config"
	"github.com/hass-mcp/hass-mcp/internal/mcp"
	"github.com/spf13/cobra"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the Model Context Protocol server that exposes Home Assistant
to MCP clients. The server reads requests from stdin and writes
responses to stdout; all logging goes to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				// Startup proceeds without a token; individual operations
				// report the configuration error so clients see it in-band.
				cfg.Logger().Warn("HA_TOKEN is not set, requests will fail until it is configured")
			}
			if err := mcp.NewServer(cfg).Start(); err != nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), mcp.Version)
		},
	}
}
