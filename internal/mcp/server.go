package mcp

import (
	"fmt"

	"github.com/hass-mcp/hass-mcp/internal/config"
	"github.com/hass-mcp/hass-mcp/internal/homeassistant"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// Version is the server version advertised during the MCP handshake.
const Version = "1.0.0"

// Server wraps the Home Assistant client and exposes it as MCP tools,
// resources and prompts over stdio.
type Server struct {
	client *homeassistant.Client
	config *config.Config
	log    *logrus.Logger
	server *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config) *Server {
	return &Server{
		client: homeassistant.NewClient(cfg),
		config: cfg,
		log:    cfg.Logger(),
	}
}

// Start initializes the MCP server and serves on stdio until the client
// disconnects.
func (s *Server) Start() error {
	mcpServer := server.NewMCPServer(
		"Hass-MCP",
		Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)
	s.server = mcpServer

	if err := s.addTools(); err != nil {
		return fmt.Errorf("failed to add tools: %w", err)
	}
	if err := s.addResources(); err != nil {
		return fmt.Errorf("failed to add resources: %w", err)
	}
	if err := s.addPrompts(); err != nil {
		return fmt.Errorf("failed to add prompts: %w", err)
	}

	defer s.client.Close()

	s.log.Info("Starting Hass-MCP server on stdio")
	return server.ServeStdio(mcpServer)
}

func (s *Server) addResources() error {
	return NewResources(s.client).Register(s.server)
}

func (s *Server) addPrompts() error {
	return NewPrompts().Register(s.server)
}
