// Package mcp exposes the scenario catalog, demo playthroughs and the chat
// router as Model Context Protocol tools over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kroneus/kroneus-site/internal/chat"
	"github.com/kroneus/kroneus-site/internal/scenario"
	"github.com/kroneus/kroneus-site/internal/telemetry"
)

// Config holds MCP server dependencies.
type Config struct {
	Store   *scenario.Store
	Chat    *chat.Router
	Metrics *telemetry.Metrics
	Version string
}

// Server wraps the MCP SDK server.
type Server struct {
	mcpServer *mcpsdk.Server
	store     *scenario.Store
	chat      *chat.Router
	metrics   *telemetry.Metrics
}

// New creates an MCP server with all tools registered.
// A nil Store serves the built-in catalog; a nil Chat uses the default rules.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = scenario.NewStaticStore(scenario.Builtin())
	}
	if cfg.Chat == nil {
		cfg.Chat = chat.NewRouter()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	s := &Server{
		store:   cfg.Store,
		chat:    cfg.Chat,
		metrics: cfg.Metrics,
	}
	s.mcpServer = mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "kroneus",
		Version: cfg.Version,
	}, nil)

	s.registerTools()
	return s
}

// Run serves on stdio. Blocks until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "kroneus_list_scenarios",
		Description: "List the scripted demo scenarios, optionally filtered by industry.",
	}, s.handleListScenarios)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "kroneus_play_scenario",
		Description: "Play a demo scenario through the six simulated layers and return every frame plus the outcome panel. Simulation only.",
	}, s.handlePlayScenario)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "kroneus_chat",
		Description: "Ask the site assistant a question and get its canned reply.",
	}, s.handleChat)
}
