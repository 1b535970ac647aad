package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kroneus/kroneus-site/internal/chat"
	kmcp "github.com/kroneus/kroneus-site/internal/mcp"
	"github.com/kroneus/kroneus-site/internal/scenario"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server over stdio",
	Long:  "Runs an MCP (Model Context Protocol) server over stdio.\nExposes tools: kroneus_list_scenarios, kroneus_play_scenario, kroneus_chat.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := scenario.NewStore(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	router, err := chat.Load(cfg.Chat.RulesPath)
	if err != nil {
		return fmt.Errorf("load chat rules: %w", err)
	}

	srv := kmcp.New(kmcp.Config{Store: store, Chat: router, Version: version})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol; status goes to stderr.
	fmt.Fprintf(os.Stderr, "kroneus MCP server running on stdio (%d scenarios)\n", store.Catalog().Len())
	return srv.Run(ctx)
}
