package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/config"
	"github.com/mealdash/mealadmin/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server exposing read-only admin tools over stdio.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(cfg)
			if err != nil {
				log.Fatalf("Failed to create MCP server: %v", err)
			}

			ctx := context.Background()
			return server.Run(ctx)
		},
	}

	return cmd
}
