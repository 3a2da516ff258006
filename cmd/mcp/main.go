package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docschema/internal/config"
	"docschema/internal/logger"
	"docschema/internal/mcptools"
	"docschema/internal/service"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "docschema-mcp",
		Short: "Serve the docschema assessment tools over MCP stdio",
		Long: "docschema-mcp exposes validate_schema, assess_field, assess_document, compare_schemas " +
			"and validate_extraction as Model Context Protocol tools on stdin/stdout.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol; zap writes to stderr.
			log, err := logger.New(config.LogConfig{Level: logLevel, Format: "json"})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := mcptools.NewServer(service.NewAssessmentService(nil), version)
			log.Info("mcp server starting", zap.String("version", version))
			if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}
