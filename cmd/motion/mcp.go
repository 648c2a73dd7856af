package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/motion"
	"github.com/aretw0/motion/pkg/adapters/mcp"
	"github.com/aretw0/motion/pkg/observability"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the motion engine as an MCP Server.
This allows AI agents to open animated sessions and step through their frames as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		lib, err := loadLibrary(cmd, "")
		if err != nil {
			return err
		}
		be, err := openBackend(readStoreFlags(cmd))
		if err != nil {
			return err
		}
		defer func() { _ = be.close() }()

		opts := []motion.Option{
			motion.WithLogger(logger),
			motion.WithLibrary(lib),
			motion.WithStore(be.store),
			motion.WithHooks(observability.LogHooks(logger)),
		}
		if be.locker != nil {
			opts = append(opts, motion.WithLocker(be.locker))
		}
		engine := motion.New(opts...)

		// Create a context that cancels on interrupt signal
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engineDone := make(chan error, 1)
		go func() { engineDone <- engine.Run(ctx) }()

		srv := mcp.NewServer(engine, lib, mcp.WithLogger(logger))

		var serveErr error
		switch transport {
		case "stdio":
			logger.Info("Starting motion MCP Server (Stdio)")
			serveErr = srv.ServeStdio()
		case "sse":
			logger.Info("Starting motion MCP Server (SSE)", "port", port)
			serveErr = srv.ServeSSE(ctx, port)
		default:
			serveErr = fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}

		stop()
		if err := <-engineDone; err != nil && serveErr == nil {
			serveErr = err
		}
		if serveErr != nil {
			return fmt.Errorf("MCP server execution failed: %w", serveErr)
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	addStoreFlags(mcpCmd)
}
