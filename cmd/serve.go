package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mj1618/desktop-invoke/internal/config"
	"github.com/mj1618/desktop-invoke/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve action invocations over MCP or a websocket",
	Long: `Start a server that decodes and performs command records sent by a client.

Supported transports:
  stdio             MCP over standard I/O (default)
  streamable-http   MCP over streamable HTTP
  websocket         JSON invoke messages on --path

A command that breaks an action's contract is reported to the client as a
failed invocation; the server keeps running.

Examples:
  desktop-invoke serve
  desktop-invoke serve --transport streamable-http --port 8080
  desktop-invoke serve --transport websocket --path /invoke --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", config.TransportStdio, "Transport: stdio, streamable-http, websocket")
	serveCmd.Flags().Int("port", 8765, "Port for the HTTP transports")
	serveCmd.Flags().String("path", "/invoke", "Websocket endpoint path")
	serveCmd.Flags().Duration("cache-ttl", 2*time.Second, "Element tree cache TTL (0 disables the cache)")
	v.BindPFlag(config.ServerTransport, serveCmd.Flags().Lookup("transport"))
	v.BindPFlag(config.ServerPort, serveCmd.Flags().Lookup("port"))
	v.BindPFlag(config.ServerPath, serveCmd.Flags().Lookup("path"))
	v.BindPFlag(config.ResolveCacheTTL, serveCmd.Flags().Lookup("cache-ttl"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, log, func(err error) {
		log.WithError(err).Error("contract violation")
	})
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer s.stop()

	srv := server.New(s.runner, server.Config{
		Transport: cfg.Transport,
		Port:      cfg.Port,
		Path:      cfg.Path,
		Timeout:   cfg.RunTimeout,
	}, log)
	return srv.Serve(ctx)
}
