// capsule-mcp exposes the Capsule CRM API as MCP tools.
//
// Usage:
//
//	capsule-mcp                 # serve over stdio
//	capsule-mcp serve --http 127.0.0.1:8080
//	capsule-mcp tools           # print tool definitions
//	capsule-mcp token --subject agent-1
//	capsule-mcp version
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RobinCoderZhao/capsule-mcp/internal/config"
	"github.com/RobinCoderZhao/capsule-mcp/internal/logging"
	"github.com/RobinCoderZhao/capsule-mcp/internal/tools"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

var version = "dev"

const serverName = "capsule-crm"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "capsule-mcp",
		Short:        "MCP server for the Capsule CRM API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, "")
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./"+config.FileName+" or ~/"+config.FileName+")")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(toolsCmd(&configPath))
	rootCmd.AddCommand(tokenCmd(&configPath))
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func serveCmd(configPath *string) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio, or over HTTP with --http",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, httpAddr)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "listen address for the HTTP transport (e.g. 127.0.0.1:8080; other hosts require auth_token or jwt_secret)")
	return cmd
}

func toolsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool definitions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.Capsule.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			server, _ := newServer(cfg, cfg.Capsule.Logger)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(server.Tools())
		},
	}
}

func tokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT for the HTTP transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Server.JWTSecret == "" {
				return errors.New("server.jwt_secret (or CAPSULE_MCP_JWT_SECRET) is not set")
			}
			token, err := mcpserver.GenerateToken([]byte(cfg.Server.JWTSecret), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "capsule-mcp-client", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "capsule-mcp %s\n", version)
		},
	}
}

func runServe(ctx context.Context, configPath, httpAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if httpAddr != "" {
		cfg.Server.Transport = "http"
		cfg.Server.Addr = httpAddr
	}

	logger, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)
	cfg.Capsule.Logger = logger

	server, session := newServer(cfg, logger)
	if cfg.Capsule.APIToken != "" {
		if err := session.Authenticate(cfg.Capsule.APIToken); err != nil {
			return fmt.Errorf("authenticate: %w", err)
		}
	} else {
		logger.Info("no API token configured; waiting for " + tools.SetAPITokenTool)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Transport == "http" {
		return server.RunHTTP(ctx, cfg.Server.Addr, mcpserver.HTTPOptions{
			AuthToken: cfg.Server.AuthToken,
			JWTSecret: cfg.Server.JWTSecret,
		})
	}
	logger.Info("serving MCP over stdio", "version", version)
	return server.RunStdio(ctx)
}

func newServer(cfg config.Config, logger *slog.Logger) (*mcpserver.Server, *tools.Session) {
	server := mcpserver.New(serverName, version)
	server.SetLogger(logger)
	server.Use(mcpserver.RecoveryMiddleware(logger))
	server.Use(mcpserver.LoggingMiddleware(logger))

	session := tools.NewSession(cfg.Capsule)
	tools.Register(server, session)
	return server, session
}
