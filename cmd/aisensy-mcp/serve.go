package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RobinCoderZhao/aisensy-mcp/internal/aisensy/config"
	"github.com/RobinCoderZhao/aisensy-mcp/internal/auth"
	"github.com/RobinCoderZhao/aisensy-mcp/pkg/apiclient"
	"github.com/RobinCoderZhao/aisensy-mcp/pkg/mcpserver"
)

const (
	sessionIdle  = time.Hour
	sessionSweep = 10 * time.Minute
)

func serveCmd(g *globalFlags) *cobra.Command {
	var transport, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over stdio or HTTP",
		Long:  "Serve every operation of the selected API as an MCP tool until SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, g, transport, addr)
		},
	}

	cmd.Flags().StringVarP(&transport, "transport", "t", "", "stdio or http (overrides server.transport)")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides server.addr)")
	return cmd
}

func runServe(ctx context.Context, g *globalFlags, transport, addr string) error {
	cfg, logger, closeLog, err := setup(g)
	if err != nil {
		return err
	}
	defer closeLog()

	if transport != "" {
		cfg.Server.Transport = transport
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := selectFamily(cfg, g.api)
	if err != nil {
		return err
	}
	logger.Infow("starting", "api", f.name, "transport", cfg.Server.Transport, "credential", f.cred.String())

	adapter := apiclient.New(f.cred.AdapterConfig(cfg.HTTP), apiclient.WithLogger(logger.Named("upstream")))
	defer func() {
		if err := adapter.Close(); err != nil {
			logger.Warnw("close adapter", "error", err)
		}
	}()

	s, err := newToolServer(cfg, f, adapter, logger)
	if err != nil {
		return err
	}

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		httpCfg, err := httpConfig(cfg, logger)
		if err != nil {
			return err
		}
		go expireSessions(ctx, s, logger)
		return s.RunHTTP(ctx, httpCfg)
	default:
		return s.RunStdio(ctx)
	}
}

func httpConfig(cfg config.Config, logger *zap.SugaredLogger) (mcpserver.HTTPConfig, error) {
	httpCfg := mcpserver.HTTPConfig{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if cfg.Server.Auth.Enabled() {
		v, err := auth.NewVerifier(cfg.Server.Auth)
		if err != nil {
			return httpCfg, fmt.Errorf("init auth: %w", err)
		}
		httpCfg.Auth = v
	} else {
		logger.Warnw("HTTP transport running without authentication", "addr", cfg.Server.Addr)
	}
	return httpCfg, nil
}

// expireSessions drops MCP sessions idle for longer than sessionIdle.
func expireSessions(ctx context.Context, s *mcpserver.Server, logger *zap.SugaredLogger) {
	ticker := time.NewTicker(sessionSweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.ExpireSessions(now.Add(-sessionIdle)); n > 0 {
				logger.Debugw("expired sessions", "count", n)
			}
		}
	}
}
