// Package main is the entry point for the marketplace-mcp server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesprial/marketplace-mcp/internal/app"
	"github.com/jamesprial/marketplace-mcp/internal/config"
	"github.com/jamesprial/marketplace-mcp/internal/httpapi"
	"github.com/jamesprial/marketplace-mcp/internal/logging"
	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/jamesprial/marketplace-mcp/internal/tools"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

const (
	defaultConfigPath = "/config/config.yaml"
	serverName        = "marketplace-mcp"
	serverVersion     = "1.0.0"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, loadErr := loadConfig()
	envErr := config.ApplyEnvOverrides(cfg)

	logger := logging.New(cfg.Log)
	if loadErr != nil {
		logger.WithError(loadErr).Warn("could not load config file, using defaults")
	}
	if envErr != nil {
		logger.WithError(envErr).Warn("ignoring environment overrides")
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	tokenBefore := cfg.Server.AuthToken
	token, err := config.EnsureAuthToken(cfg)
	if err != nil {
		logger.WithError(err).Warn("could not generate auth token, running without authentication")
	} else if tokenBefore == "" {
		logger.WithField("token", token).Info("generated auth token (set MARKETPLACE_MCP_AUTH_TOKEN to persist)")
	}

	var auditLogger *safety.AuditLogger
	if cfg.Audit.Enabled {
		var closer io.Closer
		auditLogger, closer = safety.NewRotatingAuditLogger(cfg.Audit)
		defer closer.Close()
	}

	filter, err := safety.NewFilter(cfg.Safety.Tools.Allowlist, cfg.Safety.Tools.Denylist)
	if err != nil {
		logger.WithError(err).Fatal("invalid tool filter")
	}
	confirm := safety.NewConfirmationTracker(app.DestructiveTools())

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build backend clients")
	}

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithToolHandlerMiddleware(upload.RootMiddleware(cfg.Upload.Root)),
	)
	if cfg.Upload.Root == "" {
		logger.Info("upload root not set, tool path arguments are disabled")
	}
	registered := tools.RegisterAll(mcpServer, a.Registrations(confirm, auditLogger), filter)
	logger.WithField("tools", len(registered)).Info("registered MCP tools")

	handler := httpapi.NewRouter(httpapi.Options{
		Auth:        a.Auth,
		MCP:         server.NewStreamableHTTPServer(mcpServer),
		MCPToken:    cfg.Server.AuthToken,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":    addr,
			"backend": cfg.Backend.URL,
		}).Info("marketplace-mcp listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server error")
		}
	}()

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown error")
	}
	logger.Info("server stopped")
}

// loadConfig reads the config file named by MARKETPLACE_CONFIG_PATH, or the
// default path. When the file cannot be read, DefaultConfig is returned along
// with the error.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("MARKETPLACE_CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.DefaultConfig(), fmt.Errorf("load %q: %w", path, err)
	}
	return cfg, nil
}
