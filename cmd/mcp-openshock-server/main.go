// Package main implements the OpenShock MCP gateway entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kyrnepi/mcp-openshock-server/internal/api"
	"github.com/Kyrnepi/mcp-openshock-server/internal/audit"
	"github.com/Kyrnepi/mcp-openshock-server/internal/auth"
	"github.com/Kyrnepi/mcp-openshock-server/internal/catalog"
	"github.com/Kyrnepi/mcp-openshock-server/internal/command"
	"github.com/Kyrnepi/mcp-openshock-server/internal/config"
	"github.com/Kyrnepi/mcp-openshock-server/internal/observe"
	"github.com/Kyrnepi/mcp-openshock-server/internal/openshock"
	"github.com/Kyrnepi/mcp-openshock-server/internal/rpc"
	"github.com/Kyrnepi/mcp-openshock-server/internal/telemetry"
	"go.opentelemetry.io/otel"
)

func main() {
	// Step 1: Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Starting %s v%s", cfg.Server.Name, cfg.Server.Version)
	log.Printf("OpenShock API URL: %s", cfg.OpenShock.APIURL)
	if cfg.Safety.MaxShockIntensity > 0 {
		log.Printf("Shock intensity limited to %d", cfg.Safety.MaxShockIntensity)
	} else {
		log.Println("Shock intensity unlimited")
	}

	// Step 2: Initialize metrics.
	shutdownMetrics, err := observe.InitProvider(cfg.Server.Name, cfg.Server.Version)
	if err != nil {
		log.Fatalf("Failed to initialize metrics provider: %v", err)
	}
	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Fatalf("Failed to create metric instruments: %v", err)
	}

	// Step 3: Initialize telemetry hub.
	telemetryHub := telemetry.NewHub()

	// Step 4: Initialize audit logger.
	auditLogger := audit.NewLogger(cfg.Audit.Path, cfg.Audit.MaxSizeMB, cfg.Audit.MaxBackups, cfg.Audit.MaxAgeDays)
	log.Printf("Audit log: %s", cfg.Audit.Path)

	// Step 5: Build the command pipeline and downstream client.
	clamp := command.Clamp{Limit: cfg.Safety.MaxShockIntensity}
	translator := command.NewTranslator(clamp)
	toolCatalog := catalog.New(clamp)
	client := openshock.NewClient(cfg.OpenShock.APIURL, cfg.OpenShock.Token, cfg.OpenShockTimeout())

	// Step 6: Create the dispatcher.
	dispatcher := rpc.NewDispatcher(toolCatalog, translator, client, cfg.Server.Name, cfg.Server.Version)
	dispatcher.SetAuditLogger(auditLogger)
	dispatcher.SetTelemetryHub(telemetryHub)
	dispatcher.SetMetrics(metrics)

	// Step 7: Create auth middleware.
	var verifier auth.Verifier
	switch cfg.Auth.Mode {
	case config.AuthModeJWT:
		verifier = auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
		log.Println("Auth mode: jwt")
	default:
		verifier = auth.NewStaticVerifier(cfg.Auth.Token)
		log.Println("Auth mode: static")
	}
	authMiddleware := auth.NewMiddleware(verifier)

	// Step 8: Create and start the API server.
	server := api.NewServer(dispatcher, authMiddleware, cfg.Server.Name, cfg.Server.Version,
		time.Duration(cfg.Server.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.Server.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.Server.IdleTimeoutSec)*time.Second)
	server.SetTelemetryHub(telemetryHub)
	server.SetMetricsHandler(observe.Handler())

	addr := cfg.Addr()
	log.Printf("Starting HTTP server on %s", addr)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(addr); err != nil {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	log.Printf("MCP endpoint: http://localhost%s/mcp", addr)
	log.Printf("Health endpoint: http://localhost%s/health", addr)

	// Wait for shutdown signal or server error.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-serverErr:
		log.Printf("Server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	telemetryHub.Stop()
	log.Println("Telemetry hub stopped")

	if err := auditLogger.Close(); err != nil {
		log.Printf("Error closing audit logger: %v", err)
	}

	if err := server.Stop(ctx); err != nil {
		log.Printf("Error stopping HTTP server: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}

	if err := shutdownMetrics(ctx); err != nil {
		log.Printf("Error shutting down metrics provider: %v", err)
	}

	log.Println("Shutdown complete")
}
