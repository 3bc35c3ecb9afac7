package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/mcp"
	"github.com/claude/gymlog/internal/observability"
	"github.com/claude/gymlog/internal/server"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/tracker"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("GymLog starting", "version", Version, "storage", cfg.Storage.Driver)

	loc := storageLocation(cfg)

	if *migrateOnly {
		if err := storage.Migrate(loc); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied, exiting")
		return
	}

	// Open store (applies pending migrations)
	ctx := context.Background()
	kv, err := storage.Open(ctx, loc)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(kv)
	repo.OnError = func(op, key string, err error) {
		log.Error("persistence failure", "op", op, "key", key, "error", err)
		observability.RecordPersistenceFailure(op, key)
	}
	defer repo.Close()
	log.Info("store opened")

	if pg, ok := kv.(*storage.Postgres); ok {
		if err := observability.RegisterPostgresPool(prometheus.DefaultRegisterer, pg.Pool, cfg.Storage.Postgres.Name); err != nil {
			log.Warn("pool metrics unavailable", "error", err)
		}
	}

	tr := tracker.Open(ctx, repo, tracker.Options{Logger: log})
	alphaProvider := alpha.NewProvider(tr, log)

	// Create server
	srv := server.New(tr, alphaProvider, log)
	mcpSrv := mcp.New(mcp.NewLocal(tr), Version, log)
	srv.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server on tsnet or plain TCP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "local (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func storageLocation(cfg *config.Config) storage.Location {
	return storage.Location{
		Backend:     cfg.Storage.Driver,
		DataDir:     cfg.Storage.DataDir,
		PostgresDSN: cfg.Storage.Postgres.DSN(),
	}
}
