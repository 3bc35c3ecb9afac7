package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/mcp"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/tracker"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "GymLog server URL for remote mode (e.g. http://gymlog.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymlog-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("mcp remote mode", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		ctx := context.Background()
		kv, err := storage.Open(ctx, storage.Location{
			Backend:     cfg.Storage.Driver,
			DataDir:     cfg.Storage.DataDir,
			PostgresDSN: cfg.Storage.Postgres.DSN(),
		})
		if err != nil {
			log.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		repo := storage.NewRepository(kv)
		repo.OnError = func(op, key string, err error) {
			log.Error("persistence failure", "op", op, "key", key, "error", err)
		}
		defer repo.Close()

		ds = mcp.NewLocal(tracker.Open(ctx, repo, tracker.Options{Logger: log}))
		log.Info("mcp local mode", "storage", cfg.Storage.Driver)
	}

	if err := server.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
