package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/gymlog/internal/config"
	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/observability"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/tracker"
	"github.com/claude/gymlog/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "GymLog server URL; when set, the export is sent over HTTP instead of written locally")
	filePath := flag.String("file", "", "path to an Alpha Progression CSV export (required)")
	dryRun := flag.Bool("dry-run", false, "parse and convert but don't store or send anything")
	force := flag.Bool("force", false, "send even if this export was already uploaded to -server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymlog-import", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymlog-import -file export.csv [-config config.yaml | -server <URL>] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read export", "path", *filePath, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var result *ingest.Result
	switch {
	case *dryRun:
		log.Info("DRY RUN mode: nothing will be stored or sent")
		result, err = alpha.NewProvider(discard{}, log).Ingest(ctx, bytes.NewReader(data))
	case *serverURL != "":
		result, err = sendRemote(ctx, log, *serverURL, *filePath, data, *force)
	default:
		result, err = importLocal(ctx, log, *configPath, data)
	}
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	printResult(log, result)
	log.Info("import complete")
}

// importLocal writes the export straight into the configured store.
func importLocal(ctx context.Context, log *slog.Logger, configPath string, data []byte) (*ingest.Result, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	kv, err := storage.Open(ctx, storage.Location{
		Backend:     cfg.Storage.Driver,
		DataDir:     cfg.Storage.DataDir,
		PostgresDSN: cfg.Storage.Postgres.DSN(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	repo := storage.NewRepository(kv)
	repo.OnError = func(op, key string, err error) {
		log.Error("persistence failure", "op", op, "key", key, "error", err)
		observability.RecordPersistenceFailure(op, key)
	}
	defer repo.Close()
	log.Info("store opened", "storage", cfg.Storage.Driver)

	tr := tracker.Open(ctx, repo, tracker.Options{Logger: log})
	return alpha.NewProvider(tr, log).Ingest(ctx, bytes.NewReader(data))
}

// sendRemote uploads the export to a running server, skipping exports that
// were already delivered there.
func sendRemote(ctx context.Context, log *slog.Logger, serverURL, path string, data []byte, force bool) (*ingest.Result, error) {
	serverURL = strings.TrimRight(serverURL, "/")

	stateDir, err := stateDirectory()
	if err != nil {
		return nil, err
	}
	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		return nil, err
	}
	defer state.Close()

	hash := upload.HashBytes(data)
	if !force {
		done, err := state.IsUploaded(serverURL, hash)
		if err != nil {
			return nil, fmt.Errorf("checking upload state: %w", err)
		}
		if done {
			log.Info("export already uploaded, skipping (use -force to resend)", "path", path)
			return &ingest.Result{Message: "already uploaded"}, nil
		}
	}

	result, err := upload.NewClient(serverURL).SendExport(ctx, data)
	if err != nil {
		return nil, err
	}
	abs, _ := filepath.Abs(path)
	if err := state.MarkUploaded(serverURL, hash, abs); err != nil {
		log.Warn("failed to record upload", "error", err)
	}
	return result, nil
}

func stateDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".gymlog-import"), nil
}

// discard accepts every session without storing it.
type discard struct{}

func (discard) ImportSessions(_ context.Context, sessions []models.WorkoutSession) int {
	return len(sessions)
}

func printResult(log *slog.Logger, r *ingest.Result) {
	log.Info("import stats",
		"sessions_received", r.SessionsReceived,
		"sessions_inserted", r.SessionsInserted,
		"sessions_duplicate", r.SessionsDuplicate,
		"sets_received", r.SetsReceived,
	)
	if len(r.SessionsSkipped) > 0 {
		log.Info("skipped sessions (unknown workout type or no working sets)", "sessions", r.SessionsSkipped)
	}
	if r.Message != "" {
		log.Info(r.Message)
	}
}
