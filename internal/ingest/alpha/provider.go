package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/models"
)

// Importer adds sessions to the history. *tracker.Tracker implements it.
type Importer interface {
	ImportSessions(ctx context.Context, sessions []models.WorkoutSession) int
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	dst Importer
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression import provider.
func NewProvider(dst Importer, log *slog.Logger) *Provider {
	return &Provider{dst: dst, log: log}
}

// Ingest parses a CSV export and adds its sessions to the history. Sessions
// already imported are left alone.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	parsed, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	sessions, skipped := ToWorkoutSessions(parsed)
	for _, name := range skipped {
		p.log.Warn("alpha session skipped", "name", name)
	}

	result := &ingest.Result{
		SessionsReceived: len(parsed),
		SessionsSkipped:  skipped,
	}
	for _, s := range sessions {
		result.SetsReceived += s.TotalSets()
	}
	result.SessionsInserted = p.dst.ImportSessions(ctx, sessions)
	result.SessionsDuplicate = len(sessions) - result.SessionsInserted
	if result.SessionsInserted == 0 {
		result.Message = "no new sessions"
	}

	p.log.Info("alpha import complete",
		"received", result.SessionsReceived,
		"inserted", result.SessionsInserted,
		"duplicate", result.SessionsDuplicate,
		"skipped", len(skipped),
	)
	return result, nil
}
