package mcp

import (
	"context"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/progress"
	"github.com/claude/gymlog/internal/tracker"
)

// DataSource abstracts the workout history for MCP tools. Both Local (in-process
// tracker) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListSessions(ctx context.Context) ([]models.WorkoutSession, error)
	Progression(ctx context.Context, exercise string) (progress.Report, error)
	ExerciseNames(ctx context.Context) ([]string, error)
	AvailableExercises(ctx context.Context, wt models.WorkoutType, exclude []string) ([]string, error)
	CustomExercises(ctx context.Context) (map[models.WorkoutType][]string, error)
	Stats(ctx context.Context, recent int) (progress.Overview, error)
}

// Local serves MCP queries straight from a tracker. Each query reloads the
// tracker first so writes by other processes sharing the store are visible.
type Local struct {
	tracker *tracker.Tracker
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps tr.
func NewLocal(tr *tracker.Tracker) *Local {
	return &Local{tracker: tr}
}

func (l *Local) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	l.tracker.Reload(ctx)
	return l.tracker.ListSessions(), nil
}

func (l *Local) Progression(ctx context.Context, exercise string) (progress.Report, error) {
	l.tracker.Reload(ctx)
	return l.tracker.ProgressionFor(exercise), nil
}

func (l *Local) ExerciseNames(ctx context.Context) ([]string, error) {
	l.tracker.Reload(ctx)
	return l.tracker.ExerciseNames(), nil
}

func (l *Local) AvailableExercises(ctx context.Context, wt models.WorkoutType, exclude []string) ([]string, error) {
	l.tracker.Reload(ctx)
	return l.tracker.AvailableExercises(wt, exclude)
}

func (l *Local) CustomExercises(ctx context.Context) (map[models.WorkoutType][]string, error) {
	l.tracker.Reload(ctx)
	return l.tracker.CustomExercises(), nil
}

func (l *Local) Stats(ctx context.Context, recent int) (progress.Overview, error) {
	l.tracker.Reload(ctx)
	return l.tracker.Stats(recent), nil
}
