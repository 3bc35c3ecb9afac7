// Package tracker owns the saved session history, the custom exercise
// registry and the single in-progress workout. Every mutation is a
// read-modify-write against the store that lands before the call returns, so
// several processes (the server, the importer, the MCP binary) can share one
// store without overwriting each other's changes.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/claude/gymlog/internal/catalog"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/observability"
	"github.com/claude/gymlog/internal/progress"
	"github.com/claude/gymlog/internal/workout"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no session has the requested ID.
	ErrNotFound = errors.New("session not found")
	// ErrDraftInProgress is returned when starting a workout while another is active.
	ErrDraftInProgress = errors.New("a workout is already in progress")
	// ErrNoDraft is returned by draft operations when no workout is active.
	ErrNoDraft = errors.New("no workout in progress")
	// ErrInvalidCustomExercise is returned when a custom exercise name is blank
	// or its type is unknown.
	ErrInvalidCustomExercise = errors.New("invalid custom exercise")
)

// Store is the persistence the tracker needs. *storage.Repository implements it.
type Store interface {
	LoadSessions(ctx context.Context) []models.WorkoutSession
	FetchSessions(ctx context.Context) ([]models.WorkoutSession, error)
	UpdateSessions(ctx context.Context, fn func([]models.WorkoutSession) ([]models.WorkoutSession, bool)) ([]models.WorkoutSession, error)
	LoadRegistry(ctx context.Context) *catalog.Registry
	FetchRegistry(ctx context.Context) (*catalog.Registry, error)
	UpdateRegistry(ctx context.Context, fn func(*catalog.Registry) bool) (*catalog.Registry, error)
}

// Options configures a Tracker.
type Options struct {
	Logger *slog.Logger
	// Now stamps committed sessions. Defaults to time.Now.
	Now func() time.Time
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	store    Store
	log      *slog.Logger
	now      func() time.Time
	sessions []models.WorkoutSession
	registry *catalog.Registry
	draft    *workout.Draft
}

// Open loads the saved state from store.
func Open(ctx context.Context, store Store, opts Options) *Tracker {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	t := &Tracker{
		store:    store,
		log:      opts.Logger,
		now:      opts.Now,
		sessions: store.LoadSessions(ctx),
		registry: store.LoadRegistry(ctx),
	}
	t.log.Info("tracker loaded", "sessions", len(t.sessions), "custom_types", len(t.registry.Map()))
	return t
}

// Reload replaces the in-memory history and registry with what the store
// holds now, picking up writes made by other processes. State that cannot be
// read is left as it was.
func (t *Tracker) Reload(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sessions, err := t.store.FetchSessions(ctx); err == nil {
		t.sessions = sessions
	}
	if reg, err := t.store.FetchRegistry(ctx); err == nil {
		t.registry = reg
	}
}

// ListSessions returns copies of all saved sessions, newest first.
func (t *Tracker) ListSessions() []models.WorkoutSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.Recent(cloneSessions(t.sessions), -1)
}

// Session returns a copy of the session with the given ID.
func (t *Tracker) Session(id uuid.UUID) (models.WorkoutSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return models.WorkoutSession{}, ErrNotFound
	}
	return t.sessions[i].Clone(), nil
}

// DeleteSession removes exactly the session with the given ID, keeping the
// order of the rest, and persists the list.
func (t *Tracker) DeleteSession(ctx context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	found := false
	t.updateSessions(ctx, func(cur []models.WorkoutSession) ([]models.WorkoutSession, bool) {
		i := indexOf(cur, id)
		if found = i >= 0; !found {
			return cur, false
		}
		return slices.Delete(cur, i, i+1), true
	})
	if !found {
		return ErrNotFound
	}
	t.log.Info("session deleted", "id", id)
	return nil
}

// EditSession opens an edit draft over a saved session.
func (t *Tracker) EditSession(id uuid.UUID) (*workout.EditDraft, error) {
	s, err := t.Session(id)
	if err != nil {
		return nil, err
	}
	return workout.Edit(s), nil
}

// SaveEdit replaces the edited session in place. The session must still exist.
func (t *Tracker) SaveEdit(ctx context.Context, d *workout.EditDraft) (models.WorkoutSession, error) {
	updated, err := d.Result()
	if err != nil {
		return models.WorkoutSession{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	found := false
	t.updateSessions(ctx, func(cur []models.WorkoutSession) ([]models.WorkoutSession, bool) {
		i := indexOf(cur, updated.ID)
		if found = i >= 0; !found {
			return cur, false
		}
		cur[i] = updated.Clone()
		return cur, true
	})
	if !found {
		return models.WorkoutSession{}, ErrNotFound
	}
	t.log.Info("session edited", "id", updated.ID, "exercises", len(updated.Exercises))
	return updated.Clone(), nil
}

// ImportSessions appends sessions whose IDs are not already present and
// persists once. Sessions with no logged sets are skipped. Returns the number added.
func (t *Tracker) ImportSessions(ctx context.Context, sessions []models.WorkoutSession) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	incoming := make([]models.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		if s.TotalSets() == 0 || !s.Type.Valid() {
			continue
		}
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		incoming = append(incoming, s)
	}

	added := 0
	t.updateSessions(ctx, func(cur []models.WorkoutSession) ([]models.WorkoutSession, bool) {
		added = 0
		for _, s := range incoming {
			if indexOf(cur, s.ID) >= 0 {
				continue
			}
			cur = append(cur, s.Clone())
			added++
		}
		return cur, added > 0
	})
	if added > 0 {
		observability.RecordSessionsImported(added)
	}
	t.log.Info("sessions imported", "added", added, "skipped", len(sessions)-added)
	return added
}

// Stats returns the history totals and the recent newest sessions.
func (t *Tracker) Stats(recent int) progress.Overview {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.NewOverview(cloneSessions(t.sessions), recent)
}

// ProgressionFor returns the named exercise's progression and its summary.
func (t *Tracker) ProgressionFor(name string) progress.Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.NewReport(name, t.sessions)
}

// ExerciseNames lists every exercise that appears in the history, sorted.
func (t *Tracker) ExerciseNames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.ExerciseNames(t.sessions)
}

// AvailableExercises lists what can still be added to a workout of type wt.
func (t *Tracker) AvailableExercises(wt models.WorkoutType, excluding []string) ([]string, error) {
	if !wt.Valid() {
		return nil, fmt.Errorf("%w: %q", workout.ErrInvalidType, wt)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return catalog.AvailableExercises(wt, t.registry, excluding), nil
}

// CustomExercises returns a copy of the registry contents.
func (t *Tracker) CustomExercises() map[models.WorkoutType][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.registry.Map()
}

// AddCustomExercise registers a name under wt. Adding an existing or built-in
// name is a no-op and reports false.
func (t *Tracker) AddCustomExercise(ctx context.Context, wt models.WorkoutType, name string) (bool, error) {
	if err := validateCustom(wt, name); err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.addCustomLocked(ctx, wt, name), nil
}

// RemoveCustomExercise deletes a name from wt's custom list. Returns false if
// it was not registered.
func (t *Tracker) RemoveCustomExercise(ctx context.Context, wt models.WorkoutType, name string) (bool, error) {
	if err := validateCustom(wt, name); err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.updateRegistry(ctx, func(reg *catalog.Registry) bool { return reg.Remove(wt, name) }) {
		return false, nil
	}
	t.log.Info("custom exercise removed", "type", wt, "name", name)
	return true, nil
}

func (t *Tracker) addCustomLocked(ctx context.Context, wt models.WorkoutType, name string) bool {
	if !t.updateRegistry(ctx, func(reg *catalog.Registry) bool { return reg.Add(wt, name) }) {
		return false
	}
	t.log.Info("custom exercise added", "type", wt, "name", name)
	return true
}

// updateSessions applies fn to the stored history and adopts the result. If
// the store cannot be read or written, fn is applied to the in-memory list so
// this process still sees the change; the store has reported the failure.
// Callers hold t.mu.
func (t *Tracker) updateSessions(ctx context.Context, fn func([]models.WorkoutSession) ([]models.WorkoutSession, bool)) {
	sessions, err := t.store.UpdateSessions(ctx, fn)
	if err != nil {
		sessions, _ = fn(t.sessions)
	}
	t.sessions = sessions
}

// updateRegistry is updateSessions for the registry and returns fn's result.
func (t *Tracker) updateRegistry(ctx context.Context, fn func(*catalog.Registry) bool) bool {
	changed := false
	reg, err := t.store.UpdateRegistry(ctx, func(reg *catalog.Registry) bool {
		changed = fn(reg)
		return changed
	})
	if err != nil {
		return fn(t.registry)
	}
	t.registry = reg
	return changed
}

func (t *Tracker) indexOf(id uuid.UUID) int {
	return indexOf(t.sessions, id)
}

func indexOf(sessions []models.WorkoutSession, id uuid.UUID) int {
	return slices.IndexFunc(sessions, func(s models.WorkoutSession) bool {
		return s.ID == id
	})
}

func validateCustom(wt models.WorkoutType, name string) error {
	if !wt.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCustomExercise, wt)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCustomExercise)
	}
	return nil
}

func cloneSessions(in []models.WorkoutSession) []models.WorkoutSession {
	out := make([]models.WorkoutSession, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
