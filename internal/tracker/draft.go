package tracker

import (
	"context"
	"strings"

	"github.com/claude/gymlog/internal/catalog"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/observability"
	"github.com/claude/gymlog/internal/workout"
)

// DraftView is a snapshot of the active workout.
type DraftView struct {
	Type      models.WorkoutType      `json:"type"`
	State     workout.State           `json:"state"`
	Exercises []models.ExerciseRecord `json:"exercises"`
}

func viewOf(d *workout.Draft) DraftView {
	return DraftView{Type: d.Type(), State: d.State(), Exercises: d.Exercises()}
}

// CreateDraft starts a workout of type wt with the named exercises.
func (t *Tracker) CreateDraft(wt models.WorkoutType, names []string) (DraftView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft != nil {
		return DraftView{}, ErrDraftInProgress
	}
	d, err := workout.BuildDraft(wt, names, t.now)
	if err != nil {
		return DraftView{}, err
	}
	t.draft = d
	t.log.Info("workout started", "type", wt, "exercises", len(names))
	return viewOf(d), nil
}

// ActiveDraft returns the in-progress workout.
func (t *Tracker) ActiveDraft() (DraftView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft == nil {
		return DraftView{}, ErrNoDraft
	}
	return viewOf(t.draft), nil
}

// AddExerciseToDraft appends an exercise to the active workout. A name that is
// neither built in nor already registered is saved as a custom exercise for
// the workout's type so it is offered next time.
func (t *Tracker) AddExerciseToDraft(ctx context.Context, name string) (DraftView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft == nil {
		return DraftView{}, ErrNoDraft
	}
	if err := t.draft.AddExercise(name); err != nil {
		return DraftView{}, err
	}
	wt := t.draft.Type()
	if name = strings.TrimSpace(name); !catalog.IsBuiltIn(wt, name) {
		t.addCustomLocked(ctx, wt, name)
	}
	return viewOf(t.draft), nil
}

// RemoveExerciseFromDraft drops the exercise at index from the active workout.
func (t *Tracker) RemoveExerciseFromDraft(index int) (DraftView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft == nil {
		return DraftView{}, ErrNoDraft
	}
	if err := t.draft.RemoveExercise(index); err != nil {
		return DraftView{}, err
	}
	return viewOf(t.draft), nil
}

// AddSetToDraft logs a set against the exercise at index and returns the
// updated record.
func (t *Tracker) AddSetToDraft(index int, weight float64, reps int) (models.ExerciseRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft == nil {
		return models.ExerciseRecord{}, ErrNoDraft
	}
	if err := t.draft.AddSet(index, weight, reps); err != nil {
		return models.ExerciseRecord{}, err
	}
	observability.RecordSetLogged()
	return t.draft.Exercises()[index], nil
}

// QuickAddWeights returns weight suggestions for the exercise at index.
func (t *Tracker) QuickAddWeights(index int) ([]float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft == nil {
		return nil, ErrNoDraft
	}
	return t.draft.QuickAddWeights(index)
}

// CommitDraft finishes the active workout. With save, the exercises that have
// sets become a new session at the end of the history; nil is returned when
// nothing was logged or save is false. The draft is released either way.
func (t *Tracker) CommitDraft(ctx context.Context, save bool) (*models.WorkoutSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.draft == nil {
		return nil, ErrNoDraft
	}
	s, err := t.draft.Finish(save)
	if err != nil {
		return nil, err
	}
	t.draft = nil

	if s == nil {
		observability.RecordDraftDiscarded()
		t.log.Info("workout finished without saving", "save", save)
		return nil, nil
	}

	t.updateSessions(ctx, func(cur []models.WorkoutSession) ([]models.WorkoutSession, bool) {
		return append(cur, s.Clone()), true
	})
	observability.RecordSessionCommitted(string(s.Type))
	t.log.Info("workout saved", "id", s.ID, "type", s.Type, "exercises", len(s.Exercises), "sets", s.TotalSets())

	out := s.Clone()
	return &out, nil
}
