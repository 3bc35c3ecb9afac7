package workout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/uuid"
)

// ErrEmptySession is returned when an edit would leave a session with no logged sets.
var ErrEmptySession = errors.New("session has no exercises with sets")

// EditDraft is a working copy of a saved session. Changes only reach the
// session list when the caller saves Result(); dropping the draft cancels.
type EditDraft struct {
	original  models.WorkoutSession
	exercises []models.ExerciseRecord
}

// Edit opens an edit draft over a copy of s.
func Edit(s models.WorkoutSession) *EditDraft {
	c := s.Clone()
	return &EditDraft{original: c, exercises: c.Clone().Exercises}
}

// SessionID is the identity of the session being edited.
func (e *EditDraft) SessionID() uuid.UUID {
	return e.original.ID
}

// Exercises returns a copy of the working exercise list.
func (e *EditDraft) Exercises() []models.ExerciseRecord {
	return cloneRecords(e.exercises)
}

// AddExercise appends a new exercise with no sets.
func (e *EditDraft) AddExercise(name string) error {
	rec, err := newRecord(e.exercises, name)
	if err != nil {
		return err
	}
	e.exercises = append(e.exercises, rec)
	return nil
}

// RemoveExercise drops the exercise at index.
func (e *EditDraft) RemoveExercise(index int) error {
	if index < 0 || index >= len(e.exercises) {
		return fmt.Errorf("%w: %d", ErrExerciseIndex, index)
	}
	e.exercises = slices.Delete(e.exercises, index, index+1)
	return nil
}

// AddSet appends a set to the exercise at index.
func (e *EditDraft) AddSet(index int, weight float64, reps int) error {
	return appendSet(e.exercises, index, weight, reps)
}

// RemoveSet drops one set from the exercise at index.
func (e *EditDraft) RemoveSet(index, set int) error {
	if index < 0 || index >= len(e.exercises) {
		return fmt.Errorf("%w: %d", ErrExerciseIndex, index)
	}
	sets := e.exercises[index].Sets
	if set < 0 || set >= len(sets) {
		return fmt.Errorf("%w: set %d of exercise %d", ErrExerciseIndex, set, index)
	}
	e.exercises[index].Sets = slices.Delete(sets, set, set+1)
	return nil
}

// Replace swaps the whole working list, validating every set. Used when a
// client submits the edited exercises in one request.
func (e *EditDraft) Replace(exercises []models.ExerciseRecord) error {
	next := make([]models.ExerciseRecord, 0, len(exercises))
	for _, ex := range exercises {
		rec, err := newRecord(next, ex.Name)
		if err != nil {
			return err
		}
		if prev, ok := e.find(rec.Name); ok {
			rec.ID = prev.ID
		}
		for _, s := range ex.Sets {
			if err := ValidateSet(s.Weight, s.Reps); err != nil {
				return fmt.Errorf("%s: %w", rec.Name, err)
			}
			rec.Sets = append(rec.Sets, s)
		}
		next = append(next, rec)
	}
	e.exercises = next
	return nil
}

// Result returns the replacement session: same identity, type and date as the
// original, with exercises that have no sets filtered out.
func (e *EditDraft) Result() (models.WorkoutSession, error) {
	logged := nonEmpty(e.exercises)
	if len(logged) == 0 {
		return models.WorkoutSession{}, ErrEmptySession
	}
	out := e.original
	out.Exercises = logged
	return out, nil
}

func (e *EditDraft) find(name string) (models.ExerciseRecord, bool) {
	for _, r := range e.exercises {
		if r.Name == name {
			return r, true
		}
	}
	return models.ExerciseRecord{}, false
}
