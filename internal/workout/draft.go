// Package workout implements the in-progress workout: planning a session,
// logging sets while it is active, and finishing it into a committed
// WorkoutSession. It also provides the edit flow for sessions already saved.
package workout

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrInvalidState is returned when an operation is not allowed in the draft's current state.
	ErrInvalidState = errors.New("operation not allowed in current state")
	// ErrNoExercises is returned when starting a plan with nothing selected.
	ErrNoExercises = errors.New("at least one exercise must be selected")
	// ErrDuplicateExercise is returned when a name is already part of the draft.
	ErrDuplicateExercise = errors.New("exercise already in workout")
	// ErrEmptyName is returned for blank exercise names.
	ErrEmptyName = errors.New("exercise name is empty")
	// ErrExerciseIndex is returned for an exercise or set index outside the draft.
	ErrExerciseIndex = errors.New("exercise index out of range")
	// ErrInvalidSet is returned when weight or reps fail validation.
	ErrInvalidSet = errors.New("invalid set")
	// ErrInvalidType is returned for an unknown workout type.
	ErrInvalidType = errors.New("invalid workout type")
)

// State is the lifecycle position of a Draft.
type State string

const (
	StatePlanning  State = "planning"
	StateActive    State = "active"
	StateCommitted State = "committed"
	StateDiscarded State = "discarded"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateDiscarded
}

const (
	quickAddSpan = 20
	quickAddStep = 5
)

// Draft is a workout being planned or performed. It is not safe for
// concurrent use; the owner serializes access.
type Draft struct {
	state     State
	typ       models.WorkoutType
	selected  []string
	exercises []models.ExerciseRecord
	now       func() time.Time
}

// Plan opens a draft in the Planning state.
func Plan(t models.WorkoutType, now func() time.Time) (*Draft, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	if now == nil {
		now = time.Now
	}
	return &Draft{state: StatePlanning, typ: t, now: now}, nil
}

// BuildDraft plans a session of type t with the given exercise names and
// starts it, leaving the draft Active with one empty record per name.
func BuildDraft(t models.WorkoutType, names []string, now func() time.Time) (*Draft, error) {
	d, err := Plan(t, now)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := d.Select(name); err != nil {
			return nil, fmt.Errorf("selecting %q: %w", name, err)
		}
	}
	if err := d.Start(); err != nil {
		return nil, err
	}
	return d, nil
}

// State returns the current lifecycle state.
func (d *Draft) State() State { return d.state }

// Type returns the workout type the draft was planned under.
func (d *Draft) Type() models.WorkoutType { return d.typ }

// Selected returns the exercise names chosen while planning.
func (d *Draft) Selected() []string { return slices.Clone(d.selected) }

// Select adds an exercise name to the plan.
func (d *Draft) Select(name string) error {
	if d.state != StatePlanning {
		return fmt.Errorf("select in %s: %w", d.state, ErrInvalidState)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if slices.Contains(d.selected, name) {
		return fmt.Errorf("%q: %w", name, ErrDuplicateExercise)
	}
	d.selected = append(d.selected, name)
	return nil
}

// Deselect removes a name from the plan. Returns false if it was not selected.
func (d *Draft) Deselect(name string) bool {
	if d.state != StatePlanning {
		return false
	}
	i := slices.Index(d.selected, strings.TrimSpace(name))
	if i < 0 {
		return false
	}
	d.selected = slices.Delete(d.selected, i, i+1)
	return true
}

// Start moves Planning to Active, creating an empty record per selected name
// in selection order.
func (d *Draft) Start() error {
	if d.state != StatePlanning {
		return fmt.Errorf("start in %s: %w", d.state, ErrInvalidState)
	}
	if len(d.selected) == 0 {
		return ErrNoExercises
	}
	d.exercises = make([]models.ExerciseRecord, 0, len(d.selected))
	for _, name := range d.selected {
		d.exercises = append(d.exercises, models.NewExerciseRecord(name))
	}
	d.state = StateActive
	return nil
}

// Exercises returns a copy of the records logged so far.
func (d *Draft) Exercises() []models.ExerciseRecord {
	return cloneRecords(d.exercises)
}

// ExerciseNames returns the names currently in the draft, in order.
func (d *Draft) ExerciseNames() []string {
	if d.state == StatePlanning {
		return d.Selected()
	}
	return recordNames(d.exercises)
}

// AddExercise appends a new exercise with no sets to an active draft.
func (d *Draft) AddExercise(name string) error {
	if d.state != StateActive {
		return fmt.Errorf("add exercise in %s: %w", d.state, ErrInvalidState)
	}
	rec, err := newRecord(d.exercises, name)
	if err != nil {
		return err
	}
	d.exercises = append(d.exercises, rec)
	return nil
}

// RemoveExercise drops the exercise at index from an active draft, sets included.
func (d *Draft) RemoveExercise(index int) error {
	if d.state != StateActive {
		return fmt.Errorf("remove exercise in %s: %w", d.state, ErrInvalidState)
	}
	if index < 0 || index >= len(d.exercises) {
		return fmt.Errorf("%w: %d", ErrExerciseIndex, index)
	}
	d.exercises = slices.Delete(d.exercises, index, index+1)
	return nil
}

// AddSet appends a set to the exercise at index. Logged sets are never edited
// or removed while the workout is active.
func (d *Draft) AddSet(index int, weight float64, reps int) error {
	if d.state != StateActive {
		return fmt.Errorf("add set in %s: %w", d.state, ErrInvalidState)
	}
	return appendSet(d.exercises, index, weight, reps)
}

// PreviousSet returns the most recently logged set for the exercise at index.
func (d *Draft) PreviousSet(index int) (models.SetEntry, bool) {
	if index < 0 || index >= len(d.exercises) {
		return models.SetEntry{}, false
	}
	sets := d.exercises[index].Sets
	if len(sets) == 0 {
		return models.SetEntry{}, false
	}
	return sets[len(sets)-1], true
}

// QuickAddWeights suggests weights around the previous set for the exercise at
// index: previous-20 to previous+20 in steps of 5, never below zero. Without a
// previous set the range is centred on zero.
func (d *Draft) QuickAddWeights(index int) ([]float64, error) {
	if d.state != StateActive {
		return nil, fmt.Errorf("quick add in %s: %w", d.state, ErrInvalidState)
	}
	if index < 0 || index >= len(d.exercises) {
		return nil, fmt.Errorf("%w: %d", ErrExerciseIndex, index)
	}
	var prev float64
	if s, ok := d.PreviousSet(index); ok {
		prev = s.Weight
	}
	return QuickAddRange(prev), nil
}

// QuickAddRange returns the suggestion range around prev.
func QuickAddRange(prev float64) []float64 {
	out := make([]float64, 0, 2*quickAddSpan/quickAddStep+1)
	for delta := -quickAddSpan; delta <= quickAddSpan; delta += quickAddStep {
		w := prev + float64(delta)
		if w < 0 {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Finish ends the workout. With save, exercises that never got a set are
// dropped and, if anything is left, the resulting session is returned and the
// draft becomes Committed. Otherwise nil is returned and the draft becomes
// Discarded. Finishing with nothing logged is not an error.
func (d *Draft) Finish(save bool) (*models.WorkoutSession, error) {
	if d.state.Terminal() {
		return nil, fmt.Errorf("finish in %s: %w", d.state, ErrInvalidState)
	}

	var logged []models.ExerciseRecord
	if save && d.state == StateActive {
		logged = nonEmpty(d.exercises)
	}

	d.selected = nil
	d.exercises = nil

	if len(logged) == 0 {
		d.state = StateDiscarded
		return nil, nil
	}

	d.state = StateCommitted
	return &models.WorkoutSession{
		ID:        uuid.New(),
		Type:      d.typ,
		Exercises: logged,
		Date:      d.now(),
	}, nil
}

// ValidateSet checks weight and reps for a new set: weight must be finite,
// non-negative and a multiple of 0.5; reps must be at least 1.
func ValidateSet(weight float64, reps int) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("%w: weight %v", ErrInvalidSet, weight)
	}
	if weight*2 != math.Trunc(weight*2) {
		return fmt.Errorf("%w: weight %v is not a multiple of 0.5", ErrInvalidSet, weight)
	}
	if reps < 1 {
		return fmt.Errorf("%w: reps %d", ErrInvalidSet, reps)
	}
	return nil
}

func appendSet(records []models.ExerciseRecord, index int, weight float64, reps int) error {
	if index < 0 || index >= len(records) {
		return fmt.Errorf("%w: %d", ErrExerciseIndex, index)
	}
	if err := ValidateSet(weight, reps); err != nil {
		return err
	}
	records[index].Sets = append(records[index].Sets, models.SetEntry{Weight: weight, Reps: reps})
	return nil
}

func newRecord(existing []models.ExerciseRecord, name string) (models.ExerciseRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ExerciseRecord{}, ErrEmptyName
	}
	if slices.Contains(recordNames(existing), name) {
		return models.ExerciseRecord{}, fmt.Errorf("%q: %w", name, ErrDuplicateExercise)
	}
	return models.NewExerciseRecord(name), nil
}

func nonEmpty(records []models.ExerciseRecord) []models.ExerciseRecord {
	out := make([]models.ExerciseRecord, 0, len(records))
	for _, r := range records {
		if len(r.Sets) > 0 {
			out = append(out, r.Clone())
		}
	}
	return out
}

func recordNames(records []models.ExerciseRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names
}

func cloneRecords(records []models.ExerciseRecord) []models.ExerciseRecord {
	out := make([]models.ExerciseRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
