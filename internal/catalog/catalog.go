// Package catalog holds the built-in exercise lists per workout type and the
// user's custom exercise registry.
package catalog

import (
	"slices"
	"strings"

	"github.com/claude/gymlog/internal/models"
)

var builtins = map[models.WorkoutType][]string{
	models.Upper: {"Bench Press", "Pull ups", "Shoulder Press", "Preacher Curl", "Dips"},
	models.Lower: {"Squats", "Hamstring Curls", "Leg Extension", "Calf Raises", "Freak Machines", "Decline Crunch"},
	models.Push:  {"Dips", "Shoulder Press", "Slight Incline DB Press", "Tricep Pushdown", "Overhead Press", "Chest Fly", "Lateral Raises"},
	models.Pull:  {"Preacher Curl", "Rows", "Pull ups", "Hammer Curl", "Forearm Curls", "Reverse Curls"},
	models.Legs:  {"Squats", "Hamstring Curls", "Leg Extension", "Calf Raises", "Freak Machines", "Ab Machine"},
}

// BuiltIn returns the fixed exercise list for a workout type.
func BuiltIn(t models.WorkoutType) []string {
	return slices.Clone(builtins[t])
}

// IsBuiltIn reports whether name is one of the built-in exercises for t.
func IsBuiltIn(t models.WorkoutType, name string) bool {
	return slices.Contains(builtins[t], name)
}

// AvailableExercises lists what can still be picked for a session of type t:
// built-ins in fixed order, then the custom exercises for t in insertion order,
// minus anything in alreadyChosen.
func AvailableExercises(t models.WorkoutType, reg *Registry, alreadyChosen []string) []string {
	chosen := make(map[string]struct{}, len(alreadyChosen))
	for _, name := range alreadyChosen {
		chosen[name] = struct{}{}
	}

	candidates := BuiltIn(t)
	if reg != nil {
		candidates = append(candidates, reg.Names(t)...)
	}

	out := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if _, ok := chosen[name]; ok {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Registry maps each workout type to the custom exercise names the user added,
// in insertion order and without duplicates.
type Registry struct {
	byType map[models.WorkoutType][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[models.WorkoutType][]string)}
}

// RegistryFromMap builds a registry from persisted data. Unknown workout types,
// blank names, built-in names and duplicates are dropped.
func RegistryFromMap(m map[models.WorkoutType][]string) *Registry {
	reg := NewRegistry()
	for _, t := range models.AllWorkoutTypes() {
		for _, name := range m[t] {
			reg.Add(t, name)
		}
	}
	return reg
}

// Add appends a trimmed name to the list for t. It is a no-op, returning false,
// when the name is blank, already registered for t, or a built-in for t.
func (r *Registry) Add(t models.WorkoutType, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || !t.Valid() {
		return false
	}
	if IsBuiltIn(t, name) || slices.Contains(r.byType[t], name) {
		return false
	}
	r.byType[t] = append(r.byType[t], name)
	return true
}

// Remove deletes name from the list for t. Returns false if it was not there.
func (r *Registry) Remove(t models.WorkoutType, name string) bool {
	names := r.byType[t]
	i := slices.Index(names, strings.TrimSpace(name))
	if i < 0 {
		return false
	}
	r.byType[t] = slices.Delete(slices.Clone(names), i, i+1)
	if len(r.byType[t]) == 0 {
		delete(r.byType, t)
	}
	return true
}

// Names returns a copy of the custom names registered for t.
func (r *Registry) Names(t models.WorkoutType) []string {
	return slices.Clone(r.byType[t])
}

// Contains reports whether name is registered for t.
func (r *Registry) Contains(t models.WorkoutType, name string) bool {
	return slices.Contains(r.byType[t], name)
}

// Map returns a deep copy suitable for serialization. Types without custom
// exercises are omitted.
func (r *Registry) Map() map[models.WorkoutType][]string {
	out := make(map[models.WorkoutType][]string, len(r.byType))
	for t, names := range r.byType {
		if len(names) > 0 {
			out[t] = slices.Clone(names)
		}
	}
	return out
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	return &Registry{byType: r.Map()}
}
