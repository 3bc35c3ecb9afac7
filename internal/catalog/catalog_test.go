package catalog

import (
	"slices"
	"testing"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/go-cmp/cmp"
)

// TestAvailableExercisesOrder verifies built-ins come first in fixed order, followed
// by custom exercises in insertion order.
func TestAvailableExercisesOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Add(models.Upper, "Cable Crossover")
	reg.Add(models.Upper, "Face Pulls")

	got := AvailableExercises(models.Upper, reg, nil)
	want := []string{"Bench Press", "Pull ups", "Shoulder Press", "Preacher Curl", "Dips", "Cable Crossover", "Face Pulls"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AvailableExercises mismatch (-want +got):\n%s", diff)
	}
}

// TestAvailableExercisesExcludesChosen verifies that names already in the draft are
// never offered again and that the result never contains duplicates, for every type.
func TestAvailableExercisesExcludesChosen(t *testing.T) {
	reg := NewRegistry()
	for _, wt := range models.AllWorkoutTypes() {
		reg.Add(wt, "Custom "+string(wt))
	}

	for _, wt := range models.AllWorkoutTypes() {
		all := AvailableExercises(wt, reg, nil)
		chosen := []string{all[0], all[len(all)-1]}

		got := AvailableExercises(wt, reg, chosen)
		if len(got) != len(all)-2 {
			t.Errorf("%s: got %d names, want %d", wt, len(got), len(all)-2)
		}
		seen := make(map[string]bool)
		for _, name := range got {
			if slices.Contains(chosen, name) {
				t.Errorf("%s: chosen name %q offered", wt, name)
			}
			if seen[name] {
				t.Errorf("%s: duplicate name %q", wt, name)
			}
			seen[name] = true
		}
	}
}

// TestAvailableExercisesNilRegistry verifies a nil registry yields just the built-ins.
func TestAvailableExercisesNilRegistry(t *testing.T) {
	got := AvailableExercises(models.Legs, nil, []string{"Squats"})
	if len(got) != 5 || got[0] != "Hamstring Curls" {
		t.Errorf("got %v", got)
	}
}

// TestAvailableExercisesAllChosen verifies an empty (non-nil) list when everything is picked.
func TestAvailableExercisesAllChosen(t *testing.T) {
	got := AvailableExercises(models.Upper, NewRegistry(), BuiltIn(models.Upper))
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty slice", got)
	}
}

// TestRegistryAddIdempotent verifies adding the same trimmed name twice yields one entry.
func TestRegistryAddIdempotent(t *testing.T) {
	reg := NewRegistry()
	if !reg.Add(models.Pull, "  Face Pulls ") {
		t.Fatal("first add should change the registry")
	}
	if reg.Add(models.Pull, "Face Pulls") {
		t.Error("second add should be a no-op")
	}
	if got := reg.Names(models.Pull); !slices.Equal(got, []string{"Face Pulls"}) {
		t.Errorf("names = %v", got)
	}
}

// TestRegistryAddRejects verifies blank names, built-ins and invalid types are no-ops.
func TestRegistryAddRejects(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		name string
		wt   models.WorkoutType
		in   string
	}{
		{"empty", models.Push, ""},
		{"whitespace", models.Push, "   \t\n"},
		{"built-in", models.Push, "Dips"},
		{"invalid type", models.WorkoutType("Cardio"), "Rowing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if reg.Add(tt.wt, tt.in) {
				t.Errorf("Add(%q, %q) = true, want false", tt.wt, tt.in)
			}
		})
	}
	if len(reg.Map()) != 0 {
		t.Errorf("registry not empty: %v", reg.Map())
	}
}

// TestRegistryScopedPerType verifies a custom name only shows up for its own type.
func TestRegistryScopedPerType(t *testing.T) {
	reg := NewRegistry()
	reg.Add(models.Legs, "Hip Thrust")
	if !reg.Contains(models.Legs, "Hip Thrust") {
		t.Error("Legs should contain Hip Thrust")
	}
	if slices.Contains(AvailableExercises(models.Upper, reg, nil), "Hip Thrust") {
		t.Error("Hip Thrust leaked into Upper")
	}
	// Same name may be registered under another type.
	if !reg.Add(models.Lower, "Hip Thrust") {
		t.Error("adding to a second type should succeed")
	}
}

// TestRegistryRemove verifies explicit removal and that empty categories are dropped.
func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	reg.Add(models.Upper, "A")
	reg.Add(models.Upper, "B")

	if !reg.Remove(models.Upper, "A") {
		t.Fatal("Remove(A) = false")
	}
	if reg.Remove(models.Upper, "A") {
		t.Error("second Remove(A) should be false")
	}
	if got := reg.Names(models.Upper); !slices.Equal(got, []string{"B"}) {
		t.Errorf("names = %v", got)
	}
	reg.Remove(models.Upper, "B")
	if _, ok := reg.Map()[models.Upper]; ok {
		t.Error("empty category should be omitted from Map")
	}
}

// TestRegistryFromMapSanitizes verifies persisted data is cleaned on load.
func TestRegistryFromMapSanitizes(t *testing.T) {
	reg := RegistryFromMap(map[models.WorkoutType][]string{
		models.Push:                 {"Cable Fly", " Cable Fly ", "", "Dips", "Landmine Press"},
		models.WorkoutType("Other"): {"Ignored"},
	})
	want := map[models.WorkoutType][]string{models.Push: {"Cable Fly", "Landmine Press"}}
	if diff := cmp.Diff(want, reg.Map()); diff != "" {
		t.Errorf("registry mismatch (-want +got):\n%s", diff)
	}
}

// TestRegistryCloneIndependent verifies a clone does not share state.
func TestRegistryCloneIndependent(t *testing.T) {
	reg := NewRegistry()
	reg.Add(models.Pull, "Shrugs")
	c := reg.Clone()
	c.Add(models.Pull, "Curls 21s")
	if len(reg.Names(models.Pull)) != 1 {
		t.Errorf("original changed: %v", reg.Names(models.Pull))
	}
}
