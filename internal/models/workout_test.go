package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestParseWorkoutType verifies case-insensitive parsing of the fixed workout types.
func TestParseWorkoutType(t *testing.T) {
	tests := []struct {
		in      string
		want    WorkoutType
		wantErr bool
	}{
		{"Upper", Upper, false},
		{"push", Push, false},
		{"  LEGS ", Legs, false},
		{"cardio", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseWorkoutType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseWorkoutType(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseWorkoutType(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWorkoutType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestAllWorkoutTypesIsCopy verifies callers cannot mutate the package-level type list.
func TestAllWorkoutTypesIsCopy(t *testing.T) {
	types := AllWorkoutTypes()
	if len(types) != 5 {
		t.Fatalf("len = %d, want 5", len(types))
	}
	types[0] = "Cardio"
	if AllWorkoutTypes()[0] != Upper {
		t.Error("AllWorkoutTypes returned shared slice")
	}
	if WorkoutType("Cardio").Valid() {
		t.Error("Cardio should not be valid")
	}
}

// TestSessionDerivedStats verifies TotalSets and MaxWeight across exercises.
func TestSessionDerivedStats(t *testing.T) {
	s := WorkoutSession{
		Type: Push,
		Exercises: []ExerciseRecord{
			{Name: "Dips", Sets: []SetEntry{{Weight: 20, Reps: 8}, {Weight: 25, Reps: 6}}},
			{Name: "Chest Fly", Sets: []SetEntry{{Weight: 17.5, Reps: 12}}},
		},
	}
	if got := s.TotalSets(); got != 3 {
		t.Errorf("TotalSets = %d, want 3", got)
	}
	if got := s.MaxWeight(); got != 25 {
		t.Errorf("MaxWeight = %v, want 25", got)
	}
	if _, ok := s.Exercise("Chest Fly"); !ok {
		t.Error("Exercise(Chest Fly) not found")
	}
}

// TestCloneIsDeep verifies that mutating a clone's sets leaves the original untouched.
func TestCloneIsDeep(t *testing.T) {
	orig := WorkoutSession{Exercises: []ExerciseRecord{{Name: "Rows", Sets: []SetEntry{{Weight: 50, Reps: 10}}}}}
	c := orig.Clone()
	c.Exercises[0].Sets[0].Weight = 999
	c.Exercises[0].Name = "Changed"
	if orig.Exercises[0].Sets[0].Weight != 50 || orig.Exercises[0].Name != "Rows" {
		t.Errorf("original mutated: %+v", orig.Exercises[0])
	}
}

// TestSessionUnmarshalRFC3339 verifies the persisted ISO-8601 date format loads.
func TestSessionUnmarshalRFC3339(t *testing.T) {
	raw := `{"id":"6f1c3a52-6f0e-4c59-9d6a-0f1c6f2b9e11","type":"Pull","exercises":[{"id":"0b7f2a1e-3c4d-4e5f-8a9b-1c2d3e4f5a6b","name":"Rows","sets":[{"weight":60,"reps":10}]}],"date":"2026-03-01T18:30:00Z"}`
	var s WorkoutSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	want := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	if !s.Date.Equal(want) {
		t.Errorf("date = %v, want %v", s.Date, want)
	}
	if s.Type != Pull {
		t.Errorf("type = %q, want Pull", s.Type)
	}
	if len(s.Exercises) != 1 || s.Exercises[0].Sets[0].Weight != 60 {
		t.Errorf("exercises = %+v", s.Exercises)
	}
}

// TestSessionUnmarshalEpoch verifies numeric Unix-second dates are accepted.
func TestSessionUnmarshalEpoch(t *testing.T) {
	raw := `{"id":"6f1c3a52-6f0e-4c59-9d6a-0f1c6f2b9e11","type":"Legs","exercises":[],"date":1767225600}`
	var s WorkoutSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !s.Date.Equal(want) {
		t.Errorf("date = %v, want %v", s.Date, want)
	}
}

// TestSessionUnmarshalBadDate verifies a malformed date fails decoding instead of
// silently producing a zero time.
func TestSessionUnmarshalBadDate(t *testing.T) {
	for _, raw := range []string{
		`{"type":"Legs","date":"yesterday"}`,
		`{"type":"Legs"}`,
		`{"type":"Legs","date":null}`,
	} {
		var s WorkoutSession
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

// TestNewExerciseRecordEncodesEmptySets verifies a fresh record serializes sets as [] not null.
func TestNewExerciseRecordEncodesEmptySets(t *testing.T) {
	data, err := json.Marshal(NewExerciseRecord("Squats"))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if string(out["sets"]) != "[]" {
		t.Errorf("sets = %s, want []", out["sets"])
	}
}
