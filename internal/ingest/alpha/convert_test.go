package alpha

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/go-cmp/cmp"
)

// TestWorkoutType verifies the type comes from the first word of the session name.
func TestWorkoutType(t *testing.T) {
	tests := []struct {
		in   string
		want models.WorkoutType
		ok   bool
	}{
		{"Push · Day 1 · Week 4", models.Push, true},
		{"legs day", models.Legs, true},
		{"Pull-Day A", models.Pull, true},
		{"Full Body", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := WorkoutType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("WorkoutType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

// TestToWorkoutSessions verifies warmups are dropped, weights snap to 0.5, and
// repeated exercises merge.
func TestToWorkoutSessions(t *testing.T) {
	date := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	in := []Session{
		{
			Name: "Upper · Day 1",
			Date: date,
			Exercises: []Exercise{
				{Name: "Bench Press", Warmups: []Set{{Weight: 40, Reps: 10}}, Sets: []Set{{Weight: 80, Reps: 8}, {Weight: 82.3, Reps: 6}}},
				{Name: "Dips", Sets: []Set{{Weight: 20, BodyweightPlus: true, Reps: 8}, {Weight: 20, Reps: 0}}},
				{Name: "Bench Press", Sets: []Set{{Weight: 70, Reps: 12}}},
				{Name: "Curls", Sets: []Set{{Weight: 10, Reps: 0}}},
			},
		},
		{Name: "Cardio", Date: date, Exercises: []Exercise{{Name: "Run", Sets: []Set{{Weight: 0, Reps: 1}}}}},
		{Name: "Push · empty", Date: date, Exercises: []Exercise{{Name: "Dips", Warmups: []Set{{Weight: 0, Reps: 5}}}}},
	}

	out, skipped := ToWorkoutSessions(in)
	if diff := cmp.Diff([]string{"Cardio", "Push · empty"}, skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
	if len(out) != 1 {
		t.Fatalf("sessions = %d, want 1", len(out))
	}
	s := out[0]
	if s.Type != models.Upper || !s.Date.Equal(date) {
		t.Errorf("session = %s %v", s.Type, s.Date)
	}
	if len(s.Exercises) != 2 {
		t.Fatalf("exercises = %+v", s.Exercises)
	}
	wantBench := []models.SetEntry{{Weight: 80, Reps: 8}, {Weight: 82.5, Reps: 6}, {Weight: 70, Reps: 12}}
	if diff := cmp.Diff(wantBench, s.Exercises[0].Sets); diff != "" {
		t.Errorf("bench sets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]models.SetEntry{{Weight: 20, Reps: 8}}, s.Exercises[1].Sets); diff != "" {
		t.Errorf("dips sets mismatch (-want +got):\n%s", diff)
	}

	again, _ := ToWorkoutSessions(in)
	if again[0].ID != s.ID {
		t.Error("session ID should be stable across conversions")
	}
}

type fakeImporter struct {
	seen map[string]bool
}

func (f *fakeImporter) ImportSessions(_ context.Context, sessions []models.WorkoutSession) int {
	n := 0
	for _, s := range sessions {
		if !f.seen[s.ID.String()] {
			f.seen[s.ID.String()] = true
			n++
		}
	}
	return n
}

// TestProviderIngestIsIdempotent verifies a second import of the same export adds nothing.
func TestProviderIngestIsIdempotent(t *testing.T) {
	dst := &fakeImporter{seen: map[string]bool{}}
	p := NewProvider(dst, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionsReceived != 2 || res.SessionsInserted != 2 || res.SetsReceived != 13 {
		t.Errorf("first result = %+v", res)
	}

	res, err = p.Ingest(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionsInserted != 0 || res.SessionsDuplicate != 2 || res.Message == "" {
		t.Errorf("second result = %+v", res)
	}
}
