package alpha

import (
	"strings"
	"testing"
	"time"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;0,5

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 17:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseSessions verifies a multi-session export with headers, warmups and set tables.
func TestParseSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	legs := sessions[0]
	if legs.Duration != "1:02 hr" || len(legs.Exercises) != 4 {
		t.Fatalf("legs = %+v", legs)
	}
	if want := time.Date(2026, 2, 19, 4, 54, 0, 0, time.UTC); !legs.Date.Equal(want) {
		t.Errorf("legs date = %v, want %v", legs.Date, want)
	}

	tests := []struct {
		name, equipment string
		target          int
		warmups, sets   int
	}{
		{"Hack Squats", "Machine", 8, 2, 3},
		{"Sumo Squats", "Smith machine", 10, 1, 2},
		{"Hyperextensions on Roman Chair", "Bodyweight", 10, 1, 3},
		{"Hanging Leg Raises", "Bodyweight", 12, 0, 2},
	}
	for i, tt := range tests {
		ex := legs.Exercises[i]
		if ex.Number != i+1 || ex.Name != tt.name || ex.Equipment != tt.equipment || ex.TargetReps != tt.target {
			t.Errorf("exercise %d = %q/%q/%d", i, ex.Name, ex.Equipment, ex.TargetReps)
		}
		if len(ex.Warmups) != tt.warmups || len(ex.Sets) != tt.sets {
			t.Errorf("%s: warmups=%d sets=%d, want %d/%d", tt.name, len(ex.Warmups), len(ex.Sets), tt.warmups, tt.sets)
		}
	}

	if rir := legs.Exercises[3].Sets[1].RIR; rir != 0.5 {
		t.Errorf("fractional RIR = %v, want 0.5", rir)
	}

	push := sessions[1]
	if push.Date.Hour() != 17 {
		t.Errorf("push date = %v", push.Date)
	}
	if w := push.Exercises[0].Sets[0].Weight; w != 102.5 {
		t.Errorf("bench weight = %v, want 102.5", w)
	}
}

// TestParseWeight covers decimal commas and bodyweight-plus notation.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantBW bool
	}{
		{"102,5", 102.5, false},
		{"100", 100, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{" +12,5 ", 12.5, true},
	}
	for _, tt := range tests {
		got, bw := parseWeight(tt.in)
		if got != tt.want || bw != tt.wantBW {
			t.Errorf("parseWeight(%q) = %v, %v; want %v, %v", tt.in, got, bw, tt.want, tt.wantBW)
		}
	}
}

// TestParseWarmups verifies warmup extraction from the exercise header.
func TestParseWarmups(t *testing.T) {
	sets := parseWarmups("WU1 · 37,5 kg · 9 reps<br>garbage<br>WU2 · +0 kg · 7 reps")
	if len(sets) != 2 {
		t.Fatalf("warmups = %d, want 2", len(sets))
	}
	if sets[0].Weight != 37.5 || sets[0].Reps != 9 {
		t.Errorf("wu1 = %+v", sets[0])
	}
	if !sets[1].BodyweightPlus || sets[1].Number != 2 {
		t.Errorf("wu2 = %+v", sets[1])
	}
}

// TestParseErrors verifies structural errors report the line number.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"set without exercise", "\"Push · A\";\"2026-01-01 9:00 h\";\"1:00 hr\"\n1;50;5;1\n", "line 2"},
		{"exercise without session", "\"1. Dips · Bodyweight · 8 reps\"\n", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

// TestParseEmptyInput verifies empty input returns no sessions without error.
func TestParseEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}
