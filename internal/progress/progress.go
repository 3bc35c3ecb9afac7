// Package progress derives per-exercise progression and history statistics
// from the saved session list.
package progress

import (
	"slices"
	"sort"
	"time"

	"github.com/claude/gymlog/internal/models"
)

// Point is the heaviest set of one exercise in one session.
type Point struct {
	Date      time.Time `json:"date"`
	MaxWeight float64   `json:"max_weight"`
}

// ProgressionFor returns one point per session containing the named exercise,
// oldest first. Sessions where the exercise's max weight is 0 are skipped.
func ProgressionFor(name string, sessions []models.WorkoutSession) []Point {
	points := []Point{}
	for _, s := range sessions {
		ex, ok := s.Exercise(name)
		if !ok {
			continue
		}
		if w := ex.MaxWeight(); w > 0 {
			points = append(points, Point{Date: s.Date, MaxWeight: w})
		}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// Summary describes a progression.
type Summary struct {
	Best        float64   `json:"best"`
	First       float64   `json:"first"`
	Improvement float64   `json:"improvement"`
	Sessions    int       `json:"sessions"`
	Started     time.Time `json:"started"`
	FirstTime   bool      `json:"first_time"`
}

// Summarize computes the summary of chronologically ordered points.
// Improvement is best minus first, or 0 when the exercise has not improved.
func Summarize(points []Point) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	s := Summary{
		First:     points[0].MaxWeight,
		Sessions:  len(points),
		Started:   points[0].Date,
		FirstTime: len(points) == 1,
	}
	for _, p := range points {
		if p.MaxWeight > s.Best {
			s.Best = p.MaxWeight
		}
	}
	if d := s.Best - s.First; d > 0 {
		s.Improvement = d
	}
	return s
}

// ExerciseNames returns every exercise name that appears in any session, sorted.
func ExerciseNames(sessions []models.WorkoutSession) []string {
	seen := make(map[string]struct{})
	for _, s := range sessions {
		for _, e := range s.Exercises {
			seen[e.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Totals is the aggregate across all sessions.
type Totals struct {
	Workouts  int `json:"workouts"`
	TotalSets int `json:"total_sets"`
}

// ComputeTotals counts sessions and sets.
func ComputeTotals(sessions []models.WorkoutSession) Totals {
	t := Totals{Workouts: len(sessions)}
	for _, s := range sessions {
		t.TotalSets += s.TotalSets()
	}
	return t
}

// Recent returns up to n sessions, newest first. The input is not modified.
func Recent(sessions []models.WorkoutSession, n int) []models.WorkoutSession {
	out := slices.Clone(sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	if out == nil {
		out = []models.WorkoutSession{}
	}
	return out
}

// Report is an exercise's progression together with its summary.
type Report struct {
	Exercise string  `json:"exercise"`
	Points   []Point `json:"points"`
	Summary  Summary `json:"summary"`
}

// NewReport builds the report for name from sessions.
func NewReport(name string, sessions []models.WorkoutSession) Report {
	points := ProgressionFor(name, sessions)
	return Report{Exercise: name, Points: points, Summary: Summarize(points)}
}

// Overview is the history totals plus the most recent sessions.
type Overview struct {
	Totals
	Recent []models.WorkoutSession `json:"recent"`
}

// NewOverview computes totals and the n newest sessions.
func NewOverview(sessions []models.WorkoutSession, n int) Overview {
	return Overview{Totals: ComputeTotals(sessions), Recent: Recent(sessions, n)}
}
