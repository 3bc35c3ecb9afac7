package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/progress"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

var day = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

// TestListSessions verifies sessions decode with their nested sets.
func TestListSessions(t *testing.T) {
	want := []models.WorkoutSession{{
		ID:   uuid.New(),
		Type: models.Push,
		Date: day,
		Exercises: []models.ExerciseRecord{
			{ID: uuid.New(), Name: "Dips", Sets: []models.SetEntry{{Weight: 20, Reps: 8}}},
		},
	}}
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, want)
		},
	})
	defer ts.Close()

	got, err := NewHTTPClient(ts.URL).ListSessions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sessions mismatch (-want +got):\n%s", diff)
	}
}

// TestProgression verifies the exercise query param and report decoding.
func TestProgression(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("exercise"); got != "Bench Press" {
				t.Errorf("exercise=%q, want Bench Press", got)
			}
			points := []progress.Point{{Date: day, MaxWeight: 100}, {Date: day.AddDate(0, 0, 2), MaxWeight: 120}}
			writeTestJSON(t, w, progress.Report{Exercise: "Bench Press", Points: points, Summary: progress.Summarize(points)})
		},
	})
	defer ts.Close()

	rep, err := NewHTTPClient(ts.URL).Progression(context.Background(), "Bench Press")
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Points) != 2 || rep.Summary.Best != 120 || rep.Summary.Improvement != 20 {
		t.Errorf("report = %+v", rep)
	}
}

// TestAvailableExercises verifies type and repeated exclude params.
func TestAvailableExercises(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises/available": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("type") != "Pull" {
				t.Errorf("type=%q, want Pull", q.Get("type"))
			}
			if diff := cmp.Diff([]string{"Rows", "Pull ups"}, q["exclude"]); diff != "" {
				t.Errorf("exclude mismatch (-want +got):\n%s", diff)
			}
			writeTestJSON(t, w, []string{"Preacher Curl", "Hammer Curl"})
		},
	})
	defer ts.Close()

	names, err := NewHTTPClient(ts.URL).AvailableExercises(context.Background(), models.Pull, []string{"Rows", "Pull ups"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v", names)
	}
}

// TestStats verifies the recent param and that embedded totals decode.
func TestStats(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("recent"); got != "5" {
				t.Errorf("recent=%q, want 5", got)
			}
			writeTestJSON(t, w, progress.Overview{
				Totals: progress.Totals{Workouts: 7, TotalSets: 42},
				Recent: []models.WorkoutSession{},
			})
		},
	})
	defer ts.Close()

	ov, err := NewHTTPClient(ts.URL).Stats(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if ov.Workouts != 7 || ov.TotalSets != 42 {
		t.Errorf("overview = %+v", ov)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses surface the body.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress/exercises": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).ExerciseNames(context.Background())
	if err == nil || !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("err = %v", err)
	}
}

// TestHTTPClientDecodeError verifies malformed bodies produce a decode error.
func TestHTTPClientDecodeError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises/custom": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).CustomExercises(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode custom exercises") {
		t.Errorf("err = %v", err)
	}
}
