package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/claude/gymlog/internal/tracker"
	"github.com/claude/gymlog/internal/workout"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// recentLimit is how many sessions the stats endpoint lists by default.
const recentLimit = 3

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("exercise")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.ProgressionFor(name))
}

func (s *Server) handleProgressExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.ExerciseNames())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	n := recentLimit
	if v := r.URL.Query().Get("recent"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid recent parameter"})
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, s.tracker.Stats(n))
}

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tracker.ErrNotFound),
		errors.Is(err, tracker.ErrNoDraft):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrDraftInProgress),
		errors.Is(err, workout.ErrInvalidState),
		errors.Is(err, workout.ErrDuplicateExercise):
		return http.StatusConflict
	case errors.Is(err, workout.ErrInvalidSet),
		errors.Is(err, workout.ErrExerciseIndex),
		errors.Is(err, workout.ErrEmptyName),
		errors.Is(err, workout.ErrNoExercises),
		errors.Is(err, workout.ErrInvalidType),
		errors.Is(err, workout.ErrEmptySession),
		errors.Is(err, tracker.ErrInvalidCustomExercise):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.New("invalid session ID")
	}
	return id, nil
}

func exerciseIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, errors.New("invalid exercise index")
	}
	return i, nil
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
