package server

import (
	"net/http"

	"github.com/claude/gymlog/internal/models"
)

type customExerciseRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// handleAvailableExercises serves ?type=Push&exclude=Dips&exclude=Rows.
func (s *Server) handleAvailableExercises(w http.ResponseWriter, r *http.Request) {
	wt, err := models.ParseWorkoutType(r.URL.Query().Get("type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	names, err := s.tracker.AvailableExercises(wt, r.URL.Query()["exclude"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleListCustomExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.CustomExercises())
}

func (s *Server) handleAddCustomExercise(w http.ResponseWriter, r *http.Request) {
	var req customExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	wt, err := models.ParseWorkoutType(req.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	added, err := s.tracker.AddCustomExercise(r.Context(), wt, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"added": added})
}

func (s *Server) handleRemoveCustomExercise(w http.ResponseWriter, r *http.Request) {
	wt, err := models.ParseWorkoutType(pathParam(r, "type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	removed, err := s.tracker.RemoveCustomExercise(r.Context(), wt, pathParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "custom exercise not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
