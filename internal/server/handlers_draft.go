package server

import (
	"net/http"

	"github.com/claude/gymlog/internal/models"
)

type createDraftRequest struct {
	Type      string   `json:"type"`
	Exercises []string `json:"exercises"`
}

type addExerciseRequest struct {
	Name string `json:"name"`
}

type addSetRequest struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

type finishRequest struct {
	Save bool `json:"save"`
}

// finishResponse reports whether a session was saved; Session is nil otherwise.
type finishResponse struct {
	Saved   bool                   `json:"saved"`
	Session *models.WorkoutSession `json:"session"`
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	wt, err := models.ParseWorkoutType(req.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := s.tracker.CreateDraft(wt, req.Exercises)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	view, err := s.tracker.ActiveDraft()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddDraftExercise(w http.ResponseWriter, r *http.Request) {
	var req addExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := s.tracker.AddExerciseToDraft(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRemoveDraftExercise(w http.ResponseWriter, r *http.Request) {
	index, err := exerciseIndex(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := s.tracker.RemoveExerciseFromDraft(index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddDraftSet(w http.ResponseWriter, r *http.Request) {
	index, err := exerciseIndex(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req addSetRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rec, err := s.tracker.AddSetToDraft(index, req.Weight, req.Reps)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	index, err := exerciseIndex(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	weights, err := s.tracker.QuickAddWeights(index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]float64{"weights": weights})
}

func (s *Server) handleFinishDraft(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	session, err := s.tracker.CommitDraft(r.Context(), req.Save)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, finishResponse{Saved: session != nil, Session: session})
}
