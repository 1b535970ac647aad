package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kroneus/kroneus-site/internal/model"
	"github.com/kroneus/kroneus-site/internal/sequencer"
)

type scenarioRequest struct {
	ScenarioID string `json:"scenarioId"`
}

type sessionResponse struct {
	ID    string             `json:"id"`
	State sequencer.Snapshot `json:"state"`
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.deps.Store.Catalog().Lookup(mux.Vars(r)["scenarioId"])
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError("unknown scenario"))
		return
	}
	s.deps.Metrics.PlayRecorded(r.Context(), sc.ID, string(sc.Outcome))
	writeJSON(w, http.StatusOK, sequencer.Play(sc))
}

// scenarioFromBody decodes {scenarioId} and resolves it, writing the error response on failure.
func (s *Server) scenarioFromBody(w http.ResponseWriter, r *http.Request) (model.Scenario, bool) {
	var req scenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError("invalid request body"))
		return model.Scenario{}, false
	}
	sc, ok := s.deps.Store.Catalog().Lookup(req.ScenarioID)
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError("unknown scenario"))
		return model.Scenario{}, false
	}
	return sc, true
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*sequencer.Session, bool) {
	sess, err := s.deps.Sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError("unknown session"))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.scenarioFromBody(w, r)
	if !ok {
		return
	}
	sess, err := s.deps.Sessions.Create(sc)
	if errors.Is(err, sequencer.ErrTooManySessions) {
		writeJSON(w, http.StatusServiceUnavailable, apiError("too many demo sessions, try again later"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiError("could not create session"))
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, State: sess.Player().Snapshot()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, State: sess.Player().Snapshot()})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	// The run outlives this request; Delete and the idle reaper stop it.
	if err := sess.Player().Start(context.Background()); err != nil {
		writeJSON(w, http.StatusConflict, apiError(err.Error()))
		return
	}
	if sc, ok := sess.Player().Scenario(); ok {
		s.deps.Metrics.PlayRecorded(r.Context(), sc.ID, string(sc.Outcome))
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, State: sess.Player().Snapshot()})
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Player().Reset()
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, State: sess.Player().Snapshot()})
}

func (s *Server) handleSelectScenario(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sc, ok := s.scenarioFromBody(w, r)
	if !ok {
		return
	}
	sess.Player().Select(sc)
	writeJSON(w, http.StatusOK, sessionResponse{ID: sess.ID, State: sess.Player().Snapshot()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Delete(mux.Vars(r)["id"]); err != nil {
		writeJSON(w, http.StatusNotFound, apiError("unknown session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
