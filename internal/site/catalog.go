package site

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kroneus/kroneus-site/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"scenarios": s.deps.Store.Catalog().Len(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Store.Catalog())
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.deps.Store.Catalog().Lookup(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError("unknown scenario"))
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"layers": model.Layers()})
}
