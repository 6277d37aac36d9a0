package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

func (s *Server) listNetworks(w http.ResponseWriter, r *http.Request) {
	nets, err := s.runtime.ListNetworks(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, nets)
}

func (s *Server) getNetwork(w http.ResponseWriter, r *http.Request) {
	detail, err := s.runtime.GetNetwork(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, detail)
}

func (s *Server) createNetwork(w http.ResponseWriter, r *http.Request) {
	var req domain.NetworkCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	summary, err := s.runtime.CreateNetwork(r.Context(), req)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, summary)
}

func (s *Server) deleteNetwork(w http.ResponseWriter, r *http.Request) {
	if err := s.runtime.RemoveNetwork(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, okResult)
}
