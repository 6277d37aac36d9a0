package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) listImages(w http.ResponseWriter, r *http.Request) {
	images, err := s.runtime.ListImages(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, images)
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	detail, err := s.runtime.GetImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, detail)
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	force, err := boolQuery(r, "force", false)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.runtime.RemoveImage(r.Context(), chi.URLParam(r, "id"), force); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, okResult)
}
