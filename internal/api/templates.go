package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/auto-dns/mira-gateway/internal/domain"
	"github.com/auto-dns/mira-gateway/internal/templates"
)

type importRequest struct {
	Templates []domain.Template `json:"templates"`
}

func templateID(r *http.Request) domain.TemplateID {
	return domain.TemplateID(chi.URLParam(r, "id"))
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.templates.List(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, list)
}

func (s *Server) exportTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.templates.Export(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="templates.json"`)
	writeJSON(w, s.logger, http.StatusOK, list)
}

func (s *Server) importTemplates(w http.ResponseWriter, r *http.Request) {
	mode, err := templates.ParseImportMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	list, err := s.templates.Import(r.Context(), req.Templates, mode)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, list)
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.templates.Get(r.Context(), templateID(r))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, t)
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.Template
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, s.logger, err)
		return
	}
	created, err := s.templates.Create(r.Context(), t)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, created)
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var t domain.Template
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, s.logger, err)
		return
	}
	updated, err := s.templates.Update(r.Context(), templateID(r), t)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, updated)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.templates.Delete(r.Context(), templateID(r)); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
