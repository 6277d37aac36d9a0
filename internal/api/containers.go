package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/auto-dns/mira-gateway/internal/docker"
	"github.com/auto-dns/mira-gateway/internal/domain"
)

func (s *Server) listContainers(w http.ResponseWriter, r *http.Request) {
	all, err := boolQuery(r, "all", true)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	containers, err := s.runtime.ListContainers(r.Context(), all)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, containers)
}

func (s *Server) getContainer(w http.ResponseWriter, r *http.Request) {
	detail, err := s.runtime.GetContainer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, detail)
}

func (s *Server) containerLogs(w http.ResponseWriter, r *http.Request) {
	tail := docker.DefaultLogTail
	if raw := r.URL.Query().Get("tail"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, s.logger, fmt.Errorf("tail must be an integer: %w", domain.ErrInvalid))
			return
		}
		tail = n
	}
	logs, err := s.runtime.ContainerLogs(r.Context(), chi.URLParam(r, "id"), tail)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, logs)
}

func (s *Server) startContainer(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.runtime.StartContainer)
}

func (s *Server) stopContainer(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.runtime.StopContainer)
}

func (s *Server) restartContainer(w http.ResponseWriter, r *http.Request) {
	s.lifecycle(w, r, s.runtime.RestartContainer)
}

func (s *Server) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) error) {
	if err := op(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, okResult)
}

func (s *Server) createContainer(w http.ResponseWriter, r *http.Request) {
	var req domain.ContainerCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	summary, err := s.runtime.CreateContainer(r.Context(), req)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, summary)
}

// boolQuery parses an optional boolean query parameter.
func boolQuery(r *http.Request, key string, def bool) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, domain.ErrInvalid)
	}
	return v, nil
}
