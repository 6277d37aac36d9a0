package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Time    string `json:"time"`
	Docker  string `json:"docker"`
	Streams int    `json:"streams"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"service": serviceName,
		"api":     "/api/v1",
	})
}

// handleHealth reports liveness. An unreachable daemon is reported but
// does not fail the check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dockerStatus := "ok"
	if err := s.runtime.Ping(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("Docker daemon ping failed")
		dockerStatus = "unavailable"
	}
	writeJSON(w, s.logger, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: serviceName,
		Time:    s.now().UTC().Format(time.RFC3339Nano),
		Docker:  dockerStatus,
		Streams: s.sessions.Count(),
	})
}
