package api

import (
	"net/http"

	"github.com/auto-dns/mira-gateway/internal/stream"
)

// streamEvents upgrades the request and runs one stream session on the
// handler goroutine until the session closes.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	sess := stream.NewSession(conn, s.feed, s.cfg.Events.WriteTimeout, s.logger)
	s.sessions.Add(sess)
	defer s.sessions.Remove(sess.ID())

	sess.Run(r.Context())
}
