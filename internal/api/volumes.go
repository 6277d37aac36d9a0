package api

import "net/http"

func (s *Server) listVolumes(w http.ResponseWriter, r *http.Request) {
	vols, err := s.runtime.ListVolumes(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, vols)
}
