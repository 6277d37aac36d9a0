package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

type errorBody struct {
	Detail string `json:"detail"`
}

var okResult = map[string]string{"result": "ok"}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps domain sentinels onto status codes. Unclassified errors
// are logged and reported as 500.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("API error")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	writeJSON(w, logger, status, errorBody{Detail: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalid),
		errors.Is(err, domain.ErrProtected):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a request body into v. Decode failures wrap
// domain.ErrInvalid.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %v: %w", err, domain.ErrInvalid)
	}
	return nil
}
