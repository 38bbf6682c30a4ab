package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayplan/wayplan/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.logger.Error(context.Background(), "error encoding response", "error", err)
		}
	}
}

// writeError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrLoginAlreadyExists),
		errors.Is(err, common.ErrFolderNotEmpty):
		status = http.StatusConflict
	case errors.Is(err, common.ErrBlobOperation):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		// Internal details stay out of the response body.
		s.writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}

	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}
