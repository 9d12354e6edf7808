package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/abhisek/adapted/internal/orchestrator"
	"github.com/abhisek/adapted/internal/personality"
	"github.com/abhisek/adapted/internal/profile"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case orchestrator.IsValidation(err),
		errors.Is(err, profile.ErrEmptyUserID),
		errors.Is(err, personality.ErrEmptyUserID):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// decode reads a JSON body into v and validates its struct tags.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return &orchestrator.ValidationError{Field: "body", Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	return orchestrator.Validate(v)
}
