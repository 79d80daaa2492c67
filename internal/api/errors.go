package api

import (
	"errors"
	"fmt"
	"net/http"

	"adam-dashboard/internal/agents"
	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/marketdata"
	"adam-dashboard/internal/storage"
	"adam-dashboard/internal/wallet"
)

// errBadRequest marks malformed query or body input.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, storage.ErrInvalidInput),
		errors.Is(err, agents.ErrValidation),
		errors.Is(err, wallet.ErrInvalidAddress),
		errors.Is(err, wallet.ErrUnsupportedChain),
		errors.Is(err, domain.ErrUnknownRange):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrDuplicateKey),
		errors.Is(err, agents.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, marketdata.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	log := s.log.WithError(err).WithField("path", r.URL.Path)
	if code >= 500 {
		log.Error("request failed")
	} else {
		log.Debug("request rejected")
	}
	s.writeJSONStatus(w, code, map[string]string{"error": err.Error()})
}

// errUnavailable marks an optional dependency that was not wired.
var errUnavailable = errors.New("not configured")

func errNotConfigured(what string) error {
	return fmt.Errorf("%s: %w", what, errUnavailable)
}
