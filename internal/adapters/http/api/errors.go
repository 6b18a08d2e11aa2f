package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/storage"
	service "github.com/carlospagolacorrea-rgb/RMW2/internal/app"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/multiplayer"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/scoring"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// badRequest wraps cause under ErrBadRequest for operation op.
func badRequest(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBadRequest, cause)
}

// classify maps a service error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, scoring.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidRanking),
		errors.Is(err, service.ErrEmptyUserID),
		errors.Is(err, storage.ErrEmptyNickname),
		errors.Is(err, multiplayer.ErrNotEnoughPlayers),
		errors.Is(err, multiplayer.ErrEmptyName),
		errors.Is(err, multiplayer.ErrEmptyWord):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, multiplayer.ErrInvalidPhase):
		return http.StatusConflict, "invalid_phase"
	case errors.Is(err, scoring.ErrConfiguration), errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, scoring.ErrUpstream), errors.Is(err, scoring.ErrParse):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
