package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/domain"
	"github.com/homely/homely-back/internal/http/middleware"
	"github.com/homely/homely-back/internal/notify"
	"github.com/homely/homely-back/internal/service"
)

var errInvalidPayload = errors.New("invalid payload")

type API struct {
	jobsService     *service.JobsService
	sessionsService *service.SessionsService
	enhanceService  *service.EnhancementService
	hub             *notify.Hub
	logger          zerolog.Logger
}

func NewAPI(
	jobsService *service.JobsService,
	sessionsService *service.SessionsService,
	enhanceService *service.EnhancementService,
	hub *notify.Hub,
	logger zerolog.Logger,
) *API {
	return &API{
		jobsService:     jobsService,
		sessionsService: sessionsService,
		enhanceService:  enhanceService,
		hub:             hub,
		logger:          logger,
	}
}

type errorPayload struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"request_id"`
}

func writeJSON(w http.ResponseWriter, statusCode int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	payload := errorPayload{RequestID: middleware.GetRequestID(r.Context())}
	payload.Error.Code = code
	payload.Error.Message = message
	writeJSON(w, statusCode, payload)
}

func decodeJSON(r *http.Request, value any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(value); err != nil {
		return errInvalidPayload
	}
	return nil
}

// writeDomainError maps the error taxonomy onto the HTTP surface.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "job not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, r, http.StatusConflict, "conflict", "a job with that id already exists")
	case errors.Is(err, domain.ErrIllegalTransition):
		writeError(w, r, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "store_unavailable", "persistence unavailable")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal_error", "unexpected failure")
	}
}
