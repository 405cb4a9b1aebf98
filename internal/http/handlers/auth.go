package handlers

import (
	"net/http"

	"github.com/homely/homely-back/internal/domain"
)

type loginRequest struct {
	Role domain.Role `json:"role"`
}

func (api *API) Login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid login payload")
		return
	}

	profile, err := api.sessionsService.Login(r.Context(), request.Role)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (api *API) CurrentUser(w http.ResponseWriter, r *http.Request) {
	profile, present, err := api.sessionsService.CurrentUser(r.Context())
	if err != nil {
		api.logger.Error().Err(err).Msg("load session failed")
		writeDomainError(w, r, err)
		return
	}
	if !present {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (api *API) Logout(w http.ResponseWriter, r *http.Request) {
	if err := api.sessionsService.Logout(r.Context()); err != nil {
		api.logger.Error().Err(err).Msg("logout failed")
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
