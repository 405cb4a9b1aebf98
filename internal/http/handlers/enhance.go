package handlers

import (
	"net/http"
	"strings"

	"github.com/homely/homely-back/internal/domain"
)

type enhanceRequest struct {
	RawText     string             `json:"rawText"`
	ServiceType domain.ServiceType `json:"serviceType"`
}

// Enhance is always 200: the collaborator degrades to a deterministic
// fallback instead of failing.
func (api *API) Enhance(w http.ResponseWriter, r *http.Request) {
	var request enhanceRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid enhance payload")
		return
	}
	if request.ServiceType == "" {
		request.ServiceType = domain.ServiceTypeOther
	}

	draft := api.enhanceService.EnhanceDescription(r.Context(), request.RawText, request.ServiceType)
	writeJSON(w, http.StatusOK, draft)
}

type analyzeRequest struct {
	ImageData string `json:"imageData"`
}

type analyzeResponse struct {
	Suggestion string `json:"suggestion"`
}

func (api *API) Analyze(w http.ResponseWriter, r *http.Request) {
	var request analyzeRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid analyze payload")
		return
	}
	if strings.TrimSpace(request.ImageData) == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "imageData is required")
		return
	}

	suggestion := api.enhanceService.AnalyzeImage(r.Context(), request.ImageData)
	writeJSON(w, http.StatusOK, analyzeResponse{Suggestion: suggestion})
}
