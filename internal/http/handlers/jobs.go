package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/homely/homely-back/internal/domain"
)

const writeTimeout = 5 * time.Second

func (api *API) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := api.jobsService.ListJobs(r.Context())
	if err != nil {
		api.logger.Error().Err(err).Msg("list jobs failed")
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (api *API) CreateJob(w http.ResponseWriter, r *http.Request) {
	var job domain.Job
	if err := decodeJSON(r, &job); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid job payload")
		return
	}

	created, err := api.jobsService.CreateJob(r.Context(), job)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type statusUpdateRequest struct {
	Status domain.JobStatus `json:"status"`
}

func (api *API) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimSpace(chi.URLParam(r, "id"))
	if jobID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "job id is required")
		return
	}

	var request statusUpdateRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid status payload")
		return
	}

	updated, err := api.jobsService.UpdateJobStatus(r.Context(), jobID, request.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// WatchJobs upgrades to a websocket and pushes job events as they happen.
// Clients that prefer polling can ignore this endpoint entirely; the events
// carry the same eventual-consistency guarantee as a poll.
func (api *API) WatchJobs(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		api.logger.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "goodbye")

	events, cancel := api.hub.Subscribe(16)
	defer cancel()

	// The endpoint is push-only; CloseRead keeps control frames serviced and
	// cancels the context when the peer disconnects.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			writeCtx, writeCancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, event)
			writeCancel()
			if err != nil {
				api.logger.Debug().Err(err).Msg("watch subscriber gone")
				return
			}
		}
	}
}
