// Command demo walks the two-dashboard flow end to end: a client posts a
// job, a worker accepts it, and both controllers converge via polling. With
// no -api flag it spins the whole stack in-process.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http/httptest"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/client"
	"github.com/homely/homely-back/internal/config"
	"github.com/homely/homely-back/internal/controller"
	"github.com/homely/homely-back/internal/domain"
	httpserver "github.com/homely/homely-back/internal/http"
	"github.com/homely/homely-back/internal/http/handlers"
	"github.com/homely/homely-back/internal/notify"
	"github.com/homely/homely-back/internal/repository"
	"github.com/homely/homely-back/internal/service"
)

func main() {
	apiURL := flag.String("api", "", "base URL of a running API; empty runs one in-process")
	interval := flag.Duration("interval", 0, "controller poll interval; defaults to POLL_INTERVAL_MS")
	flag.Parse()

	if *interval <= 0 {
		*interval = time.Duration(config.Load().PollIntervalMS) * time.Millisecond
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	baseURL := *apiURL
	if baseURL == "" {
		server := newLocalServer(logger)
		defer server.Close()
		baseURL = server.URL
		logger.Info().Str("url", baseURL).Msg("in-process api started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	apiClient := client.New(baseURL)

	clientProfile, err := apiClient.Login(ctx, domain.RoleClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("client login failed")
	}
	logger.Info().Str("user", clientProfile.Name).Msg("client logged in")

	clientCtrl := controller.NewClientController(
		apiClient,
		clientProfile.ID,
		enhancerAdapter{api: apiClient, logger: logger},
		controller.Config{Interval: *interval, Logger: logger},
	)
	clientCtrl.Start(ctx)
	defer clientCtrl.Close()

	workerCtrl := controller.NewWorkerController(apiClient, controller.Config{
		Interval: *interval,
		Logger:   logger,
	})
	workerCtrl.Start(ctx)
	defer workerCtrl.Close()

	clientCtrl.SetDraft(controller.Draft{
		Description: "Lawn is overgrown, needs mowing and edge trimming",
		ServiceType: domain.ServiceTypeGardening,
		Location:    "789 Pine St, Springfield",
		Date:        time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	})
	clientCtrl.EnhanceDraft(ctx)

	job, err := clientCtrl.SubmitDraft(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("submit failed")
	}
	logger.Info().Str("job_id", job.ID).Str("title", job.Title).Msg("job posted")

	if !waitFor(ctx, func() bool { return len(workerCtrl.Available()) > 0 }) {
		logger.Fatal().Msg("worker never saw the new job")
	}
	available := workerCtrl.Available()
	fmt.Printf("worker sees %d new opportunit(ies); accepting %q\n", len(available), available[0].Title)

	if err := workerCtrl.Accept(ctx, available[0].ID); err != nil {
		logger.Fatal().Err(err).Msg("accept failed")
	}

	if !waitFor(ctx, func() bool {
		for _, j := range clientCtrl.Jobs() {
			if j.ID == job.ID && j.Status == domain.JobStatusAccepted {
				return true
			}
		}
		return false
	}) {
		logger.Fatal().Msg("client never saw the acceptance")
	}

	fmt.Println("client sees the job accepted; worker 'My Jobs':")
	for _, j := range workerCtrl.MyJobs() {
		fmt.Printf("  %-30s %s\n", j.Title, j.Status)
	}
}

func newLocalServer(logger zerolog.Logger) *httptest.Server {
	hub := notify.NewHub()
	jobsService := service.NewJobsService(
		repository.NewMemoryJobsRepository(), hub, service.JobsServiceConfig{}, logger,
	)
	sessionsService := service.NewSessionsService(repository.NewMemorySessionsRepository(), logger)
	enhanceService := service.NewEnhancementService(nil, nil, logger)

	api := handlers.NewAPI(jobsService, sessionsService, enhanceService, hub, logger)
	handler := httpserver.NewRouter(httpserver.RouterDependencies{
		API:         api,
		Logger:      logger,
		CORSOrigins: []string{"*"},
	})
	return httptest.NewServer(handler)
}

// enhancerAdapter exposes the remote enhance endpoint through the controller
// contract, absorbing transport failures into the deterministic fallback the
// collaborator itself would return.
type enhancerAdapter struct {
	api    *client.Client
	logger zerolog.Logger
}

func (a enhancerAdapter) EnhanceDescription(
	ctx context.Context,
	rawText string,
	serviceType domain.ServiceType,
) domain.EnhancedDraft {
	draft, err := a.api.Enhance(ctx, rawText, serviceType)
	if err != nil {
		a.logger.Warn().Err(err).Msg("remote enhance failed, using fallback")
		return domain.EnhancedDraft{
			Title:          fmt.Sprintf("%s Job", serviceType),
			Description:    rawText,
			EstimatedPrice: "Price TBD",
		}
	}
	return draft
}

func waitFor(ctx context.Context, condition func() bool) bool {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if condition() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
