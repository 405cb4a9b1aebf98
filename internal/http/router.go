package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/http/handlers"
	"github.com/homely/homely-back/internal/http/middleware"
)

type RouterDependencies struct {
	API            *handlers.API
	Logger         zerolog.Logger
	AuthToken      string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(deps RouterDependencies) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: deps.CORSOrigins}))
	router.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RPS:   deps.RateLimitRPS,
		Burst: deps.RateLimitBurst,
	}))
	router.Use(middleware.Auth(deps.AuthToken))

	router.Get("/healthz", deps.API.Health)

	router.Route("/api", func(r chi.Router) {
		r.Get("/jobs", deps.API.ListJobs)
		r.Post("/jobs", deps.API.CreateJob)
		r.Patch("/jobs/{id}/status", deps.API.UpdateJobStatus)
		r.Get("/jobs/watch", deps.API.WatchJobs)

		r.Post("/auth/login", deps.API.Login)
		r.Get("/auth/me", deps.API.CurrentUser)
		r.Post("/auth/logout", deps.API.Logout)

		r.Post("/enhance", deps.API.Enhance)
		r.Post("/analyze", deps.API.Analyze)
	})

	return router
}
