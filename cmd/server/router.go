package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/burstlabs/burst-api/internal/api"
	apiMiddleware "github.com/burstlabs/burst-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	scoreHandler := api.NewScoreHandler(app.scoreService, app.logger)
	challengeHandler := api.NewChallengeHandler(
		app.selectionService,
		app.statsService,
		app.challengeStore,
		app.logger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/echo-score", scoreHandler.GetLatestScore)
			r.Post("/echo-score/runs", scoreHandler.ComputeScore)
			r.Get("/daily-challenge", challengeHandler.GetDailyChallenge)
			r.Get("/challenge-stats", challengeHandler.GetChallengeStats)
			r.Post("/submissions", challengeHandler.SubmitChallenge)
		})
	})

	// Operational endpoints
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
