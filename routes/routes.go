package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Dosada05/beach-cup/handlers"
	"github.com/Dosada05/beach-cup/metrics"
	"github.com/Dosada05/beach-cup/middleware"
)

type Options struct {
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	seasonHandler *handlers.SeasonHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.Instrument(opts.Metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", healthHandler.Healthz)
	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/ws", func(r chi.Router) {
		r.Get("/tournaments/{sessionID}", webSocketHandler.ServeTournament)
		r.Get("/season", webSocketHandler.ServeSeason)
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/tournaments", func(r chi.Router) {
			r.Post("/", tournamentHandler.CreateHandler)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetHandler)
				r.Get("/standings", tournamentHandler.StandingsHandler)
				r.Post("/submit", tournamentHandler.SubmitHandler)
				r.Post("/games/{game}/sets", tournamentHandler.AddSetHandler)
				r.Put("/games/{game}/sets/{set}", tournamentHandler.UpdateSetHandler)
				r.Delete("/games/{game}/sets/{set}", tournamentHandler.RemoveSetHandler)
			})
		})

		r.Post("/tournament-results", tournamentHandler.ScoreAndSaveHandler)
		r.Get("/tournament-history", seasonHandler.HistoryHandler)
		r.Get("/season-leaderboard", seasonHandler.LeaderboardHandler)
		r.Get("/season-leaderboard/export.xlsx", seasonHandler.ExportHandler)
		r.Get("/players/{name}/history", seasonHandler.PlayerHistoryHandler)
		r.Get("/dashboard", seasonHandler.DashboardHandler)

		r.Post("/admin/reset-sequence", seasonHandler.ResetSequenceHandler)
	})
}
