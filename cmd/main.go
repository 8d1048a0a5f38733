package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/Dosada05/beach-cup/config"
	"github.com/Dosada05/beach-cup/db"
	"github.com/Dosada05/beach-cup/handlers"
	"github.com/Dosada05/beach-cup/live"
	"github.com/Dosada05/beach-cup/logger"
	"github.com/Dosada05/beach-cup/metrics"
	"github.com/Dosada05/beach-cup/repositories"
	api "github.com/Dosada05/beach-cup/routes"
	"github.com/Dosada05/beach-cup/services"
	"github.com/Dosada05/beach-cup/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	app := &cli.App{
		Name:  "beachcup",
		Usage: "four-player beach volleyball tournaments and season leaderboard",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP and websocket server",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return serve(c.Context, cfg, logger.New(cfg.LogLevel))
		},
	}
}

func migrateCommand() *cli.Command {
	withDB := func(action func(ctx context.Context, log zerolog.Logger, cfg *config.Config) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return action(c.Context, logger.New(cfg.LogLevel), cfg)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withDB(func(ctx context.Context, log zerolog.Logger, cfg *config.Config) error {
					conn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout, log)
					if err != nil {
						return err
					}
					defer conn.Close()
					return db.Migrate(ctx, conn, log)
				}),
			},
			{
				Name:  "down",
				Usage: "roll back the most recent migration",
				Action: withDB(func(ctx context.Context, log zerolog.Logger, cfg *config.Config) error {
					conn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout, log)
					if err != nil {
						return err
					}
					defer conn.Close()
					return db.MigrateDown(ctx, conn)
				}),
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: withDB(func(ctx context.Context, log zerolog.Logger, cfg *config.Config) error {
					conn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout, log)
					if err != nil {
						return err
					}
					defer conn.Close()
					return db.MigrationStatus(ctx, conn)
				}),
			},
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().Int("port", cfg.ServerPort).Msg("configuration loaded")

	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database connection")
		} else {
			log.Info().Msg("database connection closed")
		}
	}()
	log.Info().Msg("database connection established")

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, dbConn, log); err != nil {
			return err
		}
	}

	var archive services.ResultArchiver
	if cfg.ArchiveEnabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archive = storage.NewResultArchive(uploader)
		log.Info().Str("bucket", cfg.R2BucketName).Msg("tournament archive enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := live.NewHub(log)
	go wsHub.Run(hubCtx)
	log.Info().Msg("WebSocket Hub started")

	seasonService := services.NewSeasonService(services.SeasonServiceDeps{
		Tx:           repositories.NewTxRunner(dbConn),
		Results:      repositories.NewPostgresTournamentResultRepository(dbConn),
		PlayerPoints: repositories.NewPostgresPlayerPointsRepository(dbConn),
		Leaderboard:  repositories.NewPostgresLeaderboardRepository(dbConn),
		Archive:      archive,
		Broadcaster:  wsHub,
		Metrics:      m,
		Logger:       log,
	})
	tournamentService := services.NewTournamentService(
		services.NewMemorySessionStore(),
		seasonService,
		wsHub,
		m,
		log,
		nil,
	)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			Logger:         log,
			Metrics:        m,
			Gatherer:       registry,
			AllowedOrigins: cfg.CORSAllowedOrigins,
		},
		handlers.NewTournamentHandler(tournamentService),
		handlers.NewSeasonHandler(seasonService),
		handlers.NewWebSocketHandler(wsHub),
		handlers.NewHealthHandler(dbConn),
	)
	log.Info().Msg("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("address", server.Addr).Msg("starting server")
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		log.Info().Msg("server stopped gracefully")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		// Hijacked websocket connections outlive Shutdown; stopping the hub afterwards closes them.
		err := server.Shutdown(shutdownCtx)
		stopHub()
		if err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
			if closeErr := server.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to force close server")
			}
			return err
		}
		log.Info().Msg("server shutdown complete")
	}
	log.Info().Msg("application exited")
	return nil
}
