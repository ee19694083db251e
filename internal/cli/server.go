package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nursing-album-service/internal/app"
	"nursing-album-service/internal/config"
	"nursing-album-service/internal/content"
	"nursing-album-service/internal/infra/generator"
	"nursing-album-service/internal/infra/memory"
	"nursing-album-service/internal/infra/postgres"
	infraredis "nursing-album-service/internal/infra/redis"
	"nursing-album-service/internal/infra/s3"
	"nursing-album-service/internal/logger"
	"nursing-album-service/internal/metrics"
	transport "nursing-album-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the album server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(serviceName, cfg.Log.Level)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps, cleanup, err := buildServices(ctx, cfg, log, metrics.New(registry))
	if err != nil {
		return err
	}
	defer cleanup()

	api := transport.NewAPIHandler(deps.accounts, deps.game, deps.admin, log)
	ws := transport.NewWSHandler(deps.accounts, deps.game, log)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(api, ws, registry, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(cfg),
	}

	go func() {
		log.WithField("port", finalPort).Info("starting album service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type services struct {
	accounts *app.AccountService
	game     *app.GameService
	admin    *app.AdminService
}

// buildServices picks Postgres or in-memory persistence and Redis or
// in-process caches from cfg, then wires the use cases on top.
func buildServices(ctx context.Context, cfg config.Config, log logrus.FieldLogger, m *metrics.Metrics) (services, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var (
		store  app.Store
		loader memory.CatalogLoader
	)
	if cfg.Postgres.URL != "" {
		db, err := openBun(cfg)
		if err != nil {
			return services{}, cleanup, err
		}
		closers = append(closers, func() { _ = db.Close() })

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return services{}, func() {}, err
		}
		closers = append(closers, pool.Close)

		store = postgres.NewStore(db)
		loader = postgres.NewCatalogLoader(pool)
	} else {
		mem := memory.NewStore(starterCatalog(), adminProfile())
		store = mem
		loader = mem
		log.Info("postgres not configured, using in-memory store with starter data")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 5*time.Minute)

	var (
		catalog  app.CatalogRepository
		sessions app.SessionRepository
	)
	if redisClient != nil {
		catalog = infraredis.NewCatalogCache(redisClient, loader, catalogTTL)
		sessions = infraredis.NewSessionStore(redisClient, sessionTTL)
	} else {
		catalog = memory.NewCatalogCache(loader, catalogTTL)
		sessions = memory.NewSessionStore(sessionTTL)
	}

	var next content.Generator
	if cfg.Generator.Endpoint != "" {
		next = generator.NewClient(generator.Config{
			Endpoint:   cfg.Generator.Endpoint,
			APIKey:     cfg.Generator.APIKey,
			TextModel:  cfg.Generator.TextModel,
			ImageModel: cfg.Generator.ImageModel,
			Timeout:    generatorTimeout(cfg),
		})
	}
	gen := content.NewFallback(next, log, m)

	var art app.ArtStore
	if s3cfg := cfg.Storage.S3; s3cfg.Bucket != "" {
		art = s3.NewArtStore(s3.Config{
			Endpoint:        s3cfg.Endpoint,
			Region:          s3cfg.Region,
			Bucket:          s3cfg.Bucket,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			CDNURL:          s3cfg.CDNURL,
		})
	}

	hub := app.NewLeaderboardHub()
	game := app.NewGameService(app.GameDeps{
		Store:     store,
		Catalog:   catalog,
		Generator: gen,
		Hub:       hub,
		Log:       log,
		Metrics:   m,
	})
	if _, err := game.Leaderboard(ctx); err != nil {
		log.WithError(err).Warn("initial leaderboard failed")
	}

	return services{
		accounts: app.NewAccountService(store, sessions, hub, log),
		game:     game,
		admin:    app.NewAdminService(store, catalog, gen, art, cfg.Admin.Emails, log),
	}, cleanup, nil
}

func generatorTimeout(cfg config.Config) time.Duration {
	return config.TTLDuration(cfg.Generator.Timeout, 20*time.Second)
}

// writeTimeout leaves room for one generator call inside an admin request.
func writeTimeout(cfg config.Config) time.Duration {
	const base = 15 * time.Second
	if t := generatorTimeout(cfg) + base; t > base {
		return t
	}
	return base
}
