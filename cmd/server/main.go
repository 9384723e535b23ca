package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"laurelin/internal/experiment/handler"
	experimentmetrics "laurelin/internal/experiment/metrics"
	"laurelin/internal/experiment/service"
	"laurelin/internal/experiment/store/assignment"
	"laurelin/internal/experiment/store/event"
	"laurelin/internal/experiment/store/registry"
	"laurelin/internal/experiment/stream"
	"laurelin/internal/jwttoken"
	"laurelin/internal/platform/config"
	"laurelin/internal/platform/httpserver"
	"laurelin/internal/platform/logger"
	platformmetrics "laurelin/internal/platform/metrics"
	"laurelin/internal/platform/postgres"
	platformredis "laurelin/internal/platform/redis"
	"laurelin/pkg/platform/httputil"
)

const version = "1.0.0"

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Durable stores when Postgres is configured, in-memory otherwise so the
	// service still runs in local development without a database.
	var (
		registryStore   registry.Store
		assignmentStore assignment.Store
		eventStore      event.Store
	)
	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err.Error())
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		registryStore = registry.NewPostgres(db)
		assignmentStore = assignment.NewPostgres(db)
		eventStore = event.NewPostgres(db)
		log.Info("using postgres storage")
	} else {
		registryStore = registry.NewInMemory()
		assignmentStore = assignment.NewInMemory()
		eventStore = event.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		registryStore = registry.NewCache(registryStore, redisClient.Client, cfg.RegistryCacheTTL, log)
		log.Info("experiment registry cache enabled", "ttl", cfg.RegistryCacheTTL.String())
	}

	var publisher stream.Publisher = stream.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := stream.NewKafkaPublisher(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("event publishing enabled", "topic", cfg.Kafka.Topic)
	}

	metrics := experimentmetrics.New()
	svc, err := service.New(registryStore, assignmentStore, eventStore,
		service.WithLogger(log),
		service.WithPublisher(publisher),
		service.WithMetrics(metrics),
	)
	if err != nil {
		log.Error("failed to build experiment service", "error", err.Error())
		os.Exit(1)
	}

	if cfg.SeedDefaultExperiments {
		if err := svc.SeedDefaults(ctx); err != nil {
			log.Error("failed to seed default experiments", "error", err.Error())
			os.Exit(1)
		}
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "laurelin", "laurelin")
	httpMetrics := platformmetrics.New()

	router := chi.NewRouter()
	router.Get("/", handleRoot)
	router.Get("/health", handleHealth(db, redisClient))
	router.Handle("/metrics", promhttp.Handler())

	expHandler := handler.New(svc, log, httpMetrics, jwtService)
	expHandler.Register(router)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting laurelin", "addr", cfg.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "laurelin",
		"version": version,
	})
}

// handleHealth reports per-dependency health. Unconfigured dependencies are
// reported as disabled rather than failing the check.
func handleHealth(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := map[string]string{}

		switch {
		case db == nil:
			checks["postgres"] = "disabled"
		case db.PingContext(ctx) != nil:
			checks["postgres"] = "unhealthy"
			status = http.StatusServiceUnavailable
		default:
			checks["postgres"] = "healthy"
		}

		switch {
		case redisClient == nil:
			checks["redis"] = "disabled"
		case redisClient.Health(ctx) != nil:
			checks["redis"] = "unhealthy"
			status = http.StatusServiceUnavailable
		default:
			checks["redis"] = "healthy"
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status":  overall,
			"service": "laurelin",
			"version": version,
			"checks":  checks,
		})
	}
}
