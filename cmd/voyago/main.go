// Command voyago runs the trip-planning core service: the HTTP API, the
// WebSocket progress feed and the MCP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/voyago/voyago/internal/adapter/geoapify"
	vhttp "github.com/voyago/voyago/internal/adapter/http"
	"github.com/voyago/voyago/internal/adapter/llm"
	"github.com/voyago/voyago/internal/adapter/mcp"
	vnats "github.com/voyago/voyago/internal/adapter/nats"
	"github.com/voyago/voyago/internal/adapter/natskv"
	"github.com/voyago/voyago/internal/adapter/openmeteo"
	"github.com/voyago/voyago/internal/adapter/osrm"
	votel "github.com/voyago/voyago/internal/adapter/otel"
	"github.com/voyago/voyago/internal/adapter/postgres"
	"github.com/voyago/voyago/internal/adapter/ristretto"
	"github.com/voyago/voyago/internal/adapter/tiered"
	"github.com/voyago/voyago/internal/adapter/ws"
	"github.com/voyago/voyago/internal/agent"
	"github.com/voyago/voyago/internal/config"
	"github.com/voyago/voyago/internal/logger"
	"github.com/voyago/voyago/internal/middleware"
	"github.com/voyago/voyago/internal/port/cache"
	"github.com/voyago/voyago/internal/port/database"
	"github.com/voyago/voyago/internal/port/eventbus"
	"github.com/voyago/voyago/internal/port/provider"
	"github.com/voyago/voyago/internal/resilience"
	"github.com/voyago/voyago/internal/service"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"archive", cfg.Postgres.DSN != "",
		"nats", cfg.NATS.URL != "",
	)

	ctx := context.Background()

	// --- Telemetry ---

	shutdownTelemetry, err := votel.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	metrics, err := votel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Plan archive (optional) ---

	var store database.Store
	if cfg.Postgres.DSN != "" {
		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		store = postgres.NewStore(pool)
		slog.Info("plan archive enabled")
	} else {
		slog.Info("plan archive disabled")
	}

	// --- Event bus and L2 cache (optional) ---

	var bus eventbus.Bus
	var l2 cache.Cache
	if cfg.NATS.URL != "" {
		b, err := vnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = b.Close() }()
		bus = b

		kv, err := b.KeyValue(ctx, cfg.NATS.CacheBucket, cfg.Cache.PoolTTL)
		if err != nil {
			slog.Warn("nats kv bucket unavailable, running with in-process cache only", "error", err)
		} else {
			l2 = natskv.New(kv)
		}
	}

	// --- Pool cache ---

	l1, err := ristretto.New(cfg.Cache.MaxCostBytes)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer l1.Close()

	var poolCache cache.Cache = l1
	if l2 != nil {
		poolCache = tiered.New(l1, l2, cfg.Cache.L1Expire)
	}

	// --- Providers ---

	newBreaker := func() *resilience.Breaker {
		return resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	}

	weatherClient := openmeteo.NewClient(cfg.Providers.Weather)
	weatherClient.SetBreaker(newBreaker())

	routeClient := osrm.NewClient(cfg.Providers.Route, weatherClient)
	routeClient.SetBreaker(newBreaker())

	var places provider.Places
	var prices provider.PriceLookup
	if cfg.Providers.Places.APIKey != "" {
		g := geoapify.NewClient(cfg.Providers.Places)
		g.SetBreaker(newBreaker())
		places, prices = g, g
	} else {
		slog.Info("places provider disabled, itineraries use placeholders")
	}

	var suggest provider.Suggestions
	if cfg.Providers.LLM.APIKey != "" {
		l := llm.NewClient(cfg.Providers.LLM)
		l.SetBreaker(newBreaker())
		suggest = l
	} else {
		slog.Info("suggestion provider disabled")
	}

	// --- Services ---

	hub := ws.NewHub()

	poolSvc := service.NewPoolService(places, prices, poolCache, cfg.Planner, cfg.Cache.PoolTTL, log)
	poolSvc.SetMetrics(metrics)
	assembler := service.NewItineraryAssembler(suggest, cfg.Planner, log)

	weatherAgent := agent.NewWeather(weatherClient, log)
	routeAgent := agent.NewRoute(routeClient, cfg.Planner.DefaultRouteKm, log)
	budgetAgent := agent.NewBudget(cfg.Planner.UnitRates)
	draftAgent := agent.NewDraft(poolSvc, assembler, log)

	orchestrator := service.NewOrchestrator(weatherAgent, routeAgent, budgetAgent, draftAgent, hub, bus, store, log)
	orchestrator.SetMetrics(metrics)
	compareSvc := service.NewCompareService(poolSvc, weatherClient, cfg.Planner.Scoring, log)

	// --- MCP ---

	if cfg.MCP.Addr != "" {
		mcpSrv := mcp.NewServer(
			mcp.ServerConfig{Addr: cfg.MCP.Addr, Name: "voyago", Version: version},
			mcp.ServerDeps{Planner: orchestrator, Comparer: compareSvc, PoolReader: poolSvc},
		)
		if err := mcpSrv.Start(); err != nil {
			return fmt.Errorf("mcp: %w", err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mcpSrv.Stop(stopCtx); err != nil {
				slog.Warn("mcp shutdown failed", "error", err)
			}
		}()
	}

	// --- HTTP ---

	handlers := vhttp.NewHandlers(orchestrator, compareSvc, poolSvc, store, log)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst).Handler)
	r.Use(vhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(vhttp.Logger)
	r.Use(votel.HTTPMiddleware(cfg.Telemetry.Service))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	vhttp.MountRoutes(r, handlers, hub.HandleWS)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
