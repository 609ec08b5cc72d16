// Package main implements the LifeLine Connect API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lifelineconnect/lifeline/engine/ask"
	"github.com/lifelineconnect/lifeline/engine/catalog"
	"github.com/lifelineconnect/lifeline/engine/location"
	"github.com/lifelineconnect/lifeline/pkg/fn"
	"github.com/lifelineconnect/lifeline/pkg/metrics"
	"github.com/lifelineconnect/lifeline/pkg/mid"
	"github.com/lifelineconnect/lifeline/pkg/natsutil"
	"github.com/nats-io/nats.go"
)

const serviceName = "lifeline-api"

// Config holds all environment-based configuration.
type Config struct {
	Port           string
	GRPCPort       string
	ResourcesCSV   string
	CityZipsFile   string
	CORSOrigin     string
	NATSURL        string
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string
}

func loadConfig() Config {
	return Config{
		Port:           envOr("PORT", "8000"),
		GRPCPort:       envOr("GRPC_PORT", ""),
		ResourcesCSV:   envOr("RESOURCES_CSV", "resources.csv"),
		CityZipsFile:   envOr("CITY_ZIPS_FILE", ""),
		CORSOrigin:     envOr("CORS_ORIGIN", "*"),
		NATSURL:        envOr("NATS_URL", ""),
		RateLimitRPS:   envFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 40),
		LogLevel:       envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	// A missing .env is fine; the environment may be set by the platform.
	_ = godotenv.Load()

	cfg := loadConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// buildIndex loads the city/ZIP table from CityZipsFile, or the built-in
// table when unset.
func buildIndex(cfg Config) (*location.Index, error) {
	entries := location.DefaultCityZips()
	if cfg.CityZipsFile != "" {
		var err error
		if entries, err = location.LoadCityZipsFile(cfg.CityZipsFile); err != nil {
			return nil, err
		}
	}
	return location.NewIndex(entries)
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Location index (fatal on a bad table) ---
	idx, err := buildIndex(cfg)
	if err != nil {
		return fmt.Errorf("city zips: %w", err)
	}
	logger.Info("location index built", "cities", len(idx.Cities()), "zips", idx.Len())

	// --- Resource catalog ---
	m := metrics.New()
	store := catalog.NewStore(logger)
	snap, err := store.Load(cfg.ResourcesCSV)
	if err != nil {
		m.ObserveCatalog(0, 0, err)
		return err
	}
	m.ObserveCatalog(len(snap.Resources), snap.Rejected, nil)

	composer := ask.New(idx, store.Resources, ask.WithLogger(logger))
	srv := newServer(idx, store, composer, m, logger)

	// --- NATS (optional) ---
	if cfg.NATSURL != "" {
		nc, err := natsutil.Connect(ctx, cfg.NATSURL, serviceName, logger, fn.DefaultRetry)
		if err != nil {
			return err
		}
		defer nc.Drain()
		if err := srv.attachNATS(nc); err != nil {
			return err
		}
		logger.Info("nats attached", "url", nc.ConnectedUrl())
	}

	// --- Reload on SIGHUP ---
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				srv.reload("SIGHUP")
			}
		}
	}()

	// --- gRPC health (optional) ---
	var health *healthService
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		health = newHealthService()
		go func() {
			logger.Info("grpc health starting", "port", cfg.GRPCPort)
			if err := health.Serve(lis); err != nil {
				logger.Error("grpc health stopped", "err", err)
			}
		}()
	}

	// --- HTTP server ---
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.handler(cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "resources", len(snap.Resources))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	if health != nil {
		health.Stop()
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}

// handler wraps the routes in the middleware chain.
func (s *server) handler(cfg Config) http.Handler {
	return mid.Chain(s.routes(),
		mid.Recover(s.logger),
		mid.RequestID(),
		mid.Logger(s.logger),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		mid.OTel(serviceName),
	)
}

// attachNATS publishes answered questions and listens for reload requests.
func (s *server) attachNATS(nc *nats.Conn) error {
	s.events = func(ctx context.Context, ev ask.Event) {
		if err := natsutil.Publish(ctx, nc, ask.EventSubject, ev); err != nil {
			s.logger.Warn("ask event publish failed", "err", err)
		}
	}
	_, err := natsutil.Subscribe(nc, catalog.ReloadSubject, func(_ context.Context, req catalog.ReloadRequest) {
		reason := req.Reason
		if reason == "" {
			reason = "nats"
		}
		s.reload(reason)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", catalog.ReloadSubject, err)
	}
	return nil
}
