package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/pribylovaa/go-auth-tokens/internal/cache"
	"github.com/pribylovaa/go-auth-tokens/internal/codec"
	"github.com/pribylovaa/go-auth-tokens/internal/config"
	"github.com/pribylovaa/go-auth-tokens/internal/hasher"
	"github.com/pribylovaa/go-auth-tokens/internal/interceptors"
	"github.com/pribylovaa/go-auth-tokens/internal/metrics"
	"github.com/pribylovaa/go-auth-tokens/internal/service"
	"github.com/pribylovaa/go-auth-tokens/internal/storage/postgres"
	"github.com/pribylovaa/go-auth-tokens/internal/tokens"
	grpctransport "github.com/pribylovaa/go-auth-tokens/internal/transport/grpc"
	httptransport "github.com/pribylovaa/go-auth-tokens/internal/transport/http"
	"github.com/pribylovaa/go-auth-tokens/internal/transport/http/handlers"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting application", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("service_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}

	log.Info("service_stopped")
}

// run собирает зависимости, поднимает HTTP и gRPC и ждёт завершения ctx.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	integrity, err := codec.NewIntegrity([]byte(cfg.Auth.HMACSecret))
	if err != nil {
		return err
	}

	// Подключение к БД c таймаутом.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	str, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		return err
	}
	defer str.Close()
	log.Info("postgres_connected")

	if !cfg.DB.SkipMigrations {
		migCtx, migCancel := context.WithTimeout(ctx, time.Minute)
		err := str.Migrate(migCtx)
		migCancel()
		if err != nil {
			return err
		}
		log.Info("migrations_applied")
	}

	redisCtx, redisCancel := context.WithTimeout(ctx, 10*time.Second)
	kv, err := cache.NewRedisKV(redisCtx, cfg.Redis.RedisURL, cfg.Redis.Prefix)
	redisCancel()
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()
	log.Info("redis_connected")

	// Сервисы.
	tok := tokens.New(kv, integrity,
		tokens.WithStrongTTL(cfg.Auth.StrongTokenTTL),
		tokens.WithMetrics(metrics.NewTokens(prometheus.DefaultRegisterer)),
	)
	srvc := service.New(str, tok, hasher.NewBcrypt(cfg.Auth.BcryptCost))
	log.Info("service_initialized")

	// HTTP: REST + livez/healthz/metrics.
	var ready readiness
	httpSrv := &http.Server{
		Addr: cfg.HTTP.Addr(),
		Handler: httptransport.NewRouter(srvc, httptransport.Options{
			Logger:       log,
			Timeout:      cfg.Timeouts.Service,
			APIKeyHeader: cfg.Auth.APIKeyHeader,
			Metrics:      promhttp.Handler(),
			Checks: []handlers.Check{
				{Name: "service", Pinger: &ready},
				{Name: "postgres", Pinger: str},
				{Name: "redis", Pinger: kv},
			},
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// gRPC-сервер и интерсепторы.
	grpc_prometheus.EnableHandlingTimeHistogram()
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(log),
			interceptors.UnaryLoggingInterceptor(log),
			interceptors.WithTimeout(cfg.Timeouts.Service),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	grpctransport.Register(grpcServer, grpctransport.NewTokenServer(tok))

	// Рефлексия — только в local/dev.
	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(grpcServer)
	}
	grpc_prometheus.Register(grpcServer)

	grpcAddr := cfg.GRPC.Addr()
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return err
	}

	serveErrCh := make(chan error, 2)
	go func() {
		log.Info("http_listen_start", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()
	go func() {
		log.Info("grpc_listen_start", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- err
		}
	}()

	// Сервис готов: health -> SERVING и readiness.
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(grpctransport.ServiceName, healthpb.HealthCheckResponse_SERVING)
	ready.set(true)

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		log.Error("serve_failed", slog.String("err", serveErr.Error()))
	}

	// Переводим в NOT_SERVING и снимаем ready.
	hs.Shutdown()
	ready.set(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcServer.Stop()
	}

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_failed", slog.String("err", err.Error()))
	}

	return serveErr
}

// readiness — флаг готовности для /healthz.
type readiness struct {
	v atomic.Bool
}

func (r *readiness) set(v bool) { r.v.Store(v) }

// Ping реализует handlers.Pinger.
func (r *readiness) Ping(context.Context) error {
	if !r.v.Load() {
		return errors.New("not ready")
	}
	return nil
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
