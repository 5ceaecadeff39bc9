package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook/internal/api"
	"salonbook/internal/bookingid"
	"salonbook/internal/config"
	"salonbook/internal/database"
	"salonbook/internal/domain"
	"salonbook/internal/events"
	"salonbook/internal/logging"
	"salonbook/internal/metrics"
	"salonbook/internal/notify"
	"salonbook/internal/repository"
	"salonbook/internal/service"
	"salonbook/internal/staff"
	"salonbook/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logging.Component(logger, "database"))
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, logger)

	bus := events.NewEventBus(func(eventType string, err error) {
		logger.Error().Err(err).Str("event_type", eventType).Msg("event handler failed")
	})
	notify.NewNotifier(cfg.Booking.DefaultCountryCode, logging.Component(logger, "notify"), startOutbox(ctx, cfg, redisClient, logger)).Subscribe(bus)

	staffService := service.NewStaffService(db, directoryCache(cfg, redisClient), logging.Component(logger, "staff"))
	appointmentService := service.NewAppointmentService(
		db,
		staffService,
		newGenerator(cfg, redisClient, logger),
		staff.NewMatcher(logging.Component(logger, "staff-matcher"), func(kind staff.ResolutionKind) {
			metrics.IncIdentityResolution(kind.String())
		}),
		bus,
		cfg.Booking.MaxCreateAttempts,
		logging.Component(logger, "appointments"),
	)

	backups := database.NewBackupService(db, cfg.Backup, logging.Component(logger, "backup"))
	go backups.Start(ctx)

	httpServer := api.NewHTTPServer(cfg.API, appointmentService, staffService, logging.Component(logger, "http"))

	return serve(ctx, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, baseLogger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

// newGenerator shares the booking counter through Redis when it is
// reachable and keeps a per-process counter otherwise.
func newGenerator(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) *bookingid.Generator {
	var seq bookingid.Sequence = bookingid.NewMemorySequence()
	if redisClient != nil {
		seq = repository.NewFailoverSequence(
			repository.NewRedisSequence(redisClient, cfg.Redis.SequenceKey),
			seq,
			logging.Component(logger, "booking-sequence"),
			metrics.IncSequenceFailover,
		)
	}

	return bookingid.New(seq,
		bookingid.WithPrefix(cfg.Booking.IDPrefix),
		bookingid.WithLocation(cfg.Booking.Location()),
		bookingid.WithLogger(logging.Component(logger, "booking-id")),
		bookingid.WithObserver(metrics.IncBookingID),
	)
}

// startOutbox returns the notifier's deliver func, or nil when messages are
// only logged.
func startOutbox(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) func(notify.Message) error {
	if redisClient == nil {
		return nil
	}

	w := worker.NewOutboxWorker(
		repository.NewRedisOutbox(redisClient, cfg.Outbox.Key, cfg.Outbox.MaxLen),
		worker.RetryPolicy{},
		cfg.Outbox.QueueSize,
		logging.Component(logger, "outbox"),
		metrics.IncOutboxMessage,
	)
	go w.Start(ctx)
	return w.Enqueue
}

func directoryCache(cfg *config.Config, redisClient *redis.Client) domain.DirectoryCache {
	if redisClient != nil {
		return repository.NewRedisDirectoryCache(redisClient, cfg.Redis.DirectoryCacheTTL)
	}
	return repository.NewMemoryDirectoryCache(cfg.Redis.DirectoryCacheTTL)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
