// Package main is the entrypoint for the EasyDelivery API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/easydelivery/easydelivery/internal/cache"
	"github.com/easydelivery/easydelivery/internal/config"
	"github.com/easydelivery/easydelivery/internal/handler"
	"github.com/easydelivery/easydelivery/internal/metrics"
	"github.com/easydelivery/easydelivery/internal/middleware"
	"github.com/easydelivery/easydelivery/internal/payment"
	"github.com/easydelivery/easydelivery/internal/repository"
	"github.com/easydelivery/easydelivery/internal/server"
	"github.com/easydelivery/easydelivery/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var closers []namedCloser

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, namedCloser{"storage", closeStore})

	healthCheckers := map[string]handler.HealthChecker{
		"storage": store,
		"redis":   nil,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Enabled: cfg.RateLimitEnabled,
	}

	if cfg.RedisURL != "" {
		cacheClient, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			closeAll(ctx, closers, logger)
			return fmt.Errorf("redis unavailable")
		}
		logger.Info("connected to Redis")

		closers = append(closers, namedCloser{"redis", func(context.Context) error { return cacheClient.Close() }})
		healthCheckers["redis"] = cacheClient
		rateLimitCfg.Limiter = cache.NewIPRateLimiter(cacheClient, cfg.RateLimitRPS, cfg.RateLimitBurst)
	} else if cfg.RateLimitEnabled {
		logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	metricsRecorder := metrics.NewPrometheus()

	processor := payment.NewStripeProcessor(payment.StripeConfig{
		SecretKey:         cfg.PaymentSecretKey,
		MaxNetworkRetries: cfg.StripeMaxNetworkRetries,
		Logger:            logger,
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := handler.NewRouter(handler.RouterConfig{
		Logger:             logger,
		Users:              service.NewUserService(store, metricsRecorder),
		Parcels:            service.NewParcelService(store, metricsRecorder),
		Payments:           service.NewPaymentService(processor, metricsRecorder),
		HealthCheckers:     healthCheckers,
		Metrics:            metricsRecorder,
		MetricsHandler:     metricsRecorder.Handler(),
		CORS:               corsCfg,
		Security:           middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()},
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		RateLimit:          rateLimitCfg,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	for _, c := range closers {
		srv.OnShutdown(c.name, c.close)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"rate_limit", rateLimitCfg.Enabled && rateLimitCfg.Limiter != nil,
	)

	return srv.Run(ctx)
}

type namedCloser struct {
	name  string
	close server.ShutdownFunc
}

// closeAll releases already-opened dependencies when startup fails.
func closeAll(ctx context.Context, closers []namedCloser, logger *slog.Logger) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].close(ctx); err != nil {
			logger.Warn("failed to close dependency", "name", closers[i].name, "error", err)
		}
	}
}

// openStore connects to the configured document store.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Store, server.ShutdownFunc, error) {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		uri := cfg.MongoConnectionURI()
		repo, err := repository.NewMongo(ctx, uri, cfg.MongoDatabase)
		if err != nil {
			logger.Error(
				"failed to connect to MongoDB",
				slog.String("error", sanitizeError(err, uri, cfg.DBPass)),
				slog.String("mongodb_uri", redactURL(uri)),
			)
			return nil, nil, fmt.Errorf("mongodb unavailable")
		}
		logger.Info("connected to MongoDB", "database", cfg.MongoDatabase)
		return repo, repo.Close, nil

	case config.StoragePostgres:
		repo, err := repository.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return nil, nil, fmt.Errorf("postgres unavailable")
		}
		logger.Info("connected to database")
		return repo, func(context.Context) error { repo.Close(); return nil }, nil

	case config.StorageMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return repository.NewMemory(), func(context.Context) error { return nil }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)(password|pass)=[^\s&]+`)

// redactURL drops the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError replaces secrets in err's message. URL secrets are replaced
// with their redacted form; any other secret with "[redacted]".
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := "[redacted]"
		if strings.Contains(secret, "://") {
			redacted = redactURL(secret)
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "$1=redacted")
}
