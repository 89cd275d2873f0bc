package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaneclick1-cyber/Kinddraw/internal/config"
	"github.com/shaneclick1-cyber/Kinddraw/internal/db"
	"github.com/shaneclick1-cyber/Kinddraw/internal/http/handlers"
	"github.com/shaneclick1-cyber/Kinddraw/internal/http/middleware"
	"github.com/shaneclick1-cyber/Kinddraw/internal/integrations"
	"github.com/shaneclick1-cyber/Kinddraw/internal/integrations/xstripe"
	"github.com/shaneclick1-cyber/Kinddraw/internal/logging"
	"github.com/shaneclick1-cyber/Kinddraw/internal/payments"
	"github.com/shaneclick1-cyber/Kinddraw/internal/rate"
	"github.com/shaneclick1-cyber/Kinddraw/internal/repository"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("log error: %v", err)
	}
	defer func() {
		_ = cleanup()
	}()
	logger = logger.With("service", "api")
	slog.SetDefault(logger)

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Error("migrate error", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db error", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.New(pool)
	if cfg.DatabaseReadURL != cfg.DatabaseURL {
		readPool, err := db.NewReadPool(ctx, cfg.DatabaseReadURL)
		if err != nil {
			logger.Error("db read pool error", "error", err)
			os.Exit(1)
		}
		defer readPool.Close()
		repo = repo.WithReadPool(readPool)
	}

	var provider payments.Provider
	if stripeClient := xstripe.New(cfg.Stripe.SecretKey); stripeClient != nil {
		provider = stripeClient
	} else {
		logger.Warn("stripe_disabled", "reason", "STRIPE_SECRET_KEY not set")
	}
	paymentService := payments.NewService(provider, repo, payments.Config{
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
		ProductName:   cfg.Stripe.ProductName,
	}, logger)

	var media handlers.MediaStore
	if cfg.S3.Endpoint != "" && cfg.S3.AccessKey != "" {
		s3Client, err := integrations.NewS3(ctx, cfg.S3)
		if err != nil {
			logger.Error("s3 error", "error", err)
			os.Exit(1)
		}
		media = s3Client
	}

	limits, closeLimits, err := newLimits(cfg, logger)
	if err != nil {
		logger.Error("rate limit error", "error", err)
		os.Exit(1)
	}
	defer closeLimits()

	h := handlers.New(repo, paymentService, media, cfg, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	h.Mount(r, limits)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		checkout, webhook := paymentService.Configured()
		logger.Info("api_listening", "addr", cfg.HTTPAddr, "checkout", checkout, "webhook", webhook, "media", media != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown", "service", "api")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
}

// newLimits uses Redis when REDIS_URL is set so limits hold across replicas,
// and falls back to per-process limiters otherwise.
func newLimits(cfg *config.Config, logger *slog.Logger) (handlers.Limits, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("rate_limit", "backend", "memory")
		return handlers.Limits{
			Checkout: rate.NewKeyedLimiter(cfg.RateLimit.CheckoutPerMinute),
			Comments: rate.NewKeyedLimiter(cfg.RateLimit.CommentsPerMinute),
		}, func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return handlers.Limits{}, nil, err
	}
	client := redis.NewClient(opts)
	logger.Info("rate_limit", "backend", "redis")
	return handlers.Limits{
		Checkout: rate.NewRedisLimiter(client, cfg.RateLimit.Prefix, "checkout", cfg.RateLimit.CheckoutPerMinute, time.Minute),
		Comments: rate.NewRedisLimiter(client, cfg.RateLimit.Prefix, "comments", cfg.RateLimit.CommentsPerMinute, time.Minute),
	}, func() { _ = client.Close() }, nil
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
