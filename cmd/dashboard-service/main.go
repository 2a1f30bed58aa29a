package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/owenkhalil/valetdash/internal/datasync"
	"github.com/owenkhalil/valetdash/internal/feed"
	"github.com/owenkhalil/valetdash/internal/handlers"
	"github.com/owenkhalil/valetdash/internal/notify"
	"github.com/owenkhalil/valetdash/internal/storage"
	"github.com/owenkhalil/valetdash/internal/view"
	"github.com/owenkhalil/valetdash/libs/config"
	"github.com/owenkhalil/valetdash/libs/db"
	"github.com/owenkhalil/valetdash/libs/httpx"
	"github.com/owenkhalil/valetdash/libs/kafkax"
	otelx "github.com/owenkhalil/valetdash/libs/otel"
	"github.com/owenkhalil/valetdash/libs/runtime"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "dashboard-service")
	port, err := config.Port("PORT", "8084")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	viewCfg, err := view.NewConfig(
		config.String("DASHBOARD_LOCALE", "en-GB"),
		config.String("DASHBOARD_CURRENCY", "GBP"),
		config.String("DASHBOARD_ADDON_STYLE", "full"),
	)
	if err != nil {
		logger.Error("invalid dashboard view config", "err", err)
		panic(err)
	}

	table := config.String("BOOKING_TABLE", "bookings")
	ring := notify.NewRing(logger, config.Int("NOTICE_BUFFER", 50))
	repo := storage.NewBookingRepository(pool)

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}

	var changeFeed feed.ChangeFeed
	switch kind := strings.ToLower(config.String("CHANGE_FEED", "postgres")); kind {
	case "kafka":
		brokers := config.String("KAFKA_BROKERS", "")
		changeFeed = feed.NewKafka(logger, feed.KafkaConfig{
			Brokers: brokers,
			GroupID: config.String("KAFKA_GROUP_ID", service),
			Topic:   config.String("KAFKA_TOPIC", "bookings.changed.v1"),
		})
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
		logger.Info("change feed: kafka", "topic", config.String("KAFKA_TOPIC", "bookings.changed.v1"))
	case "memory":
		// Dev-only: no external notifications, list refreshes on boot only.
		changeFeed = feed.NewMemory()
		logger.Warn("change feed: memory (no live updates)")
	default:
		channel := config.String("PG_NOTIFY_CHANNEL", "bookings_changed")
		changeFeed = feed.NewPGListener(pool, logger, channel)
		logger.Info("change feed: postgres", "channel", channel)
	}

	ctrl := datasync.NewController(repo, changeFeed, ring, logger, table)
	go ctrl.Run(ctx)

	dashboard := handlers.NewDashboardHandler(ctrl, ring, viewCfg, logger)
	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	mux.HandleFunc("/api/v1/dashboard", dashboard.Dashboard)
	mux.HandleFunc("/api/v1/bookings", dashboard.Bookings)
	mux.HandleFunc("/api/v1/notices", dashboard.Notices)

	limitPerMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods: config.List("CORS_ALLOWED_METHODS", "GET,OPTIONS"),
			AllowedHeaders: config.List("CORS_ALLOWED_HEADERS", "Content-Type,X-Request-Id"),
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithTimeout(time.Duration(config.Int("REQUEST_TIMEOUT_SECONDS", 10))*time.Second),
		rateLimitMW,
	)
	handler = otelhttp.NewHandler(handler, "dashboard")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
