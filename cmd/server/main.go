package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"macro-pulse/internal/bot"
	"macro-pulse/internal/cache"
	"macro-pulse/internal/catalog"
	"macro-pulse/internal/config"
	"macro-pulse/internal/handler"
	"macro-pulse/internal/job"
	"macro-pulse/internal/provider"
	"macro-pulse/internal/service"
	"macro-pulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	initRedisFunc      = cache.InitRedis
	initTracerFunc     = tracing.InitTracer
	loadCatalogFunc    = catalog.Load
	newFredGatewayFunc = func(apiKey string, tracer trace.Tracer) service.SeriesGateway {
		return provider.NewFredProvider(apiKey, tracer)
	}
	newChartFetcherFunc = func(tracer trace.Tracer) bot.ChartFetcher {
		return provider.NewFinvizProvider(tracer)
	}
	startSchedulerFunc   = func(s *job.Scheduler, ctx context.Context) error { return s.Start(ctx) }
	startTelegramBotFunc = func(token string, events bot.EventLister, indicators bot.IndicatorQuerier,
		subscriptions bot.SubscriptionStore, charts bot.ChartFetcher) *bot.Bot {
		return bot.StartTelegramBot(token, events, indicators, subscriptions, charts)
	}
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()
	if cfg.FredAPIKey == "" {
		log.Fatal("FRED_API_KEY is required")
	}

	loc, err := time.LoadLocation(cfg.ReleaseTimezone)
	if err != nil {
		log.Fatalf("invalid RELEASE_TIMEZONE %q: %v", cfg.ReleaseTimezone, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	cat, err := loadCatalogFunc(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("failed to load indicator catalog: %v", err)
	}

	fred := newFredGatewayFunc(cfg.FredAPIKey, tracer)
	charts := newChartFetcherFunc(tracer)

	// cache.Client stays a nil *redis.Client when Redis is unreachable; it
	// must not be wrapped into a non-nil interface value.
	var redisClient service.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}

	eventService := service.NewEventService(tracer, fred, cat, redisClient, loc)
	indicatorService := service.NewIndicatorService(tracer, fred, redisClient)
	destinations := service.NewDestinationRegistry()

	tgBot := startTelegramBotFunc(cfg.TelegramBotToken, eventService, indicatorService, destinations, charts)

	var sender job.NotificationSender
	if tgBot != nil {
		sender = tgBot
	}
	notifier := job.NewNotifier(tracer, eventService, destinations, sender)

	scheduler := job.NewScheduler(eventService, notifier, cfg.RefreshInterval, cfg.NotifyInterval)
	if err := startSchedulerFunc(scheduler, ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	h := handler.New(tracer, eventService, indicatorService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("macro-pulse"))
	h.RegisterRoutes(r, cfg.APIKey)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()
	scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
