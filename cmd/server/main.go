package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/bot"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/cache"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/coach"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/config"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/db"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/handler"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/job"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/provider"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/repository"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/service"
	"github.com/luigiabbondandolo0-crypto/risksent/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "github.com/luigiabbondandolo0-crypto/risksent/docs"
)

var (
	loadEnvFunc      = godotenv.Load
	loadConfigFunc   = config.Load
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	initTracerFunc   = tracing.InitTracer
	newGatewayFunc   = func(tracer trace.Tracer, cfg *config.Config) service.AccountGateway {
		return provider.NewMTBridgeProvider(tracer, cfg.MTBridgeBaseURL, cfg.MTBridgeToken,
			time.Duration(cfg.RiskFetchTimeoutSecs)*time.Second)
	}
	newBotFunc             = bot.NewBot
	startSweepFunc         = func(j *job.RiskSweepJob, ctx context.Context) { go j.Start(ctx) }
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           RiskSent API
// @version         1.0
// @description     Risk evaluation and alerting engine for MetaTrader accounts.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initPostgresFunc(ctx, cfg.DatabaseURL)
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

	alertRepo := repository.NewAlertRepository(db.Pool, tracer)
	rulesRepo := repository.NewRulesRepository(db.Pool, tracer)
	accountRepo := repository.NewAccountRepository(db.Pool, tracer)

	gateway := newGatewayFunc(tracer, cfg)

	tgBot, err := newBotFunc(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("failed to start telegram bot: %v", err)
	}

	var digest service.DigestComposer
	if cfg.OpenAIAPIKey != "" {
		digest = coach.NewCoach(tracer, coach.NewOpenAIClient(cfg.OpenAIAPIKey), cfg.OpenAIModel)
	} else {
		digest = coach.NewCoach(tracer, nil, cfg.OpenAIModel)
	}

	dispatcher := service.NewDispatcher(tracer, alertRepo, tgBot, digest,
		service.NotifyConfig{OpsChatID: cfg.TelegramOpsChatID})

	var summaryCache service.RedisClient
	if cache.Client != nil {
		summaryCache = cache.Client
	}
	riskService := service.NewRiskService(tracer, gateway, rulesRepo, accountRepo,
		dispatcher, summaryCache, cfg.RiskSweepWorkers)

	tgBot.Start(riskService, alertRepo, accountRepo)

	sweep := job.NewRiskSweepJob(tracer, riskService, time.Duration(cfg.RiskSweepSecs)*time.Second)
	startSweepFunc(sweep, ctx)

	h := handler.New(tracer, riskService, alertRepo, rulesRepo)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("risksent"))

	h.RegisterRoutes(r, handler.APIKeyAuth(cfg.APIKey))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
