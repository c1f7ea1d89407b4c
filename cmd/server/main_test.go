package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/bot"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/config"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/job"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/service"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewGateway := newGatewayFunc
	origNewBot := newBotFunc
	origStartSweep := startSweepFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{Port: 8080, RiskSweepSecs: 1, RiskFetchTimeoutSecs: 1, RiskSweepWorkers: 1, OpenAIModel: "gpt-4o-mini"}
	}
	initPostgresFunc = func(context.Context, string) {}
	initRedisFunc = func(context.Context, string) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newGatewayFunc = func(trace.Tracer, *config.Config) service.AccountGateway { return stubGateway{} }
	newBotFunc = func(string) (*bot.Bot, error) { return nil, nil }
	startSweepFunc = func(*job.RiskSweepJob, context.Context) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newGatewayFunc = origNewGateway
		newBotFunc = origNewBot
		startSweepFunc = origStartSweep
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}

type stubGateway struct{}

func (stubGateway) GetAccountSummary(ctx context.Context, accountRef string) (*domain.AccountSummary, []byte, error) {
	return &domain.AccountSummary{Balance: 1, Equity: 1}, []byte("{}"), nil
}

func (stubGateway) GetClosedOrders(ctx context.Context, accountRef string) ([]domain.ClosedOrder, []byte, error) {
	return nil, []byte("{}"), nil
}

func (stubGateway) GetOpenPositions(ctx context.Context, accountRef string) ([]domain.OpenPosition, []byte, bool, error) {
	return nil, []byte("{}"), false, nil
}
