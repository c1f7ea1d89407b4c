package job

import (
	"context"
	"log"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type SweepRunner interface {
	CheckAll(ctx context.Context) (domain.SweepResult, error)
}

// RiskSweepJob drives the periodic all-accounts risk sweep. The first run
// happens immediately on Start so a restart never leaves a full interval
// unmonitored.
type RiskSweepJob struct {
	tracer       trace.Tracer
	runner       SweepRunner
	pollInterval time.Duration
}

func NewRiskSweepJob(tracer trace.Tracer, runner SweepRunner, pollInterval time.Duration) *RiskSweepJob {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Minute
	}
	return &RiskSweepJob{tracer: tracer, runner: runner, pollInterval: pollInterval}
}

func (j *RiskSweepJob) Start(ctx context.Context) {
	if j.runner == nil {
		log.Println("Risk sweep job disabled: no runner")
		<-ctx.Done()
		return
	}

	j.runOnce(ctx)
	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *RiskSweepJob) runOnce(ctx context.Context) {
	_, span := j.tracer.Start(ctx, "risk-sweep-job.run-once")
	defer span.End()

	result, err := j.runner.CheckAll(ctx)
	if err != nil {
		log.Printf("Risk sweep cycle error: %v", err)
		return
	}

	created := 0
	findings := 0
	for _, a := range result.Accounts {
		created += a.AlertsCreated
		findings += a.FindingsCount
	}
	log.Printf(
		"Risk sweep complete accounts=%d failed=%d findings=%d alerts=%d took=%s",
		len(result.Accounts),
		result.Failed(),
		findings,
		created,
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond),
	)
}
