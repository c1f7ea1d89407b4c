package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
	"github.com/luigiabbondandolo0-crypto/risksent/internal/risk"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const summaryCacheTTL = 60 * time.Second

type AccountGateway interface {
	GetAccountSummary(ctx context.Context, accountRef string) (*domain.AccountSummary, []byte, error)
	GetClosedOrders(ctx context.Context, accountRef string) ([]domain.ClosedOrder, []byte, error)
	GetOpenPositions(ctx context.Context, accountRef string) ([]domain.OpenPosition, []byte, bool, error)
}

type RulesStore interface {
	GetByUser(ctx context.Context, userID int64) (domain.RiskRules, bool, error)
}

type AccountStore interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.TradingAccount, error)
	ListAll(ctx context.Context) ([]domain.TradingAccount, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RiskService is the run orchestrator: it wires the gateway, the pure risk
// computations, and the dispatcher into live, dry-run, and bulk entry points.
type RiskService struct {
	tracer       trace.Tracer
	gateway      AccountGateway
	rules        RulesStore
	accounts     AccountStore
	dispatcher   *Dispatcher
	redis        RedisClient
	sweepWorkers int
}

func NewRiskService(
	tracer trace.Tracer,
	gateway AccountGateway,
	rules RulesStore,
	accounts AccountStore,
	dispatcher *Dispatcher,
	redisClient RedisClient,
	sweepWorkers int,
) *RiskService {
	if sweepWorkers <= 0 {
		sweepWorkers = 4
	}
	return &RiskService{
		tracer:       tracer,
		gateway:      gateway,
		rules:        rules,
		accounts:     accounts,
		dispatcher:   dispatcher,
		redis:        redisClient,
		sweepWorkers: sweepWorkers,
	}
}

// fetchState holds the three upstream fetches of one run, each tracked
// independently so a single failure degrades rather than aborts.
type fetchState struct {
	summary      *domain.AccountSummary
	rawSummary   []byte
	summaryErr   error
	orders       []domain.ClosedOrder
	rawOrders    []byte
	ordersErr    error
	positions    []domain.OpenPosition
	rawPositions []byte
	usedFallback bool
	positionsErr error
}

// fetch runs the summary and closed-orders calls concurrently (they are
// independent), then the positions call with its endpoint fallback.
func (s *RiskService) fetch(ctx context.Context, accountRef string) *fetchState {
	_, span := s.tracer.Start(ctx, "risk-service.fetch")
	defer span.End()

	st := &fetchState{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st.summary, st.rawSummary, st.summaryErr = s.gateway.GetAccountSummary(gctx, accountRef)
		return nil
	})
	g.Go(func() error {
		st.orders, st.rawOrders, st.ordersErr = s.gateway.GetClosedOrders(gctx, accountRef)
		return nil
	})
	_ = g.Wait()

	st.positions, st.rawPositions, st.usedFallback, st.positionsErr = s.gateway.GetOpenPositions(ctx, accountRef)
	return st
}

// CheckAccount runs one live risk check for the given trader. An empty
// accountRef resolves to the trader's first linked account. Every failure
// mode resolves to a structured result; nothing escapes as an error.
func (s *RiskService) CheckAccount(ctx context.Context, userID int64, accountRef string) domain.CheckResult {
	ctx, span := s.tracer.Start(ctx, "risk-service.check-account")
	defer span.End()

	account, result := s.resolveAccount(ctx, userID, accountRef)
	if result != nil {
		return *result
	}

	findings, outcome, err := s.runAccount(ctx, *account)
	if err != nil {
		return domain.CheckResult{
			OK:         false,
			AccountRef: account.AccountRef,
			Findings:   []domain.RiskFinding{},
			Error:      err.Error(),
		}
	}

	return domain.CheckResult{
		OK:            true,
		AccountRef:    account.AccountRef,
		Findings:      findings,
		AlertsCreated: outcome.Created,
		Suppressed:    outcome.Suppressed,
	}
}

// CheckAll sweeps every linked account across all traders with a bounded
// worker pool. Accounts are independent; one failure never stops the rest,
// and each outcome lands at its account's slot so result order matches
// iteration order.
func (s *RiskService) CheckAll(ctx context.Context) (domain.SweepResult, error) {
	ctx, span := s.tracer.Start(ctx, "risk-service.check-all")
	defer span.End()

	result := domain.SweepResult{StartedAt: time.Now().UTC()}

	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("list linked accounts: %w", err)
	}

	result.Accounts = make([]domain.AccountRunSummary, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.sweepWorkers)
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			summary := domain.AccountRunSummary{AccountRef: account.AccountRef, UserID: account.UserID}
			findings, outcome, err := s.runAccount(gctx, account)
			if err != nil {
				summary.Error = err.Error()
			} else {
				summary.OK = true
				summary.FindingsCount = len(findings)
				summary.AlertsCreated = outcome.Created
			}
			result.Accounts[i] = summary
			return nil
		})
	}
	_ = g.Wait()

	result.FinishedAt = time.Now().UTC()
	return result, nil
}

// runAccount is the shared per-account pipeline: fetch, degrade, compute,
// evaluate, dispatch. Only a summary failure with no cached snapshot is
// fatal; missing orders or positions reduce the evaluation's input instead.
func (s *RiskService) runAccount(ctx context.Context, account domain.TradingAccount) ([]domain.RiskFinding, DispatchOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "risk-service.run-account")
	defer span.End()

	st := s.fetch(ctx, account.AccountRef)

	summary := st.summary
	if st.summaryErr != nil {
		if cached := s.getSummaryCache(ctx, account.AccountRef); cached != nil {
			log.Printf("summary fetch failed for %s, using cached snapshot: %v", account.AccountRef, st.summaryErr)
			summary = cached
		} else {
			return nil, DispatchOutcome{}, fmt.Errorf("account summary unavailable: %w", st.summaryErr)
		}
	} else {
		s.setSummaryCache(ctx, account.AccountRef, summary)
	}
	if st.ordersErr != nil {
		log.Printf("closed orders fetch failed for %s, evaluating without history: %v", account.AccountRef, st.ordersErr)
	}
	if st.positionsErr != nil {
		log.Printf("open positions fetch failed for %s, evaluating without positions: %v", account.AccountRef, st.positionsErr)
	}

	rules := s.rulesForUser(ctx, account.UserID)
	stats := risk.BuildStats(summary.Balance, st.orders)
	exposure := risk.AggregateExposure(st.positions, summary.Equity)
	findings := risk.Evaluate(rules, stats, exposure, st.positions, summary.Equity)

	outcome := DispatchOutcome{}
	if s.dispatcher != nil {
		outcome = s.dispatcher.Dispatch(ctx, account, findings)
	}
	return findings, outcome, nil
}

// DryRun runs the same fetch and evaluation pipeline with zero side effects:
// no alerts, no notifications, no cache writes. The report carries per-source
// status and raw payloads for operator troubleshooting.
func (s *RiskService) DryRun(ctx context.Context, userID int64, accountRef string) domain.DiagnosticReport {
	ctx, span := s.tracer.Start(ctx, "risk-service.dry-run")
	defer span.End()

	report := domain.DiagnosticReport{Findings: []domain.RiskFinding{}}

	account, result := s.resolveAccount(ctx, userID, accountRef)
	if result != nil {
		report.Notes = append(report.Notes, result.Message, result.Error)
		report.Notes = compactNotes(report.Notes)
		return report
	}
	report.AccountRef = account.AccountRef

	st := s.fetch(ctx, account.AccountRef)
	report.SummaryStatus = sourceStatus(st.summaryErr, false)
	report.OrdersStatus = sourceStatus(st.ordersErr, false)
	report.PositionsStatus = sourceStatus(st.positionsErr, st.usedFallback)
	report.RawSummary = string(st.rawSummary)
	report.RawOrders = string(st.rawOrders)
	report.RawPositions = string(st.rawPositions)
	report.Summary = st.summary
	report.Orders = st.orders
	report.Positions = st.positions

	if st.summary == nil {
		report.Notes = append(report.Notes, "account summary unavailable; statistics and findings not computed")
		return report
	}

	rules := s.rulesForUser(ctx, account.UserID)
	stats := risk.BuildStats(st.summary.Balance, st.orders)
	report.Stats = &stats
	report.ExposurePct = risk.AggregateExposure(st.positions, st.summary.Equity)
	report.Findings = risk.Evaluate(rules, stats, report.ExposurePct, st.positions, st.summary.Equity)

	if st.ordersErr != nil {
		report.Notes = append(report.Notes, "closed orders missing; daily loss, drawdown and revenge checks ran on empty history")
	}
	if st.positionsErr != nil {
		report.Notes = append(report.Notes, "open positions missing; exposure checks ran on an empty position set")
	}
	return report
}

func (s *RiskService) resolveAccount(ctx context.Context, userID int64, accountRef string) (*domain.TradingAccount, *domain.CheckResult) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, &domain.CheckResult{
			OK:       false,
			Findings: []domain.RiskFinding{},
			Error:    fmt.Sprintf("list accounts: %v", err),
		}
	}
	if len(accounts) == 0 {
		return nil, &domain.CheckResult{
			OK:       true,
			Findings: []domain.RiskFinding{},
			Message:  "no trading account linked; link one to enable risk checks",
		}
	}
	if accountRef == "" {
		return &accounts[0], nil
	}
	for i := range accounts {
		if accounts[i].AccountRef == accountRef {
			return &accounts[i], nil
		}
	}
	return nil, &domain.CheckResult{
		OK:         true,
		AccountRef: accountRef,
		Findings:   []domain.RiskFinding{},
		Message:    "account is not linked to this user",
	}
}

func (s *RiskService) rulesForUser(ctx context.Context, userID int64) domain.RiskRules {
	if s.rules == nil {
		return domain.DefaultRiskRules(userID)
	}
	rules, found, err := s.rules.GetByUser(ctx, userID)
	if err != nil {
		log.Printf("rules lookup failed for user %d, applying defaults: %v", userID, err)
		return domain.DefaultRiskRules(userID)
	}
	if !found {
		return domain.DefaultRiskRules(userID)
	}
	return rules
}

func (s *RiskService) summaryCacheKey(accountRef string) string {
	return "risksent:summary:" + accountRef
}

func (s *RiskService) getSummaryCache(ctx context.Context, accountRef string) *domain.AccountSummary {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, s.summaryCacheKey(accountRef)).Result()
	if err != nil {
		return nil
	}
	var summary domain.AccountSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *RiskService) setSummaryCache(ctx context.Context, accountRef string, summary *domain.AccountSummary) {
	if s.redis == nil || summary == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.summaryCacheKey(accountRef), data, summaryCacheTTL).Err(); err != nil {
		log.Printf("summary cache write failed for %s: %v", accountRef, err)
	}
}

func sourceStatus(err error, usedFallback bool) domain.SourceStatus {
	status := domain.SourceStatus{OK: err == nil, UsedFallback: usedFallback}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

func compactNotes(notes []string) []string {
	out := notes[:0]
	for _, n := range notes {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
