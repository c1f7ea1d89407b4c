package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// DedupeWindow is the trailing window inside which at most one alert per
// (user, rule type) pair is created.
const DedupeWindow = 12 * time.Hour

type AlertStore interface {
	InsertIfNotRecent(ctx context.Context, alert domain.Alert, window time.Duration) (*domain.Alert, bool, error)
}

type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type DigestComposer interface {
	Compose(ctx context.Context, accountRef string, findings []domain.RiskFinding) string
}

// NotifyConfig is injected at construction; nothing in the dispatch path
// reads process environment. OpsChatID 0 disables the aggregated ops channel.
type NotifyConfig struct {
	OpsChatID int64
}

// Dispatcher turns findings into persisted alerts and best-effort
// notifications. Alerts are the durable record: a failed send is logged and
// counted but never rolls back the insert, and no retry is scheduled here.
type Dispatcher struct {
	tracer   trace.Tracer
	alerts   AlertStore
	notifier Notifier
	coach    DigestComposer
	cfg      NotifyConfig
}

func NewDispatcher(tracer trace.Tracer, alerts AlertStore, notifier Notifier, coach DigestComposer, cfg NotifyConfig) *Dispatcher {
	return &Dispatcher{tracer: tracer, alerts: alerts, notifier: notifier, coach: coach, cfg: cfg}
}

type DispatchOutcome struct {
	Created        int
	Suppressed     int
	NotifyFailures int
}

// Dispatch persists each finding as an alert unless a same-type alert exists
// for the user inside the dedupe window, then notifies the trader's linked
// chat and the ops channel. Suppression is expected steady-state behavior,
// not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, account domain.TradingAccount, findings []domain.RiskFinding) DispatchOutcome {
	_, span := d.tracer.Start(ctx, "dispatcher.dispatch")
	defer span.End()

	outcome := DispatchOutcome{}
	if d.alerts == nil || len(findings) == 0 {
		return outcome
	}

	now := time.Now().UTC()
	var created []domain.RiskFinding
	for _, f := range findings {
		alert := domain.Alert{
			UserID:    account.UserID,
			Message:   f.Message,
			Severity:  f.Severity,
			Solution:  f.Advice,
			RuleType:  f.Type,
			AlertDate: now,
		}
		_, inserted, err := d.alerts.InsertIfNotRecent(ctx, alert, DedupeWindow)
		if err != nil {
			log.Printf("alert insert failed for user %d rule %s: %v", account.UserID, f.Type, err)
			continue
		}
		if !inserted {
			outcome.Suppressed++
			continue
		}
		outcome.Created++
		created = append(created, f)

		if d.notifier != nil && account.NotifyChatID != nil {
			if err := d.notifier.Send(ctx, *account.NotifyChatID, formatAlertText(account.AccountRef, f)); err != nil {
				outcome.NotifyFailures++
				log.Printf("user notification failed for user %d rule %s: %v", account.UserID, f.Type, err)
			}
		}
	}

	if len(created) > 0 && d.notifier != nil && d.cfg.OpsChatID != 0 {
		text := formatOpsDigest(account, created)
		if d.coach != nil {
			text = d.coach.Compose(ctx, account.AccountRef, created)
		}
		if err := d.notifier.Send(ctx, d.cfg.OpsChatID, text); err != nil {
			outcome.NotifyFailures++
			log.Printf("ops notification failed for account %s: %v", account.AccountRef, err)
		}
	}

	return outcome
}

func formatAlertText(accountRef string, f domain.RiskFinding) string {
	return fmt.Sprintf("⚠️ Risk alert (%s) on %s\n%s\n\n%s", f.Level, accountRef, f.Message, f.Advice)
}

func formatOpsDigest(account domain.TradingAccount, findings []domain.RiskFinding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk alerts for account %s (user %d):\n", account.AccountRef, account.UserID)
	for _, f := range findings {
		fmt.Fprintf(&b, "- [%s/%s] %s\n", f.Type, f.Level, f.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}
