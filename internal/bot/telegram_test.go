package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
)

func TestNewBotSkipsWithoutToken(t *testing.T) {
	b, err := NewBot("")
	if err != nil {
		t.Fatalf("empty token must not error: %v", err)
	}
	if b != nil {
		t.Fatal("empty token must return a nil bot")
	}
}

func TestNilBotIsSafeNotifier(t *testing.T) {
	var b *Bot
	if err := b.Send(context.Background(), 123, "hello"); err != nil {
		t.Fatalf("nil bot Send must be a no-op: %v", err)
	}
	b.Start(nil, nil, nil)
}

func TestFormatCheckResult(t *testing.T) {
	failed := formatCheckResult(domain.CheckResult{OK: false, Error: "bridge timeout"})
	if !strings.Contains(failed, "bridge timeout") {
		t.Errorf("failure text must carry the cause: %q", failed)
	}

	unlinked := formatCheckResult(domain.CheckResult{OK: true, Message: "no trading account linked"})
	if unlinked != "no trading account linked" {
		t.Errorf("message results pass through: %q", unlinked)
	}

	clean := formatCheckResult(domain.CheckResult{OK: true, AccountRef: "mt5-1001"})
	if !strings.Contains(clean, "No risk findings") {
		t.Errorf("unexpected clean text: %q", clean)
	}

	withFindings := formatCheckResult(domain.CheckResult{
		OK:         true,
		AccountRef: "mt5-1001",
		Findings: []domain.RiskFinding{
			{Type: domain.RuleDailyLoss, Level: domain.LevelHigh, Message: "daily loss breached"},
		},
		Suppressed: 1,
	})
	if !strings.Contains(withFindings, "daily loss breached") {
		t.Errorf("finding message missing: %q", withFindings)
	}
	if !strings.Contains(withFindings, "already alerted recently") {
		t.Errorf("suppression note missing: %q", withFindings)
	}
}

func TestFormatAlerts(t *testing.T) {
	if got := formatAlerts(nil); got != "No active alerts." {
		t.Errorf("unexpected empty text: %q", got)
	}

	when := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	text := formatAlerts([]domain.Alert{
		{Message: "exposure above limit", Severity: domain.SeverityHigh, AlertDate: when, Read: false},
		{Message: "drawdown warning", Severity: domain.SeverityMedium, AlertDate: when, Read: true},
	})
	if !strings.Contains(text, "exposure above limit") || !strings.Contains(text, "drawdown warning") {
		t.Errorf("alert messages missing: %q", text)
	}
	if !strings.Contains(text, "🔔") {
		t.Errorf("unread marker missing: %q", text)
	}
	if !strings.Contains(text, "Mar 10 14:30") {
		t.Errorf("timestamp missing: %q", text)
	}
}
