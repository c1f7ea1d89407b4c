package risk

import (
	"testing"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
)

func findingOfType(findings []domain.RiskFinding, ruleType domain.RuleType) *domain.RiskFinding {
	var found *domain.RiskFinding
	for i := range findings {
		if findings[i].Type == ruleType {
			if found != nil {
				return nil // more than one finding for the type is itself a failure
			}
			found = &findings[i]
		}
	}
	return found
}

func scenarioAStats(t *testing.T) domain.StatsForRisk {
	t.Helper()
	d := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	orders := []domain.ClosedOrder{
		{CloseTime: d.Add(9 * time.Hour), Profit: -200},
		{CloseTime: d.Add(11 * time.Hour), Profit: -150},
		{CloseTime: d.Add(15 * time.Hour), Profit: -100},
	}
	stats := BuildStats(10000, orders)
	if stats.InitialBalance != 10450 {
		t.Fatalf("expected reconstructed balance 10450, got %f", stats.InitialBalance)
	}
	return stats
}

func TestDailyLossBreachHigh(t *testing.T) {
	// Scenario A: -450 on one day against 10450 starting balance is -4.31%,
	// 2.15x the 2% limit.
	stats := scenarioAStats(t)
	rules := domain.DefaultRiskRules(1)

	findings := Evaluate(rules, stats, nil, nil, 10000)
	f := findingOfType(findings, domain.RuleDailyLoss)
	if f == nil {
		t.Fatal("expected exactly one daily loss finding")
	}
	if f.Level != domain.LevelHigh {
		t.Fatalf("expected high level, got %s", f.Level)
	}
	if f.Severity != domain.SeverityHigh {
		t.Fatalf("expected high severity, got %s", f.Severity)
	}
	if f.Advice == "" {
		t.Fatal("expected advice text")
	}
}

func TestDailyLossApproachMild(t *testing.T) {
	// Scenario B: same day, 5% limit; -4.31% sits between 80% of the limit
	// and the limit itself.
	stats := scenarioAStats(t)
	rules := domain.DefaultRiskRules(1)
	rules.DailyLossPct = 5

	findings := Evaluate(rules, stats, nil, nil, 10000)
	f := findingOfType(findings, domain.RuleDailyLoss)
	if f == nil {
		t.Fatal("expected exactly one daily loss finding")
	}
	if f.Level != domain.LevelMild {
		t.Fatalf("expected mild approach finding, got %s", f.Level)
	}
	if f.Severity != domain.SeverityMedium {
		t.Fatalf("expected medium severity for an approach, got %s", f.Severity)
	}
}

func TestDailyLossNeverBothBreachAndApproach(t *testing.T) {
	stats := scenarioAStats(t)
	for _, limit := range []float64{1, 2, 3, 4, 4.31, 5, 6, 10} {
		rules := domain.DefaultRiskRules(1)
		rules.DailyLossPct = limit
		findings := Evaluate(rules, stats, nil, nil, 10000)
		count := 0
		for _, f := range findings {
			if f.Type == domain.RuleDailyLoss {
				count++
			}
		}
		if count > 1 {
			t.Fatalf("limit %.2f: emitted %d daily loss findings in one run", limit, count)
		}
	}
}

func TestDailyLossSkippedWhenStarved(t *testing.T) {
	rules := domain.DefaultRiskRules(1)

	// No daily stats.
	findings := Evaluate(rules, domain.StatsForRisk{InitialBalance: 10000, DailyStats: map[string]float64{}}, nil, nil, 10000)
	if findingOfType(findings, domain.RuleDailyLoss) != nil {
		t.Fatal("expected no daily loss finding without daily stats")
	}

	// Non-positive starting balance.
	stats := domain.StatsForRisk{InitialBalance: -100, DailyStats: map[string]float64{"2025-03-03": -450}}
	findings = Evaluate(rules, stats, nil, nil, 10000)
	if findingOfType(findings, domain.RuleDailyLoss) != nil {
		t.Fatal("expected no daily loss finding with non-positive starting balance")
	}
}

func TestRevengeTradingLevels(t *testing.T) {
	// Scenario C: threshold 2; 3 losses exceeds by 1 -> medium, 4 -> high.
	rules := domain.DefaultRiskRules(1)
	rules.RevengeThresholdTrades = 2

	stats := domain.StatsForRisk{InitialBalance: 10000, DailyStats: map[string]float64{}, ConsecutiveLossesAtEnd: 3}
	f := findingOfType(Evaluate(rules, stats, nil, nil, 10000), domain.RuleRevengeTrading)
	if f == nil || f.Level != domain.LevelMedium {
		t.Fatalf("expected medium revenge finding for 3 losses, got %+v", f)
	}

	stats.ConsecutiveLossesAtEnd = 4
	f = findingOfType(Evaluate(rules, stats, nil, nil, 10000), domain.RuleRevengeTrading)
	if f == nil || f.Level != domain.LevelHigh {
		t.Fatalf("expected high revenge finding for 4 losses, got %+v", f)
	}
}

func TestRevengeTradingOneBelowThreshold(t *testing.T) {
	rules := domain.DefaultRiskRules(1)
	rules.RevengeThresholdTrades = 3

	stats := domain.StatsForRisk{InitialBalance: 10000, DailyStats: map[string]float64{}, ConsecutiveLossesAtEnd: 2}
	f := findingOfType(Evaluate(rules, stats, nil, nil, 10000), domain.RuleRevengeTrading)
	if f == nil || f.Level != domain.LevelMild {
		t.Fatalf("expected mild one-more-loss warning, got %+v", f)
	}

	// threshold-1 == 0 must not warn on a clean slate.
	rules.RevengeThresholdTrades = 1
	stats.ConsecutiveLossesAtEnd = 0
	if findingOfType(Evaluate(rules, stats, nil, nil, 10000), domain.RuleRevengeTrading) != nil {
		t.Fatal("expected no warning at zero losses with threshold 1")
	}
}

func TestPerTradeRiskBreachHigh(t *testing.T) {
	// Scenario D: 5% position risk against a 1% limit, ratio 5.
	rules := domain.DefaultRiskRules(1)
	positions := []domain.OpenPosition{
		{Symbol: "EURUSD", Volume: 1, OpenPrice: 1.1000, StopLoss: fptr(1.0950), Side: "buy"},
	}
	stats := domain.StatsForRisk{InitialBalance: 10000, DailyStats: map[string]float64{}}

	f := findingOfType(Evaluate(rules, stats, nil, positions, 10000), domain.RuleMaxRiskPerTrade)
	if f == nil {
		t.Fatal("expected a per-trade risk finding")
	}
	if f.Level != domain.LevelHigh {
		t.Fatalf("expected high level at 5x the limit, got %s", f.Level)
	}
}

func TestExposureTiers(t *testing.T) {
	rules := domain.DefaultRiskRules(1)
	rules.MaxExposurePct = 10
	stats := domain.StatsForRisk{InitialBalance: 10000, DailyStats: map[string]float64{}}

	cases := []struct {
		exposure float64
		level    domain.FindingLevel
	}{
		{9, domain.LevelMild},    // approach
		{10.5, domain.LevelMild}, // borderline breach
		{12, domain.LevelMedium},
		{16, domain.LevelHigh},
	}
	for _, tc := range cases {
		f := findingOfType(Evaluate(rules, stats, fptr(tc.exposure), nil, 10000), domain.RuleMaxExposure)
		if f == nil {
			t.Fatalf("exposure %.1f: expected a finding", tc.exposure)
		}
		if f.Level != tc.level {
			t.Fatalf("exposure %.1f: expected %s, got %s", tc.exposure, tc.level, f.Level)
		}
	}

	// Below the approach band: silence.
	if findingOfType(Evaluate(rules, stats, fptr(5), nil, 10000), domain.RuleMaxExposure) != nil {
		t.Fatal("expected no exposure finding at half the limit")
	}
}

func TestDrawdownCheckUsesItsOwnLimit(t *testing.T) {
	rules := domain.DefaultRiskRules(1)
	rules.MaxDrawdownPct = 10
	rules.MaxExposurePct = 50 // diverged on purpose

	stats := domain.StatsForRisk{InitialBalance: 10000, DailyStats: map[string]float64{}, HighestDrawdownPct: fptr(12)}
	f := findingOfType(Evaluate(rules, stats, nil, nil, 10000), domain.RuleMaxDrawdown)
	if f == nil {
		t.Fatal("expected a drawdown finding against the drawdown limit")
	}
	if f.Level != domain.LevelMedium {
		t.Fatalf("expected medium level at 1.2x, got %s", f.Level)
	}
}

func TestEvaluateQuietAccount(t *testing.T) {
	rules := domain.DefaultRiskRules(1)
	stats := domain.StatsForRisk{InitialBalance: 10000, DailyStats: map[string]float64{"2025-03-03": 50}}
	findings := Evaluate(rules, stats, nil, nil, 10000)
	if len(findings) != 0 {
		t.Fatalf("expected no findings for a healthy account, got %+v", findings)
	}
}
