package risk

import (
	"fmt"
	"math"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
)

// Tier constants, not trader-configurable.
const (
	// approachFraction of a limit is where a mild early warning fires.
	approachFraction = 0.8
	// mediumRatio is where an exposure-class breach stops being borderline.
	mediumRatio = 1.1
	// highRatio is where any breach escalates to high.
	highRatio = 1.5
)

// Evaluate compares the built statistics and current exposure against the
// trader's limits and returns zero or more findings. Pure: no I/O, no clock.
// At most one finding per rule type; a breach always wins over an approach
// warning for the same type.
func Evaluate(
	rules domain.RiskRules,
	stats domain.StatsForRisk,
	exposurePct *float64,
	positions []domain.OpenPosition,
	equity float64,
) []domain.RiskFinding {
	var findings []domain.RiskFinding

	if f := checkDailyLoss(rules, stats); f != nil {
		findings = append(findings, *f)
	}
	if f := checkDrawdown(rules, stats); f != nil {
		findings = append(findings, *f)
	}
	if f := checkRevenge(rules, stats); f != nil {
		findings = append(findings, *f)
	}
	if f := checkPerTradeRisk(rules, positions, equity); f != nil {
		findings = append(findings, *f)
	}
	if f := checkExposure(rules, exposurePct); f != nil {
		findings = append(findings, *f)
	}

	return findings
}

func checkDailyLoss(rules domain.RiskRules, stats domain.StatsForRisk) *domain.RiskFinding {
	limit := rules.DailyLossPct
	if limit <= 0 || stats.InitialBalance <= 0 || len(stats.DailyStats) == 0 {
		return nil
	}

	worstDayPct := 0.0
	first := true
	for _, profit := range stats.DailyStats {
		pct := profit / stats.InitialBalance * 100
		if first || pct < worstDayPct {
			worstDayPct = pct
			first = false
		}
	}

	if worstDayPct <= -limit {
		level := domain.LevelMedium
		if math.Abs(worstDayPct)/limit >= highRatio {
			level = domain.LevelHigh
		}
		return newFinding(domain.RuleDailyLoss, level,
			fmt.Sprintf("Worst day lost %.2f%% of starting balance, past your %.1f%% daily loss limit.", math.Abs(worstDayPct), limit))
	}
	if worstDayPct < -limit*approachFraction {
		return newFinding(domain.RuleDailyLoss, domain.LevelMild,
			fmt.Sprintf("Worst day lost %.2f%% of starting balance, approaching your %.1f%% daily loss limit.", math.Abs(worstDayPct), limit))
	}
	return nil
}

func checkDrawdown(rules domain.RiskRules, stats domain.StatsForRisk) *domain.RiskFinding {
	limit := rules.MaxDrawdownPct
	if limit <= 0 || stats.HighestDrawdownPct == nil {
		return nil
	}
	dd := *stats.HighestDrawdownPct

	if dd >= limit {
		level := domain.LevelMedium
		if dd/limit >= highRatio {
			level = domain.LevelHigh
		}
		return newFinding(domain.RuleMaxDrawdown, level,
			fmt.Sprintf("Peak-to-trough drawdown reached %.2f%%, past your %.1f%% limit.", dd, limit))
	}
	if dd > limit*approachFraction {
		return newFinding(domain.RuleMaxDrawdown, domain.LevelMild,
			fmt.Sprintf("Peak-to-trough drawdown reached %.2f%%, approaching your %.1f%% limit.", dd, limit))
	}
	return nil
}

func checkRevenge(rules domain.RiskRules, stats domain.StatsForRisk) *domain.RiskFinding {
	threshold := rules.RevengeThresholdTrades
	if threshold <= 0 {
		return nil
	}
	losses := stats.ConsecutiveLossesAtEnd

	if losses >= threshold {
		level := domain.LevelMedium
		if losses-threshold >= 2 {
			level = domain.LevelHigh
		}
		return newFinding(domain.RuleRevengeTrading, level,
			fmt.Sprintf("%d consecutive losing trades, at or past your revenge-trading threshold of %d.", losses, threshold))
	}
	if threshold-1 > 0 && losses == threshold-1 {
		return newFinding(domain.RuleRevengeTrading, domain.LevelMild,
			fmt.Sprintf("%d consecutive losing trades; one more loss crosses your threshold of %d.", losses, threshold))
	}
	return nil
}

func checkPerTradeRisk(rules domain.RiskRules, positions []domain.OpenPosition, equity float64) *domain.RiskFinding {
	limit := rules.MaxRiskPerTradePct
	if limit <= 0 {
		return nil
	}

	var worst *PositionRisk
	for _, r := range PositionRisks(positions, equity) {
		r := r
		if worst == nil || r.RiskPct > worst.RiskPct {
			worst = &r
		}
	}
	if worst == nil {
		return nil
	}

	if worst.RiskPct >= limit {
		return newFinding(domain.RuleMaxRiskPerTrade, breachLevel(worst.RiskPct/limit),
			fmt.Sprintf("Position %s risks %.2f%% of equity, past your %.1f%% per-trade limit.", worst.Symbol, worst.RiskPct, limit))
	}
	if worst.RiskPct > limit*approachFraction {
		return newFinding(domain.RuleMaxRiskPerTrade, domain.LevelMild,
			fmt.Sprintf("Position %s risks %.2f%% of equity, approaching your %.1f%% per-trade limit.", worst.Symbol, worst.RiskPct, limit))
	}
	return nil
}

func checkExposure(rules domain.RiskRules, exposurePct *float64) *domain.RiskFinding {
	limit := rules.MaxExposurePct
	if limit <= 0 || exposurePct == nil {
		return nil
	}
	exposure := *exposurePct

	if exposure >= limit {
		return newFinding(domain.RuleMaxExposure, breachLevel(exposure/limit),
			fmt.Sprintf("Open positions risk %.2f%% of equity combined, past your %.1f%% exposure limit.", exposure, limit))
	}
	if exposure > limit*approachFraction {
		return newFinding(domain.RuleMaxExposure, domain.LevelMild,
			fmt.Sprintf("Open positions risk %.2f%% of equity combined, approaching your %.1f%% exposure limit.", exposure, limit))
	}
	return nil
}

// breachLevel tiers exposure-class breaches by observed/limit ratio: a
// borderline breach under mediumRatio is graded mild, highRatio escalates.
func breachLevel(ratio float64) domain.FindingLevel {
	switch {
	case ratio >= highRatio:
		return domain.LevelHigh
	case ratio >= mediumRatio:
		return domain.LevelMedium
	default:
		return domain.LevelMild
	}
}

func newFinding(ruleType domain.RuleType, level domain.FindingLevel, message string) *domain.RiskFinding {
	severity := domain.SeverityMedium
	if level == domain.LevelHigh {
		severity = domain.SeverityHigh
	}
	return &domain.RiskFinding{
		Type:     ruleType,
		Level:    level,
		Severity: severity,
		Message:  message,
		Advice:   adviceFor(ruleType, level),
	}
}
