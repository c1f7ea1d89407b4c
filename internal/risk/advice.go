package risk

import "github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

type adviceKey struct {
	ruleType domain.RuleType
	level    domain.FindingLevel
}

// Advice prose is static per (type, level) tier; the numbers live in the
// finding message, not here.
var adviceTable = map[adviceKey]string{
	{domain.RuleDailyLoss, domain.LevelMild}:   "You are close to your daily loss limit. Consider reducing position sizes or stepping away for the rest of the day.",
	{domain.RuleDailyLoss, domain.LevelMedium}: "Your daily loss limit was breached. Stop trading for today and review what went wrong before the next session.",
	{domain.RuleDailyLoss, domain.LevelHigh}:   "Your daily loss limit was breached by a wide margin. Stop trading immediately and reassess your strategy before risking more capital.",

	{domain.RuleMaxDrawdown, domain.LevelMild}:   "Your account drawdown is approaching its limit. Tighten stops and avoid adding risk until equity recovers.",
	{domain.RuleMaxDrawdown, domain.LevelMedium}: "Your drawdown limit was breached. Cut position sizes and focus on capital preservation until the curve recovers.",
	{domain.RuleMaxDrawdown, domain.LevelHigh}:   "Your drawdown is severe. Consider pausing trading entirely and reviewing your risk plan before continuing.",

	{domain.RuleRevengeTrading, domain.LevelMild}:   "One more loss crosses your revenge-trading threshold. Take a break before placing the next trade.",
	{domain.RuleRevengeTrading, domain.LevelMedium}: "A streak of losses often leads to emotional decisions. Step away from the screen and come back with a clear plan.",
	{domain.RuleRevengeTrading, domain.LevelHigh}:   "This losing streak is well past your threshold. Stop trading now; revenge trading compounds losses fast.",

	{domain.RuleMaxRiskPerTrade, domain.LevelMild}:   "A position is close to your per-trade risk limit. Consider moving the stop closer or trimming the position.",
	{domain.RuleMaxRiskPerTrade, domain.LevelMedium}: "A position risks more than your per-trade limit. Reduce its size or tighten the stop-loss.",
	{domain.RuleMaxRiskPerTrade, domain.LevelHigh}:   "A single position risks several times your per-trade limit. Reduce it immediately; one stop-out should never define your week.",

	{domain.RuleMaxExposure, domain.LevelMild}:   "Combined open risk is approaching your exposure limit. Avoid opening new positions until something closes.",
	{domain.RuleMaxExposure, domain.LevelMedium}: "Combined open risk is past your exposure limit. Close or trim positions to bring total risk back under control.",
	{domain.RuleMaxExposure, domain.LevelHigh}:   "Combined open risk is far past your exposure limit. Reduce exposure now; a single adverse move could hit every position at once.",
}

func adviceFor(ruleType domain.RuleType, level domain.FindingLevel) string {
	if advice, ok := adviceTable[adviceKey{ruleType, level}]; ok {
		return advice
	}
	return "Review your open risk and recent trading activity."
}
