package domain

import "time"

// RuleType identifies which configured risk rule produced a finding or alert.
type RuleType string

const (
	RuleDailyLoss       RuleType = "daily_loss"
	RuleMaxDrawdown     RuleType = "max_drawdown"
	RuleRevengeTrading  RuleType = "revenge_trading"
	RuleMaxRiskPerTrade RuleType = "max_risk_per_trade"
	RuleMaxExposure     RuleType = "max_exposure"
)

// FindingLevel grades how far past (or near) a limit the observed value sits.
type FindingLevel string

const (
	LevelMild   FindingLevel = "mild"
	LevelMedium FindingLevel = "medium"
	LevelHigh   FindingLevel = "high"
)

// Severity is the coarse routing bucket for notifications. Approach warnings
// route as medium, breaches as high, regardless of FindingLevel.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskRules is a trader's per-user risk configuration. Percentages are whole
// numbers (2 means 2%).
type RiskRules struct {
	UserID                 int64   `json:"user_id"`
	DailyLossPct           float64 `json:"daily_loss_pct"`
	MaxRiskPerTradePct     float64 `json:"max_risk_per_trade_pct"`
	MaxExposurePct         float64 `json:"max_exposure_pct"`
	MaxDrawdownPct         float64 `json:"max_drawdown_pct"`
	RevengeThresholdTrades int     `json:"revenge_threshold_trades"`
}

// DefaultRiskRules returns the single authoritative default rule set applied
// whenever a trader has not configured rules of their own.
func DefaultRiskRules(userID int64) RiskRules {
	return RiskRules{
		UserID:                 userID,
		DailyLossPct:           2,
		MaxRiskPerTradePct:     1,
		MaxExposurePct:         15,
		MaxDrawdownPct:         15,
		RevengeThresholdTrades: 2,
	}
}

// Valid reports whether every limit is non-negative.
func (r RiskRules) Valid() bool {
	return r.DailyLossPct >= 0 &&
		r.MaxRiskPerTradePct >= 0 &&
		r.MaxExposurePct >= 0 &&
		r.MaxDrawdownPct >= 0 &&
		r.RevengeThresholdTrades >= 0
}

// ClosedOrder is an immutable historical trade fetched from the bridge.
type ClosedOrder struct {
	Ticket    string    `json:"ticket,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
	CloseTime time.Time `json:"close_time"`
	Profit    float64   `json:"profit"`
}

// OpenPosition is a currently open trade. StopLoss is nil when the trader has
// not protected the position.
type OpenPosition struct {
	Symbol    string   `json:"symbol"`
	Volume    float64  `json:"volume"`
	OpenPrice float64  `json:"open_price"`
	StopLoss  *float64 `json:"stop_loss,omitempty"`
	Side      string   `json:"side"`
}

// AccountSummary is the current-state snapshot of a trading account.
type AccountSummary struct {
	Balance  float64 `json:"balance"`
	Equity   float64 `json:"equity"`
	Currency string  `json:"currency"`
}

// StatsForRisk is the derived, per-run statistical input to the rule evaluator.
// HighestDrawdownPct is nil when the equity curve never dipped below a peak.
type StatsForRisk struct {
	InitialBalance         float64            `json:"initial_balance"`
	DailyStats             map[string]float64 `json:"daily_stats"`
	HighestDrawdownPct     *float64           `json:"highest_drawdown_pct,omitempty"`
	ConsecutiveLossesAtEnd int                `json:"consecutive_losses_at_end"`
}

// RiskFinding is one evaluator output. Findings are ephemeral; only their
// Alert projection is persisted.
type RiskFinding struct {
	Type     RuleType     `json:"type"`
	Level    FindingLevel `json:"level"`
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	Advice   string       `json:"advice"`
}

// Alert is the persisted projection of a finding. Read/Dismissed/Acknowledged
// fields are mutated by the trader, never by the engine.
type Alert struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	Message          string     `json:"message"`
	Severity         Severity   `json:"severity"`
	Solution         string     `json:"solution"`
	RuleType         RuleType   `json:"rule_type"`
	AlertDate        time.Time  `json:"alert_date"`
	Read             bool       `json:"read"`
	Dismissed        bool       `json:"dismissed"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedNote *string    `json:"acknowledged_note,omitempty"`
}

// TradingAccount links a trader to one MetaTrader account on the bridge.
// NotifyChatID is the trader's telegram chat, when linked.
type TradingAccount struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	AccountRef   string `json:"account_ref"`
	Platform     string `json:"platform"`
	NotifyChatID *int64 `json:"notify_chat_id,omitempty"`
}

// CheckResult is the structured outcome of one live single-account run.
type CheckResult struct {
	OK            bool          `json:"ok"`
	AccountRef    string        `json:"account_ref,omitempty"`
	Findings      []RiskFinding `json:"findings"`
	AlertsCreated int           `json:"alerts_created"`
	Suppressed    int           `json:"suppressed"`
	Message       string        `json:"message,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// AccountRunSummary captures one account's outcome inside a bulk sweep.
type AccountRunSummary struct {
	AccountRef    string `json:"account_ref"`
	UserID        int64  `json:"user_id"`
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
	FindingsCount int    `json:"findings_count"`
	AlertsCreated int    `json:"alerts_created"`
}

// SweepResult is the outcome of one scheduled all-accounts sweep.
type SweepResult struct {
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Accounts   []AccountRunSummary `json:"accounts"`
}

// Failed counts accounts whose run did not complete.
func (s SweepResult) Failed() int {
	n := 0
	for _, a := range s.Accounts {
		if !a.OK {
			n++
		}
	}
	return n
}

// SourceStatus reports one upstream fetch in a diagnostic run.
type SourceStatus struct {
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
	UsedFallback bool   `json:"used_fallback,omitempty"`
}

// DiagnosticReport is the side-effect-free dry-run output: per-source status,
// raw payloads for operator inspection, and everything the live run would
// have computed.
type DiagnosticReport struct {
	AccountRef      string          `json:"account_ref"`
	SummaryStatus   SourceStatus    `json:"summary_status"`
	OrdersStatus    SourceStatus    `json:"orders_status"`
	PositionsStatus SourceStatus    `json:"positions_status"`
	RawSummary      string          `json:"raw_summary,omitempty"`
	RawOrders       string          `json:"raw_orders,omitempty"`
	RawPositions    string          `json:"raw_positions,omitempty"`
	Summary         *AccountSummary `json:"summary,omitempty"`
	Orders          []ClosedOrder   `json:"orders,omitempty"`
	Positions       []OpenPosition  `json:"positions,omitempty"`
	Stats           *StatsForRisk   `json:"stats,omitempty"`
	ExposurePct     *float64        `json:"exposure_pct,omitempty"`
	Findings        []RiskFinding   `json:"findings"`
	Notes           []string        `json:"notes,omitempty"`
}
