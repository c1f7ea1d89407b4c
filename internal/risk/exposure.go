package risk

import (
	"math"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
)

// ContractSize is the units-per-lot assumption used to turn a stop distance
// into a monetary risk amount. One standard lot; instrument-specific contract
// sizes and currency conversion are out of scope for this engine.
const ContractSize = 100000.0

// PositionRisk is the measurable risk of a single protected open position.
type PositionRisk struct {
	Symbol     string  `json:"symbol"`
	RiskAmount float64 `json:"risk_amount"`
	RiskPct    float64 `json:"risk_pct"`
}

// PositionRisks computes the per-position risk of every open position with a
// usable stop-loss. Positions without one carry unbounded risk the engine
// cannot quantify; they are excluded rather than guessed at. Returns nil when
// equity is non-positive.
func PositionRisks(positions []domain.OpenPosition, equity float64) []PositionRisk {
	if equity <= 0 {
		return nil
	}

	var out []PositionRisk
	for _, p := range positions {
		if p.Volume <= 0 || p.OpenPrice <= 0 {
			continue
		}
		if p.StopLoss == nil || *p.StopLoss == p.OpenPrice {
			continue
		}
		amount := math.Abs(p.OpenPrice-*p.StopLoss) * p.Volume * ContractSize
		out = append(out, PositionRisk{
			Symbol:     p.Symbol,
			RiskAmount: amount,
			RiskPct:    amount / equity * 100,
		})
	}
	return out
}

// AggregateExposure sums per-position risk percentages into the share of
// equity currently at risk. Nil when equity is non-positive or nothing
// measurable is at risk.
func AggregateExposure(positions []domain.OpenPosition, equity float64) *float64 {
	total := 0.0
	for _, r := range PositionRisks(positions, equity) {
		total += r.RiskPct
	}
	if total <= 0 {
		return nil
	}
	return &total
}
