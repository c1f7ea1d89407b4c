package risk

import (
	"sort"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
)

const dayKeyLayout = "2006-01-02"

// BuildStats turns the current balance and a trader's closed-order history into
// the statistical inputs the rule evaluator consumes: reconstructed starting
// capital, per-day P&L buckets, the deepest peak-to-trough drawdown of the
// equity curve, and the trailing consecutive-loss count.
func BuildStats(balance float64, orders []domain.ClosedOrder) domain.StatsForRisk {
	usable := make([]domain.ClosedOrder, 0, len(orders))
	for _, o := range orders {
		if o.CloseTime.IsZero() {
			continue
		}
		usable = append(usable, o)
	}

	stats := domain.StatsForRisk{
		InitialBalance: balance,
		DailyStats:     map[string]float64{},
	}
	if len(usable) == 0 {
		return stats
	}

	totalProfit := 0.0
	for _, o := range usable {
		totalProfit += o.Profit
	}
	stats.InitialBalance = balance - totalProfit

	sort.Slice(usable, func(i, j int) bool {
		return usable[i].CloseTime.Before(usable[j].CloseTime)
	})

	equity := stats.InitialBalance
	peak := equity
	var worstDd *float64
	for _, o := range usable {
		stats.DailyStats[dayKey(o.CloseTime)] += o.Profit

		equity += o.Profit
		if equity > peak {
			peak = equity
			continue
		}
		// Non-positive peaks make the percentage meaningless (heavy
		// withdrawals can push reconstructed capital below zero); they
		// contribute 0% instead of dividing by <= 0.
		dd := 0.0
		if peak > 0 {
			dd = (peak - equity) / peak * 100
		}
		if dd > 0 && (worstDd == nil || dd > *worstDd) {
			v := dd
			worstDd = &v
		}
	}
	stats.HighestDrawdownPct = worstDd

	for i := len(usable) - 1; i >= 0; i-- {
		if usable[i].Profit >= 0 {
			break
		}
		stats.ConsecutiveLossesAtEnd++
	}

	return stats
}

func dayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}
