package risk

import (
	"math"
	"testing"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
)

func day(d int, hour int) time.Time {
	return time.Date(2025, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestBuildStatsNoOrders(t *testing.T) {
	stats := BuildStats(10000, nil)
	if stats.InitialBalance != 10000 {
		t.Fatalf("expected initial balance 10000, got %f", stats.InitialBalance)
	}
	if len(stats.DailyStats) != 0 {
		t.Fatalf("expected empty daily stats, got %v", stats.DailyStats)
	}
	if stats.HighestDrawdownPct != nil {
		t.Fatalf("expected nil drawdown, got %f", *stats.HighestDrawdownPct)
	}
	if stats.ConsecutiveLossesAtEnd != 0 {
		t.Fatalf("expected 0 consecutive losses, got %d", stats.ConsecutiveLossesAtEnd)
	}
}

func TestBuildStatsSkipsOrdersWithoutCloseTime(t *testing.T) {
	orders := []domain.ClosedOrder{
		{Profit: -500}, // no close time, still pending on the bridge
		{CloseTime: day(1, 10), Profit: 100},
	}
	stats := BuildStats(10000, orders)
	if stats.InitialBalance != 9900 {
		t.Fatalf("expected initial balance 9900, got %f", stats.InitialBalance)
	}
	if len(stats.DailyStats) != 1 {
		t.Fatalf("expected 1 daily bucket, got %d", len(stats.DailyStats))
	}
}

func TestBuildStatsReconstructionIdentity(t *testing.T) {
	balance := 12345.67
	orders := []domain.ClosedOrder{
		{CloseTime: day(1, 9), Profit: 120.5},
		{CloseTime: day(2, 14), Profit: -310.25},
		{CloseTime: day(3, 11), Profit: 42},
	}
	stats := BuildStats(balance, orders)

	total := 0.0
	for _, o := range orders {
		total += o.Profit
	}
	if math.Abs(stats.InitialBalance+total-balance) > 1e-9 {
		t.Fatalf("reconstruction identity violated: initial=%f total=%f balance=%f",
			stats.InitialBalance, total, balance)
	}
}

func TestBuildStatsDailyBuckets(t *testing.T) {
	orders := []domain.ClosedOrder{
		{CloseTime: day(1, 9), Profit: -200},
		{CloseTime: day(1, 15), Profit: -150},
		{CloseTime: day(2, 10), Profit: 300},
	}
	stats := BuildStats(10000, orders)
	if got := stats.DailyStats["2025-03-01"]; got != -350 {
		t.Fatalf("expected -350 for day 1, got %f", got)
	}
	if got := stats.DailyStats["2025-03-02"]; got != 300 {
		t.Fatalf("expected 300 for day 2, got %f", got)
	}
}

func TestBuildStatsDrawdown(t *testing.T) {
	// Curve: 10000 -> 10500 (peak) -> 10100 -> 10400.
	orders := []domain.ClosedOrder{
		{CloseTime: day(1, 9), Profit: 500},
		{CloseTime: day(2, 9), Profit: -400},
		{CloseTime: day(3, 9), Profit: 300},
	}
	stats := BuildStats(10400, orders)
	if stats.HighestDrawdownPct == nil {
		t.Fatal("expected a drawdown value")
	}
	want := 400.0 / 10500.0 * 100
	if math.Abs(*stats.HighestDrawdownPct-want) > 1e-9 {
		t.Fatalf("expected drawdown %.4f%%, got %.4f%%", want, *stats.HighestDrawdownPct)
	}
}

func TestBuildStatsDrawdownNilWhenCurveOnlyRises(t *testing.T) {
	orders := []domain.ClosedOrder{
		{CloseTime: day(1, 9), Profit: 100},
		{CloseTime: day(2, 9), Profit: 200},
	}
	stats := BuildStats(10300, orders)
	if stats.HighestDrawdownPct != nil {
		t.Fatalf("expected nil drawdown on a rising curve, got %f", *stats.HighestDrawdownPct)
	}
}

func TestBuildStatsDrawdownIdempotentUnderGains(t *testing.T) {
	base := []domain.ClosedOrder{
		{CloseTime: day(1, 9), Profit: 500},
		{CloseTime: day(2, 9), Profit: -400},
	}
	before := BuildStats(10100, base)

	// Subsequent non-losing trades that never exceed the prior peak.
	extended := append(append([]domain.ClosedOrder(nil), base...),
		domain.ClosedOrder{CloseTime: day(3, 9), Profit: 100},
		domain.ClosedOrder{CloseTime: day(4, 9), Profit: 200},
	)
	after := BuildStats(10400, extended)

	if *after.HighestDrawdownPct > *before.HighestDrawdownPct {
		t.Fatalf("drawdown increased without new losses: %f -> %f",
			*before.HighestDrawdownPct, *after.HighestDrawdownPct)
	}
}

func TestBuildStatsNonPositivePeakContributesZero(t *testing.T) {
	// Heavy withdrawals: total profit exceeds balance, reconstructed
	// starting capital is negative.
	orders := []domain.ClosedOrder{
		{CloseTime: day(1, 9), Profit: 2000},
		{CloseTime: day(2, 9), Profit: -500},
	}
	stats := BuildStats(1000, orders)
	if stats.InitialBalance >= 0 {
		t.Fatalf("expected negative reconstructed balance, got %f", stats.InitialBalance)
	}
	// Peak is 1500 (positive) after the first trade, so the dip is measurable;
	// the degenerate case is the starting segment, which must not panic or
	// produce garbage.
	if stats.HighestDrawdownPct != nil && (math.IsNaN(*stats.HighestDrawdownPct) || math.IsInf(*stats.HighestDrawdownPct, 0)) {
		t.Fatalf("drawdown is not finite: %f", *stats.HighestDrawdownPct)
	}
}

func TestBuildStatsConsecutiveLosses(t *testing.T) {
	cases := []struct {
		name    string
		profits []float64
		want    int
	}{
		{"all wins", []float64{10, 20, 30}, 0},
		{"trailing losses", []float64{10, -5, -5, -5}, 3},
		{"reset by win", []float64{-5, -5, 10, -5}, 1},
		{"break-even trade resets", []float64{-5, 0, -5, -5}, 2},
		{"all losses", []float64{-1, -2, -3, -4}, 4},
	}

	for _, tc := range cases {
		orders := make([]domain.ClosedOrder, len(tc.profits))
		for i, p := range tc.profits {
			orders[i] = domain.ClosedOrder{CloseTime: day(1, 9+i), Profit: p}
		}
		stats := BuildStats(10000, orders)
		if stats.ConsecutiveLossesAtEnd != tc.want {
			t.Fatalf("%s: expected %d consecutive losses, got %d", tc.name, tc.want, stats.ConsecutiveLossesAtEnd)
		}
	}
}

func TestBuildStatsOrderInsensitive(t *testing.T) {
	orders := []domain.ClosedOrder{
		{CloseTime: day(3, 9), Profit: -50},
		{CloseTime: day(1, 9), Profit: 500},
		{CloseTime: day(2, 9), Profit: -400},
	}
	stats := BuildStats(10050, orders)
	// Sorted curve: 10000 -> 10500 -> 10100 -> 10050; trailing losses are the
	// last two trades in close-time order.
	if stats.ConsecutiveLossesAtEnd != 2 {
		t.Fatalf("expected 2 trailing losses after sorting, got %d", stats.ConsecutiveLossesAtEnd)
	}
}
