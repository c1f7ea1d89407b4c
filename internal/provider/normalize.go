package provider

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"
)

// The bridge's payload shapes drift across deployments: collections appear
// under different property names (or as a bare array), field names vary, and
// numbers sometimes arrive as strings. Everything downstream of this file
// sees only the fixed domain records.

func normalizeSummaryPayload(body []byte) (*domain.AccountSummary, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	// Some deployments nest the summary under "account" or "data".
	for _, key := range []string{"account", "data"} {
		if inner, ok := raw[key]; ok {
			if err := json.Unmarshal(inner, &raw); err != nil {
				return nil, err
			}
			break
		}
	}

	summary := &domain.AccountSummary{}
	balance, ok := pickNumber(raw, "balance")
	if !ok {
		return nil, fmt.Errorf("summary payload has no balance field")
	}
	summary.Balance = balance

	if equity, ok := pickNumber(raw, "equity"); ok {
		summary.Equity = equity
	} else {
		summary.Equity = balance
	}
	if currency, ok := pickString(raw, "currency"); ok {
		summary.Currency = currency
	}
	return summary, nil
}

func normalizeOrdersPayload(body []byte) ([]domain.ClosedOrder, error) {
	rows, err := extractRows(body, "orders", "deals", "history")
	if err != nil {
		return nil, err
	}

	orders := make([]domain.ClosedOrder, 0, len(rows))
	for _, row := range rows {
		order := domain.ClosedOrder{}
		if v, ok := pickString(row, "ticket", "id", "order_id", "orderId"); ok {
			order.Ticket = v
		}
		if v, ok := pickString(row, "symbol"); ok {
			order.Symbol = v
		}
		if t, ok := pickTime(row, "closeTime", "close_time", "time", "doneTime", "done_time"); ok {
			order.CloseTime = t
		}
		profit, ok := pickNumber(row, "profit", "pnl", "pl")
		if !ok {
			continue // non-numeric profit, unusable for aggregation
		}
		order.Profit = profit
		orders = append(orders, order)
	}
	return orders, nil
}

func normalizePositionsPayload(body []byte) ([]domain.OpenPosition, error) {
	rows, err := extractRows(body, "positions", "trades", "openTrades")
	if err != nil {
		return nil, err
	}

	positions := make([]domain.OpenPosition, 0, len(rows))
	for _, row := range rows {
		pos := domain.OpenPosition{}
		if v, ok := pickString(row, "symbol"); ok {
			pos.Symbol = v
		}
		if v, ok := pickNumber(row, "volume", "lots", "size"); ok {
			pos.Volume = v
		}
		if v, ok := pickNumber(row, "openPrice", "open_price", "price"); ok {
			pos.OpenPrice = v
		}
		if v, ok := pickNumber(row, "stopLoss", "stop_loss", "sl"); ok && v != 0 {
			sl := v
			pos.StopLoss = &sl
		}
		if v, ok := pickString(row, "side", "type", "direction"); ok {
			pos.Side = normalizeSide(v)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// extractRows accepts either a bare JSON array or an object holding the array
// under one of the given keys.
func extractRows(body []byte, keys ...string) ([]map[string]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	for _, key := range keys {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("field %q is not an array: %w", key, err)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("payload has none of the expected collection fields %v", keys)
}

func pickNumber(row map[string]json.RawMessage, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := row[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f, true
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func pickString(row map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := row[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s, true
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String(), true
		}
	}
	return "", false
}

// pickTime accepts RFC3339 strings, "2006-01-02 15:04:05" strings, and unix
// second or millisecond numbers.
func pickTime(row map[string]json.RawMessage, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		raw, ok := row[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t, true
			}
			if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
				return t.UTC(), true
			}
			continue
		}
		var n int64
		if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
			// Millisecond timestamps are 13 digits well past 2001.
			if n > 1e12 {
				return time.UnixMilli(n).UTC(), true
			}
			return time.Unix(n, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

func normalizeSide(side string) string {
	s := strings.ToLower(strings.TrimSpace(side))
	switch {
	case strings.Contains(s, "sell"), strings.Contains(s, "short"):
		return "sell"
	case strings.Contains(s, "buy"), strings.Contains(s, "long"):
		return "buy"
	default:
		return s
	}
}
