package repository

import (
	"context"
	"errors"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type RulesRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewRulesRepository(pool PgxPool, tracer trace.Tracer) *RulesRepository {
	return &RulesRepository{pool: pool, tracer: tracer}
}

// GetByUser returns the trader's configured rules. The second return value is
// false when the trader has never configured any; callers apply
// domain.DefaultRiskRules in that case.
func (r *RulesRepository) GetByUser(ctx context.Context, userID int64) (domain.RiskRules, bool, error) {
	_, span := r.tracer.Start(ctx, "rules-repo.get-by-user")
	defer span.End()

	rules := domain.RiskRules{UserID: userID}
	err := r.pool.QueryRow(ctx, `
SELECT daily_loss_pct, max_risk_per_trade_pct, max_exposure_pct, max_drawdown_pct, revenge_threshold_trades
FROM risk_rules
WHERE user_id = $1`, userID).Scan(
		&rules.DailyLossPct,
		&rules.MaxRiskPerTradePct,
		&rules.MaxExposurePct,
		&rules.MaxDrawdownPct,
		&rules.RevengeThresholdTrades,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RiskRules{}, false, nil
		}
		return domain.RiskRules{}, false, err
	}
	return rules, true, nil
}

// Upsert stores the trader's rules, replacing any previous configuration.
func (r *RulesRepository) Upsert(ctx context.Context, rules domain.RiskRules) error {
	_, span := r.tracer.Start(ctx, "rules-repo.upsert")
	defer span.End()

	_, err := r.pool.Exec(ctx, `
INSERT INTO risk_rules (user_id, daily_loss_pct, max_risk_per_trade_pct, max_exposure_pct, max_drawdown_pct, revenge_threshold_trades)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET
    daily_loss_pct = EXCLUDED.daily_loss_pct,
    max_risk_per_trade_pct = EXCLUDED.max_risk_per_trade_pct,
    max_exposure_pct = EXCLUDED.max_exposure_pct,
    max_drawdown_pct = EXCLUDED.max_drawdown_pct,
    revenge_threshold_trades = EXCLUDED.revenge_threshold_trades,
    updated_at = NOW()`,
		rules.UserID,
		rules.DailyLossPct,
		rules.MaxRiskPerTradePct,
		rules.MaxExposurePct,
		rules.MaxDrawdownPct,
		rules.RevengeThresholdTrades,
	)
	return err
}
