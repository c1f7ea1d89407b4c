package repository

import (
	"context"
	"errors"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/trace"
)

type AccountRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAccountRepository(pool PgxPool, tracer trace.Tracer) *AccountRepository {
	return &AccountRepository{pool: pool, tracer: tracer}
}

// ListByUser returns the trader's linked accounts in link order.
func (r *AccountRepository) ListByUser(ctx context.Context, userID int64) ([]domain.TradingAccount, error) {
	_, span := r.tracer.Start(ctx, "account-repo.list-by-user")
	defer span.End()

	return r.list(ctx, `
SELECT a.id, a.user_id, a.account_ref, a.platform, u.telegram_chat_id
FROM trading_accounts a
JOIN users u ON u.id = a.user_id
WHERE a.user_id = $1
ORDER BY a.id`, userID)
}

// ListAll returns every linked account across all traders, for the scheduled
// sweep. Ordered by id so bulk runs process accounts deterministically.
func (r *AccountRepository) ListAll(ctx context.Context) ([]domain.TradingAccount, error) {
	_, span := r.tracer.Start(ctx, "account-repo.list-all")
	defer span.End()

	return r.list(ctx, `
SELECT a.id, a.user_id, a.account_ref, a.platform, u.telegram_chat_id
FROM trading_accounts a
JOIN users u ON u.id = a.user_id
ORDER BY a.id`)
}

// FindUserByChatID resolves a telegram chat to the trader who linked it.
// Returns 0 when no trader has.
func (r *AccountRepository) FindUserByChatID(ctx context.Context, chatID int64) (int64, error) {
	_, span := r.tracer.Start(ctx, "account-repo.find-user-by-chat-id")
	defer span.End()

	var userID int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM users WHERE telegram_chat_id = $1`, chatID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return userID, nil
}

func (r *AccountRepository) list(ctx context.Context, sql string, args ...any) ([]domain.TradingAccount, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.TradingAccount
	for rows.Next() {
		var a domain.TradingAccount
		var chatID pgtype.Int8
		if err := rows.Scan(&a.ID, &a.UserID, &a.AccountRef, &a.Platform, &chatID); err != nil {
			return nil, err
		}
		if chatID.Valid {
			v := chatID.Int64
			a.NotifyChatID = &v
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
