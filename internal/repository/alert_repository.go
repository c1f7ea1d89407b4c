package repository

import (
	"context"
	"errors"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/trace"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AlertRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAlertRepository(pool PgxPool, tracer trace.Tracer) *AlertRepository {
	return &AlertRepository{pool: pool, tracer: tracer}
}

// InsertIfNotRecent persists the alert unless one with the same user and rule
// type already exists inside the trailing window. Check and insert are a
// single conditional statement, so sequential runs never double-insert. Under
// READ COMMITTED two statements racing on the same (user, rule type) can both
// pass the NOT EXISTS check; a duplicate inside the window is then possible
// and tolerated. Returns the stored alert and whether a row was created.
func (r *AlertRepository) InsertIfNotRecent(ctx context.Context, alert domain.Alert, window time.Duration) (*domain.Alert, bool, error) {
	_, span := r.tracer.Start(ctx, "alert-repo.insert-if-not-recent")
	defer span.End()

	cutoff := alert.AlertDate.Add(-window).UTC()

	var id pgtype.Int8
	var alertDate pgtype.Timestamptz
	err := r.pool.QueryRow(ctx, `
INSERT INTO alerts (user_id, message, severity, solution, rule_type, alert_date)
SELECT $1, $2, $3, $4, $5, $6
WHERE NOT EXISTS (
    SELECT 1 FROM alerts
    WHERE user_id = $1 AND rule_type = $5 AND alert_date >= $7
)
RETURNING id, alert_date`,
		alert.UserID,
		alert.Message,
		string(alert.Severity),
		alert.Solution,
		string(alert.RuleType),
		alert.AlertDate.UTC(),
		cutoff,
	).Scan(&id, &alertDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conditional insert matched nothing: a recent alert exists.
			return nil, false, nil
		}
		return nil, false, err
	}

	alert.ID = id.Int64
	alert.AlertDate = alertDate.Time.UTC()
	return &alert, true, nil
}

// HasRecent reports whether an alert for (user, rule type) exists inside the
// trailing window.
func (r *AlertRepository) HasRecent(ctx context.Context, userID int64, ruleType domain.RuleType, window time.Duration) (bool, error) {
	_, span := r.tracer.Start(ctx, "alert-repo.has-recent")
	defer span.End()

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
    SELECT 1 FROM alerts
    WHERE user_id = $1 AND rule_type = $2 AND alert_date >= $3
)`, userID, string(ruleType), time.Now().Add(-window).UTC()).Scan(&exists)
	return exists, err
}

// ListByUser returns a user's alerts, newest first. Dismissed alerts are
// excluded unless includeDismissed is set.
func (r *AlertRepository) ListByUser(ctx context.Context, userID int64, includeDismissed bool, limit int) ([]domain.Alert, error) {
	_, span := r.tracer.Start(ctx, "alert-repo.list-by-user")
	defer span.End()

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, message, severity, solution, rule_type, alert_date,
       read, dismissed, acknowledged_at, acknowledged_note
FROM alerts
WHERE user_id = $1 AND (dismissed = FALSE OR $2)
ORDER BY alert_date DESC
LIMIT $3`, userID, includeDismissed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

func (r *AlertRepository) MarkRead(ctx context.Context, userID, alertID int64) error {
	_, span := r.tracer.Start(ctx, "alert-repo.mark-read")
	defer span.End()

	return r.mutate(ctx, `UPDATE alerts SET read = TRUE WHERE id = $1 AND user_id = $2`, alertID, userID)
}

func (r *AlertRepository) Dismiss(ctx context.Context, userID, alertID int64) error {
	_, span := r.tracer.Start(ctx, "alert-repo.dismiss")
	defer span.End()

	return r.mutate(ctx, `UPDATE alerts SET dismissed = TRUE WHERE id = $1 AND user_id = $2`, alertID, userID)
}

// Acknowledge records that the trader has seen and responded to the alert.
// An acknowledged alert is also marked read.
func (r *AlertRepository) Acknowledge(ctx context.Context, userID, alertID int64, note string) error {
	_, span := r.tracer.Start(ctx, "alert-repo.acknowledge")
	defer span.End()

	return r.mutate(ctx, `
UPDATE alerts
SET acknowledged_at = NOW(), acknowledged_note = $3, read = TRUE
WHERE id = $1 AND user_id = $2`, alertID, userID, note)
}

func (r *AlertRepository) mutate(ctx context.Context, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanAlert(s interface{ Scan(dest ...any) error }) (domain.Alert, error) {
	var alert domain.Alert
	var severity, ruleType string
	var ackAt pgtype.Timestamptz
	var ackNote pgtype.Text

	if err := s.Scan(
		&alert.ID,
		&alert.UserID,
		&alert.Message,
		&severity,
		&alert.Solution,
		&ruleType,
		&alert.AlertDate,
		&alert.Read,
		&alert.Dismissed,
		&ackAt,
		&ackNote,
	); err != nil {
		return domain.Alert{}, err
	}

	alert.Severity = domain.Severity(severity)
	alert.RuleType = domain.RuleType(ruleType)
	alert.AlertDate = alert.AlertDate.UTC()
	if ackAt.Valid {
		v := ackAt.Time.UTC()
		alert.AcknowledgedAt = &v
	}
	if ackNote.Valid {
		v := ackNote.String
		alert.AcknowledgedNote = &v
	}
	return alert, nil
}
