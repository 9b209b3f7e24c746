package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paygate/internal/domain/payment"
	"paygate/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// paymentRepository implements repositories.PaymentRepository on Postgres.
type paymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *paymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, reference, user_email, amount::text, currency, channel, status, initiated_at, completed_at`

// Save upserts a payment by its transaction reference. The reference is
// immutable once assigned by the gateway, so conflict on it means the same
// transaction.
func (r *paymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (reference, user_email, amount, currency, channel, status, initiated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reference) DO UPDATE SET
			user_email = EXCLUDED.user_email,
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			channel = EXCLUDED.channel,
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at
		RETURNING id`,
		p.Reference, p.UserEmail, p.Amount.String(), nullString(p.Currency),
		nullString(p.Channel), string(p.Status), p.InitiatedAt, p.CompletedAt).Scan(&p.ID)
	return err
}

func (r *paymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE reference = $1`, reference)
	return r.scanPayment(row)
}

func (r *paymentRepository) FindByUserEmail(ctx context.Context, email string) (*payment.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE user_email = $1
		ORDER BY initiated_at DESC
		LIMIT 1`, email)
	return r.scanPayment(row)
}

func (r *paymentRepository) ListByUserEmail(ctx context.Context, email string, limit, offset int) ([]*payment.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE user_email = $1
		ORDER BY initiated_at DESC
		LIMIT $2 OFFSET $3`, email, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*payment.Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ApplyVerification overwrites the fields a verify response settles.
func (r *paymentRepository) ApplyVerification(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status = $1, channel = $2, completed_at = $3, amount = $4, currency = $5
		WHERE reference = $6`,
		string(p.Status), nullString(p.Channel), p.CompletedAt, p.Amount.String(),
		nullString(p.Currency), p.Reference)
	return err
}

func (r *paymentRepository) scanPayment(row pgx.Row) (*payment.Payment, error) {
	var p payment.Payment
	var amount string
	var currency, channel sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(&p.ID, &p.Reference, &p.UserEmail, &amount, &currency,
		&channel, &p.Status, &p.InitiatedAt, &completedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repositories.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("bad amount for payment %s: %w", p.Reference, err)
	}
	if currency.Valid {
		p.Currency = currency.String
	}
	if channel.Valid {
		p.Channel = channel.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		p.CompletedAt = &t
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
