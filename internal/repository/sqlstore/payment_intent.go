package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"upipay/internal/domain"
	"upipay/internal/repository"
)

// PaymentIntentRepository is a SQL implementation of repository.PaymentIntentRepository.
// Queries use ordered $n placeholders so they run on both PostgreSQL and SQLite.
type PaymentIntentRepository struct {
	q Querier
}

// NewPaymentIntentRepository creates a new SQL payment intent repository.
func NewPaymentIntentRepository(db *sql.DB) *PaymentIntentRepository {
	return &PaymentIntentRepository{q: db}
}

var _ repository.PaymentIntentRepository = (*PaymentIntentRepository)(nil)

// Create persists a new payment intent and fills in its ID.
func (r *PaymentIntentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	query := `
		INSERT INTO payment_intents (order_id, amount, payee_vpa, payment_uri, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, query,
		intent.OrderID,
		intent.Amount.StringFixed(2),
		intent.PayeeVPA,
		intent.PaymentURI,
		intent.Status,
		intent.CreatedAt,
	).Scan(&intent.ID)
	if err != nil {
		return fmt.Errorf("insert payment intent %s: %w", intent.OrderID, translateError(err))
	}

	return nil
}

// GetByOrderID retrieves a payment intent by order ID.
func (r *PaymentIntentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	query := `
		SELECT id, order_id, amount, payee_vpa, payment_uri, utr_reference, status, created_at
		FROM payment_intents WHERE order_id = $1
	`

	var (
		intent domain.PaymentIntent
		utr    sql.NullString
	)
	err := r.q.QueryRowContext(ctx, query, orderID).Scan(
		&intent.ID,
		&intent.OrderID,
		&intent.Amount,
		&intent.PayeeVPA,
		&intent.PaymentURI,
		&utr,
		&intent.Status,
		&intent.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if utr.Valid {
		intent.UTRReference = &utr.String
	}
	intent.CreatedAt = intent.CreatedAt.UTC()

	return &intent, nil
}

// UpdateUTRAndStatus sets the UTR and marks the intent UTR_SUBMITTED.
// An unknown order ID matches no rows and is reported as false.
func (r *PaymentIntentRepository) UpdateUTRAndStatus(ctx context.Context, orderID, utr string) (bool, error) {
	query := `UPDATE payment_intents SET utr_reference = $1, status = $2 WHERE order_id = $3`

	result, err := r.q.ExecContext(ctx, query, utr, domain.PaymentStatusUTRSubmitted, orderID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// Count returns the number of stored payment intents.
func (r *PaymentIntentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM payment_intents`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
