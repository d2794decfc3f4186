package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventify/internal/database"
	"eventify/internal/models"
)

type PaymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (event_id, amount, currency, status, payment_method, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		payment.EventID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.PaymentMethod,
		payment.TransactionID,
	).Scan(&payment.ID, &payment.CreatedAt)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, event_id, amount, currency, status, payment_method,
		       transaction_id, payment_date, created_at
		FROM payments
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.EventID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.PaymentMethod,
		&payment.TransactionID,
		&payment.PaymentDate,
		&payment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return payment, err
}

// GetByTransactionID looks a payment up by the processor's intent id
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, event_id, amount, currency, status, payment_method,
		       transaction_id, payment_date, created_at
		FROM payments
		WHERE transaction_id = $1`

	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&payment.ID,
		&payment.EventID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.PaymentMethod,
		&payment.TransactionID,
		&payment.PaymentDate,
		&payment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return payment, err
}

func (r *PaymentRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Payment, error) {
	var payments []models.Payment
	query := `
		SELECT id, event_id, amount, currency, status, payment_method,
		       transaction_id, payment_date, created_at
		FROM payments
		WHERE event_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var payment models.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.EventID,
			&payment.Amount,
			&payment.Currency,
			&payment.Status,
			&payment.PaymentMethod,
			&payment.TransactionID,
			&payment.PaymentDate,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// SumCompletedByEvent totals completed settlements for an event. Pending and
// failed attempts never count.
func (r *PaymentRepository) SumCompletedByEvent(ctx context.Context, eventID int64) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE event_id = $1 AND status = 'completed'`

	err := r.db.QueryRowContext(ctx, query, eventID).Scan(&total)
	return total, err
}

// SetTransactionID links the payment row to the processor's intent
func (r *PaymentRepository) SetTransactionID(ctx context.Context, id int64, transactionID string) error {
	query := `UPDATE payments SET transaction_id = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, transactionID, id)
	return err
}

// MarkFailed records a failed settlement attempt
func (r *PaymentRepository) MarkFailed(ctx context.Context, id int64) error {
	query := `UPDATE payments SET status = 'failed' WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ListStalePending returns pending payments that have an intent and have not
// resolved within the cutoff, candidates for reconciliation against the
// processor
func (r *PaymentRepository) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	query := `
		SELECT id, event_id, amount, currency, status, payment_method,
		       transaction_id, payment_date, created_at
		FROM payments
		WHERE status = 'pending'
		  AND transaction_id IS NOT NULL
		  AND created_at < $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var payment models.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.EventID,
			&payment.Amount,
			&payment.Currency,
			&payment.Status,
			&payment.PaymentMethod,
			&payment.TransactionID,
			&payment.PaymentDate,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// SettleParams links the payment completion with the request rows it pays off
type SettleParams struct {
	PaymentID          int64
	RequestID          *int64
	OrganizerRequestID *int64
}

// Settle marks the payment completed and flips the linked request to paid in
// one transaction, so the ledger never shows a paid request without its
// completed payment
func (r *PaymentRepository) Settle(ctx context.Context, params SettleParams) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET status = 'completed', payment_date = NOW()
		WHERE id = $1 AND status = 'pending'`, params.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to complete payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("payment %d is not pending", params.PaymentID)
	}

	if params.RequestID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE payment_requests
			SET status = 'paid'
			WHERE id = $1`, *params.RequestID)
		if err != nil {
			return fmt.Errorf("failed to mark request paid: %w", err)
		}
	}

	if params.OrganizerRequestID != nil {
		_, err = tx.ExecContext(ctx, `
			UPDATE organizer_payment_requests
			SET status = 'paid', paid_at = NOW(), payment_id = $2
			WHERE id = $1`, *params.OrganizerRequestID, params.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to mark organizer request paid: %w", err)
		}
	}

	return tx.Commit()
}
