package repository

import (
	"context"
	"database/sql"

	"eventify/internal/database"
	"eventify/internal/models"
)

type VerificationRepository struct {
	db *database.DB
}

func NewVerificationRepository(db *database.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create records the manager's sign-off. Verifying twice is a no-op.
func (r *VerificationRepository) Create(ctx context.Context, v *models.VendorEventVerification) (bool, error) {
	query := `
		INSERT INTO vendor_event_verifications (event_id, vendor_id, verified_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, vendor_id) DO NOTHING
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, v.EventID, v.VendorID, v.VerifiedBy).
		Scan(&v.ID, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *VerificationRepository) Exists(ctx context.Context, eventID, vendorID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM vendor_event_verifications WHERE event_id = $1 AND vendor_id = $2
		)`

	err := r.db.QueryRowContext(ctx, query, eventID, vendorID).Scan(&exists)
	return exists, err
}

func (r *VerificationRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.VendorEventVerification, error) {
	var verifications []models.VendorEventVerification
	query := `
		SELECT id, event_id, vendor_id, verified_by, created_at
		FROM vendor_event_verifications
		WHERE event_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.VendorEventVerification
		err := rows.Scan(&v.ID, &v.EventID, &v.VendorID, &v.VerifiedBy, &v.CreatedAt)
		if err != nil {
			return nil, err
		}
		verifications = append(verifications, v)
	}

	return verifications, rows.Err()
}
