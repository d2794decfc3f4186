package repository

import (
	"context"
	"database/sql"

	"eventify/internal/database"
	"eventify/internal/models"
)

type RequestRepository struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *models.PaymentRequest) error {
	query := `
		INSERT INTO payment_requests (event_id, vendor_id, amount, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		req.EventID,
		req.VendorID,
		req.Amount,
		req.Status,
		req.Description,
	).Scan(&req.ID, &req.CreatedAt)
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.PaymentRequest, error) {
	req := &models.PaymentRequest{}
	query := `
		SELECT id, event_id, vendor_id, amount, status, COALESCE(description, ''), created_at
		FROM payment_requests
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.EventID,
		&req.VendorID,
		&req.Amount,
		&req.Status,
		&req.Description,
		&req.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return req, err
}

// HasActiveRequest reports whether the vendor already holds the single active
// request slot for this event (pending or approved)
func (r *RequestRepository) HasActiveRequest(ctx context.Context, vendorID, eventID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payment_requests
			WHERE vendor_id = $1 AND event_id = $2 AND status IN ('pending', 'approved')
		)`

	err := r.db.QueryRowContext(ctx, query, vendorID, eventID).Scan(&exists)
	return exists, err
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE payment_requests SET status = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// ListByVendor returns the vendor's requests with event names filled in
func (r *RequestRepository) ListByVendor(ctx context.Context, vendorID int64) ([]models.PaymentRequest, error) {
	query := `
		SELECT pr.id, pr.event_id, pr.vendor_id, pr.amount, pr.status,
		       COALESCE(pr.description, ''), pr.created_at, u.name, e.name
		FROM payment_requests pr
		JOIN users u ON u.id = pr.vendor_id
		JOIN events e ON e.id = pr.event_id
		WHERE pr.vendor_id = $1
		ORDER BY pr.created_at DESC`

	return r.list(ctx, query, vendorID)
}

// ListForManager returns pending-review requests across every event the user
// owns or manages as accepted organizer
func (r *RequestRepository) ListForManager(ctx context.Context, userID int64) ([]models.PaymentRequest, error) {
	query := `
		SELECT pr.id, pr.event_id, pr.vendor_id, pr.amount, pr.status,
		       COALESCE(pr.description, ''), pr.created_at, u.name, e.name
		FROM payment_requests pr
		JOIN users u ON u.id = pr.vendor_id
		JOIN events e ON e.id = pr.event_id
		WHERE e.user_id = $1
		   OR (e.organizer_id = $1 AND e.organizer_status = 'accepted')
		ORDER BY pr.created_at DESC`

	return r.list(ctx, query, userID)
}

func (r *RequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.PaymentRequest, error) {
	var requests []models.PaymentRequest

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var req models.PaymentRequest
		err := rows.Scan(
			&req.ID,
			&req.EventID,
			&req.VendorID,
			&req.Amount,
			&req.Status,
			&req.Description,
			&req.CreatedAt,
			&req.VendorName,
			&req.EventName,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// Organizer payment requests

func (r *RequestRepository) CreateOrganizerRequest(ctx context.Context, req *models.OrganizerPaymentRequest) error {
	query := `
		INSERT INTO organizer_payment_requests (event_id, organizer_id, amount, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		req.EventID,
		req.OrganizerID,
		req.Amount,
		req.Status,
		req.Description,
	).Scan(&req.ID, &req.CreatedAt)
}

func (r *RequestRepository) GetOrganizerRequestByID(ctx context.Context, id int64) (*models.OrganizerPaymentRequest, error) {
	req := &models.OrganizerPaymentRequest{}
	query := `
		SELECT id, event_id, organizer_id, amount, status, COALESCE(description, ''),
		       paid_at, payment_id, created_at
		FROM organizer_payment_requests
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.EventID,
		&req.OrganizerID,
		&req.Amount,
		&req.Status,
		&req.Description,
		&req.PaidAt,
		&req.PaymentID,
		&req.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return req, err
}

// HasPendingOrganizerRequest reports whether the organizer already has an
// unresolved request on this event
func (r *RequestRepository) HasPendingOrganizerRequest(ctx context.Context, organizerID, eventID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM organizer_payment_requests
			WHERE organizer_id = $1 AND event_id = $2 AND status = 'pending'
		)`

	err := r.db.QueryRowContext(ctx, query, organizerID, eventID).Scan(&exists)
	return exists, err
}

// HasPaidOrganizerRequest reports whether the organizer was already paid on
// this event. A paid request permanently closes the pair for new requests.
func (r *RequestRepository) HasPaidOrganizerRequest(ctx context.Context, organizerID, eventID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM organizer_payment_requests
			WHERE organizer_id = $1 AND event_id = $2 AND status = 'paid'
		)`

	err := r.db.QueryRowContext(ctx, query, organizerID, eventID).Scan(&exists)
	return exists, err
}

func (r *RequestRepository) UpdateOrganizerRequestStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE organizer_payment_requests SET status = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// ListOrganizerRequestsForOwner returns requests filed against events the
// owner created
func (r *RequestRepository) ListOrganizerRequestsForOwner(ctx context.Context, ownerID int64) ([]models.OrganizerPaymentRequest, error) {
	query := `
		SELECT opr.id, opr.event_id, opr.organizer_id, opr.amount, opr.status,
		       COALESCE(opr.description, ''), opr.paid_at, opr.payment_id, opr.created_at
		FROM organizer_payment_requests opr
		JOIN events e ON e.id = opr.event_id
		WHERE e.user_id = $1
		ORDER BY opr.created_at DESC`

	return r.listOrganizer(ctx, query, ownerID)
}

// ListOrganizerRequestsByOrganizer returns requests the organizer filed
func (r *RequestRepository) ListOrganizerRequestsByOrganizer(ctx context.Context, organizerID int64) ([]models.OrganizerPaymentRequest, error) {
	query := `
		SELECT id, event_id, organizer_id, amount, status,
		       COALESCE(description, ''), paid_at, payment_id, created_at
		FROM organizer_payment_requests
		WHERE organizer_id = $1
		ORDER BY created_at DESC`

	return r.listOrganizer(ctx, query, organizerID)
}

func (r *RequestRepository) listOrganizer(ctx context.Context, query string, args ...interface{}) ([]models.OrganizerPaymentRequest, error) {
	var requests []models.OrganizerPaymentRequest

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var req models.OrganizerPaymentRequest
		err := rows.Scan(
			&req.ID,
			&req.EventID,
			&req.OrganizerID,
			&req.Amount,
			&req.Status,
			&req.Description,
			&req.PaidAt,
			&req.PaymentID,
			&req.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}
