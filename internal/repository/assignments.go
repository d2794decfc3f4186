package repository

import (
	"context"

	"eventify/internal/database"
	"eventify/internal/models"
)

type AssignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Assign adds the pair to the assignment ledger. Re-assigning is a no-op.
func (r *AssignmentRepository) Assign(ctx context.Context, vendorID, eventID int64) (bool, error) {
	query := `
		INSERT INTO vendor_events (vendor_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (vendor_id, event_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, vendorID, eventID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *AssignmentRepository) Unassign(ctx context.Context, vendorID, eventID int64) (bool, error) {
	query := `DELETE FROM vendor_events WHERE vendor_id = $1 AND event_id = $2`

	res, err := r.db.ExecContext(ctx, query, vendorID, eventID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *AssignmentRepository) IsAssigned(ctx context.Context, vendorID, eventID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM vendor_events WHERE vendor_id = $1 AND event_id = $2
		)`

	err := r.db.QueryRowContext(ctx, query, vendorID, eventID).Scan(&exists)
	return exists, err
}

// Complete adds the pair to the completion ledger. Completing twice is a no-op.
func (r *AssignmentRepository) Complete(ctx context.Context, vendorID, eventID int64) (bool, error) {
	query := `
		INSERT INTO vendor_completed_events (vendor_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (vendor_id, event_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, vendorID, eventID)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *AssignmentRepository) IsCompleted(ctx context.Context, vendorID, eventID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM vendor_completed_events WHERE vendor_id = $1 AND event_id = $2
		)`

	err := r.db.QueryRowContext(ctx, query, vendorID, eventID).Scan(&exists)
	return exists, err
}

// ListVendorsByEvent returns the vendors currently assigned to the event
func (r *AssignmentRepository) ListVendorsByEvent(ctx context.Context, eventID int64) ([]models.VendorView, error) {
	var vendors []models.VendorView
	query := `
		SELECT u.id, u.name, u.email,
		       COALESCE(u.city, ''), COALESCE(u.phone, ''),
		       COALESCE(u.category, ''), COALESCE(u.profile_image, '')
		FROM users u
		JOIN vendor_events ve ON ve.vendor_id = u.id
		WHERE ve.event_id = $1
		ORDER BY ve.assigned_at`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.VendorView
		err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Email,
			&v.City,
			&v.Phone,
			&v.Category,
			&v.ProfileImage,
		)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}

	return vendors, rows.Err()
}

// ListVendorIDsByEvent returns just the assigned vendor ids, used by the
// delete-notification fan-out
func (r *AssignmentRepository) ListVendorIDsByEvent(ctx context.Context, eventID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT vendor_id FROM vendor_events WHERE event_id = $1 ORDER BY assigned_at`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListEventsByVendor returns the vendor's assigned events, newest assignment
// first, with the completion ledger folded into a status column. Events
// without an accepted organizer are filtered out: any such ledger rows are
// orphans from before the organizer left and stay hidden until reconciled.
func (r *AssignmentRepository) ListEventsByVendor(ctx context.Context, vendorID int64) ([]models.AssignedEventView, error) {
	var views []models.AssignedEventView
	query := `
		SELECT e.id, e.name, e.date, e.venue, e.budget,
		       CASE WHEN vce.vendor_id IS NULL THEN 'assigned' ELSE 'completed' END,
		       COALESCE(e.organizer_id, 0)
		FROM events e
		JOIN vendor_events ve ON ve.event_id = e.id
		LEFT JOIN vendor_completed_events vce
		       ON vce.event_id = e.id AND vce.vendor_id = ve.vendor_id
		WHERE ve.vendor_id = $1
		  AND e.organizer_id IS NOT NULL
		  AND e.organizer_status = 'accepted'
		ORDER BY ve.assigned_at DESC`

	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v models.AssignedEventView
		err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Date,
			&v.Venue,
			&v.Budget,
			&v.Status,
			&v.OrganizerID,
		)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return views, rows.Err()
}

// ClearOrphaned deletes assignment rows on events that no longer have an
// accepted organizer. Run from the reconcile job; returns the number of rows
// removed.
func (r *AssignmentRepository) ClearOrphaned(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM vendor_events ve
		USING events e
		WHERE e.id = ve.event_id
		  AND (e.organizer_id IS NULL OR e.organizer_status <> 'accepted')`

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
