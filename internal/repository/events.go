package repository

import (
	"context"
	"database/sql"
	"fmt"

	"eventify/internal/database"
	"eventify/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (name, date, venue, budget, vendor_category, image_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, progress, organizer_status, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Name,
		event.Date,
		event.Venue,
		event.Budget,
		event.VendorCategory,
		event.ImageURL,
		event.UserID,
	).Scan(&event.ID, &event.Progress, &event.OrganizerStatus, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, name, date, venue, budget, vendor_category, image_url,
		       progress, user_id, organizer_id, organizer_status, created_at, updated_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Date,
		&event.Venue,
		&event.Budget,
		&event.VendorCategory,
		&event.ImageURL,
		&event.Progress,
		&event.UserID,
		&event.OrganizerID,
		&event.OrganizerStatus,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, date = $2, venue = $3, budget = $4, vendor_category = $5,
		    progress = $6, updated_at = NOW()
		WHERE id = $7`

	_, err := r.db.ExecContext(ctx, query,
		event.Name,
		event.Date,
		event.Venue,
		event.Budget,
		event.VendorCategory,
		event.Progress,
		event.ID,
	)

	return err
}

// ListByOwner returns events created by the given user
func (r *EventRepository) ListByOwner(ctx context.Context, userID int64) ([]models.Event, error) {
	query := `
		SELECT id, name, date, venue, budget, vendor_category, image_url,
		       progress, user_id, organizer_id, organizer_status, created_at, updated_at
		FROM events
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, userID)
}

// ListByOrganizer returns events delegated to the given organizer, in any
// delegation state
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error) {
	query := `
		SELECT id, name, date, venue, budget, vendor_category, image_url,
		       progress, user_id, organizer_id, organizer_status, created_at, updated_at
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, organizerID)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	var events []models.Event

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Date,
			&event.Venue,
			&event.Budget,
			&event.VendorCategory,
			&event.ImageURL,
			&event.Progress,
			&event.UserID,
			&event.OrganizerID,
			&event.OrganizerStatus,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// SetOrganizer delegates the event and resets the delegation to pending
func (r *EventRepository) SetOrganizer(ctx context.Context, eventID, organizerID int64) error {
	query := `
		UPDATE events
		SET organizer_id = $1, organizer_status = 'pending', updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, organizerID, eventID)
	return err
}

// SetOrganizerStatus records the organizer's accept/reject answer
func (r *EventRepository) SetOrganizerStatus(ctx context.Context, eventID int64, status string) error {
	query := `
		UPDATE events
		SET organizer_status = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, status, eventID)
	return err
}

// Delete removes the event and all dependent rows in one transaction.
// Child tables carry ON DELETE CASCADE; the explicit deletes keep the
// ordering visible and cover tables without the clause.
func (r *EventRepository) Delete(ctx context.Context, eventID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deletes := []string{
		`DELETE FROM chat_messages WHERE event_id = $1`,
		`DELETE FROM payments WHERE event_id = $1`,
		`DELETE FROM payment_requests WHERE event_id = $1`,
		`DELETE FROM organizer_payment_requests WHERE event_id = $1`,
		`DELETE FROM vendor_event_verifications WHERE event_id = $1`,
		`DELETE FROM vendor_completed_events WHERE event_id = $1`,
		`DELETE FROM vendor_events WHERE event_id = $1`,
		`DELETE FROM events WHERE id = $1`,
	}

	for _, q := range deletes {
		if _, err := tx.ExecContext(ctx, q, eventID); err != nil {
			return fmt.Errorf("failed to delete event dependents: %w", err)
		}
	}

	return tx.Commit()
}
