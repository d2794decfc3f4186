package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User represents an account in the system
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	City         *string   `json:"city" db:"city"`
	Phone        *string   `json:"phone" db:"phone"`
	Category     *string   `json:"category" db:"category"`
	ProfileImage *string   `json:"profile_image" db:"profile_image"`
	IsVerified   bool      `json:"is_verified" db:"is_verified"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Event represents a planned event owned by its creator and optionally
// delegated to a hired organizer
type Event struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Date            string    `json:"date" db:"date"`
	Venue           string    `json:"venue" db:"venue"`
	Budget          float64   `json:"budget" db:"budget"`
	VendorCategory  string    `json:"vendor_category" db:"vendor_category"`
	ImageURL        *string   `json:"image_url" db:"image_url"`
	Progress        int       `json:"progress" db:"progress"`
	UserID          int64     `json:"user_id" db:"user_id"`
	OrganizerID     *int64    `json:"organizer_id" db:"organizer_id"`
	OrganizerStatus string    `json:"organizer_status" db:"organizer_status"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// HasAcceptedOrganizer reports whether the event has a delegated organizer who
// accepted the hand-off. Vendor visibility and assignment authority both hang
// off this predicate.
func (e *Event) HasAcceptedOrganizer() bool {
	return e.OrganizerID != nil && e.OrganizerStatus == OrganizerStatusAccepted
}

// VendorAssignment is a row in the vendor-event assignment ledger
type VendorAssignment struct {
	VendorID   int64     `json:"vendor_id" db:"vendor_id"`
	EventID    int64     `json:"event_id" db:"event_id"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
}

// VendorCompletion is a row in the completion ledger; it can only exist for a
// pair that is also present in the assignment ledger
type VendorCompletion struct {
	VendorID    int64     `json:"vendor_id" db:"vendor_id"`
	EventID     int64     `json:"event_id" db:"event_id"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}

// VendorEventVerification records that the event's manager signed off on a
// vendor's completed work. Its existence gates payment requests.
type VendorEventVerification struct {
	ID         int64     `json:"id" db:"id"`
	EventID    int64     `json:"event_id" db:"event_id"`
	VendorID   int64     `json:"vendor_id" db:"vendor_id"`
	VerifiedBy int64     `json:"verified_by" db:"verified_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PaymentRequest is a vendor's request for payment on an event
type PaymentRequest struct {
	ID          int64     `json:"id" db:"id"`
	EventID     int64     `json:"event_id" db:"event_id"`
	VendorID    int64     `json:"vendor_id" db:"vendor_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Status      string    `json:"status" db:"status"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Filled by list queries, not stored on the row
	VendorName string `json:"vendor_name,omitempty"`
	EventName  string `json:"event_name,omitempty"`
}

// OrganizerPaymentRequest is the hired organizer's request to the event owner
type OrganizerPaymentRequest struct {
	ID          int64      `json:"id" db:"id"`
	EventID     int64      `json:"event_id" db:"event_id"`
	OrganizerID int64      `json:"organizer_id" db:"organizer_id"`
	Amount      float64    `json:"amount" db:"amount"`
	Status      string     `json:"status" db:"status"`
	Description string     `json:"description" db:"description"`
	PaidAt      *time.Time `json:"paid_at" db:"paid_at"`
	PaymentID   *int64     `json:"payment_id" db:"payment_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Payment tracks one settlement attempt against the external processor.
// Status moves to completed/failed only via processor callback or manual
// verification, never directly from a client request.
type Payment struct {
	ID            int64      `json:"id" db:"id"`
	EventID       int64      `json:"event_id" db:"event_id"`
	Amount        float64    `json:"amount" db:"amount"`
	Currency      string     `json:"currency" db:"currency"`
	Status        string     `json:"status" db:"status"`
	PaymentMethod string     `json:"payment_method" db:"payment_method"`
	TransactionID *string    `json:"transaction_id" db:"transaction_id"`
	PaymentDate   *time.Time `json:"payment_date" db:"payment_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// JSONMap stores small structured payloads in a JSONB column
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Notification is an advisory, user-addressed message appended on every
// workflow transition; only is_read ever changes after insert
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	ExtraData JSONMap   `json:"extra_data,omitempty" db:"extra_data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChatMessage is an event-scoped message between the two parties
type ChatMessage struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"sender_id" db:"sender_id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	EventID    int64     `json:"event_id" db:"event_id"`
	Message    string    `json:"message" db:"message"`
	IsRead     bool      `json:"is_read" db:"is_read"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	SenderName   string `json:"sender_name,omitempty"`
	ReceiverName string `json:"receiver_name,omitempty"`
	EventName    string `json:"event_name,omitempty"`
}
