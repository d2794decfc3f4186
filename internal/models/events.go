package models

import "time"

// NATS subjects for workflow transitions
const (
	SubjectVendorAssigned    = "vendor.assigned"
	SubjectVendorUnassigned  = "vendor.unassigned"
	SubjectWorkCompleted     = "work.completed"
	SubjectWorkVerified      = "work.verified"
	SubjectPaymentRequested  = "payment.requested"
	SubjectPaymentInitiated  = "payment.initiated"
	SubjectPaymentCompleted  = "payment.completed"
	SubjectPaymentFailed     = "payment.failed"
	SubjectEventDeleted      = "event.deleted"
	SubjectNotificationAdded = "notification.created"
)

// AssignmentEvent covers assignment ledger changes
type AssignmentEvent struct {
	VendorID  int64     `json:"vendor_id"`
	EventID   int64     `json:"event_id"`
	ActorID   int64     `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
}

// WorkflowEvent covers completion and verification transitions
type WorkflowEvent struct {
	VendorID  int64     `json:"vendor_id"`
	EventID   int64     `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentLifecycleEvent covers settlement transitions
type PaymentLifecycleEvent struct {
	PaymentID          int64     `json:"payment_id"`
	EventID            int64     `json:"event_id"`
	Amount             float64   `json:"amount"`
	RequestID          *int64    `json:"request_id,omitempty"`
	OrganizerRequestID *int64    `json:"organizer_request_id,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// EventDeletedEvent announces a cascade delete
type EventDeletedEvent struct {
	EventID   int64     `json:"event_id"`
	VendorIDs []int64   `json:"vendor_ids"`
	Timestamp time.Time `json:"timestamp"`
}
