package models

// SignupRequest registers a new account
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	Category string `json:"category"`
}

// LoginRequest exchanges credentials for a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed token and the account it belongs to
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// CreateEventRequest creates a new event owned by the caller
type CreateEventRequest struct {
	Name           string  `json:"name" binding:"required"`
	Date           string  `json:"date" binding:"required"`
	Venue          string  `json:"venue" binding:"required"`
	VendorCategory string  `json:"vendor_category" binding:"required"`
	Budget         float64 `json:"budget" binding:"required"`
	ImageURL       string  `json:"image_url"`
}

// UpdateEventRequest partially updates an owned event
type UpdateEventRequest struct {
	Name           *string  `json:"name"`
	Date           *string  `json:"date"`
	Venue          *string  `json:"venue"`
	VendorCategory *string  `json:"vendor_category"`
	Budget         *float64 `json:"budget"`
	Progress       *int     `json:"progress"`
}

// CreateEventResponse returns the stored event plus planning suggestions
type CreateEventResponse struct {
	Event       *Event   `json:"event"`
	Suggestions []string `json:"suggestions"`
}

// DelegateEventRequest hands an event off to a hired organizer
type DelegateEventRequest struct {
	OrganizerID int64 `json:"organizer_id" binding:"required"`
}

// RespondDelegationRequest is the organizer's accept/reject answer
type RespondDelegationRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignVendorRequest links a vendor to an event
type AssignVendorRequest struct {
	VendorID int64 `json:"vendor_id" binding:"required"`
	EventID  int64 `json:"event_id" binding:"required"`
}

// VerifyWorkRequest records the manager's sign-off on a vendor's work
type VerifyWorkRequest struct {
	VendorID int64 `json:"vendor_id" binding:"required"`
}

// RequestPaymentRequest files a vendor payment request
type RequestPaymentRequest struct {
	EventID     int64   `json:"event_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// OrganizerRequestPaymentRequest files the organizer's request to the owner
type OrganizerRequestPaymentRequest struct {
	EventID     int64   `json:"event_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// CreateIntentRequest initiates a settlement. At most one of RequestID and
// OrganizerRequestID may be set; with neither set this is a direct deposit by
// the owner.
type CreateIntentRequest struct {
	EventID            int64   `json:"event_id" binding:"required"`
	Amount             float64 `json:"amount"`
	RequestID          *int64  `json:"request_id"`
	OrganizerRequestID *int64  `json:"organizer_request_id"`
}

// CreateIntentResponse returns what the frontend needs to run checkout
type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	PaymentID    int64  `json:"payment_id"`
}

// ManualVerifyRequest asks the backend to re-check an intent with the processor
type ManualVerifyRequest struct {
	PaymentIntent string `json:"payment_intent" binding:"required"`
}

// EventPaymentStatus is the derived settlement picture for one event
type EventPaymentStatus struct {
	Event               *Event  `json:"event"`
	PaymentStatus       string  `json:"payment_status"`
	DepositAmount       float64 `json:"deposit_amount"`
	VendorPaymentsTotal float64 `json:"vendor_payments_total"`
	TotalPaid           float64 `json:"total_paid"`
}

// AssignedEventView is the vendor-facing view of one assignment
type AssignedEventView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Venue       string  `json:"venue"`
	Budget      float64 `json:"budget"`
	Status      string  `json:"status"`
	OrganizerID int64   `json:"organizer_id"`
}

// VendorView is the directory entry for one vendor. WorkVerified is only
// meaningful in per-event listings, where it reports whether the manager has
// signed off on this vendor's work.
type VendorView struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	City                string `json:"city"`
	Phone               string `json:"phone"`
	Category            string `json:"category"`
	ProfileImage        string `json:"profile_image"`
	AssignedEventsCount int    `json:"assigned_events_count"`
	WorkVerified        bool   `json:"work_verified"`
}

// SendMessageRequest posts a chat message scoped to an event
type SendMessageRequest struct {
	EventID    int64  `json:"event_id" binding:"required"`
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// Conversation summarizes one vendor/organizer chat thread for an event
type Conversation struct {
	EventID         int64   `json:"event_id"`
	EventName       string  `json:"event_name"`
	CounterpartID   int64   `json:"counterpart_id"`
	CounterpartName string  `json:"counterpart_name"`
	LastMessage     string  `json:"last_message"`
	LastMessageTime *string `json:"last_message_time"`
	UnreadCount     int     `json:"unread_count"`
}

// MarkReadRequest marks chat messages for an event as read
type MarkReadRequest struct {
	EventID int64 `json:"event_id" binding:"required"`
}
