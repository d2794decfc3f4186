package models

// Roles
const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleVendor    = "vendor"
	RoleUser      = "user"
)

// Organizer delegation statuses
const (
	OrganizerStatusPending  = "pending"
	OrganizerStatusAccepted = "accepted"
	OrganizerStatusRejected = "rejected"
)

// Vendor payment request statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
	RequestStatusPaid     = "paid"
)

// Payment (settlement attempt) statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Derived per-event payment statuses
const (
	EventUnpaid        = "unpaid"
	EventDepositPaid   = "deposit_paid"
	EventPartiallyPaid = "partially_paid"
	EventFullyPaid     = "fully_paid"
)

// Notification types
const (
	NotifyInfo    = "info"
	NotifyWarning = "warning"
	NotifySuccess = "success"
	NotifyChat    = "chat"
)

// Transition tables. Every status mutation in the workflow must pass through
// one of these; a pair missing from the table is an invalid transition.

var organizerStatusTransitions = map[string][]string{
	OrganizerStatusPending: {OrganizerStatusAccepted, OrganizerStatusRejected},
}

var requestStatusTransitions = map[string][]string{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved: {RequestStatusPaid},
}

var organizerRequestTransitions = map[string][]string{
	RequestStatusPending: {RequestStatusPaid, RequestStatusRejected},
}

var paymentStatusTransitions = map[string][]string{
	PaymentStatusPending: {PaymentStatusCompleted, PaymentStatusFailed},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionOrganizerStatus reports whether the delegation response is valid
func CanTransitionOrganizerStatus(from, to string) bool {
	return allowed(organizerStatusTransitions, from, to)
}

// CanTransitionRequestStatus covers vendor payment requests
func CanTransitionRequestStatus(from, to string) bool {
	return allowed(requestStatusTransitions, from, to)
}

// CanTransitionOrganizerRequestStatus covers organizer payment requests
func CanTransitionOrganizerRequestStatus(from, to string) bool {
	return allowed(organizerRequestTransitions, from, to)
}

// CanTransitionPaymentStatus covers settlement attempts
func CanTransitionPaymentStatus(from, to string) bool {
	return allowed(paymentStatusTransitions, from, to)
}

// RequestActive reports whether a vendor request still occupies the
// one-active-request-per-(vendor,event) slot
func RequestActive(status string) bool {
	return status == RequestStatusPending || status == RequestStatusApproved
}
