package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrganizerStatusTransitions(t *testing.T) {
	assert.True(t, CanTransitionOrganizerStatus(OrganizerStatusPending, OrganizerStatusAccepted))
	assert.True(t, CanTransitionOrganizerStatus(OrganizerStatusPending, OrganizerStatusRejected))

	// Responses are final
	assert.False(t, CanTransitionOrganizerStatus(OrganizerStatusAccepted, OrganizerStatusRejected))
	assert.False(t, CanTransitionOrganizerStatus(OrganizerStatusRejected, OrganizerStatusAccepted))
	assert.False(t, CanTransitionOrganizerStatus(OrganizerStatusAccepted, OrganizerStatusPending))
}

func TestRequestStatusTransitions(t *testing.T) {
	assert.True(t, CanTransitionRequestStatus(RequestStatusPending, RequestStatusApproved))
	assert.True(t, CanTransitionRequestStatus(RequestStatusPending, RequestStatusRejected))
	assert.True(t, CanTransitionRequestStatus(RequestStatusApproved, RequestStatusPaid))

	// Paid is terminal and pending never jumps straight to paid
	assert.False(t, CanTransitionRequestStatus(RequestStatusPending, RequestStatusPaid))
	assert.False(t, CanTransitionRequestStatus(RequestStatusRejected, RequestStatusApproved))
	assert.False(t, CanTransitionRequestStatus(RequestStatusPaid, RequestStatusPending))
	assert.False(t, CanTransitionRequestStatus(RequestStatusApproved, RequestStatusRejected))
}

func TestOrganizerRequestTransitions(t *testing.T) {
	// Organizer requests settle straight from pending, no approval step
	assert.True(t, CanTransitionOrganizerRequestStatus(RequestStatusPending, RequestStatusPaid))
	assert.True(t, CanTransitionOrganizerRequestStatus(RequestStatusPending, RequestStatusRejected))

	assert.False(t, CanTransitionOrganizerRequestStatus(RequestStatusPending, RequestStatusApproved))
	assert.False(t, CanTransitionOrganizerRequestStatus(RequestStatusPaid, RequestStatusRejected))
	assert.False(t, CanTransitionOrganizerRequestStatus(RequestStatusRejected, RequestStatusPaid))
}

func TestPaymentStatusTransitions(t *testing.T) {
	assert.True(t, CanTransitionPaymentStatus(PaymentStatusPending, PaymentStatusCompleted))
	assert.True(t, CanTransitionPaymentStatus(PaymentStatusPending, PaymentStatusFailed))

	assert.False(t, CanTransitionPaymentStatus(PaymentStatusCompleted, PaymentStatusFailed))
	assert.False(t, CanTransitionPaymentStatus(PaymentStatusFailed, PaymentStatusCompleted))
	assert.False(t, CanTransitionPaymentStatus(PaymentStatusCompleted, PaymentStatusPending))
}

func TestRequestActive(t *testing.T) {
	assert.True(t, RequestActive(RequestStatusPending))
	assert.True(t, RequestActive(RequestStatusApproved))

	// Rejected and paid requests free the slot for a new request
	assert.False(t, RequestActive(RequestStatusRejected))
	assert.False(t, RequestActive(RequestStatusPaid))
}

func TestHasAcceptedOrganizer(t *testing.T) {
	organizerID := int64(7)

	event := &Event{OrganizerStatus: OrganizerStatusPending}
	assert.False(t, event.HasAcceptedOrganizer())

	event.OrganizerID = &organizerID
	assert.False(t, event.HasAcceptedOrganizer())

	event.OrganizerStatus = OrganizerStatusAccepted
	assert.True(t, event.HasAcceptedOrganizer())

	event.OrganizerStatus = OrganizerStatusRejected
	assert.False(t, event.HasAcceptedOrganizer())
}
