package service

import (
	"context"
	"testing"

	apperrors "eventify/internal/errors"
	"eventify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventReturnsSuggestions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.users.add(1, "Owner", models.RoleUser)

	// No provider configured, the canned fallback still fills the response
	resp, err := env.eventSvc.Create(ctx, 1, &models.CreateEventRequest{
		Name:           "Garden Wedding",
		Date:           "2026-10-01",
		Venue:          "Main Hall",
		VendorCategory: "catering",
		Budget:         1000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Event.ID)
	assert.Equal(t, models.OrganizerStatusPending, resp.Event.OrganizerStatus)
	assert.Len(t, resp.Suggestions, 3)
}

func TestCreateEventRejectsNonPositiveBudget(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.users.add(1, "Owner", models.RoleUser)

	_, err := env.eventSvc.Create(ctx, 1, &models.CreateEventRequest{
		Name:           "Garden Wedding",
		Date:           "2026-10-01",
		Venue:          "Main Hall",
		VendorCategory: "catering",
		Budget:         -5,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestGetEventVisibility(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)
	stranger := env.users.add(9, "Stranger", models.RoleUser)

	_, err := env.eventSvc.Get(ctx, owner.ID, event.ID)
	assert.NoError(t, err)

	_, err = env.eventSvc.Get(ctx, stranger.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	// Assignment grants the vendor visibility
	_, err = env.eventSvc.Get(ctx, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))
	_, err = env.eventSvc.Get(ctx, vendor.ID, event.ID)
	assert.NoError(t, err)
}

func TestUpdateEventValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.users.add(1, "Owner", models.RoleUser)
	event := env.events.add(10, owner.ID, "Garden Wedding", 1000)

	badBudget := -1.0
	_, err := env.eventSvc.Update(ctx, owner.ID, event.ID, &models.UpdateEventRequest{Budget: &badBudget})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	badProgress := 150
	_, err = env.eventSvc.Update(ctx, owner.ID, event.ID, &models.UpdateEventRequest{Progress: &badProgress})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	progress := 60
	name := "Autumn Wedding"
	updated, err := env.eventSvc.Update(ctx, owner.ID, event.ID, &models.UpdateEventRequest{
		Name:     &name,
		Progress: &progress,
	})
	require.NoError(t, err)
	assert.Equal(t, "Autumn Wedding", updated.Name)
	assert.Equal(t, 60, updated.Progress)
}

func TestDelegationFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.users.add(1, "Owner", models.RoleUser)
	organizer := env.users.add(2, "Organizer", models.RoleOrganizer)
	event := env.events.add(10, owner.ID, "Garden Wedding", 1000)

	delegated, err := env.eventSvc.Delegate(ctx, owner.ID, event.ID, organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrganizerStatusPending, delegated.OrganizerStatus)
	assert.Contains(t, env.notifications.titlesFor(organizer.ID), "New Event Assignment")

	// Only the addressed organizer may respond
	_, err = env.eventSvc.RespondDelegation(ctx, owner.ID, event.ID, models.OrganizerStatusAccepted)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	accepted, err := env.eventSvc.RespondDelegation(ctx, organizer.ID, event.ID, models.OrganizerStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.OrganizerStatusAccepted, accepted.OrganizerStatus)
	assert.Contains(t, env.notifications.titlesFor(owner.ID), "Event Delegation Accepted")

	// The answer is final
	_, err = env.eventSvc.RespondDelegation(ctx, organizer.ID, event.ID, models.OrganizerStatusRejected)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))

	// And an accepted delegation blocks re-delegation
	other := env.users.add(3, "Other", models.RoleOrganizer)
	_, err = env.eventSvc.Delegate(ctx, owner.ID, event.ID, other.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
}

func TestDelegateRequiresOrganizerRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.users.add(1, "Owner", models.RoleUser)
	vendor := env.users.add(5, "Vendor", models.RoleVendor)
	event := env.events.add(10, owner.ID, "Garden Wedding", 1000)

	_, err := env.eventSvc.Delegate(ctx, owner.ID, event.ID, vendor.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestDeleteEventNotifiesVendors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, event := env.seedManagedEvent()
	first := env.users.add(5, "Caterer", models.RoleVendor)
	second := env.users.add(6, "Florist", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, first.ID, event.ID))
	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, second.ID, event.ID))

	require.NoError(t, env.eventSvc.Delete(ctx, owner.ID, event.ID))

	assert.Contains(t, env.notifications.titlesFor(first.ID), "Event Cancelled")
	assert.Contains(t, env.notifications.titlesFor(second.ID), "Event Cancelled")
	assert.Contains(t, env.publisher.subjects, models.SubjectEventDeleted)

	stored, err := env.events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestDeleteEventOwnerOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()

	err := env.eventSvc.Delete(ctx, organizer.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestChatRequiresInvolvement(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)
	stranger := env.users.add(9, "Stranger", models.RoleUser)

	// Unassigned vendor cannot be messaged on this event
	_, err := env.chatSvc.Send(ctx, owner.ID, &models.SendMessageRequest{
		EventID:    event.ID,
		ReceiverID: vendor.ID,
		Message:    "When can you deliver?",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))

	msg, err := env.chatSvc.Send(ctx, owner.ID, &models.SendMessageRequest{
		EventID:    event.ID,
		ReceiverID: vendor.ID,
		Message:    "When can you deliver?",
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, msg.SenderID)
	assert.Contains(t, env.notifications.titlesFor(vendor.ID), "New Message")

	// Strangers stay out entirely
	_, err = env.chatSvc.Send(ctx, stranger.ID, &models.SendMessageRequest{
		EventID:    event.ID,
		ReceiverID: owner.ID,
		Message:    "Hello",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	// No messaging yourself
	_, err = env.chatSvc.Send(ctx, owner.ID, &models.SendMessageRequest{
		EventID:    event.ID,
		ReceiverID: owner.ID,
		Message:    "Note to self",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
