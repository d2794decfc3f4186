package service

import (
	"context"
	"errors"
	"testing"

	apperrors "eventify/internal/errors"
	"eventify/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignVendor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))

	assigned, err := env.assignments.IsAssigned(ctx, vendor.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, assigned)

	// The vendor gets the assignment notice and the booking confirmation
	assert.Contains(t, env.notifications.titlesFor(vendor.ID), "New Event Assignment")
	assert.Contains(t, env.notifications.titlesFor(vendor.ID), "New Booking")
	assert.Contains(t, env.publisher.subjects, models.SubjectVendorAssigned)
}

func TestAssignVendorOrganizerOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)
	stranger := env.users.add(9, "Stranger", models.RoleUser)

	// Hiring vendors is the organizer's job, not the owner's
	err := env.vendorSvc.Assign(ctx, owner.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	err = env.vendorSvc.Assign(ctx, stranger.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	// A pending delegation carries no vendor authority yet
	event.OrganizerStatus = models.OrganizerStatusPending
	err = env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestAssignVendorRequiresAcceptedOrganizer(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.users.add(1, "Owner", models.RoleUser)
	vendor := env.users.add(5, "Vendor", models.RoleVendor)
	event := env.events.add(10, owner.ID, "Garden Wedding", 1000)

	// No organizer at all means nobody can assign, owner included
	err := env.vendorSvc.Assign(ctx, owner.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	assigned, err := env.assignments.IsAssigned(ctx, vendor.ID, event.ID)
	require.NoError(t, err)
	assert.False(t, assigned)
}

func TestAssignNonVendorRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	other := env.users.add(4, "Other", models.RoleUser)

	err := env.vendorSvc.Assign(ctx, organizer.ID, other.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestAssignVendorTwice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))
	before := len(env.notifications.notifications)

	// The pair already exists, so the second attempt is an error
	err := env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
	assert.Equal(t, before, len(env.notifications.notifications))
}

func TestUnassignVendor(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))
	require.NoError(t, env.vendorSvc.Unassign(ctx, organizer.ID, vendor.ID, event.ID))

	assigned, err := env.assignments.IsAssigned(ctx, vendor.ID, event.ID)
	require.NoError(t, err)
	assert.False(t, assigned)
	assert.Contains(t, env.notifications.titlesFor(vendor.ID), "Event Assignment Removed")

	// Unassigning an unassigned vendor is an error, unlike a vendor listing
	err = env.vendorSvc.Unassign(ctx, organizer.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUnassignVendorOrganizerOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))

	err := env.vendorSvc.Unassign(ctx, owner.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCompleteRequiresAssignment(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, _, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	err := env.vendorSvc.Complete(ctx, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCompleteIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))
	require.NoError(t, env.vendorSvc.Complete(ctx, vendor.ID, event.ID))

	// The completion notice goes to the effective manager, the organizer here
	assert.Contains(t, env.notifications.titlesFor(organizer.ID), "Event Task Completed")

	before := len(env.notifications.notifications)
	require.NoError(t, env.vendorSvc.Complete(ctx, vendor.ID, event.ID))
	assert.Equal(t, before, len(env.notifications.notifications))
}

func TestVerifyRequiresCompletion(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))

	err := env.vendorSvc.Verify(ctx, owner.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
}

func TestVerifyIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))
	require.NoError(t, env.vendorSvc.Complete(ctx, vendor.ID, event.ID))
	require.NoError(t, env.vendorSvc.Verify(ctx, owner.ID, vendor.ID, event.ID))
	assert.Contains(t, env.notifications.titlesFor(vendor.ID), "Work Verified - Payment Available")

	before := len(env.notifications.notifications)
	require.NoError(t, env.vendorSvc.Verify(ctx, owner.ID, vendor.ID, event.ID))
	assert.Equal(t, before, len(env.notifications.notifications))
}

func TestVerifyByEitherParty(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))
	require.NoError(t, env.vendorSvc.Complete(ctx, vendor.ID, event.ID))

	// The organizer may sign off too, not just the owner
	assert.NoError(t, env.vendorSvc.Verify(ctx, organizer.ID, vendor.ID, event.ID))
}

func TestVerifyOnlyOwnerOrOrganizer(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)
	stranger := env.users.add(9, "Stranger", models.RoleUser)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))
	require.NoError(t, env.vendorSvc.Complete(ctx, vendor.ID, event.ID))

	// Vendors cannot verify their own work
	err := env.vendorSvc.Verify(ctx, vendor.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	err = env.vendorSvc.Verify(ctx, stranger.ID, vendor.ID, event.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestGetVendorOnlyVendors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.users.add(1, "Owner", models.RoleUser)
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	got, err := env.vendorSvc.GetVendor(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vendor", got.Name)

	// Non-vendor accounts are not in the directory
	_, err = env.vendorSvc.GetVendor(ctx, 1)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = env.vendorSvc.GetVendor(ctx, 99)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestListAssignedEventsShowsCompletion(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, first := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	second := env.events.add(11, owner.ID, "Corporate Gala", 5000)
	organizerID := organizer.ID
	second.OrganizerID = &organizerID
	second.OrganizerStatus = models.OrganizerStatusAccepted

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, first.ID))
	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, second.ID))
	require.NoError(t, env.vendorSvc.Complete(ctx, vendor.ID, first.ID))

	views, err := env.vendorSvc.ListAssignedEvents(ctx, vendor.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[int64]string{}
	for _, v := range views {
		byID[v.ID] = v.Status
	}
	assert.Equal(t, "completed", byID[first.ID])
	assert.Equal(t, "assigned", byID[second.ID])
}

func TestAssignRefreshesVendorIndex(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))

	doc, ok := env.index.docs[vendor.ID]
	require.True(t, ok)
	assert.Equal(t, 1, doc.AssignedEventsCount)

	// Unassigning writes the lowered count back to the index
	require.NoError(t, env.vendorSvc.Unassign(ctx, organizer.ID, vendor.ID, event.ID))

	doc, ok = env.index.docs[vendor.ID]
	require.True(t, ok)
	assert.Equal(t, 0, doc.AssignedEventsCount)
}

func TestSearchDirectoryUsesIndex(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.index.docs[5] = models.VendorView{ID: 5, Name: "Caterer", Category: "catering"}
	env.index.docs[6] = models.VendorView{ID: 6, Name: "Florist", Category: "flowers"}

	vendors, err := env.vendorSvc.SearchDirectory(ctx, "cat", "", "")
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, int64(5), vendors[0].ID)
}

func TestSearchDirectoryFallsBackToSQL(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.users.add(5, "Caterer", models.RoleVendor)
	env.index.searchErr = errors.New("connection refused")

	// An unreachable index degrades to the SQL listing instead of failing
	vendors, err := env.vendorSvc.SearchDirectory(ctx, "anything", "", "")
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "Caterer", vendors[0].Name)
}

func TestVerifyAccountAdminOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, _ := env.seedManagedEvent()
	admin := env.users.add(3, "Admin", models.RoleAdmin)
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	err := env.vendorSvc.VerifyAccount(ctx, owner.ID, vendor.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	err = env.vendorSvc.VerifyAccount(ctx, organizer.ID, vendor.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	require.NoError(t, env.vendorSvc.VerifyAccount(ctx, admin.ID, vendor.ID))
	assert.True(t, vendor.IsVerified)
	assert.Contains(t, env.notifications.titlesFor(vendor.ID), "Account Verified")

	// Re-verifying is a no-op, no second notification
	before := len(env.notifications.notifications)
	require.NoError(t, env.vendorSvc.VerifyAccount(ctx, admin.ID, vendor.ID))
	assert.Equal(t, before, len(env.notifications.notifications))

	// Only vendor accounts carry the verified badge
	err = env.vendorSvc.VerifyAccount(ctx, admin.ID, owner.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestListEventVendorsShowsVerification(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner, organizer, event := env.seedManagedEvent()
	first := env.users.add(5, "Caterer", models.RoleVendor)
	second := env.users.add(6, "Florist", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, first.ID, event.ID))
	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, second.ID, event.ID))
	require.NoError(t, env.vendorSvc.Complete(ctx, first.ID, event.ID))
	require.NoError(t, env.vendorSvc.Verify(ctx, owner.ID, first.ID, event.ID))

	vendors, err := env.vendorSvc.ListEventVendors(ctx, owner.ID, event.ID)
	require.NoError(t, err)
	require.Len(t, vendors, 2)

	verified := map[int64]bool{}
	for _, v := range vendors {
		verified[v.ID] = v.WorkVerified
	}
	assert.True(t, verified[first.ID])
	assert.False(t, verified[second.ID])
}

func TestListAssignedEventsHidesOrphans(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, organizer, event := env.seedManagedEvent()
	vendor := env.users.add(5, "Vendor", models.RoleVendor)

	require.NoError(t, env.vendorSvc.Assign(ctx, organizer.ID, vendor.ID, event.ID))

	// The organizer leaving strips the event from the vendor's listing even
	// though the ledger row still exists until reconciliation
	event.OrganizerID = nil
	event.OrganizerStatus = models.OrganizerStatusPending

	views, err := env.vendorSvc.ListAssignedEvents(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}
