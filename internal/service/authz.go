package service

import (
	"eventify/internal/models"
)

// Authorization predicates. Every handler-facing operation routes its access
// decision through one of these instead of re-deriving roles inline.

// EffectiveManagerID resolves who currently runs the event: the delegated
// organizer once they accept, otherwise the owner. Pending or rejected
// delegations leave the owner in charge.
func EffectiveManagerID(event *models.Event) int64 {
	if event.HasAcceptedOrganizer() {
		return *event.OrganizerID
	}
	return event.UserID
}

// CanManageEvent reports whether the user may edit or delete the event
// itself. Only the owner (or an admin) can; delegation never transfers
// ownership.
func CanManageEvent(user *models.User, event *models.Event) bool {
	if user == nil || event == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	return event.UserID == user.ID
}

// CanManageVendors reports whether the user may assign or unassign vendors.
// That authority belongs exclusively to the event's accepted organizer, which
// keeps the ledger invariant: an event with no accepted organizer carries no
// assignments. The owner hires the organizer; the organizer hires vendors.
func CanManageVendors(user *models.User, event *models.Event) bool {
	if user == nil || event == nil {
		return false
	}
	if user.Role != models.RoleOrganizer {
		return false
	}
	return event.HasAcceptedOrganizer() && *event.OrganizerID == user.ID
}

// CanReviewWork reports whether the user may verify completed work, act on
// vendor payment requests, and initiate settlement of an approved request.
// Both parties running the event hold this authority: the owner and the
// delegated organizer.
func CanReviewWork(user *models.User, event *models.Event) bool {
	if user == nil || event == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	if event.UserID == user.ID {
		return true
	}
	return event.OrganizerID != nil && *event.OrganizerID == user.ID
}

// CanViewEvent reports whether the user may read the event: the owner, the
// delegated organizer in any state, and assigned vendors (checked by the
// caller via the assignment ledger).
func CanViewEvent(user *models.User, event *models.Event, isAssignedVendor bool) bool {
	if user == nil || event == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	if event.UserID == user.ID {
		return true
	}
	if event.OrganizerID != nil && *event.OrganizerID == user.ID {
		return true
	}
	return isAssignedVendor
}

// CanSettle reports whether the user may move money on the event. Only the
// owner pays; the organizer manages work but never settles.
func CanSettle(user *models.User, event *models.Event) bool {
	if user == nil || event == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	return event.UserID == user.ID
}
