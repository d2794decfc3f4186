package service

import (
	"context"
	"fmt"
	"time"

	"eventify/internal/cache"
	apperrors "eventify/internal/errors"
	"eventify/internal/logger"
	"eventify/internal/models"
)

type VendorService struct {
	userStore         UserStore
	eventStore        EventStore
	assignmentStore   AssignmentStore
	verificationStore VerificationStore
	notifier          *NotificationService
	natsClient        Publisher
	redisClient       *cache.RedisClient
	vendorIndex       VendorIndex
}

func NewVendorService(
	userStore UserStore,
	eventStore EventStore,
	assignmentStore AssignmentStore,
	verificationStore VerificationStore,
	notifier *NotificationService,
	natsClient Publisher,
	redisClient *cache.RedisClient,
	vendorIndex VendorIndex,
) *VendorService {
	return &VendorService{
		userStore:         userStore,
		eventStore:        eventStore,
		assignmentStore:   assignmentStore,
		verificationStore: verificationStore,
		notifier:          notifier,
		natsClient:        natsClient,
		redisClient:       redisClient,
		vendorIndex:       vendorIndex,
	}
}

// ListDirectory returns the vendor directory, served from cache when warm
func (s *VendorService) ListDirectory(ctx context.Context, city, category string) ([]models.VendorView, error) {
	if s.redisClient != nil {
		if vendors, err := s.redisClient.GetVendorList(ctx, city, category); err == nil {
			return vendors, nil
		}
	}

	vendors, err := s.userStore.ListVendors(ctx, city, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}

	if s.redisClient != nil {
		if err := s.redisClient.SetVendorList(ctx, city, category, vendors); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache vendor list", "error", err)
		}
	}

	return vendors, nil
}

// SearchDirectory runs a fuzzy name search over the vendor index, falling
// back to the SQL listing when the index is not configured
func (s *VendorService) SearchDirectory(ctx context.Context, query, city, category string) ([]models.VendorView, error) {
	if s.vendorIndex != nil {
		vendors, err := s.vendorIndex.SearchVendors(ctx, query, city, category, 20)
		if err == nil {
			return vendors, nil
		}
		logger.WithContext(ctx).Warn("Vendor search index unavailable, falling back to SQL",
			"error", err)
	}

	return s.ListDirectory(ctx, city, category)
}

// Assign adds the vendor to the event's assignment ledger. Only the accepted
// organizer hires vendors, so an event without one can never accumulate
// assignments.
func (s *VendorService) Assign(ctx context.Context, actorID, vendorID, eventID int64) error {
	actor, event, vendor, err := s.loadActorEventVendor(ctx, actorID, eventID, vendorID)
	if err != nil {
		return err
	}

	if !CanManageVendors(actor, event) {
		return apperrors.Forbidden("only the accepted organizer can assign vendors")
	}
	if vendor.Role != models.RoleVendor {
		return apperrors.Validation("user %d is not a vendor", vendorID)
	}

	added, err := s.assignmentStore.Assign(ctx, vendorID, eventID)
	if err != nil {
		return fmt.Errorf("failed to assign vendor: %w", err)
	}
	if !added {
		return apperrors.InvalidState("vendor %d is already assigned to event %d", vendorID, eventID)
	}

	s.notifier.Notify(ctx, vendorID,
		"New Event Assignment",
		fmt.Sprintf("You have been assigned to %q.", event.Name),
		models.NotifyInfo,
		models.JSONMap{"event_id": eventID})

	s.notifier.Notify(ctx, vendorID,
		"New Booking",
		fmt.Sprintf("You were booked for %q on %s.", event.Name, event.Date),
		models.NotifyInfo,
		models.JSONMap{"event_id": eventID})

	s.invalidateDirectoryCache(ctx)
	s.syncVendorIndex(ctx, vendorID)
	s.publishAssignment(ctx, models.SubjectVendorAssigned, vendorID, eventID, actorID)

	return nil
}

// Unassign removes the vendor from the assignment ledger. Completion and
// verification rows survive so history is kept.
func (s *VendorService) Unassign(ctx context.Context, actorID, vendorID, eventID int64) error {
	actor, event, _, err := s.loadActorEventVendor(ctx, actorID, eventID, vendorID)
	if err != nil {
		return err
	}

	if !CanManageVendors(actor, event) {
		return apperrors.Forbidden("only the accepted organizer can unassign vendors")
	}

	removed, err := s.assignmentStore.Unassign(ctx, vendorID, eventID)
	if err != nil {
		return fmt.Errorf("failed to unassign vendor: %w", err)
	}
	if !removed {
		return apperrors.NotFound("vendor %d is not assigned to event %d", vendorID, eventID)
	}

	s.notifier.Notify(ctx, vendorID,
		"Event Assignment Removed",
		fmt.Sprintf("You were removed from %q.", event.Name),
		models.NotifyWarning,
		models.JSONMap{"event_id": eventID})

	s.invalidateDirectoryCache(ctx)
	s.syncVendorIndex(ctx, vendorID)
	s.publishAssignment(ctx, models.SubjectVendorUnassigned, vendorID, eventID, actorID)

	return nil
}

// Complete records the vendor's own completion claim. Completing twice is a
// no-op, not an error.
func (s *VendorService) Complete(ctx context.Context, vendorID, eventID int64) error {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return apperrors.NotFound("event %d not found", eventID)
	}

	assigned, err := s.assignmentStore.IsAssigned(ctx, vendorID, eventID)
	if err != nil {
		return fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		return apperrors.Forbidden("vendor %d is not assigned to event %d", vendorID, eventID)
	}

	added, err := s.assignmentStore.Complete(ctx, vendorID, eventID)
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	if !added {
		return nil
	}

	s.notifier.Notify(ctx, EffectiveManagerID(event),
		"Event Task Completed",
		fmt.Sprintf("A vendor marked their work on %q as completed.", event.Name),
		models.NotifySuccess,
		models.JSONMap{"event_id": eventID, "vendor_id": vendorID})

	if s.natsClient != nil {
		eventData := models.WorkflowEvent{
			VendorID:  vendorID,
			EventID:   eventID,
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectWorkCompleted, eventData); err != nil {
			// Log error but don't fail the operation
			logger.WithContext(ctx).Error("Failed to publish work completed event",
				"error", err,
				"event_id", eventID)
		}
	}

	return nil
}

// Verify records the sign-off on completed work, which unlocks payment
// requests for the pair. Either the owner or the delegated organizer may
// verify. Verifying twice is a no-op.
func (s *VendorService) Verify(ctx context.Context, actorID, vendorID, eventID int64) error {
	actor, event, _, err := s.loadActorEventVendor(ctx, actorID, eventID, vendorID)
	if err != nil {
		return err
	}

	if !CanReviewWork(actor, event) {
		return apperrors.Forbidden("only the event owner or organizer can verify work")
	}

	completed, err := s.assignmentStore.IsCompleted(ctx, vendorID, eventID)
	if err != nil {
		return fmt.Errorf("failed to check completion: %w", err)
	}
	if !completed {
		return apperrors.InvalidState("vendor %d has not completed work on event %d", vendorID, eventID)
	}

	verification := &models.VendorEventVerification{
		EventID:    eventID,
		VendorID:   vendorID,
		VerifiedBy: actorID,
	}
	added, err := s.verificationStore.Create(ctx, verification)
	if err != nil {
		return fmt.Errorf("failed to record verification: %w", err)
	}
	if !added {
		return nil
	}

	s.notifier.Notify(ctx, vendorID,
		"Work Verified - Payment Available",
		fmt.Sprintf("Your work on %q was verified. You can now request payment.", event.Name),
		models.NotifySuccess,
		models.JSONMap{"event_id": eventID})

	if s.natsClient != nil {
		eventData := models.WorkflowEvent{
			VendorID:  vendorID,
			EventID:   eventID,
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectWorkVerified, eventData); err != nil {
			// Log error but don't fail the operation
			logger.WithContext(ctx).Error("Failed to publish work verified event",
				"error", err,
				"event_id", eventID)
		}
	}

	return nil
}

// GetVendor returns one vendor account
func (s *VendorService) GetVendor(ctx context.Context, vendorID int64) (*models.User, error) {
	vendor, err := s.userStore.GetByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil || vendor.Role != models.RoleVendor {
		return nil, apperrors.NotFound("vendor %d not found", vendorID)
	}
	return vendor, nil
}

// VerifyAccount marks a vendor account as verified, admin only
func (s *VendorService) VerifyAccount(ctx context.Context, actorID, vendorID int64) error {
	actor, err := s.userStore.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if actor == nil {
		return apperrors.Unauthorized("user %d not found", actorID)
	}
	if actor.Role != models.RoleAdmin {
		return apperrors.Forbidden("only admins can verify vendor accounts")
	}

	vendor, err := s.userStore.GetByID(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil || vendor.Role != models.RoleVendor {
		return apperrors.NotFound("vendor %d not found", vendorID)
	}
	if vendor.IsVerified {
		return nil
	}

	if err := s.userStore.SetVerified(ctx, vendorID, true); err != nil {
		return fmt.Errorf("failed to verify vendor: %w", err)
	}

	s.notifier.Notify(ctx, vendorID,
		"Account Verified",
		"Your vendor account has been verified.",
		models.NotifySuccess,
		nil)

	return nil
}

// ListAssignedEvents is the vendor's own view of their ledger
func (s *VendorService) ListAssignedEvents(ctx context.Context, vendorID int64) ([]models.AssignedEventView, error) {
	views, err := s.assignmentStore.ListEventsByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned events: %w", err)
	}
	return views, nil
}

// ListEventVendors returns the vendors assigned to one event, manager only
func (s *VendorService) ListEventVendors(ctx context.Context, actorID, eventID int64) ([]models.VendorView, error) {
	actor, err := s.userStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if actor == nil {
		return nil, apperrors.Unauthorized("user %d not found", actorID)
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.NotFound("event %d not found", eventID)
	}

	if !CanViewEvent(actor, event, false) {
		return nil, apperrors.Forbidden("no access to event %d", eventID)
	}

	vendors, err := s.assignmentStore.ListVendorsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event vendors: %w", err)
	}

	verifications, err := s.verificationStore.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}
	verified := make(map[int64]bool, len(verifications))
	for _, v := range verifications {
		verified[v.VendorID] = true
	}
	for i := range vendors {
		vendors[i].WorkVerified = verified[vendors[i].ID]
	}

	return vendors, nil
}

// syncVendorIndex refreshes the vendor's search document after its assignment
// count changed. Best-effort like the cache; the reconcile job catches missed
// writes.
func (s *VendorService) syncVendorIndex(ctx context.Context, vendorID int64) {
	if s.vendorIndex == nil {
		return
	}
	view, err := s.userStore.GetVendorView(ctx, vendorID)
	if err != nil || view == nil {
		logger.WithContext(ctx).Warn("Failed to load vendor for indexing",
			"error", err,
			"vendor_id", vendorID)
		return
	}
	if err := s.vendorIndex.IndexVendor(ctx, view); err != nil {
		logger.WithContext(ctx).Warn("Failed to update vendor index",
			"error", err,
			"vendor_id", vendorID)
	}
}

func (s *VendorService) invalidateDirectoryCache(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.InvalidateVendorLists(ctx); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate vendor cache", "error", err)
	}
}

func (s *VendorService) publishAssignment(ctx context.Context, subject string, vendorID, eventID, actorID int64) {
	if s.natsClient == nil {
		return
	}
	eventData := models.AssignmentEvent{
		VendorID:  vendorID,
		EventID:   eventID,
		ActorID:   actorID,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(subject, eventData); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish assignment event",
			"error", err,
			"subject", subject,
			"event_id", eventID)
	}
}

func (s *VendorService) loadActorEventVendor(ctx context.Context, actorID, eventID, vendorID int64) (*models.User, *models.Event, *models.User, error) {
	actor, err := s.userStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if actor == nil {
		return nil, nil, nil, apperrors.Unauthorized("user %d not found", actorID)
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, nil, nil, apperrors.NotFound("event %d not found", eventID)
	}

	vendor, err := s.userStore.GetByID(ctx, vendorID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	if vendor == nil {
		return nil, nil, nil, apperrors.NotFound("vendor %d not found", vendorID)
	}

	return actor, event, vendor, nil
}
