package service

import (
	"context"
	"fmt"
	"time"

	apperrors "eventify/internal/errors"
	"eventify/internal/external"
	"eventify/internal/logger"
	"eventify/internal/models"
)

type EventService struct {
	eventStore      EventStore
	userStore       UserStore
	assignmentStore AssignmentStore
	paymentStore    PaymentStore
	suggestions     SuggestionProvider
	notifier        *NotificationService
	natsClient      Publisher
}

func NewEventService(
	eventStore EventStore,
	userStore UserStore,
	assignmentStore AssignmentStore,
	paymentStore PaymentStore,
	suggestions SuggestionProvider,
	notifier *NotificationService,
	natsClient Publisher,
) *EventService {
	return &EventService{
		eventStore:      eventStore,
		userStore:       userStore,
		assignmentStore: assignmentStore,
		paymentStore:    paymentStore,
		suggestions:     suggestions,
		notifier:        notifier,
		natsClient:      natsClient,
	}
}

func (s *EventService) Create(ctx context.Context, userID int64, req *models.CreateEventRequest) (*models.CreateEventResponse, error) {
	if req.Budget <= 0 {
		return nil, apperrors.Validation("budget must be positive")
	}

	event := &models.Event{
		Name:           req.Name,
		Date:           req.Date,
		Venue:          req.Venue,
		Budget:         req.Budget,
		VendorCategory: req.VendorCategory,
		UserID:         userID,
	}
	if req.ImageURL != "" {
		event.ImageURL = &req.ImageURL
	}

	if err := s.eventStore.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &models.CreateEventResponse{
		Event:       event,
		Suggestions: s.planningSuggestions(ctx, event),
	}, nil
}

// planningSuggestions asks the external provider, falling back to the canned
// list on any failure
func (s *EventService) planningSuggestions(ctx context.Context, event *models.Event) []string {
	if s.suggestions != nil && s.suggestions.Enabled() {
		suggestions, err := s.suggestions.Suggest(event.VendorCategory, event.Budget)
		if err == nil && len(suggestions) > 0 {
			return suggestions
		}
		if err != nil {
			logger.WithContext(ctx).Warn("Suggestion provider failed, using fallback",
				"error", err,
				"event_id", event.ID)
		}
	}
	return external.CannedSuggestions(event.VendorCategory, event.Budget)
}

func (s *EventService) Get(ctx context.Context, userID, eventID int64) (*models.Event, error) {
	user, event, err := s.loadUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	assigned := false
	if user.Role == models.RoleVendor {
		assigned, err = s.assignmentStore.IsAssigned(ctx, userID, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to check assignment: %w", err)
		}
	}

	if !CanViewEvent(user, event, assigned) {
		return nil, apperrors.Forbidden("no access to event %d", eventID)
	}

	return event, nil
}

func (s *EventService) Update(ctx context.Context, userID, eventID int64, req *models.UpdateEventRequest) (*models.Event, error) {
	user, event, err := s.loadUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if !CanManageEvent(user, event) {
		return nil, apperrors.Forbidden("only the event owner can update it")
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.VendorCategory != nil {
		event.VendorCategory = *req.VendorCategory
	}
	if req.Budget != nil {
		if *req.Budget <= 0 {
			return nil, apperrors.Validation("budget must be positive")
		}
		event.Budget = *req.Budget
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, apperrors.Validation("progress must be between 0 and 100")
		}
		event.Progress = *req.Progress
	}

	if err := s.eventStore.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// Delete removes the event with its ledgers. Assigned vendors are notified
// before the rows go away.
func (s *EventService) Delete(ctx context.Context, userID, eventID int64) error {
	user, event, err := s.loadUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}

	if !CanManageEvent(user, event) {
		return apperrors.Forbidden("only the event owner can delete it")
	}

	vendorIDs, err := s.assignmentStore.ListVendorIDsByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to list assigned vendors: %w", err)
	}

	for _, vendorID := range vendorIDs {
		s.notifier.Notify(ctx, vendorID,
			"Event Cancelled",
			fmt.Sprintf("The event %q has been cancelled.", event.Name),
			models.NotifyWarning,
			models.JSONMap{"event_id": eventID})
	}

	if err := s.eventStore.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	eventData := models.EventDeletedEvent{
		EventID:   eventID,
		VendorIDs: vendorIDs,
		Timestamp: time.Now(),
	}
	if s.natsClient != nil {
		if err := s.natsClient.Publish(models.SubjectEventDeleted, eventData); err != nil {
			// Log error but don't fail the operation
			logger.WithContext(ctx).Error("Failed to publish event deleted event",
				"error", err,
				"event_id", eventID)
		}
	}

	return nil
}

func (s *EventService) ListMine(ctx context.Context, userID int64) ([]models.Event, error) {
	events, err := s.eventStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListManaged returns delegations addressed to the organizer, any state
func (s *EventService) ListManaged(ctx context.Context, organizerID int64) ([]models.Event, error) {
	events, err := s.eventStore.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list managed events: %w", err)
	}
	return events, nil
}

// ListOrganizers returns the organizer accounts available for delegation
func (s *EventService) ListOrganizers(ctx context.Context) ([]models.User, error) {
	organizers, err := s.userStore.ListOrganizers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizers: %w", err)
	}
	return organizers, nil
}

// Delegate hands the event to an organizer account and resets the delegation
// to pending
func (s *EventService) Delegate(ctx context.Context, userID, eventID, organizerID int64) (*models.Event, error) {
	user, event, err := s.loadUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if !CanManageEvent(user, event) {
		return nil, apperrors.Forbidden("only the event owner can delegate it")
	}

	organizer, err := s.userStore.GetByID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizer: %w", err)
	}
	if organizer == nil {
		return nil, apperrors.NotFound("organizer %d not found", organizerID)
	}
	if organizer.Role != models.RoleOrganizer {
		return nil, apperrors.Validation("user %d is not an organizer", organizerID)
	}

	if event.HasAcceptedOrganizer() {
		return nil, apperrors.InvalidState("event already has an accepted organizer")
	}

	if err := s.eventStore.SetOrganizer(ctx, eventID, organizerID); err != nil {
		return nil, fmt.Errorf("failed to delegate event: %w", err)
	}

	event.OrganizerID = &organizerID
	event.OrganizerStatus = models.OrganizerStatusPending

	s.notifier.Notify(ctx, organizerID,
		"New Event Assignment",
		fmt.Sprintf("You have been asked to organize %q.", event.Name),
		models.NotifyInfo,
		models.JSONMap{"event_id": eventID})

	return event, nil
}

// RespondDelegation records the organizer's accept/reject answer
func (s *EventService) RespondDelegation(ctx context.Context, userID, eventID int64, status string) (*models.Event, error) {
	_, event, err := s.loadUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID == nil || *event.OrganizerID != userID {
		return nil, apperrors.Forbidden("event %d is not delegated to you", eventID)
	}

	if !models.CanTransitionOrganizerStatus(event.OrganizerStatus, status) {
		return nil, apperrors.InvalidState("cannot move delegation from %s to %s", event.OrganizerStatus, status)
	}

	if err := s.eventStore.SetOrganizerStatus(ctx, eventID, status); err != nil {
		return nil, fmt.Errorf("failed to update delegation: %w", err)
	}
	event.OrganizerStatus = status

	title := "Event Delegation Accepted"
	ntype := models.NotifySuccess
	if status == models.OrganizerStatusRejected {
		title = "Event Delegation Rejected"
		ntype = models.NotifyWarning
	}
	s.notifier.Notify(ctx, event.UserID,
		title,
		fmt.Sprintf("Your organizer responded to the delegation of %q.", event.Name),
		ntype,
		models.JSONMap{"event_id": eventID})

	return event, nil
}

// PaymentStatus derives the settlement picture for one event. The bucket
// order is deliberate: a total of exactly a quarter of the budget lands in
// deposit_paid, anything above a quarter but below the budget is
// partially_paid.
func (s *EventService) PaymentStatus(ctx context.Context, userID, eventID int64) (*models.EventPaymentStatus, error) {
	user, event, err := s.loadUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	assigned := false
	if user.Role == models.RoleVendor {
		assigned, err = s.assignmentStore.IsAssigned(ctx, userID, eventID)
		if err != nil {
			return nil, fmt.Errorf("failed to check assignment: %w", err)
		}
	}
	if !CanViewEvent(user, event, assigned) {
		return nil, apperrors.Forbidden("no access to event %d", eventID)
	}

	totalPaid, err := s.paymentStore.SumCompletedByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	deposit, vendorTotal := splitPaidTotal(totalPaid, event.Budget)

	return &models.EventPaymentStatus{
		Event:               event,
		PaymentStatus:       DerivePaymentStatus(totalPaid, event.Budget),
		DepositAmount:       deposit,
		VendorPaymentsTotal: vendorTotal,
		TotalPaid:           totalPaid,
	}, nil
}

// ListWithPaymentStatus returns the owner's events with derived settlement
// columns
func (s *EventService) ListWithPaymentStatus(ctx context.Context, userID int64) ([]models.EventPaymentStatus, error) {
	events, err := s.eventStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	statuses := make([]models.EventPaymentStatus, 0, len(events))
	for i := range events {
		event := events[i]

		totalPaid, err := s.paymentStore.SumCompletedByEvent(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum payments: %w", err)
		}

		deposit, vendorTotal := splitPaidTotal(totalPaid, event.Budget)

		statuses = append(statuses, models.EventPaymentStatus{
			Event:               &event,
			PaymentStatus:       DerivePaymentStatus(totalPaid, event.Budget),
			DepositAmount:       deposit,
			VendorPaymentsTotal: vendorTotal,
			TotalPaid:           totalPaid,
		})
	}

	return statuses, nil
}

// splitPaidTotal divides the completed total between the owner's deposit and
// the vendor payments on top of it. The first quarter of the budget counts as
// deposit; everything beyond that went to vendors.
func splitPaidTotal(totalPaid, budget float64) (deposit, vendorTotal float64) {
	vendorTotal = max(0, totalPaid-budget*0.25)
	return totalPaid - vendorTotal, vendorTotal
}

// DerivePaymentStatus buckets the completed total against the budget. The
// order of the checks matters: the quarter-budget boundary belongs to
// deposit_paid.
func DerivePaymentStatus(totalPaid, budget float64) string {
	switch {
	case totalPaid >= budget:
		return models.EventFullyPaid
	case totalPaid > budget*0.25:
		return models.EventPartiallyPaid
	case totalPaid >= budget*0.25:
		return models.EventDepositPaid
	default:
		return models.EventUnpaid
	}
}

func (s *EventService) loadUserAndEvent(ctx context.Context, userID, eventID int64) (*models.User, *models.Event, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, apperrors.Unauthorized("user %d not found", userID)
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, nil, apperrors.NotFound("event %d not found", eventID)
	}

	return user, event, nil
}
