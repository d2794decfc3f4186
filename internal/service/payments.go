package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	apperrors "eventify/internal/errors"
	"eventify/internal/external"
	"eventify/internal/logger"
	"eventify/internal/models"
	"eventify/internal/repository"
)

type PaymentService struct {
	userStore         UserStore
	eventStore        EventStore
	assignmentStore   AssignmentStore
	verificationStore VerificationStore
	requestStore      RequestStore
	paymentStore      PaymentStore
	settlementClient  SettlementGateway
	notifier          *NotificationService
	natsClient        Publisher
}

func NewPaymentService(
	userStore UserStore,
	eventStore EventStore,
	assignmentStore AssignmentStore,
	verificationStore VerificationStore,
	requestStore RequestStore,
	paymentStore PaymentStore,
	settlementClient SettlementGateway,
	notifier *NotificationService,
	natsClient Publisher,
) *PaymentService {
	return &PaymentService{
		userStore:         userStore,
		eventStore:        eventStore,
		assignmentStore:   assignmentStore,
		verificationStore: verificationStore,
		requestStore:      requestStore,
		paymentStore:      paymentStore,
		settlementClient:  settlementClient,
		notifier:          notifier,
		natsClient:        natsClient,
	}
}

// RequestPayment files a vendor's payment request. The request requires a
// verification row for the pair and at most one active request per pair.
func (s *PaymentService) RequestPayment(ctx context.Context, vendorID int64, req *models.RequestPaymentRequest) (*models.PaymentRequest, error) {
	if req.Amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}

	vendor, err := s.userStore.GetByID(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if vendor == nil {
		return nil, apperrors.Unauthorized("user %d not found", vendorID)
	}
	if vendor.Role != models.RoleVendor {
		return nil, apperrors.Forbidden("only vendors can request payment")
	}

	event, err := s.eventStore.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.NotFound("event %d not found", req.EventID)
	}

	assigned, err := s.assignmentStore.IsAssigned(ctx, vendorID, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	if !assigned {
		return nil, apperrors.Forbidden("vendor %d is not assigned to event %d", vendorID, req.EventID)
	}

	verified, err := s.verificationStore.Exists(ctx, req.EventID, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check verification: %w", err)
	}
	if !verified {
		return nil, apperrors.InvalidState("work on event %d has not been verified", req.EventID)
	}

	active, err := s.requestStore.HasActiveRequest(ctx, vendorID, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active requests: %w", err)
	}
	if active {
		return nil, apperrors.InvalidState("an active payment request already exists for event %d", req.EventID)
	}

	request := &models.PaymentRequest{
		EventID:     req.EventID,
		VendorID:    vendorID,
		Amount:      req.Amount,
		Status:      models.RequestStatusPending,
		Description: req.Description,
	}
	if err := s.requestStore.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	s.notifier.Notify(ctx, EffectiveManagerID(event),
		"Payment Requested",
		fmt.Sprintf("A vendor requested $%.2f for %q.", req.Amount, event.Name),
		models.NotifyInfo,
		models.JSONMap{"event_id": req.EventID, "request_id": request.ID})

	if s.natsClient != nil {
		eventData := models.PaymentLifecycleEvent{
			EventID:   req.EventID,
			Amount:    req.Amount,
			RequestID: &request.ID,
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectPaymentRequested, eventData); err != nil {
			// Log error but don't fail the operation
			logger.WithContext(ctx).Error("Failed to publish payment requested event",
				"error", err,
				"request_id", request.ID)
		}
	}

	return request, nil
}

// ReviewRequest moves a vendor request to approved or rejected. The owner or
// the delegated organizer reviews; the transition table rejects everything
// else.
func (s *PaymentService) ReviewRequest(ctx context.Context, actorID, requestID int64, status string) (*models.PaymentRequest, error) {
	actor, err := s.userStore.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if actor == nil {
		return nil, apperrors.Unauthorized("user %d not found", actorID)
	}

	request, err := s.requestStore.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if request == nil {
		return nil, apperrors.NotFound("payment request %d not found", requestID)
	}

	event, err := s.eventStore.GetByID(ctx, request.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.NotFound("event %d not found", request.EventID)
	}

	if !CanReviewWork(actor, event) {
		return nil, apperrors.Forbidden("only the event owner or organizer can review payment requests")
	}

	if status != models.RequestStatusApproved && status != models.RequestStatusRejected {
		return nil, apperrors.Validation("status must be approved or rejected")
	}
	if !models.CanTransitionRequestStatus(request.Status, status) {
		return nil, apperrors.InvalidState("cannot move request from %s to %s", request.Status, status)
	}

	if err := s.requestStore.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	request.Status = status

	title := "Payment Request Approved"
	ntype := models.NotifySuccess
	if status == models.RequestStatusRejected {
		title = "Payment Request Rejected"
		ntype = models.NotifyWarning
	}
	s.notifier.Notify(ctx, request.VendorID,
		title,
		fmt.Sprintf("Your payment request of $%.2f for %q was %s.", request.Amount, event.Name, status),
		ntype,
		models.JSONMap{"event_id": request.EventID, "request_id": requestID})

	return request, nil
}

// RequestOrganizerPayment files the hired organizer's request to the owner.
// Only the current accepted organizer may file, and only one pending request
// per event.
func (s *PaymentService) RequestOrganizerPayment(ctx context.Context, organizerID int64, req *models.OrganizerRequestPaymentRequest) (*models.OrganizerPaymentRequest, error) {
	if req.Amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}

	event, err := s.eventStore.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.NotFound("event %d not found", req.EventID)
	}

	if !event.HasAcceptedOrganizer() || *event.OrganizerID != organizerID {
		return nil, apperrors.Forbidden("you are not the accepted organizer of event %d", req.EventID)
	}

	pending, err := s.requestStore.HasPendingOrganizerRequest(ctx, organizerID, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, apperrors.InvalidState("a pending payment request already exists for event %d", req.EventID)
	}

	// A paid request closes the pair for good; the organizer fee is settled
	// once per engagement
	paid, err := s.requestStore.HasPaidOrganizerRequest(ctx, organizerID, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check paid requests: %w", err)
	}
	if paid {
		return nil, apperrors.InvalidState("a payment request for event %d has already been paid", req.EventID)
	}

	request := &models.OrganizerPaymentRequest{
		EventID:     req.EventID,
		OrganizerID: organizerID,
		Amount:      req.Amount,
		Status:      models.RequestStatusPending,
		Description: req.Description,
	}
	if err := s.requestStore.CreateOrganizerRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create organizer request: %w", err)
	}

	s.notifier.Notify(ctx, event.UserID,
		"Payment Requested",
		fmt.Sprintf("Your organizer requested $%.2f for %q.", req.Amount, event.Name),
		models.NotifyInfo,
		models.JSONMap{"event_id": req.EventID, "organizer_request_id": request.ID})

	return request, nil
}

// RejectOrganizerRequest lets the owner decline without settling
func (s *PaymentService) RejectOrganizerRequest(ctx context.Context, actorID, requestID int64) (*models.OrganizerPaymentRequest, error) {
	request, err := s.requestStore.GetOrganizerRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizer request: %w", err)
	}
	if request == nil {
		return nil, apperrors.NotFound("organizer request %d not found", requestID)
	}

	actor, event, err := s.loadActorAndEvent(ctx, actorID, request.EventID)
	if err != nil {
		return nil, err
	}
	if !CanSettle(actor, event) {
		return nil, apperrors.Forbidden("only the event owner can reject organizer requests")
	}

	if !models.CanTransitionOrganizerRequestStatus(request.Status, models.RequestStatusRejected) {
		return nil, apperrors.InvalidState("cannot reject a %s request", request.Status)
	}

	if err := s.requestStore.UpdateOrganizerRequestStatus(ctx, requestID, models.RequestStatusRejected); err != nil {
		return nil, fmt.Errorf("failed to update organizer request: %w", err)
	}
	request.Status = models.RequestStatusRejected

	s.notifier.Notify(ctx, request.OrganizerID,
		"Payment Request Rejected",
		fmt.Sprintf("Your payment request of $%.2f for %q was rejected.", request.Amount, event.Name),
		models.NotifyWarning,
		models.JSONMap{"event_id": request.EventID, "organizer_request_id": requestID})

	return request, nil
}

// CreateIntent starts a settlement with the external processor. At most one
// of request_id and organizer_request_id may be set; when one is set the
// amount is forced from the request, ignoring whatever the client sent.
func (s *PaymentService) CreateIntent(ctx context.Context, userID int64, req *models.CreateIntentRequest) (*models.CreateIntentResponse, error) {
	if req.RequestID != nil && req.OrganizerRequestID != nil {
		return nil, apperrors.Validation("request_id and organizer_request_id are mutually exclusive")
	}

	actor, event, err := s.loadActorAndEvent(ctx, userID, req.EventID)
	if err != nil {
		return nil, err
	}

	amount := req.Amount
	metadata := map[string]string{
		"event_id": strconv.FormatInt(req.EventID, 10),
		"user_id":  strconv.FormatInt(userID, 10),
	}

	switch {
	case req.RequestID != nil:
		// Approved vendor requests may be settled by either party running
		// the event
		if !CanReviewWork(actor, event) {
			return nil, apperrors.Forbidden("only the event owner or organizer can settle vendor requests")
		}

		request, err := s.requestStore.GetByID(ctx, *req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to get request: %w", err)
		}
		if request == nil {
			return nil, apperrors.NotFound("payment request %d not found", *req.RequestID)
		}
		if request.EventID != req.EventID {
			return nil, apperrors.Validation("payment request %d does not belong to event %d", *req.RequestID, req.EventID)
		}
		if request.Status != models.RequestStatusApproved {
			return nil, apperrors.InvalidState("payment request %d is not approved", *req.RequestID)
		}
		amount = request.Amount
		metadata["request_id"] = strconv.FormatInt(*req.RequestID, 10)

	case req.OrganizerRequestID != nil:
		// The organizer fee only ever comes out of the owner's pocket
		if !CanSettle(actor, event) {
			return nil, apperrors.Forbidden("only the event owner can settle organizer requests")
		}

		request, err := s.requestStore.GetOrganizerRequestByID(ctx, *req.OrganizerRequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to get organizer request: %w", err)
		}
		if request == nil {
			return nil, apperrors.NotFound("organizer request %d not found", *req.OrganizerRequestID)
		}
		if request.EventID != req.EventID {
			return nil, apperrors.Validation("organizer request %d does not belong to event %d", *req.OrganizerRequestID, req.EventID)
		}
		if request.Status != models.RequestStatusPending {
			return nil, apperrors.InvalidState("organizer request %d is not pending", *req.OrganizerRequestID)
		}
		amount = request.Amount
		metadata["organizer_request_id"] = strconv.FormatInt(*req.OrganizerRequestID, 10)

	default:
		// Direct deposit with no request attached
		if !CanSettle(actor, event) {
			return nil, apperrors.Forbidden("only the event owner can make deposits")
		}
	}

	if amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}

	payment := &models.Payment{
		EventID:       req.EventID,
		Amount:        amount,
		Currency:      "USD",
		Status:        models.PaymentStatusPending,
		PaymentMethod: "card",
	}
	if err := s.paymentStore.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	metadata["payment_id"] = strconv.FormatInt(payment.ID, 10)

	intent, err := s.settlementClient.CreateIntent(external.CreateIntentParams{
		AmountMinor: int64(math.Round(amount * 100)),
		Currency:    "usd",
		Metadata:    metadata,
	})
	if err != nil {
		if markErr := s.paymentStore.MarkFailed(ctx, payment.ID); markErr != nil {
			logger.WithContext(ctx).Error("Failed to mark payment failed",
				"error", markErr,
				"payment_id", payment.ID)
		}
		return nil, apperrors.Upstream("payment processor unavailable")
	}

	if err := s.paymentStore.SetTransactionID(ctx, payment.ID, intent.ID); err != nil {
		return nil, fmt.Errorf("failed to link payment to intent: %w", err)
	}

	if s.natsClient != nil {
		eventData := models.PaymentLifecycleEvent{
			PaymentID:          payment.ID,
			EventID:            req.EventID,
			Amount:             amount,
			RequestID:          req.RequestID,
			OrganizerRequestID: req.OrganizerRequestID,
			Timestamp:          time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectPaymentInitiated, eventData); err != nil {
			// Log error but don't fail the operation
			logger.WithContext(ctx).Error("Failed to publish payment initiated event",
				"error", err,
				"payment_id", payment.ID)
		}
	}

	return &models.CreateIntentResponse{
		ClientSecret: intent.ClientSecret,
		PaymentID:    payment.ID,
	}, nil
}

// HandleWebhook processes a processor callback. The signature must verify
// before any state changes; unknown event types are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.settlementClient.VerifyWebhookSignature(payload, signature) {
		return apperrors.Unauthorized("invalid webhook signature")
	}

	event, err := external.ParseWebhookEvent(payload)
	if err != nil {
		return apperrors.Validation("malformed webhook payload")
	}

	switch event.Type {
	case external.WebhookIntentSucceeded:
		return s.reconcileSucceeded(ctx, &event.Data.Object)
	case external.WebhookIntentFailed:
		return s.reconcileFailed(ctx, &event.Data.Object)
	default:
		logger.WithContext(ctx).Info("Ignoring webhook event", "type", event.Type)
		return nil
	}
}

// ManualVerify re-checks an intent with the processor, covering lost
// webhooks. Safe to call repeatedly.
func (s *PaymentService) ManualVerify(ctx context.Context, intentID string) (*models.Payment, error) {
	intent, err := s.settlementClient.RetrieveIntent(intentID)
	if err != nil {
		return nil, apperrors.Upstream("failed to retrieve intent from processor")
	}

	switch intent.Status {
	case external.IntentSucceeded:
		if err := s.reconcileSucceeded(ctx, intent); err != nil {
			return nil, err
		}
	case external.IntentFailed:
		if err := s.reconcileFailed(ctx, intent); err != nil {
			return nil, err
		}
	}

	payment, err := s.paymentStore.GetByTransactionID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return nil, apperrors.NotFound("no payment for intent %s", intentID)
	}
	return payment, nil
}

// reconcileSucceeded marks the payment completed and flips the linked
// request to paid. Duplicate deliveries are absorbed: an already completed
// payment returns success with no further side effects.
func (s *PaymentService) reconcileSucceeded(ctx context.Context, intent *external.Intent) error {
	payment, err := s.paymentStore.GetByTransactionID(ctx, intent.ID)
	if err != nil {
		return fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return apperrors.NotFound("no payment for intent %s", intent.ID)
	}

	if payment.Status == models.PaymentStatusCompleted {
		return nil
	}
	if !models.CanTransitionPaymentStatus(payment.Status, models.PaymentStatusCompleted) {
		return apperrors.InvalidState("payment %d cannot complete from %s", payment.ID, payment.Status)
	}

	requestID := parseMetadataID(intent.Metadata, "request_id")
	organizerRequestID := parseMetadataID(intent.Metadata, "organizer_request_id")

	err = s.paymentStore.Settle(ctx, repository.SettleParams{
		PaymentID:          payment.ID,
		RequestID:          requestID,
		OrganizerRequestID: organizerRequestID,
	})
	if err != nil {
		return fmt.Errorf("failed to settle payment: %w", err)
	}

	event, err := s.eventStore.GetByID(ctx, payment.EventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event != nil {
		s.notifier.Notify(ctx, event.UserID,
			"Payment Verified",
			fmt.Sprintf("Your payment of $%.2f for %q was confirmed.", payment.Amount, event.Name),
			models.NotifySuccess,
			models.JSONMap{"event_id": event.ID, "payment_id": payment.ID})

		if requestID != nil {
			if request, err := s.requestStore.GetByID(ctx, *requestID); err == nil && request != nil {
				s.notifier.Notify(ctx, request.VendorID,
					"Payment Received",
					fmt.Sprintf("You received $%.2f for %q.", request.Amount, event.Name),
					models.NotifySuccess,
					models.JSONMap{"event_id": event.ID, "request_id": *requestID})
			}
		}
		if organizerRequestID != nil {
			if request, err := s.requestStore.GetOrganizerRequestByID(ctx, *organizerRequestID); err == nil && request != nil {
				s.notifier.Notify(ctx, request.OrganizerID,
					"Payment Received",
					fmt.Sprintf("You received $%.2f for %q.", request.Amount, event.Name),
					models.NotifySuccess,
					models.JSONMap{"event_id": event.ID, "organizer_request_id": *organizerRequestID})
			}
		}
	}

	if s.natsClient != nil {
		eventData := models.PaymentLifecycleEvent{
			PaymentID:          payment.ID,
			EventID:            payment.EventID,
			Amount:             payment.Amount,
			RequestID:          requestID,
			OrganizerRequestID: organizerRequestID,
			Timestamp:          time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectPaymentCompleted, eventData); err != nil {
			// Log error but don't fail the operation
			logger.WithContext(ctx).Error("Failed to publish payment completed event",
				"error", err,
				"payment_id", payment.ID)
		}
	}

	return nil
}

// reconcileFailed records the failure. Failed attempts never count toward
// the event's paid total.
func (s *PaymentService) reconcileFailed(ctx context.Context, intent *external.Intent) error {
	payment, err := s.paymentStore.GetByTransactionID(ctx, intent.ID)
	if err != nil {
		return fmt.Errorf("failed to get payment: %w", err)
	}
	if payment == nil {
		return apperrors.NotFound("no payment for intent %s", intent.ID)
	}

	if payment.Status != models.PaymentStatusPending {
		return nil
	}

	if err := s.paymentStore.MarkFailed(ctx, payment.ID); err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}

	event, err := s.eventStore.GetByID(ctx, payment.EventID)
	if err == nil && event != nil {
		s.notifier.Notify(ctx, event.UserID,
			"Payment Failed",
			fmt.Sprintf("Your payment of $%.2f for %q did not go through.", payment.Amount, event.Name),
			models.NotifyWarning,
			models.JSONMap{"event_id": event.ID, "payment_id": payment.ID})
	}

	if s.natsClient != nil {
		eventData := models.PaymentLifecycleEvent{
			PaymentID: payment.ID,
			EventID:   payment.EventID,
			Amount:    payment.Amount,
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectPaymentFailed, eventData); err != nil {
			// Log error but don't fail the operation
			logger.WithContext(ctx).Error("Failed to publish payment failed event",
				"error", err,
				"payment_id", payment.ID)
		}
	}

	return nil
}

// ListVendorRequests returns the vendor's own requests
func (s *PaymentService) ListVendorRequests(ctx context.Context, vendorID int64) ([]models.PaymentRequest, error) {
	requests, err := s.requestStore.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// ListManagedRequests returns requests across every event the user manages
func (s *PaymentService) ListManagedRequests(ctx context.Context, userID int64) ([]models.PaymentRequest, error) {
	requests, err := s.requestStore.ListForManager(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

// ListOrganizerRequests returns organizer requests relevant to the caller:
// filed by them as organizer, or filed against their owned events
func (s *PaymentService) ListOrganizerRequests(ctx context.Context, userID int64) ([]models.OrganizerPaymentRequest, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("user %d not found", userID)
	}

	if user.Role == models.RoleOrganizer {
		requests, err := s.requestStore.ListOrganizerRequestsByOrganizer(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list organizer requests: %w", err)
		}
		return requests, nil
	}

	requests, err := s.requestStore.ListOrganizerRequestsForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer requests: %w", err)
	}
	return requests, nil
}

// ListEventPayments returns the settlement attempts on an event, owner only
func (s *PaymentService) ListEventPayments(ctx context.Context, userID, eventID int64) ([]models.Payment, error) {
	actor, event, err := s.loadActorAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if !CanSettle(actor, event) {
		return nil, apperrors.Forbidden("only the event owner can view payments")
	}

	payments, err := s.paymentStore.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentService) loadActorAndEvent(ctx context.Context, userID, eventID int64) (*models.User, *models.Event, error) {
	actor, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if actor == nil {
		return nil, nil, apperrors.Unauthorized("user %d not found", userID)
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, nil, apperrors.NotFound("event %d not found", eventID)
	}

	return actor, event, nil
}

func parseMetadataID(metadata map[string]string, key string) *int64 {
	raw, ok := metadata[key]
	if !ok || raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
