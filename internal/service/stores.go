package service

import (
	"context"

	"eventify/internal/external"
	"eventify/internal/models"
	"eventify/internal/repository"
)

// Store interfaces the services depend on. The repository package provides
// the Postgres implementations; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListVendors(ctx context.Context, city, category string) ([]models.VendorView, error)
	GetVendorView(ctx context.Context, id int64) (*models.VendorView, error)
	ListOrganizers(ctx context.Context) ([]models.User, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, eventID int64) error
	ListByOwner(ctx context.Context, userID int64) ([]models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error)
	SetOrganizer(ctx context.Context, eventID, organizerID int64) error
	SetOrganizerStatus(ctx context.Context, eventID int64, status string) error
}

type AssignmentStore interface {
	Assign(ctx context.Context, vendorID, eventID int64) (bool, error)
	Unassign(ctx context.Context, vendorID, eventID int64) (bool, error)
	IsAssigned(ctx context.Context, vendorID, eventID int64) (bool, error)
	Complete(ctx context.Context, vendorID, eventID int64) (bool, error)
	IsCompleted(ctx context.Context, vendorID, eventID int64) (bool, error)
	ListVendorsByEvent(ctx context.Context, eventID int64) ([]models.VendorView, error)
	ListVendorIDsByEvent(ctx context.Context, eventID int64) ([]int64, error)
	ListEventsByVendor(ctx context.Context, vendorID int64) ([]models.AssignedEventView, error)
}

type VerificationStore interface {
	Create(ctx context.Context, v *models.VendorEventVerification) (bool, error)
	Exists(ctx context.Context, eventID, vendorID int64) (bool, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.VendorEventVerification, error)
}

type RequestStore interface {
	Create(ctx context.Context, req *models.PaymentRequest) error
	GetByID(ctx context.Context, id int64) (*models.PaymentRequest, error)
	HasActiveRequest(ctx context.Context, vendorID, eventID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	ListByVendor(ctx context.Context, vendorID int64) ([]models.PaymentRequest, error)
	ListForManager(ctx context.Context, userID int64) ([]models.PaymentRequest, error)

	CreateOrganizerRequest(ctx context.Context, req *models.OrganizerPaymentRequest) error
	GetOrganizerRequestByID(ctx context.Context, id int64) (*models.OrganizerPaymentRequest, error)
	HasPendingOrganizerRequest(ctx context.Context, organizerID, eventID int64) (bool, error)
	HasPaidOrganizerRequest(ctx context.Context, organizerID, eventID int64) (bool, error)
	UpdateOrganizerRequestStatus(ctx context.Context, id int64, status string) error
	ListOrganizerRequestsForOwner(ctx context.Context, ownerID int64) ([]models.OrganizerPaymentRequest, error)
	ListOrganizerRequestsByOrganizer(ctx context.Context, organizerID int64) ([]models.OrganizerPaymentRequest, error)
}

type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.Payment, error)
	SumCompletedByEvent(ctx context.Context, eventID int64) (float64, error)
	SetTransactionID(ctx context.Context, id int64, transactionID string) error
	MarkFailed(ctx context.Context, id int64) error
	Settle(ctx context.Context, params repository.SettleParams) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

type ChatStore interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	ListByEventAndUser(ctx context.Context, eventID, userID int64) ([]models.ChatMessage, error)
	ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error)
	MarkRead(ctx context.Context, eventID, userID int64) error
}

// Publisher is the messaging fan-out, satisfied by messaging.NATSClient
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// SettlementGateway is the external payment processor, satisfied by
// external.SettlementClient
type SettlementGateway interface {
	CreateIntent(params external.CreateIntentParams) (*external.Intent, error)
	RetrieveIntent(intentID string) (*external.Intent, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
}

// SuggestionProvider generates planning suggestions, satisfied by
// external.SuggestionClient
type SuggestionProvider interface {
	Enabled() bool
	Suggest(category string, budget float64) ([]string, error)
}

// VendorIndex is the search-side projection of the vendor directory,
// satisfied by search.ElasticsearchClient. Postgres stays the source of
// truth; index writes are best-effort.
type VendorIndex interface {
	IndexVendor(ctx context.Context, vendor *models.VendorView) error
	SearchVendors(ctx context.Context, query, city, category string, limit int) ([]models.VendorView, error)
	DeleteVendor(ctx context.Context, id int64) error
}
