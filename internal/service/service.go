package service

import (
	"eventify/internal/cache"
	"eventify/internal/repository"
)

type Services struct {
	Auth          *AuthService
	Events        *EventService
	Vendors       *VendorService
	Payments      *PaymentService
	Chat          *ChatService
	Notifications *NotificationService
}

// NewServices wires the service graph. natsClient, settlementClient,
// suggestionClient, redisClient and vendorIndex may be nil; the affected
// features degrade instead of failing startup.
func NewServices(
	repos *repository.Repositories,
	natsClient Publisher,
	settlementClient SettlementGateway,
	suggestionClient SuggestionProvider,
	redisClient *cache.RedisClient,
	vendorIndex VendorIndex,
	jwtSecret string,
) *Services {
	notifications := NewNotificationService(repos.Notifications, natsClient)

	return &Services{
		Auth: NewAuthService(repos.Users, jwtSecret, vendorIndex),
		Events: NewEventService(
			repos.Events,
			repos.Users,
			repos.Assignments,
			repos.Payments,
			suggestionClient,
			notifications,
			natsClient,
		),
		Vendors: NewVendorService(
			repos.Users,
			repos.Events,
			repos.Assignments,
			repos.Verifications,
			notifications,
			natsClient,
			redisClient,
			vendorIndex,
		),
		Payments: NewPaymentService(
			repos.Users,
			repos.Events,
			repos.Assignments,
			repos.Verifications,
			repos.Requests,
			repos.Payments,
			settlementClient,
			notifications,
			natsClient,
		),
		Chat: NewChatService(
			repos.Chat,
			repos.Events,
			repos.Assignments,
			notifications,
		),
		Notifications: notifications,
	}
}
