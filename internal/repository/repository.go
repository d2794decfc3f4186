package repository

import (
	"eventify/internal/database"
)

type Repositories struct {
	Users         *UserRepository
	Events        *EventRepository
	Assignments   *AssignmentRepository
	Verifications *VerificationRepository
	Requests      *RequestRepository
	Payments      *PaymentRepository
	Notifications *NotificationRepository
	Chat          *ChatRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Events:        NewEventRepository(db),
		Assignments:   NewAssignmentRepository(db),
		Verifications: NewVerificationRepository(db),
		Requests:      NewRequestRepository(db),
		Payments:      NewPaymentRepository(db),
		Notifications: NewNotificationRepository(db),
		Chat:          NewChatRepository(db),
	}
}
