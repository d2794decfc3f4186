package service

import (
	"context"
	"fmt"

	apperrors "eventify/internal/errors"
	"eventify/internal/models"
)

type ChatService struct {
	chatStore       ChatStore
	eventStore      EventStore
	assignmentStore AssignmentStore
	notifier        *NotificationService
}

func NewChatService(
	chatStore ChatStore,
	eventStore EventStore,
	assignmentStore AssignmentStore,
	notifier *NotificationService,
) *ChatService {
	return &ChatService{
		chatStore:       chatStore,
		eventStore:      eventStore,
		assignmentStore: assignmentStore,
		notifier:        notifier,
	}
}

// Send posts an event-scoped message. Both parties must be involved with the
// event: owner, delegated organizer, or assigned vendor.
func (s *ChatService) Send(ctx context.Context, senderID int64, req *models.SendMessageRequest) (*models.ChatMessage, error) {
	if senderID == req.ReceiverID {
		return nil, apperrors.Validation("cannot message yourself")
	}

	event, err := s.eventStore.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.NotFound("event %d not found", req.EventID)
	}

	for _, userID := range []int64{senderID, req.ReceiverID} {
		involved, err := s.isInvolved(ctx, userID, event)
		if err != nil {
			return nil, err
		}
		if !involved {
			return nil, apperrors.Forbidden("user %d is not involved with event %d", userID, req.EventID)
		}
	}

	msg := &models.ChatMessage{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		EventID:    req.EventID,
		Message:    req.Message,
	}
	if err := s.chatStore.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.notifier.Notify(ctx, req.ReceiverID,
		"New Message",
		fmt.Sprintf("You have a new message about %q.", event.Name),
		models.NotifyChat,
		models.JSONMap{"sender_id": senderID, "event_id": req.EventID})

	return msg, nil
}

// ListThread returns the caller's thread for one event
func (s *ChatService) ListThread(ctx context.Context, userID, eventID int64) ([]models.ChatMessage, error) {
	messages, err := s.chatStore.ListByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *ChatService) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	conversations, err := s.chatStore.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// MarkRead marks the caller's incoming messages for an event as read
func (s *ChatService) MarkRead(ctx context.Context, userID, eventID int64) error {
	if err := s.chatStore.MarkRead(ctx, eventID, userID); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

func (s *ChatService) isInvolved(ctx context.Context, userID int64, event *models.Event) (bool, error) {
	if event.UserID == userID {
		return true, nil
	}
	if event.OrganizerID != nil && *event.OrganizerID == userID {
		return true, nil
	}

	assigned, err := s.assignmentStore.IsAssigned(ctx, userID, event.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return assigned, nil
}
