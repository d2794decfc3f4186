package service

import (
	"context"
	"fmt"
	"time"

	apperrors "eventify/internal/errors"
	"eventify/internal/logger"
	"eventify/internal/models"
)

// NotificationService appends durable, user-addressed notifications and fans
// them out over messaging. Appends are best-effort from the caller's point of
// view: a failed insert never fails the workflow transition that caused it.
type NotificationService struct {
	notificationStore NotificationStore
	natsClient        Publisher
}

func NewNotificationService(notificationStore NotificationStore, natsClient Publisher) *NotificationService {
	return &NotificationService{
		notificationStore: notificationStore,
		natsClient:        natsClient,
	}
}

// Notify appends a notification and publishes it. Errors are logged, not
// returned.
func (s *NotificationService) Notify(ctx context.Context, userID int64, title, message, ntype string, extra models.JSONMap) {
	n := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      ntype,
		ExtraData: extra,
	}

	if err := s.notificationStore.Create(ctx, n); err != nil {
		logger.WithContext(ctx).Error("Failed to store notification",
			"error", err,
			"user_id", userID,
			"title", title)
		return
	}

	if s.natsClient != nil {
		payload := map[string]any{
			"notification_id": n.ID,
			"user_id":         userID,
			"title":           title,
			"type":            ntype,
			"timestamp":       time.Now(),
		}
		if err := s.natsClient.Publish(models.SubjectNotificationAdded, payload); err != nil {
			// Log error but don't fail the operation
			logger.WithContext(ctx).Error("Failed to publish notification event",
				"error", err,
				"notification_id", n.ID)
		}
	}
}

func (s *NotificationService) List(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	notifications, err := s.notificationStore.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID int64) (int, error) {
	count, err := s.notificationStore.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips one notification owned by the caller
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	ok, err := s.notificationStore.MarkRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return apperrors.NotFound("notification %d not found", id)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.notificationStore.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
